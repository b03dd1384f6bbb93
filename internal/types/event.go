package types

import (
	"github.com/shopspring/decimal"

	"github.com/rivalapexmediation/auctionengine/internal/ids"
)

// EventKind tags an Event's case, used for eventlog.QueryByType and for
// canonical serialization's fixed field order.
type EventKind string

const (
	EventBidSubmitted     EventKind = "BidSubmitted"
	EventBidRejected      EventKind = "BidRejected"
	EventAuctionStarted   EventKind = "AuctionStarted"
	EventAuctionFinalized EventKind = "AuctionFinalized"
	EventAuctionCancelled EventKind = "AuctionCancelled"
)

// Event is the tagged variant every log entry embeds. Every case carries
// the auction_id and timestamp common fields plus case-specific data.
type Event interface {
	Kind() EventKind
	EventAuctionID() ids.Identifier
	EventTimestamp() Timestamp
}

// header is embedded by every concrete Event case to satisfy the common
// auction_id/timestamp fields the data model requires.
type header struct {
	AuctionID ids.Identifier
	Timestamp Timestamp
}

func (h header) EventAuctionID() ids.Identifier { return h.AuctionID }
func (h header) EventTimestamp() Timestamp      { return h.Timestamp }

// BidSubmittedEvent records a bid that passed validation and was
// appended to current_bids.
type BidSubmittedEvent struct {
	header
	Bid Bid
}

func (BidSubmittedEvent) Kind() EventKind { return EventBidSubmitted }

// NewBidSubmitted constructs a BidSubmittedEvent.
func NewBidSubmitted(auctionID ids.Identifier, ts Timestamp, bid Bid) BidSubmittedEvent {
	return BidSubmittedEvent{header: header{AuctionID: auctionID, Timestamp: ts}, Bid: bid}
}

// BidRejectedEvent records a bid rejected by validation.
type BidRejectedEvent struct {
	header
	BidderID ids.Identifier
	Amount   decimal.Decimal
	Reason   string
}

func (BidRejectedEvent) Kind() EventKind { return EventBidRejected }

// NewBidRejected constructs a BidRejectedEvent.
func NewBidRejected(auctionID ids.Identifier, ts Timestamp, bidderID ids.Identifier, amount decimal.Decimal, reason string) BidRejectedEvent {
	return BidRejectedEvent{header: header{AuctionID: auctionID, Timestamp: ts}, BidderID: bidderID, Amount: amount, Reason: reason}
}

// AuctionStartedEvent records the pending -> active transition.
type AuctionStartedEvent struct {
	header
	TypeTag string
}

func (AuctionStartedEvent) Kind() EventKind { return EventAuctionStarted }

// NewAuctionStarted constructs an AuctionStartedEvent.
func NewAuctionStarted(auctionID ids.Identifier, ts Timestamp, typeTag string) AuctionStartedEvent {
	return AuctionStartedEvent{header: header{AuctionID: auctionID, Timestamp: ts}, TypeTag: typeTag}
}

// AuctionFinalizedEvent records a completed clearing.
type AuctionFinalizedEvent struct {
	header
	Result AuctionResult
}

func (AuctionFinalizedEvent) Kind() EventKind { return EventAuctionFinalized }

// NewAuctionFinalized constructs an AuctionFinalizedEvent.
func NewAuctionFinalized(auctionID ids.Identifier, ts Timestamp, result AuctionResult) AuctionFinalizedEvent {
	return AuctionFinalizedEvent{header: header{AuctionID: auctionID, Timestamp: ts}, Result: result}
}

// AuctionCancelledEvent records a cancellation, whether explicit or
// caused by an internal invariant violation.
type AuctionCancelledEvent struct {
	header
	Reason string
}

func (AuctionCancelledEvent) Kind() EventKind { return EventAuctionCancelled }

// NewAuctionCancelled constructs an AuctionCancelledEvent.
func NewAuctionCancelled(auctionID ids.Identifier, ts Timestamp, reason string) AuctionCancelledEvent {
	return AuctionCancelledEvent{header: header{AuctionID: auctionID, Timestamp: ts}, Reason: reason}
}
