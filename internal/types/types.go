// Package types holds the value types shared across the engine: bids,
// bidders, auction results and mutable auction state. Nothing in this
// package owns concurrency — ownership rules live with the actor and
// controller packages that hold these values.
package types

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rivalapexmediation/auctionengine/internal/ids"
)

// Timestamp is a monotonic-acceptable wall-clock instant. Now rounds it
// to millisecond resolution; direct conversions keep the source precision.
type Timestamp time.Time

// Now returns the current instant at millisecond resolution.
func Now() Timestamp {
	return Timestamp(time.Now().Round(time.Millisecond))
}

func (t Timestamp) Time() time.Time               { return time.Time(t) }
func (t Timestamp) Before(o Timestamp) bool       { return time.Time(t).Before(time.Time(o)) }
func (t Timestamp) After(o Timestamp) bool        { return time.Time(t).After(time.Time(o)) }
func (t Timestamp) Sub(o Timestamp) time.Duration { return time.Time(t).Sub(time.Time(o)) }

// Metadata carries mechanism-specific bid extensions (`bundle`, `is_buy`,
// ...) alongside arbitrary caller-supplied string-keyed values.
type Metadata map[string]any

// Clone returns a shallow copy so callers can't mutate a stored Bid's
// metadata out from under the actor that owns it.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Bid is immutable once constructed.
type Bid struct {
	ID        ids.Identifier
	BidderID  ids.Identifier
	Amount    decimal.Decimal
	Quantity  int
	Timestamp Timestamp
	Metadata  Metadata
}

// Bundle returns the set of item identifiers carried under the
// combinatorial-auction `bundle` metadata key, if present.
func (b Bid) Bundle() []string {
	raw, ok := b.Metadata["bundle"]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// IsBuy returns the double-auction `is_buy` metadata flag, defaulting to
// false (a sell) when absent.
func (b Bid) IsBuy() bool {
	raw, ok := b.Metadata["is_buy"]
	if !ok {
		return false
	}
	v, _ := raw.(bool)
	return v
}

// NewBid constructs a Bid with a fresh identifier and a normalized
// (cloned) metadata map.
func NewBid(bidderID ids.Identifier, amount decimal.Decimal, quantity int, ts Timestamp, meta Metadata) Bid {
	return Bid{
		ID:        ids.New(),
		BidderID:  bidderID,
		Amount:    amount,
		Quantity:  quantity,
		Timestamp: ts,
		Metadata:  meta.Clone(),
	}
}

// Bidder is declarative input; the core never mutates it.
type Bidder struct {
	ID          ids.Identifier
	DisplayName string
	Budget      decimal.Decimal
	Valuation   decimal.Decimal
	Strategy    string
	Metadata    Metadata
}

// TieBreakingPolicy selects how equal-top bids at the margin are resolved.
type TieBreakingPolicy string

const (
	TieBreakRandom       TieBreakingPolicy = "random"
	TieBreakFirstCome    TieBreakingPolicy = "first_come"
	TieBreakProportional TieBreakingPolicy = "proportional"
)

// AuctionStatus is the lifecycle state of one auction actor.
type AuctionStatus string

const (
	StatusPending    AuctionStatus = "pending"
	StatusActive     AuctionStatus = "active"
	StatusFinalizing AuctionStatus = "finalizing"
	StatusCompleted  AuctionStatus = "completed"
	StatusCancelled  AuctionStatus = "cancelled"
)

// CanTransitionTo enforces the state machine of §4.3:
// pending -> active -> finalizing -> completed
// pending -> finalizing (finalize requested before start)
// pending | active | finalizing -> cancelled
// No transition escapes completed or cancelled.
func (s AuctionStatus) CanTransitionTo(next AuctionStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusActive || next == StatusCancelled || next == StatusFinalizing
	case StatusActive:
		return next == StatusFinalizing || next == StatusCancelled
	case StatusFinalizing:
		return next == StatusCompleted || next == StatusCancelled
	case StatusCompleted, StatusCancelled:
		return false
	default:
		return false
	}
}

// Allocation expresses a winner's quantity or fraction of the auctioned
// good.
type Allocation struct {
	Quantity decimal.Decimal
}

// AuctionResult is produced once by finalize and is thereafter read-only.
type AuctionResult struct {
	AuctionID     ids.Identifier
	ClearingPrice decimal.Decimal
	Winners       []ids.Identifier
	Allocations   map[ids.Identifier]Allocation
	Payments      map[ids.Identifier]decimal.Decimal
	Timestamp     Timestamp
	Metadata      Metadata
}

// Validate checks the invariant keys(payments) ⊆ keys(allocations) and
// every winner appears in both.
func (r AuctionResult) Validate() error {
	for _, w := range r.Winners {
		if _, ok := r.Allocations[w]; !ok {
			return ErrResultInvariant
		}
		if _, ok := r.Payments[w]; !ok {
			return ErrResultInvariant
		}
	}
	for bidder := range r.Payments {
		if _, ok := r.Allocations[bidder]; !ok {
			return ErrResultInvariant
		}
	}
	return nil
}

// AuctionState is mutable and owned by exactly one auction actor.
type AuctionState struct {
	AuctionID    ids.Identifier
	TypeTag      string
	Status       AuctionStatus
	CurrentBids  []Bid
	Participants map[ids.Identifier]Bidder
	StartTime    Timestamp
	EndTime      Timestamp
	ReservePrice decimal.Decimal
	Increment    decimal.Decimal
	ClearingRule string
	TieBreaking  TieBreakingPolicy
	MaxQuantity  int
	Result       *AuctionResult

	// Mechanism-specific live state is opaque to this package. The actor
	// fills it in snapshots with the mechanism's LiveState() value when the
	// mechanism reports one (nil otherwise); query_status type-asserts it.
	MechanismState any
}
