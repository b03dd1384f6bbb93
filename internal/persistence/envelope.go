// Package persistence provides an optional Redis-backed snapshot and
// replay adapter for the event log. The engine's core stays in-memory;
// this package only exists so a deployment can persist/restore a log
// across process restarts.
package persistence

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rivalapexmediation/auctionengine/internal/eventlog"
	"github.com/rivalapexmediation/auctionengine/internal/types"
)

// ErrNoSnapshot is returned by Store.Restore when no snapshot exists for
// the requested auction.
var ErrNoSnapshot = errors.New("persistence: no snapshot for auction")

// envelope is a tagged-union JSON encoding of a types.Event, since the
// interface itself carries no discriminator encoding/json can use.
type envelope struct {
	Kind types.EventKind `json:"kind"`

	BidSubmitted     *types.BidSubmittedEvent     `json:"bid_submitted,omitempty"`
	BidRejected      *types.BidRejectedEvent      `json:"bid_rejected,omitempty"`
	AuctionStarted   *types.AuctionStartedEvent   `json:"auction_started,omitempty"`
	AuctionFinalized *types.AuctionFinalizedEvent `json:"auction_finalized,omitempty"`
	AuctionCancelled *types.AuctionCancelledEvent `json:"auction_cancelled,omitempty"`
}

func encodeEvent(event types.Event) envelope {
	env := envelope{Kind: event.Kind()}
	switch e := event.(type) {
	case types.BidSubmittedEvent:
		env.BidSubmitted = &e
	case types.BidRejectedEvent:
		env.BidRejected = &e
	case types.AuctionStartedEvent:
		env.AuctionStarted = &e
	case types.AuctionFinalizedEvent:
		env.AuctionFinalized = &e
	case types.AuctionCancelledEvent:
		env.AuctionCancelled = &e
	}
	return env
}

func (env envelope) decode() (types.Event, error) {
	switch env.Kind {
	case types.EventBidSubmitted:
		if env.BidSubmitted == nil {
			return nil, fmt.Errorf("persistence: missing bid_submitted payload")
		}
		return *env.BidSubmitted, nil
	case types.EventBidRejected:
		if env.BidRejected == nil {
			return nil, fmt.Errorf("persistence: missing bid_rejected payload")
		}
		return *env.BidRejected, nil
	case types.EventAuctionStarted:
		if env.AuctionStarted == nil {
			return nil, fmt.Errorf("persistence: missing auction_started payload")
		}
		return *env.AuctionStarted, nil
	case types.EventAuctionFinalized:
		if env.AuctionFinalized == nil {
			return nil, fmt.Errorf("persistence: missing auction_finalized payload")
		}
		return *env.AuctionFinalized, nil
	case types.EventAuctionCancelled:
		if env.AuctionCancelled == nil {
			return nil, fmt.Errorf("persistence: missing auction_cancelled payload")
		}
		return *env.AuctionCancelled, nil
	default:
		return nil, fmt.Errorf("persistence: unknown event kind %q", env.Kind)
	}
}

// serializedEntry is the on-wire form of an eventlog.LogEntry.
type serializedEntry struct {
	EntryID      string   `json:"entry_id"`
	AuctionID    string   `json:"auction_id"`
	Timestamp    int64    `json:"timestamp_unix_nano"`
	EventHash    [32]byte `json:"event_hash"`
	PreviousHash [32]byte `json:"previous_hash"`
	Event        envelope `json:"event"`
}

func encodeEntries(entries []eventlog.LogEntry) ([]byte, error) {
	out := make([]serializedEntry, len(entries))
	for i, e := range entries {
		out[i] = serializedEntry{
			EntryID:      e.EntryID.String(),
			AuctionID:    e.AuctionID.String(),
			Timestamp:    e.Timestamp.Time().UnixNano(),
			EventHash:    e.EventHash,
			PreviousHash: e.PreviousHash,
			Event:        encodeEvent(e.Event),
		}
	}
	return json.Marshal(out)
}

func unmarshalSerializedEntries(data []byte) ([]serializedEntry, error) {
	var out []serializedEntry
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
