package actor

import (
	"github.com/rivalapexmediation/auctionengine/internal/mechanisms"
	"github.com/rivalapexmediation/auctionengine/internal/types"
)

// BidMessage submits a bid to the auction's mailbox.
type BidMessage struct {
	Bid   types.Bid
	Reply chan error
}

// FinalizeMessage requests finalization. Idempotent: once the auction is
// completed or cancelled, resending it returns the cached outcome.
type FinalizeMessage struct {
	Reply chan FinalizeReply
}

// FinalizeReply carries the finalize outcome.
type FinalizeReply struct {
	Result types.AuctionResult
	Err    error
}

// QueryMessage asks for a point-in-time snapshot of the auction state.
type QueryMessage struct {
	Reply chan types.AuctionState
}

// CancelMessage cancels the auction, regardless of mechanism state.
type CancelMessage struct {
	Reason string
	Reply  chan error
}

// UpdateConfigMessage mutates the mechanism's core configuration while
// the auction is still pending.
type UpdateConfigMessage struct {
	Core  mechanisms.CoreConfig
	Reply chan error
}

// StateSnapshotMessage is identical to QueryMessage but additionally
// reports the auction's backing mechanism tag, used by the controller
// when propagating results across workflow nodes.
type StateSnapshotMessage struct {
	Reply chan StateSnapshot
}

// StateSnapshot is the reply payload for StateSnapshotMessage.
type StateSnapshot struct {
	State types.AuctionState
	Tag   mechanisms.Tag
}
