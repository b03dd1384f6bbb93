// Package mechanisms implements the mechanism kernel (C3): the
// per-mechanism clearing, allocation and payment functions, and the
// open-outcry state machines (Dutch, English, Japanese, candle, penny).
package mechanisms

import (
	"github.com/shopspring/decimal"

	"github.com/rivalapexmediation/auctionengine/internal/ids"
	"github.com/rivalapexmediation/auctionengine/internal/rng"
	"github.com/rivalapexmediation/auctionengine/internal/types"
)

// Tag identifies a mechanism kind.
type Tag string

const (
	TagFirstPrice    Tag = "first_price"
	TagSecondPrice   Tag = "second_price"
	TagDutch         Tag = "dutch"
	TagEnglish       Tag = "english"
	TagJapanese      Tag = "japanese"
	TagCandle        Tag = "candle"
	TagPenny         Tag = "penny"
	TagAllPay        Tag = "all_pay"
	TagDouble        Tag = "double"
	TagCombinatorial Tag = "combinatorial"
)

// CoreConfig is the set of options every mechanism accepts (§6).
type CoreConfig struct {
	ReservePrice decimal.Decimal
	TieBreaking  types.TieBreakingPolicy
	MaxQuantity  int
	StartTime    types.Timestamp
	EndTime      types.Timestamp
}

// Mechanism is the contract every auction mechanism satisfies: the three
// pure clearing functions of §4.2, composed by Finalize, plus the hooks
// an open-outcry state machine needs as bids arrive and wall-clock time
// progresses.
type Mechanism interface {
	Tag() Tag

	// Init seeds mechanism-specific live state (current price, leader,
	// sampled candle duration...) ahead of the first bid.
	Init(now types.Timestamp, r *rng.Source)

	// ValidateBid applies mechanism-specific acceptance rules beyond the
	// actor's generic status/reserve/timing checks (English's minimum
	// increment, Japanese's affirm-the-current-level rule). A nil
	// return means the bid is acceptable to this mechanism.
	ValidateBid(bid types.Bid, now types.Timestamp) error

	// Accept folds an already-validated bid into live state and reports
	// whether it triggers immediate clearing (Dutch demand reaching
	// max_quantity, a penny timeout elapsing is handled via
	// ReadyToFinalize instead since it needs no new bid).
	Accept(bid types.Bid, now types.Timestamp) (triggersClearing bool)

	// ReadyToFinalize reports whether wall-clock progression alone
	// should trigger finalization (English/Japanese/penny inactivity,
	// an elapsed candle duration).
	ReadyToFinalize(now types.Timestamp) bool

	// Finalize computes the clearing price, allocation and payments over
	// the bids accepted so far and returns the AuctionResult.
	Finalize(auctionID ids.Identifier, now types.Timestamp, r *rng.Source) (types.AuctionResult, error)

	// Bids returns every bid Accept has folded in so far, in arrival
	// order. Used by tests; the actor's state snapshot reads its own
	// AuctionState.CurrentBids instead.
	Bids() []types.Bid
}

// LivePriceState is the point-in-time announced price and leading bidder
// of an open-outcry mechanism, reported via query_status.
type LivePriceState struct {
	CurrentPrice  decimal.Decimal
	CurrentLeader ids.Identifier
	HasLeader     bool
}

// LiveStateReporter is implemented by the open-outcry mechanisms (dutch,
// english, japanese, penny) that carry a meaningful running price; sealed
// mechanisms never implement it, and query_status reports a zero
// LivePriceState for them.
type LiveStateReporter interface {
	LiveState() LivePriceState
}
