package mechanisms

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rivalapexmediation/auctionengine/internal/ids"
	"github.com/rivalapexmediation/auctionengine/internal/rng"
	"github.com/rivalapexmediation/auctionengine/internal/types"
)

// EnglishConfig configures an ascending-price open-outcry auction (§4.2.4).
type EnglishConfig struct {
	Core             CoreConfig
	StartingPrice    decimal.Decimal
	Increment        decimal.Decimal
	InactiveDuration time.Duration
}

// English accepts a raising bid only once it clears the current price by
// at least Increment, and finalizes once InactiveDuration passes without
// a new leading bid.
type English struct {
	core CoreConfig
	cfg  EnglishConfig

	currentPrice  decimal.Decimal
	currentLeader types.Bid
	hasLeader     bool
	lastBidTime   types.Timestamp
	bids          []types.Bid
}

// NewEnglish constructs an English mechanism.
func NewEnglish(cfg EnglishConfig) *English {
	return &English{cfg: cfg, core: cfg.Core}
}

func (*English) Tag() Tag { return TagEnglish }

func (e *English) Init(now types.Timestamp, _ *rng.Source) {
	e.currentPrice = e.cfg.StartingPrice
	e.lastBidTime = now
}

func (e *English) minAcceptable() decimal.Decimal {
	return e.currentPrice.Add(e.cfg.Increment)
}

func (e *English) ValidateBid(bid types.Bid, _ types.Timestamp) error {
	if bid.Amount.LessThan(e.minAcceptable()) {
		return types.ErrBelowReserve
	}
	return nil
}

func (e *English) Accept(bid types.Bid, now types.Timestamp) bool {
	if bid.Amount.LessThan(e.minAcceptable()) {
		return false
	}
	e.bids = append(e.bids, bid)
	e.currentPrice = bid.Amount
	e.currentLeader = bid
	e.hasLeader = true
	e.lastBidTime = now
	return false
}

func (e *English) ReadyToFinalize(now types.Timestamp) bool {
	if !e.hasLeader {
		return false
	}
	return now.Sub(e.lastBidTime) > e.cfg.InactiveDuration
}

func (e *English) Bids() []types.Bid { return e.bids }

// LiveState reports the current asking price and leading bidder, if any.
func (e *English) LiveState() LivePriceState {
	state := LivePriceState{CurrentPrice: e.currentPrice, HasLeader: e.hasLeader}
	if e.hasLeader {
		state.CurrentLeader = e.currentLeader.BidderID
	}
	return state
}

func (e *English) Finalize(auctionID ids.Identifier, now types.Timestamp, _ *rng.Source) (types.AuctionResult, error) {
	if !e.hasLeader {
		return emptyAuctionResult(auctionID, e.cfg.StartingPrice, now), nil
	}

	winners := []types.Bid{e.currentLeader}
	return types.AuctionResult{
		AuctionID:     auctionID,
		ClearingPrice: e.currentPrice,
		Winners:       winnerIDs(winners),
		Allocations:   allocateQuantities(winners, e.core.MaxQuantity),
		Payments:      map[ids.Identifier]decimal.Decimal{e.currentLeader.BidderID: e.currentPrice},
		Timestamp:     now,
	}, nil
}
