package mechanisms

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rivalapexmediation/auctionengine/internal/ids"
	"github.com/rivalapexmediation/auctionengine/internal/rng"
	"github.com/rivalapexmediation/auctionengine/internal/types"
)

// CandleConfig configures a candle auction (§4.2.6): sealed-bid
// first-price, but the close time is a secret instant sampled once at
// start.
type CandleConfig struct {
	Core        CoreConfig
	MinDuration time.Duration
	MaxDuration time.Duration
	MaxWinners  int // defaults to 1
}

// Candle samples its own terminal instant at Init from
// [MinDuration, MaxDuration], never exposing it to bidders, then clears
// as a first-price auction over whatever bids arrived by that instant.
type Candle struct {
	sealedBase
	cfg     CandleConfig
	endTime types.Timestamp
}

// NewCandle constructs a Candle mechanism.
func NewCandle(cfg CandleConfig) *Candle {
	if cfg.MaxWinners <= 0 {
		cfg.MaxWinners = 1
	}
	c := &Candle{cfg: cfg}
	c.core = cfg.Core
	return c
}

func (*Candle) Tag() Tag { return TagCandle }

func (c *Candle) Init(now types.Timestamp, r *rng.Source) {
	span := c.cfg.MaxDuration - c.cfg.MinDuration
	offset := c.cfg.MinDuration
	if span > 0 {
		offset = c.cfg.MinDuration + time.Duration(r.Int63n(int64(span)))
	}
	c.endTime = types.Timestamp(now.Time().Add(offset))
}

func (c *Candle) ReadyToFinalize(now types.Timestamp) bool {
	return !now.Before(c.endTime)
}

func (c *Candle) Finalize(auctionID ids.Identifier, now types.Timestamp, r *rng.Source) (types.AuctionResult, error) {
	filtered := c.reserveFiltered()
	if len(filtered) == 0 {
		return emptyAuctionResult(auctionID, c.core.ReservePrice, now), nil
	}

	sorted := sortByAmountDescending(filtered)
	winners := PickWinners(sorted, c.cfg.MaxWinners, c.core.TieBreaking, r)

	payments := make(map[ids.Identifier]decimal.Decimal, len(winners))
	for _, w := range winners {
		payments[w.BidderID] = w.Amount
	}

	return types.AuctionResult{
		AuctionID:     auctionID,
		ClearingPrice: sorted[0].Amount,
		Winners:       winnerIDs(winners),
		Allocations:   allocateQuantities(winners, c.core.MaxQuantity),
		Payments:      payments,
		Timestamp:     now,
	}, nil
}
