package mechanisms

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rivalapexmediation/auctionengine/internal/ids"
	"github.com/rivalapexmediation/auctionengine/internal/rng"
	"github.com/rivalapexmediation/auctionengine/internal/types"
)

// DutchConfig configures a descending-price open-outcry auction (§4.2.3).
type DutchConfig struct {
	Core          CoreConfig
	StartingPrice decimal.Decimal
	Decrement     decimal.Decimal
	FloorPrice    decimal.Decimal
	TickDuration  time.Duration
}

// Dutch ticks its announced price down by Decrement every TickDuration
// until a bidder accepts at the current price (filling demand up to
// MaxQuantity) or the price reaches FloorPrice.
type Dutch struct {
	core CoreConfig
	cfg  DutchConfig

	currentPrice decimal.Decimal
	lastTick     types.Timestamp
	bids         []types.Bid
	cleared      bool
}

// NewDutch constructs a Dutch mechanism.
func NewDutch(cfg DutchConfig) *Dutch {
	d := &Dutch{cfg: cfg, core: cfg.Core}
	return d
}

func (*Dutch) Tag() Tag { return TagDutch }

func (d *Dutch) Init(now types.Timestamp, _ *rng.Source) {
	d.currentPrice = d.cfg.StartingPrice
	d.lastTick = now
}

// tick advances currentPrice down by one Decrement per elapsed
// TickDuration, never below FloorPrice.
func (d *Dutch) tick(now types.Timestamp) {
	if d.cfg.TickDuration <= 0 {
		return
	}
	elapsed := now.Sub(d.lastTick)
	if elapsed < d.cfg.TickDuration {
		return
	}
	ticks := int64(elapsed / d.cfg.TickDuration)
	drop := d.cfg.Decrement.Mul(decimal.NewFromInt(ticks))
	next := d.currentPrice.Sub(drop)
	if next.LessThan(d.cfg.FloorPrice) {
		next = d.cfg.FloorPrice
	}
	d.currentPrice = next
	d.lastTick = types.Timestamp(d.lastTick.Time().Add(time.Duration(ticks) * d.cfg.TickDuration))
}

func (d *Dutch) ValidateBid(bid types.Bid, now types.Timestamp) error {
	d.tick(now)
	if bid.Amount.LessThan(d.currentPrice) {
		return types.ErrBelowReserve
	}
	return nil
}

func (d *Dutch) Accept(bid types.Bid, now types.Timestamp) bool {
	d.tick(now)
	if bid.Amount.LessThan(d.currentPrice) {
		return false
	}
	d.bids = append(d.bids, bid)

	if d.core.MaxQuantity > 0 {
		filled := 0
		for _, b := range d.bids {
			filled += b.Quantity
		}
		if filled >= d.core.MaxQuantity {
			d.cleared = true
			return true
		}
	}
	return false
}

func (d *Dutch) ReadyToFinalize(now types.Timestamp) bool {
	d.tick(now)
	return d.cleared || d.currentPrice.LessThanOrEqual(d.cfg.FloorPrice)
}

func (d *Dutch) Bids() []types.Bid { return d.bids }

// LiveState reports the current descending price. Dutch has no single
// leader concept (the first bidder to accept the announced price wins
// each unit), so HasLeader is always false.
func (d *Dutch) LiveState() LivePriceState {
	return LivePriceState{CurrentPrice: d.currentPrice}
}

func (d *Dutch) Finalize(auctionID ids.Identifier, now types.Timestamp, _ *rng.Source) (types.AuctionResult, error) {
	d.tick(now)
	if len(d.bids) == 0 {
		return emptyAuctionResult(auctionID, d.currentPrice, now), nil
	}

	payments := make(map[ids.Identifier]decimal.Decimal, len(d.bids))
	for _, b := range d.bids {
		payments[b.BidderID] = d.currentPrice
	}

	return types.AuctionResult{
		AuctionID:     auctionID,
		ClearingPrice: d.currentPrice,
		Winners:       winnerIDs(d.bids),
		Allocations:   allocateQuantities(d.bids, d.core.MaxQuantity),
		Payments:      payments,
		Timestamp:     now,
	}, nil
}
