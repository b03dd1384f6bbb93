package mechanisms

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rivalapexmediation/auctionengine/internal/ids"
	"github.com/rivalapexmediation/auctionengine/internal/rng"
	"github.com/rivalapexmediation/auctionengine/internal/types"
)

// JapaneseConfig configures a clock auction where every still-active
// bidder must affirm each price tick to remain in (§4.2.5).
type JapaneseConfig struct {
	Core             CoreConfig
	StartingPrice    decimal.Decimal
	Increment        decimal.Decimal
	TickDuration     time.Duration
	MinActiveBidders int // auction stops once fewer than this many remain active
}

// Japanese raises price in discrete ticks; a bidder who does not
// resubmit a bid at or above the current price before the next tick
// drops out and cannot re-enter.
type Japanese struct {
	core CoreConfig
	cfg  JapaneseConfig

	currentPrice decimal.Decimal
	lastTick     types.Timestamp
	active       map[ids.Identifier]types.Bid
	affirmed     map[ids.Identifier]bool
	bids         []types.Bid
	started      bool
}

// NewJapanese constructs a Japanese mechanism.
func NewJapanese(cfg JapaneseConfig) *Japanese {
	if cfg.MinActiveBidders <= 0 {
		cfg.MinActiveBidders = 1
	}
	return &Japanese{
		cfg:      cfg,
		core:     cfg.Core,
		active:   map[ids.Identifier]types.Bid{},
		affirmed: map[ids.Identifier]bool{},
	}
}

func (*Japanese) Tag() Tag { return TagJapanese }

func (j *Japanese) Init(now types.Timestamp, _ *rng.Source) {
	j.currentPrice = j.cfg.StartingPrice
	j.lastTick = now
}

func (j *Japanese) tick(now types.Timestamp) {
	if j.cfg.TickDuration <= 0 || !j.started {
		return
	}
	for now.Sub(j.lastTick) >= j.cfg.TickDuration {
		for id := range j.active {
			if !j.affirmed[id] {
				delete(j.active, id)
			}
		}
		j.affirmed = map[ids.Identifier]bool{}
		j.lastTick = types.Timestamp(j.lastTick.Time().Add(j.cfg.TickDuration))
		if len(j.active) < j.cfg.MinActiveBidders {
			return
		}
		j.currentPrice = j.currentPrice.Add(j.cfg.Increment)
	}
}

func (j *Japanese) ValidateBid(bid types.Bid, _ types.Timestamp) error {
	if bid.Amount.LessThan(j.currentPrice) {
		return types.ErrBelowReserve
	}
	return nil
}

func (j *Japanese) Accept(bid types.Bid, now types.Timestamp) bool {
	j.tick(now)
	if bid.Amount.LessThan(j.currentPrice) {
		return false
	}
	if _, stillActive := j.active[bid.BidderID]; !stillActive {
		for _, prev := range j.bids {
			if prev.BidderID == bid.BidderID {
				return false // dropped out earlier; re-entry is not allowed
			}
		}
	}
	j.started = true
	j.active[bid.BidderID] = bid
	j.affirmed[bid.BidderID] = true
	j.bids = append(j.bids, bid)
	return false
}

func (j *Japanese) ReadyToFinalize(now types.Timestamp) bool {
	j.tick(now)
	return j.started && len(j.active) < j.cfg.MinActiveBidders
}

func (j *Japanese) Bids() []types.Bid { return j.bids }

// LiveState reports the current clock price. Japanese has no single
// leader (every still-active bidder ties at the current level), so
// HasLeader is always false.
func (j *Japanese) LiveState() LivePriceState {
	return LivePriceState{CurrentPrice: j.currentPrice}
}

func (j *Japanese) Finalize(auctionID ids.Identifier, now types.Timestamp, _ *rng.Source) (types.AuctionResult, error) {
	j.tick(now)
	if len(j.active) == 0 {
		return emptyAuctionResult(auctionID, j.cfg.StartingPrice, now), nil
	}

	winners := make([]types.Bid, 0, len(j.active))
	for _, b := range j.active {
		winners = append(winners, b)
	}

	payments := make(map[ids.Identifier]decimal.Decimal, len(winners))
	for _, w := range winners {
		payments[w.BidderID] = j.currentPrice
	}

	return types.AuctionResult{
		AuctionID:     auctionID,
		ClearingPrice: j.currentPrice,
		Winners:       winnerIDs(winners),
		Allocations:   allocateQuantities(winners, j.core.MaxQuantity),
		Payments:      payments,
		Timestamp:     now,
	}, nil
}
