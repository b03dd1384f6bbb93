package mechanisms

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rivalapexmediation/auctionengine/internal/ids"
	"github.com/rivalapexmediation/auctionengine/internal/rng"
	"github.com/rivalapexmediation/auctionengine/internal/types"
)

// PennyConfig configures a penny (bid-fee) auction (§4.2.7): every bid
// costs the bidder BidCost, win or lose, and nudges the price up by
// BidIncrement.
type PennyConfig struct {
	Core             CoreConfig
	StartingPrice    decimal.Decimal
	BidIncrement     decimal.Decimal
	BidCost          decimal.Decimal
	InactiveDuration time.Duration
}

// Penny awards the item to whoever placed the most recent bid once
// InactiveDuration elapses with no further bids.
type Penny struct {
	core CoreConfig
	cfg  PennyConfig

	currentPrice decimal.Decimal
	lastBid      types.Bid
	hasBid       bool
	lastBidTime  types.Timestamp
	bids         []types.Bid
	costsPaid    map[ids.Identifier]decimal.Decimal
}

// NewPenny constructs a Penny mechanism.
func NewPenny(cfg PennyConfig) *Penny {
	return &Penny{cfg: cfg, core: cfg.Core, costsPaid: map[ids.Identifier]decimal.Decimal{}}
}

func (*Penny) Tag() Tag { return TagPenny }

func (p *Penny) Init(now types.Timestamp, _ *rng.Source) {
	p.currentPrice = p.cfg.StartingPrice
	p.lastBidTime = now
}

func (p *Penny) ValidateBid(types.Bid, types.Timestamp) error { return nil }

func (p *Penny) Accept(bid types.Bid, now types.Timestamp) bool {
	p.currentPrice = p.currentPrice.Add(p.cfg.BidIncrement)
	p.lastBid = bid
	p.hasBid = true
	p.lastBidTime = now
	p.bids = append(p.bids, bid)
	p.costsPaid[bid.BidderID] = p.costsPaid[bid.BidderID].Add(p.cfg.BidCost)
	return false
}

func (p *Penny) ReadyToFinalize(now types.Timestamp) bool {
	return p.hasBid && now.Sub(p.lastBidTime) >= p.cfg.InactiveDuration
}

func (p *Penny) Bids() []types.Bid { return p.bids }

// LiveState reports the current price and whoever placed the most
// recent bid (the provisional winner if the clock runs out now).
func (p *Penny) LiveState() LivePriceState {
	state := LivePriceState{CurrentPrice: p.currentPrice, HasLeader: p.hasBid}
	if p.hasBid {
		state.CurrentLeader = p.lastBid.BidderID
	}
	return state
}

func (p *Penny) Finalize(auctionID ids.Identifier, now types.Timestamp, _ *rng.Source) (types.AuctionResult, error) {
	if !p.hasBid {
		return emptyAuctionResult(auctionID, p.cfg.StartingPrice, now), nil
	}

	winners := []types.Bid{p.lastBid}

	nonWinnerCosts := make(map[string]string)
	for bidderID, cost := range p.costsPaid {
		if bidderID == p.lastBid.BidderID {
			continue
		}
		nonWinnerCosts[bidderID.String()] = cost.String()
	}

	return types.AuctionResult{
		AuctionID:     auctionID,
		ClearingPrice: p.currentPrice,
		Winners:       winnerIDs(winners),
		Allocations:   allocateQuantities(winners, p.core.MaxQuantity),
		Payments:      map[ids.Identifier]decimal.Decimal{p.lastBid.BidderID: p.currentPrice},
		Timestamp:     now,
		Metadata: types.Metadata{
			"bid_costs_retained": nonWinnerCosts,
			"total_bids":         fmt.Sprintf("%d", len(p.bids)),
		},
	}, nil
}
