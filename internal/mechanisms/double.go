package mechanisms

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rivalapexmediation/auctionengine/internal/ids"
	"github.com/rivalapexmediation/auctionengine/internal/rng"
	"github.com/rivalapexmediation/auctionengine/internal/types"
)

// PriceRule selects how a double auction prices matched trades.
type PriceRule string

const (
	PriceRuleUniform        PriceRule = "uniform"
	PriceRuleDiscriminatory PriceRule = "discriminatory"
)

// DoubleConfig configures a sealed-bid double auction (§4.2.9).
type DoubleConfig struct {
	Core      CoreConfig
	PriceRule PriceRule // defaults to uniform
}

// Double matches buy and sell bids (partitioned by the `is_buy`
// metadata flag) against each other. Payments are signed: a positive
// payment is money the bidder pays in; a negative payment is money the
// bidder (a matched seller) receives.
type Double struct {
	sealedBase
	cfg DoubleConfig
}

// NewDouble constructs a Double mechanism.
func NewDouble(cfg DoubleConfig) *Double {
	if cfg.PriceRule == "" {
		cfg.PriceRule = PriceRuleUniform
	}
	d := &Double{cfg: cfg}
	d.core = cfg.Core
	return d
}

func (*Double) Tag() Tag { return TagDouble }

func (d *Double) Finalize(auctionID ids.Identifier, now types.Timestamp, r *rng.Source) (types.AuctionResult, error) {
	filtered := d.reserveFiltered()

	var buys, sells []types.Bid
	for _, b := range filtered {
		if b.IsBuy() {
			buys = append(buys, b)
		} else {
			sells = append(sells, b)
		}
	}
	sort.Slice(buys, func(i, j int) bool { return buys[i].Amount.GreaterThan(buys[j].Amount) })
	sort.Slice(sells, func(i, j int) bool { return sells[i].Amount.LessThan(sells[j].Amount) })

	k := 0
	limit := len(buys)
	if len(sells) < limit {
		limit = len(sells)
	}
	for i := 0; i < limit; i++ {
		if buys[i].Amount.GreaterThanOrEqual(sells[i].Amount) {
			k = i + 1
		} else {
			break
		}
	}

	if k == 0 {
		return emptyAuctionResult(auctionID, d.core.ReservePrice, now), nil
	}

	matchedBuys := buys[:k]
	matchedSells := sells[:k]

	marginalBuy := matchedBuys[k-1].Amount
	marginalSell := matchedSells[k-1].Amount
	uniformPrice := marginalBuy.Add(marginalSell).Div(decimal.NewFromInt(2))

	matched := append(append([]types.Bid(nil), matchedBuys...), matchedSells...)

	payments := make(map[ids.Identifier]decimal.Decimal, len(matched))
	for _, b := range matchedBuys {
		if d.cfg.PriceRule == PriceRuleDiscriminatory {
			payments[b.BidderID] = b.Amount
		} else {
			payments[b.BidderID] = uniformPrice
		}
	}
	for _, s := range matchedSells {
		if d.cfg.PriceRule == PriceRuleDiscriminatory {
			payments[s.BidderID] = s.Amount.Neg()
		} else {
			payments[s.BidderID] = uniformPrice.Neg()
		}
	}

	return types.AuctionResult{
		AuctionID:     auctionID,
		ClearingPrice: uniformPrice,
		Winners:       winnerIDs(matched),
		Allocations:   allocateQuantities(matched, d.core.MaxQuantity),
		Payments:      payments,
		Timestamp:     now,
	}, nil
}
