package mechanisms

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rivalapexmediation/auctionengine/internal/ids"
	"github.com/rivalapexmediation/auctionengine/internal/rng"
	"github.com/rivalapexmediation/auctionengine/internal/types"
)

// SecondPriceConfig configures a sealed-bid Vickrey auction (§4.2.2).
type SecondPriceConfig struct {
	Core       CoreConfig
	MaxWinners int // defaults to 1
}

// SecondPrice awards the top-k bidders, all paying the (k+1)-th-highest
// bid (or reserve, whichever is higher).
type SecondPrice struct {
	sealedBase
	cfg SecondPriceConfig
}

// NewSecondPrice constructs a SecondPrice mechanism.
func NewSecondPrice(cfg SecondPriceConfig) *SecondPrice {
	if cfg.MaxWinners <= 0 {
		cfg.MaxWinners = 1
	}
	sp := &SecondPrice{cfg: cfg}
	sp.core = cfg.Core
	return sp
}

func (*SecondPrice) Tag() Tag { return TagSecondPrice }

func (sp *SecondPrice) Finalize(auctionID ids.Identifier, now types.Timestamp, r *rng.Source) (types.AuctionResult, error) {
	filtered := sp.reserveFiltered()
	if len(filtered) == 0 {
		return emptyAuctionResult(auctionID, sp.core.ReservePrice, now), nil
	}

	sorted := append([]types.Bid(nil), filtered...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Amount.GreaterThan(sorted[j].Amount) })

	k := sp.cfg.MaxWinners
	winners := PickWinners(sorted, k, sp.core.TieBreaking, r)

	clearingPrice := sp.core.ReservePrice
	if k < len(sorted) {
		candidate := sorted[k].Amount
		if candidate.GreaterThan(clearingPrice) {
			clearingPrice = candidate
		}
	}

	payments := make(map[ids.Identifier]decimal.Decimal, len(winners))
	for _, w := range winners {
		payments[w.BidderID] = clearingPrice
	}

	return types.AuctionResult{
		AuctionID:     auctionID,
		ClearingPrice: clearingPrice,
		Winners:       winnerIDs(winners),
		Allocations:   allocateQuantities(winners, sp.core.MaxQuantity),
		Payments:      payments,
		Timestamp:     now,
	}, nil
}
