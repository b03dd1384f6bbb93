package mechanisms

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rivalapexmediation/auctionengine/internal/ids"
	"github.com/rivalapexmediation/auctionengine/internal/rng"
	"github.com/rivalapexmediation/auctionengine/internal/types"
)

// FirstPriceConfig configures a sealed-bid first-price auction (§4.2.1).
type FirstPriceConfig struct {
	Core       CoreConfig
	MaxWinners int // defaults to 1
}

// FirstPrice clears at the highest bid meeting reserve; each winner pays
// their own bid.
type FirstPrice struct {
	sealedBase
	cfg FirstPriceConfig
}

// NewFirstPrice constructs a FirstPrice mechanism.
func NewFirstPrice(cfg FirstPriceConfig) *FirstPrice {
	if cfg.MaxWinners <= 0 {
		cfg.MaxWinners = 1
	}
	fp := &FirstPrice{cfg: cfg}
	fp.core = cfg.Core
	return fp
}

func (*FirstPrice) Tag() Tag { return TagFirstPrice }

func (fp *FirstPrice) Finalize(auctionID ids.Identifier, now types.Timestamp, r *rng.Source) (types.AuctionResult, error) {
	filtered := fp.reserveFiltered()
	if len(filtered) == 0 {
		return emptyAuctionResult(auctionID, fp.core.ReservePrice, now), nil
	}

	sorted := append([]types.Bid(nil), filtered...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Amount.GreaterThan(sorted[j].Amount) })

	winners := PickWinners(sorted, fp.cfg.MaxWinners, fp.core.TieBreaking, r)
	clearingPrice := sorted[0].Amount

	payments := make(map[ids.Identifier]decimal.Decimal, len(winners))
	for _, w := range winners {
		payments[w.BidderID] = w.Amount
	}

	return types.AuctionResult{
		AuctionID:     auctionID,
		ClearingPrice: clearingPrice,
		Winners:       winnerIDs(winners),
		Allocations:   allocateQuantities(winners, fp.core.MaxQuantity),
		Payments:      payments,
		Timestamp:     now,
	}, nil
}

// emptyAuctionResult builds the reserve-unmet outcome shared by every
// sealed-bid mechanism: empty winners, clearing_price = reserve, zero
// payments.
func emptyAuctionResult(auctionID ids.Identifier, reserve decimal.Decimal, now types.Timestamp) types.AuctionResult {
	return types.AuctionResult{
		AuctionID:     auctionID,
		ClearingPrice: reserve,
		Winners:       nil,
		Allocations:   map[ids.Identifier]types.Allocation{},
		Payments:      map[ids.Identifier]decimal.Decimal{},
		Timestamp:     now,
	}
}
