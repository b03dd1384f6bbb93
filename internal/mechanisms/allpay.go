package mechanisms

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rivalapexmediation/auctionengine/internal/ids"
	"github.com/rivalapexmediation/auctionengine/internal/rng"
	"github.com/rivalapexmediation/auctionengine/internal/types"
)

// AllPayConfig configures an all-pay auction (§4.2.8).
type AllPayConfig struct {
	Core       CoreConfig
	RefundRate decimal.Decimal // fraction in [0,1] refunded to losers
}

// AllPay awards the item to the single highest bidder; every bidder
// meeting reserve pays their bid, with losers optionally refunded a
// fraction. The winner's own payment lands in AuctionResult.Payments (to
// satisfy the payments/allocations invariant); losing bidders' net
// payments are recorded under Metadata["non_winner_payments"].
type AllPay struct {
	sealedBase
	cfg AllPayConfig
}

// NewAllPay constructs an AllPay mechanism.
func NewAllPay(cfg AllPayConfig) *AllPay {
	ap := &AllPay{cfg: cfg}
	ap.core = cfg.Core
	return ap
}

func (*AllPay) Tag() Tag { return TagAllPay }

func (ap *AllPay) Finalize(auctionID ids.Identifier, now types.Timestamp, r *rng.Source) (types.AuctionResult, error) {
	filtered := ap.reserveFiltered()
	if len(filtered) == 0 {
		return emptyAuctionResult(auctionID, ap.core.ReservePrice, now), nil
	}

	sorted := append([]types.Bid(nil), filtered...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Amount.GreaterThan(sorted[j].Amount) })

	winners := PickWinners(sorted, 1, ap.core.TieBreaking, r)
	winnerSet := map[ids.Identifier]bool{}
	for _, w := range winners {
		winnerSet[w.BidderID] = true
	}

	refund := ap.cfg.RefundRate

	payments := make(map[ids.Identifier]decimal.Decimal, len(winners))
	for _, w := range winners {
		payments[w.BidderID] = w.Amount
	}

	nonWinnerPayments := make(map[string]string)
	keep := decimal.NewFromInt(1).Sub(refund)
	for _, b := range sorted {
		if winnerSet[b.BidderID] {
			continue
		}
		net := b.Amount.Mul(keep)
		nonWinnerPayments[b.BidderID.String()] = net.String()
	}

	return types.AuctionResult{
		AuctionID:     auctionID,
		ClearingPrice: sorted[0].Amount,
		Winners:       winnerIDs(winners),
		Allocations:   allocateQuantities(winners, ap.core.MaxQuantity),
		Payments:      payments,
		Timestamp:     now,
		Metadata: types.Metadata{
			"non_winner_payments": nonWinnerPayments,
			"refund_rate":         fmt.Sprintf("%v", refund),
		},
	}, nil
}
