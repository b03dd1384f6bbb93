package controller

import (
	"github.com/shopspring/decimal"

	"github.com/rivalapexmediation/auctionengine/internal/types"
)

// propagateResults turns every upstream dependency's winners into
// synthetic initial bids for the downstream node: chain_auctions,
// re-bidding each winner at the upstream clearing price scaled by
// multiplier (default 1.1x). Winners without a payment entry are skipped.
func propagateResults(dependsOn []string, upstream map[string]types.AuctionResult, multiplier decimal.Decimal) []types.Bid {
	var bids []types.Bid
	now := types.Now()
	for _, dep := range dependsOn {
		result, ok := upstream[dep]
		if !ok {
			continue
		}
		for _, winnerID := range result.Winners {
			if _, ok := result.Payments[winnerID]; !ok {
				continue
			}
			qty := 1
			if alloc, ok := result.Allocations[winnerID]; ok {
				qty = int(alloc.Quantity.IntPart())
				if qty <= 0 {
					qty = 1
				}
			}
			amount := result.ClearingPrice.Mul(multiplier)
			bids = append(bids, types.NewBid(winnerID, amount, qty, now, types.Metadata{"chained_from": dep}))
		}
	}
	return bids
}
