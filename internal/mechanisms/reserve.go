package mechanisms

import (
	"github.com/shopspring/decimal"

	"github.com/rivalapexmediation/auctionengine/internal/types"
)

// filterReserve drops any bid strictly below reserve, per §4.2's reserve
// policy: "any bid strictly below reserve_price is filtered out before
// clearing".
func filterReserve(bids []types.Bid, reserve decimal.Decimal) []types.Bid {
	out := make([]types.Bid, 0, len(bids))
	for _, b := range bids {
		if b.Amount.GreaterThanOrEqual(reserve) {
			out = append(out, b)
		}
	}
	return out
}
