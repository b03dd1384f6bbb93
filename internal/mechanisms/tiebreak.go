package mechanisms

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rivalapexmediation/auctionengine/internal/ids"
	"github.com/rivalapexmediation/auctionengine/internal/rng"
	"github.com/rivalapexmediation/auctionengine/internal/types"
)

// PickWinners selects exactly k winners from bids (assumed sorted
// descending by amount already), applying the tie-breaking policy among
// any bids tied at the k-th boundary. If k >= len(bids), all bids win.
func PickWinners(bids []types.Bid, k int, policy types.TieBreakingPolicy, r *rng.Source) []types.Bid {
	if k <= 0 {
		return nil
	}
	if k >= len(bids) {
		return append([]types.Bid(nil), bids...)
	}

	boundary := bids[k-1].Amount
	// Bids strictly above the boundary always win.
	var above []types.Bid
	var tied []types.Bid
	for _, b := range bids {
		switch {
		case b.Amount.GreaterThan(boundary):
			above = append(above, b)
		case b.Amount.Equal(boundary):
			tied = append(tied, b)
		}
	}

	need := k - len(above)
	if need >= len(tied) {
		return append(above, tied...)
	}

	selected := breakTies(tied, need, policy, r)
	return append(above, selected...)
}

// breakTies resolves a tied group down to exactly `need` winners.
func breakTies(tied []types.Bid, need int, policy types.TieBreakingPolicy, r *rng.Source) []types.Bid {
	ordered := append([]types.Bid(nil), tied...)

	switch policy {
	case types.TieBreakFirstCome:
		sort.Slice(ordered, func(i, j int) bool {
			if !ordered[i].Timestamp.Time().Equal(ordered[j].Timestamp.Time()) {
				return ordered[i].Timestamp.Before(ordered[j].Timestamp)
			}
			return ordered[i].ID.String() < ordered[j].ID.String()
		})
	case types.TieBreakRandom:
		r.Shuffle(len(ordered), func(i, j int) { ordered[i], ordered[j] = ordered[j], ordered[i] })
	case types.TieBreakProportional:
		// Proportional tie-breaking splits allocation rather than
		// picking discrete winners; callers needing a quantity split
		// should use ProportionalShares instead of PickWinners. Fall
		// back to first_come ordering so a discrete pick is still
		// well-defined.
		sort.Slice(ordered, func(i, j int) bool {
			if !ordered[i].Timestamp.Time().Equal(ordered[j].Timestamp.Time()) {
				return ordered[i].Timestamp.Before(ordered[j].Timestamp)
			}
			return ordered[i].ID.String() < ordered[j].ID.String()
		})
	default:
		sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID.String() < ordered[j].ID.String() })
	}

	if need > len(ordered) {
		need = len(ordered)
	}
	return ordered[:need]
}

// ProportionalShares splits totalQuantity across tied bidders
// proportionally to each bid's own quantity, per §4.2's proportional
// policy: "each tied bidder receives quantity × share, where share is
// their bid's fraction of summed tied quantity".
func ProportionalShares(tied []types.Bid, totalQuantity decimal.Decimal) map[ids.Identifier]decimal.Decimal {
	shares := make(map[ids.Identifier]decimal.Decimal, len(tied))
	sumQty := decimal.Zero
	for _, b := range tied {
		sumQty = sumQty.Add(decimal.NewFromInt(int64(b.Quantity)))
	}
	if sumQty.IsZero() {
		return shares
	}
	for _, b := range tied {
		fraction := decimal.NewFromInt(int64(b.Quantity)).Div(sumQty)
		shares[b.BidderID] = totalQuantity.Mul(fraction)
	}
	return shares
}
