package mechanisms

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rivalapexmediation/auctionengine/internal/ids"
	"github.com/rivalapexmediation/auctionengine/internal/rng"
	"github.com/rivalapexmediation/auctionengine/internal/types"
)

// sealedBase implements the shared plumbing for sealed-bid mechanisms:
// bids are accumulated as they arrive but nothing clears until an
// explicit finalize — there is no open-outcry state machine to drive.
type sealedBase struct {
	core CoreConfig
	bids []types.Bid
}

func (s *sealedBase) Init(types.Timestamp, *rng.Source) {}

func (s *sealedBase) ValidateBid(types.Bid, types.Timestamp) error { return nil }

func (s *sealedBase) Accept(bid types.Bid, _ types.Timestamp) bool {
	s.bids = append(s.bids, bid)
	return false
}

func (s *sealedBase) ReadyToFinalize(types.Timestamp) bool { return false }

func (s *sealedBase) Bids() []types.Bid { return s.bids }

func (s *sealedBase) reserveFiltered() []types.Bid {
	return filterReserve(s.bids, s.core.ReservePrice)
}

// allocateQuantities assigns each winner min(remaining capacity, bid
// quantity), enforcing the invariant sum(allocations.values) <=
// max_quantity. maxQuantity <= 0 means unconstrained.
func allocateQuantities(winners []types.Bid, maxQuantity int) map[ids.Identifier]types.Allocation {
	allocations := make(map[ids.Identifier]types.Allocation, len(winners))
	remaining := decimal.NewFromInt(-1)
	if maxQuantity > 0 {
		remaining = decimal.NewFromInt(int64(maxQuantity))
	}
	for _, w := range winners {
		want := decimal.NewFromInt(int64(w.Quantity))
		qty := want
		if remaining.Sign() >= 0 {
			if remaining.IsZero() {
				break
			}
			if want.GreaterThan(remaining) {
				qty = remaining
			}
			remaining = remaining.Sub(qty)
		}
		allocations[w.BidderID] = types.Allocation{Quantity: qty}
	}
	return allocations
}

// sortByAmountDescending returns a copy of bids ordered highest first.
func sortByAmountDescending(bids []types.Bid) []types.Bid {
	sorted := append([]types.Bid(nil), bids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Amount.GreaterThan(sorted[j].Amount) })
	return sorted
}

// winnerIDs extracts BidderID in order, deduplicated.
func winnerIDs(winners []types.Bid) []ids.Identifier {
	seen := make(map[ids.Identifier]bool, len(winners))
	out := make([]ids.Identifier, 0, len(winners))
	for _, w := range winners {
		if seen[w.BidderID] {
			continue
		}
		seen[w.BidderID] = true
		out = append(out, w.BidderID)
	}
	return out
}
