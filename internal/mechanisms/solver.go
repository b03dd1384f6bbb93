package mechanisms

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rivalapexmediation/auctionengine/internal/types"
)

// SetPackingSolver chooses a maximum-weight set of pairwise-disjoint
// bundle bids. It is pluggable so a caller can swap in an ILP-backed
// solver for larger instances; BranchAndBoundSolver is the dependency-
// free default (§9).
type SetPackingSolver interface {
	Solve(bids []types.Bid) []types.Bid
}

// BranchAndBoundSolver is a depth-first branch-and-bound over bids sorted
// by descending amount (not a best-first search with a priority queue):
// at each bid it explores "include" before "exclude" and prunes a branch once
// its remaining upper bound can no longer beat the best solution found.
// Sized for the spec's stated scale (a few dozen bids, a few items).
type BranchAndBoundSolver struct{}

// Solve returns the maximum-amount set of bundle bids whose item sets
// are pairwise disjoint.
func (BranchAndBoundSolver) Solve(bids []types.Bid) []types.Bid {
	if len(bids) == 0 {
		return nil
	}

	ordered := append([]types.Bid(nil), bids...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Amount.GreaterThan(ordered[j].Amount) })

	// Suffix upper bounds: sum of all remaining amounts from index i on,
	// a loose relaxation that never underestimates, used to prune
	// branches that cannot possibly beat the incumbent.
	suffixBound := make([]decimal.Decimal, len(ordered)+1)
	suffixBound[len(ordered)] = decimal.Zero
	for i := len(ordered) - 1; i >= 0; i-- {
		suffixBound[i] = suffixBound[i+1].Add(ordered[i].Amount)
	}

	best := []types.Bid{}
	bestValue := decimal.Zero

	var search func(i int, chosen []types.Bid, chosenValue decimal.Decimal, usedItems map[string]bool)
	search = func(i int, chosen []types.Bid, chosenValue decimal.Decimal, usedItems map[string]bool) {
		if chosenValue.Add(suffixBound[i]).LessThanOrEqual(bestValue) {
			return // this branch cannot beat the incumbent
		}
		if i == len(ordered) {
			if chosenValue.GreaterThan(bestValue) {
				bestValue = chosenValue
				best = append([]types.Bid(nil), chosen...)
			}
			return
		}

		bid := ordered[i]
		bundle := bid.Bundle()

		conflicts := false
		for _, item := range bundle {
			if usedItems[item] {
				conflicts = true
				break
			}
		}

		if !conflicts {
			for _, item := range bundle {
				usedItems[item] = true
			}
			search(i+1, append(chosen, bid), chosenValue.Add(bid.Amount), usedItems)
			for _, item := range bundle {
				delete(usedItems, item)
			}
		}

		search(i+1, chosen, chosenValue, usedItems)
	}

	search(0, nil, decimal.Zero, map[string]bool{})
	return best
}
