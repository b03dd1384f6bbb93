package mechanisms

import (
	"github.com/shopspring/decimal"

	"github.com/rivalapexmediation/auctionengine/internal/ids"
	"github.com/rivalapexmediation/auctionengine/internal/rng"
	"github.com/rivalapexmediation/auctionengine/internal/types"
)

// PaymentRule selects how a combinatorial auction prices winning bundles.
type PaymentRule string

const (
	PaymentRuleFirstPrice PaymentRule = "first_price"
	PaymentRuleVCG        PaymentRule = "vcg"
)

// CombinatorialConfig configures a sealed-bid combinatorial auction
// (§4.2.10). Items enumerates the tradeable item identifiers; a bid's
// bundle (types.Bid.Bundle) must be a subset of Items to be considered.
type CombinatorialConfig struct {
	Core        CoreConfig
	Items       []string
	PaymentRule PaymentRule // defaults to first_price
	Solver      SetPackingSolver
}

// Combinatorial awards disjoint item bundles to the bid set that
// maximizes total accepted value, via a pluggable SetPackingSolver.
type Combinatorial struct {
	sealedBase
	cfg   CombinatorialConfig
	items map[string]bool
}

// NewCombinatorial constructs a Combinatorial mechanism.
func NewCombinatorial(cfg CombinatorialConfig) *Combinatorial {
	if cfg.PaymentRule == "" {
		cfg.PaymentRule = PaymentRuleFirstPrice
	}
	if cfg.Solver == nil {
		cfg.Solver = BranchAndBoundSolver{}
	}
	items := make(map[string]bool, len(cfg.Items))
	for _, it := range cfg.Items {
		items[it] = true
	}
	c := &Combinatorial{cfg: cfg, items: items}
	c.core = cfg.Core
	return c
}

func (*Combinatorial) Tag() Tag { return TagCombinatorial }

// ValidateBid rejects bundle bids referencing items outside the
// configured item set.
func (c *Combinatorial) ValidateBid(bid types.Bid, _ types.Timestamp) error {
	for _, item := range bid.Bundle() {
		if !c.items[item] {
			return types.ErrUnknownMechanism
		}
	}
	return nil
}

func (c *Combinatorial) Finalize(auctionID ids.Identifier, now types.Timestamp, r *rng.Source) (types.AuctionResult, error) {
	filtered := c.reserveFiltered()
	if len(filtered) == 0 {
		return emptyAuctionResult(auctionID, c.core.ReservePrice, now), nil
	}

	winners := c.cfg.Solver.Solve(filtered)
	if len(winners) == 0 {
		return emptyAuctionResult(auctionID, c.core.ReservePrice, now), nil
	}

	totalValue := sumAmounts(winners)

	var payments map[ids.Identifier]decimal.Decimal
	if c.cfg.PaymentRule == PaymentRuleVCG {
		payments = c.vcgPayments(filtered, winners, totalValue)
	} else {
		payments = make(map[ids.Identifier]decimal.Decimal, len(winners))
		for _, w := range winners {
			payments[w.BidderID] = w.Amount
		}
	}

	return types.AuctionResult{
		AuctionID:     auctionID,
		ClearingPrice: totalValue,
		Winners:       winnerIDs(winners),
		Allocations:   allocateQuantities(winners, c.core.MaxQuantity),
		Payments:      payments,
		Timestamp:     now,
	}, nil
}

// vcgPayments charges each winner the externality it imposes on the
// rest of the bidders: the optimal value achievable without the
// winner's bid, minus the value the other winners actually realize.
func (c *Combinatorial) vcgPayments(all []types.Bid, winners []types.Bid, totalValue decimal.Decimal) map[ids.Identifier]decimal.Decimal {
	payments := make(map[ids.Identifier]decimal.Decimal, len(winners))
	for _, w := range winners {
		without := excludeBid(all, w.ID)
		altWinners := c.cfg.Solver.Solve(without)
		altValue := sumAmounts(altWinners)

		valueToOthersWithWinner := totalValue.Sub(w.Amount)
		externality := altValue.Sub(valueToOthersWithWinner)
		if externality.IsNegative() {
			externality = decimal.Zero
		}
		payments[w.BidderID] = externality
	}
	return payments
}

func sumAmounts(bids []types.Bid) decimal.Decimal {
	total := decimal.Zero
	for _, b := range bids {
		total = total.Add(b.Amount)
	}
	return total
}

func excludeBid(bids []types.Bid, id ids.Identifier) []types.Bid {
	out := make([]types.Bid, 0, len(bids))
	for _, b := range bids {
		if b.ID != id {
			out = append(out, b)
		}
	}
	return out
}
