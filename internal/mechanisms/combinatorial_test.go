package mechanisms

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rivalapexmediation/auctionengine/internal/ids"
	"github.com/rivalapexmediation/auctionengine/internal/rng"
	"github.com/rivalapexmediation/auctionengine/internal/types"
)

func TestCombinatorialFirstPriceAwardsDisjointBundles(t *testing.T) {
	c := NewCombinatorial(CombinatorialConfig{
		Core:  CoreConfig{ReservePrice: decimal.Zero},
		Items: []string{"x", "y"},
	})

	c.Accept(bundleBid("10", "x"), types.Now())
	c.Accept(bundleBid("8", "y"), types.Now())
	c.Accept(bundleBid("15", "x", "y"), types.Now())

	result, err := c.Finalize(ids.New(), types.Now(), rng.New(1))
	require.NoError(t, err)

	assert.Len(t, result.Winners, 2)
	assert.True(t, result.ClearingPrice.Equal(decimal.RequireFromString("18")))
	for _, w := range result.Winners {
		assert.True(t, result.Payments[w].GreaterThan(decimal.Zero))
	}
}

func TestCombinatorialValidateBidRejectsUnknownItem(t *testing.T) {
	c := NewCombinatorial(CombinatorialConfig{Items: []string{"x"}})
	err := c.ValidateBid(bundleBid("10", "z"), types.Now())
	assert.Error(t, err)
}

func TestCombinatorialVCGPaymentsNonNegativeAndBoundedByBid(t *testing.T) {
	c := NewCombinatorial(CombinatorialConfig{
		Core:        CoreConfig{ReservePrice: decimal.Zero},
		Items:       []string{"x", "y"},
		PaymentRule: PaymentRuleVCG,
	})
	c.Accept(bundleBid("10", "x"), types.Now())
	c.Accept(bundleBid("8", "y"), types.Now())
	c.Accept(bundleBid("15", "x", "y"), types.Now())

	result, err := c.Finalize(ids.New(), types.Now(), rng.New(1))
	require.NoError(t, err)

	bidAmount := map[ids.Identifier]decimal.Decimal{}
	for _, b := range c.Bids() {
		bidAmount[b.BidderID] = b.Amount
	}
	for _, w := range result.Winners {
		payment := result.Payments[w]
		assert.False(t, payment.IsNegative())
		assert.True(t, payment.LessThanOrEqual(bidAmount[w]))
	}
}

func TestCombinatorialNoBidsMeetingReserveYieldsEmptyResult(t *testing.T) {
	c := NewCombinatorial(CombinatorialConfig{Core: CoreConfig{ReservePrice: decimal.RequireFromString("100")}, Items: []string{"x"}})
	c.Accept(bundleBid("10", "x"), types.Now())

	result, err := c.Finalize(ids.New(), types.Now(), rng.New(1))
	require.NoError(t, err)
	assert.Empty(t, result.Winners)
	assert.True(t, result.ClearingPrice.Equal(decimal.RequireFromString("100")))
}
