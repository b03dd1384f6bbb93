package mechanisms

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rivalapexmediation/auctionengine/internal/ids"
	"github.com/rivalapexmediation/auctionengine/internal/rng"
	"github.com/rivalapexmediation/auctionengine/internal/types"
)

func TestPennyLastBidderWinsAtCurrentPrice(t *testing.T) {
	start := types.Now()
	p := NewPenny(PennyConfig{
		Core:             CoreConfig{MaxQuantity: 1},
		StartingPrice:    decimal.RequireFromString("1"),
		BidIncrement:     decimal.RequireFromString("0.01"),
		BidCost:          decimal.RequireFromString("0.50"),
		InactiveDuration: time.Second,
	})
	p.Init(start, rng.New(1))

	alice, bob := ids.New(), ids.New()
	p.Accept(types.NewBid(alice, decimal.Zero, 1, start, nil), start)
	p.Accept(types.NewBid(bob, decimal.Zero, 1, start, nil), start)

	later := types.Timestamp(start.Time().Add(2 * time.Second))
	assert.True(t, p.ReadyToFinalize(later))

	result, err := p.Finalize(ids.New(), later, rng.New(1))
	require.NoError(t, err)
	assert.Equal(t, []ids.Identifier{bob}, result.Winners)
	assert.True(t, result.ClearingPrice.Equal(decimal.RequireFromString("1.02")))
	assert.True(t, result.Payments[bob].Equal(decimal.RequireFromString("1.02")))
	assert.Contains(t, result.Metadata["bid_costs_retained"], alice.String())
}

func TestPennyNotReadyWithoutBids(t *testing.T) {
	p := NewPenny(PennyConfig{StartingPrice: decimal.RequireFromString("1")})
	start := types.Now()
	p.Init(start, rng.New(1))
	assert.False(t, p.ReadyToFinalize(start))
}
