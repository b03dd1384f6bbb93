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

func TestCandleSamplesEndTimeWithinConfiguredSpan(t *testing.T) {
	start := types.Now()
	c := NewCandle(CandleConfig{
		Core:        CoreConfig{ReservePrice: decimal.Zero},
		MinDuration: time.Second,
		MaxDuration: 2 * time.Second,
	})
	c.Init(start, rng.New(7))

	assert.False(t, c.ReadyToFinalize(start))
	farEnough := types.Timestamp(start.Time().Add(3 * time.Second))
	assert.True(t, c.ReadyToFinalize(farEnough))
}

func TestCandleClearsAsFirstPriceAtSampledInstant(t *testing.T) {
	start := types.Now()
	c := NewCandle(CandleConfig{Core: CoreConfig{ReservePrice: decimal.Zero}, MinDuration: time.Second, MaxDuration: time.Second})
	c.Init(start, rng.New(7))

	c.Accept(types.NewBid(ids.New(), decimal.RequireFromString("5"), 1, start, nil), start)
	winner := ids.New()
	c.Accept(types.NewBid(winner, decimal.RequireFromString("9"), 1, start, nil), start)

	later := types.Timestamp(start.Time().Add(2 * time.Second))
	result, err := c.Finalize(ids.New(), later, rng.New(7))
	require.NoError(t, err)
	assert.Equal(t, []ids.Identifier{winner}, result.Winners)
	assert.True(t, result.ClearingPrice.Equal(decimal.RequireFromString("9")))
}
