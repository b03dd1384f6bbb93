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

func TestDutchPriceDropsOverTicksAndClearsOnAcceptance(t *testing.T) {
	start := types.Now()
	d := NewDutch(DutchConfig{
		Core:          CoreConfig{MaxQuantity: 1},
		StartingPrice: decimal.RequireFromString("100"),
		Decrement:     decimal.RequireFromString("10"),
		FloorPrice:    decimal.RequireFromString("0"),
		TickDuration:  time.Second,
	})
	d.Init(start, rng.New(1))

	later := types.Timestamp(start.Time().Add(3 * time.Second))
	bid := types.NewBid(ids.New(), decimal.RequireFromString("70"), 1, later, nil)
	triggers := d.Accept(bid, later)
	assert.True(t, triggers)

	result, err := d.Finalize(ids.New(), later, rng.New(1))
	require.NoError(t, err)
	assert.True(t, result.ClearingPrice.Equal(decimal.RequireFromString("70")))
	assert.Len(t, result.Winners, 1)
}

func TestDutchRejectsBidBelowCurrentPrice(t *testing.T) {
	start := types.Now()
	d := NewDutch(DutchConfig{
		Core:          CoreConfig{MaxQuantity: 1},
		StartingPrice: decimal.RequireFromString("100"),
		Decrement:     decimal.RequireFromString("10"),
		FloorPrice:    decimal.RequireFromString("0"),
		TickDuration:  time.Second,
	})
	d.Init(start, rng.New(1))

	bid := types.NewBid(ids.New(), decimal.RequireFromString("50"), 1, start, nil)
	assert.Error(t, d.ValidateBid(bid, start))
	assert.False(t, d.Accept(bid, start))
}

func TestDutchReadyToFinalizeAtFloor(t *testing.T) {
	start := types.Now()
	d := NewDutch(DutchConfig{
		Core:          CoreConfig{},
		StartingPrice: decimal.RequireFromString("10"),
		Decrement:     decimal.RequireFromString("10"),
		FloorPrice:    decimal.RequireFromString("0"),
		TickDuration:  time.Second,
	})
	d.Init(start, rng.New(1))
	later := types.Timestamp(start.Time().Add(time.Second))
	assert.True(t, d.ReadyToFinalize(later))
}
