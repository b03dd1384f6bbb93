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

func TestEnglishRequiresIncrementOverCurrentPrice(t *testing.T) {
	start := types.Now()
	e := NewEnglish(EnglishConfig{
		Core:             CoreConfig{MaxQuantity: 1},
		StartingPrice:    decimal.RequireFromString("10"),
		Increment:        decimal.RequireFromString("1"),
		InactiveDuration: time.Second,
	})
	e.Init(start, rng.New(1))

	lowBid := types.NewBid(ids.New(), decimal.RequireFromString("10"), 1, start, nil)
	assert.False(t, e.Accept(lowBid, start))
	firstBid := types.NewBid(ids.New(), decimal.RequireFromString("11"), 1, start, nil)
	e.Accept(firstBid, start)

	tooLow := types.NewBid(ids.New(), decimal.RequireFromString("11"), 1, start, nil)
	assert.Error(t, e.ValidateBid(tooLow, start))
}

func TestEnglishFinalizesAfterInactivity(t *testing.T) {
	start := types.Now()
	e := NewEnglish(EnglishConfig{
		Core:             CoreConfig{MaxQuantity: 1},
		StartingPrice:    decimal.RequireFromString("10"),
		Increment:        decimal.RequireFromString("1"),
		InactiveDuration: time.Second,
	})
	e.Init(start, rng.New(1))
	winner := ids.New()
	e.Accept(types.NewBid(winner, decimal.RequireFromString("15"), 1, start, nil), start)

	later := types.Timestamp(start.Time().Add(2 * time.Second))
	assert.True(t, e.ReadyToFinalize(later))

	result, err := e.Finalize(ids.New(), later, rng.New(1))
	require.NoError(t, err)
	assert.Equal(t, []ids.Identifier{winner}, result.Winners)
	assert.True(t, result.ClearingPrice.Equal(decimal.RequireFromString("15")))
}
