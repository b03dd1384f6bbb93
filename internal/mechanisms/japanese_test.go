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

func TestJapaneseDropsNonAffirmingBidderAndAdvancesPrice(t *testing.T) {
	start := types.Now()
	j := NewJapanese(JapaneseConfig{
		Core:             CoreConfig{MaxQuantity: 1},
		StartingPrice:    decimal.RequireFromString("10"),
		Increment:        decimal.RequireFromString("5"),
		TickDuration:     time.Second,
		MinActiveBidders: 2,
	})
	j.Init(start, rng.New(1))

	a, b := ids.New(), ids.New()
	j.Accept(types.NewBid(a, decimal.RequireFromString("10"), 1, start, nil), start)
	j.Accept(types.NewBid(b, decimal.RequireFromString("10"), 1, start, nil), start)

	round1 := types.Timestamp(start.Time().Add(time.Second))
	// tick to round 1 (price -> 15, both still active); only a affirms it
	j.Accept(types.NewBid(a, decimal.RequireFromString("15"), 1, round1, nil), round1)

	round2 := types.Timestamp(start.Time().Add(2 * time.Second))
	assert.True(t, j.ReadyToFinalize(round2))

	result, err := j.Finalize(ids.New(), round2, rng.New(1))
	require.NoError(t, err)
	assert.Equal(t, []ids.Identifier{a}, result.Winners)
	assert.True(t, result.ClearingPrice.Equal(decimal.RequireFromString("15")))
}

func TestJapaneseEmptyBeforeAnyBid(t *testing.T) {
	start := types.Now()
	j := NewJapanese(JapaneseConfig{StartingPrice: decimal.RequireFromString("10")})
	j.Init(start, rng.New(1))
	assert.False(t, j.ReadyToFinalize(start))
}
