package types

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rivalapexmediation/auctionengine/internal/ids"
)

func TestAuctionStatusTransitions(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusActive))
	assert.True(t, StatusActive.CanTransitionTo(StatusFinalizing))
	assert.True(t, StatusFinalizing.CanTransitionTo(StatusCompleted))
	assert.True(t, StatusActive.CanTransitionTo(StatusCancelled))

	assert.False(t, StatusCompleted.CanTransitionTo(StatusActive))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusActive))
	assert.False(t, StatusPending.CanTransitionTo(StatusCompleted))
}

func TestAuctionResultValidateRequiresWinnerInBoth(t *testing.T) {
	winner := ids.New()
	r := AuctionResult{
		Winners:     []ids.Identifier{winner},
		Allocations: map[ids.Identifier]Allocation{winner: {Quantity: decimal.NewFromInt(1)}},
		Payments:    map[ids.Identifier]decimal.Decimal{},
	}
	require.Error(t, r.Validate())

	r.Payments[winner] = decimal.NewFromInt(10)
	require.NoError(t, r.Validate())
}

func TestAuctionResultValidateRejectsPaymentsWithoutAllocation(t *testing.T) {
	stray := ids.New()
	r := AuctionResult{
		Allocations: map[ids.Identifier]Allocation{},
		Payments:    map[ids.Identifier]decimal.Decimal{stray: decimal.NewFromInt(1)},
	}
	assert.Error(t, r.Validate())
}

func TestBidBundleAndIsBuy(t *testing.T) {
	b := NewBid(ids.New(), decimal.NewFromInt(5), 1, Now(), Metadata{
		"bundle": []string{"item-a", "item-b"},
		"is_buy": true,
	})
	assert.ElementsMatch(t, []string{"item-a", "item-b"}, b.Bundle())
	assert.True(t, b.IsBuy())

	plain := NewBid(ids.New(), decimal.NewFromInt(5), 1, Now(), nil)
	assert.Nil(t, plain.Bundle())
	assert.False(t, plain.IsBuy())
}

func TestMetadataCloneIsIndependent(t *testing.T) {
	m := Metadata{"k": "v"}
	c := m.Clone()
	c["k"] = "changed"
	assert.Equal(t, "v", m["k"])
}
