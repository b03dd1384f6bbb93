package controller

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rivalapexmediation/auctionengine/internal/clock"
	"github.com/rivalapexmediation/auctionengine/internal/config"
	"github.com/rivalapexmediation/auctionengine/internal/eventlog"
	"github.com/rivalapexmediation/auctionengine/internal/ids"
	"github.com/rivalapexmediation/auctionengine/internal/mechanisms"
	"github.com/rivalapexmediation/auctionengine/internal/rng"
	"github.com/rivalapexmediation/auctionengine/internal/telemetry"
	"github.com/rivalapexmediation/auctionengine/internal/types"
)

func firstPriceOptions() config.Options {
	return config.Options{Tag: mechanisms.TagFirstPrice, ReservePrice: decimal.Zero, MaxWinners: 1}
}

func newTestController(t *testing.T) *Controller {
	t.Helper()
	c := New(eventlog.New(), clock.Real{}, rng.New(1), telemetry.NewCircuitBreaker(3, time.Minute), telemetry.NewNodeMetrics(16))
	t.Cleanup(c.Stop)
	return c
}

func TestControllerExecutesChainedWorkflowPropagatingWinners(t *testing.T) {
	c := newTestController(t)

	bidder := ids.New()
	graph, err := CreateWorkflowGraph([]WorkflowNode{
		{
			ID:      "root",
			Options: firstPriceOptions(),
			InitialBids: []types.Bid{
				types.NewBid(bidder, decimal.RequireFromString("10"), 1, types.Now(), nil),
			},
		},
		{
			ID:        "chained",
			Options:   firstPriceOptions(),
			DependsOn: []string{"root"},
		},
	})
	require.NoError(t, err)

	results, err := c.Execute(graph)
	require.NoError(t, err)
	require.Len(t, results, 2)

	root := results[0]
	require.NoError(t, root.Err)
	assert.Equal(t, []ids.Identifier{bidder}, root.Result.Winners)

	chained := results[1]
	require.NoError(t, chained.Err)
	// chained node's winner is the same bidder, re-bidding 1.1x the root clearing price
	assert.Equal(t, []ids.Identifier{bidder}, chained.Result.Winners)
	assert.True(t, chained.Result.ClearingPrice.Equal(decimal.RequireFromString("11")))
}

func TestControllerStopPreventsNewNodesFromLaunching(t *testing.T) {
	c := newTestController(t)
	c.Stop()

	graph, err := CreateWorkflowGraph([]WorkflowNode{{ID: "a", Options: firstPriceOptions()}})
	require.NoError(t, err)

	results, err := c.Execute(graph)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, types.ErrControllerStopped)
}
