package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rivalapexmediation/auctionengine/internal/config"
	"github.com/rivalapexmediation/auctionengine/internal/mechanisms"
	"github.com/rivalapexmediation/auctionengine/internal/types"
)

func optsFor(tag mechanisms.Tag) config.Options {
	return config.Options{Tag: tag}
}

func TestCreateWorkflowGraphAcceptsLinearChain(t *testing.T) {
	g, err := CreateWorkflowGraph([]WorkflowNode{
		{ID: "a", Options: optsFor(mechanisms.TagFirstPrice)},
		{ID: "b", Options: optsFor(mechanisms.TagSecondPrice), DependsOn: []string{"a"}},
		{ID: "c", Options: optsFor(mechanisms.TagFirstPrice), DependsOn: []string{"b"}},
	})
	require.NoError(t, err)

	order, err := g.topologicalOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestCreateWorkflowGraphRejectsCycle(t *testing.T) {
	_, err := CreateWorkflowGraph([]WorkflowNode{
		{ID: "a", Options: optsFor(mechanisms.TagFirstPrice), DependsOn: []string{"b"}},
		{ID: "b", Options: optsFor(mechanisms.TagFirstPrice), DependsOn: []string{"a"}},
	})
	assert.ErrorIs(t, err, types.ErrCyclicWorkflow)
}

func TestCreateWorkflowGraphRejectsUnknownDependency(t *testing.T) {
	_, err := CreateWorkflowGraph([]WorkflowNode{
		{ID: "a", Options: optsFor(mechanisms.TagFirstPrice), DependsOn: []string{"ghost"}},
	})
	assert.Error(t, err)
}
