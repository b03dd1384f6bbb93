// Package controller implements the workflow controller (C5): a DAG of
// auction nodes validated for cycles, executed in topological order,
// with results propagated from each node's winners into the next
// node's initial bids.
package controller

import (
	"github.com/rivalapexmediation/auctionengine/internal/config"
	"github.com/rivalapexmediation/auctionengine/internal/types"
)

// WorkflowNode is one auction stage in a workflow graph.
type WorkflowNode struct {
	ID              string
	Options         config.Options
	DependsOn       []string
	DurationSeconds int
	InitialBids     []types.Bid // used only when DependsOn is empty
	Participants    map[string]types.Bidder
}

// WorkflowGraph is a validated DAG of WorkflowNodes.
type WorkflowGraph struct {
	nodes map[string]WorkflowNode
	order []string // insertion order, for deterministic iteration before validation
}

// NewWorkflowGraph returns an empty graph.
func NewWorkflowGraph() *WorkflowGraph {
	return &WorkflowGraph{nodes: map[string]WorkflowNode{}}
}

// AddNode adds a node. Returns an error if its ID is already present.
func (g *WorkflowGraph) AddNode(n WorkflowNode) error {
	if _, exists := g.nodes[n.ID]; exists {
		return types.ErrInvariantViolation
	}
	g.nodes[n.ID] = n
	g.order = append(g.order, n.ID)
	return nil
}

// CreateWorkflowGraph builds a graph from nodes and validates it:
// every DependsOn reference must resolve to a node in the set, and the
// graph must be acyclic.
func CreateWorkflowGraph(nodes []WorkflowNode) (*WorkflowGraph, error) {
	g := NewWorkflowGraph()
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			return nil, err
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Validate checks referential integrity and acyclicity.
func (g *WorkflowGraph) Validate() error {
	for _, n := range g.nodes {
		for _, dep := range n.DependsOn {
			if _, ok := g.nodes[dep]; !ok {
				return types.ErrUnknownNode
			}
		}
	}
	if _, err := g.topologicalOrder(); err != nil {
		return err
	}
	return nil
}

// topologicalOrder runs Kahn's algorithm: repeatedly strip nodes with
// zero remaining in-degree. Any node left over once no more can be
// stripped means the graph has a cycle.
func (g *WorkflowGraph) topologicalOrder() ([]string, error) {
	inDegree := make(map[string]int, len(g.nodes))
	dependents := make(map[string][]string, len(g.nodes))
	for id, n := range g.nodes {
		if _, ok := inDegree[id]; !ok {
			inDegree[id] = 0
		}
		for _, dep := range n.DependsOn {
			inDegree[id]++
			dependents[dep] = append(dependents[dep], id)
		}
	}

	queue := make([]string, 0, len(g.nodes))
	for _, id := range g.order {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	order := make([]string, 0, len(g.nodes))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		for _, dependent := range dependents[id] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(order) != len(g.nodes) {
		return nil, types.ErrCyclicWorkflow
	}
	return order, nil
}

// Node returns the node registered under id.
func (g *WorkflowGraph) Node(id string) (WorkflowNode, bool) {
	n, ok := g.nodes[id]
	return n, ok
}
