package controller

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/rivalapexmediation/auctionengine/internal/actor"
	"github.com/rivalapexmediation/auctionengine/internal/clock"
	"github.com/rivalapexmediation/auctionengine/internal/config"
	"github.com/rivalapexmediation/auctionengine/internal/eventlog"
	"github.com/rivalapexmediation/auctionengine/internal/ids"
	"github.com/rivalapexmediation/auctionengine/internal/rng"
	"github.com/rivalapexmediation/auctionengine/internal/telemetry"
	"github.com/rivalapexmediation/auctionengine/internal/types"
)

const defaultPollTimeout = 10 * time.Second

var defaultChainMultiplier = decimal.NewFromFloat(1.1)

// NodeResult is the outcome of running one workflow node.
type NodeResult struct {
	NodeID   string
	Result   types.AuctionResult
	Err      error
	Duration time.Duration
}

// Controller launches an actor per workflow node, feeds it initial
// bids (its own for root nodes, or propagated from upstream winners),
// lets it run, finalizes it, and carries its result downstream.
type Controller struct {
	log             *eventlog.Log
	clock           clock.Clock
	rng             *rng.Source
	breaker         *telemetry.CircuitBreaker
	metrics         *telemetry.NodeMetrics
	pollTimeout     time.Duration
	chainMultiplier decimal.Decimal

	mu      sync.Mutex
	actors  []*actor.Actor
	stopped bool
}

// New constructs a Controller. breaker/metrics may be nil to disable
// those concerns.
func New(eventLog *eventlog.Log, clk clock.Clock, r *rng.Source, breaker *telemetry.CircuitBreaker, metrics *telemetry.NodeMetrics) *Controller {
	return &Controller{
		log:             eventLog,
		clock:           clk,
		rng:             r,
		breaker:         breaker,
		metrics:         metrics,
		pollTimeout:     defaultPollTimeout,
		chainMultiplier: defaultChainMultiplier,
	}
}

// SetPollTimeout overrides the default 10s finalize-poll deadline.
func (c *Controller) SetPollTimeout(d time.Duration) { c.pollTimeout = d }

// SetChainMultiplier overrides the default 1.1x re-bid applied to the
// upstream clearing price when propagating a winner into a downstream
// node's initial bid.
func (c *Controller) SetChainMultiplier(m decimal.Decimal) { c.chainMultiplier = m }

// Execute runs every node of graph in topological order, propagating
// upstream winners into downstream initial bids, and returns one
// NodeResult per node.
func (c *Controller) Execute(graph *WorkflowGraph) ([]NodeResult, error) {
	order, err := graph.topologicalOrder()
	if err != nil {
		return nil, err
	}

	upstream := make(map[string]types.AuctionResult, len(order))
	results := make([]NodeResult, 0, len(order))

	for _, nodeID := range order {
		node, _ := graph.Node(nodeID)
		result := c.runNode(node, upstream)
		results = append(results, result)
		if result.Err == nil {
			upstream[nodeID] = result.Result
		}
	}

	if c.metrics != nil {
		logged := make(map[string]bool, len(order))
		for _, nodeID := range order {
			node, _ := graph.Node(nodeID)
			tag := string(node.Options.Tag)
			if logged[tag] {
				continue
			}
			logged[tag] = true
			p50, p95 := c.metrics.Percentiles(tag)
			log.WithFields(log.Fields{"mechanism": tag, "p50": p50, "p95": p95}).Info("controller: workflow node latency")
		}
	}
	return results, nil
}

func (c *Controller) runNode(node WorkflowNode, upstream map[string]types.AuctionResult) NodeResult {
	tag := string(node.Options.Tag)

	ctx, span := telemetry.StartSpan(context.Background(), "controller.run_node", map[string]string{
		"node_id":   node.ID,
		"mechanism": tag,
	})
	defer span.End()

	if c.breaker != nil {
		if err := c.breaker.Allow(tag); err != nil {
			return NodeResult{NodeID: node.ID, Err: err}
		}
	}

	start := c.clock.Now()
	mech, err := config.Build(node.Options)
	if err != nil {
		c.recordOutcome(tag, err)
		return NodeResult{NodeID: node.ID, Err: err}
	}

	auctionID := ids.New()
	participants := bidderMapByID(node.Participants)
	a := actor.New(auctionID, tag, mech, node.Options.Core(), participants, c.log, c.clock, c.rng)

	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return NodeResult{NodeID: node.ID, Err: types.ErrControllerStopped}
	}
	c.actors = append(c.actors, a)
	c.mu.Unlock()

	go a.Run()
	a.Start()

	bids := node.InitialBids
	if len(node.DependsOn) > 0 {
		bids = propagateResults(node.DependsOn, upstream, c.chainMultiplier)
	}
	for _, bid := range bids {
		reply := make(chan error, 1)
		if err := a.Send(actor.BidMessage{Bid: bid, Reply: reply}); err != nil {
			log.WithError(err).WithField("node_id", node.ID).Warn("controller: could not submit initial bid")
			continue
		}
		if err := <-reply; err != nil {
			log.WithError(err).WithField("node_id", node.ID).Debug("controller: initial bid rejected")
		}
	}

	if node.DurationSeconds > 0 {
		c.clock.Sleep(time.Duration(node.DurationSeconds) * time.Second)
	}

	result, err := c.finalizeAndPoll(ctx, a)
	duration := c.clock.Now().Sub(start)

	if c.metrics != nil {
		c.metrics.Observe(tag, duration)
	}
	c.recordOutcome(tag, err)
	a.Stop()

	return NodeResult{NodeID: node.ID, Result: result, Err: err, Duration: duration}
}

func (c *Controller) recordOutcome(tag string, err error) {
	if c.breaker != nil {
		c.breaker.RecordResult(tag, err)
	}
}

// finalizeAndPoll sends FinalizeMessage, then waits for the actor's
// finalize reply until pollTimeout elapses.
func (c *Controller) finalizeAndPoll(ctx context.Context, a *actor.Actor) (types.AuctionResult, error) {
	_, span := telemetry.StartSpan(ctx, "controller.finalize", map[string]string{
		"auction_id": a.ID().String(),
	})
	defer span.End()

	reply := make(chan actor.FinalizeReply, 1)
	if err := a.Send(actor.FinalizeMessage{Reply: reply}); err != nil {
		return types.AuctionResult{}, err
	}

	select {
	case r := <-reply:
		return r.Result, r.Err
	case <-c.clock.After(c.pollTimeout):
		return types.AuctionResult{}, types.ErrFinalizationTimeout
	}
}

// Stop gracefully shuts down every actor the controller has launched.
func (c *Controller) Stop() {
	c.mu.Lock()
	c.stopped = true
	actors := append([]*actor.Actor(nil), c.actors...)
	c.mu.Unlock()

	for _, a := range actors {
		a.Stop()
		<-a.Done()
	}
}

func bidderMapByID(participants map[string]types.Bidder) map[ids.Identifier]types.Bidder {
	out := make(map[ids.Identifier]types.Bidder, len(participants))
	for _, b := range participants {
		out[b.ID] = b
	}
	return out
}
