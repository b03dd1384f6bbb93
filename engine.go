// Package auctionengine is the root direct bid interface (§6): an
// in-process call surface consumed by CLIs and RPC adapters alike,
// wrapping the actor/controller/eventlog/config internals behind the
// four operations the spec names — create_auction, submit_bid,
// finalize_auction, query_status.
package auctionengine

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/rivalapexmediation/auctionengine/internal/actor"
	"github.com/rivalapexmediation/auctionengine/internal/clock"
	"github.com/rivalapexmediation/auctionengine/internal/config"
	"github.com/rivalapexmediation/auctionengine/internal/eventlog"
	"github.com/rivalapexmediation/auctionengine/internal/ids"
	"github.com/rivalapexmediation/auctionengine/internal/mechanisms"
	"github.com/rivalapexmediation/auctionengine/internal/rng"
	"github.com/rivalapexmediation/auctionengine/internal/telemetry"
	"github.com/rivalapexmediation/auctionengine/internal/types"
)

// Engine owns the event log and every live auction actor. It is safe
// for concurrent use.
type Engine struct {
	log     *eventlog.Log
	clock   clock.Clock
	rng     *rng.Source
	limiter *telemetry.BidRateLimiter

	mu     sync.Mutex
	actors map[ids.Identifier]*actor.Actor
}

// New constructs an Engine with a fresh event log, real wall clock, and
// a submit_bid rate limiter of burst requests per window per bidder.
func New(seed int64, rateWindow time.Duration, rateBurst int) *Engine {
	return &Engine{
		log:     eventlog.New(),
		clock:   clock.Real{},
		rng:     rng.New(seed),
		limiter: telemetry.NewBidRateLimiter(rateWindow, rateBurst),
		actors:  make(map[ids.Identifier]*actor.Actor),
	}
}

// Log exposes the underlying event log, e.g. for a persistence adapter
// or integrity audits.
func (e *Engine) Log() *eventlog.Log { return e.log }

// CreateAuctionResult is the create_auction output shape.
type CreateAuctionResult struct {
	Success   bool
	AuctionID ids.Identifier
	Error     string
}

// CreateAuction builds the mechanism from opts, launches its actor, and
// starts it (pending -> active).
func (e *Engine) CreateAuction(opts config.Options, participants map[ids.Identifier]types.Bidder) CreateAuctionResult {
	mech, err := config.Build(opts)
	if err != nil {
		return CreateAuctionResult{Error: err.Error()}
	}

	auctionID := ids.New()
	a := actor.New(auctionID, string(opts.Tag), mech, opts.Core(), participants, e.log, e.clock, e.rng)

	e.mu.Lock()
	e.actors[auctionID] = a
	e.mu.Unlock()

	go a.Run()
	a.Start()

	return CreateAuctionResult{Success: true, AuctionID: auctionID}
}

// SubmitBidResult is the submit_bid output shape.
type SubmitBidResult struct {
	Success bool
	BidID   ids.Identifier
	Message string
}

// SubmitBid gates on the per-bidder rate limiter, then forwards the bid
// to auctionID's actor and waits for its accept/reject decision.
func (e *Engine) SubmitBid(auctionID, bidderID ids.Identifier, amount decimal.Decimal, quantity int, metadata types.Metadata) SubmitBidResult {
	if !e.limiter.Allow(bidderID) {
		return SubmitBidResult{Message: types.ErrRateLimited.Error()}
	}

	a, err := e.actorFor(auctionID)
	if err != nil {
		return SubmitBidResult{Message: err.Error()}
	}

	bid := types.NewBid(bidderID, amount, quantity, types.Timestamp(e.clock.Now()), metadata)
	reply := make(chan error, 1)
	if err := a.Send(actor.BidMessage{Bid: bid, Reply: reply}); err != nil {
		return SubmitBidResult{Message: err.Error()}
	}
	if err := <-reply; err != nil {
		log.WithError(err).WithField("auction_id", auctionID.String()).Debug("engine: bid rejected")
		return SubmitBidResult{BidID: bid.ID, Message: err.Error()}
	}
	return SubmitBidResult{Success: true, BidID: bid.ID, Message: "accepted"}
}

// FinalizeAuctionResult is the finalize_auction output shape.
type FinalizeAuctionResult struct {
	Success       bool
	ClearingPrice decimal.Decimal
	Winners       []ids.Identifier
	Payments      map[ids.Identifier]decimal.Decimal
	Error         string
}

// FinalizeAuction requests finalization and waits (bounded by timeout)
// for the actor's outcome.
func (e *Engine) FinalizeAuction(auctionID ids.Identifier, timeout time.Duration) FinalizeAuctionResult {
	a, err := e.actorFor(auctionID)
	if err != nil {
		return FinalizeAuctionResult{Error: err.Error()}
	}

	reply := make(chan actor.FinalizeReply, 1)
	if err := a.Send(actor.FinalizeMessage{Reply: reply}); err != nil {
		return FinalizeAuctionResult{Error: err.Error()}
	}

	select {
	case r := <-reply:
		if r.Err != nil {
			return FinalizeAuctionResult{Error: r.Err.Error()}
		}
		return FinalizeAuctionResult{
			Success:       true,
			ClearingPrice: r.Result.ClearingPrice,
			Winners:       r.Result.Winners,
			Payments:      r.Result.Payments,
		}
	case <-time.After(timeout):
		return FinalizeAuctionResult{Error: types.ErrFinalizationTimeout.Error()}
	}
}

// QueryStatusResult is the query_status output shape. CurrentPrice and
// CurrentLeader are populated best-effort from mechanism-specific live
// state where the mechanism exposes one (dutch/english/japanese/penny);
// zero value otherwise.
type QueryStatusResult struct {
	Status        types.AuctionStatus
	BidCount      int
	CurrentPrice  decimal.Decimal
	CurrentLeader ids.Identifier
}

// QueryStatus returns a point-in-time snapshot of auctionID.
func (e *Engine) QueryStatus(auctionID ids.Identifier) (QueryStatusResult, error) {
	a, err := e.actorFor(auctionID)
	if err != nil {
		return QueryStatusResult{}, err
	}

	reply := make(chan types.AuctionState, 1)
	if err := a.Send(actor.QueryMessage{Reply: reply}); err != nil {
		return QueryStatusResult{}, err
	}
	state := <-reply

	result := QueryStatusResult{Status: state.Status, BidCount: len(state.CurrentBids)}
	switch live := state.MechanismState.(type) {
	case mechanisms.LivePriceState:
		result.CurrentPrice = live.CurrentPrice
		result.CurrentLeader = live.CurrentLeader
	}
	return result, nil
}

func (e *Engine) actorFor(auctionID ids.Identifier) (*actor.Actor, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	a, ok := e.actors[auctionID]
	if !ok {
		return nil, types.ErrAuctionNotFound
	}
	return a, nil
}

// Shutdown gracefully stops every live actor.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	actors := make([]*actor.Actor, 0, len(e.actors))
	for _, a := range e.actors {
		actors = append(actors, a)
	}
	e.mu.Unlock()

	for _, a := range actors {
		a.Stop()
		<-a.Done()
	}
}
