// Package actor implements the per-auction mailbox actor (C4): a single
// goroutine owns one auction's mechanism and state, processing messages
// off its mailbox one at a time so no locking is needed around mechanism
// state.
package actor

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/rivalapexmediation/auctionengine/internal/clock"
	"github.com/rivalapexmediation/auctionengine/internal/eventlog"
	"github.com/rivalapexmediation/auctionengine/internal/ids"
	"github.com/rivalapexmediation/auctionengine/internal/mechanisms"
	"github.com/rivalapexmediation/auctionengine/internal/rng"
	"github.com/rivalapexmediation/auctionengine/internal/types"
)

// Actor drives a single auction's lifecycle: pending -> active ->
// finalizing -> completed, or -> cancelled from pending/active.
type Actor struct {
	id      ids.Identifier
	typeTag string
	mech    mechanisms.Mechanism
	state   types.AuctionState
	log     *eventlog.Log
	clock   clock.Clock
	rng     *rng.Source

	mailbox  chan any
	done     chan struct{}
	stopOnce sync.Once
}

// New constructs an Actor in the pending state. Call Run in its own
// goroutine, then Start to transition it to active.
func New(id ids.Identifier, typeTag string, mech mechanisms.Mechanism, core mechanisms.CoreConfig, participants map[ids.Identifier]types.Bidder, eventLog *eventlog.Log, clk clock.Clock, r *rng.Source) *Actor {
	return &Actor{
		id:      id,
		typeTag: typeTag,
		mech:    mech,
		clock:   clk,
		rng:     r,
		log:     eventLog,
		mailbox: make(chan any, 64),
		done:    make(chan struct{}),
		state: types.AuctionState{
			AuctionID:    id,
			TypeTag:      typeTag,
			Status:       types.StatusPending,
			Participants: participants,
			ReservePrice: core.ReservePrice,
			TieBreaking:  core.TieBreaking,
			MaxQuantity:  core.MaxQuantity,
			StartTime:    core.StartTime,
			EndTime:      core.EndTime,
		},
	}
}

// ID returns the auction identifier this actor drives.
func (a *Actor) ID() ids.Identifier { return a.id }

// Send enqueues a message. Returns types.ErrActorStopped once Stop has
// been called.
func (a *Actor) Send(msg any) (err error) {
	// Stop closes the mailbox before Run exits; a send racing that close
	// panics, which is reported as a stopped actor.
	defer func() {
		if recover() != nil {
			err = types.ErrActorStopped
		}
	}()
	select {
	case <-a.done:
		return types.ErrActorStopped
	default:
	}
	select {
	case a.mailbox <- msg:
		return nil
	case <-a.done:
		return types.ErrActorStopped
	}
}

// Stop closes the mailbox. Messages already enqueued are still
// processed by Run before it returns; Send rejects anything after.
func (a *Actor) Stop() {
	a.stopOnce.Do(func() { close(a.mailbox) })
}

// Done reports when Run has exited.
func (a *Actor) Done() <-chan struct{} { return a.done }

// Start transitions pending -> active, initializing the mechanism clock.
func (a *Actor) Start() {
	a.Send(startMessage{})
}

type startMessage struct{}

// Run processes the mailbox until Stop is called and the backlog drains.
// It must run in its own goroutine.
func (a *Actor) Run() {
	defer close(a.done)
	for msg := range a.mailbox {
		a.handle(msg)
	}
}

func (a *Actor) handle(msg any) {
	now := types.Timestamp(a.clock.Now())
	switch m := msg.(type) {
	case startMessage:
		a.handleStart(now)
	case BidMessage:
		m.Reply <- a.handleBid(m.Bid, now)
	case FinalizeMessage:
		m.Reply <- a.handleFinalize(now)
	case QueryMessage:
		m.Reply <- a.snapshot()
	case StateSnapshotMessage:
		m.Reply <- StateSnapshot{State: a.snapshot(), Tag: a.mech.Tag()}
	case CancelMessage:
		m.Reply <- a.handleCancel(m.Reason, now)
	case UpdateConfigMessage:
		m.Reply <- a.handleUpdateConfig(m.Core)
	default:
		log.WithField("auction_id", a.id.String()).Warn("actor: unrecognized message type")
	}
}

func (a *Actor) handleStart(now types.Timestamp) {
	if a.state.Status != types.StatusPending {
		return
	}
	a.mech.Init(now, a.rng)
	a.state.Status = types.StatusActive
	a.appendEvent(types.NewAuctionStarted(a.id, now, a.typeTag))
}

func (a *Actor) handleBid(bid types.Bid, now types.Timestamp) error {
	if a.state.Status != types.StatusActive {
		return types.ErrAuctionNotActive
	}

	if !a.state.EndTime.Time().IsZero() && !now.Before(a.state.EndTime) {
		a.finalizeLocked(now)
		return types.ErrAuctionEnded
	}

	if bid.Amount.LessThan(a.state.ReservePrice) {
		a.appendEvent(types.NewBidRejected(a.id, now, bid.BidderID, bid.Amount, types.ErrBelowReserve.Error()))
		return types.ErrBelowReserve
	}

	if err := a.mech.ValidateBid(bid, now); err != nil {
		a.appendEvent(types.NewBidRejected(a.id, now, bid.BidderID, bid.Amount, err.Error()))
		return err
	}

	triggersClearing := a.mech.Accept(bid, now)
	a.state.CurrentBids = append(a.state.CurrentBids, bid)
	a.appendEvent(types.NewBidSubmitted(a.id, now, bid))

	if triggersClearing || a.mech.ReadyToFinalize(now) {
		a.state.Status = types.StatusFinalizing
		a.finalizeLocked(now)
	}
	return nil
}

func (a *Actor) handleFinalize(now types.Timestamp) FinalizeReply {
	if a.state.Status == types.StatusCancelled {
		return FinalizeReply{Err: types.ErrAuctionNotActive}
	}
	if a.state.Status == types.StatusCompleted {
		if a.state.Result != nil {
			return FinalizeReply{Result: *a.state.Result}
		}
		return FinalizeReply{Err: types.ErrAuctionNotActive}
	}
	if a.state.Status == types.StatusPending || a.state.Status == types.StatusActive {
		a.state.Status = types.StatusFinalizing
	}
	err := a.finalizeLocked(now)
	if err != nil {
		return FinalizeReply{Err: err}
	}
	return FinalizeReply{Result: *a.state.Result}
}

// finalizeLocked runs the mechanism's Finalize, transitioning to
// completed on success or cancelled on error. Idempotent: if the
// auction already completed, it's a no-op.
func (a *Actor) finalizeLocked(now types.Timestamp) error {
	if a.state.Status == types.StatusCompleted || a.state.Status == types.StatusCancelled {
		return nil
	}

	result, err := a.mech.Finalize(a.id, now, a.rng)
	if err == nil {
		err = result.Validate()
	}
	if err != nil {
		a.state.Status = types.StatusCancelled
		a.appendEvent(types.NewAuctionCancelled(a.id, now, err.Error()))
		log.WithError(err).WithField("auction_id", a.id.String()).Error("actor: finalize failed, cancelling auction")
		return err
	}

	a.state.Status = types.StatusCompleted
	a.state.Result = &result
	a.appendEvent(types.NewAuctionFinalized(a.id, now, result))
	return nil
}

func (a *Actor) handleCancel(reason string, now types.Timestamp) error {
	if a.state.Status == types.StatusCompleted || a.state.Status == types.StatusCancelled {
		return types.ErrAuctionNotActive
	}
	a.state.Status = types.StatusCancelled
	a.appendEvent(types.NewAuctionCancelled(a.id, now, reason))
	return nil
}

func (a *Actor) handleUpdateConfig(core mechanisms.CoreConfig) error {
	if a.state.Status != types.StatusPending {
		return types.ErrAuctionNotActive
	}
	a.state.ReservePrice = core.ReservePrice
	a.state.TieBreaking = core.TieBreaking
	a.state.MaxQuantity = core.MaxQuantity
	a.state.EndTime = core.EndTime
	return nil
}

func (a *Actor) appendEvent(event types.Event) {
	if _, err := a.log.Append(a.id, event.EventTimestamp(), event); err != nil {
		log.WithError(err).WithField("auction_id", a.id.String()).Error("actor: event log append failed")
	}
}

func (a *Actor) snapshot() types.AuctionState {
	s := a.state
	s.CurrentBids = append([]types.Bid(nil), a.state.CurrentBids...)
	if a.state.Result != nil {
		r := *a.state.Result
		s.Result = &r
	}
	if reporter, ok := a.mech.(mechanisms.LiveStateReporter); ok {
		s.MechanismState = reporter.LiveState()
	}
	return s
}
