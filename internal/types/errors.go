package types

import "errors"

// Validation-kind errors (§7). Rejected locally, surfaced to the caller.
var (
	ErrBelowReserve     = errors.New("bid amount below reserve price")
	ErrAuctionNotActive = errors.New("auction is not active")
	ErrResultInvariant  = errors.New("auction result violates payments/allocations invariant")
	ErrUnknownMechanism = errors.New("unknown mechanism tag")
	ErrAuctionNotFound  = errors.New("auction_id not known to this engine")
)

// Timing-kind errors (§7).
var (
	ErrAuctionEnded        = errors.New("auction end_time has passed")
	ErrFinalizationTimeout = errors.New("finalization poll deadline exceeded")
)

// Concurrency-kind errors (§7).
var (
	ErrControllerStopped = errors.New("controller has been stopped")
	ErrActorStopped      = errors.New("auction actor mailbox has been stopped")
	ErrCircuitOpen       = errors.New("mechanism circuit breaker is open")
	ErrCyclicWorkflow    = errors.New("workflow graph contains a cycle")
	ErrUnknownNode       = errors.New("workflow references an unknown node")
	ErrRateLimited       = errors.New("bidder exceeded the submit_bid rate limit")
)

// Internal-kind errors (§7).
var (
	ErrInvariantViolation = errors.New("internal invariant violation")
	ErrSerialization      = errors.New("event could not be serialized canonically")
)
