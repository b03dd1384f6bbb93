package telemetry

import (
	"fmt"
	"sync"
	"time"
)

// CircuitState mirrors the teacher's adapter circuit breaker states,
// applied here per mechanism tag instead of per ad adapter.
type CircuitState string

const (
	StateClosed   CircuitState = "closed"
	StateOpen     CircuitState = "open"
	StateHalfOpen CircuitState = "half_open"
)

// CircuitBreaker trips per mechanism tag once a workflow node using that
// mechanism fails maxFailures times in a row, giving the controller a
// way to stop launching actors for a mechanism that is reliably
// misbehaving (bad config, a solver that keeps erroring, ...).
type CircuitBreaker struct {
	maxFailures  int
	resetTimeout time.Duration

	mu           sync.Mutex
	failures     map[string]int
	lastFailTime map[string]time.Time
	state        map[string]CircuitState
}

// NewCircuitBreaker constructs a CircuitBreaker.
func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		failures:     map[string]int{},
		lastFailTime: map[string]time.Time{},
		state:        map[string]CircuitState{},
	}
}

// Allow reports whether a node tagged with tag may run.
func (cb *CircuitBreaker) Allow(tag string) error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.getState(tag) {
	case StateOpen:
		if time.Since(cb.lastFailTime[tag]) > cb.resetTimeout {
			cb.state[tag] = StateHalfOpen
			return nil
		}
		return fmt.Errorf("circuit breaker open for mechanism %s", tag)
	default:
		return nil
	}
}

// RecordResult updates the breaker state for tag after a node runs.
func (cb *CircuitBreaker) RecordResult(tag string, err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.failures[tag]++
		cb.lastFailTime[tag] = time.Now()
		if cb.failures[tag] >= cb.maxFailures {
			cb.state[tag] = StateOpen
		}
		return
	}
	cb.failures[tag] = 0
	cb.state[tag] = StateClosed
}

func (cb *CircuitBreaker) getState(tag string) CircuitState {
	if s, ok := cb.state[tag]; ok {
		return s
	}
	return StateClosed
}

// State returns the current circuit state for tag.
func (cb *CircuitBreaker) State(tag string) CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.getState(tag)
}
