package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rivalapexmediation/auctionengine/internal/ids"
)

func TestNodeMetricsPercentiles(t *testing.T) {
	m := NewNodeMetrics(8)
	for _, ms := range []int{10, 20, 30, 40, 50} {
		m.Observe("first_price", time.Duration(ms)*time.Millisecond)
	}
	p50, p95 := m.Percentiles("first_price")
	assert.True(t, p50 > 0)
	assert.True(t, p95 >= p50)
}

func TestNodeMetricsEmptyTag(t *testing.T) {
	m := NewNodeMetrics(8)
	p50, p95 := m.Percentiles("nonexistent")
	assert.Zero(t, p50)
	assert.Zero(t, p95)
}

func TestCircuitBreakerOpensAfterFailures(t *testing.T) {
	cb := NewCircuitBreaker(2, time.Minute)
	require := assert.New(t)

	require.NoError(cb.Allow("dutch"))
	cb.RecordResult("dutch", assertErr())
	cb.RecordResult("dutch", assertErr())

	err := cb.Allow("dutch")
	require.Error(err)
	require.Equal(StateOpen, cb.State("dutch"))
}

func TestCircuitBreakerResetsOnSuccess(t *testing.T) {
	cb := NewCircuitBreaker(1, time.Minute)
	cb.RecordResult("penny", assertErr())
	assert.Equal(t, StateOpen, cb.State("penny"))

	cb.RecordResult("penny", nil)
	assert.Equal(t, StateClosed, cb.State("penny"))
}

func assertErr() error { return assertError{} }

type assertError struct{}

func (assertError) Error() string { return "boom" }

func TestBidRateLimiterAllowsBurstThenThrottles(t *testing.T) {
	l := NewBidRateLimiter(time.Minute, 2)
	bidder := ids.New()
	assert.True(t, l.Allow(bidder))
	assert.True(t, l.Allow(bidder))
	assert.False(t, l.Allow(bidder))
}
