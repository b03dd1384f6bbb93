package telemetry

import (
	"sync"
	"time"

	"github.com/rivalapexmediation/auctionengine/internal/ids"
)

// bidBucket is a single bidder's token bucket.
type bidBucket struct {
	mu     sync.Mutex
	tokens float64
	last   time.Time
}

// BidRateLimiter is a token-bucket limiter keyed by bidder ID, adapted
// from the admin API's route+IP limiter to gate submit_bid instead.
type BidRateLimiter struct {
	mu      sync.Mutex
	buckets map[ids.Identifier]*bidBucket
	rate    float64 // tokens per second
	burst   float64
}

// NewBidRateLimiter builds a limiter allowing burst bids immediately,
// refilling at burst/window tokens per second thereafter.
func NewBidRateLimiter(window time.Duration, burst int) *BidRateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	if burst <= 0 {
		burst = 60
	}
	return &BidRateLimiter{
		buckets: make(map[ids.Identifier]*bidBucket),
		rate:    float64(burst) / window.Seconds(),
		burst:   float64(burst),
	}
}

// Allow reports whether bidderID may submit a bid right now, consuming
// one token if so.
func (l *BidRateLimiter) Allow(bidderID ids.Identifier) bool {
	l.mu.Lock()
	b := l.buckets[bidderID]
	if b == nil {
		b = &bidBucket{tokens: l.burst, last: time.Now()}
		l.buckets[bidderID] = b
	}
	l.mu.Unlock()

	b.mu.Lock()
	defer b.mu.Unlock()
	now := time.Now()
	elapsed := now.Sub(b.last).Seconds()
	b.tokens = minFloat(l.burst, b.tokens+elapsed*l.rate)
	b.last = now
	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
