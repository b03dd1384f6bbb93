// Package telemetry holds the engine's ambient observability
// concerns: structured logging setup, rolling workflow-node latency
// metrics, a per-mechanism circuit breaker, and a token-bucket rate
// limiter for bid submission.
package telemetry

import (
	"sort"
	"sync"
	"time"
)

// NodeMetrics is a rolling-window latency recorder for controller
// workflow-node executions, reduced from the teacher's adapter latency
// rollup to the two percentiles the controller actually reports.
type NodeMetrics struct {
	mu         sync.Mutex
	durations  map[string][]time.Duration
	windowSize int
}

// NewNodeMetrics creates a recorder with a per-node-tag rolling window.
// windowSize <= 0 defaults to 256.
func NewNodeMetrics(windowSize int) *NodeMetrics {
	if windowSize <= 0 {
		windowSize = 256
	}
	return &NodeMetrics{durations: map[string][]time.Duration{}, windowSize: windowSize}
}

// Observe records one node's execution duration under tag.
func (m *NodeMetrics) Observe(tag string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	arr := append(m.durations[tag], d)
	if len(arr) > m.windowSize {
		arr = arr[len(arr)-m.windowSize:]
	}
	m.durations[tag] = arr
}

// Percentiles returns p50/p95 for tag over the current rolling window.
func (m *NodeMetrics) Percentiles(tag string) (p50, p95 time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	vals := append([]time.Duration(nil), m.durations[tag]...)
	if len(vals) == 0 {
		return 0, 0
	}
	sort.Slice(vals, func(i, j int) bool { return vals[i] < vals[j] })
	idx := func(p float64) int {
		if len(vals) == 1 {
			return 0
		}
		pos := int(p*float64(len(vals)-1) + 0.5)
		if pos >= len(vals) {
			pos = len(vals) - 1
		}
		return pos
	}
	return vals[idx(0.50)], vals[idx(0.95)]
}
