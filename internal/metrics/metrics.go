// Package metrics collects per-node and per-LLM-call execution metrics
// for one generation run, adapted from the teacher's
// monitoring.MetricsCollector (NodeMetrics/AIMetrics tracked in memory
// behind a mutex) down to the 13 fixed node names this module runs.
package metrics

import (
	"sync"
	"time"
)

// NodeMetrics tracks execution counters for a single node name.
type NodeMetrics struct {
	NodeName       string
	ExecutionCount int
	SuccessCount   int
	FailureCount   int
	TotalDuration  time.Duration
	MinDuration    time.Duration
	MaxDuration    time.Duration
}

// AIMetrics tracks aggregate LLM usage across the three LLM node kinds.
type AIMetrics struct {
	TotalRequests    int
	PromptTokens     int
	CompletionTokens int
	TotalLatency     time.Duration
}

// Collector accumulates metrics for a single run of the graph.
type Collector struct {
	mu    sync.Mutex
	nodes map[string]*NodeMetrics
	ai    AIMetrics
}

// NewCollector builds an empty collector.
func NewCollector() *Collector {
	return &Collector{nodes: make(map[string]*NodeMetrics)}
}

// RecordNode records one node execution's outcome and duration.
func (c *Collector) RecordNode(name string, duration time.Duration, success bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.nodes[name]
	if !ok {
		m = &NodeMetrics{NodeName: name, MinDuration: duration, MaxDuration: duration}
		c.nodes[name] = m
	}
	m.ExecutionCount++
	if success {
		m.SuccessCount++
	} else {
		m.FailureCount++
	}
	m.TotalDuration += duration
	if duration < m.MinDuration {
		m.MinDuration = duration
	}
	if duration > m.MaxDuration {
		m.MaxDuration = duration
	}
}

// RecordLLMCall records one LLM round trip's token usage and latency.
func (c *Collector) RecordLLMCall(promptTokens, completionTokens int, latency time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ai.TotalRequests++
	c.ai.PromptTokens += promptTokens
	c.ai.CompletionTokens += completionTokens
	c.ai.TotalLatency += latency
}

// Snapshot returns a point-in-time copy of every recorded node's
// metrics plus the aggregate AI metrics.
func (c *Collector) Snapshot() ([]NodeMetrics, AIMetrics) {
	c.mu.Lock()
	defer c.mu.Unlock()

	nodes := make([]NodeMetrics, 0, len(c.nodes))
	for _, m := range c.nodes {
		nodes = append(nodes, *m)
	}
	return nodes, c.ai
}
