// Package tracing records a lightweight event trace of one run of the
// generation graph, adapted from the teacher's
// monitoring.ExecutionTrace (ordered TraceEvent list behind a mutex,
// rendered with a String() method) to the node vocabulary of this
// module. The trainer package builds a Trace for every run and returns
// it in Result; config.TracingEnabled is not consulted, and nothing is
// sent to config.TracingEndpoint.
package tracing

import (
	"fmt"
	"sync"
	"time"
)

// Event is one recorded occurrence within a run: a node starting,
// completing, or failing.
type Event struct {
	Timestamp time.Time
	Kind      string // "node_started" | "node_completed" | "node_failed"
	Node      string
	Message   string
	Err       error
}

// Trace accumulates events for a single run, identified by runID.
type Trace struct {
	RunID string

	mu     sync.Mutex
	events []Event
}

// New starts an empty trace for the given run.
func New(runID string) *Trace {
	return &Trace{RunID: runID, events: make([]Event, 0)}
}

// Record appends an event to the trace.
func (t *Trace) Record(kind, node, message string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, Event{
		Timestamp: time.Now(),
		Kind:      kind,
		Node:      node,
		Message:   message,
		Err:       err,
	})
}

// Events returns a copy of the recorded events in order.
func (t *Trace) Events() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Event, len(t.events))
	copy(out, t.events)
	return out
}

// String renders the trace as a human-readable log for debugging.
func (t *Trace) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := fmt.Sprintf("Run Trace [%s] (%d events)\n", t.RunID, len(t.events))
	for i, e := range t.events {
		out += fmt.Sprintf("%d. [%s] %s node=%s", i+1, e.Timestamp.Format("15:04:05.000"), e.Kind, e.Node)
		if e.Message != "" {
			out += " - " + e.Message
		}
		if e.Err != nil {
			out += fmt.Sprintf(" [ERROR: %v]", e.Err)
		}
		out += "\n"
	}
	return out
}
