package graph

import "context"

// Node is one step of the generation graph. It mirrors the teacher's
// NodeExecutor interface (execute against a shared context, return
// only an error — output is written back onto State via the typed
// setters in state.go rather than a generic map[string]any).
type Node interface {
	// Name identifies the node for logging, tracing and error wrapping.
	Name() string
	// Execute runs the node against the shared state.
	Execute(ctx context.Context, state *State) error
}

// Registry holds the fixed set of nodes by name, the same role the
// teacher's `nodeExecutors map[domain.NodeType]NodeExecutor` plays in
// WorkflowEngine, minus the dynamic node-type lookup this module's
// fixed topology doesn't need.
type Registry struct {
	nodes map[string]Node
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{nodes: make(map[string]Node)}
}

// Register adds a node under its own Name().
func (r *Registry) Register(n Node) {
	r.nodes[n.Name()] = n
}

// Get looks up a node by name.
func (r *Registry) Get(name string) (Node, bool) {
	n, ok := r.nodes[name]
	return n, ok
}
