// Package errors defines the typed error taxonomy raised by the
// generation graph, mirroring the way the teacher engine wraps node
// failures in a struct-per-kind with a stable Error() string and an
// Unwrap() back to the underlying cause.
package errors

import "fmt"

// LoadError is raised by the Context Loader (node 1) when a required
// document cannot be fetched.
type LoadError struct {
	UID    string
	Reason string // "missing-user" | "store-unreachable"
	Cause  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load error for user %s: %s", e.UID, e.Reason)
}

func (e *LoadError) Unwrap() error { return e.Cause }

func NewLoadError(uid, reason string, cause error) *LoadError {
	return &LoadError{UID: uid, Reason: reason, Cause: cause}
}

// ValidationError is raised when input violates a documented invariant.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// LLMError wraps any failure from the LLM interface: provider
// unreachable, zero tool calls, or a tool call that doesn't conform to
// the schema the caller supplied. Always fatal; the core performs no
// retries of its own (internal/llmclient may retry at the transport
// level, but still surfaces a single outcome here).
type LLMError struct {
	Node   string
	Reason string // "unreachable" | "no-tool-call" | "schema-mismatch"
	Cause  error
}

func (e *LLMError) Error() string {
	return fmt.Sprintf("llm error in %s: %s", e.Node, e.Reason)
}

func (e *LLMError) Unwrap() error { return e.Cause }

func NewLLMError(node, reason string, cause error) *LLMError {
	return &LLMError{Node: node, Reason: reason, Cause: cause}
}

// StrategyError is raised by the Strategy node (3).
type StrategyError struct {
	Reason string // "llm-failed" | "plan-invalid"
	Cause  error
}

func (e *StrategyError) Error() string {
	return fmt.Sprintf("strategy error: %s", e.Reason)
}

func (e *StrategyError) Unwrap() error { return e.Cause }

func NewStrategyError(reason string, cause error) *StrategyError {
	return &StrategyError{Reason: reason, Cause: cause}
}

// OrchestratorError is raised by the Phase Orchestrator node (5.1).
type OrchestratorError struct {
	Reason string // "no-valid-tags"
	Cause  error
}

func (e *OrchestratorError) Error() string {
	return fmt.Sprintf("phase orchestrator error: %s", e.Reason)
}

func (e *OrchestratorError) Unwrap() error { return e.Cause }

func NewOrchestratorError(reason string, cause error) *OrchestratorError {
	return &OrchestratorError{Reason: reason, Cause: cause}
}

// CatalogueError signals an empty or malformed catalogue reaching the
// filter engine (5.2).
type CatalogueError struct {
	Reason string
}

func (e *CatalogueError) Error() string {
	return fmt.Sprintf("catalogue error: %s", e.Reason)
}

func NewCatalogueError(reason string) *CatalogueError {
	return &CatalogueError{Reason: reason}
}

// SelectorError is raised by a phase selector (5.4.*) when it has
// nothing valid to pick from its scored pool.
type SelectorError struct {
	Phase  string
	Reason string // "empty"
}

func (e *SelectorError) Error() string {
	return fmt.Sprintf("%s selector error: %s", e.Phase, e.Reason)
}

func NewSelectorError(phase, reason string) *SelectorError {
	return &SelectorError{Phase: phase, Reason: reason}
}

// PersistenceError is raised by the Persistence node (8).
type PersistenceError struct {
	Op    string // "archive" | "rotate-blacklist"
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error during %s: %v", e.Op, e.Cause)
}

func (e *PersistenceError) Unwrap() error { return e.Cause }

func NewPersistenceError(op string, cause error) *PersistenceError {
	return &PersistenceError{Op: op, Cause: cause}
}
