// Package trainer is the module's single external entry point: it wires
// the thirteen nodes of internal/nodes into an internal/graph.Engine and
// runs it for one user, the way the teacher's root mbflow.go package is
// a thin facade in front of its internal/application/executor engine.
package trainer

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/smilemakc/trainerflow/internal/domain"
	"github.com/smilemakc/trainerflow/internal/graph"
	"github.com/smilemakc/trainerflow/internal/metrics"
	"github.com/smilemakc/trainerflow/internal/nodes"
	"github.com/smilemakc/trainerflow/internal/store"
	"github.com/smilemakc/trainerflow/internal/tracing"
)

// RequestType selects how many scheduled days a run produces. Only
// RequestTypeWeekly runs the full loop; RequestTypeDaily and
// RequestTypeSession reuse every node with EngineConfig.LoopBound set
// to 1, producing a one-day plan instead of a distinct code path.
type RequestType string

const (
	RequestTypeWeekly  RequestType = "weekly"
	RequestTypeDaily   RequestType = "daily"
	RequestTypeSession RequestType = "session"
)

func (r RequestType) loopBound() int {
	switch r {
	case RequestTypeDaily, RequestTypeSession:
		return 1
	default:
		return 0
	}
}

func (r RequestType) valid() bool {
	switch r {
	case RequestTypeWeekly, RequestTypeDaily, RequestTypeSession:
		return true
	default:
		return false
	}
}

// LLM is every node-facing LLM capability the graph needs, satisfied
// by *llmclient.Client in production and by a hand-rolled stub in
// tests — accepting the interface here (rather than the concrete
// client type) is what lets trainer_test.go run the full loop,
// including the three-way selector fan-in, without a network call.
type LLM interface {
	nodes.StrategyLLM
	nodes.TargetTagSelector
	nodes.VariationSelectorLLM
}

// Dependencies are the collaborators Execute needs; callers (the
// out-of-scope HTTP host, cmd/trainer) construct exactly one of these
// per process and reuse it across requests.
type Dependencies struct {
	Store   store.Store
	LLM     LLM
	Log     zerolog.Logger
	Metrics *metrics.Collector

	// RunTimeout overrides graph.DefaultEngineConfig's 60-minute budget
	// when non-zero (SPEC_FULL.md §10's supplemented budget override).
	RunTimeout time.Duration
	// MaxParallelNodes overrides the phase-selector fan-out width when
	// non-zero.
	MaxParallelNodes int
	// Rand seeds the Invalidator's rolling-blacklist shuffle; nil means
	// a fresh, non-deterministic source.
	Rand *rand.Rand
}

// Result is what trainer.Execute hands back to its caller.
type Result struct {
	RunID    string
	Sessions []domain.TrainingSession
	Trace    *tracing.Trace
}

// Execute runs the generation graph once for userID and returns every
// assembled TrainingSession. It recovers no panics and wraps every node
// failure with the node name exactly once (internal/graph.Engine does
// the wrapping); trainer.Execute's own job is wiring the registry and
// translating RequestType into an EngineConfig.
func Execute(ctx context.Context, deps Dependencies, userID string, requestType RequestType) (Result, error) {
	if userID == "" {
		return Result{}, fmt.Errorf("userID must not be empty")
	}
	if !requestType.valid() {
		return Result{}, fmt.Errorf("unknown requestType %q", requestType)
	}

	runID := uuid.NewString()
	trace := tracing.New(runID)
	log := deps.Log.With().Str("runId", runID).Str("uid", userID).Logger()

	cfg := graph.DefaultEngineConfig()
	if deps.RunTimeout > 0 {
		cfg.RunTimeout = deps.RunTimeout
	}
	if deps.MaxParallelNodes > 0 {
		cfg.MaxParallelNodes = deps.MaxParallelNodes
	}
	cfg.LoopBound = requestType.loopBound()

	registry := buildRegistry(deps, userID, log)
	observer := &runObserver{metrics: deps.Metrics, trace: trace}
	engine := graph.NewEngine(registry, cfg, log, observer)

	initial := graph.NewState(domain.UserProfile{UID: userID}, nil, nil)
	final, err := engine.Run(ctx, initial)
	if err != nil {
		return Result{RunID: runID, Trace: trace}, err
	}

	snap := final.Snapshot()
	return Result{RunID: runID, Sessions: snap.FinalSessions, Trace: trace}, nil
}

// buildRegistry wires one instance of every node, the concrete
// counterpart of the table in SPEC_FULL.md §4.
func buildRegistry(deps Dependencies, userID string, log zerolog.Logger) *graph.Registry {
	reg := graph.NewRegistry()

	reg.Register(&nodes.ContextLoader{UID: userID, Store: deps.Store})
	reg.Register(&nodes.ContextCleaner{})
	reg.Register(&nodes.Strategy{LLM: deps.LLM})
	reg.Register(&nodes.LoopController{})
	reg.Register(&nodes.PhaseOrchestrator{LLM: deps.LLM})
	reg.Register(&nodes.FilterEngine{})
	reg.Register(&nodes.VariationCleaner{})
	reg.Register(&nodes.WarmupSelector{LLM: deps.LLM})
	reg.Register(&nodes.WorkoutSelector{LLM: deps.LLM, Log: log})
	reg.Register(&nodes.CooldownSelector{LLM: deps.LLM})
	reg.Register(&nodes.Assembler{})
	reg.Register(&nodes.Invalidator{Rand: deps.Rand})
	reg.Register(&nodes.Persistence{UID: userID, Store: deps.Store})

	return reg
}

// runObserver adapts graph.Engine's node-lifecycle callbacks to
// internal/metrics and internal/tracing, keeping both concerns out of
// internal/graph itself.
type runObserver struct {
	metrics *metrics.Collector
	trace   *tracing.Trace
}

func (o *runObserver) NodeStarted(name string) {
	o.trace.Record("node_started", name, "", nil)
}

func (o *runObserver) NodeCompleted(name string, duration time.Duration) {
	if o.metrics != nil {
		o.metrics.RecordNode(name, duration, true)
	}
	o.trace.Record("node_completed", name, duration.String(), nil)
}

func (o *runObserver) NodeFailed(name string, duration time.Duration, err error) {
	if o.metrics != nil {
		o.metrics.RecordNode(name, duration, false)
	}
	o.trace.Record("node_failed", name, duration.String(), err)
}
