package graph

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Node names, the vocabulary used by Registry.Get and by error wrapping.
const (
	NodeContextLoader     = "context_loader"
	NodeContextCleaner    = "context_cleaner"
	NodeStrategy          = "strategy"
	NodeLoopController    = "loop_controller"
	NodePhaseOrchestrator = "phase_orchestrator"
	NodeFilterEngine      = "filter_engine"
	NodeVariationCleaner  = "variation_cleaner"
	NodeWarmupSelector    = "warmup_selector"
	NodeWorkoutSelector   = "workout_selector"
	NodeCooldownSelector  = "cooldown_selector"
	NodeAssembler         = "assembler"
	NodeInvalidator       = "invalidator"
	NodePersistence       = "persistence"
)

// maxTransitions bounds the graph the way spec.md §5 "Resource budgets"
// documents. The three phase selectors are launched as one wave and
// counted as a single transition (runSelectors), so one loop iteration
// costs 7 transitions (loop-controller, orchestrator, filter, cleaner,
// selector-wave, assembler, invalidator); with 3 setup transitions
// (loader, cleaner, strategy), a final loop-controller check, and
// persistence, a full run costs 7N+5 for N training days. At N=6 (the
// top of the Strategy node's realistic [3,6] range) that is 47,
// comfortably under 50.
const maxTransitions = 50

// EngineConfig configures the bounded loop and the parallel fan-out.
type EngineConfig struct {
	// MaxParallelNodes caps the phase-selector fan-out; the spec fixes
	// exactly three selectors, so 3 is both the default and the max
	// useful value, mirroring the teacher's MaxParallelNodes knob on
	// EngineConfig without needing the generic semaphore sizing logic.
	MaxParallelNodes int
	// RunTimeout bounds the whole run; spec.md §5 recommends 60 minutes.
	RunTimeout time.Duration
	// LoopBound caps the number of loop iterations regardless of
	// WeeklyPlan.TotalTrainingDays, letting trainer.Execute implement
	// the daily/session request types (a one-day run) by reusing every
	// node instead of branching inside them. Zero means "no extra cap
	// beyond totalTrainingDays".
	LoopBound int
}

// DefaultEngineConfig mirrors the teacher's DefaultEngineConfig.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		MaxParallelNodes: 3,
		RunTimeout:       60 * time.Minute,
	}
}

// Observer receives node lifecycle events, the same role the
// teacher's ExecutionObserver plays for WorkflowEngine; trainer wires
// internal/metrics and internal/tracing behind one adapter so Engine
// itself stays ignorant of either concern.
type Observer interface {
	NodeStarted(name string)
	NodeCompleted(name string, duration time.Duration)
	NodeFailed(name string, duration time.Duration, err error)
}

// Engine drives the fixed 13-node pipeline, the specialized
// counterpart of the teacher's generic WorkflowEngine.
type Engine struct {
	registry *Registry
	config   EngineConfig
	log      zerolog.Logger
	observer Observer
}

// NewEngine wires a registry of nodes (every node name above must be
// registered) into a driver. observer may be nil.
func NewEngine(registry *Registry, config EngineConfig, log zerolog.Logger, observer Observer) *Engine {
	return &Engine{registry: registry, config: config, log: log, observer: observer}
}

// Run executes the graph end to end: loader, cleaner, strategy, the
// bounded per-day loop, and persistence. It returns the final state
// (for callers that need finalSessions even on a persistence error, per
// spec.md §7's "no partial session list is returned from the top-level
// executor" — that guarantee is enforced by trainer.Execute, not here).
func (e *Engine) Run(ctx context.Context, state *State) (*State, error) {
	runCtx, cancel := context.WithTimeout(ctx, e.config.RunTimeout)
	defer cancel()

	transitions := 0

	step := func(name string) error {
		transitions++
		if transitions > maxTransitions {
			return fmt.Errorf("graph exceeded %d transitions, aborting", maxTransitions)
		}
		if err := runCtx.Err(); err != nil {
			return fmt.Errorf("run budget exhausted before node %s: %w", name, err)
		}
		node, ok := e.registry.Get(name)
		if !ok {
			return fmt.Errorf("no node registered for %q", name)
		}
		start := time.Now()
		// Node calls run on a cancellation-detached context so an
		// in-flight LLM call is awaited to completion even if the run
		// budget has just expired, per spec.md §5's cancellation policy;
		// the *next* step() call is what actually refuses to schedule.
		nodeCtx := context.WithoutCancel(runCtx)
		e.log.Debug().Str("node", name).Msg("node starting")
		if e.observer != nil {
			e.observer.NodeStarted(name)
		}
		err := node.Execute(nodeCtx, state)
		dur := time.Since(start)
		if err != nil {
			e.log.Error().Str("node", name).Dur("duration", dur).Err(err).Msg("node failed")
			if e.observer != nil {
				e.observer.NodeFailed(name, dur, err)
			}
			return fmt.Errorf("node %s failed: %w", name, err)
		}
		e.log.Debug().Str("node", name).Dur("duration", dur).Msg("node completed")
		if e.observer != nil {
			e.observer.NodeCompleted(name, dur)
		}
		return nil
	}

	if err := step(NodeContextLoader); err != nil {
		return state, err
	}
	if err := step(NodeContextCleaner); err != nil {
		return state, err
	}
	if err := step(NodeStrategy); err != nil {
		return state, err
	}

	for {
		if err := step(NodeLoopController); err != nil {
			return state, err
		}
		snap := state.Snapshot()
		totalDays := snap.WeeklyPlan.TotalTrainingDays
		if e.config.LoopBound > 0 && e.config.LoopBound < totalDays {
			totalDays = e.config.LoopBound
		}
		route, err := evaluateRoute(snap.CurrentDayIndex, totalDays)
		if err != nil {
			return state, fmt.Errorf("node %s failed: %w", NodeLoopController, err)
		}
		if route == RouteEnd {
			break
		}

		if err := step(NodePhaseOrchestrator); err != nil {
			return state, err
		}
		if err := step(NodeFilterEngine); err != nil {
			return state, err
		}
		if err := step(NodeVariationCleaner); err != nil {
			return state, err
		}
		if err := e.runSelectors(runCtx, state, &transitions); err != nil {
			return state, err
		}
		if err := step(NodeAssembler); err != nil {
			return state, err
		}
		if err := step(NodeInvalidator); err != nil {
			return state, err
		}
	}

	if err := step(NodePersistence); err != nil {
		return state, err
	}

	return state, nil
}

// runSelectors fans the three phase selectors out as goroutines behind
// a bounded semaphore and a WaitGroup, the same shape as the teacher's
// executeWave, specialized to exactly the three fixed selector nodes
// (5.4.1-5.4.3) running concurrently inside one loop iteration. The
// whole wave counts as a single transition against maxTransitions,
// matching spec.md §5's "8 + 7·max_days" resource budget, which treats
// the parallel fan-out as one step of the loop rather than three.
func (e *Engine) runSelectors(ctx context.Context, state *State, transitions *int) error {
	names := []string{NodeWarmupSelector, NodeWorkoutSelector, NodeCooldownSelector}

	*transitions++
	if *transitions > maxTransitions {
		return fmt.Errorf("graph exceeded %d transitions, aborting", maxTransitions)
	}

	maxParallel := e.config.MaxParallelNodes
	if maxParallel <= 0 || maxParallel > len(names) {
		maxParallel = len(names)
	}
	semaphore := make(chan struct{}, maxParallel)

	var wg sync.WaitGroup
	errs := make(chan error, len(names))

	for _, name := range names {
		wg.Add(1)
		go func(nodeName string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			node, ok := e.registry.Get(nodeName)
			if !ok {
				errs <- fmt.Errorf("no node registered for %q", nodeName)
				return
			}

			nodeCtx := context.WithoutCancel(ctx)
			start := time.Now()
			e.log.Debug().Str("node", nodeName).Msg("node starting")
			if e.observer != nil {
				e.observer.NodeStarted(nodeName)
			}
			if err := node.Execute(nodeCtx, state); err != nil {
				dur := time.Since(start)
				e.log.Error().Str("node", nodeName).Dur("duration", dur).Err(err).Msg("node failed")
				if e.observer != nil {
					e.observer.NodeFailed(nodeName, dur, err)
				}
				errs <- fmt.Errorf("node %s failed: %w", nodeName, err)
				return
			}
			dur := time.Since(start)
			e.log.Debug().Str("node", nodeName).Dur("duration", dur).Msg("node completed")
			if e.observer != nil {
				e.observer.NodeCompleted(nodeName, dur)
			}
		}(name)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
