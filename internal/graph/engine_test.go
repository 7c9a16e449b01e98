package graph

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilemakc/trainerflow/internal/domain"
)

// fakeNode is a minimal Node used to drive the engine in tests without
// any of the real node implementations.
type fakeNode struct {
	name string
	run  func(ctx context.Context, s *State) error
	hits *int32
}

func (f *fakeNode) Name() string { return f.name }

func (f *fakeNode) Execute(ctx context.Context, s *State) error {
	if f.hits != nil {
		atomic.AddInt32(f.hits, 1)
	}
	if f.run != nil {
		return f.run(ctx, s)
	}
	return nil
}

func noop(name string) *fakeNode { return &fakeNode{name: name} }

// buildHappyRegistry wires a registry that runs a two-day plan end to
// end, exercising the bounded loop and the three-way fan-out.
func buildHappyRegistry(t *testing.T, selectorHits *int32) *Registry {
	t.Helper()
	reg := NewRegistry()

	reg.Register(&fakeNode{name: NodeContextLoader, run: func(_ context.Context, s *State) error {
		s.SetUserProfile(domain.UserProfile{UID: "user-1"})
		s.SetAvailableVariations([]domain.ExerciseVariation{{ID: "v1"}})
		s.SetInitialBlacklist(nil)
		return nil
	}})
	reg.Register(noop(NodeContextCleaner))
	reg.Register(noop(NodeLoopController))
	reg.Register(&fakeNode{name: NodeStrategy, run: func(_ context.Context, s *State) error {
		s.SetWeeklyPlan(domain.WeeklyPlan{
			TotalTrainingDays: 2,
			TrainingDays:      []int{0, 2},
			Schedule: []domain.ScheduledTrainingDay{
				{DayIndex: 0, Focus: "mobility", Description: "d0", SystemGoal: "g0"},
				{DayIndex: 2, Focus: "strength", Description: "d2", SystemGoal: "g2"},
			},
		})
		return nil
	}})
	reg.Register(&fakeNode{name: NodePhaseOrchestrator, run: func(_ context.Context, s *State) error {
		s.ResetSelections(SessionContext{Focus: "f", TargetTags: []string{"tag"}})
		return nil
	}})
	reg.Register(noop(NodeFilterEngine))
	reg.Register(noop(NodeVariationCleaner))
	reg.Register(&fakeNode{name: NodeWarmupSelector, hits: selectorHits, run: func(_ context.Context, s *State) error {
		s.SetSelectedWarmup([]domain.ExerciseVariation{{ID: "w1"}})
		return nil
	}})
	reg.Register(&fakeNode{name: NodeWorkoutSelector, hits: selectorHits, run: func(_ context.Context, s *State) error {
		s.SetSelectedWorkout([]domain.ExerciseVariation{{ID: "k1"}})
		return nil
	}})
	reg.Register(&fakeNode{name: NodeCooldownSelector, hits: selectorHits, run: func(_ context.Context, s *State) error {
		s.SetSelectedCooldown([]domain.ExerciseVariation{{ID: "c1"}})
		return nil
	}})
	reg.Register(&fakeNode{name: NodeAssembler, run: func(_ context.Context, s *State) error {
		snap := s.Snapshot()
		s.AppendFinalSession(domain.TrainingSession{DayIndex: snap.CurrentDayIndex})
		return nil
	}})
	reg.Register(&fakeNode{name: NodeInvalidator, run: func(_ context.Context, s *State) error {
		s.ClearSessionScratch()
		s.AdvanceDay()
		return nil
	}})
	reg.Register(noop(NodePersistence))
	return reg
}

func TestEngineRun_TwoDayLoopAndFanOut(t *testing.T) {
	var selectorHits int32
	reg := buildHappyRegistry(t, &selectorHits)
	engine := NewEngine(reg, DefaultEngineConfig(), zerolog.Nop(), nil)

	initial := NewState(domain.UserProfile{UID: "user-1"}, nil, nil)
	final, err := engine.Run(context.Background(), initial)

	require.NoError(t, err)
	assert.Len(t, final.FinalSessions, 2)
	assert.Equal(t, int32(6), selectorHits, "three selectors x two days")
	assert.Equal(t, 2, final.CurrentDayIndex)
}

func TestEngineRun_NodeFailureAborts(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&fakeNode{name: NodeContextLoader, run: func(_ context.Context, s *State) error {
		return fmt.Errorf("store unreachable")
	}})
	engine := NewEngine(reg, DefaultEngineConfig(), zerolog.Nop(), nil)

	_, err := engine.Run(context.Background(), NewState(domain.UserProfile{}, nil, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), NodeContextLoader)
}

func TestEngineRun_MissingNodeErrors(t *testing.T) {
	reg := NewRegistry() // nothing registered
	engine := NewEngine(reg, DefaultEngineConfig(), zerolog.Nop(), nil)

	_, err := engine.Run(context.Background(), NewState(domain.UserProfile{}, nil, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no node registered")
}

func TestEngineRun_RespectsAlreadyExpiredBudget(t *testing.T) {
	reg := buildHappyRegistry(t, new(int32))
	cfg := DefaultEngineConfig()
	cfg.RunTimeout = time.Nanosecond
	engine := NewEngine(reg, cfg, zerolog.Nop(), nil)

	time.Sleep(time.Millisecond)
	_, err := engine.Run(context.Background(), NewState(domain.UserProfile{UID: "user-1"}, nil, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run budget exhausted")
}

func TestEvaluateRoute(t *testing.T) {
	route, err := evaluateRoute(0, 3)
	require.NoError(t, err)
	assert.Equal(t, RouteContinue, route)

	route, err = evaluateRoute(3, 3)
	require.NoError(t, err)
	assert.Equal(t, RouteEnd, route)
}

func TestRegistry_GetMissing(t *testing.T) {
	reg := NewRegistry()
	_, ok := reg.Get("nonexistent")
	assert.False(t, ok)
}

func TestState_ReducerSemantics(t *testing.T) {
	s := NewState(domain.UserProfile{UID: "u"}, []domain.ExerciseVariation{{ID: "a"}}, []string{"b1"})

	s.AppendSessionUsedIds([]string{"v1", "v2"})
	s.AppendSessionUsedIds([]string{"v3"})
	assert.Equal(t, []string{"v1", "v2", "v3"}, s.Snapshot().SessionUsedIds)

	s.AppendFinalSession(domain.TrainingSession{DayIndex: 0})
	s.AppendFinalSession(domain.TrainingSession{DayIndex: 2})
	assert.Len(t, s.Snapshot().FinalSessions, 2)

	s.SetSelectedWarmup([]domain.ExerciseVariation{{ID: "w"}})
	s.SetSelectedWorkout([]domain.ExerciseVariation{{ID: "k"}})
	s.SetSelectedCooldown([]domain.ExerciseVariation{{ID: "c"}})
	snap := s.Snapshot()
	assert.Equal(t, "w", snap.SelectedWarmup[0].ID)
	assert.Equal(t, "k", snap.SelectedWorkout[0].ID)
	assert.Equal(t, "c", snap.SelectedCooldown[0].ID)

	s.ClearSessionScratch()
	snap = s.Snapshot()
	assert.Nil(t, snap.SelectedWarmup)
	assert.Nil(t, snap.CurrentSessionContext)

	s.AdvanceDay()
	assert.Equal(t, 1, s.Snapshot().CurrentDayIndex)
}
