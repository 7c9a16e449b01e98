package nodes

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilemakc/trainerflow/internal/domain"
	"github.com/smilemakc/trainerflow/internal/graph"
)

type stubVariationSelectorLLM struct {
	selected []domain.ExerciseVariation
	err      error
}

func (s stubVariationSelectorLLM) SelectVariations(ctx context.Context, phase domain.Phase, session domain.ScheduledTrainingDay, targetTags []string, pool []domain.ExerciseVariation) ([]domain.ExerciseVariation, error) {
	return s.selected, s.err
}

func TestWarmupSelector_EmptyPoolErrors(t *testing.T) {
	state := graph.NewState(domain.UserProfile{}, nil, nil)
	node := &WarmupSelector{LLM: stubVariationSelectorLLM{}}
	assert.Error(t, node.Execute(context.Background(), state))
}

func TestWarmupSelector_SetsSelection(t *testing.T) {
	state := graph.NewState(domain.UserProfile{}, nil, nil)
	state.SetScoredPool(graph.ScoredPool{Warmup: variations("w1", "w2")})

	selected := variations("w1")
	node := &WarmupSelector{LLM: stubVariationSelectorLLM{selected: selected}}
	require.NoError(t, node.Execute(context.Background(), state))

	assert.Equal(t, selected, state.Snapshot().SelectedWarmup)
}

func TestWarmupSelector_EmptySelectionErrors(t *testing.T) {
	state := graph.NewState(domain.UserProfile{}, nil, nil)
	state.SetScoredPool(graph.ScoredPool{Warmup: variations("w1")})

	node := &WarmupSelector{LLM: stubVariationSelectorLLM{selected: nil}}
	assert.Error(t, node.Execute(context.Background(), state))
}

func TestWarmupSelector_PropagatesLLMError(t *testing.T) {
	state := graph.NewState(domain.UserProfile{}, nil, nil)
	state.SetScoredPool(graph.ScoredPool{Warmup: variations("w1")})

	node := &WarmupSelector{LLM: stubVariationSelectorLLM{err: errors.New("boom")}}
	assert.Error(t, node.Execute(context.Background(), state))
}

func TestWorkoutSelector_WarnsButSucceedsOnSingleDiscipline(t *testing.T) {
	state := graph.NewState(domain.UserProfile{}, nil, nil)
	state.SetScoredPool(graph.ScoredPool{Workout: variations("k1", "k2")})

	selected := []domain.ExerciseVariation{
		{ID: "k1", Disciplines: []string{"strength"}},
	}
	node := &WorkoutSelector{LLM: stubVariationSelectorLLM{selected: selected}, Log: zerolog.Nop()}
	require.NoError(t, node.Execute(context.Background(), state))

	assert.Equal(t, selected, state.Snapshot().SelectedWorkout)
}

func TestWorkoutSelector_NoWarnWithTwoDisciplines(t *testing.T) {
	state := graph.NewState(domain.UserProfile{}, nil, nil)
	state.SetScoredPool(graph.ScoredPool{Workout: variations("k1", "k2")})

	selected := []domain.ExerciseVariation{
		{ID: "k1", Disciplines: []string{"strength"}},
		{ID: "k2", Disciplines: []string{"mobility"}},
	}
	node := &WorkoutSelector{LLM: stubVariationSelectorLLM{selected: selected}, Log: zerolog.Nop()}
	require.NoError(t, node.Execute(context.Background(), state))

	assert.Equal(t, 2, distinctDisciplines(state.Snapshot().SelectedWorkout))
}

func TestCooldownSelector_EmptyPoolErrors(t *testing.T) {
	state := graph.NewState(domain.UserProfile{}, nil, nil)
	node := &CooldownSelector{LLM: stubVariationSelectorLLM{}}
	assert.Error(t, node.Execute(context.Background(), state))
}

func TestCooldownSelector_SetsSelection(t *testing.T) {
	state := graph.NewState(domain.UserProfile{}, nil, nil)
	state.SetScoredPool(graph.ScoredPool{Cooldown: variations("c1")})

	selected := variations("c1")
	node := &CooldownSelector{LLM: stubVariationSelectorLLM{selected: selected}}
	require.NoError(t, node.Execute(context.Background(), state))

	assert.Equal(t, selected, state.Snapshot().SelectedCooldown)
}
