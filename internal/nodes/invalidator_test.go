package nodes

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilemakc/trainerflow/internal/domain"
	"github.com/smilemakc/trainerflow/internal/graph"
)

func variations(ids ...string) []domain.ExerciseVariation {
	out := make([]domain.ExerciseVariation, len(ids))
	for i, id := range ids {
		out[i] = domain.ExerciseVariation{ID: id}
	}
	return out
}

func TestInvalidator_E5HalvingCounts(t *testing.T) {
	// E5: selectedVariations sizes (warmup=4, workout=6, cooldown=4) ->
	// ids appended = ceil(4*0.5)+ceil(6*0.5)+ceil(4*0.5) = 2+3+2 = 7.
	state := graph.NewState(domain.UserProfile{}, nil, nil)
	state.SetSelectedWarmup(variations("w1", "w2", "w3", "w4"))
	state.SetSelectedWorkout(variations("k1", "k2", "k3", "k4", "k5", "k6"))
	state.SetSelectedCooldown(variations("c1", "c2", "c3", "c4"))

	node := &Invalidator{Rand: rand.New(rand.NewSource(42))}
	require.NoError(t, node.Execute(context.Background(), state))

	snap := state.Snapshot()
	assert.Len(t, snap.SessionUsedIds, 7)
}

func TestInvalidator_ClearsScratchAndAdvances(t *testing.T) {
	state := graph.NewState(domain.UserProfile{}, nil, nil)
	state.ResetSelections(graph.SessionContext{Focus: "f"})
	state.SetScoredPool(graph.ScoredPool{Warmup: variations("a")})
	state.SetSelectedWarmup(variations("w1"))

	node := &Invalidator{Rand: rand.New(rand.NewSource(1))}
	require.NoError(t, node.Execute(context.Background(), state))

	snap := state.Snapshot()
	assert.Nil(t, snap.CurrentSessionContext)
	assert.Nil(t, snap.SelectedWarmup)
	assert.Empty(t, snap.ScoredPool.Warmup)
	assert.Equal(t, 1, snap.CurrentDayIndex)
}

func TestInvalidator_DeterministicWithSeed(t *testing.T) {
	run := func() []string {
		state := graph.NewState(domain.UserProfile{}, nil, nil)
		state.SetSelectedWarmup(variations("w1", "w2", "w3", "w4"))
		node := &Invalidator{Rand: rand.New(rand.NewSource(7))}
		require.NoError(t, node.Execute(context.Background(), state))
		return state.Snapshot().SessionUsedIds
	}

	assert.Equal(t, run(), run())
}

func TestInvalidator_DefaultsRNGWhenNil(t *testing.T) {
	state := graph.NewState(domain.UserProfile{}, nil, nil)
	state.SetSelectedWarmup(variations("w1", "w2"))
	node := &Invalidator{}
	require.NoError(t, node.Execute(context.Background(), state))
	assert.Len(t, state.Snapshot().SessionUsedIds, 1)
}
