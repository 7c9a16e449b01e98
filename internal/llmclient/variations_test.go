package llmclient

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smilemakc/trainerflow/internal/domain"
)

func TestMaterializeSelected_IntersectsWithPool(t *testing.T) {
	pool := []domain.ExerciseVariation{
		{ID: "a", Name: "A"},
		{ID: "b", Name: "B"},
	}

	got := materializeSelected([]string{"b", "hallucinated", "a"}, pool)

	assert.Len(t, got, 2)
	assert.Equal(t, "B", got[0].Name)
	assert.Equal(t, "A", got[1].Name)
}

func TestMaterializeSelected_EmptyIds(t *testing.T) {
	pool := []domain.ExerciseVariation{{ID: "a"}}
	got := materializeSelected(nil, pool)
	assert.Empty(t, got)
}

func TestPhaseSpecs_CoverAllThreePhases(t *testing.T) {
	for _, phase := range []domain.Phase{domain.PhaseWarmup, domain.PhaseWorkout, domain.PhaseCooldown} {
		spec, ok := phaseSpecs[phase]
		assert.True(t, ok, "missing spec for phase %q", phase)
		assert.Less(t, 0, spec.min)
		assert.LessOrEqual(t, spec.min, spec.max)
	}
}

func TestValidateSelectionCount_WithinRange(t *testing.T) {
	c := NewClient("test-key", "", nil)
	spec := phaseSpecs[domain.PhaseWarmup] // min 3, max 5
	assert.NoError(t, c.validateSelectionCount(spec, []string{"a", "b", "c"}))
}

func TestValidateSelectionCount_TooFew(t *testing.T) {
	c := NewClient("test-key", "", nil)
	spec := phaseSpecs[domain.PhaseWorkout] // min 4, max 6
	err := c.validateSelectionCount(spec, []string{"a", "b"})
	assert.Error(t, err)
}

func TestValidateSelectionCount_TooMany(t *testing.T) {
	c := NewClient("test-key", "", nil)
	spec := phaseSpecs[domain.PhaseCooldown] // min 3, max 4
	err := c.validateSelectionCount(spec, []string{"a", "b", "c", "d", "e"})
	assert.Error(t, err)
}

func TestMaterializeSelected_DropsHallucinatedIdsBelowMinimum(t *testing.T) {
	pool := []domain.ExerciseVariation{
		{ID: "a", Name: "A"},
		{ID: "b", Name: "B"},
	}
	// Three ids were selected (satisfying a min=3 count), but one is a
	// hallucination outside the pool, so only two remain after
	// materialization — exactly the shortfall SelectVariations checks
	// for after calling materializeSelected.
	got := materializeSelected([]string{"a", "hallucinated", "b"}, pool)
	assert.Len(t, got, 2)
}
