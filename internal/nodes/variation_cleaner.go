package nodes

import (
	"context"

	"github.com/smilemakc/trainerflow/internal/domain"
	"github.com/smilemakc/trainerflow/internal/graph"
)

const (
	warmupCap      = 15
	workoutCap     = 20
	cooldownCap    = 12
	scoreThreshold = 0.2
	minPoolSize    = 5
)

// VariationCleaner is node 5.3: applies the per-phase cap/threshold
// policy of spec.md §4.7 to the scored pool.
type VariationCleaner struct{}

func (n *VariationCleaner) Name() string { return graph.NodeVariationCleaner }

func (n *VariationCleaner) Execute(ctx context.Context, state *graph.State) error {
	snap := state.Snapshot()

	cleaned := graph.ScoredPool{
		Warmup:   CleanPool(snap.ScoredPool.Warmup, warmupCap),
		Workout:  CleanPool(snap.ScoredPool.Workout, workoutCap),
		Cooldown: CleanPool(snap.ScoredPool.Cooldown, cooldownCap),
	}

	state.SetScoredPool(cleaned)
	return nil
}

// CleanPool implements the policy of spec.md §4.7:
//   - pool size < 5: return unchanged.
//   - else: keep score >= 0.2, take the first `cap` (pool is already
//     sorted descending by score).
//   - if that result has < 5 entries, fall back to the top `cap` of
//     the original pool, ignoring the threshold.
func CleanPool(pool []domain.ExerciseVariation, capN int) []domain.ExerciseVariation {
	if len(pool) < minPoolSize {
		return pool
	}

	above := make([]domain.ExerciseVariation, 0, len(pool))
	for _, v := range pool {
		if v.Score >= scoreThreshold {
			above = append(above, v)
		}
	}
	result := firstN(above, capN)

	if len(result) < minPoolSize {
		return firstN(pool, capN)
	}
	return result
}

func firstN(items []domain.ExerciseVariation, n int) []domain.ExerciseVariation {
	if n > len(items) {
		n = len(items)
	}
	out := make([]domain.ExerciseVariation, n)
	copy(out, items[:n])
	return out
}
