package nodes

import (
	"context"
	"math/rand"
	"time"

	"github.com/smilemakc/trainerflow/internal/domain"
	"github.com/smilemakc/trainerflow/internal/graph"
)

// Invalidator is node 7: rolls a random 50% (ceil) of each phase's
// freshly-selected ids into sessionUsedIds, advances currentDayIndex,
// and clears the per-session scratch (spec.md §4.10). The RNG is
// injectable, the only source of non-determinism in the deterministic
// nodes per spec.md §9's "Randomness discipline".
type Invalidator struct {
	Rand *rand.Rand
}

func (n *Invalidator) Name() string { return graph.NodeInvalidator }

func (n *Invalidator) Execute(ctx context.Context, state *graph.State) error {
	snap := state.Snapshot()

	r := n.Rand
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	used := make([]string, 0)
	used = append(used, halfShuffle(r, snap.SelectedWarmup)...)
	used = append(used, halfShuffle(r, snap.SelectedWorkout)...)
	used = append(used, halfShuffle(r, snap.SelectedCooldown)...)

	state.AppendSessionUsedIds(used)
	state.ClearSessionScratch()
	state.AdvanceDay()
	return nil
}

// halfShuffle returns a uniformly-random ceil(len/2) subset of ids
// from variations, via a Fisher-Yates shuffle of a copy of the slice.
func halfShuffle(r *rand.Rand, variations []domain.ExerciseVariation) []string {
	n := len(variations)
	if n == 0 {
		return nil
	}

	ids := make([]string, n)
	for i, v := range variations {
		ids[i] = v.ID
	}

	for i := n - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		ids[i], ids[j] = ids[j], ids[i]
	}

	half := (n + 1) / 2 // ceil(n/2)
	return ids[:half]
}
