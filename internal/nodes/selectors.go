package nodes

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/smilemakc/trainerflow/internal/domain"
	domainerrors "github.com/smilemakc/trainerflow/internal/domain/errors"
	"github.com/smilemakc/trainerflow/internal/graph"
)

// VariationSelectorLLM is the subset of llmclient.Client the three
// phase selectors need.
type VariationSelectorLLM interface {
	SelectVariations(ctx context.Context, phase domain.Phase, session domain.ScheduledTrainingDay, targetTags []string, pool []domain.ExerciseVariation) ([]domain.ExerciseVariation, error)
}

func sessionFromContext(sc *graph.SessionContext) domain.ScheduledTrainingDay {
	if sc == nil {
		return domain.ScheduledTrainingDay{}
	}
	return domain.ScheduledTrainingDay{Focus: sc.Focus, Description: sc.Description, SystemGoal: sc.SystemGoal}
}

// WarmupSelector is node 5.4.1.
type WarmupSelector struct {
	LLM VariationSelectorLLM
}

func (n *WarmupSelector) Name() string { return graph.NodeWarmupSelector }

func (n *WarmupSelector) Execute(ctx context.Context, state *graph.State) error {
	snap := state.Snapshot()
	pool := snap.ScoredPool.Warmup
	if len(pool) == 0 {
		return domainerrors.NewSelectorError("warmup", "empty")
	}

	var tags []string
	if snap.CurrentSessionContext != nil {
		tags = snap.CurrentSessionContext.TargetTags
	}

	selected, err := n.LLM.SelectVariations(ctx, domain.PhaseWarmup, sessionFromContext(snap.CurrentSessionContext), tags, pool)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		return domainerrors.NewSelectorError("warmup", "empty")
	}

	state.SetSelectedWarmup(selected)
	return nil
}

// WorkoutSelector is node 5.4.2. It additionally checks the ≥2
// distinct disciplines invariant, warn-only per spec.md's Open
// Questions decision in DESIGN.md.
type WorkoutSelector struct {
	LLM VariationSelectorLLM
	Log zerolog.Logger
}

func (n *WorkoutSelector) Name() string { return graph.NodeWorkoutSelector }

func (n *WorkoutSelector) Execute(ctx context.Context, state *graph.State) error {
	snap := state.Snapshot()
	pool := snap.ScoredPool.Workout
	if len(pool) == 0 {
		return domainerrors.NewSelectorError("workout", "empty")
	}

	var tags []string
	if snap.CurrentSessionContext != nil {
		tags = snap.CurrentSessionContext.TargetTags
	}

	selected, err := n.LLM.SelectVariations(ctx, domain.PhaseWorkout, sessionFromContext(snap.CurrentSessionContext), tags, pool)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		return domainerrors.NewSelectorError("workout", "empty")
	}

	if distinctDisciplines(selected) < 2 {
		n.Log.Warn().
			Int("dayIndex", snap.CurrentDayIndex).
			Msg("workout selection covers fewer than two distinct disciplines")
	}

	state.SetSelectedWorkout(selected)
	return nil
}

func distinctDisciplines(variations []domain.ExerciseVariation) int {
	seen := make(map[string]struct{})
	for _, v := range variations {
		for _, d := range v.Disciplines {
			seen[d] = struct{}{}
		}
	}
	return len(seen)
}

// CooldownSelector is node 5.4.3.
type CooldownSelector struct {
	LLM VariationSelectorLLM
}

func (n *CooldownSelector) Name() string { return graph.NodeCooldownSelector }

func (n *CooldownSelector) Execute(ctx context.Context, state *graph.State) error {
	snap := state.Snapshot()
	pool := snap.ScoredPool.Cooldown
	if len(pool) == 0 {
		return domainerrors.NewSelectorError("cooldown", "empty")
	}

	var tags []string
	if snap.CurrentSessionContext != nil {
		tags = snap.CurrentSessionContext.TargetTags
	}

	selected, err := n.LLM.SelectVariations(ctx, domain.PhaseCooldown, sessionFromContext(snap.CurrentSessionContext), tags, pool)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		return domainerrors.NewSelectorError("cooldown", "empty")
	}

	state.SetSelectedCooldown(selected)
	return nil
}
