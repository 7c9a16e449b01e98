package nodes

import (
	"context"

	"github.com/smilemakc/trainerflow/internal/domain"
	domainerrors "github.com/smilemakc/trainerflow/internal/domain/errors"
	"github.com/smilemakc/trainerflow/internal/graph"
)

// TargetTagSelector is the subset of llmclient.Client the Phase
// Orchestrator needs.
type TargetTagSelector interface {
	SelectTargetTags(ctx context.Context, profile domain.UserProfile, day domain.ScheduledTrainingDay) ([]string, error)
}

// PhaseOrchestrator is node 5.1: picks this session's target tags and
// resets the per-session scratch (currentSessionContext,
// selectedVariations) for the new loop iteration.
type PhaseOrchestrator struct {
	LLM TargetTagSelector
}

func (n *PhaseOrchestrator) Name() string { return graph.NodePhaseOrchestrator }

func (n *PhaseOrchestrator) Execute(ctx context.Context, state *graph.State) error {
	snap := state.Snapshot()

	idx := snap.CurrentDayIndex
	if idx < 0 || idx >= len(snap.WeeklyPlan.Schedule) {
		return domainerrors.NewValidationError("currentDayIndex", "out of range for weeklyPlan.schedule")
	}
	day := snap.WeeklyPlan.Schedule[idx]

	tags, err := n.LLM.SelectTargetTags(ctx, snap.UserProfile, day)
	if err != nil {
		return err
	}
	if len(tags) == 0 {
		return domainerrors.NewOrchestratorError("no-valid-tags", nil)
	}

	state.ResetSelections(graph.SessionContext{
		Focus:       day.Focus,
		Description: day.Description,
		SystemGoal:  day.SystemGoal,
		TargetTags:  tags,
	})
	return nil
}
