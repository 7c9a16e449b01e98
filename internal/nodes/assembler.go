package nodes

import (
	"context"

	"github.com/smilemakc/trainerflow/internal/dates"
	"github.com/smilemakc/trainerflow/internal/domain"
	domainerrors "github.com/smilemakc/trainerflow/internal/domain/errors"
	"github.com/smilemakc/trainerflow/internal/graph"
)

// Assembler is node 6: computes the session's calendar date and
// constructs the TrainingSession, appending it to finalSessions
// (spec.md §4.9).
type Assembler struct{}

func (n *Assembler) Name() string { return graph.NodeAssembler }

func (n *Assembler) Execute(ctx context.Context, state *graph.State) error {
	snap := state.Snapshot()

	idx := snap.CurrentDayIndex
	if idx < 0 || idx >= len(snap.WeeklyPlan.Schedule) {
		return domainerrors.NewValidationError("currentDayIndex", "out of range for weeklyPlan.schedule")
	}
	day := snap.WeeklyPlan.Schedule[idx]

	date, err := dates.SessionDate(snap.WeeklyPlan.StartDate, idx, snap.WeeklyPlan.TrainingDays)
	if err != nil {
		return domainerrors.NewValidationError("date", err.Error())
	}

	if len(snap.SelectedWarmup) == 0 || len(snap.SelectedWorkout) == 0 || len(snap.SelectedCooldown) == 0 {
		return domainerrors.NewValidationError("selectedVariations", "every phase must be non-empty before assembly")
	}

	session := domain.TrainingSession{
		DayIndex:    day.DayIndex,
		Date:        date,
		Focus:       day.Focus,
		Description: day.Description,
		Warmup:      snap.SelectedWarmup,
		Workout:     snap.SelectedWorkout,
		Cooldown:    snap.SelectedCooldown,
	}

	state.AppendFinalSession(session)
	return nil
}
