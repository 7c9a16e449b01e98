package nodes

import (
	"context"

	domainerrors "github.com/smilemakc/trainerflow/internal/domain/errors"
	"github.com/smilemakc/trainerflow/internal/graph"
)

// LoopController is node 4: validates weeklyPlan and currentDayIndex.
// It never mutates state — the routing label itself is computed by
// graph.Engine via the expr-lang predicate, keeping this node to its
// documented role of precondition validation only (spec.md §4.4).
type LoopController struct{}

func (n *LoopController) Name() string { return graph.NodeLoopController }

func (n *LoopController) Execute(ctx context.Context, state *graph.State) error {
	snap := state.Snapshot()

	if err := snap.WeeklyPlan.Validate(); err != nil {
		return domainerrors.NewValidationError("weeklyPlan", err.Error())
	}
	if snap.CurrentDayIndex < 0 || snap.CurrentDayIndex > snap.WeeklyPlan.TotalTrainingDays {
		return domainerrors.NewValidationError("currentDayIndex", "out of [0, totalTrainingDays] range")
	}
	return nil
}
