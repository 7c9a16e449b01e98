package nodes

import (
	"context"
	"time"

	"github.com/smilemakc/trainerflow/internal/dates"
	"github.com/smilemakc/trainerflow/internal/domain"
	domainerrors "github.com/smilemakc/trainerflow/internal/domain/errors"
	"github.com/smilemakc/trainerflow/internal/graph"
)

// StrategyLLM is the subset of llmclient.Client the Strategy node
// needs, kept as an interface so tests can stub the LLM call without a
// network round trip.
type StrategyLLM interface {
	GenerateWeeklyPlan(ctx context.Context, profile domain.UserProfile) (domain.WeeklyPlan, error)
}

// Strategy is node 3: asks the LLM for a WeeklyPlan skeleton, computes
// its startDate (spec.md §4.11), and validates every WeeklyPlan
// invariant before publishing it to the state.
type Strategy struct {
	LLM StrategyLLM
	Now func() time.Time
}

func (n *Strategy) Name() string { return graph.NodeStrategy }

func (n *Strategy) Execute(ctx context.Context, state *graph.State) error {
	snap := state.Snapshot()

	plan, err := n.LLM.GenerateWeeklyPlan(ctx, snap.UserProfile)
	if err != nil {
		return domainerrors.NewStrategyError("llm-failed", err)
	}

	now := time.Now
	if n.Now != nil {
		now = n.Now
	}

	startDate, err := dates.StartDate(plan.TrainingDays, now())
	if err != nil {
		return domainerrors.NewStrategyError("plan-invalid", err)
	}
	plan.StartDate = startDate

	if err := plan.Validate(); err != nil {
		return domainerrors.NewStrategyError("plan-invalid", err)
	}

	state.SetWeeklyPlan(plan)
	return nil
}
