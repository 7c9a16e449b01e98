package nodes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilemakc/trainerflow/internal/domain"
	"github.com/smilemakc/trainerflow/internal/graph"
)

type stubStrategyLLM struct {
	plan domain.WeeklyPlan
	err  error
}

func (s stubStrategyLLM) GenerateWeeklyPlan(ctx context.Context, profile domain.UserProfile) (domain.WeeklyPlan, error) {
	return s.plan, s.err
}

func TestStrategy_ComputesStartDateAndValidates(t *testing.T) {
	plan := domain.WeeklyPlan{
		TotalTrainingDays: 2,
		TrainingDays:      []int{1, 3},
		Schedule: []domain.ScheduledTrainingDay{
			{DayIndex: 1, Focus: "f1", Description: "d1", SystemGoal: "g1"},
			{DayIndex: 3, Focus: "f2", Description: "d2", SystemGoal: "g2"},
		},
	}
	fixedNow := time.Date(2025, 1, 20, 12, 0, 0, 0, time.UTC) // a Monday

	state := graph.NewState(domain.UserProfile{UID: "u1"}, nil, nil)
	node := &Strategy{
		LLM: stubStrategyLLM{plan: plan},
		Now: func() time.Time { return fixedNow },
	}
	require.NoError(t, node.Execute(context.Background(), state))

	snap := state.Snapshot()
	assert.NotEmpty(t, snap.WeeklyPlan.StartDate)
	assert.Equal(t, 2, snap.WeeklyPlan.TotalTrainingDays)
}

func TestStrategy_WrapsLLMFailure(t *testing.T) {
	state := graph.NewState(domain.UserProfile{UID: "u1"}, nil, nil)
	node := &Strategy{LLM: stubStrategyLLM{err: errors.New("boom")}}

	err := node.Execute(context.Background(), state)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strategy error")
}

func TestStrategy_RejectsInvalidPlanFromLLM(t *testing.T) {
	plan := domain.WeeklyPlan{
		TotalTrainingDays: 2,
		TrainingDays:      []int{1}, // mismatched length
	}
	state := graph.NewState(domain.UserProfile{UID: "u1"}, nil, nil)
	node := &Strategy{
		LLM: stubStrategyLLM{plan: plan},
		Now: func() time.Time { return time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC) },
	}

	err := node.Execute(context.Background(), state)
	assert.Error(t, err)
}
