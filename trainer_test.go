package trainer

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilemakc/trainerflow/internal/domain"
	"github.com/smilemakc/trainerflow/internal/metrics"
	"github.com/smilemakc/trainerflow/internal/store"
)

// fakeLLM stubs every tool schema trainer.LLM requires without a
// network round trip, letting this test drive the whole graph
// including the three-way selector fan-in.
type fakeLLM struct{}

func (fakeLLM) GenerateWeeklyPlan(ctx context.Context, profile domain.UserProfile) (domain.WeeklyPlan, error) {
	return domain.WeeklyPlan{
		TotalTrainingDays: 2,
		TrainingDays:      []int{1, 3},
		GoalDescription:   "balanced strength and mobility",
		Schedule: []domain.ScheduledTrainingDay{
			{DayIndex: 1, Focus: "upper body", Description: "push/pull strength", SystemGoal: "hypertrophy"},
			{DayIndex: 3, Focus: "lower body", Description: "squat/hinge strength", SystemGoal: "hypertrophy"},
		},
	}, nil
}

func (fakeLLM) SelectTargetTags(ctx context.Context, profile domain.UserProfile, day domain.ScheduledTrainingDay) ([]string, error) {
	return []string{"chest", "push", "bilateral"}, nil
}

func (fakeLLM) SelectVariations(ctx context.Context, phase domain.Phase, session domain.ScheduledTrainingDay, targetTags []string, pool []domain.ExerciseVariation) ([]domain.ExerciseVariation, error) {
	n := 3
	if n > len(pool) {
		n = len(pool)
	}
	return append([]domain.ExerciseVariation{}, pool[:n]...), nil
}

func seededCatalogue() []domain.ExerciseVariation {
	var catalogue []domain.ExerciseVariation
	for i := 0; i < 6; i++ {
		catalogue = append(catalogue, domain.ExerciseVariation{
			ID: uidN("w", i), Name: "warmup", Phase: domain.PhaseWarmup,
			Disciplines: []string{"calisthenics"}, Tags: []string{"chest", "push", "bilateral"},
		})
	}
	for i := 0; i < 8; i++ {
		discipline := "pilates"
		if i%2 == 0 {
			discipline = "calisthenics"
		}
		catalogue = append(catalogue, domain.ExerciseVariation{
			ID: uidN("wk", i), Name: "workout", Phase: domain.PhaseWorkout,
			Disciplines: []string{discipline}, Tags: []string{"chest", "push"},
		})
	}
	for i := 0; i < 6; i++ {
		catalogue = append(catalogue, domain.ExerciseVariation{
			ID: uidN("c", i), Name: "cooldown", Phase: domain.PhaseCooldown,
			Disciplines: []string{"yoga"}, Tags: []string{"bilateral"},
		})
	}
	return catalogue
}

func uidN(prefix string, i int) string {
	return prefix + "-" + string(rune('a'+i))
}

func TestExecute_WeeklyRunProducesSessionsAndRotatesBlacklist(t *testing.T) {
	mem := store.NewMemStore(seededCatalogue())
	mem.SeedUser("u1", domain.UserProfile{UID: "u1"}, []string{"stale-id"})

	deps := Dependencies{
		Store:   mem,
		LLM:     fakeLLM{},
		Log:     zerolog.Nop(),
		Metrics: metrics.NewCollector(),
		Rand:    nil,
	}

	result, err := Execute(context.Background(), deps, "u1", RequestTypeWeekly)
	require.NoError(t, err)
	require.Len(t, result.Sessions, 2)

	for _, s := range result.Sessions {
		assert.NotEmpty(t, s.Warmup)
		assert.NotEmpty(t, s.Workout)
		assert.NotEmpty(t, s.Cooldown)
		for _, v := range s.Warmup {
			assert.Equal(t, domain.PhaseWarmup, v.Phase)
		}
	}

	archives := mem.Archives("u1")
	require.Len(t, archives, 1)
	assert.Len(t, archives[0].FinalSessions, 2)

	// Invariant 7 (spec.md §8): stored blacklist equals sessionUsedIds
	// at run end, not the prior run's blacklist.
	blacklist := mem.Blacklist("u1")
	assert.NotContains(t, blacklist, "stale-id")
	assert.NotEmpty(t, blacklist)
}

func TestExecute_DailyRequestBoundsLoopToOneSession(t *testing.T) {
	mem := store.NewMemStore(seededCatalogue())
	mem.SeedUser("u1", domain.UserProfile{UID: "u1"}, nil)

	deps := Dependencies{
		Store:   mem,
		LLM:     fakeLLM{},
		Log:     zerolog.Nop(),
		Metrics: metrics.NewCollector(),
	}

	result, err := Execute(context.Background(), deps, "u1", RequestTypeDaily)
	require.NoError(t, err)
	assert.Len(t, result.Sessions, 1)
}

func TestExecute_RejectsEmptyUserID(t *testing.T) {
	_, err := Execute(context.Background(), Dependencies{Log: zerolog.Nop()}, "", RequestTypeWeekly)
	assert.Error(t, err)
}

func TestExecute_RejectsUnknownRequestType(t *testing.T) {
	_, err := Execute(context.Background(), Dependencies{Log: zerolog.Nop()}, "u1", RequestType("monthly"))
	assert.Error(t, err)
}

func TestExecute_SurfacesLoadErrorForUnknownUser(t *testing.T) {
	mem := store.NewMemStore(seededCatalogue())

	deps := Dependencies{
		Store:   mem,
		LLM:     fakeLLM{},
		Log:     zerolog.Nop(),
		Metrics: metrics.NewCollector(),
	}

	_, err := Execute(context.Background(), deps, "ghost", RequestTypeWeekly)
	assert.Error(t, err)
}

func TestExecute_RespectsRunTimeoutOverride(t *testing.T) {
	mem := store.NewMemStore(seededCatalogue())
	mem.SeedUser("u1", domain.UserProfile{UID: "u1"}, nil)

	deps := Dependencies{
		Store:      mem,
		LLM:        fakeLLM{},
		Log:        zerolog.Nop(),
		Metrics:    metrics.NewCollector(),
		RunTimeout: 5 * time.Second,
	}

	result, err := Execute(context.Background(), deps, "u1", RequestTypeWeekly)
	require.NoError(t, err)
	assert.Len(t, result.Sessions, 2)
}
