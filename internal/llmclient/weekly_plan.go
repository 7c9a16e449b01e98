package llmclient

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/smilemakc/trainerflow/internal/domain"
)

const nodeStrategy = "strategy"

type scheduledDayArgs struct {
	DayIndex    int    `json:"dayIndex" validate:"gte=0,lte=6"`
	Focus       string `json:"focus" validate:"required"`
	Description string `json:"description" validate:"required"`
	SystemGoal  string `json:"systemGoal" validate:"required"`
}

type weeklyPlanArgs struct {
	TotalTrainingDays int                `json:"totalTrainingDays" validate:"gte=3,lte=6"`
	TrainingDays      []int              `json:"trainingDays" validate:"required,dive,gte=0,lte=6"`
	GoalDescription   string             `json:"goalDescription" validate:"required"`
	Schedule          []scheduledDayArgs `json:"schedule" validate:"required,dive"`
}

func generateWeeklyPlanTool() openai.Tool {
	dayProps := map[string]any{
		"dayIndex":    map[string]any{"type": "integer", "minimum": 0, "maximum": 6},
		"focus":       map[string]any{"type": "string"},
		"description": map[string]any{"type": "string"},
		"systemGoal":  map[string]any{"type": "string"},
	}
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        "generate_weekly_plan",
			Description: "Produce a weekly training plan skeleton (without a concrete start date) balancing the user's profile.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"totalTrainingDays": map[string]any{"type": "integer", "minimum": 3, "maximum": 6},
					"trainingDays": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "integer", "minimum": 0, "maximum": 6},
					},
					"goalDescription": map[string]any{"type": "string"},
					"schedule": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type":       "object",
							"properties": dayProps,
							"required":   []string{"dayIndex", "focus", "description", "systemGoal"},
						},
					},
				},
				"required": []string{"totalTrainingDays", "trainingDays", "goalDescription", "schedule"},
			},
		},
	}
}

// GenerateWeeklyPlan asks the model for the weekly plan skeleton (node
// 3). The returned plan has no StartDate set; the caller (the Strategy
// node) computes it via internal/dates and runs WeeklyPlan.Validate.
func (c *Client) GenerateWeeklyPlan(ctx context.Context, profile domain.UserProfile) (domain.WeeklyPlan, error) {
	prompt := buildWeeklyPlanPrompt(profile)

	raw, err := c.callTool(ctx, nodeStrategy, prompt, generateWeeklyPlanTool())
	if err != nil {
		return domain.WeeklyPlan{}, err
	}

	var args weeklyPlanArgs
	if err := c.decodeAndValidate(nodeStrategy, raw, &args); err != nil {
		return domain.WeeklyPlan{}, err
	}

	schedule := make([]domain.ScheduledTrainingDay, len(args.Schedule))
	for i, d := range args.Schedule {
		schedule[i] = domain.ScheduledTrainingDay{
			DayIndex:    d.DayIndex,
			Focus:       d.Focus,
			Description: d.Description,
			SystemGoal:  d.SystemGoal,
		}
	}

	return domain.WeeklyPlan{
		TotalTrainingDays: args.TotalTrainingDays,
		TrainingDays:      args.TrainingDays,
		GoalDescription:   args.GoalDescription,
		Schedule:          schedule,
	}, nil
}

func buildWeeklyPlanPrompt(profile domain.UserProfile) string {
	var sb strings.Builder
	sb.WriteString("Design a realistic, sustainable weekly training plan for this user.\n")
	fmt.Fprintf(&sb, "Mobility: %.0f, Flexibility: %.0f, Rotation: %.0f (0-100 scale)\n",
		profile.Metrics.Mobility, profile.Metrics.Flexibility, profile.Metrics.Rotation)
	if len(profile.Discomforts) > 0 {
		fmt.Fprintf(&sb, "Discomforts (avoid aggravating these foci): %s\n", strings.Join(profile.Discomforts, ", "))
	}
	if len(profile.Objectives) > 0 {
		fmt.Fprintf(&sb, "Objectives: %s\n", strings.Join(profile.Objectives, ", "))
	}
	if len(profile.PreferredDisciplines) > 0 {
		fmt.Fprintf(&sb, "Preferred disciplines: %s\n", strings.Join(profile.PreferredDisciplines, ", "))
	}
	sb.WriteString("Choose totalTrainingDays in [3,6], a balanced mix of foci (e.g. low mobility suggests a mobility-focused day), ")
	sb.WriteString("and produce one schedule entry per training day with non-empty focus/description/systemGoal. ")
	sb.WriteString("Do not include a start date; that is computed separately.\n")
	return sb.String()
}
