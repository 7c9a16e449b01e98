package llmclient

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/smilemakc/trainerflow/internal/domain"
)

const nodePhaseOrchestrator = "phase_orchestrator"

type targetTagsArgs struct {
	TargetTags []string `json:"targetTags" validate:"min=3,max=8,dive,required"`
}

func selectTargetTagsTool() openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        "select_target_tags",
			Description: "Choose 3 to 8 target tags describing the focus of a single training session.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"targetTags": map[string]any{
						"type":     "array",
						"minItems": 3,
						"maxItems": 8,
						"items": map[string]any{
							"type": "string",
							"enum": allowedTagList(),
						},
					},
				},
				"required": []string{"targetTags"},
			},
		},
	}
}

// SelectTargetTags asks the model for this session's target tags (node
// 5.1), then filters them down to the closed allowed set per spec.md
// §4.5. When nothing survives the filter it returns an empty slice and
// a nil error; the PhaseOrchestrator node turns that into
// domainerrors.OrchestratorError{no-valid-tags}.
func (c *Client) SelectTargetTags(ctx context.Context, profile domain.UserProfile, day domain.ScheduledTrainingDay) ([]string, error) {
	prompt := buildTargetTagsPrompt(profile, day)

	raw, err := c.callTool(ctx, nodePhaseOrchestrator, prompt, selectTargetTagsTool())
	if err != nil {
		return nil, err
	}

	var args targetTagsArgs
	if err := c.decodeAndValidate(nodePhaseOrchestrator, raw, &args); err != nil {
		return nil, err
	}

	return FilterValidTags(args.TargetTags), nil
}

func buildTargetTagsPrompt(profile domain.UserProfile, day domain.ScheduledTrainingDay) string {
	var sb strings.Builder
	sb.WriteString("You are choosing the target tags for one training session.\n")
	fmt.Fprintf(&sb, "Session focus: %s\n", day.Focus)
	fmt.Fprintf(&sb, "Session description: %s\n", day.Description)
	fmt.Fprintf(&sb, "System goal: %s\n", day.SystemGoal)
	fmt.Fprintf(&sb, "User mobility/flexibility/rotation: %.0f/%.0f/%.0f\n",
		profile.Metrics.Mobility, profile.Metrics.Flexibility, profile.Metrics.Rotation)
	if len(profile.Discomforts) > 0 {
		fmt.Fprintf(&sb, "User discomforts (avoid aggravating): %s\n", strings.Join(profile.Discomforts, ", "))
	}
	if len(profile.Objectives) > 0 {
		fmt.Fprintf(&sb, "User objectives: %s\n", strings.Join(profile.Objectives, ", "))
	}
	sb.WriteString("Pick between 3 and 8 tags from the allowed set that best characterize this session.\n")
	return sb.String()
}
