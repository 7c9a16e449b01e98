package llmclient

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/smilemakc/trainerflow/internal/domain"
	domainerrors "github.com/smilemakc/trainerflow/internal/domain/errors"
)

type variationsArgs struct {
	SelectedIds []string `json:"selectedIds" validate:"required,dive,required"`
}

// phaseSelectorSpec pins the per-phase node name, tool name and the
// selection-count range from spec.md §4.8.
type phaseSelectorSpec struct {
	node     string
	toolName string
	min, max int
}

var phaseSpecs = map[domain.Phase]phaseSelectorSpec{
	domain.PhaseWarmup:   {node: "warmup_selector", toolName: "select_warmup_variations", min: 3, max: 5},
	domain.PhaseWorkout:  {node: "workout_selector", toolName: "select_workout_variations", min: 4, max: 6},
	domain.PhaseCooldown: {node: "cooldown_selector", toolName: "select_cooldown_variations", min: 3, max: 4},
}

func selectVariationsTool(spec phaseSelectorSpec, pool []domain.ExerciseVariation) openai.Tool {
	ids := make([]string, len(pool))
	for i, v := range pool {
		ids[i] = v.ID
	}
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        spec.toolName,
			Description: fmt.Sprintf("Select between %d and %d variation ids from the given pool for this phase.", spec.min, spec.max),
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"selectedIds": map[string]any{
						"type":     "array",
						"minItems": spec.min,
						"maxItems": spec.max,
						"items": map[string]any{
							"type": "string",
							"enum": ids,
						},
					},
				},
				"required": []string{"selectedIds"},
			},
		},
	}
}

// SelectVariations asks the model to choose ids for one phase (5.4.*)
// from the pre-scored, pre-cleaned pool, then materializes the chosen
// ids back to full ExerciseVariation records by intersecting with the
// pool — an id the model hallucinates outside the pool is dropped
// silently, matching the pool-intersection rule in spec.md §4.8.
func (c *Client) SelectVariations(ctx context.Context, phase domain.Phase, session domain.ScheduledTrainingDay, targetTags []string, pool []domain.ExerciseVariation) ([]domain.ExerciseVariation, error) {
	spec, ok := phaseSpecs[phase]
	if !ok {
		return nil, fmt.Errorf("no selector spec registered for phase %q", phase)
	}

	prompt := buildVariationsPrompt(phase, session, targetTags, pool)
	raw, err := c.callTool(ctx, spec.node, prompt, selectVariationsTool(spec, pool))
	if err != nil {
		return nil, err
	}

	var args variationsArgs
	if err := c.decodeAndValidate(spec.node, raw, &args); err != nil {
		return nil, err
	}

	// decodeAndValidate only checks variationsArgs' static tags
	// (required, non-empty entries); the per-phase count range from
	// spec.md §4.8 varies by phase, so it is checked here instead of
	// trusting the tool schema's minItems/maxItems alone (spec.md §9).
	if err := c.validateSelectionCount(spec, args.SelectedIds); err != nil {
		return nil, err
	}

	selected := materializeSelected(args.SelectedIds, pool)
	if len(selected) < spec.min {
		return nil, domainerrors.NewLLMError(spec.node, "schema-mismatch",
			fmt.Errorf("only %d of %d selected ids matched the pool, below the minimum of %d", len(selected), len(args.SelectedIds), spec.min))
	}

	return selected, nil
}

// validateSelectionCount re-checks the raw selectedIds count against
// the phase's min/max range, the dynamic counterpart of the static
// `validate:"min=...,max=..."` struct tags the sibling schemas
// (target_tags.go, weekly_plan.go) use — variationsArgs can't carry a
// static tag since the range differs per phase.
func (c *Client) validateSelectionCount(spec phaseSelectorSpec, ids []string) error {
	countTag := fmt.Sprintf("min=%d,max=%d", spec.min, spec.max)
	if err := c.validate.Var(ids, countTag); err != nil {
		return domainerrors.NewLLMError(spec.node, "schema-mismatch",
			fmt.Errorf("selectedIds count %d outside [%d,%d]: %w", len(ids), spec.min, spec.max, err))
	}
	return nil
}

// materializeSelected resolves chosen ids back to full
// ExerciseVariation records by intersecting with the pool; an id
// outside the pool (a model hallucination) is dropped silently.
func materializeSelected(ids []string, pool []domain.ExerciseVariation) []domain.ExerciseVariation {
	byID := make(map[string]domain.ExerciseVariation, len(pool))
	for _, v := range pool {
		byID[v.ID] = v
	}

	selected := make([]domain.ExerciseVariation, 0, len(ids))
	for _, id := range ids {
		if v, ok := byID[id]; ok {
			selected = append(selected, v)
		}
	}
	return selected
}

func buildVariationsPrompt(phase domain.Phase, session domain.ScheduledTrainingDay, targetTags []string, pool []domain.ExerciseVariation) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Select %s variations for the session \"%s\" (%s).\n", phase, session.Focus, session.Description)
	fmt.Fprintf(&sb, "Target tags: %s\n", strings.Join(targetTags, ", "))
	if phase == domain.PhaseWorkout {
		sb.WriteString("The selected variations must cover at least two distinct disciplines.\n")
	}
	sb.WriteString("Candidate pool (id: name [disciplines] tags, score):\n")
	for _, v := range pool {
		fmt.Fprintf(&sb, "- %s: %s %v %v (score=%.2f)\n", v.ID, v.Name, v.Disciplines, v.Tags, v.Score)
	}
	return sb.String()
}
