package nodes

import (
	"context"
	"strings"

	"github.com/smilemakc/trainerflow/internal/domain"
	domainerrors "github.com/smilemakc/trainerflow/internal/domain/errors"
	"github.com/smilemakc/trainerflow/internal/graph"
)

// ContextCleaner is node 2: projects the loaded profile and catalogue
// to the minimal shapes of spec.md §3 — dropping variations with no
// id, coercing an invalid phase to workout, and normalizing array
// fields. Idempotent: cleaning an already-clean state is a no-op.
type ContextCleaner struct{}

func (n *ContextCleaner) Name() string { return graph.NodeContextCleaner }

func (n *ContextCleaner) Execute(ctx context.Context, state *graph.State) error {
	snap := state.Snapshot()

	if snap.UserProfile.UID == "" {
		return domainerrors.NewValidationError("userProfile", "profile is missing or has no uid")
	}
	if len(snap.AvailableVariations) == 0 {
		return domainerrors.NewValidationError("availableVariations", "catalogue is empty")
	}

	profile := snap.UserProfile
	profile.Discomforts = normalizeStrings(profile.Discomforts)
	profile.Objectives = normalizeStrings(profile.Objectives)
	profile.PreferredDisciplines = normalizeStrings(profile.PreferredDisciplines)

	cleaned := make([]domain.ExerciseVariation, 0, len(snap.AvailableVariations))
	for _, v := range snap.AvailableVariations {
		if strings.TrimSpace(v.ID) == "" {
			continue
		}
		if !isValidPhase(v.Phase) {
			v.Phase = domain.PhaseWorkout
		}
		v.Disciplines = normalizeStrings(v.Disciplines)
		v.Tags = normalizeStrings(v.Tags)
		cleaned = append(cleaned, v)
	}

	state.SetUserProfile(profile)
	state.SetAvailableVariations(cleaned)
	return nil
}

func isValidPhase(p domain.Phase) bool {
	switch p {
	case domain.PhaseWarmup, domain.PhaseWorkout, domain.PhaseCooldown:
		return true
	default:
		return false
	}
}

// normalizeStrings trims whitespace, lowercases, drops empties, and
// preserves order/duplicates beyond that — the cleaner only removes
// garbage, it doesn't deduplicate semantically meaningful repeats.
func normalizeStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		trimmed := strings.ToLower(strings.TrimSpace(s))
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}
