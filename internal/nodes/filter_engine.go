package nodes

import (
	"context"
	"sort"
	"strings"

	"github.com/smilemakc/trainerflow/internal/domain"
	"github.com/smilemakc/trainerflow/internal/graph"
)

// FilterEngine is node 5.2: excludes blacklisted ids, buckets
// survivors by phase, and fuzzy-scores each against the session's
// target tags (spec.md §4.6).
type FilterEngine struct{}

func (n *FilterEngine) Name() string { return graph.NodeFilterEngine }

func (n *FilterEngine) Execute(ctx context.Context, state *graph.State) error {
	snap := state.Snapshot()

	excluded := make(map[string]struct{}, len(snap.InitialBlacklist)+len(snap.SessionUsedIds))
	for _, id := range snap.InitialBlacklist {
		excluded[id] = struct{}{}
	}
	for _, id := range snap.SessionUsedIds {
		excluded[id] = struct{}{}
	}

	var targetTags []string
	if snap.CurrentSessionContext != nil {
		targetTags = snap.CurrentSessionContext.TargetTags
	}

	pool := graph.ScoredPool{}
	for _, v := range snap.AvailableVariations {
		if _, skip := excluded[v.ID]; skip {
			continue
		}
		scored := v
		scored.Score = ScoreVariation(v, targetTags)
		switch v.Phase {
		case domain.PhaseWarmup:
			pool.Warmup = append(pool.Warmup, scored)
		case domain.PhaseWorkout:
			pool.Workout = append(pool.Workout, scored)
		case domain.PhaseCooldown:
			pool.Cooldown = append(pool.Cooldown, scored)
		}
	}

	sortByScoreDesc(pool.Warmup)
	sortByScoreDesc(pool.Workout)
	sortByScoreDesc(pool.Cooldown)

	state.SetScoredPool(pool)
	return nil
}

// ScoreVariation computes the fuzzy tag-match score of spec.md §4.6:
// base = |tags(v) ∩ T| / |T|, with a bonus for matching more than one
// tag, capped at 1.0.
func ScoreVariation(v domain.ExerciseVariation, targetTags []string) float64 {
	if len(targetTags) == 0 {
		return 0
	}

	tagSet := make(map[string]struct{}, len(v.Tags))
	for _, t := range v.Tags {
		tagSet[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}

	matches := 0
	for _, t := range targetTags {
		if _, ok := tagSet[strings.ToLower(strings.TrimSpace(t))]; ok {
			matches++
		}
	}
	if matches == 0 {
		return 0
	}

	base := float64(matches) / float64(len(targetTags))
	bonus := 1.0
	if matches > 1 {
		bonus = 1 + 0.1*float64(matches-1)
	}

	score := base * bonus
	if score > 1.0 {
		score = 1.0
	}
	return score
}

func sortByScoreDesc(pool []domain.ExerciseVariation) {
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Score > pool[j].Score
	})
}
