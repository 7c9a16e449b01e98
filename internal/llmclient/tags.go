package llmclient

import "strings"

// AllowedTags is the closed set of target tags the Phase Orchestrator
// may choose from, a compile-time constant per spec.md §9 ("Dynamic
// tag sets... should be a compile-time constant... Avoid
// string-pattern inference of tags at runtime").
var AllowedTags = map[string]struct{}{
	// anatomy
	"chest": {}, "back": {}, "legs": {}, "shoulders": {}, "core": {},
	// pattern
	"push": {}, "pull": {}, "squat": {}, "hinge": {}, "lunge": {}, "rotation": {},
	// modality
	"unilateral": {}, "bilateral": {}, "isometric": {}, "explosive": {}, "plyometric": {},
}

// allowedTagList renders AllowedTags as a slice in a fixed order
// (anatomy, pattern, modality) for
// prompt construction and JSON-schema enums.
func allowedTagList() []string {
	return []string{
		"chest", "back", "legs", "shoulders", "core",
		"push", "pull", "squat", "hinge", "lunge", "rotation",
		"unilateral", "bilateral", "isometric", "explosive", "plyometric",
	}
}

// FilterValidTags keeps only case-insensitive members of AllowedTags,
// normalized to lowercase/trimmed, the Phase Orchestrator's (4.5)
// invalid-tag filtering step.
func FilterValidTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		norm := strings.ToLower(strings.TrimSpace(t))
		if _, ok := AllowedTags[norm]; !ok {
			continue
		}
		if _, dup := seen[norm]; dup {
			continue
		}
		seen[norm] = struct{}{}
		out = append(out, norm)
	}
	return out
}
