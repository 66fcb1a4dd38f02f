package catalog

import (
	"strings"

	"cinefeed/internal/domain"
)

// Dedupe returns the candidates whose title does not already appear in
// existing, compared case-insensitively. Pure function; O(existing +
// candidates).
func Dedupe(existing, candidates []domain.Title) []domain.Title {
	seen := make(map[string]struct{}, len(existing))
	for _, t := range existing {
		seen[strings.ToLower(t.Title)] = struct{}{}
	}
	kept := make([]domain.Title, 0, len(candidates))
	for _, c := range candidates {
		if _, dup := seen[strings.ToLower(c.Title)]; dup {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}
