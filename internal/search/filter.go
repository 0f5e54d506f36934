package search

import (
	"strings"

	"golang.org/x/text/cases"

	dom "github.com/cuihairu/arcadehub/internal/ports"
)

// Filter returns the games whose title or description contains query, ignoring case.
// Catalog order is preserved and an empty query returns every game.
// The input slice is never modified.
func Filter(games []dom.Game, query string) []dom.Game {
	out := make([]dom.Game, 0, len(games))
	if query == "" {
		return append(out, games...)
	}
	// Caser keeps internal state; one per call keeps Filter safe for concurrent use.
	fold := cases.Fold()
	q := fold.String(query)
	for _, g := range games {
		if match(fold, g, q) {
			out = append(out, g)
		}
	}
	return out
}

// Matches reports whether g satisfies query under the same rule as Filter.
func Matches(g dom.Game, query string) bool {
	if query == "" {
		return true
	}
	fold := cases.Fold()
	return match(fold, g, fold.String(query))
}

func match(fold cases.Caser, g dom.Game, folded string) bool {
	return strings.Contains(fold.String(g.Title), folded) ||
		strings.Contains(fold.String(g.Description), folded)
}
