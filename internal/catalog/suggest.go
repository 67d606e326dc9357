package catalog

import (
	"strings"
	"vibes/internal/models"

	"github.com/sahilm/fuzzy"
)

const DefaultSuggestLimit = 10

type cardNames []models.Card

func (cn cardNames) String(i int) string {
	return strings.ToLower(cn[i].Name)
}

func (cn cardNames) Len() int {
	return len(cn)
}

// Suggest returns up to limit cards whose names fuzzily match query, best first.
func (c *Catalog) Suggest(query string, limit int) []models.Card {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}

	matches := fuzzy.FindFrom(query, cardNames(c.cards))
	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]models.Card, len(matches))
	for i, m := range matches {
		out[i] = c.cards[m.Index]
	}
	return out
}
