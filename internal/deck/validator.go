// Package deck holds the pure deck-building rules: legality, colors and grouping.
package deck

import (
	"fmt"
	"slices"
	"strings"
	"vibes/internal/catalog"
	"vibes/internal/models"
)

// Result is the outcome of Validate. Errors are human-readable and never
// block saving a draft.
type Result struct {
	Valid      bool     `json:"valid"`
	Errors     []string `json:"errors"`
	TotalCards int      `json:"totalCards"`
}

// CardQuantity pairs a resolved card with its count in a deck.
type CardQuantity struct {
	Card     models.Card `json:"card"`
	Quantity int         `json:"quantity"`
}

func TotalCards(entries []models.DeckCardEntry) int {
	total := 0
	for _, e := range entries {
		total += e.Quantity
	}
	return total
}

// Validate checks the 52-card total and the per-card copy limit.
// lookup may be nil, in which case raw card ids name offending entries.
func Validate(entries []models.DeckCardEntry, lookup catalog.CardLookup) Result {
	total := TotalCards(entries)
	errs := make([]string, 0)

	if total != models.DeckSize {
		errs = append(errs, fmt.Sprintf("Deck must have exactly %d cards (currently %d)", models.DeckSize, total))
	}
	for _, e := range entries {
		if e.Quantity > models.MaxCopiesInDeck {
			errs = append(errs, fmt.Sprintf("%s exceeds %d copies (%d)", displayName(e.CardID, lookup), models.MaxCopiesInDeck, e.Quantity))
		}
	}

	return Result{Valid: len(errs) == 0, Errors: errs, TotalCards: total}
}

// resolve treats a nil lookup as a catalog that knows no cards.
func resolve(lookup catalog.CardLookup, cardID string) (*models.Card, bool) {
	if lookup == nil {
		return nil, false
	}
	return lookup.Lookup(cardID)
}

func displayName(cardID string, lookup catalog.CardLookup) string {
	if card, ok := resolve(lookup, cardID); ok && card.Name != "" {
		return card.Name
	}
	return cardID
}

// DeriveColors returns the union of color tags across the deck in first-seen
// order. Cards missing from the catalog contribute nothing.
func DeriveColors(entries []models.DeckCardEntry, lookup catalog.CardLookup) []string {
	colors := make([]string, 0)
	seen := make(map[string]struct{})
	for _, e := range entries {
		card, ok := resolve(lookup, e.CardID)
		if !ok {
			continue
		}
		for _, tag := range card.Colors {
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			colors = append(colors, tag)
		}
	}
	return colors
}

// GroupByPrimaryColor buckets resolved cards by their first color tag
// ("Colorless" when untagged). Each bucket is ordered by byte-wise name.
func GroupByPrimaryColor(entries []models.DeckCardEntry, lookup catalog.CardLookup) map[string][]CardQuantity {
	groups := make(map[string][]CardQuantity)
	for _, e := range entries {
		card, ok := resolve(lookup, e.CardID)
		if !ok {
			continue
		}
		color := card.PrimaryColor()
		groups[color] = append(groups[color], CardQuantity{Card: *card, Quantity: e.Quantity})
	}
	for _, group := range groups {
		slices.SortStableFunc(group, func(a, b CardQuantity) int {
			return strings.Compare(a.Card.Name, b.Card.Name)
		})
	}
	return groups
}
