package deck

import "vibes/internal/models"

func QuantityOf(entries []models.DeckCardEntry, cardID string) int {
	for _, e := range entries {
		if e.CardID == cardID {
			return e.Quantity
		}
	}
	return 0
}

// AdjustEntry applies a deck-builder +/- click. The quantity is clamped into
// [0, MaxCopiesInDeck], entries reaching zero are removed and a new entry is
// appended only for a positive delta. The input slice is not modified.
func AdjustEntry(entries []models.DeckCardEntry, cardID string, delta int) []models.DeckCardEntry {
	out := make([]models.DeckCardEntry, 0, len(entries)+1)
	found := false
	for _, e := range entries {
		if e.CardID != cardID {
			out = append(out, e)
			continue
		}
		found = true
		qty := min(max(e.Quantity+delta, 0), models.MaxCopiesInDeck)
		if qty > 0 {
			out = append(out, models.DeckCardEntry{CardID: cardID, Quantity: qty})
		}
	}
	if !found && delta > 0 {
		out = append(out, models.DeckCardEntry{CardID: cardID, Quantity: min(delta, models.MaxCopiesInDeck)})
	}
	return out
}

// Normalize drops non-positive quantities and merges repeated card ids into
// the first occurrence. Quantities above the copy limit are kept so that
// Validate can report them.
func Normalize(entries []models.DeckCardEntry) []models.DeckCardEntry {
	out := make([]models.DeckCardEntry, 0, len(entries))
	index := make(map[string]int, len(entries))
	for _, e := range entries {
		if e.Quantity <= 0 || e.CardID == "" {
			continue
		}
		if i, ok := index[e.CardID]; ok {
			out[i].Quantity += e.Quantity
			continue
		}
		index[e.CardID] = len(out)
		out = append(out, e)
	}
	return out
}
