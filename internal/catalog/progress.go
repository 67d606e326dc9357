package catalog

import "vibes/internal/models"

var ProgressColors = []string{"Red", "Blue", "Green", "Yellow", "Purple", models.Colorless}

type ColorProgress struct {
	Color string `json:"color"`
	Owned int    `json:"owned"`
	Total int    `json:"total"`
}

// ColorProgress counts owned cards per primary color, optionally within one set.
func (c *Catalog) ColorProgress(set string, owned OwnershipReader) []ColorProgress {
	if owned == nil {
		owned = noOwnership{}
	}
	index := make(map[string]int, len(ProgressColors))
	out := make([]ColorProgress, len(ProgressColors))
	for i, color := range ProgressColors {
		out[i].Color = color
		index[color] = i
	}

	for i := range c.cards {
		card := &c.cards[i]
		if active(set) && card.Set != set {
			continue
		}
		slot, ok := index[card.PrimaryColor()]
		if !ok {
			continue
		}
		out[slot].Total++
		if owned.GetVariantCounts(card.ID).Total() > 0 {
			out[slot].Owned++
		}
	}
	return out
}
