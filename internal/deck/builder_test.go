package deck

import (
	"testing"
	"vibes/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestAdjustEntry(t *testing.T) {
	start := []models.DeckCardEntry{{CardID: "a", Quantity: 3}, {CardID: "b", Quantity: 1}}

	tests := []struct {
		name   string
		cardID string
		delta  int
		want   []models.DeckCardEntry
	}{
		{"increment", "b", 1, []models.DeckCardEntry{{CardID: "a", Quantity: 3}, {CardID: "b", Quantity: 2}}},
		{"clamp at four", "a", 5, []models.DeckCardEntry{{CardID: "a", Quantity: 4}, {CardID: "b", Quantity: 1}}},
		{"prune at zero", "b", -1, []models.DeckCardEntry{{CardID: "a", Quantity: 3}}},
		{"prune below zero", "a", -10, []models.DeckCardEntry{{CardID: "b", Quantity: 1}}},
		{"append new", "c", 1, []models.DeckCardEntry{{CardID: "a", Quantity: 3}, {CardID: "b", Quantity: 1}, {CardID: "c", Quantity: 1}}},
		{"ignore negative for new", "c", -1, []models.DeckCardEntry{{CardID: "a", Quantity: 3}, {CardID: "b", Quantity: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AdjustEntry(start, tt.cardID, tt.delta))
			assert.Equal(t, 3, QuantityOf(start, "a"))
		})
	}
}

func TestQuantityOf(t *testing.T) {
	entries := []models.DeckCardEntry{{CardID: "a", Quantity: 2}}
	assert.Equal(t, 2, QuantityOf(entries, "a"))
	assert.Equal(t, 0, QuantityOf(entries, "z"))
}

func TestNormalize(t *testing.T) {
	in := []models.DeckCardEntry{
		{CardID: "a", Quantity: 2},
		{CardID: "b", Quantity: 0},
		{CardID: "a", Quantity: 3},
		{CardID: "c", Quantity: -1},
		{CardID: "", Quantity: 1},
		{CardID: "d", Quantity: 1},
	}
	assert.Equal(t, []models.DeckCardEntry{{CardID: "a", Quantity: 5}, {CardID: "d", Quantity: 1}}, Normalize(in))
	assert.Empty(t, Normalize(nil))
}
