// Package catalog holds the static card list and the filter/sort engine over it.
package catalog

import (
	"fmt"
	"os"
	"vibes/internal/models"

	json "github.com/goccy/go-json"
)

// CardLookup resolves card ids against the catalog.
type CardLookup interface {
	Lookup(id string) (*models.Card, bool)
}

// OwnershipReader is the slice of a collection store the engine needs.
type OwnershipReader interface {
	GetVariantCounts(cardID string) models.VariantCounts
}

type noOwnership struct{}

func (noOwnership) GetVariantCounts(string) models.VariantCounts { return models.VariantCounts{} }

// Catalog is immutable once built and safe for concurrent use.
type Catalog struct {
	cards []models.Card
	byID  map[string]int
}

func New(cards []models.Card) (*Catalog, error) {
	c := &Catalog{
		cards: make([]models.Card, len(cards)),
		byID:  make(map[string]int, len(cards)),
	}
	copy(c.cards, cards)
	for i := range c.cards {
		id := c.cards[i].ID
		if id == "" {
			return nil, fmt.Errorf("card at position %d has no id", i)
		}
		if _, dup := c.byID[id]; dup {
			return nil, fmt.Errorf("duplicate card id %q", id)
		}
		c.byID[id] = i
	}
	return c, nil
}

func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var cards []models.Card
	if err := json.Unmarshal(data, &cards); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(cards)
}

func (c *Catalog) Len() int {
	return len(c.cards)
}

// Cards returns the catalog in its original order.
func (c *Catalog) Cards() []models.Card {
	out := make([]models.Card, len(c.cards))
	copy(out, c.cards)
	return out
}

func (c *Catalog) Lookup(id string) (*models.Card, bool) {
	i, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	card := c.cards[i]
	return &card, true
}

// Query filters the catalog and orders the result. Equal sort keys keep
// catalog order, so identical inputs always give identical output.
func (c *Catalog) Query(f Filter, key SortKey, owned OwnershipReader) []models.Card {
	if owned == nil {
		owned = noOwnership{}
	}
	out := make([]models.Card, 0, len(c.cards))
	for i := range c.cards {
		if f.Matches(&c.cards[i], owned) {
			out = append(out, c.cards[i])
		}
	}
	key.Sort(out, owned)
	return out
}
