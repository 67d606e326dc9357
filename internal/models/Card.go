package models

import (
	"strings"

	json "github.com/goccy/go-json"
)

const (
	// ColorDelimiter separates tags in the catalog's color field.
	ColorDelimiter = ", "
	Colorless      = "Colorless"
)

var (
	// RarityOrder ranks rarities from lowest to highest. Unknown rarities rank 0.
	RarityOrder = map[string]int{"Common": 1, "Uncommon": 2, "Rare": 3, "Epic": 4}
	// SetOrder is the release order of the two card sets. Unknown sets rank 99.
	SetOrder = map[string]int{"Eth": 1, "Lotl": 2}
)

// ColorTags is an ordered list of color tags. The first tag is the primary color.
// It reads and writes the catalog's delimited string form.
type ColorTags []string

func ParseColorTags(s string) ColorTags {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make(ColorTags, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

func (c ColorTags) Primary() string {
	if len(c) == 0 {
		return Colorless
	}
	return c[0]
}

func (c ColorTags) Has(tag string) bool {
	for _, t := range c {
		if t == tag {
			return true
		}
	}
	return false
}

func (c ColorTags) String() string {
	return strings.Join(c, ColorDelimiter)
}

func (c ColorTags) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *ColorTags) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil {
		*c = nil
		return nil
	}
	*c = ParseColorTags(*s)
	return nil
}

type Cost struct {
	Amount int `json:"amount"`
}

type Card struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Colors    ColorTags `json:"color"`
	Type      string    `json:"type"`
	Rarity    string    `json:"rarity"`
	Set       string    `json:"set"`
	SetNumber *int      `json:"setNumber"`
	Cost      *Cost     `json:"cost"`
	Vibe      *int      `json:"vibe"`
	ImageURL  string    `json:"imageUrl"`
}

func (c *Card) PrimaryColor() string {
	return c.Colors.Primary()
}

func (c *Card) RarityRank() int {
	return RarityOrder[c.Rarity]
}

func (c *Card) SetRank() int {
	if rank, ok := SetOrder[c.Set]; ok {
		return rank
	}
	return 99
}
