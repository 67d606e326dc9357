package catalog

import (
	"strings"
	"vibes/internal/models"
)

const All = "All"

const (
	OwnershipAny               = "any"
	OwnershipOwned             = "owned"
	OwnershipMissing           = "missing"
	OwnershipPlaysetIncomplete = "playset-incomplete"
	OwnershipPlaysetComplete   = "playset-complete"
	OwnershipMasterIncomplete  = "master-incomplete"
	OwnershipMasterComplete    = "master-complete"
)

const (
	variantHasPrefix     = "has-"
	variantMissingPrefix = "missing-"
)

// Filter combines independent predicates with AND. Empty or "All" disables one.
// Unrecognized ownership or variant values also disable their predicate.
type Filter struct {
	Search    string `json:"search"`
	Color     string `json:"color"`
	Type      string `json:"type"`
	Rarity    string `json:"rarity"`
	Set       string `json:"set"`
	Ownership string `json:"owned"`
	Variant   string `json:"variant"`
}

func active(v string) bool {
	return v != "" && v != All
}

// NeedsOwnership reports whether the filter reads collection state.
func (f Filter) NeedsOwnership() bool {
	return (active(f.Ownership) && f.Ownership != OwnershipAny) || (active(f.Variant) && f.Variant != OwnershipAny)
}

func (f Filter) Matches(card *models.Card, owned OwnershipReader) bool {
	if active(f.Search) && !strings.Contains(strings.ToLower(card.Name), strings.ToLower(f.Search)) {
		return false
	}
	if active(f.Color) && !matchColor(card, f.Color) {
		return false
	}
	if active(f.Type) && !strings.Contains(card.Type, f.Type) {
		return false
	}
	if active(f.Rarity) && card.Rarity != f.Rarity {
		return false
	}
	if active(f.Set) && card.Set != f.Set {
		return false
	}
	if !f.NeedsOwnership() {
		return true
	}

	counts := owned.GetVariantCounts(card.ID)
	return matchOwnership(f.Ownership, counts) && matchVariant(f.Variant, counts)
}

func matchColor(card *models.Card, color string) bool {
	if color == models.Colorless && len(card.Colors) == 0 {
		return true
	}
	return card.Colors.Has(color)
}

func matchOwnership(value string, counts models.VariantCounts) bool {
	switch value {
	case OwnershipOwned:
		return counts.Total() > 0
	case OwnershipMissing:
		return counts.Total() == 0
	case OwnershipPlaysetIncomplete:
		return !counts.HasPlayset()
	case OwnershipPlaysetComplete:
		return counts.HasPlayset()
	case OwnershipMasterIncomplete:
		return !counts.HasMasterSet()
	case OwnershipMasterComplete:
		return counts.HasMasterSet()
	}
	return true
}

func matchVariant(value string, counts models.VariantCounts) bool {
	if !active(value) {
		return true
	}
	if name, ok := strings.CutPrefix(value, variantMissingPrefix); ok {
		if v := models.Variant(name); v.Valid() {
			return counts.Get(v) == 0
		}
		return true
	}
	if v := models.Variant(strings.TrimPrefix(value, variantHasPrefix)); v.Valid() {
		return counts.Get(v) > 0
	}
	return true
}
