package catalog

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"vibes/internal/models"
)

type SortField string

const (
	SortByName   SortField = "name"
	SortBySet    SortField = "set"
	SortByNumber SortField = "id"
	SortByOwned  SortField = "owned"
	SortByCost   SortField = "cost"
	SortByVibe   SortField = "vibe"
	SortByRarity SortField = "rarity"
)

// missingValue orders absent numbers after every real one.
const missingValue = math.MaxInt

type SortKey struct {
	Field SortField
	Desc  bool
}

var DefaultSort = SortKey{Field: SortBySet}

// ParseSortKey reads "<field>-<asc|desc>". Empty input yields DefaultSort;
// an unknown field leaves the catalog order untouched.
func ParseSortKey(s string) SortKey {
	if s == "" {
		return DefaultSort
	}
	field, dir, _ := strings.Cut(s, "-")
	return SortKey{Field: SortField(field), Desc: dir == "desc"}
}

func (k SortKey) String() string {
	if k.Desc {
		return string(k.Field) + "-desc"
	}
	return string(k.Field) + "-asc"
}

func (k SortKey) NeedsOwnership() bool {
	return k.Field == SortByOwned
}

// Sort orders cards in place with a stable sort.
func (k SortKey) Sort(cards []models.Card, owned OwnershipReader) {
	if owned == nil {
		owned = noOwnership{}
	}
	slices.SortStableFunc(cards, func(a, b models.Card) int {
		return k.Compare(&a, &b, owned)
	})
}

func (k SortKey) Compare(a, b *models.Card, owned OwnershipReader) int {
	sign := 1
	if k.Desc {
		sign = -1
	}

	switch k.Field {
	case SortByName:
		return sign * strings.Compare(a.Name, b.Name)
	case SortBySet:
		if c := cmp.Compare(a.SetRank(), b.SetRank()); c != 0 {
			return sign * c
		}
		return sign * cmp.Compare(orMissing(a.SetNumber), orMissing(b.SetNumber))
	case SortByNumber:
		return sign * cmp.Compare(orMissing(a.SetNumber), orMissing(b.SetNumber))
	case SortByOwned:
		return sign * cmp.Compare(owned.GetVariantCounts(a.ID).Total(), owned.GetVariantCounts(b.ID).Total())
	case SortByCost:
		return sign * cmp.Compare(costOf(a), costOf(b))
	case SortByVibe:
		return sign * cmp.Compare(orMissing(a.Vibe), orMissing(b.Vibe))
	case SortByRarity:
		return sign * cmp.Compare(a.RarityRank(), b.RarityRank())
	}
	return 0
}

func orMissing(v *int) int {
	if v == nil {
		return missingValue
	}
	return *v
}

func costOf(c *models.Card) int {
	if c.Cost == nil {
		return missingValue
	}
	return c.Cost.Amount
}
