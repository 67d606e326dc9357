package models

import (
	"fmt"
	"math"
)

type Variant string

const (
	VariantNormal Variant = "normal"
	VariantFoil   Variant = "foil"
	VariantArctic Variant = "arctic"
	VariantSketch Variant = "sketch"
)

// Variants lists every variant kind in display order.
var Variants = [...]Variant{VariantNormal, VariantFoil, VariantArctic, VariantSketch}

func ParseVariant(s string) (Variant, error) {
	v := Variant(s)
	if !v.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownVariant, s)
	}
	return v, nil
}

func (v Variant) Valid() bool {
	switch v {
	case VariantNormal, VariantFoil, VariantArctic, VariantSketch:
		return true
	}
	return false
}

// VariantCounts holds the owned copies of one card per variant.
type VariantCounts struct {
	Normal int `json:"normal"`
	Foil   int `json:"foil"`
	Arctic int `json:"arctic"`
	Sketch int `json:"sketch"`
}

func (vc VariantCounts) Get(v Variant) int {
	switch v {
	case VariantNormal:
		return vc.Normal
	case VariantFoil:
		return vc.Foil
	case VariantArctic:
		return vc.Arctic
	case VariantSketch:
		return vc.Sketch
	}
	return 0
}

func (vc *VariantCounts) set(v Variant, n int) {
	n = max(n, 0)
	switch v {
	case VariantNormal:
		vc.Normal = n
	case VariantFoil:
		vc.Foil = n
	case VariantArctic:
		vc.Arctic = n
	case VariantSketch:
		vc.Sketch = n
	}
}

// Total saturates at math.MaxInt instead of wrapping.
func (vc VariantCounts) Total() int {
	total := 0
	for _, n := range [...]int{vc.Normal, vc.Foil, vc.Arctic, vc.Sketch} {
		if n > math.MaxInt-total {
			return math.MaxInt
		}
		total += n
	}
	return total
}

func (vc VariantCounts) IsZero() bool {
	return vc == VariantCounts{}
}

// HasPlayset reports four or more copies in any mix of variants.
func (vc VariantCounts) HasPlayset() bool {
	return vc.Total() >= 4
}

// HasMasterSet reports at least one copy of every variant.
func (vc VariantCounts) HasMasterSet() bool {
	return vc.Normal >= 1 && vc.Foil >= 1 && vc.Arctic >= 1 && vc.Sketch >= 1
}

// CollectionState maps card id to its variant counts.
type CollectionState map[string]VariantCounts
