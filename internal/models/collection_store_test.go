package models

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogCards(ids ...string) []Card {
	cards := make([]Card, len(ids))
	for i, id := range ids {
		cards[i] = Card{ID: id, Name: id}
	}
	return cards
}

func TestCollectionStore_GetUnknownCard(t *testing.T) {
	s := NewCollectionStore()
	assert.Equal(t, VariantCounts{}, s.GetVariantCounts("missing"))
	assert.Equal(t, 0, s.GetTotalOwned("missing"))
	assert.False(t, s.HasPlayset("missing"))
	assert.False(t, s.HasMasterSet("missing"))
}

func TestCollectionStore_AdjustVariant(t *testing.T) {
	s := NewCollectionStore()

	counts, err := s.AdjustVariant("eth-1", VariantFoil, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, counts.Foil)

	counts, err = s.AdjustVariant("eth-1", VariantFoil, -1)
	require.NoError(t, err)
	assert.Equal(t, 2, counts.Foil)
	assert.Equal(t, 2, s.GetVariantCounts("eth-1").Foil)
}

func TestCollectionStore_AdjustVariantFloorsAtZero(t *testing.T) {
	s := NewCollectionStore()
	_, err := s.SetVariantCount("eth-1", VariantNormal, 2)
	require.NoError(t, err)

	counts, err := s.AdjustVariant("eth-1", VariantNormal, -5)
	require.NoError(t, err)
	assert.Equal(t, 0, counts.Normal)

	counts, err = s.AdjustVariant("eth-1", VariantNormal, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, counts.Normal)
}

func TestCollectionStore_AdjustUnknownVariant(t *testing.T) {
	s := NewCollectionStore()
	_, err := s.AdjustVariant("eth-1", Variant("holo"), 1)
	assert.ErrorIs(t, err, ErrUnknownVariant)
	assert.Equal(t, 0, s.Len())
}

func TestCollectionStore_SetVariantCountClampsNegative(t *testing.T) {
	s := NewCollectionStore()
	_, err := s.SetVariantCount("eth-1", VariantSketch, 7)
	require.NoError(t, err)

	counts, err := s.SetVariantCount("eth-1", VariantSketch, -3)
	require.NoError(t, err)
	assert.Equal(t, 0, counts.Sketch)
}

func TestCollectionStore_SetUnknownVariant(t *testing.T) {
	s := NewCollectionStore()
	_, err := s.SetVariantCount("eth-1", Variant(""), 1)
	assert.ErrorIs(t, err, ErrUnknownVariant)
}

func TestCollectionStore_ToleratesLargeCounts(t *testing.T) {
	s := NewCollectionStore()
	_, err := s.SetVariantCount("eth-1", VariantNormal, 100000)
	require.NoError(t, err)
	assert.Equal(t, 100000, s.GetTotalOwned("eth-1"))
}

func TestCollectionStore_CompletenessPredicates(t *testing.T) {
	tests := []struct {
		name     string
		counts   VariantCounts
		total    int
		playset  bool
		masterOK bool
	}{
		{"empty", VariantCounts{}, 0, false, false},
		{"three normals", VariantCounts{Normal: 3}, 3, false, false},
		{"four mixed", VariantCounts{Normal: 2, Foil: 2}, 4, true, false},
		{"one of each", VariantCounts{Normal: 1, Foil: 1, Arctic: 1, Sketch: 1}, 4, true, true},
		{"master without extra", VariantCounts{Normal: 5, Foil: 1, Arctic: 1, Sketch: 0}, 7, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewCollectionStoreFrom(CollectionState{"c": tt.counts})
			assert.Equal(t, tt.total, s.GetTotalOwned("c"))
			assert.Equal(t, tt.playset, s.HasPlayset("c"))
			assert.Equal(t, tt.masterOK, s.HasMasterSet("c"))
		})
	}
}

func TestCollectionStore_ComputeStats(t *testing.T) {
	s := NewCollectionStoreFrom(CollectionState{
		"a":       {Normal: 4},
		"b":       {Normal: 1, Foil: 1, Arctic: 1, Sketch: 1},
		"c":       {Foil: 1},
		"unknown": {Normal: 9},
	})

	stats := s.ComputeStats(catalogCards("a", "b", "c", "d"))
	assert.Equal(t, CollectionStats{
		UniqueCards:     3,
		TotalCards:      9,
		PlaysetComplete: 2,
		MasterComplete:  1,
		TotalInSet:      4,
	}, stats)
	assert.InDelta(t, 0.75, stats.UniqueRatio(), 1e-9)
	assert.InDelta(t, 0.5, stats.PlaysetRatio(), 1e-9)
	assert.InDelta(t, 0.25, stats.MasterRatio(), 1e-9)
}

func TestCollectionStore_ComputeStatsEmptyCatalog(t *testing.T) {
	s := NewCollectionStoreFrom(CollectionState{"a": {Normal: 4}})
	stats := s.ComputeStats(nil)

	assert.Equal(t, CollectionStats{}, stats)
	assert.Equal(t, 0.0, stats.UniqueRatio())
	assert.Equal(t, 0.0, stats.MasterRatio())
}

func TestCollectionStore_ImportReplacesNotMerges(t *testing.T) {
	s := NewCollectionStore()
	_, _ = s.SetVariantCount("old", VariantNormal, 3)

	s.ImportSnapshot(CollectionState{"new": {Foil: 2}})

	assert.Equal(t, 0, s.GetTotalOwned("old"))
	assert.Equal(t, 2, s.GetVariantCounts("new").Foil)
	assert.Equal(t, 1, s.Len())
}

func TestCollectionStore_ImportClampsNegative(t *testing.T) {
	s := NewCollectionStoreFrom(CollectionState{"a": {Normal: -2, Foil: 3}})
	assert.Equal(t, VariantCounts{Foil: 3}, s.GetVariantCounts("a"))
}

func TestCollectionStore_ExportImportRoundTrip(t *testing.T) {
	original := CollectionState{
		"a": {Normal: 1, Foil: 2, Arctic: 3, Sketch: 4},
		"b": {},
		"c": {Sketch: 99},
	}
	s := NewCollectionStoreFrom(original)

	other := NewCollectionStore()
	other.ImportSnapshot(s.ExportSnapshot())
	assert.Equal(t, original, other.ExportSnapshot())
}

func TestCollectionStore_ExportIsCopy(t *testing.T) {
	s := NewCollectionStoreFrom(CollectionState{"a": {Normal: 1}})
	snap := s.ExportSnapshot()
	snap["a"] = VariantCounts{Normal: 50}
	snap["b"] = VariantCounts{Foil: 1}

	assert.Equal(t, 1, s.GetTotalOwned("a"))
	assert.Equal(t, 1, s.Len())
}

func TestCollectionStore_ResetAll(t *testing.T) {
	s := NewCollectionStoreFrom(CollectionState{"a": {Normal: 1}, "b": {Foil: 4}})
	s.ResetAll()

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.GetTotalOwned("b"))
}

func TestCollectionStore_ConcurrentAdjust(t *testing.T) {
	s := NewCollectionStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.AdjustVariant("a", VariantArctic, 1)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, s.GetVariantCounts("a").Arctic)
}
