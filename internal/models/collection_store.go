package models

import (
	"fmt"
	"sync"
)

// CollectionStore holds one user's variant counts keyed by card id.
// Reads of unknown cards return zero counts; counts never go below zero.
type CollectionStore struct {
	mu   sync.RWMutex
	data map[string]VariantCounts
}

func NewCollectionStore() *CollectionStore {
	return &CollectionStore{data: make(map[string]VariantCounts)}
}

func NewCollectionStoreFrom(state CollectionState) *CollectionStore {
	s := NewCollectionStore()
	s.ImportSnapshot(state)
	return s
}

func (s *CollectionStore) GetVariantCounts(cardID string) VariantCounts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data[cardID]
}

// AdjustVariant adds delta to one variant, flooring the result at zero.
func (s *CollectionStore) AdjustVariant(cardID string, v Variant, delta int) (VariantCounts, error) {
	if !v.Valid() {
		return VariantCounts{}, fmt.Errorf("%w: %q", ErrUnknownVariant, v)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := s.data[cardID]
	counts.set(v, counts.Get(v)+delta)
	s.data[cardID] = counts
	return counts, nil
}

// SetVariantCount overwrites one variant. Negative values are stored as zero.
func (s *CollectionStore) SetVariantCount(cardID string, v Variant, value int) (VariantCounts, error) {
	if !v.Valid() {
		return VariantCounts{}, fmt.Errorf("%w: %q", ErrUnknownVariant, v)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := s.data[cardID]
	counts.set(v, value)
	s.data[cardID] = counts
	return counts, nil
}

func (s *CollectionStore) GetTotalOwned(cardID string) int {
	return s.GetVariantCounts(cardID).Total()
}

func (s *CollectionStore) HasPlayset(cardID string) bool {
	return s.GetVariantCounts(cardID).HasPlayset()
}

func (s *CollectionStore) HasMasterSet(cardID string) bool {
	return s.GetVariantCounts(cardID).HasMasterSet()
}

// ComputeStats aggregates completion over the given catalog cards.
func (s *CollectionStore) ComputeStats(cards []Card) CollectionStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := CollectionStats{TotalInSet: len(cards)}
	for i := range cards {
		counts := s.data[cards[i].ID]
		total := counts.Total()
		if total > 0 {
			stats.UniqueCards++
		}
		stats.TotalCards += total
		if counts.HasPlayset() {
			stats.PlaysetComplete++
		}
		if counts.HasMasterSet() {
			stats.MasterComplete++
		}
	}
	return stats
}

func (s *CollectionStore) ExportSnapshot() CollectionState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := make(CollectionState, len(s.data))
	for id, counts := range s.data {
		state[id] = counts
	}
	return state
}

// ImportSnapshot replaces the whole collection with state.
func (s *CollectionStore) ImportSnapshot(state CollectionState) {
	data := make(map[string]VariantCounts, len(state))
	for id, counts := range state {
		for _, v := range Variants {
			counts.set(v, counts.Get(v))
		}
		data[id] = counts
	}

	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
}

func (s *CollectionStore) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]VariantCounts)
}

func (s *CollectionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
