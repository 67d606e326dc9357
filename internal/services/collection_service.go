package services

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/atomic"

	"vibes/internal/catalog"
	"vibes/internal/models"
	"vibes/internal/storage"
)

const lockStripes = 64

type CollectionServiceInterface interface {
	// Ownership returns the caller's store for catalog queries. Anonymous
	// callers get nil, which the catalog treats as owning nothing.
	Ownership(ctx context.Context, identity *models.Identity) (catalog.OwnershipReader, error)
	View(ctx context.Context, viewer *models.Identity, ownerID string) (*CollectionView, error)
	Adjust(ctx context.Context, identity *models.Identity, cardID string, v models.Variant, delta int) (models.VariantCounts, error)
	Set(ctx context.Context, identity *models.Identity, cardID string, v models.Variant, value int) (models.VariantCounts, error)
	Import(ctx context.Context, identity *models.Identity, raw []byte) (int, error)
	Export(ctx context.Context, identity *models.Identity) ([]byte, string, error)
	Reset(ctx context.Context, identity *models.Identity) error
	SetVisibility(ctx context.Context, identity *models.Identity, public bool) error
	ColorProgress(ctx context.Context, identity *models.Identity, set string) ([]catalog.ColorProgress, error)
	SnapshotAll(ctx context.Context) (map[string]models.CollectionState, error)
	RestoreAll(ctx context.Context, all map[string]models.CollectionState) (bool, error)
	TakeDirty() bool
	MarkDirty()
	LoadedCount() int
}

// CollectionView is a read-only copy of one user's collection with its stats.
type CollectionView struct {
	UserID   string                 `json:"userId"`
	Username string                 `json:"username"`
	IsPublic bool                   `json:"isPublic"`
	Counts   models.CollectionState `json:"counts"`
	Stats    models.CollectionStats `json:"stats"`
}

type CollectionService struct {
	repo    storage.CollectionRepositoryInterface
	catalog *catalog.Catalog
	stores  *lru.Cache
	locks   [lockStripes]chan struct{}
	dirty   atomic.Bool
	now     func() time.Time
}

func NewCollectionService(repo storage.CollectionRepositoryInterface, cat *catalog.Catalog, cacheSize int) (CollectionServiceInterface, error) {
	if cacheSize <= 0 {
		cacheSize = 1024
	}
	stores, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection cache: %w", err)
	}
	s := &CollectionService{
		repo:    repo,
		catalog: cat,
		stores:  stores,
		now:     time.Now,
	}
	for i := range s.locks {
		s.locks[i] = make(chan struct{}, 1)
	}
	return s, nil
}

// lock serialises every load and write of one user, so the in-memory store
// and the database apply the same sequence of changes.
func (s *CollectionService) lock(ctx context.Context, userID string) (func(), error) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	ch := s.locks[h.Sum32()%lockStripes]
	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// store must be called with the user's lock held.
func (s *CollectionService) store(ctx context.Context, userID string) (*models.CollectionStore, error) {
	if v, ok := s.stores.Get(userID); ok {
		return v.(*models.CollectionStore), nil
	}
	state, err := s.repo.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	st := models.NewCollectionStoreFrom(state)
	s.stores.Add(userID, st)
	return st, nil
}

func (s *CollectionService) lockedStore(ctx context.Context, userID string) (*models.CollectionStore, func(), error) {
	unlock, err := s.lock(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	st, err := s.store(ctx, userID)
	if err != nil {
		unlock()
		return nil, nil, err
	}
	return st, unlock, nil
}

func (s *CollectionService) Ownership(ctx context.Context, identity *models.Identity) (catalog.OwnershipReader, error) {
	if !identity.Authenticated() {
		return nil, nil
	}
	st, unlock, err := s.lockedStore(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}
	unlock()
	return st, nil
}

// View returns ownerID's collection. Only the owner may read a private one.
func (s *CollectionService) View(ctx context.Context, viewer *models.Identity, ownerID string) (*CollectionView, error) {
	if ownerID == "" {
		if !viewer.Authenticated() {
			return nil, models.ErrUnauthorized
		}
		ownerID = viewer.UserID
	}
	profile, err := s.repo.Profile(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	isOwner := viewer.Authenticated() && viewer.UserID == ownerID
	if !isOwner && !profile.IsPublic {
		return nil, models.ErrUnauthorized
	}

	st, unlock, err := s.lockedStore(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	counts := st.ExportSnapshot()
	unlock()

	name := profile.DisplayName
	if isOwner && name == "" {
		name = viewer.Name()
	}
	return &CollectionView{
		UserID:   ownerID,
		Username: name,
		IsPublic: profile.IsPublic,
		Counts:   counts,
		Stats:    models.NewCollectionStoreFrom(counts).ComputeStats(s.catalog.Cards()),
	}, nil
}

func (s *CollectionService) Adjust(ctx context.Context, identity *models.Identity, cardID string, v models.Variant, delta int) (models.VariantCounts, error) {
	return s.write(ctx, identity, cardID, func(st *models.CollectionStore) (models.VariantCounts, error) {
		return st.AdjustVariant(cardID, v, delta)
	})
}

func (s *CollectionService) Set(ctx context.Context, identity *models.Identity, cardID string, v models.Variant, value int) (models.VariantCounts, error) {
	return s.write(ctx, identity, cardID, func(st *models.CollectionStore) (models.VariantCounts, error) {
		return st.SetVariantCount(cardID, v, value)
	})
}

func (s *CollectionService) write(ctx context.Context, identity *models.Identity, cardID string, apply func(*models.CollectionStore) (models.VariantCounts, error)) (models.VariantCounts, error) {
	if !identity.Authenticated() {
		return models.VariantCounts{}, models.ErrUnauthorized
	}
	if cardID == "" {
		return models.VariantCounts{}, fmt.Errorf("%w: card id is required", models.ErrMalformedInput)
	}
	st, unlock, err := s.lockedStore(ctx, identity.UserID)
	if err != nil {
		return models.VariantCounts{}, err
	}
	defer unlock()

	counts, err := apply(st)
	if err != nil {
		return models.VariantCounts{}, err
	}
	if err := s.repo.SaveCard(ctx, identity.UserID, cardID, counts); err != nil {
		// Drop the cached store so the next read reloads what was committed.
		s.stores.Remove(identity.UserID)
		return models.VariantCounts{}, err
	}
	s.dirty.Store(true)
	return counts, nil
}

// Import replaces the caller's collection with an exported snapshot. The
// database is written first; memory follows only after the commit.
func (s *CollectionService) Import(ctx context.Context, identity *models.Identity, raw []byte) (int, error) {
	if !identity.Authenticated() {
		return 0, models.ErrUnauthorized
	}
	state, err := models.ParseSnapshot(raw)
	if err != nil {
		return 0, err
	}
	st, unlock, err := s.lockedStore(ctx, identity.UserID)
	if err != nil {
		return 0, err
	}
	defer unlock()

	if err := s.repo.Replace(ctx, identity.UserID, state); err != nil {
		return 0, err
	}
	st.ImportSnapshot(state)
	s.dirty.Store(true)
	return len(state), nil
}

// Export returns the caller's collection as pretty JSON and the download file name.
func (s *CollectionService) Export(ctx context.Context, identity *models.Identity) ([]byte, string, error) {
	if !identity.Authenticated() {
		return nil, "", models.ErrUnauthorized
	}
	st, unlock, err := s.lockedStore(ctx, identity.UserID)
	if err != nil {
		return nil, "", err
	}
	state := st.ExportSnapshot()
	unlock()

	data, err := models.MarshalSnapshot(state)
	if err != nil {
		return nil, "", err
	}
	return data, models.ExportFileName(s.now()), nil
}

func (s *CollectionService) Reset(ctx context.Context, identity *models.Identity) error {
	if !identity.Authenticated() {
		return models.ErrUnauthorized
	}
	st, unlock, err := s.lockedStore(ctx, identity.UserID)
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.repo.Reset(ctx, identity.UserID); err != nil {
		return err
	}
	st.ResetAll()
	s.dirty.Store(true)
	return nil
}

func (s *CollectionService) SetVisibility(ctx context.Context, identity *models.Identity, public bool) error {
	if !identity.Authenticated() {
		return models.ErrUnauthorized
	}
	return s.repo.SetVisibility(ctx, identity.UserID, identity.Name(), public)
}

func (s *CollectionService) ColorProgress(ctx context.Context, identity *models.Identity, set string) ([]catalog.ColorProgress, error) {
	owned, err := s.Ownership(ctx, identity)
	if err != nil {
		return nil, err
	}
	return s.catalog.ColorProgress(set, owned), nil
}

func (s *CollectionService) SnapshotAll(ctx context.Context) (map[string]models.CollectionState, error) {
	return s.repo.LoadAll(ctx)
}

// RestoreAll seeds an empty database from a backup. It reports whether
// anything was restored and leaves a non-empty database untouched.
func (s *CollectionService) RestoreAll(ctx context.Context, all map[string]models.CollectionState) (bool, error) {
	if len(all) == 0 {
		return false, nil
	}
	n, err := s.repo.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	for userID, state := range all {
		if err := s.repo.Replace(ctx, userID, state); err != nil {
			return false, fmt.Errorf("failed to restore collection of %s: %w", userID, err)
		}
		s.stores.Remove(userID)
	}
	return true, nil
}

// TakeDirty reports whether any collection changed since the last call.
func (s *CollectionService) TakeDirty() bool {
	return s.dirty.CompareAndSwap(true, false)
}

func (s *CollectionService) MarkDirty() {
	s.dirty.Store(true)
}

func (s *CollectionService) LoadedCount() int {
	return s.stores.Len()
}
