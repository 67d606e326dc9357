package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibes/internal/models"
	"vibes/internal/storage"
)

func newCollectionService(t *testing.T, db *storage.DB, size int) *CollectionService {
	t.Helper()
	svc, err := NewCollectionService(storage.NewCollectionRepository(db), testCatalog(t), size)
	require.NoError(t, err)
	return svc.(*CollectionService)
}

func TestCollectionService_RequiresIdentity(t *testing.T) {
	svc := newCollectionService(t, testDB(t), 8)
	ctx := context.Background()

	_, err := svc.Adjust(ctx, nil, "r1", models.VariantNormal, 1)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
	_, err = svc.Import(ctx, &models.Identity{}, []byte(`{}`))
	assert.ErrorIs(t, err, models.ErrUnauthorized)
	assert.ErrorIs(t, svc.Reset(ctx, nil), models.ErrUnauthorized)

	owned, err := svc.Ownership(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, owned)
}

func TestCollectionService_AdjustPersists(t *testing.T) {
	db := testDB(t)
	svc := newCollectionService(t, db, 8)
	ctx := context.Background()

	counts, err := svc.Adjust(ctx, user("u1"), "r1", models.VariantFoil, 2)
	require.NoError(t, err)
	assert.Equal(t, models.VariantCounts{Foil: 2}, counts)

	counts, err = svc.Adjust(ctx, user("u1"), "r1", models.VariantFoil, -5)
	require.NoError(t, err)
	assert.Equal(t, models.VariantCounts{}, counts)

	_, err = svc.Set(ctx, user("u1"), "b1", models.VariantSketch, 3)
	require.NoError(t, err)

	_, err = svc.Adjust(ctx, user("u1"), "b1", models.Variant("gold"), 1)
	assert.ErrorIs(t, err, models.ErrUnknownVariant)

	fresh := newCollectionService(t, db, 8)
	view, err := fresh.View(ctx, user("u1"), "")
	require.NoError(t, err)
	assert.Equal(t, models.VariantCounts{Sketch: 3}, view.Counts["b1"])
	assert.Equal(t, models.VariantCounts{}, view.Counts["r1"])
	assert.Equal(t, 1, view.Stats.UniqueCards)
	assert.Equal(t, 3, view.Stats.TotalCards)
	assert.Equal(t, 4, view.Stats.TotalInSet)
	assert.True(t, svc.TakeDirty())
	assert.False(t, svc.TakeDirty())
}

func TestCollectionService_ConcurrentAdjust(t *testing.T) {
	db := testDB(t)
	svc := newCollectionService(t, db, 8)
	ctx := context.Background()

	const n = 25
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Adjust(ctx, user("u1"), "r1", models.VariantNormal, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	state, err := storage.NewCollectionRepository(db).Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, n, state["r1"].Normal)
}

func TestCollectionService_ImportExportRoundTrip(t *testing.T) {
	svc := newCollectionService(t, testDB(t), 8)
	ctx := context.Background()

	_, err := svc.Adjust(ctx, user("u1"), "gone", models.VariantNormal, 1)
	require.NoError(t, err)

	n, err := svc.Import(ctx, user("u1"), []byte(`{"r1":{"normal":2,"foil":1},"c1":{"arctic":4}}`))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, name, err := svc.Export(ctx, user("u1"))
	require.NoError(t, err)
	assert.Regexp(t, `^vibes-collection-\d{4}-\d{2}-\d{2}\.json$`, name)

	state, err := models.ParseSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, models.CollectionState{
		"r1": {Normal: 2, Foil: 1},
		"c1": {Arctic: 4},
	}, state)

	_, err = svc.Import(ctx, user("u1"), []byte(`[1,2]`))
	assert.ErrorIs(t, err, models.ErrMalformedInput)
}

func TestCollectionService_Reset(t *testing.T) {
	svc := newCollectionService(t, testDB(t), 8)
	ctx := context.Background()

	_, err := svc.Adjust(ctx, user("u1"), "r1", models.VariantNormal, 3)
	require.NoError(t, err)
	require.NoError(t, svc.Reset(ctx, user("u1")))

	view, err := svc.View(ctx, user("u1"), "")
	require.NoError(t, err)
	assert.Empty(t, view.Counts)
}

func TestCollectionService_ViewOtherUser(t *testing.T) {
	svc := newCollectionService(t, testDB(t), 8)
	ctx := context.Background()

	_, err := svc.Adjust(ctx, user("owner"), "r1", models.VariantNormal, 4)
	require.NoError(t, err)

	_, err = svc.View(ctx, user("guest"), "owner")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
	_, err = svc.View(ctx, nil, "owner")
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	require.NoError(t, svc.SetVisibility(ctx, user("owner"), true))

	view, err := svc.View(ctx, nil, "owner")
	require.NoError(t, err)
	assert.True(t, view.IsPublic)
	assert.Equal(t, "User owner", view.Username)
	assert.Equal(t, 1, view.Stats.PlaysetComplete)

	// The view is a copy.
	view.Counts["r1"] = models.VariantCounts{}
	again, err := svc.View(ctx, user("owner"), "")
	require.NoError(t, err)
	assert.Equal(t, 4, again.Counts["r1"].Normal)
}

func TestCollectionService_ColorProgress(t *testing.T) {
	svc := newCollectionService(t, testDB(t), 8)
	ctx := context.Background()

	_, err := svc.Adjust(ctx, user("u1"), "rb", models.VariantNormal, 1)
	require.NoError(t, err)

	progress, err := svc.ColorProgress(ctx, user("u1"), "")
	require.NoError(t, err)
	byColor := make(map[string][2]int)
	for _, p := range progress {
		byColor[p.Color] = [2]int{p.Owned, p.Total}
	}
	assert.Equal(t, [2]int{0, 1}, byColor["Red"])
	assert.Equal(t, [2]int{1, 2}, byColor["Blue"])
	assert.Equal(t, [2]int{0, 1}, byColor["Colorless"])
}

func TestCollectionService_RestoreAll(t *testing.T) {
	svc := newCollectionService(t, testDB(t), 1)
	ctx := context.Background()

	restored, err := svc.RestoreAll(ctx, map[string]models.CollectionState{
		"u1": {"r1": {Normal: 1}},
		"u2": {"b1": {Foil: 2}},
	})
	require.NoError(t, err)
	assert.True(t, restored)

	all, err := svc.SnapshotAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	restored, err = svc.RestoreAll(ctx, map[string]models.CollectionState{"u3": {"r1": {Normal: 1}}})
	require.NoError(t, err)
	assert.False(t, restored)

	view, err := svc.View(ctx, user("u2"), "")
	require.NoError(t, err)
	assert.Equal(t, 2, view.Counts["b1"].Foil)
	assert.Equal(t, 1, svc.LoadedCount())
}
