package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibes/internal/models"
)

func TestCollectionRepository_SaveAndLoad(t *testing.T) {
	repo := NewCollectionRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.SaveCard(ctx, "u1", "c1", models.VariantCounts{Normal: 2, Foil: 1}))
	require.NoError(t, repo.SaveCard(ctx, "u1", "c1", models.VariantCounts{Normal: 3}))
	require.NoError(t, repo.SaveCard(ctx, "u1", "c2", models.VariantCounts{}))
	require.NoError(t, repo.SaveCard(ctx, "u2", "c1", models.VariantCounts{Sketch: 1}))

	state, err := repo.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.CollectionState{
		"c1": {Normal: 3},
		"c2": {},
	}, state)

	empty, err := repo.Load(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCollectionRepository_Replace(t *testing.T) {
	repo := NewCollectionRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.SaveCard(ctx, "u1", "old", models.VariantCounts{Normal: 1}))
	require.NoError(t, repo.Replace(ctx, "u1", models.CollectionState{
		"new": {Arctic: 2},
	}))

	state, err := repo.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.CollectionState{"new": {Arctic: 2}}, state)

	require.NoError(t, repo.Replace(ctx, "u1", nil))
	state, err = repo.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, state)
}

func TestCollectionRepository_ResetOnlyTouchesOwner(t *testing.T) {
	repo := NewCollectionRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.SaveCard(ctx, "u1", "c1", models.VariantCounts{Normal: 1}))
	require.NoError(t, repo.SaveCard(ctx, "u2", "c1", models.VariantCounts{Normal: 1}))
	require.NoError(t, repo.Reset(ctx, "u1"))

	all, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]models.CollectionState{
		"u2": {"c1": {Normal: 1}},
	}, all)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCollectionRepository_Visibility(t *testing.T) {
	repo := NewCollectionRepository(newTestDB(t))
	ctx := context.Background()

	p, err := repo.Profile(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, p.IsPublic)
	assert.Equal(t, "u1", p.UserID)

	require.NoError(t, repo.SetVisibility(ctx, "u1", "Alice", true))
	p, err = repo.Profile(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, p.IsPublic)
	assert.Equal(t, "Alice", p.DisplayName)

	require.NoError(t, repo.SetVisibility(ctx, "u1", "Alice", false))
	p, err = repo.Profile(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, p.IsPublic)
}
