package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"vibes/internal/catalog"
	"vibes/internal/models"
	"vibes/internal/storage"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]models.Card{
		{ID: "r1", Name: "Ember Pup", Colors: models.ColorTags{"Red"}, Set: "Eth"},
		{ID: "b1", Name: "Tide Caller", Colors: models.ColorTags{"Blue"}, Set: "Eth"},
		{ID: "rb", Name: "Steam Wisp", Colors: models.ColorTags{"Blue", "Red"}, Set: "Lotl"},
		{ID: "c1", Name: "Old Boot", Set: "Lotl"},
	})
	require.NoError(t, err)
	return cat
}

func testDB(t *testing.T) *storage.DB {
	t.Helper()
	cfg := storage.DefaultConfig(filepath.Join(t.TempDir(), "vibes.db"))
	cfg.BusyTimeout = 10 * time.Second
	db, err := storage.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func user(id string) *models.Identity {
	return &models.Identity{UserID: id, DisplayName: "User " + id}
}
