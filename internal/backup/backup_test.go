package backup

import (
	"path/filepath"
	"testing"
	"time"
	"vibes/internal/catalog"
	"vibes/internal/models"
	"vibes/internal/services"
	"vibes/internal/storage"
	"vibes/internal/structures"

	"github.com/stretchr/testify/require"
)

func testConfig(filePath string) *structures.Config {
	return &structures.Config{
		Persistence: structures.Persistence{
			FilePath:     filePath,
			SaveInterval: 1 * time.Second,
		},
	}
}

// newCollectionService builds a real sqlite-backed service over a two card catalog.
func newCollectionService(t *testing.T) services.CollectionServiceInterface {
	t.Helper()
	cfg := storage.DefaultConfig(filepath.Join(t.TempDir(), "vibes.db"))
	db, err := storage.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cat, err := catalog.New([]models.Card{
		{ID: "eth-1", Name: "Abstract Penguin", Colors: models.ColorTags{"Blue"}, Set: "Eth"},
		{ID: "eth-2", Name: "Chef Penguin", Colors: models.ColorTags{"Red"}, Set: "Eth"},
	})
	require.NoError(t, err)

	svc, err := services.NewCollectionService(storage.NewCollectionRepository(db), cat, 16)
	require.NoError(t, err)
	return svc
}

func user(id string) *models.Identity {
	return &models.Identity{UserID: id, DisplayName: id}
}
