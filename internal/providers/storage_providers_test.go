package providers

import (
	"os"
	"path/filepath"
	"testing"
	"vibes/internal/structures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalogProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"id":"eth-1","name":"Ember Pup","color":"Red","set":"Eth"},
		{"id":"eth-2","name":"Tide Caller","color":"Blue, Green","set":"Eth"}
	]`), 0o644))

	cat, err := NewCatalogProvider(&structures.Config{Catalog: structures.CatalogConfig{Path: path}}, &cacheTestLogger{})
	require.NoError(t, err)
	assert.Equal(t, 2, cat.Len())

	card, ok := cat.Lookup("eth-2")
	require.True(t, ok)
	assert.Equal(t, "Blue", card.PrimaryColor())
}

func TestNewCatalogProvider_MissingFile(t *testing.T) {
	_, err := NewCatalogProvider(&structures.Config{Catalog: structures.CatalogConfig{Path: "/nonexistent/cards.json"}}, &cacheTestLogger{})
	assert.Error(t, err)
}

func TestNewDatabaseProvider(t *testing.T) {
	conf := &structures.Config{Database: structures.DatabaseConfig{
		Path: filepath.Join(t.TempDir(), "nested", "vibes.db"),
	}}
	db, cleanup, err := NewDatabaseProvider(conf, &cacheTestLogger{})
	require.NoError(t, err)
	defer cleanup()

	require.NoError(t, db.Conn().Ping())
}
