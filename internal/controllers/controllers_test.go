package controllers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"vibes/internal/catalog"
	"vibes/internal/models"
	"vibes/internal/providers"
	"vibes/internal/services"
	"vibes/internal/storage"

	"github.com/stretchr/testify/require"
)

// --- local mocks (scoped to controller tests) ---

type mockLogger struct{}

func (m *mockLogger) Errorf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Warnf(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *mockLogger) Debugf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Infof(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *mockLogger) Fatalf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Close()                                                  {}

type mockCache struct {
	data map[string][]byte
}

func newMockCache() *mockCache                     { return &mockCache{data: make(map[string][]byte)} }
func (m *mockCache) Get(key string) ([]byte, bool) { v, ok := m.data[key]; return v, ok }
func (m *mockCache) Set(key string, value []byte)  { m.data[key] = value }

type mockMetrics struct {
	deckSaves map[string]int
	upvotes   int
	writes    map[string]int
}

func newMockMetrics() *mockMetrics {
	return &mockMetrics{deckSaves: map[string]int{}, writes: map[string]int{}}
}

func (m *mockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *mockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *mockMetrics) IncCacheHits()                                    {}
func (m *mockMetrics) IncCacheMisses()                                  {}
func (m *mockMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (m *mockMetrics) IncDeckSaves(kind string)                         { m.deckSaves[kind]++ }
func (m *mockMetrics) IncUpvoteToggles(_ bool)                          { m.upvotes++ }
func (m *mockMetrics) IncCollectionWrites(op string)                    { m.writes[op]++ }

// --- helpers ---

type testEnv struct {
	db          *storage.DB
	catalog     *catalog.Catalog
	collections services.CollectionServiceInterface
	decks       services.DeckServiceInterface
	cache       *mockCache
	metrics     *mockMetrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := storage.DefaultConfig(filepath.Join(t.TempDir(), "vibes.db"))
	db, err := storage.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	one := 1
	cat, err := catalog.New([]models.Card{
		{ID: "r1", Name: "Ember Pup", Colors: models.ColorTags{"Red"}, Set: "Eth", SetNumber: &one, Rarity: "Common"},
		{ID: "b1", Name: "Tide Caller", Colors: models.ColorTags{"Blue"}, Set: "Eth", Rarity: "Rare"},
		{ID: "rb", Name: "Steam Wisp", Colors: models.ColorTags{"Blue", "Red"}, Set: "Lotl", Rarity: "Epic"},
		{ID: "c1", Name: "Old Boot", Set: "Lotl", Rarity: "Common"},
	})
	require.NoError(t, err)

	collections, err := services.NewCollectionService(storage.NewCollectionRepository(db), cat, 16)
	require.NoError(t, err)

	return &testEnv{
		db:          db,
		catalog:     cat,
		collections: collections,
		decks:       services.NewDeckService(storage.NewDeckRepository(db), cat),
		cache:       newMockCache(),
		metrics:     newMockMetrics(),
	}
}

// call runs handler behind the identity middleware as userID ("" for anonymous).
func call(handler http.HandlerFunc, method, target, body, userID string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if userID != "" {
		req.Header.Set(providers.HeaderUserID, userID)
		req.Header.Set(providers.HeaderUserName, "Name "+userID)
	}
	rr := httptest.NewRecorder()
	providers.IdentityMiddleware(handler).ServeHTTP(rr, req)
	return rr
}
