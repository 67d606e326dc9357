package controllers

import (
	"encoding/json"
	"net/http"
	"testing"
	"vibes/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cardIDs(t *testing.T, body []byte) []string {
	t.Helper()
	var cards []models.Card
	require.NoError(t, json.Unmarshal(body, &cards))
	ids := make([]string, 0, len(cards))
	for _, c := range cards {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestCards_FilterIsCached(t *testing.T) {
	env := newTestEnv(t)
	cc := NewCatalogController(&mockLogger{}, env.catalog, env.collections, env.cache)

	rr := call(cc.Cards, http.MethodGet, "/cards?color=Red", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"r1", "rb"}, cardIDs(t, rr.Body.Bytes()))
	assert.Len(t, env.cache.data, 1)

	// Served from cache on the second call.
	env.cache.data["cards:color=Red"] = []byte(`[]`)
	rr = call(cc.Cards, http.MethodGet, "/cards?color=Red", "", "")
	assert.Equal(t, "[]", rr.Body.String())
}

func TestCards_SortDescending(t *testing.T) {
	env := newTestEnv(t)
	cc := NewCatalogController(&mockLogger{}, env.catalog, env.collections, env.cache)

	rr := call(cc.Cards, http.MethodGet, "/cards?sort=set-desc&color=Red", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"rb", "r1"}, cardIDs(t, rr.Body.Bytes()))
}

func TestCards_OwnershipUsesCallerCollection(t *testing.T) {
	env := newTestEnv(t)
	cc := NewCatalogController(&mockLogger{}, env.catalog, env.collections, env.cache)

	_, err := env.collections.Adjust(t.Context(), &models.Identity{UserID: "u1"}, "b1", models.VariantNormal, 1)
	require.NoError(t, err)

	rr := call(cc.Cards, http.MethodGet, "/cards?owned=owned", "", "u1")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"b1"}, cardIDs(t, rr.Body.Bytes()))

	rr = call(cc.Cards, http.MethodGet, "/cards?owned=owned", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, cardIDs(t, rr.Body.Bytes()))

	assert.Empty(t, env.cache.data, "ownership queries must not be cached")
}

func TestSuggest(t *testing.T) {
	env := newTestEnv(t)
	cc := NewCatalogController(&mockLogger{}, env.catalog, env.collections, env.cache)

	rr := call(cc.Suggest, http.MethodGet, "/cards/suggest?q=emb", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"r1"}, cardIDs(t, rr.Body.Bytes()))

	rr = call(cc.Suggest, http.MethodGet, "/cards/suggest?q=", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", rr.Body.String())
}
