package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggest_MatchesFuzzily(t *testing.T) {
	c := newTestCatalog(t)

	got := c.Suggest("pngn", 0)
	require.Len(t, got, 2)
	assert.ElementsMatch(t, []string{"eth-1", "eth-3"}, []string{got[0].ID, got[1].ID})
}

func TestSuggest_CaseInsensitive(t *testing.T) {
	c := newTestCatalog(t)

	got := c.Suggest("  BAKER ", 5)
	require.Len(t, got, 1)
	assert.Equal(t, "lotl-2", got[0].ID)
}

func TestSuggest_Limit(t *testing.T) {
	c := newTestCatalog(t)
	assert.Len(t, c.Suggest("penguin", 1), 1)
}

func TestSuggest_EmptyAndNoMatch(t *testing.T) {
	c := newTestCatalog(t)
	assert.Nil(t, c.Suggest("   ", 5))
	assert.Empty(t, c.Suggest("zzzzqq", 5))
}
