package cache

import (
	"testing"

	"github.com/nolanv/stocklens/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestSuggestionFilterHash_StableAcrossWhitespaceAndCase(t *testing.T) {
	a := suggestionFilterHash(domain.SuggestionFilter{Urgency: "critical", Search: "Widget"})
	b := suggestionFilterHash(domain.SuggestionFilter{Urgency: "  CRITICAL ", Search: "widget"})
	assert.Equal(t, a, b)
}

func TestSuggestionFilterHash_DistinguishesFilters(t *testing.T) {
	a := suggestionFilterHash(domain.SuggestionFilter{Urgency: "critical"})
	b := suggestionFilterHash(domain.SuggestionFilter{Urgency: "soon"})
	c := suggestionFilterHash(domain.SuggestionFilter{Urgency: "critical", Page: 2, PageSize: 50})
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestSuggestionFilterHash_EmptyFilterIsDefault(t *testing.T) {
	assert.Equal(t, "default", suggestionFilterHash(domain.SuggestionFilter{}))
	// Page 1 is the implied first page, same entry as no page at all.
	assert.Equal(t, "default", suggestionFilterHash(domain.SuggestionFilter{Page: 1}))
}

func TestBuildSuggestionKey_ScopesByClient(t *testing.T) {
	scoped := buildSuggestionKey(domain.SuggestionFilter{ClientID: "c-1"})
	unscoped := buildSuggestionKey(domain.SuggestionFilter{})
	assert.Contains(t, scoped, ":c-1:")
	assert.Contains(t, unscoped, ":all:")
}

func TestNoopSuggestionCache(t *testing.T) {
	c := NewNoopSuggestionCache()

	page, hit, err := c.GetSuggestions(t.Context(), domain.SuggestionFilter{})
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, page)

	assert.NoError(t, c.SetSuggestions(t.Context(), domain.SuggestionFilter{}, &domain.SuggestionPage{}))
	assert.NoError(t, c.InvalidateClient(t.Context(), "c-1"))
	assert.NoError(t, c.InvalidateAll(t.Context()))
}
