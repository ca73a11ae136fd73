package keywords

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateProductKeywords(t *testing.T) {
	got := Generate("Pollo Frito", ProductMinPrefix)

	for _, want := range []string{"poll", "pollo", "pollo ", "pollo f", "pollo frito", "frito", "Pollo", "Frito"} {
		assert.Contains(t, got, want)
	}
	assert.NotContains(t, got, "pol")
	assert.NotContains(t, got, "p")
}

func TestGenerateHasNoDuplicates(t *testing.T) {
	got := Generate("pollo pollo", ProductMinPrefix)
	seen := map[string]bool{}
	for _, k := range got {
		assert.False(t, seen[k], "duplicate keyword %q", k)
		seen[k] = true
	}
}

func TestGenerateBusinessKeywordsStartAtOneRune(t *testing.T) {
	got := Generate("Ñam", BusinessMinPrefix)
	assert.Equal(t, []string{"ñ", "ña", "ñam", "Ñam"}, got)
}

func TestGenerateShortAndEmptyNames(t *testing.T) {
	assert.Empty(t, Generate("", ProductMinPrefix))
	assert.Empty(t, Generate("   ", ProductMinPrefix))
	assert.Equal(t, []string{"té", "Té"}, Generate("Té", ProductMinPrefix))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "pollo", Normalize("  POLLO "))
}
