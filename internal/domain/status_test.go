package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStockLevel_SeverityOrdering(t *testing.T) {
	ordered := []StockLevel{LevelCritical, LevelLow, LevelWatch, LevelHealthy, LevelOverstock, LevelUnknown}
	for i := 1; i < len(ordered); i++ {
		assert.Less(t, ordered[i-1].Severity(), ordered[i].Severity())
	}
}

func TestParseStockLevel(t *testing.T) {
	level, ok := ParseStockLevel("  CRITICAL ")
	assert.True(t, ok)
	assert.Equal(t, LevelCritical, level)

	_, ok = ParseStockLevel("severe")
	assert.False(t, ok)
}

func TestParseUrgency(t *testing.T) {
	urgency, ok := ParseUrgency("Soon")
	assert.True(t, ok)
	assert.Equal(t, UrgencySoon, urgency)

	_, ok = ParseUrgency("whenever")
	assert.False(t, ok)
}

func TestStockLevel_LabelAndColorCoverEveryLevel(t *testing.T) {
	for _, level := range []StockLevel{LevelCritical, LevelLow, LevelWatch, LevelHealthy, LevelOverstock, LevelUnknown} {
		assert.NotEmpty(t, level.Label())
		assert.NotEmpty(t, level.Color())
	}
}
