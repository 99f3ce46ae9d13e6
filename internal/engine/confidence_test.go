package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfidenceScore_FullHistory(t *testing.T) {
	// 12 months of tight, fresh order data.
	score := ConfidenceScore(12, 0.1, 10, MethodOrderFulfillment)
	// 0.3*1 + 0.25*1 + 0.2*1 + 0.15*0.85 + 0.1*0.5 = 0.9275 -> 0.93
	assert.InDelta(t, 0.93, score, 0.001)
	assert.Equal(t, ConfidenceHigh, ConfidenceLevel(score))
}

func TestConfidenceScore_SparseStaleData(t *testing.T) {
	score := ConfidenceScore(2, 1.2, 120, MethodEstimated)
	// 0.3*0.25 + 0.25*0.2 + 0.2*0.4 + 0.15*0.3 + 0.1*0.5 = 0.30
	assert.InDelta(t, 0.30, score, 0.001)
	assert.Equal(t, ConfidenceLow, ConfidenceLevel(score))
}

func TestConfidenceLevel_Boundaries(t *testing.T) {
	assert.Equal(t, ConfidenceHigh, ConfidenceLevel(0.75))
	assert.Equal(t, ConfidenceMedium, ConfidenceLevel(0.74))
	assert.Equal(t, ConfidenceMedium, ConfidenceLevel(0.50))
	assert.Equal(t, ConfidenceLow, ConfidenceLevel(0.49))
}

func TestCalculationTier(t *testing.T) {
	assert.Equal(t, Tier12Month, CalculationTier(14))
	assert.Equal(t, Tier12Month, CalculationTier(12))
	assert.Equal(t, Tier6Month, CalculationTier(7))
	assert.Equal(t, Tier3Month, CalculationTier(3))
	assert.Equal(t, TierWeekly, CalculationTier(2))
	assert.Equal(t, TierWeekly, CalculationTier(0))
}

func TestMethodReliability_UnknownMethodIsNeutral(t *testing.T) {
	assert.Equal(t, 0.5, methodReliability("someday_maybe"))
}
