// internal/engine/confidence.go
package engine

import "math"

// Usage calculation methods, ordered by reliability.
const (
	MethodSnapshotDelta    = "snapshot_delta"
	MethodOrderFulfillment = "order_fulfillment"
	MethodHybrid           = "hybrid"
	MethodEstimated        = "estimated"
	MethodNoData           = "no_data"
)

// Calculation tiers describe how much history backs an estimate.
const (
	Tier12Month = "12_month"
	Tier6Month  = "6_month"
	Tier3Month  = "3_month"
	TierWeekly  = "weekly"
)

// Confidence levels derived from the numeric score.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Factor weights for the multi-factor confidence score.
var confidenceWeights = struct {
	dataPoints, consistency, recency, method, crossValidation float64
}{0.30, 0.25, 0.20, 0.15, 0.10}

func methodReliability(method string) float64 {
	switch method {
	case MethodSnapshotDelta:
		return 0.9
	case MethodOrderFulfillment:
		return 0.85
	case MethodHybrid:
		return 0.95
	case MethodEstimated:
		return 0.3
	}
	return 0.5
}

// ConfidenceScore combines data volume, consistency, recency, and method
// reliability into a 0..1 score.
func ConfidenceScore(dataPoints int, coefficientOfVariation float64, daysSinceLastData int, method string) float64 {
	score := confidenceWeights.dataPoints*scoreDataPoints(dataPoints) +
		confidenceWeights.consistency*scoreConsistency(coefficientOfVariation) +
		confidenceWeights.recency*scoreRecency(daysSinceLastData) +
		confidenceWeights.method*methodReliability(method) +
		confidenceWeights.crossValidation*0.5

	return math.Round(score*100) / 100
}

func scoreDataPoints(n int) float64 {
	switch {
	case n >= 12:
		return 1.0
	case n >= 6:
		return 0.75
	case n >= 3:
		return 0.5
	}
	return 0.25
}

func scoreConsistency(cv float64) float64 {
	switch {
	case cv < 0.2:
		return 1.0
	case cv < 0.5:
		return 0.7
	case cv < 1.0:
		return 0.4
	}
	return 0.2
}

func scoreRecency(days int) float64 {
	switch {
	case days <= 30:
		return 1.0
	case days <= 60:
		return 0.8
	case days <= 90:
		return 0.6
	}
	return 0.4
}

// ConfidenceLevel converts a numeric score into the categorical level shown
// next to usage figures.
func ConfidenceLevel(score float64) string {
	switch {
	case score >= 0.75:
		return ConfidenceHigh
	case score >= 0.50:
		return ConfidenceMedium
	}
	return ConfidenceLow
}

// CalculationTier describes the history depth behind an estimate.
func CalculationTier(dataMonths int) string {
	switch {
	case dataMonths >= 12:
		return Tier12Month
	case dataMonths >= 6:
		return Tier6Month
	case dataMonths >= 3:
		return Tier3Month
	}
	return TierWeekly
}
