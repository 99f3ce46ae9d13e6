// internal/engine/status.go
package engine

import (
	"math"

	"github.com/nolanv/stocklens/internal/domain"
)

const (
	// WeeksUnknown is the sentinel runway value used when usage is zero or
	// unknown. Formatters render it as a dash instead of infinity.
	WeeksUnknown = 999

	// weeksPerMonth converts monthly usage into weekly usage (52/12).
	weeksPerMonth = 4.33

	// daysPerMonth converts monthly usage into daily usage.
	daysPerMonth = 30.44
)

// Config carries the tunable thresholds of the calculation engine. The
// percent-of-reorder-point bands are fixed; only boundaries the backend rule
// engine leaves configurable are parameterized.
type Config struct {
	DefaultLeadDays  int
	SafetyStockWeeks int
	SoonWindowFactor float64
	OverstockWeeks   float64
}

// DefaultConfig matches the platform's shipped defaults.
func DefaultConfig() Config {
	return Config{
		DefaultLeadDays:  14,
		SafetyStockWeeks: 2,
		SoonWindowFactor: 1.5,
		OverstockWeeks:   26,
	}
}

// WeeksRemaining estimates runway in weeks from current stock and monthly
// usage. Zero or unknown usage yields the WeeksUnknown sentinel; zero stock
// with positive usage yields 0.
func WeeksRemaining(currentStockUnits, monthlyUsageUnits float64) float64 {
	if monthlyUsageUnits <= 0 || math.IsNaN(monthlyUsageUnits) {
		return WeeksUnknown
	}
	if currentStockUnits <= 0 {
		return 0
	}

	weeklyUsage := monthlyUsageUnits / weeksPerMonth
	weeks := currentStockUnits / weeklyUsage
	if weeks >= WeeksUnknown {
		return WeeksUnknown
	}

	return math.Round(weeks*100) / 100
}

// ClassifyStock maps current stock and reorder point into a status level and
// percent-of-reorder-point figure.
//
// Percent bands: [0,50) critical, [50,100) low, [100,150) watch, >=150
// healthy. Exactly 50% lands in the less severe band. A healthy product is
// promoted to overstock when its runway meets or exceeds cfg.OverstockWeeks
// (about six months of supply at the default).
//
// A zero reorder point cannot be classified by percent: the result is
// tagged unknown rather than dividing by zero.
func ClassifyStock(currentStockPacks, reorderPointPacks int, weeksRemaining float64, cfg Config) domain.StockStatus {
	status := domain.StockStatus{
		Level:          domain.LevelUnknown,
		WeeksRemaining: weeksRemaining,
	}

	if reorderPointPacks <= 0 || currentStockPacks < 0 {
		return status
	}

	percent := float64(currentStockPacks) / float64(reorderPointPacks) * 100
	status.PercentOfReorderPoint = math.Round(percent*100) / 100

	switch {
	case percent < 50:
		status.Level = domain.LevelCritical
	case percent < 100:
		status.Level = domain.LevelLow
	case percent < 150:
		status.Level = domain.LevelWatch
	default:
		status.Level = domain.LevelHealthy
	}

	// Overstock only outranks a healthy percent band; a product sitting at
	// 40% of its reorder point is critical no matter how slow its usage is.
	if status.Level == domain.LevelHealthy &&
		weeksRemaining != WeeksUnknown &&
		cfg.OverstockWeeks > 0 &&
		weeksRemaining >= cfg.OverstockWeeks {
		status.Level = domain.LevelOverstock
	}

	return status
}
