// internal/engine/usage.go
package engine

import (
	"math"
	"sort"
	"time"

	"github.com/nolanv/stocklens/internal/domain"
)

// UsageEstimate is the result of a monthly-usage calculation.
type UsageEstimate struct {
	MonthlyUsageUnits float64
	MonthlyUsagePacks float64
	Method            string
	ConfidenceScore   float64
	ConfidenceLevel   string
	DataMonths        int
	Tier              string
	Trend             string
	OutliersDetected  int
	Variance          float64
	CV                float64
	DaysSinceLastData int
}

// EstimateUsage tries the order-fulfillment and snapshot-delta methods,
// combines them when both produce results, and falls back to a
// reorder-point estimate. The best result by confidence score wins.
func EstimateUsage(orders []domain.MonthlyOrders, snapshots []domain.StockSnapshot, p *domain.Product, s *domain.OrderSettings, cfg Config, now time.Time) UsageEstimate {
	orderEst := estimateFromOrders(orders, now)
	snapEst := estimateFromSnapshots(snapshots, p.PackSize, now)
	hybrid := combineEstimates(orderEst, snapEst)
	fallback := estimateFromReorderPoint(p, s, cfg)

	candidates := make([]UsageEstimate, 0, 4)
	for _, e := range []*UsageEstimate{hybrid, orderEst, snapEst, fallback} {
		if e != nil {
			candidates = append(candidates, *e)
		}
	}

	if len(candidates) == 0 {
		return UsageEstimate{
			Method:          MethodNoData,
			ConfidenceLevel: ConfidenceLow,
			Tier:            MethodNoData,
			Trend:           "unknown",
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].ConfidenceScore > candidates[j].ConfidenceScore
	})
	best := candidates[0]

	if len(orders) >= 3 {
		history := make([]float64, len(orders))
		for i, m := range orders {
			history[i] = m.TotalUnits
		}
		best.Trend = UsageTrend(history)
	}

	return best
}

// estimateFromOrders derives monthly usage from completed order history,
// weighting the most recent three months more heavily.
func estimateFromOrders(orders []domain.MonthlyOrders, now time.Time) *UsageEstimate {
	if len(orders) == 0 {
		return nil
	}

	units := make([]float64, len(orders))
	packs := make([]float64, len(orders))
	for i, m := range orders {
		units[i] = m.TotalUnits
		packs[i] = m.TotalPacks
	}

	weights := timeWeights(len(orders))
	avgUnits := weightedAverage(units, weights)
	avgPacks := weightedAverage(packs, weights)

	variance := sampleVariance(units)
	cv := coefficientOfVariation(units)
	daysSinceLast := int(now.Sub(orders[len(orders)-1].Month).Hours() / 24)
	outliers := countOutliersIQR(units)

	score := ConfidenceScore(len(orders), cv, daysSinceLast, MethodOrderFulfillment)

	return &UsageEstimate{
		MonthlyUsageUnits: avgUnits,
		MonthlyUsagePacks: avgPacks,
		Method:            MethodOrderFulfillment,
		ConfidenceScore:   score,
		ConfidenceLevel:   ConfidenceLevel(score),
		DataMonths:        len(orders),
		Tier:              CalculationTier(len(orders)),
		Trend:             "unknown",
		OutliersDetected:  outliers,
		Variance:          variance,
		CV:                cv,
		DaysSinceLastData: daysSinceLast,
	}
}

// estimateFromSnapshots infers consumption from negative deltas between
// consecutive stock snapshots. Unrealistic daily rates (top 5%) are dropped
// before averaging.
func estimateFromSnapshots(snapshots []domain.StockSnapshot, packSize int, now time.Time) *UsageEstimate {
	if len(snapshots) < 2 {
		return nil
	}

	type event struct{ daily float64 }
	var events []event
	for i := 1; i < len(snapshots); i++ {
		delta := float64(snapshots[i].TotalUnits - snapshots[i-1].TotalUnits)
		days := snapshots[i].RecordedAt.Sub(snapshots[i-1].RecordedAt).Hours() / 24
		if delta >= 0 || days <= 0 {
			continue
		}
		events = append(events, event{daily: -delta / days})
	}
	if len(events) == 0 {
		return nil
	}

	rates := make([]float64, len(events))
	for i, e := range events {
		rates[i] = e.daily
	}
	cutoff := quantile(rates, 0.95)

	var kept []float64
	for _, r := range rates {
		if r > 0 && r <= cutoff {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		return nil
	}

	avgDaily := mean(kept)
	monthlyUnits := avgDaily * daysPerMonth

	if packSize <= 0 {
		packSize = 1
	}
	monthlyPacks := monthlyUnits / float64(packSize)

	monthlyEquivalents := make([]float64, len(kept))
	for i, r := range kept {
		monthlyEquivalents[i] = r * daysPerMonth
	}
	variance := sampleVariance(monthlyEquivalents)
	cv := coefficientOfVariation(monthlyEquivalents)
	outliers := countOutliersIQR(monthlyEquivalents)

	last := snapshots[len(snapshots)-1].RecordedAt
	first := snapshots[0].RecordedAt
	daysSinceLast := int(now.Sub(last).Hours() / 24)
	dataMonths := int(last.Sub(first).Hours() / 24 / daysPerMonth)

	score := ConfidenceScore(len(kept), cv, daysSinceLast, MethodSnapshotDelta)

	return &UsageEstimate{
		MonthlyUsageUnits: monthlyUnits,
		MonthlyUsagePacks: monthlyPacks,
		Method:            MethodSnapshotDelta,
		ConfidenceScore:   score,
		ConfidenceLevel:   ConfidenceLevel(score),
		DataMonths:        dataMonths,
		Tier:              CalculationTier(dataMonths),
		Trend:             "unknown",
		OutliersDetected:  outliers,
		Variance:          variance,
		CV:                cv,
		DaysSinceLastData: daysSinceLast,
	}
}

// combineEstimates blends the two primary methods, weighted by their
// confidence scores. Agreement between independent methods earns a combined
// confidence above either individual score.
func combineEstimates(order, snap *UsageEstimate) *UsageEstimate {
	if order == nil && snap == nil {
		return nil
	}
	if order == nil {
		return snap
	}
	if snap == nil {
		return order
	}

	total := order.ConfidenceScore + snap.ConfidenceScore
	if total == 0 {
		return order
	}

	ow := order.ConfidenceScore / total
	sw := snap.ConfidenceScore / total

	combined := math.Min(total/1.5, 1.0)
	dataMonths := order.DataMonths
	if snap.DataMonths > dataMonths {
		dataMonths = snap.DataMonths
	}
	daysSince := order.DaysSinceLastData
	if snap.DaysSinceLastData < daysSince {
		daysSince = snap.DaysSinceLastData
	}

	return &UsageEstimate{
		MonthlyUsageUnits: order.MonthlyUsageUnits*ow + snap.MonthlyUsageUnits*sw,
		MonthlyUsagePacks: order.MonthlyUsagePacks*ow + snap.MonthlyUsagePacks*sw,
		Method:            MethodHybrid,
		ConfidenceScore:   math.Round(combined*100) / 100,
		ConfidenceLevel:   ConfidenceLevel(combined),
		DataMonths:        dataMonths,
		Tier:              CalculationTier(dataMonths),
		Trend:             "unknown",
		OutliersDetected:  order.OutliersDetected + snap.OutliersDetected,
		Variance:          (order.Variance + snap.Variance) / 2,
		CV:                (order.CV + snap.CV) / 2,
		DaysSinceLastData: daysSince,
	}
}

// estimateFromReorderPoint is the last-resort estimate: assume the reorder
// point covers lead time plus safety stock weeks of usage.
func estimateFromReorderPoint(p *domain.Product, s *domain.OrderSettings, cfg Config) *UsageEstimate {
	if p == nil || p.ReorderPointPacks <= 0 {
		return nil
	}

	leadDays := cfg.DefaultLeadDays
	safetyWeeks := cfg.SafetyStockWeeks
	if s != nil {
		leadDays = s.SupplierLeadDays + s.ShippingLeadDays + s.ProcessingLeadDays + s.SafetyBufferDays
		if s.SafetyStockWeeks > 0 {
			safetyWeeks = s.SafetyStockWeeks
		}
	}

	totalWeeks := float64(leadDays)/7 + float64(safetyWeeks)
	if totalWeeks <= 0 {
		totalWeeks = 3
	}

	weeklyPacks := float64(p.ReorderPointPacks) / totalWeeks
	monthlyPacks := weeklyPacks * weeksPerMonth

	packSize := p.PackSize
	if packSize <= 0 {
		packSize = 1
	}

	return &UsageEstimate{
		MonthlyUsageUnits: monthlyPacks * float64(packSize),
		MonthlyUsagePacks: monthlyPacks,
		Method:            MethodEstimated,
		ConfidenceScore:   0.3,
		ConfidenceLevel:   ConfidenceLow,
		Tier:              MethodEstimated,
		Trend:             "unknown",
	}
}

// UsageTrend classifies monthly history as increasing, stable, or decreasing
// using a least-squares slope. A slope under 5% of the mean counts as
// stable.
func UsageTrend(history []float64) string {
	if len(history) < 3 {
		return "unknown"
	}

	n := float64(len(history))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range history {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return "unknown"
	}
	slope := (n*sumXY - sumX*sumY) / denom
	meanY := sumY / n

	switch {
	case math.Abs(slope) < 0.05*meanY:
		return "stable"
	case slope > 0:
		return "increasing"
	}
	return "decreasing"
}

func timeWeights(n int) []float64 {
	weights := make([]float64, n)
	var sum float64
	for i := range weights {
		weights[i] = 1
		if n >= 3 && i >= n-3 {
			weights[i] = 1.5
		}
		sum += weights[i]
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}

func weightedAverage(values, weights []float64) float64 {
	var total float64
	for i, v := range values {
		total += v * weights[i]
	}
	return total
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func sampleVariance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(values)-1)
}

func coefficientOfVariation(values []float64) float64 {
	m := mean(values)
	if m == 0 {
		return math.Inf(1)
	}
	return math.Sqrt(sampleVariance(values)) / m
}

// quantile returns the q-th quantile using linear interpolation between
// order statistics.
func quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	pos := q * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

func countOutliersIQR(values []float64) int {
	if len(values) < 4 {
		return 0
	}
	q1 := quantile(values, 0.25)
	q3 := quantile(values, 0.75)
	iqr := q3 - q1
	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr

	count := 0
	for _, v := range values {
		if v < lower || v > upper {
			count++
		}
	}
	return count
}
