// internal/engine/reorder.go
package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/nolanv/stocklens/internal/domain"
)

// ReorderInputs carries everything the suggestion engine needs for one
// product. All quantities are in units unless named otherwise.
type ReorderInputs struct {
	CurrentStockUnits float64
	MonthlyUsageUnits float64
	PackSize          int
	OrderMultiple     int
	LeadTime          domain.LeadTimeBreakdown
	SafetyStockWeeks  int
	Now               time.Time
}

// Suggest computes the reorder suggestion for a product.
//
// Quantity: daily usage = monthly / 30.44; lead-time demand = daily x lead
// days; safety stock = daily x 7 x safety weeks; suggested = max(0, demand +
// safety - current stock), rounded up to whole packs and then to the order
// multiple.
//
// Urgency: daysUntilStockout <= leadDays is critical, <= leadDays x
// SoonWindowFactor is soon, beyond that planned. Unknown usage yields
// planned with an explanatory reason, never an error.
func Suggest(in ReorderInputs, cfg Config) domain.ReorderSuggestion {
	s := domain.ReorderSuggestion{
		Urgency:        domain.UrgencyPlanned,
		LeadTimeDays:   in.LeadTime.TotalDays,
		LeadTimeSource: in.LeadTime.Source,
	}

	if in.MonthlyUsageUnits <= 0 || math.IsNaN(in.MonthlyUsageUnits) {
		s.Reason = "no usage recorded; unable to project stockout"
		return s
	}

	packSize := in.PackSize
	if packSize <= 0 {
		packSize = 1
	}

	safetyWeeks := in.SafetyStockWeeks
	if safetyWeeks <= 0 {
		safetyWeeks = cfg.SafetyStockWeeks
	}

	// 1. Demand during the resolved lead time
	dailyUsage := in.MonthlyUsageUnits / daysPerMonth
	leadTimeDemand := dailyUsage * float64(in.LeadTime.TotalDays)

	// 2. Safety stock buffer
	safetyStock := dailyUsage * 7 * float64(safetyWeeks)

	// 3. Reorder point and suggested quantity
	reorderPoint := leadTimeDemand + safetyStock
	suggested := math.Max(0, reorderPoint-in.CurrentStockUnits)

	// 4. Round up to whole packs, then to the order multiple
	suggestedPacks := int(math.Ceil(suggested / float64(packSize)))
	if in.OrderMultiple > 0 && suggestedPacks > 0 {
		m := float64(in.OrderMultiple)
		suggestedPacks = int(math.Ceil(float64(suggestedPacks)/m) * m)
	}

	s.SuggestedOrderPacks = suggestedPacks
	s.SuggestedOrderUnits = suggestedPacks * packSize
	s.ReorderPointPacks = int(math.Ceil(reorderPoint / float64(packSize)))
	s.SafetyStockPacks = int(math.Ceil(safetyStock / float64(packSize)))
	s.LeadTimeDemandPacks = int(math.Ceil(leadTimeDemand / float64(packSize)))

	// 5. Stockout projection and urgency
	days := int(in.CurrentStockUnits / dailyUsage)
	s.DaysUntilStockout = &days

	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}
	stockout := now.AddDate(0, 0, days)
	s.EstimatedStockoutDate = &stockout

	factor := cfg.SoonWindowFactor
	if factor <= 1 {
		factor = 1.5
	}
	soonWindow := int(math.Ceil(float64(in.LeadTime.TotalDays) * factor))

	switch {
	case days <= in.LeadTime.TotalDays:
		s.Urgency = domain.UrgencyCritical
		s.Reason = fmt.Sprintf("projected stockout in %d days is inside the %d-day lead time", days, in.LeadTime.TotalDays)
	case days <= soonWindow:
		s.Urgency = domain.UrgencySoon
		s.Reason = fmt.Sprintf("projected stockout in %d days; order within %d days to stay ahead of the %d-day lead time", days, days-in.LeadTime.TotalDays, in.LeadTime.TotalDays)
	default:
		s.Urgency = domain.UrgencyPlanned
		s.Reason = fmt.Sprintf("projected stockout in %d days leaves slack beyond the %d-day lead time", days, in.LeadTime.TotalDays)
	}

	return s
}

// OrderByDate returns the latest date an order can be placed without running
// out: stockout date minus total lead days.
func OrderByDate(stockout time.Time, leadTimeDays int) time.Time {
	return stockout.AddDate(0, 0, -leadTimeDays)
}
