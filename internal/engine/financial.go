// internal/engine/financial.go
package engine

import "math"

// DefaultHoldingCostRate is the annual holding cost applied when a product
// has no rate of its own (25% is the common industry figure).
const DefaultHoldingCostRate = 0.25

// FinancialMetrics quantifies the money tied up in a product's stock and the
// exposure of a stockout. Nil fields mean the inputs needed were absent.
type FinancialMetrics struct {
	InventoryValue     *float64 `json:"inventory_value"`
	DailyHoldingCost   *float64 `json:"daily_holding_cost"`
	MonthlyHoldingCost *float64 `json:"monthly_holding_cost"`
	AnnualHoldingCost  *float64 `json:"annual_holding_cost"`
	ReorderCost        *float64 `json:"reorder_cost"`
	StockoutRiskCost   *float64 `json:"stockout_risk_cost"`
}

// FinancialInputs carries the cost figures for one product.
type FinancialInputs struct {
	StockUnits        int
	UnitCost          *float64
	UnitPrice         *float64
	HoldingCostRate   *float64
	ReorderCost       *float64
	DaysUntilStockout *int
	DailyUsage        float64
	LeadTimeDays      int
}

// Financials computes the full metric set. Missing unit cost disables the
// value and holding figures; missing unit price disables the stockout risk.
func Financials(in FinancialInputs) FinancialMetrics {
	m := FinancialMetrics{ReorderCost: in.ReorderCost}

	if in.UnitCost != nil && *in.UnitCost > 0 {
		value := round2(float64(in.StockUnits) * *in.UnitCost)
		m.InventoryValue = &value

		rate := DefaultHoldingCostRate
		if in.HoldingCostRate != nil && *in.HoldingCostRate > 0 {
			rate = *in.HoldingCostRate
		}
		annual := float64(in.StockUnits) * *in.UnitCost * rate
		daily := round2(annual / 365)
		monthly := round2(annual / 12)
		annualRounded := round2(annual)
		m.DailyHoldingCost = &daily
		m.MonthlyHoldingCost = &monthly
		m.AnnualHoldingCost = &annualRounded
	}

	if risk := stockoutRiskCost(in); risk != nil {
		m.StockoutRiskCost = risk
	}

	return m
}

// stockoutRiskCost estimates the revenue lost while waiting out the lead
// time after stock runs dry. Zero when the runway clears the lead time.
func stockoutRiskCost(in FinancialInputs) *float64 {
	if in.DaysUntilStockout == nil || in.UnitPrice == nil || *in.UnitPrice <= 0 {
		return nil
	}

	if *in.DaysUntilStockout >= in.LeadTimeDays {
		zero := 0.0
		return &zero
	}

	daysWithoutStock := in.LeadTimeDays - *in.DaysUntilStockout
	lost := round2(in.DailyUsage * float64(daysWithoutStock) * *in.UnitPrice)
	return &lost
}

// EconomicOrderQuantity computes the Wilson EOQ:
// sqrt((2 x annual demand x order cost) / annual holding cost per unit).
// Returns 0 when any input is missing or non-positive.
func EconomicOrderQuantity(annualDemand, orderCost, unitCost float64, holdingCostRate *float64) float64 {
	if annualDemand <= 0 || orderCost <= 0 || unitCost <= 0 {
		return 0
	}

	rate := DefaultHoldingCostRate
	if holdingCostRate != nil && *holdingCostRate > 0 {
		rate = *holdingCostRate
	}

	holdingPerUnit := unitCost * rate
	if holdingPerUnit <= 0 {
		return 0
	}

	return math.Round(math.Sqrt((2 * annualDemand * orderCost) / holdingPerUnit))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
