package engine

import (
	"testing"
	"time"

	"github.com/nolanv/stocklens/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leadTime(days int) domain.LeadTimeBreakdown {
	return domain.LeadTimeBreakdown{TotalDays: days, Source: domain.SourceDefault}
}

func TestSuggest_NoUsageIsPlannedNotError(t *testing.T) {
	s := Suggest(ReorderInputs{
		CurrentStockUnits: 100,
		MonthlyUsageUnits: 0,
		PackSize:          10,
		LeadTime:          leadTime(14),
	}, DefaultConfig())

	assert.Equal(t, domain.UrgencyPlanned, s.Urgency)
	assert.Nil(t, s.EstimatedStockoutDate)
	assert.Nil(t, s.DaysUntilStockout)
	assert.Zero(t, s.SuggestedOrderPacks)
	assert.Contains(t, s.Reason, "no usage")
}

func TestSuggest_UrgencyBands(t *testing.T) {
	cfg := DefaultConfig() // soon window factor 1.5
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	// daily usage = 304.4/30.44 = 10/day
	base := ReorderInputs{
		MonthlyUsageUnits: 304.4,
		PackSize:          1,
		LeadTime:          leadTime(10),
		SafetyStockWeeks:  1,
		Now:               now,
	}

	tests := []struct {
		name  string
		stock float64
		want  domain.Urgency
		days  int
	}{
		{"stockout inside lead time is critical", 80, domain.UrgencyCritical, 8},
		{"stockout at lead time boundary is critical", 100, domain.UrgencyCritical, 10},
		{"stockout inside soon window", 140, domain.UrgencySoon, 14},
		{"stockout at soon boundary", 150, domain.UrgencySoon, 15},
		{"stockout beyond soon window is planned", 200, domain.UrgencyPlanned, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			in.CurrentStockUnits = tt.stock
			s := Suggest(in, cfg)
			assert.Equal(t, tt.want, s.Urgency)
			require.NotNil(t, s.DaysUntilStockout)
			assert.Equal(t, tt.days, *s.DaysUntilStockout)
			require.NotNil(t, s.EstimatedStockoutDate)
			assert.Equal(t, now.AddDate(0, 0, tt.days), *s.EstimatedStockoutDate)
			assert.NotEmpty(t, s.Reason)
		})
	}
}

func TestSuggest_SoonWindowFactorSweep(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	in := ReorderInputs{
		CurrentStockUnits: 180, // 18 days at 10/day
		MonthlyUsageUnits: 304.4,
		PackSize:          1,
		LeadTime:          leadTime(10),
		SafetyStockWeeks:  1,
		Now:               now,
	}

	for factor, want := range map[float64]domain.Urgency{
		1.2: domain.UrgencyPlanned, // window 12 days
		1.8: domain.UrgencySoon,    // window 18 days
		2.5: domain.UrgencySoon,    // window 25 days
	} {
		cfg := DefaultConfig()
		cfg.SoonWindowFactor = factor
		assert.Equal(t, want, Suggest(in, cfg).Urgency, "factor=%v", factor)
	}
}

func TestSuggest_Quantity(t *testing.T) {
	// daily = 10; lead demand = 10*10 = 100; safety = 10*7*2 = 140;
	// reorder point = 240; stock 40 => shortfall 200 => 20 packs of 10.
	s := Suggest(ReorderInputs{
		CurrentStockUnits: 40,
		MonthlyUsageUnits: 304.4,
		PackSize:          10,
		LeadTime:          leadTime(10),
		SafetyStockWeeks:  2,
		Now:               time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}, DefaultConfig())

	assert.Equal(t, 20, s.SuggestedOrderPacks)
	assert.Equal(t, 200, s.SuggestedOrderUnits)
	assert.Equal(t, 24, s.ReorderPointPacks)
	assert.Equal(t, 14, s.SafetyStockPacks)
	assert.Equal(t, 10, s.LeadTimeDemandPacks)
}

func TestSuggest_OrderMultipleRounding(t *testing.T) {
	// Shortfall of 200 units = 20 packs, but orders ship in dozens.
	s := Suggest(ReorderInputs{
		CurrentStockUnits: 40,
		MonthlyUsageUnits: 304.4,
		PackSize:          10,
		OrderMultiple:     12,
		LeadTime:          leadTime(10),
		SafetyStockWeeks:  2,
	}, DefaultConfig())

	assert.Equal(t, 24, s.SuggestedOrderPacks)
}

func TestSuggest_WellStockedSuggestsNothing(t *testing.T) {
	s := Suggest(ReorderInputs{
		CurrentStockUnits: 10000,
		MonthlyUsageUnits: 304.4,
		PackSize:          10,
		LeadTime:          leadTime(10),
		SafetyStockWeeks:  2,
	}, DefaultConfig())

	assert.Zero(t, s.SuggestedOrderPacks)
	assert.Equal(t, domain.UrgencyPlanned, s.Urgency)
}

func TestOrderByDate(t *testing.T) {
	stockout := time.Date(2026, 4, 20, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 4, 5, 0, 0, 0, 0, time.UTC), OrderByDate(stockout, 15))
}
