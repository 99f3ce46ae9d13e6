package service

import (
	"context"
	"testing"
	"time"

	"github.com/nolanv/stocklens/internal/cache"
	"github.com/nolanv/stocklens/internal/domain"
	"github.com/nolanv/stocklens/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderTimingService(products *fakeProductRepo, timing *fakeTimingRepo) *OrderTimingService {
	return NewOrderTimingService(nil, products, timing, cache.NewNoopSuggestionCache(), engine.DefaultConfig())
}

func TestDeadlines_IncludesOnlyNearOrderByDates(t *testing.T) {
	// 10 units/day: p-near runs out in 20 days, order-by in 6 days; p-far
	// runs out in 300 days, order-by in 286 days.
	products := &fakeProductRepo{products: []domain.Product{
		testProduct("p-near", "c-1", 200, 304.4),
		testProduct("p-far", "c-1", 3000, 304.4),
	}}
	svc := newOrderTimingService(products, &fakeTimingRepo{})

	deadlines, err := svc.Deadlines(context.Background(), "c-1", 14)
	require.NoError(t, err)
	require.Len(t, deadlines, 1)

	d := deadlines[0]
	assert.Equal(t, "p-near", d.ProductID)
	assert.Equal(t, 14, d.LeadTimeDays)
	assert.InDelta(t, 6, d.DaysUntilDeadline, 1)
	assert.True(t, d.OrderByDate.Before(d.StockoutDate))
}

func TestDeadlines_DefaultWindowFromAlertSettings(t *testing.T) {
	products := &fakeProductRepo{products: []domain.Product{
		testProduct("p-1", "c-1", 200, 304.4), // order-by in ~6 days
	}}
	timing := &fakeTimingRepo{settings: &domain.OrderSettings{
		ClientID:                "c-1",
		SupplierLeadDays:        7,
		ShippingLeadDays:        3,
		ProcessingLeadDays:      2,
		SafetyBufferDays:        2,
		SafetyStockWeeks:        2,
		AlertDaysBeforeDeadline: []int{3, 7, 30},
	}}
	svc := newOrderTimingService(products, timing)

	// withinDays 0 takes the widest alert window (30 days).
	deadlines, err := svc.Deadlines(context.Background(), "c-1", 0)
	require.NoError(t, err)
	assert.Len(t, deadlines, 1)
}

func TestDeadlines_SkipsProductsWithoutUsage(t *testing.T) {
	p := testProduct("p-1", "c-1", 200, 0)
	p.MonthlyUsageUnits = nil
	products := &fakeProductRepo{products: []domain.Product{p}}
	svc := newOrderTimingService(products, &fakeTimingRepo{})

	deadlines, err := svc.Deadlines(context.Background(), "c-1", 30)
	require.NoError(t, err)
	assert.Empty(t, deadlines)
}

func TestGetDefaults_FallsBackToEngineDefaults(t *testing.T) {
	timing := &fakeTimingRepo{client: &domain.Client{ID: "c-1", Name: "Client", IsActive: true}}
	svc := newOrderTimingService(&fakeProductRepo{}, timing)

	settings, err := svc.GetDefaults(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, 14, settings.SupplierLeadDays)
	assert.Equal(t, 2, settings.SafetyStockWeeks)
}

func TestGetDefaults_UnknownClient(t *testing.T) {
	svc := newOrderTimingService(&fakeProductRepo{}, &fakeTimingRepo{})

	_, err := svc.GetDefaults(context.Background(), "missing")
	assert.Error(t, err)
}

func TestDeadlines_OrderByDateMath(t *testing.T) {
	stockout := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	orderBy := engine.OrderByDate(stockout, 14)
	assert.Equal(t, time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC), orderBy)
}
