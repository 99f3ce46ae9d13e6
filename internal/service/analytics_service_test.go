package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/nolanv/stocklens/internal/cache"
	"github.com/nolanv/stocklens/internal/domain"
	"github.com/nolanv/stocklens/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProductRepo struct {
	products     []domain.Product
	usageUpdates map[string]domain.UsageUpdate
}

func (f *fakeProductRepo) ListProducts(ctx context.Context, filter domain.SuggestionFilter) ([]domain.Product, int, error) {
	var matched []domain.Product
	for _, p := range f.products {
		if filter.ClientID != "" && p.ClientID != filter.ClientID {
			continue
		}
		matched = append(matched, p)
	}
	total := len(matched)
	return pageOf(matched, filter.Page, filter.PageSize), total, nil
}

func (f *fakeProductRepo) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	for i := range f.products {
		if f.products[i].ID == productID {
			return &f.products[i], nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) UpdateLeadTime(ctx context.Context, tx *sql.Tx, productID string, update domain.LeadTimeUpdate) error {
	return nil
}

func (f *fakeProductRepo) UpdateUsage(ctx context.Context, productID string, update domain.UsageUpdate) error {
	if f.usageUpdates == nil {
		f.usageUpdates = map[string]domain.UsageUpdate{}
	}
	f.usageUpdates[productID] = update
	return nil
}

type fakeHistoryRepo struct {
	orders    []domain.MonthlyOrders
	snapshots []domain.StockSnapshot
}

func (f *fakeHistoryRepo) MonthlyOrders(ctx context.Context, productID string, months int) ([]domain.MonthlyOrders, error) {
	return f.orders, nil
}

func (f *fakeHistoryRepo) Snapshots(ctx context.Context, productID string, since time.Time) ([]domain.StockSnapshot, error) {
	return f.snapshots, nil
}

func (f *fakeHistoryRepo) InsertSnapshots(ctx context.Context, snapshots []domain.StockSnapshot) (int, error) {
	return len(snapshots), nil
}

type fakeTimingRepo struct {
	settings *domain.OrderSettings
	client   *domain.Client
}

func (f *fakeTimingRepo) GetSettings(ctx context.Context, clientID string) (*domain.OrderSettings, error) {
	return f.settings, nil
}

func (f *fakeTimingRepo) UpsertSettings(ctx context.Context, tx *sql.Tx, settings domain.OrderSettings) error {
	f.settings = &settings
	return nil
}

func (f *fakeTimingRepo) GetClient(ctx context.Context, clientID string) (*domain.Client, error) {
	return f.client, nil
}

func freshUsage(units float64) (*float64, *time.Time) {
	at := time.Now().Add(-time.Hour)
	return &units, &at
}

func testProduct(id, clientID string, stockUnits int, monthlyUsage float64) domain.Product {
	units, at := freshUsage(monthlyUsage)
	return domain.Product{
		ID:                  id,
		ClientID:            clientID,
		Name:                "Product " + id,
		PackSize:            10,
		CurrentStockPacks:   stockUnits / 10,
		CurrentStockUnits:   stockUnits,
		ReorderPointPacks:   20,
		MonthlyUsageUnits:   units,
		UsageLastCalculated: at,
		UseDefaultLeadTimes: true,
		IsActive:            true,
	}
}

func newAnalyticsService(products *fakeProductRepo, history *fakeHistoryRepo, timing *fakeTimingRepo) *AnalyticsService {
	return NewAnalyticsService(products, history, timing, cache.NewNoopSuggestionCache(), engine.DefaultConfig())
}

func TestGetSuggestions_ComputesUrgencyAndQuantity(t *testing.T) {
	// ~304 units/month = 10/day; 50 units lasts 5 days, inside the default
	// 14-day lead time.
	products := &fakeProductRepo{products: []domain.Product{
		testProduct("p-1", "c-1", 50, 304.4),
	}}
	svc := newAnalyticsService(products, &fakeHistoryRepo{}, &fakeTimingRepo{})

	page, err := svc.GetSuggestions(context.Background(), domain.SuggestionFilter{ClientID: "c-1"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	row := page.Items[0]
	assert.Equal(t, domain.UrgencyCritical, row.Urgency)
	assert.Greater(t, row.SuggestedOrderQty, 0)
	assert.NotNil(t, row.EstimatedStockoutDate)
	assert.Equal(t, 1, page.Total)
}

func TestGetSuggestions_FiltersByUrgency(t *testing.T) {
	products := &fakeProductRepo{products: []domain.Product{
		testProduct("p-critical", "c-1", 50, 304.4),   // 5 days of cover
		testProduct("p-planned", "c-1", 3000, 304.4),  // ~295 days of cover
	}}
	svc := newAnalyticsService(products, &fakeHistoryRepo{}, &fakeTimingRepo{})

	page, err := svc.GetSuggestions(context.Background(), domain.SuggestionFilter{
		ClientID: "c-1",
		Urgency:  "critical",
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "p-critical", page.Items[0].ProductID)
	assert.Equal(t, 1, page.Total)
}

func TestGetSuggestions_PagesInMemory(t *testing.T) {
	repo := &fakeProductRepo{}
	for _, id := range []string{"p-1", "p-2", "p-3"} {
		repo.products = append(repo.products, testProduct(id, "c-1", 500, 100))
	}
	svc := newAnalyticsService(repo, &fakeHistoryRepo{}, &fakeTimingRepo{})

	page, err := svc.GetSuggestions(context.Background(), domain.SuggestionFilter{
		ClientID: "c-1",
		Page:     2,
		PageSize: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "p-3", page.Items[0].ProductID)
}

func TestGetSuggestions_StaleUsageRecomputedAndPersisted(t *testing.T) {
	stale := time.Now().Add(-30 * 24 * time.Hour)
	usage := 50.0
	p := testProduct("p-1", "c-1", 500, usage)
	p.MonthlyUsageUnits = &usage
	p.UsageLastCalculated = &stale

	now := time.Now()
	history := &fakeHistoryRepo{orders: []domain.MonthlyOrders{
		{Month: now.AddDate(0, -3, 0), TotalUnits: 200, TotalPacks: 20, OrderCount: 2},
		{Month: now.AddDate(0, -2, 0), TotalUnits: 200, TotalPacks: 20, OrderCount: 2},
		{Month: now.AddDate(0, -1, 0), TotalUnits: 200, TotalPacks: 20, OrderCount: 2},
	}}

	products := &fakeProductRepo{products: []domain.Product{p}}
	svc := newAnalyticsService(products, history, &fakeTimingRepo{})

	page, err := svc.GetSuggestions(context.Background(), domain.SuggestionFilter{ClientID: "c-1"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	// The stale 50/month figure must be replaced by the recomputed 200/month.
	assert.InDelta(t, 200, page.Items[0].MonthlyUsage, 0.001)

	update, ok := products.usageUpdates["p-1"]
	require.True(t, ok, "recomputed usage should be persisted")
	assert.InDelta(t, 200, update.MonthlyUsageUnits, 0.001)
	assert.Equal(t, "order_fulfillment", update.Method)
}

func TestGetSuggestions_FreshUsageNotRecomputed(t *testing.T) {
	products := &fakeProductRepo{products: []domain.Product{
		testProduct("p-1", "c-1", 500, 100),
	}}
	svc := newAnalyticsService(products, &fakeHistoryRepo{}, &fakeTimingRepo{})

	_, err := svc.GetSuggestions(context.Background(), domain.SuggestionFilter{ClientID: "c-1"})
	require.NoError(t, err)
	assert.Empty(t, products.usageUpdates)
}

func TestGetStatusItems_FiltersByLevel(t *testing.T) {
	critical := testProduct("p-critical", "c-1", 50, 100) // 5 of 20 packs = 25%
	healthy := testProduct("p-healthy", "c-1", 400, 100)  // 40 of 20 packs = 200%

	products := &fakeProductRepo{products: []domain.Product{critical, healthy}}
	svc := newAnalyticsService(products, &fakeHistoryRepo{}, &fakeTimingRepo{})

	rows, total, err := svc.GetStatusItems(context.Background(), domain.SuggestionFilter{
		ClientID: "c-1",
		Level:    "critical",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "p-critical", rows[0].ProductID)
	assert.InDelta(t, 25, rows[0].PercentOfReorderPoint, 0.001)
}

func TestGetStatusSummary_CountsByLevel(t *testing.T) {
	products := &fakeProductRepo{products: []domain.Product{
		testProduct("p-1", "c-1", 50, 100),  // critical
		testProduct("p-2", "c-1", 60, 100),  // critical
		testProduct("p-3", "c-1", 400, 100), // healthy
	}}
	svc := newAnalyticsService(products, &fakeHistoryRepo{}, &fakeTimingRepo{})

	summary, err := svc.GetStatusSummary(context.Background(), "c-1")
	require.NoError(t, err)

	counts := map[domain.StockLevel]int{}
	for _, lc := range summary {
		counts[lc.Level] = lc.Count
	}
	assert.Equal(t, 2, counts[domain.LevelCritical])
	assert.Equal(t, 1, counts[domain.LevelHealthy])
}

func TestRecomputeUsage_UpdatesEveryProduct(t *testing.T) {
	now := time.Now()
	history := &fakeHistoryRepo{orders: []domain.MonthlyOrders{
		{Month: now.AddDate(0, -2, 0), TotalUnits: 100, TotalPacks: 10, OrderCount: 1},
		{Month: now.AddDate(0, -1, 0), TotalUnits: 100, TotalPacks: 10, OrderCount: 1},
	}}
	products := &fakeProductRepo{products: []domain.Product{
		testProduct("p-1", "c-1", 500, 50),
		testProduct("p-2", "c-1", 500, 50),
	}}
	svc := newAnalyticsService(products, history, &fakeTimingRepo{})

	updated, err := svc.RecomputeUsage(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, 2, updated)
	assert.Len(t, products.usageUpdates, 2)
}
