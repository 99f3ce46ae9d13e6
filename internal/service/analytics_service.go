// internal/service/analytics_service.go
package service

import (
	"context"
	"strings"
	"time"

	"github.com/nolanv/stocklens/internal/cache"
	"github.com/nolanv/stocklens/internal/domain"
	"github.com/nolanv/stocklens/internal/engine"
	"github.com/nolanv/stocklens/internal/repository"
	"github.com/rs/zerolog/log"
)

const (
	// usageMaxAge is how long a stored usage figure stays fresh before a
	// read triggers recalculation from history.
	usageMaxAge = 7 * 24 * time.Hour

	// snapshotLookback bounds how far back the snapshot-delta method reads.
	snapshotLookback = 90 * 24 * time.Hour

	orderHistoryMonths = 12

	recomputeBatchSize = 200
)

type AnalyticsService struct {
	products  repository.ProductRepository
	history   repository.UsageHistoryRepository
	timing    repository.OrderTimingRepository
	cache     cache.SuggestionCache
	engineCfg engine.Config
}

func NewAnalyticsService(
	products repository.ProductRepository,
	history repository.UsageHistoryRepository,
	timing repository.OrderTimingRepository,
	cacheImpl cache.SuggestionCache,
	engineCfg engine.Config,
) *AnalyticsService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopSuggestionCache()
	}
	return &AnalyticsService{
		products:  products,
		history:   history,
		timing:    timing,
		cache:     cacheImpl,
		engineCfg: engineCfg,
	}
}

// GetSuggestions returns one page of reorder suggestions. Urgency filtering
// happens after computation, so paging is applied in memory over the full
// computed set rather than pushed into SQL.
func (s *AnalyticsService) GetSuggestions(ctx context.Context, filter domain.SuggestionFilter) (*domain.SuggestionPage, error) {
	if page, ok, err := s.cache.GetSuggestions(ctx, filter); err == nil && ok {
		return page, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("analytics: cache get suggestions failed")
	}

	unpaged := filter
	unpaged.Page = 0
	unpaged.PageSize = 0
	products, _, err := s.products.ListProducts(ctx, unpaged)
	if err != nil {
		return nil, err
	}

	settings := s.settingsByClient(ctx, products)

	rows := make([]domain.SuggestionRow, 0, len(products))
	for i := range products {
		p := &products[i]
		suggestion, usage := s.suggestFor(ctx, p, settings[p.ClientID])

		if filter.Urgency != "" && !strings.EqualFold(string(suggestion.Urgency), filter.Urgency) {
			continue
		}

		rows = append(rows, domain.SuggestionRow{
			ProductID:             p.ID,
			ProductName:           p.Name,
			CurrentStock:          p.CurrentStockUnits,
			MonthlyUsage:          usage,
			WeeksOfSupply:         engine.WeeksRemaining(float64(p.CurrentStockUnits), usage),
			SuggestedOrderQty:     suggestion.SuggestedOrderUnits,
			Urgency:               suggestion.Urgency,
			Reason:                suggestion.Reason,
			EstimatedStockoutDate: suggestion.EstimatedStockoutDate,
		})
	}

	page := &domain.SuggestionPage{
		Items: pageOf(rows, filter.Page, filter.PageSize),
		Total: len(rows),
	}

	if err := s.cache.SetSuggestions(ctx, filter, page); err != nil {
		log.Warn().Err(err).Msg("analytics: cache set suggestions failed")
	}

	return page, nil
}

// GetStatusItems classifies every matching product and returns one page
func (s *AnalyticsService) GetStatusItems(ctx context.Context, filter domain.SuggestionFilter) ([]domain.StatusRow, int, error) {
	unpaged := filter
	unpaged.Page = 0
	unpaged.PageSize = 0
	products, _, err := s.products.ListProducts(ctx, unpaged)
	if err != nil {
		return nil, 0, err
	}

	rows := make([]domain.StatusRow, 0, len(products))
	for i := range products {
		p := &products[i]
		status := s.classify(ctx, p)

		if filter.Level != "" && !strings.EqualFold(string(status.Level), filter.Level) {
			continue
		}

		rows = append(rows, domain.StatusRow{
			ProductID:             p.ID,
			ProductName:           p.Name,
			CurrentStockPacks:     p.CurrentStockPacks,
			ReorderPointPacks:     p.ReorderPointPacks,
			Level:                 status.Level,
			PercentOfReorderPoint: status.PercentOfReorderPoint,
			WeeksRemaining:        status.WeeksRemaining,
		})
	}

	total := len(rows)
	return pageOf(rows, filter.Page, filter.PageSize), total, nil
}

// GetStatusSummary returns product counts per status level for a client
func (s *AnalyticsService) GetStatusSummary(ctx context.Context, clientID string) ([]domain.LevelCount, error) {
	if summary, ok, err := s.cache.GetSummary(ctx, clientID); err == nil && ok {
		return summary, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("analytics: cache get summary failed")
	}

	products, _, err := s.products.ListProducts(ctx, domain.SuggestionFilter{ClientID: clientID})
	if err != nil {
		return nil, err
	}

	counts := map[domain.StockLevel]int{}
	for i := range products {
		status := s.classify(ctx, &products[i])
		counts[status.Level]++
	}

	summary := make([]domain.LevelCount, 0, len(counts))
	for _, level := range []domain.StockLevel{
		domain.LevelCritical,
		domain.LevelLow,
		domain.LevelWatch,
		domain.LevelHealthy,
		domain.LevelOverstock,
		domain.LevelUnknown,
	} {
		if n, ok := counts[level]; ok {
			summary = append(summary, domain.LevelCount{Level: level, Count: n})
		}
	}

	if err := s.cache.SetSummary(ctx, clientID, summary); err != nil {
		log.Warn().Err(err).Msg("analytics: cache set summary failed")
	}

	return summary, nil
}

// RecomputeUsage recalculates and persists usage figures for every active
// product of a client, in batches. It returns the number of products updated.
func (s *AnalyticsService) RecomputeUsage(ctx context.Context, clientID string) (int, error) {
	settings, err := s.timing.GetSettings(ctx, clientID)
	if err != nil {
		return 0, err
	}

	updated := 0
	for pageNum := 1; ; pageNum++ {
		products, total, err := s.products.ListProducts(ctx, domain.SuggestionFilter{
			ClientID: clientID,
			Page:     pageNum,
			PageSize: recomputeBatchSize,
		})
		if err != nil {
			return updated, err
		}
		if len(products) == 0 {
			break
		}

		for i := range products {
			p := &products[i]
			est, err := s.estimateUsage(ctx, p, settings)
			if err != nil {
				log.Warn().Err(err).Str("product_id", p.ID).Msg("analytics: usage estimate failed")
				continue
			}
			if err := s.persistUsage(ctx, p.ID, est); err != nil {
				log.Warn().Err(err).Str("product_id", p.ID).Msg("analytics: usage persist failed")
				continue
			}
			updated++
		}

		if pageNum*recomputeBatchSize >= total {
			break
		}
	}

	if err := s.cache.InvalidateClient(ctx, clientID); err != nil {
		log.Warn().Err(err).Msg("analytics: cache invalidate failed")
	}

	return updated, nil
}

// suggestFor resolves usage and lead time for a product and runs the
// suggestion engine. It returns the suggestion and the monthly usage in units.
func (s *AnalyticsService) suggestFor(ctx context.Context, p *domain.Product, settings *domain.OrderSettings) (domain.ReorderSuggestion, float64) {
	usage := s.monthlyUsage(ctx, p, settings)
	leadTime := engine.ProductLeadTime(p, settings, s.engineCfg)

	safetyWeeks := s.engineCfg.SafetyStockWeeks
	if settings != nil && settings.SafetyStockWeeks > 0 {
		safetyWeeks = settings.SafetyStockWeeks
	}

	suggestion := engine.Suggest(engine.ReorderInputs{
		CurrentStockUnits: float64(p.CurrentStockUnits),
		MonthlyUsageUnits: usage,
		PackSize:          p.PackSize,
		OrderMultiple:     p.OrderMultiple,
		LeadTime:          leadTime,
		SafetyStockWeeks:  safetyWeeks,
	}, s.engineCfg)

	return suggestion, usage
}

func (s *AnalyticsService) classify(ctx context.Context, p *domain.Product) domain.StockStatus {
	usage := s.monthlyUsage(ctx, p, nil)
	weeks := engine.WeeksRemaining(float64(p.CurrentStockUnits), usage)
	return engine.ClassifyStock(p.CurrentStockPacks, p.ReorderPointPacks, weeks, s.engineCfg)
}

// monthlyUsage returns the product's stored usage when fresh, otherwise
// recalculates from history and persists the result. A failed recalculation
// degrades to zero usage rather than failing the read.
func (s *AnalyticsService) monthlyUsage(ctx context.Context, p *domain.Product, settings *domain.OrderSettings) float64 {
	if p.MonthlyUsageUnits != nil && p.UsageLastCalculated != nil &&
		time.Since(*p.UsageLastCalculated) < usageMaxAge {
		return *p.MonthlyUsageUnits
	}

	est, err := s.estimateUsage(ctx, p, settings)
	if err != nil {
		log.Warn().Err(err).Str("product_id", p.ID).Msg("analytics: usage estimate failed")
		if p.MonthlyUsageUnits != nil {
			return *p.MonthlyUsageUnits
		}
		return 0
	}

	if err := s.persistUsage(ctx, p.ID, est); err != nil {
		log.Warn().Err(err).Str("product_id", p.ID).Msg("analytics: usage persist failed")
	}

	return est.MonthlyUsageUnits
}

func (s *AnalyticsService) estimateUsage(ctx context.Context, p *domain.Product, settings *domain.OrderSettings) (engine.UsageEstimate, error) {
	orders, err := s.history.MonthlyOrders(ctx, p.ID, orderHistoryMonths)
	if err != nil {
		return engine.UsageEstimate{}, err
	}

	snapshots, err := s.history.Snapshots(ctx, p.ID, time.Now().Add(-snapshotLookback))
	if err != nil {
		return engine.UsageEstimate{}, err
	}

	return engine.EstimateUsage(orders, snapshots, p, settings, s.engineCfg, time.Now()), nil
}

func (s *AnalyticsService) persistUsage(ctx context.Context, productID string, est engine.UsageEstimate) error {
	return s.products.UpdateUsage(ctx, productID, domain.UsageUpdate{
		MonthlyUsageUnits: est.MonthlyUsageUnits,
		MonthlyUsagePacks: est.MonthlyUsagePacks,
		Confidence:        est.ConfidenceLevel,
		Tier:              est.Tier,
		Method:            est.Method,
		Trend:             est.Trend,
		DataMonths:        est.DataMonths,
		CalculatedAt:      time.Now(),
	})
}

// settingsByClient loads order settings once per client appearing in the
// product set. Missing settings are cached as nil so the engine falls back to
// its defaults.
func (s *AnalyticsService) settingsByClient(ctx context.Context, products []domain.Product) map[string]*domain.OrderSettings {
	out := map[string]*domain.OrderSettings{}
	for i := range products {
		clientID := products[i].ClientID
		if _, ok := out[clientID]; ok {
			continue
		}
		settings, err := s.timing.GetSettings(ctx, clientID)
		if err != nil {
			log.Warn().Err(err).Str("client_id", clientID).Msg("analytics: load order settings failed")
		}
		out[clientID] = settings
	}
	return out
}

func pageOf[T any](rows []T, page, pageSize int) []T {
	if pageSize <= 0 {
		return rows
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(rows) {
		return []T{}
	}
	end := start + pageSize
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}
