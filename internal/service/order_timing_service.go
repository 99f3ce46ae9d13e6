// internal/service/order_timing_service.go
package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nolanv/stocklens/internal/cache"
	"github.com/nolanv/stocklens/internal/domain"
	"github.com/nolanv/stocklens/internal/engine"
	"github.com/nolanv/stocklens/internal/repository"
	"github.com/nolanv/stocklens/internal/repository/postgres"
	"github.com/rs/zerolog/log"
)

type OrderTimingService struct {
	db        *postgres.DB
	products  repository.ProductRepository
	timing    repository.OrderTimingRepository
	cache     cache.SuggestionCache
	engineCfg engine.Config
}

func NewOrderTimingService(
	db *postgres.DB,
	products repository.ProductRepository,
	timing repository.OrderTimingRepository,
	cacheImpl cache.SuggestionCache,
	engineCfg engine.Config,
) *OrderTimingService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopSuggestionCache()
	}
	return &OrderTimingService{
		db:        db,
		products:  products,
		timing:    timing,
		cache:     cacheImpl,
		engineCfg: engineCfg,
	}
}

// UpdateProductLeadTime persists a product's lead-time overrides and returns
// the recomputed breakdown. The write and the product lookup share one
// transaction.
func (s *OrderTimingService) UpdateProductLeadTime(ctx context.Context, productID string, update domain.LeadTimeUpdate) (*domain.LeadTimeBreakdown, error) {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, repository.ErrNotFound
	}

	if err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		return s.products.UpdateLeadTime(ctx, tx, productID, update)
	}); err != nil {
		return nil, fmt.Errorf("update lead time: %w", err)
	}

	product.SupplierLeadDays = update.SupplierLeadDays
	product.ShippingLeadDays = update.ShippingLeadDays
	product.ProcessingLeadDays = update.ProcessingLeadDays
	product.SafetyBufferDays = update.SafetyBufferDays
	product.UseDefaultLeadTimes = update.UseDefaults
	product.LeadTimeOrigin = update.Origin

	settings, err := s.timing.GetSettings(ctx, product.ClientID)
	if err != nil {
		return nil, err
	}

	breakdown := engine.ProductLeadTime(product, settings, s.engineCfg)

	if err := s.cache.InvalidateClient(ctx, product.ClientID); err != nil {
		log.Warn().Err(err).Msg("order timing: cache invalidate failed")
	}

	return &breakdown, nil
}

// GetDefaults returns a client's lead-time defaults and alert windows
func (s *OrderTimingService) GetDefaults(ctx context.Context, clientID string) (*domain.OrderSettings, error) {
	client, err := s.timing.GetClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, repository.ErrNotFound
	}

	settings, err := s.timing.GetSettings(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		// No row yet: surface the engine defaults the client is running on.
		settings = &domain.OrderSettings{
			ClientID:         clientID,
			SupplierLeadDays: s.engineCfg.DefaultLeadDays,
			SafetyStockWeeks: s.engineCfg.SafetyStockWeeks,
		}
	}

	return settings, nil
}

// UpdateDefaults replaces a client's lead-time defaults and alert windows
func (s *OrderTimingService) UpdateDefaults(ctx context.Context, settings domain.OrderSettings) error {
	client, err := s.timing.GetClient(ctx, settings.ClientID)
	if err != nil {
		return err
	}
	if client == nil {
		return repository.ErrNotFound
	}

	if err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		return s.timing.UpsertSettings(ctx, tx, settings)
	}); err != nil {
		return fmt.Errorf("update order settings: %w", err)
	}

	if err := s.cache.InvalidateClient(ctx, settings.ClientID); err != nil {
		log.Warn().Err(err).Msg("order timing: cache invalidate failed")
	}

	return nil
}

// Deadlines lists products whose order-by date falls within the window.
// withinDays <= 0 uses the widest of the client's alert windows.
func (s *OrderTimingService) Deadlines(ctx context.Context, clientID string, withinDays int) ([]domain.Deadline, error) {
	settings, err := s.timing.GetSettings(ctx, clientID)
	if err != nil {
		return nil, err
	}

	if withinDays <= 0 {
		withinDays = 14
		if settings != nil {
			for _, d := range settings.AlertDaysBeforeDeadline {
				if d > withinDays {
					withinDays = d
				}
			}
		}
	}

	products, _, err := s.products.ListProducts(ctx, domain.SuggestionFilter{ClientID: clientID})
	if err != nil {
		return nil, err
	}

	safetyWeeks := s.engineCfg.SafetyStockWeeks
	if settings != nil && settings.SafetyStockWeeks > 0 {
		safetyWeeks = settings.SafetyStockWeeks
	}

	now := time.Now()
	var deadlines []domain.Deadline
	for i := range products {
		p := &products[i]

		var usage float64
		if p.MonthlyUsageUnits != nil {
			usage = *p.MonthlyUsageUnits
		}

		leadTime := engine.ProductLeadTime(p, settings, s.engineCfg)
		suggestion := engine.Suggest(engine.ReorderInputs{
			CurrentStockUnits: float64(p.CurrentStockUnits),
			MonthlyUsageUnits: usage,
			PackSize:          p.PackSize,
			OrderMultiple:     p.OrderMultiple,
			LeadTime:          leadTime,
			SafetyStockWeeks:  safetyWeeks,
			Now:               now,
		}, s.engineCfg)

		if suggestion.EstimatedStockoutDate == nil {
			continue
		}

		orderBy := engine.OrderByDate(*suggestion.EstimatedStockoutDate, leadTime.TotalDays)
		daysUntil := int(orderBy.Sub(now).Hours() / 24)
		if daysUntil > withinDays {
			continue
		}

		deadlines = append(deadlines, domain.Deadline{
			ProductID:         p.ID,
			ProductName:       p.Name,
			OrderByDate:       orderBy,
			DaysUntilDeadline: daysUntil,
			StockoutDate:      *suggestion.EstimatedStockoutDate,
			LeadTimeDays:      leadTime.TotalDays,
			Urgency:           suggestion.Urgency,
		})
	}

	return deadlines, nil
}
