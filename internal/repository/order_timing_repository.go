// internal/repository/order_timing_repository.go
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/nolanv/stocklens/internal/domain"
)

type OrderTimingRepository interface {
	GetSettings(ctx context.Context, clientID string) (*domain.OrderSettings, error)
	UpsertSettings(ctx context.Context, tx *sql.Tx, settings domain.OrderSettings) error
	GetClient(ctx context.Context, clientID string) (*domain.Client, error)
}

type orderTimingRepository struct {
	db *sqlx.DB
}

func NewOrderTimingRepository(db *sqlx.DB) OrderTimingRepository {
	return &orderTimingRepository{db: db}
}

func (r *orderTimingRepository) GetSettings(ctx context.Context, clientID string) (*domain.OrderSettings, error) {
	query := `
        SELECT client_id, supplier_lead_days, shipping_lead_days,
               processing_lead_days, safety_buffer_days, safety_stock_weeks,
               alert_days_before_deadline, updated_at
        FROM client_order_settings
        WHERE client_id = $1
    `

	var s domain.OrderSettings
	var alertDays pq.Int64Array
	err := r.db.QueryRowxContext(ctx, query, clientID).Scan(
		&s.ClientID,
		&s.SupplierLeadDays,
		&s.ShippingLeadDays,
		&s.ProcessingLeadDays,
		&s.SafetyBufferDays,
		&s.SafetyStockWeeks,
		&alertDays,
		&s.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting order settings for client %s: %w", clientID, err)
	}

	s.AlertDaysBeforeDeadline = make([]int, len(alertDays))
	for i, d := range alertDays {
		s.AlertDaysBeforeDeadline[i] = int(d)
	}

	return &s, nil
}

func (r *orderTimingRepository) UpsertSettings(ctx context.Context, tx *sql.Tx, settings domain.OrderSettings) error {
	query := `
        INSERT INTO client_order_settings (
            client_id, supplier_lead_days, shipping_lead_days,
            processing_lead_days, safety_buffer_days, safety_stock_weeks,
            alert_days_before_deadline, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
        ON CONFLICT (client_id) DO UPDATE SET
            supplier_lead_days = EXCLUDED.supplier_lead_days,
            shipping_lead_days = EXCLUDED.shipping_lead_days,
            processing_lead_days = EXCLUDED.processing_lead_days,
            safety_buffer_days = EXCLUDED.safety_buffer_days,
            safety_stock_weeks = EXCLUDED.safety_stock_weeks,
            alert_days_before_deadline = EXCLUDED.alert_days_before_deadline,
            updated_at = NOW()
    `

	alertDays := make(pq.Int64Array, len(settings.AlertDaysBeforeDeadline))
	for i, d := range settings.AlertDaysBeforeDeadline {
		alertDays[i] = int64(d)
	}

	if _, err := tx.ExecContext(ctx, query,
		settings.ClientID,
		settings.SupplierLeadDays,
		settings.ShippingLeadDays,
		settings.ProcessingLeadDays,
		settings.SafetyBufferDays,
		settings.SafetyStockWeeks,
		alertDays,
	); err != nil {
		return fmt.Errorf("error upserting order settings for client %s: %w", settings.ClientID, err)
	}

	return nil
}

func (r *orderTimingRepository) GetClient(ctx context.Context, clientID string) (*domain.Client, error) {
	query := `
        SELECT id, name, code, is_active
        FROM clients
        WHERE id = $1
    `

	var c domain.Client
	if err := r.db.GetContext(ctx, &c, query, clientID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting client %s: %w", clientID, err)
	}

	return &c, nil
}
