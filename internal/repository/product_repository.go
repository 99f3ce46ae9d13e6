// internal/repository/product_repository.go
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/nolanv/stocklens/internal/domain"
)

type ProductRepository interface {
	ListProducts(ctx context.Context, filter domain.SuggestionFilter) ([]domain.Product, int, error)
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
	UpdateLeadTime(ctx context.Context, tx *sql.Tx, productID string, update domain.LeadTimeUpdate) error
	UpdateUsage(ctx context.Context, productID string, update domain.UsageUpdate) error
}

type productRepository struct {
	db *sqlx.DB
}

func NewProductRepository(db *sqlx.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `
	id, client_id, product_code, name, pack_size,
	current_stock_packs, current_stock_units, reorder_point_packs, order_multiple,
	unit_cost, unit_price, holding_cost_rate, reorder_cost,
	monthly_usage_units, monthly_usage_packs, usage_confidence, usage_tier,
	usage_method, usage_trend, usage_data_months, usage_last_calculated,
	supplier_lead_days, shipping_lead_days, processing_lead_days, safety_buffer_days,
	lead_time_origin, use_default_lead_times,
	is_active, created_at, updated_at
`

func (r *productRepository) ListProducts(ctx context.Context, filter domain.SuggestionFilter) ([]domain.Product, int, error) {
	countQuery := `
        SELECT COUNT(*)
        FROM products
        WHERE is_active = true
    `

	query := `
        SELECT ` + productColumns + `
        FROM products
        WHERE is_active = true
    `

	var args []interface{}
	var conditions []string
	argCounter := 1

	if filter.ClientID != "" {
		conditions = append(conditions, fmt.Sprintf("client_id = $%d", argCounter))
		args = append(args, filter.ClientID)
		argCounter++
	}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR product_code ILIKE $%d)", argCounter, argCounter))
		args = append(args, "%"+filter.Search+"%")
		argCounter++
	}

	if len(conditions) > 0 {
		whereClause := " AND " + strings.Join(conditions, " AND ")
		query += whereClause
		countQuery += whereClause
	}

	// Get total count
	var total int
	err := r.db.GetContext(ctx, &total, countQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting products: %w", err)
	}

	query += " ORDER BY product_code"

	// Add pagination
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		offset := (page - 1) * filter.PageSize
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCounter, argCounter+1)
		args = append(args, filter.PageSize, offset)
	}

	var products []domain.Product
	err = r.db.SelectContext(ctx, &products, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error getting products: %w", err)
	}

	return products, total, nil
}

func (r *productRepository) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	query := `
        SELECT ` + productColumns + `
        FROM products
        WHERE id = $1
    `

	var p domain.Product
	if err := r.db.GetContext(ctx, &p, query, productID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting product %s: %w", productID, err)
	}

	return &p, nil
}

// UpdateLeadTime persists a product's lead-time overrides. It runs inside the
// caller's transaction so the settings read and the write stay consistent.
func (r *productRepository) UpdateLeadTime(ctx context.Context, tx *sql.Tx, productID string, update domain.LeadTimeUpdate) error {
	query := `
        UPDATE products
        SET supplier_lead_days = $1,
            shipping_lead_days = $2,
            processing_lead_days = $3,
            safety_buffer_days = $4,
            use_default_lead_times = $5,
            lead_time_origin = $6,
            updated_at = NOW()
        WHERE id = $7
    `

	res, err := tx.ExecContext(ctx, query,
		update.SupplierLeadDays,
		update.ShippingLeadDays,
		update.ProcessingLeadDays,
		update.SafetyBufferDays,
		update.UseDefaults,
		update.Origin,
		productID,
	)
	if err != nil {
		return fmt.Errorf("error updating lead time for product %s: %w", productID, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking lead time update for product %s: %w", productID, err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *productRepository) UpdateUsage(ctx context.Context, productID string, update domain.UsageUpdate) error {
	query := `
        UPDATE products
        SET monthly_usage_units = $1,
            monthly_usage_packs = $2,
            usage_confidence = $3,
            usage_tier = $4,
            usage_method = $5,
            usage_trend = $6,
            usage_data_months = $7,
            usage_last_calculated = $8,
            updated_at = NOW()
        WHERE id = $9
    `

	if _, err := r.db.ExecContext(ctx, query,
		update.MonthlyUsageUnits,
		update.MonthlyUsagePacks,
		update.Confidence,
		update.Tier,
		update.Method,
		update.Trend,
		update.DataMonths,
		update.CalculatedAt,
		productID,
	); err != nil {
		return fmt.Errorf("error updating usage for product %s: %w", productID, err)
	}

	return nil
}
