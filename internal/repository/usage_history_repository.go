// internal/repository/usage_history_repository.go
package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/nolanv/stocklens/internal/domain"
)

type UsageHistoryRepository interface {
	MonthlyOrders(ctx context.Context, productID string, months int) ([]domain.MonthlyOrders, error)
	Snapshots(ctx context.Context, productID string, since time.Time) ([]domain.StockSnapshot, error)
	InsertSnapshots(ctx context.Context, snapshots []domain.StockSnapshot) (int, error)
}

type usageHistoryRepository struct {
	db *sqlx.DB
}

func NewUsageHistoryRepository(db *sqlx.DB) UsageHistoryRepository {
	return &usageHistoryRepository{db: db}
}

// MonthlyOrders aggregates completed orders into calendar-month buckets,
// oldest first, for the order-fulfillment usage method.
func (r *usageHistoryRepository) MonthlyOrders(ctx context.Context, productID string, months int) ([]domain.MonthlyOrders, error) {
	if months <= 0 {
		months = 12
	}

	query := `
        SELECT
            date_trunc('month', date_submitted) AS month,
            COALESCE(SUM(quantity_units), 0) AS total_units,
            COALESCE(SUM(quantity_packs), 0) AS total_packs,
            COUNT(*) AS order_count
        FROM order_history
        WHERE product_id = $1
          AND order_status = 'completed'
          AND date_submitted >= date_trunc('month', NOW()) - ($2 || ' months')::interval
        GROUP BY date_trunc('month', date_submitted)
        ORDER BY month
    `

	var rows []domain.MonthlyOrders
	if err := r.db.SelectContext(ctx, &rows, query, productID, months); err != nil {
		return nil, fmt.Errorf("error getting monthly orders for product %s: %w", productID, err)
	}

	return rows, nil
}

func (r *usageHistoryRepository) Snapshots(ctx context.Context, productID string, since time.Time) ([]domain.StockSnapshot, error) {
	query := `
        SELECT id, product_id, recorded_at, packs_available, total_units, source
        FROM stock_snapshots
        WHERE product_id = $1 AND recorded_at >= $2
        ORDER BY recorded_at
    `

	var snaps []domain.StockSnapshot
	if err := r.db.SelectContext(ctx, &snaps, query, productID, since); err != nil {
		return nil, fmt.Errorf("error getting snapshots for product %s: %w", productID, err)
	}

	return snaps, nil
}

// InsertSnapshots bulk-inserts a batch of snapshot readings. Duplicate
// (product_id, recorded_at, source) rows are skipped so imports are
// re-runnable.
func (r *usageHistoryRepository) InsertSnapshots(ctx context.Context, snapshots []domain.StockSnapshot) (int, error) {
	if len(snapshots) == 0 {
		return 0, nil
	}

	var sb strings.Builder
	sb.WriteString(`
        INSERT INTO stock_snapshots (id, product_id, recorded_at, packs_available, total_units, source)
        VALUES `)

	args := make([]interface{}, 0, len(snapshots)*6)
	for i, s := range snapshots {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 6
		sb.WriteString(fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6))
		args = append(args, s.ID, s.ProductID, s.RecordedAt, s.PacksAvailable, s.TotalUnits, s.Source)
	}
	sb.WriteString(" ON CONFLICT (product_id, recorded_at, source) DO NOTHING")

	res, err := r.db.ExecContext(ctx, sb.String(), args...)
	if err != nil {
		return 0, fmt.Errorf("error inserting snapshots: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error counting inserted snapshots: %w", err)
	}

	return int(inserted), nil
}
