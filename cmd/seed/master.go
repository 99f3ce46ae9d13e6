package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/urfave/cli/v2"
)

// seedMaster loads clients.csv, order_settings.csv and products.csv from the
// data directory. Rows are keyed by client/product code so reruns update in
// place instead of duplicating.
func seedMaster(c *cli.Context) error {
	db := dbFrom(c)
	dataDir := c.String("data-dir")

	clientIDs, err := seedClients(db, filepath.Join(dataDir, "clients.csv"))
	if err != nil {
		return fmt.Errorf("seed clients: %w", err)
	}
	log.Printf("seeded %d clients", len(clientIDs))

	settings, err := seedOrderSettings(db, filepath.Join(dataDir, "order_settings.csv"), clientIDs)
	if err != nil {
		return fmt.Errorf("seed order settings: %w", err)
	}
	log.Printf("seeded %d order settings", settings)

	products, err := seedProducts(db, filepath.Join(dataDir, "products.csv"), clientIDs)
	if err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	log.Printf("seeded %d products", products)

	return nil
}

// seedClients returns a client code -> id map for the other seeders
func seedClients(db *sqlx.DB, path string) (map[string]string, error) {
	rows, err := readCSV(path, []string{"code", "name"})
	if err != nil {
		return nil, err
	}

	ids := make(map[string]string, len(rows))
	for _, row := range rows {
		code := row["code"]
		var id string
		err := db.QueryRow(`
			INSERT INTO clients (id, code, name, is_active)
			VALUES ($1, $2, $3, true)
			ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
		`, uuid.NewString(), code, row["name"]).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("client %s: %w", code, err)
		}
		ids[code] = id
	}
	return ids, nil
}

func seedOrderSettings(db *sqlx.DB, path string, clientIDs map[string]string) (int, error) {
	rows, err := readCSV(path, []string{
		"client_code", "supplier_lead_days", "shipping_lead_days",
		"processing_lead_days", "safety_buffer_days", "safety_stock_weeks",
	})
	if err != nil {
		return 0, err
	}

	count := 0
	for _, row := range rows {
		clientID, ok := clientIDs[row["client_code"]]
		if !ok {
			return count, fmt.Errorf("unknown client code %q", row["client_code"])
		}

		alertDays, err := parseIntList(row["alert_days"])
		if err != nil {
			return count, fmt.Errorf("client %s: invalid alert_days: %w", row["client_code"], err)
		}

		_, err = db.Exec(`
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
		`, clientID,
			mustInt(row["supplier_lead_days"]),
			mustInt(row["shipping_lead_days"]),
			mustInt(row["processing_lead_days"]),
			mustInt(row["safety_buffer_days"]),
			mustInt(row["safety_stock_weeks"]),
			alertDays,
		)
		if err != nil {
			return count, fmt.Errorf("client %s: %w", row["client_code"], err)
		}
		count++
	}
	return count, nil
}

func seedProducts(db *sqlx.DB, path string, clientIDs map[string]string) (int, error) {
	rows, err := readCSV(path, []string{
		"client_code", "product_code", "name", "pack_size",
		"current_stock_packs", "reorder_point_packs",
	})
	if err != nil {
		return 0, err
	}

	count := 0
	for _, row := range rows {
		clientID, ok := clientIDs[row["client_code"]]
		if !ok {
			return count, fmt.Errorf("unknown client code %q", row["client_code"])
		}

		packSize := mustInt(row["pack_size"])
		stockPacks := mustInt(row["current_stock_packs"])
		orderMultiple := 1
		if v := row["order_multiple"]; v != "" {
			orderMultiple = mustInt(v)
		}

		_, err = db.Exec(`
			INSERT INTO products (
				id, client_id, product_code, name, pack_size,
				current_stock_packs, current_stock_units, reorder_point_packs,
				order_multiple, unit_cost, unit_price,
				lead_time_origin, use_default_lead_times, is_active,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 'default', true, true, NOW(), NOW())
			ON CONFLICT (client_id, product_code) DO UPDATE SET
				name = EXCLUDED.name,
				pack_size = EXCLUDED.pack_size,
				current_stock_packs = EXCLUDED.current_stock_packs,
				current_stock_units = EXCLUDED.current_stock_units,
				reorder_point_packs = EXCLUDED.reorder_point_packs,
				order_multiple = EXCLUDED.order_multiple,
				unit_cost = EXCLUDED.unit_cost,
				unit_price = EXCLUDED.unit_price,
				updated_at = NOW()
		`, uuid.NewString(), clientID, row["product_code"], row["name"], packSize,
			stockPacks, stockPacks*packSize, mustInt(row["reorder_point_packs"]),
			orderMultiple, nullFloat(row["unit_cost"]), nullFloat(row["unit_price"]),
		)
		if err != nil {
			return count, fmt.Errorf("product %s: %w", row["product_code"], err)
		}
		count++
	}
	return count, nil
}

// readCSV loads a headered CSV into one map per row, verifying the required
// columns are present.
func readCSV(path string, required []string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	index := map[string]int{}
	for i, name := range header {
		index[name] = i
	}
	for _, name := range required {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", path, name)
		}
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		row := make(map[string]string, len(header))
		for name, i := range index {
			if i < len(record) {
				row[name] = strings.TrimSpace(record[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func mustInt(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}

func nullFloat(s string) interface{} {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return v
}

func parseIntList(s string) (pq.Int64Array, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return pq.Int64Array{}, nil
	}

	parts := strings.Split(s, ";")
	out := make(pq.Int64Array, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
