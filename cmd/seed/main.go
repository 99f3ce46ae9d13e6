package main

import (
	"context"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/nolanv/stocklens/internal/cache"
	"github.com/nolanv/stocklens/internal/config"
	"github.com/nolanv/stocklens/internal/engine"
	"github.com/nolanv/stocklens/internal/importer"
	"github.com/nolanv/stocklens/internal/repository"
	"github.com/nolanv/stocklens/internal/service"
	"github.com/nolanv/stocklens/internal/storage"
)

type ctxKey string

const dbKey ctxKey = "db"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func initDB(c *cli.Context) error {
	db, err := sqlx.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey).(*sqlx.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFrom(c *cli.Context) *sqlx.DB {
	return c.Context.Value(dbKey).(*sqlx.DB)
}

func engineConfig() engine.Config {
	cfg := config.Load()
	return engine.Config{
		DefaultLeadDays:  cfg.Engine.DefaultLeadDays,
		SafetyStockWeeks: cfg.Engine.SafetyStockWeeks,
		SoonWindowFactor: cfg.Engine.SoonWindowFactor,
		OverstockWeeks:   cfg.Engine.OverstockWeeks,
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Seed and maintain stocklens data",
		Commands: []*cli.Command{
			{
				Name:  "master",
				Usage: "Seed master data (clients, order settings, products) from CSV",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "data-dir",
						Usage:   "Directory containing master seed data",
						Value:   "./data/seeds/master_data",
						EnvVars: []string{"SEED_DATA_DIR"},
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: seedMaster,
			},
			{
				Name:  "snapshots",
				Usage: "Import stock snapshot CSVs from a local directory or object storage",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "dir",
						Usage:   "Directory containing snapshot CSV files",
						Value:   "./data/seeds/snapshots",
						EnvVars: []string{"SNAPSHOTS_DIR"},
					},
					&cli.BoolFlag{
						Name:  "from-storage",
						Usage: "Download snapshot CSVs from object storage before importing",
					},
					&cli.StringFlag{
						Name:  "prefix",
						Usage: "Object storage prefix to import",
						Value: "stock_snapshots/",
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: importSnapshots,
			},
			{
				Name:  "usage",
				Usage: "Recompute stored usage figures for a client's products",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:     "client-id",
						Usage:    "Client whose products to recompute",
						Required: true,
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: recomputeUsage,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func importSnapshots(c *cli.Context) error {
	cfg := config.Load()
	db := dbFrom(c)
	history := repository.NewUsageHistoryRepository(db)

	var store storage.ObjectStorage
	if c.Bool("from-storage") {
		client, err := storage.NewMinioClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("storage client: %w", err)
		}
		store = client
	}

	imp := importer.New(history, store, cfg.Engine.ImportWorkerCount, cfg.App.DataDir)

	var (
		result importer.Result
		err    error
	)
	if c.Bool("from-storage") {
		result, err = imp.ImportFromStorage(c.Context, c.String("prefix"))
	} else {
		result, err = imp.ImportDir(c.Context, c.String("dir"))
	}
	if err != nil {
		return err
	}

	log.Printf("snapshot import: %d files (%d failed), %d rows parsed, %d inserted",
		result.Files, result.Failed, result.Rows, result.Inserted)
	if result.Failed > 0 {
		return fmt.Errorf("%d snapshot files failed to import", result.Failed)
	}
	return nil
}

func recomputeUsage(c *cli.Context) error {
	db := dbFrom(c)

	svc := service.NewAnalyticsService(
		repository.NewProductRepository(db),
		repository.NewUsageHistoryRepository(db),
		repository.NewOrderTimingRepository(db),
		cache.NewNoopSuggestionCache(),
		engineConfig(),
	)

	updated, err := svc.RecomputeUsage(c.Context, c.String("client-id"))
	if err != nil {
		return err
	}

	log.Printf("usage recompute: %d products updated", updated)
	return nil
}
