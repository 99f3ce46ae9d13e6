// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nolanv/stocklens/internal/api"
	"github.com/nolanv/stocklens/internal/cache"
	"github.com/nolanv/stocklens/internal/config"
	"github.com/nolanv/stocklens/internal/engine"
	"github.com/nolanv/stocklens/internal/repository"
	"github.com/nolanv/stocklens/internal/repository/postgres"
	"github.com/nolanv/stocklens/internal/service"
	"github.com/nolanv/stocklens/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize cache
	suggestionCache, err := cache.NewSuggestionCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Cache unavailable, continuing without it")
		suggestionCache = cache.NewNoopSuggestionCache()
	}

	engineCfg := engine.Config{
		DefaultLeadDays:  cfg.Engine.DefaultLeadDays,
		SafetyStockWeeks: cfg.Engine.SafetyStockWeeks,
		SoonWindowFactor: cfg.Engine.SoonWindowFactor,
		OverstockWeeks:   cfg.Engine.OverstockWeeks,
	}

	// Initialize repositories and services
	productRepo := repository.NewProductRepository(db.DB)
	historyRepo := repository.NewUsageHistoryRepository(db.DB)
	timingRepo := repository.NewOrderTimingRepository(db.DB)

	services := &api.Services{
		Analytics:   service.NewAnalyticsService(productRepo, historyRepo, timingRepo, suggestionCache, engineCfg),
		OrderTiming: service.NewOrderTimingService(db, productRepo, timingRepo, suggestionCache, engineCfg),
	}

	// Initialize HTTP server
	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
