// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/nolanv/stocklens/internal/api/handlers"
	"github.com/nolanv/stocklens/internal/api/middleware"
	"github.com/nolanv/stocklens/internal/service"
)

type Services struct {
	Analytics   *service.AnalyticsService
	OrderTiming *service.OrderTimingService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	apiGroup := router.Group("/api/v1")
	apiGroup.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if services != nil {
		if services.Analytics != nil {
			analyticsHandler := handlers.NewAnalyticsHandler(services.Analytics)
			analyticsGroup := apiGroup.Group("/analytics")
			{
				analyticsGroup.GET("/reorder-suggestions", analyticsHandler.GetSuggestions)
				analyticsGroup.GET("/stock-status", analyticsHandler.GetStatusItems)
				analyticsGroup.GET("/stock-status/summary", analyticsHandler.GetStatusSummary)
			}
		}

		if services.OrderTiming != nil {
			timingHandler := handlers.NewOrderTimingHandler(services.OrderTiming)
			timingGroup := apiGroup.Group("/order-timing")
			{
				timingGroup.PATCH("/product/:productId/lead-time", timingHandler.UpdateProductLeadTime)
				timingGroup.GET("/:clientId/defaults", timingHandler.GetDefaults)
				timingGroup.PUT("/:clientId/defaults", timingHandler.UpdateDefaults)
				timingGroup.GET("/:clientId/deadlines", timingHandler.GetDeadlines)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
