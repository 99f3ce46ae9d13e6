package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nolanv/stocklens/internal/domain"
	"github.com/nolanv/stocklens/internal/service"
)

type AnalyticsHandler struct {
	service *service.AnalyticsService
}

func NewAnalyticsHandler(service *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

func (h *AnalyticsHandler) parseFilter(c *gin.Context) (domain.SuggestionFilter, bool) {
	filter := domain.SuggestionFilter{
		Page:     1,
		PageSize: 50,
	}

	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && page > 0 {
		filter.Page = page
	}

	if size, err := strconv.Atoi(c.DefaultQuery("page_size", "50")); err == nil && size > 0 {
		filter.PageSize = size
	}

	filter.ClientID = strings.TrimSpace(c.Query("client_id"))
	filter.Search = strings.TrimSpace(c.Query("search"))

	if raw := strings.TrimSpace(c.Query("urgency")); raw != "" {
		urgency, ok := domain.ParseUrgency(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid urgency: " + raw})
			return filter, false
		}
		filter.Urgency = string(urgency)
	}

	if raw := strings.TrimSpace(c.Query("level")); raw != "" {
		level, ok := domain.ParseStockLevel(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid level: " + raw})
			return filter, false
		}
		filter.Level = string(level)
	}

	return filter, true
}

func (h *AnalyticsHandler) GetSuggestions(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}

	page, err := h.service.GetSuggestions(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch reorder suggestions", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *AnalyticsHandler) GetStatusItems(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}

	items, total, err := h.service.GetStatusItems(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch stock status", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": total,
	})
}

func (h *AnalyticsHandler) GetStatusSummary(c *gin.Context) {
	clientID := strings.TrimSpace(c.Query("client_id"))

	summary, err := h.service.GetStatusSummary(c.Request.Context(), clientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch status summary", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
