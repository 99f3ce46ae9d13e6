package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nolanv/stocklens/internal/domain"
	"github.com/nolanv/stocklens/internal/repository"
	"github.com/nolanv/stocklens/internal/service"
)

type OrderTimingHandler struct {
	service *service.OrderTimingService
}

func NewOrderTimingHandler(service *service.OrderTimingService) *OrderTimingHandler {
	return &OrderTimingHandler{service: service}
}

type leadTimeRequest struct {
	SupplierLeadDays   *int `json:"supplierLeadDays"`
	ShippingLeadDays   *int `json:"shippingLeadDays"`
	ProcessingLeadDays *int `json:"processingLeadDays"`
	SafetyBufferDays   *int `json:"safetyBufferDays"`
	UseDefaults        bool `json:"useDefaults"`
}

type defaultsRequest struct {
	SupplierLeadDays        *int  `json:"supplierLeadDays"`
	ShippingLeadDays        *int  `json:"shippingLeadDays"`
	ProcessingLeadDays      *int  `json:"processingLeadDays"`
	SafetyBufferDays        *int  `json:"safetyBufferDays"`
	SafetyStockWeeks        *int  `json:"safetyStockWeeks"`
	AlertDaysBeforeDeadline []int `json:"alertDaysBeforeDeadline"`
}

// UpdateProductLeadTime handles PATCH /order-timing/product/:productId/lead-time.
// Omitted day counts clear the override for that component.
func (h *OrderTimingHandler) UpdateProductLeadTime(c *gin.Context) {
	productID := strings.TrimSpace(c.Param("productId"))
	if productID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product id is required"})
		return
	}

	var req leadTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	for name, v := range map[string]*int{
		"supplierLeadDays":   req.SupplierLeadDays,
		"shippingLeadDays":   req.ShippingLeadDays,
		"processingLeadDays": req.ProcessingLeadDays,
		"safetyBufferDays":   req.SafetyBufferDays,
	} {
		if v != nil && *v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": name + " must not be negative"})
			return
		}
	}

	update := domain.LeadTimeUpdate{
		SupplierLeadDays:   req.SupplierLeadDays,
		ShippingLeadDays:   req.ShippingLeadDays,
		ProcessingLeadDays: req.ProcessingLeadDays,
		SafetyBufferDays:   req.SafetyBufferDays,
		UseDefaults:        req.UseDefaults,
		Origin:             string(domain.SourceOverride),
	}
	if req.UseDefaults {
		update.Origin = string(domain.SourceDefault)
	}

	breakdown, err := h.service.UpdateProductLeadTime(c.Request.Context(), productID, update)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update lead time", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"leadTime": breakdown})
}

func (h *OrderTimingHandler) GetDefaults(c *gin.Context) {
	clientID := strings.TrimSpace(c.Param("clientId"))

	settings, err := h.service.GetDefaults(c.Request.Context(), clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch defaults", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, settings)
}

// UpdateDefaults handles PUT /order-timing/:clientId/defaults. All four day
// counts are required, unlike the per-product PATCH.
func (h *OrderTimingHandler) UpdateDefaults(c *gin.Context) {
	clientID := strings.TrimSpace(c.Param("clientId"))

	var req defaultsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	for name, v := range map[string]*int{
		"supplierLeadDays":   req.SupplierLeadDays,
		"shippingLeadDays":   req.ShippingLeadDays,
		"processingLeadDays": req.ProcessingLeadDays,
		"safetyBufferDays":   req.SafetyBufferDays,
	} {
		if v == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": name + " is required"})
			return
		}
		if *v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": name + " must not be negative"})
			return
		}
	}

	for _, d := range req.AlertDaysBeforeDeadline {
		if d < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "alertDaysBeforeDeadline must not contain negative values"})
			return
		}
	}

	settings := domain.OrderSettings{
		ClientID:                clientID,
		SupplierLeadDays:        *req.SupplierLeadDays,
		ShippingLeadDays:        *req.ShippingLeadDays,
		ProcessingLeadDays:      *req.ProcessingLeadDays,
		SafetyBufferDays:        *req.SafetyBufferDays,
		AlertDaysBeforeDeadline: req.AlertDaysBeforeDeadline,
	}
	if req.SafetyStockWeeks != nil {
		if *req.SafetyStockWeeks < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "safetyStockWeeks must not be negative"})
			return
		}
		settings.SafetyStockWeeks = *req.SafetyStockWeeks
	}

	if err := h.service.UpdateDefaults(c.Request.Context(), settings); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update defaults", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, settings)
}

func (h *OrderTimingHandler) GetDeadlines(c *gin.Context) {
	clientID := strings.TrimSpace(c.Param("clientId"))

	days := 0
	if raw := strings.TrimSpace(c.Query("days")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a non-negative integer"})
			return
		}
		days = parsed
	}

	deadlines, err := h.service.Deadlines(c.Request.Context(), clientID, days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch deadlines", "details": err.Error()})
		return
	}
	if deadlines == nil {
		deadlines = []domain.Deadline{}
	}

	c.JSON(http.StatusOK, gin.H{"deadlines": deadlines})
}
