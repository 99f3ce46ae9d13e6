// internal/domain/models.go
package domain

import "time"

// Client represents a tenant of the platform
type Client struct {
	ID       string `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Code     string `json:"code" db:"code"`
	IsActive bool   `json:"is_active" db:"is_active"`
}

// OrderSettings holds a client's default lead-time components and alert
// windows. Products without their own overrides fall back to these values.
type OrderSettings struct {
	ClientID                string    `json:"client_id" db:"client_id"`
	SupplierLeadDays        int       `json:"supplier_lead_days" db:"supplier_lead_days"`
	ShippingLeadDays        int       `json:"shipping_lead_days" db:"shipping_lead_days"`
	ProcessingLeadDays      int       `json:"processing_lead_days" db:"processing_lead_days"`
	SafetyBufferDays        int       `json:"safety_buffer_days" db:"safety_buffer_days"`
	SafetyStockWeeks        int       `json:"safety_stock_weeks" db:"safety_stock_weeks"`
	AlertDaysBeforeDeadline []int     `json:"alert_days_before_deadline" db:"-"`
	UpdatedAt               time.Time `json:"updated_at" db:"updated_at"`
}

// Product represents a tracked inventory item. Lead-time override fields are
// nullable; nil means "use the client default for this component".
type Product struct {
	ID                string `json:"id" db:"id"`
	ClientID          string `json:"client_id" db:"client_id"`
	ProductCode       string `json:"product_code" db:"product_code"`
	Name              string `json:"name" db:"name"`
	PackSize          int    `json:"pack_size" db:"pack_size"`
	CurrentStockPacks int    `json:"current_stock_packs" db:"current_stock_packs"`
	CurrentStockUnits int    `json:"current_stock_units" db:"current_stock_units"`
	ReorderPointPacks int    `json:"reorder_point_packs" db:"reorder_point_packs"`
	OrderMultiple     int    `json:"order_multiple" db:"order_multiple"`

	UnitCost        *float64 `json:"unit_cost" db:"unit_cost"`
	UnitPrice       *float64 `json:"unit_price" db:"unit_price"`
	HoldingCostRate *float64 `json:"holding_cost_rate" db:"holding_cost_rate"`
	ReorderCost     *float64 `json:"reorder_cost" db:"reorder_cost"`

	MonthlyUsageUnits   *float64   `json:"monthly_usage_units" db:"monthly_usage_units"`
	MonthlyUsagePacks   *float64   `json:"monthly_usage_packs" db:"monthly_usage_packs"`
	UsageConfidence     *string    `json:"usage_confidence" db:"usage_confidence"`
	UsageTier           *string    `json:"usage_tier" db:"usage_tier"`
	UsageMethod         *string    `json:"usage_method" db:"usage_method"`
	UsageTrend          *string    `json:"usage_trend" db:"usage_trend"`
	UsageDataMonths     *int       `json:"usage_data_months" db:"usage_data_months"`
	UsageLastCalculated *time.Time `json:"usage_last_calculated" db:"usage_last_calculated"`

	SupplierLeadDays    *int   `json:"supplier_lead_days" db:"supplier_lead_days"`
	ShippingLeadDays    *int   `json:"shipping_lead_days" db:"shipping_lead_days"`
	ProcessingLeadDays  *int   `json:"processing_lead_days" db:"processing_lead_days"`
	SafetyBufferDays    *int   `json:"safety_buffer_days" db:"safety_buffer_days"`
	LeadTimeOrigin      string `json:"lead_time_origin" db:"lead_time_origin"`
	UseDefaultLeadTimes bool   `json:"use_default_lead_times" db:"use_default_lead_times"`

	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// StockSnapshot is a point-in-time stock level reading for a product
type StockSnapshot struct {
	ID             string    `json:"id" db:"id"`
	ProductID      string    `json:"product_id" db:"product_id"`
	RecordedAt     time.Time `json:"recorded_at" db:"recorded_at"`
	PacksAvailable int       `json:"packs_available" db:"packs_available"`
	TotalUnits     int       `json:"total_units" db:"total_units"`
	Source         string    `json:"source" db:"source"`
}

// MonthlyOrders aggregates completed order quantities for one calendar month
type MonthlyOrders struct {
	Month      time.Time `json:"month" db:"month"`
	TotalUnits float64   `json:"total_units" db:"total_units"`
	TotalPacks float64   `json:"total_packs" db:"total_packs"`
	OrderCount int       `json:"order_count" db:"order_count"`
}

// StockStatus is the derived classification for a product; it is recomputed
// on every read, never persisted as authoritative state.
type StockStatus struct {
	Level                 StockLevel `json:"level"`
	PercentOfReorderPoint float64    `json:"percent_of_reorder_point"`
	WeeksRemaining        float64    `json:"weeks_remaining"`
}

// LeadTimeBreakdown is the resolved lead time for a product: each component
// with the source it was taken from, plus the total.
type LeadTimeBreakdown struct {
	SupplierDays   LeadTimeComponent `json:"supplier_days"`
	ShippingDays   LeadTimeComponent `json:"shipping_days"`
	ProcessingDays LeadTimeComponent `json:"processing_days"`
	SafetyDays     LeadTimeComponent `json:"safety_buffer_days"`
	TotalDays      int               `json:"total_days"`
	Source         LeadTimeSource    `json:"source"`
}

// LeadTimeComponent is a single resolved lead-time field
type LeadTimeComponent struct {
	Days   int            `json:"days"`
	Source LeadTimeSource `json:"source"`
}

// ReorderSuggestion is the derived reorder advice for a product
type ReorderSuggestion struct {
	Urgency               Urgency        `json:"urgency"`
	SuggestedOrderPacks   int            `json:"suggested_order_packs"`
	SuggestedOrderUnits   int            `json:"suggested_order_units"`
	ReorderPointPacks     int            `json:"reorder_point_packs"`
	SafetyStockPacks      int            `json:"safety_stock_packs"`
	LeadTimeDemandPacks   int            `json:"lead_time_demand_packs"`
	LeadTimeDays          int            `json:"lead_time_days"`
	LeadTimeSource        LeadTimeSource `json:"lead_time_source"`
	DaysUntilStockout     *int           `json:"days_until_stockout"`
	EstimatedStockoutDate *time.Time     `json:"estimated_stockout_date"`
	Reason                string         `json:"reason"`
}

// SuggestionRow is one row of the reorder-suggestions listing
type SuggestionRow struct {
	ProductID             string     `json:"productId"`
	ProductName           string     `json:"productName"`
	CurrentStock          int        `json:"currentStock"`
	MonthlyUsage          float64    `json:"monthlyUsage"`
	WeeksOfSupply         float64    `json:"weeksOfSupply"`
	SuggestedOrderQty     int        `json:"suggestedOrderQty"`
	Urgency               Urgency    `json:"urgency"`
	Reason                string     `json:"reason"`
	EstimatedStockoutDate *time.Time `json:"estimatedStockoutDate"`
}

// SuggestionPage is one page of suggestion rows plus the unpaged total
type SuggestionPage struct {
	Items []SuggestionRow `json:"items"`
	Total int             `json:"total"`
}

// StatusRow is one row of the stock-status listing
type StatusRow struct {
	ProductID             string     `json:"productId"`
	ProductName           string     `json:"productName"`
	CurrentStockPacks     int        `json:"currentStockPacks"`
	ReorderPointPacks     int        `json:"reorderPointPacks"`
	Level                 StockLevel `json:"level"`
	PercentOfReorderPoint float64    `json:"percentOfReorderPoint"`
	WeeksRemaining        float64    `json:"weeksRemaining"`
}

// LevelCount is a status-summary bucket
type LevelCount struct {
	Level StockLevel `json:"level"`
	Count int        `json:"count"`
}

// Deadline is an upcoming order-by date for a product whose runway crosses
// one of the client's alert windows.
type Deadline struct {
	ProductID         string    `json:"productId"`
	ProductName       string    `json:"productName"`
	OrderByDate       time.Time `json:"orderByDate"`
	DaysUntilDeadline int       `json:"daysUntilDeadline"`
	StockoutDate      time.Time `json:"stockoutDate"`
	LeadTimeDays      int       `json:"leadTimeDays"`
	Urgency           Urgency   `json:"urgency"`
}

// LeadTimeUpdate carries a product lead-time override change. Nil component
// fields mean "clear the override, use the client default".
type LeadTimeUpdate struct {
	SupplierLeadDays   *int
	ShippingLeadDays   *int
	ProcessingLeadDays *int
	SafetyBufferDays   *int
	UseDefaults        bool
	Origin             string
}

// UsageUpdate carries recalculated usage figures persisted onto a product
type UsageUpdate struct {
	MonthlyUsageUnits float64
	MonthlyUsagePacks float64
	Confidence        string
	Tier              string
	Method            string
	Trend             string
	DataMonths        int
	CalculatedAt      time.Time
}

// SuggestionFilter represents filters for suggestion and status queries
type SuggestionFilter struct {
	ClientID string `json:"client_id"`
	Urgency  string `json:"urgency"`
	Level    string `json:"level"`
	Search   string `json:"search"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}
