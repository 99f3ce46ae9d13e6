package domain

import "strings"

// StockLevel classifies how close a product is to its reorder point.
type StockLevel string

const (
	LevelCritical  StockLevel = "critical"
	LevelLow       StockLevel = "low"
	LevelWatch     StockLevel = "watch"
	LevelHealthy   StockLevel = "healthy"
	LevelOverstock StockLevel = "overstock"
	LevelUnknown   StockLevel = "unknown"
)

// Urgency classifies how soon a reorder must be placed.
type Urgency string

const (
	UrgencyCritical Urgency = "critical"
	UrgencySoon     Urgency = "soon"
	UrgencyPlanned  Urgency = "planned"
)

// LeadTimeSource records where a resolved lead-time value came from.
type LeadTimeSource string

const (
	SourceDefault  LeadTimeSource = "default"
	SourceOverride LeadTimeSource = "override"
	SourceImported LeadTimeSource = "imported"
)

// Severity ranks levels from most to least urgent. Used to keep the
// classification monotonic: higher percent-of-reorder-point must never map
// to a smaller rank.
func (l StockLevel) Severity() int {
	switch l {
	case LevelCritical:
		return 0
	case LevelLow:
		return 1
	case LevelWatch:
		return 2
	case LevelHealthy:
		return 3
	case LevelOverstock:
		return 4
	case LevelUnknown:
		return 5
	}
	return 5
}

// Label returns the human-readable label shown in dashboards.
func (l StockLevel) Label() string {
	switch l {
	case LevelCritical:
		return "Critical"
	case LevelLow:
		return "Low"
	case LevelWatch:
		return "Watch"
	case LevelHealthy:
		return "Healthy"
	case LevelOverstock:
		return "Overstock"
	case LevelUnknown:
		return "Unknown"
	}
	return "Unknown"
}

// Color returns the display color key for a level.
func (l StockLevel) Color() string {
	switch l {
	case LevelCritical:
		return "red"
	case LevelLow:
		return "amber"
	case LevelWatch:
		return "yellow"
	case LevelHealthy:
		return "green"
	case LevelOverstock:
		return "blue"
	case LevelUnknown:
		return "gray"
	}
	return "gray"
}

// ParseStockLevel returns the level for a label (case-insensitive).
func ParseStockLevel(s string) (StockLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical":
		return LevelCritical, true
	case "low":
		return LevelLow, true
	case "watch":
		return LevelWatch, true
	case "healthy":
		return LevelHealthy, true
	case "overstock":
		return LevelOverstock, true
	case "unknown":
		return LevelUnknown, true
	}
	return "", false
}

// Label returns the human-readable label for an urgency tier.
func (u Urgency) Label() string {
	switch u {
	case UrgencyCritical:
		return "Critical"
	case UrgencySoon:
		return "Order Soon"
	case UrgencyPlanned:
		return "Planned"
	}
	return "Planned"
}

// ParseUrgency returns the urgency for a label (case-insensitive).
func ParseUrgency(s string) (Urgency, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical":
		return UrgencyCritical, true
	case "soon":
		return UrgencySoon, true
	case "planned":
		return UrgencyPlanned, true
	}
	return "", false
}
