package engine

import (
	"testing"

	"github.com/nolanv/stocklens/internal/domain"
	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func defaults() LeadTimeDefaults {
	return LeadTimeDefaults{SupplierDays: 7, ShippingDays: 3, ProcessingDays: 1, SafetyDays: 2}
}

func TestAggregateLeadTime_AllDefaults(t *testing.T) {
	b := AggregateLeadTime(LeadTimeOverrides{}, defaults())
	assert.Equal(t, 13, b.TotalDays)
	assert.Equal(t, domain.SourceDefault, b.Source)
}

func TestAggregateLeadTime_MixedOverrides(t *testing.T) {
	// supplier=nil, shipping=5, processing=nil, safety=2 against defaults
	// {7,3,1,2} must total 7+5+1+2 = 15.
	b := AggregateLeadTime(LeadTimeOverrides{
		ShippingDays: intPtr(5),
		SafetyDays:   intPtr(2),
	}, defaults())

	assert.Equal(t, 15, b.TotalDays)
	assert.Equal(t, domain.SourceDefault, b.SupplierDays.Source)
	assert.Equal(t, domain.SourceOverride, b.ShippingDays.Source)
	assert.Equal(t, domain.SourceDefault, b.ProcessingDays.Source)
	assert.Equal(t, domain.SourceOverride, b.SafetyDays.Source)
	assert.Equal(t, domain.SourceOverride, b.Source)
}

func TestAggregateLeadTime_UseDefaultsWinsOverStaleOverrides(t *testing.T) {
	b := AggregateLeadTime(LeadTimeOverrides{
		SupplierDays:   intPtr(30),
		ShippingDays:   intPtr(30),
		ProcessingDays: intPtr(30),
		SafetyDays:     intPtr(30),
		UseDefaults:    true,
	}, defaults())

	assert.Equal(t, 13, b.TotalDays)
	assert.Equal(t, domain.SourceDefault, b.Source)
}

func TestAggregateLeadTime_NegativeOverrideFallsBack(t *testing.T) {
	b := AggregateLeadTime(LeadTimeOverrides{SupplierDays: intPtr(-4)}, defaults())
	assert.Equal(t, 7, b.SupplierDays.Days)
	assert.Equal(t, domain.SourceDefault, b.SupplierDays.Source)
}

func TestAggregateLeadTime_ImportedAttribution(t *testing.T) {
	b := AggregateLeadTime(LeadTimeOverrides{
		SupplierDays: intPtr(10),
		Origin:       domain.SourceImported,
	}, defaults())

	assert.Equal(t, domain.SourceImported, b.SupplierDays.Source)
	assert.Equal(t, domain.SourceImported, b.Source)
}

func TestProductLeadTime_FallsBackToEngineDefaultWithoutSettings(t *testing.T) {
	p := &domain.Product{UseDefaultLeadTimes: true}
	b := ProductLeadTime(p, nil, DefaultConfig())
	assert.Equal(t, 14, b.TotalDays)
}
