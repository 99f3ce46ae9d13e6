// internal/engine/leadtime.go
package engine

import "github.com/nolanv/stocklens/internal/domain"

// LeadTimeOverrides carries a product's optional per-component lead-time
// day counts. A nil field means "no override for this component".
type LeadTimeOverrides struct {
	SupplierDays   *int
	ShippingDays   *int
	ProcessingDays *int
	SafetyDays     *int

	// UseDefaults forces every component back to the client defaults, even
	// when stale override values are still present on the record.
	UseDefaults bool

	// Origin is where the override values came from when they apply
	// (manual edit vs. bulk import).
	Origin domain.LeadTimeSource
}

// LeadTimeDefaults carries the client-level default day counts. All four
// fields are required.
type LeadTimeDefaults struct {
	SupplierDays   int
	ShippingDays   int
	ProcessingDays int
	SafetyDays     int
}

// AggregateLeadTime resolves the four lead-time components for a product and
// sums them into a total. Each component independently falls back to its
// client default when the override is nil; UseDefaults short-circuits all
// overrides. Negative override values are treated as absent.
func AggregateLeadTime(o LeadTimeOverrides, d LeadTimeDefaults) domain.LeadTimeBreakdown {
	origin := o.Origin
	if origin != domain.SourceImported {
		origin = domain.SourceOverride
	}

	resolve := func(override *int, def int) domain.LeadTimeComponent {
		if o.UseDefaults || override == nil || *override < 0 {
			return domain.LeadTimeComponent{Days: def, Source: domain.SourceDefault}
		}
		return domain.LeadTimeComponent{Days: *override, Source: origin}
	}

	b := domain.LeadTimeBreakdown{
		SupplierDays:   resolve(o.SupplierDays, d.SupplierDays),
		ShippingDays:   resolve(o.ShippingDays, d.ShippingDays),
		ProcessingDays: resolve(o.ProcessingDays, d.ProcessingDays),
		SafetyDays:     resolve(o.SafetyDays, d.SafetyDays),
	}
	b.TotalDays = b.SupplierDays.Days + b.ShippingDays.Days + b.ProcessingDays.Days + b.SafetyDays.Days

	// Overall attribution: default unless at least one component used an
	// override; imported origin wins over manual override.
	b.Source = domain.SourceDefault
	for _, c := range []domain.LeadTimeComponent{b.SupplierDays, b.ShippingDays, b.ProcessingDays, b.SafetyDays} {
		if c.Source == domain.SourceDefault {
			continue
		}
		if b.Source == domain.SourceDefault || c.Source == domain.SourceImported {
			b.Source = c.Source
		}
	}

	return b
}

// ProductLeadTime builds the override set from a product record and resolves
// it against the client's order settings.
func ProductLeadTime(p *domain.Product, s *domain.OrderSettings, cfg Config) domain.LeadTimeBreakdown {
	defaults := LeadTimeDefaults{
		SupplierDays:   cfg.DefaultLeadDays,
		ProcessingDays: 0,
		ShippingDays:   0,
		SafetyDays:     0,
	}
	if s != nil {
		defaults = LeadTimeDefaults{
			SupplierDays:   s.SupplierLeadDays,
			ShippingDays:   s.ShippingLeadDays,
			ProcessingDays: s.ProcessingLeadDays,
			SafetyDays:     s.SafetyBufferDays,
		}
	}

	origin := domain.SourceOverride
	if p.LeadTimeOrigin == string(domain.SourceImported) {
		origin = domain.SourceImported
	}

	return AggregateLeadTime(LeadTimeOverrides{
		SupplierDays:   p.SupplierLeadDays,
		ShippingDays:   p.ShippingLeadDays,
		ProcessingDays: p.ProcessingLeadDays,
		SafetyDays:     p.SafetyBufferDays,
		UseDefaults:    p.UseDefaultLeadTimes,
		Origin:         origin,
	}, defaults)
}
