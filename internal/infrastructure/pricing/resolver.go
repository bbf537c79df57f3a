package pricing

import (
	"context"
	"encoding/json"

	"github.com/logistics-platform/shipment-engine/internal/domain"
	"github.com/logistics-platform/shipment-engine/pkg/logging"
	"github.com/logistics-platform/shipment-engine/pkg/metrics"
)

// UnifiedPricingKey is the global configuration key holding the
// platform-wide rate table.
const UnifiedPricingKey = "unified_pricing"

// unifiedPricingDoc mirrors the JSON blob stored under the
// unified_pricing key. Rates are split per shipment direction; shared
// rates sit at the top level. All fields optional.
type unifiedPricingDoc struct {
	Forward           *directionRates `json:"forward,omitempty"`
	Reverse           *directionRates `json:"reverse,omitempty"`
	WeightRatePerKg   *float64        `json:"weightRatePerKg,omitempty"`
	LocationSurcharge *float64        `json:"locationSurcharge,omitempty"`
	ExpressMultiplier *float64        `json:"expressMultiplier,omitempty"`
}

type directionRates struct {
	BaseRatePerBox *float64 `json:"baseRatePerBox,omitempty"`
	MinCharge      *float64 `json:"minCharge,omitempty"`
	MarkupPercent  *float64 `json:"markupPercent,omitempty"`
}

// Resolver walks the pricing tiers for a brand and shipment type:
// active brand override first, then the global unified_pricing config,
// then hardcoded defaults. Resolution never fails; storage errors
// degrade to the next tier.
type Resolver struct {
	overrides domain.OverrideStore
	configs   domain.ConfigStore
	logger    *logging.Logger
	metrics   *metrics.Metrics
}

// NewResolver creates a pricing resolver
func NewResolver(overrides domain.OverrideStore, configs domain.ConfigStore, logger *logging.Logger, m *metrics.Metrics) *Resolver {
	return &Resolver{
		overrides: overrides,
		configs:   configs,
		logger:    logger.WithComponent("pricing-resolver"),
		metrics:   m,
	}
}

// Resolve returns the effective rate table for one cost calculation.
// An empty brandID skips the override tier.
func (r *Resolver) Resolve(ctx context.Context, brandID string, shipmentType domain.ShipmentType) domain.PricingConfig {
	cfg, source := r.resolve(ctx, brandID, shipmentType)
	cfg.Source = source
	if r.metrics != nil {
		r.metrics.PricingResolutions.WithLabelValues(source, string(shipmentType)).Inc()
	}
	return cfg
}

func (r *Resolver) resolve(ctx context.Context, brandID string, shipmentType domain.ShipmentType) (domain.PricingConfig, string) {
	if brandID != "" {
		override, err := r.overrides.GetActiveOverride(ctx, brandID)
		if err != nil {
			r.logger.WithError(err).Warn("Override lookup failed, falling through", "brandId", brandID)
		} else if override != nil && override.Active {
			return fromOverride(override, shipmentType), domain.PricingSourceBrandOverride
		}
	}

	raw, err := r.configs.GetConfig(ctx, UnifiedPricingKey)
	if err != nil {
		r.logger.WithError(err).Warn("Global pricing lookup failed, falling through")
	} else if len(raw) > 0 {
		var doc unifiedPricingDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			r.logger.WithError(err).Warn("Global pricing config is malformed, falling through")
		} else {
			return fromGlobalConfig(&doc, shipmentType), domain.PricingSourceGlobalConfig
		}
	}

	return domain.DefaultPricing(shipmentType), domain.PricingSourceDefault
}

// fromOverride builds a complete rate table from a partial brand
// override. Missing rates take the fixed override defaults, not the
// per-type ones: a brand that opts into custom pricing gets the flat
// override floor.
func fromOverride(o *domain.PricingOverride, shipmentType domain.ShipmentType) domain.PricingConfig {
	base := domain.DefaultPricing(shipmentType)
	return domain.PricingConfig{
		BaseRatePerBox:    orDefault(o.BaseRatePerBox, base.BaseRatePerBox),
		WeightRatePerKg:   orDefault(o.WeightRatePerKg, domain.DefaultWeightRatePerKg),
		MinCharge:         orDefault(o.MinCharge, domain.DefaultOverrideMinCharge),
		MarkupPercent:     orDefault(o.MarkupPercent, domain.DefaultOverrideMarkup),
		LocationSurcharge: orDefault(o.LocationSurcharge, domain.DefaultLocationSurcharge),
		ExpressMultiplier: orDefault(o.ExpressMultiplier, domain.DefaultExpressMultiplier),
	}
}

func fromGlobalConfig(doc *unifiedPricingDoc, shipmentType domain.ShipmentType) domain.PricingConfig {
	cfg := domain.DefaultPricing(shipmentType)

	rates := doc.Forward
	if shipmentType == domain.ShipmentReverse {
		rates = doc.Reverse
	}
	if rates != nil {
		cfg.BaseRatePerBox = orDefault(rates.BaseRatePerBox, cfg.BaseRatePerBox)
		cfg.MinCharge = orDefault(rates.MinCharge, cfg.MinCharge)
		cfg.MarkupPercent = orDefault(rates.MarkupPercent, cfg.MarkupPercent)
	}

	cfg.WeightRatePerKg = orDefault(doc.WeightRatePerKg, cfg.WeightRatePerKg)
	cfg.LocationSurcharge = orDefault(doc.LocationSurcharge, cfg.LocationSurcharge)
	cfg.ExpressMultiplier = orDefault(doc.ExpressMultiplier, cfg.ExpressMultiplier)

	return cfg
}

func orDefault(v *float64, fallback float64) float64 {
	if v != nil {
		return *v
	}
	return fallback
}
