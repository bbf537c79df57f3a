package domain

// Pricing source tags carried on every resolved config so a cost
// breakdown can always say where its rates came from.
const (
	PricingSourceBrandOverride = "brand_override"
	PricingSourceGlobalConfig  = "global_config"
	PricingSourceDefault       = "default"
)

// Shared rate defaults used when an override or config omits a field
const (
	DefaultWeightRatePerKg   = 25.0
	DefaultLocationSurcharge = 25.0
	DefaultExpressMultiplier = 1.5
	DefaultOverrideMinCharge = 50.0
	DefaultOverrideMarkup    = 10.0
)

// Hardcoded per-type defaults, the last tier of pricing resolution.
// Reverse shipments are deliberately cheaper than forward ones.
const (
	ForwardBaseRatePerBox = 50.0
	ForwardMinCharge      = 75.0
	ForwardMarkupPercent  = 15.0

	ReverseBaseRatePerBox = 45.0
	ReverseMinCharge      = 50.0
	ReverseMarkupPercent  = 10.0
)

// PricingConfig is a read-only snapshot of the effective rate table for
// one cost calculation. Never mutated after resolution.
type PricingConfig struct {
	BaseRatePerBox    float64 `json:"baseRatePerBox"`
	WeightRatePerKg   float64 `json:"weightRatePerKg"`
	MinCharge         float64 `json:"minCharge"`
	MarkupPercent     float64 `json:"markupPercent"`
	LocationSurcharge float64 `json:"locationSurcharge"`
	ExpressMultiplier float64 `json:"expressMultiplier"`
	Source            string  `json:"source"`
}

// DefaultPricing returns the hardcoded rate table for a shipment type,
// the guaranteed worst case of pricing resolution.
func DefaultPricing(shipmentType ShipmentType) PricingConfig {
	cfg := PricingConfig{
		BaseRatePerBox:    ForwardBaseRatePerBox,
		WeightRatePerKg:   DefaultWeightRatePerKg,
		MinCharge:         ForwardMinCharge,
		MarkupPercent:     ForwardMarkupPercent,
		LocationSurcharge: DefaultLocationSurcharge,
		ExpressMultiplier: DefaultExpressMultiplier,
		Source:            PricingSourceDefault,
	}

	if shipmentType == ShipmentReverse {
		cfg.BaseRatePerBox = ReverseBaseRatePerBox
		cfg.MinCharge = ReverseMinCharge
		cfg.MarkupPercent = ReverseMarkupPercent
	}

	return cfg
}

// PricingOverride is a brand-level rate override as stored by
// configuration management. Fields are pointers: an override need not
// specify every rate, missing ones fall back to fixed defaults.
type PricingOverride struct {
	BrandID           string   `bson:"brandId" json:"brandId"`
	Active            bool     `bson:"active" json:"active"`
	BaseRatePerBox    *float64 `bson:"baseRatePerBox,omitempty" json:"baseRatePerBox,omitempty"`
	WeightRatePerKg   *float64 `bson:"weightRatePerKg,omitempty" json:"weightRatePerKg,omitempty"`
	MinCharge         *float64 `bson:"minCharge,omitempty" json:"minCharge,omitempty"`
	MarkupPercent     *float64 `bson:"markupPercent,omitempty" json:"markupPercent,omitempty"`
	LocationSurcharge *float64 `bson:"locationSurcharge,omitempty" json:"locationSurcharge,omitempty"`
	ExpressMultiplier *float64 `bson:"expressMultiplier,omitempty" json:"expressMultiplier,omitempty"`
}
