package domain

import "context"

// PartyDirectory resolves shipment participants. Backed by the platform's
// user storage, external to this engine.
type PartyDirectory interface {
	GetParty(ctx context.Context, id string) (*Party, error)
}

// OverrideStore reads brand-level pricing overrides. Returns (nil, nil)
// when no active override exists.
type OverrideStore interface {
	GetActiveOverride(ctx context.Context, brandID string) (*PricingOverride, error)
}

// ConfigStore reads global configuration blobs by key. Returns (nil, nil)
// when the key is absent.
type ConfigStore interface {
	GetConfig(ctx context.Context, key string) ([]byte, error)
}

// ShipmentPatch carries courier metadata persisted after a successful
// gateway call
type ShipmentPatch struct {
	AwbNumber    string `bson:"awbNumber,omitempty"`
	TrackingURL  string `bson:"trackingUrl,omitempty"`
	LabelURL     string `bson:"labelUrl,omitempty"`
	FallbackMode bool   `bson:"fallbackMode"`
}

// ShipmentStore persists courier metadata onto shipment records.
// Fire-and-forget from this engine's perspective: a persistence failure
// is reported but does not unwind an already-issued AWB.
type ShipmentStore interface {
	UpdateShipment(ctx context.Context, shipmentID string, patch ShipmentPatch) error
}

// WeightEstimator estimates a shipment's total weight from its box
// count. Real implementations consult a parts catalog; the default uses
// a fixed per-box weight.
type WeightEstimator interface {
	EstimateWeight(ctx context.Context, numBoxes int) float64
}

// RemoteAreaChecker decides whether a destination pincode attracts the
// remote-area surcharge. Real implementations consult carrier
// serviceability data.
type RemoteAreaChecker interface {
	IsRemoteArea(ctx context.Context, pincode string) bool
}
