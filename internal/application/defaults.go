package application

import (
	"context"
	"strings"

	"github.com/logistics-platform/shipment-engine/internal/domain"
)

// DefaultBoxWeightKg is the assumed weight of one box when the caller
// does not supply a measured weight
const DefaultBoxWeightKg = 1.0

// FixedWeightEstimator estimates shipment weight as a fixed rate per
// box. Stands in until a parts-catalog backed estimator exists.
type FixedWeightEstimator struct {
	PerBoxKg float64
}

func NewFixedWeightEstimator() *FixedWeightEstimator {
	return &FixedWeightEstimator{PerBoxKg: DefaultBoxWeightKg}
}

func (e *FixedWeightEstimator) EstimateWeight(_ context.Context, numBoxes int) float64 {
	if numBoxes <= 0 {
		return 0
	}
	return e.PerBoxKg * float64(numBoxes)
}

var _ domain.WeightEstimator = (*FixedWeightEstimator)(nil)

// PincodePrefixRemoteChecker flags destinations as remote by pincode
// prefix. Defaults cover the North-East, Jammu & Kashmir, Himachal and
// the islands, the zones carriers bill an out-of-delivery-area fee for.
type PincodePrefixRemoteChecker struct {
	prefixes []string
}

func NewPincodePrefixRemoteChecker(prefixes ...string) *PincodePrefixRemoteChecker {
	if len(prefixes) == 0 {
		prefixes = []string{"19", "78", "79", "17", "737", "744"}
	}
	return &PincodePrefixRemoteChecker{prefixes: prefixes}
}

func (c *PincodePrefixRemoteChecker) IsRemoteArea(_ context.Context, pincode string) bool {
	for _, prefix := range c.prefixes {
		if strings.HasPrefix(pincode, prefix) {
			return true
		}
	}
	return false
}

var _ domain.RemoteAreaChecker = (*PincodePrefixRemoteChecker)(nil)
