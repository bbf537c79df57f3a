package domain

import (
	"fmt"
	"math"
)

// Free weight allowance granted per box before weight charges apply
const FreeWeightPerBoxKg = 0.5

// Insurance constants: premium rate on declared value, GST on the
// premium, and the declared-value threshold above which insurance
// becomes mandatory.
const (
	InsuranceThreshold   = 5000.0
	InsurancePremiumRate = 0.02
	InsuranceGSTRate     = 0.18
)

// CostInput carries the physical attributes of a shipment that drive its
// courier cost.
type CostInput struct {
	NumBoxes          int
	TotalWeightKg     float64
	Express           bool
	RemoteArea        bool
	DeclaredValue     float64
	InsuranceRequired bool
}

// CostBreakdown is an itemized, reproducible cost calculation. Every
// monetary field is rounded to 2 decimals independently so that summing
// displayed line items always reproduces the displayed total.
// InsuranceCost is nil when insurance was not requested, distinguishing
// "not applicable" from an actual zero charge.
type CostBreakdown struct {
	BaseCost      float64  `json:"baseCost"`
	WeightCost    float64  `json:"weightCost"`
	SurchargeCost float64  `json:"surchargeCost"`
	MarkupCost    float64  `json:"markupCost"`
	InsuranceCost *float64 `json:"insuranceCost,omitempty"`
	TotalCost     float64  `json:"totalCost"`
	PricingSource string   `json:"pricingSource"`
	AppliedRules  []string `json:"appliedRules"`
}

// InsuranceAmount returns the insurance line item, 0 when not applicable
func (b CostBreakdown) InsuranceAmount() float64 {
	if b.InsuranceCost == nil {
		return 0
	}
	return *b.InsuranceCost
}

// ComputeCost turns a resolved rate table and shipment attributes into an
// itemized cost breakdown. Deterministic arithmetic pipeline: order
// matters because express and markup compound on the running subtotal.
func ComputeCost(pricing PricingConfig, in CostInput) CostBreakdown {
	rules := make([]string, 0, 8)

	baseCost := pricing.BaseRatePerBox * float64(in.NumBoxes)
	rules = append(rules, fmt.Sprintf("Base: %d box(es) x %.2f = %.2f", in.NumBoxes, pricing.BaseRatePerBox, baseCost))

	allowance := FreeWeightPerBoxKg * float64(in.NumBoxes)
	chargeableWeight := math.Max(0, in.TotalWeightKg-allowance)
	weightCost := chargeableWeight * pricing.WeightRatePerKg
	if chargeableWeight > 0 {
		rules = append(rules, fmt.Sprintf("Weight: %.2fkg over %.2fkg allowance x %.2f = %.2f",
			chargeableWeight, allowance, pricing.WeightRatePerKg, weightCost))
	} else {
		rules = append(rules, fmt.Sprintf("Weight: within %.2fkg free allowance, no charge", allowance))
	}

	surchargeCost := 0.0
	if in.RemoteArea {
		surchargeCost = pricing.LocationSurcharge * float64(in.NumBoxes)
		rules = append(rules, fmt.Sprintf("Remote area surcharge: %d box(es) x %.2f = %.2f",
			in.NumBoxes, pricing.LocationSurcharge, surchargeCost))
	} else {
		rules = append(rules, "Remote area surcharge: not applicable")
	}

	subtotal := baseCost + weightCost + surchargeCost
	if in.Express {
		subtotal *= pricing.ExpressMultiplier
		rules = append(rules, fmt.Sprintf("Express: subtotal x %.2f = %.2f", pricing.ExpressMultiplier, subtotal))
	}

	markupCost := subtotal * pricing.MarkupPercent / 100
	rules = append(rules, fmt.Sprintf("Markup: %.2f%% of %.2f = %.2f", pricing.MarkupPercent, subtotal, markupCost))

	var insuranceCost *float64
	insuranceAmount := 0.0
	if in.InsuranceRequired {
		if in.DeclaredValue >= InsuranceThreshold {
			insuranceAmount = in.DeclaredValue * InsurancePremiumRate * (1 + InsuranceGSTRate)
			rules = append(rules, fmt.Sprintf("Insurance: %.2f%% of %.2f incl. GST = %.2f",
				InsurancePremiumRate*100, in.DeclaredValue, insuranceAmount))
		} else {
			rules = append(rules, fmt.Sprintf("Insurance: declared value %.2f below threshold %.2f, no charge",
				in.DeclaredValue, InsuranceThreshold))
		}
		rounded := round2(insuranceAmount)
		insuranceCost = &rounded
	}

	total := subtotal + markupCost + insuranceAmount
	if total < pricing.MinCharge {
		rules = append(rules, fmt.Sprintf("Minimum charge applied: %.2f -> %.2f", total, pricing.MinCharge))
		total = pricing.MinCharge
	}

	return CostBreakdown{
		BaseCost:      round2(baseCost),
		WeightCost:    round2(weightCost),
		SurchargeCost: round2(surchargeCost),
		MarkupCost:    round2(markupCost),
		InsuranceCost: insuranceCost,
		TotalCost:     round2(total),
		PricingSource: pricing.Source,
		AppliedRules:  rules,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
