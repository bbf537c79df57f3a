package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPricing() PricingConfig {
	return PricingConfig{
		BaseRatePerBox:    50,
		WeightRatePerKg:   25,
		MinCharge:         75,
		MarkupPercent:     15,
		LocationSurcharge: 25,
		ExpressMultiplier: 1.5,
		Source:            PricingSourceDefault,
	}
}

func TestComputeCostWorkedExample(t *testing.T) {
	// 2 boxes, 1.5kg: base 100, allowance 1.0kg, 0.5kg excess -> 12.50
	// weight, subtotal 112.50, markup 16.875 -> 16.88, total 129.38.
	got := ComputeCost(testPricing(), CostInput{NumBoxes: 2, TotalWeightKg: 1.5})

	assert.Equal(t, 100.0, got.BaseCost)
	assert.Equal(t, 12.5, got.WeightCost)
	assert.Equal(t, 0.0, got.SurchargeCost)
	assert.Equal(t, 16.88, got.MarkupCost)
	assert.Nil(t, got.InsuranceCost)
	assert.Equal(t, 129.38, got.TotalCost)
	assert.Equal(t, PricingSourceDefault, got.PricingSource)
	assert.NotEmpty(t, got.AppliedRules)
}

func TestComputeCostRemoteAreaSurcharge(t *testing.T) {
	got := ComputeCost(testPricing(), CostInput{NumBoxes: 2, TotalWeightKg: 1.5, RemoteArea: true})

	// Surcharge 25 x 2 = 50 enters before markup: subtotal 162.50,
	// markup 24.375 -> 24.38, total 186.88.
	assert.Equal(t, 50.0, got.SurchargeCost)
	assert.Equal(t, 24.38, got.MarkupCost)
	assert.Equal(t, 186.88, got.TotalCost)
}

func TestComputeCostExpressMultipliesWholeSubtotal(t *testing.T) {
	got := ComputeCost(testPricing(), CostInput{NumBoxes: 2, TotalWeightKg: 1.5, Express: true})

	// 112.50 x 1.5 = 168.75, markup 25.3125 -> 25.31, total 194.06.
	assert.Equal(t, 25.31, got.MarkupCost)
	assert.Equal(t, 194.06, got.TotalCost)
}

func TestComputeCostDegeneratesToMinCharge(t *testing.T) {
	got := ComputeCost(testPricing(), CostInput{NumBoxes: 0, TotalWeightKg: 0})

	assert.Equal(t, 0.0, got.BaseCost)
	assert.Equal(t, 0.0, got.WeightCost)
	assert.Equal(t, 75.0, got.TotalCost)
}

func TestComputeCostFreeWeightAllowance(t *testing.T) {
	got := ComputeCost(testPricing(), CostInput{NumBoxes: 3, TotalWeightKg: 1.5})

	// 3 boxes grant a 1.5kg allowance, so no weight charge at all.
	assert.Equal(t, 0.0, got.WeightCost)
}

func TestComputeCostInsurance(t *testing.T) {
	t.Run("Charged at or above threshold", func(t *testing.T) {
		got := ComputeCost(testPricing(), CostInput{
			NumBoxes: 2, TotalWeightKg: 1.5,
			DeclaredValue: 5000, InsuranceRequired: true,
		})

		require.NotNil(t, got.InsuranceCost)
		// 5000 x 2% x 1.18 = 118.00
		assert.Equal(t, 118.0, *got.InsuranceCost)
		assert.Equal(t, 247.38, got.TotalCost)
	})

	t.Run("Zero below threshold but still reported", func(t *testing.T) {
		got := ComputeCost(testPricing(), CostInput{
			NumBoxes: 2, TotalWeightKg: 1.5,
			DeclaredValue: 4999.99, InsuranceRequired: true,
		})

		require.NotNil(t, got.InsuranceCost)
		assert.Equal(t, 0.0, *got.InsuranceCost)
	})

	t.Run("Absent when not requested", func(t *testing.T) {
		got := ComputeCost(testPricing(), CostInput{NumBoxes: 2, TotalWeightKg: 1.5, DeclaredValue: 9000})
		assert.Nil(t, got.InsuranceCost)
		assert.Equal(t, 0.0, got.InsuranceAmount())
	})
}

func TestComputeCostMonotonicInBoxesAndWeight(t *testing.T) {
	pricing := testPricing()

	prev := 0.0
	for boxes := 1; boxes <= 20; boxes++ {
		got := ComputeCost(pricing, CostInput{NumBoxes: boxes, TotalWeightKg: 5})
		assert.GreaterOrEqual(t, got.TotalCost, prev, "cost must not decrease with more boxes")
		prev = got.TotalCost
	}

	prev = 0.0
	for weight := 0.0; weight <= 50; weight += 0.7 {
		got := ComputeCost(pricing, CostInput{NumBoxes: 2, TotalWeightKg: weight})
		assert.GreaterOrEqual(t, got.TotalCost, prev, "cost must not decrease with more weight")
		prev = got.TotalCost
	}
}

func TestComputeCostLineItemsSumToTotal(t *testing.T) {
	// Non-express breakdowns must reproduce the displayed total from the
	// displayed line items to within a rounding cent.
	inputs := []CostInput{
		{NumBoxes: 1, TotalWeightKg: 0.3},
		{NumBoxes: 2, TotalWeightKg: 1.5},
		{NumBoxes: 3, TotalWeightKg: 7.77, RemoteArea: true},
		{NumBoxes: 5, TotalWeightKg: 12.345, RemoteArea: true, DeclaredValue: 6500, InsuranceRequired: true},
		{NumBoxes: 7, TotalWeightKg: 0.01},
	}

	for _, in := range inputs {
		got := ComputeCost(testPricing(), in)
		sum := got.BaseCost + got.WeightCost + got.SurchargeCost + got.MarkupCost + got.InsuranceAmount()
		if sum < testPricing().MinCharge {
			continue
		}
		assert.InDelta(t, got.TotalCost, sum, 0.011, "line items must sum to total for %+v", in)
	}
}

func TestComputeCostAppliedRulesDocumentEveryStep(t *testing.T) {
	got := ComputeCost(testPricing(), CostInput{NumBoxes: 1, TotalWeightKg: 0.2})

	// Base, weight (no charge), surcharge (not applicable), markup and
	// the minimum-charge clamp all leave a trail entry.
	require.GreaterOrEqual(t, len(got.AppliedRules), 5)
	assert.Contains(t, got.AppliedRules[0], "Base")
	assert.Contains(t, got.AppliedRules[1], "free allowance")
	assert.Contains(t, got.AppliedRules[2], "not applicable")
	assert.Contains(t, got.AppliedRules[len(got.AppliedRules)-1], "Minimum charge")
}
