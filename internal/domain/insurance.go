package domain

// InsuranceCalculation is the standalone insurance quote for a declared
// value. When the value is below the threshold every monetary field is
// exactly zero.
type InsuranceCalculation struct {
	Required             bool    `json:"required"`
	ThresholdMet         bool    `json:"thresholdMet"`
	DeclaredValue        float64 `json:"declaredValue"`
	InsuranceCost        float64 `json:"insuranceCost"`
	GSTAmount            float64 `json:"gstAmount"`
	TotalInsuranceCharge float64 `json:"totalInsuranceCharge"`
}

// ComputeInsurance quotes the insurance surcharge for a declared value:
// 2% premium plus 18% GST, mandatory at or above the threshold.
func ComputeInsurance(declaredValue float64) InsuranceCalculation {
	calc := InsuranceCalculation{DeclaredValue: declaredValue}

	if declaredValue < InsuranceThreshold {
		return calc
	}

	calc.Required = true
	calc.ThresholdMet = true
	calc.InsuranceCost = round2(declaredValue * InsurancePremiumRate)
	calc.GSTAmount = round2(calc.InsuranceCost * InsuranceGSTRate)
	calc.TotalInsuranceCharge = round2(calc.InsuranceCost + calc.GSTAmount)

	return calc
}
