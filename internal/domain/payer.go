package domain

// PayerAssignment names the party financially responsible for a shipment
// and carries an audit-facing justification. The justification is free
// text, never machine-parsed.
type PayerAssignment struct {
	Payer         PartyRole `json:"payer"`
	Justification string    `json:"justification"`
}

// AssignPayer derives the responsible payer from a classification. Total
// function: every classification maps to exactly one payer, unmatched
// combinations fall back to the brand.
func AssignPayer(c Classification) PayerAssignment {
	switch {
	case c.Type == ShipmentForward && c.Direction == DirectionBrand:
		return PayerAssignment{
			Payer:         RoleBrand,
			Justification: "Forward shipment from brand: brand bears the courier cost",
		}

	case c.Type == ShipmentForward && c.Direction == DirectionServiceCenter:
		return PayerAssignment{
			Payer:         RoleServiceCenter,
			Justification: "Service center delivering to end customer: service center pays",
		}

	case c.Type == ShipmentForward && c.Direction == DirectionDistributor:
		return PayerAssignment{
			Payer:         RoleServiceCenter,
			Justification: "Service center receiving stock from distributor: service center pays",
		}

	case c.Type == ShipmentReverse && c.Direction == DirectionServiceCenter:
		switch c.ReturnReason {
		case ReasonDefective, ReasonWrongPart:
			return PayerAssignment{
				Payer:         RoleBrand,
				Justification: "Return caused by defective or wrong part: brand bears the cost",
			}
		case ReasonExcess:
			return PayerAssignment{
				Payer:         RoleServiceCenter,
				Justification: "Service center returning its excess stock: service center pays",
			}
		case ReasonWarrantyReturn:
			// Reimbursement on a valid warranty is decided downstream,
			// outside this engine.
			return PayerAssignment{
				Payer:         RoleCustomer,
				Justification: "Warranty return initiated by customer: customer pays, reimbursable on valid warranty",
			}
		}
	}

	return PayerAssignment{
		Payer:         RoleBrand,
		Justification: "Unmatched shipment classification: defaulting cost responsibility to brand",
	}
}
