package domain

// ShipmentType distinguishes outbound movement from returns
type ShipmentType string

const (
	ShipmentForward ShipmentType = "FORWARD"
	ShipmentReverse ShipmentType = "REVERSE"
)

// Direction names the party whose flow the shipment belongs to
type Direction string

const (
	DirectionBrand         Direction = "BRAND"
	DirectionServiceCenter Direction = "SERVICE_CENTER"
	DirectionDistributor   Direction = "DISTRIBUTOR"
)

// ReturnReason explains why goods are moving back toward the brand
type ReturnReason string

const (
	ReasonNone           ReturnReason = ""
	ReasonDefective      ReturnReason = "DEFECTIVE"
	ReasonExcess         ReturnReason = "EXCESS"
	ReasonWarrantyReturn ReturnReason = "WARRANTY_RETURN"
	ReasonWrongPart      ReturnReason = "WRONG_PART"
)

// IsValid checks if the reason is one of the known return reasons
func (r ReturnReason) IsValid() bool {
	switch r {
	case ReasonDefective, ReasonExcess, ReasonWarrantyReturn, ReasonWrongPart:
		return true
	default:
		return false
	}
}

// Classification is an immutable value object describing what kind of
// shipment this is. Produced once per shipment and embedded in the
// shipment record by the caller.
type Classification struct {
	Type         ShipmentType `json:"shipmentType"`
	Direction    Direction    `json:"direction"`
	ReturnReason ReturnReason `json:"returnReason,omitempty"`

	// Defaulted flags that no rule matched and the safe default was
	// applied. The caller is expected to surface this as an anomaly.
	Defaulted bool `json:"-"`
}

// Classify maps an origin/destination role pair plus an optional return
// reason onto a shipment classification. It is a total function: any
// combination outside the rule table degrades to FORWARD/BRAND with
// Defaulted set, never an error.
func Classify(origin, destination PartyRole, reason ReturnReason) Classification {
	switch {
	case origin == RoleBrand && (destination == RoleServiceCenter || destination == RoleDistributor):
		return Classification{Type: ShipmentForward, Direction: DirectionBrand}

	case origin == RoleServiceCenter && destination == RoleCustomer:
		return Classification{Type: ShipmentForward, Direction: DirectionServiceCenter}

	case origin == RoleServiceCenter && destination == RoleBrand:
		// Only defect-class reasons are meaningful for a return to the
		// brand; anything else is treated as excess stock.
		if reason != ReasonDefective && reason != ReasonExcess && reason != ReasonWrongPart {
			reason = ReasonExcess
		}
		return Classification{Type: ShipmentReverse, Direction: DirectionServiceCenter, ReturnReason: reason}

	case origin == RoleCustomer && destination == RoleServiceCenter:
		return Classification{Type: ShipmentReverse, Direction: DirectionServiceCenter, ReturnReason: ReasonWarrantyReturn}

	case origin == RoleDistributor && destination == RoleServiceCenter:
		return Classification{Type: ShipmentForward, Direction: DirectionDistributor}

	default:
		return Classification{Type: ShipmentForward, Direction: DirectionBrand, Defaulted: true}
	}
}
