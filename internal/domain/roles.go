package domain

// PartyRole identifies which side of the supply chain a party sits on
type PartyRole string

const (
	RoleBrand         PartyRole = "BRAND"
	RoleServiceCenter PartyRole = "SERVICE_CENTER"
	RoleDistributor   PartyRole = "DISTRIBUTOR"
	RoleCustomer      PartyRole = "CUSTOMER"
)

// IsValid checks if the role is one of the four known roles
func (r PartyRole) IsValid() bool {
	switch r {
	case RoleBrand, RoleServiceCenter, RoleDistributor, RoleCustomer:
		return true
	default:
		return false
	}
}

// AllPartyRoles lists every role in a stable order, used when a map must
// carry an entry per role
var AllPartyRoles = []PartyRole{RoleBrand, RoleServiceCenter, RoleDistributor, RoleCustomer}

// Priority represents shipment priority
type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

// IsExpress returns true if the priority warrants express shipping
func (p Priority) IsExpress() bool {
	return p == PriorityHigh || p == PriorityCritical
}

// Party is a snapshot of a shipment participant as returned by the party
// directory. Only the fields this engine needs are carried.
type Party struct {
	ID      string    `bson:"_id" json:"id"`
	Name    string    `bson:"name" json:"name"`
	Role    PartyRole `bson:"role" json:"role"`
	Phone   string    `bson:"phone" json:"phone"`
	Address string    `bson:"address" json:"address"`
	City    string    `bson:"city" json:"city"`
	State   string    `bson:"state" json:"state"`
	Pincode string    `bson:"pincode" json:"pincode"`
}
