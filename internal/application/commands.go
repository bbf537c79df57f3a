package application

// CreateShipmentCommand represents the command to create and price a
// shipment end to end
type CreateShipmentCommand struct {
	ShipmentID        string  `json:"shipmentId" validate:"required"`
	SenderID          string  `json:"senderId" validate:"required"`
	ReceiverID        string  `json:"receiverId" validate:"required"`
	ReturnReason      string  `json:"returnReason,omitempty" validate:"omitempty,return_reason"`
	NumBoxes          int     `json:"numBoxes" validate:"required,gt=0"`
	WeightKg          float64 `json:"weightKg" validate:"gte=0"`
	Priority          string  `json:"priority,omitempty" validate:"omitempty,priority"`
	DeclaredValue     float64 `json:"declaredValue" validate:"gte=0"`
	InsuranceRequired bool    `json:"insuranceRequired"`
	Description       string  `json:"description,omitempty"`
}

// ClassifyCommand represents a standalone classification request
type ClassifyCommand struct {
	SenderRole   string `json:"senderRole" validate:"required,party_role"`
	ReceiverRole string `json:"receiverRole" validate:"required,party_role"`
	ReturnReason string `json:"returnReason,omitempty" validate:"omitempty,return_reason"`
}

// PricingPreviewCommand represents a cost calculation without any side
// effects: no courier call, no persistence, no events
type PricingPreviewCommand struct {
	SenderRole        string  `json:"senderRole" validate:"required,party_role"`
	ReceiverRole      string  `json:"receiverRole" validate:"required,party_role"`
	ReturnReason      string  `json:"returnReason,omitempty" validate:"omitempty,return_reason"`
	BrandID           string  `json:"brandId,omitempty"`
	NumBoxes          int     `json:"numBoxes" validate:"required,gt=0"`
	WeightKg          float64 `json:"weightKg" validate:"gte=0"`
	Express           bool    `json:"express"`
	RemoteArea        bool    `json:"remoteArea"`
	DeclaredValue     float64 `json:"declaredValue" validate:"gte=0"`
	InsuranceRequired bool    `json:"insuranceRequired"`
}

// BulkPricingItem is one shipment inside a bulk pricing request
type BulkPricingItem struct {
	ShipmentID    string                `json:"shipmentId" validate:"required"`
	RecipientName string                `json:"recipientName" validate:"required"`
	Pricing       PricingPreviewCommand `json:"pricing" validate:"required"`
}

// BulkPricingCommand represents a bulk pricing request
type BulkPricingCommand struct {
	Shipments []BulkPricingItem `json:"shipments" validate:"required,min=1,max=500,dive"`
}

// InsuranceQuoteQuery represents a standalone insurance quote request
type InsuranceQuoteQuery struct {
	DeclaredValue float64 `json:"declaredValue" validate:"gte=0"`
}

// GenerateAwbCommand represents a standalone AWB generation request for
// a shipment whose recipient details are supplied directly
type GenerateAwbCommand struct {
	ShipmentID    string  `json:"shipmentId" validate:"required"`
	RecipientName string  `json:"recipientName" validate:"required"`
	Phone         string  `json:"phone" validate:"required"`
	Address       string  `json:"address" validate:"required"`
	City          string  `json:"city" validate:"required"`
	State         string  `json:"state" validate:"required"`
	Pincode       string  `json:"pincode" validate:"required"`
	NumBoxes      int     `json:"numBoxes" validate:"required,gt=0"`
	WeightKg      float64 `json:"weightKg" validate:"gte=0"`
	DeclaredValue float64 `json:"declaredValue" validate:"gte=0"`
	Express       bool    `json:"express"`
	Description   string  `json:"description,omitempty"`
}

// TrackQuery represents a tracking lookup
type TrackQuery struct {
	AwbNumber string `json:"awbNumber" validate:"required"`
}

// TrackBatchQuery represents a bulk tracking lookup
type TrackBatchQuery struct {
	AwbNumbers []string `json:"awbNumbers" validate:"required,min=1,max=100"`
}
