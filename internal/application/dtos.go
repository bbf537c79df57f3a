package application

// ClassificationDTO represents a shipment classification in responses
type ClassificationDTO struct {
	ShipmentType string `json:"shipmentType"`
	Direction    string `json:"direction"`
	ReturnReason string `json:"returnReason,omitempty"`
}

// PayerDTO represents a payer assignment in responses
type PayerDTO struct {
	Payer         string `json:"payer"`
	Justification string `json:"justification"`
}

// CostDTO represents an itemized cost breakdown in responses
type CostDTO struct {
	BaseCost      float64  `json:"baseCost"`
	WeightCost    float64  `json:"weightCost"`
	SurchargeCost float64  `json:"surchargeCost"`
	MarkupCost    float64  `json:"markupCost"`
	InsuranceCost *float64 `json:"insuranceCost,omitempty"`
	TotalCost     float64  `json:"totalCost"`
	PricingSource string   `json:"pricingSource"`
	AppliedRules  []string `json:"appliedRules"`
}

// InsuranceDTO represents an insurance quote in responses
type InsuranceDTO struct {
	Required             bool    `json:"required"`
	ThresholdMet         bool    `json:"thresholdMet"`
	DeclaredValue        float64 `json:"declaredValue"`
	InsuranceCost        float64 `json:"insuranceCost"`
	GSTAmount            float64 `json:"gstAmount"`
	TotalInsuranceCharge float64 `json:"totalInsuranceCharge"`
}

// AwbDTO represents an AWB generation outcome in responses
type AwbDTO struct {
	Success          bool   `json:"success"`
	AwbNumber        string `json:"awbNumber,omitempty"`
	TrackingURL      string `json:"trackingUrl,omitempty"`
	ReferenceNumber  string `json:"referenceNumber,omitempty"`
	RetryCount       int    `json:"retryCount"`
	ProcessingTimeMs int64  `json:"processingTimeMs"`
	Error            string `json:"error,omitempty"`
	FallbackMode     bool   `json:"fallbackMode"`
}

// LabelDTO represents a label generation outcome in responses
type LabelDTO struct {
	Success      bool   `json:"success"`
	AwbNumber    string `json:"awbNumber"`
	LabelURL     string `json:"labelUrl,omitempty"`
	Error        string `json:"error,omitempty"`
	FallbackMode bool   `json:"fallbackMode"`
}

// ShipmentResultDTO is the full outcome of creating a shipment. Always
// well-formed: on failure Success is false, Error is populated and the
// sub-objects are zeroed.
type ShipmentResultDTO struct {
	Success        bool              `json:"success"`
	ShipmentID     string            `json:"shipmentId"`
	Classification ClassificationDTO `json:"classification"`
	Payer          PayerDTO          `json:"payer"`
	Cost           CostDTO           `json:"cost"`
	Insurance      InsuranceDTO      `json:"insurance"`
	Awb            *AwbDTO           `json:"awb,omitempty"`
	Label          *LabelDTO         `json:"label,omitempty"`
	Warnings       []string          `json:"warnings,omitempty"`
	Error          string            `json:"error,omitempty"`
}

// PricingPreviewDTO is the outcome of a side-effect-free pricing run
type PricingPreviewDTO struct {
	Classification ClassificationDTO `json:"classification"`
	Payer          PayerDTO          `json:"payer"`
	Cost           CostDTO           `json:"cost"`
}

// BulkRowDTO is one shipment's line in a bulk pricing response
type BulkRowDTO struct {
	ShipmentID    string  `json:"shipmentId"`
	RecipientName string  `json:"recipientName"`
	BaseCost      float64 `json:"baseCost"`
	WeightCost    float64 `json:"weightCost"`
	SurchargeCost float64 `json:"surchargeCost"`
	MarkupCost    float64 `json:"markupCost"`
	InsuranceCost float64 `json:"insuranceCost"`
	TotalCost     float64 `json:"totalCost"`
	Payer         string  `json:"payer"`
}

// BulkSummaryDTO is the outcome of a bulk pricing run
type BulkSummaryDTO struct {
	Rows        []BulkRowDTO       `json:"rows"`
	CostByPayer map[string]float64 `json:"costByPayer"`
	GrandTotal  float64            `json:"grandTotal"`
}

// TrackingEventDTO represents one tracking event in responses
type TrackingEventDTO struct {
	Timestamp   string `json:"timestamp"`
	Location    string `json:"location"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

// TrackingDTO represents a tracking lookup outcome
type TrackingDTO struct {
	Success      bool               `json:"success"`
	AwbNumber    string             `json:"awbNumber"`
	Status       string             `json:"status,omitempty"`
	Events       []TrackingEventDTO `json:"events,omitempty"`
	Error        string             `json:"error,omitempty"`
	FallbackMode bool               `json:"fallbackMode"`
}
