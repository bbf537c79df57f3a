package domain

import (
	"context"
	"time"
)

// AwbRequest is a request to issue a tracking number for a shipment
type AwbRequest struct {
	ShipmentID    string  `json:"shipmentId" validate:"required"`
	RecipientName string  `json:"recipientName" validate:"required"`
	Phone         string  `json:"phone" validate:"required,phone_digits"`
	Address       string  `json:"address" validate:"required"`
	City          string  `json:"city" validate:"required"`
	State         string  `json:"state" validate:"required"`
	Pincode       string  `json:"pincode" validate:"required,pincode"`
	NumBoxes      int     `json:"numBoxes" validate:"required,gt=0"`
	WeightKg      float64 `json:"weightKg" validate:"required,gt=0"`
	DeclaredValue float64 `json:"declaredValue" validate:"required,gt=0"`
	Express       bool    `json:"express"`
	Description   string  `json:"description"`
}

// AwbResult is the outcome of one AWB request attempt sequence.
// Immutable once returned; the caller persists AwbNumber onto the
// shipment record.
type AwbResult struct {
	Success          bool   `json:"success"`
	AwbNumber        string `json:"awbNumber,omitempty"`
	TrackingURL      string `json:"trackingUrl,omitempty"`
	ReferenceNumber  string `json:"referenceNumber,omitempty"`
	RetryCount       int    `json:"retryCount"`
	ProcessingTimeMs int64  `json:"processingTimeMs"`
	Error            string `json:"error,omitempty"`
	FallbackMode     bool   `json:"fallbackMode"`
}

// LabelResult is the outcome of a label generation request
type LabelResult struct {
	Success      bool   `json:"success"`
	AwbNumber    string `json:"awbNumber"`
	LabelURL     string `json:"labelUrl,omitempty"`
	Error        string `json:"error,omitempty"`
	FallbackMode bool   `json:"fallbackMode"`
}

// TrackingEvent is a single event in a shipment's tracking history
type TrackingEvent struct {
	Timestamp   time.Time `json:"timestamp"`
	Location    string    `json:"location"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
}

// TrackingResult is the outcome of a tracking lookup
type TrackingResult struct {
	Success      bool            `json:"success"`
	AwbNumber    string          `json:"awbNumber"`
	Status       string          `json:"status,omitempty"`
	Events       []TrackingEvent `json:"events,omitempty"`
	Error        string          `json:"error,omitempty"`
	FallbackMode bool            `json:"fallbackMode"`
}

// CourierGateway is the domain port for courier integration. Every
// operation returns a result object with a Success flag; implementations
// never let transport errors escape the gateway boundary.
type CourierGateway interface {
	GenerateAwb(ctx context.Context, req AwbRequest) *AwbResult
	GenerateLabel(ctx context.Context, awbNumber string) *LabelResult
	Track(ctx context.Context, awbNumber string) *TrackingResult
	TrackBatch(ctx context.Context, awbNumbers []string) []*TrackingResult
}

// CarrierAdapter translates between domain models and one carrier's API.
// Adapters own payload shaping (field truncation, value floors) and error
// translation; the gateway's retry/fallback state machine stays
// carrier-agnostic.
type CarrierAdapter interface {
	Code() string
	CreateShipment(ctx context.Context, req AwbRequest) (*CarrierShipment, error)
	FetchLabel(ctx context.Context, awbNumber string) (string, error)
	FetchTracking(ctx context.Context, awbNumber string) (*TrackingResult, error)
}

// CarrierShipment is a successful carrier create-shipment response
type CarrierShipment struct {
	AwbNumber   string
	TrackingURL string
}

// CarrierError represents errors from carrier APIs
type CarrierError struct {
	Code        string
	Message     string
	Retryable   bool
	AuthFailure bool
	OriginalErr error
}

func (e *CarrierError) Error() string {
	if e.OriginalErr != nil {
		return e.Message + ": " + e.OriginalErr.Error()
	}
	return e.Message
}

func (e *CarrierError) Unwrap() error {
	return e.OriginalErr
}

// NewCarrierError creates a new CarrierError
func NewCarrierError(code, message string, retryable, authFailure bool, originalErr error) *CarrierError {
	return &CarrierError{
		Code:        code,
		Message:     message,
		Retryable:   retryable,
		AuthFailure: authFailure,
		OriginalErr: originalErr,
	}
}
