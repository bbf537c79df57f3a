package domain

import (
	"context"
	"time"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
}

// EventPublisher publishes domain events to the platform's event bus.
// Publishing is best-effort from the caller's perspective; a failed
// publish is logged, never propagated to the shipment flow.
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
}

// ShipmentPricedEvent is published when a shipment's cost has been
// classified, payer-assigned and priced
type ShipmentPricedEvent struct {
	ShipmentID    string    `json:"shipmentId"`
	ShipmentType  string    `json:"shipmentType"`
	Payer         string    `json:"payer"`
	TotalCost     float64   `json:"totalCost"`
	PricingSource string    `json:"pricingSource"`
	PricedAt      time.Time `json:"pricedAt"`
}

func (e *ShipmentPricedEvent) EventType() string     { return "logistics.shipment.priced" }
func (e *ShipmentPricedEvent) OccurredAt() time.Time { return e.PricedAt }

// AwbGeneratedEvent is published when a tracking number is issued
type AwbGeneratedEvent struct {
	ShipmentID   string    `json:"shipmentId"`
	AwbNumber    string    `json:"awbNumber"`
	Carrier      string    `json:"carrier"`
	FallbackMode bool      `json:"fallbackMode"`
	GeneratedAt  time.Time `json:"generatedAt"`
}

func (e *AwbGeneratedEvent) EventType() string     { return "logistics.shipment.awb-generated" }
func (e *AwbGeneratedEvent) OccurredAt() time.Time { return e.GeneratedAt }

// CourierFallbackEvent is published when the gateway degrades to
// fallback mode, so downstream auditing can distinguish real AWBs from
// placeholders
type CourierFallbackEvent struct {
	ShipmentID string    `json:"shipmentId"`
	Carrier    string    `json:"carrier"`
	Reason     string    `json:"reason"`
	OccurredOn time.Time `json:"occurredOn"`
}

func (e *CourierFallbackEvent) EventType() string     { return "logistics.shipment.courier-fallback" }
func (e *CourierFallbackEvent) OccurredAt() time.Time { return e.OccurredOn }
