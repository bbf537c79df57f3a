package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/logistics-platform/shipment-engine/internal/domain"
	"github.com/logistics-platform/shipment-engine/pkg/logging"
	"github.com/logistics-platform/shipment-engine/pkg/metrics"
)

// Config holds Kafka publisher configuration
type Config struct {
	Brokers      []string
	Topic        string
	BatchSize    int
	BatchTimeout time.Duration
}

// DefaultConfig returns a publisher config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Brokers:      []string{"localhost:9092"},
		Topic:        "logistics.shipments",
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
	}
}

// envelope is the wire format for published events
type envelope struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Source     string          `json:"source"`
	OccurredAt time.Time       `json:"occurredAt"`
	Data       json.RawMessage `json:"data"`
}

// KafkaPublisher publishes domain events to a Kafka topic
type KafkaPublisher struct {
	writer  *kafka.Writer
	topic   string
	source  string
	logger  *logging.Logger
	metrics *metrics.Metrics
}

// NewKafkaPublisher creates a Kafka-backed event publisher
func NewKafkaPublisher(config *Config, source string, logger *logging.Logger, m *metrics.Metrics) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(config.Brokers...),
		Topic:        config.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    config.BatchSize,
		BatchTimeout: config.BatchTimeout,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}

	return &KafkaPublisher{
		writer:  writer,
		topic:   config.Topic,
		source:  source,
		logger:  logger.WithComponent("event-publisher"),
		metrics: m,
	}
}

// Publish publishes a single domain event
func (p *KafkaPublisher) Publish(ctx context.Context, event domain.DomainEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		p.observe(event.EventType(), "marshal_error")
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	env := envelope{
		ID:         uuid.NewString(),
		Type:       event.EventType(),
		Source:     p.source,
		OccurredAt: event.OccurredAt(),
		Data:       data,
	}
	value, err := json.Marshal(env)
	if err != nil {
		p.observe(event.EventType(), "marshal_error")
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.EventType()),
		Value: value,
		Time:  event.OccurredAt(),
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.EventType())},
			{Key: "event-id", Value: []byte(env.ID)},
			{Key: "source", Value: []byte(p.source)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.observe(event.EventType(), "error")
		return fmt.Errorf("failed to publish event to kafka: %w", err)
	}

	p.observe(event.EventType(), "success")
	return nil
}

func (p *KafkaPublisher) observe(eventType, status string) {
	if p.metrics != nil {
		p.metrics.EventsPublished.WithLabelValues(p.topic, eventType, status).Inc()
	}
}

// Close flushes and closes the underlying writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

var _ domain.EventPublisher = (*KafkaPublisher)(nil)

// NoopPublisher discards events. Used in development mode when no
// broker is available.
type NoopPublisher struct{}

func (NoopPublisher) Publish(_ context.Context, _ domain.DomainEvent) error { return nil }

var _ domain.EventPublisher = NoopPublisher{}
