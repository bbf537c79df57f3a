package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all shipment-engine metrics
type Metrics struct {
	serviceName string
	registry    *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Carrier metrics
	CarrierCallsTotal    *prometheus.CounterVec
	CarrierCallDuration  *prometheus.HistogramVec
	CarrierRetriesTotal  *prometheus.CounterVec
	CarrierFallbackTotal *prometheus.CounterVec

	// Pricing metrics
	PricingResolutions *prometheus.CounterVec

	// Business metrics
	ShipmentsCreated *prometheus.CounterVec
	AwbsIssued       *prometheus.CounterVec
	LabelsGenerated  *prometheus.CounterVec

	// Kafka metrics
	EventsPublished *prometheus.CounterVec
}

// Config holds metrics configuration
type Config struct {
	ServiceName string
	Namespace   string
}

// DefaultConfig returns default metrics configuration
func DefaultConfig(serviceName string) *Config {
	return &Config{
		ServiceName: serviceName,
		Namespace:   "shipeng",
	}
}

// New creates a new Metrics instance
func New(config *Config) *Metrics {
	registry := prometheus.NewRegistry()

	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Metrics{
		serviceName: config.ServiceName,
		registry:    registry,
	}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"service", "method", "path"},
	)

	m.HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: config.Namespace,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	m.CarrierCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "carrier_calls_total",
			Help:      "Total number of outbound carrier API calls",
		},
		[]string{"carrier", "operation", "outcome"},
	)

	m.CarrierCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "carrier_call_duration_seconds",
			Help:      "Carrier API call duration in seconds",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"carrier", "operation"},
	)

	m.CarrierRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "carrier_retries_total",
			Help:      "Total number of carrier call retries",
		},
		[]string{"carrier", "operation"},
	)

	m.CarrierFallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "carrier_fallback_total",
			Help:      "Total number of requests served in fallback mode",
		},
		[]string{"carrier", "reason"},
	)

	m.PricingResolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "pricing_resolutions_total",
			Help:      "Total number of pricing resolutions by source tier",
		},
		[]string{"source", "shipment_type"},
	)

	m.ShipmentsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "shipments_created_total",
			Help:      "Total number of shipments created",
		},
		[]string{"service", "shipment_type", "payer"},
	)

	m.AwbsIssued = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "awbs_issued_total",
			Help:      "Total number of AWBs issued",
		},
		[]string{"carrier", "fallback"},
	)

	m.LabelsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "labels_generated_total",
			Help:      "Total number of shipping labels generated",
		},
		[]string{"carrier", "fallback"},
	)

	m.EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "events_published_total",
			Help:      "Total number of events published",
		},
		[]string{"topic", "event_type", "status"},
	)

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.CarrierCallsTotal,
		m.CarrierCallDuration,
		m.CarrierRetriesTotal,
		m.CarrierFallbackTotal,
		m.PricingResolutions,
		m.ShipmentsCreated,
		m.AwbsIssued,
		m.LabelsGenerated,
		m.EventsPublished,
	)

	return m
}

// Handler returns an HTTP handler for the metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTPRequest records an HTTP request
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(m.serviceName, method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.serviceName, method, path).Observe(duration.Seconds())
}

// ObserveShipmentCreated records a created shipment
func (m *Metrics) ObserveShipmentCreated(shipmentType, payer string) {
	m.ShipmentsCreated.WithLabelValues(m.serviceName, shipmentType, payer).Inc()
}

// ObserveCarrierCall records a carrier API call
func (m *Metrics) ObserveCarrierCall(carrier, operation, outcome string, duration time.Duration) {
	m.CarrierCallsTotal.WithLabelValues(carrier, operation, outcome).Inc()
	m.CarrierCallDuration.WithLabelValues(carrier, operation).Observe(duration.Seconds())
}
