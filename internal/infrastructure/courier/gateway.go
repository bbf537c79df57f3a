package courier

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/logistics-platform/shipment-engine/internal/domain"
	apperrors "github.com/logistics-platform/shipment-engine/pkg/errors"
	"github.com/logistics-platform/shipment-engine/pkg/logging"
	"github.com/logistics-platform/shipment-engine/pkg/metrics"
	"github.com/logistics-platform/shipment-engine/pkg/middleware"
	"github.com/logistics-platform/shipment-engine/pkg/resilience"
)

const (
	awbMaxAttempts = 4
	attemptTimeout = 30 * time.Second
	attemptDelay   = 2 * time.Second

	trackBatchSize  = 5
	trackBatchPause = 200 * time.Millisecond
)

// Fallback reasons recorded on metrics and events
const (
	FallbackReasonConfigured = "fallback_mode"
	FallbackReasonAuth       = "auth_failure"
	FallbackReasonExhausted  = "retries_exhausted"
)

// Config holds gateway configuration. Zero-valued retry knobs take the
// package defaults.
type Config struct {
	FallbackMode bool
	MaxAttempts  int
	RetryDelay   time.Duration
	CallTimeout  time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = awbMaxAttempts
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = attemptDelay
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = attemptTimeout
	}
	return c
}

// Gateway implements the courier port against a single carrier adapter.
// Requests are validated before any transport call. Auth failures and a
// missing adapter degrade to synthetic AWBs; invalid input and retry
// exhaustion are reported as failures.
type Gateway struct {
	adapter   domain.CarrierAdapter
	synthetic *SyntheticProvider
	breaker   *resilience.CircuitBreaker
	logger    *logging.Logger
	metrics   *metrics.Metrics

	config       Config
	fallbackOnly bool
}

// NewGateway creates a courier gateway. A nil adapter or an enabled
// FallbackMode pins the gateway to the synthetic provider.
func NewGateway(adapter domain.CarrierAdapter, config Config, logger *logging.Logger, m *metrics.Metrics) *Gateway {
	g := &Gateway{
		adapter:      adapter,
		synthetic:    NewSyntheticProvider(),
		logger:       logger.WithComponent("courier-gateway"),
		metrics:      m,
		config:       config.withDefaults(),
		fallbackOnly: config.FallbackMode || adapter == nil,
	}

	if !g.fallbackOnly {
		g.breaker = resilience.NewCircuitBreaker(
			resilience.DefaultCircuitBreakerConfig("carrier-"+adapter.Code()),
			g.logger.Logger,
		)
	}

	return g
}

func (g *Gateway) carrierCode() string {
	if g.adapter != nil {
		return g.adapter.Code()
	}
	return SyntheticCarrierCode
}

// GenerateAwb issues a tracking number for a shipment. Authorization and
// configuration problems degrade to a synthetic AWB with FallbackMode
// set; invalid input and retry exhaustion report a failure instead, since
// neither can be papered over with a placeholder.
func (g *Gateway) GenerateAwb(ctx context.Context, req domain.AwbRequest) *domain.AwbResult {
	start := time.Now()

	if err := middleware.ValidateStruct(req); err != nil {
		g.logger.WithShipment(req.ShipmentID).WithError(err).Warn("AWB request failed validation")
		return &domain.AwbResult{
			Success:          false,
			ReferenceNumber:  req.ShipmentID,
			Error:            validationMessage(err),
			ProcessingTimeMs: time.Since(start).Milliseconds(),
		}
	}

	if g.fallbackOnly {
		return g.fallbackAwb(req, FallbackReasonConfigured, 0, start)
	}

	attempts := 0
	retryCfg := &resilience.RetryConfig{
		MaxAttempts:   g.config.MaxAttempts,
		InitialDelay:  g.config.RetryDelay,
		MaxDelay:      g.config.RetryDelay,
		BackoffFactor: 1.0,
		RetryableErrors: func(err error) bool {
			var cerr *domain.CarrierError
			if errors.As(err, &cerr) {
				return cerr.Retryable && !cerr.AuthFailure
			}
			return !errors.Is(err, resilience.ErrCircuitOpen)
		},
	}

	shipment, err := resilience.RetryWithResult(ctx, retryCfg, func() (*domain.CarrierShipment, error) {
		attempts++
		if attempts > 1 && g.metrics != nil {
			g.metrics.CarrierRetriesTotal.WithLabelValues(g.carrierCode(), "create_shipment").Inc()
		}
		return g.createShipmentOnce(ctx, req, attempts)
	})

	if err != nil {
		var cerr *domain.CarrierError
		if errors.As(err, &cerr) && cerr.AuthFailure {
			g.logger.WithShipment(req.ShipmentID).WithError(err).
				Error("Carrier rejected credentials, serving fallback", "attempts", attempts)
			return g.fallbackAwb(req, FallbackReasonAuth, attempts-1, start)
		}

		g.logger.WithShipment(req.ShipmentID).WithError(err).
			Error("Carrier AWB generation failed", "attempts", attempts)
		return &domain.AwbResult{
			Success:          false,
			ReferenceNumber:  req.ShipmentID,
			RetryCount:       attempts - 1,
			Error:            err.Error(),
			ProcessingTimeMs: time.Since(start).Milliseconds(),
		}
	}

	result := &domain.AwbResult{
		Success:          true,
		AwbNumber:        shipment.AwbNumber,
		TrackingURL:      shipment.TrackingURL,
		ReferenceNumber:  req.ShipmentID,
		RetryCount:       attempts - 1,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}
	g.observeAwbIssued(false)
	g.logger.WithShipment(req.ShipmentID).Info("AWB issued",
		"awbNumber", result.AwbNumber, "carrier", g.carrierCode(), "retries", result.RetryCount)
	return result
}

func (g *Gateway) createShipmentOnce(ctx context.Context, req domain.AwbRequest, attempt int) (*domain.CarrierShipment, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, g.config.CallTimeout)
	defer cancel()

	start := time.Now()
	raw, err := g.breaker.Execute(attemptCtx, func() (interface{}, error) {
		shipment, err := g.adapter.CreateShipment(attemptCtx, req)
		if err != nil {
			return nil, err
		}
		if shipment.AwbNumber == "" {
			return nil, domain.NewCarrierError("EMPTY_AWB", "carrier accepted shipment without a tracking number", true, false, nil)
		}
		return shipment, nil
	})
	duration := time.Since(start)

	g.logger.CarrierCall(ctx, g.carrierCode(), "create_shipment", attempt, duration, err)
	if g.metrics != nil {
		outcome := "success"
		if err != nil {
			outcome = "failure"
		}
		g.metrics.ObserveCarrierCall(g.carrierCode(), "create_shipment", outcome, duration)
	}

	if err != nil {
		return nil, err
	}
	return raw.(*domain.CarrierShipment), nil
}

// validationMessage flattens a validation error into one message naming
// the offending fields.
func validationMessage(appErr *apperrors.AppError) string {
	if len(appErr.Details) == 0 {
		return appErr.Message
	}
	fields := make([]string, 0, len(appErr.Details))
	for field, msg := range appErr.Details {
		fields = append(fields, field+" "+msg)
	}
	sort.Strings(fields)
	return "invalid awb request: " + strings.Join(fields, "; ")
}

func (g *Gateway) fallbackAwb(req domain.AwbRequest, reason string, retries int, start time.Time) *domain.AwbResult {
	result := g.synthetic.GenerateAwb(req)
	result.RetryCount = retries
	result.ProcessingTimeMs = time.Since(start).Milliseconds()

	if g.metrics != nil {
		g.metrics.CarrierFallbackTotal.WithLabelValues(g.carrierCode(), reason).Inc()
	}
	g.observeAwbIssued(true)
	return result
}

func (g *Gateway) observeAwbIssued(fallback bool) {
	if g.metrics == nil {
		return
	}
	label := "false"
	if fallback {
		label = "true"
	}
	g.metrics.AwbsIssued.WithLabelValues(g.carrierCode(), label).Inc()
}

// GenerateLabel fetches the shipping label for an issued AWB. Synthetic
// AWBs and carrier failures both yield a locally generated label.
func (g *Gateway) GenerateLabel(ctx context.Context, awbNumber string) *domain.LabelResult {
	if awbNumber == "" {
		return &domain.LabelResult{Success: false, Error: "awb number is required"}
	}

	if g.fallbackOnly || IsSyntheticAwb(awbNumber) {
		return g.fallbackLabel(awbNumber, FallbackReasonConfigured)
	}

	start := time.Now()
	raw, err := g.breaker.Execute(ctx, func() (interface{}, error) {
		labelCtx, cancel := context.WithTimeout(ctx, g.config.CallTimeout)
		defer cancel()
		return g.adapter.FetchLabel(labelCtx, awbNumber)
	})
	duration := time.Since(start)

	g.logger.CarrierCall(ctx, g.carrierCode(), "fetch_label", 1, duration, err)
	if g.metrics != nil {
		outcome := "success"
		if err != nil {
			outcome = "failure"
		}
		g.metrics.ObserveCarrierCall(g.carrierCode(), "fetch_label", outcome, duration)
	}

	if err != nil {
		g.logger.WithError(err).Warn("Label fetch failed, serving fallback", "awbNumber", awbNumber)
		return g.fallbackLabel(awbNumber, FallbackReasonExhausted)
	}

	if g.metrics != nil {
		g.metrics.LabelsGenerated.WithLabelValues(g.carrierCode(), "false").Inc()
	}
	return &domain.LabelResult{Success: true, AwbNumber: awbNumber, LabelURL: raw.(string)}
}

func (g *Gateway) fallbackLabel(awbNumber, reason string) *domain.LabelResult {
	if g.metrics != nil {
		g.metrics.CarrierFallbackTotal.WithLabelValues(g.carrierCode(), reason).Inc()
		g.metrics.LabelsGenerated.WithLabelValues(g.carrierCode(), "true").Inc()
	}
	return g.synthetic.GenerateLabel(awbNumber)
}

// Track returns the tracking history for an AWB. Synthetic AWBs are
// served from the provider's simulated progression without touching the
// carrier.
func (g *Gateway) Track(ctx context.Context, awbNumber string) *domain.TrackingResult {
	if awbNumber == "" {
		return &domain.TrackingResult{Success: false, Error: "awb number is required"}
	}

	if g.fallbackOnly || IsSyntheticAwb(awbNumber) {
		return g.synthetic.Track(awbNumber, time.Now())
	}

	start := time.Now()
	raw, err := g.breaker.Execute(ctx, func() (interface{}, error) {
		trackCtx, cancel := context.WithTimeout(ctx, g.config.CallTimeout)
		defer cancel()
		return g.adapter.FetchTracking(trackCtx, awbNumber)
	})
	duration := time.Since(start)

	g.logger.CarrierCall(ctx, g.carrierCode(), "fetch_tracking", 1, duration, err)
	if g.metrics != nil {
		outcome := "success"
		if err != nil {
			outcome = "failure"
		}
		g.metrics.ObserveCarrierCall(g.carrierCode(), "fetch_tracking", outcome, duration)
	}

	if err != nil {
		return &domain.TrackingResult{Success: false, AwbNumber: awbNumber, Error: err.Error()}
	}
	return raw.(*domain.TrackingResult)
}

// TrackBatch resolves tracking for many AWBs in fixed-size batches with
// a pause between them. Every AWB settles to a result; individual
// failures never abort the batch.
func (g *Gateway) TrackBatch(ctx context.Context, awbNumbers []string) []*domain.TrackingResult {
	results := make([]*domain.TrackingResult, len(awbNumbers))

	for batchStart := 0; batchStart < len(awbNumbers); batchStart += trackBatchSize {
		batchEnd := batchStart + trackBatchSize
		if batchEnd > len(awbNumbers) {
			batchEnd = len(awbNumbers)
		}

		eg, batchCtx := errgroup.WithContext(ctx)
		for i := batchStart; i < batchEnd; i++ {
			idx := i
			eg.Go(func() error {
				results[idx] = g.Track(batchCtx, awbNumbers[idx])
				return nil
			})
		}
		_ = eg.Wait()

		if batchEnd < len(awbNumbers) {
			select {
			case <-ctx.Done():
				for i := batchEnd; i < len(awbNumbers); i++ {
					results[i] = &domain.TrackingResult{
						Success:   false,
						AwbNumber: awbNumbers[i],
						Error:     ctx.Err().Error(),
					}
				}
				return results
			case <-time.After(trackBatchPause):
			}
		}
	}

	return results
}

var _ domain.CourierGateway = (*Gateway)(nil)
