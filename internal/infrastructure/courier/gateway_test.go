package courier

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logistics-platform/shipment-engine/internal/domain"
	"github.com/logistics-platform/shipment-engine/pkg/logging"
)

type stubAdapter struct {
	mu          sync.Mutex
	createCalls int
	trackCalls  int
	labelCalls  int

	// Scripted per-call outcomes; the last entry repeats.
	createErrs []error
	shipment   *domain.CarrierShipment
	tracking   *domain.TrackingResult
	trackErr   error
	labelURL   string
	labelErr   error
}

func (s *stubAdapter) Code() string { return "delhivery" }

func (s *stubAdapter) CreateShipment(_ context.Context, req domain.AwbRequest) (*domain.CarrierShipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	call := s.createCalls
	s.createCalls++

	if len(s.createErrs) > 0 {
		idx := call
		if idx >= len(s.createErrs) {
			idx = len(s.createErrs) - 1
		}
		if err := s.createErrs[idx]; err != nil {
			return nil, err
		}
	}
	if s.shipment != nil {
		return s.shipment, nil
	}
	return &domain.CarrierShipment{AwbNumber: "DL123456789", TrackingURL: "https://track.example/DL123456789"}, nil
}

func (s *stubAdapter) FetchLabel(_ context.Context, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.labelCalls++
	return s.labelURL, s.labelErr
}

func (s *stubAdapter) FetchTracking(_ context.Context, awb string) (*domain.TrackingResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trackCalls++
	if s.trackErr != nil {
		return nil, s.trackErr
	}
	if s.tracking != nil {
		return s.tracking, nil
	}
	return &domain.TrackingResult{Success: true, AwbNumber: awb, Status: "IN_TRANSIT"}, nil
}

func validAwbRequest() domain.AwbRequest {
	return domain.AwbRequest{
		ShipmentID:    "SHP-001",
		RecipientName: "Apex Service Hub",
		Phone:         "9876543210",
		Address:       "14 MG Road",
		City:          "Bengaluru",
		State:         "Karnataka",
		Pincode:       "560001",
		NumBoxes:      2,
		WeightKg:      1.5,
		DeclaredValue: 1200,
	}
}

func testGateway(adapter domain.CarrierAdapter, cfg Config) *Gateway {
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = time.Millisecond
	}
	return NewGateway(adapter, cfg, logging.New(logging.DefaultConfig("test")), nil)
}

func TestGenerateAwbSuccess(t *testing.T) {
	adapter := &stubAdapter{}
	got := testGateway(adapter, Config{}).GenerateAwb(context.Background(), validAwbRequest())

	assert.True(t, got.Success)
	assert.False(t, got.FallbackMode)
	assert.Equal(t, "DL123456789", got.AwbNumber)
	assert.Equal(t, "SHP-001", got.ReferenceNumber)
	assert.Equal(t, 0, got.RetryCount)
	assert.Equal(t, 1, adapter.createCalls)
}

func TestGenerateAwbInvalidRequestFailsWithoutCarrierCall(t *testing.T) {
	adapter := &stubAdapter{}
	req := validAwbRequest()
	req.Pincode = "12345"

	got := testGateway(adapter, Config{}).GenerateAwb(context.Background(), req)

	assert.False(t, got.Success, "invalid input can never be served")
	assert.False(t, got.FallbackMode)
	assert.Empty(t, got.AwbNumber)
	assert.Contains(t, got.Error, "pincode")
	assert.Equal(t, 0, adapter.createCalls, "invalid requests must never reach the carrier")
}

func TestGenerateAwbConfiguredFallbackMode(t *testing.T) {
	adapter := &stubAdapter{}
	got := testGateway(adapter, Config{FallbackMode: true}).GenerateAwb(context.Background(), validAwbRequest())

	assert.True(t, got.Success)
	assert.True(t, got.FallbackMode)
	assert.True(t, IsSyntheticAwb(got.AwbNumber))
	assert.Equal(t, 0, adapter.createCalls)
}

func TestGenerateAwbRetriesThenSucceeds(t *testing.T) {
	transient := domain.NewCarrierError("HTTP_503", "service unavailable", true, false, nil)
	adapter := &stubAdapter{createErrs: []error{transient, transient, nil}}

	got := testGateway(adapter, Config{}).GenerateAwb(context.Background(), validAwbRequest())

	assert.True(t, got.Success)
	assert.False(t, got.FallbackMode)
	assert.Equal(t, 2, got.RetryCount)
	assert.Equal(t, 3, adapter.createCalls)
}

func TestGenerateAwbExhaustsRetriesReportsFailure(t *testing.T) {
	transient := domain.NewCarrierError("HTTP_503", "service unavailable", true, false, nil)
	adapter := &stubAdapter{createErrs: []error{transient}}

	got := testGateway(adapter, Config{MaxAttempts: 4}).GenerateAwb(context.Background(), validAwbRequest())

	assert.False(t, got.Success, "exhausted retries must not mint a placeholder AWB")
	assert.False(t, got.FallbackMode)
	assert.Empty(t, got.AwbNumber)
	assert.Contains(t, got.Error, "service unavailable", "last underlying error must be carried")
	assert.Equal(t, 3, got.RetryCount)
	assert.Equal(t, 4, adapter.createCalls)
}

func TestGenerateAwbAuthFailureFallsBackImmediately(t *testing.T) {
	authErr := domain.NewCarrierError("HTTP_401", "invalid api key", false, true, nil)
	adapter := &stubAdapter{createErrs: []error{authErr}}

	got := testGateway(adapter, Config{}).GenerateAwb(context.Background(), validAwbRequest())

	assert.True(t, got.Success)
	assert.True(t, got.FallbackMode)
	assert.Equal(t, 1, adapter.createCalls, "auth failures must not be retried")
}

func TestGenerateAwbEmptyTrackingNumberIsFailure(t *testing.T) {
	adapter := &stubAdapter{shipment: &domain.CarrierShipment{AwbNumber: ""}}

	got := testGateway(adapter, Config{MaxAttempts: 2}).GenerateAwb(context.Background(), validAwbRequest())

	assert.False(t, got.Success, "an accepted response without a tracking number is not a success")
	assert.Contains(t, got.Error, "tracking number")
	assert.Equal(t, 2, adapter.createCalls, "an empty tracking number is retried like any transient failure")
}

func TestGenerateLabel(t *testing.T) {
	t.Run("Carrier label", func(t *testing.T) {
		adapter := &stubAdapter{labelURL: "https://cdn.example/label.pdf"}
		got := testGateway(adapter, Config{}).GenerateLabel(context.Background(), "DL123456789")

		assert.True(t, got.Success)
		assert.False(t, got.FallbackMode)
		assert.Equal(t, "https://cdn.example/label.pdf", got.LabelURL)
	})

	t.Run("Synthetic AWB never reaches carrier", func(t *testing.T) {
		adapter := &stubAdapter{}
		awb := NewSyntheticProvider().GenerateAwb(validAwbRequest()).AwbNumber

		got := testGateway(adapter, Config{}).GenerateLabel(context.Background(), awb)

		assert.True(t, got.Success)
		assert.True(t, got.FallbackMode)
		assert.Equal(t, 0, adapter.labelCalls)
	})

	t.Run("Carrier failure degrades to local label", func(t *testing.T) {
		adapter := &stubAdapter{labelErr: domain.NewCarrierError("HTTP_500", "server error", true, false, nil)}
		got := testGateway(adapter, Config{}).GenerateLabel(context.Background(), "DL123456789")

		assert.True(t, got.Success)
		assert.True(t, got.FallbackMode)
	})

	t.Run("Empty AWB is rejected", func(t *testing.T) {
		got := testGateway(&stubAdapter{}, Config{}).GenerateLabel(context.Background(), "")
		assert.False(t, got.Success)
	})
}

func TestTrack(t *testing.T) {
	t.Run("Carrier tracking", func(t *testing.T) {
		adapter := &stubAdapter{}
		got := testGateway(adapter, Config{}).Track(context.Background(), "DL123456789")

		assert.True(t, got.Success)
		assert.Equal(t, "IN_TRANSIT", got.Status)
		assert.Equal(t, 1, adapter.trackCalls)
	})

	t.Run("Synthetic AWB served locally", func(t *testing.T) {
		adapter := &stubAdapter{}
		awb := NewSyntheticProvider().GenerateAwb(validAwbRequest()).AwbNumber

		got := testGateway(adapter, Config{}).Track(context.Background(), awb)

		assert.True(t, got.Success)
		assert.True(t, got.FallbackMode)
		assert.Equal(t, 0, adapter.trackCalls)
	})

	t.Run("Carrier failure reports error", func(t *testing.T) {
		adapter := &stubAdapter{trackErr: domain.NewCarrierError("HTTP_500", "server error", true, false, nil)}
		got := testGateway(adapter, Config{}).Track(context.Background(), "DL123456789")

		assert.False(t, got.Success)
		assert.NotEmpty(t, got.Error)
	})
}

func TestTrackBatchSettlesEveryAwb(t *testing.T) {
	adapter := &stubAdapter{trackErr: domain.NewCarrierError("HTTP_500", "server error", true, false, nil)}
	synthetic := NewSyntheticProvider().GenerateAwb(validAwbRequest()).AwbNumber

	awbs := []string{"DL1", "DL2", synthetic, "DL3", "DL4", "DL5", "DL6"}
	results := testGateway(adapter, Config{}).TrackBatch(context.Background(), awbs)

	require.Len(t, results, len(awbs))
	for i, r := range results {
		require.NotNil(t, r, "awb %s must settle to a result", awbs[i])
		assert.Equal(t, awbs[i], r.AwbNumber)
	}
	assert.True(t, results[2].Success, "synthetic awb resolves even when the carrier is down")
	assert.False(t, results[0].Success)
	assert.Equal(t, len(awbs)-1, adapter.trackCalls)
}

func TestTrackBatchEmpty(t *testing.T) {
	results := testGateway(&stubAdapter{}, Config{}).TrackBatch(context.Background(), nil)
	assert.Empty(t, results)
}
