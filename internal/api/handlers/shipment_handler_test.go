package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logistics-platform/shipment-engine/internal/application"
	"github.com/logistics-platform/shipment-engine/internal/domain"
	"github.com/logistics-platform/shipment-engine/pkg/logging"
)

type fakePartyDirectory struct {
	parties map[string]*domain.Party
}

func (f *fakePartyDirectory) GetParty(_ context.Context, id string) (*domain.Party, error) {
	return f.parties[id], nil
}

type fakeResolver struct{}

func (fakeResolver) Resolve(_ context.Context, _ string, shipmentType domain.ShipmentType) domain.PricingConfig {
	return domain.DefaultPricing(shipmentType)
}

type fakeGateway struct{}

func (fakeGateway) GenerateAwb(_ context.Context, req domain.AwbRequest) *domain.AwbResult {
	return &domain.AwbResult{Success: true, AwbNumber: "DL123", TrackingURL: "https://track/DL123", ReferenceNumber: req.ShipmentID}
}

func (fakeGateway) GenerateLabel(_ context.Context, awbNumber string) *domain.LabelResult {
	return &domain.LabelResult{Success: true, AwbNumber: awbNumber, LabelURL: "/labels/" + awbNumber + ".pdf"}
}

func (fakeGateway) Track(_ context.Context, awbNumber string) *domain.TrackingResult {
	return &domain.TrackingResult{Success: true, AwbNumber: awbNumber, Status: "IN_TRANSIT"}
}

func (g fakeGateway) TrackBatch(ctx context.Context, awbNumbers []string) []*domain.TrackingResult {
	results := make([]*domain.TrackingResult, len(awbNumbers))
	for i, awb := range awbNumbers {
		results[i] = g.Track(ctx, awb)
	}
	return results
}

type fakeShipmentStore struct{}

func (fakeShipmentStore) UpdateShipment(context.Context, string, domain.ShipmentPatch) error {
	return nil
}

type fakePublisher struct{}

func (fakePublisher) Publish(context.Context, domain.DomainEvent) error { return nil }

func newTestRouter() *gin.Engine {
	parties := &fakePartyDirectory{parties: map[string]*domain.Party{
		"brand-1": {ID: "brand-1", Name: "Volt Appliances", Role: domain.RoleBrand, Phone: "9876543210",
			Address: "1 Industrial Estate", City: "Pune", State: "Maharashtra", Pincode: "411001"},
		"sc-1": {ID: "sc-1", Name: "Apex Service Hub", Role: domain.RoleServiceCenter, Phone: "9876500000",
			Address: "14 MG Road", City: "Bengaluru", State: "Karnataka", Pincode: "560001"},
	}}

	logger := logging.New(&logging.Config{
		Level:       logging.LevelInfo,
		ServiceName: "test",
		Environment: "test",
		Version:     "test",
		Output:      io.Discard,
	})

	service := application.NewShipmentService(
		parties, fakeResolver{}, fakeGateway{}, fakeShipmentStore{},
		application.NewFixedWeightEstimator(), application.NewPincodePrefixRemoteChecker(),
		fakePublisher{}, logger, nil,
	)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewShipmentHandler(service, logger).RegisterRoutes(router)
	return router
}

func performRequest(router *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func marshal(t *testing.T, payload any) []byte {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return body
}

func createShipmentPayload() map[string]any {
	return map[string]any{
		"shipmentId":    "SHP-001",
		"senderId":      "brand-1",
		"receiverId":    "sc-1",
		"numBoxes":      2,
		"weightKg":      1.5,
		"declaredValue": 1200,
	}
}

func TestCreateShipmentBadJSON(t *testing.T) {
	router := newTestRouter()
	resp := performRequest(router, http.MethodPost, "/api/v1/shipments", []byte("{bad"))
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCreateShipmentSuccess(t *testing.T) {
	router := newTestRouter()
	resp := performRequest(router, http.MethodPost, "/api/v1/shipments", marshal(t, createShipmentPayload()))
	require.Equal(t, http.StatusCreated, resp.Code)

	var result application.ShipmentResultDTO
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, "FORWARD", result.Classification.ShipmentType)
	assert.Equal(t, 129.38, result.Cost.TotalCost)
	require.NotNil(t, result.Awb)
	assert.Equal(t, "DL123", result.Awb.AwbNumber)
}

func TestCreateShipmentUnknownParty(t *testing.T) {
	router := newTestRouter()
	payload := createShipmentPayload()
	payload["senderId"] = "nobody"

	resp := performRequest(router, http.MethodPost, "/api/v1/shipments", marshal(t, payload))
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	var result application.ShipmentResultDTO
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestClassifySuccess(t *testing.T) {
	router := newTestRouter()
	body := marshal(t, map[string]any{"senderRole": "BRAND", "receiverRole": "SERVICE_CENTER"})

	resp := performRequest(router, http.MethodPost, "/api/v1/classification", body)
	require.Equal(t, http.StatusOK, resp.Code)

	var result application.PricingPreviewDTO
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	assert.Equal(t, "FORWARD", result.Classification.ShipmentType)
	assert.Equal(t, "BRAND", result.Payer.Payer)
}

func TestClassifyInvalidRole(t *testing.T) {
	router := newTestRouter()
	body := marshal(t, map[string]any{"senderRole": "WIZARD", "receiverRole": "SERVICE_CENTER"})

	resp := performRequest(router, http.MethodPost, "/api/v1/classification", body)
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestPreviewPricing(t *testing.T) {
	router := newTestRouter()
	body := marshal(t, map[string]any{
		"senderRole":    "BRAND",
		"receiverRole":  "SERVICE_CENTER",
		"numBoxes":      2,
		"weightKg":      1.5,
		"declaredValue": 1200,
	})

	resp := performRequest(router, http.MethodPost, "/api/v1/pricing/preview", body)
	require.Equal(t, http.StatusOK, resp.Code)

	var result application.PricingPreviewDTO
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	assert.Equal(t, 129.38, result.Cost.TotalCost)
	assert.Equal(t, "default", result.Cost.PricingSource)
}

func bulkPayload() map[string]any {
	pricing := map[string]any{
		"senderRole":   "BRAND",
		"receiverRole": "SERVICE_CENTER",
		"numBoxes":     2,
		"weightKg":     1.5,
	}
	return map[string]any{
		"shipments": []map[string]any{
			{"shipmentId": "S1", "recipientName": "Apex Service Hub", "pricing": pricing},
			{"shipmentId": "S2", "recipientName": "Apex Service Hub", "pricing": pricing},
		},
	}
}

func TestPriceBulk(t *testing.T) {
	router := newTestRouter()
	resp := performRequest(router, http.MethodPost, "/api/v1/pricing/bulk", marshal(t, bulkPayload()))
	require.Equal(t, http.StatusOK, resp.Code)

	var result application.BulkSummaryDTO
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	require.Len(t, result.Rows, 2)
	assert.Equal(t, 258.76, result.GrandTotal)
	assert.Equal(t, 258.76, result.CostByPayer["BRAND"])
}

func TestPriceBulkEmpty(t *testing.T) {
	router := newTestRouter()
	body := marshal(t, map[string]any{"shipments": []map[string]any{}})

	resp := performRequest(router, http.MethodPost, "/api/v1/pricing/bulk", body)
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestExportBulkCSV(t *testing.T) {
	router := newTestRouter()
	resp := performRequest(router, http.MethodPost, "/api/v1/pricing/bulk/export", marshal(t, bulkPayload()))
	require.Equal(t, http.StatusOK, resp.Code)

	assert.Equal(t, "text/csv", resp.Header().Get("Content-Type"))
	assert.Contains(t, resp.Header().Get("Content-Disposition"), "attachment")

	body := resp.Body.String()
	assert.True(t, strings.HasPrefix(body, "id,recipient,"), "missing CSV header: %q", body)
	assert.Contains(t, body, "S1,Apex Service Hub,100.00,12.50,")
	assert.Contains(t, body, "grand_total,258.76")
}

func TestQuoteInsurance(t *testing.T) {
	router := newTestRouter()
	body := marshal(t, map[string]any{"declaredValue": 5000})

	resp := performRequest(router, http.MethodPost, "/api/v1/insurance/quote", body)
	require.Equal(t, http.StatusOK, resp.Code)

	var result application.InsuranceDTO
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	assert.True(t, result.ThresholdMet)
	assert.Equal(t, 100.0, result.InsuranceCost)
	assert.Equal(t, 118.0, result.TotalInsuranceCharge)
}

func TestGenerateAwb(t *testing.T) {
	router := newTestRouter()
	body := marshal(t, map[string]any{
		"shipmentId":    "SHP-002",
		"recipientName": "Apex Service Hub",
		"phone":         "9876543210",
		"address":       "14 MG Road",
		"city":          "Bengaluru",
		"state":         "Karnataka",
		"pincode":       "560001",
		"numBoxes":      1,
		"weightKg":      2.0,
		"declaredValue": 900,
	})

	resp := performRequest(router, http.MethodPost, "/api/v1/awb", body)
	require.Equal(t, http.StatusCreated, resp.Code)

	var result application.AwbDTO
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, "DL123", result.AwbNumber)
}

func TestGenerateLabel(t *testing.T) {
	router := newTestRouter()
	resp := performRequest(router, http.MethodPost, "/api/v1/awb/DL123/label", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var result application.LabelDTO
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	assert.Equal(t, "/labels/DL123.pdf", result.LabelURL)
}

func TestTrack(t *testing.T) {
	router := newTestRouter()
	resp := performRequest(router, http.MethodGet, "/api/v1/awb/DL123/tracking", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var result application.TrackingDTO
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	assert.Equal(t, "IN_TRANSIT", result.Status)
}

func TestTrackBatch(t *testing.T) {
	router := newTestRouter()
	body := marshal(t, map[string]any{"awbNumbers": []string{"DL123", "DL124"}})

	resp := performRequest(router, http.MethodPost, "/api/v1/awb/tracking/batch", body)
	require.Equal(t, http.StatusOK, resp.Code)

	var results []application.TrackingDTO
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "DL124", results[1].AwbNumber)
}

func TestTrackBatchEmpty(t *testing.T) {
	router := newTestRouter()
	body := marshal(t, map[string]any{"awbNumbers": []string{}})

	resp := performRequest(router, http.MethodPost, "/api/v1/awb/tracking/batch", body)
	require.Equal(t, http.StatusBadRequest, resp.Code)
}
