package carriers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/logistics-platform/shipment-engine/internal/domain"
)

// Delhivery payload limits. The API rejects oversized fields and
// zero-valued packages, so values are shaped before submission.
const (
	delhiveryMaxNameLen    = 50
	delhiveryMaxAddressLen = 100
	delhiveryMinWeightKg   = 0.1
	delhiveryMinDeclared   = 100.0
)

var nonDigits = regexp.MustCompile(`\D`)

// DelhiveryAdapter is the anti-corruption layer for the Delhivery
// carrier API. It owns payload shaping and error translation; callers
// see only domain models and CarrierError.
type DelhiveryAdapter struct {
	apiKey     string
	clientName string
	baseURL    string
	pickupName string
	httpClient *http.Client
}

// NewDelhiveryAdapter creates a new Delhivery carrier adapter
func NewDelhiveryAdapter(apiKey, clientName, baseURL, pickupName string) *DelhiveryAdapter {
	return &DelhiveryAdapter{
		apiKey:     apiKey,
		clientName: clientName,
		baseURL:    strings.TrimRight(baseURL, "/"),
		pickupName: pickupName,
		httpClient: &http.Client{},
	}
}

// Code returns the carrier code this adapter handles
func (a *DelhiveryAdapter) Code() string {
	return "DELHIVERY"
}

// CreateShipment registers a shipment with Delhivery and returns the
// assigned waybill
func (a *DelhiveryAdapter) CreateShipment(ctx context.Context, req domain.AwbRequest) (*domain.CarrierShipment, error) {
	payload := a.toCreatePayload(req)

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, domain.NewCarrierError("MARSHAL_FAILED", "failed to encode shipment payload", false, false, err)
	}

	respBody, err := a.post(ctx, "/api/cmu/create.json", body)
	if err != nil {
		return nil, err
	}

	var resp delhiveryCreateResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, domain.NewCarrierError("BAD_RESPONSE", "unparseable carrier response", true, false, err)
	}

	return a.fromCreateResponse(&resp)
}

// FetchLabel retrieves the packing slip URL for a waybill
func (a *DelhiveryAdapter) FetchLabel(ctx context.Context, awbNumber string) (string, error) {
	respBody, err := a.get(ctx, "/api/p/packing_slip?wbns="+awbNumber+"&pdf=true")
	if err != nil {
		return "", err
	}

	var resp delhiveryLabelResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", domain.NewCarrierError("BAD_RESPONSE", "unparseable label response", true, false, err)
	}
	if len(resp.Packages) == 0 || resp.Packages[0].PdfDownloadLink == "" {
		return "", domain.NewCarrierError("NO_LABEL", "carrier returned no label for "+awbNumber, false, false, nil)
	}
	return resp.Packages[0].PdfDownloadLink, nil
}

// FetchTracking retrieves the scan history for a waybill
func (a *DelhiveryAdapter) FetchTracking(ctx context.Context, awbNumber string) (*domain.TrackingResult, error) {
	respBody, err := a.get(ctx, "/api/v1/packages/json/?waybill="+awbNumber)
	if err != nil {
		return nil, err
	}

	var resp delhiveryTrackingResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, domain.NewCarrierError("BAD_RESPONSE", "unparseable tracking response", true, false, err)
	}
	if len(resp.ShipmentData) == 0 {
		return nil, domain.NewCarrierError("NOT_FOUND", "no tracking data for "+awbNumber, false, false, nil)
	}

	return a.fromTrackingResponse(awbNumber, &resp), nil
}

func (a *DelhiveryAdapter) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, domain.NewCarrierError("REQUEST_FAILED", "failed to build carrier request", false, false, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return a.do(req)
}

func (a *DelhiveryAdapter) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+path, nil)
	if err != nil {
		return nil, domain.NewCarrierError("REQUEST_FAILED", "failed to build carrier request", false, false, err)
	}
	return a.do(req)
}

func (a *DelhiveryAdapter) do(req *http.Request) ([]byte, error) {
	req.Header.Set("Authorization", "Token "+a.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, a.translateTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, domain.NewCarrierError("READ_FAILED", "failed to read carrier response", true, false, err)
	}

	if resp.StatusCode >= 400 {
		return nil, a.translateHTTPStatus(resp.StatusCode, body)
	}
	return body, nil
}

// --- Translation (ACL) ---

func (a *DelhiveryAdapter) toCreatePayload(req domain.AwbRequest) *delhiveryCreateRequest {
	weight := req.WeightKg
	if weight < delhiveryMinWeightKg {
		weight = delhiveryMinWeightKg
	}
	declared := req.DeclaredValue
	if declared < delhiveryMinDeclared {
		declared = delhiveryMinDeclared
	}

	paymentMode := "Pre-paid"
	description := req.Description
	if description == "" {
		description = "Spare parts shipment"
	}

	return &delhiveryCreateRequest{
		Format: "json",
		PickupLocation: delhiveryPickupLocation{
			Name: a.pickupName,
		},
		Shipments: []delhiveryShipment{
			{
				Name:         truncate(req.RecipientName, delhiveryMaxNameLen),
				Add:          truncate(req.Address, delhiveryMaxAddressLen),
				City:         req.City,
				State:        req.State,
				Pin:          req.Pincode,
				Phone:        nonDigits.ReplaceAllString(req.Phone, ""),
				OrderID:      req.ShipmentID,
				PaymentMode:  paymentMode,
				TotalAmount:  declared,
				Weight:       weight,
				Quantity:     req.NumBoxes,
				ProductsDesc: truncate(description, delhiveryMaxAddressLen),
				ShippingMode: shippingMode(req.Express),
				ClientName:   a.clientName,
			},
		},
	}
}

func (a *DelhiveryAdapter) fromCreateResponse(resp *delhiveryCreateResponse) (*domain.CarrierShipment, error) {
	if len(resp.Packages) == 0 {
		return nil, domain.NewCarrierError("NO_PACKAGE", "carrier response contained no package", true, false, nil)
	}

	pkg := resp.Packages[0]
	if !strings.EqualFold(pkg.Status, "Success") {
		return nil, domain.NewCarrierError("REJECTED", "carrier rejected shipment: "+firstNonEmpty(pkg.Remarks, resp.RmkMessage, "unknown reason"), false, false, nil)
	}

	return &domain.CarrierShipment{
		AwbNumber:   pkg.Waybill,
		TrackingURL: "https://www.delhivery.com/track/package/" + pkg.Waybill,
	}, nil
}

func (a *DelhiveryAdapter) fromTrackingResponse(awbNumber string, resp *delhiveryTrackingResponse) *domain.TrackingResult {
	shipment := resp.ShipmentData[0].Shipment

	events := make([]domain.TrackingEvent, 0, len(shipment.Scans))
	for _, scan := range shipment.Scans {
		events = append(events, domain.TrackingEvent{
			Timestamp:   scan.ScanDetail.ScanDateTime,
			Location:    scan.ScanDetail.ScannedLocation,
			Status:      scan.ScanDetail.Scan,
			Description: scan.ScanDetail.Instructions,
		})
	}

	return &domain.TrackingResult{
		Success:   true,
		AwbNumber: awbNumber,
		Status:    shipment.Status.Status,
		Events:    events,
	}
}

func (a *DelhiveryAdapter) translateTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewCarrierError("TIMEOUT", "carrier call timed out", true, false, err)
	}
	if errors.Is(err, context.Canceled) {
		return domain.NewCarrierError("CANCELED", "carrier call canceled", false, false, err)
	}
	return domain.NewCarrierError("NETWORK", "carrier unreachable", true, false, err)
}

func (a *DelhiveryAdapter) translateHTTPStatus(status int, body []byte) error {
	code := fmt.Sprintf("HTTP_%d", status)
	message := strings.TrimSpace(string(body))
	if len(message) > 200 {
		message = message[:200]
	}
	if message == "" {
		message = http.StatusText(status)
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return domain.NewCarrierError(code, "carrier rejected credentials: "+message, false, true, nil)
	case status == http.StatusTooManyRequests || status >= 500:
		return domain.NewCarrierError(code, "carrier error: "+message, true, false, nil)
	default:
		return domain.NewCarrierError(code, "carrier rejected request: "+message, false, false, nil)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func shippingMode(express bool) string {
	if express {
		return "Express"
	}
	return "Surface"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// --- Delhivery API models ---

type delhiveryCreateRequest struct {
	Format         string                  `json:"format"`
	PickupLocation delhiveryPickupLocation `json:"pickup_location"`
	Shipments      []delhiveryShipment     `json:"shipments"`
}

type delhiveryPickupLocation struct {
	Name string `json:"name"`
}

type delhiveryShipment struct {
	Name         string  `json:"name"`
	Add          string  `json:"add"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	Pin          string  `json:"pin"`
	Phone        string  `json:"phone"`
	OrderID      string  `json:"order"`
	PaymentMode  string  `json:"payment_mode"`
	TotalAmount  float64 `json:"total_amount"`
	Weight       float64 `json:"weight"`
	Quantity     int     `json:"quantity"`
	ProductsDesc string  `json:"products_desc"`
	ShippingMode string  `json:"shipping_mode"`
	ClientName   string  `json:"client"`
}

type delhiveryCreateResponse struct {
	Success    bool               `json:"success"`
	RmkMessage string             `json:"rmk"`
	Packages   []delhiveryPackage `json:"packages"`
}

type delhiveryPackage struct {
	Status  string `json:"status"`
	Waybill string `json:"waybill"`
	Remarks string `json:"remarks"`
}

type delhiveryLabelResponse struct {
	Packages []struct {
		Waybill         string `json:"wbn"`
		PdfDownloadLink string `json:"pdf_download_link"`
	} `json:"packages"`
}

type delhiveryTrackingResponse struct {
	ShipmentData []struct {
		Shipment struct {
			Status struct {
				Status string `json:"Status"`
			} `json:"Status"`
			Scans []struct {
				ScanDetail struct {
					Scan            string    `json:"Scan"`
					ScanDateTime    time.Time `json:"ScanDateTime"`
					ScannedLocation string    `json:"ScannedLocation"`
					Instructions    string    `json:"Instructions"`
				} `json:"ScanDetail"`
			} `json:"Scans"`
		} `json:"Shipment"`
	} `json:"ShipmentData"`
}
