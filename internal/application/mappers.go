package application

import (
	"time"

	"github.com/logistics-platform/shipment-engine/internal/domain"
)

// ToClassificationDTO converts a domain classification to a DTO
func ToClassificationDTO(c domain.Classification) ClassificationDTO {
	return ClassificationDTO{
		ShipmentType: string(c.Type),
		Direction:    string(c.Direction),
		ReturnReason: string(c.ReturnReason),
	}
}

// ToPayerDTO converts a domain payer assignment to a DTO
func ToPayerDTO(p domain.PayerAssignment) PayerDTO {
	return PayerDTO{
		Payer:         string(p.Payer),
		Justification: p.Justification,
	}
}

// ToCostDTO converts a domain cost breakdown to a DTO
func ToCostDTO(b domain.CostBreakdown) CostDTO {
	return CostDTO{
		BaseCost:      b.BaseCost,
		WeightCost:    b.WeightCost,
		SurchargeCost: b.SurchargeCost,
		MarkupCost:    b.MarkupCost,
		InsuranceCost: b.InsuranceCost,
		TotalCost:     b.TotalCost,
		PricingSource: b.PricingSource,
		AppliedRules:  b.AppliedRules,
	}
}

// ToInsuranceDTO converts a domain insurance calculation to a DTO
func ToInsuranceDTO(c domain.InsuranceCalculation) InsuranceDTO {
	return InsuranceDTO{
		Required:             c.Required,
		ThresholdMet:         c.ThresholdMet,
		DeclaredValue:        c.DeclaredValue,
		InsuranceCost:        c.InsuranceCost,
		GSTAmount:            c.GSTAmount,
		TotalInsuranceCharge: c.TotalInsuranceCharge,
	}
}

// ToAwbDTO converts a gateway AWB result to a DTO
func ToAwbDTO(r *domain.AwbResult) *AwbDTO {
	if r == nil {
		return nil
	}
	return &AwbDTO{
		Success:          r.Success,
		AwbNumber:        r.AwbNumber,
		TrackingURL:      r.TrackingURL,
		ReferenceNumber:  r.ReferenceNumber,
		RetryCount:       r.RetryCount,
		ProcessingTimeMs: r.ProcessingTimeMs,
		Error:            r.Error,
		FallbackMode:     r.FallbackMode,
	}
}

// ToLabelDTO converts a gateway label result to a DTO
func ToLabelDTO(r *domain.LabelResult) *LabelDTO {
	if r == nil {
		return nil
	}
	return &LabelDTO{
		Success:      r.Success,
		AwbNumber:    r.AwbNumber,
		LabelURL:     r.LabelURL,
		Error:        r.Error,
		FallbackMode: r.FallbackMode,
	}
}

// ToTrackingDTO converts a gateway tracking result to a DTO
func ToTrackingDTO(r *domain.TrackingResult) *TrackingDTO {
	if r == nil {
		return nil
	}
	events := make([]TrackingEventDTO, 0, len(r.Events))
	for _, e := range r.Events {
		events = append(events, TrackingEventDTO{
			Timestamp:   e.Timestamp.UTC().Format(time.RFC3339),
			Location:    e.Location,
			Status:      e.Status,
			Description: e.Description,
		})
	}
	return &TrackingDTO{
		Success:      r.Success,
		AwbNumber:    r.AwbNumber,
		Status:       r.Status,
		Events:       events,
		Error:        r.Error,
		FallbackMode: r.FallbackMode,
	}
}

// ToBulkSummaryDTO converts a domain bulk summary to a DTO
func ToBulkSummaryDTO(s domain.BulkCostSummary) *BulkSummaryDTO {
	rows := make([]BulkRowDTO, 0, len(s.Rows))
	for _, row := range s.Rows {
		rows = append(rows, BulkRowDTO{
			ShipmentID:    row.ShipmentID,
			RecipientName: row.RecipientName,
			BaseCost:      row.BaseCost,
			WeightCost:    row.WeightCost,
			SurchargeCost: row.SurchargeCost,
			MarkupCost:    row.MarkupCost,
			InsuranceCost: row.InsuranceCost,
			TotalCost:     row.TotalCost,
			Payer:         string(row.Payer),
		})
	}

	byPayer := make(map[string]float64, len(s.CostByPayer))
	for role, total := range s.CostByPayer {
		byPayer[string(role)] = total
	}

	return &BulkSummaryDTO{
		Rows:        rows,
		CostByPayer: byPayer,
		GrandTotal:  s.GrandTotal,
	}
}
