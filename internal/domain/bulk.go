package domain

import (
	"fmt"
	"strings"
)

// BulkShipmentCost is one shipment's contribution to a bulk aggregation
type BulkShipmentCost struct {
	ShipmentID    string        `json:"shipmentId"`
	RecipientName string        `json:"recipientName"`
	Breakdown     CostBreakdown `json:"breakdown"`
	Payer         PartyRole     `json:"payer"`
}

// BulkCostRow is a flattened per-shipment line for tabular export
type BulkCostRow struct {
	ShipmentID    string    `json:"shipmentId"`
	RecipientName string    `json:"recipientName"`
	BaseCost      float64   `json:"baseCost"`
	WeightCost    float64   `json:"weightCost"`
	SurchargeCost float64   `json:"surchargeCost"`
	MarkupCost    float64   `json:"markupCost"`
	InsuranceCost float64   `json:"insuranceCost"`
	TotalCost     float64   `json:"totalCost"`
	Payer         PartyRole `json:"payer"`
}

// BulkCostSummary aggregates N shipment cost breakdowns into per-payer
// totals. All four payer roles are always present in CostByPayer, and
// GrandTotal equals their sum exactly. Built fresh per request.
type BulkCostSummary struct {
	Rows        []BulkCostRow         `json:"rows"`
	CostByPayer map[PartyRole]float64 `json:"costByPayer"`
	GrandTotal  float64               `json:"grandTotal"`
}

// Aggregate folds shipment cost breakdowns into a bulk summary
func Aggregate(shipments []BulkShipmentCost) BulkCostSummary {
	summary := BulkCostSummary{
		Rows:        make([]BulkCostRow, 0, len(shipments)),
		CostByPayer: make(map[PartyRole]float64, len(AllPartyRoles)),
	}
	for _, role := range AllPartyRoles {
		summary.CostByPayer[role] = 0
	}

	for _, s := range shipments {
		summary.Rows = append(summary.Rows, BulkCostRow{
			ShipmentID:    s.ShipmentID,
			RecipientName: s.RecipientName,
			BaseCost:      s.Breakdown.BaseCost,
			WeightCost:    s.Breakdown.WeightCost,
			SurchargeCost: s.Breakdown.SurchargeCost,
			MarkupCost:    s.Breakdown.MarkupCost,
			InsuranceCost: s.Breakdown.InsuranceAmount(),
			TotalCost:     s.Breakdown.TotalCost,
			Payer:         s.Payer,
		})
		summary.CostByPayer[s.Payer] = round2(summary.CostByPayer[s.Payer] + s.Breakdown.TotalCost)
	}

	for _, role := range AllPartyRoles {
		summary.GrandTotal = round2(summary.GrandTotal + summary.CostByPayer[role])
	}

	return summary
}

// ExportCSV renders the summary as a comma-separated table: one row per
// shipment, a blank line, a per-payer summary block, and a grand-total
// row. Column order is fixed.
func (s BulkCostSummary) ExportCSV() string {
	var b strings.Builder

	b.WriteString("id,recipient,base,weight,surcharge,markup,insurance,total,payer\n")
	for _, row := range s.Rows {
		fmt.Fprintf(&b, "%s,%s,%.2f,%.2f,%.2f,%.2f,%.2f,%.2f,%s\n",
			row.ShipmentID, row.RecipientName,
			row.BaseCost, row.WeightCost, row.SurchargeCost, row.MarkupCost,
			row.InsuranceCost, row.TotalCost, row.Payer)
	}

	b.WriteString("\n")
	for _, role := range AllPartyRoles {
		fmt.Fprintf(&b, "total_%s,%.2f\n", strings.ToLower(string(role)), s.CostByPayer[role])
	}
	fmt.Fprintf(&b, "grand_total,%.2f\n", s.GrandTotal)

	return b.String()
}
