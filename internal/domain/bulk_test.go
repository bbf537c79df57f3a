package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bulkFixture() []BulkShipmentCost {
	pricing := testPricing()
	return []BulkShipmentCost{
		{
			ShipmentID:    "SHP-001",
			RecipientName: "Sharma Electronics",
			Breakdown:     ComputeCost(pricing, CostInput{NumBoxes: 2, TotalWeightKg: 1.5}),
			Payer:         RoleBrand,
		},
		{
			ShipmentID:    "SHP-002",
			RecipientName: "Apex Service Hub",
			Breakdown:     ComputeCost(pricing, CostInput{NumBoxes: 1, TotalWeightKg: 4, RemoteArea: true}),
			Payer:         RoleServiceCenter,
		},
		{
			ShipmentID:    "SHP-003",
			RecipientName: "Sharma Electronics",
			Breakdown:     ComputeCost(pricing, CostInput{NumBoxes: 3, TotalWeightKg: 8, DeclaredValue: 6000, InsuranceRequired: true}),
			Payer:         RoleBrand,
		},
	}
}

func TestAggregate(t *testing.T) {
	summary := Aggregate(bulkFixture())

	require.Len(t, summary.Rows, 3)

	// Every payer role is present even when it owes nothing.
	for _, role := range AllPartyRoles {
		_, ok := summary.CostByPayer[role]
		assert.True(t, ok, "missing payer bucket %s", role)
	}
	assert.Equal(t, 0.0, summary.CostByPayer[RoleDistributor])
	assert.Equal(t, 0.0, summary.CostByPayer[RoleCustomer])

	var payerSum float64
	for _, total := range summary.CostByPayer {
		payerSum += total
	}
	assert.InDelta(t, summary.GrandTotal, payerSum, 0.001, "payer buckets must sum to grand total")

	var rowSum float64
	for _, row := range summary.Rows {
		rowSum += row.TotalCost
	}
	assert.InDelta(t, summary.GrandTotal, rowSum, 0.011, "row totals must sum to grand total")
}

func TestAggregateEmpty(t *testing.T) {
	summary := Aggregate(nil)

	assert.Empty(t, summary.Rows)
	assert.Equal(t, 0.0, summary.GrandTotal)
	require.Len(t, summary.CostByPayer, len(AllPartyRoles))
	for role, total := range summary.CostByPayer {
		assert.Equal(t, 0.0, total, "payer %s", role)
	}
}

func TestExportCSV(t *testing.T) {
	summary := Aggregate(bulkFixture())
	csv := summary.ExportCSV()

	lines := strings.Split(strings.TrimRight(csv, "\n"), "\n")
	// Header + 3 rows + blank separator + 4 payer totals + grand total.
	require.Len(t, lines, 9)

	assert.Equal(t, "id,recipient,base,weight,surcharge,markup,insurance,total,payer", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "SHP-001,Sharma Electronics,100.00,12.50,"))
	assert.Equal(t, "", lines[4])
	assert.True(t, strings.HasPrefix(lines[5], "total_brand,"))
	assert.Contains(t, csv, "total_service_center,")
	assert.Contains(t, csv, "total_distributor,0.00")
	assert.Contains(t, csv, "total_customer,0.00")
	assert.True(t, strings.HasPrefix(lines[8], "grand_total,"))

	// Every monetary cell renders with exactly two decimals.
	for _, line := range lines[1:4] {
		cells := strings.Split(line, ",")
		require.Len(t, cells, 9)
		for _, cell := range cells[2:8] {
			parts := strings.Split(cell, ".")
			require.Len(t, parts, 2, "cell %q in %q", cell, line)
			assert.Len(t, parts[1], 2, "cell %q in %q", cell, line)
		}
	}
}
