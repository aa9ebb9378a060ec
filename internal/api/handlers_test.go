package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reselling-toolbox/internal/models"
)

func TestBatchAuditLog(t *testing.T) {
	row := batchAuditLog("markdown",
		[]string{"2506-00001", "2506-00002"},
		[]string{"2506-00003"},
		map[string]interface{}{"markdown_percent": 10.0})

	assert.Equal(t, "markdown", row.Action)
	assert.Equal(t, 2, row.SKUCount)
	assert.JSONEq(t, `["2506-00001","2506-00002"]`, row.SKUs)
	assert.JSONEq(t, `["2506-00003"]`, row.ConflictSKUs)
	assert.JSONEq(t, `{"markdown_percent":10}`, row.Details)
}

func TestBatchAuditLogEmptyBatch(t *testing.T) {
	row := batchAuditLog("archive", []string{}, []string{}, map[string]interface{}{})
	assert.Equal(t, 0, row.SKUCount)
	assert.JSONEq(t, `[]`, row.SKUs)
	assert.JSONEq(t, `[]`, row.ConflictSKUs)
}

func TestProductLabelPrefixesBrand(t *testing.T) {
	assert.Equal(t, "Nike Air Max 95",
		productLabel(models.Product{Brand: "Nike", Title: "Air Max 95"}))
	assert.Equal(t, "Air Max 95",
		productLabel(models.Product{Title: "Air Max 95"}))
}

func TestFulfillmentStampsShippedAlwaysRestamps(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	earlier := now.AddDate(0, 0, -3)

	// A sale already stamped still gets a fresh ship time on re-ship.
	stamps := fulfillmentStamps(models.FulfillmentShipped,
		models.Sale{ShippedAt: &earlier}, now)
	require.Contains(t, stamps, "shipped_at")
	assert.Equal(t, now, stamps["shipped_at"])
	assert.NotContains(t, stamps, "delivered_at")
}

func TestFulfillmentStampsDeliveredBackfills(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	earlier := now.AddDate(0, 0, -3)

	stamps := fulfillmentStamps(models.FulfillmentDelivered, models.Sale{}, now)
	assert.Equal(t, now, stamps["shipped_at"])
	assert.Equal(t, now, stamps["delivered_at"])

	// Existing timestamps survive delivery.
	stamps = fulfillmentStamps(models.FulfillmentDelivered,
		models.Sale{ShippedAt: &earlier, DeliveredAt: &earlier}, now)
	assert.Empty(t, stamps)
}

func TestFulfillmentStampsOtherStatuses(t *testing.T) {
	now := time.Now()
	for _, status := range []string{
		models.FulfillmentPending,
		models.FulfillmentPacked,
		models.FulfillmentIssue,
	} {
		assert.Empty(t, fulfillmentStamps(status, models.Sale{}, now), status)
	}
}
