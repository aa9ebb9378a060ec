package models

import "testing"

func TestFormatStatus(t *testing.T) {
	cases := map[string]string{
		"IN_STOCK":    "In Stock",
		"LISTED":      "Listed",
		"WRITTEN_OFF": "Written Off",
		"SOLD":        "Sold",
	}
	for in, want := range cases {
		if got := FormatStatus(in); got != want {
			t.Errorf("FormatStatus(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStatusValidators(t *testing.T) {
	if !IsStockStatus(StockReturned) {
		t.Error("RETURNED should be a valid stock status")
	}
	if IsStockStatus("SHIPPED") {
		t.Error("SHIPPED is a fulfillment status, not a stock status")
	}
	if !IsFulfillmentStatus(FulfillmentIssue) {
		t.Error("ISSUE should be a valid fulfillment status")
	}
	if IsListingStatus("") {
		t.Error("empty string is not a listing status")
	}
}

func TestDeliveredIsTerminal(t *testing.T) {
	if len(NextFulfillmentOptions[FulfillmentDelivered]) != 0 {
		t.Errorf("DELIVERED should have no next options, got %v",
			NextFulfillmentOptions[FulfillmentDelivered])
	}
	for _, status := range FulfillmentStatuses {
		for _, next := range NextFulfillmentOptions[status] {
			if !IsFulfillmentStatus(next) {
				t.Errorf("transition %s -> %s targets an unknown status", status, next)
			}
		}
	}
}
