package models

import "strings"

// Stock unit statuses
const (
	StockInStock    = "IN_STOCK"
	StockListed     = "LISTED"
	StockSold       = "SOLD"
	StockReturned   = "RETURNED"
	StockWrittenOff = "WRITTEN_OFF"
)

var StockStatuses = []string{
	StockInStock,
	StockListed,
	StockSold,
	StockReturned,
	StockWrittenOff,
}

// Fulfillment statuses for a sale
const (
	FulfillmentPending   = "PENDING"
	FulfillmentPacked    = "PACKED"
	FulfillmentShipped   = "SHIPPED"
	FulfillmentDelivered = "DELIVERED"
	FulfillmentIssue     = "ISSUE"
)

var FulfillmentStatuses = []string{
	FulfillmentPending,
	FulfillmentPacked,
	FulfillmentShipped,
	FulfillmentDelivered,
	FulfillmentIssue,
}

// NextFulfillmentOptions lists the statuses a sale may move to from each
// state. DELIVERED is terminal; ISSUE can be resolved to any state.
var NextFulfillmentOptions = map[string][]string{
	FulfillmentPending:   {FulfillmentPacked, FulfillmentShipped, FulfillmentIssue},
	FulfillmentPacked:    {FulfillmentShipped, FulfillmentIssue},
	FulfillmentShipped:   {FulfillmentDelivered, FulfillmentIssue},
	FulfillmentDelivered: {},
	FulfillmentIssue:     {FulfillmentPending, FulfillmentPacked, FulfillmentShipped, FulfillmentDelivered},
}

// Listing statuses
const (
	ListingActive = "ACTIVE"
	ListingEnded  = "ENDED"
	ListingSold   = "SOLD"
)

var ListingStatuses = []string{ListingActive, ListingEnded, ListingSold}

func IsStockStatus(value string) bool {
	return contains(StockStatuses, value)
}

func IsFulfillmentStatus(value string) bool {
	return contains(FulfillmentStatuses, value)
}

func IsListingStatus(value string) bool {
	return contains(ListingStatuses, value)
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

// FormatStatus turns an enum value like IN_STOCK into "In Stock" for display
func FormatStatus(status string) string {
	words := strings.Split(strings.ToLower(status), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
