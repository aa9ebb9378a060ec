// Package reports folds sale and inventory snapshots into the derived
// numbers shown on the dashboard and reports pages. Everything here is
// pure: the API layer fetches rows, shapes them into these projections,
// and reads values back out.
package reports

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleRecord is the read-only projection of a sale the aggregator works
// on. A sale with no lines is valid and contributes zero revenue/cost.
type SaleRecord struct {
	SaleDate        time.Time
	Platform        string
	ShippingCharged decimal.Decimal
	PlatformFees    decimal.Decimal
	ShippingCost    decimal.Decimal
	OtherCosts      decimal.Decimal
	Lines           []SaleLineRecord
	Returns         []ReturnRecord
}

type SaleLineRecord struct {
	SalePrice    decimal.Decimal
	PurchaseCost decimal.Decimal
}

type ReturnRecord struct {
	RefundAmount       decimal.Decimal
	ReturnShippingCost decimal.Decimal
}

// UnitRecord is the projection of a stock unit used for stock-health
// numbers (aging, inventory value, sell-through).
type UnitRecord struct {
	Status       string
	Archived     bool
	PurchaseCost decimal.Decimal
	PurchasedAt  time.Time
}

// MoverLine is one sold line enriched with its product link, used for
// velocity stats. Lines without a product are skipped by TopMovers.
type MoverLine struct {
	ProductID    uint
	Product      string
	Watched      bool
	SaleDate     time.Time
	SalePrice    decimal.Decimal
	PurchaseCost decimal.Decimal
	PurchasedAt  time.Time
}

// ListingRow is one listing joined with its unit, for per-platform
// sell-through slices.
type ListingRow struct {
	Platform     string
	StockUnitID  uint
	UnitStatus   string
	PurchaseCost decimal.Decimal
}
