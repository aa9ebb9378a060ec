package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry that stock units can link to. Velocity stats
// are only tracked for units with a linked product.
type Product struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"not null"`
	Brand     string    `json:"brand"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductWatch flags a product on the watchlist
type ProductWatch struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProductID uint      `json:"product_id" gorm:"unique;not null"`
	Product   Product   `json:"product" gorm:"foreignKey:ProductID"`
	Active    bool      `json:"active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Location is a physical storage spot (box, shelf, bag)
type Location struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Code      string    `json:"code" gorm:"unique;not null"` // stored uppercase, e.g. BOX-01
	Type      string    `json:"type" gorm:"default:'Box'"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StockUnit represents a single physical item being resold
type StockUnit struct {
	ID               uint                `json:"id" gorm:"primaryKey"`
	SKU              string              `json:"sku" gorm:"unique;not null"` // YYMM-NNNNN
	ProductID        *uint               `json:"product_id"`
	Product          *Product            `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	LocationID       *uint               `json:"location_id"`
	Location         *Location           `json:"location,omitempty" gorm:"foreignKey:LocationID"`
	TitleOverride    string              `json:"title_override"`
	Condition        string              `json:"condition"`
	Status           string              `json:"status" gorm:"default:'IN_STOCK'"` // see StockStatuses
	PurchaseCost     decimal.Decimal     `json:"purchase_cost" gorm:"type:decimal(10,2)"`
	ExtraCost        decimal.Decimal     `json:"extra_cost" gorm:"type:decimal(10,2)"`
	TargetMarginPct  decimal.NullDecimal `json:"target_margin_pct" gorm:"type:decimal(6,2)"`
	RecommendedPrice decimal.NullDecimal `json:"recommended_price" gorm:"type:decimal(10,2)"`
	PurchasedAt      time.Time           `json:"purchased_at"`
	PurchasedFrom    string              `json:"purchased_from"`
	PurchaseRef      string              `json:"purchase_ref"`
	PurchaseURL      string              `json:"purchase_url"`
	Brand            string              `json:"brand"`
	Size             string              `json:"size"`
	Notes            string              `json:"notes" gorm:"type:text"`
	Archived         bool                `json:"archived" gorm:"default:false;index"`
	ArchivedAt       *time.Time          `json:"archived_at"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// Sale is one order on a platform; it can cover several stock units
type Sale struct {
	ID                uint            `json:"id" gorm:"primaryKey"`
	Platform          string          `json:"platform" gorm:"not null;index"`
	SaleDate          time.Time       `json:"sale_date" gorm:"index"`
	OrderRef          string          `json:"order_ref"`
	ShippingCharged   decimal.Decimal `json:"shipping_charged" gorm:"type:decimal(10,2)"`
	PlatformFees      decimal.Decimal `json:"platform_fees" gorm:"type:decimal(10,2)"`
	ShippingCost      decimal.Decimal `json:"shipping_cost" gorm:"type:decimal(10,2)"`
	OtherCosts        decimal.Decimal `json:"other_costs" gorm:"type:decimal(10,2)"`
	Notes             string          `json:"notes" gorm:"type:text"`
	FulfillmentStatus string          `json:"fulfillment_status" gorm:"default:'PENDING'"`
	TrackingNumber    string          `json:"tracking_number"`
	Carrier           string          `json:"carrier"`
	ShippedAt         *time.Time      `json:"shipped_at"`
	DeliveredAt       *time.Time      `json:"delivered_at"`
	Archived          bool            `json:"archived" gorm:"default:false;index"`
	ArchivedAt        *time.Time      `json:"archived_at"`
	Lines             []SaleLine      `json:"lines" gorm:"foreignKey:SaleID"`
	ReturnCases       []ReturnCase    `json:"return_cases" gorm:"foreignKey:SaleID"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// SaleLine ties one stock unit to a sale. A unit can only ever be sold
// once, hence the unique index.
type SaleLine struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	SaleID      uint            `json:"sale_id" gorm:"not null;index"`
	StockUnitID uint            `json:"stock_unit_id" gorm:"unique;not null"`
	StockUnit   StockUnit       `json:"stock_unit" gorm:"foreignKey:StockUnitID"`
	SalePrice   decimal.Decimal `json:"sale_price" gorm:"type:decimal(10,2)"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ReturnCase tracks a buyer return against a sold unit
type ReturnCase struct {
	ID                 uint            `json:"id" gorm:"primaryKey"`
	SaleID             uint            `json:"sale_id" gorm:"not null;index"`
	StockUnitID        uint            `json:"stock_unit_id" gorm:"not null;index"`
	Reason             string          `json:"reason" gorm:"default:'Not specified'"`
	RefundAmount       decimal.Decimal `json:"refund_amount" gorm:"type:decimal(10,2)"`
	ReturnShippingCost decimal.Decimal `json:"return_shipping_cost" gorm:"type:decimal(10,2)"`
	Restockable        bool            `json:"restockable" gorm:"default:true"`
	OpenedAt           time.Time       `json:"opened_at" gorm:"autoCreateTime"`
	ClosedAt           *time.Time      `json:"closed_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// Listing records where a unit is advertised
type Listing struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	StockUnitID uint            `json:"stock_unit_id" gorm:"not null;index"`
	StockUnit   StockUnit       `json:"stock_unit" gorm:"foreignKey:StockUnitID"`
	Platform    string          `json:"platform" gorm:"not null"`
	ListingID   string          `json:"listing_id" gorm:"not null"` // platform-side id
	URL         string          `json:"url"`
	AskPrice    decimal.Decimal `json:"ask_price" gorm:"type:decimal(10,2)"`
	Status      string          `json:"status" gorm:"default:'ACTIVE'"` // ACTIVE, ENDED, SOLD
	ListedAt    *time.Time      `json:"listed_at"`
	EndedAt     *time.Time      `json:"ended_at"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// InventoryActionLog is an audit row written by every stock batch operation
type InventoryActionLog struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Action       string    `json:"action" gorm:"not null"`
	SKUCount     int       `json:"sku_count"`
	SKUs         string    `json:"skus" gorm:"type:text"`          // JSON array
	ConflictSKUs string    `json:"conflict_skus" gorm:"type:text"` // JSON array
	Details      string    `json:"details" gorm:"type:text"`       // JSON object
	CreatedAt    time.Time `json:"created_at"`
}
