package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"reselling-toolbox/internal/models"
)

// ListSales returns non-archived sales, newest first, with their lines
// and return cases. Optional filters: platform, fulfillment_status.
func (h *Handler) ListSales(c *gin.Context) {
	query := h.db.Model(&models.Sale{}).Where("archived = ?", false)

	if platform := strings.TrimSpace(c.Query("platform")); platform != "" {
		query = query.Where("platform = ?", platform)
	}
	if status := strings.TrimSpace(c.Query("fulfillment_status")); status != "" {
		query = query.Where("fulfillment_status = ?", status)
	}

	var sales []models.Sale
	if err := query.
		Preload("Lines.StockUnit").
		Preload("ReturnCases").
		Order("sale_date DESC, id DESC").
		Find(&sales).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": sales, "count": len(sales)})
}

func (h *Handler) ListArchivedSales(c *gin.Context) {
	var sales []models.Sale
	if err := h.db.Where("archived = ?", true).
		Preload("Lines.StockUnit").
		Order("archived_at DESC, id DESC").
		Find(&sales).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": sales, "count": len(sales)})
}

func (h *Handler) GetSale(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sale id"})
		return
	}

	var sale models.Sale
	if err := h.db.
		Preload("Lines.StockUnit").
		Preload("ReturnCases").
		First(&sale, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sale not found"})
		return
	}
	c.JSON(http.StatusOK, sale)
}

type createSaleLine struct {
	StockUnitID uint            `json:"stock_unit_id"`
	SalePrice   decimal.Decimal `json:"sale_price"`
}

type createSaleRequest struct {
	Platform        string           `json:"platform"`
	SaleDate        string           `json:"sale_date"` // YYYY-MM-DD, defaults to today
	OrderRef        string           `json:"order_ref"`
	ShippingCharged decimal.Decimal  `json:"shipping_charged"`
	PlatformFees    decimal.Decimal  `json:"platform_fees"`
	ShippingCost    decimal.Decimal  `json:"shipping_cost"`
	OtherCosts      decimal.Decimal  `json:"other_costs"`
	Notes           string           `json:"notes"`
	Lines           []createSaleLine `json:"lines"`
}

// CreateSale records an order and marks every unit on it as sold, in one
// transaction. Units that are missing or already sold fail the whole
// request.
func (h *Handler) CreateSale(c *gin.Context) {
	var req createSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if strings.TrimSpace(req.Platform) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing platform"})
		return
	}
	if len(req.Lines) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A sale needs at least one line"})
		return
	}

	saleDate := time.Now()
	if req.SaleDate != "" {
		var err error
		saleDate, err = time.Parse("2006-01-02", req.SaleDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sale_date"})
			return
		}
	}

	unitIDs := make([]uint, 0, len(req.Lines))
	for _, line := range req.Lines {
		if line.StockUnitID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock_unit_id on line"})
			return
		}
		unitIDs = append(unitIDs, line.StockUnitID)
	}

	var saleID uint
	err := h.db.Transaction(func(tx *gorm.DB) error {
		var units []models.StockUnit
		if err := tx.Where("id IN ?", unitIDs).Find(&units).Error; err != nil {
			return err
		}
		byID := map[uint]models.StockUnit{}
		for _, u := range units {
			byID[u.ID] = u
		}
		for _, id := range unitIDs {
			unit, ok := byID[id]
			if !ok {
				return errBadRequest("Stock unit not found")
			}
			if unit.Status == models.StockSold {
				return errBadRequest("Unit " + unit.SKU + " is already sold")
			}
		}

		sale := models.Sale{
			Platform:        strings.TrimSpace(req.Platform),
			SaleDate:        saleDate,
			OrderRef:        req.OrderRef,
			ShippingCharged: req.ShippingCharged,
			PlatformFees:    req.PlatformFees,
			ShippingCost:    req.ShippingCost,
			OtherCosts:      req.OtherCosts,
			Notes:           req.Notes,
		}
		if err := tx.Create(&sale).Error; err != nil {
			return err
		}
		saleID = sale.ID

		for _, line := range req.Lines {
			if err := tx.Create(&models.SaleLine{
				SaleID:      sale.ID,
				StockUnitID: line.StockUnitID,
				SalePrice:   line.SalePrice,
			}).Error; err != nil {
				return err
			}
		}

		return tx.Model(&models.StockUnit{}).
			Where("id IN ?", unitIDs).
			Update("status", models.StockSold).Error
	})
	if err != nil {
		status := http.StatusInternalServerError
		if _, ok := err.(badRequestError); ok {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": saleID})
}

// fulfillmentStamps returns the timestamp columns implied by a status
// move. SHIPPED refreshes shipped_at every time; DELIVERED backfills
// whichever timestamps are still missing. Explicit shipped_at /
// delivered_at values in the request are applied afterwards and win.
func fulfillmentStamps(status string, sale models.Sale, now time.Time) map[string]interface{} {
	stamps := map[string]interface{}{}
	switch status {
	case models.FulfillmentShipped:
		stamps["shipped_at"] = now
	case models.FulfillmentDelivered:
		if sale.ShippedAt == nil {
			stamps["shipped_at"] = now
		}
		if sale.DeliveredAt == nil {
			stamps["delivered_at"] = now
		}
	}
	return stamps
}

type updateFulfillmentRequest struct {
	Status         *string `json:"status"`
	TrackingNumber *string `json:"tracking_number"`
	Carrier        *string `json:"carrier"`
	ShippedAt      *string `json:"shipped_at"`   // RFC3339, "" clears
	DeliveredAt    *string `json:"delivered_at"` // RFC3339, "" clears
}

// UpdateFulfillment moves a sale through the dispatch pipeline. Moving to
// SHIPPED restamps the ship time; DELIVERED fills in whichever timestamps
// are still missing.
func (h *Handler) UpdateFulfillment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sale id"})
		return
	}

	var req updateFulfillmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var sale models.Sale
	if err := h.db.First(&sale, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sale not found"})
		return
	}

	updates := map[string]interface{}{}
	now := time.Now()

	if req.Status != nil {
		if !models.IsFulfillmentStatus(*req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fulfillment status"})
			return
		}
		updates["fulfillment_status"] = *req.Status
		for col, v := range fulfillmentStamps(*req.Status, sale, now) {
			updates[col] = v
		}
	}
	if req.TrackingNumber != nil {
		updates["tracking_number"] = *req.TrackingNumber
	}
	if req.Carrier != nil {
		updates["carrier"] = *req.Carrier
	}
	if req.ShippedAt != nil {
		if *req.ShippedAt == "" {
			updates["shipped_at"] = nil
		} else {
			t, err := time.Parse(time.RFC3339, *req.ShippedAt)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shipped_at"})
				return
			}
			updates["shipped_at"] = t
		}
	}
	if req.DeliveredAt != nil {
		if *req.DeliveredAt == "" {
			updates["delivered_at"] = nil
		} else {
			t, err := time.Parse(time.RFC3339, *req.DeliveredAt)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid delivered_at"})
				return
			}
			updates["delivered_at"] = t
		}
	}

	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	if err := h.db.Model(&models.Sale{}).Where("id = ?", sale.ID).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	current := sale.FulfillmentStatus
	if req.Status != nil {
		current = *req.Status
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "next_options": models.NextFulfillmentOptions[current]})
}

func (h *Handler) ArchiveSale(c *gin.Context) {
	h.setSalesArchived(c, true, false)
}

func (h *Handler) RestoreSale(c *gin.Context) {
	h.setSalesArchived(c, false, false)
}

func (h *Handler) ArchiveManySales(c *gin.Context) {
	h.setSalesArchived(c, true, true)
}

func (h *Handler) RestoreManySales(c *gin.Context) {
	h.setSalesArchived(c, false, true)
}

func (h *Handler) setSalesArchived(c *gin.Context, archived bool, many bool) {
	var ids []uint
	if many {
		var req struct {
			IDs []uint `json:"ids"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No ids provided"})
			return
		}
		ids = req.IDs
	} else {
		var req struct {
			ID uint `json:"id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.ID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing id"})
			return
		}
		ids = []uint{req.ID}
	}

	updates := map[string]interface{}{"archived": archived}
	if archived {
		updates["archived_at"] = time.Now()
	} else {
		updates["archived_at"] = nil
	}

	result := h.db.Model(&models.Sale{}).Where("id IN ?", ids).Updates(updates)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "updated": result.RowsAffected})
}

// PermanentDeleteSales removes archived sales and their lines and return
// cases. Sold units keep their SOLD status; deleting the paper trail does
// not put items back in stock.
func (h *Handler) PermanentDeleteSales(c *gin.Context) {
	var req struct {
		IDs []uint `json:"ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "No ids provided"})
		return
	}

	var eligible []uint
	if err := h.db.Model(&models.Sale{}).
		Where("id IN ? AND archived = ?", req.IDs, true).
		Pluck("id", &eligible).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	deleted := int64(0)
	if len(eligible) > 0 {
		err := h.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("sale_id IN ?", eligible).Delete(&models.SaleLine{}).Error; err != nil {
				return err
			}
			if err := tx.Where("sale_id IN ?", eligible).Delete(&models.ReturnCase{}).Error; err != nil {
				return err
			}
			result := tx.Delete(&models.Sale{}, eligible)
			deleted = result.RowsAffected
			return result.Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":        true,
		"requested": len(req.IDs),
		"eligible":  len(eligible),
		"deleted":   deleted,
	})
}

type badRequestError string

func (e badRequestError) Error() string { return string(e) }

func errBadRequest(msg string) error { return badRequestError(msg) }
