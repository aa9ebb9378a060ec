package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"reselling-toolbox/internal/models"
	"reselling-toolbox/internal/pricing"
)

const stockListLimit = 300

// ListStock returns the inventory page data set. Filters: q (free text
// over SKU/title/condition/source/ref/brand/size/location code), status,
// in_stock=1, age_min / age_max in days on the created date.
func (h *Handler) ListStock(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	status := strings.TrimSpace(c.Query("status"))
	if c.Query("in_stock") == "1" {
		status = models.StockInStock
	}

	query := h.db.Model(&models.StockUnit{}).Where("archived = ?", false)

	if status != "" {
		query = query.Where("status = ?", status)
	}

	now := time.Now()
	if ageMin, err := strconv.Atoi(c.Query("age_min")); err == nil && ageMin >= 0 {
		query = query.Where("created_at <= ?", now.AddDate(0, 0, -ageMin))
	}
	if ageMax, err := strconv.Atoi(c.Query("age_max")); err == nil && ageMax >= 0 {
		query = query.Where("created_at >= ?", now.AddDate(0, 0, -ageMax))
	}

	if q != "" {
		like := "%" + q + "%"
		query = query.Where(
			h.db.Where("sku LIKE ?", like).
				Or("title_override LIKE ?", like).
				Or("`condition` LIKE ?", like).
				Or("purchased_from LIKE ?", like).
				Or("purchase_ref LIKE ?", like).
				Or("brand LIKE ?", like).
				Or("size LIKE ?", like).
				Or("location_id IN (?)", h.db.Model(&models.Location{}).Select("id").Where("code LIKE ?", like)),
		)
	}

	var units []models.StockUnit
	if err := query.Preload("Location").Order("created_at DESC").Limit(stockListLimit).Find(&units).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": units, "count": len(units)})
}

func (h *Handler) GetStockBySKU(c *gin.Context) {
	sku := strings.TrimSpace(c.Query("sku"))
	if sku == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing sku"})
		return
	}

	var unit models.StockUnit
	if err := h.db.Preload("Location").Preload("Product").Where("sku = ?", sku).First(&unit).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "SKU not found"})
		return
	}

	var listings []models.Listing
	h.db.Where("stock_unit_id = ?", unit.ID).Order("created_at DESC").Find(&listings)

	c.JSON(http.StatusOK, gin.H{"unit": unit, "listings": listings})
}

// NextSKU hands out the next free SKU for the current month, shaped
// YYMM-NNNNN.
func (h *Handler) NextSKU(c *gin.Context) {
	sku, err := nextSKU(h.db, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sku": sku})
}

func nextSKU(db *gorm.DB, now time.Time) (string, error) {
	prefix := now.Format("0601") // YYMM

	var last models.StockUnit
	err := db.Where("sku LIKE ?", prefix+"-%").Order("sku DESC").First(&last).Error

	lastNum := 0
	if err == nil {
		parts := strings.SplitN(last.SKU, "-", 2)
		if len(parts) == 2 {
			if n, parseErr := strconv.Atoi(parts[1]); parseErr == nil {
				lastNum = n
			}
		}
	} else if err != gorm.ErrRecordNotFound {
		return "", err
	}

	return fmt.Sprintf("%s-%05d", prefix, lastNum+1), nil
}

// GetStockPricing prices one unit with the default markdown policy.
func (h *Handler) GetStockPricing(c *gin.Context) {
	var unit models.StockUnit
	if err := h.db.Where("sku = ?", c.Param("sku")).First(&unit).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "SKU not found"})
		return
	}

	margin := decimal.Zero
	if unit.TargetMarginPct.Valid {
		margin = unit.TargetMarginPct.Decimal
	}

	ageDays := pricing.AgeDays(unit.PurchasedAt, time.Now())
	result := h.policy.Quote(pricing.Input{
		PurchaseCost:    unit.PurchaseCost,
		ExtraFees:       unit.ExtraCost,
		TargetMarginPct: margin,
		AgeDays:         ageDays,
	})

	c.JSON(http.StatusOK, gin.H{
		"sku":      unit.SKU,
		"age_days": ageDays,
		"pricing":  result,
	})
}

type createStockRequest struct {
	SKU             string           `json:"sku"`
	TitleOverride   string           `json:"title_override"`
	Condition       string           `json:"condition"`
	Status          string           `json:"status"`
	PurchaseCost    decimal.Decimal  `json:"purchase_cost"`
	ExtraCost       decimal.Decimal  `json:"extra_cost"`
	TargetMarginPct *decimal.Decimal `json:"target_margin_pct"`
	PurchasedAt     string           `json:"purchased_at"` // YYYY-MM-DD
	PurchasedFrom   string           `json:"purchased_from"`
	PurchaseRef     string           `json:"purchase_ref"`
	PurchaseURL     string           `json:"purchase_url"`
	Brand           string           `json:"brand"`
	Size            string           `json:"size"`
	LocationCode    string           `json:"location_code"`
	Notes           string           `json:"notes"`
}

func (h *Handler) CreateStock(c *gin.Context) {
	var req createStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if strings.TrimSpace(req.SKU) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing SKU"})
		return
	}

	locationID, err := h.upsertLocationID(h.db, req.LocationCode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	status := req.Status
	if status == "" {
		status = models.StockInStock
	}
	if !models.IsStockStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	purchasedAt := time.Now()
	if req.PurchasedAt != "" {
		purchasedAt, err = time.Parse("2006-01-02", req.PurchasedAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid purchased_at date"})
			return
		}
	}

	unit := models.StockUnit{
		SKU:           strings.TrimSpace(req.SKU),
		TitleOverride: req.TitleOverride,
		Condition:     req.Condition,
		Status:        status,
		PurchaseCost:  req.PurchaseCost,
		ExtraCost:     req.ExtraCost,
		PurchasedAt:   purchasedAt,
		PurchasedFrom: req.PurchasedFrom,
		PurchaseRef:   req.PurchaseRef,
		PurchaseURL:   req.PurchaseURL,
		Brand:         req.Brand,
		Size:          req.Size,
		LocationID:    locationID,
		Notes:         req.Notes,
	}
	if req.TargetMarginPct != nil {
		unit.TargetMarginPct = decimal.NullDecimal{Decimal: *req.TargetMarginPct, Valid: true}
	}

	if err := h.db.Create(&unit).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sku": unit.SKU})
}

type updateStockRequest struct {
	SKU             string           `json:"sku"`
	TitleOverride   *string          `json:"title_override"`
	Condition       *string          `json:"condition"`
	Notes           *string          `json:"notes"`
	Status          *string          `json:"status"`
	PurchaseCost    *decimal.Decimal `json:"purchase_cost"`
	ExtraCost       *decimal.Decimal `json:"extra_cost"`
	TargetMarginPct *decimal.Decimal `json:"target_margin_pct"`
	PurchasedAt     *string          `json:"purchased_at"`
	LocationCode    *string          `json:"location_code"`
	Archived        *bool            `json:"archived"`
}

// UpdateStock applies a partial update by SKU. Absent fields stay
// untouched; an empty location code clears the location.
func (h *Handler) UpdateStock(c *gin.Context) {
	var req updateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.SKU == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing sku"})
		return
	}

	updates := map[string]interface{}{}

	if req.TitleOverride != nil {
		updates["title_override"] = *req.TitleOverride
	}
	if req.Condition != nil {
		updates["condition"] = *req.Condition
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.Status != nil {
		if !models.IsStockStatus(*req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		updates["status"] = *req.Status
	}
	if req.PurchaseCost != nil {
		updates["purchase_cost"] = *req.PurchaseCost
	}
	if req.ExtraCost != nil {
		updates["extra_cost"] = *req.ExtraCost
	}
	if req.TargetMarginPct != nil {
		updates["target_margin_pct"] = *req.TargetMarginPct
	}
	if req.PurchasedAt != nil && *req.PurchasedAt != "" {
		purchasedAt, err := time.Parse("2006-01-02", *req.PurchasedAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid purchased_at date"})
			return
		}
		updates["purchased_at"] = purchasedAt
	}
	if req.LocationCode != nil {
		code := strings.TrimSpace(*req.LocationCode)
		if code == "" {
			updates["location_id"] = nil
		} else {
			locationID, err := h.upsertLocationID(h.db, code)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			updates["location_id"] = locationID
		}
	}
	if req.Archived != nil {
		updates["archived"] = *req.Archived
		if *req.Archived {
			updates["archived_at"] = time.Now()
		} else {
			updates["archived_at"] = nil
		}
	}

	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	if err := h.db.Model(&models.StockUnit{}).Where("sku = ?", req.SKU).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DuplicateStock copies a unit under a fresh SKU, with the status reset
// for the new physical item.
func (h *Handler) DuplicateStock(c *gin.Context) {
	var req struct {
		SKU string `json:"sku"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.SKU == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing sku"})
		return
	}

	var source models.StockUnit
	if err := h.db.Where("sku = ?", req.SKU).First(&source).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "SKU not found"})
		return
	}

	newSKU, err := nextSKU(h.db, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	copyUnit := models.StockUnit{
		SKU:             newSKU,
		ProductID:       source.ProductID,
		LocationID:      source.LocationID,
		TitleOverride:   source.TitleOverride,
		Condition:       source.Condition,
		Status:          models.StockInStock,
		PurchaseCost:    source.PurchaseCost,
		ExtraCost:       source.ExtraCost,
		TargetMarginPct: source.TargetMarginPct,
		PurchasedAt:     source.PurchasedAt,
		PurchasedFrom:   source.PurchasedFrom,
		PurchaseRef:     source.PurchaseRef,
		PurchaseURL:     source.PurchaseURL,
		Brand:           source.Brand,
		Size:            source.Size,
		Notes:           source.Notes,
	}
	if err := h.db.Create(&copyUnit).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sku": copyUnit.SKU})
}

type batchUpdateRequest struct {
	SKUs              []string          `json:"skus"`
	Action            string            `json:"action"`
	Status            string            `json:"status"`
	MarkdownPercent   *float64          `json:"markdown_percent"`
	LocationCode      string            `json:"location_code"`
	ExpectedUpdatedAt map[string]string `json:"expected_updated_at"`
}

// BatchUpdateStock runs one action over many SKUs. Callers may pass the
// updated_at they last saw per SKU; rows changed since then are skipped
// and reported as conflicts. Every batch writes an audit log row in the
// same transaction.
func (h *Handler) BatchUpdateStock(c *gin.Context) {
	var req batchUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	skus := make([]string, 0, len(req.SKUs))
	for _, s := range req.SKUs {
		if s != "" {
			skus = append(skus, s)
		}
	}
	if len(skus) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No SKUs provided"})
		return
	}
	if req.Action == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing action"})
		return
	}

	var units []models.StockUnit
	if err := h.db.Where("sku IN ? AND archived = ?", skus, false).Find(&units).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	bySKU := map[string]models.StockUnit{}
	for _, u := range units {
		bySKU[u.SKU] = u
	}

	conflictSKUs := []string{}
	actionable := []string{}
	for _, sku := range skus {
		unit, ok := bySKU[sku]
		if !ok {
			continue
		}
		expected, ok := req.ExpectedUpdatedAt[sku]
		if !ok || expected == "" {
			actionable = append(actionable, sku)
			continue
		}
		expectedTime, err := time.Parse(time.RFC3339, expected)
		if err != nil || !expectedTime.Equal(unit.UpdatedAt) {
			conflictSKUs = append(conflictSKUs, sku)
			continue
		}
		actionable = append(actionable, sku)
	}

	if len(actionable) == 0 {
		status := http.StatusOK
		if len(conflictSKUs) > 0 {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"ok": true, "updated": 0, "conflict_skus": conflictSKUs})
		return
	}

	details := map[string]interface{}{}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := h.applyBatchAction(tx, req, actionable, bySKU, details); err != nil {
			return err
		}

		// Audit row commits or rolls back with the stock mutation.
		logRow := batchAuditLog(req.Action, actionable, conflictSKUs, details)
		return tx.Create(&logRow).Error
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "updated": len(actionable), "conflict_skus": conflictSKUs})
}

// batchAuditLog shapes the audit row written alongside every batch
// mutation.
func batchAuditLog(action string, actionable, conflictSKUs []string, details map[string]interface{}) models.InventoryActionLog {
	skusJSON, _ := json.Marshal(actionable)
	conflictsJSON, _ := json.Marshal(conflictSKUs)
	detailsJSON, _ := json.Marshal(details)
	return models.InventoryActionLog{
		Action:       action,
		SKUCount:     len(actionable),
		SKUs:         string(skusJSON),
		ConflictSKUs: string(conflictsJSON),
		Details:      string(detailsJSON),
	}
}

func (h *Handler) applyBatchAction(tx *gorm.DB, req batchUpdateRequest, actionable []string, bySKU map[string]models.StockUnit, details map[string]interface{}) error {
	switch req.Action {
	case "set_status":
		if !models.IsStockStatus(req.Status) {
			return fmt.Errorf("Invalid status")
		}
		details["status"] = req.Status
		return tx.Model(&models.StockUnit{}).
			Where("sku IN ?", actionable).
			Update("status", req.Status).Error

	case "markdown":
		if req.MarkdownPercent == nil || *req.MarkdownPercent < 0 || *req.MarkdownPercent > 100 {
			return fmt.Errorf("Invalid markdown_percent")
		}
		details["markdown_percent"] = *req.MarkdownPercent
		multiplier := decimal.NewFromFloat(1 - *req.MarkdownPercent/100)
		for _, sku := range actionable {
			unit := bySKU[sku]
			nextCost := unit.PurchaseCost.Mul(multiplier).Round(2)
			if nextCost.IsNegative() {
				nextCost = decimal.Zero
			}
			if err := tx.Model(&models.StockUnit{}).
				Where("sku = ?", sku).
				Update("purchase_cost", nextCost).Error; err != nil {
				return err
			}
		}
		return nil

	case "move_location":
		code := strings.ToUpper(strings.TrimSpace(req.LocationCode))
		if code == "" {
			return fmt.Errorf("Invalid location_code")
		}
		details["location_code"] = code
		locationID, err := h.upsertLocationID(tx, code)
		if err != nil {
			return err
		}
		return tx.Model(&models.StockUnit{}).
			Where("sku IN ?", actionable).
			Update("location_id", locationID).Error

	case "archive":
		return tx.Model(&models.StockUnit{}).
			Where("sku IN ?", actionable).
			Updates(map[string]interface{}{"archived": true, "archived_at": time.Now()}).Error

	default:
		return fmt.Errorf("Unsupported action")
	}
}

func (h *Handler) ArchiveStock(c *gin.Context) {
	var req struct {
		SKU string `json:"sku"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.SKU == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing sku"})
		return
	}

	if err := h.db.Model(&models.StockUnit{}).Where("sku = ?", req.SKU).
		Updates(map[string]interface{}{"archived": true, "archived_at": time.Now()}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) ArchiveManyStock(c *gin.Context) {
	var req struct {
		SKUs []string `json:"skus"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.SKUs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No SKUs provided"})
		return
	}

	result := h.db.Model(&models.StockUnit{}).Where("sku IN ?", req.SKUs).
		Updates(map[string]interface{}{"archived": true, "archived_at": time.Now()})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "updated": result.RowsAffected})
}

// PermanentDeleteStock removes archived units for good. Units that are
// not archived, or that appear on a sale, are reported back as blocked
// instead of deleted.
func (h *Handler) PermanentDeleteStock(c *gin.Context) {
	var req struct {
		IDs []uint `json:"ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "No ids provided"})
		return
	}

	var found []models.StockUnit
	if err := h.db.Where("id IN ?", req.IDs).Find(&found).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	var soldUnitIDs []uint
	h.db.Model(&models.SaleLine{}).Where("stock_unit_id IN ?", req.IDs).
		Pluck("stock_unit_id", &soldUnitIDs)
	hasSaleLine := map[uint]bool{}
	for _, id := range soldUnitIDs {
		hasSaleLine[id] = true
	}

	deletable := []uint{}
	blocked := []gin.H{}
	for _, u := range found {
		if u.Archived && !hasSaleLine[u.ID] {
			deletable = append(deletable, u.ID)
			continue
		}
		blocked = append(blocked, gin.H{
			"id":            u.ID,
			"sku":           u.SKU,
			"archived":      u.Archived,
			"has_sale_line": hasSaleLine[u.ID],
		})
	}

	deleted := int64(0)
	if len(deletable) > 0 {
		result := h.db.Delete(&models.StockUnit{}, deletable)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": result.Error.Error()})
			return
		}
		deleted = result.RowsAffected
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":                 true,
		"requested":          len(req.IDs),
		"found":              len(found),
		"eligible_to_delete": len(deletable),
		"deleted":            deleted,
		"blocked":            blocked,
	})
}

// ImportStockFromURL fetches a marketplace listing page and suggests
// field values for a new unit.
func (h *Handler) ImportStockFromURL(c *gin.Context) {
	var req struct {
		URL string `json:"url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.URL) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL is required"})
		return
	}

	imported, err := h.importer.Import(strings.TrimSpace(req.URL))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"imported": imported})
}

// upsertLocationID resolves a location code to an id, creating the
// location (uppercased, type Box) when it does not exist yet. An empty
// code resolves to no location.
func (h *Handler) upsertLocationID(db *gorm.DB, code string) (*uint, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, nil
	}

	var loc models.Location
	if err := db.Where(models.Location{Code: code}).
		Attrs(models.Location{Type: "Box"}).
		FirstOrCreate(&loc).Error; err != nil {
		return nil, err
	}
	return &loc.ID, nil
}
