package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"reselling-toolbox/internal/models"
)

func (h *Handler) ListListings(c *gin.Context) {
	query := h.db.Model(&models.Listing{})

	if status := strings.TrimSpace(c.Query("status")); status != "" {
		query = query.Where("status = ?", status)
	}
	if platform := strings.TrimSpace(c.Query("platform")); platform != "" {
		query = query.Where("platform = ?", platform)
	}
	if sku := strings.TrimSpace(c.Query("sku")); sku != "" {
		query = query.Where("stock_unit_id IN (?)",
			h.db.Model(&models.StockUnit{}).Select("id").Where("sku = ?", sku))
	}

	var listings []models.Listing
	if err := query.Preload("StockUnit").Order("created_at DESC").Find(&listings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": listings, "count": len(listings)})
}

type createListingRequest struct {
	SKU       string          `json:"sku"`
	Platform  string          `json:"platform"`
	ListingID string          `json:"listing_id"`
	URL       string          `json:"url"`
	AskPrice  decimal.Decimal `json:"ask_price"`
	ListedAt  string          `json:"listed_at"` // YYYY-MM-DD, defaults to today
}

// CreateListing records where a unit is advertised and flips the unit to
// LISTED when it was sitting in stock.
func (h *Handler) CreateListing(c *gin.Context) {
	var req createListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.SKU == "" || req.Platform == "" || req.ListingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing sku, platform or listing_id"})
		return
	}

	var unit models.StockUnit
	if err := h.db.Where("sku = ?", req.SKU).First(&unit).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "SKU not found"})
		return
	}

	listedAt := time.Now()
	if req.ListedAt != "" {
		var err error
		listedAt, err = time.Parse("2006-01-02", req.ListedAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listed_at"})
			return
		}
	}

	listing := models.Listing{
		StockUnitID: unit.ID,
		Platform:    strings.TrimSpace(req.Platform),
		ListingID:   strings.TrimSpace(req.ListingID),
		URL:         req.URL,
		AskPrice:    req.AskPrice,
		Status:      models.ListingActive,
		ListedAt:    &listedAt,
	}
	if err := h.db.Create(&listing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if unit.Status == models.StockInStock {
		h.db.Model(&unit).Update("status", models.StockListed)
	}

	c.JSON(http.StatusOK, gin.H{"id": listing.ID})
}

type updateListingRequest struct {
	Status   *string          `json:"status"`
	AskPrice *decimal.Decimal `json:"ask_price"`
	URL      *string          `json:"url"`
}

func (h *Handler) UpdateListing(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing id"})
		return
	}

	var req updateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var listing models.Listing
	if err := h.db.First(&listing, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	updates := map[string]interface{}{}
	if req.Status != nil {
		if !models.IsListingStatus(*req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		updates["status"] = *req.Status
		if *req.Status != models.ListingActive && listing.EndedAt == nil {
			updates["ended_at"] = time.Now()
		}
	}
	if req.AskPrice != nil {
		updates["ask_price"] = *req.AskPrice
	}
	if req.URL != nil {
		updates["url"] = *req.URL
	}

	if len(updates) > 0 {
		if err := h.db.Model(&listing).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) DeleteListing(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing id"})
		return
	}

	result := h.db.Delete(&models.Listing{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
