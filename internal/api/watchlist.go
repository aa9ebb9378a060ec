package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"reselling-toolbox/internal/models"
)

func (h *Handler) GetWatchlist(c *gin.Context) {
	var watches []models.ProductWatch
	if err := h.db.Where("active = ?", true).
		Preload("Product").
		Order("created_at DESC").
		Find(&watches).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": watches, "count": len(watches)})
}

type addWatchRequest struct {
	ProductID uint   `json:"product_id"`
	Title     string `json:"title"`
	Brand     string `json:"brand"`
}

// AddToWatchlist watches an existing product by id, or creates a product
// from title/brand and watches that. Re-adding a product reactivates its
// watch.
func (h *Handler) AddToWatchlist(c *gin.Context) {
	var req addWatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	productID := req.ProductID
	if productID == 0 {
		title := strings.TrimSpace(req.Title)
		if title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing product_id or title"})
			return
		}
		product := models.Product{Title: title, Brand: req.Brand}
		if err := h.db.Where(models.Product{Title: title, Brand: req.Brand}).
			FirstOrCreate(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		productID = product.ID
	} else if err := h.db.First(&models.Product{}, productID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var watch models.ProductWatch
	err := h.db.Where("product_id = ?", productID).First(&watch).Error
	switch {
	case err == nil:
		if !watch.Active {
			h.db.Model(&watch).Update("active", true)
		}
	case err == gorm.ErrRecordNotFound:
		watch = models.ProductWatch{ProductID: productID, Active: true}
		if err := h.db.Create(&watch).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": watch.ID, "product_id": productID})
}

// RemoveFromWatchlist deactivates the watch rather than deleting it, so
// re-adding keeps history.
func (h *Handler) RemoveFromWatchlist(c *gin.Context) {
	var req struct {
		ProductID uint `json:"product_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ProductID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing product_id"})
		return
	}

	result := h.db.Model(&models.ProductWatch{}).
		Where("product_id = ?", req.ProductID).
		Update("active", false)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "updated": result.RowsAffected})
}
