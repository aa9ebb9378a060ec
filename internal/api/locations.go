package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"reselling-toolbox/internal/models"
)

// ListLocations returns every location with how many active units sit in
// it.
func (h *Handler) ListLocations(c *gin.Context) {
	var locations []models.Location
	if err := h.db.Order("code ASC").Find(&locations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	type locationCount struct {
		LocationID uint
		Count      int
	}
	var counts []locationCount
	h.db.Model(&models.StockUnit{}).
		Select("location_id AS location_id, COUNT(*) AS count").
		Where("location_id IS NOT NULL AND archived = ?", false).
		Group("location_id").
		Scan(&counts)
	countByID := map[uint]int{}
	for _, lc := range counts {
		countByID[lc.LocationID] = lc.Count
	}

	items := make([]gin.H, 0, len(locations))
	for _, loc := range locations {
		items = append(items, gin.H{
			"id":         loc.ID,
			"code":       loc.Code,
			"type":       loc.Type,
			"notes":      loc.Notes,
			"unit_count": countByID[loc.ID],
			"created_at": loc.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) CreateLocation(c *gin.Context) {
	var req struct {
		Code  string `json:"code"`
		Type  string `json:"type"`
		Notes string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Code) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing code"})
		return
	}

	loc := models.Location{
		Code:  strings.ToUpper(strings.TrimSpace(req.Code)),
		Type:  req.Type,
		Notes: req.Notes,
	}
	if loc.Type == "" {
		loc.Type = "Box"
	}
	if err := h.db.Create(&loc).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Location code already exists"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": loc.ID, "code": loc.Code})
}

// DeleteLocation refuses to delete a location that still holds stock.
func (h *Handler) DeleteLocation(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid location id"})
		return
	}

	var inUse int64
	h.db.Model(&models.StockUnit{}).Where("location_id = ?", id).Count(&inUse)
	if inUse > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Location still holds stock units"})
		return
	}

	result := h.db.Delete(&models.Location{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Location not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
