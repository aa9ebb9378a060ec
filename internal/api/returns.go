package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"reselling-toolbox/internal/models"
)

type upsertReturnRequest struct {
	ID                 uint             `json:"id"` // 0 on create
	SaleID             uint             `json:"sale_id"`
	StockUnitID        uint             `json:"stock_unit_id"`
	Reason             *string          `json:"reason"`
	RefundAmount       *decimal.Decimal `json:"refund_amount"`
	ReturnShippingCost *decimal.Decimal `json:"return_shipping_cost"`
	Restockable        *bool            `json:"restockable"`
	Close              bool             `json:"close"`
}

// UpsertReturn opens, edits, or closes a return case. The case drives
// the unit's status: an open case puts the unit in RETURNED; closing it
// restocks the unit, or writes it off when it came back unsellable.
func (h *Handler) UpsertReturn(c *gin.Context) {
	var req upsertReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.SaleID == 0 || req.StockUnitID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing sale_id or stock_unit_id"})
		return
	}

	var caseID uint
	err := h.db.Transaction(func(tx *gorm.DB) error {
		var line models.SaleLine
		if err := tx.Where("sale_id = ? AND stock_unit_id = ?", req.SaleID, req.StockUnitID).
			First(&line).Error; err != nil {
			return errBadRequest("Unit is not on that sale")
		}

		var rc models.ReturnCase
		found := false
		if req.ID != 0 {
			if err := tx.First(&rc, req.ID).Error; err != nil {
				return errBadRequest("Return case not found")
			}
			found = true
		} else {
			err := tx.Where("sale_id = ? AND stock_unit_id = ? AND closed_at IS NULL",
				req.SaleID, req.StockUnitID).First(&rc).Error
			if err == nil {
				found = true
			} else if err != gorm.ErrRecordNotFound {
				return err
			}
		}

		if !found {
			rc = models.ReturnCase{
				SaleID:      req.SaleID,
				StockUnitID: req.StockUnitID,
				Restockable: true,
			}
		}

		if req.Reason != nil && *req.Reason != "" {
			rc.Reason = *req.Reason
		}
		if req.RefundAmount != nil {
			rc.RefundAmount = *req.RefundAmount
		}
		if req.ReturnShippingCost != nil {
			rc.ReturnShippingCost = *req.ReturnShippingCost
		}
		if req.Restockable != nil {
			rc.Restockable = *req.Restockable
		}

		closing := req.Close && rc.ClosedAt == nil
		if closing {
			now := time.Now()
			rc.ClosedAt = &now
		}

		if err := tx.Save(&rc).Error; err != nil {
			return err
		}
		caseID = rc.ID

		// Unit status follows the case state.
		nextStatus := models.StockReturned
		if rc.ClosedAt != nil {
			if rc.Restockable {
				nextStatus = models.StockInStock
			} else {
				nextStatus = models.StockWrittenOff
			}
		}
		return tx.Model(&models.StockUnit{}).
			Where("id = ?", req.StockUnitID).
			Update("status", nextStatus).Error
	})
	if err != nil {
		status := http.StatusInternalServerError
		if _, ok := err.(badRequestError); ok {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "id": caseID})
}
