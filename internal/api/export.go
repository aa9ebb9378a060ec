package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"reselling-toolbox/internal/models"
	"reselling-toolbox/internal/pricing"
	"reselling-toolbox/internal/reports"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportInventory streams the full non-archived inventory as a styled
// xlsx workbook.
func (h *Handler) ExportInventory(c *gin.Context) {
	var units []models.StockUnit
	if err := h.db.Where("archived = ?", false).
		Preload("Location").
		Order("created_at DESC").
		Find(&units).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Inventory"
	f.SetSheetName("Sheet1", sheet)

	header := []interface{}{
		"SKU", "Title", "Brand", "Size", "Condition", "Status",
		"Purchase Cost", "Extra Cost", "Total Cost",
		"Purchased At", "Purchased From", "Age (days)", "Location", "Notes",
	}
	f.SetSheetRow(sheet, "A1", &header)

	for i, u := range units {
		cellRef, _ := excelize.CoordinatesToCellName(1, i+2)
		locationCode := ""
		if u.Location != nil {
			locationCode = u.Location.Code
		}
		row := []interface{}{
			u.SKU,
			u.TitleOverride,
			u.Brand,
			u.Size,
			u.Condition,
			models.FormatStatus(u.Status),
			u.PurchaseCost.InexactFloat64(),
			u.ExtraCost.InexactFloat64(),
			u.PurchaseCost.Add(u.ExtraCost).InexactFloat64(),
			u.PurchasedAt.Format("2006-01-02"),
			u.PurchasedFrom,
			pricing.AgeDays(u.PurchasedAt, now),
			locationCode,
			u.Notes,
		}
		f.SetSheetRow(sheet, cellRef, &row)
	}

	styleWorkbook(f, sheet, len(header))
	writeWorkbook(c, f, fmt.Sprintf("inventory_export_%s.xlsx", now.Format("2006-01-02")))
}

// ExportSales streams all sales as one row per sold unit. Sales with no
// lines still get a row so order-level costs stay visible.
func (h *Handler) ExportSales(c *gin.Context) {
	var sales []models.Sale
	if err := h.db.Where("archived = ?", false).
		Preload("Lines.StockUnit").
		Preload("ReturnCases").
		Order("sale_date DESC").
		Find(&sales).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sales"
	f.SetSheetName("Sheet1", sheet)

	header := []interface{}{
		"Sale Date", "Platform", "Order Ref", "SKU", "Item",
		"Sale Price", "Shipping Charged", "Platform Fees", "Shipping Cost",
		"Other Costs", "Purchase Cost", "Sale Profit", "Fulfillment",
	}
	f.SetSheetRow(sheet, "A1", &header)

	rowIdx := 2
	for _, s := range sales {
		profit := reports.ProfitForSale(saleRecord(s)).Profit.InexactFloat64()
		base := []interface{}{
			s.SaleDate.Format("2006-01-02"),
			s.Platform,
			s.OrderRef,
		}
		orderCosts := []interface{}{
			s.ShippingCharged.InexactFloat64(),
			s.PlatformFees.InexactFloat64(),
			s.ShippingCost.InexactFloat64(),
			s.OtherCosts.InexactFloat64(),
		}

		if len(s.Lines) == 0 {
			cellRef, _ := excelize.CoordinatesToCellName(1, rowIdx)
			row := append(append([]interface{}{}, base...), "", "", 0.0)
			row = append(row, orderCosts...)
			row = append(row, 0.0, profit, models.FormatStatus(s.FulfillmentStatus))
			f.SetSheetRow(sheet, cellRef, &row)
			rowIdx++
			continue
		}

		for _, line := range s.Lines {
			cellRef, _ := excelize.CoordinatesToCellName(1, rowIdx)
			row := append(append([]interface{}{}, base...),
				line.StockUnit.SKU,
				line.StockUnit.TitleOverride,
				line.SalePrice.InexactFloat64(),
			)
			row = append(row, orderCosts...)
			row = append(row,
				line.StockUnit.PurchaseCost.InexactFloat64(),
				profit,
				models.FormatStatus(s.FulfillmentStatus),
			)
			f.SetSheetRow(sheet, cellRef, &row)
			rowIdx++
		}
	}

	styleWorkbook(f, sheet, len(header))
	writeWorkbook(c, f, fmt.Sprintf("sales_export_%s.xlsx", time.Now().Format("2006-01-02")))
}

// styleWorkbook bolds the header row, freezes it, and widens the columns.
func styleWorkbook(f *excelize.File, sheet string, columns int) {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"EEEEEE"}},
	})
	if err == nil {
		f.SetRowStyle(sheet, 1, 1, headerStyle)
	}

	lastCol, _ := excelize.ColumnNumberToName(columns)
	f.SetColWidth(sheet, "A", lastCol, 16)

	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeWorkbook(c *gin.Context, f *excelize.File, filename string) {
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := f.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}
