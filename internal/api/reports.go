package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"reselling-toolbox/internal/models"
	"reselling-toolbox/internal/reports"
)

func saleRecord(s models.Sale) reports.SaleRecord {
	rec := reports.SaleRecord{
		SaleDate:        s.SaleDate,
		Platform:        s.Platform,
		ShippingCharged: s.ShippingCharged,
		PlatformFees:    s.PlatformFees,
		ShippingCost:    s.ShippingCost,
		OtherCosts:      s.OtherCosts,
	}
	for _, line := range s.Lines {
		rec.Lines = append(rec.Lines, reports.SaleLineRecord{
			SalePrice:    line.SalePrice,
			PurchaseCost: line.StockUnit.PurchaseCost,
		})
	}
	for _, ret := range s.ReturnCases {
		rec.Returns = append(rec.Returns, reports.ReturnRecord{
			RefundAmount:       ret.RefundAmount,
			ReturnShippingCost: ret.ReturnShippingCost,
		})
	}
	return rec
}

func saleRecords(sales []models.Sale) []reports.SaleRecord {
	out := make([]reports.SaleRecord, 0, len(sales))
	for _, s := range sales {
		out = append(out, saleRecord(s))
	}
	return out
}

func unitRecords(units []models.StockUnit) []reports.UnitRecord {
	out := make([]reports.UnitRecord, 0, len(units))
	for _, u := range units {
		out = append(out, reports.UnitRecord{
			Status:       u.Status,
			Archived:     u.Archived,
			PurchaseCost: u.PurchaseCost,
			PurchasedAt:  u.PurchasedAt,
		})
	}
	return out
}

// GetDashboard returns the landing-page counters: active stock, units
// added this week, the status split, and this month's profit.
func (h *Handler) GetDashboard(c *gin.Context) {
	now := time.Now()

	var activeStock int64
	h.db.Model(&models.StockUnit{}).Where("archived = ?", false).Count(&activeStock)

	var addedThisWeek int64
	h.db.Model(&models.StockUnit{}).
		Where("archived = ? AND created_at >= ?", false, reports.StartOfWeekMonday(now)).
		Count(&addedThisWeek)

	statusCounts := map[string]int64{}
	for _, status := range []string{models.StockInStock, models.StockListed, models.StockSold} {
		var n int64
		h.db.Model(&models.StockUnit{}).
			Where("archived = ? AND status = ?", false, status).
			Count(&n)
		statusCounts[status] = n
	}

	var monthSales []models.Sale
	if err := h.db.Where("archived = ? AND sale_date >= ?", false, reports.StartOfMonth(now)).
		Preload("Lines.StockUnit").
		Find(&monthSales).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	monthProfit := decimal.Zero
	for _, s := range monthSales {
		monthProfit = monthProfit.Add(reports.ProfitForSale(saleRecord(s)).Profit)
	}

	c.JSON(http.StatusOK, gin.H{
		"active_stock":    activeStock,
		"added_this_week": addedThisWeek,
		"in_stock":        statusCounts[models.StockInStock],
		"listed":          statusCounts[models.StockListed],
		"sold":            statusCounts[models.StockSold],
		"month_profit":    monthProfit,
	})
}

// GetReports assembles the full reports payload: headline summary,
// monthly and per-platform profit, return impact, stock aging, the
// status pie, top movers, and per-platform sell-through.
func (h *Handler) GetReports(c *gin.Context) {
	now := time.Now()

	var sales []models.Sale
	if err := h.db.
		Preload("Lines.StockUnit").
		Preload("ReturnCases").
		Order("sale_date ASC").
		Find(&sales).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	records := saleRecords(sales)

	monthRecords := []reports.SaleRecord{}
	monthStart := reports.StartOfMonth(now)
	for _, r := range records {
		if !r.SaleDate.Before(monthStart) {
			monthRecords = append(monthRecords, r)
		}
	}

	var units []models.StockUnit
	if err := h.db.Where("archived = ?", false).Find(&units).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	unitRecs := unitRecords(units)

	moverLines, err := h.moverLines(now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var listings []models.Listing
	if err := h.db.Preload("StockUnit").Find(&listings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	listingRows := make([]reports.ListingRow, 0, len(listings))
	for _, l := range listings {
		listingRows = append(listingRows, reports.ListingRow{
			Platform:     l.Platform,
			StockUnitID:  l.StockUnitID,
			UnitStatus:   l.StockUnit.Status,
			PurchaseCost: l.StockUnit.PurchaseCost,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"summary":            reports.BuildSummary(records, monthRecords, unitRecs, now),
		"monthly_profit":     reports.MonthlyProfit(records, 12, now),
		"profit_by_platform": reports.ProfitByPlatform(records),
		"return_impact":      reports.ReturnImpactByPlatform(records),
		"aging":              reports.AgingBuckets(unitRecs, now),
		"status_counts":      reports.InventoryStatusCounts(unitRecs),
		"top_movers":         reports.TopMovers(moverLines, now),
		"sell_through":       reports.SellThroughByPlatform(listingRows),
	})
}

// productLabel is the display name used on velocity stats: brand-prefixed
// title when the product carries a brand.
func productLabel(p models.Product) string {
	if p.Brand != "" {
		return p.Brand + " " + p.Title
	}
	return p.Title
}

// moverLines flattens the last 90 days of sold lines into velocity
// inputs, tagging products on the active watchlist.
func (h *Handler) moverLines(now time.Time) ([]reports.MoverLine, error) {
	var sales []models.Sale
	if err := h.db.
		Where("archived = ? AND sale_date >= ?", false, now.AddDate(0, 0, -90)).
		Preload("Lines.StockUnit.Product").
		Find(&sales).Error; err != nil {
		return nil, err
	}

	var watches []models.ProductWatch
	if err := h.db.Where("active = ?", true).Find(&watches).Error; err != nil {
		return nil, err
	}
	watched := map[uint]bool{}
	for _, w := range watches {
		watched[w.ProductID] = true
	}

	lines := []reports.MoverLine{}
	for _, s := range sales {
		for _, line := range s.Lines {
			unit := line.StockUnit
			if unit.ProductID == nil || unit.Product == nil {
				continue
			}
			lines = append(lines, reports.MoverLine{
				ProductID:    *unit.ProductID,
				Product:      productLabel(*unit.Product),
				Watched:      watched[*unit.ProductID],
				SaleDate:     s.SaleDate,
				SalePrice:    line.SalePrice,
				PurchaseCost: unit.PurchaseCost,
				PurchasedAt:  unit.PurchasedAt,
			})
		}
	}
	return lines, nil
}
