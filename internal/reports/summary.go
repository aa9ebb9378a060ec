package reports

import (
	"time"

	"github.com/shopspring/decimal"

	"reselling-toolbox/internal/models"
	"reselling-toolbox/internal/pricing"
)

// Summary are the headline numbers at the top of the reports page.
type Summary struct {
	TotalProfit     decimal.Decimal `json:"total_profit"`
	MonthProfit     decimal.Decimal `json:"month_profit"`
	InventoryValue  decimal.Decimal `json:"inventory_value"`
	SellThroughPct  float64         `json:"sell_through_pct"`
	DeadStock       int             `json:"dead_stock"`
	ReturnRatePct   float64         `json:"return_rate_pct"`
	TotalReturnCost decimal.Decimal `json:"total_return_cost"`
}

// BuildSummary folds all sales and the current unit snapshot into the
// reports headline. monthSales is the subset of sales dated within the
// current month; passing it separately keeps one fetch per window on the
// caller side.
func BuildSummary(sales, monthSales []SaleRecord, units []UnitRecord, now time.Time) Summary {
	s := Summary{
		TotalProfit:     decimal.Zero,
		MonthProfit:     decimal.Zero,
		InventoryValue:  decimal.Zero,
		TotalReturnCost: decimal.Zero,
	}

	returnCases := 0
	for _, sale := range sales {
		s.TotalProfit = s.TotalProfit.Add(ProfitForSale(sale).Profit)
		s.TotalReturnCost = s.TotalReturnCost.Add(ReturnCostForSale(sale))
		returnCases += len(sale.Returns)
	}
	if len(sales) > 0 {
		s.ReturnRatePct = float64(returnCases) / float64(len(sales)) * 100
	}

	for _, sale := range monthSales {
		s.MonthProfit = s.MonthProfit.Add(ProfitForSale(sale).Profit)
	}

	total, sold := 0, 0
	for _, u := range units {
		if u.Archived {
			continue
		}
		total++
		if u.Status == models.StockSold {
			sold++
			continue
		}
		s.InventoryValue = s.InventoryValue.Add(u.PurchaseCost)
		if pricing.AgeDays(u.PurchasedAt, now) > deadStockDays {
			s.DeadStock++
		}
	}
	if total > 0 {
		s.SellThroughPct = float64(sold) / float64(total) * 100
	}

	return s
}

// StartOfWeekMonday truncates to the Monday of t's week, midnight.
func StartOfWeekMonday(t time.Time) time.Time {
	day := t.Truncate(0)
	offset := int(day.Weekday()) - 1
	if offset < 0 {
		offset = 6 // Sunday
	}
	d := day.AddDate(0, 0, -offset)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfMonth truncates to the first of t's month, midnight.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
