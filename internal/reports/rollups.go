package reports

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"reselling-toolbox/internal/models"
	"reselling-toolbox/internal/pricing"
)

const (
	// UnknownPlatform groups sales whose platform field is empty.
	UnknownPlatform = "Unknown"

	topMoversLimit = 12
	deadStockDays  = 90
)

type MonthProfit struct {
	Month  string          `json:"month"` // YYYY-MM
	Profit decimal.Decimal `json:"profit"`
}

// MonthlyProfit buckets each sale's profit into the month of its sale
// date over a trailing window of n months ending at now. Every month of
// the window is present; empty months carry zero. Oldest first.
func MonthlyProfit(sales []SaleRecord, n int, now time.Time) []MonthProfit {
	months := lastNMonths(n, now)

	byMonth := make(map[string]decimal.Decimal, len(months))
	for _, m := range months {
		byMonth[m] = decimal.Zero
	}

	for _, s := range sales {
		key := monthKey(s.SaleDate)
		if _, ok := byMonth[key]; !ok {
			continue // outside the window
		}
		byMonth[key] = byMonth[key].Add(ProfitForSale(s).Profit)
	}

	out := make([]MonthProfit, 0, len(months))
	for _, m := range months {
		out = append(out, MonthProfit{Month: m, Profit: byMonth[m]})
	}
	return out
}

type PlatformProfit struct {
	Platform string          `json:"platform"`
	Profit   decimal.Decimal `json:"profit"`
}

// ProfitByPlatform groups total profit per platform, highest first.
func ProfitByPlatform(sales []SaleRecord) []PlatformProfit {
	byPlatform := map[string]decimal.Decimal{}
	for _, s := range sales {
		p := platformOf(s)
		byPlatform[p] = byPlatform[p].Add(ProfitForSale(s).Profit)
	}

	out := make([]PlatformProfit, 0, len(byPlatform))
	for p, profit := range byPlatform {
		out = append(out, PlatformProfit{Platform: p, Profit: profit})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Profit.Equal(out[j].Profit) {
			return out[i].Profit.GreaterThan(out[j].Profit)
		}
		return out[i].Platform < out[j].Platform
	})
	return out
}

type ReturnImpact struct {
	Platform        string          `json:"platform"`
	ReturnRatePct   float64         `json:"return_rate_pct"`
	ReturnCost      decimal.Decimal `json:"return_cost"`
	MarginImpactPct float64         `json:"margin_impact_pct"`
}

// ReturnImpactByPlatform measures how much returns eat into each
// platform's margin. Margin impact is return cost over the absolute
// platform profit; a platform with exactly zero profit reports zero
// impact rather than dividing by zero. Sorted by return cost, highest
// first.
func ReturnImpactByPlatform(sales []SaleRecord) []ReturnImpact {
	saleCount := map[string]int{}
	returnedCount := map[string]int{}
	returnCost := map[string]decimal.Decimal{}
	profit := map[string]decimal.Decimal{}

	for _, s := range sales {
		p := platformOf(s)
		saleCount[p]++
		if len(s.Returns) > 0 {
			returnedCount[p]++
		}
		returnCost[p] = returnCost[p].Add(ReturnCostForSale(s))
		profit[p] = profit[p].Add(ProfitForSale(s).Profit)
	}

	out := make([]ReturnImpact, 0, len(saleCount))
	for p, count := range saleCount {
		rate := 0.0
		if count > 0 {
			rate = float64(returnedCount[p]) / float64(count) * 100
		}

		impact := 0.0
		if !profit[p].IsZero() {
			impact, _ = returnCost[p].Div(profit[p].Abs()).Mul(decimal.NewFromInt(100)).Float64()
		}

		out = append(out, ReturnImpact{
			Platform:        p,
			ReturnRatePct:   rate,
			ReturnCost:      returnCost[p],
			MarginImpactPct: impact,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ReturnCost.Equal(out[j].ReturnCost) {
			return out[i].ReturnCost.GreaterThan(out[j].ReturnCost)
		}
		return out[i].Platform < out[j].Platform
	})
	return out
}

type AgingBucket struct {
	Bucket string `json:"bucket"`
	Count  int    `json:"count"`
}

// AgingBuckets partitions unsold, non-archived units by age in days.
// Boundaries are upper-inclusive: a unit aged exactly 30 days lands in
// 0-30.
func AgingBuckets(units []UnitRecord, now time.Time) []AgingBucket {
	buckets := []AgingBucket{
		{Bucket: "0-30"},
		{Bucket: "31-60"},
		{Bucket: "61-90"},
		{Bucket: "91-180"},
		{Bucket: "180+"},
	}

	for _, u := range units {
		if u.Archived || u.Status == models.StockSold {
			continue
		}
		days := pricing.AgeDays(u.PurchasedAt, now)
		switch {
		case days <= 30:
			buckets[0].Count++
		case days <= 60:
			buckets[1].Count++
		case days <= 90:
			buckets[2].Count++
		case days <= 180:
			buckets[3].Count++
		default:
			buckets[4].Count++
		}
	}
	return buckets
}

type MoverStat struct {
	ProductID      uint    `json:"product_id"`
	Product        string  `json:"product"`
	Units30        int     `json:"units_30"`
	Units60        int     `json:"units_60"`
	Units90        int     `json:"units_90"`
	AvgDaysToSell  float64 `json:"avg_days_to_sell"`
	GrossMarginPct float64 `json:"gross_margin_pct"`
	Watched        bool    `json:"watched"`
}

// TopMovers accumulates product velocity over the trailing 90 days:
// units sold at 30/60/90-day windows, average days between purchase and
// sale (negatives clamp to zero before averaging), and gross margin.
// Lines with no linked product are skipped. The list is capped at the
// top 12 by 30-day units, then 60, then 90.
func TopMovers(lines []MoverLine, now time.Time) []MoverStat {
	since30 := now.AddDate(0, 0, -30)
	since60 := now.AddDate(0, 0, -60)
	since90 := now.AddDate(0, 0, -90)

	type acc struct {
		MoverStat
		daysTotal    float64
		totalRevenue decimal.Decimal
		totalCost    decimal.Decimal
	}

	byProduct := map[uint]*acc{}
	order := []uint{}

	for _, l := range lines {
		if l.ProductID == 0 || l.Product == "" {
			continue
		}
		if l.SaleDate.Before(since90) {
			continue
		}

		a, ok := byProduct[l.ProductID]
		if !ok {
			a = &acc{MoverStat: MoverStat{
				ProductID: l.ProductID,
				Product:   l.Product,
				Watched:   l.Watched,
			}}
			byProduct[l.ProductID] = a
			order = append(order, l.ProductID)
		}

		if !l.SaleDate.Before(since30) {
			a.Units30++
		}
		if !l.SaleDate.Before(since60) {
			a.Units60++
		}
		a.Units90++

		daysToSell := l.SaleDate.Sub(l.PurchasedAt).Hours() / 24
		if daysToSell < 0 {
			daysToSell = 0
		}
		a.daysTotal += daysToSell
		a.totalRevenue = a.totalRevenue.Add(l.SalePrice)
		a.totalCost = a.totalCost.Add(l.PurchaseCost)
	}

	out := make([]MoverStat, 0, len(byProduct))
	for _, id := range order {
		a := byProduct[id]
		if a.Units90 > 0 {
			a.AvgDaysToSell = a.daysTotal / float64(a.Units90)
		}
		if !a.totalRevenue.IsZero() {
			margin := a.totalRevenue.Sub(a.totalCost).Div(a.totalRevenue).Mul(decimal.NewFromInt(100))
			a.GrossMarginPct, _ = margin.Float64()
		}
		out = append(out, a.MoverStat)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Units30 != out[j].Units30 {
			return out[i].Units30 > out[j].Units30
		}
		if out[i].Units60 != out[j].Units60 {
			return out[i].Units60 > out[j].Units60
		}
		return out[i].Units90 > out[j].Units90
	})
	if len(out) > topMoversLimit {
		out = out[:topMoversLimit]
	}
	return out
}

type PlatformSlice struct {
	Platform       string          `json:"platform"`
	ListedUnits    int             `json:"listed_units"`
	SoldUnits      int             `json:"sold_units"`
	SellThroughPct float64         `json:"sell_through_pct"`
	InventoryCost  decimal.Decimal `json:"inventory_cost"`
}

// SellThroughByPlatform slices listings per platform: how many units are
// listed there, how many of those sold, and the cost tied up in them.
// Duplicate listings of the same unit on the same platform count once.
func SellThroughByPlatform(rows []ListingRow) []PlatformSlice {
	type key struct {
		platform string
		unitID   uint
	}
	seen := map[key]bool{}
	byPlatform := map[string]*PlatformSlice{}
	order := []string{}

	for _, r := range rows {
		k := key{r.Platform, r.StockUnitID}
		if seen[k] {
			continue
		}
		seen[k] = true

		s, ok := byPlatform[r.Platform]
		if !ok {
			s = &PlatformSlice{Platform: r.Platform}
			byPlatform[r.Platform] = s
			order = append(order, r.Platform)
		}

		s.ListedUnits++
		if r.UnitStatus == models.StockSold {
			s.SoldUnits++
		}
		s.InventoryCost = s.InventoryCost.Add(r.PurchaseCost)
	}

	out := make([]PlatformSlice, 0, len(byPlatform))
	for _, p := range order {
		s := byPlatform[p]
		if s.ListedUnits > 0 {
			s.SellThroughPct = float64(s.SoldUnits) / float64(s.ListedUnits) * 100
		}
		out = append(out, *s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ListedUnits > out[j].ListedUnits
	})
	return out
}

// StatusCount is one slice of the inventory status pie.
type StatusCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// InventoryStatusCounts tallies units per status with display labels.
func InventoryStatusCounts(units []UnitRecord) []StatusCount {
	counts := map[string]int{}
	order := []string{}
	for _, u := range units {
		if u.Archived {
			continue
		}
		if _, ok := counts[u.Status]; !ok {
			order = append(order, u.Status)
		}
		counts[u.Status]++
	}

	out := make([]StatusCount, 0, len(counts))
	for _, s := range order {
		out = append(out, StatusCount{Name: models.FormatStatus(s), Value: counts[s]})
	}
	return out
}

func platformOf(s SaleRecord) string {
	if s.Platform == "" {
		return UnknownPlatform
	}
	return s.Platform
}

func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

// lastNMonths returns the trailing n month keys ending at now, oldest
// first.
func lastNMonths(n int, now time.Time) []string {
	out := make([]string, 0, n)
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for i := n - 1; i >= 0; i-- {
		out = append(out, monthKey(first.AddDate(0, -i, 0)))
	}
	return out
}
