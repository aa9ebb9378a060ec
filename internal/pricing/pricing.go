// Package pricing computes listing price suggestions for a single stock
// unit: break-even, margin target, and age-based markdowns. It is pure
// arithmetic over decimals; callers are expected to validate inputs.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Policy holds the age thresholds (in days) and the markdown percentages
// they trigger. Markdowns are lower-inclusive: a unit aged exactly
// MildAgeDays gets MildPct.
type Policy struct {
	MildAgeDays   int
	MediumAgeDays int
	SteepAgeDays  int

	MildPct   int
	MediumPct int
	SteepPct  int
}

// DefaultPolicy is the process-wide markdown schedule: 5% at 45 days,
// 10% at 60, 18% at 90.
var DefaultPolicy = Policy{
	MildAgeDays:   45,
	MediumAgeDays: 60,
	SteepAgeDays:  90,
	MildPct:       5,
	MediumPct:     10,
	SteepPct:      18,
}

// Input is everything needed to price one unit.
type Input struct {
	PurchaseCost    decimal.Decimal
	ExtraFees       decimal.Decimal
	TargetMarginPct decimal.Decimal
	AgeDays         int
}

// Result carries the computed prices. RecommendedPrice is TargetPrice
// after the age markdown, so RecommendedPrice <= TargetPrice always.
type Result struct {
	BreakEvenPrice   decimal.Decimal `json:"break_even_price"`
	TargetPrice      decimal.Decimal `json:"target_price"`
	MarkdownPct      int             `json:"markdown_pct"`
	RecommendedPrice decimal.Decimal `json:"recommended_price"`
}

// BreakEven is the price at which the unit recovers its sunk cost.
func BreakEven(cost, fees decimal.Decimal) decimal.Decimal {
	return cost.Add(fees)
}

// TargetPrice applies the target margin on top of break-even.
func TargetPrice(cost, fees, marginPct decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(marginPct.Div(hundred))
	return BreakEven(cost, fees).Mul(factor)
}

// SuggestedMarkdownPct returns the markdown for a unit of the given age.
func (p Policy) SuggestedMarkdownPct(ageDays int) int {
	switch {
	case ageDays >= p.SteepAgeDays:
		return p.SteepPct
	case ageDays >= p.MediumAgeDays:
		return p.MediumPct
	case ageDays >= p.MildAgeDays:
		return p.MildPct
	default:
		return 0
	}
}

// RecommendedPrice discounts the target price by the markdown percentage.
func RecommendedPrice(target decimal.Decimal, markdownPct int) decimal.Decimal {
	factor := decimal.NewFromInt(1).Sub(decimal.NewFromInt(int64(markdownPct)).Div(hundred))
	return target.Mul(factor)
}

// AgeDays is the whole number of days between purchase and now. A
// purchase date in the future counts as age zero.
func AgeDays(purchasedAt, now time.Time) int {
	days := int(now.Sub(purchasedAt).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// Quote runs the full pricing pass for one unit under the given policy.
func (p Policy) Quote(in Input) Result {
	breakEven := BreakEven(in.PurchaseCost, in.ExtraFees)
	target := TargetPrice(in.PurchaseCost, in.ExtraFees, in.TargetMarginPct)
	markdown := p.SuggestedMarkdownPct(in.AgeDays)

	return Result{
		BreakEvenPrice:   breakEven,
		TargetPrice:      target,
		MarkdownPct:      markdown,
		RecommendedPrice: RecommendedPrice(target, markdown),
	}
}
