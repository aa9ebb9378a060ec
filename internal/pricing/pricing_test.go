package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestBreakEven(t *testing.T) {
	assert.True(t, BreakEven(dec("20"), dec("5")).Equal(dec("25")))
	assert.True(t, BreakEven(dec("0"), dec("0")).Equal(dec("0")))
	// negative inputs pass through untouched
	assert.True(t, BreakEven(dec("-3"), dec("1")).Equal(dec("-2")))
}

func TestTargetPriceNeverBelowBreakEven(t *testing.T) {
	cases := []struct{ cost, fees, margin string }{
		{"20", "5", "25"},
		{"10", "0", "0"},
		{"0", "0", "50"},
		{"99.99", "0.01", "12.5"},
	}
	for _, c := range cases {
		target := TargetPrice(dec(c.cost), dec(c.fees), dec(c.margin))
		breakEven := BreakEven(dec(c.cost), dec(c.fees))
		assert.True(t, target.GreaterThanOrEqual(breakEven),
			"target %s < break-even %s for %+v", target, breakEven, c)
	}
}

func TestSuggestedMarkdownPctBreakpoints(t *testing.T) {
	cases := []struct {
		ageDays int
		want    int
	}{
		{0, 0},
		{44, 0},
		{45, 5},
		{59, 5},
		{60, 10},
		{89, 10},
		{90, 18},
		{365, 18},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, DefaultPolicy.SuggestedMarkdownPct(c.ageDays), "ageDays=%d", c.ageDays)
	}
}

func TestSuggestedMarkdownPctMonotonic(t *testing.T) {
	prev := 0
	for age := 0; age <= 200; age++ {
		pct := DefaultPolicy.SuggestedMarkdownPct(age)
		require.GreaterOrEqual(t, pct, prev, "markdown dropped at age %d", age)
		prev = pct
	}
}

func TestCustomPolicy(t *testing.T) {
	p := Policy{MildAgeDays: 10, MediumAgeDays: 20, SteepAgeDays: 30, MildPct: 1, MediumPct: 2, SteepPct: 3}
	assert.Equal(t, 0, p.SuggestedMarkdownPct(9))
	assert.Equal(t, 1, p.SuggestedMarkdownPct(10))
	assert.Equal(t, 2, p.SuggestedMarkdownPct(20))
	assert.Equal(t, 3, p.SuggestedMarkdownPct(30))
}

func TestRecommendedPriceNeverAboveTarget(t *testing.T) {
	target := dec("31.25")
	for _, pct := range []int{0, 5, 10, 18} {
		rec := RecommendedPrice(target, pct)
		if pct == 0 {
			assert.True(t, rec.Equal(target))
		} else {
			assert.True(t, rec.LessThan(target), "pct=%d", pct)
		}
	}
}

func TestQuoteWorkedExample(t *testing.T) {
	// unit purchased 50 days ago, cost 20 + 5 fees, 25% margin
	res := DefaultPolicy.Quote(Input{
		PurchaseCost:    dec("20"),
		ExtraFees:       dec("5"),
		TargetMarginPct: dec("25"),
		AgeDays:         50,
	})

	require.True(t, res.BreakEvenPrice.Equal(dec("25")), "break-even: %s", res.BreakEvenPrice)
	require.True(t, res.TargetPrice.Equal(dec("31.25")), "target: %s", res.TargetPrice)
	require.Equal(t, 5, res.MarkdownPct)
	require.True(t, res.RecommendedPrice.Equal(dec("29.6875")), "recommended: %s", res.RecommendedPrice)
}

func TestAgeDays(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	if got := AgeDays(now.AddDate(0, 0, -50), now); got != 50 {
		t.Fatalf("got %d, want 50", got)
	}
	// partial days floor
	if got := AgeDays(now.Add(-36*time.Hour), now); got != 1 {
		t.Fatalf("got %d, want 1", got)
	}
	// future purchase date clamps to zero
	if got := AgeDays(now.AddDate(0, 0, 3), now); got != 0 {
		t.Fatalf("got %d, want 0", got)
	}
}
