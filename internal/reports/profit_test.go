package reports

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

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestProfitForSaleWorkedExample(t *testing.T) {
	// one line at 40 on a unit bought for 15; shipping charged 5,
	// fees 2, shipping cost 3, no returns
	s := SaleRecord{
		ShippingCharged: dec("5"),
		PlatformFees:    dec("2"),
		ShippingCost:    dec("3"),
		OtherCosts:      dec("0"),
		Lines: []SaleLineRecord{
			{SalePrice: dec("40"), PurchaseCost: dec("15")},
		},
	}

	econ := ProfitForSale(s)
	require.True(t, econ.Revenue.Equal(dec("45")), "revenue: %s", econ.Revenue)
	require.True(t, econ.Costs.Equal(dec("20")), "costs: %s", econ.Costs)
	require.True(t, econ.Profit.Equal(dec("25")), "profit: %s", econ.Profit)
}

func TestProfitForSaleIncludesReturns(t *testing.T) {
	s := SaleRecord{
		ShippingCharged: dec("0"),
		Lines:           []SaleLineRecord{{SalePrice: dec("30"), PurchaseCost: dec("10")}},
		Returns: []ReturnRecord{
			{RefundAmount: dec("30"), ReturnShippingCost: dec("4")},
		},
	}

	econ := ProfitForSale(s)
	assert.True(t, econ.Profit.Equal(dec("-14")), "profit: %s", econ.Profit)
	assert.True(t, ReturnCostForSale(s).Equal(dec("34")))
}

func TestProfitForSaleNoLines(t *testing.T) {
	// a sale stripped of lines must not break the fold; it still carries
	// its own fees
	s := SaleRecord{
		ShippingCharged: dec("3"),
		PlatformFees:    dec("1"),
	}

	econ := ProfitForSale(s)
	assert.True(t, econ.Revenue.Equal(dec("3")))
	assert.True(t, econ.Costs.Equal(dec("1")))
	assert.True(t, econ.Profit.Equal(dec("2")))
}

func TestProfitIsAdditiveAcrossLines(t *testing.T) {
	base := SaleRecord{
		ShippingCharged: dec("4.50"),
		PlatformFees:    dec("2.10"),
		ShippingCost:    dec("3.20"),
		OtherCosts:      dec("0.70"),
	}

	split := base
	split.Lines = []SaleLineRecord{
		{SalePrice: dec("19.99"), PurchaseCost: dec("7.25")},
		{SalePrice: dec("12.50"), PurchaseCost: dec("4.80")},
	}

	merged := base
	merged.Lines = []SaleLineRecord{
		{SalePrice: dec("32.49"), PurchaseCost: dec("12.05")},
	}

	require.True(t, ProfitForSale(split).Profit.Equal(ProfitForSale(merged).Profit))
}
