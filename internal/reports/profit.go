package reports

import "github.com/shopspring/decimal"

// Economics is the money breakdown of a single sale.
type Economics struct {
	Revenue decimal.Decimal `json:"revenue"`
	Costs   decimal.Decimal `json:"costs"`
	Profit  decimal.Decimal `json:"profit"`
}

// ProfitForSale computes revenue, costs and profit for one sale. This is
// the single definition of profit: every surface showing a profit number
// (sale detail, dashboard, reports) goes through it so the same sale
// always yields the same figure.
//
//	revenue = sum(line sale prices) + shipping charged
//	costs   = sum(line purchase costs) + platform fees + shipping cost
//	        + other costs + refunds + return shipping
func ProfitForSale(s SaleRecord) Economics {
	itemsTotal := decimal.Zero
	purchaseTotal := decimal.Zero
	for _, l := range s.Lines {
		itemsTotal = itemsTotal.Add(l.SalePrice)
		purchaseTotal = purchaseTotal.Add(l.PurchaseCost)
	}

	returnCosts := decimal.Zero
	for _, r := range s.Returns {
		returnCosts = returnCosts.Add(r.RefundAmount).Add(r.ReturnShippingCost)
	}

	revenue := itemsTotal.Add(s.ShippingCharged)
	costs := purchaseTotal.
		Add(s.PlatformFees).
		Add(s.ShippingCost).
		Add(s.OtherCosts).
		Add(returnCosts)

	return Economics{
		Revenue: revenue,
		Costs:   costs,
		Profit:  revenue.Sub(costs),
	}
}

// ReturnCostForSale is the refund + return shipping total of one sale.
func ReturnCostForSale(s SaleRecord) decimal.Decimal {
	total := decimal.Zero
	for _, r := range s.Returns {
		total = total.Add(r.RefundAmount).Add(r.ReturnShippingCost)
	}
	return total
}
