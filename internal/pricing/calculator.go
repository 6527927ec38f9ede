package pricing

import (
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// LineTotal is price × quantity × (1 − discount/100), computed exactly.
func LineTotal(item domain.OrderItem) decimal.Decimal {
	quantity := decimal.NewFromInt(int64(item.Quantity))
	factor := hundred.Sub(item.Discount).Div(hundred)
	return item.Price.Mul(quantity).Mul(factor)
}

// OrderTotal sums line totals in item order and rounds once at the end
// to two decimal places. Rounding only the final sum keeps results
// reproducible regardless of per-line fractions.
func OrderTotal(items []domain.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(LineTotal(item))
	}
	return total.Round(2)
}
