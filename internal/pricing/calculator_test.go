package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"storefront/internal/domain"
)

func item(price string, discount string, quantity int) domain.OrderItem {
	return domain.OrderItem{
		Price:    decimal.RequireFromString(price),
		Discount: decimal.RequireFromString(discount),
		Quantity: quantity,
	}
}

func TestLineTotal(t *testing.T) {
	// 2 × 1000 × 0.9 = 1800
	total := LineTotal(item("1000", "10", 2))
	assert.True(t, total.Equal(decimal.RequireFromString("1800")), "got %s", total)
}

func TestLineTotal_NoDiscount(t *testing.T) {
	total := LineTotal(item("49.99", "0", 3))
	assert.True(t, total.Equal(decimal.RequireFromString("149.97")), "got %s", total)
}

func TestLineTotal_FullDiscount(t *testing.T) {
	total := LineTotal(item("200", "100", 1))
	assert.True(t, total.IsZero(), "got %s", total)
}

func TestOrderTotal_SumsLineTotals(t *testing.T) {
	items := []domain.OrderItem{
		item("1000", "10", 2), // 1800
		item("49.99", "0", 1), // 49.99
	}

	total := OrderTotal(items)
	assert.True(t, total.Equal(decimal.RequireFromString("1849.99")), "got %s", total)
}

func TestOrderTotal_RoundsOnceAtTheEnd(t *testing.T) {
	// Each line is 33.333…; per-line rounding would give 99.99,
	// rounding the sum gives 100.00.
	items := []domain.OrderItem{
		item("33.333", "0", 1),
		item("33.333", "0", 1),
		item("33.334", "0", 1),
	}

	total := OrderTotal(items)
	assert.Equal(t, "100.00", total.StringFixed(2))
}

func TestOrderTotal_NeverNegative(t *testing.T) {
	items := []domain.OrderItem{
		item("0", "0", 5),
		item("10", "100", 2),
	}

	total := OrderTotal(items)
	assert.False(t, total.IsNegative())
}

func TestOrderTotal_Empty(t *testing.T) {
	assert.True(t, OrderTotal(nil).IsZero())
}
