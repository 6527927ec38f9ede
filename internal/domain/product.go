package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	ProductStatusAvailable    ProductStatus = "AVAILABLE"
	ProductStatusOutOfStock   ProductStatus = "OUT_OF_STOCK"
	ProductStatusDiscontinued ProductStatus = "DISCONTINUED"
)

type Product struct {
	ID             uint
	Name           string
	Specifications string
	Price          decimal.Decimal
	Discount       decimal.Decimal
	Quantity       int
	Status         ProductStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (p Product) Orderable() bool {
	return p.Status != ProductStatusDiscontinued
}

// StatusAfterStockChange returns the availability flag a product should
// carry once its stock reaches quantity. A discontinued flag, once set,
// is never auto-reverted.
func (p Product) StatusAfterStockChange(quantity int) ProductStatus {
	if p.Status == ProductStatusDiscontinued {
		return ProductStatusDiscontinued
	}
	if quantity <= 0 {
		return ProductStatusOutOfStock
	}
	return ProductStatusAvailable
}
