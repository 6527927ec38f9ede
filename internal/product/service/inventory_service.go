package service

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/errors"
)

type ProductRepository interface {
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id uint) (*domain.Product, error)
	UpdateStock(ctx context.Context, tx *sql.Tx, id uint, quantity int, status domain.ProductStatus) error
}

// InventoryCoordinator owns every stock mutation. Callers run it inside
// their own transaction so reservation and order creation commit
// together.
type InventoryCoordinator struct {
	productRepo ProductRepository
	logger      *zap.Logger
}

func NewInventoryCoordinator(productRepo ProductRepository, logger *zap.Logger) *InventoryCoordinator {
	return &InventoryCoordinator{
		productRepo: productRepo,
		logger:      logger,
	}
}

// Reserve decrements stock by quantity after locking the product row.
// It returns the product as read under the lock so callers can snapshot
// price and discount from the same state the decrement was based on.
func (c *InventoryCoordinator) Reserve(ctx context.Context, tx *sql.Tx, productID uint, quantity int) (*domain.Product, error) {
	product, err := c.productRepo.FindByIDForUpdate(ctx, tx, productID)
	if err != nil {
		return nil, err
	}

	if !product.Orderable() {
		return nil, errors.NewInvalidStateError(fmt.Sprintf("product %d is discontinued", productID))
	}

	if product.Quantity < quantity {
		return nil, errors.NewInsufficientStockError(productID, quantity, product.Quantity)
	}

	newQuantity := product.Quantity - quantity
	newStatus := product.StatusAfterStockChange(newQuantity)

	if err := c.productRepo.UpdateStock(ctx, tx, productID, newQuantity, newStatus); err != nil {
		return nil, err
	}

	c.logger.Debug("stock reserved",
		zap.Uint("productId", productID),
		zap.Int("quantity", quantity),
		zap.Int("remaining", newQuantity),
	)

	return product, nil
}

// Release increments stock by quantity unconditionally. Used on
// cancellation.
func (c *InventoryCoordinator) Release(ctx context.Context, tx *sql.Tx, productID uint, quantity int) error {
	product, err := c.productRepo.FindByIDForUpdate(ctx, tx, productID)
	if err != nil {
		return err
	}

	newQuantity := product.Quantity + quantity
	newStatus := product.StatusAfterStockChange(newQuantity)

	if err := c.productRepo.UpdateStock(ctx, tx, productID, newQuantity, newStatus); err != nil {
		return err
	}

	c.logger.Debug("stock released",
		zap.Uint("productId", productID),
		zap.Int("quantity", quantity),
		zap.Int("available", newQuantity),
	)

	return nil
}
