package usecase

import (
	"context"

	"go.uber.org/zap"

	"storefront/internal/domain"
	apperrors "storefront/internal/errors"
	"storefront/internal/metrics"
	"storefront/internal/order/service"
)

type OrderPlacer interface {
	PlaceOrder(ctx context.Context, cmd service.PlacementCommand) (*domain.Order, error)
}

type CartClearer interface {
	Clear(ctx context.Context, customerID uint) error
}

type PlaceOrderUseCase struct {
	placer           OrderPlacer
	cart             CartClearer
	logger           *zap.Logger
	maxRetryAttempts int
}

func NewPlaceOrderUseCase(
	placer OrderPlacer,
	cart CartClearer,
	logger *zap.Logger,
	maxRetryAttempts int,
) *PlaceOrderUseCase {
	return &PlaceOrderUseCase{
		placer:           placer,
		cart:             cart,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
	}
}

func (uc *PlaceOrderUseCase) PlaceOrder(ctx context.Context, cmd service.PlacementCommand) (*domain.Order, error) {
	uc.logger.Info("order placement started",
		zap.Uint("customerId", cmd.CustomerID),
		zap.Int("itemCount", len(cmd.Items)),
	)

	if len(cmd.Items) == 0 {
		return nil, apperrors.NewValidationError("items must not be empty", apperrors.ValidationDetail{
			Field:   "items",
			Message: "an order must contain at least one item",
		})
	}

	var placed *domain.Order
	err := withRetry(uc.logger, uc.maxRetryAttempts, func() error {
		var err error
		placed, err = uc.placer.PlaceOrder(ctx, cmd)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.OrdersPlaced.Inc()

	// The order exists at this point; a stale cart is an inconvenience,
	// not a reason to fail the request.
	if err := uc.cart.Clear(ctx, cmd.CustomerID); err != nil {
		uc.logger.Error("failed to clear cart after placement",
			zap.Uint("customerId", cmd.CustomerID),
			zap.Uint("orderId", placed.ID),
			zap.Error(err),
		)
	}

	return placed, nil
}
