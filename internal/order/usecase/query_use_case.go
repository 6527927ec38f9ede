package usecase

import (
	"context"

	"go.uber.org/zap"

	"storefront/internal/domain"
	apperrors "storefront/internal/errors"
	"storefront/internal/order/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type OrderReader interface {
	FindByID(ctx context.Context, id uint) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID uint, filter repository.ListFilter) ([]domain.Order, int, error)
	ListAll(ctx context.Context, filter repository.ListFilter) ([]domain.Order, int, error)
}

type QueryOrdersUseCase struct {
	orders OrderReader
	logger *zap.Logger
}

func NewQueryOrdersUseCase(orders OrderReader, logger *zap.Logger) *QueryOrdersUseCase {
	return &QueryOrdersUseCase{
		orders: orders,
		logger: logger,
	}
}

// GetOrder fetches one order. Customers may only read their own.
func (uc *QueryOrdersUseCase) GetOrder(ctx context.Context, id uint, actor domain.Actor) (*domain.Order, error) {
	order, err := uc.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.Role.CanManageOrders() && !order.IsOwnedBy(actor.ID) {
		return nil, apperrors.NewForbiddenError("order belongs to another customer")
	}

	return order, nil
}

func (uc *QueryOrdersUseCase) ListMyOrders(ctx context.Context, actor domain.Actor, filter repository.ListFilter) ([]domain.Order, int, error) {
	return uc.orders.ListByCustomer(ctx, actor.ID, clamp(filter))
}

func (uc *QueryOrdersUseCase) ListAllOrders(ctx context.Context, filter repository.ListFilter) ([]domain.Order, int, error) {
	return uc.orders.ListAll(ctx, clamp(filter))
}

func clamp(filter repository.ListFilter) repository.ListFilter {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	return filter
}
