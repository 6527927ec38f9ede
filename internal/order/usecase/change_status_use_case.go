package usecase

import (
	"context"

	"go.uber.org/zap"

	"storefront/internal/domain"
	apperrors "storefront/internal/errors"
	"storefront/internal/metrics"
)

type StatusChanger interface {
	Transition(ctx context.Context, orderID uint, target domain.OrderStatus, actor domain.Actor, note string) (*domain.Order, error)
	Cancel(ctx context.Context, orderID uint, actor domain.Actor, note string) (*domain.Order, error)
}

type ChangeStatusUseCase struct {
	statuses         StatusChanger
	logger           *zap.Logger
	maxRetryAttempts int
}

func NewChangeStatusUseCase(statuses StatusChanger, logger *zap.Logger, maxRetryAttempts int) *ChangeStatusUseCase {
	return &ChangeStatusUseCase{
		statuses:         statuses,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
	}
}

func (uc *ChangeStatusUseCase) ChangeStatus(ctx context.Context, orderID uint, status string, actor domain.Actor, note string) (*domain.Order, error) {
	target := domain.OrderStatus(status)
	if !target.Valid() {
		return nil, apperrors.NewValidationError("invalid status", apperrors.ValidationDetail{
			Field:   "status",
			Message: "status must be one of PENDING, CONFIRMED, PROCESSING, SHIPPING, DELIVERED, CANCELLED",
		})
	}

	var updated *domain.Order
	err := withRetry(uc.logger, uc.maxRetryAttempts, func() error {
		var err error
		updated, err = uc.statuses.Transition(ctx, orderID, target, actor, note)
		return err
	})
	if err != nil {
		return nil, err
	}

	if target == domain.OrderStatusCancelled {
		metrics.OrdersCancelled.Inc()
	}

	return updated, nil
}

func (uc *ChangeStatusUseCase) CancelOrder(ctx context.Context, orderID uint, actor domain.Actor, note string) (*domain.Order, error) {
	var cancelled *domain.Order
	err := withRetry(uc.logger, uc.maxRetryAttempts, func() error {
		var err error
		cancelled, err = uc.statuses.Cancel(ctx, orderID, actor, note)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.OrdersCancelled.Inc()
	return cancelled, nil
}
