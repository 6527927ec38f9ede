package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/errors"
)

// StatusService drives the order status machine. Every change locks
// the order row, appends exactly one history entry and commits both in
// the same transaction.
type StatusService struct {
	tx        TxRunner
	orderRepo OrderRepository
	inventory Inventory
	logger    *zap.Logger
	now       func() time.Time
}

func NewStatusService(
	tx TxRunner,
	orderRepo OrderRepository,
	inventory Inventory,
	logger *zap.Logger,
) *StatusService {
	return &StatusService{
		tx:        tx,
		orderRepo: orderRepo,
		inventory: inventory,
		logger:    logger,
		now:       time.Now,
	}
}

// Transition moves an order to target per the transition table. It
// never touches inventory: stock was committed at placement time, and
// a managerial move to CANCELLED is logged for manual reconciliation
// instead of auto-restocking.
func (s *StatusService) Transition(ctx context.Context, orderID uint, target domain.OrderStatus, actor domain.Actor, note string) (*domain.Order, error) {
	var updated *domain.Order

	err := s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		order, err := s.orderRepo.FindByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}

		if order.Status.IsTerminal() || !order.Status.CanTransitionTo(target) {
			return errors.NewInvalidTransitionError(string(order.Status), string(target))
		}

		paymentStatus := order.PaymentStatus
		if target == domain.OrderStatusDelivered {
			paymentStatus = domain.PaymentStatusPaid
		}

		if err := s.orderRepo.UpdateStatus(ctx, tx, orderID, target, paymentStatus); err != nil {
			return err
		}

		entry := domain.StatusEntry{
			OrderID:   orderID,
			Status:    target,
			UpdatedBy: actor.ID,
			UpdatedAt: s.now(),
			Note:      note,
		}
		if err := s.orderRepo.AppendHistory(ctx, tx, entry); err != nil {
			return err
		}

		if target == domain.OrderStatusCancelled {
			s.logger.Warn("order cancelled via status update, stock not restored",
				zap.Uint("orderId", orderID),
				zap.Uint("actorId", actor.ID),
				zap.Int("itemCount", len(order.Items)),
			)
		}

		order.Status = target
		order.PaymentStatus = paymentStatus
		order.StatusHistory = append(order.StatusHistory, entry)
		updated = order
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("order status changed",
		zap.Uint("orderId", orderID),
		zap.String("status", string(target)),
		zap.Uint("actorId", actor.ID),
	)

	return updated, nil
}

// Cancel is the customer-facing cancellation: owner only, PENDING
// only. Stock restoration for every line item and the status change
// commit together or not at all.
func (s *StatusService) Cancel(ctx context.Context, orderID uint, actor domain.Actor, note string) (*domain.Order, error) {
	var cancelled *domain.Order

	err := s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		order, err := s.orderRepo.FindByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}

		if !order.IsOwnedBy(actor.ID) {
			return errors.NewForbiddenError("order belongs to another customer")
		}

		if order.Status != domain.OrderStatusPending {
			return errors.NewInvalidStateError(
				fmt.Sprintf("order in status %s cannot be cancelled", order.Status))
		}

		for _, item := range order.Items {
			if err := s.inventory.Release(ctx, tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		if err := s.orderRepo.UpdateStatus(ctx, tx, orderID, domain.OrderStatusCancelled, order.PaymentStatus); err != nil {
			return err
		}

		entry := domain.StatusEntry{
			OrderID:   orderID,
			Status:    domain.OrderStatusCancelled,
			UpdatedBy: actor.ID,
			UpdatedAt: s.now(),
			Note:      note,
		}
		if err := s.orderRepo.AppendHistory(ctx, tx, entry); err != nil {
			return err
		}

		order.Status = domain.OrderStatusCancelled
		order.StatusHistory = append(order.StatusHistory, entry)
		cancelled = order
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("order cancelled",
		zap.Uint("orderId", orderID),
		zap.Uint("customerId", actor.ID),
		zap.Int("restockedItems", len(cancelled.Items)),
	)

	return cancelled, nil
}
