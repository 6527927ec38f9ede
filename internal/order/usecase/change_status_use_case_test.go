package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/domain"
	apperrors "storefront/internal/errors"
)

type mockStatusChanger struct {
	TransitionFunc func(ctx context.Context, orderID uint, target domain.OrderStatus, actor domain.Actor, note string) (*domain.Order, error)
	CancelFunc     func(ctx context.Context, orderID uint, actor domain.Actor, note string) (*domain.Order, error)
}

func (m *mockStatusChanger) Transition(ctx context.Context, orderID uint, target domain.OrderStatus, actor domain.Actor, note string) (*domain.Order, error) {
	return m.TransitionFunc(ctx, orderID, target, actor, note)
}

func (m *mockStatusChanger) Cancel(ctx context.Context, orderID uint, actor domain.Actor, note string) (*domain.Order, error) {
	return m.CancelFunc(ctx, orderID, actor, note)
}

func TestChangeStatus_UnknownStatusRejected(t *testing.T) {
	statuses := &mockStatusChanger{
		TransitionFunc: func(ctx context.Context, orderID uint, target domain.OrderStatus, actor domain.Actor, note string) (*domain.Order, error) {
			t.Fatal("transition must not be called")
			return nil, nil
		},
	}

	uc := NewChangeStatusUseCase(statuses, zap.NewNop(), 3)

	actor := domain.Actor{ID: 100, Role: domain.RoleAdmin}
	_, err := uc.ChangeStatus(context.Background(), 1, "SHIPPED", actor, "")

	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok, "expected ValidationError, got %v", err)
}

func TestChangeStatus_DelegatesToService(t *testing.T) {
	var gotTarget domain.OrderStatus
	var gotNote string
	statuses := &mockStatusChanger{
		TransitionFunc: func(ctx context.Context, orderID uint, target domain.OrderStatus, actor domain.Actor, note string) (*domain.Order, error) {
			gotTarget = target
			gotNote = note
			return &domain.Order{ID: orderID, Status: target}, nil
		},
	}

	uc := NewChangeStatusUseCase(statuses, zap.NewNop(), 3)

	actor := domain.Actor{ID: 100, Role: domain.RoleOrderManager}
	order, err := uc.ChangeStatus(context.Background(), 9, "CONFIRMED", actor, "ok")

	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, gotTarget)
	assert.Equal(t, "ok", gotNote)
	assert.Equal(t, domain.OrderStatusConfirmed, order.Status)
}

func TestChangeStatus_ServiceErrorPassesThrough(t *testing.T) {
	statuses := &mockStatusChanger{
		TransitionFunc: func(ctx context.Context, orderID uint, target domain.OrderStatus, actor domain.Actor, note string) (*domain.Order, error) {
			return nil, apperrors.NewInvalidTransitionError("DELIVERED", "CONFIRMED")
		},
	}

	uc := NewChangeStatusUseCase(statuses, zap.NewNop(), 3)

	actor := domain.Actor{ID: 100, Role: domain.RoleAdmin}
	_, err := uc.ChangeStatus(context.Background(), 1, "CONFIRMED", actor, "")

	_, ok := apperrors.IsInvalidTransitionError(err)
	assert.True(t, ok)
}

func TestCancelOrder_RetriesDeadlock(t *testing.T) {
	attempts := 0
	statuses := &mockStatusChanger{
		CancelFunc: func(ctx context.Context, orderID uint, actor domain.Actor, note string) (*domain.Order, error) {
			attempts++
			if attempts == 1 {
				return nil, deadlockErr()
			}
			return &domain.Order{ID: orderID, Status: domain.OrderStatusCancelled}, nil
		},
	}

	uc := NewChangeStatusUseCase(statuses, zap.NewNop(), 3)

	owner := domain.Actor{ID: 42, Role: domain.RoleCustomer}
	order, err := uc.CancelOrder(context.Background(), 1, owner, "late")

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, domain.OrderStatusCancelled, order.Status)
}

func TestCancelOrder_InvalidStatePassesThrough(t *testing.T) {
	statuses := &mockStatusChanger{
		CancelFunc: func(ctx context.Context, orderID uint, actor domain.Actor, note string) (*domain.Order, error) {
			return nil, apperrors.NewInvalidStateError("order in status SHIPPING cannot be cancelled")
		},
	}

	uc := NewChangeStatusUseCase(statuses, zap.NewNop(), 3)

	owner := domain.Actor{ID: 42, Role: domain.RoleCustomer}
	_, err := uc.CancelOrder(context.Background(), 1, owner, "")

	_, ok := apperrors.IsInvalidStateError(err)
	assert.True(t, ok)
}
