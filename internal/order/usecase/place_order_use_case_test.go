package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/domain"
	apperrors "storefront/internal/errors"
	"storefront/internal/order/service"
)

func deadlockErr() error {
	return &mysql.MySQLError{Number: 1213}
}

func duplicateKeyErr() error {
	return &mysql.MySQLError{Number: 1062}
}

type mockOrderPlacer struct {
	PlaceOrderFunc func(ctx context.Context, cmd service.PlacementCommand) (*domain.Order, error)
}

func (m *mockOrderPlacer) PlaceOrder(ctx context.Context, cmd service.PlacementCommand) (*domain.Order, error) {
	return m.PlaceOrderFunc(ctx, cmd)
}

type mockCartClearer struct {
	ClearFunc func(ctx context.Context, customerID uint) error
}

func (m *mockCartClearer) Clear(ctx context.Context, customerID uint) error {
	return m.ClearFunc(ctx, customerID)
}

func okCart() *mockCartClearer {
	return &mockCartClearer{
		ClearFunc: func(ctx context.Context, customerID uint) error { return nil },
	}
}

func someCommand() service.PlacementCommand {
	return service.PlacementCommand{
		CustomerID:    42,
		Items:         []service.PlacementItem{{ProductID: 1, Quantity: 1}},
		PaymentMethod: domain.PaymentMethodCOD,
	}
}

func TestPlaceOrder_EmptyItemsRejected(t *testing.T) {
	placer := &mockOrderPlacer{
		PlaceOrderFunc: func(ctx context.Context, cmd service.PlacementCommand) (*domain.Order, error) {
			t.Fatal("placer must not be called")
			return nil, nil
		},
	}

	uc := NewPlaceOrderUseCase(placer, okCart(), zap.NewNop(), 3)

	_, err := uc.PlaceOrder(context.Background(), service.PlacementCommand{CustomerID: 42})

	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok, "expected ValidationError, got %v", err)
}

func TestPlaceOrder_ClearsCartAfterSuccess(t *testing.T) {
	placer := &mockOrderPlacer{
		PlaceOrderFunc: func(ctx context.Context, cmd service.PlacementCommand) (*domain.Order, error) {
			return &domain.Order{ID: 1, CustomerID: cmd.CustomerID}, nil
		},
	}

	var clearedFor uint
	cart := &mockCartClearer{
		ClearFunc: func(ctx context.Context, customerID uint) error {
			clearedFor = customerID
			return nil
		},
	}

	uc := NewPlaceOrderUseCase(placer, cart, zap.NewNop(), 3)

	order, err := uc.PlaceOrder(context.Background(), someCommand())

	require.NoError(t, err)
	assert.Equal(t, uint(1), order.ID)
	assert.Equal(t, uint(42), clearedFor)
}

func TestPlaceOrder_CartClearFailureIsNotFatal(t *testing.T) {
	placer := &mockOrderPlacer{
		PlaceOrderFunc: func(ctx context.Context, cmd service.PlacementCommand) (*domain.Order, error) {
			return &domain.Order{ID: 1}, nil
		},
	}

	cart := &mockCartClearer{
		ClearFunc: func(ctx context.Context, customerID uint) error {
			return errors.New("redis gone")
		},
	}

	uc := NewPlaceOrderUseCase(placer, cart, zap.NewNop(), 3)

	_, err := uc.PlaceOrder(context.Background(), someCommand())

	assert.NoError(t, err)
}

func TestPlaceOrder_RetriesDeadlockThenSucceeds(t *testing.T) {
	attempts := 0
	placer := &mockOrderPlacer{
		PlaceOrderFunc: func(ctx context.Context, cmd service.PlacementCommand) (*domain.Order, error) {
			attempts++
			if attempts < 3 {
				return nil, deadlockErr()
			}
			return &domain.Order{ID: 1}, nil
		},
	}

	uc := NewPlaceOrderUseCase(placer, okCart(), zap.NewNop(), 3)

	order, err := uc.PlaceOrder(context.Background(), someCommand())

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, uint(1), order.ID)
}

func TestPlaceOrder_RetriesDuplicateOrderNumber(t *testing.T) {
	attempts := 0
	placer := &mockOrderPlacer{
		PlaceOrderFunc: func(ctx context.Context, cmd service.PlacementCommand) (*domain.Order, error) {
			attempts++
			if attempts == 1 {
				return nil, duplicateKeyErr()
			}
			return &domain.Order{ID: 1}, nil
		},
	}

	uc := NewPlaceOrderUseCase(placer, okCart(), zap.NewNop(), 3)

	_, err := uc.PlaceOrder(context.Background(), someCommand())

	assert.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestPlaceOrder_RetriesExhausted(t *testing.T) {
	placer := &mockOrderPlacer{
		PlaceOrderFunc: func(ctx context.Context, cmd service.PlacementCommand) (*domain.Order, error) {
			return nil, deadlockErr()
		},
	}

	cart := &mockCartClearer{
		ClearFunc: func(ctx context.Context, customerID uint) error {
			t.Fatal("cart must not be cleared on failure")
			return nil
		},
	}

	uc := NewPlaceOrderUseCase(placer, cart, zap.NewNop(), 3)

	_, err := uc.PlaceOrder(context.Background(), someCommand())

	_, ok := apperrors.IsDeadlockError(err)
	assert.True(t, ok, "expected DeadlockError, got %v", err)
}

func TestPlaceOrder_NonRetryableErrorPassesThrough(t *testing.T) {
	attempts := 0
	placer := &mockOrderPlacer{
		PlaceOrderFunc: func(ctx context.Context, cmd service.PlacementCommand) (*domain.Order, error) {
			attempts++
			return nil, apperrors.NewInsufficientStockError(1, 5, 2)
		},
	}

	uc := NewPlaceOrderUseCase(placer, okCart(), zap.NewNop(), 3)

	_, err := uc.PlaceOrder(context.Background(), someCommand())

	_, ok := apperrors.IsInsufficientStockError(err)
	assert.True(t, ok)
	assert.Equal(t, 1, attempts, "business errors are not retried")
}
