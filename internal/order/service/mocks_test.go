package service

import (
	"context"
	"database/sql"

	"storefront/internal/domain"
)

// fakeTxRunner hands the callback a nil transaction; the mock
// repositories below never touch it.
type fakeTxRunner struct {
	err error
}

func (f *fakeTxRunner) WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type mockInventory struct {
	ReserveFunc func(ctx context.Context, tx *sql.Tx, productID uint, quantity int) (*domain.Product, error)
	ReleaseFunc func(ctx context.Context, tx *sql.Tx, productID uint, quantity int) error
}

func (m *mockInventory) Reserve(ctx context.Context, tx *sql.Tx, productID uint, quantity int) (*domain.Product, error) {
	return m.ReserveFunc(ctx, tx, productID, quantity)
}

func (m *mockInventory) Release(ctx context.Context, tx *sql.Tx, productID uint, quantity int) error {
	return m.ReleaseFunc(ctx, tx, productID, quantity)
}

type mockOrderRepository struct {
	InsertFunc            func(ctx context.Context, tx *sql.Tx, order *domain.Order) error
	FindByIDForUpdateFunc func(ctx context.Context, tx *sql.Tx, id uint) (*domain.Order, error)
	UpdateStatusFunc      func(ctx context.Context, tx *sql.Tx, id uint, status domain.OrderStatus, paymentStatus domain.PaymentStatus) error
	AppendHistoryFunc     func(ctx context.Context, tx *sql.Tx, entry domain.StatusEntry) error
}

func (m *mockOrderRepository) Insert(ctx context.Context, tx *sql.Tx, order *domain.Order) error {
	return m.InsertFunc(ctx, tx, order)
}

func (m *mockOrderRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id uint) (*domain.Order, error) {
	return m.FindByIDForUpdateFunc(ctx, tx, id)
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, tx *sql.Tx, id uint, status domain.OrderStatus, paymentStatus domain.PaymentStatus) error {
	return m.UpdateStatusFunc(ctx, tx, id, status, paymentStatus)
}

func (m *mockOrderRepository) AppendHistory(ctx context.Context, tx *sql.Tx, entry domain.StatusEntry) error {
	return m.AppendHistoryFunc(ctx, tx, entry)
}

type mockNumberSource struct {
	LatestNumberForDayFunc func(ctx context.Context, tx *sql.Tx, prefix string) (string, error)
}

func (m *mockNumberSource) LatestNumberForDay(ctx context.Context, tx *sql.Tx, prefix string) (string, error) {
	return m.LatestNumberForDayFunc(ctx, tx, prefix)
}
