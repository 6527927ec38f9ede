package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	apperrors "storefront/internal/errors"
	"storefront/internal/testutil"
)

func setupProductRepo(t *testing.T) (*MySQLProductRepository, *sql.DB) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	return NewMySQLProductRepository(db), db
}

func seedProduct(t *testing.T, db *sql.DB, name string, price string, quantity int, status domain.ProductStatus) uint {
	t.Helper()
	result, err := db.Exec(
		`INSERT INTO Products (name, specifications, price, discount, quantity, status) VALUES (?, ?, ?, ?, ?, ?)`,
		name, "spec", price, "0.00", quantity, status,
	)
	require.NoError(t, err)
	id, err := result.LastInsertId()
	require.NoError(t, err)
	return uint(id)
}

func TestProductRepository_FindByID(t *testing.T) {
	repo, db := setupProductRepo(t)
	id := seedProduct(t, db, "Laptop", "1500.00", 10, domain.ProductStatusAvailable)

	p, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, "Laptop", p.Name)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("1500.00")))
	assert.Equal(t, 10, p.Quantity)
	assert.Equal(t, domain.ProductStatusAvailable, p.Status)
}

func TestProductRepository_FindByIDNotFound(t *testing.T) {
	repo, _ := setupProductRepo(t)

	_, err := repo.FindByID(context.Background(), 99999)

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok, "expected NotFoundError, got %v", err)
}

func TestProductRepository_UpdateStock(t *testing.T) {
	repo, db := setupProductRepo(t)
	ctx := context.Background()
	id := seedProduct(t, db, "Laptop", "1500.00", 10, domain.ProductStatusAvailable)

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)

	locked, err := repo.FindByIDForUpdate(ctx, tx, id)
	require.NoError(t, err)
	assert.Equal(t, 10, locked.Quantity)

	require.NoError(t, repo.UpdateStock(ctx, tx, id, 0, domain.ProductStatusOutOfStock))
	require.NoError(t, tx.Commit())

	p, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Quantity)
	assert.Equal(t, domain.ProductStatusOutOfStock, p.Status)
}

func TestProductRepository_UpdateStockNotFound(t *testing.T) {
	repo, db := setupProductRepo(t)
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	err = repo.UpdateStock(ctx, tx, 99999, 5, domain.ProductStatusAvailable)

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok, "expected NotFoundError, got %v", err)
}
