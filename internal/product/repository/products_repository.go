package repository

import (
	"context"
	"database/sql"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/errors"
)

type MySQLProductRepository struct {
	db *sql.DB
}

func NewMySQLProductRepository(db *sql.DB) *MySQLProductRepository {
	return &MySQLProductRepository{db: db}
}

const productColumns = `id, name, specifications, price, discount, quantity, status, createdAt, updatedAt`

func scanProduct(row *sql.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Specifications, &p.Price, &p.Discount,
		&p.Quantity, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *MySQLProductRepository) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM Products WHERE id = ?`, productColumns)

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product by id: %w", err)
	}

	return p, nil
}

func (r *MySQLProductRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id uint) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM Products WHERE id = ? FOR UPDATE`, productColumns)

	p, err := scanProduct(tx.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product for update: %w", err)
	}

	return p, nil
}

func (r *MySQLProductRepository) UpdateStock(ctx context.Context, tx *sql.Tx, id uint, quantity int, status domain.ProductStatus) error {
	query := `UPDATE Products SET quantity = ?, status = ? WHERE id = ?`

	result, err := tx.ExecContext(ctx, query, quantity, status, id)
	if err != nil {
		return fmt.Errorf("updating product stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("product with id %d not found", id))
	}

	return nil
}
