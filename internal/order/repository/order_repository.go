package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/errors"
)

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

const orderColumns = `id, orderNumber, customerId, fullName, phone, province, district, commune,
	       detailAddress, totalAmount, status, paymentMethod, paymentStatus, notes,
	       createdAt, updatedAt`

func scanOrder(scan func(dest ...any) error) (*domain.Order, error) {
	var order domain.Order
	err := scan(
		&order.ID, &order.OrderNumber, &order.CustomerID,
		&order.ShippingAddress.FullName, &order.ShippingAddress.Phone,
		&order.ShippingAddress.Province, &order.ShippingAddress.District,
		&order.ShippingAddress.Commune, &order.ShippingAddress.Detail,
		&order.TotalAmount, &order.Status, &order.PaymentMethod, &order.PaymentStatus,
		&order.Notes, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Insert writes the order row, its line items and the seeded history
// entry in the caller's transaction. IDs are written back onto the
// order.
func (r *MySQLOrderRepository) Insert(ctx context.Context, tx *sql.Tx, order *domain.Order) error {
	query := `
		INSERT INTO Orders (orderNumber, customerId, fullName, phone, province, district,
		                    commune, detailAddress, totalAmount, status, paymentMethod,
		                    paymentStatus, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		order.OrderNumber, order.CustomerID,
		order.ShippingAddress.FullName, order.ShippingAddress.Phone,
		order.ShippingAddress.Province, order.ShippingAddress.District,
		order.ShippingAddress.Commune, order.ShippingAddress.Detail,
		order.TotalAmount, order.Status, order.PaymentMethod, order.PaymentStatus,
		order.Notes,
	)
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}

	orderID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	order.ID = uint(orderID)

	for i := range order.Items {
		order.Items[i].OrderID = order.ID
		itemID, err := r.insertItem(ctx, tx, order.Items[i])
		if err != nil {
			return err
		}
		order.Items[i].ID = itemID
	}

	for i := range order.StatusHistory {
		order.StatusHistory[i].OrderID = order.ID
		entryID, err := r.insertHistory(ctx, tx, order.StatusHistory[i])
		if err != nil {
			return err
		}
		order.StatusHistory[i].ID = entryID
	}

	return nil
}

func (r *MySQLOrderRepository) insertItem(ctx context.Context, tx *sql.Tx, item domain.OrderItem) (uint, error) {
	query := `
		INSERT INTO OrderItems (orderId, productId, productName, specifications, quantity, price, discount)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		item.OrderID, item.ProductID, item.ProductName, item.Specifications,
		item.Quantity, item.Price, item.Discount,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting order item: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(lastInsertID), nil
}

func (r *MySQLOrderRepository) insertHistory(ctx context.Context, tx *sql.Tx, entry domain.StatusEntry) (uint, error) {
	query := `
		INSERT INTO OrderStatusHistory (orderId, status, updatedBy, updatedAt, note)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		entry.OrderID, entry.Status, entry.UpdatedBy, entry.UpdatedAt, entry.Note,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting status history entry: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(lastInsertID), nil
}

// AppendHistory adds one entry to the order's status history. History
// rows are never updated or deleted.
func (r *MySQLOrderRepository) AppendHistory(ctx context.Context, tx *sql.Tx, entry domain.StatusEntry) error {
	_, err := r.insertHistory(ctx, tx, entry)
	return err
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM Orders WHERE id = ?`, orderColumns)

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}
	if err := r.loadHistory(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// FindByIDForUpdate locks the order row for the rest of the
// transaction and hydrates line items, which the cancellation path
// needs for restocking.
func (r *MySQLOrderRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id uint) (*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM Orders WHERE id = ? FOR UPDATE`, orderColumns)

	order, err := scanOrder(tx.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order for update: %w", err)
	}

	itemsQuery := `
		SELECT id, orderId, productId, productName, specifications, quantity, price, discount
		FROM OrderItems
		WHERE orderId = ?
		ORDER BY id ASC
	`
	rows, err := tx.QueryContext(ctx, itemsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("querying order items: %w", err)
	}
	order.Items, err = collectItems(rows)
	if err != nil {
		return nil, err
	}

	return order, nil
}

func (r *MySQLOrderRepository) loadItems(ctx context.Context, order *domain.Order) error {
	query := `
		SELECT id, orderId, productId, productName, specifications, quantity, price, discount
		FROM OrderItems
		WHERE orderId = ?
		ORDER BY id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, order.ID)
	if err != nil {
		return fmt.Errorf("querying order items: %w", err)
	}

	order.Items, err = collectItems(rows)
	return err
}

func collectItems(rows *sql.Rows) ([]domain.OrderItem, error) {
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.Specifications, &item.Quantity, &item.Price, &item.Discount,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning order item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order item rows: %w", err)
	}

	return items, nil
}

func (r *MySQLOrderRepository) loadHistory(ctx context.Context, order *domain.Order) error {
	query := `
		SELECT id, orderId, status, updatedBy, updatedAt, note
		FROM OrderStatusHistory
		WHERE orderId = ?
		ORDER BY id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, order.ID)
	if err != nil {
		return fmt.Errorf("querying status history: %w", err)
	}
	defer rows.Close()

	var history []domain.StatusEntry
	for rows.Next() {
		var entry domain.StatusEntry
		err := rows.Scan(
			&entry.ID, &entry.OrderID, &entry.Status,
			&entry.UpdatedBy, &entry.UpdatedAt, &entry.Note,
		)
		if err != nil {
			return fmt.Errorf("scanning status history row: %w", err)
		}
		history = append(history, entry)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating status history rows: %w", err)
	}

	order.StatusHistory = history
	return nil
}

// LatestNumberForDay returns the greatest order number with the given
// prefix, locking it so two placements in the same transaction window
// cannot both read the same maximum. Returns "" when the day has no
// orders yet.
func (r *MySQLOrderRepository) LatestNumberForDay(ctx context.Context, tx *sql.Tx, prefix string) (string, error) {
	query := `
		SELECT orderNumber
		FROM Orders
		WHERE orderNumber LIKE ?
		ORDER BY orderNumber DESC
		LIMIT 1
		FOR UPDATE
	`

	var number string
	err := tx.QueryRowContext(ctx, query, prefix+"%").Scan(&number)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying latest order number: %w", err)
	}

	return number, nil
}

func (r *MySQLOrderRepository) UpdateStatus(ctx context.Context, tx *sql.Tx, id uint, status domain.OrderStatus, paymentStatus domain.PaymentStatus) error {
	query := `UPDATE Orders SET status = ?, paymentStatus = ? WHERE id = ?`

	result, err := tx.ExecContext(ctx, query, status, paymentStatus, id)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}

	return nil
}

type ListFilter struct {
	Status domain.OrderStatus
	Search string
	Page   int
	Limit  int
}

func (f ListFilter) offset() int {
	page := f.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * f.Limit
}

func (r *MySQLOrderRepository) ListByCustomer(ctx context.Context, customerID uint, filter ListFilter) ([]domain.Order, int, error) {
	conditions := []string{"customerId = ?"}
	args := []any{customerID}

	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}

	return r.list(ctx, conditions, args, filter)
}

func (r *MySQLOrderRepository) ListAll(ctx context.Context, filter ListFilter) ([]domain.Order, int, error) {
	var conditions []string
	var args []any

	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		conditions = append(conditions, "orderNumber LIKE ?")
		args = append(args, "%"+filter.Search+"%")
	}

	return r.list(ctx, conditions, args, filter)
}

func (r *MySQLOrderRepository) list(ctx context.Context, conditions []string, args []any, filter ListFilter) ([]domain.Order, int, error) {
	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM Orders %s`, where)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting orders: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM Orders %s ORDER BY createdAt DESC, id DESC LIMIT ? OFFSET ?`,
		orderColumns, where)
	args = append(args, filter.Limit, filter.offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning order row: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating order rows: %w", err)
	}

	return orders, total, nil
}
