package service

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/pricing"
)

type TxRunner interface {
	WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

type Inventory interface {
	Reserve(ctx context.Context, tx *sql.Tx, productID uint, quantity int) (*domain.Product, error)
	Release(ctx context.Context, tx *sql.Tx, productID uint, quantity int) error
}

type OrderRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, order *domain.Order) error
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id uint) (*domain.Order, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, id uint, status domain.OrderStatus, paymentStatus domain.PaymentStatus) error
	AppendHistory(ctx context.Context, tx *sql.Tx, entry domain.StatusEntry) error
}

type PlacementItem struct {
	ProductID uint
	Quantity  int
}

type PlacementCommand struct {
	CustomerID      uint
	Items           []PlacementItem
	ShippingAddress domain.ShippingAddress
	PaymentMethod   domain.PaymentMethod
	Notes           string
}

// PlacementService creates orders. Stock checks, stock decrements for
// every item, order number assignment and the order insert are one
// transaction: nothing survives a failure partway.
type PlacementService struct {
	tx        TxRunner
	inventory Inventory
	orderRepo OrderRepository
	numbers   *OrderNumberGenerator
	logger    *zap.Logger
	now       func() time.Time
}

func NewPlacementService(
	tx TxRunner,
	inventory Inventory,
	orderRepo OrderRepository,
	numbers *OrderNumberGenerator,
	logger *zap.Logger,
) *PlacementService {
	return &PlacementService{
		tx:        tx,
		inventory: inventory,
		orderRepo: orderRepo,
		numbers:   numbers,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *PlacementService) PlaceOrder(ctx context.Context, cmd PlacementCommand) (*domain.Order, error) {
	var placed *domain.Order

	err := s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		// Lock product rows in ascending id order so two concurrent
		// placements cannot deadlock on each other's locks.
		locked := make([]PlacementItem, len(cmd.Items))
		copy(locked, cmd.Items)
		sort.Slice(locked, func(i, j int) bool { return locked[i].ProductID < locked[j].ProductID })

		snapshots := make(map[uint]*domain.Product, len(locked))
		for _, item := range locked {
			product, err := s.inventory.Reserve(ctx, tx, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			snapshots[item.ProductID] = product
		}

		// Line items keep the request order; only locking is reordered.
		items := make([]domain.OrderItem, len(cmd.Items))
		for i, item := range cmd.Items {
			product := snapshots[item.ProductID]
			items[i] = domain.OrderItem{
				ProductID:      product.ID,
				ProductName:    product.Name,
				Specifications: product.Specifications,
				Quantity:       item.Quantity,
				Price:          product.Price,
				Discount:       product.Discount,
			}
		}

		now := s.now()
		number, err := s.numbers.Next(ctx, tx, now)
		if err != nil {
			return err
		}

		order := &domain.Order{
			OrderNumber:     number,
			CustomerID:      cmd.CustomerID,
			Items:           items,
			ShippingAddress: cmd.ShippingAddress,
			TotalAmount:     pricing.OrderTotal(items),
			Status:          domain.OrderStatusPending,
			PaymentMethod:   cmd.PaymentMethod,
			PaymentStatus:   domain.PaymentStatusUnpaid,
			Notes:           cmd.Notes,
			StatusHistory: []domain.StatusEntry{{
				Status:    domain.OrderStatusPending,
				UpdatedBy: cmd.CustomerID,
				UpdatedAt: now,
				Note:      "order placed",
			}},
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := s.orderRepo.Insert(ctx, tx, order); err != nil {
			return err
		}

		placed = order
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("order placed",
		zap.Uint("orderId", placed.ID),
		zap.String("orderNumber", placed.OrderNumber),
		zap.Uint("customerId", placed.CustomerID),
		zap.Int("itemCount", len(placed.Items)),
		zap.String("totalAmount", placed.TotalAmount.StringFixed(2)),
	)

	return placed, nil
}
