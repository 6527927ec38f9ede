package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipping   OrderStatus = "SHIPPING"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// orderTransitions is the single source of truth for status legality.
// DELIVERED and CANCELLED have no outgoing transitions.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipping, OrderStatusCancelled},
	OrderStatusShipping:   {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentMethodCOD          PaymentMethod = "COD"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodCOD || m == PaymentMethodBankTransfer
}

type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "UNPAID"
	PaymentStatusPaid   PaymentStatus = "PAID"
)

type ShippingAddress struct {
	FullName string
	Phone    string
	Province string
	District string
	Commune  string
	Detail   string
}

// OrderItem is a snapshot of the product at the moment the order was
// placed: name, specifications, unit price and discount are copied, not
// live-linked.
type OrderItem struct {
	ID             uint
	OrderID        uint
	ProductID      uint
	ProductName    string
	Specifications string
	Quantity       int
	Price          decimal.Decimal
	Discount       decimal.Decimal
}

type StatusEntry struct {
	ID        uint
	OrderID   uint
	Status    OrderStatus
	UpdatedBy uint
	UpdatedAt time.Time
	Note      string
}

type Order struct {
	ID              uint
	OrderNumber     string
	CustomerID      uint
	Items           []OrderItem
	ShippingAddress ShippingAddress
	TotalAmount     decimal.Decimal
	Status          OrderStatus
	PaymentMethod   PaymentMethod
	PaymentStatus   PaymentStatus
	StatusHistory   []StatusEntry
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (o *Order) IsOwnedBy(customerID uint) bool {
	return o.CustomerID == customerID
}
