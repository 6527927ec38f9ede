package controller

import (
	"time"

	"storefront/internal/domain"
	"storefront/internal/pricing"
)

type CreateOrderRequest struct {
	Items           []CreateOrderItem  `json:"items"`
	ShippingAddress ShippingAddressDTO `json:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod"`
	Notes           string             `json:"notes"`
}

type CreateOrderItem struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

type ShippingAddressDTO struct {
	FullName      string `json:"fullName"`
	Phone         string `json:"phone"`
	Province      string `json:"province"`
	District      string `json:"district"`
	Commune       string `json:"commune"`
	DetailAddress string `json:"detailAddress"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

type CancelOrderRequest struct {
	Note string `json:"note"`
}

type OrderItemDTO struct {
	ProductID      uint   `json:"productId"`
	ProductName    string `json:"productName"`
	Specifications string `json:"specifications"`
	Quantity       int    `json:"quantity"`
	Price          string `json:"price"`
	Discount       string `json:"discount"`
	LineTotal      string `json:"lineTotal"`
}

type StatusEntryDTO struct {
	Status    string    `json:"status"`
	UpdatedBy uint      `json:"updatedBy"`
	UpdatedAt time.Time `json:"updatedAt"`
	Note      string    `json:"note"`
}

type OrderDTO struct {
	ID              uint               `json:"id"`
	OrderNumber     string             `json:"orderNumber"`
	CustomerID      uint               `json:"customerId"`
	Items           []OrderItemDTO     `json:"items,omitempty"`
	ShippingAddress ShippingAddressDTO `json:"shippingAddress"`
	TotalAmount     string             `json:"totalAmount"`
	Status          string             `json:"status"`
	PaymentMethod   string             `json:"paymentMethod"`
	PaymentStatus   string             `json:"paymentStatus"`
	StatusHistory   []StatusEntryDTO   `json:"statusHistory,omitempty"`
	Notes           string             `json:"notes,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

type OrderListDTO struct {
	Orders []OrderDTO `json:"orders"`
	Page   int        `json:"page"`
	Limit  int        `json:"limit"`
	Total  int        `json:"total"`
}

func toOrderDTO(order *domain.Order) OrderDTO {
	items := make([]OrderItemDTO, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemDTO{
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			Specifications: item.Specifications,
			Quantity:       item.Quantity,
			Price:          item.Price.StringFixed(2),
			Discount:       item.Discount.StringFixed(2),
			LineTotal:      pricing.LineTotal(item).Round(2).StringFixed(2),
		}
	}

	history := make([]StatusEntryDTO, len(order.StatusHistory))
	for i, entry := range order.StatusHistory {
		history[i] = StatusEntryDTO{
			Status:    string(entry.Status),
			UpdatedBy: entry.UpdatedBy,
			UpdatedAt: entry.UpdatedAt,
			Note:      entry.Note,
		}
	}

	return OrderDTO{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		CustomerID:  order.CustomerID,
		Items:       items,
		ShippingAddress: ShippingAddressDTO{
			FullName:      order.ShippingAddress.FullName,
			Phone:         order.ShippingAddress.Phone,
			Province:      order.ShippingAddress.Province,
			District:      order.ShippingAddress.District,
			Commune:       order.ShippingAddress.Commune,
			DetailAddress: order.ShippingAddress.Detail,
		},
		TotalAmount:   order.TotalAmount.StringFixed(2),
		Status:        string(order.Status),
		PaymentMethod: string(order.PaymentMethod),
		PaymentStatus: string(order.PaymentStatus),
		StatusHistory: history,
		Notes:         order.Notes,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}
