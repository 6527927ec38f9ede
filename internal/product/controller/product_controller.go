package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"storefront/internal/domain"
	apperrors "storefront/internal/errors"
)

type ProductFinder interface {
	FindByID(ctx context.Context, id uint) (*domain.Product, error)
}

type Controller struct {
	products ProductFinder
	logger   *zap.Logger
}

func NewController(products ProductFinder, logger *zap.Logger) *Controller {
	return &Controller{
		products: products,
		logger:   logger,
	}
}

type productResponse struct {
	ID             uint      `json:"id"`
	Name           string    `json:"name"`
	Specifications string    `json:"specifications"`
	Price          string    `json:"price"`
	Discount       string    `json:"discount"`
	Quantity       int       `json:"quantity"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func (c *Controller) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || id == 0 {
		c.writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: "id must be a positive integer"})
		return
	}

	product, err := c.products.FindByID(r.Context(), uint(id))
	if err != nil {
		if nf, ok := apperrors.IsNotFoundError(err); ok {
			c.writeJSON(w, http.StatusNotFound, envelope{Success: false, Message: nf.Message})
			return
		}
		c.logger.Error("get product failed", zap.Uint64("id", id), zap.Error(err))
		c.writeJSON(w, http.StatusInternalServerError, envelope{Success: false, Message: "an unexpected error occurred"})
		return
	}

	c.writeJSON(w, http.StatusOK, envelope{Success: true, Data: productResponse{
		ID:             product.ID,
		Name:           product.Name,
		Specifications: product.Specifications,
		Price:          product.Price.StringFixed(2),
		Discount:       product.Discount.StringFixed(2),
		Quantity:       product.Quantity,
		Status:         string(product.Status),
		CreatedAt:      product.CreatedAt,
		UpdatedAt:      product.UpdatedAt,
	}})
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
