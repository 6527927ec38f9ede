package cart

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"storefront/internal/auth"
)

type Controller struct {
	store  *Store
	logger *zap.Logger
}

func NewController(store *Store, logger *zap.Logger) *Controller {
	return &Controller{
		store:  store,
		logger: logger,
	}
}

type addItemRequest struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

type cartItemDTO struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func (c *Controller) HandleGetCart(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		c.writeJSON(w, http.StatusUnauthorized, envelope{Success: false, Message: "missing actor"})
		return
	}

	items, err := c.store.Items(r.Context(), actor.ID)
	if err != nil {
		c.logger.Error("reading cart failed", zap.Uint("customerId", actor.ID), zap.Error(err))
		c.writeJSON(w, http.StatusInternalServerError, envelope{Success: false, Message: "an unexpected error occurred"})
		return
	}

	dtos := make([]cartItemDTO, 0, len(items))
	for productID, quantity := range items {
		dtos = append(dtos, cartItemDTO{ProductID: productID, Quantity: quantity})
	}

	c.writeJSON(w, http.StatusOK, envelope{Success: true, Data: dtos})
}

func (c *Controller) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		c.writeJSON(w, http.StatusUnauthorized, envelope{Success: false, Message: "missing actor"})
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: "invalid JSON body"})
		return
	}

	if req.ProductID == 0 || req.Quantity < 1 {
		c.writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: "productId and quantity must be positive"})
		return
	}

	if err := c.store.Add(r.Context(), actor.ID, req.ProductID, req.Quantity); err != nil {
		c.logger.Error("adding cart item failed", zap.Uint("customerId", actor.ID), zap.Error(err))
		c.writeJSON(w, http.StatusInternalServerError, envelope{Success: false, Message: "an unexpected error occurred"})
		return
	}

	c.writeJSON(w, http.StatusOK, envelope{Success: true, Message: "item added to cart"})
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
