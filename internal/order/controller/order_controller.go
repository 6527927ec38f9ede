package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/internal/auth"
	"storefront/internal/domain"
	apperrors "storefront/internal/errors"
	"storefront/internal/order/repository"
	"storefront/internal/order/service"
)

type PlaceOrderUseCase interface {
	PlaceOrder(ctx context.Context, cmd service.PlacementCommand) (*domain.Order, error)
}

type ChangeStatusUseCase interface {
	ChangeStatus(ctx context.Context, orderID uint, status string, actor domain.Actor, note string) (*domain.Order, error)
	CancelOrder(ctx context.Context, orderID uint, actor domain.Actor, note string) (*domain.Order, error)
}

type QueryOrdersUseCase interface {
	GetOrder(ctx context.Context, id uint, actor domain.Actor) (*domain.Order, error)
	ListMyOrders(ctx context.Context, actor domain.Actor, filter repository.ListFilter) ([]domain.Order, int, error)
	ListAllOrders(ctx context.Context, filter repository.ListFilter) ([]domain.Order, int, error)
}

type Controller struct {
	placeUC  PlaceOrderUseCase
	changeUC ChangeStatusUseCase
	queryUC  QueryOrdersUseCase
	logger   *zap.Logger
}

func NewController(
	placeUC PlaceOrderUseCase,
	changeUC ChangeStatusUseCase,
	queryUC QueryOrdersUseCase,
	logger *zap.Logger,
) *Controller {
	return &Controller{
		placeUC:  placeUC,
		changeUC: changeUC,
		queryUC:  queryUC,
		logger:   logger,
	}
}

type envelope struct {
	Success bool                         `json:"success"`
	Message string                       `json:"message,omitempty"`
	Data    any                          `json:"data,omitempty"`
	Details []apperrors.ValidationDetail `json:"details,omitempty"`
}

func (c *Controller) HandleCreateOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		c.writeJSON(w, http.StatusUnauthorized, envelope{Success: false, Message: "missing actor"})
		return
	}

	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeJSON(w, http.StatusBadRequest, envelope{
			Success: false,
			Message: "invalid JSON body",
			Details: []apperrors.ValidationDetail{{Field: "body", Message: "request body must be valid JSON"}},
		})
		return
	}

	if err := validateCreateOrderRequest(req); err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: ve.Message, Details: ve.Details})
		return
	}

	items := make([]service.PlacementItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.PlacementItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}

	cmd := service.PlacementCommand{
		CustomerID: actor.ID,
		Items:      items,
		ShippingAddress: domain.ShippingAddress{
			FullName: req.ShippingAddress.FullName,
			Phone:    req.ShippingAddress.Phone,
			Province: req.ShippingAddress.Province,
			District: req.ShippingAddress.District,
			Commune:  req.ShippingAddress.Commune,
			Detail:   req.ShippingAddress.DetailAddress,
		},
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		Notes:         req.Notes,
	}

	order, err := c.placeUC.PlaceOrder(r.Context(), cmd)
	if err != nil {
		c.handleUseCaseError(w, err, logger)
		return
	}

	c.writeJSON(w, http.StatusCreated, envelope{Success: true, Message: "order created", Data: toOrderDTO(order)})
}

func (c *Controller) HandleListMyOrders(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		c.writeJSON(w, http.StatusUnauthorized, envelope{Success: false, Message: "missing actor"})
		return
	}

	filter, err := parseListFilter(r, false)
	if err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: ve.Message, Details: ve.Details})
		return
	}

	orders, total, err := c.queryUC.ListMyOrders(r.Context(), actor, filter)
	if err != nil {
		c.handleUseCaseError(w, err, c.logger)
		return
	}

	c.writeJSON(w, http.StatusOK, envelope{Success: true, Data: toListDTO(orders, total, filter)})
}

func (c *Controller) HandleListAllOrders(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r, true)
	if err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: ve.Message, Details: ve.Details})
		return
	}

	orders, total, err := c.queryUC.ListAllOrders(r.Context(), filter)
	if err != nil {
		c.handleUseCaseError(w, err, c.logger)
		return
	}

	c.writeJSON(w, http.StatusOK, envelope{Success: true, Data: toListDTO(orders, total, filter)})
}

func (c *Controller) HandleGetOrder(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		c.writeJSON(w, http.StatusUnauthorized, envelope{Success: false, Message: "missing actor"})
		return
	}

	orderID, err := parseOrderID(r)
	if err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: ve.Message, Details: ve.Details})
		return
	}

	order, err := c.queryUC.GetOrder(r.Context(), orderID, actor)
	if err != nil {
		c.handleUseCaseError(w, err, c.logger)
		return
	}

	c.writeJSON(w, http.StatusOK, envelope{Success: true, Data: toOrderDTO(order)})
}

func (c *Controller) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		c.writeJSON(w, http.StatusUnauthorized, envelope{Success: false, Message: "missing actor"})
		return
	}

	orderID, err := parseOrderID(r)
	if err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: ve.Message, Details: ve.Details})
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeJSON(w, http.StatusBadRequest, envelope{
			Success: false,
			Message: "invalid JSON body",
			Details: []apperrors.ValidationDetail{{Field: "body", Message: "request body must be valid JSON"}},
		})
		return
	}

	order, err := c.changeUC.ChangeStatus(r.Context(), orderID, req.Status, actor, req.Note)
	if err != nil {
		c.handleUseCaseError(w, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, envelope{Success: true, Message: "order status updated", Data: toOrderDTO(order)})
}

func (c *Controller) HandleCancelOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		c.writeJSON(w, http.StatusUnauthorized, envelope{Success: false, Message: "missing actor"})
		return
	}

	orderID, err := parseOrderID(r)
	if err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: ve.Message, Details: ve.Details})
		return
	}

	// Body is optional for cancellation.
	var req CancelOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeJSON(w, http.StatusBadRequest, envelope{
			Success: false,
			Message: "invalid JSON body",
			Details: []apperrors.ValidationDetail{{Field: "body", Message: "request body must be valid JSON"}},
		})
		return
	}

	order, err := c.changeUC.CancelOrder(r.Context(), orderID, actor, req.Note)
	if err != nil {
		c.handleUseCaseError(w, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, envelope{Success: true, Message: "order cancelled", Data: toOrderDTO(order)})
}

func parseOrderID(r *http.Request) (uint, error) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewValidationError("invalid order id", apperrors.ValidationDetail{
			Field:   "id",
			Message: "id must be a positive integer",
		})
	}
	return uint(id), nil
}

func parseListFilter(r *http.Request, withSearch bool) (repository.ListFilter, error) {
	var filter repository.ListFilter

	query := r.URL.Query()
	if pageStr := query.Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			return filter, apperrors.NewValidationError("invalid page", apperrors.ValidationDetail{
				Field:   "page",
				Message: "page must be a positive integer",
			})
		}
		filter.Page = page
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			return filter, apperrors.NewValidationError("invalid limit", apperrors.ValidationDetail{
				Field:   "limit",
				Message: "limit must be a positive integer",
			})
		}
		filter.Limit = limit
	}

	if statusStr := query.Get("status"); statusStr != "" {
		status := domain.OrderStatus(statusStr)
		if !status.Valid() {
			return filter, apperrors.NewValidationError("invalid status filter", apperrors.ValidationDetail{
				Field:   "status",
				Message: "status must be one of PENDING, CONFIRMED, PROCESSING, SHIPPING, DELIVERED, CANCELLED",
			})
		}
		filter.Status = status
	}

	if withSearch {
		filter.Search = query.Get("search")
	}

	return filter, nil
}

func toListDTO(orders []domain.Order, total int, filter repository.ListFilter) OrderListDTO {
	dtos := make([]OrderDTO, len(orders))
	for i := range orders {
		dto := toOrderDTO(&orders[i])
		// List rows are summaries; items and history are not hydrated.
		dto.Items = nil
		dto.StatusHistory = nil
		dtos[i] = dto
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}

	return OrderListDTO{
		Orders: dtos,
		Page:   page,
		Limit:  limit,
		Total:  total,
	}
}

func validateCreateOrderRequest(req CreateOrderRequest) error {
	var details []apperrors.ValidationDetail

	if len(req.Items) == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "items must not be empty",
		})
	}

	if len(req.Items) > 100 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "items exceeds maximum of 100",
		})
	}

	seen := make(map[uint]bool)
	for idx, item := range req.Items {
		if item.ProductID == 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   "items[" + strconv.Itoa(idx) + "].productId",
				Message: "each productId must be a positive integer",
			})
		}

		if seen[item.ProductID] {
			details = append(details, apperrors.ValidationDetail{
				Field:   "items[" + strconv.Itoa(idx) + "].productId",
				Message: "productId must not be duplicated",
			})
		}
		seen[item.ProductID] = true

		if item.Quantity < 1 || item.Quantity > 10000 {
			details = append(details, apperrors.ValidationDetail{
				Field:   "items[" + strconv.Itoa(idx) + "].quantity",
				Message: "quantity must be between 1 and 10000",
			})
		}
	}

	address := map[string]string{
		"shippingAddress.fullName":      req.ShippingAddress.FullName,
		"shippingAddress.phone":         req.ShippingAddress.Phone,
		"shippingAddress.province":      req.ShippingAddress.Province,
		"shippingAddress.district":      req.ShippingAddress.District,
		"shippingAddress.commune":       req.ShippingAddress.Commune,
		"shippingAddress.detailAddress": req.ShippingAddress.DetailAddress,
	}
	for field, value := range address {
		if value == "" {
			details = append(details, apperrors.ValidationDetail{
				Field:   field,
				Message: "field is required",
			})
		}
	}

	if !domain.PaymentMethod(req.PaymentMethod).Valid() {
		details = append(details, apperrors.ValidationDetail{
			Field:   "paymentMethod",
			Message: "paymentMethod must be COD or BANK_TRANSFER",
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
}

func (c *Controller) handleUseCaseError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: ve.Message, Details: ve.Details})
		return
	}

	if nf, ok := apperrors.IsNotFoundError(err); ok {
		c.writeJSON(w, http.StatusNotFound, envelope{Success: false, Message: nf.Message})
		return
	}

	if fe, ok := apperrors.IsForbiddenError(err); ok {
		c.writeJSON(w, http.StatusForbidden, envelope{Success: false, Message: fe.Message})
		return
	}

	if ise, ok := apperrors.IsInsufficientStockError(err); ok {
		c.writeJSON(w, http.StatusConflict, envelope{Success: false, Message: ise.Message})
		return
	}

	if ite, ok := apperrors.IsInvalidTransitionError(err); ok {
		c.writeJSON(w, http.StatusConflict, envelope{Success: false, Message: ite.Message})
		return
	}

	if ise, ok := apperrors.IsInvalidStateError(err); ok {
		c.writeJSON(w, http.StatusConflict, envelope{Success: false, Message: ise.Message})
		return
	}

	if ce, ok := apperrors.IsConflictError(err); ok {
		c.writeJSON(w, http.StatusConflict, envelope{Success: false, Message: ce.Message})
		return
	}

	if de, ok := apperrors.IsDeadlockError(err); ok {
		c.writeJSON(w, http.StatusConflict, envelope{Success: false, Message: de.Message})
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeJSON(w, http.StatusInternalServerError, envelope{Success: false, Message: "an unexpected error occurred"})
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
