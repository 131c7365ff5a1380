package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/fjod/go_cart/shop-service/internal/domain"
	"github.com/fjod/go_cart/shop-service/internal/policy"
	"github.com/fjod/go_cart/shop-service/internal/service"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, caller policy.Caller, userID string, items []domain.LineItem) (domain.Order, error)
	ListAllOrders(ctx context.Context, caller policy.Caller) ([]domain.Order, error)
	ListUserOrders(ctx context.Context, caller policy.Caller, userID string) ([]domain.Order, error)
}

type OrdersHandler struct {
	responder
	orders  OrderService
	timeout time.Duration
}

func NewOrdersHandler(orders OrderService, logger *zap.Logger, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		responder: responder{log: logger},
		orders:    orders,
		timeout:   timeout,
	}
}

type CreateOrderRequest struct {
	UserID   string            `json:"userId"`
	Products []domain.LineItem `json:"products"`
}

func (h *OrdersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" || req.Products == nil {
		h.handleServiceError(w, service.ErrMissingField, "Order")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	order, err := h.orders.PlaceOrder(ctx, getCaller(r.Context()), req.UserID, req.Products)
	if err != nil {
		h.handleServiceError(w, err, "Order")
		return
	}

	h.respondJSON(w, http.StatusCreated, order)
}

func (h *OrdersHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	orders, err := h.orders.ListAllOrders(ctx, getCaller(r.Context()))
	if err != nil {
		h.handleServiceError(w, err, "Order")
		return
	}

	h.respondJSON(w, http.StatusOK, nonNil(orders))
}

func (h *OrdersHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	orders, err := h.orders.ListUserOrders(ctx, getCaller(r.Context()), chi.URLParam(r, "userId"))
	if err != nil {
		h.handleServiceError(w, err, "User")
		return
	}

	h.respondJSON(w, http.StatusOK, nonNil(orders))
}
