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

type ProductService interface {
	CreateProduct(ctx context.Context, caller policy.Caller, in service.ProductInput) (domain.Product, error)
	ListProducts(ctx context.Context) []domain.Product
	ListActiveProducts(ctx context.Context) []domain.Product
	GetProduct(ctx context.Context, productID string) (domain.Product, error)
	UpdateProduct(ctx context.Context, caller policy.Caller, productID string, in service.ProductInput) (domain.Product, error)
	ArchiveProduct(ctx context.Context, caller policy.Caller, productID string) error
}

type ProductHandler struct {
	responder
	products ProductService
	timeout  time.Duration
}

func NewProductHandler(products ProductService, logger *zap.Logger, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		responder: responder{log: logger},
		products:  products,
		timeout:   timeout,
	}
}

// ProductRequest uses pointers so absent fields can be told apart from zero values
type ProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
}

// toInput requires price. Name and description default to empty on create;
// an update replaces all three, so full requires every field.
func (req ProductRequest) toInput(full bool) (service.ProductInput, bool) {
	if req.Price == nil || (full && (req.Name == nil || req.Description == nil)) {
		return service.ProductInput{}, false
	}
	in := service.ProductInput{Price: *req.Price}
	if req.Name != nil {
		in.Name = *req.Name
	}
	if req.Description != nil {
		in.Description = *req.Description
	}
	return in, true
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	in, ok := req.toInput(false)
	if !ok {
		h.handleServiceError(w, service.ErrMissingField, "Product")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	product, err := h.products.CreateProduct(ctx, getCaller(r.Context()), in)
	if err != nil {
		h.handleServiceError(w, err, "Product")
		return
	}

	h.respondJSON(w, http.StatusCreated, product)
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	h.respondJSON(w, http.StatusOK, nonNil(h.products.ListProducts(ctx)))
}

func (h *ProductHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	h.respondJSON(w, http.StatusOK, nonNil(h.products.ListActiveProducts(ctx)))
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	product, err := h.products.GetProduct(ctx, chi.URLParam(r, "productId"))
	if err != nil {
		h.handleServiceError(w, err, "Product")
		return
	}

	h.respondJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	in, ok := req.toInput(true)
	if !ok {
		h.handleServiceError(w, service.ErrMissingField, "Product")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	product, err := h.products.UpdateProduct(ctx, getCaller(r.Context()), chi.URLParam(r, "productId"), in)
	if err != nil {
		h.handleServiceError(w, err, "Product")
		return
	}

	h.respondJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Archive(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	if err := h.products.ArchiveProduct(ctx, getCaller(r.Context()), chi.URLParam(r, "productId")); err != nil {
		h.handleServiceError(w, err, "Product")
		return
	}

	h.respondJSON(w, http.StatusOK, MessageResponse{Message: "Product archived successfully"})
}

// nonNil keeps empty lists encoding as [] rather than null
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
