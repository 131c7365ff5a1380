package http

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/fjod/go_cart/shop-service/internal/domain"
	"github.com/fjod/go_cart/shop-service/internal/policy"
	"github.com/fjod/go_cart/shop-service/internal/ratelimit"
	"github.com/fjod/go_cart/shop-service/internal/service"
)

type UserService interface {
	Register(ctx context.Context, email, password string) (domain.User, error)
	Login(ctx context.Context, email, password string) (domain.User, error)
	PromoteToAdmin(ctx context.Context, caller policy.Caller, userID string) (domain.User, error)
}

type UsersHandler struct {
	responder
	users   UserService
	limiter ratelimit.Limiter
	metrics *Metrics
	timeout time.Duration
}

func NewUsersHandler(users UserService, limiter ratelimit.Limiter, metrics *Metrics, logger *zap.Logger, timeout time.Duration) *UsersHandler {
	return &UsersHandler{
		responder: responder{log: logger},
		users:     users,
		limiter:   limiter,
		metrics:   metrics,
		timeout:   timeout,
	}
}

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *UsersHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	user, err := h.users.Register(ctx, req.Email, req.Password)
	if err != nil {
		h.handleServiceError(w, err, "User")
		return
	}

	h.respondJSON(w, http.StatusCreated, user)
}

func (h *UsersHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		h.handleServiceError(w, service.ErrMissingField, "User")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	decision := h.limiter.Allow(ctx, "login:"+clientIP(r)+":"+req.Email)
	if !decision.Allowed {
		h.metrics.recordRateLimitHit("/api/users/login")
		h.respondRateLimited(w, decision, "too many login attempts")
		return
	}

	user, err := h.users.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.handleServiceError(w, err, "User")
		return
	}

	h.respondJSON(w, http.StatusOK, user)
}

func (h *UsersHandler) SetAdmin(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	user, err := h.users.PromoteToAdmin(ctx, getCaller(r.Context()), userID)
	if err != nil {
		h.handleServiceError(w, err, "User")
		return
	}

	h.respondJSON(w, http.StatusOK, user)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
