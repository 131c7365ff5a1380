package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/fjod/go_cart/shop-service/internal/policy"
	"github.com/fjod/go_cart/shop-service/internal/ratelimit"
	"github.com/fjod/go_cart/shop-service/internal/service"
	"github.com/fjod/go_cart/shop-service/internal/store"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// responder writes JSON bodies and logs through the router's logger
type responder struct {
	log *zap.Logger
}

func (rs responder) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		rs.log.Warn("failed to encode response", zap.Error(err))
	}
}

func (rs responder) respondError(w http.ResponseWriter, status int, code, message string) {
	rs.respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

func (rs responder) respondUnauthenticated(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", `Basic realm="shop"`)
	rs.respondError(w, http.StatusUnauthorized, "unauthenticated", message)
}

func (rs responder) respondRateLimited(w http.ResponseWriter, d ratelimit.Decision, message string) {
	retry := int(d.RetryAfter(time.Now()).Seconds()) + 1
	w.Header().Set("Retry-After", strconv.Itoa(retry))
	rs.respondError(w, http.StatusTooManyRequests, "rate_limit_exceeded", message)
}

// handleServiceError converts service and store errors to HTTP status codes.
// resource names the entity in not-found messages ("Product", "User").
func (rs responder) handleServiceError(w http.ResponseWriter, err error, resource string) {
	switch {
	case errors.Is(err, store.ErrDuplicateUser):
		rs.respondError(w, http.StatusConflict, "user_exists", "User already exists")
	case errors.Is(err, store.ErrInvalidCredentials):
		rs.respondError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid credentials")
	case errors.Is(err, policy.ErrUnauthenticated):
		rs.respondUnauthenticated(w, "authentication required")
	case errors.Is(err, policy.ErrAccessDenied):
		rs.respondError(w, http.StatusForbidden, "access_denied", "Access denied")
	case errors.Is(err, store.ErrUserNotFound):
		rs.respondError(w, http.StatusNotFound, "user_not_found", "User not found")
	case errors.Is(err, store.ErrNotFound):
		rs.respondError(w, http.StatusNotFound, "not_found", resource+" not found")
	case errors.Is(err, service.ErrMissingField),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidQuantity):
		rs.respondError(w, http.StatusBadRequest, "invalid_argument", err.Error())
	default:
		rs.log.Error("unhandled service error", zap.Error(err))
		rs.respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// decodeJSON reads the request body into dst, answering 400 itself on failure
func (rs responder) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			rs.respondError(w, http.StatusRequestEntityTooLarge, "body_too_large", "request body too large")
			return false
		}
		rs.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}
	return true
}
