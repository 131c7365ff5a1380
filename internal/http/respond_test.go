package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fjod/go_cart/shop-service/internal/policy"
	"github.com/fjod/go_cart/shop-service/internal/store"
)

func TestResponder_LogsThroughInjectedLogger(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	rs := responder{log: zap.New(core)}

	rec := httptest.NewRecorder()
	rs.handleServiceError(rec, errors.New("disk on fire"), "Product")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = httptest.NewRecorder()
	rs.respondJSON(rec, http.StatusOK, map[string]interface{}{"bad": make(chan int)})

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "unhandled service error", logs.All()[0].Message)
	assert.Equal(t, "failed to encode response", logs.All()[1].Message)
}

func TestHandleServiceError_StatusMapping(t *testing.T) {
	rs := responder{log: zap.NewNop()}

	tests := []struct {
		err    error
		status int
		code   string
	}{
		{store.ErrDuplicateUser, http.StatusConflict, "user_exists"},
		{store.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{policy.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"},
		{policy.ErrAccessDenied, http.StatusForbidden, "access_denied"},
		{store.ErrUserNotFound, http.StatusNotFound, "user_not_found"},
		{store.ErrNotFound, http.StatusNotFound, "not_found"},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		rs.handleServiceError(rec, tt.err, "Product")
		assert.Equal(t, tt.status, rec.Code, tt.err.Error())
		assert.Equal(t, tt.code, decodeBody[ErrorResponse](t, rec).Code, tt.err.Error())
	}
}
