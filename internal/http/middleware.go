package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fjod/go_cart/shop-service/internal/policy"
	"github.com/fjod/go_cart/shop-service/internal/ratelimit"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	callerKey    contextKey = "caller"
)

// CallerResolver checks request credentials against the user store
type CallerResolver interface {
	ResolveCaller(ctx context.Context, email, password string) (policy.Caller, error)
}

// CallerMiddleware resolves HTTP Basic credentials into a policy.Caller.
// Requests without credentials continue as anonymous; wrong credentials are rejected.
// Failed checks are counted per client IP and email; once a key is over the
// limit every attempt for it gets 429 until the window resets, correct
// password or not.
func CallerMiddleware(resolver CallerResolver, limiter ratelimit.Limiter, metrics *Metrics, logger *zap.Logger) func(http.Handler) http.Handler {
	rs := responder{log: logger}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, password, ok := r.BasicAuth()
			if !ok {
				next.ServeHTTP(w, r.WithContext(withCaller(r.Context(), policy.Anonymous)))
				return
			}

			key := "auth:" + clientIP(r) + ":" + email
			if decision := limiter.Peek(r.Context(), key); !decision.Allowed {
				metrics.recordRateLimitHit("basic_auth")
				rs.respondRateLimited(w, decision, "too many failed authentication attempts")
				return
			}

			caller, err := resolver.ResolveCaller(r.Context(), email, password)
			if err != nil {
				limiter.Allow(r.Context(), key)
				logger.Info("credential check failed",
					zap.String("path", r.URL.Path),
					zap.String("request_id", getRequestID(r.Context())))
				rs.respondUnauthenticated(w, "invalid credentials")
				return
			}

			next.ServeHTTP(w, r.WithContext(withCaller(r.Context(), caller)))
		})
	}
}

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AccessLogMiddleware writes one zap entry per request
func AccessLogMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", statusOf(ww)),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", getRequestID(r.Context())))
		})
	}
}

// MaxBodyMiddleware caps request bodies
func MaxBodyMiddleware(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func withCaller(ctx context.Context, caller policy.Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

func getCaller(ctx context.Context) policy.Caller {
	if caller, ok := ctx.Value(callerKey).(policy.Caller); ok {
		return caller
	}
	return policy.Anonymous
}

func getRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

func statusOf(ww middleware.WrapResponseWriter) int {
	if ww.Status() == 0 {
		return http.StatusOK
	}
	return ww.Status()
}
