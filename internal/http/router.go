package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/fjod/go_cart/shop-service/internal/ratelimit"
)

// Shop is everything the router needs from the service layer
type Shop interface {
	CallerResolver
	UserService
	ProductService
	OrderService
}

type RouterConfig struct {
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

// NewRouter wires middleware and every API route
func NewRouter(shop Shop, limiter ratelimit.Limiter, logger *zap.Logger, cfg RouterConfig) http.Handler {
	metrics := NewMetrics()
	rs := responder{log: logger}
	usersHandler := NewUsersHandler(shop, limiter, metrics, logger, cfg.RequestTimeout)
	productHandler := NewProductHandler(shop, logger, cfg.RequestTimeout)
	ordersHandler := NewOrdersHandler(shop, logger, cfg.RequestTimeout)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(AccessLogMiddleware(logger))
	r.Use(metrics.Middleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		rs.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(MaxBodyMiddleware(cfg.MaxBodyBytes))
		r.Use(CallerMiddleware(shop, limiter, metrics, logger))

		r.Route("/users", func(r chi.Router) {
			r.Post("/register", usersHandler.Register)
			r.Post("/login", usersHandler.Login)
			r.Put("/{userId}/setAdmin", usersHandler.SetAdmin)
			r.Get("/{userId}/orders", ordersHandler.ListForUser)
		})
		r.Route("/products", func(r chi.Router) {
			r.Post("/", productHandler.Create)
			r.Get("/", productHandler.List)
			r.Get("/active", productHandler.ListActive)
			r.Get("/{productId}", productHandler.Get)
			r.Put("/{productId}", productHandler.Update)
			r.Delete("/{productId}", productHandler.Archive)
		})
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordersHandler.ListAll)
			r.Post("/", ordersHandler.Create)
		})
	})

	return r
}
