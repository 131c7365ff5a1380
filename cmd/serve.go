package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/fjod/go_cart/shop-service/internal/config"
	"github.com/fjod/go_cart/shop-service/internal/events"
	h "github.com/fjod/go_cart/shop-service/internal/http"
	"github.com/fjod/go_cart/shop-service/internal/logger"
	"github.com/fjod/go_cart/shop-service/internal/ratelimit"
	"github.com/fjod/go_cart/shop-service/internal/service"
)

func serve(ctx context.Context, path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	if ctx == nil {
		ctx = context.Background()
	}

	publisher := newPublisher(cfg.Events, log)
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warn("failed to close event publisher", zap.Error(err))
		}
	}()

	limiter, err := newLimiter(ctx, cfg.RateLimit, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := limiter.Close(); err != nil {
			log.Warn("failed to close rate limiter", zap.Error(err))
		}
	}()

	shop := service.NewInMemory(publisher, log)

	if cfg.Admin.Email != "" {
		admin, err := shop.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
		log.Info("admin account ready", zap.String("user_id", admin.ID), zap.String("email", admin.Email))
	}

	router := h.NewRouter(shop, limiter, log, h.RouterConfig{
		RequestTimeout: cfg.Server.RequestTimeout,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      otelhttp.NewHandler(router, "shop-service"),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("shop service starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		log.Info("shutting down server", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server exited")
	return nil
}

func newPublisher(conf config.EventsConf, log *zap.Logger) events.Publisher {
	if !conf.Kafka.Enabled() {
		log.Info("event publishing disabled")
		return events.NoopPublisher{}
	}
	log.Info("publishing events to kafka",
		zap.Strings("brokers", conf.Kafka.Brokers),
		zap.String("topic", conf.Kafka.Topic))
	return events.NewKafkaPublisher(conf.Kafka.Topic, log, conf.Kafka.Brokers...)
}

func newLimiter(ctx context.Context, conf config.RateLimitConf, log *zap.Logger) (ratelimit.Limiter, error) {
	if conf.RedisAddr == "" {
		return ratelimit.NewMemoryLimiter(conf.LoginLimit, conf.LoginWindow), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     conf.RedisAddr,
		Password: conf.RedisPassword,
		DB:       conf.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", conf.RedisAddr, err)
	}
	log.Info("login rate limit backed by redis", zap.String("addr", conf.RedisAddr))
	return ratelimit.NewRedisLimiter(client, conf.LoginLimit, conf.LoginWindow, log), nil
}
