// Package logger builds the process-wide zap logger from configuration.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fjod/go_cart/shop-service/internal/config"
)

// New returns a zap logger for the given level ("debug", "info", ...) and
// format ("json" or "console").
func New(conf config.LoggingConf) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(conf.Level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", conf.Level, err)
	}

	var zc zap.Config
	if strings.EqualFold(conf.Format, "console") {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.TimeKey = "time"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger.With(zap.String("service", "shop-service")), nil
}
