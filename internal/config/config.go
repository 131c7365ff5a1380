// Package config loads the service configuration.
//
// Values are resolved in this order, later wins:
//   - built-in defaults
//   - the YAML file given on the command line (optional)
//   - SHOP_* environment variables
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root of the YAML document.
//
// YAML example:
//
//	server:
//	  port: "3000"
//	  request_timeout: 30s
//	logging:
//	  level: info
//	  format: json
//	admin:
//	  email: admin@shop.local
//	  password: change-me
//	events:
//	  kafka:
//	    brokers: ["localhost:9092"]
//	    topic: shop-events
//	rate_limit:
//	  login_limit: 10
//	  login_window: 1m
//	  redis_addr: localhost:6379
type Config struct {
	Server    ServerConf    `yaml:"server"`
	Logging   LoggingConf   `yaml:"logging"`
	Admin     AdminConf     `yaml:"admin"`
	Events    EventsConf    `yaml:"events"`
	RateLimit RateLimitConf `yaml:"rate_limit"`
}

type ServerConf struct {
	Port            string        `yaml:"port"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
}

// LoggingConf selects the zap level (debug, info, warn, error) and encoder (json, console)
type LoggingConf struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// AdminConf describes the account that is registered and promoted at startup.
// Leaving Email blank skips the bootstrap.
type AdminConf struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type EventsConf struct {
	Kafka KafkaConf `yaml:"kafka"`
}

// KafkaConf enables event publishing when at least one broker is listed
type KafkaConf struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

func (k KafkaConf) Enabled() bool {
	return len(k.Brokers) > 0
}

// RateLimitConf throttles login attempts. RedisAddr switches from the
// in-memory limiter to a shared Redis one.
type RateLimitConf struct {
	LoginLimit    int           `yaml:"login_limit"`
	LoginWindow   time.Duration `yaml:"login_window"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
}

// Default returns the configuration used when nothing else is given
func Default() Config {
	return Config{
		Server: ServerConf{
			Port:            "3000",
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxBodyBytes:    1 << 20, // 1MB
		},
		Logging: LoggingConf{
			Level:  "info",
			Format: "json",
		},
		Events: EventsConf{
			Kafka: KafkaConf{Topic: "shop-events"},
		},
		RateLimit: RateLimitConf{
			LoginLimit:  10,
			LoginWindow: time.Minute,
		},
	}
}

// Load reads the optional YAML file, applies environment overrides and validates
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.Server.Port = getEnv("SHOP_HTTP_PORT", cfg.Server.Port)
	cfg.Logging.Level = getEnv("SHOP_LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getEnv("SHOP_LOG_FORMAT", cfg.Logging.Format)
	cfg.Admin.Email = getEnv("SHOP_ADMIN_EMAIL", cfg.Admin.Email)
	cfg.Admin.Password = getEnv("SHOP_ADMIN_PASSWORD", cfg.Admin.Password)
	cfg.Events.Kafka.Topic = getEnv("SHOP_KAFKA_TOPIC", cfg.Events.Kafka.Topic)
	cfg.RateLimit.RedisAddr = getEnv("SHOP_REDIS_ADDR", cfg.RateLimit.RedisAddr)

	if brokers := os.Getenv("SHOP_KAFKA_BROKERS"); brokers != "" {
		cfg.Events.Kafka.Brokers = splitList(brokers)
	}

	if limit := os.Getenv("SHOP_LOGIN_LIMIT"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil {
			return fmt.Errorf("invalid SHOP_LOGIN_LIMIT: %w", err)
		}
		cfg.RateLimit.LoginLimit = n
	}
	return nil
}

// Validate rejects configurations the service cannot start with
func (c Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server.port must be set")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("server.port %q is not a number", c.Server.Port)
	}
	if c.Server.RequestTimeout <= 0 {
		return errors.New("server.request_timeout must be positive")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.New("server.max_body_bytes must be positive")
	}
	if c.Admin.Email != "" && c.Admin.Password == "" {
		return errors.New("admin.password is required when admin.email is set")
	}
	if c.RateLimit.LoginLimit > 0 && c.RateLimit.LoginWindow <= 0 {
		return errors.New("rate_limit.login_window must be positive")
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
