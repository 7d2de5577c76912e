package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/env"
	"github.com/shopspring/decimal"
)

type Config struct {
	Primary  Primary        `koanf:"primary"`
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Finik    FinikConfig    `koanf:"finik"`
	Auth     AuthConfig     `koanf:"auth"`
	Payment  PaymentConfig  `koanf:"payment"`
	Worker   WorkerConfig   `koanf:"worker"`
	Logger   LoggerConfig   `koanf:"logger"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

type ServerConfig struct {
	Port         string        `koanf:"port" validate:"required"`
	ReadTimeout  time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"required"`
	IdleTimeout  time.Duration `koanf:"idle_timeout" validate:"required"`
}

type DatabaseConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"required"`
	User            string        `koanf:"user" validate:"required"`
	Password        string        `koanf:"password" validate:"required"`
	Name            string        `koanf:"name" validate:"required"`
	SSLMode         string        `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time" validate:"required"`
}

// FinikConfig carries every provider-facing setting. It is built once at
// startup and injected; nothing in the service reads provider settings from
// the process environment at call time.
type FinikConfig struct {
	Env               string        `koanf:"env" validate:"required,oneof=production beta"`
	APIKey            string        `koanf:"api_key" validate:"required"`
	AccountID         string        `koanf:"account_id" validate:"required"`
	CallbackURL       string        `koanf:"callback_url" validate:"required"`
	BaseURLBeta       string        `koanf:"base_url_beta"`
	BaseURLProduction string        `koanf:"base_url_production"`
	ConnTimeout       time.Duration `koanf:"conn_timeout" validate:"required"`

	// WebhookScheme selects the single verification strategy: "rsa" checks
	// Finik's canonical-request signature against the embedded public key
	// for Env, "hmac" checks a shared-secret digest of the raw body.
	WebhookScheme string `koanf:"webhook_scheme" validate:"required,oneof=rsa hmac"`
	WebhookSecret string `koanf:"webhook_secret"`
}

// BaseURL returns the endpoint for the configured provider environment.
func (c *FinikConfig) BaseURL() (string, error) {
	if c.Env == "beta" {
		if c.BaseURLBeta == "" {
			return "", fmt.Errorf("finik base_url_beta is not configured")
		}
		return c.BaseURLBeta, nil
	}
	if c.BaseURLProduction == "" {
		return "", fmt.Errorf("finik base_url_production is not configured")
	}
	return c.BaseURLProduction, nil
}

type AuthConfig struct {
	JWTSecret string `koanf:"jwt_secret" validate:"required"`
}

// PaymentConfig holds the charge policy. DepositRate is the fraction of the
// booking total collected at initiation, e.g. "0.1".
type PaymentConfig struct {
	DepositRate string `koanf:"deposit_rate" validate:"required"`

	rate decimal.Decimal
}

func (c *PaymentConfig) Rate() decimal.Decimal {
	return c.rate
}

type WorkerConfig struct {
	Interval   time.Duration `koanf:"interval" validate:"required"`
	StaleAfter time.Duration `koanf:"stale_after" validate:"required"`
	BatchSize  int           `koanf:"batch_size" validate:"required"`
}

type LoggerConfig struct {
	Level string `koanf:"level"`
}

// NewLogger builds the process logger from the configured level.
func (c *LoggerConfig) NewLogger() *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(c.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

func LoadConfig() (*Config, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	k := koanf.New(".")

	err := k.Load(env.Provider("DEMAL_", ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "DEMAL_")),
			"__",
			".",
		)
	}), nil)
	if err != nil {
		logger.Error("failed to load environment variables", "error", err)
		return nil, err
	}

	mainConfig := &Config{}

	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Error("could not unmarshal main config", "error", err)
		return nil, err
	}

	validate := validator.New()

	err = validate.Struct(mainConfig)
	if err != nil {
		logger.Error("config validation failed", "error", err)
		return nil, err
	}

	if mainConfig.Finik.WebhookScheme == "hmac" && mainConfig.Finik.WebhookSecret == "" {
		return nil, fmt.Errorf("finik webhook_secret is required when webhook_scheme is hmac")
	}

	rate, err := decimal.NewFromString(mainConfig.Payment.DepositRate)
	if err != nil {
		logger.Error("invalid deposit rate", "error", err)
		return nil, fmt.Errorf("parse payment deposit_rate: %w", err)
	}
	if rate.LessThanOrEqual(decimal.Zero) || rate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("payment deposit_rate must be in (0, 1], got %s", rate)
	}
	mainConfig.Payment.rate = rate

	return mainConfig, nil
}
