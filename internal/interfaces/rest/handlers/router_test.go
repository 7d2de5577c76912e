package handlers_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/demal-app/payments-service/internal/application/services"
	"github.com/demal-app/payments-service/internal/config"
	"github.com/demal-app/payments-service/internal/infrastructure/finik"
	"github.com/demal-app/payments-service/internal/interfaces/rest/handlers"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewRouterGinMode(t *testing.T) {
	t.Cleanup(func() { gin.SetMode(gin.TestMode) })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	stores := &stubStores{}
	service := services.NewPaymentsService(
		stores, stores, stores, stubProvider{},
		decimal.RequireFromString("0.1"),
		logger,
	)
	h := handlers.NewHandlers(service, finik.NewHMACVerifier(webhookSecret), logger)

	t.Run("production switches gin to release mode", func(t *testing.T) {
		gin.SetMode(gin.DebugMode)
		cfg := &config.Config{}
		cfg.Primary.Env = "production"

		handlers.NewRouter(h, cfg, logger)

		assert.Equal(t, gin.ReleaseMode, gin.Mode())
	})

	t.Run("other environments keep the current mode", func(t *testing.T) {
		gin.SetMode(gin.DebugMode)
		cfg := &config.Config{}
		cfg.Primary.Env = "development"

		handlers.NewRouter(h, cfg, logger)

		assert.Equal(t, gin.DebugMode, gin.Mode())
	})
}
