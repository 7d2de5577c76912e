package handlers

import (
	"log/slog"

	"github.com/demal-app/payments-service/internal/config"
	"github.com/demal-app/payments-service/internal/interfaces/rest/middleware"
	"github.com/gin-gonic/gin"
)

// NewRouter wires the HTTP routes. Webhook routes are public and gated by
// signature verification alone; client routes require a Bearer token. The
// legacy webhook path is kept because the provider retries old registrations
// against it.
func NewRouter(h *Handlers, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	if cfg.Primary.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.Logging(logger))

	router.POST("/payments/webhook/finik", h.FinikWebhook)
	router.POST("/payments/finik/webhook", h.FinikWebhook)

	auth := middleware.Auth(cfg.Auth.JWTSecret)
	router.POST("/payments/init", auth, h.InitPayment)
	router.GET("/bookings/:bookingId/payment-status", auth, h.GetBookingPaymentStatus)

	return router
}
