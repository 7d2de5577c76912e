package handlers

import (
	"log/slog"

	"github.com/demal-app/payments-service/internal/application/services"
	"github.com/demal-app/payments-service/internal/infrastructure/finik"
)

// Handlers holds the route handlers for the payments API.
type Handlers struct {
	payments *services.PaymentsService
	verifier finik.Verifier
	logger   *slog.Logger
}

func NewHandlers(payments *services.PaymentsService, verifier finik.Verifier, logger *slog.Logger) *Handlers {
	return &Handlers{
		payments: payments,
		verifier: verifier,
		logger:   logger,
	}
}
