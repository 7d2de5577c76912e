package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/demal-app/payments-service/internal/infrastructure/persistence/postgres"
)

// StalePaymentWorker periodically surfaces PENDING attempts whose webhook
// never arrived. Stale attempts are only reported, never transitioned:
// a late webhook must still be able to settle them, so the single writer
// for payment state remains the webhook path.
type StalePaymentWorker struct {
	paymentRepo *postgres.PaymentRepository
	interval    time.Duration
	staleAfter  time.Duration
	batchSize   int
	logger      *slog.Logger
}

func NewStalePaymentWorker(
	paymentRepo *postgres.PaymentRepository,
	interval time.Duration,
	staleAfter time.Duration,
	batchSize int,
	logger *slog.Logger,
) *StalePaymentWorker {
	return &StalePaymentWorker{
		paymentRepo: paymentRepo,
		interval:    interval,
		staleAfter:  staleAfter,
		batchSize:   batchSize,
		logger:      logger,
	}
}

func (w *StalePaymentWorker) Start(ctx context.Context) {
	w.logger.Info("stale payment worker started",
		"interval", w.interval,
		"stale_after", w.staleAfter,
	)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.scan(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("stale payment worker stopping")
			return
		case <-ticker.C:
			if err := w.scan(ctx); err != nil {
				w.logger.Error("stale payment scan failed", "error", err)
			}
		}
	}
}

func (w *StalePaymentWorker) scan(ctx context.Context) error {
	cutoff := time.Now().Add(-w.staleAfter)

	stale, err := w.paymentRepo.FindStalePending(ctx, cutoff, w.batchSize)
	if err != nil {
		return err
	}

	if len(stale) == 0 {
		return nil
	}

	for _, attempt := range stale {
		w.logger.Warn("payment attempt stale",
			"payment_id", attempt.ID,
			"booking_id", attempt.BookingID,
			"request_id", attempt.RequestID,
			"created_at", attempt.CreatedAt,
		)
	}

	w.logger.Info("stale payment scan complete", "count", len(stale))

	return nil
}
