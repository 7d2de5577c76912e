// Package services implements the payment orchestrator: initiation against a
// booking, webhook-driven state transitions, and the payment status query.
package services

import (
	"log/slog"

	"github.com/demal-app/payments-service/internal/application"
	"github.com/shopspring/decimal"
)

const providerName = "FINIK"

// PaymentsService coordinates bookings, payment attempts and the provider.
// It holds no in-process locks: every invariant is enforced inside the
// serializable transactions run by the coordinator, so correctness holds
// across horizontally scaled instances.
type PaymentsService struct {
	bookings    application.BookingReader
	payments    application.PaymentReader
	tx          application.TransactionCoordinator
	provider    application.ProviderClient
	depositRate decimal.Decimal
	logger      *slog.Logger
}

func NewPaymentsService(
	bookings application.BookingReader,
	payments application.PaymentReader,
	tx application.TransactionCoordinator,
	provider application.ProviderClient,
	depositRate decimal.Decimal,
	logger *slog.Logger,
) *PaymentsService {
	return &PaymentsService{
		bookings:    bookings,
		payments:    payments,
		tx:          tx,
		provider:    provider,
		depositRate: depositRate,
		logger:      logger,
	}
}

// depositAmount applies the charge policy: a fraction of the booking total,
// rounded up to the nearest currency unit. The booking keeps its own total;
// the two amounts are never conflated.
func (s *PaymentsService) depositAmount(totalAmount int64) int64 {
	return decimal.NewFromInt(totalAmount).Mul(s.depositRate).Ceil().IntPart()
}
