package services

import (
	"context"
	"errors"

	"github.com/demal-app/payments-service/internal/application"
	"github.com/demal-app/payments-service/internal/domain"
	"github.com/demal-app/payments-service/internal/infrastructure/finik"
	"github.com/demal-app/payments-service/internal/infrastructure/persistence/postgres"
	"github.com/google/uuid"
)

// InitPaymentResult is returned to the client, who is then redirected to the
// provider to pay.
type InitPaymentResult struct {
	BookingID string
	RequestID string
	Amount    int64
}

// InitPayment validates the booking, creates the charge on the provider, and
// persists a PENDING attempt under the booking's row lock. The provider call
// happens before the transaction: if the transaction then aborts, the remote
// item is orphaned but local state stays consistent, and the request id being
// the provider-side idempotency key keeps a retry from double-charging.
func (s *PaymentsService) InitPayment(ctx context.Context, userID, bookingID string) (*InitPaymentResult, error) {
	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, application.ErrBookingRowNotFound) {
			return nil, application.NewBookingNotFoundError()
		}
		return nil, application.NewInternalError(err)
	}

	if !booking.IsOwnedBy(userID) {
		return nil, application.NewBookingAccessDeniedError()
	}

	if !booking.IsPayable() {
		return nil, application.NewBookingNotPayableError()
	}

	amount := s.depositAmount(booking.TotalAmount)
	// A zero-total booking computes a zero deposit. Reject it here so no
	// provider item gets created for an amount the attempt cannot hold.
	if amount <= 0 {
		return nil, application.NewAmountNotChargeableError(amount)
	}
	requestID := uuid.New().String()

	initResult, err := s.provider.CreateItem(ctx, application.ProviderInitiationRequest{
		RequestID: requestID,
		BookingID: booking.ID,
		UserID:    userID,
		Amount:    amount,
	})
	if err != nil {
		s.logger.Error("provider initiation failed",
			"booking_id", booking.ID,
			"request_id", requestID,
			"error", err,
		)
		if provErr, ok := finik.IsProviderError(err); ok {
			return nil, application.NewProviderRejectedError(provErr.StatusCode, err)
		}
		return nil, application.NewProviderUnreachableError(err)
	}

	err = s.tx.WithSerializable(ctx, func(ctx context.Context, bookings application.BookingTxStore, payments application.PaymentTxStore) error {
		locked, err := bookings.FindByIDForUpdate(ctx, booking.ID)
		if err != nil {
			if errors.Is(err, application.ErrBookingRowNotFound) {
				return application.NewStatusChangedError()
			}
			return err
		}

		// Re-check under the lock: a concurrent cancellation or a racing
		// initiation may have moved the booking since the pre-check.
		if !locked.IsPayable() {
			return application.NewStatusChangedError()
		}

		active, err := payments.FindActiveByBooking(ctx, booking.ID)
		if err != nil {
			return err
		}
		if active != nil {
			return application.NewActivePaymentError()
		}

		attempt, err := domain.NewPaymentAttempt(
			uuid.New().String(),
			booking.ID,
			userID,
			providerName,
			requestID,
			initResult.ProviderPaymentID,
			amount,
			initResult.Raw,
		)
		if err != nil {
			return application.NewInternalError(err)
		}

		return payments.Create(ctx, attempt)
	})
	if err != nil {
		if svcErr, ok := application.IsServiceError(err); ok {
			return nil, svcErr
		}
		if errors.Is(err, application.ErrActiveSlotTaken) {
			return nil, application.NewActivePaymentError()
		}
		if errors.Is(err, application.ErrDuplicateRequestID) {
			return nil, application.NewRequestDuplicateError(err)
		}
		if postgres.IsSerializationFailure(err) {
			return nil, application.NewActivePaymentError()
		}
		s.logger.Error("initPayment transaction failed",
			"booking_id", booking.ID,
			"request_id", requestID,
			"error", err,
		)
		return nil, application.NewInternalError(err)
	}

	s.logger.Info("payment initiated",
		"booking_id", booking.ID,
		"request_id", requestID,
		"amount", amount,
	)

	return &InitPaymentResult{
		BookingID: booking.ID,
		RequestID: requestID,
		Amount:    amount,
	}, nil
}
