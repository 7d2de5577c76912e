package services

import (
	"context"
	"errors"

	"github.com/demal-app/payments-service/internal/application"
	"github.com/demal-app/payments-service/internal/domain"
)

// PaymentStatusResult is the read model for the status polling endpoint.
type PaymentStatusResult struct {
	BookingID         string
	BookingStatus     domain.BookingStatus
	PaymentStatus     domain.PaymentStatus
	Amount            int64
	RequestID         string
	ProviderPaymentID *string
}

// GetBookingPaymentStatus returns the most recent attempt for the caller's
// own booking. Ownership is checked exactly like initiation.
func (s *PaymentsService) GetBookingPaymentStatus(ctx context.Context, userID, bookingID string) (*PaymentStatusResult, error) {
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

	attempt, err := s.payments.FindLatestByBooking(ctx, booking.ID)
	if err != nil {
		return nil, application.NewInternalError(err)
	}
	if attempt == nil {
		return nil, application.NewPaymentNotFoundError()
	}

	return &PaymentStatusResult{
		BookingID:         booking.ID,
		BookingStatus:     booking.Status,
		PaymentStatus:     attempt.Status,
		Amount:            attempt.Amount,
		RequestID:         attempt.RequestID,
		ProviderPaymentID: attempt.ProviderPaymentID,
	}, nil
}
