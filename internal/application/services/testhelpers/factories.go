package testhelpers

import (
	"context"
	"testing"

	"github.com/demal-app/payments-service/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// InsertBooking writes a booking row directly. The payments service never
// creates bookings, so tests seed them here.
func InsertBooking(t *testing.T, td *TestDatabase, userID string, totalAmount int64, status domain.BookingStatus) *domain.Booking {
	t.Helper()

	booking := &domain.Booking{
		ID:          uuid.New().String(),
		UserID:      userID,
		TotalAmount: totalAmount,
		Status:      status,
	}

	_, err := td.DB.Pool.Exec(context.Background(),
		`INSERT INTO bookings (id, user_id, total_amount, status) VALUES ($1, $2, $3, $4)`,
		booking.ID, booking.UserID, booking.TotalAmount, booking.Status,
	)
	require.NoError(t, err)

	return booking
}

// DefaultPendingBooking seeds a payable booking for a fresh user.
func DefaultPendingBooking(t *testing.T, td *TestDatabase) *domain.Booking {
	return InsertBooking(t, td, uuid.New().String(), 10000, domain.BookingPending)
}
