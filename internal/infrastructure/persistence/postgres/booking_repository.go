package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/demal-app/payments-service/internal/application"
	"github.com/demal-app/payments-service/internal/domain"
	"github.com/jackc/pgx/v5"
)

type BookingRepository struct {
	q Executor
}

func NewBookingRepository(db *DB) *BookingRepository {
	return &BookingRepository{q: db.Pool}
}

func (r *BookingRepository) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `
		SELECT id, user_id, total_amount, status
		FROM bookings WHERE id = $1
	`

	return scanBooking(r.q.QueryRow(ctx, query, id))
}

// FindByIDForUpdate retrieves a booking with a row-level lock. Initiation and
// webhook processing for the same booking serialize on this lock.
func (r *BookingRepository) FindByIDForUpdate(ctx context.Context, id string) (*domain.Booking, error) {
	query := `
		SELECT id, user_id, total_amount, status
		FROM bookings WHERE id = $1
		FOR UPDATE
	`

	return scanBooking(r.q.QueryRow(ctx, query, id))
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	query := `
		UPDATE bookings SET status = $1, updated_at = now()
		WHERE id = $2
	`

	result, err := r.q.Exec(ctx, query, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return application.ErrBookingRowNotFound
	}

	return nil
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var m BookingModel
	err := row.Scan(&m.ID, &m.UserID, &m.TotalAmount, &m.Status)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, application.ErrBookingRowNotFound
		}
		return nil, fmt.Errorf("failed to scan booking: %w", err)
	}
	return toBookingDomain(m), nil
}
