package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/demal-app/payments-service/internal/application"
	"github.com/demal-app/payments-service/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const paymentColumns = `id, booking_id, user_id, provider, request_id, provider_payment_id,
	       amount, status, raw_init_response, raw_webhook_payload, created_at`

type PaymentRepository struct {
	q Executor
}

func NewPaymentRepository(db *DB) *PaymentRepository {
	return &PaymentRepository{q: db.Pool}
}

func (r *PaymentRepository) Create(ctx context.Context, attempt *domain.PaymentAttempt) error {
	query := `
		INSERT INTO payments (
	        id, booking_id, user_id, provider, request_id, provider_payment_id,
	        amount, status, raw_init_response, created_at
	    ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	m := toPaymentModel(attempt)
	_, err := r.q.Exec(ctx, query,
		m.ID,
		m.BookingID,
		m.UserID,
		m.Provider,
		m.RequestID,
		m.ProviderPaymentID,
		m.Amount,
		m.Status,
		m.RawInitResponse,
		m.CreatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			// Two unique indexes can fire here: the per-booking active
			// slot and the request id.
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.ConstraintName == "idx_payments_one_active_per_booking" {
				return application.ErrActiveSlotTaken
			}
			return application.ErrDuplicateRequestID
		}
		return fmt.Errorf("failed to create payment attempt: %w", err)
	}

	return nil
}

// FindActiveByBooking returns the booking's PENDING or PAID attempt, locked,
// or nil when the booking has no active attempt.
func (r *PaymentRepository) FindActiveByBooking(ctx context.Context, bookingID string) (*domain.PaymentAttempt, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE booking_id = $1 AND status IN ('PENDING', 'PAID')
		LIMIT 1
		FOR UPDATE
	`

	attempt, err := scanPayment(r.q.QueryRow(ctx, query, bookingID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return attempt, err
}

// FindByCorrelation matches an attempt by request id or provider payment id.
// The newest match wins, which tolerates retried initiations having left
// older FAILED rows behind. Returns nil when nothing matches.
func (r *PaymentRepository) FindByCorrelation(ctx context.Context, requestID, providerPaymentID string) (*domain.PaymentAttempt, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE ($1 <> '' AND request_id = $1)
		   OR ($2 <> '' AND provider_payment_id = $2)
		ORDER BY created_at DESC
		LIMIT 1
		FOR UPDATE
	`

	attempt, err := scanPayment(r.q.QueryRow(ctx, query, requestID, providerPaymentID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return attempt, err
}

// FindLatestByBooking returns the most recent attempt for the booking, or
// nil when none exists yet.
func (r *PaymentRepository) FindLatestByBooking(ctx context.Context, bookingID string) (*domain.PaymentAttempt, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE booking_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	attempt, err := scanPayment(r.q.QueryRow(ctx, query, bookingID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return attempt, err
}

// UpdateOutcome persists a status transition together with the provider id
// and raw webhook payload learned from the delivery.
func (r *PaymentRepository) UpdateOutcome(ctx context.Context, attempt *domain.PaymentAttempt) error {
	query := `
		UPDATE payments
		SET status = $1, provider_payment_id = $2, raw_webhook_payload = $3
		WHERE id = $4
	`

	m := toPaymentModel(attempt)
	result, err := r.q.Exec(ctx, query, m.Status, m.ProviderPaymentID, m.RawWebhookPayload, m.ID)
	if err != nil {
		return fmt.Errorf("failed to update payment outcome: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("payment attempt %s not found", attempt.ID)
	}

	return nil
}

// UpdateAudit overwrites only the audit fields. Terminal rows receiving
// duplicate webhooks go through here so their status can never move.
func (r *PaymentRepository) UpdateAudit(ctx context.Context, attemptID string, providerPaymentID *string, rawPayload []byte) error {
	query := `
		UPDATE payments
		SET provider_payment_id = COALESCE($1, provider_payment_id),
		    raw_webhook_payload = $2
		WHERE id = $3
	`

	result, err := r.q.Exec(ctx, query, providerPaymentID, rawPayload, attemptID)
	if err != nil {
		return fmt.Errorf("failed to update payment audit fields: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("payment attempt %s not found", attemptID)
	}

	return nil
}

// FindStalePending lists PENDING attempts created before the cutoff. Used by
// the sweeper to surface suspected orphaned provider-side charges.
func (r *PaymentRepository) FindStalePending(ctx context.Context, cutoff time.Time, limit int) ([]*domain.PaymentAttempt, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE status = 'PENDING'
		  AND created_at < $1
		ORDER BY created_at ASC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("query stale pending payments: %w", err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.PaymentAttempt, error) {
		var m PaymentModel
		err := row.Scan(
			&m.ID, &m.BookingID, &m.UserID, &m.Provider, &m.RequestID, &m.ProviderPaymentID,
			&m.Amount, &m.Status, &m.RawInitResponse, &m.RawWebhookPayload, &m.CreatedAt,
		)
		return toPaymentDomain(m), err
	})

	if err != nil {
		return nil, fmt.Errorf("scan stale pending payments: %w", err)
	}
	return results, nil
}

func scanPayment(row pgx.Row) (*domain.PaymentAttempt, error) {
	var m PaymentModel
	err := row.Scan(
		&m.ID, &m.BookingID, &m.UserID, &m.Provider, &m.RequestID, &m.ProviderPaymentID,
		&m.Amount, &m.Status, &m.RawInitResponse, &m.RawWebhookPayload, &m.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}
		return nil, fmt.Errorf("failed to scan payment attempt: %w", err)
	}
	return toPaymentDomain(m), nil
}
