package application

import (
	"context"
	"errors"

	"github.com/demal-app/payments-service/internal/domain"
)

// Store sentinels. Lookups that may legitimately miss (active attempt,
// correlation, latest attempt) return (nil, nil) instead.
var (
	ErrBookingRowNotFound = errors.New("booking not found")
	ErrDuplicateRequestID = errors.New("duplicate payment request id")
	ErrActiveSlotTaken    = errors.New("booking already has an active payment attempt")
)

// ProviderInitiationRequest is what the orchestrator sends to the provider
// when creating a payable item for a booking deposit.
type ProviderInitiationRequest struct {
	RequestID string
	BookingID string
	UserID    string
	Amount    int64
}

// ProviderInitiationResult is the normalized provider response. The provider
// id may be absent; correlation then falls back to RequestID.
type ProviderInitiationResult struct {
	ProviderPaymentID *string
	Raw               []byte
}

// ProviderClient creates charges on the external payment provider.
// Implementations must return a distinguishable error for "provider rejected"
// versus "provider unreachable" so callers can decide about retries.
type ProviderClient interface {
	CreateItem(ctx context.Context, req ProviderInitiationRequest) (*ProviderInitiationResult, error)
}

// BookingReader is the non-transactional view of the booking store.
type BookingReader interface {
	FindByID(ctx context.Context, id string) (*domain.Booking, error)
}

// PaymentReader is the non-transactional view of the payment attempt store.
type PaymentReader interface {
	FindLatestByBooking(ctx context.Context, bookingID string) (*domain.PaymentAttempt, error)
}

// BookingTxStore is the booking store as seen from inside a transaction.
type BookingTxStore interface {
	// FindByIDForUpdate takes an exclusive row lock on the booking.
	FindByIDForUpdate(ctx context.Context, id string) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error
}

// PaymentTxStore is the payment attempt store as seen from inside a
// transaction.
type PaymentTxStore interface {
	Create(ctx context.Context, attempt *domain.PaymentAttempt) error
	// FindActiveByBooking returns the PENDING or PAID attempt for the
	// booking, if one exists.
	FindActiveByBooking(ctx context.Context, bookingID string) (*domain.PaymentAttempt, error)
	// FindByCorrelation matches by request id or provider payment id,
	// newest attempt first, locking the row.
	FindByCorrelation(ctx context.Context, requestID, providerPaymentID string) (*domain.PaymentAttempt, error)
	UpdateOutcome(ctx context.Context, attempt *domain.PaymentAttempt) error
	// UpdateAudit touches only the audit fields of a row, never its status.
	UpdateAudit(ctx context.Context, attemptID string, providerPaymentID *string, rawPayload []byte) error
}

// TransactionCoordinator runs a function inside a serializable database
// transaction, handing it transaction-scoped store views. All mutual
// exclusion in this service lives here: there is no in-process locking, so
// correctness holds across horizontally scaled instances.
type TransactionCoordinator interface {
	WithSerializable(ctx context.Context, fn func(ctx context.Context, bookings BookingTxStore, payments PaymentTxStore) error) error
}
