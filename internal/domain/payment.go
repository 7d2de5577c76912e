// Package domain encodes the booking and payment attempt entities and the
// state transitions the reconciliation pipeline is allowed to make.
package domain

import (
	"errors"
	"time"
)

// PaymentStatus represents the current state of a payment attempt.
type PaymentStatus string

const (
	StatusPending PaymentStatus = "PENDING"
	StatusPaid    PaymentStatus = "PAID"
	StatusFailed  PaymentStatus = "FAILED"
)

// IsTerminal reports whether the status is final. A terminal attempt never
// changes status again; later webhook deliveries may only touch audit fields.
func (s PaymentStatus) IsTerminal() bool {
	return s == StatusPaid || s == StatusFailed
}

// IsActive reports whether the attempt counts against the
// one-active-payment-per-booking rule.
func (s PaymentStatus) IsActive() bool {
	return s == StatusPending || s == StatusPaid
}

// PaymentAttempt is one attempt to collect a deposit for a booking. A booking
// accumulates attempts over time (a FAILED attempt may be followed by a new
// PENDING one) but holds at most one PENDING or PAID attempt at any moment.
type PaymentAttempt struct {
	ID        string
	BookingID string
	UserID    string
	Provider  string

	// RequestID is generated locally per initiation and doubles as the
	// provider-side idempotency key and the primary webhook correlation key.
	RequestID string

	// ProviderPaymentID is assigned by the provider. It may be missing from
	// the initiation response and only learned later from a webhook.
	ProviderPaymentID *string

	// Amount is the amount actually charged, not the booking total.
	Amount int64

	Status PaymentStatus

	RawInitResponse   []byte
	RawWebhookPayload []byte

	CreatedAt time.Time
}

func NewPaymentAttempt(id, bookingID, userID, provider, requestID string, providerPaymentID *string, amount int64, rawInitResponse []byte) (*PaymentAttempt, error) {
	if id == "" {
		return nil, errors.New("payment attempt ID is required")
	}
	if bookingID == "" {
		return nil, errors.New("booking ID is required")
	}
	if userID == "" {
		return nil, errors.New("user ID is required")
	}
	if requestID == "" {
		return nil, errors.New("request ID is required")
	}
	if amount <= 0 {
		return nil, errors.New("amount must be positive")
	}

	return &PaymentAttempt{
		ID:                id,
		BookingID:         bookingID,
		UserID:            userID,
		Provider:          provider,
		RequestID:         requestID,
		ProviderPaymentID: providerPaymentID,
		Amount:            amount,
		Status:            StatusPending,
		RawInitResponse:   rawInitResponse,
		CreatedAt:         time.Now(),
	}, nil
}

var (
	ErrTerminalState     = errors.New("payment attempt is in a terminal state")
	ErrInvalidTransition = errors.New("invalid payment status transition")
)

// ApplyOutcome moves a pending attempt to PAID or FAILED. Terminal attempts
// refuse any further transition, which is what makes redelivered webhooks
// harmless.
func (p *PaymentAttempt) ApplyOutcome(target PaymentStatus) error {
	if p.Status.IsTerminal() {
		return ErrTerminalState
	}
	if !target.IsTerminal() {
		return ErrInvalidTransition
	}
	p.Status = target
	return nil
}

// LearnProviderPaymentID records a provider id discovered after creation.
// An already-known id is never overwritten with nothing.
func (p *PaymentAttempt) LearnProviderPaymentID(id string) {
	if id == "" {
		return
	}
	p.ProviderPaymentID = &id
}
