package services_test

import (
	"context"
	"sync"

	"github.com/demal-app/payments-service/internal/application"
	"github.com/demal-app/payments-service/internal/domain"
)

// mockBookingStore backs both the read-only and transactional booking views.
type mockBookingStore struct {
	mu       sync.Mutex
	bookings map[string]*domain.Booking

	FindByIDFn          func(ctx context.Context, id string) (*domain.Booking, error)
	FindByIDForUpdateFn func(ctx context.Context, id string) (*domain.Booking, error)
	UpdateStatusFn      func(ctx context.Context, id string, status domain.BookingStatus) error
}

func newMockBookingStore(bookings ...*domain.Booking) *mockBookingStore {
	m := &mockBookingStore{bookings: make(map[string]*domain.Booking)}
	for _, b := range bookings {
		copied := *b
		m.bookings[b.ID] = &copied
	}
	return m
}

func (m *mockBookingStore) get(id string) (*domain.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, application.ErrBookingRowNotFound
	}
	copied := *b
	return &copied, nil
}

func (m *mockBookingStore) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, id)
	}
	return m.get(id)
}

func (m *mockBookingStore) FindByIDForUpdate(ctx context.Context, id string) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindByIDForUpdateFn != nil {
		return m.FindByIDForUpdateFn(ctx, id)
	}
	return m.get(id)
}

func (m *mockBookingStore) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, id, status)
	}
	b, ok := m.bookings[id]
	if !ok {
		return application.ErrBookingRowNotFound
	}
	b.Status = status
	return nil
}

func (m *mockBookingStore) status(id string) domain.BookingStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bookings[id].Status
}

// mockPaymentStore backs both the read-only and transactional payment views.
type mockPaymentStore struct {
	mu       sync.Mutex
	attempts map[string]*domain.PaymentAttempt

	CreateFn              func(ctx context.Context, attempt *domain.PaymentAttempt) error
	FindActiveByBookingFn func(ctx context.Context, bookingID string) (*domain.PaymentAttempt, error)
	FindByCorrelationFn   func(ctx context.Context, requestID, providerPaymentID string) (*domain.PaymentAttempt, error)
	UpdateOutcomeFn       func(ctx context.Context, attempt *domain.PaymentAttempt) error
	UpdateAuditFn         func(ctx context.Context, attemptID string, providerPaymentID *string, rawPayload []byte) error
}

func newMockPaymentStore(attempts ...*domain.PaymentAttempt) *mockPaymentStore {
	m := &mockPaymentStore{attempts: make(map[string]*domain.PaymentAttempt)}
	for _, a := range attempts {
		copied := *a
		m.attempts[a.ID] = &copied
	}
	return m
}

func (m *mockPaymentStore) Create(ctx context.Context, attempt *domain.PaymentAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateFn != nil {
		return m.CreateFn(ctx, attempt)
	}
	for _, existing := range m.attempts {
		if existing.RequestID == attempt.RequestID {
			return application.ErrDuplicateRequestID
		}
	}
	copied := *attempt
	m.attempts[attempt.ID] = &copied
	return nil
}

func (m *mockPaymentStore) FindActiveByBooking(ctx context.Context, bookingID string) (*domain.PaymentAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindActiveByBookingFn != nil {
		return m.FindActiveByBookingFn(ctx, bookingID)
	}
	for _, a := range m.attempts {
		if a.BookingID == bookingID && a.Status.IsActive() {
			copied := *a
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockPaymentStore) FindByCorrelation(ctx context.Context, requestID, providerPaymentID string) (*domain.PaymentAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindByCorrelationFn != nil {
		return m.FindByCorrelationFn(ctx, requestID, providerPaymentID)
	}
	var newest *domain.PaymentAttempt
	for _, a := range m.attempts {
		byRequest := requestID != "" && a.RequestID == requestID
		byProvider := providerPaymentID != "" && a.ProviderPaymentID != nil && *a.ProviderPaymentID == providerPaymentID
		if !byRequest && !byProvider {
			continue
		}
		if newest == nil || a.CreatedAt.After(newest.CreatedAt) {
			newest = a
		}
	}
	if newest == nil {
		return nil, nil
	}
	copied := *newest
	return &copied, nil
}

func (m *mockPaymentStore) FindLatestByBooking(ctx context.Context, bookingID string) (*domain.PaymentAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var newest *domain.PaymentAttempt
	for _, a := range m.attempts {
		if a.BookingID != bookingID {
			continue
		}
		if newest == nil || a.CreatedAt.After(newest.CreatedAt) {
			newest = a
		}
	}
	if newest == nil {
		return nil, nil
	}
	copied := *newest
	return &copied, nil
}

func (m *mockPaymentStore) UpdateOutcome(ctx context.Context, attempt *domain.PaymentAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateOutcomeFn != nil {
		return m.UpdateOutcomeFn(ctx, attempt)
	}
	copied := *attempt
	m.attempts[attempt.ID] = &copied
	return nil
}

func (m *mockPaymentStore) UpdateAudit(ctx context.Context, attemptID string, providerPaymentID *string, rawPayload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateAuditFn != nil {
		return m.UpdateAuditFn(ctx, attemptID, providerPaymentID, rawPayload)
	}
	a, ok := m.attempts[attemptID]
	if !ok {
		return nil
	}
	if providerPaymentID != nil {
		a.ProviderPaymentID = providerPaymentID
	}
	a.RawWebhookPayload = rawPayload
	return nil
}

func (m *mockPaymentStore) byID(id string) *domain.PaymentAttempt {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attempts[id]
	if !ok {
		return nil
	}
	copied := *a
	return &copied
}

func (m *mockPaymentStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.attempts)
}

// mockProvider records initiation requests and replies with a canned result.
type mockProvider struct {
	mu       sync.Mutex
	requests []application.ProviderInitiationRequest

	CreateItemFn func(ctx context.Context, req application.ProviderInitiationRequest) (*application.ProviderInitiationResult, error)
}

func (m *mockProvider) CreateItem(ctx context.Context, req application.ProviderInitiationRequest) (*application.ProviderInitiationResult, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	if m.CreateItemFn != nil {
		return m.CreateItemFn(ctx, req)
	}
	id := "FIN-" + req.RequestID
	return &application.ProviderInitiationResult{
		ProviderPaymentID: &id,
		Raw:               []byte(`{"id":"` + id + `"}`),
	}, nil
}

func (m *mockProvider) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// mockTx hands the callback the in-memory stores directly. There is no
// real isolation here; failure injection goes through WithSerializableFn.
type mockTx struct {
	bookings *mockBookingStore
	payments *mockPaymentStore

	WithSerializableFn func(ctx context.Context, fn func(ctx context.Context, bookings application.BookingTxStore, payments application.PaymentTxStore) error) error
}

func (m *mockTx) WithSerializable(ctx context.Context, fn func(ctx context.Context, bookings application.BookingTxStore, payments application.PaymentTxStore) error) error {
	if m.WithSerializableFn != nil {
		return m.WithSerializableFn(ctx, fn)
	}
	return fn(ctx, m.bookings, m.payments)
}
