package handlers_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/demal-app/payments-service/internal/application"
	"github.com/demal-app/payments-service/internal/application/services"
	"github.com/demal-app/payments-service/internal/config"
	"github.com/demal-app/payments-service/internal/domain"
	"github.com/demal-app/payments-service/internal/infrastructure/finik"
	"github.com/demal-app/payments-service/internal/interfaces/rest/handlers"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const webhookSecret = "webhook-test-secret"

// stubStores is the smallest store set the webhook path needs: correlation
// lookups and outcome writes against a single in-memory attempt.
type stubStores struct {
	attempt       *domain.PaymentAttempt
	booking       *domain.Booking
	auditWrites   int
	outcomeWrites int
}

func (s *stubStores) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	if s.booking == nil || s.booking.ID != id {
		return nil, application.ErrBookingRowNotFound
	}
	return s.booking, nil
}

func (s *stubStores) FindByIDForUpdate(ctx context.Context, id string) (*domain.Booking, error) {
	return s.FindByID(ctx, id)
}

func (s *stubStores) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	s.booking.Status = status
	return nil
}

func (s *stubStores) FindLatestByBooking(ctx context.Context, bookingID string) (*domain.PaymentAttempt, error) {
	if s.attempt == nil || s.attempt.BookingID != bookingID {
		return nil, nil
	}
	return s.attempt, nil
}

func (s *stubStores) Create(ctx context.Context, attempt *domain.PaymentAttempt) error {
	s.attempt = attempt
	return nil
}

func (s *stubStores) FindActiveByBooking(ctx context.Context, bookingID string) (*domain.PaymentAttempt, error) {
	if s.attempt != nil && s.attempt.BookingID == bookingID && s.attempt.Status.IsActive() {
		return s.attempt, nil
	}
	return nil, nil
}

func (s *stubStores) FindByCorrelation(ctx context.Context, requestID, providerPaymentID string) (*domain.PaymentAttempt, error) {
	if s.attempt == nil {
		return nil, nil
	}
	if requestID != "" && s.attempt.RequestID == requestID {
		return s.attempt, nil
	}
	return nil, nil
}

func (s *stubStores) UpdateOutcome(ctx context.Context, attempt *domain.PaymentAttempt) error {
	s.outcomeWrites++
	s.attempt = attempt
	return nil
}

func (s *stubStores) UpdateAudit(ctx context.Context, attemptID string, providerPaymentID *string, rawPayload []byte) error {
	s.auditWrites++
	s.attempt.RawWebhookPayload = rawPayload
	return nil
}

func (s *stubStores) WithSerializable(ctx context.Context, fn func(ctx context.Context, bookings application.BookingTxStore, payments application.PaymentTxStore) error) error {
	return fn(ctx, s, s)
}

type stubProvider struct{}

func (stubProvider) CreateItem(ctx context.Context, req application.ProviderInitiationRequest) (*application.ProviderInitiationResult, error) {
	return &application.ProviderInitiationResult{Raw: []byte(`{}`)}, nil
}

func newTestRouter(t *testing.T, stores *stubStores) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := services.NewPaymentsService(
		stores, stores, stores, stubProvider{},
		decimal.RequireFromString("0.1"),
		logger,
	)

	h := handlers.NewHandlers(service, finik.NewHMACVerifier(webhookSecret), logger)

	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "jwt-test-secret"
	return handlers.NewRouter(h, cfg, logger)
}

func signBody(body []byte) string {
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func pendingAttempt(t *testing.T) (*stubStores, []byte) {
	t.Helper()

	attempt, err := domain.NewPaymentAttempt("pay-1", "booking-1", "user-1", "FINIK", "req-1", nil, 1000, nil)
	require.NoError(t, err)

	stores := &stubStores{
		attempt: attempt,
		booking: &domain.Booking{ID: "booking-1", UserID: "user-1", TotalAmount: 10000, Status: domain.BookingPending},
	}
	body := []byte(`{"request_id":"req-1","status":"SUCCEEDED"}`)
	return stores, body
}

func TestFinikWebhook(t *testing.T) {
	t.Run("valid signature settles the payment", func(t *testing.T) {
		stores, body := pendingAttempt(t)
		router := newTestRouter(t, stores)

		req := httptest.NewRequest(http.MethodPost, "/payments/webhook/finik", bytes.NewReader(body))
		req.Header.Set("signature", signBody(body))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
		assert.Equal(t, domain.StatusPaid, stores.attempt.Status)
		assert.Equal(t, domain.BookingPaid, stores.booking.Status)
	})

	t.Run("legacy path still settles", func(t *testing.T) {
		stores, body := pendingAttempt(t)
		router := newTestRouter(t, stores)

		req := httptest.NewRequest(http.MethodPost, "/payments/finik/webhook", bytes.NewReader(body))
		req.Header.Set("signature", signBody(body))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, domain.StatusPaid, stores.attempt.Status)
	})

	t.Run("fallback signature header names", func(t *testing.T) {
		for _, headerName := range []string{"x-signature", "x-finik-signature"} {
			stores, body := pendingAttempt(t)
			router := newTestRouter(t, stores)

			req := httptest.NewRequest(http.MethodPost, "/payments/webhook/finik", bytes.NewReader(body))
			req.Header.Set(headerName, signBody(body))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code, headerName)
			assert.Equal(t, domain.StatusPaid, stores.attempt.Status, headerName)
		}
	})

	t.Run("missing signature is unauthorized", func(t *testing.T) {
		stores, body := pendingAttempt(t)
		router := newTestRouter(t, stores)

		req := httptest.NewRequest(http.MethodPost, "/payments/webhook/finik", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assertErrorCode(t, rec, "WEBHOOK_SIGNATURE_MISSING")
		assert.Equal(t, domain.StatusPending, stores.attempt.Status)
	})

	t.Run("invalid signature is unauthorized", func(t *testing.T) {
		stores, body := pendingAttempt(t)
		router := newTestRouter(t, stores)

		req := httptest.NewRequest(http.MethodPost, "/payments/webhook/finik", bytes.NewReader(body))
		req.Header.Set("signature", signBody([]byte("different body")))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assertErrorCode(t, rec, "WEBHOOK_SIGNATURE_INVALID")
		assert.Equal(t, domain.StatusPending, stores.attempt.Status)
	})

	t.Run("payload without identifiers is a bad request", func(t *testing.T) {
		stores, _ := pendingAttempt(t)
		router := newTestRouter(t, stores)
		body := []byte(`{"status":"SUCCEEDED"}`)

		req := httptest.NewRequest(http.MethodPost, "/payments/webhook/finik", bytes.NewReader(body))
		req.Header.Set("signature", signBody(body))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assertErrorCode(t, rec, "WEBHOOK_IDENTIFIERS_MISSING")
	})

	t.Run("unknown payment is acknowledged", func(t *testing.T) {
		stores := &stubStores{}
		router := newTestRouter(t, stores)
		body := []byte(`{"request_id":"never-seen","status":"SUCCEEDED"}`)

		req := httptest.NewRequest(http.MethodPost, "/payments/webhook/finik", bytes.NewReader(body))
		req.Header.Set("signature", signBody(body))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	})
}

func assertErrorCode(t *testing.T, rec *httptest.ResponseRecorder, code string) {
	t.Helper()

	var envelope struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.Equal(t, code, envelope.Error.Code)
}
