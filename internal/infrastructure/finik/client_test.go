package finik

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/demal-app/payments-service/internal/application"
	"github.com/demal-app/payments-service/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client, err := NewClient(config.FinikConfig{
		Env:               "production",
		APIKey:            "test-api-key",
		AccountID:         "acct-1",
		CallbackURL:       "https://api.demal.app/payments/webhook/finik",
		BaseURLProduction: baseURL,
		ConnTimeout:       5 * time.Second,
		WebhookScheme:     "rsa",
	}, logger)
	require.NoError(t, err)
	return client
}

func TestCreateItem(t *testing.T) {
	initReq := application.ProviderInitiationRequest{
		RequestID: "req-1",
		BookingID: "booking-1",
		UserID:    "user-1",
		Amount:    1000,
	}

	t.Run("sends mutation and extracts provider id", func(t *testing.T) {
		var captured graphQLRequest
		var apiKey string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey = r.Header.Get("x-api-key")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"data":{"createItem":{"id":"FIN-1","requestId":"req-1","status":"ENABLED"}}}`))
		}))
		defer server.Close()

		result, err := testClient(t, server.URL).CreateItem(context.Background(), initReq)

		require.NoError(t, err)
		require.NotNil(t, result.ProviderPaymentID)
		assert.Equal(t, "FIN-1", *result.ProviderPaymentID)
		assert.JSONEq(t, `{"id":"FIN-1","requestId":"req-1","status":"ENABLED"}`, string(result.Raw))

		assert.Equal(t, "test-api-key", apiKey)
		assert.Equal(t, "CreateItem", captured.OperationName)

		input, ok := captured.Variables["input"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "req-1", input["requestId"])
		assert.Equal(t, float64(1000), input["fixedAmount"])
		assert.Equal(t, "ENABLED", input["status"])
	})

	t.Run("missing provider id falls back to request id correlation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data":{"createItem":{"requestId":"req-1","status":"ENABLED"}}}`))
		}))
		defer server.Close()

		result, err := testClient(t, server.URL).CreateItem(context.Background(), initReq)

		require.NoError(t, err)
		assert.Nil(t, result.ProviderPaymentID)
	})

	t.Run("non-200 is a provider rejection", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"message":"invalid api key"}`))
		}))
		defer server.Close()

		_, err := testClient(t, server.URL).CreateItem(context.Background(), initReq)

		provErr, ok := IsProviderError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusForbidden, provErr.StatusCode)
		assert.Contains(t, provErr.Body, "invalid api key")
	})

	t.Run("transport failure is unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		_, err := testClient(t, server.URL).CreateItem(context.Background(), initReq)

		assert.ErrorIs(t, err, ErrUnreachable)
	})

	t.Run("construction fails without credentials", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))

		_, err := NewClient(config.FinikConfig{
			Env:               "production",
			BaseURLProduction: "https://example.com",
			ConnTimeout:       time.Second,
		}, logger)

		assert.Error(t, err)
	})
}
