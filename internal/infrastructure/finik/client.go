// Package finik integrates with the Finik payment provider: the outbound
// charge-creation client and the inbound webhook signature verifiers.
package finik

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/demal-app/payments-service/internal/application"
	"github.com/demal-app/payments-service/internal/config"
)

const itemName = "Demal booking payment"

// Client talks to Finik's GraphQL endpoint. All configuration is captured at
// construction; missing credentials fail here, not on first use.
type Client struct {
	baseURL    string
	apiKey     string
	accountID  string
	callback   string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg config.FinikConfig, logger *slog.Logger) (*Client, error) {
	baseURL, err := cfg.BaseURL()
	if err != nil {
		return nil, err
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("finik api_key is not configured")
	}
	if cfg.AccountID == "" {
		return nil, fmt.Errorf("finik account_id is not configured")
	}
	if cfg.CallbackURL == "" {
		return nil, fmt.Errorf("finik callback_url is not configured")
	}

	return &Client{
		baseURL:   baseURL,
		apiKey:    cfg.APIKey,
		accountID: cfg.AccountID,
		callback:  cfg.CallbackURL,
		httpClient: &http.Client{
			Timeout: cfg.ConnTimeout,
		},
		logger: logger,
	}, nil
}

var _ application.ProviderClient = (*Client)(nil)

// CreateItem asks Finik to create a payable item for the booking deposit.
func (c *Client) CreateItem(ctx context.Context, req application.ProviderInitiationRequest) (*application.ProviderInitiationResult, error) {
	payload := graphQLRequest{
		Query:         createItemMutation,
		OperationName: "CreateItem",
		Variables: map[string]any{
			"input": createItemInput{
				Account:     accountRef{ID: c.accountID},
				CallbackURL: c.callback,
				RequiredFields: []requiredField{
					{FieldID: "bookingId", Value: req.BookingID},
					{FieldID: "requestId", Value: req.RequestID},
					{FieldID: "userId", Value: req.UserID},
				},
				FixedAmount:          req.Amount,
				NameEN:               itemName,
				RequestID:            req.RequestID,
				Status:               "ENABLED",
				MaxAvailableQuantity: 1,
			},
		},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error marshalling json: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("finik request failed",
			"request_id", req.RequestID,
			"booking_id", req.BookingID,
			"error", err,
		)
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUnreachable, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("finik rejected item creation",
			"request_id", req.RequestID,
			"booking_id", req.BookingID,
			"status", resp.StatusCode,
		)
		return nil, &ProviderError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	return normalizeResponse(body), nil
}

// normalizeResponse extracts the provider payment id if one is present.
// Any shape is tolerated: correlation can fall back to the request id.
func normalizeResponse(body []byte) *application.ProviderInitiationResult {
	raw := body

	var envelope createItemEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Data.CreateItem) > 0 {
		raw = envelope.Data.CreateItem
	}

	var ids itemIdentifiers
	_ = json.Unmarshal(raw, &ids)

	result := &application.ProviderInitiationResult{Raw: raw}
	if id := ids.pick(); id != "" {
		result.ProviderPaymentID = &id
	}
	return result
}
