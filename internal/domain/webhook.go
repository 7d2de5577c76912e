package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// WebhookOutcome is the normalized result carried by a provider notification.
type WebhookOutcome int

const (
	// OutcomeNone means the delivery carries no status transition and only
	// the audit fields should be updated.
	OutcomeNone WebhookOutcome = iota
	OutcomePaid
	OutcomeFailed
)

func (o WebhookOutcome) PaymentStatus() (PaymentStatus, bool) {
	switch o {
	case OutcomePaid:
		return StatusPaid, true
	case OutcomeFailed:
		return StatusFailed, true
	default:
		return "", false
	}
}

// ErrNoIdentifiers means the payload carried neither a request id nor a
// provider payment id anywhere we know to look. Such a delivery can never be
// correlated and is rejected permanently.
var ErrNoIdentifiers = errors.New("webhook payload carries no usable identifiers")

// WebhookEvent is a provider notification reduced to what the orchestrator
// needs: correlation keys, the normalized outcome, and the raw payload for
// the audit trail.
type WebhookEvent struct {
	RequestID         string
	ProviderPaymentID string
	Outcome           WebhookOutcome
	Raw               []byte
}

// extractor pulls one candidate value out of the decoded payload. Extractors
// are tried in order; the first hit wins. Finik's payload shape has drifted
// across provider releases, so new field-name variants are added here rather
// than by restructuring control flow.
type extractor func(payload map[string]any) (string, bool)

func topLevel(keys ...string) extractor {
	return func(payload map[string]any) (string, bool) {
		for _, k := range keys {
			if v, ok := stringValue(payload[k]); ok {
				return v, true
			}
		}
		return "", false
	}
}

func nested(container string, keys ...string) extractor {
	return func(payload map[string]any) (string, bool) {
		inner, ok := payload[container].(map[string]any)
		if !ok {
			return "", false
		}
		return topLevel(keys...)(inner)
	}
}

var requestIDExtractors = []extractor{
	topLevel("request_id", "requestId"),
	nested("fields", "request_id", "requestId"),
	nested("data", "request_id", "requestId"),
}

var providerPaymentIDExtractors = []extractor{
	topLevel("provider_payment_id", "providerPaymentId", "payment_id", "paymentId", "transaction_id", "transactionId"),
	nested("fields", "payment_id", "paymentId", "transaction_id", "transactionId"),
	nested("data", "provider_payment_id", "payment_id", "paymentId", "transaction_id", "transactionId", "id"),
}

var statusExtractors = []extractor{
	topLevel("status"),
	nested("data", "status"),
}

// ParseWebhookEvent decodes a raw provider payload and normalizes it.
// Status mapping is case-insensitive: SUCCEEDED confirms the payment,
// FAILED and CANCELLED fail it, and every other token is audit-only.
func ParseWebhookEvent(raw []byte) (*WebhookEvent, error) {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode webhook payload: %w", err)
	}

	ev := &WebhookEvent{Raw: raw}
	ev.RequestID, _ = runExtractors(requestIDExtractors, payload)
	ev.ProviderPaymentID, _ = runExtractors(providerPaymentIDExtractors, payload)

	if ev.RequestID == "" && ev.ProviderPaymentID == "" {
		return nil, ErrNoIdentifiers
	}

	status, _ := runExtractors(statusExtractors, payload)
	switch strings.ToUpper(status) {
	case "SUCCEEDED":
		ev.Outcome = OutcomePaid
	case "FAILED", "CANCELLED":
		ev.Outcome = OutcomeFailed
	default:
		ev.Outcome = OutcomeNone
	}

	return ev, nil
}

func runExtractors(extractors []extractor, payload map[string]any) (string, bool) {
	for _, extract := range extractors {
		if v, ok := extract(payload); ok {
			return v, true
		}
	}
	return "", false
}

func stringValue(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		if t == "" {
			return "", false
		}
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		// identifiers occasionally arrive as bare numbers
		return fmt.Sprintf("%.0f", t), true
	default:
		return "", false
	}
}
