package finik

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/demal-app/payments-service/internal/application"
	"github.com/demal-app/payments-service/internal/config"
)

// SignedRequest is the inbound webhook request reduced to the parts the
// provider signs. Body holds the exact bytes received on the wire.
type SignedRequest struct {
	Method    string
	Path      string
	Host      string
	Header    http.Header
	Query     url.Values
	Body      []byte
	Signature string
}

// Verifier decides whether a webhook delivery genuinely originates from
// Finik. Exactly one strategy is active per deployment, selected by config;
// the scheme is part of the provider contract and must match bit-for-bit.
type Verifier interface {
	Verify(req SignedRequest) error
}

// NewVerifier builds the configured strategy.
func NewVerifier(cfg config.FinikConfig) (Verifier, error) {
	switch cfg.WebhookScheme {
	case "rsa":
		key := prodPublicKeyPEM
		if cfg.Env == "beta" {
			key = betaPublicKeyPEM
		}
		return NewRSAVerifier(key)
	case "hmac":
		if cfg.WebhookSecret == "" {
			return nil, fmt.Errorf("finik webhook_secret is required for the hmac scheme")
		}
		return NewHMACVerifier(cfg.WebhookSecret), nil
	default:
		return nil, fmt.Errorf("unknown finik webhook scheme %q", cfg.WebhookScheme)
	}
}

func signatureMissing() error {
	return application.NewSignatureMissingError()
}

func signatureInvalid() error {
	return application.NewSignatureInvalidError()
}
