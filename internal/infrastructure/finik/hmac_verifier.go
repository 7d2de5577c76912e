package finik

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HMACVerifier checks a shared-secret HMAC-SHA256 digest of the raw request
// body. The provider's legacy scheme; an optional "sha256=" prefix on the
// signature header is accepted.
type HMACVerifier struct {
	secret []byte
}

func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

func (v *HMACVerifier) Verify(req SignedRequest) error {
	if req.Signature == "" {
		return signatureMissing()
	}

	signature := strings.TrimPrefix(req.Signature, "sha256=")

	provided, err := hex.DecodeString(signature)
	if err != nil {
		return signatureInvalid()
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write(req.Body)

	if !hmac.Equal(provided, mac.Sum(nil)) {
		return signatureInvalid()
	}

	return nil
}
