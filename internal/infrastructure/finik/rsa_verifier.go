package finik

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
)

// RSAVerifier checks an RSA-SHA256 signature over the canonical request
// string against Finik's public key for the configured environment.
type RSAVerifier struct {
	publicKey *rsa.PublicKey
}

func NewRSAVerifier(publicKeyPEM string) (*RSAVerifier, error) {
	block, _ := pem.Decode([]byte(publicKeyPEM))
	if block == nil {
		return nil, fmt.Errorf("finik public key is not valid PEM")
	}

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse finik public key: %w", err)
	}

	rsaKey, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("finik public key is not RSA")
	}

	return &RSAVerifier{publicKey: rsaKey}, nil
}

func (v *RSAVerifier) Verify(req SignedRequest) error {
	if req.Signature == "" {
		return signatureMissing()
	}

	signature, err := base64.StdEncoding.DecodeString(req.Signature)
	if err != nil {
		return signatureInvalid()
	}

	canonical, err := buildCanonicalString(req)
	if err != nil {
		return signatureInvalid()
	}

	digest := sha256.Sum256([]byte(canonical))
	if err := rsa.VerifyPKCS1v15(v.publicKey, crypto.SHA256, digest[:], signature); err != nil {
		return signatureInvalid()
	}

	return nil
}
