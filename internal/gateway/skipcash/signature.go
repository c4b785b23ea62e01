package skipcash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
)

var (
	ErrSecretNotConfigured = errors.New("skipcash: webhook key not configured")
	ErrInvalidSignature    = errors.New("skipcash: invalid signature")
	ErrMissingFields       = errors.New("skipcash: required fields missing")
)

// CanonicalString builds the exact string SkipCash signs. Field order is the
// vendor contract and must not be changed: TransactionId and Custom1 are
// appended only when non-empty, VisaId always closes the string.
func CanonicalString(p WebhookPayload) string {
	var b strings.Builder
	b.WriteString("PaymentId=")
	b.WriteString(p.PaymentID)
	b.WriteString(",Amount=")
	b.WriteString(p.Amount)
	b.WriteString(",StatusId=")
	b.WriteString(p.StatusID.String())
	if p.TransactionID != "" {
		b.WriteString(",TransactionId=")
		b.WriteString(p.TransactionID)
	}
	if p.Custom1 != "" {
		b.WriteString(",Custom1=")
		b.WriteString(p.Custom1)
	}
	b.WriteString(",VisaId=")
	b.WriteString(p.VisaID)
	return b.String()
}

// Sign computes the base64 HMAC-SHA256 digest SkipCash carries in the
// Authorization header.
func Sign(secret string, p WebhookPayload) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(CanonicalString(p)))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Verifier checks webhook signatures against the merchant webhook key.
type Verifier struct {
	secret string
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: secret}
}

// Verify fails closed when no key is configured. Comparison is constant
// time regardless of where the mismatch occurs.
func (v *Verifier) Verify(p WebhookPayload, signature string) error {
	if v.secret == "" {
		return ErrSecretNotConfigured
	}
	expected := Sign(v.secret, p)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return ErrInvalidSignature
	}
	return nil
}
