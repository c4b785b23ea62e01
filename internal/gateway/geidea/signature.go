package geidea

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
)

var (
	ErrSecretNotConfigured = errors.New("geidea: webhook key not configured")
	ErrInvalidSignature    = errors.New("geidea: invalid signature")
	ErrMissingFields       = errors.New("geidea: required fields missing")
)

// canonicalFields fixes the signing order over every payload field. The
// order is the vendor contract; a reordering breaks verification against
// real deliveries.
var canonicalFields = []struct {
	key   string
	value func(WebhookPayload) string
}{
	{"MerchantReferenceId", func(p WebhookPayload) string { return p.MerchantReferenceID }},
	{"PaymentId", func(p WebhookPayload) string { return p.PaymentID }},
	{"Status", func(p WebhookPayload) string { return p.Status }},
	{"ResponseCode", func(p WebhookPayload) string { return p.ResponseCode }},
	{"Amount", func(p WebhookPayload) string { return p.Amount }},
	{"Currency", func(p WebhookPayload) string { return p.Currency }},
	{"FirstName", func(p WebhookPayload) string { return p.FirstName }},
	{"LastName", func(p WebhookPayload) string { return p.LastName }},
	{"Email", func(p WebhookPayload) string { return p.Email }},
	{"Phone", func(p WebhookPayload) string { return p.Phone }},
	{"Custom1", func(p WebhookPayload) string { return p.Custom1 }},
	{"Custom2", func(p WebhookPayload) string { return p.Custom2 }},
	{"Custom3", func(p WebhookPayload) string { return p.Custom3 }},
	{"Custom4", func(p WebhookPayload) string { return p.Custom4 }},
	{"Custom5", func(p WebhookPayload) string { return p.Custom5 }},
	{"Custom6", func(p WebhookPayload) string { return p.Custom6 }},
	{"Custom7", func(p WebhookPayload) string { return p.Custom7 }},
	{"Custom8", func(p WebhookPayload) string { return p.Custom8 }},
	{"Custom9", func(p WebhookPayload) string { return p.Custom9 }},
	{"Custom10", func(p WebhookPayload) string { return p.Custom10 }},
	{"ReturnUrl", func(p WebhookPayload) string { return p.ReturnURL }},
	{"WebhookUrl", func(p WebhookPayload) string { return p.WebhookURL }},
	{"PartialPaymentAllowed", func(p WebhookPayload) string { return strconv.FormatBool(p.PartialPaymentAllowed) }},
}

// CanonicalString joins every field as Key=Value pairs separated by commas,
// in declared order, empty values included.
func CanonicalString(p WebhookPayload) string {
	pairs := make([]string, 0, len(canonicalFields))
	for _, f := range canonicalFields {
		pairs = append(pairs, f.key+"="+f.value(p))
	}
	return strings.Join(pairs, ",")
}

// Sign computes the hex HMAC-SHA256 digest carried in X-Geidea-Signature.
func Sign(secret string, p WebhookPayload) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(CanonicalString(p)))
	return hex.EncodeToString(mac.Sum(nil))
}

type Verifier struct {
	secret string
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: secret}
}

// Verify fails closed on a missing key and compares in constant time.
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
