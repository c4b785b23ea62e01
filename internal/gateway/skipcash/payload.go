// Package skipcash implements the SkipCash webhook contract: payload shape,
// canonical-string signing and the payment status code table.
package skipcash

import (
	"bytes"
	"encoding/json"

	"paygate/internal/domain"
)

const VendorName = "skipcash"

// WebhookPayload mirrors the fields SkipCash posts on payment status changes.
// StatusId arrives as a JSON number; json.Number keeps its literal form so
// the canonical string reproduces the wire bytes exactly.
type WebhookPayload struct {
	PaymentID     string      `json:"PaymentId"`
	Amount        string      `json:"Amount"`
	StatusID      json.Number `json:"StatusId"`
	TransactionID string      `json:"TransactionId"`
	Custom1       string      `json:"Custom1"`
	VisaID        string      `json:"VisaId"`
}

// ParsePayload decodes a raw webhook body. Decoding happens before signature
// verification out of necessity (the signature covers payload fields, not the
// raw body); nothing from the payload is trusted until Verify passes.
func ParsePayload(body []byte) (WebhookPayload, error) {
	var p WebhookPayload
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&p); err != nil {
		return WebhookPayload{}, err
	}
	return p, nil
}

// Normalize maps a verified payload to the canonical event shape. The
// client-supplied transaction reference travels in TransactionId, with
// Custom1 as the legacy fallback.
func Normalize(p WebhookPayload, raw []byte) (domain.WebhookEvent, error) {
	ref := p.TransactionID
	if ref == "" {
		ref = p.Custom1
	}
	if ref == "" || p.StatusID.String() == "" {
		return domain.WebhookEvent{}, ErrMissingFields
	}
	return domain.WebhookEvent{
		Vendor:           VendorName,
		Reference:        ref,
		VendorPaymentID:  p.PaymentID,
		VendorStatusCode: p.StatusID.String(),
		Amount:           p.Amount,
		Raw:              raw,
	}, nil
}
