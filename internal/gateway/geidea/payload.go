// Package geidea implements the Geidea webhook contract: full-field canonical
// signing (hex HMAC-SHA256) and the order status table.
package geidea

import (
	"encoding/json"

	"paygate/internal/domain"
)

const VendorName = "geidea"

// SignatureHeader carries the hex digest on inbound webhooks.
const SignatureHeader = "X-Geidea-Signature"

// WebhookPayload covers every field Geidea sends; all of them participate in
// the signature, in the order declared by canonicalFields.
type WebhookPayload struct {
	MerchantReferenceID   string `json:"merchantReferenceId"`
	PaymentID             string `json:"paymentId"`
	Status                string `json:"status"`
	ResponseCode          string `json:"responseCode"`
	Amount                string `json:"amount"`
	Currency              string `json:"currency"`
	FirstName             string `json:"firstName"`
	LastName              string `json:"lastName"`
	Email                 string `json:"email"`
	Phone                 string `json:"phone"`
	Custom1               string `json:"custom1"`
	Custom2               string `json:"custom2"`
	Custom3               string `json:"custom3"`
	Custom4               string `json:"custom4"`
	Custom5               string `json:"custom5"`
	Custom6               string `json:"custom6"`
	Custom7               string `json:"custom7"`
	Custom8               string `json:"custom8"`
	Custom9               string `json:"custom9"`
	Custom10              string `json:"custom10"`
	ReturnURL             string `json:"returnUrl"`
	WebhookURL            string `json:"webhookUrl"`
	PartialPaymentAllowed bool   `json:"partialPaymentAllowed"`
}

func ParsePayload(body []byte) (WebhookPayload, error) {
	var p WebhookPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return WebhookPayload{}, err
	}
	return p, nil
}

// Normalize maps a verified payload to the canonical event shape.
func Normalize(p WebhookPayload, raw []byte) (domain.WebhookEvent, error) {
	if p.MerchantReferenceID == "" || p.Status == "" {
		return domain.WebhookEvent{}, ErrMissingFields
	}
	return domain.WebhookEvent{
		Vendor:           VendorName,
		Reference:        p.MerchantReferenceID,
		VendorPaymentID:  p.PaymentID,
		VendorStatusCode: p.Status,
		Amount:           p.Amount,
		Currency:         p.Currency,
		Raw:              raw,
	}, nil
}
