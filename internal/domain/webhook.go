package domain

// WebhookEvent is the canonical shape a vendor payload is normalized into
// after its signature has been verified. Amount stays a string here; the
// service parses it only when amount re-validation is enabled.
type WebhookEvent struct {
	Vendor           string
	Reference        string
	VendorPaymentID  string
	VendorStatusCode string
	Amount           string
	Currency         string
	Raw              []byte
}
