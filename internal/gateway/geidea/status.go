package geidea

import "paygate/internal/domain"

// statusTable is the Geidea order status contract. Versioned vendor
// constant; unknown strings fall through to pending.
var statusTable = map[string]domain.PaymentStatus{
	"Paid":             domain.PaymentPaid,
	"Success":          domain.PaymentPaid,
	"Cancelled":        domain.PaymentCancelled,
	"Failed":           domain.PaymentFailed,
	"Declined":         domain.PaymentFailed,
	"Rejected":         domain.PaymentRejected,
	"Refunded":         domain.PaymentRefunded,
	"InProgressRefund": domain.PaymentPendingRefund,
	"RefundFailed":     domain.PaymentRefundFailed,
}

// MapStatus converts a Geidea order status to the canonical status.
func MapStatus(code string) domain.PaymentStatus {
	if st, ok := statusTable[code]; ok {
		return st
	}
	return domain.PaymentPending
}

// SuccessRedirect reports whether a return-URL redirect should land the
// shopper on the success page. The redirect is unsigned and never drives a
// state change; this is routing only.
func SuccessRedirect(status, responseCode string) bool {
	return MapStatus(status) == domain.PaymentPaid && (responseCode == "" || responseCode == "000")
}
