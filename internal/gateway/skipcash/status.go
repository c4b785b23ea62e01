package skipcash

import (
	"strconv"

	"paygate/internal/domain"
)

// statusTable is the SkipCash StatusId contract. It is a versioned vendor
// constant; do not reorder or infer new entries.
var statusTable = map[int]domain.PaymentStatus{
	2: domain.PaymentPaid,
	3: domain.PaymentCancelled,
	4: domain.PaymentFailed,
	5: domain.PaymentRejected,
	6: domain.PaymentRefunded,
	7: domain.PaymentPendingRefund,
	8: domain.PaymentRefundFailed,
}

// MapStatusCode converts a SkipCash StatusId to the canonical status.
// Unknown codes map to pending so a benign new vendor code never corrupts
// state or fails the pipeline.
func MapStatusCode(code int) domain.PaymentStatus {
	if st, ok := statusTable[code]; ok {
		return st
	}
	return domain.PaymentPending
}

// MapStatus accepts the wire form of StatusId. Non-numeric input counts as
// unknown and maps to pending.
func MapStatus(code string) domain.PaymentStatus {
	n, err := strconv.Atoi(code)
	if err != nil {
		return domain.PaymentPending
	}
	return MapStatusCode(n)
}
