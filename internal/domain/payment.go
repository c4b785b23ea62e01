package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending       PaymentStatus = "pending"
	PaymentPaid          PaymentStatus = "paid"
	PaymentCancelled     PaymentStatus = "cancelled"
	PaymentFailed        PaymentStatus = "failed"
	PaymentRejected      PaymentStatus = "rejected"
	PaymentRefunded      PaymentStatus = "refunded"
	PaymentPendingRefund PaymentStatus = "pending_refund"
	PaymentRefundFailed  PaymentStatus = "refund_failed"
)

// downgradeBlocked lists the statuses a paid record must never fall back to.
// Refund-class statuses are deliberately absent: refunds follow paid.
var downgradeBlocked = map[PaymentStatus]bool{
	PaymentFailed:       true,
	PaymentCancelled:    true,
	PaymentRejected:     true,
	PaymentRefundFailed: true,
}

// IsDowngrade reports whether applying next to a record currently in cur
// would violate the one-way paid policy.
func IsDowngrade(cur, next PaymentStatus) bool {
	return cur == PaymentPaid && downgradeBlocked[next]
}

type Payment struct {
	ID              uuid.UUID
	Reference       string
	Vendor          string
	VendorPaymentID string
	Amount          decimal.NullDecimal
	Currency        string
	Status          PaymentStatus
	RawPayload      []byte
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// StatusUpdate is the write half of a verified webhook: everything the
// store needs to merge-upsert one payment record.
type StatusUpdate struct {
	Reference       string
	Vendor          string
	VendorPaymentID string
	Amount          decimal.NullDecimal
	Currency        string
	Status          PaymentStatus
	RawPayload      []byte
}
