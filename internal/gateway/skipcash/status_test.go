package skipcash

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"paygate/internal/domain"
)

func TestMapStatusCodeTable(t *testing.T) {
	cases := map[int]domain.PaymentStatus{
		2: domain.PaymentPaid,
		3: domain.PaymentCancelled,
		4: domain.PaymentFailed,
		5: domain.PaymentRejected,
		6: domain.PaymentRefunded,
		7: domain.PaymentPendingRefund,
		8: domain.PaymentRefundFailed,
	}
	for code, want := range cases {
		assert.Equal(t, want, MapStatusCode(code), "code %d", code)
	}
}

func TestMapStatusCodeUnknownIsPending(t *testing.T) {
	for _, code := range []int{-1, 0, 1, 9, 42, 1000000} {
		assert.Equal(t, domain.PaymentPending, MapStatusCode(code), "code %d", code)
	}
}

func TestMapStatusWireForm(t *testing.T) {
	assert.Equal(t, domain.PaymentPaid, MapStatus("2"))
	assert.Equal(t, domain.PaymentPending, MapStatus("not-a-number"))
	assert.Equal(t, domain.PaymentPending, MapStatus(""))
}
