package skipcash

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "sk_test_webhook_key_9f2c"

func fullPayload() WebhookPayload {
	return WebhookPayload{
		PaymentID:     "9c5ef365-a0c1-4f3e-bc8f-2f5d5e1c2a10",
		Amount:        "100.00",
		StatusID:      json.Number("2"),
		TransactionID: "ref-1001",
		VisaID:        "411111",
	}
}

func TestCanonicalStringFieldOrder(t *testing.T) {
	assert.Equal(t,
		"PaymentId=9c5ef365-a0c1-4f3e-bc8f-2f5d5e1c2a10,Amount=100.00,StatusId=2,TransactionId=ref-1001,VisaId=411111",
		CanonicalString(fullPayload()))
}

func TestCanonicalStringOmitsEmptyOptionalFields(t *testing.T) {
	p := fullPayload()
	p.TransactionID = ""
	p.StatusID = json.Number("4")
	assert.Equal(t,
		"PaymentId=9c5ef365-a0c1-4f3e-bc8f-2f5d5e1c2a10,Amount=100.00,StatusId=4,VisaId=411111",
		CanonicalString(p))
}

func TestCanonicalStringIncludesCustom1BeforeVisaId(t *testing.T) {
	p := fullPayload()
	p.Custom1 = "club-17"
	assert.Equal(t,
		"PaymentId=9c5ef365-a0c1-4f3e-bc8f-2f5d5e1c2a10,Amount=100.00,StatusId=2,TransactionId=ref-1001,Custom1=club-17,VisaId=411111",
		CanonicalString(p))
}

// Reference digests computed independently of this implementation.
func TestSignKnownAnswers(t *testing.T) {
	assert.Equal(t, "6jjl4sm/HKGc3GoU9ijotA6fMY8WkGGmki5+KS0VxZs=", Sign(testSecret, fullPayload()))

	p := fullPayload()
	p.TransactionID = ""
	p.StatusID = json.Number("4")
	assert.Equal(t, "XEIHak1/JUuBH73QenG44wihty3pcmOAq3S2bPfWIAM=", Sign(testSecret, p))

	p = fullPayload()
	p.Custom1 = "club-17"
	assert.Equal(t, "y5507wnCXW8/QUN/RU3lpuWTeNkky+qTGoRl9Z7XJ3E=", Sign(testSecret, p))
}

func TestVerifyAcceptsValidSignature(t *testing.T) {
	v := NewVerifier(testSecret)
	assert.NoError(t, v.Verify(fullPayload(), Sign(testSecret, fullPayload())))
}

func TestVerifyRejectsTamperedField(t *testing.T) {
	v := NewVerifier(testSecret)
	sig := Sign(testSecret, fullPayload())

	tampered := fullPayload()
	tampered.Amount = "100.01"
	assert.ErrorIs(t, v.Verify(tampered, sig), ErrInvalidSignature)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	v := NewVerifier(testSecret)
	sig := Sign("some-other-secret", fullPayload())
	assert.ErrorIs(t, v.Verify(fullPayload(), sig), ErrInvalidSignature)
}

func TestVerifyFailsClosedWithoutSecret(t *testing.T) {
	v := NewVerifier("")
	// Even a digest keyed on the empty string must not pass.
	err := v.Verify(fullPayload(), Sign("", fullPayload()))
	assert.ErrorIs(t, err, ErrSecretNotConfigured)
}

func TestParsePayload(t *testing.T) {
	body := []byte(`{"PaymentId":"p1","Amount":"100","StatusId":2,"TransactionId":"ref1","VisaId":"v1"}`)
	p, err := ParsePayload(body)
	require.NoError(t, err)
	assert.Equal(t, "p1", p.PaymentID)
	assert.Equal(t, "2", p.StatusID.String())

	_, err = ParsePayload([]byte(`{not json`))
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	p := fullPayload()
	ev, err := Normalize(p, []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, "ref-1001", ev.Reference)
	assert.Equal(t, "9c5ef365-a0c1-4f3e-bc8f-2f5d5e1c2a10", ev.VendorPaymentID)
	assert.Equal(t, "2", ev.VendorStatusCode)

	p.TransactionID = ""
	p.Custom1 = "legacy-ref"
	ev, err = Normalize(p, nil)
	require.NoError(t, err)
	assert.Equal(t, "legacy-ref", ev.Reference)

	p.Custom1 = ""
	_, err = Normalize(p, nil)
	assert.ErrorIs(t, err, ErrMissingFields)
}
