package payment_test

import (
	"testing"
	"time"

	"restoran/internal/models"
	"restoran/internal/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceRoundTrip(t *testing.T) {
	ref := payment.Reference(42, time.Unix(1700000000, 0))
	assert.Equal(t, "order-42-1700000000", ref)

	id, err := payment.ParseReference(ref)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestParseReference_Malformed(t *testing.T) {
	for _, ref := range []string{"", "42", "order-x-1", "invoice-4-1", "order-0-1", "order-1-2-3"} {
		_, err := payment.ParseReference(ref)
		assert.Error(t, err, ref)
	}
}

func TestMapTransactionStatus(t *testing.T) {
	cases := []struct {
		status, fraud string
		want          models.PaymentStatus
	}{
		{"capture", "accept", models.PaymentStatusPaid},
		{"capture", "challenge", models.PaymentStatusPending},
		{"settlement", "", models.PaymentStatusPaid},
		{"pending", "", models.PaymentStatusPending},
		{"deny", "", models.PaymentStatusFailed},
		{"cancel", "", models.PaymentStatusFailed},
		{"expire", "", models.PaymentStatusFailed},
		{"failure", "", models.PaymentStatusFailed},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, payment.MapTransactionStatus(tc.status, tc.fraud), tc.status)
	}
}
