package mercadopagowebhook

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/camilorueda/vitrina-backend/pkg/enums"
)

func TestCanonicalStatusMapping(t *testing.T) {
	cases := map[string]enums.PaymentStatus{
		"approved":     enums.PaymentStatusApproved,
		"pending":      enums.PaymentStatusPending,
		"in_process":   enums.PaymentStatusPending,
		"in_mediation": enums.PaymentStatusPending,
		"authorized":   enums.PaymentStatusPending,
		"rejected":     enums.PaymentStatusRejected,
		"cancelled":    enums.PaymentStatusCancelled,
		"refunded":     enums.PaymentStatusRefunded,
		"charged_back": enums.PaymentStatusRefunded,
	}
	for providerStatus, want := range cases {
		got, known := canonicalStatus(providerStatus)
		assert.True(t, known, providerStatus)
		assert.Equal(t, want, got, providerStatus)
		assert.True(t, got.IsValid(), providerStatus)
	}
}

func TestCanonicalStatusUnknownFallsBackToPending(t *testing.T) {
	got, known := canonicalStatus("brand_new_status")
	assert.False(t, known)
	assert.Equal(t, enums.PaymentStatusPending, got)
}
