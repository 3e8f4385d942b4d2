package paypalwebhook

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/camilorueda/vitrina-backend/pkg/enums"
)

func TestCanonicalStatusMapping(t *testing.T) {
	cases := map[string]enums.PaymentStatus{
		EventCheckoutOrderApproved: enums.PaymentStatusApproved,
		EventCaptureCompleted:      enums.PaymentStatusApproved,
		EventCapturePending:        enums.PaymentStatusPending,
		EventCaptureDenied:         enums.PaymentStatusRejected,
		EventCaptureDeclined:       enums.PaymentStatusRejected,
		EventCheckoutOrderVoided:   enums.PaymentStatusCancelled,
		EventCaptureRefunded:       enums.PaymentStatusRefunded,
		EventCaptureReversed:       enums.PaymentStatusRefunded,
	}
	for eventType, want := range cases {
		got, handled := canonicalStatus(eventType)
		assert.True(t, handled, eventType)
		assert.Equal(t, want, got, eventType)
		assert.True(t, got.IsValid(), eventType)
	}
}

func TestCanonicalStatusUnknownEventUnhandled(t *testing.T) {
	_, handled := canonicalStatus("BILLING.PLAN.UPDATED")
	assert.False(t, handled)
}

func TestHandles(t *testing.T) {
	assert.True(t, Handles(EventCaptureCompleted))
	assert.False(t, Handles("BILLING.PLAN.UPDATED"))
}
