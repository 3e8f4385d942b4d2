package paypalwebhook

import (
	"github.com/camilorueda/vitrina-backend/pkg/enums"
)

// Event types the ingestion path reacts to. Anything else is acknowledged
// without touching order state.
const (
	EventCheckoutOrderApproved = "CHECKOUT.ORDER.APPROVED"
	EventCheckoutOrderVoided   = "CHECKOUT.ORDER.VOIDED"
	EventCaptureCompleted      = "PAYMENT.CAPTURE.COMPLETED"
	EventCapturePending        = "PAYMENT.CAPTURE.PENDING"
	EventCaptureDenied         = "PAYMENT.CAPTURE.DENIED"
	EventCaptureDeclined       = "PAYMENT.CAPTURE.DECLINED"
	EventCaptureRefunded       = "PAYMENT.CAPTURE.REFUNDED"
	EventCaptureReversed       = "PAYMENT.CAPTURE.REVERSED"
)

// Handles reports whether the event type participates in settlement.
func Handles(eventType string) bool {
	_, ok := canonicalStatus(eventType)
	return ok
}

// canonicalStatus maps a webhook event type onto the provider-independent
// payment status. The second return is false for event types outside the
// settlement flow.
func canonicalStatus(eventType string) (enums.PaymentStatus, bool) {
	switch eventType {
	case EventCheckoutOrderApproved, EventCaptureCompleted:
		return enums.PaymentStatusApproved, true
	case EventCapturePending:
		return enums.PaymentStatusPending, true
	case EventCaptureDenied, EventCaptureDeclined:
		return enums.PaymentStatusRejected, true
	case EventCheckoutOrderVoided:
		return enums.PaymentStatusCancelled, true
	case EventCaptureRefunded, EventCaptureReversed:
		return enums.PaymentStatusRefunded, true
	default:
		return "", false
	}
}
