package mercadopagowebhook

import (
	"github.com/camilorueda/vitrina-backend/pkg/enums"
)

// canonicalStatus maps a MercadoPago payment status onto the
// provider-independent status. Unknown values degrade to pending so a
// provider vocabulary change never settles an order by accident; the
// second return flags that case for logging.
func canonicalStatus(providerStatus string) (enums.PaymentStatus, bool) {
	switch providerStatus {
	case "approved":
		return enums.PaymentStatusApproved, true
	case "pending", "in_process", "in_mediation", "authorized":
		return enums.PaymentStatusPending, true
	case "rejected":
		return enums.PaymentStatusRejected, true
	case "cancelled":
		return enums.PaymentStatusCancelled, true
	case "refunded", "charged_back":
		return enums.PaymentStatusRefunded, true
	default:
		return enums.PaymentStatusPending, false
	}
}
