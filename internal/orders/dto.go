package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/camilorueda/vitrina-backend/internal/cart"
	"github.com/camilorueda/vitrina-backend/internal/payments"
	"github.com/camilorueda/vitrina-backend/pkg/db/models"
	"github.com/camilorueda/vitrina-backend/pkg/enums"
)

// PlaceOrderInput captures a checkout request. Pricing is recomputed
// server-side; client-supplied totals are never trusted.
type PlaceOrderInput struct {
	TenantID          uuid.UUID
	Lines             []cart.LineInput
	Provider          enums.PaymentProvider
	CustomerEmail     *string
	ExternalReference *string
}

// SettleInput is the atomic settlement unit: the paid flip and the payment
// upsert land in one transaction.
type SettleInput struct {
	OrderID uuid.UUID
	Paid    bool
	PaidAt  *time.Time
	// PaymentOnly upserts the payment row without touching the order's
	// paid state. Non-terminal provider statuses must never un-pay an
	// order a terminal event already settled.
	PaymentOnly bool
	Payment     payments.UpsertParams
}

// OrderList is a cursor page of orders.
type OrderList struct {
	Orders     []models.Order
	NextCursor string
}
