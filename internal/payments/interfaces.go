package payments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/camilorueda/vitrina-backend/pkg/db/models"
	"github.com/camilorueda/vitrina-backend/pkg/enums"
	"github.com/camilorueda/vitrina-backend/pkg/types"
)

// UpsertParams carries everything a webhook delivery knows about a payment.
type UpsertParams struct {
	OrderID           uuid.UUID
	TenantID          uuid.UUID
	Provider          enums.PaymentProvider
	ProviderPaymentID string
	AmountCents       int64
	Currency          enums.Currency
	Status            enums.PaymentStatus
	StatusDetail      *string
	ExternalReference *string
	Metadata          types.JSONMap
}

// UpdateParams merges mutable fields into an existing payment row.
type UpdateParams struct {
	Status            enums.PaymentStatus
	StatusDetail      *string
	ProviderPaymentID *string
	Metadata          types.JSONMap
}

// OrderView is the slice of the parent order returned with provider-id
// lookups, enough for downstream authorization and amount checks.
type OrderView struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	TotalCents int64
}

// PaymentWithOrder pairs a payment with its parent order view.
type PaymentWithOrder struct {
	Payment models.Payment
	Order   OrderView
}

// Repository is the payment record store. All lookups are tenant-scoped
// through the order relationship; rows are never deleted.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	FindByProviderPaymentID(ctx context.Context, providerPaymentID string) (*PaymentWithOrder, error)
	FindLatestByOrder(ctx context.Context, orderID uuid.UUID) (*models.Payment, error)
	Update(ctx context.Context, paymentID uuid.UUID, params UpdateParams) (*models.Payment, error)
	Upsert(ctx context.Context, params UpsertParams) (*models.Payment, error)
	CreatePendingForOrder(ctx context.Context, orderID, tenantID uuid.UUID, provider enums.PaymentProvider, amountCents int64, currency enums.Currency, externalReference *string) (*models.Payment, error)
}
