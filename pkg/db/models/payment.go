package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/camilorueda/vitrina-backend/pkg/enums"
	"github.com/camilorueda/vitrina-backend/pkg/types"
)

// Payment is one provider-side payment attempt for an order. An order may
// accumulate several rows over retries and reversals; the most recent by
// creation time is the current one. ProviderPaymentID may hold a local
// pending placeholder until the provider reports its own id.
type Payment struct {
	ID                uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID           uuid.UUID             `gorm:"column:order_id;type:uuid;not null;index"`
	TenantID          uuid.UUID             `gorm:"column:tenant_id;type:uuid;not null;index"`
	Provider          enums.PaymentProvider `gorm:"column:provider;not null"`
	ProviderPaymentID string                `gorm:"column:provider_payment_id;not null;uniqueIndex"`
	AmountCents       int64                 `gorm:"column:amount_cents;not null"`
	Currency          enums.Currency        `gorm:"column:currency;not null;default:'USD'"`
	Status            enums.PaymentStatus   `gorm:"column:status;not null;default:'pending'"`
	StatusDetail      *string               `gorm:"column:status_detail"`
	ExternalReference *string               `gorm:"column:external_reference"`
	Metadata          types.JSONMap         `gorm:"column:metadata;type:jsonb;serializer:json"`
	CreatedAt         time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
