package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/camilorueda/vitrina-backend/pkg/enums"
)

// Order is the settlement authority: IsPaid and PaidAt are overwritten by
// webhook processing, never incremented, so duplicate deliveries converge.
type Order struct {
	ID                    uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID              uuid.UUID       `gorm:"column:tenant_id;type:uuid;not null;index"`
	OrderNumber           int64           `gorm:"column:order_number;not null;default:0"`
	SubtotalCents         int64           `gorm:"column:subtotal_cents;not null"`
	DiscountCents         int64           `gorm:"column:discount_cents;not null;default:0"`
	TaxCents              int64           `gorm:"column:tax_cents;not null;default:0"`
	TotalCents            int64           `gorm:"column:total_cents;not null"`
	Currency              enums.Currency  `gorm:"column:currency;not null;default:'USD'"`
	CustomerEmail         *string         `gorm:"column:customer_email"`
	IsPaid                bool            `gorm:"column:is_paid;not null;default:false"`
	PaidAt                *time.Time      `gorm:"column:paid_at"`
	ExternalTransactionID *string         `gorm:"column:external_transaction_id;index"`
	Items                 []OrderLineItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt             time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
