package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderLineItem is a priced snapshot of a cart line at placement time.
type OrderLineItem struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID  `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      *uuid.UUID `gorm:"column:product_id;type:uuid"`
	Name           string     `gorm:"column:name;not null"`
	Qty            int        `gorm:"column:qty;not null"`
	UnitPriceCents int64      `gorm:"column:unit_price_cents;not null"`
	DiscountCents  int64      `gorm:"column:discount_cents;not null;default:0"`
	TotalCents     int64      `gorm:"column:total_cents;not null"`
	DiscountName   *string    `gorm:"column:discount_name"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
