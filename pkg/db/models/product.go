package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/camilorueda/vitrina-backend/pkg/types"
)

// Product is a catalog listing priced in cents.
type Product struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID   uuid.UUID         `gorm:"column:tenant_id;type:uuid;not null;index"`
	SKU        string            `gorm:"column:sku;not null"`
	Name       string            `gorm:"column:name;not null"`
	CategoryID *uuid.UUID        `gorm:"column:category_id;type:uuid"`
	Tags       types.StringSlice `gorm:"column:tags;type:jsonb;serializer:json"`
	PriceCents int64             `gorm:"column:price_cents;not null"`
	IsActive   bool              `gorm:"column:is_active;not null"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
