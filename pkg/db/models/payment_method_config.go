package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/camilorueda/vitrina-backend/pkg/enums"
	"github.com/camilorueda/vitrina-backend/pkg/types"
)

// PaymentMethodConfig enables a checkout method for one tenant. Config holds
// provider credentials and options; a disabled or missing row means the
// method is unavailable for that tenant.
type PaymentMethodConfig struct {
	ID        uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID  uuid.UUID               `gorm:"column:tenant_id;type:uuid;not null;uniqueIndex:idx_payment_method_tenant_type"`
	Type      enums.PaymentMethodType `gorm:"column:type;not null;uniqueIndex:idx_payment_method_tenant_type"`
	Enabled   bool                    `gorm:"column:enabled;not null;default:false"`
	Config    types.JSONMap           `gorm:"column:config;type:jsonb;serializer:json"`
	CreatedAt time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
