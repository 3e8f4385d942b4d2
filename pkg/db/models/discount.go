package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/camilorueda/vitrina-backend/pkg/enums"
	"github.com/camilorueda/vitrina-backend/pkg/types"
)

// Discount is a tenant-defined promotional rule. Value is a tagged union
// keyed by Type; Targets and Conditions gate which cart lines it applies to.
type Discount struct {
	ID         uuid.UUID                 `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID   uuid.UUID                 `gorm:"column:tenant_id;type:uuid;not null;index"`
	Name       string                    `gorm:"column:name;not null"`
	Type       enums.DiscountType        `gorm:"column:type;not null"`
	Value      types.DiscountValue       `gorm:"column:value;type:jsonb;serializer:json;not null"`
	Targets    []types.DiscountTarget    `gorm:"column:targets;type:jsonb;serializer:json"`
	Conditions []types.DiscountCondition `gorm:"column:conditions;type:jsonb;serializer:json"`
	IsActive   bool                      `gorm:"column:is_active;not null"`
	Combinable bool                      `gorm:"column:combinable;not null;default:false"`
	Priority   int                       `gorm:"column:priority;not null;default:0"`
	StartsAt   *time.Time                `gorm:"column:starts_at"`
	EndsAt     *time.Time                `gorm:"column:ends_at"`
	CreatedAt  time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}
