package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/camilorueda/vitrina-backend/pkg/enums"
)

// Tenant represents an isolated storefront owning its own catalog,
// discounts, orders and payment configuration.
type Tenant struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string         `gorm:"column:name;not null"`
	Slug         string         `gorm:"column:slug;not null;uniqueIndex"`
	ContactEmail *string        `gorm:"column:contact_email"`
	Currency     enums.Currency `gorm:"column:currency;not null;default:'USD'"`
	IsActive     bool           `gorm:"column:is_active;not null"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
