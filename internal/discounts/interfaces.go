package discounts

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/camilorueda/vitrina-backend/pkg/db/models"
)

// Repository exposes rule reads for the resolution path.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListActiveByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Discount, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Discount, error)
	Create(ctx context.Context, discount *models.Discount) (*models.Discount, error)
}
