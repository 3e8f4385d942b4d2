package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/camilorueda/vitrina-backend/pkg/db/models"
)

// ProductRepository defines the catalog reads the quote path needs.
type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository
	FindActiveByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]models.Product, error)
}
