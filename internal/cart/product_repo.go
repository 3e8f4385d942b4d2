package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/camilorueda/vitrina-backend/pkg/db/models"
	pkgerrors "github.com/camilorueda/vitrina-backend/pkg/errors"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository builds the catalog reader bound to the provided DB.
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &productRepository{db: tx}
}

func (r *productRepository) FindActiveByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND is_active = ? AND id IN ?", tenantID, true, ids).
		Find(&products).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading products")
	}
	return products, nil
}
