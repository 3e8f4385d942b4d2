package discounts

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/camilorueda/vitrina-backend/pkg/db/models"
	pkgerrors "github.com/camilorueda/vitrina-backend/pkg/errors"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a discounts repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// ListActiveByTenant returns the tenant's enabled rules. Window bounds are
// enforced by the resolver so a cached list stays correct as time passes.
func (r *repository) ListActiveByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Discount, error) {
	var rules []models.Discount
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Order("priority DESC, created_at ASC").
		Find(&rules).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing discounts")
	}
	return rules, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Discount, error) {
	var rule models.Discount
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "discount not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finding discount")
	}
	return &rule, nil
}

func (r *repository) Create(ctx context.Context, discount *models.Discount) (*models.Discount, error) {
	if discount.ID == uuid.Nil {
		discount.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(discount).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating discount")
	}
	return discount, nil
}
