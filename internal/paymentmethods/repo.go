package paymentmethods

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/camilorueda/vitrina-backend/pkg/db/models"
	"github.com/camilorueda/vitrina-backend/pkg/enums"
	pkgerrors "github.com/camilorueda/vitrina-backend/pkg/errors"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a payment method config repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.PaymentMethodConfig, error) {
	var configs []models.PaymentMethodConfig
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("type ASC").
		Find(&configs).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing payment method configs")
	}
	return configs, nil
}

func (r *repository) FindByTenantAndType(ctx context.Context, tenantID uuid.UUID, methodType enums.PaymentMethodType) (*models.PaymentMethodConfig, error) {
	var config models.PaymentMethodConfig
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND type = ?", tenantID, methodType).
		First(&config).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment method config not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finding payment method config")
	}
	return &config, nil
}

// Upsert replaces the tenant's configuration for one method type. The
// (tenant_id, type) pair is unique so a second configure call updates the
// existing row instead of inserting a sibling.
func (r *repository) Upsert(ctx context.Context, config *models.PaymentMethodConfig) error {
	var existing models.PaymentMethodConfig
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND type = ?", config.TenantID, config.Type).
		First(&existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finding payment method config")
		}
		if config.ID == uuid.Nil {
			config.ID = uuid.New()
		}
		if err := r.db.WithContext(ctx).Create(config).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating payment method config")
		}
		return nil
	}

	existing.Enabled = config.Enabled
	existing.Config = config.Config
	if err := r.db.WithContext(ctx).Save(&existing).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating payment method config")
	}
	*config = existing
	return nil
}
