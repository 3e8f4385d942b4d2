package paymentmethods

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/camilorueda/vitrina-backend/pkg/db/models"
	"github.com/camilorueda/vitrina-backend/pkg/enums"
)

// Repository persists per-tenant payment method configuration.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.PaymentMethodConfig, error)
	FindByTenantAndType(ctx context.Context, tenantID uuid.UUID, methodType enums.PaymentMethodType) (*models.PaymentMethodConfig, error)
	Upsert(ctx context.Context, config *models.PaymentMethodConfig) error
}
