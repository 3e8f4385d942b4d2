package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/camilorueda/vitrina-backend/pkg/db/models"
	"github.com/camilorueda/vitrina-backend/pkg/pagination"
)

// Repository defines the persistence surface for orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByExternalTransactionID(ctx context.Context, externalID string) (*models.Order, error)
	SetExternalTransactionID(ctx context.Context, orderID uuid.UUID, externalID string) error
	SetPaid(ctx context.Context, orderID uuid.UUID, paid bool, paidAt *time.Time) error
	ListByTenant(ctx context.Context, tenantID uuid.UUID, params pagination.Params) ([]models.Order, *pagination.Cursor, error)
}
