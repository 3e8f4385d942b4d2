package notifications

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/camilorueda/vitrina-backend/pkg/db/models"
	pkgerrors "github.com/camilorueda/vitrina-backend/pkg/errors"
)

type tenantRepository struct {
	db *gorm.DB
}

// NewTenantReader builds the tenant contact lookup used by the dispatcher.
func NewTenantReader(db *gorm.DB) TenantReader {
	return &tenantRepository{db: db}
}

func (r *tenantRepository) ContactEmail(ctx context.Context, tenantID uuid.UUID) (string, error) {
	var tenant models.Tenant
	err := r.db.WithContext(ctx).
		Select("contact_email").
		Where("id = ?", tenantID).
		First(&tenant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgerrors.New(pkgerrors.CodeNotFound, "tenant not found")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading tenant contact")
	}
	if tenant.ContactEmail == nil {
		return "", nil
	}
	return strings.TrimSpace(*tenant.ContactEmail), nil
}
