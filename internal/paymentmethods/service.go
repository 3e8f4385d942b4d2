package paymentmethods

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/camilorueda/vitrina-backend/pkg/db/models"
	"github.com/camilorueda/vitrina-backend/pkg/enums"
	pkgerrors "github.com/camilorueda/vitrina-backend/pkg/errors"
	"github.com/camilorueda/vitrina-backend/pkg/types"
)

// Service manages which checkout methods a tenant exposes and gates every
// provider-driven mutation behind that configuration.
type Service interface {
	List(ctx context.Context, tenantID uuid.UUID) ([]models.PaymentMethodConfig, error)
	Configure(ctx context.Context, tenantID uuid.UUID, input ConfigureInput) (*models.PaymentMethodConfig, error)
	EnabledConfig(ctx context.Context, tenantID uuid.UUID, methodType enums.PaymentMethodType) (types.JSONMap, error)
}

// ConfigureInput captures one method toggle for a tenant.
type ConfigureInput struct {
	Type    enums.PaymentMethodType
	Enabled bool
	Config  types.JSONMap
}

type service struct {
	repo Repository
}

// NewService constructs a payment methods service.
func NewService(repo Repository) (*service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payment methods repo required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, tenantID uuid.UUID) ([]models.PaymentMethodConfig, error) {
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant id is required")
	}
	return s.repo.ListByTenant(ctx, tenantID)
}

func (s *service) Configure(ctx context.Context, tenantID uuid.UUID, input ConfigureInput) (*models.PaymentMethodConfig, error) {
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant id is required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method type")
	}

	config := &models.PaymentMethodConfig{
		TenantID: tenantID,
		Type:     input.Type,
		Enabled:  input.Enabled,
		Config:   input.Config,
	}
	if err := s.repo.Upsert(ctx, config); err != nil {
		return nil, err
	}
	return config, nil
}

// EnabledConfig returns the provider configuration for one tenant method.
// A missing row or a disabled row both mean the method is unavailable, so
// callers must not mutate order state on its behalf.
func (s *service) EnabledConfig(ctx context.Context, tenantID uuid.UUID, methodType enums.PaymentMethodType) (types.JSONMap, error) {
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant id is required")
	}
	config, err := s.repo.FindByTenantAndType(ctx, tenantID, methodType)
	if err != nil {
		if domainErr := pkgerrors.As(err); domainErr != nil && domainErr.Code() == pkgerrors.CodeNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeDependency, "payment method is not configured for tenant")
		}
		return nil, err
	}
	if !config.Enabled {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "payment method is disabled for tenant")
	}
	return config.Config, nil
}

// ConfigString extracts a trimmed string value from a method configuration.
func ConfigString(config types.JSONMap, key string) string {
	if config == nil {
		return ""
	}
	value, ok := config[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}
