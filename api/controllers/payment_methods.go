package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/camilorueda/vitrina-backend/api/middleware"
	"github.com/camilorueda/vitrina-backend/api/responses"
	"github.com/camilorueda/vitrina-backend/api/validators"
	"github.com/camilorueda/vitrina-backend/internal/paymentmethods"
	"github.com/camilorueda/vitrina-backend/pkg/db/models"
	"github.com/camilorueda/vitrina-backend/pkg/enums"
	pkgerrors "github.com/camilorueda/vitrina-backend/pkg/errors"
	"github.com/camilorueda/vitrina-backend/pkg/logger"
	"github.com/camilorueda/vitrina-backend/pkg/types"
)

// ListPaymentMethods returns every payment method row configured for the
// tenant, enabled or not.
func ListPaymentMethods(svc paymentmethods.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment methods service unavailable"))
			return
		}

		tenantID := middleware.TenantIDFromContext(r.Context())
		if tenantID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tenant id is required"))
			return
		}

		configs, err := svc.List(r.Context(), tenantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]paymentMethodResponse, 0, len(configs))
		for i := range configs {
			items = append(items, newPaymentMethodResponse(&configs[i]))
		}
		responses.WriteSuccess(w, paymentMethodListResponse{Methods: items})
	}
}

// ConfigurePaymentMethod upserts one method toggle for the tenant. The
// method type comes from the URL so a key covers exactly one method.
func ConfigurePaymentMethod(svc paymentmethods.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment methods service unavailable"))
			return
		}

		tenantID := middleware.TenantIDFromContext(r.Context())
		if tenantID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tenant id is required"))
			return
		}

		methodType, err := enums.ParsePaymentMethodType(chi.URLParam(r, "methodType"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parse payment method type"))
			return
		}

		var payload configureMethodRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		config, err := svc.Configure(r.Context(), tenantID, paymentmethods.ConfigureInput{
			Type:    methodType,
			Enabled: payload.Enabled,
			Config:  payload.Config,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newPaymentMethodResponse(config))
	}
}

type configureMethodRequest struct {
	Enabled bool          `json:"enabled"`
	Config  types.JSONMap `json:"config,omitempty"`
}

type paymentMethodListResponse struct {
	Methods []paymentMethodResponse `json:"methods"`
}

type paymentMethodResponse struct {
	Type      string        `json:"type"`
	Enabled   bool          `json:"enabled"`
	Config    types.JSONMap `json:"config,omitempty"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func newPaymentMethodResponse(config *models.PaymentMethodConfig) paymentMethodResponse {
	if config == nil {
		return paymentMethodResponse{}
	}
	return paymentMethodResponse{
		Type:      string(config.Type),
		Enabled:   config.Enabled,
		Config:    config.Config,
		UpdatedAt: config.UpdatedAt,
	}
}
