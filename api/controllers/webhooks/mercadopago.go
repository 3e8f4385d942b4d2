package webhooks

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/camilorueda/vitrina-backend/api/responses"
	mercadopagowebhook "github.com/camilorueda/vitrina-backend/internal/webhooks/mercadopago"
	pkgerrors "github.com/camilorueda/vitrina-backend/pkg/errors"
	"github.com/camilorueda/vitrina-backend/pkg/logger"
	"github.com/camilorueda/vitrina-backend/pkg/metrics"
)

const providerLabelMercadoPago = "mercadopago"

type mercadopagoWebhookGuard interface {
	CheckAndMark(ctx context.Context, eventID string) (bool, error)
	Delete(ctx context.Context, eventID string) error
}

// MercadoPagoWebhook ingests MercadoPago payment notifications for the
// tenant named in the URL. Non-payment topics are acknowledged untouched.
func MercadoPagoWebhook(svc mercadopagowebhook.Service, guard mercadopagoWebhookGuard, wm *metrics.WebhookMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		start := time.Now()
		defer func() {
			if wm != nil {
				wm.ObserveDuration(providerLabelMercadoPago, time.Since(start))
			}
		}()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook service unavailable"))
			return
		}
		if guard == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "idempotency guard unavailable"))
			return
		}

		tenantID, err := uuid.Parse(chi.URLParam(r, "tenantID"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parse tenant id"))
			return
		}

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request body"))
			return
		}

		var notification mercadopagowebhook.Notification
		if err := json.Unmarshal(payload, &notification); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode webhook payload"))
			return
		}

		if notification.Type != "" && notification.Type != "payment" {
			if wm != nil {
				wm.IncIgnored(providerLabelMercadoPago, notification.Type)
			}
			responses.WriteSuccess(w, nil)
			return
		}
		if notification.Data.ID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "notification data id missing"))
			return
		}

		eventID := notification.EventID()
		alreadyProcessed, err := guard.CheckAndMark(ctx, eventID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
			return
		}
		if alreadyProcessed {
			responses.WriteSuccess(w, nil)
			return
		}

		if err := svc.HandleNotification(ctx, tenantID, &notification); err != nil {
			_ = guard.Delete(ctx, eventID)
			if wm != nil {
				wm.IncFailed(providerLabelMercadoPago)
			}
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if wm != nil {
			wm.IncProcessed(providerLabelMercadoPago, notification.Action)
		}
		if logg != nil {
			logg.Info(ctx, "mercadopago notification "+eventID+" processed")
		}
		responses.WriteSuccess(w, nil)
	}
}
