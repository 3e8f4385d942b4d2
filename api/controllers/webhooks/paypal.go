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
	paypalwebhook "github.com/camilorueda/vitrina-backend/internal/webhooks/paypal"
	pkgerrors "github.com/camilorueda/vitrina-backend/pkg/errors"
	"github.com/camilorueda/vitrina-backend/pkg/logger"
	"github.com/camilorueda/vitrina-backend/pkg/metrics"
)

const providerLabelPayPal = "paypal"

type paypalWebhookGuard interface {
	CheckAndMark(ctx context.Context, eventID string) (bool, error)
	Delete(ctx context.Context, eventID string) error
}

// PayPalWebhook ingests PayPal event deliveries for the tenant named in the
// URL. A duplicate delivery is acknowledged without reprocessing; a handler
// failure releases the idempotency claim so the provider's retry can land.
func PayPalWebhook(svc paypalwebhook.Service, guard paypalWebhookGuard, wm *metrics.WebhookMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		start := time.Now()
		defer func() {
			if wm != nil {
				wm.ObserveDuration(providerLabelPayPal, time.Since(start))
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

		var event paypalwebhook.Event
		if err := json.Unmarshal(payload, &event); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode webhook payload"))
			return
		}
		if event.ID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "webhook event id missing"))
			return
		}

		if !paypalwebhook.Handles(event.EventType) {
			if wm != nil {
				wm.IncIgnored(providerLabelPayPal, event.EventType)
			}
			responses.WriteSuccess(w, nil)
			return
		}

		alreadyProcessed, err := guard.CheckAndMark(ctx, event.ID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
			return
		}
		if alreadyProcessed {
			responses.WriteSuccess(w, nil)
			return
		}

		if err := svc.HandleEvent(ctx, tenantID, &event); err != nil {
			_ = guard.Delete(ctx, event.ID)
			if wm != nil {
				wm.IncFailed(providerLabelPayPal)
			}
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if wm != nil {
			wm.IncProcessed(providerLabelPayPal, event.EventType)
		}
		if logg != nil {
			logg.Info(ctx, "paypal event "+event.ID+" processed")
		}
		responses.WriteSuccess(w, nil)
	}
}
