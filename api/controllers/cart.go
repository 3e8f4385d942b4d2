package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/camilorueda/vitrina-backend/api/middleware"
	"github.com/camilorueda/vitrina-backend/api/responses"
	"github.com/camilorueda/vitrina-backend/api/validators"
	cartsvc "github.com/camilorueda/vitrina-backend/internal/cart"
	pkgerrors "github.com/camilorueda/vitrina-backend/pkg/errors"
	"github.com/camilorueda/vitrina-backend/pkg/logger"
)

// QuoteCart prices the submitted cart for the tenant. It is a pure read:
// nothing is reserved or persisted, so clients can call it on every render.
func QuoteCart(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		tenantID := middleware.TenantIDFromContext(r.Context())
		if tenantID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tenant id is required"))
			return
		}

		var payload quoteCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Quote(r.Context(), cartsvc.QuoteInput{
			TenantID: tenantID,
			Lines:    payload.toLineInputs(),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newQuoteResponse(summary))
	}
}

type quoteCartRequest struct {
	Lines []quoteLineRequest `json:"lines" validate:"required,min=1,dive"`
}

type quoteLineRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Qty       int       `json:"qty" validate:"required,gt=0"`
}

func (req quoteCartRequest) toLineInputs() []cartsvc.LineInput {
	lines := make([]cartsvc.LineInput, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, cartsvc.LineInput{ProductID: line.ProductID, Qty: line.Qty})
	}
	return lines
}

type quoteResponse struct {
	ItemCount     int                 `json:"item_count"`
	SubtotalCents int64               `json:"subtotal_cents"`
	DiscountCents int64               `json:"discount_cents"`
	TaxCents      int64               `json:"tax_cents"`
	TotalCents    int64               `json:"total_cents"`
	Currency      string              `json:"currency"`
	Lines         []quoteLineResponse `json:"lines"`
}

type quoteLineResponse struct {
	ProductID      uuid.UUID `json:"product_id"`
	Name           string    `json:"name"`
	Qty            int       `json:"qty"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	DiscountCents  int64     `json:"discount_cents"`
	LineTotalCents int64     `json:"line_total_cents"`
	DiscountName   *string   `json:"discount_name,omitempty"`
	BadgeText      *string   `json:"badge_text,omitempty"`
}

func newQuoteResponse(summary *cartsvc.QuoteSummary) quoteResponse {
	if summary == nil {
		return quoteResponse{}
	}
	lines := make([]quoteLineResponse, 0, len(summary.Lines))
	for _, line := range summary.Lines {
		lines = append(lines, quoteLineResponse{
			ProductID:      line.ProductID,
			Name:           line.Name,
			Qty:            line.Qty,
			UnitPriceCents: line.UnitPriceCents,
			DiscountCents:  line.DiscountCents,
			LineTotalCents: line.LineTotalCents,
			DiscountName:   line.DiscountName,
			BadgeText:      line.BadgeText,
		})
	}
	return quoteResponse{
		ItemCount:     summary.ItemCount,
		SubtotalCents: summary.SubtotalCents,
		DiscountCents: summary.DiscountCents,
		TaxCents:      summary.TaxCents,
		TotalCents:    summary.TotalCents,
		Currency:      string(summary.Currency),
		Lines:         lines,
	}
}
