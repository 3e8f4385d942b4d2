package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/camilorueda/vitrina-backend/api/middleware"
	"github.com/camilorueda/vitrina-backend/api/responses"
	"github.com/camilorueda/vitrina-backend/api/validators"
	cartsvc "github.com/camilorueda/vitrina-backend/internal/cart"
	"github.com/camilorueda/vitrina-backend/internal/orders"
	"github.com/camilorueda/vitrina-backend/pkg/db/models"
	"github.com/camilorueda/vitrina-backend/pkg/enums"
	pkgerrors "github.com/camilorueda/vitrina-backend/pkg/errors"
	"github.com/camilorueda/vitrina-backend/pkg/logger"
)

// Checkout places an order from the submitted cart. Totals are recomputed
// server-side at placement; the client never supplies prices.
func Checkout(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		tenantID := middleware.TenantIDFromContext(r.Context())
		if tenantID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tenant id is required"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		provider, err := enums.ParsePaymentProvider(payload.Provider)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parse payment provider"))
			return
		}

		order, err := svc.PlaceOrder(r.Context(), orders.PlaceOrderInput{
			TenantID:          tenantID,
			Lines:             payload.toLineInputs(),
			Provider:          provider,
			CustomerEmail:     payload.CustomerEmail,
			ExternalReference: payload.ExternalReference,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newOrderResponse(order))
	}
}

type checkoutRequest struct {
	Lines             []quoteLineRequest `json:"lines" validate:"required,min=1,dive"`
	Provider          string             `json:"provider" validate:"required"`
	CustomerEmail     *string            `json:"customer_email,omitempty" validate:"omitempty,email"`
	ExternalReference *string            `json:"external_reference,omitempty"`
}

func (req checkoutRequest) toLineInputs() []cartsvc.LineInput {
	lines := make([]cartsvc.LineInput, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, cartsvc.LineInput{ProductID: line.ProductID, Qty: line.Qty})
	}
	return lines
}

type orderResponse struct {
	OrderID       uuid.UUID           `json:"order_id"`
	OrderNumber   int64               `json:"order_number"`
	SubtotalCents int64               `json:"subtotal_cents"`
	DiscountCents int64               `json:"discount_cents"`
	TaxCents      int64               `json:"tax_cents"`
	TotalCents    int64               `json:"total_cents"`
	Currency      string              `json:"currency"`
	IsPaid        bool                `json:"is_paid"`
	PaidAt        *time.Time          `json:"paid_at,omitempty"`
	CustomerEmail *string             `json:"customer_email,omitempty"`
	Items         []orderItemResponse `json:"items"`
	CreatedAt     time.Time           `json:"created_at"`
}

type orderItemResponse struct {
	LineItemID     uuid.UUID  `json:"line_item_id"`
	ProductID      *uuid.UUID `json:"product_id,omitempty"`
	Name           string     `json:"name"`
	Qty            int        `json:"qty"`
	UnitPriceCents int64      `json:"unit_price_cents"`
	DiscountCents  int64      `json:"discount_cents"`
	TotalCents     int64      `json:"total_cents"`
	DiscountName   *string    `json:"discount_name,omitempty"`
}

func newOrderResponse(order *models.Order) orderResponse {
	if order == nil {
		return orderResponse{}
	}
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			LineItemID:     item.ID,
			ProductID:      item.ProductID,
			Name:           item.Name,
			Qty:            item.Qty,
			UnitPriceCents: item.UnitPriceCents,
			DiscountCents:  item.DiscountCents,
			TotalCents:     item.TotalCents,
			DiscountName:   item.DiscountName,
		})
	}
	return orderResponse{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		SubtotalCents: order.SubtotalCents,
		DiscountCents: order.DiscountCents,
		TaxCents:      order.TaxCents,
		TotalCents:    order.TotalCents,
		Currency:      string(order.Currency),
		IsPaid:        order.IsPaid,
		PaidAt:        order.PaidAt,
		CustomerEmail: order.CustomerEmail,
		Items:         items,
		CreatedAt:     order.CreatedAt,
	}
}
