package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/camilorueda/vitrina-backend/api/middleware"
	"github.com/camilorueda/vitrina-backend/internal/orders"
	"github.com/camilorueda/vitrina-backend/pkg/db/models"
	"github.com/camilorueda/vitrina-backend/pkg/enums"
	pkgerrors "github.com/camilorueda/vitrina-backend/pkg/errors"
	"github.com/camilorueda/vitrina-backend/pkg/pagination"
)

type stubOrdersService struct {
	order      *models.Order
	list       *orders.OrderList
	err        error
	placed     *orders.PlaceOrderInput
	listParams pagination.Params
}

func (s *stubOrdersService) PlaceOrder(ctx context.Context, input orders.PlaceOrderInput) (*models.Order, error) {
	s.placed = &input
	return s.order, s.err
}

func (s *stubOrdersService) GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*models.Order, error) {
	return s.order, s.err
}

func (s *stubOrdersService) List(ctx context.Context, tenantID uuid.UUID, params pagination.Params) (*orders.OrderList, error) {
	s.listParams = params
	return s.list, s.err
}

func (s *stubOrdersService) Settle(ctx context.Context, input orders.SettleInput) error {
	return s.err
}

func TestCheckoutSuccess(t *testing.T) {
	tenantID := uuid.New()
	productID := uuid.New()
	order := &models.Order{
		ID:            uuid.New(),
		TenantID:      tenantID,
		OrderNumber:   1042,
		SubtotalCents: 4000,
		DiscountCents: 400,
		TaxCents:      378,
		TotalCents:    3978,
		Currency:      enums.CurrencyUSD,
		Items: []models.OrderLineItem{
			{ID: uuid.New(), ProductID: &productID, Name: "Mate Gourd", Qty: 2, UnitPriceCents: 2000, DiscountCents: 400, TotalCents: 3600},
		},
	}
	svc := &stubOrdersService{order: order}
	handler := Checkout(svc, nil)

	body := `{"lines":[{"product_id":"` + productID.String() + `","qty":2}],"provider":"paypal","customer_email":"buyer@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	req = req.WithContext(middleware.WithTenantID(req.Context(), tenantID))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d (%s)", resp.Code, resp.Body.String())
	}
	if svc.placed == nil {
		t.Fatalf("expected PlaceOrder to be called")
	}
	if svc.placed.TenantID != tenantID {
		t.Fatalf("expected tenant %s got %s", tenantID, svc.placed.TenantID)
	}
	if svc.placed.Provider != enums.PaymentProviderPayPal {
		t.Fatalf("expected paypal provider got %s", svc.placed.Provider)
	}
	if svc.placed.CustomerEmail == nil || *svc.placed.CustomerEmail != "buyer@example.com" {
		t.Fatalf("expected customer email to pass through")
	}

	var envelope struct {
		Data orderResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.OrderID != order.ID {
		t.Fatalf("unexpected order id: %s", envelope.Data.OrderID)
	}
	if len(envelope.Data.Items) != 1 {
		t.Fatalf("expected 1 item got %d", len(envelope.Data.Items))
	}
}

func TestCheckoutRejectsUnknownProvider(t *testing.T) {
	svc := &stubOrdersService{}
	handler := Checkout(svc, nil)

	body := `{"lines":[{"product_id":"` + uuid.NewString() + `","qty":1}],"provider":"cash_on_delivery"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	req = req.WithContext(middleware.WithTenantID(req.Context(), uuid.New()))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if svc.placed != nil {
		t.Fatalf("PlaceOrder should not run with an unknown provider")
	}
}

func TestCheckoutMissingTenant(t *testing.T) {
	handler := Checkout(&stubOrdersService{}, nil)
	body := `{"lines":[{"product_id":"` + uuid.NewString() + `","qty":1}],"provider":"paypal"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCheckoutPricingFailurePropagates(t *testing.T) {
	svc := &stubOrdersService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	handler := Checkout(svc, nil)

	body := `{"lines":[{"product_id":"` + uuid.NewString() + `","qty":1}],"provider":"mercadopago"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	req = req.WithContext(middleware.WithTenantID(req.Context(), uuid.New()))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
