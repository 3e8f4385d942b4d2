package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/camilorueda/vitrina-backend/api/middleware"
	"github.com/camilorueda/vitrina-backend/internal/paymentmethods"
	"github.com/camilorueda/vitrina-backend/pkg/db/models"
	"github.com/camilorueda/vitrina-backend/pkg/enums"
	"github.com/camilorueda/vitrina-backend/pkg/types"
)

type stubMethodsService struct {
	configs    []models.PaymentMethodConfig
	configured *models.PaymentMethodConfig
	err        error
	input      paymentmethods.ConfigureInput
}

func (s *stubMethodsService) List(ctx context.Context, tenantID uuid.UUID) ([]models.PaymentMethodConfig, error) {
	return s.configs, s.err
}

func (s *stubMethodsService) Configure(ctx context.Context, tenantID uuid.UUID, input paymentmethods.ConfigureInput) (*models.PaymentMethodConfig, error) {
	s.input = input
	return s.configured, s.err
}

func (s *stubMethodsService) EnabledConfig(ctx context.Context, tenantID uuid.UUID, methodType enums.PaymentMethodType) (types.JSONMap, error) {
	return nil, s.err
}

func TestListPaymentMethodsSuccess(t *testing.T) {
	tenantID := uuid.New()
	svc := &stubMethodsService{configs: []models.PaymentMethodConfig{
		{TenantID: tenantID, Type: enums.PaymentMethodTypePayPal, Enabled: true},
		{TenantID: tenantID, Type: enums.PaymentMethodTypeBankTransfer, Enabled: false},
	}}
	handler := ListPaymentMethods(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payment-methods", nil)
	req = req.WithContext(middleware.WithTenantID(req.Context(), tenantID))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data paymentMethodListResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Methods) != 2 {
		t.Fatalf("expected 2 methods got %d", len(envelope.Data.Methods))
	}
	if envelope.Data.Methods[0].Type != "paypal" || !envelope.Data.Methods[0].Enabled {
		t.Fatalf("unexpected first method: %+v", envelope.Data.Methods[0])
	}
}

func TestConfigurePaymentMethodSuccess(t *testing.T) {
	tenantID := uuid.New()
	svc := &stubMethodsService{configured: &models.PaymentMethodConfig{
		TenantID: tenantID,
		Type:     enums.PaymentMethodTypeMercadoPago,
		Enabled:  true,
		Config:   types.JSONMap{"access_token": "mp-token"},
	}}
	handler := ConfigurePaymentMethod(svc, nil)

	body := `{"enabled":true,"config":{"access_token":"mp-token"}}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/payment-methods/mercadopago", strings.NewReader(body))
	rc := chi.NewRouteContext()
	rc.URLParams.Add("methodType", "mercadopago")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
	req = req.WithContext(middleware.WithTenantID(req.Context(), tenantID))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", resp.Code, resp.Body.String())
	}
	if svc.input.Type != enums.PaymentMethodTypeMercadoPago || !svc.input.Enabled {
		t.Fatalf("unexpected configure input: %+v", svc.input)
	}
	if svc.input.Config["access_token"] != "mp-token" {
		t.Fatalf("expected config to pass through")
	}
}

func TestConfigurePaymentMethodRejectsUnknownType(t *testing.T) {
	svc := &stubMethodsService{}
	handler := ConfigurePaymentMethod(svc, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/payment-methods/carrier_pigeon", strings.NewReader(`{"enabled":true}`))
	rc := chi.NewRouteContext()
	rc.URLParams.Add("methodType", "carrier_pigeon")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
	req = req.WithContext(middleware.WithTenantID(req.Context(), uuid.New()))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestConfigurePaymentMethodMissingTenant(t *testing.T) {
	handler := ConfigurePaymentMethod(&stubMethodsService{}, nil)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/payment-methods/paypal", strings.NewReader(`{"enabled":true}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
