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
	cartsvc "github.com/camilorueda/vitrina-backend/internal/cart"
	"github.com/camilorueda/vitrina-backend/pkg/enums"
	pkgerrors "github.com/camilorueda/vitrina-backend/pkg/errors"
)

type stubCartService struct {
	summary *cartsvc.QuoteSummary
	err     error
	input   cartsvc.QuoteInput
}

func (s *stubCartService) Quote(ctx context.Context, input cartsvc.QuoteInput) (*cartsvc.QuoteSummary, error) {
	s.input = input
	return s.summary, s.err
}

func TestQuoteCartSuccess(t *testing.T) {
	tenantID := uuid.New()
	productID := uuid.New()
	svc := &stubCartService{summary: &cartsvc.QuoteSummary{
		ItemCount:     2,
		SubtotalCents: 4000,
		DiscountCents: 400,
		TaxCents:      378,
		TotalCents:    3978,
		Currency:      enums.CurrencyUSD,
		Lines: []cartsvc.QuotedLine{
			{ProductID: productID, Name: "Mate Gourd", Qty: 2, UnitPriceCents: 2000, DiscountCents: 400, LineTotalCents: 3600},
		},
	}}
	handler := QuoteCart(svc, nil)

	body := `{"lines":[{"product_id":"` + productID.String() + `","qty":2}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/quote", strings.NewReader(body))
	req = req.WithContext(middleware.WithTenantID(req.Context(), tenantID))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", resp.Code, resp.Body.String())
	}
	if svc.input.TenantID != tenantID {
		t.Fatalf("expected tenant %s got %s", tenantID, svc.input.TenantID)
	}
	if len(svc.input.Lines) != 1 || svc.input.Lines[0].Qty != 2 {
		t.Fatalf("unexpected quote input: %+v", svc.input)
	}

	var envelope struct {
		Data quoteResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.TotalCents != 3978 {
		t.Fatalf("unexpected total: %d", envelope.Data.TotalCents)
	}
	if envelope.Data.Currency != "USD" {
		t.Fatalf("unexpected currency: %s", envelope.Data.Currency)
	}
}

func TestQuoteCartMissingTenant(t *testing.T) {
	handler := QuoteCart(&stubCartService{}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/quote", strings.NewReader(`{"lines":[{"product_id":"`+uuid.NewString()+`","qty":1}]}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestQuoteCartRejectsEmptyLines(t *testing.T) {
	handler := QuoteCart(&stubCartService{}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/quote", strings.NewReader(`{"lines":[]}`))
	req = req.WithContext(middleware.WithTenantID(req.Context(), uuid.New()))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestQuoteCartUnknownProduct(t *testing.T) {
	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	handler := QuoteCart(svc, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/quote", strings.NewReader(`{"lines":[{"product_id":"`+uuid.NewString()+`","qty":1}]}`))
	req = req.WithContext(middleware.WithTenantID(req.Context(), uuid.New()))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
