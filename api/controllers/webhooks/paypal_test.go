package webhooks

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	webhookguard "github.com/camilorueda/vitrina-backend/internal/webhooks"
	paypalwebhook "github.com/camilorueda/vitrina-backend/internal/webhooks/paypal"
	"github.com/camilorueda/vitrina-backend/pkg/metrics"
)

func tenantRequest(tenantID string, body []byte) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/paypal/"+tenantID, bytes.NewReader(body))
	rc := chi.NewRouteContext()
	rc.URLParams.Add("tenantID", tenantID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func newPayPalGuard(t *testing.T) (*webhookguard.IdempotencyGuard, *inMemoryStore) {
	t.Helper()
	store := newInMemoryStore()
	guard, err := webhookguard.NewIdempotencyGuard(store, time.Minute, "paypal-webhook")
	if err != nil {
		t.Fatalf("guard setup: %v", err)
	}
	return guard, store
}

func TestPayPalWebhook_SuccessAndIdempotent(t *testing.T) {
	service := &fakePayPalWebhookService{}
	guard, _ := newPayPalGuard(t)
	handler := PayPalWebhook(service, guard, metrics.NewWebhookMetrics(nil), nil)

	tenantID := uuid.NewString()
	payload := []byte(`{"id":"WH-1","event_type":"PAYMENT.CAPTURE.COMPLETED","resource":{"id":"CAP-1","invoice_id":"` + uuid.NewString() + `"}}`)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, tenantRequest(tenantID, payload))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if service.calls != 1 {
		t.Fatalf("expected service called once, got %d", service.calls)
	}
	if service.lastTenant.String() != tenantID {
		t.Fatalf("expected tenant %s, got %s", tenantID, service.lastTenant)
	}

	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, tenantRequest(tenantID, payload))
	if rec2.Code != http.StatusOK {
		t.Fatalf("expected 200 on duplicate, got %d (%s)", rec2.Code, rec2.Body.String())
	}
	if service.calls != 1 {
		t.Fatalf("expected duplicate not processed, call count %d", service.calls)
	}
}

func TestPayPalWebhook_IgnoresUnhandledEventType(t *testing.T) {
	service := &fakePayPalWebhookService{}
	guard, store := newPayPalGuard(t)
	handler := PayPalWebhook(service, guard, metrics.NewWebhookMetrics(nil), nil)

	payload := []byte(`{"id":"WH-2","event_type":"BILLING.PLAN.UPDATED","resource":{}}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, tenantRequest(uuid.NewString(), payload))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for ignored event, got %d", rec.Code)
	}
	if service.calls != 0 {
		t.Fatalf("service should not run for ignored event types")
	}
	if store.len() != 0 {
		t.Fatalf("ignored events should not consume idempotency claims")
	}
}

func TestPayPalWebhook_FailureReleasesClaim(t *testing.T) {
	service := &fakePayPalWebhookService{err: fmt.Errorf("boom")}
	guard, _ := newPayPalGuard(t)
	handler := PayPalWebhook(service, guard, metrics.NewWebhookMetrics(nil), nil)

	tenantID := uuid.NewString()
	payload := []byte(`{"id":"WH-3","event_type":"PAYMENT.CAPTURE.COMPLETED","resource":{"id":"CAP-3"}}`)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, tenantRequest(tenantID, payload))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on handler failure, got %d", rec.Code)
	}

	// The retry must be processed, not swallowed as a duplicate.
	service.err = nil
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, tenantRequest(tenantID, payload))
	if rec2.Code != http.StatusOK {
		t.Fatalf("expected retry to succeed, got %d", rec2.Code)
	}
	if service.calls != 2 {
		t.Fatalf("expected two handler attempts, got %d", service.calls)
	}
}

func TestPayPalWebhook_RejectsMalformedPayload(t *testing.T) {
	service := &fakePayPalWebhookService{}
	guard, _ := newPayPalGuard(t)
	handler := PayPalWebhook(service, guard, metrics.NewWebhookMetrics(nil), nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, tenantRequest(uuid.NewString(), []byte(`{"id":`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed payload, got %d", rec.Code)
	}
	if service.calls != 0 {
		t.Fatalf("service should not run on malformed payload")
	}
}

func TestPayPalWebhook_RejectsInvalidTenant(t *testing.T) {
	service := &fakePayPalWebhookService{}
	guard, _ := newPayPalGuard(t)
	handler := PayPalWebhook(service, guard, metrics.NewWebhookMetrics(nil), nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, tenantRequest("not-a-uuid", []byte(`{"id":"WH-4","event_type":"PAYMENT.CAPTURE.COMPLETED","resource":{}}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid tenant id, got %d", rec.Code)
	}
	if service.calls != 0 {
		t.Fatalf("service should not run without a valid tenant")
	}
}

type fakePayPalWebhookService struct {
	calls      int
	err        error
	lastTenant uuid.UUID
	lastEvent  *paypalwebhook.Event
}

func (f *fakePayPalWebhookService) HandleEvent(ctx context.Context, tenantID uuid.UUID, event *paypalwebhook.Event) error {
	f.calls++
	f.lastTenant = tenantID
	f.lastEvent = event
	return f.err
}

type inMemoryStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newInMemoryStore() *inMemoryStore {
	return &inMemoryStore{
		data: make(map[string]string),
	}
}

func (s *inMemoryStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

func (s *inMemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[key], nil
}

func (s *inMemoryStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data[key]; exists {
		return false, nil
	}
	s.data[key] = fmt.Sprintf("%v", value)
	return true, nil
}

func (s *inMemoryStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("vt:idempotency:%s:%s", scope, id)
}

func (s *inMemoryStore) Del(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}
