package paypal

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camilorueda/vitrina-backend/pkg/config"
	pkgerrors "github.com/camilorueda/vitrina-backend/pkg/errors"
	"github.com/camilorueda/vitrina-backend/pkg/logger"
)

func newTestLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(config.PayPalConfig{BaseURL: srv.URL, HTTPTimeout: 5 * time.Second}, newTestLogger())
	require.NoError(t, err)
	return client, srv
}

func TestTokenExchangeAndCaching(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/v1/oauth2/token", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "client-id", user)
		assert.Equal(t, "client-secret", pass)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-123","token_type":"Bearer","expires_in":3600}`))
	}))

	creds := Credentials{ClientID: "client-id", ClientSecret: "client-secret"}

	token, err := client.Token(context.Background(), creds)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)

	// Second call inside the expiry window uses the cache.
	token, err = client.Token(context.Background(), creds)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
	assert.Equal(t, 1, calls)
}

func TestTokenExchangeRejectsMissingCredentials(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))

	_, err := client.Token(context.Background(), Credentials{})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestTokenExchangeUpstreamFailure(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_client"}`, http.StatusUnauthorized)
	}))

	_, err := client.Token(context.Background(), Credentials{ClientID: "id", ClientSecret: "bad"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestGetOrder(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/checkout/orders/5O190127TN364715T", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "5O190127TN364715T",
			"status": "APPROVED",
			"purchase_units": [{"reference_id": "default", "invoice_id": "order-42", "amount": {"currency_code": "USD", "value": "100.00"}}]
		}`))
	}))

	order, err := client.GetOrder(context.Background(), "tok-123", "5O190127TN364715T")
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", order.Status)
	assert.Equal(t, "order-42", order.InvoiceID())
}

func TestGetOrderNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"name":"RESOURCE_NOT_FOUND"}`, http.StatusNotFound)
	}))

	_, err := client.GetOrder(context.Background(), "tok-123", "missing")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
