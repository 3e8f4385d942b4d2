package paypal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/camilorueda/vitrina-backend/pkg/config"
	pkgerrors "github.com/camilorueda/vitrina-backend/pkg/errors"
	"github.com/camilorueda/vitrina-backend/pkg/logger"
)

var errLoggerRequired = errors.New("paypal logger is required")

// Credentials are the per-tenant REST app keys used for the
// client-credentials token exchange.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// Order is the subset of the order detail response the settlement
// path reads: status plus the invoice reference linking back to us.
type Order struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	PurchaseUnits []PurchaseUnit `json:"purchase_units"`
}

// PurchaseUnit carries the invoice id we set at checkout time.
type PurchaseUnit struct {
	ReferenceID string `json:"reference_id"`
	InvoiceID   string `json:"invoice_id"`
	Amount      Amount `json:"amount"`
}

// Amount is a PayPal money value, a decimal string plus currency code.
type Amount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type cachedToken struct {
	value     string
	expiresAt time.Time
}

// Client wraps the PayPal REST API with token caching, logging and error
// mapping. Credentials are per tenant, so tokens are cached by client id.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger

	mu     sync.Mutex
	tokens map[string]cachedToken
}

// NewClient validates configuration and builds the REST wrapper.
func NewClient(cfg config.PayPalConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("paypal base url is required")
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logg,
		tokens:     map[string]cachedToken{},
	}, nil
}

// Token exchanges the tenant credentials for an access token, reusing a
// cached one while it is still comfortably inside its expiry window.
func (c *Client) Token(ctx context.Context, creds Credentials) (string, error) {
	if strings.TrimSpace(creds.ClientID) == "" || strings.TrimSpace(creds.ClientSecret) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "paypal credentials are required")
	}

	c.mu.Lock()
	if cached, ok := c.tokens[creds.ClientID]; ok && time.Now().Before(cached.expiresAt) {
		c.mu.Unlock()
		return cached.value, nil
	}
	c.mu.Unlock()

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building paypal token request")
	}
	req.SetBasicAuth(creds.ClientID, creds.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log(ctx, "error", "token_exchange", map[string]any{"error": err.Error()})
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "paypal token exchange failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		c.log(ctx, "error", "token_exchange", map[string]any{"status": resp.StatusCode})
		return "", pkgerrors.New(domainCodeForStatus(resp.StatusCode), fmt.Sprintf("paypal token exchange returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding paypal token response")
	}
	if token.AccessToken == "" {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "paypal token response missing access_token")
	}

	expiry := time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	c.mu.Lock()
	// 30s slack so a token is never handed out on the edge of expiry.
	c.tokens[creds.ClientID] = cachedToken{value: token.AccessToken, expiresAt: expiry.Add(-30 * time.Second)}
	c.mu.Unlock()

	c.log(ctx, "response", "token_exchange", map[string]any{"expires_in": token.ExpiresIn})
	return token.AccessToken, nil
}

// GetOrder fetches the checkout order detail used to resolve the internal
// order from a webhook that only carries the provider order id.
func (c *Client) GetOrder(ctx context.Context, accessToken, orderID string) (*Order, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "paypal order id is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/checkout/orders/"+url.PathEscape(orderID), nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building paypal order request")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	c.log(ctx, "request", "get_order", map[string]any{"order_id": orderID})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log(ctx, "error", "get_order", map[string]any{"error": err.Error()})
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "paypal get order failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log(ctx, "error", "get_order", map[string]any{"status": resp.StatusCode})
		return nil, pkgerrors.New(domainCodeForStatus(resp.StatusCode), fmt.Sprintf("paypal get order returned %d", resp.StatusCode))
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding paypal order response")
	}

	c.log(ctx, "response", "get_order", map[string]any{"order_id": order.ID, "status": order.Status})
	return &order, nil
}

// InvoiceID returns the first invoice reference present on the order.
func (o *Order) InvoiceID() string {
	if o == nil {
		return ""
	}
	for _, unit := range o.PurchaseUnits {
		if unit.InvoiceID != "" {
			return unit.InvoiceID
		}
	}
	return ""
}

func (c *Client) log(ctx context.Context, phase, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = redact(k, v)
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, fmt.Sprintf("paypal %s", op), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Info(ctx, fmt.Sprintf("paypal %s", phase))
	}
}

func redact(key string, value any) any {
	lower := strings.ToLower(key)
	for _, sensitive := range []string{"secret", "token", "authorization", "email", "payer"} {
		if strings.Contains(lower, sensitive) {
			return "[REDACTED]"
		}
	}
	return value
}

func domainCodeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return pkgerrors.CodeUnauthorized
	case http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case http.StatusConflict:
		return pkgerrors.CodeConflict
	default:
		if status >= 400 && status < 500 {
			return pkgerrors.CodeValidation
		}
		return pkgerrors.CodeDependency
	}
}
