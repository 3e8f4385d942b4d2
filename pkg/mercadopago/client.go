package mercadopago

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/camilorueda/vitrina-backend/pkg/config"
	pkgerrors "github.com/camilorueda/vitrina-backend/pkg/errors"
	"github.com/camilorueda/vitrina-backend/pkg/logger"
	"github.com/camilorueda/vitrina-backend/pkg/types"
)

var errLoggerRequired = errors.New("mercadopago logger is required")

// Payment is the subset of the payment detail response the settlement
// path reads. Webhook notifications only carry the payment id, so this
// fetch supplies the status and the external reference back to our order.
type Payment struct {
	ID                int64         `json:"id"`
	Status            string        `json:"status"`
	StatusDetail      string        `json:"status_detail"`
	ExternalReference string        `json:"external_reference"`
	TransactionAmount float64       `json:"transaction_amount"`
	CurrencyID        string        `json:"currency_id"`
	Metadata          types.JSONMap `json:"metadata"`
}

// Client wraps the MercadoPago payments API. The access token is per
// tenant and supplied on each call.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient validates configuration and builds the REST wrapper.
func NewClient(cfg config.MercadoPagoConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("mercadopago base url is required")
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logg,
	}, nil
}

// GetPayment fetches the full payment detail for a webhook notification id.
func (c *Client) GetPayment(ctx context.Context, accessToken, paymentID string) (*Payment, error) {
	if strings.TrimSpace(accessToken) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mercadopago access token is required")
	}
	if strings.TrimSpace(paymentID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mercadopago payment id is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/payments/"+url.PathEscape(paymentID), nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building mercadopago payment request")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	c.log(ctx, "request", "get_payment", map[string]any{"payment_id": paymentID})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log(ctx, "error", "get_payment", map[string]any{"error": err.Error()})
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mercadopago get payment failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log(ctx, "error", "get_payment", map[string]any{"status": resp.StatusCode})
		return nil, pkgerrors.New(domainCodeForStatus(resp.StatusCode), fmt.Sprintf("mercadopago get payment returned %d", resp.StatusCode))
	}

	var payment Payment
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding mercadopago payment response")
	}

	c.log(ctx, "response", "get_payment", map[string]any{
		"payment_id": payment.ID,
		"status":     payment.Status,
	})
	return &payment, nil
}

// AmountCents converts the provider's float amount into integer cents.
func (p *Payment) AmountCents() int64 {
	if p == nil {
		return 0
	}
	return decimal.NewFromFloat(p.TransactionAmount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
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
		c.logger.Error(ctx, fmt.Sprintf("mercadopago %s", op), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Info(ctx, fmt.Sprintf("mercadopago %s", phase))
	}
}

func redact(key string, value any) any {
	lower := strings.ToLower(key)
	for _, sensitive := range []string{"token", "secret", "authorization", "email", "payer"} {
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
	default:
		if status >= 400 && status < 500 {
			return pkgerrors.CodeValidation
		}
		return pkgerrors.CodeDependency
	}
}
