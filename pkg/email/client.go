package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/camilorueda/vitrina-backend/pkg/config"
	pkgerrors "github.com/camilorueda/vitrina-backend/pkg/errors"
	"github.com/camilorueda/vitrina-backend/pkg/logger"
)

var errLoggerRequired = errors.New("email logger is required")

// Message is one outbound transactional email.
type Message struct {
	To      []string
	Subject string
	HTML    string
}

type address struct {
	Email string `json:"email"`
}

type personalization struct {
	To []address `json:"to"`
}

type content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendPayload struct {
	Personalizations []personalization `json:"personalizations"`
	From             address           `json:"from"`
	Subject          string            `json:"subject"`
	Content          []content         `json:"content"`
}

// Client sends mail through a SendGrid-compatible HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	from       string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient validates configuration and builds the mail client.
func NewClient(cfg config.EmailConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("email base url is required")
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		from:       strings.TrimSpace(cfg.DefaultFrom),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logg,
	}, nil
}

// Send delivers one message. Recipients with empty addresses are dropped;
// a message with no remaining recipient is a validation error.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if c.apiKey == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email api key is not configured")
	}
	if c.from == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email sender address is not configured")
	}
	var recipients []address
	for _, to := range msg.To {
		if trimmed := strings.TrimSpace(to); trimmed != "" {
			recipients = append(recipients, address{Email: trimmed})
		}
	}
	if len(recipients) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "email message has no recipients")
	}

	payload := sendPayload{
		Personalizations: []personalization{{To: recipients}},
		From:             address{Email: c.from},
		Subject:          msg.Subject,
		Content:          []content{{Type: "text/html", Value: msg.HTML}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding email payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v3/mail/send", bytes.NewReader(body))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building email request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	c.log(ctx, "request", "send", map[string]any{"subject": msg.Subject, "recipients": len(recipients)})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log(ctx, "error", "send", map[string]any{"error": err.Error()})
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "email send failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log(ctx, "error", "send", map[string]any{"status": resp.StatusCode})
		return pkgerrors.New(domainCodeForStatus(resp.StatusCode), fmt.Sprintf("email send returned %d", resp.StatusCode))
	}

	c.log(ctx, "response", "send", map[string]any{"status": resp.StatusCode})
	return nil
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
		logFields[k] = v
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, fmt.Sprintf("email %s", op), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Info(ctx, fmt.Sprintf("email %s", phase))
	}
}

func domainCodeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return pkgerrors.CodeUnauthorized
	default:
		if status >= 400 && status < 500 {
			return pkgerrors.CodeValidation
		}
		return pkgerrors.CodeDependency
	}
}
