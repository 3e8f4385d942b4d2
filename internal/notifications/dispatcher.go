package notifications

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/camilorueda/vitrina-backend/pkg/db/models"
	"github.com/camilorueda/vitrina-backend/pkg/email"
	pkgerrors "github.com/camilorueda/vitrina-backend/pkg/errors"
	"github.com/camilorueda/vitrina-backend/pkg/logger"
)

// Sender delivers one transactional email.
type Sender interface {
	Send(ctx context.Context, msg email.Message) error
}

// TenantReader exposes the seller contact address for a tenant.
type TenantReader interface {
	ContactEmail(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// DispatcherParams groups dependencies for the email dispatcher.
type DispatcherParams struct {
	Sender  Sender
	Tenants TenantReader
	Logger  *logger.Logger
	Timeout time.Duration
}

// Dispatcher sends order-paid emails off the settlement path. Delivery is
// fire and forget: failures are logged and swallowed, a panic in the
// goroutine never reaches the caller, and settlement is never reverted.
type Dispatcher struct {
	sender  Sender
	tenants TenantReader
	logger  *logger.Logger
	timeout time.Duration

	wg sync.WaitGroup
}

// NewDispatcher validates dependencies and builds a dispatcher.
func NewDispatcher(params DispatcherParams) (*Dispatcher, error) {
	if params.Sender == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "email sender required")
	}
	if params.Tenants == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "tenant reader required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Dispatcher{
		sender:  params.Sender,
		tenants: params.Tenants,
		logger:  params.Logger,
		timeout: timeout,
	}, nil
}

// OrderPaid schedules the customer receipt and the seller notice for a
// freshly settled order. Returns immediately.
func (d *Dispatcher) OrderPaid(order *models.Order) {
	if order == nil {
		return
	}
	snapshot := *order

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		// Detached from the webhook request context so an early 200
		// response does not cancel delivery.
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		defer func() {
			if r := recover(); r != nil {
				d.logger.Error(ctx, "order paid notification panicked", fmt.Errorf("panic: %v", r))
			}
		}()

		if err := d.deliver(ctx, &snapshot); err != nil {
			ctx = d.logger.WithFields(ctx, map[string]any{
				"order_id":  snapshot.ID.String(),
				"tenant_id": snapshot.TenantID.String(),
			})
			d.logger.Error(ctx, "order paid notification failed", err)
		}
	}()
}

// Wait blocks until every scheduled delivery has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) deliver(ctx context.Context, order *models.Order) error {
	var errs error

	if order.CustomerEmail != nil && strings.TrimSpace(*order.CustomerEmail) != "" {
		err := d.sender.Send(ctx, email.Message{
			To:      []string{*order.CustomerEmail},
			Subject: fmt.Sprintf("Payment received for order %d", order.OrderNumber),
			HTML:    customerReceiptHTML(order),
		})
		errs = multierr.Append(errs, err)
	}

	sellerEmail, err := d.tenants.ContactEmail(ctx, order.TenantID)
	if err != nil {
		errs = multierr.Append(errs, err)
	} else if sellerEmail != "" {
		err := d.sender.Send(ctx, email.Message{
			To:      []string{sellerEmail},
			Subject: fmt.Sprintf("Order %d was paid", order.OrderNumber),
			HTML:    sellerNoticeHTML(order),
		})
		errs = multierr.Append(errs, err)
	}

	return errs
}

func customerReceiptHTML(order *models.Order) string {
	return fmt.Sprintf(
		"<p>We received your payment for order <strong>%d</strong>.</p><p>Total: %s</p>",
		order.OrderNumber, formatAmount(order.TotalCents, string(order.Currency)),
	)
}

func sellerNoticeHTML(order *models.Order) string {
	return fmt.Sprintf(
		"<p>Order <strong>%d</strong> was paid.</p><p>Total: %s</p>",
		order.OrderNumber, formatAmount(order.TotalCents, string(order.Currency)),
	)
}

func formatAmount(cents int64, currency string) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, cents/100, cents%100, currency)
}
