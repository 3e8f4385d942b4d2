package paypalwebhook

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/camilorueda/vitrina-backend/internal/orders"
	"github.com/camilorueda/vitrina-backend/internal/paymentmethods"
	"github.com/camilorueda/vitrina-backend/internal/payments"
	"github.com/camilorueda/vitrina-backend/pkg/db/models"
	"github.com/camilorueda/vitrina-backend/pkg/enums"
	pkgerrors "github.com/camilorueda/vitrina-backend/pkg/errors"
	"github.com/camilorueda/vitrina-backend/pkg/logger"
	"github.com/camilorueda/vitrina-backend/pkg/paypal"
	"github.com/camilorueda/vitrina-backend/pkg/types"
)

// Event is the webhook envelope subset the ingestion path reads.
type Event struct {
	ID        string   `json:"id"`
	EventType string   `json:"event_type"`
	Resource  Resource `json:"resource"`
}

// Resource covers both shapes the handled events carry: checkout order
// resources (purchase units) and capture resources (invoice id plus the
// related provider order id).
type Resource struct {
	ID                string                `json:"id"`
	Status            string                `json:"status"`
	InvoiceID         string                `json:"invoice_id"`
	PurchaseUnits     []paypal.PurchaseUnit `json:"purchase_units"`
	Amount            *paypal.Amount        `json:"amount"`
	SupplementaryData *SupplementaryData    `json:"supplementary_data"`
}

// SupplementaryData links a capture back to its checkout order.
type SupplementaryData struct {
	RelatedIDs RelatedIDs `json:"related_ids"`
}

type RelatedIDs struct {
	OrderID string `json:"order_id"`
}

type settler interface {
	Settle(ctx context.Context, input orders.SettleInput) error
}

type orderResolver interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByExternalTransactionID(ctx context.Context, externalID string) (*models.Order, error)
	SetExternalTransactionID(ctx context.Context, orderID uuid.UUID, externalID string) error
}

type methodGate interface {
	EnabledConfig(ctx context.Context, tenantID uuid.UUID, methodType enums.PaymentMethodType) (types.JSONMap, error)
}

type providerClient interface {
	Token(ctx context.Context, creds paypal.Credentials) (string, error)
	GetOrder(ctx context.Context, accessToken, orderID string) (*paypal.Order, error)
}

type notifier interface {
	OrderPaid(order *models.Order)
}

// Service applies PayPal webhook deliveries to order and payment state.
type Service interface {
	HandleEvent(ctx context.Context, tenantID uuid.UUID, event *Event) error
}

// ServiceParams groups dependencies for the webhook service.
type ServiceParams struct {
	Orders    settler
	OrderRepo orderResolver
	Methods   methodGate
	Client    providerClient
	Notifier  notifier
	Logger    *logger.Logger
}

type service struct {
	orders    settler
	orderRepo orderResolver
	methods   methodGate
	client    providerClient
	notifier  notifier
	logger    *logger.Logger
}

// NewService validates dependencies and builds the webhook service.
func NewService(params ServiceParams) (*service, error) {
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders service required")
	}
	if params.OrderRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order repo required")
	}
	if params.Methods == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payment methods service required")
	}
	if params.Client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "paypal client required")
	}
	if params.Notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "notifier required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &service{
		orders:    params.Orders,
		orderRepo: params.OrderRepo,
		methods:   params.Methods,
		client:    params.Client,
		notifier:  params.Notifier,
		logger:    params.Logger,
	}, nil
}

// HandleEvent settles the order referenced by the delivery. Event types
// outside the settlement flow return nil so the controller acknowledges
// them without mutation.
func (s *service) HandleEvent(ctx context.Context, tenantID uuid.UUID, event *Event) error {
	if event == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "event is required")
	}
	if tenantID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "tenant id is required")
	}

	status, handled := canonicalStatus(event.EventType)
	if !handled {
		ctx = s.logger.WithFields(ctx, map[string]any{"event_type": event.EventType})
		s.logger.Info(ctx, "ignoring paypal event")
		return nil
	}

	config, err := s.methods.EnabledConfig(ctx, tenantID, enums.PaymentMethodTypePayPal)
	if err != nil {
		return err
	}

	order, providerOrderID, err := s.resolveOrder(ctx, event, config)
	if err != nil {
		return err
	}
	if order.TenantID != tenantID {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	if providerOrderID != "" && (order.ExternalTransactionID == nil || *order.ExternalTransactionID == "") {
		if err := s.orderRepo.SetExternalTransactionID(ctx, order.ID, providerOrderID); err != nil {
			return err
		}
	}

	paid := status == enums.PaymentStatusApproved
	var paidAt *time.Time
	if paid {
		now := time.Now().UTC()
		paidAt = &now
	}

	// Pending captures record the payment but never touch paid state:
	// a redelivered PENDING after COMPLETED must not un-pay the order.
	paymentOnly := status == enums.PaymentStatusPending

	providerPaymentID := strings.TrimSpace(event.Resource.ID)
	if providerPaymentID == "" {
		providerPaymentID = providerOrderID
	}

	detail := event.EventType
	input := orders.SettleInput{
		OrderID:     order.ID,
		Paid:        paid,
		PaidAt:      paidAt,
		PaymentOnly: paymentOnly,
		Payment: payments.UpsertParams{
			OrderID:           order.ID,
			TenantID:          order.TenantID,
			Provider:          enums.PaymentProviderPayPal,
			ProviderPaymentID: providerPaymentID,
			AmountCents:       s.amountCents(event, order),
			Currency:          order.Currency,
			Status:            status,
			StatusDetail:      &detail,
			Metadata: types.JSONMap{
				"event_id":   event.ID,
				"event_type": event.EventType,
			},
		},
	}
	if err := s.orders.Settle(ctx, input); err != nil {
		return err
	}

	ctx = s.logger.WithFields(ctx, map[string]any{
		"order_id": order.ID.String(),
		"status":   status.String(),
	})
	s.logger.Info(ctx, "paypal webhook settled")

	if paid {
		paidOrder := *order
		paidOrder.IsPaid = true
		paidOrder.PaidAt = paidAt
		s.notifier.OrderPaid(&paidOrder)
	}
	return nil
}

// resolveOrder finds the internal order for a delivery: the invoice id we
// stamped at checkout wins, then a previously adopted provider order id,
// then an order detail fetch for events that carry neither.
func (s *service) resolveOrder(ctx context.Context, event *Event, config types.JSONMap) (*models.Order, string, error) {
	providerOrderID := s.providerOrderID(event)

	if invoiceID := s.invoiceID(event); invoiceID != "" {
		if order, err := s.findByInvoice(ctx, invoiceID); err == nil {
			return order, providerOrderID, nil
		} else if !isNotFound(err) {
			return nil, "", err
		}
	}

	if providerOrderID != "" {
		order, err := s.orderRepo.FindByExternalTransactionID(ctx, providerOrderID)
		if err == nil {
			return order, providerOrderID, nil
		}
		if !isNotFound(err) {
			return nil, "", err
		}

		creds := paypal.Credentials{
			ClientID:     paymentmethods.ConfigString(config, "client_id"),
			ClientSecret: paymentmethods.ConfigString(config, "client_secret"),
		}
		token, err := s.client.Token(ctx, creds)
		if err != nil {
			return nil, "", err
		}
		detail, err := s.client.GetOrder(ctx, token, providerOrderID)
		if err != nil {
			return nil, "", err
		}
		if invoiceID := detail.InvoiceID(); invoiceID != "" {
			order, err := s.findByInvoice(ctx, invoiceID)
			if err != nil {
				return nil, "", err
			}
			return order, providerOrderID, nil
		}
	}

	return nil, "", pkgerrors.New(pkgerrors.CodeNotFound, "order not found for paypal event")
}

func (s *service) findByInvoice(ctx context.Context, invoiceID string) (*models.Order, error) {
	orderID, err := uuid.Parse(invoiceID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invoice id is not an order id")
	}
	return s.orderRepo.FindByID(ctx, orderID)
}

func (s *service) invoiceID(event *Event) string {
	if id := strings.TrimSpace(event.Resource.InvoiceID); id != "" {
		return id
	}
	for _, unit := range event.Resource.PurchaseUnits {
		if unit.InvoiceID != "" {
			return unit.InvoiceID
		}
	}
	return ""
}

// providerOrderID is the PayPal checkout order id: the resource id on
// checkout events, the related order id on capture events.
func (s *service) providerOrderID(event *Event) string {
	if event.Resource.SupplementaryData != nil {
		if id := strings.TrimSpace(event.Resource.SupplementaryData.RelatedIDs.OrderID); id != "" {
			return id
		}
	}
	if strings.HasPrefix(event.EventType, "CHECKOUT.ORDER.") {
		return strings.TrimSpace(event.Resource.ID)
	}
	return ""
}

func (s *service) amountCents(event *Event, order *models.Order) int64 {
	if event.Resource.Amount != nil {
		if value, err := decimal.NewFromString(event.Resource.Amount.Value); err == nil {
			return value.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
		}
	}
	for _, unit := range event.Resource.PurchaseUnits {
		if value, err := decimal.NewFromString(unit.Amount.Value); err == nil {
			return value.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
		}
	}
	return order.TotalCents
}

func isNotFound(err error) bool {
	typed := pkgerrors.As(err)
	return typed != nil && typed.Code() == pkgerrors.CodeNotFound
}
