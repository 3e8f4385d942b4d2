package mercadopagowebhook

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/camilorueda/vitrina-backend/internal/orders"
	"github.com/camilorueda/vitrina-backend/internal/paymentmethods"
	"github.com/camilorueda/vitrina-backend/internal/payments"
	"github.com/camilorueda/vitrina-backend/pkg/db/models"
	"github.com/camilorueda/vitrina-backend/pkg/enums"
	pkgerrors "github.com/camilorueda/vitrina-backend/pkg/errors"
	"github.com/camilorueda/vitrina-backend/pkg/logger"
	"github.com/camilorueda/vitrina-backend/pkg/mercadopago"
	"github.com/camilorueda/vitrina-backend/pkg/types"
)

// Notification is the thin webhook body MercadoPago delivers. It only
// names a payment id; everything else comes from the detail fetch.
type Notification struct {
	ID     string           `json:"id"`
	Type   string           `json:"type"`
	Action string           `json:"action"`
	Data   NotificationData `json:"data"`
}

type NotificationData struct {
	ID string `json:"id"`
}

// EventID is the idempotency key for a delivery: the payment id plus the
// action, since MercadoPago reuses notification ids across actions.
func (n *Notification) EventID() string {
	if n == nil {
		return ""
	}
	parts := []string{n.Data.ID}
	if n.Action != "" {
		parts = append(parts, n.Action)
	}
	return strings.Join(parts, ":")
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

type paymentFetcher interface {
	GetPayment(ctx context.Context, accessToken, paymentID string) (*mercadopago.Payment, error)
}

type notifier interface {
	OrderPaid(order *models.Order)
}

// Service applies MercadoPago webhook notifications to order and payment
// state.
type Service interface {
	HandleNotification(ctx context.Context, tenantID uuid.UUID, notification *Notification) error
}

// ServiceParams groups dependencies for the webhook service.
type ServiceParams struct {
	Orders    settler
	OrderRepo orderResolver
	Methods   methodGate
	Client    paymentFetcher
	Notifier  notifier
	Logger    *logger.Logger
}

type service struct {
	orders    settler
	orderRepo orderResolver
	methods   methodGate
	client    paymentFetcher
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
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "mercadopago client required")
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

// HandleNotification fetches the payment detail behind the notification
// and settles the referenced order. Non-payment notifications return nil
// so the controller acknowledges them without mutation.
func (s *service) HandleNotification(ctx context.Context, tenantID uuid.UUID, notification *Notification) error {
	if notification == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification is required")
	}
	if tenantID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "tenant id is required")
	}
	if notification.Type != "" && notification.Type != "payment" {
		ctx = s.logger.WithFields(ctx, map[string]any{"notification_type": notification.Type})
		s.logger.Info(ctx, "ignoring mercadopago notification")
		return nil
	}
	paymentID := strings.TrimSpace(notification.Data.ID)
	if paymentID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification data id is required")
	}

	config, err := s.methods.EnabledConfig(ctx, tenantID, enums.PaymentMethodTypeMercadoPago)
	if err != nil {
		return err
	}
	accessToken := paymentmethods.ConfigString(config, "access_token")
	if accessToken == "" {
		return pkgerrors.New(pkgerrors.CodeDependency, "mercadopago access token is not configured")
	}

	detail, err := s.client.GetPayment(ctx, accessToken, paymentID)
	if err != nil {
		return err
	}

	status, known := canonicalStatus(detail.Status)
	if !known {
		ctx = s.logger.WithFields(ctx, map[string]any{"provider_status": detail.Status})
		s.logger.Warn(ctx, "unknown mercadopago status, treating as pending")
	}

	order, err := s.resolveOrder(ctx, detail)
	if err != nil {
		return err
	}
	if order.TenantID != tenantID {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	providerPaymentID := strconv.FormatInt(detail.ID, 10)
	if providerPaymentID == "0" {
		providerPaymentID = paymentID
	}
	if order.ExternalTransactionID == nil || *order.ExternalTransactionID == "" {
		if err := s.orderRepo.SetExternalTransactionID(ctx, order.ID, providerPaymentID); err != nil {
			return err
		}
	}

	paid := status == enums.PaymentStatusApproved
	var paidAt *time.Time
	if paid {
		now := time.Now().UTC()
		paidAt = &now
	}

	// in_process and friends map to pending; record the payment but never
	// reset paid state an approved notification already settled.
	paymentOnly := status == enums.PaymentStatusPending

	amountCents := detail.AmountCents()
	if amountCents == 0 {
		amountCents = order.TotalCents
	}

	var statusDetail *string
	if detail.StatusDetail != "" {
		statusDetail = &detail.StatusDetail
	}

	input := orders.SettleInput{
		OrderID:     order.ID,
		Paid:        paid,
		PaidAt:      paidAt,
		PaymentOnly: paymentOnly,
		Payment: payments.UpsertParams{
			OrderID:           order.ID,
			TenantID:          order.TenantID,
			Provider:          enums.PaymentProviderMercadoPago,
			ProviderPaymentID: providerPaymentID,
			AmountCents:       amountCents,
			Currency:          order.Currency,
			Status:            status,
			StatusDetail:      statusDetail,
			ExternalReference: &detail.ExternalReference,
			Metadata: types.JSONMap{
				"notification_id": notification.ID,
				"action":          notification.Action,
				"provider_status": detail.Status,
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
	s.logger.Info(ctx, "mercadopago webhook settled")

	if paid {
		paidOrder := *order
		paidOrder.IsPaid = true
		paidOrder.PaidAt = paidAt
		s.notifier.OrderPaid(&paidOrder)
	}
	return nil
}

// resolveOrder maps the detail back to an internal order. The external
// reference we set at checkout is the order id; an order that already
// adopted the provider payment id also matches.
func (s *service) resolveOrder(ctx context.Context, detail *mercadopago.Payment) (*models.Order, error) {
	reference := strings.TrimSpace(detail.ExternalReference)
	if reference != "" {
		if orderID, err := uuid.Parse(reference); err == nil {
			order, err := s.orderRepo.FindByID(ctx, orderID)
			if err == nil {
				return order, nil
			}
			if !isNotFound(err) {
				return nil, err
			}
		}
	}

	providerPaymentID := strconv.FormatInt(detail.ID, 10)
	order, err := s.orderRepo.FindByExternalTransactionID(ctx, providerPaymentID)
	if err == nil {
		return order, nil
	}
	if !isNotFound(err) {
		return nil, err
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found for mercadopago payment")
}

func isNotFound(err error) bool {
	typed := pkgerrors.As(err)
	return typed != nil && typed.Code() == pkgerrors.CodeNotFound
}
