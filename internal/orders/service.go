package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/camilorueda/vitrina-backend/internal/cart"
	"github.com/camilorueda/vitrina-backend/internal/payments"
	"github.com/camilorueda/vitrina-backend/pkg/db/models"
	pkgerrors "github.com/camilorueda/vitrina-backend/pkg/errors"
	"github.com/camilorueda/vitrina-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type quoter interface {
	Quote(ctx context.Context, input cart.QuoteInput) (*cart.QuoteSummary, error)
}

// Service covers order placement, reads and the settlement primitive.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error)
	GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*models.Order, error)
	List(ctx context.Context, tenantID uuid.UUID, params pagination.Params) (*OrderList, error)
	Settle(ctx context.Context, input SettleInput) error
}

type service struct {
	repo         Repository
	paymentsRepo payments.Repository
	tx           txRunner
	pricing      quoter
}

// NewService builds the orders service with its collaborators.
func NewService(repo Repository, paymentsRepo payments.Repository, tx txRunner, pricing quoter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if paymentsRepo == nil {
		return nil, fmt.Errorf("payments repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if pricing == nil {
		return nil, fmt.Errorf("pricing service required")
	}
	return &service{
		repo:         repo,
		paymentsRepo: paymentsRepo,
		tx:           tx,
		pricing:      pricing,
	}, nil
}

// PlaceOrder reprices the cart, then writes the order, its line items and
// the pending payment placeholder atomically.
func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error) {
	if !input.Provider.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment provider")
	}

	summary, err := s.pricing.Quote(ctx, cart.QuoteInput{TenantID: input.TenantID, Lines: input.Lines})
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		TenantID:      input.TenantID,
		SubtotalCents: summary.SubtotalCents,
		DiscountCents: summary.DiscountCents,
		TaxCents:      summary.TaxCents,
		TotalCents:    summary.TotalCents,
		Currency:      summary.Currency,
		CustomerEmail: input.CustomerEmail,
	}
	for _, line := range summary.Lines {
		productID := line.ProductID
		order.Items = append(order.Items, models.OrderLineItem{
			ProductID:      &productID,
			Name:           line.Name,
			Qty:            line.Qty,
			UnitPriceCents: line.UnitPriceCents,
			DiscountCents:  line.DiscountCents,
			TotalCents:     line.LineTotalCents,
			DiscountName:   line.DiscountName,
		})
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return err
		}
		_, err := s.paymentsRepo.WithTx(tx).CreatePendingForOrder(ctx, order.ID, order.TenantID, input.Provider, order.TotalCents, order.Currency, input.ExternalReference)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.TenantID != tenantID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, tenantID uuid.UUID, params pagination.Params) (*OrderList, error) {
	orders, next, err := s.repo.ListByTenant(ctx, tenantID, params)
	if err != nil {
		return nil, err
	}
	list := &OrderList{Orders: orders}
	if next != nil {
		list.NextCursor = pagination.EncodeCursor(*next)
	}
	return list, nil
}

// Settle applies the paid flip and the payment upsert in one transaction,
// so no reader observes a paid order with a stale pending payment.
func (s *service) Settle(ctx context.Context, input SettleInput) error {
	if input.OrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if !input.Payment.Status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown canonical status")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if !input.PaymentOnly {
			if err := s.repo.WithTx(tx).SetPaid(ctx, input.OrderID, input.Paid, input.PaidAt); err != nil {
				return err
			}
		}
		_, err := s.paymentsRepo.WithTx(tx).Upsert(ctx, input.Payment)
		return err
	})
}
