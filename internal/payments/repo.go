package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/camilorueda/vitrina-backend/pkg/db"
	"github.com/camilorueda/vitrina-backend/pkg/db/models"
	"github.com/camilorueda/vitrina-backend/pkg/enums"
	pkgerrors "github.com/camilorueda/vitrina-backend/pkg/errors"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a payments repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	if payment.Status == "" {
		payment.Status = enums.PaymentStatusPending
	}
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "payment already exists for provider id")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating payment")
	}
	return payment, nil
}

func (r *repository) FindByProviderPaymentID(ctx context.Context, providerPaymentID string) (*PaymentWithOrder, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("provider_payment_id = ?", providerPaymentID).
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finding payment by provider id")
	}

	var order models.Order
	if err := r.db.WithContext(ctx).Where("id = ?", payment.OrderID).First(&order).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading payment order")
	}

	return &PaymentWithOrder{
		Payment: payment,
		Order:   OrderView{ID: order.ID, TenantID: order.TenantID, TotalCents: order.TotalCents},
	}, nil
}

func (r *repository) FindLatestByOrder(ctx context.Context, orderID uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no payment for order")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finding latest payment")
	}
	return &payment, nil
}

// Update merges mutable fields into an existing row. A missing row is a
// NotFound, never an implicit create.
func (r *repository) Update(ctx context.Context, paymentID uuid.UUID, params UpdateParams) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).Where("id = ?", paymentID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading payment")
	}

	if params.Status != "" {
		payment.Status = params.Status
	}
	if params.StatusDetail != nil {
		payment.StatusDetail = params.StatusDetail
	}
	if params.ProviderPaymentID != nil && *params.ProviderPaymentID != "" {
		payment.ProviderPaymentID = *params.ProviderPaymentID
	}
	if len(params.Metadata) > 0 {
		payment.Metadata = payment.Metadata.Merge(params.Metadata)
	}

	if err := r.db.WithContext(ctx).Save(&payment).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating payment")
	}
	return &payment, nil
}

// Upsert is the idempotency core: look up by provider payment id, fall back
// to the order's latest row (the pending placeholder created at placement
// time), update whichever is found, create only when neither exists.
// Repeated deliveries for the same logical payment converge on one row.
func (r *repository) Upsert(ctx context.Context, params UpsertParams) (*models.Payment, error) {
	found, err := r.FindByProviderPaymentID(ctx, params.ProviderPaymentID)
	if err != nil && !isNotFound(err) {
		return nil, err
	}

	var existing *models.Payment
	if found != nil {
		existing = &found.Payment
	} else {
		latest, err := r.FindLatestByOrder(ctx, params.OrderID)
		if err != nil && !isNotFound(err) {
			return nil, err
		}
		existing = latest
	}

	if existing != nil {
		providerID := params.ProviderPaymentID
		return r.Update(ctx, existing.ID, UpdateParams{
			Status:            params.Status,
			StatusDetail:      params.StatusDetail,
			ProviderPaymentID: &providerID,
			Metadata:          params.Metadata,
		})
	}

	return r.Create(ctx, &models.Payment{
		OrderID:           params.OrderID,
		TenantID:          params.TenantID,
		Provider:          params.Provider,
		ProviderPaymentID: params.ProviderPaymentID,
		AmountCents:       params.AmountCents,
		Currency:          params.Currency,
		Status:            params.Status,
		StatusDetail:      params.StatusDetail,
		ExternalReference: params.ExternalReference,
		Metadata:          params.Metadata,
	})
}

// CreatePendingForOrder writes the placeholder row that exists before any
// provider id is known. The synthetic id keeps the unique index satisfied.
func (r *repository) CreatePendingForOrder(ctx context.Context, orderID, tenantID uuid.UUID, provider enums.PaymentProvider, amountCents int64, currency enums.Currency, externalReference *string) (*models.Payment, error) {
	return r.Create(ctx, &models.Payment{
		OrderID:           orderID,
		TenantID:          tenantID,
		Provider:          provider,
		ProviderPaymentID: fmt.Sprintf("pending_%s_%d", orderID, time.Now().Unix()),
		AmountCents:       amountCents,
		Currency:          currency,
		Status:            enums.PaymentStatusPending,
		ExternalReference: externalReference,
	})
}

func isNotFound(err error) bool {
	typed := pkgerrors.As(err)
	return typed != nil && typed.Code() == pkgerrors.CodeNotFound
}
