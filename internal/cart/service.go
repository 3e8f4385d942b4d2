package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/camilorueda/vitrina-backend/internal/discounts"
	"github.com/camilorueda/vitrina-backend/pkg/db/models"
	"github.com/camilorueda/vitrina-backend/pkg/enums"
	pkgerrors "github.com/camilorueda/vitrina-backend/pkg/errors"
)

type ruleLoader interface {
	Load(ctx context.Context, tenantID uuid.UUID) ([]models.Discount, error)
}

// Service prices carts. Quote never mutates anything.
type Service interface {
	Quote(ctx context.Context, input QuoteInput) (*QuoteSummary, error)
}

type service struct {
	products        ProductRepository
	rules           ruleLoader
	resolver        *discounts.Resolver
	taxRateBasisPts int64
	currency        enums.Currency
}

// NewService builds the pricing aggregator.
func NewService(products ProductRepository, rules ruleLoader, resolver *discounts.Resolver, taxRateBasisPts int, currency enums.Currency) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if rules == nil {
		return nil, fmt.Errorf("rule loader required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("discount resolver required")
	}
	if !currency.IsValid() {
		currency = enums.CurrencyUSD
	}
	return &service{
		products:        products,
		rules:           rules,
		resolver:        resolver,
		taxRateBasisPts: int64(taxRateBasisPts),
		currency:        currency,
	}, nil
}

// Quote recomputes every line's discount from scratch. The pre-discount
// subtotal is the cart total fed into amount conditions, so a quantity or
// total change on any line can move the outcome of every other line.
func (s *service) Quote(ctx context.Context, input QuoteInput) (*QuoteSummary, error) {
	if input.TenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant id is required")
	}
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart has no lines")
	}

	ids := make([]uuid.UUID, 0, len(input.Lines))
	for _, line := range input.Lines {
		if line.Qty <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid quantity for product %s", line.ProductID))
		}
		ids = append(ids, line.ProductID)
	}

	products, err := s.products.FindActiveByIDs(ctx, input.TenantID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	var subtotal int64
	for _, line := range input.Lines {
		product, ok := byID[line.ProductID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s not found", line.ProductID))
		}
		subtotal += product.PriceCents * int64(line.Qty)
	}

	rules, err := s.rules.Load(ctx, input.TenantID)
	if err != nil {
		return nil, err
	}

	summary := &QuoteSummary{
		SubtotalCents: subtotal,
		Currency:      s.currency,
		Lines:         make([]QuotedLine, 0, len(input.Lines)),
	}

	for _, line := range input.Lines {
		product := byID[line.ProductID]
		quoted := QuotedLine{
			ProductID:      product.ID,
			Name:           product.Name,
			Qty:            line.Qty,
			UnitPriceCents: product.PriceCents,
			LineTotalCents: product.PriceCents * int64(line.Qty),
		}

		if applied := s.resolver.Resolve(rules, product, line.Qty, subtotal, true); applied != nil {
			quoted.DiscountCents = applied.LineDiscountCents
			quoted.LineTotalCents -= applied.LineDiscountCents
			name := applied.Discount.Name
			quoted.DiscountName = &name
			badge := applied.BadgeText
			quoted.BadgeText = &badge
		}

		summary.ItemCount += line.Qty
		summary.DiscountCents += quoted.DiscountCents
		summary.Lines = append(summary.Lines, quoted)
	}

	taxable := summary.SubtotalCents - summary.DiscountCents
	summary.TaxCents = taxable * s.taxRateBasisPts / 10000
	summary.TotalCents = taxable + summary.TaxCents
	return summary, nil
}
