package cart

import (
	"github.com/google/uuid"

	"github.com/camilorueda/vitrina-backend/pkg/enums"
)

// QuoteInput is a tenant-scoped cart to price.
type QuoteInput struct {
	TenantID uuid.UUID
	Lines    []LineInput
}

// LineInput is one product/quantity pair.
type LineInput struct {
	ProductID uuid.UUID
	Qty       int
}

// QuotedLine is the priced view of one cart line. DiscountCents is the
// line-level reduction already reflected in LineTotalCents.
type QuotedLine struct {
	ProductID      uuid.UUID
	Name           string
	Qty            int
	UnitPriceCents int64
	DiscountCents  int64
	LineTotalCents int64
	DiscountName   *string
	BadgeText      *string
}

// QuoteSummary is the read-only cart total view. It is recomputed on every
// call, so it is safe to request redundantly on render.
type QuoteSummary struct {
	ItemCount     int
	SubtotalCents int64
	DiscountCents int64
	TaxCents      int64
	TotalCents    int64
	Currency      enums.Currency
	Lines         []QuotedLine
}
