package types

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/camilorueda/vitrina-backend/pkg/enums"
)

// DiscountValue is a tagged union keyed by the owning rule's discount type.
// Percent is read for percentage rules, AmountCents for fixed amount rules,
// and Buy/Pay for buy-x-get-y rules. The unused fields stay zero.
type DiscountValue struct {
	Percent     decimal.Decimal `json:"percent"`
	AmountCents int64           `json:"amount_cents"`
	Buy         int             `json:"buy"`
	Pay         int             `json:"pay"`
}

// ValidFor reports whether the populated fields are usable for the given type.
func (v DiscountValue) ValidFor(discountType enums.DiscountType) bool {
	switch discountType {
	case enums.DiscountTypePercentage:
		return v.Percent.IsPositive() && v.Percent.LessThanOrEqual(decimal.NewFromInt(100))
	case enums.DiscountTypeFixedAmount:
		return v.AmountCents > 0
	case enums.DiscountTypeBuyXGetY:
		return v.Buy > 0 && v.Pay > 0 && v.Pay < v.Buy
	default:
		return false
	}
}

// DiscountTarget scopes a rule to the whole catalog, a product, a category
// or a tag. TargetID carries the product/category reference, Tag the tag name.
type DiscountTarget struct {
	TargetType enums.TargetType `json:"target_type"`
	TargetID   *uuid.UUID       `json:"target_id,omitempty"`
	Tag        string           `json:"tag,omitempty"`
}

// DiscountCondition is a quantitative gate on quantity or cart amount.
type DiscountCondition struct {
	ConditionType enums.ConditionType `json:"condition_type"`
	Value         int64               `json:"value"`
}
