package discounts

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/camilorueda/vitrina-backend/pkg/db/models"
	"github.com/camilorueda/vitrina-backend/pkg/enums"
	"github.com/camilorueda/vitrina-backend/pkg/types"
)

var hundred = decimal.NewFromInt(100)

// Applied is the derived outcome of resolving rules against one cart line.
// It is recomputed whenever quantity or cart total changes, never persisted.
type Applied struct {
	Discount          models.Discount
	UnitPrice         decimal.Decimal
	FinalUnitPrice    decimal.Decimal
	DiscountPerUnit   decimal.Decimal
	LineDiscountCents int64
	BadgeText         string
}

// Resolver evaluates promotional rules against cart lines. It is stateless
// apart from the clock and safe for concurrent use.
type Resolver struct {
	now func() time.Time
}

// NewResolver builds a resolver on the real clock.
func NewResolver() *Resolver {
	return &Resolver{now: time.Now}
}

// Resolve returns the single winning discount for a line, or nil when no
// rule applies. With checkConditions=false, quantity and amount gates are
// skipped so a rule can surface as a promotional badge before the cart
// qualifies; buy-x-get-y rules then report a zero amount.
func (r *Resolver) Resolve(rules []models.Discount, product *models.Product, quantity int, cartTotalCents int64, checkConditions bool) *Applied {
	if product == nil || quantity <= 0 {
		return nil
	}

	now := r.now()
	var best *Applied
	for _, rule := range rules {
		if !r.eligible(rule, product, quantity, cartTotalCents, checkConditions, now) {
			continue
		}

		applied, ok := compute(rule, product, quantity, checkConditions)
		if !ok {
			// Malformed rule data skips the rule, never aborts resolution.
			continue
		}

		if best == nil || wins(applied, best) {
			best = applied
		}
	}
	return best
}

func (r *Resolver) eligible(rule models.Discount, product *models.Product, quantity int, cartTotalCents int64, checkConditions bool, now time.Time) bool {
	if !rule.IsActive {
		return false
	}
	if rule.StartsAt != nil && now.Before(*rule.StartsAt) {
		return false
	}
	if rule.EndsAt != nil && now.After(*rule.EndsAt) {
		return false
	}
	if !matchesTarget(rule.Targets, product) {
		return false
	}

	if rule.Type == enums.DiscountTypeBuyXGetY {
		// The buy threshold acts as an implicit minimum quantity, but only
		// when conditions are enforced; badge rendering always passes.
		if checkConditions && quantity < rule.Value.Buy {
			return false
		}
		return true
	}

	if !checkConditions {
		return true
	}
	for _, cond := range rule.Conditions {
		switch cond.ConditionType {
		case enums.ConditionTypeMinQuantity:
			if int64(quantity) < cond.Value {
				return false
			}
		case enums.ConditionTypeMinAmount:
			if cartTotalCents < cond.Value {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// matchesTarget short-circuits on the first matching target; a rule with no
// matching target never applies.
func matchesTarget(targets []types.DiscountTarget, product *models.Product) bool {
	for _, target := range targets {
		switch target.TargetType {
		case enums.TargetTypeAll:
			return true
		case enums.TargetTypeProduct:
			if target.TargetID != nil && *target.TargetID == product.ID {
				return true
			}
		case enums.TargetTypeCategory:
			if target.TargetID != nil && product.CategoryID != nil && *target.TargetID == *product.CategoryID {
				return true
			}
		case enums.TargetTypeTag:
			if target.Tag != "" && product.Tags.Contains(target.Tag) {
				return true
			}
		}
	}
	return false
}

func compute(rule models.Discount, product *models.Product, quantity int, checkConditions bool) (*Applied, bool) {
	if !rule.Value.ValidFor(rule.Type) {
		return nil, false
	}

	price := decimal.NewFromInt(product.PriceCents)
	qty := decimal.NewFromInt(int64(quantity))

	applied := &Applied{
		Discount:  rule,
		UnitPrice: price,
	}

	switch rule.Type {
	case enums.DiscountTypePercentage:
		perUnit := price.Mul(rule.Value.Percent).Div(hundred)
		final := price.Sub(perUnit)
		if final.IsNegative() {
			final = decimal.Zero
			perUnit = price
		}
		applied.DiscountPerUnit = perUnit
		applied.FinalUnitPrice = final
		applied.BadgeText = fmt.Sprintf("%s%% OFF", rule.Value.Percent.String())

	case enums.DiscountTypeFixedAmount:
		perUnit := decimal.NewFromInt(rule.Value.AmountCents)
		if perUnit.GreaterThan(price) {
			perUnit = price
		}
		applied.DiscountPerUnit = perUnit
		applied.FinalUnitPrice = price.Sub(perUnit)
		applied.BadgeText = fmt.Sprintf("%s OFF", formatCents(rule.Value.AmountCents))

	case enums.DiscountTypeBuyXGetY:
		applied.BadgeText = fmt.Sprintf("%dx%d", rule.Value.Buy, rule.Value.Pay)
		if !checkConditions {
			// Badge mode surfaces the promotion without pricing it in; the
			// zero amount keeps it out of the tie-break too.
			applied.FinalUnitPrice = price
			applied.DiscountPerUnit = decimal.Zero
			break
		}
		groups := quantity / rule.Value.Buy
		payable := groups*rule.Value.Pay + (quantity - groups*rule.Value.Buy)
		lineDiscount := price.Mul(decimal.NewFromInt(int64(quantity - payable)))
		applied.FinalUnitPrice = price.Mul(decimal.NewFromInt(int64(payable))).Div(qty)
		applied.DiscountPerUnit = lineDiscount.Div(qty)

	default:
		return nil, false
	}

	applied.LineDiscountCents = applied.DiscountPerUnit.Mul(qty).Round(0).IntPart()
	return applied, true
}

// wins implements the single-winner tie-break: higher priority first, then
// larger line discount. Combinable rules still never stack.
func wins(candidate, current *Applied) bool {
	if candidate.Discount.Priority != current.Discount.Priority {
		return candidate.Discount.Priority > current.Discount.Priority
	}
	return candidate.LineDiscountCents > current.LineDiscountCents
}

func formatCents(cents int64) string {
	return "$" + decimal.NewFromInt(cents).Div(hundred).StringFixed(2)
}
