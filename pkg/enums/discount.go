package enums

import "fmt"

// DiscountType selects how a promotional rule reduces a line price.
type DiscountType string

const (
	DiscountTypePercentage  DiscountType = "percentage"
	DiscountTypeFixedAmount DiscountType = "fixed_amount"
	DiscountTypeBuyXGetY    DiscountType = "buy_x_get_y"
)

var validDiscountTypes = []DiscountType{
	DiscountTypePercentage,
	DiscountTypeFixedAmount,
	DiscountTypeBuyXGetY,
}

func (d DiscountType) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DiscountType.
func (d DiscountType) IsValid() bool {
	for _, candidate := range validDiscountTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDiscountType converts raw input into a DiscountType.
func ParseDiscountType(value string) (DiscountType, error) {
	for _, candidate := range validDiscountTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid discount type %q", value)
}

// TargetType scopes a discount rule to part of the catalog.
type TargetType string

const (
	TargetTypeAll      TargetType = "all"
	TargetTypeProduct  TargetType = "product"
	TargetTypeCategory TargetType = "category"
	TargetTypeTag      TargetType = "tag"
)

var validTargetTypes = []TargetType{
	TargetTypeAll,
	TargetTypeProduct,
	TargetTypeCategory,
	TargetTypeTag,
}

func (t TargetType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TargetType.
func (t TargetType) IsValid() bool {
	for _, candidate := range validTargetTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ConditionType gates a discount rule on cart quantities or amounts.
type ConditionType string

const (
	ConditionTypeMinQuantity ConditionType = "min_quantity"
	ConditionTypeMinAmount   ConditionType = "min_amount"
)

var validConditionTypes = []ConditionType{
	ConditionTypeMinQuantity,
	ConditionTypeMinAmount,
}

func (c ConditionType) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ConditionType.
func (c ConditionType) IsValid() bool {
	for _, candidate := range validConditionTypes {
		if candidate == c {
			return true
		}
	}
	return false
}
