package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// DiscountType enumerates the supported coupon kinds
type DiscountType string

const (
	DiscountPercentage   DiscountType = "percentage"
	DiscountFixed        DiscountType = "fixed"
	DiscountFreeShipping DiscountType = "free_shipping"
)

// DiscountRule is one coupon definition. Codes are matched
// case-insensitively; rules are immutable once loaded.
type DiscountRule struct {
	Code        string       `json:"code" gorm:"primaryKey;size:32"`
	Type        DiscountType `json:"type" gorm:"size:16;not null"`
	Value       float64      `json:"value" gorm:"not null"`
	MinPurchase float64      `json:"min_purchase"`
	MaxDiscount float64      `json:"max_discount"`
	ValidUntil  *time.Time   `json:"valid_until,omitempty"`
}

// TableName specifies the table name
func (DiscountRule) TableName() string {
	return "discount_rules"
}

// Expired reports whether the rule is past its validity instant
func (r DiscountRule) Expired(now time.Time) bool {
	return r.ValidUntil != nil && !now.Before(*r.ValidUntil)
}

// DefaultDiscountRules returns the built-in coupon table, used when no
// rule store is configured
func DefaultDiscountRules() []DiscountRule {
	return []DiscountRule{
		{Code: "WELCOME10", Type: DiscountPercentage, Value: 10, MinPurchase: 0},
		{Code: "FREESHIP", Type: DiscountFreeShipping, Value: 0, MinPurchase: 50},
		{Code: "SAVE20", Type: DiscountPercentage, Value: 20, MinPurchase: 100, MaxDiscount: 50},
		{Code: "FLAT10", Type: DiscountFixed, Value: 10, MinPurchase: 30},
	}
}

// DiscountResult is the outcome of evaluating a coupon code.
// An invalid code is an expected input, not an error.
type DiscountResult struct {
	Success  bool    `json:"success"`
	Message  string  `json:"message"`
	Discount float64 `json:"-"`
	Shipping float64 `json:"-"`
}

// EvaluateDiscount resolves a coupon code against the rule table and the
// current cart subtotal. It computes the discount amount and the resulting
// shipping value but performs no state mutation; the caller dispatches
// APPLY_DISCOUNT with the returned values.
func EvaluateDiscount(rules []DiscountRule, code string, subtotal, currentShipping float64, now time.Time) DiscountResult {
	normalized := strings.ToUpper(strings.TrimSpace(code))

	var rule *DiscountRule
	for i := range rules {
		if strings.ToUpper(rules[i].Code) == normalized && !rules[i].Expired(now) {
			rule = &rules[i]
			break
		}
	}

	if rule == nil {
		return DiscountResult{Success: false, Message: "Invalid or expired discount code"}
	}

	if rule.MinPurchase > 0 && subtotal < rule.MinPurchase {
		return DiscountResult{
			Success: false,
			Message: fmt.Sprintf("Minimum purchase of $%g required", rule.MinPurchase),
		}
	}

	var discount float64
	shipping := currentShipping

	switch rule.Type {
	case DiscountPercentage:
		discount = subtotal * rule.Value / 100
		if rule.MaxDiscount > 0 {
			discount = math.Min(discount, rule.MaxDiscount)
		}
	case DiscountFixed:
		discount = rule.Value
	case DiscountFreeShipping:
		shipping = 0
	}

	message := fmt.Sprintf("Discount applied successfully! $%.2f off", discount)
	if rule.Type == DiscountFreeShipping {
		message = "Discount applied successfully! Free shipping activated!"
	}

	return DiscountResult{
		Success:  true,
		Message:  message,
		Discount: discount,
		Shipping: shipping,
	}
}
