package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shopnow/storefront/internal/cart/domain"
)

func evaluate(t *testing.T, code string, subtotal, shipping float64) domain.DiscountResult {
	t.Helper()
	return domain.EvaluateDiscount(domain.DefaultDiscountRules(), code, subtotal, shipping, time.Now())
}

func TestEvaluateDiscount_UnknownCode(t *testing.T) {
	result := evaluate(t, "NOPE", 100, 0)

	require.False(t, result.Success)
	require.Equal(t, "Invalid or expired discount code", result.Message)
}

func TestEvaluateDiscount_CodeIsCaseInsensitive(t *testing.T) {
	result := evaluate(t, "  welcome10 ", 100, 0)

	require.True(t, result.Success)
	require.InDelta(t, 10.0, result.Discount, 1e-9)
}

func TestEvaluateDiscount_PercentageCappedByMaxDiscount(t *testing.T) {
	// SAVE20 on $200 would be $40, under the $50 cap
	result := evaluate(t, "SAVE20", 200, 0)
	require.True(t, result.Success)
	require.InDelta(t, 40.0, result.Discount, 1e-9)

	// SAVE20 on $500 would be $100, capped at $50
	result = evaluate(t, "SAVE20", 500, 0)
	require.True(t, result.Success)
	require.InDelta(t, 50.0, result.Discount, 1e-9)
}

func TestEvaluateDiscount_MinPurchaseNotMet(t *testing.T) {
	result := evaluate(t, "FLAT10", 20, 0)

	require.False(t, result.Success)
	require.Equal(t, "Minimum purchase of $30 required", result.Message)
}

func TestEvaluateDiscount_FixedAmount(t *testing.T) {
	result := evaluate(t, "FLAT10", 30, 5.99)

	require.True(t, result.Success)
	require.InDelta(t, 10.0, result.Discount, 1e-9)
	require.InDelta(t, 5.99, result.Shipping, 1e-9)
}

func TestEvaluateDiscount_FreeShipping(t *testing.T) {
	result := evaluate(t, "FREESHIP", 60, 5.99)

	require.True(t, result.Success)
	require.Zero(t, result.Discount)
	require.Zero(t, result.Shipping)
	require.Equal(t, "Discount applied successfully! Free shipping activated!", result.Message)
}

func TestEvaluateDiscount_ExpiredRule(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	rules := []domain.DiscountRule{
		{Code: "GONE", Type: domain.DiscountFixed, Value: 5, ValidUntil: &past},
	}

	result := domain.EvaluateDiscount(rules, "GONE", 100, 0, time.Now())

	require.False(t, result.Success)
}

func TestEvaluateDiscount_ValidUntilIsStrictInstant(t *testing.T) {
	// A rule is expired exactly at its validity instant
	now := time.Now()
	rules := []domain.DiscountRule{
		{Code: "EDGE", Type: domain.DiscountFixed, Value: 5, ValidUntil: &now},
	}

	result := domain.EvaluateDiscount(rules, "EDGE", 100, 0, now)

	require.False(t, result.Success)
}
