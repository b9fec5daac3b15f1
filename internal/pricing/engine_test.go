package pricing

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeNoCoupon(t *testing.T) {
	in := Sanitize(RawInput{
		Price:           100,
		DiscountPercent: 20,
		Quantity:        2,
		IncludeTax:      true,
		TaxRate:         7.25,
	})

	b := Compute(in)

	assert.Equal(t, 200.0, b.Subtotal)
	assert.Equal(t, 40.0, b.DiscountAmount)
	assert.Equal(t, 160.0, b.AfterDiscount)
	assert.Equal(t, 160.0, b.AfterAdditionalDiscount)
	assert.Zero(t, b.AdditionalDiscountAmount)
	assert.Zero(t, b.CouponApplied)
	assert.Equal(t, 160.0, b.AfterCoupon)
	assert.Equal(t, 11.6, b.TaxAmount)
	assert.Equal(t, 171.6, b.Total)
	assert.Equal(t, 40.0, b.Savings)
	assert.Equal(t, 20.0, b.SavingsPercent)
}

func TestComputeFlatCouponKeepsFloatArtifacts(t *testing.T) {
	in := Sanitize(RawInput{
		Price:           49.99,
		DiscountPercent: 25,
		Quantity:        2,
		IncludeTax:      true,
		TaxRate:         7.25,
		CouponType:      "$off",
		CouponAmount:    5,
	})

	b := Compute(in)

	assert.Equal(t, 99.98, b.Subtotal)
	assert.Equal(t, 24.995, b.DiscountAmount)
	assert.Equal(t, 74.985, b.AfterDiscount)
	assert.Equal(t, 5.0, b.CouponApplied)
	assert.Equal(t, 69.985, b.AfterCoupon)
	assert.Equal(t, 5.0739125, b.TaxAmount)
	assert.Equal(t, 75.0589125, b.Total)
	assert.Equal(t, 29.995000000000005, b.Savings)
	assert.Equal(t, 30.00100020004001, b.SavingsPercent)
}

func TestComputePercentCouponUsesDiscountedSubtotal(t *testing.T) {
	in := Sanitize(RawInput{
		Price:           200,
		DiscountPercent: 25,
		Quantity:        1,
		CouponType:      "%off",
		CouponPercent:   10,
	})

	b := Compute(in)

	assert.Equal(t, 150.0, b.AfterDiscount)
	assert.Equal(t, 15.0, b.CouponApplied)
	assert.Equal(t, 135.0, b.AfterCoupon)
	assert.Zero(t, b.TaxAmount)
	assert.Equal(t, 135.0, b.Total)
	assert.Equal(t, 65.0, b.Savings)
	assert.Equal(t, 32.5, b.SavingsPercent)
}

func TestComputeTaxIgnoredWhenExcluded(t *testing.T) {
	b := Compute(Sanitize(RawInput{Price: 10, Quantity: 1, IncludeTax: false, TaxRate: 50}))
	assert.Zero(t, b.TaxAmount)
	assert.Equal(t, 10.0, b.Total)
}

func TestComputeCouponLargerThanRemainderFloorsAtZero(t *testing.T) {
	b := Compute(Sanitize(RawInput{
		Price:        20,
		Quantity:     1,
		IncludeTax:   true,
		TaxRate:      10,
		CouponType:   "$off",
		CouponAmount: 50,
	}))

	assert.Zero(t, b.AfterCoupon)
	assert.Zero(t, b.TaxAmount)
	assert.Zero(t, b.Total)
	assert.Equal(t, 20.0, b.Savings)
	assert.Equal(t, 100.0, b.SavingsPercent)
}

func TestComputeDiscountAboveHundredLeavesNegativeIntermediate(t *testing.T) {
	b := Compute(Sanitize(RawInput{Price: 100, Quantity: 1, DiscountPercent: 150, IncludeTax: true, TaxRate: 8}))

	assert.Equal(t, -50.0, b.AfterDiscount)
	assert.Zero(t, b.AfterCoupon)
	assert.Zero(t, b.Total)
	assert.Equal(t, 100.0, b.Savings)
}

func TestComputeStackedAppliesBothStages(t *testing.T) {
	in := SanitizeStacked(RawStackedInput{
		Price:                     1500,
		DiscountPercent:           40,
		Quantity:                  1,
		IncludeTax:                true,
		TaxRate:                   8,
		AdditionalDiscountPercent: 10,
		CouponAmount:              25,
	})

	b := ComputeStacked(in)

	assert.Equal(t, 1500.0, b.Subtotal)
	assert.Equal(t, 600.0, b.DiscountAmount)
	assert.Equal(t, 900.0, b.AfterDiscount)
	assert.Equal(t, 90.0, b.AdditionalDiscountAmount)
	assert.Equal(t, 810.0, b.AfterAdditionalDiscount)
	assert.Equal(t, 25.0, b.CouponApplied)
	assert.Equal(t, 785.0, b.AfterCoupon)
	assert.InDelta(t, 62.8, b.TaxAmount, 1e-10)
	assert.InDelta(t, 847.8, b.Total, 1e-10)
}

func TestComputeStackedCompoundsOnDiscountedSubtotal(t *testing.T) {
	b := ComputeStacked(SanitizeStacked(RawStackedInput{
		Price:                     200,
		DiscountPercent:           25,
		Quantity:                  1,
		AdditionalDiscountPercent: 10,
	}))

	assert.Equal(t, 150.0, b.AfterDiscount)
	assert.Equal(t, 15.0, b.AdditionalDiscountAmount)
	assert.Equal(t, 135.0, b.AfterAdditionalDiscount)
}

func TestComputeStackedFloorsBeforeTax(t *testing.T) {
	b := ComputeStacked(SanitizeStacked(RawStackedInput{
		Price:                     50,
		DiscountPercent:           0,
		Quantity:                  1,
		IncludeTax:                true,
		TaxRate:                   8,
		AdditionalDiscountPercent: 20,
		CouponAmount:              100,
	}))

	assert.Equal(t, 40.0, b.AfterAdditionalDiscount)
	assert.Zero(t, b.AfterCoupon)
	assert.Zero(t, b.TaxAmount)
	assert.Zero(t, b.Total)
}

func TestComputeInvariantsHold(t *testing.T) {
	prices := []any{0, 0.01, 49.99, "1.234,56", -5, 1e6}
	discounts := []any{0, 12.5, 100, 250}
	coupons := []RawInput{
		{CouponType: "none"},
		{CouponType: "$off", CouponAmount: 3},
		{CouponType: "$off", CouponAmount: 1e7},
		{CouponType: "%off", CouponPercent: 40},
		{CouponType: "%off", CouponPercent: 400},
	}
	for _, price := range prices {
		for _, discount := range discounts {
			for _, coupon := range coupons {
				raw := coupon
				raw.Price = price
				raw.DiscountPercent = discount
				raw.Quantity = 3
				raw.IncludeTax = true
				raw.TaxRate = 9.5
				b := Compute(Sanitize(raw))

				require.GreaterOrEqual(t, b.AfterCoupon, 0.0)
				require.GreaterOrEqual(t, b.Total, b.AfterCoupon)
				require.GreaterOrEqual(t, b.Total, 0.0)
				if b.Subtotal == 0 {
					require.Zero(t, b.SavingsPercent)
				}
			}
		}
	}
}

func TestComputeDoesNotMutateInput(t *testing.T) {
	in := Sanitize(RawInput{Price: 10, Quantity: 2, CouponType: "%off", CouponPercent: 10})
	before := in
	_ = Compute(in)
	assert.Equal(t, before, in)
}

func requireFiniteBreakdown(t *testing.T, b Breakdown) {
	t.Helper()
	for name, v := range map[string]float64{
		"subtotal": b.Subtotal, "discountAmount": b.DiscountAmount, "afterDiscount": b.AfterDiscount,
		"additionalDiscountAmount": b.AdditionalDiscountAmount, "afterAdditionalDiscount": b.AfterAdditionalDiscount,
		"couponApplied": b.CouponApplied, "afterCoupon": b.AfterCoupon, "taxAmount": b.TaxAmount,
		"total": b.Total, "savings": b.Savings, "savingsPercent": b.SavingsPercent,
	} {
		require.False(t, math.IsNaN(v) || math.IsInf(v, 0), "%s = %v", name, v)
	}
	require.GreaterOrEqual(t, b.AfterCoupon, 0.0)
	require.GreaterOrEqual(t, b.Total, 0.0)
}

func TestComputeOverflowingInputsStayFinite(t *testing.T) {
	huge := strings.Repeat("9", 308)
	raws := []RawInput{
		{Price: huge, Quantity: 10},
		{Price: huge, Quantity: 10, DiscountPercent: 50, IncludeTax: true, TaxRate: 8},
		{Price: huge, Quantity: 10, CouponType: "%off", CouponPercent: 20},
		{Price: 1e308, Quantity: 1, IncludeTax: true, TaxRate: 1e308},
		{Price: math.MaxFloat64, Quantity: 1, CouponType: "$off", CouponAmount: math.MaxFloat64},
	}
	for _, raw := range raws {
		requireFiniteBreakdown(t, Compute(Sanitize(raw)))
	}

	stacked := []RawStackedInput{
		{Price: huge, Quantity: 10, AdditionalDiscountPercent: 20, CouponAmount: 5},
		{Price: 1e308, Quantity: 3, IncludeTax: true, TaxRate: 50},
	}
	for _, raw := range stacked {
		requireFiniteBreakdown(t, ComputeStacked(SanitizeStacked(raw)))
	}
}

func TestComputeLargeQuantityIsExact(t *testing.T) {
	b := Compute(Sanitize(RawInput{Price: 1, Quantity: "3000000000"}))
	assert.Equal(t, 3e9, b.Subtotal)
	assert.Equal(t, 3e9, b.Total)
}
