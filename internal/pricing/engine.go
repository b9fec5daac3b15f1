package pricing

import "math"

// Breakdown holds every value derived from one calculation. Every field is
// finite, and AfterCoupon and all values downstream of it are never negative.
type Breakdown struct {
	Subtotal                 float64 `json:"subtotal"`
	DiscountAmount           float64 `json:"discountAmount"`
	AfterDiscount            float64 `json:"afterDiscount"`
	AdditionalDiscountAmount float64 `json:"additionalDiscountAmount"`
	AfterAdditionalDiscount  float64 `json:"afterAdditionalDiscount"`
	CouponApplied            float64 `json:"couponApplied"`
	AfterCoupon              float64 `json:"afterCoupon"`
	TaxAmount                float64 `json:"taxAmount"`
	Total                    float64 `json:"total"`
	Savings                  float64 `json:"savings"`
	SavingsPercent           float64 `json:"savingsPercent"`
}

// Compute runs the coupon-mode pipeline: discount, then a coupon that is
// either a flat amount or a percentage of the discounted subtotal, then tax.
// The additional stage passes the discounted subtotal through unchanged.
func Compute(in Input) Breakdown {
	subtotal, discountAmount, afterDiscount := discount(in.Price, in.Quantity, in.DiscountPercent)

	var couponApplied float64
	switch in.Coupon {
	case CouponAmountOff:
		couponApplied = in.CouponAmount
	case CouponPercentOff:
		couponApplied = percentOf(afterDiscount, in.CouponPercent)
	}

	b := Breakdown{
		Subtotal:                subtotal,
		DiscountAmount:          discountAmount,
		AfterDiscount:           afterDiscount,
		AfterAdditionalDiscount: afterDiscount,
		CouponApplied:           couponApplied,
	}
	return settle(b, afterDiscount, in.IncludeTax, in.TaxRate)
}

// ComputeStacked runs the dual-stage pipeline. The additional percentage
// compounds on the discounted subtotal and the flat coupon comes off after it.
func ComputeStacked(in StackedInput) Breakdown {
	subtotal, discountAmount, afterDiscount := discount(in.Price, in.Quantity, in.DiscountPercent)
	additionalAmount := percentOf(afterDiscount, in.AdditionalDiscountPercent)
	afterAdditional := afterDiscount - additionalAmount

	b := Breakdown{
		Subtotal:                 subtotal,
		DiscountAmount:           discountAmount,
		AfterDiscount:            afterDiscount,
		AdditionalDiscountAmount: additionalAmount,
		AfterAdditionalDiscount:  afterAdditional,
		CouponApplied:            in.CouponAmount,
	}
	return settle(b, afterAdditional, in.IncludeTax, in.TaxRate)
}

// discount may return a negative afterDiscount when the percentage exceeds 100.
func discount(price float64, quantity int64, percent float64) (subtotal, amount, after float64) {
	subtotal = float64(price * float64(quantity))
	amount = percentOf(subtotal, percent)
	after = subtotal - amount
	return subtotal, amount, after
}

// settle applies the coupon against base, floors at zero, then derives tax,
// total and savings. Values that overflowed to Inf or NaN are reported as 0.
func settle(b Breakdown, base float64, includeTax bool, taxRate float64) Breakdown {
	b.AfterCoupon = math.Max(0, finiteOrZero(base-b.CouponApplied))
	if includeTax {
		b.TaxAmount = percentOf(b.AfterCoupon, taxRate)
	}
	b.Total = b.AfterCoupon + b.TaxAmount
	b.Savings = b.Subtotal - b.AfterCoupon
	if b.Subtotal > 0 {
		b.SavingsPercent = float64(float64(b.Savings/b.Subtotal) * 100)
	}
	return b.finite()
}

func (b Breakdown) finite() Breakdown {
	for _, f := range []*float64{
		&b.Subtotal, &b.DiscountAmount, &b.AfterDiscount,
		&b.AdditionalDiscountAmount, &b.AfterAdditionalDiscount, &b.CouponApplied,
		&b.AfterCoupon, &b.TaxAmount, &b.Total, &b.Savings, &b.SavingsPercent,
	} {
		*f = finiteOrZero(*f)
	}
	return b
}

// percentOf rounds the product explicitly so it is never fused with a
// following add or subtract.
func percentOf(v, percent float64) float64 {
	return float64(v * (percent / 100))
}
