package pricing

import "strings"

// CouponType selects how the coupon reduces the discounted subtotal.
type CouponType string

// Coupon types accepted by the coupon-mode model.
const (
	CouponNone       CouponType = "none"
	CouponAmountOff  CouponType = "$off"
	CouponPercentOff CouponType = "%off"
)

// ParseCouponType maps a loose value onto the closed coupon set. Unknown
// values fall back to CouponNone.
func ParseCouponType(v any) CouponType {
	var s string
	switch val := v.(type) {
	case CouponType:
		s = string(val)
	case string:
		s = val
	default:
		return CouponNone
	}
	switch CouponType(strings.TrimSpace(s)) {
	case CouponAmountOff:
		return CouponAmountOff
	case CouponPercentOff:
		return CouponPercentOff
	default:
		return CouponNone
	}
}

// RawInput is an untrusted calculator record, typically decoded from a form
// or JSON body. Fields may hold text, numbers or nothing at all.
type RawInput struct {
	Price           any `json:"price"`
	DiscountPercent any `json:"discountPercent"`
	Quantity        any `json:"quantity"`
	IncludeTax      any `json:"includeTax"`
	TaxRate         any `json:"taxRate"`
	CouponType      any `json:"couponType"`
	CouponAmount    any `json:"couponAmount"`
	CouponPercent   any `json:"couponPercent"`
}

// Input is a sanitized calculator record. Every numeric field is finite and
// non-negative, Quantity is at least 1, and only the coupon field belonging
// to Coupon may be non-zero.
type Input struct {
	Price           float64    `json:"price"`
	DiscountPercent float64    `json:"discountPercent"`
	Quantity        int64      `json:"quantity"`
	IncludeTax      bool       `json:"includeTax"`
	TaxRate         float64    `json:"taxRate"`
	Coupon          CouponType `json:"couponType"`
	CouponAmount    float64    `json:"couponAmount"`
	CouponPercent   float64    `json:"couponPercent"`
}

// Sanitize validates and clamps a raw record. It never fails.
func Sanitize(raw RawInput) Input {
	coupon := ParseCouponType(raw.CouponType)

	in := Input{
		Price:           clampNonNegative(raw.Price),
		DiscountPercent: clampNonNegative(raw.DiscountPercent),
		Quantity:        normalizeQuantity(raw.Quantity),
		IncludeTax:      ParseFlag(raw.IncludeTax),
		TaxRate:         clampNonNegative(raw.TaxRate),
		Coupon:          coupon,
	}
	switch coupon {
	case CouponAmountOff:
		in.CouponAmount = clampNonNegative(raw.CouponAmount)
	case CouponPercentOff:
		in.CouponPercent = clampNonNegative(raw.CouponPercent)
	}
	return in
}

// Raw lifts a sanitized record back into raw form.
func (in Input) Raw() RawInput {
	return RawInput{
		Price:           in.Price,
		DiscountPercent: in.DiscountPercent,
		Quantity:        in.Quantity,
		IncludeTax:      in.IncludeTax,
		TaxRate:         in.TaxRate,
		CouponType:      string(in.Coupon),
		CouponAmount:    in.CouponAmount,
		CouponPercent:   in.CouponPercent,
	}
}

// RawStackedInput is the untrusted record of the dual-stage model, where an
// additional percentage and a flat coupon are always applied.
type RawStackedInput struct {
	Price                     any `json:"price"`
	DiscountPercent           any `json:"discountPercent"`
	Quantity                  any `json:"quantity"`
	IncludeTax                any `json:"includeTax"`
	TaxRate                   any `json:"taxRate"`
	AdditionalDiscountPercent any `json:"additionalDiscountPercent"`
	CouponAmount              any `json:"couponAmount"`
}

// StackedInput is a sanitized dual-stage record.
type StackedInput struct {
	Price                     float64 `json:"price"`
	DiscountPercent           float64 `json:"discountPercent"`
	Quantity                  int64   `json:"quantity"`
	IncludeTax                bool    `json:"includeTax"`
	TaxRate                   float64 `json:"taxRate"`
	AdditionalDiscountPercent float64 `json:"additionalDiscountPercent"`
	CouponAmount              float64 `json:"couponAmount"`
}

// SanitizeStacked validates and clamps a raw dual-stage record.
func SanitizeStacked(raw RawStackedInput) StackedInput {
	return StackedInput{
		Price:                     clampNonNegative(raw.Price),
		DiscountPercent:           clampNonNegative(raw.DiscountPercent),
		Quantity:                  normalizeQuantity(raw.Quantity),
		IncludeTax:                ParseFlag(raw.IncludeTax),
		TaxRate:                   clampNonNegative(raw.TaxRate),
		AdditionalDiscountPercent: clampNonNegative(raw.AdditionalDiscountPercent),
		CouponAmount:              clampNonNegative(raw.CouponAmount),
	}
}

// Raw lifts a sanitized dual-stage record back into raw form.
func (in StackedInput) Raw() RawStackedInput {
	return RawStackedInput{
		Price:                     in.Price,
		DiscountPercent:           in.DiscountPercent,
		Quantity:                  in.Quantity,
		IncludeTax:                in.IncludeTax,
		TaxRate:                   in.TaxRate,
		AdditionalDiscountPercent: in.AdditionalDiscountPercent,
		CouponAmount:              in.CouponAmount,
	}
}
