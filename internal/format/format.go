// Package format renders calculator values for the single en-US display locale.
package format

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/priceslice/priceslice/internal/pricing"
)

var (
	displayLocale = language.AmericanEnglish
	displayUnit   = currency.USD
	printer       = message.NewPrinter(displayLocale)
)

// Currency returns the ISO code of the display currency.
func Currency() string {
	return displayUnit.String()
}

// USD formats v as dollars with grouping and two decimals, e.g. "$1,234.50".
func USD(v float64) string {
	safe := finite(v)
	sign := ""
	if safe < 0 {
		sign = "-"
		safe = -safe
	}
	// drop negative zero
	if safe == 0 {
		safe = 0
	}
	return sign + "$" + printer.Sprint(number.Decimal(safe, number.Scale(2)))
}

// Percent formats v with a fixed number of decimals followed by "%". The
// exact binary value is rounded, so 1.005 renders as "1.00%".
func Percent(v float64, digits int) string {
	if digits < 0 {
		digits = 0
	}
	places := int32(digits)
	return decimal.NewFromFloatWithExponent(finite(v), -places).StringFixed(places) + "%"
}

// Rate formats a configured rate: whole numbers without decimals, anything
// else with two.
func Rate(v float64) string {
	safe := finite(v)
	if safe == math.Trunc(safe) {
		return strconv.FormatFloat(safe, 'f', -1, 64) + "%"
	}
	return Percent(safe, 2)
}

// Timestamp formats t as "2006-01-02 3:04 PM" in t's location.
func Timestamp(t time.Time) string {
	return t.Format("2006-01-02 3:04 PM")
}

// BreakdownText renders a coupon-mode calculation as shareable plain text.
func BreakdownText(in pricing.Input, b pricing.Breakdown, at time.Time) string {
	lines := header(in.Price, in.Quantity, in.DiscountPercent, b, at)

	switch in.Coupon {
	case pricing.CouponAmountOff:
		lines = append(lines, "Coupon: -"+USD(b.CouponApplied))
	case pricing.CouponPercentOff:
		lines = append(lines, "Coupon: "+Rate(in.CouponPercent)+" (-"+USD(b.CouponApplied)+")")
	}

	return strings.Join(footer(lines, in.IncludeTax, in.TaxRate, b), "\n")
}

// StackedBreakdownText renders a dual-stage calculation as shareable plain text.
func StackedBreakdownText(in pricing.StackedInput, b pricing.Breakdown, at time.Time) string {
	lines := header(in.Price, in.Quantity, in.DiscountPercent, b, at)

	if in.AdditionalDiscountPercent > 0 {
		lines = append(lines,
			"Additional discount: "+Rate(in.AdditionalDiscountPercent)+" (-"+USD(b.AdditionalDiscountAmount)+")",
			"After additional discount: "+USD(b.AfterAdditionalDiscount),
		)
	}
	if in.CouponAmount > 0 {
		lines = append(lines, "Coupon: -"+USD(b.CouponApplied))
	}

	return strings.Join(footer(lines, in.IncludeTax, in.TaxRate, b), "\n")
}

// QuoteText renders whichever input a quote carries.
func QuoteText(q pricing.Quote, at time.Time) string {
	switch {
	case q.StackedInput != nil:
		return StackedBreakdownText(*q.StackedInput, q.Breakdown, at)
	case q.Input != nil:
		return BreakdownText(*q.Input, q.Breakdown, at)
	default:
		return ""
	}
}

func header(price float64, quantity int64, discountPercent float64, b pricing.Breakdown, at time.Time) []string {
	return []string{
		"Price Slice - " + Timestamp(at),
		"Original price: " + USD(price),
		"Quantity: " + strconv.FormatInt(quantity, 10),
		"Subtotal: " + USD(b.Subtotal),
		"Discount: " + Rate(discountPercent) + " (-" + USD(b.DiscountAmount) + ")",
		"After discount: " + USD(b.AfterDiscount),
	}
}

func footer(lines []string, includeTax bool, taxRate float64, b pricing.Breakdown) []string {
	if includeTax {
		lines = append(lines, "Tax: "+Rate(taxRate)+" (+"+USD(b.TaxAmount)+")")
	}
	return append(lines,
		"Total: "+USD(b.Total),
		"You save: "+USD(b.Savings)+" ("+Percent(b.SavingsPercent, 2)+")",
	)
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
