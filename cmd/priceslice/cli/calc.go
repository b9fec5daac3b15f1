package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/priceslice/priceslice/internal/format"
	"github.com/priceslice/priceslice/internal/pricing"
)

// CalcOptions defines available flags for the calc command. Numeric fields
// are kept as the text the user typed; the calculator parses them.
type CalcOptions struct {
	Model         string
	Price         string
	Discount      string
	Quantity      string
	IncludeTax    bool
	TaxRate       string
	Coupon        string
	CouponAmount  string
	CouponPercent string
	Additional    string
	JSONOutput    bool
	Now           func() time.Time
	Stdout        io.Writer
	Stderr        io.Writer
}

// CalcSummary is the JSON document printed with --json.
type CalcSummary struct {
	pricing.Quote
	Text string `json:"text"`
}

// CalcCommand computes one breakdown and prints it. It returns the process
// exit code.
func CalcCommand(ctx context.Context, opts CalcOptions) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if err := ctx.Err(); err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "calc: %v\n", err)
		return 1
	}

	model, err := pricing.ParseModel(opts.Model)
	if err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "calc: %v\n", err)
		return 1
	}

	var q pricing.Quote
	switch model {
	case pricing.ModelStacked:
		q = pricing.QuoteStacked(pricing.RawStackedInput{
			Price:                     opts.Price,
			DiscountPercent:           opts.Discount,
			Quantity:                  opts.Quantity,
			IncludeTax:                opts.IncludeTax,
			TaxRate:                   opts.TaxRate,
			AdditionalDiscountPercent: opts.Additional,
			CouponAmount:              opts.CouponAmount,
		})
	default:
		q = pricing.QuoteCoupon(pricing.RawInput{
			Price:           opts.Price,
			DiscountPercent: opts.Discount,
			Quantity:        opts.Quantity,
			IncludeTax:      opts.IncludeTax,
			TaxRate:         opts.TaxRate,
			CouponType:      opts.Coupon,
			CouponAmount:    opts.CouponAmount,
			CouponPercent:   opts.CouponPercent,
		})
	}

	text := format.QuoteText(q, opts.Now())
	if opts.JSONOutput {
		enc := json.NewEncoder(opts.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(CalcSummary{Quote: q, Text: text}); err != nil {
			_, _ = fmt.Fprintf(opts.Stderr, "calc: encode json: %v\n", err)
			return 1
		}
		return 0
	}
	_, _ = fmt.Fprintln(opts.Stdout, text)
	return 0
}
