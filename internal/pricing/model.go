package pricing

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Model names one of the two coupon models. They are alternative evolutions
// of the calculator and are never merged.
type Model string

const (
	// ModelCoupon selects a single coupon that is none, a flat amount or a percentage.
	ModelCoupon Model = "coupon"
	// ModelStacked always applies an additional percentage and a flat coupon.
	ModelStacked Model = "stacked"
)

// ErrUnknownModel is returned for model names outside the supported set.
var ErrUnknownModel = errors.New("pricing: unknown model")

// ParseModel resolves a model name. An empty name selects ModelCoupon.
func ParseModel(name string) (Model, error) {
	switch Model(strings.ToLower(strings.TrimSpace(name))) {
	case "", ModelCoupon:
		return ModelCoupon, nil
	case ModelStacked:
		return ModelStacked, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownModel, name)
	}
}

// Quote is the outcome of one calculation. Exactly one of Input and
// StackedInput is set, matching Model.
type Quote struct {
	Model        Model         `json:"model"`
	Input        *Input        `json:"input,omitempty"`
	StackedInput *StackedInput `json:"stackedInput,omitempty"`
	Breakdown    Breakdown     `json:"breakdown"`
}

// QuoteCoupon sanitizes and computes a coupon-mode record.
func QuoteCoupon(raw RawInput) Quote {
	in := Sanitize(raw)
	return Quote{Model: ModelCoupon, Input: &in, Breakdown: Compute(in)}
}

// QuoteStacked sanitizes and computes a dual-stage record.
func QuoteStacked(raw RawStackedInput) Quote {
	in := SanitizeStacked(raw)
	return Quote{Model: ModelStacked, StackedInput: &in, Breakdown: ComputeStacked(in)}
}

// DecodeQuote decodes a JSON record for the given model and computes it. The
// only failure is malformed JSON; field values themselves are never rejected.
func DecodeQuote(m Model, data []byte) (Quote, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	switch m {
	case ModelStacked:
		var raw RawStackedInput
		if err := dec.Decode(&raw); err != nil {
			return Quote{}, fmt.Errorf("pricing: decode stacked input: %w", err)
		}
		return QuoteStacked(raw), nil
	case ModelCoupon:
		var raw RawInput
		if err := dec.Decode(&raw); err != nil {
			return Quote{}, fmt.Errorf("pricing: decode input: %w", err)
		}
		return QuoteCoupon(raw), nil
	default:
		return Quote{}, fmt.Errorf("%w: %q", ErrUnknownModel, string(m))
	}
}
