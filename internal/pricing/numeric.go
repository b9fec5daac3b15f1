// Package pricing implements the discount and tax calculator core: a loose numeric
// parser, the input sanitizer and the breakdown engine.
package pricing

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ParseNumber converts loosely formatted text into a finite float64.
// Currency and percent symbols, whitespace and thousands separators in either
// comma or dot convention are accepted. Anything unparseable yields 0.
func ParseNumber(text string) float64 {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}

	normalized := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '$' || r == '%' {
			return -1
		}
		return r
	}, trimmed)

	hasDot := strings.Contains(normalized, ".")
	hasComma := strings.Contains(normalized, ",")

	switch {
	case hasComma && hasDot:
		if strings.LastIndex(normalized, ",") > strings.LastIndex(normalized, ".") {
			normalized = strings.ReplaceAll(normalized, ".", "")
			normalized = strings.Replace(normalized, ",", ".", 1)
		} else {
			normalized = strings.ReplaceAll(normalized, ",", "")
		}
	case hasComma:
		parts := strings.Split(normalized, ",")
		if len(parts) == 2 && parts[1] != "" && utf8.RuneCountInString(parts[1]) <= 2 {
			normalized = parts[0] + "." + parts[1]
		} else {
			normalized = strings.ReplaceAll(normalized, ",", "")
		}
	}

	normalized = strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '+' || r == '-' {
			return r
		}
		return -1
	}, normalized)

	switch normalized {
	case "", "+", "-", ".", "-.":
		return 0
	}

	parsed, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0
	}
	return finiteOrZero(parsed)
}

// ParseValue coerces an arbitrary primitive into a finite float64.
func ParseValue(v any) float64 {
	switch val := v.(type) {
	case nil:
		return 0
	case float64:
		return finiteOrZero(val)
	case float32:
		return finiteOrZero(float64(val))
	case int:
		return float64(val)
	case int8:
		return float64(val)
	case int16:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case uint:
		return float64(val)
	case uint8:
		return float64(val)
	case uint16:
		return float64(val)
	case uint32:
		return float64(val)
	case uint64:
		return float64(val)
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return 0
		}
		return finiteOrZero(parsed)
	case string:
		return ParseNumber(val)
	case fmt.Stringer:
		return ParseNumber(val.String())
	default:
		return 0
	}
}

// ParseFlag coerces a loosely typed toggle into a bool. Strings are read
// with strconv.ParseBool plus the common form values "on"/"yes"; numbers are
// true when non-zero.
func ParseFlag(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		s := strings.ToLower(strings.TrimSpace(val))
		switch s {
		case "on", "yes", "y":
			return true
		case "off", "no", "n", "":
			return false
		}
		b, err := strconv.ParseBool(s)
		if err != nil {
			return false
		}
		return b
	default:
		return ParseValue(v) != 0
	}
}

// NormalizeDecimalText strips redundant leading zeros from a decimal field
// while it is being typed ("007.5" becomes "7.5", "0.5" is kept).
func NormalizeDecimalText(value string) string {
	if len(value) > 1 && strings.HasPrefix(value, "0") && !strings.HasPrefix(value, "0.") {
		stripped := strings.TrimLeft(value, "0")
		if stripped == "" {
			return "0"
		}
		return stripped
	}
	return value
}

// NormalizeIntegerText strips leading zeros from an integer field.
func NormalizeIntegerText(value string) string {
	if len(value) > 1 && strings.HasPrefix(value, "0") {
		stripped := strings.TrimLeft(value, "0")
		if stripped == "" {
			return "0"
		}
		return stripped
	}
	return value
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func clampNonNegative(v any) float64 {
	return math.Max(0, ParseValue(v))
}

// MaxQuantity caps sanitized quantities at 2^53, below which every integer
// is exact as a float64.
const MaxQuantity int64 = 1 << 53

func normalizeQuantity(v any) int64 {
	floored := math.Floor(clampNonNegative(v))
	if floored < 1 {
		return 1
	}
	if floored >= float64(MaxQuantity) {
		return MaxQuantity
	}
	return int64(floored)
}
