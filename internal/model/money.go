package model

import (
	"html"
	"strconv"
	"strings"
)

// ParseAmount converts a decimal string amount to a float64.
// Store APIs report money as decimal strings (e.g. "99.00").
// Handles edge cases: empty strings, malformed values → 0.
func ParseAmount(s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// FormatAmount renders an amount with the given number of decimal places,
// rounding halves up, with no grouping separators. This matches how store
// templates format money cell values.
// Examples: FormatAmount(1234.5, 2) -> "1234.50", FormatAmount(99, 0) -> "99"
func FormatAmount(v float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}

	// Round on the shortest decimal representation rather than the raw
	// binary value: 99.005 is stored just below the exact half, and
	// FormatFloat with a fixed precision would round it down.
	s := strconv.FormatFloat(v, 'f', -1, 64)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}

	if len(fracPart) > decimals {
		roundUp := fracPart[decimals] >= '5'
		fracPart = fracPart[:decimals]
		if roundUp {
			digits := []byte(intPart + fracPart)
			i := len(digits) - 1
			for ; i >= 0; i-- {
				if digits[i] < '9' {
					digits[i]++
					break
				}
				digits[i] = '0'
			}
			if i < 0 {
				digits = append([]byte{'1'}, digits...)
			}
			intPart = string(digits[:len(digits)-decimals])
			fracPart = string(digits[len(digits)-decimals:])
		}
	}
	for len(fracPart) < decimals {
		fracPart += "0"
	}

	out := intPart
	if decimals > 0 {
		out += "." + fracPart
	}
	if neg {
		out = "-" + out
	}
	return out
}

// UnitPrice computes the per-unit price for a line item: line total divided
// by quantity, with quantity clamped to at least 1 so a malformed zero
// quantity never divides by zero.
func UnitPrice(total string, quantity int) float64 {
	if quantity < 1 {
		quantity = 1
	}
	return ParseAmount(total) / float64(quantity)
}

// DecodeCurrencySymbol turns an HTML-encoded currency symbol into plain
// text suitable for a spreadsheet cell. Store settings deliver symbols as
// HTML entities (&#36;, &euro;), and some locales pad with non-breaking
// spaces which render badly outside a browser.
func DecodeCurrencySymbol(s string) string {
	decoded := html.UnescapeString(s)
	return strings.ReplaceAll(decoded, " ", " ")
}
