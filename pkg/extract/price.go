package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// pricePattern matches a currency-prefixed amount such as "€1,000.00".
var pricePattern = regexp.MustCompile(`[€$£]\s*([0-9,]+\.?\d*)`)

// ParsePrice extracts the first currency-prefixed amount from text. It
// returns false unless the amount parses and is strictly positive.
func ParsePrice(text string) (decimal.Decimal, bool) {
	m := pricePattern.FindStringSubmatch(text)
	if m == nil {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
	if err != nil || !d.IsPositive() {
		return decimal.Zero, false
	}

	return d, true
}

// ParseAmount parses a user-supplied amount, with or without a currency
// symbol. It returns false unless the amount is strictly positive.
func ParseAmount(text string) (decimal.Decimal, bool) {
	text = strings.TrimSpace(text)
	if d, ok := ParsePrice(text); ok {
		return d, true
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(text, ",", ""))
	if err != nil || !d.IsPositive() {
		return decimal.Zero, false
	}
	return d, true
}
