package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseBrazilianAmount parses amounts written with '.' thousand separators and a
// ',' decimal separator, e.g. "-1.234,56". Currency markers are ignored.
func ParseBrazilianAmount(s string) (decimal.Decimal, error) {
	clean := cleanAmount(s)
	clean = strings.ReplaceAll(clean, ".", "")
	clean = strings.ReplaceAll(clean, ",", ".")
	return parseClean(s, clean)
}

// ParseCommaDecimal parses amounts that use ',' as the decimal separator and no
// thousand separator, e.g. "-45,90". Plain "45.90" is accepted as well.
func ParseCommaDecimal(s string) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(cleanAmount(s), ",", ".")
	return parseClean(s, clean)
}

// ParseOptionalAmount is parse applied to s, returning zero for blank input.
func ParseOptionalAmount(s string, parse func(string) (decimal.Decimal, error)) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	return parse(s)
}

func cleanAmount(s string) string {
	clean := strings.TrimSpace(s)
	clean = strings.ReplaceAll(clean, "R$", "")
	clean = strings.ReplaceAll(clean, " ", "")
	clean = strings.ReplaceAll(clean, "\u00a0", "")
	return clean
}

func parseClean(raw, clean string) (decimal.Decimal, error) {
	if clean == "" {
		return decimal.Zero, fmt.Errorf("empty amount %q", raw)
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	return d, nil
}

// FormatAmount renders an amount with two decimal places.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
