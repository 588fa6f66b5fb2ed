package csvimport

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var errEmptyAmount = errors.New("empty amount")

// parseAmount accepts UK ("1,234.56", "£12.50") and European ("1.234,56",
// "12,50 €") amounts. Parentheses and a trailing minus mark negatives.
//
// With both separators present the rightmost one is the decimal mark. A lone
// comma is a decimal mark unless exactly three digits follow it.
func parseAmount(s string) (decimal.Decimal, error) {
	clean := strings.NewReplacer("£", "", "€", "", "GBP", "", "EUR", "", " ", "", "\u00a0", "").Replace(s)
	if clean == "" {
		return decimal.Zero, errEmptyAmount
	}

	negative := false

	if strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")") {
		negative = true
		clean = clean[1 : len(clean)-1]
	}

	if strings.HasSuffix(clean, "-") {
		negative = true
		clean = strings.TrimSuffix(clean, "-")
	}

	dot := strings.LastIndex(clean, ".")
	comma := strings.LastIndex(clean, ",")

	switch {
	case dot >= 0 && comma >= 0 && comma > dot:
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.Replace(clean, ",", ".", 1)
	case dot >= 0 && comma >= 0:
		clean = strings.ReplaceAll(clean, ",", "")
	case comma >= 0 && len(clean)-comma-1 == 3:
		clean = strings.ReplaceAll(clean, ",", "")
	case comma >= 0:
		clean = strings.Replace(clean, ",", ".", 1)
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, err
	}

	if negative {
		d = d.Neg()
	}

	return d, nil
}
