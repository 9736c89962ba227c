package domain

import "github.com/shopspring/decimal"

// FormatAmount renders an amount with two decimals and thousands separators.
func FormatAmount(amount decimal.Decimal) string {
	s := amount.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-3:]
	var out []byte
	for i, c := range []byte(intPart) {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	if amount.IsNegative() {
		return "-" + string(out) + frac
	}
	return string(out) + frac
}
