// Package report renders the local shortage report and formats currency
// amounts for documents and email bodies.
package report

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatARS renders an amount the way the reports print pesos:
// dollar sign, no decimals, dots as thousands separators.
// Negative amounts keep the sign after the symbol: $-12.345.
func FormatARS(d decimal.Decimal) string {
	s := d.Round(0).String()

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	var groups []string
	for len(s) > 3 {
		groups = append([]string{s[len(s)-3:]}, groups...)
		s = s[:len(s)-3]
	}
	groups = append([]string{s}, groups...)

	return "$" + sign + strings.Join(groups, ".")
}
