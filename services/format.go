package services

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatBRL formats an amount in Brazilian real notation: thousands grouped
// with dots, two decimals after a comma (e.g., R$ 1.234,56).
func FormatBRL(amount decimal.Decimal) string {
	amount = amount.Round(2)
	negative := amount.IsNegative()
	if negative {
		amount = amount.Neg()
	}
	return sign(negative) + "R$ " + formatGrouped(amount.StringFixed(2))
}

// FormatNumber formats v with the given decimal places in the same
// notation, without a currency symbol (e.g., 2,66 for square meters).
func FormatNumber(v float64, places int32) string {
	d := decimal.NewFromFloat(v).Round(places)
	negative := d.IsNegative()
	if negative {
		d = d.Neg()
	}
	return sign(negative) + formatGrouped(d.StringFixed(places))
}

func sign(negative bool) string {
	if negative {
		return "-"
	}
	return ""
}

// formatGrouped rewrites a plain "1234.56" into "1.234,56".
func formatGrouped(raw string) string {
	intPart, decPart, hasDec := strings.Cut(raw, ".")
	out := applyThousandsGrouping(intPart)
	if hasDec {
		out += "," + decPart
	}
	return out
}

// applyThousandsGrouping inserts a dot every three digits from the right.
func applyThousandsGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
