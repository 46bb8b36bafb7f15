// Package money formats integer minor-unit amounts for display.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

var symbols = map[string]string{
	"USD": "$",
	"CAD": "CA$",
	"AUD": "A$",
	"EUR": "€",
	"GBP": "£",
	"INR": "₹",
	"JPY": "¥",
}

// zeroDecimal lists currencies whose minor unit is the major unit.
var zeroDecimal = map[string]bool{
	"JPY": true,
	"KRW": true,
}

// FormatCents renders an amount in minor units with the currency symbol, e.g.
// FormatCents(123456, "USD") == "$1,234.56". Unknown currencies are prefixed
// with their code.
func FormatCents(amountCents int64, currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))

	places := int32(2)
	if zeroDecimal[currency] {
		places = 0
	}
	amount := decimal.New(amountCents, -places).Abs()

	sign := ""
	if amountCents < 0 {
		sign = "-"
	}

	prefix, ok := symbols[currency]
	if !ok {
		prefix = currency + " "
	}
	return sign + prefix + groupThousands(amount.StringFixed(places))
}

// groupThousands inserts commas into the integer part of a plain decimal string.
func groupThousands(s string) string {
	intPart, frac, hasFrac := strings.Cut(s, ".")
	if len(intPart) <= 3 {
		return s
	}

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
