package bankxledger

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ParseAmount reads user input such as "1,234.50", "$ 99" or "500 ₽".
func ParseAmount(s string) (decimal.Decimal, error) {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r == ',', unicode.IsSpace(r), unicode.Is(unicode.Sc, r):
			return -1
		}
		return r
	}, s)
	if clean == "" {
		return decimal.Zero, badRequest("amount", "invalid amount: "+s)
	}
	amt, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, badRequest("amount", "invalid amount: "+s)
	}
	return amt, nil
}

// FormatAmount renders d with two decimals and comma thousands separators.
func FormatAmount(d decimal.Decimal) string {
	d = d.Round(2)
	str := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(str, ".")

	var b strings.Builder
	if d.IsNegative() {
		b.WriteByte('-')
	}
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}
