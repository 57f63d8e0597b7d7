package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatRupiah menulis nominal dengan format Indonesia: "Rp 1.234.567,00".
func FormatRupiah(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if d.IsNegative() {
		b.WriteString("-")
	}
	b.WriteString("Rp ")
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}
