package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatRupiah(t *testing.T) {
	cases := map[string]string{
		"0":          "Rp 0,00",
		"999":        "Rp 999,00",
		"1000":       "Rp 1.000,00",
		"300000":     "Rp 300.000,00",
		"1234567.5":  "Rp 1.234.567,50",
		"12.345":     "Rp 12,35",
		"-250000.25": "-Rp 250.000,25",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatRupiah(decimal.RequireFromString(in)), in)
	}
}
