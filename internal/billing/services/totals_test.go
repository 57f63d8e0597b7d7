package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/c14220110/billing-backend/internal/billing/models"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSubtotal(t *testing.T) {
	cases := []struct {
		qty   int
		price string
		want  string
	}{
		{1, "0", "0"},
		{2, "150000", "300000"},
		{3, "2500.50", "7501.50"},
		{7, "1000.555", "7003.92"}, // harga dibulatkan dulu ke 1000.56
		{100, "0.01", "1"},
	}
	for _, tc := range cases {
		got := Subtotal(tc.qty, dec(tc.price))
		assert.True(t, dec(tc.want).Equal(got), "%d x %s = %s", tc.qty, tc.price, got)
	}
}

func TestCalculateTotal(t *testing.T) {
	totals := CalculateTotal(
		[]models.AmountLine{
			{Quantity: 2, UnitPrice: dec("150000")},
			{Quantity: 3, UnitPrice: dec("2500")},
		},
		[]models.CategoryAmount{{TotalAmount: dec("500000")}},
	)
	assert.True(t, dec("307500").Equal(totals.DetailsTotal))
	assert.True(t, dec("500000").Equal(totals.CategoriesTotal))
	assert.True(t, dec("807500").Equal(totals.GrandTotal))
}

func TestCalculateTotalEmpty(t *testing.T) {
	totals := CalculateTotal(nil, nil)
	assert.True(t, totals.GrandTotal.IsZero())
	assert.True(t, totals.DetailsTotal.IsZero())
	assert.True(t, totals.CategoriesTotal.IsZero())
}

func TestInvoiceTotalMatchesLines(t *testing.T) {
	details := []models.InvoiceDetail{
		{Quantity: 2, UnitPrice: dec("150000"), Subtotal: dec("300000")},
		{Quantity: 1, UnitPrice: dec("75000.25"), Subtotal: dec("75000.25")},
	}
	categories := []models.InvoiceCategory{
		{TotalAmount: dec("125000")},
		{TotalAmount: dec("0")},
	}
	assert.True(t, dec("500000.25").Equal(invoiceTotal(details, categories)))
}

func TestStateErrorsWrapConflict(t *testing.T) {
	for _, err := range []error{ErrCannotEdit, ErrAlreadySubmitted, ErrNotSubmitted, ErrCannotDelete} {
		assert.ErrorIs(t, err, ErrStateConflict)
	}
	assert.NotErrorIs(t, ErrInvoiceNotFound, ErrStateConflict)
	assert.Equal(t, "cannot edit submitted invoice", ErrCannotEdit.Error())
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{
		"notes":          "is required",
		"invoice_number": "invoice number already exists",
	}}
	assert.Equal(t, "validation failed: invoice_number invoice number already exists; notes is required", err.Error())
}
