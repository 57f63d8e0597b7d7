package services

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/c14220110/billing-backend/internal/billing/models"
)

// Batas kolom invoices: quantity INT dan nominal DECIMAL(15,2).
var MaxAmount = decimal.RequireFromString("9999999999999.99")

const MaxQuantity = math.MaxInt32

// Money membulatkan nominal ke 2 digit desimal.
func Money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Subtotal = quantity × unit_price. Subtotal kiriman klien tidak pernah dipakai.
func Subtotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return Money(Money(unitPrice).Mul(decimal.NewFromInt(int64(quantity))))
}

// CalculateTotal menjumlahkan subtotal baris dan biaya kategori tanpa menyimpan apa pun.
func CalculateTotal(details []models.AmountLine, categories []models.CategoryAmount) models.Totals {
	detailsTotal := decimal.Zero
	for _, d := range details {
		detailsTotal = detailsTotal.Add(Subtotal(d.Quantity, d.UnitPrice))
	}
	categoriesTotal := decimal.Zero
	for _, c := range categories {
		categoriesTotal = categoriesTotal.Add(Money(c.TotalAmount))
	}
	return models.Totals{
		DetailsTotal:    detailsTotal,
		CategoriesTotal: categoriesTotal,
		GrandTotal:      detailsTotal.Add(categoriesTotal),
	}
}

// invoiceTotal menghitung ulang total_amount dari baris yang sudah dibentuk.
func invoiceTotal(details []models.InvoiceDetail, categories []models.InvoiceCategory) decimal.Decimal {
	lines := make([]models.AmountLine, 0, len(details))
	for _, d := range details {
		lines = append(lines, models.AmountLine{Quantity: d.Quantity, UnitPrice: d.UnitPrice})
	}
	charges := make([]models.CategoryAmount, 0, len(categories))
	for _, c := range categories {
		charges = append(charges, models.CategoryAmount{TotalAmount: c.TotalAmount})
	}
	return CalculateTotal(lines, charges).GrandTotal
}

func amountTooLarge() string {
	return "must be at most " + MaxAmount.StringFixed(2)
}

// amountErrors menolak baris yang nominalnya (setelah pembulatan) tidak muat
// di kolom DECIMAL(15,2). Key mengikuti path json payload.
func amountErrors(details []models.AmountLine, categories []models.CategoryAmount) map[string]string {
	fields := map[string]string{}
	for i, d := range details {
		if d.Quantity > MaxQuantity {
			fields[fmt.Sprintf("details[%d].quantity", i)] = fmt.Sprintf("must be at most %d", MaxQuantity)
			continue
		}
		price := Money(d.UnitPrice)
		if price.GreaterThan(MaxAmount) {
			fields[fmt.Sprintf("details[%d].unit_price", i)] = amountTooLarge()
			continue
		}
		if Subtotal(d.Quantity, price).GreaterThan(MaxAmount) {
			fields[fmt.Sprintf("details[%d].subtotal", i)] = amountTooLarge()
		}
	}
	for i, c := range categories {
		if Money(c.TotalAmount).GreaterThan(MaxAmount) {
			fields[fmt.Sprintf("categories[%d].total_amount", i)] = amountTooLarge()
		}
	}
	return fields
}

// checkTotal menolak total yang melebihi MaxAmount pada field yang diberikan.
func checkTotal(field string, total decimal.Decimal) error {
	if total.GreaterThan(MaxAmount) {
		return invalid(field, amountTooLarge())
	}
	return nil
}
