package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/shopspring/decimal"

	"github.com/c14220110/billing-backend/internal/billing/models"
	common "github.com/c14220110/billing-backend/internal/common/models"
	"github.com/c14220110/billing-backend/pkg/utils"
)

//go:embed templates/invoice_print.html
var printFS embed.FS

var printTemplate = template.Must(
	template.New("invoice_print.html").
		Funcs(template.FuncMap{
			"rupiah": utils.FormatRupiah,
			"inc":    func(i int) int { return i + 1 },
		}).
		ParseFS(printFS, "templates/invoice_print.html"),
)

type printView struct {
	Invoice *models.Invoice
	Totals  models.Totals
}

// RenderInvoice menulis invoice tersimpan sebagai dokumen HTML siap cetak.
// Semua nama item dan kategori diambil dari salinan di baris invoice.
func RenderInvoice(inv *models.Invoice) ([]byte, error) {
	view := printView{Invoice: inv}
	details := decimal.Zero
	for _, d := range inv.Details {
		details = details.Add(d.Subtotal)
	}
	categories := decimal.Zero
	for _, c := range inv.Categories {
		categories = categories.Add(c.TotalAmount)
	}
	view.Totals = models.Totals{
		DetailsTotal:    details,
		CategoriesTotal: categories,
		GrandTotal:      inv.TotalAmount,
	}

	var buf bytes.Buffer
	if err := printTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("render invoice %d: %w", inv.ID, err)
	}
	return buf.Bytes(), nil
}

// Print memuat invoice dengan aturan visibilitas yang sama seperti Get lalu merendernya.
func (s *InvoiceService) Print(ctx context.Context, actor common.Actor, id int64) ([]byte, error) {
	inv, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return RenderInvoice(inv)
}
