package models

import (
	"github.com/shopspring/decimal"

	katalog "github.com/c14220110/billing-backend/internal/katalog/models"
)

type DetailInput struct {
	ItemType  katalog.ItemType `json:"item_type" validate:"required,oneof=service medicine action"`
	ItemID    int64            `json:"item_id" validate:"required,gt=0"`
	Quantity  int              `json:"quantity" validate:"gte=1,lte=2147483647"`
	UnitPrice decimal.Decimal  `json:"unit_price" validate:"gte=0,lte=9999999999999.99"`
	// Subtotal dari klien diterima tapi tidak pernah dipakai.
	Subtotal *decimal.Decimal `json:"subtotal,omitempty" validate:"-"`
}

type CategoryInput struct {
	CategoryID  int64           `json:"category_id" validate:"required,gt=0"`
	TotalAmount decimal.Decimal `json:"total_amount" validate:"gte=0,lte=9999999999999.99"`
	Description *string         `json:"description" validate:"omitempty,max=1000"`
}

type CreateInvoiceRequest struct {
	MedicalRecordID int64           `json:"medical_record_id" validate:"required,gt=0"`
	InvoiceNumber   string          `json:"invoice_number" validate:"required,max=50"`
	TanggalJKK      string          `json:"tanggal_jkk" validate:"required,datetime=2006-01-02"`
	Notes           *string         `json:"notes" validate:"omitempty,max=2000"`
	Details         []DetailInput   `json:"details" validate:"dive"`
	Categories      []CategoryInput `json:"categories" validate:"dive"`
}

// UpdateInvoiceRequest mengganti seluruh baris detail. Categories nil berarti
// kategori lama dipertahankan; slice kosong menghapus semuanya.
type UpdateInvoiceRequest struct {
	TanggalJKK string           `json:"tanggal_jkk" validate:"required,datetime=2006-01-02"`
	Notes      *string          `json:"notes" validate:"omitempty,max=2000"`
	Details    []DetailInput    `json:"details" validate:"dive"`
	Categories *[]CategoryInput `json:"categories" validate:"omitempty,dive"`
}

type RejectInvoiceRequest struct {
	Notes string `json:"notes"`
}

// AmountLine dan CategoryAmount adalah bagian payload yang dibutuhkan untuk
// menghitung total; field lain dari form diabaikan.
type AmountLine struct {
	Quantity  int             `json:"quantity" validate:"gte=1,lte=2147483647"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"gte=0,lte=9999999999999.99"`
}

type CategoryAmount struct {
	TotalAmount decimal.Decimal `json:"total_amount" validate:"gte=0,lte=9999999999999.99"`
}

type CalculateRequest struct {
	Details    []AmountLine     `json:"details" validate:"dive"`
	Categories []CategoryAmount `json:"categories" validate:"dive"`
}

type Totals struct {
	DetailsTotal    decimal.Decimal `json:"details_total"`
	CategoriesTotal decimal.Decimal `json:"categories_total"`
	GrandTotal      decimal.Decimal `json:"grand_total"`
}
