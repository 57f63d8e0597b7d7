package models

import (
	"time"

	"github.com/shopspring/decimal"

	katalog "github.com/c14220110/billing-backend/internal/katalog/models"
)

// Status adalah tahap siklus hidup invoice.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	// StatusPaid hanya bisa dicapai lewat update langsung ke database.
	StatusPaid Status = "paid"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusApproved, StatusRejected, StatusPaid:
		return true
	}
	return false
}

// InsurerVisibleStatuses adalah status yang boleh dilihat admin BPJS.
var InsurerVisibleStatuses = []Status{StatusSubmitted, StatusApproved, StatusRejected}

// Invoice adalah tagihan JKK untuk satu rekam medis.
// TotalAmount selalu = Σ Details.Subtotal + Σ Categories.TotalAmount.
type Invoice struct {
	ID              int64             `json:"id"`
	MedicalRecordID int64             `json:"medical_record_id"`
	RecordNumber    string            `json:"record_number,omitempty"`
	PatientName     string            `json:"patient_name,omitempty"`
	NoKPJ           string            `json:"no_kpj,omitempty"`
	InvoiceNumber   string            `json:"invoice_number"`
	TanggalJKK      string            `json:"tanggal_jkk"` // Format: "2006-01-02"
	TotalAmount     decimal.Decimal   `json:"total_amount"`
	Status          Status            `json:"status"`
	Notes           *string           `json:"notes"`
	SubmittedAt     *time.Time        `json:"submitted_at"`
	ApprovedAt      *time.Time        `json:"approved_at"`
	CreatedBy       *int64            `json:"created_by"`
	ApprovedBy      *int64            `json:"approved_by"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	Details         []InvoiceDetail   `json:"details,omitempty"`
	Categories      []InvoiceCategory `json:"categories,omitempty"`
}

// InvoiceDetail adalah baris item. ItemName/ItemCode disalin dari katalog saat
// baris dibuat dan tidak pernah dibaca ulang.
type InvoiceDetail struct {
	ID        int64            `json:"id"`
	InvoiceID int64            `json:"invoice_id"`
	ItemType  katalog.ItemType `json:"item_type"`
	ItemID    int64            `json:"item_id"`
	ItemName  string           `json:"item_name"`
	ItemCode  string           `json:"item_code"`
	Quantity  int              `json:"quantity"`
	UnitPrice decimal.Decimal  `json:"unit_price"`
	Subtotal  decimal.Decimal  `json:"subtotal"`
}

// InvoiceCategory adalah biaya flat per kategori, di luar baris item.
type InvoiceCategory struct {
	ID           int64           `json:"id"`
	InvoiceID    int64           `json:"invoice_id"`
	CategoryID   int64           `json:"category_id"`
	CategoryName string          `json:"category_name"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Description  *string         `json:"description"`
}

// StatusChange adalah kolom yang ikut berubah saat transisi status.
type StatusChange struct {
	To          Status
	UpdatedAt   time.Time
	SubmittedAt *time.Time
	ApprovedAt  *time.Time
	ApprovedBy  *int64
	Notes       *string
}

type InvoiceFilter struct {
	Status          Status
	Statuses        []Status // dibatasi oleh peran, kosong = semua
	MedicalRecordID int64
	Search          string // invoice_number LIKE
	Limit           int
	Page            int
}

// InvoiceEvent disiarkan ke websocket setelah transisi berhasil.
type InvoiceEvent struct {
	Type          string    `json:"type"`
	InvoiceID     int64     `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
	Status        Status    `json:"status"`
	ActorID       int64     `json:"actor_id"`
	At            time.Time `json:"at"`
}
