package models

import "github.com/shopspring/decimal"

// ItemType membedakan tiga jenis item katalog yang bisa ditagihkan.
type ItemType string

const (
	ItemService  ItemType = "service"
	ItemMedicine ItemType = "medicine"
	ItemAction   ItemType = "action"
)

func (t ItemType) Valid() bool {
	switch t {
	case ItemService, ItemMedicine, ItemAction:
		return true
	}
	return false
}

type Category struct {
	ID          int64   `json:"id"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	IsActive    bool    `json:"is_active"`
}

// CatalogItem adalah layanan, obat, atau tindakan. CategoryID hanya ada untuk
// service/action, Stock hanya untuk medicine.
type CatalogItem struct {
	ID         int64           `json:"id"`
	ItemType   ItemType        `json:"item_type"`
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	IsActive   bool            `json:"is_active"`
	CategoryID *int64          `json:"category_id,omitempty"`
	Stock      *int            `json:"stock,omitempty"`
}

// ItemSnapshot adalah salinan nama/kode saat baris tagihan dibuat.
type ItemSnapshot struct {
	Name string
	Code string
}
