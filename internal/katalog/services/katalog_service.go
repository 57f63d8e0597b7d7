package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/c14220110/billing-backend/internal/katalog/models"
)

var (
	ErrItemNotFound     = errors.New("item not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrUnknownItemType  = errors.New("unknown item type")
)

type itemTable struct {
	table       string
	priceColumn string
	hasCategory bool
	hasStock    bool
}

var itemTables = map[models.ItemType]itemTable{
	models.ItemService:  {table: "services", priceColumn: "tarif", hasCategory: true},
	models.ItemAction:   {table: "actions", priceColumn: "tarif", hasCategory: true},
	models.ItemMedicine: {table: "medicines", priceColumn: "price", hasStock: true},
}

func (t itemTable) selectColumns() string {
	category, stock := "NULL", "NULL"
	if t.hasCategory {
		category = "category_id"
	}
	if t.hasStock {
		stock = "stock"
	}
	return fmt.Sprintf("id, code, name, %s, is_active, %s, %s", t.priceColumn, category, stock)
}

type KatalogService struct {
	DB *sql.DB
}

func NewKatalogService(db *sql.DB) *KatalogService {
	return &KatalogService{DB: db}
}

func tableFor(itemType models.ItemType) (itemTable, error) {
	t, ok := itemTables[itemType]
	if !ok {
		return itemTable{}, fmt.Errorf("%w: %q", ErrUnknownItemType, itemType)
	}
	return t, nil
}

func scanItem(itemType models.ItemType, row interface{ Scan(...interface{}) error }) (*models.CatalogItem, error) {
	var (
		item     = models.CatalogItem{ItemType: itemType}
		category sql.NullInt64
		stock    sql.NullInt64
	)
	if err := row.Scan(&item.ID, &item.Code, &item.Name, &item.Price, &item.IsActive, &category, &stock); err != nil {
		return nil, err
	}
	if category.Valid {
		id := category.Int64
		item.CategoryID = &id
	}
	if stock.Valid {
		s := int(stock.Int64)
		item.Stock = &s
	}
	return &item, nil
}

// GetItem mengambil satu item katalog berdasarkan jenis dan id.
func (s *KatalogService) GetItem(ctx context.Context, itemType models.ItemType, id int64) (*models.CatalogItem, error) {
	t, err := tableFor(itemType)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", t.selectColumns(), t.table)
	item, err := scanItem(itemType, s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("get %s %d: %w", itemType, id, err)
	}
	return item, nil
}

// ListItems menampilkan item katalog dengan pencarian nama/kode + pagination.
// • q     : string pencarian, case-insensitive, boleh kosong
// • limit : default 20, max 100
// • page  : dimulai dari 1
func (s *KatalogService) ListItems(ctx context.Context, itemType models.ItemType, q string, activeOnly bool, limit, page int) ([]models.CatalogItem, int, error) {
	t, err := tableFor(itemType)
	if err != nil {
		return nil, 0, err
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	conds := []string{}
	params := []interface{}{}
	if q != "" {
		conds = append(conds, "(LOWER(name) LIKE ? OR LOWER(code) LIKE ?)")
		like := "%" + strings.ToLower(q) + "%"
		params = append(params, like, like)
	}
	if activeOnly {
		conds = append(conds, "is_active = 1")
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", t.table, where)
	if err := s.DB.QueryRowContext(ctx, countQuery, params...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", itemType, err)
	}

	query := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY name LIMIT %d OFFSET %d", t.selectColumns(), t.table, where, limit, offset)
	rows, err := s.DB.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, 0, fmt.Errorf("query %s: %w", itemType, err)
	}
	defer rows.Close()

	list := []models.CatalogItem{}
	for rows.Next() {
		item, err := scanItem(itemType, rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan %s: %w", itemType, err)
		}
		list = append(list, *item)
	}
	return list, total, rows.Err()
}

// ResolveItem menyalin nama dan kode item untuk baris tagihan.
func (s *KatalogService) ResolveItem(ctx context.Context, itemType models.ItemType, id int64) (models.ItemSnapshot, error) {
	item, err := s.GetItem(ctx, itemType, id)
	if err != nil {
		return models.ItemSnapshot{}, err
	}
	return models.ItemSnapshot{Name: item.Name, Code: item.Code}, nil
}

func (s *KatalogService) ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	query := "SELECT id, code, name, description, is_active FROM categories"
	if activeOnly {
		query += " WHERE is_active = 1"
	}
	query += " ORDER BY name"

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	list := []models.Category{}
	for rows.Next() {
		var c models.Category
		var desc sql.NullString
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &desc, &c.IsActive); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		if desc.Valid {
			c.Description = &desc.String
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// ResolveCategory mengembalikan nama kategori untuk disalin ke invoice_categories.
func (s *KatalogService) ResolveCategory(ctx context.Context, id int64) (string, error) {
	var name string
	err := s.DB.QueryRowContext(ctx, "SELECT name FROM categories WHERE id = ?", id).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrCategoryNotFound
		}
		return "", fmt.Errorf("get category %d: %w", id, err)
	}
	return name, nil
}
