package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/c14220110/billing-backend/internal/billing/models"
	"github.com/c14220110/billing-backend/pkg/storage/mariadb"
)

// InvoiceStore menyimpan invoice beserta baris anaknya. Setiap method yang
// mengubah data berjalan dalam satu transaksi.
type InvoiceStore interface {
	InvoiceNumberExists(ctx context.Context, number string) (bool, error)
	// Insert menyimpan header, detail, dan kategori sekaligus.
	Insert(ctx context.Context, inv *models.Invoice) (int64, error)
	FindByID(ctx context.Context, id int64) (*models.Invoice, error)
	List(ctx context.Context, f models.InvoiceFilter) ([]models.Invoice, int, error)
	// ReplaceDraft mengganti header yang bisa diedit dan seluruh detail.
	// Kategori hanya diganti jika replaceCategories. ErrStatusChanged jika
	// invoice sudah bukan draft.
	ReplaceDraft(ctx context.Context, inv *models.Invoice, replaceCategories bool) error
	// ChangeStatus hanya berhasil jika status sekarang masih from.
	ChangeStatus(ctx context.Context, id int64, from models.Status, ch models.StatusChange) error
	DeleteDraft(ctx context.Context, id int64) error
}

type MariaDBInvoiceStore struct {
	DB *sql.DB
}

func NewMariaDBInvoiceStore(db *sql.DB) *MariaDBInvoiceStore {
	return &MariaDBInvoiceStore{DB: db}
}

// likeEscaper membuat % dan _ dari kata kunci dicari sebagai karakter biasa.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

const invoiceSelect = `
	SELECT i.id, i.medical_record_id, mr.record_number, p.name, p.no_kpj, i.invoice_number, i.tanggal_jkk,
	       i.total_amount, i.status, i.notes, i.submitted_at, i.approved_at, i.created_by, i.approved_by,
	       i.created_at, i.updated_at
	FROM invoices i
	JOIN medical_records mr ON mr.id = i.medical_record_id
	JOIN patients p ON p.id = mr.patient_id`

func scanInvoice(row interface{ Scan(...interface{}) error }) (*models.Invoice, error) {
	var (
		inv         models.Invoice
		tanggal     time.Time
		status      string
		notes       sql.NullString
		submittedAt sql.NullTime
		approvedAt  sql.NullTime
		createdBy   sql.NullInt64
		approvedBy  sql.NullInt64
	)
	err := row.Scan(&inv.ID, &inv.MedicalRecordID, &inv.RecordNumber, &inv.PatientName, &inv.NoKPJ,
		&inv.InvoiceNumber, &tanggal, &inv.TotalAmount, &status, &notes, &submittedAt, &approvedAt,
		&createdBy, &approvedBy, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	inv.TanggalJKK = tanggal.Format("2006-01-02")
	inv.Status = models.Status(status)
	if notes.Valid {
		inv.Notes = &notes.String
	}
	if submittedAt.Valid {
		inv.SubmittedAt = &submittedAt.Time
	}
	if approvedAt.Valid {
		inv.ApprovedAt = &approvedAt.Time
	}
	if createdBy.Valid {
		inv.CreatedBy = &createdBy.Int64
	}
	if approvedBy.Valid {
		inv.ApprovedBy = &approvedBy.Int64
	}
	return &inv, nil
}

func (s *MariaDBInvoiceStore) InvoiceNumberExists(ctx context.Context, number string) (bool, error) {
	var dummy int
	err := s.DB.QueryRowContext(ctx, "SELECT 1 FROM invoices WHERE invoice_number = ?", number).Scan(&dummy)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check invoice number: %w", err)
	}
	return true, nil
}

func (s *MariaDBInvoiceStore) Insert(ctx context.Context, inv *models.Invoice) (int64, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO invoices
			(medical_record_id, invoice_number, tanggal_jkk, total_amount, status, notes, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.MedicalRecordID, inv.InvoiceNumber, inv.TanggalJKK, inv.TotalAmount, string(inv.Status),
		inv.Notes, inv.CreatedBy, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		tx.Rollback()
		if mariadb.IsDuplicateKey(err) {
			return 0, ErrDuplicateInvoiceNumber
		}
		return 0, fmt.Errorf("insert invoice: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := insertDetails(ctx, tx, id, inv.Details); err != nil {
		tx.Rollback()
		return 0, err
	}
	if err := insertCategories(ctx, tx, id, inv.Categories); err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

func insertDetails(ctx context.Context, tx *sql.Tx, invoiceID int64, details []models.InvoiceDetail) error {
	for _, d := range details {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO invoice_details
				(invoice_id, item_type, item_id, item_name, item_code, quantity, unit_price, subtotal)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			invoiceID, string(d.ItemType), d.ItemID, d.ItemName, d.ItemCode, d.Quantity, d.UnitPrice, d.Subtotal,
		)
		if err != nil {
			return fmt.Errorf("insert invoice detail: %w", err)
		}
	}
	return nil
}

func insertCategories(ctx context.Context, tx *sql.Tx, invoiceID int64, categories []models.InvoiceCategory) error {
	for _, c := range categories {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO invoice_categories
				(invoice_id, category_id, category_name, total_amount, description)
			 VALUES (?, ?, ?, ?, ?)`,
			invoiceID, c.CategoryID, c.CategoryName, c.TotalAmount, c.Description,
		)
		if err != nil {
			return fmt.Errorf("insert invoice category: %w", err)
		}
	}
	return nil
}

func (s *MariaDBInvoiceStore) FindByID(ctx context.Context, id int64) (*models.Invoice, error) {
	inv, err := scanInvoice(s.DB.QueryRowContext(ctx, invoiceSelect+" WHERE i.id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("get invoice %d: %w", id, err)
	}

	if inv.Details, err = s.details(ctx, id); err != nil {
		return nil, err
	}
	if inv.Categories, err = s.categories(ctx, id); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *MariaDBInvoiceStore) details(ctx context.Context, invoiceID int64) ([]models.InvoiceDetail, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, invoice_id, item_type, item_id, item_name, item_code, quantity, unit_price, subtotal
		 FROM invoice_details WHERE invoice_id = ? ORDER BY id`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("query invoice details: %w", err)
	}
	defer rows.Close()

	list := []models.InvoiceDetail{}
	for rows.Next() {
		var d models.InvoiceDetail
		if err := rows.Scan(&d.ID, &d.InvoiceID, &d.ItemType, &d.ItemID, &d.ItemName, &d.ItemCode,
			&d.Quantity, &d.UnitPrice, &d.Subtotal); err != nil {
			return nil, fmt.Errorf("scan invoice detail: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

func (s *MariaDBInvoiceStore) categories(ctx context.Context, invoiceID int64) ([]models.InvoiceCategory, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, invoice_id, category_id, category_name, total_amount, description
		 FROM invoice_categories WHERE invoice_id = ? ORDER BY id`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("query invoice categories: %w", err)
	}
	defer rows.Close()

	list := []models.InvoiceCategory{}
	for rows.Next() {
		var (
			c    models.InvoiceCategory
			desc sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.InvoiceID, &c.CategoryID, &c.CategoryName, &c.TotalAmount, &desc); err != nil {
			return nil, fmt.Errorf("scan invoice category: %w", err)
		}
		if desc.Valid {
			c.Description = &desc.String
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// List mengembalikan header invoice (tanpa baris anak) terbaru lebih dulu.
func (s *MariaDBInvoiceStore) List(ctx context.Context, f models.InvoiceFilter) ([]models.Invoice, int, error) {
	limit, page := f.Limit, f.Page
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if page <= 0 {
		page = 1
	}

	conds := []string{}
	params := []interface{}{}
	if f.Status != "" {
		conds = append(conds, "i.status = ?")
		params = append(params, string(f.Status))
	}
	if len(f.Statuses) > 0 {
		marks := make([]string, len(f.Statuses))
		for i, st := range f.Statuses {
			marks[i] = "?"
			params = append(params, string(st))
		}
		conds = append(conds, "i.status IN ("+strings.Join(marks, ", ")+")")
	}
	if f.MedicalRecordID > 0 {
		conds = append(conds, "i.medical_record_id = ?")
		params = append(params, f.MedicalRecordID)
	}
	if f.Search != "" {
		conds = append(conds, "i.invoice_number LIKE ?")
		params = append(params, "%"+likeEscaper.Replace(f.Search)+"%")
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := s.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM invoices i"+where, params...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}

	query := invoiceSelect + where + fmt.Sprintf(" ORDER BY i.created_at DESC, i.id DESC LIMIT %d OFFSET %d", limit, (page-1)*limit)
	rows, err := s.DB.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, 0, fmt.Errorf("query invoices: %w", err)
	}
	defer rows.Close()

	list := []models.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, *inv)
	}
	return list, total, rows.Err()
}

// lockStatus mengunci baris invoice sampai transaksi selesai dan mengembalikan statusnya.
func lockStatus(ctx context.Context, tx *sql.Tx, id int64) (models.Status, error) {
	var status string
	err := tx.QueryRowContext(ctx, "SELECT status FROM invoices WHERE id = ? FOR UPDATE", id).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrInvoiceNotFound
		}
		return "", fmt.Errorf("lock invoice %d: %w", id, err)
	}
	return models.Status(status), nil
}

func (s *MariaDBInvoiceStore) ReplaceDraft(ctx context.Context, inv *models.Invoice, replaceCategories bool) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	status, err := lockStatus(ctx, tx, inv.ID)
	if err != nil {
		return err
	}
	if status != models.StatusDraft {
		return ErrStatusChanged
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE invoices SET tanggal_jkk = ?, notes = ?, total_amount = ?, updated_at = ? WHERE id = ?",
		inv.TanggalJKK, inv.Notes, inv.TotalAmount, inv.UpdatedAt, inv.ID,
	); err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM invoice_details WHERE invoice_id = ?", inv.ID); err != nil {
		return fmt.Errorf("delete invoice details: %w", err)
	}
	if err := insertDetails(ctx, tx, inv.ID, inv.Details); err != nil {
		return err
	}

	if replaceCategories {
		if _, err := tx.ExecContext(ctx, "DELETE FROM invoice_categories WHERE invoice_id = ?", inv.ID); err != nil {
			return fmt.Errorf("delete invoice categories: %w", err)
		}
		if err := insertCategories(ctx, tx, inv.ID, inv.Categories); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *MariaDBInvoiceStore) ChangeStatus(ctx context.Context, id int64, from models.Status, ch models.StatusChange) error {
	sets := []string{"status = ?", "updated_at = ?"}
	params := []interface{}{string(ch.To), ch.UpdatedAt}
	if ch.SubmittedAt != nil {
		sets = append(sets, "submitted_at = ?")
		params = append(params, *ch.SubmittedAt)
	}
	if ch.ApprovedAt != nil {
		sets = append(sets, "approved_at = ?")
		params = append(params, *ch.ApprovedAt)
	}
	if ch.ApprovedBy != nil {
		sets = append(sets, "approved_by = ?")
		params = append(params, *ch.ApprovedBy)
	}
	if ch.Notes != nil {
		sets = append(sets, "notes = ?")
		params = append(params, *ch.Notes)
	}
	params = append(params, id, string(from))

	res, err := s.DB.ExecContext(ctx,
		"UPDATE invoices SET "+strings.Join(sets, ", ")+" WHERE id = ? AND status = ?", params...)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrStatusChanged
	}
	return nil
}

func (s *MariaDBInvoiceStore) DeleteDraft(ctx context.Context, id int64) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	status, err := lockStatus(ctx, tx, id)
	if err != nil {
		return err
	}
	if status != models.StatusDraft {
		return ErrStatusChanged
	}

	for _, q := range []string{
		"DELETE FROM invoice_details WHERE invoice_id = ?",
		"DELETE FROM invoice_categories WHERE invoice_id = ?",
		"DELETE FROM invoices WHERE id = ?",
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return fmt.Errorf("delete invoice %d: %w", id, err)
		}
	}
	return tx.Commit()
}
