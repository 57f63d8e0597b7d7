// Package billingtest berisi implementasi in-memory dari dependensi InvoiceService
// untuk pengujian.
package billingtest

import (
	"context"
	"sort"
	"strings"
	"sync"

	adminModels "github.com/c14220110/billing-backend/internal/administrasi/models"
	adminServices "github.com/c14220110/billing-backend/internal/administrasi/services"
	"github.com/c14220110/billing-backend/internal/billing/models"
	"github.com/c14220110/billing-backend/internal/billing/services"
	katalog "github.com/c14220110/billing-backend/internal/katalog/models"
	katalogServices "github.com/c14220110/billing-backend/internal/katalog/services"
)

// MemoryStore menyimpan invoice di map dengan aturan status yang sama seperti
// MariaDBInvoiceStore. Records dipakai untuk mengisi kolom hasil join.
type MemoryStore struct {
	mu       sync.Mutex
	invoices map[int64]*models.Invoice
	nextID   int64
	nextLine int64

	Records map[int64]adminModels.RecordSummary
	// Fail memaksa method tertentu ("Insert", "ChangeStatus", ...) mengembalikan error.
	Fail map[string]error
}

var _ services.InvoiceStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		invoices: map[int64]*models.Invoice{},
		Records:  map[int64]adminModels.RecordSummary{},
		Fail:     map[string]error{},
	}
}

func clone(inv *models.Invoice) *models.Invoice {
	cp := *inv
	cp.Details = append([]models.InvoiceDetail{}, inv.Details...)
	cp.Categories = append([]models.InvoiceCategory{}, inv.Categories...)
	return &cp
}

func (m *MemoryStore) assignLines(inv *models.Invoice, replaceCategories bool) {
	for i := range inv.Details {
		m.nextLine++
		inv.Details[i].ID = m.nextLine
		inv.Details[i].InvoiceID = inv.ID
	}
	if !replaceCategories {
		return
	}
	for i := range inv.Categories {
		m.nextLine++
		inv.Categories[i].ID = m.nextLine
		inv.Categories[i].InvoiceID = inv.ID
	}
}

func (m *MemoryStore) InvoiceNumberExists(ctx context.Context, number string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.Fail["InvoiceNumberExists"]; err != nil {
		return false, err
	}
	for _, inv := range m.invoices {
		if inv.InvoiceNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) Insert(ctx context.Context, inv *models.Invoice) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.Fail["Insert"]; err != nil {
		return 0, err
	}
	for _, existing := range m.invoices {
		if existing.InvoiceNumber == inv.InvoiceNumber {
			return 0, services.ErrDuplicateInvoiceNumber
		}
	}
	m.nextID++
	stored := clone(inv)
	stored.ID = m.nextID
	m.assignLines(stored, true)
	m.invoices[stored.ID] = stored
	return stored.ID, nil
}

func (m *MemoryStore) FindByID(ctx context.Context, id int64) (*models.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invoices[id]
	if !ok {
		return nil, services.ErrInvoiceNotFound
	}
	out := clone(inv)
	if rec, ok := m.Records[inv.MedicalRecordID]; ok {
		out.RecordNumber = rec.RecordNumber
		out.PatientName = rec.PatientName
		out.NoKPJ = rec.NoKPJ
	}
	return out, nil
}

func (m *MemoryStore) List(ctx context.Context, f models.InvoiceFilter) ([]models.Invoice, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	allowed := func(s models.Status) bool {
		if len(f.Statuses) == 0 {
			return true
		}
		for _, st := range f.Statuses {
			if st == s {
				return true
			}
		}
		return false
	}

	matched := []models.Invoice{}
	for _, inv := range m.invoices {
		if f.Status != "" && inv.Status != f.Status {
			continue
		}
		if !allowed(inv.Status) {
			continue
		}
		if f.MedicalRecordID > 0 && inv.MedicalRecordID != f.MedicalRecordID {
			continue
		}
		if f.Search != "" && !strings.Contains(inv.InvoiceNumber, f.Search) {
			continue
		}
		header := *inv
		header.Details, header.Categories = nil, nil
		matched = append(matched, header)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	limit, page := f.Limit, f.Page
	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	total := len(matched)
	start := (page - 1) * limit
	if start >= total {
		return []models.Invoice{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (m *MemoryStore) ReplaceDraft(ctx context.Context, inv *models.Invoice, replaceCategories bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.Fail["ReplaceDraft"]; err != nil {
		return err
	}
	cur, ok := m.invoices[inv.ID]
	if !ok {
		return services.ErrInvoiceNotFound
	}
	if cur.Status != models.StatusDraft {
		return services.ErrStatusChanged
	}
	next := clone(cur)
	next.TanggalJKK = inv.TanggalJKK
	next.Notes = inv.Notes
	next.TotalAmount = inv.TotalAmount
	next.UpdatedAt = inv.UpdatedAt
	next.Details = append([]models.InvoiceDetail{}, inv.Details...)
	if replaceCategories {
		next.Categories = append([]models.InvoiceCategory{}, inv.Categories...)
	}
	m.assignLines(next, replaceCategories)
	m.invoices[inv.ID] = next
	return nil
}

func (m *MemoryStore) ChangeStatus(ctx context.Context, id int64, from models.Status, ch models.StatusChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.Fail["ChangeStatus"]; err != nil {
		return err
	}
	inv, ok := m.invoices[id]
	if !ok || inv.Status != from {
		return services.ErrStatusChanged
	}
	inv.Status = ch.To
	inv.UpdatedAt = ch.UpdatedAt
	if ch.SubmittedAt != nil {
		t := *ch.SubmittedAt
		inv.SubmittedAt = &t
	}
	if ch.ApprovedAt != nil {
		t := *ch.ApprovedAt
		inv.ApprovedAt = &t
	}
	if ch.ApprovedBy != nil {
		by := *ch.ApprovedBy
		inv.ApprovedBy = &by
	}
	if ch.Notes != nil {
		n := *ch.Notes
		inv.Notes = &n
	}
	return nil
}

func (m *MemoryStore) DeleteDraft(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.Fail["DeleteDraft"]; err != nil {
		return err
	}
	inv, ok := m.invoices[id]
	if !ok {
		return services.ErrInvoiceNotFound
	}
	if inv.Status != models.StatusDraft {
		return services.ErrStatusChanged
	}
	delete(m.invoices, id)
	return nil
}

// SetStatus mengubah status langsung, seperti update manual ke database.
func (m *MemoryStore) SetStatus(id int64, status models.Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if inv, ok := m.invoices[id]; ok {
		inv.Status = status
	}
}

type itemKey struct {
	Type katalog.ItemType
	ID   int64
}

// FakeCatalog adalah katalog yang isinya bisa diubah selama test.
type FakeCatalog struct {
	mu         sync.Mutex
	items      map[itemKey]katalog.ItemSnapshot
	categories map[int64]string
}

var _ services.ItemResolver = (*FakeCatalog)(nil)

func NewFakeCatalog() *FakeCatalog {
	return &FakeCatalog{
		items:      map[itemKey]katalog.ItemSnapshot{},
		categories: map[int64]string{},
	}
}

func (c *FakeCatalog) PutItem(itemType katalog.ItemType, id int64, snap katalog.ItemSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[itemKey{itemType, id}] = snap
}

func (c *FakeCatalog) RemoveItem(itemType katalog.ItemType, id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, itemKey{itemType, id})
}

func (c *FakeCatalog) PutCategory(id int64, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.categories[id] = name
}

func (c *FakeCatalog) ResolveItem(ctx context.Context, itemType katalog.ItemType, id int64) (katalog.ItemSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !itemType.Valid() {
		return katalog.ItemSnapshot{}, katalogServices.ErrUnknownItemType
	}
	snap, ok := c.items[itemKey{itemType, id}]
	if !ok {
		return katalog.ItemSnapshot{}, katalogServices.ErrItemNotFound
	}
	return snap, nil
}

func (c *FakeCatalog) ResolveCategory(ctx context.Context, id int64) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	name, ok := c.categories[id]
	if !ok {
		return "", katalogServices.ErrCategoryNotFound
	}
	return name, nil
}

// FakeRecords menjawab RecordSummary dari map.
type FakeRecords map[int64]adminModels.RecordSummary

var _ services.RecordLookup = FakeRecords(nil)

func (r FakeRecords) RecordSummary(ctx context.Context, id int64) (*adminModels.RecordSummary, error) {
	rec, ok := r[id]
	if !ok {
		return nil, adminServices.ErrRekamMedisNotFound
	}
	return &rec, nil
}

// RecordingNotifier mencatat semua event yang dikirim.
type RecordingNotifier struct {
	mu     sync.Mutex
	events []models.InvoiceEvent
}

func (n *RecordingNotifier) Notify(event models.InvoiceEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *RecordingNotifier) Events() []models.InvoiceEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]models.InvoiceEvent{}, n.events...)
}
