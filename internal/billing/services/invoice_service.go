package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	adminModels "github.com/c14220110/billing-backend/internal/administrasi/models"
	adminServices "github.com/c14220110/billing-backend/internal/administrasi/services"
	"github.com/c14220110/billing-backend/internal/billing/models"
	common "github.com/c14220110/billing-backend/internal/common/models"
	katalog "github.com/c14220110/billing-backend/internal/katalog/models"
	katalogServices "github.com/c14220110/billing-backend/internal/katalog/services"
	"github.com/c14220110/billing-backend/pkg/logger"
	"github.com/c14220110/billing-backend/pkg/utils"
)

// ItemResolver membaca nama/kode item dan nama kategori dari katalog.
type ItemResolver interface {
	ResolveItem(ctx context.Context, itemType katalog.ItemType, id int64) (katalog.ItemSnapshot, error)
	ResolveCategory(ctx context.Context, id int64) (string, error)
}

type RecordLookup interface {
	RecordSummary(ctx context.Context, id int64) (*adminModels.RecordSummary, error)
}

// Notifier menerima event setelah transisi status tersimpan. Tidak boleh blocking.
type Notifier interface {
	Notify(event models.InvoiceEvent)
}

const (
	EventSubmitted = "invoice.submitted"
	EventApproved  = "invoice.approved"
	EventRejected  = "invoice.rejected"
)

type InvoiceService struct {
	Store    InvoiceStore
	Catalog  ItemResolver
	Records  RecordLookup
	Notifier Notifier
	Log      *zap.Logger
	Now      func() time.Time

	validate *utils.Validator
}

func NewInvoiceService(store InvoiceStore, catalog ItemResolver, records RecordLookup, notifier Notifier, log *zap.Logger) *InvoiceService {
	if log == nil {
		log = zap.NewNop()
	}
	return &InvoiceService{
		Store:    store,
		Catalog:  catalog,
		Records:  records,
		Notifier: notifier,
		Log:      log,
		Now:      time.Now,
		validate: utils.NewValidator(),
	}
}

func (s *InvoiceService) logFor(ctx context.Context, actor common.Actor) *zap.Logger {
	return s.Log.With(
		zap.Int64("actor_id", actor.ID),
		zap.String("request_id", logger.RequestIDFromContext(ctx)),
	)
}

func (s *InvoiceService) check(req interface{}) error {
	if err := s.validate.Validate(req); err != nil {
		if fields := utils.FieldErrors(err); fields != nil {
			return &ValidationError{Fields: fields}
		}
		return err
	}
	return nil
}

func (s *InvoiceService) notify(inv *models.Invoice, eventType string, actor common.Actor) {
	if s.Notifier == nil {
		return
	}
	s.Notifier.Notify(models.InvoiceEvent{
		Type:          eventType,
		InvoiceID:     inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		Status:        inv.Status,
		ActorID:       actor.ID,
		At:            s.Now(),
	})
}

// buildDetails menyalin nama/kode item dari katalog dan menghitung subtotal.
// Semua baris yang gagal dikumpulkan ke satu ValidationError.
func (s *InvoiceService) buildDetails(ctx context.Context, inputs []models.DetailInput) ([]models.InvoiceDetail, error) {
	details := make([]models.InvoiceDetail, 0, len(inputs))
	fields := map[string]string{}
	for i, in := range inputs {
		snap, err := s.Catalog.ResolveItem(ctx, in.ItemType, in.ItemID)
		if err != nil {
			if errors.Is(err, katalogServices.ErrItemNotFound) || errors.Is(err, katalogServices.ErrUnknownItemType) {
				fields[fmt.Sprintf("details[%d].item_id", i)] = "item not found"
				continue
			}
			return nil, fmt.Errorf("resolve item %s/%d: %w", in.ItemType, in.ItemID, err)
		}
		price := Money(in.UnitPrice)
		details = append(details, models.InvoiceDetail{
			ItemType:  in.ItemType,
			ItemID:    in.ItemID,
			ItemName:  snap.Name,
			ItemCode:  snap.Code,
			Quantity:  in.Quantity,
			UnitPrice: price,
			Subtotal:  Subtotal(in.Quantity, price),
		})
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	return details, nil
}

func (s *InvoiceService) buildCategories(ctx context.Context, inputs []models.CategoryInput) ([]models.InvoiceCategory, error) {
	categories := make([]models.InvoiceCategory, 0, len(inputs))
	fields := map[string]string{}
	for i, in := range inputs {
		name, err := s.Catalog.ResolveCategory(ctx, in.CategoryID)
		if err != nil {
			if errors.Is(err, katalogServices.ErrCategoryNotFound) {
				fields[fmt.Sprintf("categories[%d].category_id", i)] = "category not found"
				continue
			}
			return nil, fmt.Errorf("resolve category %d: %w", in.CategoryID, err)
		}
		categories = append(categories, models.InvoiceCategory{
			CategoryID:   in.CategoryID,
			CategoryName: name,
			TotalAmount:  Money(in.TotalAmount),
			Description:  in.Description,
		})
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	return categories, nil
}

// buildLines membentuk detail dan kategori sekaligus supaya error keduanya
// dilaporkan dalam satu respons.
func (s *InvoiceService) buildLines(ctx context.Context, details []models.DetailInput, categories []models.CategoryInput) ([]models.InvoiceDetail, []models.InvoiceCategory, error) {
	d, derr := s.buildDetails(ctx, details)
	c, cerr := s.buildCategories(ctx, categories)

	var dv, cv *ValidationError
	switch {
	case derr != nil && !errors.As(derr, &dv):
		return nil, nil, derr
	case cerr != nil && !errors.As(cerr, &cv):
		return nil, nil, cerr
	}

	fields := amountErrors(amountLines(details), categoryAmounts(categories))
	for _, v := range []*ValidationError{dv, cv} {
		if v == nil {
			continue
		}
		for k, msg := range v.Fields {
			fields[k] = msg
		}
	}
	if len(fields) > 0 {
		return nil, nil, &ValidationError{Fields: fields}
	}
	return d, c, nil
}

func amountLines(inputs []models.DetailInput) []models.AmountLine {
	lines := make([]models.AmountLine, 0, len(inputs))
	for _, in := range inputs {
		lines = append(lines, models.AmountLine{Quantity: in.Quantity, UnitPrice: in.UnitPrice})
	}
	return lines
}

func categoryAmounts(inputs []models.CategoryInput) []models.CategoryAmount {
	charges := make([]models.CategoryAmount, 0, len(inputs))
	for _, in := range inputs {
		charges = append(charges, models.CategoryAmount{TotalAmount: in.TotalAmount})
	}
	return charges
}

func errNoLines() error {
	return invalid("details", "must contain at least one detail or category line")
}

// Create menyimpan invoice baru berstatus draft.
func (s *InvoiceService) Create(ctx context.Context, actor common.Actor, req models.CreateInvoiceRequest) (*models.Invoice, error) {
	if !actor.Is(common.RoleAdminRS) {
		return nil, ErrForbidden
	}
	if err := s.check(req); err != nil {
		return nil, err
	}
	req.InvoiceNumber = strings.TrimSpace(req.InvoiceNumber)
	if req.InvoiceNumber == "" {
		return nil, invalid("invoice_number", "is required")
	}
	if len(req.Details) == 0 && len(req.Categories) == 0 {
		return nil, errNoLines()
	}

	if _, err := s.Records.RecordSummary(ctx, req.MedicalRecordID); err != nil {
		if errors.Is(err, adminServices.ErrRekamMedisNotFound) {
			return nil, invalid("medical_record_id", "medical record not found")
		}
		return nil, err
	}

	exists, err := s.Store.InvoiceNumberExists(ctx, req.InvoiceNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, invalid("invoice_number", ErrDuplicateInvoiceNumber.Error())
	}

	details, categories, err := s.buildLines(ctx, req.Details, req.Categories)
	if err != nil {
		return nil, err
	}

	total := invoiceTotal(details, categories)
	if err := checkTotal("total_amount", total); err != nil {
		return nil, err
	}

	now := s.Now()
	createdBy := actor.ID
	inv := &models.Invoice{
		MedicalRecordID: req.MedicalRecordID,
		InvoiceNumber:   req.InvoiceNumber,
		TanggalJKK:      req.TanggalJKK,
		TotalAmount:     total,
		Status:          models.StatusDraft,
		Notes:           req.Notes,
		CreatedBy:       &createdBy,
		CreatedAt:       now,
		UpdatedAt:       now,
		Details:         details,
		Categories:      categories,
	}

	id, err := s.Store.Insert(ctx, inv)
	if err != nil {
		if errors.Is(err, ErrDuplicateInvoiceNumber) {
			return nil, invalid("invoice_number", err.Error())
		}
		s.logFor(ctx, actor).Error("Gagal menyimpan invoice", zap.String("invoice_number", inv.InvoiceNumber), zap.Error(err))
		return nil, err
	}

	s.logFor(ctx, actor).Info("Invoice dibuat",
		zap.Int64("invoice_id", id),
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("total_amount", inv.TotalAmount.StringFixed(2)),
	)
	return s.Store.FindByID(ctx, id)
}

// Update mengganti seluruh baris detail invoice draft. Kategori hanya diganti
// jika request membawa field categories.
func (s *InvoiceService) Update(ctx context.Context, actor common.Actor, id int64, req models.UpdateInvoiceRequest) (*models.Invoice, error) {
	if !actor.Is(common.RoleAdminRS) {
		return nil, ErrForbidden
	}
	if err := s.check(req); err != nil {
		return nil, err
	}

	inv, err := s.Store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status != models.StatusDraft {
		return nil, ErrCannotEdit
	}

	var categoryInputs []models.CategoryInput
	if req.Categories != nil {
		categoryInputs = *req.Categories
	}
	details, categories, err := s.buildLines(ctx, req.Details, categoryInputs)
	if err != nil {
		return nil, err
	}
	if req.Categories == nil {
		categories = inv.Categories
	}
	if len(details) == 0 && len(categories) == 0 {
		return nil, errNoLines()
	}

	inv.TanggalJKK = req.TanggalJKK
	inv.Notes = req.Notes
	inv.Details = details
	inv.Categories = categories
	inv.TotalAmount = invoiceTotal(details, categories)
	if err := checkTotal("total_amount", inv.TotalAmount); err != nil {
		return nil, err
	}
	inv.UpdatedAt = s.Now()

	if err := s.Store.ReplaceDraft(ctx, inv, req.Categories != nil); err != nil {
		if errors.Is(err, ErrStatusChanged) {
			return nil, ErrCannotEdit
		}
		s.logFor(ctx, actor).Error("Gagal memperbarui invoice", zap.Int64("invoice_id", id), zap.Error(err))
		return nil, err
	}

	s.logFor(ctx, actor).Info("Invoice diperbarui",
		zap.Int64("invoice_id", id),
		zap.String("total_amount", inv.TotalAmount.StringFixed(2)),
	)
	return s.Store.FindByID(ctx, id)
}

// transition menjalankan perpindahan status bersyarat lalu memuat ulang invoice.
func (s *InvoiceService) transition(ctx context.Context, actor common.Actor, id int64, from models.Status, conflict error, ch models.StatusChange, eventType string) (*models.Invoice, error) {
	inv, err := s.Store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status != from {
		return nil, conflict
	}

	if err := s.Store.ChangeStatus(ctx, id, from, ch); err != nil {
		if errors.Is(err, ErrStatusChanged) {
			return nil, conflict
		}
		s.logFor(ctx, actor).Error("Gagal mengubah status invoice",
			zap.Int64("invoice_id", id),
			zap.String("to", string(ch.To)),
			zap.Error(err),
		)
		return nil, err
	}

	updated, err := s.Store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logFor(ctx, actor).Info("Status invoice berubah",
		zap.Int64("invoice_id", id),
		zap.String("from", string(from)),
		zap.String("to", string(updated.Status)),
	)
	s.notify(updated, eventType, actor)
	return updated, nil
}

func (s *InvoiceService) Submit(ctx context.Context, actor common.Actor, id int64) (*models.Invoice, error) {
	if !actor.Is(common.RoleAdminRS) {
		return nil, ErrForbidden
	}
	now := s.Now()
	return s.transition(ctx, actor, id, models.StatusDraft, ErrAlreadySubmitted, models.StatusChange{
		To:          models.StatusSubmitted,
		UpdatedAt:   now,
		SubmittedAt: &now,
	}, EventSubmitted)
}

func (s *InvoiceService) Approve(ctx context.Context, actor common.Actor, id int64) (*models.Invoice, error) {
	if !actor.Is(common.RoleAdminBPJS) {
		return nil, ErrForbidden
	}
	now := s.Now()
	approver := actor.ID
	return s.transition(ctx, actor, id, models.StatusSubmitted, ErrNotSubmitted, models.StatusChange{
		To:         models.StatusApproved,
		UpdatedAt:  now,
		ApprovedAt: &now,
		ApprovedBy: &approver,
	}, EventApproved)
}

// Reject menolak invoice submitted. Alasan wajib dan menimpa notes lama.
func (s *InvoiceService) Reject(ctx context.Context, actor common.Actor, id int64, req models.RejectInvoiceRequest) (*models.Invoice, error) {
	if !actor.Is(common.RoleAdminBPJS) {
		return nil, ErrForbidden
	}
	reason := strings.TrimSpace(req.Notes)
	if reason == "" {
		return nil, invalid("notes", "is required")
	}
	approver := actor.ID
	return s.transition(ctx, actor, id, models.StatusSubmitted, ErrNotSubmitted, models.StatusChange{
		To:         models.StatusRejected,
		UpdatedAt:  s.Now(),
		ApprovedBy: &approver,
		Notes:      &reason,
	}, EventRejected)
}

// Delete menghapus invoice draft beserta seluruh barisnya.
func (s *InvoiceService) Delete(ctx context.Context, actor common.Actor, id int64) error {
	if !actor.Is(common.RoleAdminRS) {
		return ErrForbidden
	}
	inv, err := s.Store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if inv.Status != models.StatusDraft {
		return ErrCannotDelete
	}
	if err := s.Store.DeleteDraft(ctx, id); err != nil {
		if errors.Is(err, ErrStatusChanged) {
			return ErrCannotDelete
		}
		s.logFor(ctx, actor).Error("Gagal menghapus invoice", zap.Int64("invoice_id", id), zap.Error(err))
		return err
	}
	s.logFor(ctx, actor).Info("Invoice dihapus", zap.Int64("invoice_id", id), zap.String("invoice_number", inv.InvoiceNumber))
	return nil
}

// Get mengembalikan invoice lengkap. Draft tidak terlihat oleh admin BPJS.
func (s *InvoiceService) Get(ctx context.Context, actor common.Actor, id int64) (*models.Invoice, error) {
	if !actor.Role.Valid() {
		return nil, ErrForbidden
	}
	inv, err := s.Store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Is(common.RoleAdminBPJS) && inv.Status == models.StatusDraft {
		return nil, ErrInvoiceNotFound
	}
	return inv, nil
}

func (s *InvoiceService) List(ctx context.Context, actor common.Actor, filter models.InvoiceFilter) ([]models.Invoice, int, error) {
	if !actor.Role.Valid() {
		return nil, 0, ErrForbidden
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, invalid("status", "must be one of [draft submitted approved rejected paid]")
	}
	if actor.Is(common.RoleAdminBPJS) {
		filter.Statuses = models.InsurerVisibleStatuses
	} else {
		filter.Statuses = nil
	}
	return s.Store.List(ctx, filter)
}

// Calculate menghitung total pratinjau tanpa menyimpan apa pun.
func (s *InvoiceService) Calculate(ctx context.Context, actor common.Actor, req models.CalculateRequest) (models.Totals, error) {
	if !actor.Role.Valid() {
		return models.Totals{}, ErrForbidden
	}
	if err := s.check(req); err != nil {
		return models.Totals{}, err
	}
	if fields := amountErrors(req.Details, req.Categories); len(fields) > 0 {
		return models.Totals{}, &ValidationError{Fields: fields}
	}
	totals := CalculateTotal(req.Details, req.Categories)
	if err := checkTotal("grand_total", totals.GrandTotal); err != nil {
		return models.Totals{}, err
	}
	return totals, nil
}
