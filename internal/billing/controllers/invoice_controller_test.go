package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	adminModels "github.com/c14220110/billing-backend/internal/administrasi/models"
	"github.com/c14220110/billing-backend/internal/billing/billingtest"
	"github.com/c14220110/billing-backend/internal/billing/models"
	"github.com/c14220110/billing-backend/internal/billing/services"
	"github.com/c14220110/billing-backend/internal/common/middlewares"
	common "github.com/c14220110/billing-backend/internal/common/models"
	katalog "github.com/c14220110/billing-backend/internal/katalog/models"
	"github.com/c14220110/billing-backend/pkg/utils"
)

type envelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func asActor(actor common.Actor) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(string(middlewares.ContextKeyActor), actor)
			return next(c)
		}
	}
}

func newTestEcho(t *testing.T) *echo.Echo {
	t.Helper()
	rec := adminModels.RecordSummary{ID: 10, RecordNumber: "RM-001", PatientName: "Siti Aminah", NoKPJ: "KPJ-9"}
	store := billingtest.NewMemoryStore()
	store.Records[rec.ID] = rec
	catalog := billingtest.NewFakeCatalog()
	catalog.PutItem(katalog.ItemService, 1, katalog.ItemSnapshot{Name: "IGD", Code: "SRV-IGD"})

	svc := services.NewInvoiceService(store, catalog, billingtest.FakeRecords{rec.ID: rec}, nil, zap.NewNop())
	ic := NewInvoiceController(svc)

	e := echo.New()
	e.JSONSerializer = utils.GoccyJSONSerializer{}
	e.Validator = utils.NewValidator()

	for _, g := range []struct {
		prefix string
		actor  common.Actor
	}{
		{"/rs", common.Actor{ID: 1, Role: common.RoleAdminRS}},
		{"/bpjs", common.Actor{ID: 2, Role: common.RoleAdminBPJS}},
	} {
		grp := e.Group(g.prefix, asActor(g.actor))
		grp.POST("/invoices", ic.CreateInvoice)
		grp.POST("/invoices/calculate", ic.CalculateInvoice)
		grp.GET("/invoices", ic.ListInvoices)
		grp.GET("/invoices/:id", ic.GetInvoice)
		grp.GET("/invoices/:id/print", ic.PrintInvoice)
		grp.PUT("/invoices/:id", ic.UpdateInvoice)
		grp.POST("/invoices/:id/submit", ic.SubmitInvoice)
		grp.POST("/invoices/:id/approve", ic.ApproveInvoice)
		grp.POST("/invoices/:id/reject", ic.RejectInvoice)
		grp.DELETE("/invoices/:id", ic.DeleteInvoice)
	}
	return e
}

func do(t *testing.T, e *echo.Echo, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

const createBody = `{
	"medical_record_id": 10,
	"invoice_number": "INV-001",
	"tanggal_jkk": "2024-05-01",
	"details": [{"item_type": "service", "item_id": 1, "quantity": 2, "unit_price": 150000, "subtotal": 5}]
}`

func TestCreateAndFlow(t *testing.T) {
	e := newTestEcho(t)

	rec, env := do(t, e, http.MethodPost, "/rs/invoices", createBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var inv models.Invoice
	require.NoError(t, json.Unmarshal(env.Data, &inv))
	assert.Equal(t, models.StatusDraft, inv.Status)
	assert.True(t, decimal.NewFromInt(300000).Equal(inv.TotalAmount))
	assert.Equal(t, "IGD", inv.Details[0].ItemName)

	rec, _ = do(t, e, http.MethodPost, "/rs/invoices/1/submit", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = do(t, e, http.MethodPost, "/rs/invoices/1/submit", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "invoice already submitted", env.Message)

	rec, env = do(t, e, http.MethodPost, "/rs/invoices/1/approve", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, http.StatusForbidden, env.Status)

	rec, env = do(t, e, http.MethodPost, "/bpjs/invoices/1/reject", `{"notes": "  "}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Errors, "notes")

	rec, env = do(t, e, http.MethodPost, "/bpjs/invoices/1/approve", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &inv))
	assert.Equal(t, models.StatusApproved, inv.Status)

	rec, env = do(t, e, http.MethodDelete, "/rs/invoices/1", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "cannot delete submitted invoice", env.Message)

	rec, env = do(t, e, http.MethodPut, "/rs/invoices/1", `{"tanggal_jkk": "2024-05-01", "details": [{"item_type": "service", "item_id": 1, "quantity": 1, "unit_price": 1}]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "cannot edit submitted invoice", env.Message)
}

func TestCreateInvoiceErrors(t *testing.T) {
	e := newTestEcho(t)

	rec, _ := do(t, e, http.MethodPost, "/rs/invoices", `{"medical_record_id": "satu"`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env := do(t, e, http.MethodPost, "/rs/invoices", `{
		"medical_record_id": 10,
		"invoice_number": "INV-002",
		"tanggal_jkk": "2024-05-01",
		"details": [{"item_type": "service", "item_id": 1, "quantity": 0, "unit_price": 150000}]
	}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "must be at least 1", env.Errors["details[0].quantity"])

	rec, env = do(t, e, http.MethodPost, "/rs/invoices", `{
		"medical_record_id": 10,
		"invoice_number": "INV-003",
		"tanggal_jkk": "2024-05-01",
		"details": [{"item_type": "service", "item_id": 1, "quantity": 5000000000, "unit_price": 99999999999999}]
	}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "must be at most 2147483647", env.Errors["details[0].quantity"])
	assert.Equal(t, "must be at most 9999999999999.99", env.Errors["details[0].unit_price"])

	rec, env = do(t, e, http.MethodPost, "/rs/invoices/calculate", `{
		"details": [{"quantity": 1000, "unit_price": 9999999999999}]
	}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Errors, "details[0].subtotal")

	rec, _ = do(t, e, http.MethodPost, "/bpjs/invoices", createBody)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetInvoiceErrors(t *testing.T) {
	e := newTestEcho(t)

	rec, _ := do(t, e, http.MethodGet, "/rs/invoices/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env := do(t, e, http.MethodGet, "/rs/invoices/99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Invoice tidak ditemukan", env.Message)

	rec, _ = do(t, e, http.MethodPost, "/rs/invoices", createBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = do(t, e, http.MethodGet, "/bpjs/invoices/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec, _ = do(t, e, http.MethodGet, "/rs/invoices/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListInvoices(t *testing.T) {
	e := newTestEcho(t)
	rec, _ := do(t, e, http.MethodPost, "/rs/invoices", createBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	var page struct {
		List  []models.Invoice `json:"list"`
		Total int              `json:"total"`
	}

	rec, env := do(t, e, http.MethodGet, "/rs/invoices?q=INV&limit=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, 1, page.Total)

	rec, env = do(t, e, http.MethodGet, "/bpjs/invoices", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Zero(t, page.Total)

	rec, _ = do(t, e, http.MethodGet, "/rs/invoices?status=lunas", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCalculateInvoice(t *testing.T) {
	e := newTestEcho(t)

	rec, env := do(t, e, http.MethodPost, "/bpjs/invoices/calculate", `{
		"details": [{"quantity": 2, "unit_price": "150000"}, {"quantity": 3, "unit_price": 2500}],
		"categories": [{"total_amount": 500000}]
	}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var totals models.Totals
	require.NoError(t, json.Unmarshal(env.Data, &totals))
	assert.True(t, decimal.NewFromInt(807500).Equal(totals.GrandTotal))
	assert.True(t, decimal.NewFromInt(307500).Equal(totals.DetailsTotal))
}

func TestPrintInvoice(t *testing.T) {
	e := newTestEcho(t)
	rec, _ := do(t, e, http.MethodPost, "/rs/invoices", createBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = do(t, e, http.MethodGet, "/rs/invoices/1/print", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMETextHTML))
	assert.Contains(t, rec.Body.String(), "Rp 300.000,00")
	assert.Contains(t, rec.Body.String(), "Siti Aminah")

	rec, _ = do(t, e, http.MethodGet, "/bpjs/invoices/1/print", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
