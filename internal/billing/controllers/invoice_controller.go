package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/c14220110/billing-backend/internal/billing/models"
	"github.com/c14220110/billing-backend/internal/billing/services"
	"github.com/c14220110/billing-backend/internal/common/middlewares"
)

type InvoiceController struct {
	Service *services.InvoiceService
}

func NewInvoiceController(service *services.InvoiceService) *InvoiceController {
	return &InvoiceController{Service: service}
}

func reply(c echo.Context, code int, message string, data interface{}) error {
	return c.JSON(code, echo.Map{
		"status":  code,
		"message": message,
		"data":    data,
	})
}

// invoiceError menerjemahkan error engine ke kode HTTP.
func invoiceError(c echo.Context, err error, action string) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"status":  http.StatusUnprocessableEntity,
			"message": "Validation failed",
			"data":    nil,
			"errors":  verr.Fields,
		})
	case errors.Is(err, services.ErrForbidden):
		return reply(c, http.StatusForbidden, "Anda tidak memiliki hak akses", nil)
	case errors.Is(err, services.ErrInvoiceNotFound):
		return reply(c, http.StatusNotFound, "Invoice tidak ditemukan", nil)
	case errors.Is(err, services.ErrStateConflict):
		return reply(c, http.StatusUnprocessableEntity, err.Error(), nil)
	default:
		return reply(c, http.StatusInternalServerError, "Failed to "+action+": "+err.Error(), nil)
	}
}

func invoiceID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

func badID(c echo.Context) error {
	return reply(c, http.StatusBadRequest, "Invalid invoice id", nil)
}

func badPayload(c echo.Context) error {
	return reply(c, http.StatusBadRequest, "Invalid request payload", nil)
}

// POST /api/invoices
func (ic *InvoiceController) CreateInvoice(c echo.Context) error {
	var req models.CreateInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return badPayload(c)
	}
	actor, _ := middlewares.ActorFromContext(c)

	inv, err := ic.Service.Create(c.Request().Context(), actor, req)
	if err != nil {
		return invoiceError(c, err, "create invoice")
	}
	return reply(c, http.StatusCreated, "Invoice created successfully", inv)
}

// PUT /api/invoices/:id
func (ic *InvoiceController) UpdateInvoice(c echo.Context) error {
	id, ok := invoiceID(c)
	if !ok {
		return badID(c)
	}
	var req models.UpdateInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return badPayload(c)
	}
	actor, _ := middlewares.ActorFromContext(c)

	inv, err := ic.Service.Update(c.Request().Context(), actor, id, req)
	if err != nil {
		return invoiceError(c, err, "update invoice")
	}
	return reply(c, http.StatusOK, "Invoice updated successfully", inv)
}

// POST /api/invoices/:id/submit
func (ic *InvoiceController) SubmitInvoice(c echo.Context) error {
	id, ok := invoiceID(c)
	if !ok {
		return badID(c)
	}
	actor, _ := middlewares.ActorFromContext(c)

	inv, err := ic.Service.Submit(c.Request().Context(), actor, id)
	if err != nil {
		return invoiceError(c, err, "submit invoice")
	}
	return reply(c, http.StatusOK, "Invoice submitted successfully", inv)
}

// POST /api/invoices/:id/approve
func (ic *InvoiceController) ApproveInvoice(c echo.Context) error {
	id, ok := invoiceID(c)
	if !ok {
		return badID(c)
	}
	actor, _ := middlewares.ActorFromContext(c)

	inv, err := ic.Service.Approve(c.Request().Context(), actor, id)
	if err != nil {
		return invoiceError(c, err, "approve invoice")
	}
	return reply(c, http.StatusOK, "Invoice approved successfully", inv)
}

// POST /api/invoices/:id/reject  {"notes": "..."}
func (ic *InvoiceController) RejectInvoice(c echo.Context) error {
	id, ok := invoiceID(c)
	if !ok {
		return badID(c)
	}
	var req models.RejectInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return badPayload(c)
	}
	actor, _ := middlewares.ActorFromContext(c)

	inv, err := ic.Service.Reject(c.Request().Context(), actor, id, req)
	if err != nil {
		return invoiceError(c, err, "reject invoice")
	}
	return reply(c, http.StatusOK, "Invoice rejected successfully", inv)
}

// DELETE /api/invoices/:id
func (ic *InvoiceController) DeleteInvoice(c echo.Context) error {
	id, ok := invoiceID(c)
	if !ok {
		return badID(c)
	}
	actor, _ := middlewares.ActorFromContext(c)

	if err := ic.Service.Delete(c.Request().Context(), actor, id); err != nil {
		return invoiceError(c, err, "delete invoice")
	}
	return reply(c, http.StatusOK, "Invoice deleted successfully", nil)
}

// GET /api/invoices/:id
func (ic *InvoiceController) GetInvoice(c echo.Context) error {
	id, ok := invoiceID(c)
	if !ok {
		return badID(c)
	}
	actor, _ := middlewares.ActorFromContext(c)

	inv, err := ic.Service.Get(c.Request().Context(), actor, id)
	if err != nil {
		return invoiceError(c, err, "retrieve invoice")
	}
	return reply(c, http.StatusOK, "Invoice retrieved successfully", inv)
}

// GET /api/invoices?status=submitted&medical_record_id=1&q=INV-2024&limit=20&page=1
func (ic *InvoiceController) ListInvoices(c echo.Context) error {
	filter := models.InvoiceFilter{
		Status: models.Status(c.QueryParam("status")),
		Search: c.QueryParam("q"),
	}
	filter.MedicalRecordID, _ = strconv.ParseInt(c.QueryParam("medical_record_id"), 10, 64)
	filter.Limit, _ = strconv.Atoi(c.QueryParam("limit"))
	filter.Page, _ = strconv.Atoi(c.QueryParam("page"))
	actor, _ := middlewares.ActorFromContext(c)

	list, total, err := ic.Service.List(c.Request().Context(), actor, filter)
	if err != nil {
		return invoiceError(c, err, "retrieve invoices")
	}
	return reply(c, http.StatusOK, "Invoices retrieved successfully", echo.Map{
		"list":  list,
		"total": total,
	})
}

// POST /api/invoices/calculate
func (ic *InvoiceController) CalculateInvoice(c echo.Context) error {
	var req models.CalculateRequest
	if err := c.Bind(&req); err != nil {
		return badPayload(c)
	}
	actor, _ := middlewares.ActorFromContext(c)

	totals, err := ic.Service.Calculate(c.Request().Context(), actor, req)
	if err != nil {
		return invoiceError(c, err, "calculate invoice")
	}
	return reply(c, http.StatusOK, "Total calculated successfully", totals)
}

// GET /api/invoices/:id/print
func (ic *InvoiceController) PrintInvoice(c echo.Context) error {
	id, ok := invoiceID(c)
	if !ok {
		return badID(c)
	}
	actor, _ := middlewares.ActorFromContext(c)

	doc, err := ic.Service.Print(c.Request().Context(), actor, id)
	if err != nil {
		return invoiceError(c, err, "print invoice")
	}
	return c.HTMLBlob(http.StatusOK, doc)
}
