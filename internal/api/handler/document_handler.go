package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rof/invgen/internal/api/metrics"
	"github.com/rof/invgen/internal/core/domain"
	"github.com/rof/invgen/internal/core/ports"
)

// DocumentHandler serves generated files: the entry workbook and the
// payment receipt and record statement PDFs. Documents are produced in
// full before any byte is written so failures still render as JSON.
type DocumentHandler struct {
	service ports.ReportService
}

func NewDocumentHandler(service ports.ReportService) *DocumentHandler {
	return &DocumentHandler{service: service}
}

// ExportEntries handles GET /api/entry/export.
//
// @Summary      Export entries as an Excel workbook
// @Tags         entries
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        option   query     string  false  "today, week, month or 10days"
// @Param        project  query     string  false  "Project filter (admins only)"
// @Success      200      {file}    file
// @Failure      401      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /api/entry/export [get]
func (h *DocumentHandler) ExportEntries(c echo.Context) error {
	caller, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	doc, err := h.service.ExportEntries(c.Request().Context(), ports.ExportEntriesInput{
		Caller:  caller,
		Option:  c.QueryParam("option"),
		Project: c.QueryParam("project"),
	})
	switch {
	case errors.Is(err, domain.ErrNoEntriesToExport):
		metrics.ExportsTotal.WithLabelValues("empty").Inc()
		return err
	case err != nil:
		metrics.ExportsTotal.WithLabelValues("error").Inc()
		return err
	}
	metrics.ExportsTotal.WithLabelValues("ok").Inc()

	return sendDocument(c, doc)
}

// PaymentReceipt handles GET /api/payment/:id/invoice/pdf.
//
// @Summary      Download the receipt for one payment
// @Tags         payments
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path      string  true  "Payment id"
// @Success      200  {file}    file
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/payment/{id}/invoice/pdf [get]
func (h *DocumentHandler) PaymentReceipt(c echo.Context) error {
	start := time.Now()
	doc, err := h.service.PaymentReceipt(c.Request().Context(), c.Param("id"))
	observeRender("receipt", start, err)
	if err != nil {
		return err
	}
	return sendDocument(c, doc)
}

// RecordStatement handles GET /api/payment/:recordId/invoice/summary.
//
// @Summary      View the payment statement for a record
// @Tags         payments
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        recordId  path      string  true  "Record id"
// @Success      200       {file}    file
// @Failure      404       {object}  errorResponse
// @Failure      500       {object}  errorResponse
// @Router       /api/payment/{recordId}/invoice/summary [get]
func (h *DocumentHandler) RecordStatement(c echo.Context) error {
	start := time.Now()
	doc, err := h.service.RecordStatement(c.Request().Context(), c.Param("recordId"))
	observeRender("statement", start, err)
	if err != nil {
		return err
	}
	return sendDocument(c, doc)
}

func observeRender(document string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.RenderDuration.WithLabelValues(document, result).Observe(time.Since(start).Seconds())
}

func sendDocument(c echo.Context, doc *ports.Document) error {
	disposition := "attachment"
	if doc.Inline {
		disposition = "inline"
	}
	h := c.Response().Header()
	h.Set(echo.HeaderContentDisposition, fmt.Sprintf("%s; filename=%q", disposition, doc.Filename))
	h.Set(echo.HeaderContentLength, strconv.Itoa(len(doc.Data)))
	return c.Blob(http.StatusOK, doc.ContentType, doc.Data)
}
