package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rof/invgen/internal/api/metrics"
	"github.com/rof/invgen/internal/core/ports"
)

// EntryHandler handles HTTP requests for customer and broker entries.
type EntryHandler struct {
	service ports.EntryService
}

func NewEntryHandler(service ports.EntryService) *EntryHandler {
	return &EntryHandler{service: service}
}

// Add handles POST /api/entry/add.
//
// @Summary      Add an entry with its image
// @Tags         entries
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        name             formData  string  true   "Full name"
// @Param        type             formData  string  true   "Customer or Broker"
// @Param        phone            formData  string  false  "Phone number"
// @Param        remarks          formData  string  false  "Remarks"
// @Param        brokerName       formData  string  false  "Broker name (Broker only)"
// @Param        firmName         formData  string  false  "Firm name (Broker only)"
// @Param        brokerContactNo  formData  string  false  "Broker contact number (Broker only)"
// @Param        project          formData  string  false  "Project (admins only)"
// @Param        image            formData  file    true   "Photo"
// @Success      201              {object}  addEntryResponse
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      500              {object}  errorResponse
// @Router       /api/entry/add [post]
func (h *EntryHandler) Add(c echo.Context) error {
	caller, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	in := ports.AddEntryInput{
		Caller:          caller,
		Name:            c.FormValue("name"),
		Phone:           c.FormValue("phone"),
		Type:            c.FormValue("type"),
		Remarks:         c.FormValue("remarks"),
		BrokerName:      c.FormValue("brokerName"),
		FirmName:        c.FormValue("firmName"),
		BrokerContactNo: c.FormValue("brokerContactNo"),
		Project:         c.FormValue("project"),
	}

	fh, err := c.FormFile("image")
	switch {
	case err == nil:
		f, err := fh.Open()
		if err != nil {
			return err
		}
		defer f.Close()
		in.Image = &ports.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get(echo.HeaderContentType),
			Size:        fh.Size,
			Body:        f,
		}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// Left nil; the service reports the missing image.
	default:
		return errInvalidPayload
	}

	entry, err := h.service.Add(c.Request().Context(), in)
	if err != nil {
		return err
	}
	metrics.EntriesCreatedTotal.WithLabelValues(string(entry.Project), string(entry.Type)).Inc()

	return c.JSON(http.StatusCreated, addEntryResponse{
		Message: "Person added successfully",
		Person:  toEntryResponse(entry),
	})
}

// List handles GET /api/entry/records.
//
// @Summary      List entries visible to the caller
// @Tags         entries
// @Produce      json
// @Security     BearerAuth
// @Param        page        query     int     false  "Page number (1-based)"
// @Param        project     query     string  false  "Project filter (admins only)"
// @Param        dateFilter  query     string  false  "today, thisWeek, thisMonth or 10days"
// @Success      200         {object}  listEntriesResponse
// @Failure      401         {object}  errorResponse
// @Failure      500         {object}  errorResponse
// @Router       /api/entry/records [get]
func (h *EntryHandler) List(c echo.Context) error {
	caller, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	result, err := h.service.List(c.Request().Context(), ports.ListEntriesInput{
		Caller:     caller,
		Page:       page,
		Project:    c.QueryParam("project"),
		DateFilter: c.QueryParam("dateFilter"),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listEntriesResponse{
		Message:      "Entries fetched successfully",
		Page:         result.Page,
		TotalPages:   result.TotalPages,
		TotalEntries: result.TotalEntries,
		Entries:      toEntryResponses(result.Entries),
	})
}
