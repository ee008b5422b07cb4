package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rof/invgen/internal/api/metrics"
	"github.com/rof/invgen/internal/core/ports"
)

// RecordHandler handles HTTP requests for unit records.
type RecordHandler struct {
	service ports.RecordService
}

func NewRecordHandler(service ports.RecordService) *RecordHandler {
	return &RecordHandler{service: service}
}

func toRecordInput(req recordRequest) ports.RecordInput {
	return ports.RecordInput{
		UnitNo:      req.UnitNo,
		Name:        req.Name,
		EmailID:     req.EmailID,
		ContactNo:   req.ContactNo,
		BookingDate: req.BookingDate,
		UnitType:    req.UnitType,
		AreaSqYrd:   float64(req.AreaSqYrd),
	}
}

// List handles GET /api/record/get.
//
// @Summary      List records, latest booking first
// @Tags         records
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Record
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/record/get [get]
func (h *RecordHandler) List(c echo.Context) error {
	records, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, records)
}

// Create handles POST /api/record/create.
//
// @Summary      Create a record
// @Tags         records
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      recordRequest  true  "Record details"
// @Success      201   {object}  recordResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/record/create [post]
func (h *RecordHandler) Create(c echo.Context) error {
	var req recordRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	record, err := h.service.Create(c.Request().Context(), toRecordInput(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, recordResponse{Message: "Record created successfully.", Data: record})
}

// Update handles PUT /api/record/edit/:id.
//
// @Summary      Replace a record's details
// @Tags         records
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Record id"
// @Param        body  body      recordRequest  true  "Record details"
// @Success      200   {object}  recordResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/record/edit/{id} [put]
func (h *RecordHandler) Update(c echo.Context) error {
	var req recordRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	record, err := h.service.Update(c.Request().Context(), c.Param("id"), toRecordInput(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, recordResponse{Message: "Record updated successfully.", Data: record})
}

// Delete handles DELETE /api/record/delete/:id and removes the record's payments with it.
//
// @Summary      Delete a record and its payments
// @Tags         records
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Record id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/record/delete/{id} [delete]
func (h *RecordHandler) Delete(c echo.Context) error {
	result, err := h.service.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	mode := "sequential"
	if result.Transactional {
		mode = "transaction"
	}
	metrics.CascadeDeletesTotal.WithLabelValues(mode).Inc()

	return c.JSON(http.StatusOK, messageResponse{Message: "Record and associated payments deleted successfully."})
}
