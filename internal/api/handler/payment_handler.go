package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rof/invgen/internal/api/metrics"
	"github.com/rof/invgen/internal/core/ports"
)

// HeaderIdempotencyKey lets clients retry payment creation safely.
const HeaderIdempotencyKey = "Idempotency-Key"

// PaymentHandler handles HTTP requests for payments.
type PaymentHandler struct {
	service ports.PaymentService
}

func NewPaymentHandler(service ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// Create handles POST /api/payment/create.
//
// @Summary      Record a payment against a record
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      createPaymentRequest  true   "Payment details"
// @Success      201              {object}  paymentResponse
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      500              {object}  errorResponse
// @Router       /api/payment/create [post]
func (h *PaymentHandler) Create(c echo.Context) error {
	var req createPaymentRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.service.Create(c.Request().Context(), ports.CreatePaymentInput{
		RecordID:       req.RecordID,
		Type:           req.Type,
		Amount:         float64(req.Amount),
		Date:           req.Date,
		Notes:          req.Notes,
		IdempotencyKey: c.Request().Header.Get(HeaderIdempotencyKey),
	})
	if err != nil {
		return err
	}

	if result.AlreadyExisted {
		metrics.IdempotentReplaysTotal.Inc()
	} else {
		metrics.PaymentsCreatedTotal.WithLabelValues(string(result.Payment.Type)).Inc()
	}

	return c.JSON(http.StatusCreated, paymentResponse{Message: "Payment recorded successfully", Payment: result.Payment})
}

// List handles GET /api/payment/get.
//
// @Summary      List every record with its payments and totals
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.RecordPayments
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/payment/get [get]
func (h *PaymentHandler) List(c echo.Context) error {
	grouped, err := h.service.ListGrouped(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, grouped)
}

// Update handles PUT /api/payment/edit/:id and its alias /api/payment/update/:id.
//
// @Summary      Partially update a payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Payment id"
// @Param        body  body      updatePaymentRequest  true  "Fields to change"
// @Success      200   {object}  paymentResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/payment/edit/{id} [put]
func (h *PaymentHandler) Update(c echo.Context) error {
	var req updatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	in := ports.UpdatePaymentInput{
		Type:  req.Type,
		Date:  req.Date,
		Notes: req.Notes,
	}
	if req.Amount != nil {
		amount := float64(*req.Amount)
		in.Amount = &amount
	}

	payment, err := h.service.Update(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, paymentResponse{Message: "Payment updated successfully", Payment: payment})
}

// Delete handles DELETE /api/payment/delete/:id.
//
// @Summary      Delete a payment
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Payment id"
// @Success      200  {object}  paymentResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/payment/delete/{id} [delete]
func (h *PaymentHandler) Delete(c echo.Context) error {
	payment, err := h.service.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, paymentResponse{Message: "Payment deleted successfully", Payment: payment})
}
