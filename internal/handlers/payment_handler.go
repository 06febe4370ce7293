package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/klinik/clinic-scheduler/internal/dto"
	"github.com/klinik/clinic-scheduler/internal/httperr"
	"github.com/klinik/clinic-scheduler/internal/httpresp"
	"github.com/klinik/clinic-scheduler/internal/middleware"
	ucPayment "github.com/klinik/clinic-scheduler/internal/usecase/payment"
)

type PaymentHandler struct {
	record      *ucPayment.RecordPayment
	update      *ucPayment.UpdateAmount
	recalculate *ucPayment.Recalculate
	loc         *time.Location
}

func NewPaymentHandler(
	record *ucPayment.RecordPayment,
	update *ucPayment.UpdateAmount,
	recalculate *ucPayment.Recalculate,
	loc *time.Location,
) *PaymentHandler {
	return &PaymentHandler{
		record:      record,
		update:      update,
		recalculate: recalculate,
		loc:         loc,
	}
}

type RecordPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount_paid"`
	PaymentMethod string          `json:"payment_method"`
}

type UpdatePaymentRequest struct {
	Amount decimal.Decimal `json:"amount_paid"`
}

// POST /api/appointments/:id/payment
func (h *PaymentHandler) Record(c *gin.Context) {
	appointmentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	p, err := h.record.Execute(c.Request.Context(), ucPayment.RecordPaymentInput{
		Principal:     middleware.PrincipalFrom(c),
		AppointmentID: appointmentID,
		Amount:        req.Amount,
		Method:        req.PaymentMethod,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.Created(c, dto.NewPayment(*p, h.loc))
}

// PATCH /api/payments/:id
func (h *PaymentHandler) UpdateAmount(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	p, err := h.update.Execute(c.Request.Context(), middleware.PrincipalFrom(c), id, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, dto.NewPayment(*p, h.loc))
}

// POST /api/payments/:id/recalculate
func (h *PaymentHandler) Recalculate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	p, changed, err := h.recalculate.Execute(c.Request.Context(), middleware.PrincipalFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"payment": dto.NewPayment(*p, h.loc),
		"changed": changed,
	})
}
