package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/klinik/clinic-scheduler/internal/dto"
	"github.com/klinik/clinic-scheduler/internal/httperr"
	"github.com/klinik/clinic-scheduler/internal/httpresp"
	"github.com/klinik/clinic-scheduler/internal/middleware"
	ucAppointment "github.com/klinik/clinic-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create       *ucAppointment.CreateAppointment
	update       *ucAppointment.UpdateAppointment
	cancel       *ucAppointment.CancelAppointment
	confirm      *ucAppointment.ConfirmAppointment
	get          *ucAppointment.GetAppointment
	list         *ucAppointment.ListAppointments
	forClient    *ucAppointment.ClientAppointments
	availability *ucAppointment.GetAvailability
	loc          *time.Location
}

func NewAppointmentHandler(
	create *ucAppointment.CreateAppointment,
	update *ucAppointment.UpdateAppointment,
	cancel *ucAppointment.CancelAppointment,
	confirm *ucAppointment.ConfirmAppointment,
	get *ucAppointment.GetAppointment,
	list *ucAppointment.ListAppointments,
	forClient *ucAppointment.ClientAppointments,
	availability *ucAppointment.GetAvailability,
	loc *time.Location,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:       create,
		update:       update,
		cancel:       cancel,
		confirm:      confirm,
		get:          get,
		list:         list,
		forClient:    forClient,
		availability: availability,
		loc:          loc,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ExpertID uint `json:"expert_id"`
	ClientID uint `json:"client_id"`

	// Either scheduled_at (RFC 3339) or date + time in clinic time.
	ScheduledAt string `json:"scheduled_at"`
	Date        string `json:"date"`
	Time        string `json:"time"`

	ServiceType string           `json:"service_type"`
	Notes       string           `json:"notes"`
	Amount      *decimal.Decimal `json:"amount"`
}

type UpdateAppointmentRequest struct {
	ExpertID    *uint   `json:"expert_id"`
	ScheduledAt *string `json:"scheduled_at"`
	Date        *string `json:"date"`
	Time        *string `json:"time"`
	ServiceType *string `json:"service_type"`
	Notes       *string `json:"notes"`

	Status        *string          `json:"status"`
	PaymentStatus *bool            `json:"payment_status"`
	Amount        *decimal.Decimal `json:"amount"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	// A missing time is reported by the validator as a missing field.
	var at time.Time
	if req.ScheduledAt != "" || req.Date != "" || req.Time != "" {
		t, err := parseScheduledAt(h.loc, req.ScheduledAt, req.Date, req.Time)
		if err != nil {
			httperr.BadRequest(c, "invalid_date_or_time", "Invalid date or time.")
			return
		}
		at = t
	}

	res, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		Principal:   middleware.PrincipalFrom(c),
		ExpertID:    req.ExpertID,
		ClientID:    req.ClientID,
		ScheduledAt: at,
		ServiceType: req.ServiceType,
		Notes:       req.Notes,
		Amount:      req.Amount,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.Created(c, gin.H{
		"appointment": dto.NewAppointment(*res.Appointment, h.loc),
		"warnings":    nonNil(res.Warnings),
	})
}

// ======================================================
// UPDATE
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	in := ucAppointment.UpdateAppointmentInput{
		Principal:     middleware.PrincipalFrom(c),
		ID:            id,
		ExpertID:      req.ExpertID,
		ServiceType:   req.ServiceType,
		Notes:         req.Notes,
		Status:        req.Status,
		PaymentStatus: req.PaymentStatus,
		Amount:        req.Amount,
	}

	if req.ScheduledAt != nil || (req.Date != nil && req.Time != nil) {
		at, err := parseScheduledAt(h.loc, deref(req.ScheduledAt), deref(req.Date), deref(req.Time))
		if err != nil {
			httperr.BadRequest(c, "invalid_date_or_time", "Invalid date or time.")
			return
		}
		in.ScheduledAt = &at
	} else if req.Date != nil || req.Time != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Date and time must be sent together.")
		return
	}

	ap, err := h.update.Execute(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, dto.NewAppointment(*ap, h.loc))
}

// ======================================================
// STATE CHANGES
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), middleware.PrincipalFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, dto.NewAppointment(*ap, h.loc))
}

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ap, err := h.confirm.Execute(c.Request.Context(), middleware.PrincipalFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, dto.NewAppointment(*ap, h.loc))
}

// ======================================================
// READ
// ======================================================

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ap, err := h.get.Execute(c.Request.Context(), middleware.PrincipalFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, dto.NewAppointment(*ap, h.loc))
}

func (h *AppointmentHandler) List(c *gin.Context) {
	in, ok := h.listInput(c)
	if !ok {
		return
	}

	res, err := h.list.Execute(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	h.writeList(c, res)
}

func (h *AppointmentHandler) ListForClient(c *gin.Context) {
	clientID, ok := pathID(c, "id")
	if !ok {
		return
	}
	in, ok := h.listInput(c)
	if !ok {
		return
	}
	in.ClientID = clientID

	res, err := h.forClient.Execute(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	h.writeList(c, res)
}

func (h *AppointmentHandler) listInput(c *gin.Context) (ucAppointment.ListAppointmentsInput, bool) {
	expertID, ok1 := queryUint(c, "expert_id")
	if !ok1 {
		return ucAppointment.ListAppointmentsInput{}, false
	}
	agentID, ok2 := queryUint(c, "agent_id")
	if !ok2 {
		return ucAppointment.ListAppointmentsInput{}, false
	}

	return ucAppointment.ListAppointmentsInput{
		Principal:   middleware.PrincipalFrom(c),
		ClientName:  c.Query("client_name"),
		Date:        c.Query("date"),
		Status:      c.Query("status"),
		ExpertID:    expertID,
		AgentID:     agentID,
		ServiceType: c.Query("service_type"),
		Page:        queryInt(c, "page"),
		PageSize:    queryInt(c, "page_size"),
	}, true
}

func (h *AppointmentHandler) writeList(c *gin.Context, res *ucAppointment.ListAppointmentsResult) {
	body := gin.H{
		"data":      res.Items,
		"total":     res.Total,
		"page":      res.Page,
		"page_size": res.PageSize,
	}
	if res.Warning != "" {
		body["warning"] = res.Warning
	}
	c.JSON(http.StatusOK, body)
}

// ======================================================
// PUBLIC SLOTS
// ======================================================

func (h *AppointmentHandler) AvailableSlots(c *gin.Context) {
	expertID, ok := queryUint(c, "expert_id")
	if !ok {
		return
	}
	date := c.Query("date")
	if expertID == 0 || date == "" {
		httperr.BadRequest(c, "missing_params", "expert_id and date are required.")
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), expertID, date)
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"available_slots": slots})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
