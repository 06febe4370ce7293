package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/klinik/clinic-scheduler/internal/models"
)

type AppointmentListDTO struct {
	ID            uint                `json:"id"`
	ScheduledAt   time.Time           `json:"scheduled_at"`
	Status        string              `json:"status"`
	PaymentStatus bool                `json:"payment_status"`
	ServiceType   string              `json:"service_type"`
	Amount        decimal.NullDecimal `json:"amount"`
	ClientID      uint                `json:"client_id"`
	ClientName    string              `json:"client_name,omitempty"`
	ExpertID      uint                `json:"expert_id"`
	ExpertName    string              `json:"expert_name,omitempty"`
	AgentID       *uint               `json:"agent_id"`
	AgentName     string              `json:"agent_name,omitempty"`
}

// AppointmentDTO is the single-appointment view.
type AppointmentDTO struct {
	AppointmentListDTO
	Notes       string     `json:"notes"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func NewAppointment(ap models.Appointment, loc *time.Location) AppointmentDTO {
	return AppointmentDTO{
		AppointmentListDTO: newListItem(ap, loc),
		Notes:              ap.Notes,
		CancelledAt:        inLoc(ap.CancelledAt, loc),
		CompletedAt:        inLoc(ap.CompletedAt, loc),
		CreatedAt:          ap.CreatedAt.In(loc),
	}
}

// NewAppointmentList renders times in loc.
func NewAppointmentList(apps []models.Appointment, loc *time.Location) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(apps))
	for _, ap := range apps {
		out = append(out, newListItem(ap, loc))
	}
	return out
}

func newListItem(ap models.Appointment, loc *time.Location) AppointmentListDTO {
	item := AppointmentListDTO{
		ID:            ap.ID,
		ScheduledAt:   ap.ScheduledAt.In(loc),
		Status:        ap.Status,
		PaymentStatus: ap.PaymentStatus,
		ServiceType:   ap.ServiceType,
		Amount:        ap.Amount,
		ClientID:      ap.ClientID,
		ClientName:    nonEmptyName(ap.Client),
		ExpertID:      ap.ExpertID,
		ExpertName:    nonEmptyName(ap.Expert.User),
		AgentID:       ap.AgentID,
	}
	if ap.Agent != nil {
		item.AgentName = nonEmptyName(ap.Agent.User)
	}
	return item
}

func inLoc(t *time.Time, loc *time.Location) *time.Time {
	if t == nil {
		return nil
	}
	v := t.In(loc)
	return &v
}
