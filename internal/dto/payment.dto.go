package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/klinik/clinic-scheduler/internal/models"
)

type PaymentDTO struct {
	ID                     uint            `json:"id"`
	AppointmentID          uint            `json:"appointment_id"`
	AmountPaid             decimal.Decimal `json:"amount_paid"`
	PaymentMethod          string          `json:"payment_method"`
	PaidAt                 time.Time       `json:"paid_at"`
	ExpertCommission       decimal.Decimal `json:"expert_commission"`
	AgentCommission        decimal.Decimal `json:"agent_commission"`
	IsCommissionCalculated bool            `json:"is_commission_calculated"`
	ClientName             string          `json:"client_name,omitempty"`
	ExpertName             string          `json:"expert_name,omitempty"`
	AgentName              string          `json:"agent_name,omitempty"`
	ServiceType            string          `json:"service_type,omitempty"`
}

func NewPayment(p models.Payment, loc *time.Location) PaymentDTO {
	out := PaymentDTO{
		ID:                     p.ID,
		AppointmentID:          p.AppointmentID,
		AmountPaid:             p.AmountPaid,
		PaymentMethod:          p.PaymentMethod,
		PaidAt:                 p.PaidAt.In(loc),
		ExpertCommission:       p.ExpertCommission,
		AgentCommission:        p.AgentCommission,
		IsCommissionCalculated: p.IsCommissionCalculated,
		ServiceType:            p.Appointment.ServiceType,
		ClientName:             nonEmptyName(p.Appointment.Client),
		ExpertName:             nonEmptyName(p.Appointment.Expert.User),
	}
	if p.Appointment.Agent != nil {
		out.AgentName = nonEmptyName(p.Appointment.Agent.User)
	}
	return out
}

func NewPaymentList(ps []models.Payment, loc *time.Location) []PaymentDTO {
	out := make([]PaymentDTO, 0, len(ps))
	for _, p := range ps {
		out = append(out, NewPayment(p, loc))
	}
	return out
}

// nonEmptyName skips relations that were not loaded.
func nonEmptyName(u models.User) string {
	if u.ID == 0 {
		return ""
	}
	return u.FullName()
}
