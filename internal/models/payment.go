package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Payment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	AppointmentID uint        `gorm:"uniqueIndex;not null" json:"appointment_id"`
	Appointment   Appointment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"appointment"`

	AmountPaid    decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount_paid"`
	PaymentMethod string          `gorm:"size:20;default:'credit_card';not null" json:"payment_method"`
	PaidAt        time.Time       `gorm:"not null;index" json:"paid_at"`

	ExpertCommission       decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"expert_commission"`
	AgentCommission        decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"agent_commission"`
	IsCommissionCalculated bool            `gorm:"default:false;not null" json:"is_commission_calculated"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
