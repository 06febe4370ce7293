package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ExpertID uint   `gorm:"not null;uniqueIndex:idx_appointments_active_slot,where:status <> 'cancelled' AND status <> 'completed'" json:"expert_id"`
	Expert   Expert `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"expert"`

	ClientID uint `gorm:"not null;index" json:"client_id"`
	Client   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"client"`

	AgentID *uint  `gorm:"index" json:"agent_id"`
	Agent   *Agent `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"agent,omitempty"`

	ScheduledAt time.Time `gorm:"not null;uniqueIndex:idx_appointments_active_slot,where:status <> 'cancelled' AND status <> 'completed'" json:"scheduled_at"`

	Status        string              `gorm:"size:10;default:'pending';not null;index" json:"status"`
	PaymentStatus bool                `gorm:"default:false;not null" json:"payment_status"`
	Amount        decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"amount"`
	ServiceType   string              `gorm:"size:50;default:'other';not null" json:"service_type"`
	Notes         string              `gorm:"type:text" json:"notes"`

	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
