package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	DefaultAgentCommissionRate    = decimal.RequireFromString("15.00")
	DefaultSubAgentCommissionRate = decimal.RequireFromString("5.00")
)

type Agent struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	CommissionRate         decimal.NullDecimal `gorm:"type:numeric(5,2)" json:"commission_rate"`
	SubAgentCommissionRate decimal.NullDecimal `gorm:"type:numeric(5,2)" json:"sub_agent_commission_rate"`

	ParentID *uint  `gorm:"index" json:"parent_id"`
	Parent   *Agent `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Agent) BeforeCreate(tx *gorm.DB) error {
	if !a.CommissionRate.Valid || a.CommissionRate.Decimal.IsZero() {
		a.CommissionRate = decimal.NewNullDecimal(DefaultAgentCommissionRate)
	}
	if !a.SubAgentCommissionRate.Valid || a.SubAgentCommissionRate.Decimal.IsZero() {
		a.SubAgentCommissionRate = decimal.NewNullDecimal(DefaultSubAgentCommissionRate)
	}
	return nil
}

// AgentClient is the agent_clients join row.
type AgentClient struct {
	AgentID  uint `gorm:"primaryKey"`
	ClientID uint `gorm:"primaryKey;index"`
}

func (AgentClient) TableName() string { return "agent_clients" }
