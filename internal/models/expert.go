package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var DefaultExpertCommissionRate = decimal.RequireFromString("30.00")

type Expert struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	Specialization string `gorm:"size:100" json:"specialization"`

	// Percentage, 30.00 means 30%.
	CommissionRate decimal.NullDecimal `gorm:"type:numeric(5,2)" json:"commission_rate"`

	Availabilities []Availability `gorm:"foreignKey:ExpertID;constraint:OnDelete:CASCADE;" json:"-"`
	Holidays       []Holiday      `gorm:"foreignKey:ExpertID;constraint:OnDelete:CASCADE;" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *Expert) BeforeCreate(tx *gorm.DB) error {
	if !e.CommissionRate.Valid || e.CommissionRate.Decimal.IsZero() {
		e.CommissionRate = decimal.NewNullDecimal(DefaultExpertCommissionRate)
	}
	return nil
}
