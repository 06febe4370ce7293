package models

import "time"

// Availability is a recurring weekly window. DayOfWeek 0 is Monday.
type Availability struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	ExpertID uint `gorm:"index:idx_availability_expert_day;not null" json:"expert_id"`

	DayOfWeek int    `gorm:"index:idx_availability_expert_day;not null" json:"day_of_week"`
	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Availability) TableName() string { return "expert_availabilities" }

// Holiday dates are stored as YYYY-MM-DD so range filters compare lexically.
type Holiday struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	ExpertID uint `gorm:"index;not null" json:"expert_id"`

	StartDate   string `gorm:"size:10;not null" json:"start_date"`
	EndDate     string `gorm:"size:10;not null" json:"end_date"`
	Description string `gorm:"size:255" json:"description"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Holiday) TableName() string { return "expert_holidays" }
