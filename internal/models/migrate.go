package models

import "gorm.io/gorm"

// AutoMigrate creates or updates every table of the clinic schema.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Expert{},
		&Agent{},
		&AgentClient{},
		&Availability{},
		&Holiday{},
		&Appointment{},
		&Payment{},
		&AuditLog{},
	)
}
