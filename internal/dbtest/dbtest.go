// Package dbtest opens migrated in-memory sqlite databases for tests.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/klinik/clinic-scheduler/internal/db"
	"github.com/klinik/clinic-scheduler/internal/models"
)

// Open returns a fresh database private to the calling test.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), db.GormConfig())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	// One connection keeps transactions from tripping over sqlite's table
	// locks in shared-cache mode.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return gdb
}

func CreateUser(t testing.TB, gdb *gorm.DB, username, role string) models.User {
	t.Helper()

	u := models.User{Username: username, FirstName: username, Role: role}
	if err := gdb.Create(&u).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func CreateExpert(t testing.TB, gdb *gorm.DB, username string) models.Expert {
	t.Helper()

	u := CreateUser(t, gdb, username, "expert")
	e := models.Expert{UserID: u.ID, Specialization: "Dermatology"}
	if err := gdb.Create(&e).Error; err != nil {
		t.Fatalf("create expert %s: %v", username, err)
	}
	e.User = u
	return e
}

func CreateAgent(t testing.TB, gdb *gorm.DB, username string, parentID *uint) models.Agent {
	t.Helper()

	u := CreateUser(t, gdb, username, "agent")
	a := models.Agent{UserID: u.ID, ParentID: parentID}
	if err := gdb.Create(&a).Error; err != nil {
		t.Fatalf("create agent %s: %v", username, err)
	}
	a.User = u
	return a
}

func AssignClient(t testing.TB, gdb *gorm.DB, agentID, clientID uint) {
	t.Helper()

	if err := gdb.Create(&models.AgentClient{AgentID: agentID, ClientID: clientID}).Error; err != nil {
		t.Fatalf("assign client: %v", err)
	}
}

func AddAvailability(t testing.TB, gdb *gorm.DB, expertID uint, day int, start, end string) models.Availability {
	t.Helper()

	a := models.Availability{ExpertID: expertID, DayOfWeek: day, StartTime: start, EndTime: end}
	if err := gdb.Create(&a).Error; err != nil {
		t.Fatalf("create availability: %v", err)
	}
	return a
}

// CreateAppointment inserts ap as given, defaulting to a pending "other" service.
func CreateAppointment(t testing.TB, gdb *gorm.DB, ap models.Appointment) models.Appointment {
	t.Helper()

	if ap.Status == "" {
		ap.Status = "pending"
	}
	if ap.ServiceType == "" {
		ap.ServiceType = "other"
	}
	ap.ScheduledAt = ap.ScheduledAt.UTC()
	if err := gdb.Omit(clause.Associations).Create(&ap).Error; err != nil {
		t.Fatalf("create appointment: %v", err)
	}
	return ap
}
