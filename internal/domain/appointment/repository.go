package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/klinik/clinic-scheduler/internal/domain/identity"
	"github.com/klinik/clinic-scheduler/internal/models"
)

// Filter narrows appointment listings. Zero values mean "any".
type Filter struct {
	ClientName string
	// From/To bound scheduled_at when set.
	From        time.Time
	To          time.Time
	Status      string
	ExpertID    uint
	AgentID     uint
	ClientID    uint
	ServiceType string

	Page     int
	PageSize int
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Paged clamps Page and PageSize to usable values.
func (f Filter) Paged() Filter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	return f
}

type Repository interface {
	// -------- Profiles --------
	GetExpert(ctx context.Context, id uint) (*models.Expert, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
	AgentForClient(ctx context.Context, clientID uint) (*models.Agent, error)
	IsAssignedClient(ctx context.Context, agentID, clientID uint) (bool, error)

	// -------- Snapshot --------
	ListAvailability(ctx context.Context, expertID uint) ([]models.Availability, error)
	ListHolidays(ctx context.Context, expertID uint) ([]models.Holiday, error)
	ListActiveBetween(ctx context.Context, expertID uint, from, to time.Time) ([]models.Appointment, error)

	// -------- Appointment --------
	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)
	UpdateAppointment(ctx context.Context, ap *models.Appointment) error
	List(ctx context.Context, scope identity.Scope, f Filter) ([]models.Appointment, int64, error)

	// InTx runs fn inside one database transaction.
	InTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the part of the repository usable inside InTx.
type Tx interface {
	// ActiveAt locks and returns the active appointments of the expert at
	// exactly the given instant.
	ActiveAt(expertID uint, at time.Time) ([]models.Appointment, error)
	Create(ap *models.Appointment) error
	Save(ap *models.Appointment) error
}

// ScheduleRepository stores expert availability windows and holidays.
type ScheduleRepository interface {
	ListAvailability(ctx context.Context, expertID uint) ([]models.Availability, error)
	GetAvailability(ctx context.Context, id uint) (*models.Availability, error)
	SaveAvailability(ctx context.Context, a *models.Availability) error
	DeleteAvailability(ctx context.Context, id uint) error

	ListHolidays(ctx context.Context, expertID uint) ([]models.Holiday, error)
	GetHoliday(ctx context.Context, id uint) (*models.Holiday, error)
	SaveHoliday(ctx context.Context, h *models.Holiday) error
	DeleteHoliday(ctx context.Context, id uint) error
}

var ErrSlotBusy = errors.New("slot is being booked")

// SlotLocker serializes bookings of one expert instant across processes.
type SlotLocker interface {
	Acquire(ctx context.Context, expertID uint, at time.Time) (release func(), err error)
}
