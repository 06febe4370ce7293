package appointment

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/klinik/clinic-scheduler/internal/domain/appointment"
	"github.com/klinik/clinic-scheduler/internal/domain/identity"
	"github.com/klinik/clinic-scheduler/internal/httperr"
	"github.com/klinik/clinic-scheduler/internal/models"
)

const conflictMessage = "the expert already has an appointment at this time"

// loadSchedule returns the expert's windows and holidays in clinic time.
func loadSchedule(
	ctx context.Context,
	repo domain.Repository,
	expertID uint,
	loc *time.Location,
) (domain.Snapshot, error) {

	snap := domain.Snapshot{Location: loc}

	avail, err := repo.ListAvailability(ctx, expertID)
	if err != nil {
		return snap, err
	}
	for _, a := range avail {
		w, err := domain.WindowFromModel(a)
		if err != nil {
			return snap, err
		}
		snap.Windows = append(snap.Windows, w)
	}

	holidays, err := repo.ListHolidays(ctx, expertID)
	if err != nil {
		return snap, err
	}
	for _, h := range holidays {
		snap.Holidays = append(snap.Holidays, domain.DateRangeFromModel(h))
	}

	return snap, nil
}

func bookings(apps []models.Appointment) []domain.Booking {
	out := make([]domain.Booking, 0, len(apps))
	for _, ap := range apps {
		out = append(out, domain.Booking{ID: ap.ID, At: ap.ScheduledAt})
	}
	return out
}

// bookSlot validates c under the slot lock and the row lock, then runs
// write in the same transaction.
func bookSlot(
	ctx context.Context,
	repo domain.Repository,
	locker domain.SlotLocker,
	c domain.Candidate,
	snap domain.Snapshot,
	now time.Time,
	write func(tx domain.Tx) error,
) error {

	release, err := locker.Acquire(ctx, c.ExpertID, c.At)
	if errors.Is(err, domain.ErrSlotBusy) {
		return domain.Reject(domain.ReasonConflict, conflictMessage)
	}
	if err != nil {
		return err
	}
	defer release()

	err = repo.InTx(ctx, func(tx domain.Tx) error {
		active, err := tx.ActiveAt(c.ExpertID, c.At)
		if err != nil {
			return err
		}
		snap.Booked = bookings(active)

		if err := domain.Validate(c, snap, now); err != nil {
			return err
		}
		return write(tx)
	})

	if httperr.IsUniqueConflict(err) {
		return domain.Reject(domain.ReasonConflict, conflictMessage)
	}
	return err
}

// loadAppointment fetches an appointment and the facts policies need.
func loadAppointment(
	ctx context.Context,
	repo domain.Repository,
	id uint,
) (*models.Appointment, identity.AppointmentRef, error) {

	ap, err := repo.GetAppointment(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, identity.AppointmentRef{}, httperr.ErrNotFound
	}
	if err != nil {
		return nil, identity.AppointmentRef{}, err
	}

	ref := identity.AppointmentRef{
		ExpertID: ap.ExpertID,
		ClientID: ap.ClientID,
		AgentID:  ap.AgentID,
	}

	clientAgent, err := repo.AgentForClient(ctx, ap.ClientID)
	if err != nil {
		return nil, identity.AppointmentRef{}, err
	}
	if clientAgent != nil {
		ref.ClientAgentID = &clientAgent.ID
	}

	return ap, ref, nil
}
