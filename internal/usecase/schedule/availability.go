package schedule

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/klinik/clinic-scheduler/internal/audit"
	domain "github.com/klinik/clinic-scheduler/internal/domain/appointment"
	"github.com/klinik/clinic-scheduler/internal/domain/identity"
	"github.com/klinik/clinic-scheduler/internal/httperr"
	"github.com/klinik/clinic-scheduler/internal/models"
)

type AvailabilityInput struct {
	Principal identity.Principal

	// ID is zero for a new window.
	ID        uint
	ExpertID  uint
	DayOfWeek int
	StartTime string
	EndTime   string
}

type SaveAvailability struct {
	repo  domain.ScheduleRepository
	audit *audit.Dispatcher
}

func NewSaveAvailability(repo domain.ScheduleRepository, audit *audit.Dispatcher) *SaveAvailability {
	return &SaveAvailability{repo: repo, audit: audit}
}

func (uc *SaveAvailability) Execute(ctx context.Context, in AvailabilityInput) (*models.Availability, error) {
	policy := identity.For(in.Principal)
	if !policy.CanManageSchedule(in.Principal, in.ExpertID) {
		return nil, httperr.ErrForbidden
	}

	rec := &models.Availability{}
	if in.ID != 0 {
		existing, err := uc.repo.GetAvailability(ctx, in.ID)
		if err != nil {
			return nil, notFound(err)
		}
		if !policy.CanManageSchedule(in.Principal, existing.ExpertID) {
			return nil, httperr.ErrForbidden
		}
		rec = existing
	}

	rec.ExpertID = in.ExpertID
	rec.DayOfWeek = in.DayOfWeek
	rec.StartTime = in.StartTime
	rec.EndTime = in.EndTime

	candidate, err := domain.WindowFromModel(*rec)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_time")
	}
	if candidate.Weekday < 0 || candidate.Weekday > 6 {
		return nil, httperr.ErrBusiness("invalid_day_of_week")
	}
	if !candidate.Valid() {
		return nil, httperr.ErrBusiness("invalid_time_range")
	}
	// Normalise "9:00"-style input so stored values compare lexically.
	rec.StartTime = candidate.Start.String()
	rec.EndTime = candidate.End.String()

	existing, err := uc.repo.ListAvailability(ctx, in.ExpertID)
	if err != nil {
		return nil, err
	}
	for _, e := range existing {
		if e.ID == rec.ID {
			continue
		}
		w, err := domain.WindowFromModel(e)
		if err != nil {
			return nil, err
		}
		if candidate.Overlaps(w) {
			return nil, httperr.ErrBusiness("availability_overlap")
		}
	}

	if err := uc.repo.SaveAvailability(ctx, rec); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.Principal.UserID,
		Action:   "availability_saved",
		Entity:   "availability",
		EntityID: &rec.ID,
	})

	return rec, nil
}

type DeleteAvailability struct {
	repo  domain.ScheduleRepository
	audit *audit.Dispatcher
}

func NewDeleteAvailability(repo domain.ScheduleRepository, audit *audit.Dispatcher) *DeleteAvailability {
	return &DeleteAvailability{repo: repo, audit: audit}
}

func (uc *DeleteAvailability) Execute(ctx context.Context, p identity.Principal, id uint) error {
	rec, err := uc.repo.GetAvailability(ctx, id)
	if err != nil {
		return notFound(err)
	}
	if !identity.For(p).CanManageSchedule(p, rec.ExpertID) {
		return httperr.ErrForbidden
	}

	if err := uc.repo.DeleteAvailability(ctx, id); err != nil {
		return notFound(err)
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &p.UserID,
		Action:   "availability_deleted",
		Entity:   "availability",
		EntityID: &id,
	})
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrNotFound
	}
	return err
}
