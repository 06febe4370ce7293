package schedule

import (
	"context"

	"github.com/klinik/clinic-scheduler/internal/audit"
	domain "github.com/klinik/clinic-scheduler/internal/domain/appointment"
	"github.com/klinik/clinic-scheduler/internal/domain/identity"
	"github.com/klinik/clinic-scheduler/internal/httperr"
	"github.com/klinik/clinic-scheduler/internal/models"
)

type HolidayInput struct {
	Principal identity.Principal

	// ID is zero for a new holiday.
	ID          uint
	ExpertID    uint
	StartDate   string
	EndDate     string
	Description string
}

type SaveHoliday struct {
	repo  domain.ScheduleRepository
	audit *audit.Dispatcher
}

func NewSaveHoliday(repo domain.ScheduleRepository, audit *audit.Dispatcher) *SaveHoliday {
	return &SaveHoliday{repo: repo, audit: audit}
}

func (uc *SaveHoliday) Execute(ctx context.Context, in HolidayInput) (*models.Holiday, error) {
	policy := identity.For(in.Principal)
	if !policy.CanManageSchedule(in.Principal, in.ExpertID) {
		return nil, httperr.ErrForbidden
	}

	rec := &models.Holiday{}
	if in.ID != 0 {
		existing, err := uc.repo.GetHoliday(ctx, in.ID)
		if err != nil {
			return nil, notFound(err)
		}
		if !policy.CanManageSchedule(in.Principal, existing.ExpertID) {
			return nil, httperr.ErrForbidden
		}
		rec = existing
	}

	rec.ExpertID = in.ExpertID
	rec.StartDate = in.StartDate
	rec.EndDate = in.EndDate
	rec.Description = in.Description

	candidate := domain.DateRangeFromModel(*rec)
	if !candidate.Valid() {
		return nil, httperr.ErrBusiness("invalid_date_range")
	}

	existing, err := uc.repo.ListHolidays(ctx, in.ExpertID)
	if err != nil {
		return nil, err
	}
	for _, e := range existing {
		if e.ID != rec.ID && candidate.Overlaps(domain.DateRangeFromModel(e)) {
			return nil, httperr.ErrBusiness("holiday_overlap")
		}
	}

	if err := uc.repo.SaveHoliday(ctx, rec); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.Principal.UserID,
		Action:   "holiday_saved",
		Entity:   "holiday",
		EntityID: &rec.ID,
	})

	return rec, nil
}

type DeleteHoliday struct {
	repo  domain.ScheduleRepository
	audit *audit.Dispatcher
}

func NewDeleteHoliday(repo domain.ScheduleRepository, audit *audit.Dispatcher) *DeleteHoliday {
	return &DeleteHoliday{repo: repo, audit: audit}
}

func (uc *DeleteHoliday) Execute(ctx context.Context, p identity.Principal, id uint) error {
	rec, err := uc.repo.GetHoliday(ctx, id)
	if err != nil {
		return notFound(err)
	}
	if !identity.For(p).CanManageSchedule(p, rec.ExpertID) {
		return httperr.ErrForbidden
	}

	if err := uc.repo.DeleteHoliday(ctx, id); err != nil {
		return notFound(err)
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &p.UserID,
		Action:   "holiday_deleted",
		Entity:   "holiday",
		EntityID: &id,
	})
	return nil
}
