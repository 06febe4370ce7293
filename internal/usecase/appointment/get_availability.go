package appointment

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/klinik/clinic-scheduler/internal/domain/appointment"
	"github.com/klinik/clinic-scheduler/internal/httperr"
	"github.com/klinik/clinic-scheduler/internal/timezone"
)

type GetAvailability struct {
	repo  domain.Repository
	clock timezone.Clock
	loc   *time.Location
}

func NewGetAvailability(
	repo domain.Repository,
	clock timezone.Clock,
	loc *time.Location,
) *GetAvailability {
	return &GetAvailability{repo: repo, clock: clock, loc: loc}
}

// Execute lists the free "HH:MM" slots of the expert on date (YYYY-MM-DD).
func (uc *GetAvailability) Execute(
	ctx context.Context,
	expertID uint,
	date string,
) ([]string, error) {

	day, err := time.ParseInLocation(domain.DateLayout, date, uc.loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	if _, err := uc.repo.GetExpert(ctx, expertID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("expert_not_found")
		}
		return nil, err
	}

	snap, err := loadSchedule(ctx, uc.repo, expertID, uc.loc)
	if err != nil {
		return nil, err
	}

	booked, err := uc.repo.ListActiveBetween(ctx, expertID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	snap.Booked = bookings(booked)

	return domain.SlotStrings(domain.Slots(day, snap, uc.clock())), nil
}
