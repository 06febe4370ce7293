package schedule

import (
	"context"

	domain "github.com/klinik/clinic-scheduler/internal/domain/appointment"
	"github.com/klinik/clinic-scheduler/internal/models"
)

type Schedule struct {
	Availability []models.Availability `json:"availability"`
	Holidays     []models.Holiday      `json:"holidays"`
}

type GetSchedule struct {
	repo domain.ScheduleRepository
}

func NewGetSchedule(repo domain.ScheduleRepository) *GetSchedule {
	return &GetSchedule{repo: repo}
}

func (uc *GetSchedule) Execute(ctx context.Context, expertID uint) (*Schedule, error) {
	avail, err := uc.repo.ListAvailability(ctx, expertID)
	if err != nil {
		return nil, err
	}
	holidays, err := uc.repo.ListHolidays(ctx, expertID)
	if err != nil {
		return nil, err
	}

	if avail == nil {
		avail = []models.Availability{}
	}
	if holidays == nil {
		holidays = []models.Holiday{}
	}
	return &Schedule{Availability: avail, Holidays: holidays}, nil
}
