package repository

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/klinik/clinic-scheduler/internal/domain/appointment"
	"github.com/klinik/clinic-scheduler/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *ScheduleGormRepository) ListAvailability(ctx context.Context, expertID uint) ([]models.Availability, error) {
	return listAvailability(r.db.WithContext(ctx), expertID)
}

func (r *ScheduleGormRepository) GetAvailability(ctx context.Context, id uint) (*models.Availability, error) {
	var a models.Availability
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ScheduleGormRepository) SaveAvailability(ctx context.Context, a *models.Availability) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *ScheduleGormRepository) DeleteAvailability(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Availability{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// --------------------------------------------------
// Holidays
// --------------------------------------------------

func (r *ScheduleGormRepository) ListHolidays(ctx context.Context, expertID uint) ([]models.Holiday, error) {
	return listHolidays(r.db.WithContext(ctx), expertID)
}

func (r *ScheduleGormRepository) GetHoliday(ctx context.Context, id uint) (*models.Holiday, error) {
	var h models.Holiday
	if err := r.db.WithContext(ctx).First(&h, id).Error; err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *ScheduleGormRepository) SaveHoliday(ctx context.Context, h *models.Holiday) error {
	return r.db.WithContext(ctx).Save(h).Error
}

func (r *ScheduleGormRepository) DeleteHoliday(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Holiday{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

var _ domain.ScheduleRepository = (*ScheduleGormRepository)(nil)
