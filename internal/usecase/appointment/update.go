package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/klinik/clinic-scheduler/internal/audit"
	domain "github.com/klinik/clinic-scheduler/internal/domain/appointment"
	"github.com/klinik/clinic-scheduler/internal/domain/identity"
	"github.com/klinik/clinic-scheduler/internal/httperr"
	"github.com/klinik/clinic-scheduler/internal/models"
	"github.com/klinik/clinic-scheduler/internal/timezone"
)

// UpdateAppointmentInput carries only the fields being changed.
type UpdateAppointmentInput struct {
	Principal identity.Principal
	ID        uint

	ExpertID    *uint
	ScheduledAt *time.Time
	ServiceType *string
	Notes       *string

	Status        *string
	PaymentStatus *bool
	Amount        *decimal.Decimal
}

func (in UpdateAppointmentInput) touchesBilling() bool {
	return in.Status != nil || in.PaymentStatus != nil || in.Amount != nil
}

type UpdateAppointment struct {
	repo   domain.Repository
	locker domain.SlotLocker
	audit  *audit.Dispatcher
	clock  timezone.Clock
	loc    *time.Location
}

func NewUpdateAppointment(
	repo domain.Repository,
	locker domain.SlotLocker,
	audit *audit.Dispatcher,
	clock timezone.Clock,
	loc *time.Location,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:   repo,
		locker: locker,
		audit:  audit,
		clock:  clock,
		loc:    loc,
	}
}

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	ap, ref, err := loadAppointment(ctx, uc.repo, in.ID)
	if err != nil {
		return nil, err
	}

	policy := identity.For(in.Principal)
	if !policy.CanEditAppointment(in.Principal, ref) {
		return nil, httperr.ErrForbidden
	}
	if in.touchesBilling() && !policy.CanChangeBilling() {
		return nil, httperr.ErrForbidden
	}

	wasActive := domain.Status(ap.Status).Active()
	scheduleChanged := false

	if in.ExpertID != nil && *in.ExpertID != ap.ExpertID {
		if _, err := uc.repo.GetExpert(ctx, *in.ExpertID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, httperr.ErrBusiness("expert_not_found")
			}
			return nil, err
		}
		ap.ExpertID = *in.ExpertID
		scheduleChanged = true
	}
	if in.ScheduledAt != nil && !in.ScheduledAt.Equal(ap.ScheduledAt) {
		ap.ScheduledAt = *in.ScheduledAt
		scheduleChanged = true
	}
	if in.ServiceType != nil {
		ap.ServiceType = *in.ServiceType
	}
	if in.Notes != nil {
		ap.Notes = *in.Notes
	}
	if in.Status != nil {
		st := domain.Status(*in.Status)
		if !st.Valid() {
			return nil, httperr.ErrBusiness("invalid_status")
		}
		ap.Status = string(st)
	}
	if in.PaymentStatus != nil {
		ap.PaymentStatus = *in.PaymentStatus
	}
	if in.Amount != nil {
		ap.Amount = decimal.NewNullDecimal(*in.Amount)
	}

	candidate := domain.Candidate{
		ID:          ap.ID,
		ExpertID:    ap.ExpertID,
		ClientID:    ap.ClientID,
		At:          ap.ScheduledAt,
		ServiceType: ap.ServiceType,
	}
	if rej := domain.CheckRequired(candidate); rej != nil {
		return nil, rej
	}

	// Schedule rules apply when the result holds a slot it did not hold
	// before: a moved appointment or a reactivated one.
	isActive := domain.Status(ap.Status).Active()
	if isActive && (scheduleChanged || !wasActive) {
		snap, err := loadSchedule(ctx, uc.repo, ap.ExpertID, uc.loc)
		if err != nil {
			return nil, err
		}
		err = bookSlot(ctx, uc.repo, uc.locker, candidate, snap, uc.clock(), func(tx domain.Tx) error {
			return tx.Save(ap)
		})
		if err != nil {
			return nil, err
		}
	} else if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		if httperr.IsUniqueConflict(err) {
			return nil, domain.Reject(domain.ReasonConflict, conflictMessage)
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.Principal.UserID,
		Action:   "appointment_updated",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	// Reload so relations reflect a changed expert.
	if fresh, err := uc.repo.GetAppointment(ctx, ap.ID); err == nil {
		ap = fresh
	}

	return ap, nil
}
