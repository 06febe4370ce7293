package appointment

import (
	"context"
	"errors"
	"log/slog"
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

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	Principal identity.Principal

	ExpertID uint
	// ClientID is ignored when a client books for themself.
	ClientID uint

	ScheduledAt time.Time
	ServiceType string
	Notes       string

	// Amount is only honoured for callers allowed to set billing fields.
	Amount *decimal.Decimal
}

type CreateAppointmentResult struct {
	Appointment *models.Appointment
	Warnings    []string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo   domain.Repository
	locker domain.SlotLocker
	audit  *audit.Dispatcher
	clock  timezone.Clock
	loc    *time.Location
}

func NewCreateAppointment(
	repo domain.Repository,
	locker domain.SlotLocker,
	audit *audit.Dispatcher,
	clock timezone.Clock,
	loc *time.Location,
) *CreateAppointment {
	return &CreateAppointment{
		repo:   repo,
		locker: locker,
		audit:  audit,
		clock:  clock,
		loc:    loc,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*CreateAppointmentResult, error) {

	p := in.Principal
	policy := identity.For(p)

	if p.Role == identity.RoleAgent && p.AgentID == nil {
		return nil, httperr.ErrBusiness("agent_profile_missing")
	}
	if !policy.CanCreateAppointment(p) {
		return nil, httperr.ErrForbidden
	}

	// --------------------------------------------------
	// Parties
	// --------------------------------------------------
	clientID := in.ClientID
	if p.Role == identity.RoleClient {
		clientID = p.UserID
	}

	candidate := domain.Candidate{
		ExpertID:    in.ExpertID,
		ClientID:    clientID,
		At:          in.ScheduledAt,
		ServiceType: in.ServiceType,
	}
	// Lookups below need every field; other reasons are collected later.
	if rej := domain.CheckRequired(candidate); rej != nil && rej.Has(domain.ReasonMissingField) {
		return nil, rej
	}

	client, err := uc.repo.GetUser(ctx, clientID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && client.Role != string(identity.RoleClient)) {
		return nil, httperr.ErrBusiness("client_not_found")
	}
	if err != nil {
		return nil, err
	}

	if _, err := uc.repo.GetExpert(ctx, in.ExpertID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("expert_not_found")
		}
		return nil, err
	}

	res := &CreateAppointmentResult{}

	var agentID *uint
	if p.Role == identity.RoleAgent {
		ok, err := uc.repo.IsAssignedClient(ctx, *p.AgentID, clientID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, httperr.ErrForbidden
		}
		agentID = p.AgentID
	} else {
		agent, err := uc.repo.AgentForClient(ctx, clientID)
		if err != nil {
			return nil, err
		}
		if agent != nil {
			agentID = &agent.ID
		} else {
			res.Warnings = append(res.Warnings, "no agent is assigned to this client")
			slog.Warn("appointment booked for client without agent", "client_id", clientID)
		}
	}

	// --------------------------------------------------
	// Validation + write
	// --------------------------------------------------
	snap, err := loadSchedule(ctx, uc.repo, in.ExpertID, uc.loc)
	if err != nil {
		return nil, err
	}

	ap := &models.Appointment{
		ExpertID:    in.ExpertID,
		ClientID:    clientID,
		AgentID:     agentID,
		ScheduledAt: in.ScheduledAt,
		Status:      string(domain.InitialStatus()),
		ServiceType: in.ServiceType,
		Notes:       in.Notes,
	}
	if in.Amount != nil && policy.CanChangeBilling() {
		ap.Amount = decimal.NewNullDecimal(*in.Amount)
	}

	err = bookSlot(ctx, uc.repo, uc.locker, candidate, snap, uc.clock(), func(tx domain.Tx) error {
		return tx.Create(ap)
	})
	if err != nil {
		var rej *domain.RejectionError
		if errors.As(err, &rej) && rej.Has(domain.ReasonConflict) {
			uc.audit.Dispatch(audit.Event{
				UserID: &p.UserID,
				Action: "appointment_conflict",
				Entity: "appointment",
				Metadata: map[string]any{
					"expert_id":    in.ExpertID,
					"scheduled_at": in.ScheduledAt,
				},
			})
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &p.UserID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	res.Appointment = ap
	return res, nil
}
