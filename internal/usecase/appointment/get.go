package appointment

import (
	"context"

	domain "github.com/klinik/clinic-scheduler/internal/domain/appointment"
	"github.com/klinik/clinic-scheduler/internal/domain/identity"
	"github.com/klinik/clinic-scheduler/internal/httperr"
	"github.com/klinik/clinic-scheduler/internal/models"
)

type GetAppointment struct {
	repo domain.Repository
}

func NewGetAppointment(repo domain.Repository) *GetAppointment {
	return &GetAppointment{repo: repo}
}

// Execute returns the appointment if it falls inside the caller's scope.
func (uc *GetAppointment) Execute(
	ctx context.Context,
	p identity.Principal,
	id uint,
) (*models.Appointment, error) {

	ap, ref, err := loadAppointment(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}

	if !inScope(identity.For(p).AppointmentScope(p), ref) {
		return nil, httperr.ErrNotFound
	}
	return ap, nil
}

func inScope(s identity.Scope, ref identity.AppointmentRef) bool {
	switch s.Kind {
	case identity.ScopeAll:
		return true
	case identity.ScopeExpert:
		return ref.ExpertID == s.ID
	case identity.ScopeClient:
		return ref.ClientID == s.ID
	case identity.ScopeAgent:
		return (ref.AgentID != nil && *ref.AgentID == s.ID) ||
			(ref.ClientAgentID != nil && *ref.ClientAgentID == s.ID)
	}
	return false
}
