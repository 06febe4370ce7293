package agent

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/klinik/clinic-scheduler/internal/audit"
	"github.com/klinik/clinic-scheduler/internal/domain/identity"
	"github.com/klinik/clinic-scheduler/internal/httperr"
	"github.com/klinik/clinic-scheduler/internal/models"
)

type SetParent struct {
	repo  identity.AgentRepository
	audit *audit.Dispatcher
}

func NewSetParent(repo identity.AgentRepository, audit *audit.Dispatcher) *SetParent {
	return &SetParent{repo: repo, audit: audit}
}

// Execute attaches agentID under parentID, or detaches it when parentID is
// nil. Assignments that would close a loop are rejected with agent_cycle.
func (uc *SetParent) Execute(
	ctx context.Context,
	p identity.Principal,
	agentID uint,
	parentID *uint,
) (*models.Agent, error) {

	if !identity.For(p).CanManageAgents() {
		return nil, httperr.ErrForbidden
	}

	if _, err := uc.repo.GetAgent(ctx, agentID); err != nil {
		return nil, notFound(err)
	}
	if parentID != nil {
		if _, err := uc.repo.GetAgent(ctx, *parentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, httperr.ErrBusiness("parent_not_found")
			}
			return nil, err
		}
	}

	if err := identity.CheckParent(ctx, agentID, parentID, uc.repo.ParentOf); err != nil {
		return nil, err
	}

	if err := uc.repo.SetParent(ctx, agentID, parentID); err != nil {
		return nil, notFound(err)
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &p.UserID,
		Action:   "agent_parent_set",
		Entity:   "agent",
		EntityID: &agentID,
		Metadata: map[string]any{"parent_id": parentID},
	})

	return uc.repo.GetAgent(ctx, agentID)
}

type ListAgents struct {
	repo identity.AgentRepository
}

func NewListAgents(repo identity.AgentRepository) *ListAgents {
	return &ListAgents{repo: repo}
}

func (uc *ListAgents) Execute(ctx context.Context, p identity.Principal) ([]models.Agent, error) {
	if !identity.For(p).CanManageAgents() {
		return nil, httperr.ErrForbidden
	}
	return uc.repo.ListAgents(ctx)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrNotFound
	}
	return err
}
