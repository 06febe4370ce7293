package agent

import (
	"context"
	"strings"

	"github.com/klinik/clinic-scheduler/internal/audit"
	"github.com/klinik/clinic-scheduler/internal/domain/identity"
	"github.com/klinik/clinic-scheduler/internal/httperr"
	"github.com/klinik/clinic-scheduler/internal/models"
	"github.com/klinik/clinic-scheduler/internal/validators"
)

// ======================================================
// ASSIGN / UNASSIGN
// ======================================================

type AssignClient struct {
	repo  identity.AgentRepository
	audit *audit.Dispatcher
}

func NewAssignClient(repo identity.AgentRepository, audit *audit.Dispatcher) *AssignClient {
	return &AssignClient{repo: repo, audit: audit}
}

func (uc *AssignClient) Execute(
	ctx context.Context,
	p identity.Principal,
	agentID uint,
	clientID uint,
	assign bool,
) error {

	if !identity.For(p).CanManageAgents() {
		return httperr.ErrForbidden
	}

	if _, err := uc.repo.GetAgent(ctx, agentID); err != nil {
		return notFound(err)
	}
	client, err := uc.repo.GetUser(ctx, clientID)
	if err != nil {
		return notFound(err)
	}
	if client.Role != string(identity.RoleClient) {
		return httperr.ErrBusiness("not_a_client")
	}

	action := "agent_client_assigned"
	if assign {
		err = uc.repo.AssignClient(ctx, agentID, clientID)
	} else {
		action = "agent_client_unassigned"
		err = uc.repo.UnassignClient(ctx, agentID, clientID)
	}
	if err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &p.UserID,
		Action:   action,
		Entity:   "agent",
		EntityID: &agentID,
		Metadata: map[string]any{"client_id": clientID},
	})
	return nil
}

// ======================================================
// LIST
// ======================================================

type ListClients struct {
	repo identity.AgentRepository
}

func NewListClients(repo identity.AgentRepository) *ListClients {
	return &ListClients{repo: repo}
}

// Execute lists an agent's clients. Agents may only list their own.
func (uc *ListClients) Execute(ctx context.Context, p identity.Principal, agentID uint) ([]models.User, error) {
	switch p.Role {
	case identity.RoleAdmin:
	case identity.RoleAgent:
		if p.AgentID == nil {
			return []models.User{}, nil
		}
		agentID = *p.AgentID
	default:
		return nil, httperr.ErrForbidden
	}
	return uc.repo.ListClients(ctx, agentID)
}

// ======================================================
// REGISTER
// ======================================================

type RegisterClientInput struct {
	Principal identity.Principal
	// AgentID is required for admins and ignored for agents.
	AgentID uint

	Username  string
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

type RegisterClient struct {
	repo          identity.AgentRepository
	audit         *audit.Dispatcher
	defaultRegion string
}

func NewRegisterClient(repo identity.AgentRepository, audit *audit.Dispatcher, defaultRegion string) *RegisterClient {
	return &RegisterClient{repo: repo, audit: audit, defaultRegion: defaultRegion}
}

// Execute creates a client account already assigned to the agent.
func (uc *RegisterClient) Execute(ctx context.Context, in RegisterClientInput) (*models.User, error) {
	p := in.Principal
	if !identity.For(p).CanRegisterClient(p) {
		return nil, httperr.ErrForbidden
	}

	agentID := in.AgentID
	if p.Role == identity.RoleAgent {
		agentID = *p.AgentID
	}
	if agentID == 0 {
		return nil, httperr.ErrBusiness("agent_required")
	}
	if _, err := uc.repo.GetAgent(ctx, agentID); err != nil {
		return nil, notFound(err)
	}

	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, httperr.ErrBusiness("username_required")
	}

	email := strings.TrimSpace(in.Email)
	if email != "" && !validators.IsEmail(email) {
		return nil, httperr.ErrBusiness("invalid_email")
	}

	phone := strings.TrimSpace(in.Phone)
	if phone != "" {
		normalized, err := validators.NormalizePhone(phone, uc.defaultRegion)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_phone")
		}
		phone = normalized
	}

	u := &models.User{
		Username:  username,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     email,
		Phone:     phone,
		Role:      string(identity.RoleClient),
	}

	if err := uc.repo.CreateClient(ctx, u, agentID); err != nil {
		if httperr.IsUniqueConflict(err) {
			return nil, httperr.ErrBusiness("username_taken")
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &p.UserID,
		Action:   "client_registered",
		Entity:   "user",
		EntityID: &u.ID,
		Metadata: map[string]any{"agent_id": agentID},
	})

	return u, nil
}
