package identity

import (
	"context"

	"github.com/klinik/clinic-scheduler/internal/models"
)

type AgentRepository interface {
	GetAgent(ctx context.Context, id uint) (*models.Agent, error)
	ListAgents(ctx context.Context) ([]models.Agent, error)
	ParentOf(ctx context.Context, agentID uint) (*uint, error)
	SetParent(ctx context.Context, agentID uint, parentID *uint) error

	GetUser(ctx context.Context, id uint) (*models.User, error)
	AssignClient(ctx context.Context, agentID, clientID uint) error
	UnassignClient(ctx context.Context, agentID, clientID uint) error
	ListClients(ctx context.Context, agentID uint) ([]models.User, error)

	// CreateClient inserts a client user and assigns it to agentID atomically.
	CreateClient(ctx context.Context, u *models.User, agentID uint) error
}

// ProfileResolver finds the expert and agent rows of a user, if any.
type ProfileResolver interface {
	ResolveProfiles(ctx context.Context, userID uint) (expertID, agentID *uint, err error)
}
