package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/klinik/clinic-scheduler/internal/domain/identity"
	"github.com/klinik/clinic-scheduler/internal/models"
)

type AgentGormRepository struct {
	db *gorm.DB
}

func NewAgentGormRepository(db *gorm.DB) *AgentGormRepository {
	return &AgentGormRepository{db: db}
}

// --------------------------------------------------
// Agents
// --------------------------------------------------

func (r *AgentGormRepository) GetAgent(ctx context.Context, id uint) (*models.Agent, error) {
	var a models.Agent
	if err := r.db.WithContext(ctx).Preload("User").First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AgentGormRepository) ListAgents(ctx context.Context) ([]models.Agent, error) {
	var out []models.Agent
	if err := r.db.WithContext(ctx).Preload("User").Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AgentGormRepository) ParentOf(ctx context.Context, agentID uint) (*uint, error) {
	var a models.Agent
	if err := r.db.WithContext(ctx).Select("id", "parent_id").First(&a, agentID).Error; err != nil {
		return nil, err
	}
	return a.ParentID, nil
}

func (r *AgentGormRepository) SetParent(ctx context.Context, agentID uint, parentID *uint) error {
	res := r.db.WithContext(ctx).
		Model(&models.Agent{}).
		Where("id = ?", agentID).
		Update("parent_id", parentID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// --------------------------------------------------
// Clients
// --------------------------------------------------

func (r *AgentGormRepository) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *AgentGormRepository) AssignClient(ctx context.Context, agentID, clientID uint) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.AgentClient{AgentID: agentID, ClientID: clientID}).Error
}

func (r *AgentGormRepository) UnassignClient(ctx context.Context, agentID, clientID uint) error {
	return r.db.WithContext(ctx).
		Where("agent_id = ? AND client_id = ?", agentID, clientID).
		Delete(&models.AgentClient{}).Error
}

func (r *AgentGormRepository) ListClients(ctx context.Context, agentID uint) ([]models.User, error) {
	var out []models.User
	if err := r.db.WithContext(ctx).
		Where("id IN (?)", assignedClients(r.db, agentID)).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AgentGormRepository) CreateClient(ctx context.Context, u *models.User, agentID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		return tx.Create(&models.AgentClient{AgentID: agentID, ClientID: u.ID}).Error
	})
}

// --------------------------------------------------
// Principal profiles
// --------------------------------------------------

func (r *AgentGormRepository) ResolveProfiles(ctx context.Context, userID uint) (*uint, *uint, error) {
	var expertID, agentID *uint

	var expert models.Expert
	err := r.db.WithContext(ctx).Select("id").Where("user_id = ?", userID).First(&expert).Error
	switch {
	case err == nil:
		expertID = &expert.ID
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil, err
	}

	var agent models.Agent
	err = r.db.WithContext(ctx).Select("id").Where("user_id = ?", userID).First(&agent).Error
	switch {
	case err == nil:
		agentID = &agent.ID
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil, err
	}

	return expertID, agentID, nil
}

var (
	_ identity.AgentRepository = (*AgentGormRepository)(nil)
	_ identity.ProfileResolver = (*AgentGormRepository)(nil)
)
