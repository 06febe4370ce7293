package report

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/klinik/clinic-scheduler/internal/domain/commission"
	"github.com/klinik/clinic-scheduler/internal/domain/identity"
	"github.com/klinik/clinic-scheduler/internal/httperr"
)

type AgentRevenueResult struct {
	AgentID uint   `json:"agent_id"`
	Name    string `json:"name"`
	commission.Revenue
	Warning string `json:"warning,omitempty"`
}

type GetAgentRevenue struct {
	repo commission.ReportRepository
}

func NewGetAgentRevenue(repo commission.ReportRepository) *GetAgentRevenue {
	return &GetAgentRevenue{repo: repo}
}

// Execute reports the caller's two-tier revenue. Admins may name any agent.
func (uc *GetAgentRevenue) Execute(
	ctx context.Context,
	p identity.Principal,
	agentID uint,
) (*AgentRevenueResult, error) {

	switch p.Role {
	case identity.RoleAgent:
		if p.AgentID == nil {
			slog.Warn("agent revenue without profile", "user_id", p.UserID)
			return &AgentRevenueResult{
				Revenue: commission.Cascade(decimal.Zero, decimal.NullDecimal{}, nil),
				Warning: "your agent profile was not found",
			}, nil
		}
		agentID = *p.AgentID
	case identity.RoleAdmin:
		if agentID == 0 {
			return nil, httperr.ErrBusiness("agent_required")
		}
	default:
		return nil, httperr.ErrForbidden
	}

	rev, err := agentRevenue(ctx, uc.repo, agentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rev, nil
}

func agentRevenue(
	ctx context.Context,
	repo commission.ReportRepository,
	agentID uint,
) (*AgentRevenueResult, error) {

	agent, err := repo.GetAgent(ctx, agentID)
	if err != nil {
		return nil, err
	}

	direct, err := repo.DirectRevenue(ctx, agentID)
	if err != nil {
		return nil, err
	}

	subs, err := repo.SubAgents(ctx, agentID)
	if err != nil {
		return nil, err
	}

	inputs := make([]commission.SubAgentDirect, 0, len(subs))
	for _, s := range subs {
		d, err := repo.DirectRevenue(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, commission.SubAgentDirect{
			AgentID: s.ID,
			Name:    s.User.FullName(),
			Direct:  d,
		})
	}

	return &AgentRevenueResult{
		AgentID: agent.ID,
		Name:    agent.User.FullName(),
		Revenue: commission.Cascade(direct, agent.SubAgentCommissionRate, inputs),
	}, nil
}
