package report

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/klinik/clinic-scheduler/internal/domain/commission"
	"github.com/klinik/clinic-scheduler/internal/domain/identity"
	"github.com/klinik/clinic-scheduler/internal/dto"
	"github.com/klinik/clinic-scheduler/internal/httperr"
	"github.com/klinik/clinic-scheduler/internal/models"
)

type CommissionList struct {
	Payments        []dto.PaymentDTO `json:"payments"`
	TotalCommission decimal.Decimal  `json:"total_commission"`
	Warning         string           `json:"warning,omitempty"`
}

// Party selects which commission column a listing is about.
type Party int

const (
	PartyExpert Party = iota
	PartyAgent
)

func (p Party) role() identity.Role {
	if p == PartyAgent {
		return identity.RoleAgent
	}
	return identity.RoleExpert
}

func (p Party) share(pay models.Payment) decimal.Decimal {
	if p == PartyAgent {
		return pay.AgentCommission
	}
	return pay.ExpertCommission
}

type ListCommissions struct {
	repo  commission.ReportRepository
	party Party
	loc   *time.Location
}

func NewListCommissions(repo commission.ReportRepository, party Party, loc *time.Location) *ListCommissions {
	return &ListCommissions{repo: repo, party: party, loc: loc}
}

// Execute lists calculated payments visible to p with the party's total.
// Admins see every payment; experts and agents see their own.
func (uc *ListCommissions) Execute(ctx context.Context, p identity.Principal) (*CommissionList, error) {
	if p.Role != identity.RoleAdmin && p.Role != uc.party.role() {
		return nil, httperr.ErrForbidden
	}

	out := &CommissionList{Payments: []dto.PaymentDTO{}, TotalCommission: decimal.Zero}

	if p.MissingProfile() {
		out.Warning = "your " + string(p.Role) + " profile was not found"
		slog.Warn("commission listing without profile", "user_id", p.UserID, "role", p.Role)
		return out, nil
	}

	payments, err := uc.repo.ListCalculated(ctx, identity.For(p).CommissionScope(p))
	if err != nil {
		return nil, err
	}

	for _, pay := range payments {
		out.TotalCommission = out.TotalCommission.Add(uc.party.share(pay))
	}
	out.Payments = dto.NewPaymentList(payments, uc.loc)
	return out, nil
}
