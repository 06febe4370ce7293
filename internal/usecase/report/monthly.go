package report

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/klinik/clinic-scheduler/internal/domain/commission"
	"github.com/klinik/clinic-scheduler/internal/domain/identity"
	"github.com/klinik/clinic-scheduler/internal/httperr"
)

type MonthlyRow struct {
	Month            string          `json:"month"` // YYYY-MM
	AmountPaid       decimal.Decimal `json:"total_amount_paid"`
	ExpertCommission decimal.Decimal `json:"total_expert_commission"`
	AgentCommission  decimal.Decimal `json:"total_agent_commission"`
	NetProfit        decimal.Decimal `json:"net_profit"`
}

type GetMonthlySummary struct {
	repo commission.ReportRepository
	loc  *time.Location
}

func NewGetMonthlySummary(repo commission.ReportRepository, loc *time.Location) *GetMonthlySummary {
	return &GetMonthlySummary{repo: repo, loc: loc}
}

// Execute groups payments by calendar month of paid_at, newest month first.
func (uc *GetMonthlySummary) Execute(
	ctx context.Context,
	p identity.Principal,
	expertID uint,
	agentID uint,
) ([]MonthlyRow, error) {

	if !identity.For(p).CanViewPayments() {
		return nil, httperr.ErrForbidden
	}

	payments, err := uc.repo.ListPayments(ctx, commission.PaymentFilter{
		ExpertID: expertID,
		AgentID:  agentID,
	})
	if err != nil {
		return nil, err
	}

	byMonth := map[string]*MonthlyRow{}
	for _, pay := range payments {
		key := pay.PaidAt.In(uc.loc).Format("2006-01")
		row, ok := byMonth[key]
		if !ok {
			row = &MonthlyRow{Month: key}
			byMonth[key] = row
		}
		row.AmountPaid = row.AmountPaid.Add(pay.AmountPaid)
		row.ExpertCommission = row.ExpertCommission.Add(pay.ExpertCommission)
		row.AgentCommission = row.AgentCommission.Add(pay.AgentCommission)
	}

	out := make([]MonthlyRow, 0, len(byMonth))
	for _, row := range byMonth {
		row.NetProfit = row.AmountPaid.Sub(row.ExpertCommission).Sub(row.AgentCommission)
		out = append(out, *row)
	}
	slices.SortFunc(out, func(a, b MonthlyRow) int {
		return strings.Compare(b.Month, a.Month)
	})

	return out, nil
}
