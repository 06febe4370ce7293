package report

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/klinik/clinic-scheduler/internal/domain/commission"
	"github.com/klinik/clinic-scheduler/internal/domain/identity"
	"github.com/klinik/clinic-scheduler/internal/dto"
	"github.com/klinik/clinic-scheduler/internal/httperr"
	"github.com/klinik/clinic-scheduler/internal/timezone"
)

type PaymentSummaryInput struct {
	Principal identity.Principal

	ExpertID    uint
	AgentID     uint
	ServiceType string
	Month       int
	Year        int
}

type PaymentSummary struct {
	Payments []dto.PaymentDTO  `json:"payments"`
	Totals   commission.Totals `json:"totals"`
	// SubAgentShare is set only when filtering by agent.
	SubAgentShare *decimal.Decimal `json:"total_sub_agent_commission"`
}

type GetPaymentSummary struct {
	repo  commission.ReportRepository
	clock timezone.Clock
	loc   *time.Location
}

func NewGetPaymentSummary(
	repo commission.ReportRepository,
	clock timezone.Clock,
	loc *time.Location,
) *GetPaymentSummary {
	return &GetPaymentSummary{repo: repo, clock: clock, loc: loc}
}

func (uc *GetPaymentSummary) Execute(
	ctx context.Context,
	in PaymentSummaryInput,
) (*PaymentSummary, error) {

	if !identity.For(in.Principal).CanViewPayments() {
		return nil, httperr.ErrForbidden
	}

	f := commission.PaymentFilter{
		ExpertID:    in.ExpertID,
		AgentID:     in.AgentID,
		ServiceType: in.ServiceType,
	}
	from, to, err := period(in.Year, in.Month, uc.clock().In(uc.loc), uc.loc)
	if err != nil {
		return nil, err
	}
	f.From, f.To = from, to

	payments, err := uc.repo.ListPayments(ctx, f)
	if err != nil {
		return nil, err
	}
	totals, err := uc.repo.PaymentTotals(ctx, f)
	if err != nil {
		return nil, err
	}

	out := &PaymentSummary{
		Payments: dto.NewPaymentList(payments, uc.loc),
		Totals:   totals,
	}

	if in.AgentID != 0 {
		// Cascade share of sub-agents' earned commission, the same figure AgentRevenue reports.
		rev, err := agentRevenue(ctx, uc.repo, in.AgentID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			zero := decimal.Zero
			out.SubAgentShare = &zero
		case err != nil:
			return nil, err
		default:
			out.SubAgentShare = &rev.SubAgentTotal
		}
	}

	return out, nil
}

// period turns optional year/month filters into a [from, to) range in loc.
// A month without a year refers to the current year.
func period(year, month int, now time.Time, loc *time.Location) (time.Time, time.Time, error) {
	if month < 0 || month > 12 {
		return time.Time{}, time.Time{}, httperr.ErrBusiness("invalid_month")
	}
	if year == 0 && month == 0 {
		return time.Time{}, time.Time{}, nil
	}
	// A bare month is read as the current year's.
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		from := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
		return from, from.AddDate(1, 0, 0), nil
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	return from, from.AddDate(0, 1, 0), nil
}
