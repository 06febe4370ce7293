package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/klinik/clinic-scheduler/internal/domain/commission"
	"github.com/klinik/clinic-scheduler/internal/domain/identity"
	"github.com/klinik/clinic-scheduler/internal/models"
)

type ReportGormRepository struct {
	db *gorm.DB
}

func NewReportGormRepository(db *gorm.DB) *ReportGormRepository {
	return &ReportGormRepository{db: db}
}

type totalsRow struct {
	AmountPaid       decimal.Decimal
	ExpertCommission decimal.Decimal
	AgentCommission  decimal.Decimal
	Count            int64
}

func (r *ReportGormRepository) PaymentTotals(ctx context.Context, f commission.PaymentFilter) (commission.Totals, error) {
	var row totalsRow
	if err := filterPayments(r.db.WithContext(ctx), f).
		Select(
			"COALESCE(SUM(payments.amount_paid), 0) AS amount_paid, " +
				"COALESCE(SUM(payments.expert_commission), 0) AS expert_commission, " +
				"COALESCE(SUM(payments.agent_commission), 0) AS agent_commission, " +
				"COUNT(payments.id) AS count",
		).
		Scan(&row).Error; err != nil {
		return commission.Totals{}, fmt.Errorf("payment totals: %w", err)
	}

	return commission.Totals{
		AmountPaid:       row.AmountPaid.RoundBank(2),
		ExpertCommission: row.ExpertCommission.RoundBank(2),
		AgentCommission:  row.AgentCommission.RoundBank(2),
		Count:            row.Count,
	}, nil
}

func (r *ReportGormRepository) ListPayments(ctx context.Context, f commission.PaymentFilter) ([]models.Payment, error) {
	var out []models.Payment
	if err := withPaymentRelations(filterPayments(r.db.WithContext(ctx), f)).
		Order("payments.paid_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ReportGormRepository) ListCalculated(ctx context.Context, scope identity.Scope) ([]models.Payment, error) {
	q := withPaymentRelations(r.db.WithContext(ctx)).
		Model(&models.Payment{}).
		Joins("JOIN appointments ON appointments.id = payments.appointment_id").
		Where("payments.is_commission_calculated = ?", true)

	switch scope.Kind {
	case identity.ScopeAll:
	case identity.ScopeExpert:
		q = q.Where("appointments.expert_id = ?", scope.ID)
	case identity.ScopeAgent:
		q = q.Where(agentReach, scope.ID, assignedClients(r.db, scope.ID))
	default:
		return []models.Payment{}, nil
	}

	var out []models.Payment
	if err := q.Order("payments.paid_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ReportGormRepository) GetAgent(ctx context.Context, id uint) (*models.Agent, error) {
	var a models.Agent
	if err := r.db.WithContext(ctx).Preload("User").First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ReportGormRepository) SubAgents(ctx context.Context, parentID uint) ([]models.Agent, error) {
	var out []models.Agent
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("parent_id = ?", parentID).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ReportGormRepository) DirectRevenue(ctx context.Context, agentID uint) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Joins("JOIN appointments ON appointments.id = payments.appointment_id").
		Where("payments.is_commission_calculated = ?", true).
		Where(agentReach, agentID, assignedClients(r.db, agentID)).
		Select("COALESCE(SUM(payments.agent_commission), 0) AS total").
		Scan(&row).Error; err != nil {
		return decimal.Zero, fmt.Errorf("direct revenue: %w", err)
	}
	return row.Total.RoundBank(2), nil
}

var _ commission.ReportRepository = (*ReportGormRepository)(nil)
