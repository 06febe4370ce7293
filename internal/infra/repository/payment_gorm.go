package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/klinik/clinic-scheduler/internal/domain/commission"
	"github.com/klinik/clinic-scheduler/internal/models"
)

type PaymentGormRepository struct {
	db *gorm.DB
}

func NewPaymentGormRepository(db *gorm.DB) *PaymentGormRepository {
	return &PaymentGormRepository{db: db}
}

func (r *PaymentGormRepository) GetPayment(ctx context.Context, id uint) (*models.Payment, error) {
	var p models.Payment
	if err := withPaymentRelations(r.db.WithContext(ctx)).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentGormRepository) ListPayments(ctx context.Context, f commission.PaymentFilter) ([]models.Payment, error) {
	var out []models.Payment
	if err := withPaymentRelations(filterPayments(r.db.WithContext(ctx), f)).
		Order("payments.paid_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PaymentGormRepository) InTx(ctx context.Context, fn func(tx commission.PaymentTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(paymentTx{db: tx})
	})
}

// --------------------------------------------------
// Transaction scope
// --------------------------------------------------

type paymentTx struct {
	db *gorm.DB
}

func (t paymentTx) LockAppointment(id uint) (*models.Appointment, error) {
	var ap models.Appointment
	if err := t.db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&ap, id).Error; err != nil {
		return nil, err
	}

	if err := t.db.First(&ap.Expert, ap.ExpertID).Error; err != nil {
		return nil, err
	}
	if ap.AgentID != nil {
		var agent models.Agent
		if err := t.db.First(&agent, *ap.AgentID).Error; err != nil {
			return nil, err
		}
		ap.Agent = &agent
	}
	return &ap, nil
}

func (t paymentTx) LockPayment(id uint) (*models.Payment, error) {
	var p models.Payment
	if err := t.db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, id).Error; err != nil {
		return nil, err
	}

	ap, err := t.LockAppointment(p.AppointmentID)
	if err != nil {
		return nil, err
	}
	p.Appointment = *ap
	return &p, nil
}

func (t paymentTx) ClientAgentID(clientID uint) (*uint, error) {
	var link models.AgentClient
	err := t.db.Where("client_id = ?", clientID).Order("agent_id ASC").Limit(1).Find(&link).Error
	if err != nil {
		return nil, err
	}
	if link.AgentID == 0 {
		return nil, nil
	}
	return &link.AgentID, nil
}

func (t paymentTx) CreatePayment(p *models.Payment) error {
	p.PaidAt = p.PaidAt.UTC()
	return t.db.Omit(clause.Associations).Create(p).Error
}

func (t paymentTx) SavePayment(p *models.Payment) error {
	p.PaidAt = p.PaidAt.UTC()
	return t.db.Omit(clause.Associations).Save(p).Error
}

func (t paymentTx) SaveAppointment(ap *models.Appointment) error {
	ap.ScheduledAt = ap.ScheduledAt.UTC()
	return t.db.Omit(clause.Associations).Save(ap).Error
}

// --------------------------------------------------
// Helpers
// --------------------------------------------------

func withPaymentRelations(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Appointment.Expert.User").
		Preload("Appointment.Client").
		Preload("Appointment.Agent.User")
}

// filterPayments joins appointments so filters can use their columns.
func filterPayments(q *gorm.DB, f commission.PaymentFilter) *gorm.DB {
	q = q.Model(&models.Payment{}).
		Joins("JOIN appointments ON appointments.id = payments.appointment_id")

	if f.ExpertID != 0 {
		q = q.Where("appointments.expert_id = ?", f.ExpertID)
	}
	if f.AgentID != 0 {
		q = q.Where("appointments.agent_id = ?", f.AgentID)
	}
	if f.ServiceType != "" {
		q = q.Where("appointments.service_type = ?", f.ServiceType)
	}
	if !f.From.IsZero() {
		q = q.Where("payments.paid_at >= ?", f.From.UTC())
	}
	if !f.To.IsZero() {
		q = q.Where("payments.paid_at < ?", f.To.UTC())
	}
	return q
}

var _ commission.PaymentRepository = (*PaymentGormRepository)(nil)
