package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/klinik/clinic-scheduler/internal/domain/appointment"
	"github.com/klinik/clinic-scheduler/internal/domain/identity"
	"github.com/klinik/clinic-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Profiles
// --------------------------------------------------

func (r *AppointmentGormRepository) GetExpert(
	ctx context.Context,
	id uint,
) (*models.Expert, error) {

	var expert models.Expert
	if err := r.db.WithContext(ctx).
		Preload("User").
		First(&expert, id).Error; err != nil {
		return nil, err
	}
	return &expert, nil
}

func (r *AppointmentGormRepository) GetUser(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// AgentForClient returns the agent a client is assigned to, or nil.
func (r *AppointmentGormRepository) AgentForClient(
	ctx context.Context,
	clientID uint,
) (*models.Agent, error) {

	var agent models.Agent
	err := r.db.WithContext(ctx).
		Joins("JOIN agent_clients ON agent_clients.agent_id = agents.id").
		Where("agent_clients.client_id = ?", clientID).
		Order("agents.id ASC").
		First(&agent).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &agent, nil
}

func (r *AppointmentGormRepository) IsAssignedClient(
	ctx context.Context,
	agentID uint,
	clientID uint,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AgentClient{}).
		Where("agent_id = ? AND client_id = ?", agentID, clientID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// --------------------------------------------------
// Snapshot
// --------------------------------------------------

func (r *AppointmentGormRepository) ListAvailability(
	ctx context.Context,
	expertID uint,
) ([]models.Availability, error) {
	return listAvailability(r.db.WithContext(ctx), expertID)
}

func (r *AppointmentGormRepository) ListHolidays(
	ctx context.Context,
	expertID uint,
) ([]models.Holiday, error) {
	return listHolidays(r.db.WithContext(ctx), expertID)
}

func (r *AppointmentGormRepository) ListActiveBetween(
	ctx context.Context,
	expertID uint,
	from time.Time,
	to time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("id", "scheduled_at").
		Where(
			"expert_id = ? AND status IN ? AND scheduled_at >= ? AND scheduled_at < ?",
			expertID, domain.ActiveStatuses, from.UTC(), to.UTC(),
		).
		Order("scheduled_at ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := withAppointmentRelations(r.db.WithContext(ctx)).
		First(&ap, id).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	ap.ScheduledAt = ap.ScheduledAt.UTC()
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(ap).Error
}

func (r *AppointmentGormRepository) List(
	ctx context.Context,
	scope identity.Scope,
	f domain.Filter,
) ([]models.Appointment, int64, error) {

	q := r.db.WithContext(ctx).Model(&models.Appointment{})

	switch scope.Kind {
	case identity.ScopeAll:
	case identity.ScopeExpert:
		q = q.Where("appointments.expert_id = ?", scope.ID)
	case identity.ScopeClient:
		q = q.Where("appointments.client_id = ?", scope.ID)
	case identity.ScopeAgent:
		q = q.Where(agentReach, scope.ID, assignedClients(r.db, scope.ID))
	default:
		return []models.Appointment{}, 0, nil
	}

	if name := strings.TrimSpace(f.ClientName); name != "" {
		pattern := "%" + strings.ToLower(name) + "%"
		q = q.Joins("JOIN users AS client_users ON client_users.id = appointments.client_id").
			Where(
				"LOWER(client_users.first_name) LIKE ? OR LOWER(client_users.last_name) LIKE ? OR LOWER(client_users.username) LIKE ?",
				pattern, pattern, pattern,
			)
	}
	if !f.From.IsZero() {
		q = q.Where("appointments.scheduled_at >= ?", f.From.UTC())
	}
	if !f.To.IsZero() {
		q = q.Where("appointments.scheduled_at < ?", f.To.UTC())
	}
	if f.Status != "" {
		q = q.Where("appointments.status = ?", f.Status)
	}
	if f.ExpertID != 0 {
		q = q.Where("appointments.expert_id = ?", f.ExpertID)
	}
	if f.AgentID != 0 {
		q = q.Where("appointments.agent_id = ?", f.AgentID)
	}
	if f.ClientID != 0 {
		q = q.Where("appointments.client_id = ?", f.ClientID)
	}
	if f.ServiceType != "" {
		q = q.Where("appointments.service_type = ?", f.ServiceType)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	f = f.Paged()

	var apps []models.Appointment
	if err := withAppointmentRelations(q).
		Order("appointments.scheduled_at DESC").
		Offset((f.Page - 1) * f.PageSize).
		Limit(f.PageSize).
		Find(&apps).Error; err != nil {
		return nil, 0, err
	}

	return apps, total, nil
}

func (r *AppointmentGormRepository) InTx(
	ctx context.Context,
	fn func(tx domain.Tx) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(appointmentTx{db: tx})
	})
}

// --------------------------------------------------
// Transaction scope
// --------------------------------------------------

type appointmentTx struct {
	db *gorm.DB
}

func (t appointmentTx) ActiveAt(expertID uint, at time.Time) ([]models.Appointment, error) {
	var apps []models.Appointment
	if err := t.db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(
			"expert_id = ? AND scheduled_at = ? AND status IN ?",
			expertID, at.UTC(), domain.ActiveStatuses,
		).
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (t appointmentTx) Create(ap *models.Appointment) error {
	ap.ScheduledAt = ap.ScheduledAt.UTC()
	return t.db.Omit(clause.Associations).Create(ap).Error
}

func (t appointmentTx) Save(ap *models.Appointment) error {
	ap.ScheduledAt = ap.ScheduledAt.UTC()
	return t.db.Omit(clause.Associations).Save(ap).Error
}

// --------------------------------------------------
// Helpers
// --------------------------------------------------

// agentReach matches appointments an agent is responsible for: booked
// through the agent or made by one of its assigned clients.
const agentReach = "appointments.agent_id = ? OR appointments.client_id IN (?)"

func assignedClients(db *gorm.DB, agentID uint) *gorm.DB {
	return db.Model(&models.AgentClient{}).Select("client_id").Where("agent_id = ?", agentID)
}

func withAppointmentRelations(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Expert.User").
		Preload("Client").
		Preload("Agent.User")
}

func listAvailability(db *gorm.DB, expertID uint) ([]models.Availability, error) {
	var out []models.Availability
	if err := db.
		Where("expert_id = ?", expertID).
		Order("day_of_week ASC, start_time ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func listHolidays(db *gorm.DB, expertID uint) ([]models.Holiday, error) {
	var out []models.Holiday
	if err := db.
		Where("expert_id = ?", expertID).
		Order("start_date ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
