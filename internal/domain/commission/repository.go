package commission

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/klinik/clinic-scheduler/internal/domain/identity"
	"github.com/klinik/clinic-scheduler/internal/models"
)

// PaymentFilter narrows payment queries. Zero values mean "any".
type PaymentFilter struct {
	ExpertID    uint
	AgentID     uint
	ServiceType string
	From        time.Time
	To          time.Time
}

type Totals struct {
	AmountPaid       decimal.Decimal `json:"total_amount_paid"`
	ExpertCommission decimal.Decimal `json:"total_expert_commission"`
	AgentCommission  decimal.Decimal `json:"total_agent_commission"`
	Count            int64           `json:"count"`
}

type PaymentRepository interface {
	GetPayment(ctx context.Context, id uint) (*models.Payment, error)
	ListPayments(ctx context.Context, f PaymentFilter) ([]models.Payment, error)

	InTx(ctx context.Context, fn func(tx PaymentTx) error) error
}

// PaymentTx is the part of the payment repository usable inside InTx.
type PaymentTx interface {
	// LockAppointment loads the appointment with its expert and agent and
	// holds a row lock until the transaction ends.
	LockAppointment(id uint) (*models.Appointment, error)
	LockPayment(id uint) (*models.Payment, error)
	// ClientAgentID returns the agent the client is assigned to, if any.
	ClientAgentID(clientID uint) (*uint, error)
	CreatePayment(p *models.Payment) error
	SavePayment(p *models.Payment) error
	SaveAppointment(ap *models.Appointment) error
}

type ReportRepository interface {
	PaymentTotals(ctx context.Context, f PaymentFilter) (Totals, error)
	ListPayments(ctx context.Context, f PaymentFilter) ([]models.Payment, error)
	ListCalculated(ctx context.Context, scope identity.Scope) ([]models.Payment, error)

	GetAgent(ctx context.Context, id uint) (*models.Agent, error)
	SubAgents(ctx context.Context, parentID uint) ([]models.Agent, error)

	// DirectRevenue sums agent_commission over calculated payments whose
	// appointment names the agent or belongs to one of its clients.
	DirectRevenue(ctx context.Context, agentID uint) (decimal.Decimal, error)
}
