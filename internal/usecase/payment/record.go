package payment

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/klinik/clinic-scheduler/internal/audit"
	domain "github.com/klinik/clinic-scheduler/internal/domain/appointment"
	"github.com/klinik/clinic-scheduler/internal/domain/commission"
	"github.com/klinik/clinic-scheduler/internal/domain/identity"
	"github.com/klinik/clinic-scheduler/internal/httperr"
	"github.com/klinik/clinic-scheduler/internal/models"
	"github.com/klinik/clinic-scheduler/internal/timezone"
)

type Method string

const (
	MethodCreditCard   Method = "credit_card"
	MethodBankTransfer Method = "bank_transfer"
	MethodCash         Method = "cash"
	MethodOther        Method = "other"
)

func (m Method) Valid() bool {
	switch m {
	case MethodCreditCard, MethodBankTransfer, MethodCash, MethodOther:
		return true
	}
	return false
}

// ======================================================
// INPUT
// ======================================================

type RecordPaymentInput struct {
	Principal     identity.Principal
	AppointmentID uint
	Amount        decimal.Decimal
	Method        string
}

// ======================================================
// USE CASE
// ======================================================

type RecordPayment struct {
	repo  commission.PaymentRepository
	audit *audit.Dispatcher
	clock timezone.Clock
}

func NewRecordPayment(
	repo commission.PaymentRepository,
	audit *audit.Dispatcher,
	clock timezone.Clock,
) *RecordPayment {
	return &RecordPayment{repo: repo, audit: audit, clock: clock}
}

// Execute stores the payment, its commissions and the appointment's
// completed state in one transaction.
func (uc *RecordPayment) Execute(
	ctx context.Context,
	in RecordPaymentInput,
) (*models.Payment, error) {

	if !in.Amount.IsPositive() {
		return nil, httperr.ErrBusiness("invalid_amount")
	}

	method := Method(in.Method)
	if method == "" {
		method = MethodCreditCard
	}
	if !method.Valid() {
		return nil, httperr.ErrBusiness("invalid_payment_method")
	}

	now := uc.clock().UTC()
	var payment *models.Payment

	err := uc.repo.InTx(ctx, func(tx commission.PaymentTx) error {
		ap, err := tx.LockAppointment(in.AppointmentID)
		if err != nil {
			return notFound(err)
		}

		clientAgent, err := tx.ClientAgentID(ap.ClientID)
		if err != nil {
			return err
		}
		ref := identity.AppointmentRef{
			ExpertID:      ap.ExpertID,
			ClientID:      ap.ClientID,
			AgentID:       ap.AgentID,
			ClientAgentID: clientAgent,
		}
		if !identity.For(in.Principal).CanRecordPayment(in.Principal, ref) {
			return httperr.ErrForbidden
		}

		if err := domain.MarkPaid(ap, now); err != nil {
			return err
		}
		ap.Amount = decimal.NewNullDecimal(in.Amount)

		payment = &models.Payment{
			AppointmentID: ap.ID,
			AmountPaid:    in.Amount,
			PaymentMethod: string(method),
			PaidAt:        now,
		}
		commission.Apply(payment, ap.Expert.CommissionRate, agentRate(ap.Agent))

		if err := tx.CreatePayment(payment); err != nil {
			if httperr.IsUniqueConflict(err) {
				return httperr.ErrBusiness("already_paid")
			}
			return err
		}
		return tx.SaveAppointment(ap)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.Principal.UserID,
		Action:   "payment_recorded",
		Entity:   "payment",
		EntityID: &payment.ID,
		Metadata: map[string]any{
			"appointment_id":    in.AppointmentID,
			"amount_paid":       payment.AmountPaid.String(),
			"expert_commission": payment.ExpertCommission.String(),
			"agent_commission":  payment.AgentCommission.String(),
		},
	})

	return payment, nil
}

func agentRate(a *models.Agent) decimal.NullDecimal {
	if a == nil {
		return decimal.NullDecimal{}
	}
	return a.CommissionRate
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrNotFound
	}
	return err
}
