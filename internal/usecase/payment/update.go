package payment

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/klinik/clinic-scheduler/internal/audit"
	"github.com/klinik/clinic-scheduler/internal/domain/commission"
	"github.com/klinik/clinic-scheduler/internal/domain/identity"
	"github.com/klinik/clinic-scheduler/internal/httperr"
	"github.com/klinik/clinic-scheduler/internal/models"
)

type UpdateAmount struct {
	repo  commission.PaymentRepository
	audit *audit.Dispatcher
}

func NewUpdateAmount(repo commission.PaymentRepository, audit *audit.Dispatcher) *UpdateAmount {
	return &UpdateAmount{repo: repo, audit: audit}
}

// Execute changes the paid amount. Commissions are recomputed only when the
// amount actually differs.
func (uc *UpdateAmount) Execute(
	ctx context.Context,
	p identity.Principal,
	paymentID uint,
	amount decimal.Decimal,
) (*models.Payment, error) {

	if !identity.For(p).CanViewPayments() {
		return nil, httperr.ErrForbidden
	}
	if !amount.IsPositive() {
		return nil, httperr.ErrBusiness("invalid_amount")
	}

	var payment *models.Payment
	changed := false

	err := uc.repo.InTx(ctx, func(tx commission.PaymentTx) error {
		pay, err := tx.LockPayment(paymentID)
		if err != nil {
			return notFound(err)
		}
		payment = pay

		ap := &pay.Appointment
		changed = commission.Reprice(pay, amount, ap.Expert.CommissionRate, agentRate(ap.Agent))
		if !changed {
			return nil
		}

		if err := tx.SavePayment(pay); err != nil {
			return err
		}
		ap.Amount = decimal.NewNullDecimal(amount)
		return tx.SaveAppointment(ap)
	})
	if err != nil {
		return nil, err
	}

	if changed {
		uc.audit.Dispatch(audit.Event{
			UserID:   &p.UserID,
			Action:   "payment_amount_updated",
			Entity:   "payment",
			EntityID: &payment.ID,
			Metadata: map[string]any{"amount_paid": amount.String()},
		})
	}

	return payment, nil
}

type Recalculate struct {
	repo  commission.PaymentRepository
	audit *audit.Dispatcher
}

func NewRecalculate(repo commission.PaymentRepository, audit *audit.Dispatcher) *Recalculate {
	return &Recalculate{repo: repo, audit: audit}
}

// Execute fills commissions of a payment that has none yet. Calling it on a
// calculated payment leaves it untouched.
func (uc *Recalculate) Execute(
	ctx context.Context,
	p identity.Principal,
	paymentID uint,
) (*models.Payment, bool, error) {

	if !identity.For(p).CanViewPayments() {
		return nil, false, httperr.ErrForbidden
	}

	var payment *models.Payment
	changed := false

	err := uc.repo.InTx(ctx, func(tx commission.PaymentTx) error {
		pay, err := tx.LockPayment(paymentID)
		if err != nil {
			return notFound(err)
		}
		payment = pay

		ap := &pay.Appointment
		changed = commission.Apply(pay, ap.Expert.CommissionRate, agentRate(ap.Agent))
		if !changed {
			return nil
		}
		return tx.SavePayment(pay)
	})
	if err != nil {
		return nil, false, err
	}

	if changed {
		uc.audit.Dispatch(audit.Event{
			UserID:   &p.UserID,
			Action:   "payment_commission_calculated",
			Entity:   "payment",
			EntityID: &payment.ID,
		})
	}

	return payment, changed, nil
}
