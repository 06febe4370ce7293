package commission

import (
	"github.com/shopspring/decimal"

	"github.com/klinik/clinic-scheduler/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Share is amount*rate/100 rounded half-to-even to cents. An absent rate
// yields zero.
func Share(amount decimal.Decimal, rate decimal.NullDecimal) decimal.Decimal {
	if !rate.Valid {
		return decimal.Zero
	}
	return amount.Mul(rate.Decimal).Div(hundred).RoundBank(2)
}

type Split struct {
	Expert decimal.Decimal
	Agent  decimal.Decimal
}

// Compute splits amount between the expert and the referring agent. Pass an
// invalid NullDecimal for a party that does not exist.
func Compute(amount decimal.Decimal, expertRate, agentRate decimal.NullDecimal) Split {
	return Split{
		Expert: Share(amount, expertRate),
		Agent:  Share(amount, agentRate),
	}
}

// Apply fills the commission fields of p once. It reports whether p changed.
func Apply(p *models.Payment, expertRate, agentRate decimal.NullDecimal) bool {
	if p.IsCommissionCalculated {
		return false
	}

	s := Compute(p.AmountPaid, expertRate, agentRate)
	p.ExpertCommission = s.Expert
	p.AgentCommission = s.Agent
	p.IsCommissionCalculated = true
	return true
}

// Reprice sets a new amount and recomputes commissions, but only when the
// amount actually differs.
func Reprice(p *models.Payment, amount decimal.Decimal, expertRate, agentRate decimal.NullDecimal) bool {
	if p.AmountPaid.Equal(amount) {
		return false
	}

	p.AmountPaid = amount
	p.IsCommissionCalculated = false
	return Apply(p, expertRate, agentRate)
}
