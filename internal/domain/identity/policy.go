package identity

// AppointmentRef is what a policy needs to know about an appointment.
// ClientAgentID is the agent the client is assigned to, if any.
type AppointmentRef struct {
	ExpertID      uint
	ClientID      uint
	AgentID       *uint
	ClientAgentID *uint
}

// Policy answers authorization questions for one role. The set of
// implementations is closed; obtain one through PolicyFor.
type Policy interface {
	AppointmentScope(p Principal) Scope
	CommissionScope(p Principal) Scope

	CanCreateAppointment(p Principal) bool
	CanEditAppointment(p Principal, ap AppointmentRef) bool
	CanChangeBilling() bool
	CanCancel(p Principal, ap AppointmentRef) bool
	CanConfirm(p Principal, ap AppointmentRef) bool

	CanManageSchedule(p Principal, expertID uint) bool
	CanRecordPayment(p Principal, ap AppointmentRef) bool
	CanViewPayments() bool
	CanManageAgents() bool
	CanRegisterClient(p Principal) bool

	sealed()
}

func PolicyFor(role Role) Policy {
	switch role {
	case RoleAdmin:
		return adminPolicy{}
	case RoleExpert:
		return expertPolicy{}
	case RoleAgent:
		return agentPolicy{}
	case RoleClient:
		return clientPolicy{}
	}
	return denyPolicy{}
}

// For is shorthand for PolicyFor(p.Role).
func For(p Principal) Policy {
	return PolicyFor(p.Role)
}

// ======================================================
// ADMIN
// ======================================================

type adminPolicy struct{}

func (adminPolicy) AppointmentScope(Principal) Scope                  { return All() }
func (adminPolicy) CommissionScope(Principal) Scope                   { return All() }
func (adminPolicy) CanCreateAppointment(Principal) bool               { return true }
func (adminPolicy) CanEditAppointment(Principal, AppointmentRef) bool { return true }
func (adminPolicy) CanChangeBilling() bool                            { return true }
func (adminPolicy) CanCancel(Principal, AppointmentRef) bool          { return true }
func (adminPolicy) CanConfirm(Principal, AppointmentRef) bool         { return true }
func (adminPolicy) CanManageSchedule(Principal, uint) bool            { return true }
func (adminPolicy) CanRecordPayment(Principal, AppointmentRef) bool   { return true }
func (adminPolicy) CanViewPayments() bool                             { return true }
func (adminPolicy) CanManageAgents() bool                             { return true }
func (adminPolicy) CanRegisterClient(Principal) bool                  { return true }
func (adminPolicy) sealed()                                           {}

// ======================================================
// EXPERT
// ======================================================

type expertPolicy struct{}

func (expertPolicy) AppointmentScope(p Principal) Scope {
	if p.ExpertID == nil {
		return None()
	}
	return ExpertScope(*p.ExpertID)
}

func (e expertPolicy) CommissionScope(p Principal) Scope { return e.AppointmentScope(p) }

func (expertPolicy) CanCreateAppointment(Principal) bool { return false }

func (expertPolicy) CanEditAppointment(p Principal, ap AppointmentRef) bool {
	return p.IsExpert(ap.ExpertID)
}

func (expertPolicy) CanChangeBilling() bool                   { return false }
func (expertPolicy) CanCancel(Principal, AppointmentRef) bool { return false }

func (expertPolicy) CanConfirm(p Principal, ap AppointmentRef) bool {
	return p.IsExpert(ap.ExpertID)
}

func (expertPolicy) CanManageSchedule(p Principal, expertID uint) bool {
	return p.IsExpert(expertID)
}

func (expertPolicy) CanRecordPayment(p Principal, ap AppointmentRef) bool {
	return p.IsExpert(ap.ExpertID)
}

func (expertPolicy) CanViewPayments() bool            { return false }
func (expertPolicy) CanManageAgents() bool            { return false }
func (expertPolicy) CanRegisterClient(Principal) bool { return false }
func (expertPolicy) sealed()                          {}

// ======================================================
// AGENT
// ======================================================

type agentPolicy struct{}

func (agentPolicy) AppointmentScope(p Principal) Scope {
	if p.AgentID == nil {
		return None()
	}
	return AgentScope(*p.AgentID)
}

func (a agentPolicy) CommissionScope(p Principal) Scope { return a.AppointmentScope(p) }

func (agentPolicy) CanCreateAppointment(p Principal) bool { return p.AgentID != nil }

func (agentPolicy) responsible(p Principal, ap AppointmentRef) bool {
	return p.IsAgent(ap.AgentID) || p.IsAgent(ap.ClientAgentID)
}

func (a agentPolicy) CanEditAppointment(p Principal, ap AppointmentRef) bool {
	return a.responsible(p, ap)
}

func (agentPolicy) CanChangeBilling() bool { return false }

func (a agentPolicy) CanCancel(p Principal, ap AppointmentRef) bool {
	return a.responsible(p, ap)
}

func (agentPolicy) CanConfirm(Principal, AppointmentRef) bool { return false }
func (agentPolicy) CanManageSchedule(Principal, uint) bool    { return false }
func (a agentPolicy) CanRecordPayment(p Principal, ap AppointmentRef) bool {
	return a.responsible(p, ap)
}

func (agentPolicy) CanViewPayments() bool { return false }
func (agentPolicy) CanManageAgents() bool { return false }

func (agentPolicy) CanRegisterClient(p Principal) bool { return p.AgentID != nil }
func (agentPolicy) sealed()                            {}

// ======================================================
// CLIENT
// ======================================================

type clientPolicy struct{}

func (clientPolicy) AppointmentScope(p Principal) Scope { return ClientScope(p.UserID) }
func (clientPolicy) CommissionScope(Principal) Scope    { return None() }

func (clientPolicy) CanCreateAppointment(Principal) bool { return true }

func (clientPolicy) CanEditAppointment(p Principal, ap AppointmentRef) bool {
	return ap.ClientID == p.UserID
}

func (clientPolicy) CanChangeBilling() bool { return false }

func (clientPolicy) CanCancel(p Principal, ap AppointmentRef) bool {
	return ap.ClientID == p.UserID
}

func (clientPolicy) CanConfirm(Principal, AppointmentRef) bool       { return false }
func (clientPolicy) CanManageSchedule(Principal, uint) bool          { return false }
func (clientPolicy) CanRecordPayment(Principal, AppointmentRef) bool { return false }
func (clientPolicy) CanViewPayments() bool                           { return false }
func (clientPolicy) CanManageAgents() bool                           { return false }
func (clientPolicy) CanRegisterClient(Principal) bool                { return false }
func (clientPolicy) sealed()                                         {}

// ======================================================
// UNKNOWN ROLE
// ======================================================

type denyPolicy struct{}

func (denyPolicy) AppointmentScope(Principal) Scope                  { return None() }
func (denyPolicy) CommissionScope(Principal) Scope                   { return None() }
func (denyPolicy) CanCreateAppointment(Principal) bool               { return false }
func (denyPolicy) CanEditAppointment(Principal, AppointmentRef) bool { return false }
func (denyPolicy) CanChangeBilling() bool                            { return false }
func (denyPolicy) CanCancel(Principal, AppointmentRef) bool          { return false }
func (denyPolicy) CanConfirm(Principal, AppointmentRef) bool         { return false }
func (denyPolicy) CanManageSchedule(Principal, uint) bool            { return false }
func (denyPolicy) CanRecordPayment(Principal, AppointmentRef) bool   { return false }
func (denyPolicy) CanViewPayments() bool                             { return false }
func (denyPolicy) CanManageAgents() bool                             { return false }
func (denyPolicy) CanRegisterClient(Principal) bool                  { return false }
func (denyPolicy) sealed()                                           {}
