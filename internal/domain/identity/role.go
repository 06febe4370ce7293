package identity

import "fmt"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleExpert Role = "expert"
	RoleAgent  Role = "agent"
	RoleClient Role = "client"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdmin, RoleExpert, RoleAgent, RoleClient:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Principal is the caller of an operation with its resolved profiles.
type Principal struct {
	UserID   uint
	Role     Role
	ExpertID *uint
	AgentID  *uint
}

// MissingProfile reports an expert or agent user without its profile row.
func (p Principal) MissingProfile() bool {
	switch p.Role {
	case RoleExpert:
		return p.ExpertID == nil
	case RoleAgent:
		return p.AgentID == nil
	}
	return false
}

func (p Principal) IsExpert(expertID uint) bool {
	return p.ExpertID != nil && *p.ExpertID == expertID
}

func (p Principal) IsAgent(agentID *uint) bool {
	return p.AgentID != nil && agentID != nil && *p.AgentID == *agentID
}
