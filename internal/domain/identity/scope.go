package identity

type ScopeKind int

const (
	ScopeNone ScopeKind = iota
	ScopeAll
	ScopeExpert
	ScopeAgent
	ScopeClient
)

// Scope restricts which rows a principal may read. ID is the expert, agent
// or client user id depending on Kind.
type Scope struct {
	Kind ScopeKind
	ID   uint
}

func All() Scope                { return Scope{Kind: ScopeAll} }
func None() Scope               { return Scope{Kind: ScopeNone} }
func ExpertScope(id uint) Scope { return Scope{Kind: ScopeExpert, ID: id} }
func AgentScope(id uint) Scope  { return Scope{Kind: ScopeAgent, ID: id} }
func ClientScope(id uint) Scope { return Scope{Kind: ScopeClient, ID: id} }
