package identity

import (
	"context"
	"fmt"
	"testing"

	"github.com/klinik/clinic-scheduler/internal/httperr"
)

func uintPtr(v uint) *uint { return &v }

func TestParseRole(t *testing.T) {
	for _, s := range []string{"admin", "expert", "agent", "client"} {
		if _, err := ParseRole(s); err != nil {
			t.Errorf("ParseRole(%q): %v", s, err)
		}
	}
	if _, err := ParseRole("superuser"); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestAppointmentScope(t *testing.T) {
	cases := []struct {
		name string
		p    Principal
		want Scope
	}{
		{"admin", Principal{UserID: 1, Role: RoleAdmin}, All()},
		{"expert", Principal{UserID: 2, Role: RoleExpert, ExpertID: uintPtr(7)}, ExpertScope(7)},
		{"expert without profile", Principal{UserID: 2, Role: RoleExpert}, None()},
		{"agent", Principal{UserID: 3, Role: RoleAgent, AgentID: uintPtr(4)}, AgentScope(4)},
		{"client", Principal{UserID: 9, Role: RoleClient}, ClientScope(9)},
		{"unknown", Principal{UserID: 9, Role: "ghost"}, None()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := For(tc.p).AppointmentScope(tc.p); got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestEditAndCancelRules(t *testing.T) {
	ap := AppointmentRef{ExpertID: 7, ClientID: 9, AgentID: nil, ClientAgentID: uintPtr(4)}

	agent := Principal{UserID: 3, Role: RoleAgent, AgentID: uintPtr(4)}
	otherAgent := Principal{UserID: 5, Role: RoleAgent, AgentID: uintPtr(5)}
	client := Principal{UserID: 9, Role: RoleClient}
	stranger := Principal{UserID: 10, Role: RoleClient}
	expert := Principal{UserID: 2, Role: RoleExpert, ExpertID: uintPtr(7)}

	if !For(agent).CanEditAppointment(agent, ap) || !For(agent).CanCancel(agent, ap) {
		t.Fatal("client's agent should edit and cancel")
	}
	if For(otherAgent).CanEditAppointment(otherAgent, ap) {
		t.Fatal("unrelated agent must not edit")
	}
	if !For(client).CanCancel(client, ap) || For(stranger).CanCancel(stranger, ap) {
		t.Fatal("only the owning client may cancel")
	}
	if !For(expert).CanEditAppointment(expert, ap) || For(expert).CanCancel(expert, ap) {
		t.Fatal("expert edits but does not cancel")
	}
	if For(expert).CanCreateAppointment(expert) {
		t.Fatal("experts do not book appointments")
	}
	for _, p := range []Principal{agent, client, expert} {
		if For(p).CanChangeBilling() {
			t.Fatalf("%s must not change billing fields", p.Role)
		}
	}
	if !PolicyFor(RoleAdmin).CanChangeBilling() {
		t.Fatal("admin changes billing fields")
	}
}

func chain(parents map[uint]uint) ParentLookup {
	return func(_ context.Context, id uint) (*uint, error) {
		if p, ok := parents[id]; ok {
			return &p, nil
		}
		return nil, nil
	}
}

func TestCheckParent(t *testing.T) {
	// 3 -> 2 -> 1
	lookup := chain(map[uint]uint{3: 2, 2: 1})
	ctx := context.Background()

	if err := CheckParent(ctx, 4, uintPtr(3), lookup); err != nil {
		t.Fatalf("attaching a new leaf: %v", err)
	}
	if err := CheckParent(ctx, 1, nil, lookup); err != nil {
		t.Fatalf("clearing parent: %v", err)
	}
	if err := CheckParent(ctx, 1, uintPtr(1), lookup); !httperr.IsBusiness(err, "agent_cycle") {
		t.Fatalf("self parent: expected agent_cycle, got %v", err)
	}
	if err := CheckParent(ctx, 1, uintPtr(3), lookup); !httperr.IsBusiness(err, "agent_cycle") {
		t.Fatalf("descendant parent: expected agent_cycle, got %v", err)
	}
}

func TestCheckParentPropagatesLookupError(t *testing.T) {
	boom := fmt.Errorf("db down")
	lookup := func(context.Context, uint) (*uint, error) { return nil, boom }

	if err := CheckParent(context.Background(), 1, uintPtr(2), lookup); err != boom {
		t.Fatalf("expected lookup error, got %v", err)
	}
}
