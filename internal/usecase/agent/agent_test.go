package agent_test

import (
	"context"
	"errors"
	"testing"

	"github.com/klinik/clinic-scheduler/internal/dbtest"
	"github.com/klinik/clinic-scheduler/internal/domain/identity"
	"github.com/klinik/clinic-scheduler/internal/httperr"
	"github.com/klinik/clinic-scheduler/internal/infra/repository"
	"github.com/klinik/clinic-scheduler/internal/models"
	ucAgent "github.com/klinik/clinic-scheduler/internal/usecase/agent"
)

var admin = identity.Principal{UserID: 1, Role: identity.RoleAdmin}

func uintPtr(v uint) *uint { return &v }

func asAgent(a models.Agent) identity.Principal {
	return identity.Principal{UserID: a.UserID, Role: identity.RoleAgent, AgentID: uintPtr(a.ID)}
}

// ======================================================
// HIERARCHY
// ======================================================

func TestSetParentRejectsCycles(t *testing.T) {
	db := dbtest.Open(t)
	repo := repository.NewAgentGormRepository(db)
	uc := ucAgent.NewSetParent(repo, nil)
	ctx := context.Background()

	root := dbtest.CreateAgent(t, db, "root", nil)
	mid := dbtest.CreateAgent(t, db, "mid", &root.ID)
	leaf := dbtest.CreateAgent(t, db, "leaf", &mid.ID)

	cases := []struct {
		name     string
		agent    uint
		parent   *uint
		wantCode string
	}{
		{"self", root.ID, uintPtr(root.ID), "agent_cycle"},
		{"direct child", root.ID, uintPtr(mid.ID), "agent_cycle"},
		{"grandchild", root.ID, uintPtr(leaf.ID), "agent_cycle"},
		{"missing parent", leaf.ID, uintPtr(9999), "parent_not_found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Execute(ctx, admin, tc.agent, tc.parent)
			if !httperr.IsBusiness(err, tc.wantCode) {
				t.Fatalf("expected %s, got %v", tc.wantCode, err)
			}
		})
	}

	// The rejected writes left the tree untouched.
	parent, err := repo.ParentOf(ctx, root.ID)
	if err != nil || parent != nil {
		t.Fatalf("root should still be a root, got %v %v", parent, err)
	}
}

func TestSetParentMovesAndDetaches(t *testing.T) {
	db := dbtest.Open(t)
	repo := repository.NewAgentGormRepository(db)
	uc := ucAgent.NewSetParent(repo, nil)
	ctx := context.Background()

	a := dbtest.CreateAgent(t, db, "a", nil)
	b := dbtest.CreateAgent(t, db, "b", &a.ID)
	c := dbtest.CreateAgent(t, db, "c", nil)

	got, err := uc.Execute(ctx, admin, b.ID, &c.ID)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if got.ParentID == nil || *got.ParentID != c.ID {
		t.Fatalf("expected parent %d, got %v", c.ID, got.ParentID)
	}

	// a used to be b's parent; putting a under b is fine now.
	if _, err := uc.Execute(ctx, admin, a.ID, &b.ID); err != nil {
		t.Fatalf("reparent: %v", err)
	}

	got, err = uc.Execute(ctx, admin, b.ID, nil)
	if err != nil {
		t.Fatalf("detach: %v", err)
	}
	if got.ParentID != nil {
		t.Fatalf("expected root agent, got parent %d", *got.ParentID)
	}
}

func TestSetParentAccess(t *testing.T) {
	db := dbtest.Open(t)
	uc := ucAgent.NewSetParent(repository.NewAgentGormRepository(db), nil)
	ctx := context.Background()

	a := dbtest.CreateAgent(t, db, "a", nil)
	b := dbtest.CreateAgent(t, db, "b", nil)

	if _, err := uc.Execute(ctx, asAgent(a), b.ID, &a.ID); !errors.Is(err, httperr.ErrForbidden) {
		t.Fatalf("agents cannot edit the tree, got %v", err)
	}
	if _, err := uc.Execute(ctx, admin, 9999, nil); !errors.Is(err, httperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

// ======================================================
// CLIENTS
// ======================================================

func TestAssignAndListClients(t *testing.T) {
	db := dbtest.Open(t)
	repo := repository.NewAgentGormRepository(db)
	assign := ucAgent.NewAssignClient(repo, nil)
	list := ucAgent.NewListClients(repo)
	ctx := context.Background()

	a := dbtest.CreateAgent(t, db, "a", nil)
	other := dbtest.CreateAgent(t, db, "other", nil)
	client := dbtest.CreateUser(t, db, "deniz", "client")
	expert := dbtest.CreateExpert(t, db, "dr.kaya")

	if err := assign.Execute(ctx, admin, a.ID, client.ID, true); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := assign.Execute(ctx, admin, a.ID, expert.UserID, true); !httperr.IsBusiness(err, "not_a_client") {
		t.Fatalf("expected not_a_client, got %v", err)
	}
	if err := assign.Execute(ctx, asAgent(a), a.ID, client.ID, true); !errors.Is(err, httperr.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	// An agent asking for someone else's clients still gets its own list.
	got, err := list.Execute(ctx, asAgent(a), other.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != client.ID {
		t.Fatalf("unexpected clients %+v", got)
	}

	got, err = list.Execute(ctx, admin, other.ID)
	if err != nil || len(got) != 0 {
		t.Fatalf("other agent has no clients, got %+v %v", got, err)
	}

	if err := assign.Execute(ctx, admin, a.ID, client.ID, false); err != nil {
		t.Fatalf("unassign: %v", err)
	}
	got, err = list.Execute(ctx, admin, a.ID)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected no clients after unassign, got %+v %v", got, err)
	}

	expertPrincipal := identity.Principal{UserID: expert.UserID, Role: identity.RoleExpert, ExpertID: uintPtr(expert.ID)}
	if _, err := list.Execute(ctx, expertPrincipal, a.ID); !errors.Is(err, httperr.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestRegisterClient(t *testing.T) {
	db := dbtest.Open(t)
	repo := repository.NewAgentGormRepository(db)
	uc := ucAgent.NewRegisterClient(repo, nil, "TR")
	ctx := context.Background()

	a := dbtest.CreateAgent(t, db, "a", nil)

	u, err := uc.Execute(ctx, ucAgent.RegisterClientInput{
		Principal: asAgent(a),
		AgentID:   9999,
		Username:  "  elif  ",
		FirstName: "Elif",
		Email:     "elif@example.com",
		Phone:     "0532 123 45 67",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Username != "elif" || u.Phone != "+905321234567" || u.Role != "client" {
		t.Fatalf("unexpected user %+v", u)
	}

	clients, err := repo.ListClients(ctx, a.ID)
	if err != nil || len(clients) != 1 || clients[0].ID != u.ID {
		t.Fatalf("new client should belong to the registering agent, got %+v %v", clients, err)
	}

	cases := []struct {
		name string
		in   ucAgent.RegisterClientInput
		want string
	}{
		{"duplicate username", ucAgent.RegisterClientInput{Principal: asAgent(a), Username: "elif"}, "username_taken"},
		{"blank username", ucAgent.RegisterClientInput{Principal: asAgent(a), Username: "  "}, "username_required"},
		{"bad email", ucAgent.RegisterClientInput{Principal: asAgent(a), Username: "x", Email: "not-an-email"}, "invalid_email"},
		{"bad phone", ucAgent.RegisterClientInput{Principal: asAgent(a), Username: "y", Phone: "12"}, "invalid_phone"},
		{"admin without agent", ucAgent.RegisterClientInput{Principal: admin, Username: "z"}, "agent_required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := uc.Execute(ctx, tc.in); !httperr.IsBusiness(err, tc.want) {
				t.Fatalf("expected %s, got %v", tc.want, err)
			}
		})
	}

	orphan := identity.Principal{UserID: 42, Role: identity.RoleAgent}
	if _, err := uc.Execute(ctx, ucAgent.RegisterClientInput{Principal: orphan, Username: "w"}); !errors.Is(err, httperr.ErrForbidden) {
		t.Fatalf("agent without profile is forbidden, got %v", err)
	}
}
