package report_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/klinik/clinic-scheduler/internal/dbtest"
	"github.com/klinik/clinic-scheduler/internal/domain/identity"
	"github.com/klinik/clinic-scheduler/internal/httperr"
	"github.com/klinik/clinic-scheduler/internal/infra/repository"
	"github.com/klinik/clinic-scheduler/internal/models"
	"github.com/klinik/clinic-scheduler/internal/timezone"
	ucReport "github.com/klinik/clinic-scheduler/internal/usecase/report"
)

var (
	istanbul = timezone.Location("Europe/Istanbul")
	admin    = identity.Principal{UserID: 1, Role: identity.RoleAdmin}
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func agentPrincipal(a models.Agent) identity.Principal {
	id := a.ID
	return identity.Principal{UserID: a.UserID, Role: identity.RoleAgent, AgentID: &id}
}

// ledger is a small clinic with a two-level agent tree:
//
//	parent -> sub -> grandchild
//
// clientA belongs to parent, clientB to sub and clientC to grandchild.
type ledger struct {
	db         *gorm.DB
	repo       *repository.ReportGormRepository
	expert     models.Expert
	parent     models.Agent
	sub        models.Agent
	grandchild models.Agent
}

type paymentSpec struct {
	client     models.User
	agent      *models.Agent
	paidAt     time.Time
	amount     string
	expert     string
	agentShare string
	calculated bool
}

func (l ledger) pay(t *testing.T, s paymentSpec) {
	t.Helper()

	ap := models.Appointment{
		ExpertID:      l.expert.ID,
		ClientID:      s.client.ID,
		ScheduledAt:   s.paidAt.Add(-time.Hour),
		Status:        "completed",
		PaymentStatus: true,
	}
	if s.agent != nil {
		id := s.agent.ID
		ap.AgentID = &id
	}
	ap = dbtest.CreateAppointment(t, l.db, ap)

	p := models.Payment{
		AppointmentID:          ap.ID,
		AmountPaid:             dec(s.amount),
		PaymentMethod:          "cash",
		PaidAt:                 s.paidAt.UTC(),
		ExpertCommission:       dec(s.expert),
		AgentCommission:        dec(s.agentShare),
		IsCommissionCalculated: s.calculated,
	}
	if err := l.db.Omit("Appointment").Create(&p).Error; err != nil {
		t.Fatalf("create payment: %v", err)
	}
}

func setup(t *testing.T) ledger {
	t.Helper()

	db := dbtest.Open(t)
	l := ledger{
		db:     db,
		repo:   repository.NewReportGormRepository(db),
		expert: dbtest.CreateExpert(t, db, "dr.arslan"),
		parent: dbtest.CreateAgent(t, db, "parent", nil),
	}
	l.sub = dbtest.CreateAgent(t, db, "sub", &l.parent.ID)
	l.grandchild = dbtest.CreateAgent(t, db, "grandchild", &l.sub.ID)

	clientA := dbtest.CreateUser(t, db, "client.a", "client")
	clientB := dbtest.CreateUser(t, db, "client.b", "client")
	clientC := dbtest.CreateUser(t, db, "client.c", "client")
	dbtest.AssignClient(t, db, l.parent.ID, clientA.ID)
	dbtest.AssignClient(t, db, l.sub.ID, clientB.ID)
	dbtest.AssignClient(t, db, l.grandchild.ID, clientC.ID)

	// January, booked through parent for its own client: counted once.
	l.pay(t, paymentSpec{clientA, &l.parent, time.Date(2030, 1, 15, 10, 0, 0, 0, time.UTC), "1000", "300", "150", true})
	// February, booked by sub.
	l.pay(t, paymentSpec{clientB, &l.sub, time.Date(2030, 2, 10, 10, 0, 0, 0, time.UTC), "10000", "3000", "1000", true})
	// Late on Jan 31 UTC is already February in Istanbul. No agent on the
	// appointment, but clientA belongs to parent.
	l.pay(t, paymentSpec{clientA, nil, time.Date(2030, 1, 31, 22, 30, 0, 0, time.UTC), "100", "30", "20", true})
	// March, grandchild.
	l.pay(t, paymentSpec{clientC, &l.grandchild, time.Date(2030, 3, 5, 10, 0, 0, 0, time.UTC), "500", "150", "100", true})
	// March, parent, commissions not calculated yet.
	l.pay(t, paymentSpec{clientA, &l.parent, time.Date(2030, 3, 6, 10, 0, 0, 0, time.UTC), "300", "0", "0", false})

	return l
}

// ======================================================
// AGENT REVENUE
// ======================================================

func TestAgentRevenueCascadesOneLevel(t *testing.T) {
	l := setup(t)
	uc := ucReport.NewGetAgentRevenue(l.repo)

	rev, err := uc.Execute(context.Background(), agentPrincipal(l.parent), 0)
	if err != nil {
		t.Fatalf("revenue: %v", err)
	}

	// direct 150 + 20; sub earned 1000, 5% of it is 50; grandchild ignored.
	if !rev.Direct.Equal(dec("170")) {
		t.Fatalf("direct = %s", rev.Direct)
	}
	if !rev.SubAgentTotal.Equal(dec("50")) || !rev.Total.Equal(dec("220")) {
		t.Fatalf("sub = %s total = %s", rev.SubAgentTotal, rev.Total)
	}
	if len(rev.SubAgents) != 1 || rev.SubAgents[0].AgentID != l.sub.ID {
		t.Fatalf("unexpected sub agents %+v", rev.SubAgents)
	}
	if !rev.SubAgents[0].Earnings.Equal(dec("1000")) || !rev.SubAgents[0].ShareForParent.Equal(dec("50")) {
		t.Fatalf("unexpected sub agent row %+v", rev.SubAgents[0])
	}
}

func TestAgentRevenueAccess(t *testing.T) {
	l := setup(t)
	uc := ucReport.NewGetAgentRevenue(l.repo)
	ctx := context.Background()

	if _, err := uc.Execute(ctx, admin, 0); !httperr.IsBusiness(err, "agent_required") {
		t.Fatalf("expected agent_required, got %v", err)
	}

	rev, err := uc.Execute(ctx, admin, l.sub.ID)
	if err != nil {
		t.Fatalf("admin revenue: %v", err)
	}
	if !rev.Total.Equal(dec("1005")) {
		t.Fatalf("sub total = %s", rev.Total)
	}

	if _, err := uc.Execute(ctx, admin, 9999); !errors.Is(err, httperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	expert := identity.Principal{UserID: l.expert.UserID, Role: identity.RoleExpert}
	if _, err := uc.Execute(ctx, expert, 0); !errors.Is(err, httperr.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	orphan := identity.Principal{UserID: 500, Role: identity.RoleAgent}
	rev, err = uc.Execute(ctx, orphan, 0)
	if err != nil || rev.Warning == "" || !rev.Total.IsZero() {
		t.Fatalf("agent without profile gets an empty report, got %+v %v", rev, err)
	}
}

// ======================================================
// SUMMARIES
// ======================================================

func TestPaymentSummary(t *testing.T) {
	l := setup(t)
	now := time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)
	uc := ucReport.NewGetPaymentSummary(l.repo, timezone.Fixed(now), istanbul)
	ctx := context.Background()

	feb, err := uc.Execute(ctx, ucReport.PaymentSummaryInput{Principal: admin, Month: 2})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if feb.Totals.Count != 2 || !feb.Totals.AmountPaid.Equal(dec("10100")) {
		t.Fatalf("february totals %+v", feb.Totals)
	}
	if feb.SubAgentShare != nil {
		t.Fatal("sub-agent share is only reported for an agent filter")
	}

	byParent, err := uc.Execute(ctx, ucReport.PaymentSummaryInput{Principal: admin, AgentID: l.parent.ID})
	if err != nil {
		t.Fatalf("summary by agent: %v", err)
	}
	if byParent.Totals.Count != 2 || !byParent.Totals.AgentCommission.Equal(dec("150")) {
		t.Fatalf("parent totals %+v", byParent.Totals)
	}
	if byParent.SubAgentShare == nil || !byParent.SubAgentShare.Equal(dec("50")) {
		t.Fatalf("parent sub-agent share %v", byParent.SubAgentShare)
	}
	if len(byParent.Payments) != 2 || byParent.Payments[0].ClientName == "" {
		t.Fatalf("payments not listed with names: %+v", byParent.Payments)
	}

	if _, err := uc.Execute(ctx, ucReport.PaymentSummaryInput{Principal: admin, Month: 13}); !httperr.IsBusiness(err, "invalid_month") {
		t.Fatalf("expected invalid_month, got %v", err)
	}
	if _, err := uc.Execute(ctx, ucReport.PaymentSummaryInput{Principal: agentPrincipal(l.parent)}); !errors.Is(err, httperr.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestMonthlySummary(t *testing.T) {
	l := setup(t)
	uc := ucReport.NewGetMonthlySummary(l.repo, istanbul)

	rows, err := uc.Execute(context.Background(), admin, 0, 0)
	if err != nil {
		t.Fatalf("monthly: %v", err)
	}

	want := []struct {
		month string
		paid  string
		net   string
	}{
		{"2030-03", "800", "550"},
		{"2030-02", "10100", "6050"},
		{"2030-01", "1000", "550"},
	}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %+v", len(want), rows)
	}
	for i, w := range want {
		if rows[i].Month != w.month || !rows[i].AmountPaid.Equal(dec(w.paid)) || !rows[i].NetProfit.Equal(dec(w.net)) {
			t.Fatalf("row %d = %+v, want %+v", i, rows[i], w)
		}
	}
}

// ======================================================
// COMMISSION LISTINGS
// ======================================================

func TestCommissionListings(t *testing.T) {
	l := setup(t)
	experts := ucReport.NewListCommissions(l.repo, ucReport.PartyExpert, istanbul)
	agents := ucReport.NewListCommissions(l.repo, ucReport.PartyAgent, istanbul)
	ctx := context.Background()

	expertID := l.expert.ID
	expert := identity.Principal{UserID: l.expert.UserID, Role: identity.RoleExpert, ExpertID: &expertID}

	cases := []struct {
		name  string
		uc    *ucReport.ListCommissions
		p     identity.Principal
		count int
		total string
	}{
		{"expert sees own calculated payments", experts, expert, 4, "3480"},
		{"agent sees booked and client payments", agents, agentPrincipal(l.parent), 2, "170"},
		{"sub agent", agents, agentPrincipal(l.sub), 1, "1000"},
		{"admin sees everything", agents, admin, 4, "1270"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := tc.uc.Execute(ctx, tc.p)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(out.Payments) != tc.count || !out.TotalCommission.Equal(dec(tc.total)) {
				t.Fatalf("got %d payments totalling %s", len(out.Payments), out.TotalCommission)
			}
		})
	}

	orphan := identity.Principal{UserID: 77, Role: identity.RoleExpert}
	out, err := experts.Execute(ctx, orphan)
	if err != nil || out.Warning == "" || len(out.Payments) != 0 {
		t.Fatalf("expert without profile gets a warning, got %+v %v", out, err)
	}

	client := identity.Principal{UserID: 3, Role: identity.RoleClient}
	if _, err := agents.Execute(ctx, client); !errors.Is(err, httperr.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := agents.Execute(ctx, expert); !errors.Is(err, httperr.ErrForbidden) {
		t.Fatalf("experts cannot list agent commissions, got %v", err)
	}
}
