package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/klinik/clinic-scheduler/internal/audit"
	"github.com/klinik/clinic-scheduler/internal/dbtest"
	"github.com/klinik/clinic-scheduler/internal/models"
)

func TestDispatcherDrainsOnClose(t *testing.T) {
	db := dbtest.Open(t)
	d := audit.NewDispatcher(audit.New(db))

	userID := uint(7)
	for i := uint(1); i <= 3; i++ {
		id := i
		d.Dispatch(audit.Event{
			UserID:   &userID,
			Action:   "appointment_created",
			Entity:   "appointment",
			EntityID: &id,
			Metadata: map[string]any{"seq": id},
		})
	}
	d.Close()

	var logs []models.AuditLog
	if err := db.Order("entity_id ASC").Find(&logs).Error; err != nil {
		t.Fatalf("load logs: %v", err)
	}
	if len(logs) != 3 {
		t.Fatalf("expected 3 audit rows, got %d", len(logs))
	}
	if logs[0].Metadata != `{"seq":1}` || *logs[2].EntityID != 3 || *logs[0].UserID != 7 {
		t.Fatalf("unexpected row %+v", logs[0])
	}
}

func TestNilDispatcherIsNoop(t *testing.T) {
	var d *audit.Dispatcher
	d.Dispatch(audit.Event{Action: "ignored"})
}

func TestListFiltersAndPages(t *testing.T) {
	db := dbtest.Open(t)
	logger := audit.New(db)
	ctx := context.Background()

	alice, bob := uint(1), uint(2)
	events := []audit.Event{
		{UserID: &alice, Action: "appointment_created", Entity: "appointment"},
		{UserID: &alice, Action: "appointment_cancelled", Entity: "appointment"},
		{UserID: &bob, Action: "payment_recorded", Entity: "payment"},
		{UserID: &bob, Action: "appointment_created", Entity: "appointment"},
	}
	for _, ev := range events {
		if err := logger.Write(ctx, ev); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	cases := []struct {
		name      string
		f         audit.Filter
		wantRows  int
		wantTotal int64
	}{
		{"everything", audit.Filter{}, 4, 4},
		{"by action", audit.Filter{Action: "appointment_created"}, 2, 2},
		{"by entity and user", audit.Filter{Entity: "appointment", UserID: bob}, 1, 1},
		{"second page", audit.Filter{Page: 2, Limit: 3}, 1, 4},
		{"oversized limit falls back", audit.Filter{Limit: 5000}, 4, 4},
		{"future window", audit.Filter{From: time.Now().Add(time.Hour)}, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			logs, total, err := logger.List(ctx, tc.f)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(logs) != tc.wantRows || total != tc.wantTotal {
				t.Fatalf("got %d rows of %d, want %d of %d", len(logs), total, tc.wantRows, tc.wantTotal)
			}
		})
	}

	if f := (audit.Filter{Page: -1, Limit: 0}).Normalized(); f.Page != 1 || f.Limit != 50 {
		t.Fatalf("unexpected normalization %+v", f)
	}
}
