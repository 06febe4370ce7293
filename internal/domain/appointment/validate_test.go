package appointment

import (
	"errors"
	"testing"
	"time"
)

var monday = time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC)

func at(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)
}

func snapshot() Snapshot {
	return Snapshot{
		Location: time.UTC,
		Windows:  []Window{{Weekday: 0, Start: 9 * 60, End: 12 * 60}},
	}
}

func rejection(t *testing.T, err error) *RejectionError {
	t.Helper()
	var rej *RejectionError
	if !errors.As(err, &rej) {
		t.Fatalf("expected *RejectionError, got %v", err)
	}
	return rej
}

func candidate(when time.Time) Candidate {
	return Candidate{ExpertID: 1, ClientID: 2, At: when, ServiceType: "botox"}
}

func TestValidateAccepts(t *testing.T) {
	now := monday.AddDate(0, 0, -3)
	if err := Validate(candidate(at(monday, 9, 0)), snapshot(), now); err != nil {
		t.Fatalf("unexpected rejection: %v", err)
	}
	if err := Validate(candidate(at(monday, 11, 45)), snapshot(), now); err != nil {
		t.Fatalf("unexpected rejection: %v", err)
	}
}

func TestValidateUnavailable(t *testing.T) {
	now := monday.AddDate(0, 0, -3)

	for _, when := range []time.Time{at(monday, 8, 59), at(monday, 12, 0), at(monday.AddDate(0, 0, 1), 10, 0)} {
		rej := rejection(t, Validate(candidate(when), snapshot(), now))
		if !rej.Has(ReasonUnavailable) {
			t.Fatalf("%v: expected unavailable, got %+v", when, rej.Reasons)
		}
	}
}

func TestValidateHoliday(t *testing.T) {
	snap := snapshot()
	snap.Holidays = []DateRange{{Start: "2030-01-06", End: "2030-01-07"}}

	rej := rejection(t, Validate(candidate(at(monday, 10, 0)), snap, monday.AddDate(0, 0, -3)))
	if !rej.Has(ReasonHoliday) {
		t.Fatalf("expected holiday, got %+v", rej.Reasons)
	}
	if rej.Has(ReasonUnavailable) {
		t.Fatal("window covers the time, only holiday should be reported")
	}
}

func TestValidateConflictExcludesSelf(t *testing.T) {
	when := at(monday, 10, 0)
	snap := snapshot()
	snap.Booked = []Booking{{ID: 5, At: when}}
	now := monday.AddDate(0, 0, -3)

	rej := rejection(t, Validate(candidate(when), snap, now))
	if !rej.Has(ReasonConflict) {
		t.Fatalf("expected conflict, got %+v", rej.Reasons)
	}

	self := candidate(when)
	self.ID = 5
	if err := Validate(self, snap, now); err != nil {
		t.Fatalf("appointment conflicting with itself: %v", err)
	}
}

func TestValidatePastDate(t *testing.T) {
	when := at(monday, 10, 0)

	rej := rejection(t, Validate(candidate(when), snapshot(), when.Add(time.Hour)))
	if !rej.Has(ReasonPastDate) {
		t.Fatalf("expected past_date, got %+v", rej.Reasons)
	}

	if err := Validate(candidate(when), snapshot(), when.Add(500*time.Millisecond)); err != nil {
		t.Fatalf("within the one second tolerance: %v", err)
	}
}

func TestValidateReportsAllReasons(t *testing.T) {
	when := at(monday, 13, 0)
	snap := snapshot()
	snap.Holidays = []DateRange{{Start: "2030-01-07", End: "2030-01-07"}}
	snap.Booked = []Booking{{ID: 9, At: when}}

	rej := rejection(t, Validate(candidate(when), snap, when.AddDate(0, 0, 1)))
	for _, code := range []string{ReasonUnavailable, ReasonHoliday, ReasonConflict, ReasonPastDate} {
		if !rej.Has(code) {
			t.Errorf("missing reason %s in %+v", code, rej.Reasons)
		}
	}
}

func TestValidateMissingFields(t *testing.T) {
	rej := rejection(t, Validate(Candidate{ServiceType: "tattoo"}, snapshot(), monday))
	if !rej.Has(ReasonMissingField) || !rej.Has(ReasonInvalidServiceType) {
		t.Fatalf("unexpected reasons %+v", rej.Reasons)
	}
	if rej.Has(ReasonUnavailable) {
		t.Fatal("schedule rules should not run without expert and time")
	}
}

func TestValidateUsesClinicTimezone(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	snap := snapshot()
	snap.Location = loc

	// 06:30 UTC is 09:30 local on Monday.
	when := time.Date(2030, 1, 7, 6, 30, 0, 0, time.UTC)
	if err := Validate(candidate(when), snap, monday.AddDate(0, 0, -3)); err != nil {
		t.Fatalf("unexpected rejection: %v", err)
	}
}
