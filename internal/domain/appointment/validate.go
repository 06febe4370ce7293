package appointment

import (
	"strings"
	"time"

	"github.com/klinik/clinic-scheduler/internal/timezone"
)

const (
	ReasonMissingField       = "missing_field"
	ReasonInvalidServiceType = "invalid_service_type"
	ReasonUnavailable        = "unavailable"
	ReasonHoliday            = "holiday"
	ReasonConflict           = "conflict"
	ReasonPastDate           = "past_date"
)

type Reason struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

// RejectionError carries every reason a candidate appointment was refused.
type RejectionError struct {
	Reasons []Reason
}

func (e *RejectionError) Error() string {
	msgs := make([]string, 0, len(e.Reasons))
	for _, r := range e.Reasons {
		msgs = append(msgs, r.Message)
	}
	return "appointment rejected: " + strings.Join(msgs, "; ")
}

func (e *RejectionError) Has(code string) bool {
	for _, r := range e.Reasons {
		if r.Code == code {
			return true
		}
	}
	return false
}

func (e *RejectionError) add(code, msg string) {
	e.Reasons = append(e.Reasons, Reason{Code: code, Message: msg})
}

// Reject builds a single-reason rejection.
func Reject(code, msg string) *RejectionError {
	e := &RejectionError{}
	e.add(code, msg)
	return e
}

// Candidate is an appointment about to be written. ID is zero on create.
type Candidate struct {
	ID          uint
	ExpertID    uint
	ClientID    uint
	At          time.Time
	ServiceType string
}

// Booking is an active appointment already holding a slot.
type Booking struct {
	ID uint
	At time.Time
}

// Snapshot is the expert state a candidate is checked against.
type Snapshot struct {
	Location *time.Location
	Windows  []Window
	Holidays []DateRange
	Booked   []Booking
}

func (s Snapshot) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

func (s Snapshot) isHoliday(date string) bool {
	for _, h := range s.Holidays {
		if h.Contains(date) {
			return true
		}
	}
	return false
}

func (s Snapshot) windowsOn(weekday int) []Window {
	var out []Window
	for _, w := range s.Windows {
		if w.Weekday == weekday {
			out = append(out, w)
		}
	}
	return out
}

// CheckRequired reports missing or malformed candidate fields.
func CheckRequired(c Candidate) *RejectionError {
	rej := &RejectionError{}

	if c.ExpertID == 0 {
		rej.add(ReasonMissingField, "expert is required")
	}
	if c.ClientID == 0 {
		rej.add(ReasonMissingField, "client is required")
	}
	if c.At.IsZero() {
		rej.add(ReasonMissingField, "date and time are required")
	}
	if c.ServiceType == "" {
		rej.add(ReasonMissingField, "service type is required")
	} else if !ServiceType(c.ServiceType).Valid() {
		rej.add(ReasonInvalidServiceType, "unknown service type")
	}

	if len(rej.Reasons) == 0 {
		return nil
	}
	return rej
}

// Validate checks c against snap and returns a *RejectionError listing all
// failed rules, or nil.
func Validate(c Candidate, snap Snapshot, now time.Time) error {
	rej := CheckRequired(c)
	if rej == nil {
		rej = &RejectionError{}
	}
	if c.ExpertID == 0 || c.At.IsZero() {
		return rej
	}

	local := c.At.In(snap.location())
	tod := TimeOfDayOf(local)

	available := false
	for _, w := range snap.windowsOn(timezone.Weekday(local)) {
		if w.Start <= tod && tod < w.End {
			available = true
			break
		}
	}
	if !available {
		rej.add(ReasonUnavailable, "the expert is not available at the selected time")
	}

	if snap.isHoliday(local.Format(DateLayout)) {
		rej.add(ReasonHoliday, "the expert is on holiday on the selected date")
	}

	for _, b := range snap.Booked {
		if b.ID != c.ID && b.At.Equal(c.At) {
			rej.add(ReasonConflict, "the expert already has an appointment at this time")
			break
		}
	}

	if c.At.Before(now.Add(-time.Second)) {
		rej.add(ReasonPastDate, "appointments cannot be made in the past")
	}

	if len(rej.Reasons) == 0 {
		return nil
	}
	return rej
}
