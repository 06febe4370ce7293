package appointment

import (
	"fmt"
	"time"

	"github.com/klinik/clinic-scheduler/internal/models"
)

// TimeOfDay is minutes since midnight.
type TimeOfDay int

func ParseTimeOfDay(hm string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", hm, err)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

func (d TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(d)/60, int(d)%60)
}

// On places d on the calendar date of day, in day's location.
func (d TimeOfDay) On(day time.Time) time.Time {
	y, m, dd := day.Date()
	return time.Date(y, m, dd, int(d)/60, int(d)%60, 0, 0, day.Location())
}

// Window is a weekly availability interval [Start, End). Weekday 0 is Monday.
type Window struct {
	Weekday int
	Start   TimeOfDay
	End     TimeOfDay
}

func WindowFromModel(a models.Availability) (Window, error) {
	start, err := ParseTimeOfDay(a.StartTime)
	if err != nil {
		return Window{}, err
	}
	end, err := ParseTimeOfDay(a.EndTime)
	if err != nil {
		return Window{}, err
	}
	return Window{Weekday: a.DayOfWeek, Start: start, End: end}, nil
}

func (w Window) Valid() bool {
	return w.Weekday >= 0 && w.Weekday <= 6 && w.Start < w.End
}

// Overlaps uses open intervals, so back-to-back windows do not overlap.
func (w Window) Overlaps(o Window) bool {
	return w.Weekday == o.Weekday && w.Start < o.End && w.End > o.Start
}

// DateRange is an inclusive span of calendar dates, both "YYYY-MM-DD".
type DateRange struct {
	Start string
	End   string
}

const DateLayout = "2006-01-02"

func DateRangeFromModel(h models.Holiday) DateRange {
	return DateRange{Start: h.StartDate, End: h.EndDate}
}

func (r DateRange) Valid() bool {
	s, err1 := time.Parse(DateLayout, r.Start)
	e, err2 := time.Parse(DateLayout, r.End)
	return err1 == nil && err2 == nil && !s.After(e)
}

func (r DateRange) Contains(date string) bool {
	return r.Start <= date && date <= r.End
}

// Overlaps uses closed intervals: sharing a single day is an overlap.
func (r DateRange) Overlaps(o DateRange) bool {
	return r.Start <= o.End && r.End >= o.Start
}
