package appointment

import (
	"iter"
	"slices"
	"time"

	"github.com/klinik/clinic-scheduler/internal/timezone"
)

const SlotStep = 15 * time.Minute

// Slots yields the free 15-minute slot starts of date for the expert
// described by snap, in ascending order. Only date's calendar fields are used.
func Slots(date time.Time, snap Snapshot, now time.Time) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		loc := snap.location()
		y, m, d := date.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, loc)

		today := timezone.StartOfDay(now.In(loc))
		if day.Before(today) {
			return
		}
		if snap.isHoliday(day.Format(DateLayout)) {
			return
		}

		windows := snap.windowsOn(timezone.Weekday(day))
		slices.SortFunc(windows, func(a, b Window) int { return int(a.Start - b.Start) })

		booked := make(map[int64]struct{}, len(snap.Booked))
		for _, b := range snap.Booked {
			booked[b.At.Unix()] = struct{}{}
		}

		isToday := day.Equal(today)
		earliest := now.Add(SlotStep)

		for _, w := range windows {
			end := w.End.On(day)
			for cur := w.Start.On(day); !cur.Add(SlotStep).After(end); cur = cur.Add(SlotStep) {
				if isToday && cur.Before(earliest) {
					continue
				}
				if _, taken := booked[cur.Unix()]; taken {
					continue
				}
				if !yield(cur) {
					return
				}
			}
		}
	}
}

// SlotStrings renders slots as sorted "HH:MM" strings. Never nil.
func SlotStrings(slots iter.Seq[time.Time]) []string {
	out := []string{}
	for s := range slots {
		out = append(out, s.Format("15:04"))
	}
	slices.Sort(out)
	return out
}
