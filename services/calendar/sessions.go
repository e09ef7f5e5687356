package calendar

import (
	"sort"
	"time"

	"carematch/models"
)

// Working-hour bounds for bookable sessions, local to the client's timezone.
const (
	WorkStartHour = 7
	WorkEndHour   = 22
)

// Session lengths per payment type. Insurance sessions run longer because
// associate billing requires the full clinical hour.
const (
	InsuranceSessionMinutes = 55
	CashPaySessionMinutes   = 45
)

// SessionDuration returns the session length for a payment type.
func SessionDuration(paymentType string) time.Duration {
	if paymentType == "insurance" {
		return InsuranceSessionMinutes * time.Minute
	}
	return CashPaySessionMinutes * time.Minute
}

// MergeBusy sorts and merges overlapping busy blocks.
func MergeBusy(busy []models.TimeSlot) []models.TimeSlot {
	if len(busy) == 0 {
		return nil
	}
	sorted := make([]models.TimeSlot, len(busy))
	copy(sorted, busy)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	merged := []models.TimeSlot{sorted[0]}
	for _, b := range sorted[1:] {
		last := &merged[len(merged)-1]
		if b.Start.After(last.End) {
			merged = append(merged, b)
		} else if b.End.After(last.End) {
			last.End = b.End
		}
	}
	return merged
}

// FreeIntervals computes the gaps between busy blocks within [dayStart, dayEnd).
func FreeIntervals(busy []models.TimeSlot, dayStart, dayEnd time.Time) []models.TimeSlot {
	var clipped []models.TimeSlot
	for _, b := range busy {
		s, e := b.Start, b.End
		if s.Before(dayStart) {
			s = dayStart
		}
		if e.After(dayEnd) {
			e = dayEnd
		}
		if e.After(s) {
			clipped = append(clipped, models.TimeSlot{Start: s, End: e})
		}
	}

	var free []models.TimeSlot
	cur := dayStart
	for _, b := range MergeBusy(clipped) {
		if cur.Before(b.Start) {
			free = append(free, models.TimeSlot{Start: cur, End: b.Start})
		}
		if b.End.After(cur) {
			cur = b.End
		}
	}
	if cur.Before(dayEnd) {
		free = append(free, models.TimeSlot{Start: cur, End: dayEnd})
	}
	return free
}

// ClampToWorkHours intersects free intervals with the working-hour window of
// the given day.
func ClampToWorkHours(free []models.TimeSlot, day time.Time) []models.TimeSlot {
	workStart := time.Date(day.Year(), day.Month(), day.Day(), WorkStartHour, 0, 0, 0, day.Location())
	workEnd := time.Date(day.Year(), day.Month(), day.Day(), WorkEndHour, 0, 0, 0, day.Location())

	var out []models.TimeSlot
	for _, f := range free {
		s, e := f.Start, f.End
		if s.Before(workStart) {
			s = workStart
		}
		if e.After(workEnd) {
			e = workEnd
		}
		if e.After(s) {
			out = append(out, models.TimeSlot{Start: s, End: e})
		}
	}
	return out
}

// SessionWindows places bookable sessions inside the free intervals. Sessions
// start on the hour and step hourly. When a free interval is long enough for
// a session but no hour-aligned start fits, a single session at the interval
// start is offered so tight gaps still surface.
func SessionWindows(free []models.TimeSlot, session time.Duration) []models.TimeSlot {
	var sessions []models.TimeSlot
	for _, f := range free {
		if f.End.Sub(f.Start) < session {
			continue
		}

		aligned := f.Start.Truncate(time.Hour)
		if aligned.Before(f.Start) {
			aligned = aligned.Add(time.Hour)
		}

		placed := 0
		for cur := aligned; !cur.Add(session).After(f.End); cur = cur.Add(time.Hour) {
			sessions = append(sessions, models.TimeSlot{Start: cur, End: cur.Add(session)})
			placed++
		}

		if placed == 0 {
			sessions = append(sessions, models.TimeSlot{Start: f.Start, End: f.Start.Add(session)})
		}
	}
	return sessions
}

// DaySessions computes the bookable sessions for one calendar day.
func DaySessions(busy []models.TimeSlot, day time.Time, session time.Duration) []models.TimeSlot {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	free := ClampToWorkHours(FreeIntervals(busy, dayStart, dayEnd), dayStart)
	return SessionWindows(free, session)
}
