package schedule

import "time"

// OpenState is the resolved status at a single instant. Exactly one of
// NextOpen / CurrentWindowEnd is set: CurrentWindowEnd when open, NextOpen
// when closed. Both are nil when no opening exists within the search
// horizon (a fully closed week).
type OpenState struct {
	IsOpen           bool
	NextOpen         *time.Time
	CurrentWindowEnd *time.Time
}

// Resolve determines whether the restaurant is open at now according to
// the weekly schedule. Containment uses half-open intervals: an instant
// equal to a window's start is inside, equal to its end is outside.
func Resolve(week WeeklySchedule, now time.Time) OpenState {
	todayIdx := mondayIndex(now.Weekday())
	today := week[todayIdx]

	if today.Closed {
		return closedState(week, now, todayIdx, false)
	}

	ranges := ParseRanges(today.Hours)
	if len(ranges) == 0 {
		return closedState(week, now, todayIdx, false)
	}

	nowMin := now.Hour()*60 + now.Minute()

	for _, r := range ranges {
		if nowMin >= r.startMinutes() && nowMin < r.endMinutes() {
			// Wall-clock construction, not duration arithmetic: on DST
			// changeover days adding minutes to midnight drifts by an hour.
			var end time.Time
			if r.endMinutes() == 24*60 {
				// Midnight sentinel: the window ends at next-day 00:00.
				end = dayTime(now, 1, 0, 0)
			} else {
				end = dayTime(now, 0, r.EndHour, r.EndMin)
			}
			return OpenState{IsOpen: true, CurrentWindowEnd: &end}
		}
	}

	// Closed right now; a later slot today still wins over tomorrow.
	for _, r := range ranges {
		if r.startMinutes() > nowMin {
			at := dayTime(now, 0, r.StartHour, r.StartMin)
			return OpenState{NextOpen: &at}
		}
	}

	return closedState(week, now, todayIdx, true)
}

func closedState(week WeeklySchedule, now time.Time, todayIdx int, skipToday bool) OpenState {
	return OpenState{NextOpen: findNextOpen(week, now, todayIdx, skipToday)}
}

// findNextOpen scans forward from now for the next opening instant.
// Offsets run up to 7 inclusive, so a schedule whose only openings are on
// the starting weekday is still found one week out; a week with no valid
// windows at all yields nil.
func findNextOpen(week WeeklySchedule, now time.Time, todayIdx int, skipToday bool) *time.Time {
	first := 0
	if skipToday {
		first = 1
	}
	nowMin := now.Hour()*60 + now.Minute()

	for offset := first; offset <= 7; offset++ {
		day := week[(todayIdx+offset)%7]
		if day.Closed {
			continue
		}
		ranges := ParseRanges(day.Hours)
		if len(ranges) == 0 {
			continue
		}

		if offset == 0 {
			// Today only counts for slots that have not started yet.
			for _, r := range ranges {
				if r.startMinutes() > nowMin {
					at := dayTime(now, 0, r.StartHour, r.StartMin)
					return &at
				}
			}
			continue
		}

		// Ranges are sorted at parse time, so the first one is the
		// earliest opening of that day. At offset 7 the whole day lies a
		// week ahead and every slot is upcoming.
		at := dayTime(now, offset, ranges[0].StartHour, ranges[0].StartMin)
		return &at
	}

	return nil
}

func dayTime(ref time.Time, offsetDays, hour, min int) time.Time {
	d := ref.AddDate(0, 0, offsetDays)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, min, 0, 0, ref.Location())
}
