package schedule

import "time"

// TomorrowToken is the day label used when the next opening falls on the
// calendar day after the reference instant.
const TomorrowToken = "domani"

// weekdayNames is Monday-first, matching WeeklySchedule indexing.
var weekdayNames = [7]string{
	"lunedì", "martedì", "mercoledì", "giovedì", "venerdì", "sabato", "domenica",
}

// NextOpenLabel is the display form of a next-opening instant.
// Day is empty when the opening is on the same calendar day as now.
type NextOpenLabel struct {
	Time string `json:"time"`
	Day  string `json:"day,omitempty"`
}

// FormatNextOpen renders next as a 24-hour HH:MM label plus a day token:
// nothing for today, TomorrowToken for the next day, the weekday name
// otherwise. Both instants must be in the restaurant's timezone.
func FormatNextOpen(next, now time.Time) NextOpenLabel {
	label := NextOpenLabel{Time: next.Format("15:04")}
	if sameDate(next, now) {
		return label
	}
	if sameDate(next, now.AddDate(0, 0, 1)) {
		label.Day = TomorrowToken
		return label
	}
	label.Day = weekdayNames[mondayIndex(next.Weekday())]
	return label
}

// MinutesUntil returns whole minutes from now until next, clamped at zero.
func MinutesUntil(next, now time.Time) int {
	m := int(next.Sub(now).Milliseconds() / 60000)
	if m < 0 {
		return 0
	}
	return m
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
