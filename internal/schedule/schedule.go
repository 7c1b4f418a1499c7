// Package schedule resolves the restaurant's weekly opening hours into an
// open/closed state for a given instant. All functions are pure: the caller
// supplies the reference time, nothing reads the wall clock.
package schedule

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DayHours describes the opening windows of a single weekday.
// Hours holds comma-separated slots like "12:00 - 14:30, 19:00 - 23:00".
// When Closed is set, Hours is ignored.
type DayHours struct {
	Day    string `yaml:"day" json:"day"`
	Hours  string `yaml:"hours" json:"hours"`
	Closed bool   `yaml:"closed,omitempty" json:"closed,omitempty"`
}

// WeeklySchedule is a Monday-first week: index 0 is Monday, 6 is Sunday.
type WeeklySchedule [7]DayHours

// TimeRange is one contiguous opening window within a day.
// An end of 00:00 is the midnight sentinel: it means "until end of day",
// not a zero-length window.
type TimeRange struct {
	StartHour int
	StartMin  int
	EndHour   int
	EndMin    int
}

func (r TimeRange) startMinutes() int { return r.StartHour*60 + r.StartMin }

// endMinutes normalizes the midnight sentinel to 24:00 so containment
// checks treat "closes at 00:00" as end-of-day.
func (r TimeRange) endMinutes() int {
	m := r.EndHour*60 + r.EndMin
	if m == 0 {
		return 24 * 60
	}
	return m
}

var slotPattern = regexp.MustCompile(`^\s*(\d{1,2}):(\d{2})\s*-\s*(\d{1,2}):(\d{2})\s*$`)

// ParseRanges parses an hours string into time ranges. Slots that do not
// match the H:MM - H:MM pattern are skipped: malformed configuration
// degrades to "no range", it never fails. The result is sorted by start
// time so callers can rely on chronological scan order.
func ParseRanges(hours string) []TimeRange {
	if strings.TrimSpace(hours) == "" {
		return nil
	}

	var ranges []TimeRange
	for _, slot := range strings.Split(hours, ",") {
		m := slotPattern.FindStringSubmatch(slot)
		if m == nil {
			continue
		}
		sh, _ := strconv.Atoi(m[1])
		sm, _ := strconv.Atoi(m[2])
		eh, _ := strconv.Atoi(m[3])
		em, _ := strconv.Atoi(m[4])
		if sh > 23 || sm > 59 || eh > 23 || em > 59 {
			continue
		}
		ranges = append(ranges, TimeRange{StartHour: sh, StartMin: sm, EndHour: eh, EndMin: em})
	}

	sort.SliceStable(ranges, func(i, j int) bool {
		return ranges[i].startMinutes() < ranges[j].startMinutes()
	})
	return ranges
}

// mondayIndex converts time.Weekday (Sunday=0) to the Monday-first index
// used by WeeklySchedule.
func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}
