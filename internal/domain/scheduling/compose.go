package scheduling

import (
	"time"

	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/apperr"
	"github.com/guilherme-michels/clinic-up-sub000/pkg/civil"
)

const reportMonths = 6

// parseClock parses a strict HH:MM wall-clock time.
func parseClock(s string) (hour, minute int, ok bool) {
	if len(s) != 5 || s[2] != ':' {
		return 0, 0, false
	}
	digits := [4]byte{s[0], s[1], s[3], s[4]}
	for _, d := range digits {
		if d < '0' || d > '9' {
			return 0, 0, false
		}
	}
	hour = int(s[0]-'0')*10 + int(s[1]-'0')
	minute = int(s[3]-'0')*10 + int(s[4]-'0')
	if hour > 23 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

// ComposeTimes combines a YYYY-MM-DD date with HH:MM start and end times into
// instants in loc. The end must fall after the start.
func ComposeTimes(date, start, end string, loc *time.Location) (time.Time, time.Time, error) {
	d, err := civil.ParseDate(date)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Invalid("invalid date: %s", err.Error())
	}
	sh, sm, ok := parseClock(start)
	if !ok {
		return time.Time{}, time.Time{}, apperr.Invalid("start_time %q must be HH:MM", start)
	}
	eh, em, ok := parseClock(end)
	if !ok {
		return time.Time{}, time.Time{}, apperr.Invalid("end_time %q must be HH:MM", end)
	}
	if loc == nil {
		loc = time.Local
	}

	y, m, day := d.Date()
	startAt := time.Date(y, m, day, sh, sm, 0, 0, loc)
	endAt := time.Date(y, m, day, eh, em, 0, 0, loc)
	if !endAt.After(startAt) {
		return time.Time{}, time.Time{}, apperr.Invalid("end time must be after start time")
	}
	return startAt, endAt, nil
}

// MonthCount is one bucket of the completed-appointments report.
type MonthCount struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Count int `json:"count"`
}

// reportStart is the first instant of the oldest bucket ending at now's month.
func reportStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(reportMonths - 1), 0)
}

// BucketCompletedByMonth counts dates into the six calendar months ending with
// now's month, oldest first. Months are taken in now's location and dates
// outside the window are ignored.
func BucketCompletedByMonth(now time.Time, dates []time.Time) []MonthCount {
	first := reportStart(now)
	buckets := make([]MonthCount, reportMonths)
	index := make(map[[2]int]int, reportMonths)
	for i := range buckets {
		t := first.AddDate(0, i, 0)
		buckets[i] = MonthCount{Year: t.Year(), Month: int(t.Month())}
		index[[2]int{t.Year(), int(t.Month())}] = i
	}

	for _, d := range dates {
		d = d.In(now.Location())
		if i, ok := index[[2]int{d.Year(), int(d.Month())}]; ok {
			buckets[i].Count++
		}
	}
	return buckets
}
