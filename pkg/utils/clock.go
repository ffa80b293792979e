package utils

import (
	"time"
)

// The studio operates in a single timezone; expiry dates and payment due
// dates are normalized against local calendar days, not UTC ones.
var london = mustLoadLocation("Europe/London")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic("load location " + name + ": " + err.Error())
	}
	return loc
}

// StudioLocation returns the studio's local timezone.
func StudioLocation() *time.Location {
	return london
}

// EndOfDay returns 23:59:59 local time on the studio-local calendar day
// containing t, expressed in UTC.
func EndOfDay(t time.Time) time.Time {
	local := t.In(london)
	eod := time.Date(local.Year(), local.Month(), local.Day(), 23, 59, 59, 0, london)
	return eod.UTC()
}

// AddCalendarMonths adds n calendar months to t, clamping the day of month
// rather than rolling over (31 Jan + 1 month = 28/29 Feb, not 2/3 Mar).
func AddCalendarMonths(t time.Time, n int) time.Time {
	local := t.In(london)
	year, month, day := local.Date()

	month += time.Month(n)
	for month > 12 {
		month -= 12
		year++
	}
	for month < 1 {
		month += 12
		year--
	}

	if last := lastDayOfMonth(year, month); day > last {
		day = last
	}

	result := time.Date(
		year, month, day,
		local.Hour(), local.Minute(), local.Second(), local.Nanosecond(),
		london,
	)
	return result.UTC()
}

func lastDayOfMonth(year int, month time.Month) int {
	// day 0 of the next month
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
