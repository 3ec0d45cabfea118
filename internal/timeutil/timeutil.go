// Package timeutil provides utility functions and types for working with
// time-related operations.
package timeutil

import (
	"fmt"
	"math"
	"time"
)

const minutesInAnHour = 60

type Period string

const (
	PeriodAllTime   Period = "all-time"
	PeriodToday     Period = "today"
	PeriodYesterday Period = "yesterday"
	Period7Days     Period = "7days"
	Period14Days    Period = "14days"
	Period30Days    Period = "30days"
	Period90Days    Period = "90days"
	Period180Days   Period = "180days"
	Period365Days   Period = "365days"
)

var Range = map[Period]int{
	PeriodAllTime:   0,
	PeriodToday:     0,
	PeriodYesterday: -1,
	Period7Days:     -6,
	Period14Days:    -13,
	Period30Days:    -29,
	Period90Days:    -89,
	Period180Days:   -179,
	Period365Days:   -364,
}

var PeriodCollection = []Period{
	PeriodAllTime,
	PeriodToday,
	PeriodYesterday,
	Period7Days,
	Period14Days,
	Period30Days,
	Period90Days,
	Period180Days,
	Period365Days,
}

// ActiveDuration computes the elapsed active time of a session from its start
// time, an end time (or the current time for a running session, supplied by
// the caller), and the accumulated paused duration. The result is clamped at
// zero: paused time exceeding wall-clock elapsed time due to clock skew or
// bad data must never surface as a negative duration in billing output.
func ActiveDuration(
	start, endOrNow time.Time,
	paused time.Duration,
) time.Duration {
	d := endOrNow.Sub(start) - paused
	if d < 0 {
		return 0
	}

	return d
}

// MinsToHoursAndMins expresses a minutes value in hours and mins.
func MinsToHoursAndMins(val int) (hrs, mins int) {
	hrs = int(math.Floor(float64(val) / float64(minutesInAnHour)))
	mins = val % minutesInAnHour

	return
}

// FormatClock renders a duration as HH:MM:SS for live timer displays.
func FormatClock(d time.Duration) string {
	total := int(d.Seconds())
	hrs := total / 3600
	mins := (total % 3600) / 60
	secs := total % 60

	return fmt.Sprintf("%02d:%02d:%02d", hrs, mins, secs)
}

// RoundToStart resets the given time to the start of the day.
func RoundToStart(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		0,
		0,
		0,
		0,
		t.Location(),
	)
}

// RoundToEnd resets the given time to the end of the day.
func RoundToEnd(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		23,
		59,
		59,
		0,
		t.Location(),
	)
}
