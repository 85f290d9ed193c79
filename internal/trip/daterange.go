// Package trip derives the day breakdown of a business trip from its
// departure and return dates.
package trip

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Date is a pure calendar date. Keeping the (year, month, day) triple
// instead of a time.Time keeps all day arithmetic independent of time
// zones and DST transitions.
type Date struct {
	Year  int
	Month int
	Day   int
}

// ParseDate reads ISO-style "YYYY-MM-DD" text as produced by a date
// picker. Anything that is not exactly three numeric, dash-separated
// parts is invalid.
func ParseDate(text string) (Date, bool) {
	parts := strings.Split(strings.TrimSpace(text), "-")
	if len(parts) != 3 {
		return Date{}, false
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Date{}, false
		}
		nums[i] = n
	}
	return Date{Year: nums[0], Month: nums[1], Day: nums[2]}, true
}

// German renders the date as DD.MM.YYYY for printed documents.
func (d Date) German() string {
	return fmt.Sprintf("%02d.%02d.%04d", d.Day, d.Month, d.Year)
}

// utc pins the date to midnight UTC so that subtracting two dates is
// always an exact multiple of 24h, regardless of local DST rules.
func (d Date) utc() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// DaysBetweenInclusive counts calendar days from start to end with both
// endpoints included. start == end yields 1.
func DaysBetweenInclusive(start, end Date) int {
	return int(end.utc().Sub(start.utc()).Hours()/24) + 1
}

// Breakdown splits a trip into the per-diem categories. Arrival and
// departure day count as travel days (>8h absence); every day strictly
// between them is a full day.
type Breakdown struct {
	TotalDays  int
	FullDays   int
	TravelDays int
	Overnights int
}

// Resolve computes the breakdown for a date range given as raw field
// text. It returns nil when either endpoint is missing or malformed, or
// when the return date precedes the departure; callers must blank the
// derived day fields in that case rather than show stale values.
func Resolve(startText, endText string) *Breakdown {
	start, ok := ParseDate(startText)
	if !ok {
		return nil
	}
	end, ok := ParseDate(endText)
	if !ok {
		return nil
	}
	if end.utc().Before(start.utc()) {
		return nil
	}

	total := DaysBetweenInclusive(start, end)
	travel := total
	if total >= 2 {
		travel = 2
	}

	return &Breakdown{
		TotalDays:  total,
		FullDays:   max(total-2, 0),
		TravelDays: travel,
		Overnights: max(total-1, 0),
	}
}
