package model

import "time"

// Period is a named date-range shorthand resolved against the current day.
type Period string

// Recognized periods. Anything else resolves to PeriodAll.
const (
	PeriodToday     Period = "today"
	PeriodThisWeek  Period = "this_week"
	PeriodThisMonth Period = "this_month"
	PeriodAll       Period = "all"
)

// Normalize maps unrecognized period keywords to PeriodAll.
func (p Period) Normalize() Period {
	switch p {
	case PeriodToday, PeriodThisWeek, PeriodThisMonth:
		return p
	default:
		return PeriodAll
	}
}

// Range resolves the period into an inclusive [start, end] calendar-day
// range relative to now. PeriodAll returns ok=false: no filtering.
// Weeks run Monday through Sunday; months are calendar months.
func (p Period) Range(now time.Time) (start, end time.Time, ok bool) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch p.Normalize() {
	case PeriodToday:
		return day, day, true
	case PeriodThisWeek:
		weekday := int(day.Weekday())
		if weekday == 0 { // Sunday belongs to the week that started the previous Monday
			weekday = 7
		}
		monday := day.AddDate(0, 0, -(weekday - 1))
		sunday := monday.AddDate(0, 0, 6)
		return monday, sunday, true
	case PeriodThisMonth:
		first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		last := first.AddDate(0, 1, -1)
		return first, last, true
	default:
		return time.Time{}, time.Time{}, false
	}
}
