package session

import (
	"time"
)

// Session is the New York based market session a timestamp falls into.
type Session string

const (
	WeekendHoliday Session = "weekend_holiday"
	DeadZone       Session = "dead_zone"
	Asia           Session = "asia_session"
	London         Session = "london_session"
	US             Session = "us_session"
	Default        Session = "default"

	daysPerWeek          = 7
	sundayShiftDays      = 1
	newYearDay           = 1
	thirdMondayOffset    = 2
	fourthThursdayOffset = 3
)

var newYork = loadNewYork()

func loadNewYork() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return nil
	}
	return loc
}

// Detect labels t with its New York session. Hours are NY wall clock:
// Asia 20-03, London 03-09, US 09-17, dead zone 17-20. Weekends and US
// market holidays are WeekendHoliday, except Sunday London hours which
// already count as London.
func Detect(t time.Time) Session {
	et := easternTime(t)

	if et.Weekday() == time.Sunday && isLondon(et) {
		return London
	}

	if et.Weekday() == time.Saturday || et.Weekday() == time.Sunday || IsHoliday(et) {
		return WeekendHoliday
	}

	switch {
	case isDeadZone(et):
		return DeadZone
	case isAsia(et):
		return Asia
	case isLondon(et):
		return London
	case isUS(et):
		return US
	default:
		return Default
	}
}

func easternTime(t time.Time) time.Time {
	if newYork == nil {
		return t.UTC()
	}
	return t.In(newYork)
}

func isDeadZone(t time.Time) bool {
	return t.Hour() >= 17 && t.Hour() < 20
}

func isAsia(t time.Time) bool {
	return t.Hour() >= 20 || t.Hour() < 3
}

func isLondon(t time.Time) bool {
	return t.Hour() >= 3 && t.Hour() < 9
}

func isUS(t time.Time) bool {
	return t.Hour() >= 9 && t.Hour() <= 17
}

// IsHoliday reports whether the calendar date of t is a US market holiday.
func IsHoliday(t time.Time) bool {
	year := t.Year()

	newYears := time.Date(year, time.January, newYearDay, 0, 0, 0, 0, time.UTC)
	if newYears.Weekday() == time.Sunday {
		newYears = newYears.AddDate(0, 0, sundayShiftDays)
	}

	mlkDay := nthWeekday(year, time.January, time.Monday, thirdMondayOffset)
	presidentsDay := nthWeekday(year, time.February, time.Monday, thirdMondayOffset)

	// last Monday of May
	memorialDay := time.Date(year, time.May, 31, 0, 0, 0, 0, time.UTC)
	for memorialDay.Weekday() != time.Monday {
		memorialDay = memorialDay.AddDate(0, 0, -1)
	}

	independenceDay := time.Date(year, time.July, 4, 0, 0, 0, 0, time.UTC)
	if independenceDay.Weekday() == time.Sunday {
		independenceDay = independenceDay.AddDate(0, 0, sundayShiftDays)
	}

	laborDay := nthWeekday(year, time.September, time.Monday, 0)
	thanksgiving := nthWeekday(year, time.November, time.Thursday, fourthThursdayOffset)

	christmas := time.Date(year, time.December, 25, 0, 0, 0, 0, time.UTC)
	if christmas.Weekday() == time.Sunday {
		christmas = christmas.AddDate(0, 0, sundayShiftDays)
	}

	day := t.Format(time.DateOnly)
	for _, h := range []time.Time{
		newYears,
		mlkDay,
		presidentsDay,
		memorialDay,
		independenceDay,
		laborDay,
		thanksgiving,
		christmas,
	} {
		if h.Format(time.DateOnly) == day {
			return true
		}
	}
	return false
}

// nthWeekday returns the (offset+1)-th given weekday of the month.
func nthWeekday(year int, month time.Month, weekday time.Weekday, offset int) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	shift := int(weekday-first.Weekday()+daysPerWeek) % daysPerWeek
	return first.AddDate(0, 0, shift+offset*daysPerWeek)
}
