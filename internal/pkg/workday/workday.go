package workday

import (
	"time"
)

// Location is the fixed civil offset all day keys and workday boundaries are
// computed in. Attendance rules must not depend on the host timezone.
var Location = time.FixedZone("UTC+7", 7*60*60)

const (
	dayKeyLayout   = "2006-01-02"
	monthKeyLayout = "2006-01"

	// Standard workday boundaries (civil time).
	StandardStartHour   = 8
	StandardStartMinute = 30
	StandardEndHour     = 17
	StandardEndMinute   = 30
	OvertimeStartHour   = 17
	OvertimeStartMinute = 31

	// LunchMinutes is deducted from every computed workday.
	LunchMinutes = 60
)

// DayKey converts an instant to its calendar-day key ("YYYY-MM-DD") in the
// fixed UTC+7 offset. A zero instant yields an empty string.
func DayKey(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(Location).Format(dayKeyLayout)
}

// MonthKey converts a day key to its "YYYY-MM" month bucket. Malformed keys
// yield an empty string.
func MonthKey(key string) string {
	t, err := ParseDayKey(key)
	if err != nil {
		return ""
	}
	return t.Format(monthKeyLayout)
}

// ParseDayKey parses a day key into midnight of that civil day.
func ParseDayKey(key string) (time.Time, error) {
	return time.ParseInLocation(dayKeyLayout, key, Location)
}

// IsWeekend reports whether the day key falls on a Saturday or Sunday.
// Malformed keys report false.
func IsWeekend(key string) bool {
	t, err := ParseDayKey(key)
	if err != nil {
		return false
	}
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// StandardStart returns the 08:30 workday start instant for a day key.
func StandardStart(key string) (time.Time, error) {
	return at(key, StandardStartHour, StandardStartMinute)
}

// StandardEnd returns the 17:30 workday end instant for a day key.
func StandardEnd(key string) (time.Time, error) {
	return at(key, StandardEndHour, StandardEndMinute)
}

// OvertimeStart returns the 17:31 overtime boundary instant for a day key.
// Only minutes strictly after this instant count as overtime.
func OvertimeStart(key string) (time.Time, error) {
	return at(key, OvertimeStartHour, OvertimeStartMinute)
}

func at(key string, hour, minute int) (time.Time, error) {
	day, err := ParseDayKey(key)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, Location), nil
}
