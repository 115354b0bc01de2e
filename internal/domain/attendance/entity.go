package attendance

import (
	"time"
)

// Attendance is one check-in/check-out session. There is exactly one record
// per (user, date); a record exists if and only if a check-in happened, so
// absence is the absence of a row. Date stays pinned to the check-in day even
// when the checkout lands on the next civil day.
type Attendance struct {
	ID         string
	UserID     string
	Date       string // calendar-day key, immutable once created
	CheckInAt  time.Time
	CheckOutAt *time.Time
	OTApproved bool // false→true only, never reset
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Open reports whether the session has not been checked out yet.
func (a Attendance) Open() bool {
	return a.CheckOutAt == nil
}

// Status of a day as derived by the compute engine.
type Status string

const (
	StatusOnTime           Status = "ON_TIME"
	StatusLate             Status = "LATE"
	StatusWorking          Status = "WORKING"
	StatusMissingCheckout  Status = "MISSING_CHECKOUT"
	StatusAbsent           Status = "ABSENT"
	StatusWeekendOrHoliday Status = "WEEKEND_OR_HOLIDAY"
)

// Metrics are the derived per-day numbers. They are always recomputed from
// the stored timestamps and flags, never persisted.
type Metrics struct {
	Status          Status `json:"status"`
	LateMinutes     int    `json:"late_minutes"`
	WorkMinutes     int    `json:"work_minutes"`
	OvertimeMinutes int    `json:"overtime_minutes"`
}
