package attendance

import (
	"time"

	"github.com/PhucFanMu20Nams/attendance-tracking-sub000/internal/domain/attendance"
	"github.com/PhucFanMu20Nams/attendance-tracking-sub000/internal/pkg/workday"
)

// Compute derives the display metrics for one attendance day. It is pure and
// never fails: malformed input degrades to zeroed metrics and the most
// conservative status, because this sits on every read path.
//
// Weekend and holiday days are treated as overtime-approved regardless of the
// stored flag: overtime rules only exist for working days.
func Compute(rec *attendance.Attendance, holidays map[string]bool, now time.Time) attendance.Metrics {
	if rec == nil {
		return attendance.Metrics{Status: attendance.StatusAbsent}
	}
	return computeDay(rec.Date, rec, holidays, now)
}

// ComputeDay derives metrics for a civil day that may have no record at all.
// A recordless weekday resolves to ABSENT, a recordless weekend or holiday to
// WEEKEND_OR_HOLIDAY.
func ComputeDay(dayKey string, rec *attendance.Attendance, holidays map[string]bool, now time.Time) attendance.Metrics {
	return computeDay(dayKey, rec, holidays, now)
}

func computeDay(dayKey string, rec *attendance.Attendance, holidays map[string]bool, now time.Time) attendance.Metrics {
	if _, err := workday.ParseDayKey(dayKey); err != nil {
		return attendance.Metrics{Status: attendance.StatusAbsent}
	}

	offDay := workday.IsWeekend(dayKey) || holidays[dayKey]

	if rec == nil || rec.CheckInAt.IsZero() {
		if offDay {
			return attendance.Metrics{Status: attendance.StatusWeekendOrHoliday}
		}
		return attendance.Metrics{Status: attendance.StatusAbsent}
	}

	otApproved := rec.OTApproved || offDay

	var lateMinutes int
	if !offDay {
		if start, err := workday.StandardStart(dayKey); err == nil && rec.CheckInAt.After(start) {
			lateMinutes = wholeMinutes(rec.CheckInAt.Sub(start))
		}
	}

	if rec.CheckOutAt == nil {
		status := attendance.StatusMissingCheckout
		switch {
		case offDay:
			status = attendance.StatusWeekendOrHoliday
		case workday.DayKey(now) == dayKey:
			status = attendance.StatusWorking
		}
		return attendance.Metrics{Status: status, LateMinutes: lateMinutes}
	}

	checkOut := *rec.CheckOutAt

	// Without an overtime approval the paid day ends at 17:30 no matter how
	// late the actual checkout was.
	effectiveOut := checkOut
	if !otApproved {
		if end, err := workday.StandardEnd(dayKey); err == nil && checkOut.After(end) {
			effectiveOut = end
		}
	}

	workMinutes := wholeMinutes(effectiveOut.Sub(rec.CheckInAt)) - workday.LunchMinutes
	if workMinutes < 0 {
		workMinutes = 0
	}

	var otMinutes int
	if otApproved {
		otMinutes = overtimeAfterBoundary(dayKey, checkOut)
	}

	status := attendance.StatusOnTime
	switch {
	case offDay:
		status = attendance.StatusWeekendOrHoliday
	case lateMinutes > 0:
		status = attendance.StatusLate
	}

	return attendance.Metrics{
		Status:          status,
		LateMinutes:     lateMinutes,
		WorkMinutes:     workMinutes,
		OvertimeMinutes: otMinutes,
	}
}

// PotentialOvertimeMinutes estimates the overtime a day would yield if it
// were approved. Preview only, never payroll-affecting. Open sessions are
// measured against now.
func PotentialOvertimeMinutes(rec *attendance.Attendance, now time.Time) int {
	if rec == nil || rec.CheckInAt.IsZero() {
		return 0
	}
	end := now
	if rec.CheckOutAt != nil {
		end = *rec.CheckOutAt
	}
	return overtimeAfterBoundary(rec.Date, end)
}

// overtimeAfterBoundary counts whole minutes strictly after 17:31 of the
// day. An end exactly at 17:31 yields 0; 17:32 yields 1.
func overtimeAfterBoundary(dayKey string, end time.Time) int {
	otStart, err := workday.OvertimeStart(dayKey)
	if err != nil {
		return 0
	}
	mins := wholeMinutes(end.Sub(otStart))
	if mins < 0 {
		return 0
	}
	return mins
}

func wholeMinutes(d time.Duration) int {
	return int(d / time.Minute)
}
