package attendance

import (
	"github.com/PhucFanMu20Nams/attendance-tracking-sub000/internal/pkg/validator"
)

// AttendanceResponse is one attendance day with its computed metrics.
type AttendanceResponse struct {
	ID              string  `json:"id"`
	UserID          string  `json:"user_id"`
	Date            string  `json:"date"`
	CheckInAt       string  `json:"check_in_at"`
	CheckOutAt      *string `json:"check_out_at,omitempty"`
	OTApproved      bool    `json:"ot_approved"`
	Metrics         Metrics `json:"metrics"`
	PotentialOTMins int     `json:"potential_ot_minutes"`
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	Attendances []AttendanceResponse `json:"attendances"`
}

// AnomalyResponse is one audit-trail entry surfaced to operators, covering
// stale-session and multiple-open-session rejections.
type AnomalyResponse struct {
	Type      string `json:"type"`
	Detail    string `json:"detail"`
	CreatedAt string `json:"created_at"`
}

// DailyReportRow is one civil day of a monthly report. Days without a record
// still appear, carrying the derived ABSENT / WEEKEND_OR_HOLIDAY status.
type DailyReportRow struct {
	Date    string  `json:"date"`
	Metrics Metrics `json:"metrics"`
}

type MonthlyReportResponse struct {
	UserID          string           `json:"user_id"`
	Month           string           `json:"month"`
	Days            []DailyReportRow `json:"days"`
	WorkMinutes     int              `json:"total_work_minutes"`
	LateMinutes     int              `json:"total_late_minutes"`
	OvertimeMinutes int              `json:"total_overtime_minutes"`
	LateDays        int              `json:"late_days"`
	AbsentDays      int              `json:"absent_days"`
}

// ForceCheckoutRequest is the privileged operator path: it bypasses the
// grace-window check but still validates the target and the instant.
type ForceCheckoutRequest struct {
	ID         string `json:"attendance_id"`
	CheckOutAt string `json:"check_out_at"` // ISO8601
}

func (r *ForceCheckoutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "attendance_id",
			Message: "attendance_id is required",
		})
	} else if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "attendance_id",
			Message: "attendance_id must be a valid UUID",
		})
	}

	if validator.IsEmpty(r.CheckOutAt) {
		errs = append(errs, validator.ValidationError{
			Field:   "check_out_at",
			Message: "check_out_at is required",
		})
	} else if _, ok := validator.IsValidDateTime(r.CheckOutAt); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "check_out_at",
			Message: "check_out_at must be an ISO8601 timestamp",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type MyAttendanceFilter struct {
	StartDate *string
	EndDate   *string
	Page      int
	Limit     int
}

func (f *MyAttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.StartDate != nil {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if f.EndDate != nil {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
