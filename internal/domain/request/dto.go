package request

import (
	"time"

	"github.com/PhucFanMu20Nams/attendance-tracking-sub000/internal/pkg/validator"
)

// CreateRequestRequest is the loosely-shaped submission for any of the three
// request kinds. Which fields are required depends on Type; the service runs
// the full creation pipeline in its fixed order, so Validate covers only the
// shape checks (required fields and date/time formats) and ValidateReason is
// invoked separately at its pipeline position.
type CreateRequestRequest struct {
	UserID string `json:"-"`
	Type   string `json:"type"`
	Reason string `json:"reason"`

	// ADJUST_TIME / OT_REQUEST
	Date string `json:"date,omitempty"`

	// ADJUST_TIME
	RequestedCheckIn  string `json:"requested_check_in,omitempty"`
	RequestedCheckOut string `json:"requested_check_out,omitempty"`

	// LEAVE
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	LeaveType string `json:"leave_type,omitempty"`

	// OT_REQUEST
	EstimatedEndTime string `json:"estimated_end_time,omitempty"`
}

// Validate covers the first two pipeline stages: required fields for the
// declared type, then format validity of every date and timestamp present.
func (r *CreateRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	switch Type(r.Type) {
	case TypeAdjustTime:
		errs = append(errs, requireDate("date", r.Date)...)
		errs = append(errs, requireDateTime("requested_check_in", r.RequestedCheckIn)...)
		if r.RequestedCheckOut != "" {
			errs = append(errs, requireDateTime("requested_check_out", r.RequestedCheckOut)...)
		}
		if in, inOK := validator.IsValidDateTime(r.RequestedCheckIn); inOK && r.RequestedCheckOut != "" {
			if out, outOK := validator.IsValidDateTime(r.RequestedCheckOut); outOK && !out.After(in) {
				errs = append(errs, validator.ValidationError{
					Field:   "requested_check_out",
					Message: "requested_check_out must be after requested_check_in",
				})
			}
		}
	case TypeLeave:
		errs = append(errs, requireDate("start_date", r.StartDate)...)
		errs = append(errs, requireDate("end_date", r.EndDate)...)
		if validator.IsEmpty(r.LeaveType) {
			errs = append(errs, validator.ValidationError{
				Field:   "leave_type",
				Message: "leave_type is required",
			})
		}
		if r.StartDate != "" && r.EndDate != "" && r.EndDate < r.StartDate {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must not be before start_date",
			})
		}
	case TypeOTRequest:
		errs = append(errs, requireDate("date", r.Date)...)
		errs = append(errs, requireDateTime("estimated_end_time", r.EstimatedEndTime)...)
	default:
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of ADJUST_TIME, LEAVE, OT_REQUEST",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ValidateReason is the reason stage of the pipeline: required, non-blank
// after trimming, bounded length.
func (r *CreateRequestRequest) ValidateReason() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}
	if len(r.Reason) > MaxReasonLength {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ParsedEstimatedEndTime returns the OT target instant. Call after Validate.
func (r *CreateRequestRequest) ParsedEstimatedEndTime() (time.Time, bool) {
	return validator.IsValidDateTime(r.EstimatedEndTime)
}

// ParsedRequestedTimes returns the adjustment instants. Call after Validate.
func (r *CreateRequestRequest) ParsedRequestedTimes() (checkIn time.Time, checkOut *time.Time, ok bool) {
	checkIn, ok = validator.IsValidDateTime(r.RequestedCheckIn)
	if !ok {
		return time.Time{}, nil, false
	}
	if r.RequestedCheckOut == "" {
		return checkIn, nil, true
	}
	out, outOK := validator.IsValidDateTime(r.RequestedCheckOut)
	if !outOK {
		return time.Time{}, nil, false
	}
	return checkIn, &out, true
}

func requireDate(field, value string) validator.ValidationErrors {
	if validator.IsEmpty(value) {
		return validator.ValidationErrors{{Field: field, Message: field + " is required"}}
	}
	if _, ok := validator.IsValidDate(value); !ok {
		return validator.ValidationErrors{{Field: field, Message: field + " must be in YYYY-MM-DD format"}}
	}
	return nil
}

func requireDateTime(field, value string) validator.ValidationErrors {
	if validator.IsEmpty(value) {
		return validator.ValidationErrors{{Field: field, Message: field + " is required"}}
	}
	if _, ok := validator.IsValidDateTime(value); !ok {
		return validator.ValidationErrors{{Field: field, Message: field + " must be an ISO8601 timestamp"}}
	}
	return nil
}

// RequestResponse is the API shape of a request.
type RequestResponse struct {
	ID                string   `json:"id"`
	UserID            string   `json:"user_id"`
	Type              Type     `json:"type"`
	Status            Status   `json:"status"`
	Reason            string   `json:"reason"`
	Date              *string  `json:"date,omitempty"`
	RequestedCheckIn  *string  `json:"requested_check_in,omitempty"`
	RequestedCheckOut *string  `json:"requested_check_out,omitempty"`
	StartDate         *string  `json:"start_date,omitempty"`
	EndDate           *string  `json:"end_date,omitempty"`
	LeaveType         *string  `json:"leave_type,omitempty"`
	WorkingDays       *float64 `json:"working_days,omitempty"`
	EstimatedEndTime  *string  `json:"estimated_end_time,omitempty"`
	ApprovedBy        *string  `json:"approved_by,omitempty"`
	CreatedAt         string   `json:"created_at"`
}

type ListRequestsResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	Requests   []RequestResponse `json:"requests"`
}

type ListFilter struct {
	Type   *string
	Status *string
	Page   int
	Limit  int
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Type != nil && !validator.IsInSlice(*f.Type, []string{
		string(TypeAdjustTime), string(TypeLeave), string(TypeOTRequest),
	}) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of ADJUST_TIME, LEAVE, OT_REQUEST",
		})
	}
	if f.Status != nil && !validator.IsInSlice(*f.Status, []string{
		string(StatusPending), string(StatusApproved), string(StatusRejected),
	}) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of PENDING, APPROVED, REJECTED",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// PendingFilter scopes the approval inbox. TeamID is set for managers and nil
// for admins.
type PendingFilter struct {
	TeamID *string
	Page   int
	Limit  int
}
