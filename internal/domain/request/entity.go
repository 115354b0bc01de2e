package request

import "time"

type Type string

const (
	TypeAdjustTime Type = "ADJUST_TIME"
	TypeLeave      Type = "LEAVE"
	TypeOTRequest  Type = "OT_REQUEST"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

const (
	// MaxReasonLength bounds the free-text reason.
	MaxReasonLength = 1000

	// MinOvertimeMinutes is the smallest overtime span worth a request.
	MinOvertimeMinutes = 30

	// MaxPendingOTPerMonth caps PENDING overtime requests per user per
	// calendar month.
	MaxPendingOTPerMonth = 31
)

// Request is one of three kinds sharing a lifecycle: created PENDING,
// transitioned to APPROVED or REJECTED exactly once, or hard-deleted by the
// owner while still PENDING. Only the fields of its own kind are set.
type Request struct {
	ID     string
	UserID string
	Type   Type
	Status Status
	Reason string

	// ADJUST_TIME and OT_REQUEST target a single calendar day.
	Date *string

	// ADJUST_TIME
	RequestedCheckIn  *time.Time
	RequestedCheckOut *time.Time

	// LEAVE
	StartDate   *string
	EndDate     *string
	LeaveType   *string
	WorkingDays *float64

	// OT_REQUEST
	EstimatedEndTime *time.Time

	ApprovedBy *string
	ApprovedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MergeKey is the calendar day a pending request of this type is deduplicated
// on: the target date for ADJUST_TIME/OT_REQUEST, the start date for LEAVE.
func (r Request) MergeKey() string {
	if r.Type == TypeLeave {
		if r.StartDate != nil {
			return *r.StartDate
		}
		return ""
	}
	if r.Date != nil {
		return *r.Date
	}
	return ""
}
