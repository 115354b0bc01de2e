package request

import "errors"

// Request domain errors
var (
	// Creation errors
	ErrDateInPast              = errors.New("request date must not be in the past")
	ErrEndTimeNotInFuture      = errors.New("estimated end time must be in the future")
	ErrOvertimeBeforeBoundary  = errors.New("estimated end time must be after the overtime boundary")
	ErrOvertimeTooShort        = errors.New("estimated overtime must be at least 30 minutes")
	ErrOvertimeCrossesMidnight = errors.New("overtime must not cross into the next calendar day")
	ErrAdjustTooOld            = errors.New("adjustment date is outside the allowed lookback window")
	ErrAttendanceAlreadyClosed = errors.New("checkout already recorded for this date")
	ErrMonthlyPendingCap       = errors.New("monthly limit of pending overtime requests reached")

	// Transition errors
	ErrAlreadyProcessed = errors.New("request has already been approved or rejected")
	ErrSelfApproval     = errors.New("you cannot approve your own request")

	// General errors
	ErrRequestNotFound = errors.New("request not found")
	ErrInvalidID       = errors.New("invalid request id")
)
