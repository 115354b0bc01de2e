package response

import (
	"errors"
	"net/http"

	"github.com/PhucFanMu20Nams/attendance-tracking-sub000/internal/domain/attendance"
	"github.com/PhucFanMu20Nams/attendance-tracking-sub000/internal/domain/request"
	"github.com/PhucFanMu20Nams/attendance-tracking-sub000/internal/domain/user"
	"github.com/PhucFanMu20Nams/attendance-tracking-sub000/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "You have already checked in today")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		BadRequest(w, "You have not checked in yet", nil)
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, "This session is already closed")
	case errors.Is(err, attendance.ErrStaleOpenSession):
		// The wrapped message carries the stale session's date.
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrCheckoutBeforeCheckIn):
		BadRequest(w, "Checkout time must be after check-in time", nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// Request domain errors
	case errors.Is(err, request.ErrDateInPast):
		BadRequest(w, "Request date must not be in the past", nil)
	case errors.Is(err, request.ErrEndTimeNotInFuture):
		BadRequest(w, "Estimated end time must be in the future", nil)
	case errors.Is(err, request.ErrOvertimeBeforeBoundary):
		BadRequest(w, "Estimated end time must be after the overtime boundary", nil)
	case errors.Is(err, request.ErrOvertimeTooShort):
		BadRequest(w, "Estimated overtime must be at least 30 minutes", nil)
	case errors.Is(err, request.ErrOvertimeCrossesMidnight):
		BadRequest(w, "Overtime must not cross into the next calendar day", nil)
	case errors.Is(err, request.ErrAdjustTooOld):
		BadRequest(w, "Adjustment date is outside the allowed window", nil)
	case errors.Is(err, request.ErrAttendanceAlreadyClosed):
		Conflict(w, "Checkout already recorded for this date")
	case errors.Is(err, request.ErrMonthlyPendingCap):
		BadRequest(w, "Monthly limit of pending overtime requests reached", nil)
	case errors.Is(err, request.ErrAlreadyProcessed):
		Conflict(w, "Request has already been approved or rejected")
	case errors.Is(err, request.ErrSelfApproval):
		Forbidden(w, "You cannot approve your own request")
	case errors.Is(err, request.ErrRequestNotFound):
		NotFound(w, "Request not found")
	case errors.Is(err, request.ErrInvalidID):
		BadRequest(w, "Invalid request id", nil)

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserInactive):
		BadRequest(w, "User account is deactivated", nil)
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")
	case errors.Is(err, user.ErrApprovalNotAllowed):
		Forbidden(w, "Not allowed to approve this request")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
