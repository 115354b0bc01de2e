package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in errors
	ErrAlreadyCheckedIn = errors.New("you have already checked in today")

	// Check-out errors
	ErrNotCheckedIn      = errors.New("you have not checked in yet")
	ErrAlreadyCheckedOut = errors.New("you have already checked out")
	ErrStaleOpenSession  = errors.New("open session exceeds the checkout grace window")

	// Forced checkout errors
	ErrCheckoutBeforeCheckIn = errors.New("checkout time must be after check-in time")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
)
