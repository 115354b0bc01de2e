package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// Create creates a new attendance record. The (user_id, date) uniqueness
	// constraint surfaces as ErrAlreadyCheckedIn.
	Create(ctx context.Context, att Attendance) (Attendance, error)

	// GetByID retrieves attendance by ID
	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByUserAndDate retrieves the record for one user on one calendar day.
	// Returns nil when the day has no record.
	GetByUserAndDate(ctx context.Context, userID string, date string) (*Attendance, error)

	// ListOpenSessions retrieves all open sessions for a user, newest
	// check-in first. More than one entry is a data anomaly.
	ListOpenSessions(ctx context.Context, userID string) ([]Attendance, error)

	// CloseSession sets check_out_at on a still-open session. The write is
	// conditional on the session being open; a lost race surfaces as
	// ErrAlreadyCheckedOut.
	CloseSession(ctx context.Context, id string, at time.Time) error

	// SetOTApproved flips ot_approved to true for (user, date). Reports
	// whether a record existed to receive the flag.
	SetOTApproved(ctx context.Context, userID string, date string) (bool, error)

	// ReconcileTimes writes approved adjustment instants onto the (user, date)
	// record, creating it when the day has none. ot_approved is left alone.
	ReconcileTimes(ctx context.Context, userID string, date string, checkIn time.Time, checkOut *time.Time) error

	// ListByUserRange retrieves records with date in [from, to], oldest first.
	ListByUserRange(ctx context.Context, userID string, from, to string) ([]Attendance, error)

	// ListByUser retrieves attendance records for one user with filters and
	// pagination, newest first.
	ListByUser(ctx context.Context, userID string, filter MyAttendanceFilter) ([]Attendance, int64, error)
}

// HolidayRepository provides the public-holiday set keyed by day key.
type HolidayRepository interface {
	GetByYear(ctx context.Context, year int) (map[string]bool, error)
}
