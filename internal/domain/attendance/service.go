package attendance

import (
	"context"
)

// AttendanceService owns the check-in/check-out session lifecycle.
type AttendanceService interface {
	// CheckIn opens today's session for the user
	CheckIn(ctx context.Context, userID string) (AttendanceResponse, error)

	// CheckOut closes the user's most recent open session
	CheckOut(ctx context.Context, userID string) (AttendanceResponse, error)

	// ForceCheckOut closes a session on behalf of an operator, bypassing the
	// grace-window staleness check
	ForceCheckOut(ctx context.Context, req ForceCheckoutRequest) (AttendanceResponse, error)

	// GetToday retrieves today's record with computed metrics
	GetToday(ctx context.Context, userID string) (AttendanceResponse, error)

	// GetMyAttendance retrieves attendance history with computed metrics
	GetMyAttendance(ctx context.Context, userID string, filter MyAttendanceFilter) (ListAttendanceResponse, error)

	// MonthlyReport derives per-day metrics and totals for one calendar month
	MonthlyReport(ctx context.Context, userID string, month string) (MonthlyReportResponse, error)

	// ListAnomalies retrieves a user's recorded session anomalies, newest first
	ListAnomalies(ctx context.Context, userID string, limit int) ([]AnomalyResponse, error)
}
