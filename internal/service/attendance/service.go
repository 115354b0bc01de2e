package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/PhucFanMu20Nams/attendance-tracking-sub000/internal/config"
	"github.com/PhucFanMu20Nams/attendance-tracking-sub000/internal/domain/attendance"
	"github.com/PhucFanMu20Nams/attendance-tracking-sub000/internal/domain/audit"
	"github.com/PhucFanMu20Nams/attendance-tracking-sub000/internal/domain/request"
	"github.com/PhucFanMu20Nams/attendance-tracking-sub000/internal/pkg/validator"
	"github.com/PhucFanMu20Nams/attendance-tracking-sub000/internal/pkg/workday"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	attendance.HolidayRepository
	requestRepo request.RequestRepository
	auditRepo   audit.AuditRepository
	cfg         config.AttendanceConfig
	now         func() time.Time
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	holidayRepo attendance.HolidayRepository,
	requestRepo request.RequestRepository,
	auditRepo audit.AuditRepository,
	cfg config.AttendanceConfig,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		HolidayRepository:    holidayRepo,
		requestRepo:          requestRepo,
		auditRepo:            auditRepo,
		cfg:                  cfg,
		now:                  func() time.Time { return time.Now().UTC() },
	}
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, userID string) (attendance.AttendanceResponse, error) {
	now := a.now()
	dayKey := workday.DayKey(now)

	existing, err := a.AttendanceRepository.GetByUserAndDate(ctx, userID, dayKey)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check today's attendance: %w", err)
	}
	if existing != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}

	// Auto-apply: an overtime request approved before the user checked in
	// lands on the record at creation.
	otApproved, err := a.requestRepo.HasApprovedOT(ctx, userID, dayKey)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check approved overtime: %w", err)
	}

	data := attendance.Attendance{
		UserID:     userID,
		Date:       dayKey,
		CheckInAt:  now,
		OTApproved: otApproved,
	}

	created, err := a.AttendanceRepository.Create(ctx, data)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return a.mapToResponse(ctx, created), nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, userID string) (attendance.AttendanceResponse, error) {
	now := a.now()

	open, err := a.AttendanceRepository.ListOpenSessions(ctx, userID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to list open sessions: %w", err)
	}
	if len(open) == 0 {
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	}

	if len(open) > 1 {
		a.emitAudit(ctx, userID, audit.TypeMultipleActiveSessions,
			fmt.Sprintf("%d open sessions, closing the most recent (%s)", len(open), open[0].Date))
	}

	// Only the most recently opened session is eligible for closing.
	sess := open[0]

	age := now.Sub(sess.CheckInAt)
	if age > a.cfg.GraceWindow() {
		a.emitAudit(ctx, userID, audit.TypeStaleOpenSession,
			fmt.Sprintf("session of %s is %s old, grace window is %s", sess.Date, age, a.cfg.GraceWindow()))
		return attendance.AttendanceResponse{}, fmt.Errorf("%w: session opened on %s", attendance.ErrStaleOpenSession, sess.Date)
	}

	if err := a.AttendanceRepository.CloseSession(ctx, sess.ID, now); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	sess.CheckOutAt = &now
	return a.mapToResponse(ctx, sess), nil
}

// ForceCheckOut implements attendance.AttendanceService. Operator override:
// no grace-window check, but the instant must be sane.
func (a *AttendanceServiceImpl) ForceCheckOut(ctx context.Context, req attendance.ForceCheckoutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	at, _ := validator.IsValidDateTime(req.CheckOutAt)
	at = at.UTC()

	att, err := a.AttendanceRepository.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if !att.Open() {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}
	if !at.After(att.CheckInAt) {
		return attendance.AttendanceResponse{}, attendance.ErrCheckoutBeforeCheckIn
	}

	if err := a.AttendanceRepository.CloseSession(ctx, att.ID, at); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	att.CheckOutAt = &at
	return a.mapToResponse(ctx, att), nil
}

// GetToday implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetToday(ctx context.Context, userID string) (attendance.AttendanceResponse, error) {
	now := a.now()
	dayKey := workday.DayKey(now)

	rec, err := a.AttendanceRepository.GetByUserAndDate(ctx, userID, dayKey)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if rec == nil {
		return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
	}

	return a.mapToResponse(ctx, *rec), nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, userID string, filter attendance.MyAttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}

	records, total, err := a.AttendanceRepository.ListByUser(ctx, userID, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, a.mapToResponse(ctx, rec))
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		Attendances: responses,
	}, nil
}

// MonthlyReport implements attendance.AttendanceService. Every civil day of
// the month up to today appears, so absences show as rows rather than holes.
func (a *AttendanceServiceImpl) MonthlyReport(ctx context.Context, userID string, month string) (attendance.MonthlyReportResponse, error) {
	first, err := time.ParseInLocation("2006-01", month, workday.Location)
	if err != nil {
		return attendance.MonthlyReportResponse{}, validator.ValidationErrors{{
			Field:   "month",
			Message: "month must be in YYYY-MM format",
		}}
	}

	now := a.now()
	from := workday.DayKey(first)
	to := workday.DayKey(first.AddDate(0, 1, -1))
	todayKey := workday.DayKey(now)
	if to > todayKey {
		to = todayKey
	}

	records, err := a.AttendanceRepository.ListByUserRange(ctx, userID, from, to)
	if err != nil {
		return attendance.MonthlyReportResponse{}, fmt.Errorf("failed to list attendance for report: %w", err)
	}
	byDate := make(map[string]attendance.Attendance, len(records))
	for _, rec := range records {
		byDate[rec.Date] = rec
	}

	holidays := a.holidaySet(ctx, first.Year())

	report := attendance.MonthlyReportResponse{UserID: userID, Month: month}
	for day := first; workday.DayKey(day) <= to; day = day.AddDate(0, 0, 1) {
		key := workday.DayKey(day)
		var rec *attendance.Attendance
		if r, ok := byDate[key]; ok {
			rec = &r
		}
		m := ComputeDay(key, rec, holidays, now)
		report.Days = append(report.Days, attendance.DailyReportRow{Date: key, Metrics: m})
		report.WorkMinutes += m.WorkMinutes
		report.LateMinutes += m.LateMinutes
		report.OvertimeMinutes += m.OvertimeMinutes
		if m.Status == attendance.StatusLate {
			report.LateDays++
		}
		if m.Status == attendance.StatusAbsent {
			report.AbsentDays++
		}
	}

	return report, nil
}

// holidaySet loads the holiday calendar for a year. Read paths must stay
// available, so lookup failures degrade to an empty set.
// ListAnomalies implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAnomalies(ctx context.Context, userID string, limit int) ([]attendance.AnomalyResponse, error) {
	entries, err := a.auditRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list anomalies: %w", err)
	}

	anomalies := make([]attendance.AnomalyResponse, 0, len(entries))
	for _, e := range entries {
		anomalies = append(anomalies, attendance.AnomalyResponse{
			Type:      string(e.Type),
			Detail:    e.Detail,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		})
	}
	return anomalies, nil
}

func (a *AttendanceServiceImpl) holidaySet(ctx context.Context, year int) map[string]bool {
	holidays, err := a.HolidayRepository.GetByYear(ctx, year)
	if err != nil {
		slog.Warn("holiday lookup failed, treating all days as regular", "year", year, "error", err)
		return map[string]bool{}
	}
	return holidays
}

// emitAudit records an anomaly without ever failing the caller.
func (a *AttendanceServiceImpl) emitAudit(ctx context.Context, userID string, t audit.EntryType, detail string) {
	err := a.auditRepo.Insert(ctx, audit.Entry{
		UserID: userID,
		Type:   t,
		Detail: detail,
	})
	if err != nil {
		slog.Warn("audit entry dropped", "type", string(t), "user_id", userID, "error", err)
	}
}

func (a *AttendanceServiceImpl) mapToResponse(ctx context.Context, att attendance.Attendance) attendance.AttendanceResponse {
	now := a.now()
	year := now.In(workday.Location).Year()
	if day, err := workday.ParseDayKey(att.Date); err == nil {
		year = day.Year()
	}

	holidays := a.holidaySet(ctx, year)
	return mapAttendanceToResponse(att, holidays, now)
}

// mapAttendanceToResponse converts an Attendance entity to AttendanceResponse
func mapAttendanceToResponse(att attendance.Attendance, holidays map[string]bool, now time.Time) attendance.AttendanceResponse {
	var checkOut *string
	if att.CheckOutAt != nil {
		s := att.CheckOutAt.Format(time.RFC3339)
		checkOut = &s
	}

	return attendance.AttendanceResponse{
		ID:              att.ID,
		UserID:          att.UserID,
		Date:            att.Date,
		CheckInAt:       att.CheckInAt.Format(time.RFC3339),
		CheckOutAt:      checkOut,
		OTApproved:      att.OTApproved,
		Metrics:         Compute(&att, holidays, now),
		PotentialOTMins: PotentialOvertimeMinutes(&att, now),
	}
}
