package request

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/PhucFanMu20Nams/attendance-tracking-sub000/internal/config"
	"github.com/PhucFanMu20Nams/attendance-tracking-sub000/internal/domain/attendance"
	"github.com/PhucFanMu20Nams/attendance-tracking-sub000/internal/domain/request"
	"github.com/PhucFanMu20Nams/attendance-tracking-sub000/internal/domain/user"
	"github.com/PhucFanMu20Nams/attendance-tracking-sub000/internal/pkg/database"
	"github.com/PhucFanMu20Nams/attendance-tracking-sub000/internal/pkg/validator"
	"github.com/PhucFanMu20Nams/attendance-tracking-sub000/internal/pkg/workday"
	"github.com/PhucFanMu20Nams/attendance-tracking-sub000/internal/repository/postgresql"
)

type RequestServiceImpl struct {
	request.RequestRepository
	attendanceRepo attendance.AttendanceRepository
	holidayRepo    attendance.HolidayRepository
	userRepo       user.UserRepository
	cfg            config.AttendanceConfig
	now            func() time.Time

	// withTx runs fn atomically: the status transition and its attendance
	// side effects commit or roll back together.
	withTx func(ctx context.Context, fn func(ctx context.Context) error) error
}

func NewRequestService(
	db *database.DB,
	requestRepo request.RequestRepository,
	attendanceRepo attendance.AttendanceRepository,
	holidayRepo attendance.HolidayRepository,
	userRepo user.UserRepository,
	cfg config.AttendanceConfig,
) request.RequestService {
	return &RequestServiceImpl{
		RequestRepository: requestRepo,
		attendanceRepo:    attendanceRepo,
		holidayRepo:       holidayRepo,
		userRepo:          userRepo,
		cfg:               cfg,
		now:               func() time.Time { return time.Now().UTC() },
		withTx: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return postgresql.WithTransaction(ctx, db, fn)
		},
	}
}

// Create implements request.RequestService. The pipeline order is binding:
// shape → time window → type rules → closed-day guard → reason → monthly cap
// → auto-merge. Earlier failures preempt later ones.
func (s *RequestServiceImpl) Create(ctx context.Context, req request.CreateRequestRequest) (request.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return request.RequestResponse{}, err
	}

	now := s.now()

	if err := s.validateTimeWindow(req, now); err != nil {
		return request.RequestResponse{}, err
	}

	if request.Type(req.Type) == request.TypeOTRequest {
		if err := s.validateOvertimeRules(req); err != nil {
			return request.RequestResponse{}, err
		}
		closed, err := s.attendanceAlreadyClosed(ctx, req.UserID, req.Date)
		if err != nil {
			return request.RequestResponse{}, err
		}
		if closed {
			return request.RequestResponse{}, request.ErrAttendanceAlreadyClosed
		}
	}

	if err := req.ValidateReason(); err != nil {
		return request.RequestResponse{}, err
	}

	// Monthly cap runs before the duplicate check so a capped user cannot
	// slip a 32nd request in through auto-merge of a new date.
	if request.Type(req.Type) == request.TypeOTRequest {
		if err := s.checkMonthlyCap(ctx, req.UserID, req.Date); err != nil {
			return request.RequestResponse{}, err
		}
	}

	entity, err := s.buildEntity(ctx, req)
	if err != nil {
		return request.RequestResponse{}, err
	}

	// Auto-extend: a second PENDING submission for the same user/type/day
	// updates the existing row in place instead of creating a duplicate. An
	// already-APPROVED request for the day does not block a fresh PENDING one.
	pending, err := s.RequestRepository.GetPendingByUserTypeDate(ctx, entity.UserID, entity.Type, entity.MergeKey())
	if err != nil {
		return request.RequestResponse{}, fmt.Errorf("failed to look up pending request: %w", err)
	}

	if pending != nil {
		entity.ID = pending.ID
		merged, err := s.RequestRepository.UpdatePending(ctx, entity)
		if err != nil {
			return request.RequestResponse{}, err
		}
		return mapRequestToResponse(merged), nil
	}

	created, err := s.RequestRepository.Create(ctx, entity)
	if err != nil {
		return request.RequestResponse{}, fmt.Errorf("failed to create request: %w", err)
	}
	return mapRequestToResponse(created), nil
}

// validateTimeWindow enforces the not-in-the-past stage. Overtime may target
// today only with a strictly-future end instant; adjustments may be backdated
// inside the configured lookback window; leave starts today or later.
func (s *RequestServiceImpl) validateTimeWindow(req request.CreateRequestRequest, now time.Time) error {
	todayKey := workday.DayKey(now)

	switch request.Type(req.Type) {
	case request.TypeOTRequest:
		if req.Date < todayKey {
			return request.ErrDateInPast
		}
		if req.Date == todayKey {
			end, _ := req.ParsedEstimatedEndTime()
			if !end.After(now) {
				return request.ErrEndTimeNotInFuture
			}
		}

	case request.TypeAdjustTime:
		if req.Date > todayKey {
			return validator.ValidationErrors{{
				Field:   "date",
				Message: "date must not be in the future",
			}}
		}
		oldest := workday.DayKey(now.Add(-s.cfg.AdjustRequestWindow()))
		if req.Date < oldest {
			return request.ErrAdjustTooOld
		}

	case request.TypeLeave:
		if req.StartDate < todayKey {
			return request.ErrDateInPast
		}
	}

	return nil
}

// validateOvertimeRules enforces the overtime-specific stage: the end instant
// must fall after the 17:31 boundary, yield at least 30 minutes, and stay
// inside the request's calendar day. Cross-midnight overtime must be filed as
// two same-day requests.
func (s *RequestServiceImpl) validateOvertimeRules(req request.CreateRequestRequest) error {
	end, _ := req.ParsedEstimatedEndTime()

	otStart, err := workday.OvertimeStart(req.Date)
	if err != nil {
		return validator.ValidationErrors{{Field: "date", Message: "date must be in YYYY-MM-DD format"}}
	}

	if !end.After(otStart) {
		return request.ErrOvertimeBeforeBoundary
	}
	if end.Sub(otStart) < request.MinOvertimeMinutes*time.Minute {
		return request.ErrOvertimeTooShort
	}
	if workday.DayKey(end) != req.Date {
		return request.ErrOvertimeCrossesMidnight
	}

	return nil
}

func (s *RequestServiceImpl) attendanceAlreadyClosed(ctx context.Context, userID, date string) (bool, error) {
	rec, err := s.attendanceRepo.GetByUserAndDate(ctx, userID, date)
	if err != nil {
		return false, fmt.Errorf("failed to check attendance for %s: %w", date, err)
	}
	return rec != nil && !rec.Open(), nil
}

func (s *RequestServiceImpl) checkMonthlyCap(ctx context.Context, userID, date string) error {
	day, err := workday.ParseDayKey(date)
	if err != nil {
		return validator.ValidationErrors{{Field: "date", Message: "date must be in YYYY-MM-DD format"}}
	}
	monthStart := workday.DayKey(time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, workday.Location))
	monthEnd := workday.DayKey(time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, workday.Location).AddDate(0, 1, -1))

	count, err := s.RequestRepository.CountPendingOTInMonth(ctx, userID, monthStart, monthEnd)
	if err != nil {
		return fmt.Errorf("failed to count pending overtime requests: %w", err)
	}
	if count >= request.MaxPendingOTPerMonth {
		return request.ErrMonthlyPendingCap
	}
	return nil
}

func (s *RequestServiceImpl) buildEntity(ctx context.Context, req request.CreateRequestRequest) (request.Request, error) {
	entity := request.Request{
		UserID: req.UserID,
		Type:   request.Type(req.Type),
		Status: request.StatusPending,
		Reason: req.Reason,
	}

	switch entity.Type {
	case request.TypeAdjustTime:
		date := req.Date
		entity.Date = &date
		checkIn, checkOut, ok := req.ParsedRequestedTimes()
		if !ok {
			return request.Request{}, validator.ValidationErrors{{
				Field:   "requested_check_in",
				Message: "requested_check_in must be an ISO8601 timestamp",
			}}
		}
		checkIn = checkIn.UTC()
		entity.RequestedCheckIn = &checkIn
		if checkOut != nil {
			out := checkOut.UTC()
			entity.RequestedCheckOut = &out
		}

	case request.TypeLeave:
		start, end, leaveType := req.StartDate, req.EndDate, req.LeaveType
		entity.StartDate = &start
		entity.EndDate = &end
		entity.LeaveType = &leaveType
		days, err := s.workingDays(ctx, start, end)
		if err != nil {
			return request.Request{}, err
		}
		entity.WorkingDays = &days

	case request.TypeOTRequest:
		date := req.Date
		entity.Date = &date
		end, _ := req.ParsedEstimatedEndTime()
		end = end.UTC()
		entity.EstimatedEndTime = &end
	}

	return entity, nil
}

// workingDays counts the weekdays in [start, end] that are not public
// holidays.
func (s *RequestServiceImpl) workingDays(ctx context.Context, start, end string) (float64, error) {
	from, err := workday.ParseDayKey(start)
	if err != nil {
		return 0, validator.ValidationErrors{{Field: "start_date", Message: "start_date must be in YYYY-MM-DD format"}}
	}
	to, err := workday.ParseDayKey(end)
	if err != nil {
		return 0, validator.ValidationErrors{{Field: "end_date", Message: "end_date must be in YYYY-MM-DD format"}}
	}

	holidays := map[string]bool{}
	for year := from.Year(); year <= to.Year(); year++ {
		set, err := s.holidayRepo.GetByYear(ctx, year)
		if err != nil {
			slog.Warn("holiday lookup failed, counting calendar weekdays", "year", year, "error", err)
			continue
		}
		for k := range set {
			holidays[k] = true
		}
	}

	var days float64
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		key := workday.DayKey(d)
		if workday.IsWeekend(key) || holidays[key] {
			continue
		}
		days++
	}
	return days, nil
}

// Approve implements request.RequestService.
func (s *RequestServiceImpl) Approve(ctx context.Context, requestID string, approverID string) (request.RequestResponse, error) {
	req, err := s.authorizeTransition(ctx, requestID, approverID)
	if err != nil {
		return request.RequestResponse{}, err
	}

	if req.Type == request.TypeOTRequest {
		target, err := s.userRepo.GetByID(ctx, req.UserID)
		if err != nil {
			return request.RequestResponse{}, fmt.Errorf("failed to get request owner: %w", err)
		}
		if !target.Active {
			return request.RequestResponse{}, user.ErrUserInactive
		}
	}

	// Compare-and-swap on status: of two concurrent approvals exactly one
	// lands, the other sees ErrAlreadyProcessed. Side effects run only for
	// the winner, inside the same transaction.
	var updated request.Request
	err = s.withTx(ctx, func(txCtx context.Context) error {
		var txErr error
		updated, txErr = s.RequestRepository.UpdateStatusIfPending(txCtx, requestID, request.StatusApproved, approverID, s.now())
		if txErr != nil {
			return txErr
		}
		return s.applyApprovalSideEffects(txCtx, updated)
	})
	if err != nil {
		return request.RequestResponse{}, err
	}

	return mapRequestToResponse(updated), nil
}

// Reject implements request.RequestService.
func (s *RequestServiceImpl) Reject(ctx context.Context, requestID string, approverID string) (request.RequestResponse, error) {
	if _, err := s.authorizeTransition(ctx, requestID, approverID); err != nil {
		return request.RequestResponse{}, err
	}

	updated, err := s.RequestRepository.UpdateStatusIfPending(ctx, requestID, request.StatusRejected, approverID, s.now())
	if err != nil {
		return request.RequestResponse{}, err
	}

	return mapRequestToResponse(updated), nil
}

func (s *RequestServiceImpl) authorizeTransition(ctx context.Context, requestID, approverID string) (request.Request, error) {
	if !validator.IsValidUUID(requestID) {
		return request.Request{}, request.ErrInvalidID
	}

	req, err := s.RequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return request.Request{}, err
	}

	// The self-approval block is independent of role: even an admin may not
	// arbitrate their own request.
	if req.UserID == approverID {
		return request.Request{}, request.ErrSelfApproval
	}

	approver, err := s.userRepo.GetByID(ctx, approverID)
	if err != nil {
		return request.Request{}, fmt.Errorf("failed to get approver: %w", err)
	}
	owner, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return request.Request{}, fmt.Errorf("failed to get request owner: %w", err)
	}

	if !approver.CanApproveFor(owner) {
		return request.Request{}, user.ErrApprovalNotAllowed
	}

	return req, nil
}

// applyApprovalSideEffects reconciles an approved request onto the attendance
// record. Overtime flips ot_approved when the day's record already exists
// (otherwise check-in auto-applies it later). Adjustment writes the requested
// instants without touching a previously granted overtime approval.
func (s *RequestServiceImpl) applyApprovalSideEffects(ctx context.Context, req request.Request) error {
	switch req.Type {
	case request.TypeOTRequest:
		if req.Date == nil {
			return nil
		}
		applied, err := s.attendanceRepo.SetOTApproved(ctx, req.UserID, *req.Date)
		if err != nil {
			return fmt.Errorf("failed to apply overtime approval: %w", err)
		}
		if !applied {
			slog.Info("overtime approved before check-in, flag deferred to check-in",
				"user_id", req.UserID, "date", *req.Date)
		}

	case request.TypeAdjustTime:
		if req.Date == nil || req.RequestedCheckIn == nil {
			return nil
		}
		err := s.attendanceRepo.ReconcileTimes(ctx, req.UserID, *req.Date, *req.RequestedCheckIn, req.RequestedCheckOut)
		if err != nil {
			return fmt.Errorf("failed to reconcile adjusted times: %w", err)
		}
	}

	return nil
}

// Cancel implements request.RequestService. Only the owner may cancel and
// only while PENDING; ownership is deliberately indistinguishable from
// non-existence in the result.
func (s *RequestServiceImpl) Cancel(ctx context.Context, requestID string, ownerID string) error {
	if !validator.IsValidUUID(requestID) {
		return request.ErrInvalidID
	}
	return s.RequestRepository.DeletePendingByOwner(ctx, requestID, ownerID)
}

// ListMy implements request.RequestService.
func (s *RequestServiceImpl) ListMy(ctx context.Context, userID string, filter request.ListFilter) (request.ListRequestsResponse, error) {
	if err := filter.Validate(); err != nil {
		return request.ListRequestsResponse{}, err
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}

	requests, total, err := s.RequestRepository.ListByUser(ctx, userID, filter)
	if err != nil {
		return request.ListRequestsResponse{}, fmt.Errorf("failed to list requests: %w", err)
	}

	return request.ListRequestsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Requests:   mapRequests(requests),
	}, nil
}

// ListPending implements request.RequestService. Admins see every pending
// request, managers only their own team's.
func (s *RequestServiceImpl) ListPending(ctx context.Context, approverID string, page, limit int) (request.ListRequestsResponse, error) {
	approver, err := s.userRepo.GetByID(ctx, approverID)
	if err != nil {
		return request.ListRequestsResponse{}, fmt.Errorf("failed to get approver: %w", err)
	}

	filter := request.PendingFilter{Page: page, Limit: limit}
	switch approver.Role {
	case user.RoleAdmin:
		// unscoped
	case user.RoleManager:
		if approver.TeamID == nil {
			return request.ListRequestsResponse{}, user.ErrApprovalNotAllowed
		}
		filter.TeamID = approver.TeamID
	default:
		return request.ListRequestsResponse{}, user.ErrApprovalNotAllowed
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}

	requests, total, err := s.RequestRepository.ListPending(ctx, filter)
	if err != nil {
		return request.ListRequestsResponse{}, fmt.Errorf("failed to list pending requests: %w", err)
	}

	return request.ListRequestsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Requests:   mapRequests(requests),
	}, nil
}

func mapRequests(requests []request.Request) []request.RequestResponse {
	responses := make([]request.RequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, mapRequestToResponse(r))
	}
	return responses
}

func mapRequestToResponse(r request.Request) request.RequestResponse {
	return request.RequestResponse{
		ID:                r.ID,
		UserID:            r.UserID,
		Type:              r.Type,
		Status:            r.Status,
		Reason:            r.Reason,
		Date:              r.Date,
		RequestedCheckIn:  timePtrToString(r.RequestedCheckIn),
		RequestedCheckOut: timePtrToString(r.RequestedCheckOut),
		StartDate:         r.StartDate,
		EndDate:           r.EndDate,
		LeaveType:         r.LeaveType,
		WorkingDays:       r.WorkingDays,
		EstimatedEndTime:  timePtrToString(r.EstimatedEndTime),
		ApprovedBy:        r.ApprovedBy,
		CreatedAt:         r.CreatedAt.Format(time.RFC3339),
	}
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(time.RFC3339)
	return &formatted
}
