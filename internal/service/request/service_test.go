package request

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PhucFanMu20Nams/attendance-tracking-sub000/internal/config"
	"github.com/PhucFanMu20Nams/attendance-tracking-sub000/internal/domain/attendance"
	"github.com/PhucFanMu20Nams/attendance-tracking-sub000/internal/domain/request"
	"github.com/PhucFanMu20Nams/attendance-tracking-sub000/internal/domain/user"
	"github.com/PhucFanMu20Nams/attendance-tracking-sub000/internal/pkg/validator"
	"github.com/PhucFanMu20Nams/attendance-tracking-sub000/internal/pkg/workday"
	attendancesvc "github.com/PhucFanMu20Nams/attendance-tracking-sub000/internal/service/attendance"
)

// 2026-03-09 is a Monday.
const (
	monday  = "2026-03-09"
	tuesday = "2026-03-10"
)

const (
	employeeID  = "3d1a1c3e-76aa-4c2f-9c17-111111111111"
	colleagueID = "3d1a1c3e-76aa-4c2f-9c17-222222222222"
	managerID   = "3d1a1c3e-76aa-4c2f-9c17-333333333333"
	adminID     = "3d1a1c3e-76aa-4c2f-9c17-444444444444"
	outsiderID  = "3d1a1c3e-76aa-4c2f-9c17-555555555555"
)

func at(t *testing.T, day string, hour, minute int) time.Time {
	t.Helper()
	d, err := workday.ParseDayKey(day)
	if err != nil {
		t.Fatalf("bad day key %q: %v", day, err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, workday.Location)
}

type fakeRequestRepo struct {
	requests []request.Request
	nextID   int
}

func (f *fakeRequestRepo) Create(_ context.Context, req request.Request) (request.Request, error) {
	f.nextID++
	req.ID = uuid.NewString()
	req.CreatedAt = time.Now()
	f.requests = append(f.requests, req)
	return req, nil
}

func (f *fakeRequestRepo) GetByID(_ context.Context, id string) (request.Request, error) {
	for _, r := range f.requests {
		if r.ID == id {
			return r, nil
		}
	}
	return request.Request{}, request.ErrRequestNotFound
}

func (f *fakeRequestRepo) GetPendingByUserTypeDate(_ context.Context, userID string, t request.Type, date string) (*request.Request, error) {
	for _, r := range f.requests {
		if r.UserID == userID && r.Type == t && r.Status == request.StatusPending && r.MergeKey() == date {
			req := r
			return &req, nil
		}
	}
	return nil, nil
}

func (f *fakeRequestRepo) UpdatePending(_ context.Context, req request.Request) (request.Request, error) {
	for i, r := range f.requests {
		if r.ID == req.ID && r.Status == request.StatusPending {
			req.CreatedAt = r.CreatedAt
			req.Status = request.StatusPending
			f.requests[i] = req
			return req, nil
		}
	}
	return request.Request{}, request.ErrRequestNotFound
}

func (f *fakeRequestRepo) UpdateStatusIfPending(_ context.Context, id string, status request.Status, approverID string, atTime time.Time) (request.Request, error) {
	for i, r := range f.requests {
		if r.ID != id {
			continue
		}
		if r.Status != request.StatusPending {
			return request.Request{}, request.ErrAlreadyProcessed
		}
		f.requests[i].Status = status
		f.requests[i].ApprovedBy = &approverID
		f.requests[i].ApprovedAt = &atTime
		return f.requests[i], nil
	}
	return request.Request{}, request.ErrRequestNotFound
}

func (f *fakeRequestRepo) CountPendingOTInMonth(_ context.Context, userID, monthStart, monthEnd string) (int, error) {
	count := 0
	for _, r := range f.requests {
		if r.UserID == userID && r.Type == request.TypeOTRequest && r.Status == request.StatusPending &&
			r.Date != nil && *r.Date >= monthStart && *r.Date <= monthEnd {
			count++
		}
	}
	return count, nil
}

func (f *fakeRequestRepo) HasApprovedOT(_ context.Context, userID, date string) (bool, error) {
	for _, r := range f.requests {
		if r.UserID == userID && r.Type == request.TypeOTRequest && r.Status == request.StatusApproved &&
			r.Date != nil && *r.Date == date {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRequestRepo) DeletePendingByOwner(_ context.Context, id, userID string) error {
	for i, r := range f.requests {
		if r.ID == id && r.UserID == userID && r.Status == request.StatusPending {
			f.requests = append(f.requests[:i], f.requests[i+1:]...)
			return nil
		}
	}
	return request.ErrRequestNotFound
}

func (f *fakeRequestRepo) ListByUser(_ context.Context, userID string, filter request.ListFilter) ([]request.Request, int64, error) {
	var out []request.Request
	for _, r := range f.requests {
		if r.UserID != userID {
			continue
		}
		if filter.Type != nil && string(r.Type) != *filter.Type {
			continue
		}
		if filter.Status != nil && string(r.Status) != *filter.Status {
			continue
		}
		out = append(out, r)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRequestRepo) ListPending(_ context.Context, filter request.PendingFilter) ([]request.Request, int64, error) {
	var out []request.Request
	for _, r := range f.requests {
		if r.Status != request.StatusPending {
			continue
		}
		out = append(out, r)
	}
	return out, int64(len(out)), nil
}

// fakeAttendanceRepo covers the lookups and reconciliation writes the
// workflow engine performs.
type fakeAttendanceRepo struct {
	attendance.AttendanceRepository
	records    map[string]*attendance.Attendance // keyed user|date
	reconciled []string
}

func key(userID, date string) string { return userID + "|" + date }

func (f *fakeAttendanceRepo) GetByUserAndDate(_ context.Context, userID, date string) (*attendance.Attendance, error) {
	if rec, ok := f.records[key(userID, date)]; ok {
		r := *rec
		return &r, nil
	}
	return nil, nil
}

func (f *fakeAttendanceRepo) SetOTApproved(_ context.Context, userID, date string) (bool, error) {
	rec, ok := f.records[key(userID, date)]
	if !ok {
		return false, nil
	}
	rec.OTApproved = true
	return true, nil
}

func (f *fakeAttendanceRepo) ReconcileTimes(_ context.Context, userID, date string, checkIn time.Time, checkOut *time.Time) error {
	f.reconciled = append(f.reconciled, key(userID, date))
	rec, ok := f.records[key(userID, date)]
	if !ok {
		f.records[key(userID, date)] = &attendance.Attendance{
			UserID: userID, Date: date, CheckInAt: checkIn, CheckOutAt: checkOut,
		}
		return nil
	}
	rec.CheckInAt = checkIn
	rec.CheckOutAt = checkOut
	return nil
}

type fakeHolidayRepo struct {
	days map[string]bool
}

func (f *fakeHolidayRepo) GetByYear(context.Context, int) (map[string]bool, error) {
	if f.days == nil {
		return map[string]bool{}, nil
	}
	return f.days, nil
}

type fakeUserRepo struct {
	users map[string]user.User
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

type fixture struct {
	svc      *RequestServiceImpl
	repo     *fakeRequestRepo
	attRepo  *fakeAttendanceRepo
	userRepo *fakeUserRepo
	holiday  *fakeHolidayRepo
}

func newFixture(now time.Time) *fixture {
	teamA := "team-a"
	f := &fixture{
		repo:    &fakeRequestRepo{},
		attRepo: &fakeAttendanceRepo{records: map[string]*attendance.Attendance{}},
		holiday: &fakeHolidayRepo{},
		userRepo: &fakeUserRepo{users: map[string]user.User{
			employeeID:  {ID: employeeID, Role: user.RoleEmployee, TeamID: &teamA, Active: true},
			colleagueID: {ID: colleagueID, Role: user.RoleEmployee, TeamID: &teamA, Active: true},
			managerID:   {ID: managerID, Role: user.RoleManager, TeamID: &teamA, Active: true},
			adminID:     {ID: adminID, Role: user.RoleAdmin, Active: true},
			outsiderID:  {ID: outsiderID, Role: user.RoleManager, TeamID: strPtr("team-b"), Active: true},
		}},
	}
	f.svc = &RequestServiceImpl{
		RequestRepository: f.repo,
		attendanceRepo:    f.attRepo,
		holidayRepo:       f.holiday,
		userRepo:          f.userRepo,
		cfg: config.AttendanceConfig{
			CheckoutGraceHours:   config.DefaultCheckoutGraceHours,
			AdjustRequestMaxDays: config.DefaultAdjustRequestMaxDays,
		},
		now: func() time.Time { return now },
		withTx: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		},
	}
	return f
}

func strPtr(s string) *string { return &s }

func otRequest(date string, end time.Time) request.CreateRequestRequest {
	return request.CreateRequestRequest{
		UserID:           employeeID,
		Type:             string(request.TypeOTRequest),
		Reason:           "release deployment",
		Date:             date,
		EstimatedEndTime: end.Format(time.RFC3339),
	}
}

func TestCreateOvertimeRequest(t *testing.T) {
	ctx := context.Background()
	now := at(t, monday, 10, 0)

	t.Run("valid same-day request", func(t *testing.T) {
		f := newFixture(now)
		resp, err := f.svc.Create(ctx, otRequest(monday, at(t, monday, 19, 0)))
		require.NoError(t, err)
		assert.Equal(t, request.StatusPending, resp.Status)
		assert.Equal(t, request.TypeOTRequest, resp.Type)
		require.NotNil(t, resp.Date)
		assert.Equal(t, monday, *resp.Date)
	})

	t.Run("past date rejected", func(t *testing.T) {
		f := newFixture(now)
		_, err := f.svc.Create(ctx, otRequest("2026-03-06", at(t, "2026-03-06", 19, 0)))
		assert.ErrorIs(t, err, request.ErrDateInPast)
	})

	t.Run("same-day end instant already behind now", func(t *testing.T) {
		f := newFixture(at(t, monday, 20, 0))
		_, err := f.svc.Create(ctx, otRequest(monday, at(t, monday, 19, 0)))
		assert.ErrorIs(t, err, request.ErrEndTimeNotInFuture)
	})

	t.Run("end before the overtime boundary", func(t *testing.T) {
		f := newFixture(now)
		_, err := f.svc.Create(ctx, otRequest(monday, at(t, monday, 17, 0)))
		assert.ErrorIs(t, err, request.ErrOvertimeBeforeBoundary)
	})

	t.Run("end exactly at the boundary", func(t *testing.T) {
		f := newFixture(now)
		_, err := f.svc.Create(ctx, otRequest(monday, at(t, monday, 17, 31)))
		assert.ErrorIs(t, err, request.ErrOvertimeBeforeBoundary)
	})

	t.Run("nineteen minutes is too short", func(t *testing.T) {
		f := newFixture(now)
		_, err := f.svc.Create(ctx, otRequest(monday, at(t, monday, 17, 50)))
		assert.ErrorIs(t, err, request.ErrOvertimeTooShort)
	})

	t.Run("thirty minutes is accepted", func(t *testing.T) {
		f := newFixture(now)
		_, err := f.svc.Create(ctx, otRequest(monday, at(t, monday, 18, 1)))
		assert.NoError(t, err)
	})

	t.Run("crossing midnight rejected", func(t *testing.T) {
		f := newFixture(now)
		_, err := f.svc.Create(ctx, otRequest(monday, at(t, tuesday, 1, 0)))
		assert.ErrorIs(t, err, request.ErrOvertimeCrossesMidnight)
	})

	t.Run("closed attendance blocks overtime", func(t *testing.T) {
		f := newFixture(now)
		out := at(t, monday, 9, 30)
		f.attRepo.records[key(employeeID, monday)] = &attendance.Attendance{
			UserID: employeeID, Date: monday,
			CheckInAt: at(t, monday, 8, 30), CheckOutAt: &out,
		}
		_, err := f.svc.Create(ctx, otRequest(monday, at(t, monday, 19, 0)))
		assert.ErrorIs(t, err, request.ErrAttendanceAlreadyClosed)
	})

	t.Run("open attendance does not block overtime", func(t *testing.T) {
		f := newFixture(now)
		f.attRepo.records[key(employeeID, monday)] = &attendance.Attendance{
			UserID: employeeID, Date: monday, CheckInAt: at(t, monday, 8, 30),
		}
		_, err := f.svc.Create(ctx, otRequest(monday, at(t, monday, 19, 0)))
		assert.NoError(t, err)
	})

	t.Run("blank reason rejected after the time checks", func(t *testing.T) {
		f := newFixture(now)
		req := otRequest(monday, at(t, monday, 19, 0))
		req.Reason = "   "
		_, err := f.svc.Create(ctx, req)
		require.Error(t, err)
		assert.NotErrorIs(t, err, request.ErrDateInPast)
	})

	t.Run("time checks run before the reason check", func(t *testing.T) {
		f := newFixture(now)
		req := otRequest("2026-03-06", at(t, "2026-03-06", 19, 0))
		req.Reason = ""
		_, err := f.svc.Create(ctx, req)
		assert.ErrorIs(t, err, request.ErrDateInPast)
	})

	t.Run("monthly pending cap", func(t *testing.T) {
		f := newFixture(now)
		for day := 1; day <= request.MaxPendingOTPerMonth; day++ {
			date := fmt.Sprintf("2026-03-%02d", day)
			f.repo.requests = append(f.repo.requests, request.Request{
				ID: fmt.Sprintf("seed-%d", day), UserID: employeeID,
				Type: request.TypeOTRequest, Status: request.StatusPending,
				Date: strPtr(date),
			})
		}
		_, err := f.svc.Create(ctx, otRequest("2026-03-20", at(t, "2026-03-20", 19, 0)))
		assert.ErrorIs(t, err, request.ErrMonthlyPendingCap)
	})
}

func TestCreateAutoMerge(t *testing.T) {
	ctx := context.Background()
	now := at(t, monday, 10, 0)

	t.Run("second pending submission updates in place", func(t *testing.T) {
		f := newFixture(now)
		first, err := f.svc.Create(ctx, otRequest(monday, at(t, monday, 19, 0)))
		require.NoError(t, err)

		second, err := f.svc.Create(ctx, otRequest(monday, at(t, monday, 21, 0)))
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID, "merged onto the existing pending request")
		assert.Len(t, f.repo.requests, 1)
		require.NotNil(t, second.EstimatedEndTime)
	})

	t.Run("approved request does not block a new pending one", func(t *testing.T) {
		f := newFixture(now)
		f.repo.requests = append(f.repo.requests, request.Request{
			ID: "req-approved", UserID: employeeID,
			Type: request.TypeOTRequest, Status: request.StatusApproved,
			Date: strPtr(monday),
		})

		resp, err := f.svc.Create(ctx, otRequest(monday, at(t, monday, 19, 0)))
		require.NoError(t, err)
		assert.NotEqual(t, "req-approved", resp.ID)
		assert.Len(t, f.repo.requests, 2)
	})

	t.Run("different days do not merge", func(t *testing.T) {
		f := newFixture(now)
		_, err := f.svc.Create(ctx, otRequest(monday, at(t, monday, 19, 0)))
		require.NoError(t, err)
		_, err = f.svc.Create(ctx, otRequest(tuesday, at(t, tuesday, 19, 0)))
		require.NoError(t, err)
		assert.Len(t, f.repo.requests, 2)
	})
}

func TestCreateAdjustRequest(t *testing.T) {
	ctx := context.Background()
	now := at(t, monday, 10, 0)

	adjust := func(date string) request.CreateRequestRequest {
		return request.CreateRequestRequest{
			UserID:           employeeID,
			Type:             string(request.TypeAdjustTime),
			Reason:           "forgot to check out",
			Date:             date,
			RequestedCheckIn: at(t, date, 8, 30).Format(time.RFC3339),
		}
	}

	t.Run("backdated inside the window", func(t *testing.T) {
		f := newFixture(now)
		resp, err := f.svc.Create(ctx, adjust("2026-03-05"))
		require.NoError(t, err)
		require.NotNil(t, resp.RequestedCheckIn)
	})

	t.Run("older than the lookback window", func(t *testing.T) {
		f := newFixture(now)
		_, err := f.svc.Create(ctx, adjust("2026-03-01"))
		assert.ErrorIs(t, err, request.ErrAdjustTooOld)
	})

	t.Run("future date rejected", func(t *testing.T) {
		f := newFixture(now)
		_, err := f.svc.Create(ctx, adjust(tuesday))
		assert.Error(t, err)
	})

	t.Run("requested checkout must be after requested check-in", func(t *testing.T) {
		f := newFixture(now)
		req := adjust("2026-03-05")
		req.RequestedCheckOut = at(t, "2026-03-05", 8, 0).Format(time.RFC3339)

		_, err := f.svc.Create(ctx, req)
		var errs validator.ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.Equal(t, "requested_check_out", errs[0].Field)
	})

	t.Run("requested checkout equal to check-in rejected", func(t *testing.T) {
		f := newFixture(now)
		req := adjust("2026-03-05")
		req.RequestedCheckOut = req.RequestedCheckIn

		_, err := f.svc.Create(ctx, req)
		var errs validator.ValidationErrors
		assert.ErrorAs(t, err, &errs)
	})
}

func TestCreateLeaveRequest(t *testing.T) {
	ctx := context.Background()
	now := at(t, monday, 10, 0)

	leave := func(start, end string) request.CreateRequestRequest {
		return request.CreateRequestRequest{
			UserID:    employeeID,
			Type:      string(request.TypeLeave),
			Reason:    "family matters",
			StartDate: start,
			EndDate:   end,
			LeaveType: "ANNUAL",
		}
	}

	t.Run("working days exclude the weekend", func(t *testing.T) {
		f := newFixture(now)
		// Mon 2026-03-09 through Mon 2026-03-16 spans one weekend.
		resp, err := f.svc.Create(ctx, leave(monday, "2026-03-16"))
		require.NoError(t, err)
		require.NotNil(t, resp.WorkingDays)
		assert.Equal(t, 6.0, *resp.WorkingDays)
	})

	t.Run("working days exclude holidays", func(t *testing.T) {
		f := newFixture(now)
		f.holiday.days = map[string]bool{"2026-03-11": true}
		resp, err := f.svc.Create(ctx, leave(monday, "2026-03-13"))
		require.NoError(t, err)
		require.NotNil(t, resp.WorkingDays)
		assert.Equal(t, 4.0, *resp.WorkingDays)
	})

	t.Run("start in the past rejected", func(t *testing.T) {
		f := newFixture(now)
		_, err := f.svc.Create(ctx, leave("2026-03-06", tuesday))
		assert.ErrorIs(t, err, request.ErrDateInPast)
	})
}

func TestApprove(t *testing.T) {
	ctx := context.Background()
	now := at(t, monday, 10, 0)

	seedOT := func(f *fixture) string {
		resp, err := f.svc.Create(ctx, otRequest(monday, at(t, monday, 19, 0)))
		require.NoError(t, err)
		return resp.ID
	}

	t.Run("manager approves a team member's overtime", func(t *testing.T) {
		f := newFixture(now)
		f.attRepo.records[key(employeeID, monday)] = &attendance.Attendance{
			UserID: employeeID, Date: monday, CheckInAt: at(t, monday, 8, 30),
		}
		id := seedOT(f)

		resp, err := f.svc.Approve(ctx, id, managerID)
		require.NoError(t, err)
		assert.Equal(t, request.StatusApproved, resp.Status)
		require.NotNil(t, resp.ApprovedBy)
		assert.Equal(t, managerID, *resp.ApprovedBy)
		assert.True(t, f.attRepo.records[key(employeeID, monday)].OTApproved, "flag reconciled onto the record")
	})

	t.Run("approval after checkout grants overtime retroactively", func(t *testing.T) {
		f := newFixture(now)
		id := seedOT(f)

		// The day closed at 19:00 before anyone acted on the request.
		out := at(t, monday, 19, 0)
		f.attRepo.records[key(employeeID, monday)] = &attendance.Attendance{
			UserID:     employeeID,
			Date:       monday,
			CheckInAt:  at(t, monday, 8, 30),
			CheckOutAt: &out,
		}

		_, err := f.svc.Approve(ctx, id, managerID)
		require.NoError(t, err)

		rec := f.attRepo.records[key(employeeID, monday)]
		require.True(t, rec.OTApproved, "flag lands on the already-closed record")

		metrics := attendancesvc.Compute(rec, map[string]bool{}, at(t, tuesday, 9, 0))
		assert.Equal(t, 89, metrics.OvertimeMinutes, "17:31 to 19:00")
		assert.Equal(t, 570, metrics.WorkMinutes)
	})

	t.Run("approval before check-in defers the flag", func(t *testing.T) {
		f := newFixture(now)
		id := seedOT(f)

		_, err := f.svc.Approve(ctx, id, managerID)
		require.NoError(t, err)

		applied, err := f.repo.HasApprovedOT(ctx, employeeID, monday)
		require.NoError(t, err)
		assert.True(t, applied, "check-in will pick the approval up")
	})

	t.Run("self approval blocked regardless of role", func(t *testing.T) {
		f := newFixture(now)
		resp, err := f.svc.Create(ctx, request.CreateRequestRequest{
			UserID:           adminID,
			Type:             string(request.TypeOTRequest),
			Reason:           "quarter close",
			Date:             monday,
			EstimatedEndTime: at(t, monday, 19, 0).Format(time.RFC3339),
		})
		require.NoError(t, err)

		_, err = f.svc.Approve(ctx, resp.ID, adminID)
		assert.ErrorIs(t, err, request.ErrSelfApproval)
	})

	t.Run("employee may not approve", func(t *testing.T) {
		f := newFixture(now)
		id := seedOT(f)
		_, err := f.svc.Approve(ctx, id, colleagueID)
		assert.ErrorIs(t, err, user.ErrApprovalNotAllowed)
	})

	t.Run("manager of another team may not approve", func(t *testing.T) {
		f := newFixture(now)
		id := seedOT(f)
		_, err := f.svc.Approve(ctx, id, outsiderID)
		assert.ErrorIs(t, err, user.ErrApprovalNotAllowed)
	})

	t.Run("second transition loses the race", func(t *testing.T) {
		f := newFixture(now)
		id := seedOT(f)

		_, err := f.svc.Approve(ctx, id, managerID)
		require.NoError(t, err)

		_, err = f.svc.Approve(ctx, id, adminID)
		assert.ErrorIs(t, err, request.ErrAlreadyProcessed)
		_, err = f.svc.Reject(ctx, id, adminID)
		assert.ErrorIs(t, err, request.ErrAlreadyProcessed)
	})

	t.Run("overtime for a deactivated user rejected", func(t *testing.T) {
		f := newFixture(now)
		id := seedOT(f)
		u := f.userRepo.users[employeeID]
		u.Active = false
		f.userRepo.users[employeeID] = u

		_, err := f.svc.Approve(ctx, id, managerID)
		assert.ErrorIs(t, err, user.ErrUserInactive)
	})

	t.Run("malformed id", func(t *testing.T) {
		f := newFixture(now)
		_, err := f.svc.Approve(ctx, "not-a-uuid", managerID)
		assert.ErrorIs(t, err, request.ErrInvalidID)
	})

	t.Run("unknown id", func(t *testing.T) {
		f := newFixture(now)
		_, err := f.svc.Approve(ctx, "5f8b7f64-9a1e-4f7a-8d43-0b0f6b2a9c11", managerID)
		assert.ErrorIs(t, err, request.ErrRequestNotFound)
	})
}

func TestApproveAdjustReconciles(t *testing.T) {
	ctx := context.Background()
	now := at(t, monday, 10, 0)
	f := newFixture(now)

	checkIn := at(t, "2026-03-05", 8, 30)
	checkOut := at(t, "2026-03-05", 17, 30)
	resp, err := f.svc.Create(ctx, request.CreateRequestRequest{
		UserID:            employeeID,
		Type:              string(request.TypeAdjustTime),
		Reason:            "badge reader was down",
		Date:              "2026-03-05",
		RequestedCheckIn:  checkIn.Format(time.RFC3339),
		RequestedCheckOut: checkOut.Format(time.RFC3339),
	})
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, resp.ID, managerID)
	require.NoError(t, err)

	require.Contains(t, f.attRepo.reconciled, key(employeeID, "2026-03-05"))
	rec := f.attRepo.records[key(employeeID, "2026-03-05")]
	require.NotNil(t, rec, "missing record created by reconciliation")
	assert.True(t, rec.CheckInAt.Equal(checkIn))
	require.NotNil(t, rec.CheckOutAt)
	assert.True(t, rec.CheckOutAt.Equal(checkOut))
	assert.False(t, rec.OTApproved, "reconciliation leaves the overtime flag alone")
}

func TestReject(t *testing.T) {
	ctx := context.Background()
	now := at(t, monday, 10, 0)
	f := newFixture(now)

	resp, err := f.svc.Create(ctx, otRequest(monday, at(t, monday, 19, 0)))
	require.NoError(t, err)

	rejected, err := f.svc.Reject(ctx, resp.ID, managerID)
	require.NoError(t, err)
	assert.Equal(t, request.StatusRejected, rejected.Status)

	// Rejection has no attendance side effects.
	assert.Empty(t, f.attRepo.reconciled)
	applied, _ := f.repo.HasApprovedOT(ctx, employeeID, monday)
	assert.False(t, applied)
}

func TestCancel(t *testing.T) {
	ctx := context.Background()
	now := at(t, monday, 10, 0)

	t.Run("owner cancels a pending request", func(t *testing.T) {
		f := newFixture(now)
		resp, err := f.svc.Create(ctx, otRequest(monday, at(t, monday, 19, 0)))
		require.NoError(t, err)

		require.NoError(t, f.svc.Cancel(ctx, resp.ID, employeeID))
		assert.Empty(t, f.repo.requests)
	})

	t.Run("someone else's request reads as not found", func(t *testing.T) {
		f := newFixture(now)
		resp, err := f.svc.Create(ctx, otRequest(monday, at(t, monday, 19, 0)))
		require.NoError(t, err)

		err = f.svc.Cancel(ctx, resp.ID, colleagueID)
		assert.ErrorIs(t, err, request.ErrRequestNotFound)
	})

	t.Run("processed request cannot be cancelled", func(t *testing.T) {
		f := newFixture(now)
		resp, err := f.svc.Create(ctx, otRequest(monday, at(t, monday, 19, 0)))
		require.NoError(t, err)
		_, err = f.svc.Approve(ctx, resp.ID, managerID)
		require.NoError(t, err)

		err = f.svc.Cancel(ctx, resp.ID, employeeID)
		assert.ErrorIs(t, err, request.ErrRequestNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		f := newFixture(now)
		err := f.svc.Cancel(ctx, "42", employeeID)
		assert.ErrorIs(t, err, request.ErrInvalidID)
	})
}

func TestListPending(t *testing.T) {
	ctx := context.Background()
	now := at(t, monday, 10, 0)

	t.Run("employee has no inbox", func(t *testing.T) {
		f := newFixture(now)
		_, err := f.svc.ListPending(ctx, employeeID, 1, 20)
		assert.ErrorIs(t, err, user.ErrApprovalNotAllowed)
	})

	t.Run("admin sees pending requests", func(t *testing.T) {
		f := newFixture(now)
		_, err := f.svc.Create(ctx, otRequest(monday, at(t, monday, 19, 0)))
		require.NoError(t, err)

		resp, err := f.svc.ListPending(ctx, adminID, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.TotalCount)
		assert.Equal(t, 1, resp.Page)
		assert.Equal(t, 20, resp.Limit)
	})

	t.Run("manager without a team has no inbox", func(t *testing.T) {
		f := newFixture(now)
		u := f.userRepo.users[managerID]
		u.TeamID = nil
		f.userRepo.users[managerID] = u

		_, err := f.svc.ListPending(ctx, managerID, 1, 20)
		assert.ErrorIs(t, err, user.ErrApprovalNotAllowed)
	})
}
