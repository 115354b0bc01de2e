package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/PhucFanMu20Nams/attendance-tracking-sub000/internal/domain/request"
	"github.com/PhucFanMu20Nams/attendance-tracking-sub000/internal/pkg/database"
)

type requestRepository struct {
	db *database.DB
}

const requestColumns = `id, user_id, type, status, reason,
	   date, requested_check_in, requested_check_out,
	   start_date, end_date, leave_type, working_days,
	   estimated_end_time, approved_by, approved_at,
	   created_at, updated_at`

func scanRequest(row pgx.Row) (request.Request, error) {
	var r request.Request
	err := row.Scan(
		&r.ID, &r.UserID, &r.Type, &r.Status, &r.Reason,
		&r.Date, &r.RequestedCheckIn, &r.RequestedCheckOut,
		&r.StartDate, &r.EndDate, &r.LeaveType, &r.WorkingDays,
		&r.EstimatedEndTime, &r.ApprovedBy, &r.ApprovedAt,
		&r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

// Create implements request.RequestRepository.
func (r *requestRepository) Create(ctx context.Context, req request.Request) (request.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO requests (
			user_id, type, status, reason,
			date, requested_check_in, requested_check_out,
			start_date, end_date, leave_type, working_days,
			estimated_end_time
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		req.UserID,
		req.Type,
		req.Status,
		req.Reason,
		req.Date,
		req.RequestedCheckIn,
		req.RequestedCheckOut,
		req.StartDate,
		req.EndDate,
		req.LeaveType,
		req.WorkingDays,
		req.EstimatedEndTime,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)

	if err != nil {
		return request.Request{}, fmt.Errorf("failed to create request: %w", err)
	}

	return req, nil
}

// GetByID implements request.RequestRepository.
func (r *requestRepository) GetByID(ctx context.Context, id string) (request.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = $1`

	req, err := scanRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return request.Request{}, request.ErrRequestNotFound
		}
		return request.Request{}, fmt.Errorf("failed to get request: %w", err)
	}

	return req, nil
}

// GetPendingByUserTypeDate implements request.RequestRepository. The merge key
// is the target date for day-scoped requests and start_date for leave.
func (r *requestRepository) GetPendingByUserTypeDate(ctx context.Context, userID string, t request.Type, date string) (*request.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + requestColumns + `
		FROM requests
		WHERE user_id = $1
		  AND type = $2
		  AND status = 'PENDING'
		  AND COALESCE(date, start_date) = $3
		LIMIT 1
	`

	req, err := scanRequest(q.QueryRow(ctx, query, userID, t, date))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get pending request: %w", err)
	}

	return &req, nil
}

// UpdatePending implements request.RequestRepository.
func (r *requestRepository) UpdatePending(ctx context.Context, req request.Request) (request.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE requests
		SET reason = $2,
		    date = $3,
		    requested_check_in = $4,
		    requested_check_out = $5,
		    start_date = $6,
		    end_date = $7,
		    leave_type = $8,
		    working_days = $9,
		    estimated_end_time = $10,
		    updated_at = NOW()
		WHERE id = $1
		  AND status = 'PENDING'
		RETURNING ` + requestColumns

	updated, err := scanRequest(q.QueryRow(ctx, query,
		req.ID,
		req.Reason,
		req.Date,
		req.RequestedCheckIn,
		req.RequestedCheckOut,
		req.StartDate,
		req.EndDate,
		req.LeaveType,
		req.WorkingDays,
		req.EstimatedEndTime,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return request.Request{}, request.ErrRequestNotFound
		}
		return request.Request{}, fmt.Errorf("failed to update pending request: %w", err)
	}

	return updated, nil
}

// UpdateStatusIfPending implements request.RequestRepository. Compare-and-swap
// on status: the WHERE clause makes concurrent transitions settle at the
// database, so exactly one approver wins.
func (r *requestRepository) UpdateStatusIfPending(ctx context.Context, id string, status request.Status, approverID string, at time.Time) (request.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE requests
		SET status = $2, approved_by = $3, approved_at = $4, updated_at = NOW()
		WHERE id = $1
		  AND status = 'PENDING'
		RETURNING ` + requestColumns

	updated, err := scanRequest(q.QueryRow(ctx, query, id, status, approverID, at))
	if err != nil {
		if err == pgx.ErrNoRows {
			// Either the row is gone or someone else transitioned it first.
			exists, existsErr := r.exists(ctx, id)
			if existsErr != nil {
				return request.Request{}, existsErr
			}
			if exists {
				return request.Request{}, request.ErrAlreadyProcessed
			}
			return request.Request{}, request.ErrRequestNotFound
		}
		return request.Request{}, fmt.Errorf("failed to transition request: %w", err)
	}

	return updated, nil
}

func (r *requestRepository) exists(ctx context.Context, id string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM requests WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check request existence: %w", err)
	}
	return exists, nil
}

// CountPendingOTInMonth implements request.RequestRepository.
func (r *requestRepository) CountPendingOTInMonth(ctx context.Context, userID string, monthStart, monthEnd string) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM requests
		WHERE user_id = $1
		  AND type = 'OT_REQUEST'
		  AND status = 'PENDING'
		  AND date >= $2
		  AND date <= $3
	`

	var count int
	if err := q.QueryRow(ctx, query, userID, monthStart, monthEnd).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pending overtime requests: %w", err)
	}

	return count, nil
}

// HasApprovedOT implements request.RequestRepository.
func (r *requestRepository) HasApprovedOT(ctx context.Context, userID string, date string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM requests
			WHERE user_id = $1
			  AND type = 'OT_REQUEST'
			  AND status = 'APPROVED'
			  AND date = $2
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, userID, date).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check approved overtime: %w", err)
	}

	return exists, nil
}

// DeletePendingByOwner implements request.RequestRepository. Ownership and
// status gate the delete in the WHERE clause; every miss reads the same.
func (r *requestRepository) DeletePendingByOwner(ctx context.Context, id string, userID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM requests
		WHERE id = $1
		  AND user_id = $2
		  AND status = 'PENDING'
	`

	commandTag, err := q.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete request: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return request.ErrRequestNotFound
	}

	return nil
}

// ListByUser implements request.RequestRepository.
func (r *requestRepository) ListByUser(ctx context.Context, userID string, filter request.ListFilter) ([]request.Request, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "user_id = $1"
	args := []interface{}{userID}
	argIdx := 2

	if filter.Type != nil && *filter.Type != "" {
		baseWhere += fmt.Sprintf(" AND type = $%d", argIdx)
		args = append(args, *filter.Type)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM requests WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count requests: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT `+requestColumns+`
		FROM requests
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	offset := (filter.Page - 1) * limit
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	requests, err := collectRequests(rows)
	if err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// ListPending implements request.RequestRepository. Oldest first so the
// approval inbox surfaces what has waited longest. A team scope joins through
// users.
func (r *requestRepository) ListPending(ctx context.Context, filter request.PendingFilter) ([]request.Request, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "r.status = 'PENDING'"
	args := []interface{}{}
	argIdx := 1

	if filter.TeamID != nil {
		baseWhere += fmt.Sprintf(" AND u.team_id = $%d", argIdx)
		args = append(args, *filter.TeamID)
		argIdx++
	}

	countQuery := `
		SELECT COUNT(*)
		FROM requests r
		JOIN users u ON u.id = r.user_id
		WHERE ` + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count pending requests: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT r.id, r.user_id, r.type, r.status, r.reason,
			   r.date, r.requested_check_in, r.requested_check_out,
			   r.start_date, r.end_date, r.leave_type, r.working_days,
			   r.estimated_end_time, r.approved_by, r.approved_at,
			   r.created_at, r.updated_at
		FROM requests r
		JOIN users u ON u.id = r.user_id
		WHERE %s
		ORDER BY r.created_at ASC
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	offset := (filter.Page - 1) * limit
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query pending requests: %w", err)
	}
	defer rows.Close()

	requests, err := collectRequests(rows)
	if err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func collectRequests(rows pgx.Rows) ([]request.Request, error) {
	var requests []request.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, nil
}

func NewRequestRepository(db *database.DB) request.RequestRepository {
	return &requestRepository{db: db}
}
