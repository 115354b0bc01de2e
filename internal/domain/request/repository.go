package request

import (
	"context"
	"time"
)

// RequestRepository defines data access methods for requests.
type RequestRepository interface {
	// Create creates a new PENDING request
	Create(ctx context.Context, req Request) (Request, error)

	// GetByID retrieves a request by id
	GetByID(ctx context.Context, id string) (Request, error)

	// GetPendingByUserTypeDate retrieves the PENDING request a new submission
	// would auto-merge onto. Returns nil when none exists.
	GetPendingByUserTypeDate(ctx context.Context, userID string, t Type, date string) (*Request, error)

	// UpdatePending overwrites the mutable fields of a still-PENDING request
	// in place (auto-extend). The write is conditional on status = PENDING.
	UpdatePending(ctx context.Context, req Request) (Request, error)

	// UpdateStatusIfPending transitions PENDING → status with compare-and-swap
	// semantics: a concurrent transition that already happened surfaces as
	// ErrAlreadyProcessed, a missing row as ErrRequestNotFound.
	UpdateStatusIfPending(ctx context.Context, id string, status Status, approverID string, at time.Time) (Request, error)

	// CountPendingOTInMonth counts PENDING OT requests whose date falls inside
	// [monthStart, monthEnd] for one user.
	CountPendingOTInMonth(ctx context.Context, userID string, monthStart, monthEnd string) (int, error)

	// HasApprovedOT reports whether an APPROVED OT request exists for
	// (user, date). Used by the check-in auto-apply step.
	HasApprovedOT(ctx context.Context, userID string, date string) (bool, error)

	// DeletePendingByOwner hard-deletes a PENDING request owned by userID.
	// Wrong owner, wrong status and missing row all surface as
	// ErrRequestNotFound.
	DeletePendingByOwner(ctx context.Context, id string, userID string) error

	// ListByUser retrieves the user's requests, newest first
	ListByUser(ctx context.Context, userID string, filter ListFilter) ([]Request, int64, error)

	// ListPending retrieves the approval inbox, oldest first
	ListPending(ctx context.Context, filter PendingFilter) ([]Request, int64, error)
}
