package request

import (
	"context"
)

// RequestService owns the request lifecycle and the reconciliation of
// approved requests onto attendance records.
type RequestService interface {
	// Create runs the creation pipeline, auto-merging onto an existing
	// PENDING request of the same user/type/date when one exists
	Create(ctx context.Context, req CreateRequestRequest) (RequestResponse, error)

	// Approve transitions PENDING → APPROVED and applies the side effects
	Approve(ctx context.Context, requestID string, approverID string) (RequestResponse, error)

	// Reject transitions PENDING → REJECTED with no side effects
	Reject(ctx context.Context, requestID string, approverID string) (RequestResponse, error)

	// Cancel hard-deletes an owner's PENDING request
	Cancel(ctx context.Context, requestID string, ownerID string) error

	// ListMy retrieves the caller's own requests
	ListMy(ctx context.Context, userID string, filter ListFilter) (ListRequestsResponse, error)

	// ListPending retrieves the approval inbox, team-scoped for managers
	ListPending(ctx context.Context, approverID string, page, limit int) (ListRequestsResponse, error)
}
