package audit

import "context"

type AuditRepository interface {
	// Insert stores an anomaly entry
	Insert(ctx context.Context, entry Entry) error

	// ListByUser retrieves entries for one user, newest first
	ListByUser(ctx context.Context, userID string, limit int) ([]Entry, error)
}
