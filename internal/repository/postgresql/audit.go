package postgresql

import (
	"context"
	"fmt"

	"github.com/PhucFanMu20Nams/attendance-tracking-sub000/internal/domain/audit"
	"github.com/PhucFanMu20Nams/attendance-tracking-sub000/internal/pkg/database"
)

type auditRepository struct {
	db *database.DB
}

// Insert implements audit.AuditRepository.
func (a *auditRepository) Insert(ctx context.Context, entry audit.Entry) error {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO audit_entries (user_id, type, detail)
		VALUES ($1, $2, $3)
	`

	if _, err := q.Exec(ctx, query, entry.UserID, entry.Type, entry.Detail); err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}

	return nil
}

// ListByUser implements audit.AuditRepository.
func (a *auditRepository) ListByUser(ctx context.Context, userID string, limit int) ([]audit.Entry, error) {
	q := GetQuerier(ctx, a.db)

	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, user_id, type, detail, created_at
		FROM audit_entries
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var entry audit.Entry
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Type, &entry.Detail, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func NewAuditRepository(db *database.DB) audit.AuditRepository {
	return &auditRepository{db: db}
}
