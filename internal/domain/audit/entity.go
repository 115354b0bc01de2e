package audit

import "time"

type EntryType string

const (
	TypeStaleOpenSession       EntryType = "STALE_OPEN_SESSION"
	TypeMultipleActiveSessions EntryType = "MULTIPLE_ACTIVE_SESSIONS"
)

// Entry records an attendance anomaly. Writes are best-effort: a failed
// insert is logged and never blocks the primary operation.
type Entry struct {
	ID        string
	UserID    string
	Type      EntryType
	Detail    string
	CreatedAt time.Time
}
