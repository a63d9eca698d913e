package repository

import "context"

// AuditEvent records a single account-flow action for operator diagnosis.
// Metadata must never contain credentials.
type AuditEvent struct {
	UserID    string
	Email     string
	Action    string
	IP        string
	UserAgent string
	Metadata  map[string]any
}

// AuditRepository persists diagnostic events. Writes are best-effort; a
// failed audit insert must not fail the user-facing flow.
type AuditRepository interface {
	Record(ctx context.Context, e AuditEvent) error
}
