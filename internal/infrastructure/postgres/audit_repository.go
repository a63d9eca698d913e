package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rizkypratama/go-accounts/internal/domain/repository"
)

// AuditRepository stores account-flow diagnostic events in the audit_log
// table. Callers treat failures as non-fatal.
type AuditRepository struct {
	pool *pgxpool.Pool
}

func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

func (r *AuditRepository) Record(ctx context.Context, e repository.AuditEvent) error {
	var md []byte
	if e.Metadata != nil {
		md, _ = json.Marshal(e.Metadata)
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO audit_log (user_id, email, action, ip, user_agent, metadata)
		VALUES (NULLIF($1, '')::uuid, NULLIF($2, ''), $3, NULLIF($4, ''), NULLIF($5, ''), $6)
	`, e.UserID, e.Email, e.Action, e.IP, e.UserAgent, md)
	return err
}

var _ repository.AuditRepository = (*AuditRepository)(nil)
