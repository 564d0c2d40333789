package shared

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

const insertAuditLog = `INSERT INTO audit_logs (action, entity, entity_id, meta, occurred_at)
VALUES ($1, $2, $3, $4, COALESCE($5, NOW()))`

// AuditLog is one row of audit_logs.
type AuditLog struct {
	Action   string
	Entity   string
	EntityID string
	Meta     map[string]any
	At       time.Time
}

// Execer is satisfied by *pgxpool.Pool and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// AuditLogger appends rows to audit_logs.
type AuditLogger struct {
	db Execer
}

func NewAuditLogger(db Execer) *AuditLogger {
	return &AuditLogger{db: db}
}

// Record inserts log. A zero At is stored as NOW() and a nil Meta as {}.
func (l *AuditLogger) Record(ctx context.Context, log AuditLog) error {
	if l == nil || l.db == nil {
		return errors.New("audit logger not initialised")
	}
	if log.Action == "" || log.Entity == "" || log.EntityID == "" {
		return errors.New("audit log requires action, entity and entity_id")
	}
	meta := log.Meta
	if meta == nil {
		meta = map[string]any{}
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	var at *time.Time
	if !log.At.IsZero() {
		at = &log.At
	}
	_, err = l.db.Exec(ctx, insertAuditLog, log.Action, log.Entity, log.EntityID, raw, at)
	return err
}
