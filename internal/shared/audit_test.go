package shared

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type execSpy struct {
	sql  string
	args []any
}

func (e *execSpy) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	e.sql = sql
	e.args = args
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func TestAuditLoggerRecord(t *testing.T) {
	spy := &execSpy{}
	logger := NewAuditLogger(spy)

	require.NoError(t, logger.Record(context.Background(), AuditLog{
		Action:   "detailorder:reserve",
		Entity:   "detail_order",
		EntityID: "3:7",
		Meta:     map[string]any{"delta": 2},
	}))
	assert.Equal(t, insertAuditLog, spy.sql)
	require.Len(t, spy.args, 5)
	assert.JSONEq(t, `{"delta":2}`, string(spy.args[3].([]byte)))
	assert.Nil(t, spy.args[4].(*time.Time))

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, logger.Record(context.Background(), AuditLog{Action: "a", Entity: "e", EntityID: "1", At: at}))
	assert.JSONEq(t, `{}`, string(spy.args[3].([]byte)))
	assert.Equal(t, at, *spy.args[4].(*time.Time))
}

func TestAuditLoggerRejectsIncompleteLogs(t *testing.T) {
	require.Error(t, NewAuditLogger(&execSpy{}).Record(context.Background(), AuditLog{Action: "a"}))

	var nilLogger *AuditLogger
	require.Error(t, nilLogger.Record(context.Background(), AuditLog{Action: "a", Entity: "e", EntityID: "1"}))
}
