package service

import (
	"context"
	"time"

	"mudrex_agent/pkg/db"
	"mudrex_agent/pkg/logger"
)

const schema = `
CREATE TABLE IF NOT EXISTS tool_invocations (
    id          BIGSERIAL PRIMARY KEY,
    tool        TEXT        NOT NULL,
    ok          BOOLEAN     NOT NULL,
    error_kind  TEXT        NOT NULL DEFAULT '',
    duration_ms BIGINT      NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Journal пишет след каждого вызова инструмента в Postgres. Отказ журнала
// не должен ронять сам вызов: ошибки записи только логируются.
type Journal struct {
	tx db.TxManager
}

func NewJournal(tx db.TxManager) *Journal {
	return &Journal{tx: tx}
}

func (j *Journal) EnsureSchema(ctx context.Context) error {
	_, err := j.tx.Conn().Exec(ctx, schema)
	return err
}

func (j *Journal) Record(ctx context.Context, tool string, ok bool, errKind string, dur time.Duration) {
	_, err := j.tx.Conn().Exec(ctx,
		`INSERT INTO tool_invocations (tool, ok, error_kind, duration_ms) VALUES ($1, $2, $3, $4)`,
		tool, ok, errKind, dur.Milliseconds(),
	)
	if err != nil {
		logger.Error("audit record %s: %v", tool, err)
	}
}
