// Package postgres mirrors the planning document into PostgreSQL: the raw
// JSONB body plus one row per budget category for reporting.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xRahul/wedding-planner-app-sub001/internal/mirror"
)

const schema = `
CREATE TABLE IF NOT EXISTS wedplan_document (
	id          SMALLINT PRIMARY KEY CHECK (id = 1),
	revision    BIGINT NOT NULL,
	body        JSONB NOT NULL,
	mirrored_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS wedplan_budget (
	category         TEXT PRIMARY KEY,
	revision         BIGINT NOT NULL,
	planned          NUMERIC(14, 2) NOT NULL,
	effective_actual NUMERIC(14, 2) NOT NULL,
	linked_expected  NUMERIC(14, 2) NOT NULL,
	remaining        NUMERIC(14, 2) NOT NULL,
	item_count       INTEGER NOT NULL
);`

const upsertDocument = `
INSERT INTO wedplan_document (id, revision, body, mirrored_at)
VALUES (1, $1, $2, $3)
ON CONFLICT (id) DO UPDATE SET
	revision = excluded.revision,
	body = excluded.body,
	mirrored_at = excluded.mirrored_at
WHERE wedplan_document.revision < excluded.revision`

const upsertBudget = `
INSERT INTO wedplan_budget (category, revision, planned, effective_actual, linked_expected, remaining, item_count)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (category) DO UPDATE SET
	revision = excluded.revision,
	planned = excluded.planned,
	effective_actual = excluded.effective_actual,
	linked_expected = excluded.linked_expected,
	remaining = excluded.remaining,
	item_count = excluded.item_count`

type Mirror struct {
	pool *pgxpool.Pool
}

var _ mirror.Mirror = (*Mirror)(nil)

// Open connects to url with a few retries and makes sure the tables exist.
func Open(ctx context.Context, url string) (*Mirror, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	cfg.MaxConns = 4

	var pool *pgxpool.Pool
	backoff := time.Second
	const retries = 5
	for i := 0; i < retries; i++ {
		pool, err = pgxpool.NewWithConfig(ctx, cfg)
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = pool.Ping(pingCtx)
			cancel()
			if err == nil {
				break
			}
			pool.Close()
		}
		slog.WarnContext(ctx, "Postgres mirror connection failed", "attempt", i+1, "error", err, "retry_in", backoff)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
			backoff *= 2
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connect postgres mirror after %d attempts: %w", retries, err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create mirror schema: %w", err)
	}
	return &Mirror{pool: pool}, nil
}

func (m *Mirror) Name() string { return "postgres" }

// Push stores the snapshot unless a newer revision is already mirrored.
func (m *Mirror) Push(ctx context.Context, snap mirror.Snapshot) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin mirror transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	tag, err := tx.Exec(ctx, upsertDocument, int64(snap.Revision), string(snap.Raw), snap.TakenAt)
	if err != nil {
		return fmt.Errorf("mirror document revision %d: %w", snap.Revision, err)
	}
	if tag.RowsAffected() == 0 {
		slog.DebugContext(ctx, "Postgres mirror already newer", "revision", snap.Revision)
		return nil
	}

	batch := budgetBatch(snap)
	res := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := res.Exec(); err != nil {
			res.Close()
			return fmt.Errorf("mirror budget rows: %w", err)
		}
	}
	if err := res.Close(); err != nil {
		return fmt.Errorf("close budget batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit mirror: %w", err)
	}
	return nil
}

// budgetBatch replaces the budget rows with the snapshot's categories.
func budgetBatch(snap mirror.Snapshot) *pgx.Batch {
	b := &pgx.Batch{}
	names := make([]string, 0, len(snap.Budget.Categories))
	for _, c := range snap.Budget.Categories {
		names = append(names, c.Category)
		b.Queue(upsertBudget, c.Category, int64(snap.Revision),
			c.Planned, c.EffectiveActual, c.LinkedExpected, c.Remaining, len(c.Items))
	}
	b.Queue(`DELETE FROM wedplan_budget WHERE NOT (category = ANY($1))`, names)
	return b
}

func (m *Mirror) Close() {
	if m.pool != nil {
		m.pool.Close()
	}
}
