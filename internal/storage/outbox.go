package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Outbox entry states.
const (
	OutboxPending = "pending"
	OutboxDone    = "done"
	OutboxFailed  = "failed"
)

// OutboxEntry is a saved revision waiting to be mirrored.
type OutboxEntry struct {
	ID        int64
	Revision  uint64
	Attempts  int
	LastError string
	CreatedAt time.Time
}

// OutboxStats counts entries per state.
type OutboxStats struct {
	Pending int `json:"pending"`
	Done    int `json:"done"`
	Failed  int `json:"failed"`
}

// PendingOutbox returns up to limit pending entries, oldest first.
func (r *SQLiteRepository) PendingOutbox(ctx context.Context, limit int) ([]OutboxEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, revision, attempts, last_error, created_at
		FROM mirror_outbox
		WHERE status = 'pending'
		ORDER BY id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending outbox: %w", err)
	}
	defer rows.Close()

	var out []OutboxEntry
	for rows.Next() {
		var (
			e       OutboxEntry
			rev     int64
			created int64
		)
		if err := rows.Scan(&e.ID, &rev, &e.Attempts, &e.LastError, &created); err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		e.Revision = uint64(rev)
		e.CreatedAt = time.Unix(created, 0).UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outbox: %w", err)
	}
	return out, nil
}

// MarkMirrored closes the given entries.
func (r *SQLiteRepository) MarkMirrored(ctx context.Context, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE mirror_outbox SET status = 'done', last_error = '', updated_at = ? WHERE id IN (` + placeholders(len(ids)) + `)`
	args := append([]any{r.now().Unix()}, int64Args(ids)...)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark outbox mirrored: %w", err)
	}
	return nil
}

// MarkMirrorFailed records a failed attempt. Once maxAttempts is reached the
// entry is parked as failed and no longer returned by PendingOutbox.
func (r *SQLiteRepository) MarkMirrorFailed(ctx context.Context, id int64, maxAttempts int, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	_, err := r.db.ExecContext(ctx, `
		UPDATE mirror_outbox
		SET attempts = attempts + 1,
			last_error = ?,
			status = CASE WHEN attempts + 1 >= ? THEN 'failed' ELSE 'pending' END,
			updated_at = ?
		WHERE id = ?`, msg, maxAttempts, r.now().Unix(), id)
	if err != nil {
		return fmt.Errorf("mark outbox failed: %w", err)
	}
	slog.WarnContext(ctx, "Outbox entry marked with mirror error", "id", id, "error", msg)
	return nil
}

// Stats counts outbox entries per state.
func (r *SQLiteRepository) Stats(ctx context.Context) (OutboxStats, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM mirror_outbox GROUP BY status`)
	if err != nil {
		return OutboxStats{}, fmt.Errorf("count outbox: %w", err)
	}
	defer rows.Close()

	var s OutboxStats
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return OutboxStats{}, fmt.Errorf("scan outbox count: %w", err)
		}
		switch status {
		case OutboxPending:
			s.Pending = n
		case OutboxDone:
			s.Done = n
		case OutboxFailed:
			s.Failed = n
		}
	}
	return s, rows.Err()
}

// PruneOutbox deletes done entries older than before.
func (r *SQLiteRepository) PruneOutbox(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM mirror_outbox WHERE status = 'done' AND updated_at < ?`, before.Unix())
	if err != nil {
		return 0, fmt.Errorf("prune outbox: %w", err)
	}
	return res.RowsAffected()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func int64Args(ids []int64) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
