package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the primary store: the planning document in one row,
// plus an outbox of revisions the mirrors have not seen yet.
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single connection keeps writers from tripping over SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, now: time.Now}, nil
}

func dsn(dbPath string) string {
	return "file:" + dbPath + "?_pragma=busy_timeout(5000)"
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Load returns the stored document, or nil when nothing was saved yet.
func (r *SQLiteRepository) Load(ctx context.Context) ([]byte, error) {
	raw, _, err := r.LoadRevision(ctx)
	return raw, err
}

// LoadRevision returns the stored document with its revision.
func (r *SQLiteRepository) LoadRevision(ctx context.Context) ([]byte, uint64, error) {
	var (
		body string
		rev  int64
	)
	err := r.db.QueryRowContext(ctx, `SELECT body, revision FROM documents WHERE id = 1`).Scan(&body, &rev)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("load document: %w", err)
	}
	return []byte(body), uint64(rev), nil
}

// Save writes the document, bumps its revision and queues the revision for
// mirroring, all in one transaction.
func (r *SQLiteRepository) Save(ctx context.Context, raw []byte) (uint64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := r.now().Unix()
	var rev int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO documents (id, body, revision, updated_at)
		VALUES (1, ?, 1, ?)
		ON CONFLICT (id) DO UPDATE SET
			body = excluded.body,
			revision = documents.revision + 1,
			updated_at = excluded.updated_at
		RETURNING revision`, string(raw), now).Scan(&rev)
	if err != nil {
		return 0, fmt.Errorf("save document: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO mirror_outbox (revision, status, attempts, created_at, updated_at)
		VALUES (?, 'pending', 0, ?, ?)`, rev, now, now); err != nil {
		return 0, fmt.Errorf("queue mirror: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit document: %w", err)
	}

	slog.DebugContext(ctx, "Document stored", "revision", rev, "bytes", len(raw))
	return uint64(rev), nil
}
