package backend

import (
	"context"
	"time"

	"github.com/xRahul/wedding-planner-app-sub001/internal/mirror"
	"github.com/xRahul/wedding-planner-app-sub001/internal/planner"
	"github.com/xRahul/wedding-planner-app-sub001/internal/storage"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult is the primary store plus what hangs off it.
type BackendResult struct {
	Store planner.Store
	// Notifier announces saved revisions; nil when AMQP is not configured.
	Notifier planner.Notifier
	// Outbox is set for the sqlite backend only.
	Outbox  *storage.SQLiteRepository
	Cleanup CleanupFunc
}

// Ping reports whether the primary store is reachable. Stores without a
// health check are always ready.
func (r *BackendResult) Ping(ctx context.Context) error {
	if p, ok := r.Store.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend opens the primary store and the optional notifier.
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
	// CreateMirrors opens every configured mirror.
	CreateMirrors(ctx context.Context, config Config) ([]mirror.Mirror, CleanupFunc, error)
}

// Config holds configuration for backend creation
type Config struct {
	// Backend type
	Type BackendType

	// SQLite specific
	SQLiteDBPath string
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Memory backend specific
	SeedDir        string
	MemoryMaxBytes int

	// Mirrors
	MirrorPostgresURL        string
	GoogleSpreadsheetID      string
	GoogleBudgetSheet        string
	GoogleGuestsSheet        string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	ConnectTimeout time.Duration
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
