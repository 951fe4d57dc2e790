package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/xRahul/wedding-planner-app-sub001/internal/amqp"
	applog "github.com/xRahul/wedding-planner-app-sub001/internal/log"
	"github.com/xRahul/wedding-planner-app-sub001/internal/mirror"
	"github.com/xRahul/wedding-planner-app-sub001/internal/mirror/google"
	"github.com/xRahul/wedding-planner-app-sub001/internal/mirror/postgres"
	"github.com/xRahul/wedding-planner-app-sub001/internal/storage"
	"github.com/xRahul/wedding-planner-app-sub001/internal/storage/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(applog.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case MemoryBackend:
		return f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	sqliteRepo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	// AMQP is optional; the outbox still records every save without it.
	var amqpClient *amqp.Client
	if config.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without notifications", applog.FieldError, err.Error())
			amqpClient = nil
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	f.logger.Info("Initialized SQLite backend",
		"db_path", config.SQLiteDBPath,
		"amqp_enabled", amqpClient != nil)

	result := &BackendResult{
		Store:  sqliteRepo,
		Outbox: sqliteRepo,
		Cleanup: func() error {
			var errs []error
			if amqpClient != nil {
				errs = append(errs, amqpClient.Close())
			}
			errs = append(errs, sqliteRepo.Close())
			return errors.Join(errs...)
		},
	}
	if amqpClient != nil {
		result.Notifier = amqpClient
	}
	return result, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*BackendResult, error) {
	var opts []memory.Option
	if config.MemoryMaxBytes > 0 {
		opts = append(opts, memory.WithMaxBytes(config.MemoryMaxBytes))
	}

	store, err := memory.NewFromFiles(config.SeedDir, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to seed memory backend: %w", err)
	}

	f.logger.Info("Initialized memory backend",
		"seed_dir", config.SeedDir,
		"max_bytes", config.MemoryMaxBytes)

	return &BackendResult{
		Store:   store,
		Cleanup: nil, // nothing to release
	}, nil
}

// CreateMirrors implements Factory.CreateMirrors. A mirror that cannot be
// opened fails the whole call so the worker never starts half configured.
func (f *DefaultFactory) CreateMirrors(ctx context.Context, config Config) ([]mirror.Mirror, CleanupFunc, error) {
	var (
		mirrors []mirror.Mirror
		closers []func()
	)
	cleanup := func() error {
		for _, c := range closers {
			c()
		}
		return nil
	}

	if config.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.ConnectTimeout)
		defer cancel()
	}

	if config.MirrorPostgresURL != "" {
		pg, err := postgres.Open(ctx, config.MirrorPostgresURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open postgres mirror: %w", err)
		}
		mirrors = append(mirrors, pg)
		closers = append(closers, pg.Close)
		f.logger.Info("Initialized postgres mirror")
	}

	if config.GoogleSpreadsheetID != "" {
		sheets, err := google.New(ctx, google.Config{
			SpreadsheetID:   config.GoogleSpreadsheetID,
			BudgetSheet:     config.GoogleBudgetSheet,
			GuestsSheet:     config.GoogleGuestsSheet,
			CredentialsJSON: config.GoogleServiceAccountJSON,
			CredentialsFile: config.GoogleServiceAccountFile,
		})
		if err != nil {
			_ = cleanup()
			return nil, nil, fmt.Errorf("failed to initialize Google Sheets mirror: %w", err)
		}
		mirrors = append(mirrors, sheets)
		f.logger.Info("Initialized Google Sheets mirror", "spreadsheet_id", config.GoogleSpreadsheetID)
	}

	if len(mirrors) == 0 {
		f.logger.Warn("No mirrors configured; outbox entries will be settled without pushing")
	}
	return mirrors, cleanup, nil
}
