package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/xRahul/wedding-planner-app-sub001/internal/amqp"
	"github.com/xRahul/wedding-planner-app-sub001/internal/backend"
	"github.com/xRahul/wedding-planner-app-sub001/internal/cli"
	applog "github.com/xRahul/wedding-planner-app-sub001/internal/log"
	"github.com/xRahul/wedding-planner-app-sub001/internal/storage"
	"github.com/xRahul/wedding-planner-app-sub001/internal/worker"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Push saved revisions to the configured mirrors",
	Long:  "Drains the outbox of the sqlite store into Postgres and Google Sheets mirrors, on AMQP notifications and on a timer.",
	RunE:  runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(_ *cobra.Command, _ []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	logger = logger.WithComponent(applog.ComponentWorker)
	if cfg.DataBackend != "sqlite" {
		return fmt.Errorf("worker needs the sqlite backend, got %q", cfg.DataBackend)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return fmt.Errorf("open sqlite repository: %w", err)
	}
	defer repo.Close()

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	mirrors, closeMirrors, err := backend.NewFactory(logger).CreateMirrors(context.Background(), bcfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeMirrors(); err != nil {
			logger.Warn("Mirror cleanup failed", applog.FieldError, err.Error())
		}
	}()
	if len(mirrors) == 0 {
		logger.Info("No mirrors configured, nothing to do")
		return nil
	}

	w := worker.NewMirrorWorker(repo, mirrors,
		worker.WithBatchSize(cfg.SyncBatchSize),
		worker.WithMaxRetries(cfg.SyncMaxRetries),
		worker.WithLogger(logger),
	)

	ctx, done := cli.GracefulShutdown(logger, 15*time.Second, nil)

	logger.Info("Performing startup sync check...")
	if err := w.StartupSyncCheck(ctx); err != nil {
		logger.Error("Failed startup sync check", applog.FieldError, err.Error())
	}

	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, relying on periodic sync", applog.FieldError, err.Error())
		} else {
			defer client.Close()
			go func() {
				err := client.ConsumeDocumentSaved(ctx, w.HandleDocumentSaved)
				if err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("Message consumption failed", applog.FieldError, err.Error())
				}
			}()
		}
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	logger.Info("Worker started", "mirrors", len(mirrors), "interval", cfg.SyncInterval.String())
	w.Run(ctx, cfg.SyncInterval)

	cli.WaitForShutdown(ctx, done)
	return nil
}
