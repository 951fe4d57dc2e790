package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/xRahul/wedding-planner-app-sub001/internal/cli"
	apphttp "github.com/xRahul/wedding-planner-app-sub001/internal/http"
	applog "github.com/xRahul/wedding-planner-app-sub001/internal/log"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the document over the JSON API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	s, err := openSession(context.Background())
	if err != nil {
		return err
	}
	defer s.Close()
	logger := s.logger

	srv := apphttp.NewServer(":"+s.cfg.Port, s.planner,
		apphttp.WithLogger(logger),
		apphttp.WithRateLimit(s.cfg.RateLimitRPS, s.cfg.RateLimitBurst),
		apphttp.WithReadiness(s.backend.Ping),
	)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err.Error())
		}
	})

	logger.Info("Starting wedplan server", "port", s.cfg.Port, "backend", s.cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error on port %s: %w", s.cfg.Port, err)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
	return nil
}
