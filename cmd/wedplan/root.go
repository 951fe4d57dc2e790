package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xRahul/wedding-planner-app-sub001/internal/backend"
	"github.com/xRahul/wedding-planner-app-sub001/internal/cache"
	"github.com/xRahul/wedding-planner-app-sub001/internal/cli"
	"github.com/xRahul/wedding-planner-app-sub001/internal/config"
	applog "github.com/xRahul/wedding-planner-app-sub001/internal/log"
	"github.com/xRahul/wedding-planner-app-sub001/internal/planner"
)

var (
	flagConfig   string
	flagLogLevel string
	flagBackend  string
)

var rootCmd = &cobra.Command{
	Use:           "wedplan",
	Short:         "Wedding planning document service",
	Long:          "Keep the wedding plan in one document: guests, vendors, budget, tasks, menus, shopping and the day-by-day timeline.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "TOML config file (overrides WEDPLAN_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "",
		"Data backend: "+strings.Join(backend.GetBackendTypeStrings(), " or "))
}

// setup loads .env, the config file and the environment, applies flag
// overrides and returns a validated config with its logger.
func setup() (*config.Config, *applog.Logger, error) {
	cli.LoadEnvFile()
	if flagConfig != "" {
		os.Setenv("WEDPLAN_CONFIG", flagConfig)
	}
	if flagBackend != "" {
		os.Setenv("DATA_BACKEND", flagBackend)
	}

	boot := cli.SetupLogger(flagLogLevel, "text")
	cfg, err := cli.LoadAndValidateConfig(boot)
	if err != nil {
		return nil, nil, err
	}
	level := cfg.LogLevel
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	return cfg, cli.SetupLogger(level, cfg.LogFormat), nil
}

// session is an opened planner and the backend behind it.
type session struct {
	cfg     *config.Config
	logger  *applog.Logger
	backend *backend.BackendResult
	planner *planner.Planner
}

func (s *session) Close() {
	if s.backend == nil || s.backend.Cleanup == nil {
		return
	}
	if err := s.backend.Cleanup(); err != nil {
		s.logger.Warn("Backend cleanup failed", applog.FieldError, err.Error())
	}
}

// openSession creates the configured backend and loads the document.
func openSession(ctx context.Context, opts ...planner.Option) (*session, error) {
	cfg, logger, err := setup()
	if err != nil {
		return nil, err
	}
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	gwOpts := []planner.GatewayOption{planner.WithLogger(logger)}
	if res.Notifier != nil {
		gwOpts = append(gwOpts, planner.WithNotifier(res.Notifier))
	}
	opts = append([]planner.Option{
		planner.WithPlannerLogger(logger),
		planner.WithViewCache(cache.NewLRUCache[any](cfg.ViewCacheSize, 0)),
	}, opts...)
	p := planner.New(planner.NewGateway(res.Store, gwOpts...), opts...)

	s := &session{cfg: cfg, logger: logger, backend: res, planner: p}
	if err := p.Open(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("open document: %w", err)
	}
	return s, nil
}
