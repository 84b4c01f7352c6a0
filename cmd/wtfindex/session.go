package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gitlisted/tracing-framework/internal/config"
	"github.com/gitlisted/tracing-framework/internal/db"
	"github.com/gitlisted/tracing-framework/internal/event"
	"github.com/gitlisted/tracing-framework/internal/ingest"
	"github.com/gitlisted/tracing-framework/internal/logging"
	"github.com/gitlisted/tracing-framework/internal/observ"
	"github.com/gitlisted/tracing-framework/internal/prof"
	"github.com/gitlisted/tracing-framework/internal/trace"
)

// session carries the resolved configuration of one command invocation.
type session struct {
	cfg     config.Config
	logger  *slog.Logger
	timer   *observ.Timer
	timings bool
	color   bool
	cleanup func()
}

// newSession resolves configuration and flags, installs the logger and the
// self-diagnostic tracer. Callers must invoke close.
func newSession(cmd *cobra.Command) (*session, error) {
	root := cmd.Root()

	configPath, err := root.PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := config.Resolve(configPath, ".")
	if err != nil {
		return nil, err
	}

	if root.PersistentFlags().Changed("log-level") {
		levelFlag, err := root.PersistentFlags().GetString("log-level")
		if err != nil {
			return nil, fmt.Errorf("failed to get log-level flag: %w", err)
		}
		if !logging.ValidLevel(levelFlag) {
			return nil, fmt.Errorf("invalid log level %q (expected: debug|info|warn|error)", levelFlag)
		}
		cfg.Log.Level = levelFlag
	}
	colorMode := cfg.Output.Color
	if root.PersistentFlags().Changed("color") {
		if colorMode, err = root.PersistentFlags().GetString("color"); err != nil {
			return nil, fmt.Errorf("failed to get color flag: %w", err)
		}
	}
	timings, err := root.PersistentFlags().GetBool("timings")
	if err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}

	profiling, err := setupProfiling(cmd)
	if err != nil {
		return nil, err
	}
	traceCleanup, err := setupTracing(cmd)
	if err != nil {
		_ = profiling.Stop()
		return nil, err
	}
	cleanup := func() {
		traceCleanup()
		if err := profiling.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profiling: %v\n", err)
		}
	}

	s := &session{
		cfg:     cfg,
		logger:  logging.Init(cmd.ErrOrStderr(), logging.ParseLevel(cfg.Log.Level), cfg.Log.JSON),
		timer:   observ.NewTimer(),
		timings: timings,
		color:   useColor(colorMode, cmd.OutOrStdout()),
		cleanup: cleanup,
	}
	if cfg.Path != "" {
		s.logger.Debug("configuration loaded", "path", cfg.Path)
	}
	return s, nil
}

// load reads path into a fresh database.
func (s *session) load(ctx context.Context, path string) (*db.Database, error) {
	format, err := ingest.ParseFormat(s.cfg.Ingest.Format)
	if err != nil {
		return nil, err
	}
	database := db.New(event.NewRegistry(), db.Options{
		Jobs:                 s.cfg.Index.Jobs,
		PendingWarnThreshold: s.cfg.Index.PendingWarnThreshold,
		Logger:               s.logger,
		Tracer:               trace.FromContext(ctx),
	})

	ctx, span := trace.Start(ctx, trace.GranCommand, "load")
	err = s.timer.Measure("load", func() (string, error) {
		st, err := ingest.Load(ctx, path, format, database, s.cfg.Ingest.BatchSize)
		return fmt.Sprintf("%d records, %d batches", st.Records, st.Batches), err
	})
	span.End(path)
	if err != nil {
		return nil, err
	}
	return database, nil
}

// close prints the timings when requested and releases the tracer.
func (s *session) close(cmd *cobra.Command) {
	if s.timings {
		if err := s.timer.WriteSummary(cmd.ErrOrStderr()); err != nil {
			s.logger.Warn("write timings", "error", err)
		}
	}
	s.cleanup()
}

// setupProfiling starts the runtime profilers requested by flags.
func setupProfiling(cmd *cobra.Command) (*prof.Session, error) {
	flags := cmd.Root().PersistentFlags()
	var opts prof.Options
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"cpu-profile", &opts.CPU},
		{"mem-profile", &opts.Mem},
		{"runtime-trace", &opts.Trace},
	} {
		value, err := flags.GetString(f.name)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s flag: %w", f.name, err)
		}
		*f.dst = value
	}
	return prof.Start(opts)
}
