package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"xaidash/internal/api"
	"xaidash/internal/config"
	"xaidash/internal/project"
	"xaidash/internal/trace"
)

// loadConfig reads the config file and env, then applies the flags the user set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString(flagConfig)

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	if flags.Changed(flagAPIURL) {
		cfg.APIURL, _ = flags.GetString(flagAPIURL)
	}
	if flags.Changed(flagProject) {
		cfg.ProjectID, _ = flags.GetString(flagProject)
	}
	if flags.Changed(flagConcurrency) {
		cfg.Concurrency, _ = flags.GetInt(flagConcurrency)
	}
	if flags.Changed(flagLogFile) {
		cfg.LogFile, _ = flags.GetString(flagLogFile)
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setupLogger creates a structured logger based on verbosity setting.
func setupLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// newAggregator builds the client, tracer and aggregator for cfg.
// The returned Provider must be shut down by the caller.
func newAggregator(ctx context.Context, cfg config.Config, logger *slog.Logger) (*project.Aggregator, *trace.Provider, error) {
	client, err := api.NewClient(cfg.APIURL,
		api.WithTimeout(cfg.RequestTimeout),
		api.WithRateLimit(cfg.RateLimit),
	)
	if err != nil {
		return nil, nil, err
	}

	tp, err := trace.NewProvider(ctx, trace.Options{
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    cfg.OTLPInsecure,
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("tracing: %w", err)
	}
	if tp.Enabled() {
		logger.Debug("exporting spans", "endpoint", cfg.OTLPEndpoint)
	}

	agg := project.NewAggregator(client,
		project.WithConcurrency(cfg.Concurrency),
		project.WithLogger(logger),
		project.WithTracer(tp.Tracer()),
	)
	return agg, tp, nil
}

// shutdownTracing flushes spans, logging rather than failing the command.
func shutdownTracing(tp *trace.Provider, logger *slog.Logger) {
	if err := tp.Shutdown(context.Background()); err != nil {
		logger.Error("failed to flush spans", "error", err)
	}
}
