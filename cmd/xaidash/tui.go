package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"xaidash/internal/config"
	"xaidash/internal/store"
	"xaidash/internal/ui"
)

// runTUI starts the dashboard. Logs go to a file since stderr belongs to the UI.
func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	verbose, _ := cmd.Flags().GetBool(flagVerbose)

	logPath := cfg.LogFile
	if logPath == "" {
		logPath = config.DefaultLogFile()
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("log directory: %w", err)
	}
	logFile, err := tea.LogToFile(logPath, "xaidash")
	if err != nil {
		return fmt.Errorf("log file: %w", err)
	}
	defer logFile.Close()
	logger := setupLogger(logFile, verbose)

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	agg, tp, err := newAggregator(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer shutdownTracing(tp, logger)

	logger.Info("starting dashboard", "api_url", cfg.APIURL, "project", cfg.ProjectID, "concurrency", cfg.Concurrency)

	s := store.New(store.State{})
	unsubscribe := s.Subscribe(func(st store.State) {
		logger.Debug("state changed",
			"run", st.RunID, "loaded", st.Loaded, "error", st.Error,
			"projects", len(st.Data), "failures", len(st.Failures), "current", st.CurrentProject.ID)
	})
	defer unsubscribe()
	model := ui.NewAppModel(ctx, s, agg, cfg.ProjectID).AsTeaModel()
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}
