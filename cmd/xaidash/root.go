package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Flag names shared across commands.
const (
	flagConfig      = "config"
	flagAPIURL      = "api-url"
	flagProject     = "project"
	flagConcurrency = "concurrency"
	flagLogFile     = "log-file"
	flagVerbose     = "verbose"
)

// NewRootCmd creates the root command. Without a subcommand it starts the TUI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "xaidash",
		Short: "Terminal dashboard for model explanation experiments",
		Long: `xaidash lists the projects of an explanation backend, pairs each
experiment with its model and input samples, and shows the experiments with a
detected model for one project.

Settings come from the config file, then XAIDASH_* environment variables,
then flags.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          runTUI,
	}

	flags := cmd.PersistentFlags()
	flags.String(flagConfig, "", "config file (default $XDG_CONFIG_HOME/xaidash/config.yaml)")
	flags.String(flagAPIURL, "", "backend base URL")
	flags.String(flagProject, "", "project shown on the experiment page")
	flags.Int(flagConcurrency, 0, "projects enriched in parallel")
	flags.String(flagLogFile, "", "log file for the TUI (default $XDG_STATE_HOME/xaidash/xaidash.log)")
	flags.BoolP(flagVerbose, "v", false, "enable debug logging")

	cmd.AddCommand(NewFetchCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
