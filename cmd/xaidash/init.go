package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"xaidash/internal/config"
)

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Init writes the built-in defaults as YAML.

The file goes to --config if given, otherwise to
$XDG_CONFIG_HOME/xaidash/config.yaml. Flags such as --api-url and --project
are written into the file.

Examples:
  xaidash init
  xaidash init --api-url https://xai.example.com --project mnist
  xaidash init --config ./xaidash.yaml -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().BoolP("force", "f", false, "Overwrite existing configuration file")
	return cmd
}

func runInitCmd(cmd *cobra.Command, _ []string) error {
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}
	path, _ := cmd.Flags().GetString(flagConfig)
	if path == "" {
		path = config.DefaultPath()
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", path)
		}
	}

	cfg := config.Default()
	flags := cmd.Flags()
	if flags.Changed(flagAPIURL) {
		cfg.APIURL, _ = flags.GetString(flagAPIURL)
	}
	if flags.Changed(flagProject) {
		cfg.ProjectID, _ = flags.GetString(flagProject)
	}
	if flags.Changed(flagConcurrency) {
		cfg.Concurrency, _ = flags.GetInt(flagConcurrency)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := config.Save(cfg, path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created configuration file: %s\n", path)
	return nil
}
