package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"xaidash/internal/project"
	"xaidash/internal/store"
)

type fetchOutput struct {
	RunID          string            `json:"runId"`
	CurrentProject string            `json:"currentProject"`
	Projects       []project.Project `json:"projects"`
	Failures       []fetchFailure    `json:"failures"`
}

type fetchFailure struct {
	Kind         project.FailureKind `json:"kind"`
	ProjectID    string              `json:"projectId"`
	ExperimentID string              `json:"experimentId,omitempty"`
	Error        string              `json:"error"`
}

// NewFetchCmd creates the fetch command.
func NewFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Fetch and print the enriched projects as JSON",
		Long: `Fetch runs the same aggregation as the dashboard and prints the result.
Failed model or input listings are reported under "failures"; only a failed
project listing makes the command fail.`,
		Args: cobra.NoArgs,
		RunE: runFetch,
	}
}

func runFetch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	verbose, _ := cmd.Flags().GetBool(flagVerbose)
	logger := setupLogger(cmd.ErrOrStderr(), verbose)

	ctx := cmd.Context()
	agg, tp, err := newAggregator(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer shutdownTracing(tp, logger)

	s := store.New(store.State{})
	state, err := s.FetchProjects(ctx, agg)
	if err != nil {
		return fmt.Errorf("fetch projects: %s", state.RejectReason)
	}

	out := fetchOutput{
		RunID:          state.RunID,
		CurrentProject: state.CurrentProject.ID,
		Projects:       state.Data,
		Failures:       make([]fetchFailure, len(state.Failures)),
	}
	if out.Projects == nil {
		out.Projects = []project.Project{}
	}
	for i, f := range state.Failures {
		out.Failures[i] = fetchFailure{Kind: f.Kind, ProjectID: f.ProjectID, ExperimentID: f.ExperimentID, Error: f.Err.Error()}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if _, ok := project.Find(state.Data, cfg.ProjectID); !ok {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: project %q not found\n", cfg.ProjectID)
	}
	return nil
}
