package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"xaidash/internal/store"
)

// fetchProjectsCmd runs the full fetch lifecycle against s off the UI goroutine.
func fetchProjectsCmd(ctx context.Context, s *store.Store, f store.Fetcher) tea.Cmd {
	return func() tea.Msg {
		state, err := s.FetchProjects(ctx, f)
		return FetchDoneMsg{State: state, Err: err}
	}
}
