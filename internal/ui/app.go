package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"xaidash/internal/store"
)

// AppModel is the root model: chrome around an ExperimentPage plus overlays.
type AppModel struct {
	Store    *store.Store
	Fetcher  store.Fetcher
	Page     *ExperimentPage
	Overlays OverlayStack

	ctx      context.Context
	keys     KeyMap
	help     help.Model
	spinner  spinner.Model
	fetching bool
}

// Ensure AppModel can be used as tea.Model via adapter.
var _ tea.Model = (*appModelAdapter)(nil)

// appModelAdapter wraps AppModel to implement tea.Model.
type appModelAdapter struct {
	*AppModel
}

// NewAppModel creates the root model. Fetches run under ctx; projectID picks
// the project the page shows.
func NewAppModel(ctx context.Context, s *store.Store, f store.Fetcher, projectID string) *AppModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = Styles.Status
	h := help.New()
	h.Styles.ShortKey = Styles.Selected
	h.Styles.ShortDesc = Styles.Muted
	h.Styles.FullKey = Styles.Selected
	h.Styles.FullDesc = Styles.Muted

	page := NewExperimentPage(projectID)
	page.SetProjects(s.State().Data)
	return &AppModel{
		Store:   s,
		Fetcher: f,
		Page:    page,
		ctx:     ctx,
		keys:    DefaultKeyMap(),
		help:    h,
		spinner: sp,
	}
}

// AsTeaModel returns a tea.Model adapter for use with tea.NewProgram.
func (m *AppModel) AsTeaModel() tea.Model {
	return &appModelAdapter{AppModel: m}
}

// Fetching reports whether a fetch is in flight.
func (m *AppModel) Fetching() bool {
	return m.fetching
}

func (m *AppModel) startFetch() tea.Cmd {
	if m.fetching || m.Fetcher == nil {
		return nil
	}
	m.fetching = true
	return tea.Batch(m.spinner.Tick, fetchProjectsCmd(m.ctx, m.Store, m.Fetcher))
}

// Init implements tea.Model.
func (a *appModelAdapter) Init() tea.Cmd {
	return a.startFetch()
}

// Update implements tea.Model.
func (a *appModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.help.Width = msg.Width
		_, cmd := a.Page.Update(msg)
		return a, cmd
	case spinner.TickMsg:
		if !a.fetching {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	case FetchDoneMsg:
		a.fetching = false
		a.Page.SetProjects(msg.State.Data)
		return a, nil
	case SelectProjectMsg:
		a.Store.Dispatch(store.SetCurrentProject{ID: msg.ID})
		a.Overlays.Pop()
		return a, nil
	case DismissModalMsg:
		a.Overlays.Pop()
		return a, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if cmd, ok := a.Overlays.UpdateTop(msg); ok {
			return a, cmd
		}
		switch {
		case key.Matches(msg, a.keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, a.keys.Refresh):
			return a, a.startFetch()
		case key.Matches(msg, a.keys.Projects):
			st := a.Store.State()
			a.Overlays.Push(NewProjectSwitcher(st.Data, st.CurrentProject.ID))
			return a, nil
		case key.Matches(msg, a.keys.Help):
			a.help.ShowAll = !a.help.ShowAll
			return a, nil
		}
	}

	if cmd, ok := a.Overlays.UpdateTop(msg); ok {
		return a, cmd
	}
	_, cmd := a.Page.Update(msg)
	return a, cmd
}

// View implements tea.Model.
func (a *appModelAdapter) View() string {
	st := a.Store.State()
	parts := []string{a.header(st)}
	if line := statusLine(st); line != "" {
		parts = append(parts, line)
	}
	if top, ok := a.Overlays.Peek(); ok {
		parts = append(parts, top.View())
	} else {
		parts = append(parts, a.Page.View())
	}
	parts = append(parts, a.help.View(a.keys))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (a *appModelAdapter) header(st store.State) string {
	current := Styles.Muted.Render("none")
	if st.CurrentProject.ID != "" {
		current = Styles.Normal.Render(st.CurrentProject.ID)
	}
	h := Styles.Title.Render("xaidash") + Styles.Muted.Render("  page: ") + Styles.Normal.Render(a.Page.ProjectID) +
		Styles.Muted.Render("  current: ") + current
	if a.fetching {
		h += "  " + a.spinner.View() + Styles.Status.Render(" fetching")
	}
	return h
}

// statusLine reports fatal and partial fetch failures outside the page body.
func statusLine(st store.State) string {
	switch {
	case st.Error:
		reason := strings.TrimSpace(st.RejectReason)
		if reason == "" {
			reason = "unknown error"
		}
		return Styles.Error.Render("fetch failed: " + reason)
	case st.Partial():
		return Styles.Partial.Render(fmt.Sprintf("partial data: %d sub-fetch(es) failed", len(st.Failures)))
	}
	return ""
}
