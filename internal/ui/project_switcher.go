package ui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"xaidash/internal/project"
)

// ProjectSwitcher is a modal for picking the current project.
type ProjectSwitcher struct {
	list list.Model
}

type projectItem struct {
	id          string
	experiments int
}

func (p projectItem) FilterValue() string { return p.id }
func (p projectItem) Title() string       { return p.id }
func (p projectItem) Description() string {
	return strconv.Itoa(p.experiments) + " experiments"
}

// Ensure ProjectSwitcher implements View.
var _ View = (*ProjectSwitcher)(nil)

// NewProjectSwitcher lists projects with the cursor on currentID.
func NewProjectSwitcher(projects []project.Project, currentID string) *ProjectSwitcher {
	items := make([]list.Item, len(projects))
	selected := 0
	for i, p := range projects {
		items[i] = projectItem{id: p.ID, experiments: len(p.Experiments)}
		if p.ID == currentID {
			selected = i
		}
	}
	l := list.New(items, NewCompactListDelegate(), 40, 12)
	l.Title = "Switch project"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	l.Styles.Title = Styles.Title
	l.Select(selected)
	return &ProjectSwitcher{list: l}
}

// Selected returns the id under the cursor.
func (m *ProjectSwitcher) Selected() (string, bool) {
	sel, ok := m.list.SelectedItem().(projectItem)
	if !ok {
		return "", false
	}
	return sel.id, true
}

// Init implements View.
func (m *ProjectSwitcher) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (m *ProjectSwitcher) Update(msg tea.Msg) (View, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc", "p":
			return m, func() tea.Msg { return DismissModalMsg{} }
		case "enter":
			if id, ok := m.Selected(); ok {
				return m, func() tea.Msg { return SelectProjectMsg{ID: id} }
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements View.
func (m *ProjectSwitcher) View() string {
	if len(m.list.Items()) == 0 {
		return Styles.Modal.Render(Styles.Title.Render("Switch project") + "\n" +
			Styles.Empty.Render("No projects loaded") + "\n" + Styles.Hint.Render("Esc: close"))
	}
	return Styles.Modal.Render(m.list.View() + "\n" + Styles.Hint.Render("Enter: select  Esc: cancel"))
}
