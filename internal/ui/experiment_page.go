package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"xaidash/internal/project"
)

// Task is the explanation task type offered by the selector.
type Task int

const (
	TaskVision Task = iota
	TaskTabular
)

// Tasks lists the selectable tasks in display order.
var Tasks = []Task{TaskVision, TaskTabular}

func (t Task) String() string {
	switch t {
	case TaskVision:
		return "Vision"
	case TaskTabular:
		return "Tabular"
	}
	return "Unknown"
}

// NoExperimentsNotice is shown when the page's project has no detected model.
const NoExperimentsNotice = "No available experiment. Try Again."

var introLines = []string{
	"Model explanations are shown here automatically.",
	"Each experiment picks sample data and an explanation algorithm for you,",
	"and shows the explanation results for that selection.",
	"Results: Label (true class), Prediction Probabilities, IsCorrect.",
	"Metrics: Faithfulness (does the explanation reflect the model),",
	"Robustness (how stable the explanation is under perturbation).",
}

// ExperimentPage shows the experiments of one fixed project.
// The task selector is local state and does not affect what is rendered.
type ExperimentPage struct {
	ProjectID string

	task     Task
	projects []project.Project
	width    int
}

// Ensure ExperimentPage implements View.
var _ View = (*ExperimentPage)(nil)

// NewExperimentPage creates a page for the project with the given id.
func NewExperimentPage(projectID string) *ExperimentPage {
	return &ExperimentPage{ProjectID: projectID, task: TaskVision}
}

// SetProjects replaces the project list the page reads from.
func (p *ExperimentPage) SetProjects(projects []project.Project) {
	p.projects = projects
}

// Task returns the selected task.
func (p *ExperimentPage) Task() Task {
	return p.task
}

// Experiments returns what the body renders: the detected experiments of the
// page's project, or nil when the warning is shown.
func (p *ExperimentPage) Experiments() []project.Experiment {
	proj, ok := project.Find(p.projects, p.ProjectID)
	if !ok || !proj.AnyModelDetected() {
		return nil
	}
	return proj.DetectedExperiments()
}

// Init implements View.
func (p *ExperimentPage) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (p *ExperimentPage) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "t":
			p.task = Tasks[(int(p.task)+1)%len(Tasks)]
		case "shift+tab":
			p.task = Tasks[(int(p.task)+len(Tasks)-1)%len(Tasks)]
		}
	}
	return p, nil
}

// View implements View.
func (p *ExperimentPage) View() string {
	var b strings.Builder
	b.WriteString(Styles.Intro.Render(strings.Join(introLines, "\n")))
	b.WriteString("\n")
	b.WriteString(p.taskSelector())
	b.WriteString("\n\n")

	exps := p.Experiments()
	if len(exps) == 0 {
		b.WriteString(Styles.Warning.Render("⚠ " + NoExperimentsNotice))
		return b.String()
	}
	cards := make([]string, len(exps))
	for i, e := range exps {
		cards[i] = renderExperimentCard(e, p.cardWidth())
	}
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, cards...))
	return b.String()
}

func (p *ExperimentPage) taskSelector() string {
	parts := make([]string, len(Tasks))
	for i, t := range Tasks {
		if t == p.task {
			parts[i] = Styles.Selected.Render("[" + t.String() + "]")
		} else {
			parts[i] = Styles.Muted.Render(" " + t.String() + " ")
		}
	}
	return Styles.Title.Render("Task ") + strings.Join(parts, " ")
}

func (p *ExperimentPage) cardWidth() int {
	if p.width <= 0 {
		return defaultCardWidth
	}
	// border + padding
	return max(p.width-4, 20)
}
