package ui

import (
	"strconv"
	"strings"

	"xaidash/internal/jsonutil"
	"xaidash/internal/project"
	"xaidash/internal/ui/textutil"
)

const (
	defaultCardWidth = 76
	maxInputRows     = 5
)

// renderExperimentCard draws one experiment: name, paired model, and inputs.
func renderExperimentCard(e project.Experiment, width int) string {
	lines := []string{Styles.Title.Render(textutil.Truncate(e.Name, width))}

	model := e.Model.Label()
	switch {
	case e.Model == nil:
		model = Styles.Empty.Render("none at this position")
	case model == "":
		model = Styles.Muted.Render(textutil.Truncate(textutil.OneLine(string(e.Model.Raw)), width-8))
	}
	lines = append(lines, Styles.Muted.Render("model  ")+model)

	if e.Inputs == nil {
		lines = append(lines, Styles.Muted.Render("inputs ")+Styles.Empty.Render("not loaded"))
		return Styles.Card.Width(width).Render(strings.Join(lines, "\n"))
	}
	lines = append(lines, Styles.Muted.Render("inputs ")+Styles.Normal.Render(countLabel(len(e.Inputs), "sample")))
	for i, in := range e.Inputs {
		if i == maxInputRows {
			lines = append(lines, Styles.Hint.Render("  … "+countLabel(len(e.Inputs)-i, "more")))
			break
		}
		preview := jsonutil.Compact(in.ImageObj.Data)
		row := textutil.PadRightVisual("  #"+in.ID, 6) + Styles.Muted.Render(textutil.Truncate(preview, width-8))
		lines = append(lines, row)
	}
	return Styles.Card.Width(width).Render(strings.Join(lines, "\n"))
}

func countLabel(n int, noun string) string {
	s := strconv.Itoa(n) + " " + noun
	if n != 1 && noun != "more" {
		s += "s"
	}
	return s
}
