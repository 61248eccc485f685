// Package project assembles the Project → Experiment → Model/Inputs tree
// that the dashboard renders, from the backend's three list endpoints.
package project

import (
	"encoding/json"
	"fmt"
	"strconv"

	"xaidash/internal/api"
	"xaidash/internal/jsonutil"
)

// Project is a top-level grouping of experiments.
type Project struct {
	ID          string       `json:"id"`
	Experiments []Experiment `json:"experiments"`
}

// Experiment pairs a model with the input samples selected for explanation.
// Inputs is nil until inputs were fetched successfully.
type Experiment struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Model         *Model      `json:"model,omitempty"`
	ModelDetected bool        `json:"modelDetected"`
	Inputs        []InputData `json:"inputs,omitempty"`
}

// Model is the opaque metadata of a model under inspection.
// ID and Name are lifted from the record when present; Raw keeps the rest.
type Model struct {
	ID   string
	Name string
	Raw  json.RawMessage
}

// MarshalJSON emits the record exactly as the server sent it.
func (m Model) MarshalJSON() ([]byte, error) {
	if jsonutil.IsNull(m.Raw) {
		return []byte("null"), nil
	}
	return m.Raw, nil
}

// InputData is one explanation input with its plot payload.
type InputData struct {
	ID       string   `json:"id"`
	ImageObj ImageObj `json:"imageObj"`
}

// ImageObj holds the plot data and layout of an input sample, untouched.
type ImageObj struct {
	Data   json.RawMessage `json:"data"`
	Layout json.RawMessage `json:"layout"`
}

// Label returns the model's display name, falling back to its id.
func (m *Model) Label() string {
	if m == nil {
		return ""
	}
	if m.Name != "" {
		return m.Name
	}
	return m.ID
}

// ParseModel lifts id/name out of a model record. Unknown shapes keep only Raw.
func ParseModel(raw json.RawMessage) *Model {
	m := &Model{Raw: raw}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return m
	}
	m.ID = scalar(fields["id"])
	m.Name = scalar(fields["name"])
	return m
}

// scalar renders a JSON string without quotes and anything else compacted.
func scalar(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return jsonutil.Compact(raw)
}

// ParseInput decodes the serialized input at position index.
// The payload must be a JSON object; its data and layout fields are kept raw.
func ParseInput(index int, serialized string) (InputData, error) {
	var fields map[string]json.RawMessage
	if err := jsonutil.UnmarshalLine(serialized, &fields); err != nil {
		return InputData{}, fmt.Errorf("parse input %d: %w", index, err)
	}
	if fields == nil {
		return InputData{}, fmt.Errorf("parse input %d: payload is null", index)
	}
	return InputData{
		ID: strconv.Itoa(index),
		ImageObj: ImageObj{
			Data:   fields["data"],
			Layout: fields["layout"],
		},
	}, nil
}

// ParseInputs decodes every serialized input; the first bad entry fails all.
func ParseInputs(serialized []string) ([]InputData, error) {
	inputs := make([]InputData, 0, len(serialized))
	for i, s := range serialized {
		in, err := ParseInput(i, s)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

// fromRecord converts a listed project into an unenriched Project.
func fromRecord(r api.ProjectRecord) Project {
	p := Project{ID: r.ID, Experiments: make([]Experiment, len(r.Experiments))}
	for i, e := range r.Experiments {
		p.Experiments[i] = Experiment{ID: e.ID, Name: e.Name}
	}
	return p
}

// AnyModelDetected reports whether at least one experiment has a detected model.
func (p Project) AnyModelDetected() bool {
	for _, e := range p.Experiments {
		if e.ModelDetected {
			return true
		}
	}
	return false
}

// DetectedExperiments returns the experiments with a detected model, in order.
func (p Project) DetectedExperiments() []Experiment {
	var out []Experiment
	for _, e := range p.Experiments {
		if e.ModelDetected {
			out = append(out, e)
		}
	}
	return out
}

// Find returns the project with the given id.
func Find(projects []Project, id string) (Project, bool) {
	for _, p := range projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}
