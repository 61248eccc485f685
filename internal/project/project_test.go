package project

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInput(t *testing.T) {
	tests := []struct {
		name       string
		serialized string
		wantData   string
		wantLayout string
		wantErr    bool
	}{
		{name: "data and layout", serialized: `{"data":[{"z":[[1]]}],"layout":{"title":"x"}}`, wantData: `[{"z":[[1]]}]`, wantLayout: `{"title":"x"}`},
		{name: "extra fields ignored", serialized: `{"data":1,"layout":2,"other":3}`, wantData: "1", wantLayout: "2"},
		{name: "missing layout", serialized: `{"data":1}`, wantData: "1"},
		{name: "empty", serialized: "", wantErr: true},
		{name: "not json", serialized: "{", wantErr: true},
		{name: "not an object", serialized: "[1,2]", wantErr: true},
		{name: "null", serialized: "null", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := ParseInput(3, tt.serialized)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "3", in.ID)
			assert.Equal(t, tt.wantData, string(in.ImageObj.Data))
			assert.Equal(t, tt.wantLayout, string(in.ImageObj.Layout))
		})
	}
}

func TestParseInputs_IDsArePositions(t *testing.T) {
	inputs, err := ParseInputs([]string{`{"data":"a"}`, `{"data":"b"}`, `{"data":"c"}`})
	require.NoError(t, err)
	require.Len(t, inputs, 3)
	for i, want := range []string{"0", "1", "2"} {
		assert.Equal(t, want, inputs[i].ID)
	}

	empty, err := ParseInputs(nil)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestParseModel(t *testing.T) {
	m := ParseModel(json.RawMessage(`{"id":12,"name":"vgg","nodes":[]}`))
	assert.Equal(t, "12", m.ID)
	assert.Equal(t, "vgg", m.Name)
	assert.Equal(t, "vgg", m.Label())

	m = ParseModel(json.RawMessage(`{"id":"m-1"}`))
	assert.Equal(t, "m-1", m.Label())

	m = ParseModel(json.RawMessage(`"just a string"`))
	assert.Empty(t, m.ID)
	assert.Equal(t, `"just a string"`, string(m.Raw))

	var nilModel *Model
	assert.Empty(t, nilModel.Label())
}

func TestExperimentJSON(t *testing.T) {
	e := Experiment{
		ID:            "e1",
		Name:          "e1",
		Model:         ParseModel(json.RawMessage(`{"name":"vgg"}`)),
		ModelDetected: true,
		Inputs:        []InputData{{ID: "0", ImageObj: ImageObj{Data: json.RawMessage("1"), Layout: json.RawMessage("2")}}},
	}
	out, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id":"e1","name":"e1","model":{"name":"vgg"},"modelDetected":true,
		"inputs":[{"id":"0","imageObj":{"data":1,"layout":2}}]
	}`, string(out))
}

func TestFind(t *testing.T) {
	projects := []Project{{ID: "a"}, {ID: "b", Experiments: []Experiment{{Name: "x"}}}}

	p, ok := Find(projects, "b")
	require.True(t, ok)
	assert.Len(t, p.Experiments, 1)

	_, ok = Find(projects, "missing")
	assert.False(t, ok)
}

func TestDetectedExperiments(t *testing.T) {
	p := Project{ID: "p", Experiments: []Experiment{
		{Name: "a", ModelDetected: true},
		{Name: "b"},
		{Name: "c", ModelDetected: true},
	}}
	assert.True(t, p.AnyModelDetected())

	var names []string
	for _, e := range p.DetectedExperiments() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"a", "c"}, names)
}
