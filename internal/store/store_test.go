package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xaidash/internal/api"
	"xaidash/internal/project"
)

type stubFetcher struct {
	res project.Result
	err error
}

func (f stubFetcher) Fetch(ctx context.Context) (project.Result, error) {
	return f.res, f.err
}

func loadedState() State {
	p1 := project.Project{ID: "p1", Experiments: []project.Experiment{{ID: "e1", Name: "e1", ModelDetected: true}}}
	p2 := project.Project{ID: "p2"}
	return State{Data: []project.Project{p1, p2}, CurrentProject: p1, Loaded: true}
}

func TestReduce_Pending(t *testing.T) {
	s := loadedState()
	s.Error = true

	next := Reduce(s, FetchPending{})
	assert.False(t, next.Error)
	assert.True(t, next.Loaded)
	assert.Equal(t, s.Data, next.Data)
	assert.True(t, s.Error, "input state is not modified")
}

func TestReduce_Fulfilled(t *testing.T) {
	failures := []project.Failure{{Kind: project.FailureInputs, ProjectID: "a", ExperimentID: "x", Err: errors.New("e")}}
	res := project.Result{RunID: "run-1", Projects: []project.Project{{ID: "a"}, {ID: "b"}}, Failures: failures}

	next := Reduce(State{Error: true, RejectReason: "old"}, FetchFulfilled{Result: res})
	assert.Equal(t, res.Projects, next.Data)
	assert.Equal(t, "a", next.CurrentProject.ID)
	assert.True(t, next.Loaded)
	assert.False(t, next.Error)
	assert.Empty(t, next.RejectReason)
	assert.Equal(t, "run-1", next.RunID)
	assert.True(t, next.Partial())
}

func TestReduce_FulfilledEmpty(t *testing.T) {
	next := Reduce(loadedState(), FetchFulfilled{})
	assert.Empty(t, next.Data)
	assert.Equal(t, project.Project{}, next.CurrentProject)
	assert.True(t, next.Loaded)
	assert.False(t, next.Partial())
}

func TestReduce_RejectedKeepsData(t *testing.T) {
	s := loadedState()
	next := Reduce(s, FetchRejected{Reason: `{"message":"server down"}`})
	assert.True(t, next.Error)
	assert.True(t, next.Loaded)
	assert.Equal(t, s.Data, next.Data)
	assert.Equal(t, s.CurrentProject, next.CurrentProject)
	assert.Equal(t, `{"message":"server down"}`, next.RejectReason)
}

func TestReduce_SetCurrentProject(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		wantID string
	}{
		{name: "known id selects project", id: "p2", wantID: "p2"},
		{name: "current id is idempotent", id: "p1", wantID: "p1"},
		{name: "unknown id is a no-op", id: "nope", wantID: "p1"},
		{name: "empty id is a no-op", id: "", wantID: "p1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := loadedState()
			next := Reduce(s, SetCurrentProject{ID: tt.id})
			assert.Equal(t, tt.wantID, next.CurrentProject.ID)
			if tt.wantID == "p1" {
				assert.Equal(t, s, next)
			}
		})
	}
}

func TestReduce_SetCurrentProjectBeforeLoad(t *testing.T) {
	next := Reduce(State{}, SetCurrentProject{ID: "p1"})
	assert.Equal(t, State{}, next)
}

func TestRejectReason(t *testing.T) {
	apiErr := &api.Error{Status: 503, Payload: json.RawMessage(`{ "message": "server down" }`)}
	assert.Equal(t, `{"message":"server down"}`, RejectReason(fmt.Errorf("list projects: %w", apiErr)))

	assert.Equal(t, "dial tcp: refused", RejectReason(errors.New("dial tcp: refused")))

	empty := &api.Error{Method: "GET", Path: "/api/projects/", Status: 500}
	assert.Equal(t, empty.Error(), RejectReason(empty))
}

func TestStore_FetchProjects_LoadedDespiteInnerFailures(t *testing.T) {
	s := New(State{})
	res := project.Result{
		Projects: []project.Project{{ID: "p1"}},
		Failures: []project.Failure{{Kind: project.FailureModels, ProjectID: "p1", Err: errors.New("x")}},
	}

	state, err := s.FetchProjects(context.Background(), stubFetcher{res: res})
	require.NoError(t, err)
	assert.True(t, state.Loaded)
	assert.False(t, state.Error)
	assert.Equal(t, state, s.State())
}

// Scenario C: a rejected fetch sets the error flag and leaves data untouched.
func TestStore_FetchProjects_Rejected(t *testing.T) {
	prior := loadedState()
	s := New(prior)
	apiErr := &api.Error{Status: 503, Payload: json.RawMessage(`{"message":"server down"}`)}

	state, err := s.FetchProjects(context.Background(), stubFetcher{err: apiErr})
	require.ErrorIs(t, err, apiErr)
	assert.True(t, state.Error)
	assert.Equal(t, prior.Data, state.Data)
	assert.Equal(t, `{"message":"server down"}`, state.RejectReason)
}

func TestStore_FetchProjects_LifecycleOrder(t *testing.T) {
	s := New(State{Error: true})
	var seen []bool
	unsubscribe := s.Subscribe(func(st State) { seen = append(seen, st.Error) })

	_, _ = s.FetchProjects(context.Background(), stubFetcher{err: errors.New("down")})
	assert.Equal(t, []bool{false, true}, seen, "pending clears the flag, rejection sets it")

	unsubscribe()
	s.Dispatch(FetchPending{})
	assert.Len(t, seen, 2)
}

func TestStore_EndToEnd_ModelsFailureShowsNothing(t *testing.T) {
	src := &modelsDownSource{}
	agg := project.NewAggregator(src)
	s := New(State{})

	state, err := s.FetchProjects(context.Background(), agg)
	require.NoError(t, err)
	p, ok := project.Find(state.Data, "p1")
	require.True(t, ok)
	assert.False(t, p.AnyModelDetected())
	require.Len(t, state.Failures, 1)
}

type modelsDownSource struct{}

func (modelsDownSource) ListProjects(context.Context) ([]api.ProjectRecord, error) {
	return []api.ProjectRecord{{ID: "p1", Experiments: []api.ExperimentRecord{{Name: "e1"}, {Name: "e2"}}}}, nil
}

func (modelsDownSource) ListModels(context.Context, string) ([]json.RawMessage, error) {
	return nil, errors.New("models down")
}

func (modelsDownSource) ListInputs(context.Context, string, string) ([]string, error) {
	return nil, errors.New("unreachable")
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := New(loadedState())
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			s.Dispatch(SetCurrentProject{ID: fmt.Sprintf("p%d", i%2+1)})
		}(i)
		go func() {
			defer wg.Done()
			_ = s.State()
		}()
	}
	wg.Wait()
	assert.Contains(t, []string{"p1", "p2"}, s.State().CurrentProject.ID)
}
