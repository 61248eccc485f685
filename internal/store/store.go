// Package store holds the dashboard's project state.
//
// State is a value; Reduce is a pure transition function over it. Store owns
// the current snapshot and runs the fetch lifecycle
// (pending → fulfilled | rejected) against a Fetcher.
package store

import (
	"context"
	"errors"
	"sync"

	"xaidash/internal/api"
	"xaidash/internal/jsonutil"
	"xaidash/internal/project"
)

// State is a snapshot of the project slice.
type State struct {
	Data           []project.Project
	CurrentProject project.Project // zero value until a fetch succeeds
	Loaded         bool
	Error          bool

	// RunID identifies the fetch that produced Data.
	RunID string
	// Failures lists the sub-fetches absorbed by the last successful fetch.
	Failures []project.Failure
	// RejectReason is the server payload (or error text) of the last failed fetch.
	RejectReason string
}

// Partial reports whether the loaded data is missing some enrichment.
func (s State) Partial() bool {
	return len(s.Failures) > 0
}

// Action is a state transition request.
type Action interface {
	isAction()
}

// FetchPending marks the start of a fetch.
type FetchPending struct{}

// FetchFulfilled carries the result of a successful fetch.
type FetchFulfilled struct {
	Result project.Result
}

// FetchRejected carries the reason of a failed fetch.
type FetchRejected struct {
	Reason string
}

// SetCurrentProject selects a loaded project by id.
type SetCurrentProject struct {
	ID string
}

func (FetchPending) isAction()      {}
func (FetchFulfilled) isAction()    {}
func (FetchRejected) isAction()     {}
func (SetCurrentProject) isAction() {}

// Reduce applies a to s and returns the next state. s is not modified.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case FetchPending:
		s.Error = false
	case FetchFulfilled:
		s.Data = a.Result.Projects
		s.CurrentProject = project.Project{}
		if len(s.Data) > 0 {
			s.CurrentProject = s.Data[0]
		}
		s.Loaded = true
		s.Error = false
		s.RunID = a.Result.RunID
		s.Failures = a.Result.Failures
		s.RejectReason = ""
	case FetchRejected:
		// Data and Loaded are kept so earlier results stay visible.
		s.Error = true
		s.RejectReason = a.Reason
	case SetCurrentProject:
		if p, ok := project.Find(s.Data, a.ID); ok {
			s.CurrentProject = p
		}
	}
	return s
}

// Fetcher produces the project tree. *project.Aggregator implements it.
type Fetcher interface {
	Fetch(ctx context.Context) (project.Result, error)
}

var _ Fetcher = (*project.Aggregator)(nil)

// RejectReason turns a fetch error into the text stored on rejection.
// Server errors yield their response payload; anything else its message.
func RejectReason(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		if payload := jsonutil.Compact(apiErr.Payload); payload != "" {
			return payload
		}
	}
	return err.Error()
}

// Store owns the current State. Safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	state     State
	listeners map[int]func(State)
	nextID    int
}

// New creates a store holding initial.
func New(initial State) *Store {
	return &Store{
		state:     initial,
		listeners: make(map[int]func(State)),
	}
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch applies a and notifies subscribers. Returns the new state.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	next := s.state
	listeners := make([]func(State), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
	return next
}

// Subscribe registers fn to be called after every dispatch.
// The returned func removes the subscription.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// FetchProjects runs one fetch through the pending/fulfilled/rejected cycle.
// It returns the state after the fetch and the fetch error, if any.
func (s *Store) FetchProjects(ctx context.Context, f Fetcher) (State, error) {
	s.Dispatch(FetchPending{})
	res, err := f.Fetch(ctx)
	if err != nil {
		return s.Dispatch(FetchRejected{Reason: RejectReason(err)}), err
	}
	return s.Dispatch(FetchFulfilled{Result: res}), nil
}
