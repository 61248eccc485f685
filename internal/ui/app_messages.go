package ui

import "xaidash/internal/store"

// FetchDoneMsg is sent when a project fetch finishes, successfully or not.
// State is the store snapshot after the fulfilled or rejected transition.
type FetchDoneMsg struct {
	State store.State
	Err   error
}

// SelectProjectMsg is sent when the user picks a project in the switcher.
type SelectProjectMsg struct {
	ID string
}

// DismissModalMsg closes the top overlay.
type DismissModalMsg struct{}
