// Package ui is the Bubble Tea front end of xaidash.
//
// AppModel owns the chrome (header, fetch spinner, status line, help) and a
// stack of overlays such as the project switcher. The body is an
// ExperimentPage, which renders only from the project list it is handed:
// one card per experiment with a detected model, or a warning when the page's
// project has none. Fetch status never changes the body.
package ui
