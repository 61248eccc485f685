// Package main provides the entry point for the xaidash CLI.
//
// xaidash fetches the projects of an explanation backend, enriches them with
// models and input samples, and shows the detected experiments of one project
// in a terminal UI.
//
// Usage:
//
//	xaidash                      # start the TUI
//	xaidash fetch                # print the enriched projects as JSON
//	xaidash init                 # write a default config file
package main

func main() {
	Execute()
}
