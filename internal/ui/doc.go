// Package ui renders shelfwatch output for terminals.
//
// RenderStock draws the per-branch stock table with lipgloss/table and
// appends the best verdict. WithSpinner animates a Bubble Tea spinner while
// requests are in flight, but only when the output is an interactive
// terminal; under cron or a pipe it runs the work silently.
//
// Two themes are available, Dracula (default) and Slate, selected through the
// user's prefs file.
package ui
