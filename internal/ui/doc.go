// Package ui renders recfetch output in the terminal.
//
// # Components
//
//   - table.go: RenderRows prints query results as a lipgloss table
//   - progress.go: RunProgress runs a bubbletea program with one progress bar
//     per download
//   - theme.go: Dracula and Slate palettes and the styles built from them
//
// # Progress View
//
// The progress view follows the Elm architecture used by bubbletea. It never
// touches the downloads directly; it polls a state.Store on a fixed tick:
//
//	Init ──→ fetchSnapshotCmd + tickCmd
//	tickMsg ──→ fetchSnapshotCmd + tickCmd
//	snapshotMsg ──→ store result; quit once Snapshot.Complete()
//	KeyMsg (q, esc, ctrl+c) ──→ quit, reported as ErrInterrupted
//
// Downloads without a known size render a dotted placeholder instead of a bar.
// The final frame stays on screen after the program exits.
//
// # Themes
//
// ThemeByName resolves a preference value to a Theme. Unknown names fall back
// to Dracula so a stale prefs file never breaks output.
package ui
