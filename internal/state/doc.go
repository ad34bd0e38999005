// Package state provides thread-safe download progress tracking.
//
// # Overview
//
// Download workers report progress into a Store while the progress view (or
// the plain log reporter) reads snapshots at its own pace:
//
//	Producers (download workers):      Consumer (ui.RunProgress):
//	┌────────────────────┐            ┌────────────────────┐
//	│ store.Begin()      │            │                    │
//	│ store.Advance(n)   │───────────→│ store.Snapshot()   │
//	│ store.Finish(err)  │  (mutex)   │   render bars      │
//	└────────────────────┘            └────────────────────┘
//
// # Core Types
//
// Store holds one Progress entry per download, keyed by recording ID and
// kept in registration order. Unknown IDs are created on first use, so
// Register is only needed to show pending downloads up front.
//
// Snapshot is an independent copy: mutating it never affects the Store.
// Complete reports whether every download is done, which the progress view
// uses as its exit condition. An empty snapshot counts as complete.
//
// # Thread Safety
//
// All Store methods may be called from any goroutine. The zero Store is ready
// to use.
package state
