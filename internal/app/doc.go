// Package app provides the orchestration layer for recfetch commands.
//
// # Overview
//
// This package wires together configuration, logging, authentication, the
// recordings client and the terminal output. It is the composition root for
// the CLI: every command in cmd/recfetch calls exactly one function here.
//
// # Setup
//
// Query and Download share the same initialization:
//
//  1. Load ~/.config/recfetch/config.toml (or Options.ConfigPath)
//  2. Configure the zerolog base logger; Options.LogLevel beats log_level
//  3. Attach a fresh UUID run ID to the context so every log line of one
//     invocation can be correlated
//  4. Build a session: a configured token is used as is, otherwise the
//     username and password are exchanged for one
//  5. Create the recordings client and load display preferences
//
// SetPrefs needs none of this. It only reads and rewrites the preferences
// file.
//
// # Data Flow
//
//	┌──────────────┐
//	│ Download()   │
//	└──────┬───────┘
//	       ├─────> setup()              config, logger, session, client
//	       ├─────> state.Store{}        one entry per recording ID
//	       ├─────> ui.RunProgress()     TTY only, polls the store
//	       │       or startReporter()   periodic log lines otherwise
//	       └─────> errgroup (limit N)
//	                └─> fetchOne()      Download → Open → renameio → Finish
//
// # Files
//
// Downloads are written through renameio pending files and renamed into
// place only after the last chunk arrived. The file name comes from the
// signed URL's Content-Disposition header; without one the recording ID is
// used, with a "-raw" suffix for raw downloads.
//
// # Error Handling
//
// Setup failures (bad config, missing credentials, rejected login) abort the
// command. Individual download failures do not: they are collected and
// returned together after every download has ended. Pressing q in the
// progress view cancels outstanding downloads and returns ui.ErrInterrupted.
//
// # Metrics
//
// When Options.MetricsFile is set, the default Prometheus registry is written
// there in text format once the command finishes, for pickup by the
// node_exporter textfile collector.
package app
