// Package config loads the recfetch TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/recfetch/config.toml
//  3. If the file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing or blank, use defaults
//
// # Default Values
//
//   - API URL: http://127.0.0.1:1080
//   - Output directory: ~/recordings
//   - Log level: info
//
// # TOML Format
//
//	api_url    = "https://api.example.org"
//	username   = "alice"
//	password   = "secret"
//	token      = ""        # pre-issued "JWT ..." token; skips login when set
//	output_dir = "~/recordings"
//	log_level  = "info"
//
// Every field is optional. Values are trimmed, except the password. Tilde
// expansion is applied to output_dir.
//
// # Error Handling
//
// Load returns errors for path expansion failures, unreadable files (other than
// a missing file) and invalid TOML ("parse config: ..."). Credentials are not
// validated here; a missing username surfaces when the first request needs one.
package config
