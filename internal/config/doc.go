// Package config handles loading and parsing the perch configuration file.
//
// # Overview
//
// This package reads perch's TOML configuration to discover the aviary
// daemon's API endpoint, the log directory, and the user to select on
// startup.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/perch/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Config file: ~/.config/perch/config.toml
//   - API endpoint: 127.0.0.1:7311
//   - Log directory: ~/.local/share/perch/logs
//   - Log file: <log_dir>/perch.log
//
// # TOML Format
//
// Example config.toml:
//
//	api_bind = "127.0.0.1:7311"
//	log_dir = "~/.local/share/perch/logs"
//	default_user = "u1"
//
// A missing config file is not an error; every field has a usable default
// (default_user defaults to empty, in which case perch starts without an
// active identity until one is chosen). A file that exists but fails to
// parse is an error, surfaced at startup.
package config
