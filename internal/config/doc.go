// Package config loads weekplan configuration.
//
// # Terminal client
//
// Load reads ~/.config/weekplan/config.toml (or an explicit path) and falls
// back to defaults when the file is missing or a field is empty:
//
//	api_url = "http://127.0.0.1:8080"   # the proxy
//	refresh_seconds = 5                  # background item refresh
//	request_timeout_seconds = 10
//	log_dir = "~/.local/share/weekplan/logs"
//	log_level = "info"                   # debug, info, warn, error
//
// Tilde paths are expanded and relative paths made absolute. The client
// log is written to <log_dir>/weekplan.log because the terminal belongs to
// the UI.
//
// # Servers
//
// The proxy and the development item service are configured from the
// environment through ParseEnv. See ProxyConfig and ServiceConfig for the
// variables and their defaults.
package config
