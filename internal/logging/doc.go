// Package logging provides structured logging with per-module log levels.
//
// Records are routed to stdout (text or json), to the systemd journal when
// journald is reachable, and to an in-memory ring buffer served by the API.
//
// Initialize once at startup, then fetch a logger per module:
//
//	logging.Initialize(logging.Config{
//		Level:  "info",
//		Format: "text",
//		Modules: map[string]string{
//			"controller": "debug",
//			"api":        "warn",
//		},
//	})
//
//	logger := logging.GetLogger("controller")
//	logger.Info("Mode changed", "mode", "blink_yellow")
//
// Loggers fetched before Initialize are kept and pick up the configured
// levels. SetLevels changes levels at runtime without replacing handlers;
// the config watcher uses it on config.toml edits.
//
// On a journald system:
//
//	journalctl -t trafficnode -f
//	journalctl -t trafficnode MODULE=controller -p warning
package logging
