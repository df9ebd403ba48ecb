// Package logging provides structured logging for the ghsync server and client.
//
// This package wraps zap logger with convenience functions for common logging
// patterns used throughout the server. It provides both general logging functions
// and specialized functions for session-specific logging needs.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (framing, raw lines, store reconnects)
//   - Info: Normal operations (connections, logins, commands, session counts)
//   - Warn: Non-fatal issues (login failures, sync errors, connection drops)
//   - Error: Fatal issues (startup failures, critical errors)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Session started",
//	    zap.String("remote_addr", "192.168.1.100:51234"),
//	    zap.String("login", "octocat"),
//	)
//
// # Specialized Logging
//
// The package provides domain-specific logging functions:
//
//	logging.LogConnection(remoteAddr, "connection_accepted")
//	logging.LogLogin(remoteAddr, "octocat", "valid")
//	logging.LogCommand(remoteAddr, "octocat", "/repos")
//	logging.LogActiveSessions(3)
//
// # Configuration
//
// Initialize logging at server startup:
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// When no level is given, the GHSYNC_LOG_LEVEL environment variable is
// consulted; if neither is set, logging is silent. Client commands use
// InitializeFromEnv so they stay quiet by default.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap logger
// handles synchronization automatically.
package logging
