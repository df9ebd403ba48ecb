// Package config provides user configuration management for ghsync.
//
// This package manages a YAML-based configuration file that stores server
// settings (listen address, framing, database path), client settings, and
// metadata for remembered servers. The configuration follows OS-specific
// conventions for storage location.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/ghsync/config.yaml or $HOME/.config/ghsync/config.yaml
//   - macOS: $HOME/.config/ghsync/config.yaml
//   - Windows: %LOCALAPPDATA%\ghsync\config.yaml
//
// # Security
//
// IMPORTANT: This package NEVER stores the GitHub API token. Export it as
// GITHUB_TOKEN instead.
//
// # Usage Example
//
//	// Load the global registry
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Remember a discovered server
//	registry.RememberServer("192.168.1.20:9090", "marker")
//
//	// Save changes atomically
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes.
package config
