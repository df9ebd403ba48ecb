package config

import "time"

// Registry represents the entire user configuration file.
// This stores server and client settings plus remembered servers.
type Registry struct {
	Version int                     `yaml:"version"`
	Server  *ServerSettings         `yaml:"server,omitempty"`
	GitHub  *GitHubSettings         `yaml:"github,omitempty"`
	Client  *ClientSettings         `yaml:"client,omitempty"`
	Servers map[string]*KnownServer `yaml:"servers,omitempty"` // Keyed by host:port address
}

// ServerSettings configures the ghsync server daemon.
type ServerSettings struct {
	Host     string `yaml:"host"`                // Listen address (e.g., "0.0.0.0")
	Port     int    `yaml:"port"`                // Listen port
	Framing  string `yaml:"framing"`             // "newline" or "marker"
	Database string `yaml:"database,omitempty"`  // SQLite database path; empty = default under the config dir
	MDNS     bool   `yaml:"mdns"`                // Advertise via mDNS
	LogLevel string `yaml:"log_level,omitempty"` // zap level; empty = silent
}

// GitHubSettings configures the GitHub API client.
// Note: the API token is NEVER stored here; it comes from GITHUB_TOKEN.
type GitHubSettings struct {
	APIBase string `yaml:"api_base,omitempty"` // Override for the API base URL (testing, proxies)
}

// ClientSettings configures the interactive client.
type ClientSettings struct {
	Framing         string `yaml:"framing"`                  // Must match the server's framing
	DefaultServer   string `yaml:"default_server,omitempty"` // host:port dialed when no address is given
	DiscoverTimeout int    `yaml:"discover_timeout"`         // mDNS discovery timeout in seconds
}

// KnownServer represents a remembered server, keyed by address in the Registry.
type KnownServer struct {
	Nickname string    `yaml:"nickname,omitempty"`  // User-friendly name
	Framing  string    `yaml:"framing,omitempty"`   // Framing advertised or last used
	LastSeen time.Time `yaml:"last_seen,omitempty"` // Last discovery/connection time
}

// Defaults for a fresh configuration.
const (
	DefaultHost            = "0.0.0.0"
	DefaultPort            = 9090
	DefaultFraming         = "marker"
	DefaultDiscoverTimeout = 5
)

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version: 1,
		Server: &ServerSettings{
			Host:    DefaultHost,
			Port:    DefaultPort,
			Framing: DefaultFraming,
			MDNS:    true,
		},
		GitHub: &GitHubSettings{},
		Client: &ClientSettings{
			Framing:         DefaultFraming,
			DiscoverTimeout: DefaultDiscoverTimeout,
		},
		Servers: make(map[string]*KnownServer),
	}
}

// GetServer retrieves a remembered server by address.
// Returns nil if the address is not in the registry.
func (r *Registry) GetServer(addr string) *KnownServer {
	return r.Servers[addr]
}

// EnsureServer ensures a server entry exists in the registry.
// Returns the entry (existing or newly created).
func (r *Registry) EnsureServer(addr string) *KnownServer {
	if r.Servers == nil {
		r.Servers = make(map[string]*KnownServer)
	}

	if srv, exists := r.Servers[addr]; exists {
		return srv
	}

	srv := &KnownServer{}
	r.Servers[addr] = srv
	return srv
}

// RememberServer updates the last seen timestamp and framing for a server.
func (r *Registry) RememberServer(addr, framing string) {
	srv := r.EnsureServer(addr)
	srv.LastSeen = time.Now()
	if framing != "" {
		srv.Framing = framing
	}
}

// SetServerNickname sets a user-friendly nickname for a server.
func (r *Registry) SetServerNickname(addr, nickname string) {
	srv := r.EnsureServer(addr)
	srv.Nickname = nickname
}
