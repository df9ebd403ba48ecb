package discovery

import (
	"fmt"
	"time"
)

// ServerInfo describes a ghsync server found on the local network.
type ServerInfo struct {
	// Instance is the advertised mDNS instance name (e.g., "ghsync").
	Instance string

	// Hostname is the mDNS hostname of the machine running the server.
	Hostname string

	// IP is the resolved address, IPv4 preferred.
	IP string

	// Port is the TCP port the server listens on.
	Port int

	// Metadata holds the advertised TXT records, e.g. "framing=marker".
	Metadata map[string]string

	// DiscoveredAt is when the advertisement was received.
	DiscoveredAt time.Time
}

// String returns a human-readable one-liner for listings.
func (s *ServerInfo) String() string {
	return fmt.Sprintf("ghsync server %q at %s:%d", s.Instance, s.IP, s.Port)
}

// Addr returns the dialable host:port address.
func (s *ServerInfo) Addr() string {
	return fmt.Sprintf("%s:%d", s.IP, s.Port)
}

// Framing returns the advertised framing TXT record, or "" when absent.
func (s *ServerInfo) Framing() string {
	return s.GetMetadata("framing")
}

// GetMetadata retrieves a TXT record value, or "" when the key is absent.
func (s *ServerInfo) GetMetadata(key string) string {
	if s.Metadata == nil {
		return ""
	}
	return s.Metadata[key]
}
