package discovery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
)

const (
	// ServiceType is the mDNS service type ghsync servers advertise under.
	ServiceType = "_ghsync._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for server discovery
	DefaultScanTimeout = 5 * time.Second
)

// Scanner browses the local network for advertised ghsync servers.
type Scanner struct {
	// Timeout is the maximum time to wait for advertisements
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// ScanForServers discovers all ghsync servers on the local network.
// Returns the servers seen within the timeout window.
func (s *Scanner) ScanForServers() ([]*ServerInfo, error) {
	return s.ScanForServersWithContext(context.Background())
}

// ScanForServersWithContext discovers servers with a custom context
func (s *Scanner) ScanForServersWithContext(ctx context.Context) ([]*ServerInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	servers := make([]*ServerInfo, 0)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	// Collect entries while the browse runs.
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for entry := range entries {
			if srv := s.parseServiceEntry(entry); srv != nil {
				servers = append(servers, srv)
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	// Wait for the timeout, then for the collector to drain the channel.
	<-ctx.Done()
	<-collected

	return servers, nil
}

// FindServer waits for the first advertised server and returns it, or an
// error when none appears within the timeout.
func (s *Scanner) FindServer(ctx context.Context) (*ServerInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	found := make(chan *ServerInfo, 1)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	go func() {
		for entry := range entries {
			if srv := s.parseServiceEntry(entry); srv != nil {
				select {
				case found <- srv:
				default:
				}
				cancel()
				return
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	select {
	case srv := <-found:
		return srv, nil
	case <-ctx.Done():
		select {
		case srv := <-found:
			return srv, nil
		default:
		}
		return nil, fmt.Errorf("no ghsync server found within %s", s.Timeout)
	}
}

// parseServiceEntry converts a zeroconf service entry to a ServerInfo.
// Returns nil when the entry carries no resolvable address.
func (s *Scanner) parseServiceEntry(entry *zeroconf.ServiceEntry) *ServerInfo {
	// Prefer IPv4; fall back to IPv6.
	var ip string
	for _, addr := range entry.AddrIPv4 {
		ip = addr.String()
		break
	}
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	if entry.Port == 0 {
		return nil
	}

	// TXT records are in "key=value" format; a bare key maps to "".
	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}

	return &ServerInfo{
		Instance:     entry.Instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         entry.Port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// ScanForServers is a convenience function to scan with a custom timeout
func ScanForServers(timeout time.Duration) ([]*ServerInfo, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.ScanForServers()
}

// Announcer keeps an mDNS advertisement alive until Shutdown.
type Announcer struct {
	srv *zeroconf.Server
}

// Shutdown withdraws the advertisement.
func (a *Announcer) Shutdown() {
	a.srv.Shutdown()
}

// Advertise registers the server on the local network under ServiceType.
// The txt records typically carry the framing so clients can match it.
func Advertise(instance string, port int, txt ...string) (*Announcer, error) {
	srv, err := zeroconf.Register(instance, ServiceType, ServiceDomain, port, txt, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}
	return &Announcer{srv: srv}, nil
}
