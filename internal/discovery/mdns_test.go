package discovery

import (
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func TestScanner_parseServiceEntry(t *testing.T) {
	scanner := NewScanner()

	tests := []struct {
		name     string
		entry    *zeroconf.ServiceEntry
		wantNil  bool
		wantIP   string
		wantPort int
	}{
		{
			name: "server with IPv4",
			entry: &zeroconf.ServiceEntry{
				HostName: "workstation.local.",
				Port:     9090,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.20")},
				Text:     []string{"framing=marker"},
			},
			wantIP:   "192.168.1.20",
			wantPort: 9090,
		},
		{
			name: "IPv6 only server",
			entry: &zeroconf.ServiceEntry{
				HostName: "workstation.local",
				Port:     9090,
				AddrIPv6: []net.IP{net.ParseIP("fe80::1")},
			},
			wantIP:   "fe80::1",
			wantPort: 9090,
		},
		{
			name: "both IPv4 and IPv6 prefers IPv4",
			entry: &zeroconf.ServiceEntry{
				HostName: "workstation.local",
				Port:     9090,
				AddrIPv4: []net.IP{net.ParseIP("10.0.0.5")},
				AddrIPv6: []net.IP{net.ParseIP("fe80::2")},
			},
			wantIP:   "10.0.0.5",
			wantPort: 9090,
		},
		{
			name: "no address",
			entry: &zeroconf.ServiceEntry{
				HostName: "workstation.local",
				Port:     9090,
			},
			wantNil: true,
		},
		{
			name: "no port",
			entry: &zeroconf.ServiceEntry{
				HostName: "workstation.local",
				Port:     0,
				AddrIPv4: []net.IP{net.ParseIP("10.0.0.5")},
			},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := scanner.parseServiceEntry(tt.entry)

			if tt.wantNil {
				if srv != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", srv)
				}
				return
			}

			if srv == nil {
				t.Fatal("parseServiceEntry() = nil, want server")
			}
			if srv.IP != tt.wantIP {
				t.Errorf("srv.IP = %v, want %v", srv.IP, tt.wantIP)
			}
			if srv.Port != tt.wantPort {
				t.Errorf("srv.Port = %v, want %v", srv.Port, tt.wantPort)
			}
			if srv.Hostname != tt.entry.HostName {
				t.Errorf("srv.Hostname = %v, want %v", srv.Hostname, tt.entry.HostName)
			}
			if time.Since(srv.DiscoveredAt) > time.Second {
				t.Errorf("srv.DiscoveredAt is not recent: %v", srv.DiscoveredAt)
			}
		})
	}
}

func TestScanner_parseServiceEntry_Metadata(t *testing.T) {
	scanner := NewScanner()

	entry := &zeroconf.ServiceEntry{
		HostName: "workstation.local",
		Port:     9090,
		AddrIPv4: []net.IP{net.ParseIP("192.168.1.20")},
		Text:     []string{"framing=marker", "version=1.0", "flag"},
	}

	srv := scanner.parseServiceEntry(entry)
	if srv == nil {
		t.Fatal("parseServiceEntry() = nil, want server")
	}

	expected := map[string]string{
		"framing": "marker",
		"version": "1.0",
		"flag":    "", // key without value
	}

	if len(srv.Metadata) != len(expected) {
		t.Errorf("srv.Metadata has %d entries, want %d", len(srv.Metadata), len(expected))
	}
	for key, want := range expected {
		if got, ok := srv.Metadata[key]; !ok {
			t.Errorf("srv.Metadata missing key %q", key)
		} else if got != want {
			t.Errorf("srv.Metadata[%q] = %q, want %q", key, got, want)
		}
	}

	if got := srv.Framing(); got != "marker" {
		t.Errorf("srv.Framing() = %q, want marker", got)
	}
}

func TestNewScanner(t *testing.T) {
	scanner := NewScanner()
	if scanner == nil {
		t.Fatal("NewScanner() = nil, want scanner")
	}
	if scanner.Timeout != DefaultScanTimeout {
		t.Errorf("scanner.Timeout = %v, want %v", scanner.Timeout, DefaultScanTimeout)
	}
}

// Note: Integration tests with live mDNS discovery require network access
// and should be run manually.
