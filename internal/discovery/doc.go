// Package discovery provides mDNS-based discovery of ghsync servers.
//
// Servers advertise themselves under the "_ghsync._tcp" service type with
// TXT records describing the framing they speak. Clients browse the local
// network to find a server without knowing its address.
//
// # Usage Example
//
//	servers, err := discovery.ScanForServers(5 * time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, srv := range servers {
//	    fmt.Printf("Found: %s (framing=%s)\n", srv.Addr(), srv.Framing())
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Server and client must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
