package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/muurk/ghsync/internal/client"
	"github.com/muurk/ghsync/internal/client/tui"
	"github.com/muurk/ghsync/internal/config"
	"github.com/muurk/ghsync/internal/discovery"
	"github.com/muurk/ghsync/internal/protocol"
)

// Connect command and flags
var (
	connectAddr    string
	connectFraming string
	useDiscovery   bool
)

var connectCmd = &cobra.Command{
	Use:   "connect [address]",
	Short: "Connect to a ghsync server",
	Long: `Connect to a ghsync server and start the interactive session.

The server address is taken from the argument, the --addr flag, or the
default_server entry in the configuration file, in that order. With
--discover, the first server advertised on the local network is used
instead.`,
	Example: `  # Connect to the configured default server
  ghsync-client connect

  # Connect to an explicit address
  ghsync-client connect 192.168.1.20:9090

  # Find a server via mDNS and connect to it
  ghsync-client connect --discover`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConnect,
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "List ghsync servers on the local network",
	Long: `Browse the local network for advertised ghsync servers.

Each server found is remembered in the configuration file so its framing
can be reused on the next connect.`,
	RunE: runDiscover,
}

func init() {
	connectCmd.Flags().StringVar(&connectAddr, "addr", "", "Server address as host:port (empty = value from config file)")
	connectCmd.Flags().StringVar(&connectFraming, "framing", "", "Message framing: newline or marker (empty = value from config file)")
	connectCmd.Flags().BoolVar(&useDiscovery, "discover", false, "Find the server via mDNS instead of an address")

	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(discoverCmd)

	// The root command reuses the connect flags for the no-subcommand case.
	rootCmd.Flags().AddFlagSet(connectCmd.Flags())
}

func runConnect(cmd *cobra.Command, args []string) error {
	registry, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	framingName := registry.Client.Framing
	if connectFraming != "" {
		framingName = connectFraming
	}

	addr := connectAddr
	if len(args) == 1 {
		addr = args[0]
	}

	if useDiscovery {
		scanner := discovery.NewScanner()
		if registry.Client.DiscoverTimeout > 0 {
			scanner.Timeout = time.Duration(registry.Client.DiscoverTimeout) * time.Second
		}
		srv, err := scanner.FindServer(cmd.Context())
		if err != nil {
			return err
		}
		addr = srv.Addr()
		// Trust the advertised framing unless one was forced by flag.
		if connectFraming == "" && srv.Framing() != "" {
			framingName = srv.Framing()
		}
	}

	if addr == "" {
		addr = registry.Client.DefaultServer
	}
	if addr == "" {
		return fmt.Errorf("no server address: pass one, set client.default_server in the config file, or use --discover")
	}

	f, err := protocol.ParseFraming(framingName)
	if err != nil {
		return err
	}

	c, err := client.Dial(addr, f)
	if err != nil {
		return err
	}

	registry.RememberServer(addr, string(f))
	if err := registry.Save(); err != nil {
		// Remembering the server is a convenience, not a requirement.
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not save configuration: %v\n", err)
	}

	// Piped input gets the plain REPL; a real terminal gets the TUI.
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return client.RunREPL(c, os.Stdin, os.Stdout)
	}
	return tui.Run(c)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	registry, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	timeout := discovery.DefaultScanTimeout
	if registry.Client.DiscoverTimeout > 0 {
		timeout = time.Duration(registry.Client.DiscoverTimeout) * time.Second
	}

	fmt.Printf("Scanning for ghsync servers (%s)...\n", timeout)
	servers, err := discovery.ScanForServers(timeout)
	if err != nil {
		return err
	}

	if len(servers) == 0 {
		fmt.Println("No servers found.")
		return nil
	}

	for _, srv := range servers {
		line := srv.String()
		if f := srv.Framing(); f != "" {
			line += fmt.Sprintf(" (framing=%s)", f)
		}
		fmt.Println(line)
		registry.RememberServer(srv.Addr(), srv.Framing())
	}

	if err := registry.Save(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not save configuration: %v\n", err)
	}
	return nil
}
