// Ghsync-server is a TCP server that syncs GitHub profiles on demand.
//
// Clients connect over a persistent TCP connection, identify themselves by
// GitHub login, and issue text commands to sync and list repositories and
// followers. Synced data is stored in a local SQLite database.
//
// Usage:
//
//	ghsync-server serve [flags]
//
// See 'ghsync-server serve --help' for available options.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/muurk/ghsync/internal/config"
	"github.com/muurk/ghsync/internal/logging"
	"github.com/muurk/ghsync/internal/protocol"
	"github.com/muurk/ghsync/internal/server"
	"github.com/muurk/ghsync/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ghsync-server",
	Short: "GitHub profile sync server",
	Long: `A TCP server that syncs GitHub profiles on demand.

Clients identify themselves by GitHub login over a persistent connection and
issue text commands to sync and list repositories and followers. Synced data
is stored locally in SQLite, so listings work offline once synced.

Note: For the interactive terminal, use the separate 'ghsync-client' utility.`,
	Version: version.Version,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Serve command and flags
var (
	host     string
	port     int
	framing  string
	dbPath   string
	logLevel string
	mdns     bool
	apiBase  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the sync server",
	Long: `Start the ghsync server and accept client connections.

Flags override the corresponding values from the configuration file
(~/.config/ghsync/config.yaml). The GitHub API token is read from the
GITHUB_TOKEN environment variable; without it, unauthenticated rate limits
apply.`,
	Example: `  # Start with the configured defaults
  ghsync-server serve

  # Custom port and verbose logging
  ghsync-server serve --port 7171 --log-level debug

  # Newline framing for nc/telnet-style clients
  ghsync-server serve --framing newline

  # Explicit database location, no mDNS advertisement
  ghsync-server serve --db /var/lib/ghsync/ghsync.db --mdns=false`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&host, "host", "", "Listen address (empty = value from config file)")
	serveCmd.Flags().IntVar(&port, "port", 0, "Listen port (0 = value from config file)")
	serveCmd.Flags().StringVar(&framing, "framing", "", "Message framing: newline or marker (empty = value from config file)")
	serveCmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (empty = value from config file)")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&mdns, "mdns", true, "Advertise the server via mDNS")
	serveCmd.Flags().StringVar(&apiBase, "api-base", "", "GitHub API base URL override (testing, proxies)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(logLevel); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	defer logging.Sync()

	registry, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	cfg, err := buildConfig(registry)
	if err != nil {
		return err
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	// SIGINT/SIGTERM stop the accept loop; in-flight sessions are abandoned.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		srv.Stop()
	}()

	return srv.ListenAndServe()
}

// buildConfig merges flags over the configuration file.
func buildConfig(registry *config.Registry) (server.Config, error) {
	cfg := server.Config{
		Host:      registry.Server.Host,
		Port:      registry.Server.Port,
		DBPath:    registry.Server.Database,
		GitHubAPI: "",
		MDNS:      registry.Server.MDNS && mdns,
	}
	if registry.GitHub != nil {
		cfg.GitHubAPI = registry.GitHub.APIBase
	}

	framingName := registry.Server.Framing
	if framing != "" {
		framingName = framing
	}
	f, err := protocol.ParseFraming(framingName)
	if err != nil {
		return server.Config{}, err
	}
	cfg.Framing = f

	if host != "" {
		cfg.Host = host
	}
	if port != 0 {
		cfg.Port = port
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if apiBase != "" {
		cfg.GitHubAPI = apiBase
	}

	if cfg.DBPath == "" {
		defaultDB, err := config.DefaultDatabasePath()
		if err != nil {
			return server.Config{}, fmt.Errorf("resolving database path: %w", err)
		}
		cfg.DBPath = defaultDB
	}

	return cfg, nil
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ghsync-server %s (commit: %s)\n", version.Version, version.Commit)
	},
}
