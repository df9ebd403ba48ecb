// Ghsync-client is the interactive terminal for ghsync servers.
//
// It connects over TCP, performs the login handshake, and provides an
// interactive prompt for the sync and listing commands. Servers on the
// local network can be found via mDNS discovery.
//
// Usage:
//
//	ghsync-client [command] [flags]
//
// Running without arguments connects to the configured default server.
// See 'ghsync-client --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/ghsync/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ghsync-client",
	Short: "Interactive ghsync terminal",
	Long: `An interactive terminal for ghsync servers.

Connects over TCP, logs in with a GitHub login, and provides a prompt for
the sync and listing commands. Use 'discover' to find servers advertised on
the local network.

If no command is specified, connects to the configured default server.`,
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: connect when no subcommand provided
		return runConnect(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ghsync-client %s (commit: %s)\n", version.Version, version.Commit)
	},
}
