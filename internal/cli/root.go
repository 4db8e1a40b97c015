// Package cli provides the command-line interface for ontograph.
package cli

import (
	"fmt"
	"os"

	"github.com/raphaelgruber/ontograph/internal/client"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose   bool
	serverURL string

	// HTTP client for the ontograph server, created before every command.
	apiClient *client.Client
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ontograph",
	Short: "Ontology-scoped knowledge graph extraction",
	Long: `Ontograph extracts knowledge graphs from unstructured text, constrained
by named ontologies: which entity types exist, which relationships are
allowed between them, and which types are properties rather than nodes.

All commands talk to a running ontograph server.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		apiClient = client.New(serverURL)
	},
}

// Execute adds all child commands to the root command and runs it. Command
// failures print to stderr and exit nonzero.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		exitWithError("%v", err)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "server URL (default ONTOGRAPH_SERVER_URL or http://localhost:8000)")
}

// exitWithError prints an error message and exits with code 1.
func exitWithError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
