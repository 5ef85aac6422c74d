package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "strand",
		Short: "Server-side rendering for Go web applications",
		Long: `Strand renders pages on the server and hydrates them in the
browser. Each request runs a loader, renders the page into an
HTML shell, and ships the loaded data to the client for
hydration.

Features:
  • Per-request data loading with a query cache
  • File-based style routing with layouts
  • Development mode with live reload
  • Production artifact serving from disk or S3`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
