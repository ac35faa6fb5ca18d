// Package main provides the publist CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// configPath overrides the config file location.
var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "publist",
	Short: "Resolve plaintext publication lists into citation metadata",
	Long: `publist turns hand-edited plaintext publication records into resolved,
uniquely-identified bibliographic entries with normalized CSL metadata.

Input is a UTF-8 text file: sections headed by a '*' line, citation blocks
separated by blank lines, each block a citation text plus an optional URL
and an optional comment line. publist extracts PMID/PMCID/DOI identifiers,
fetches authoritative metadata (NCBI citation exporter, doi.org content
negotiation), and falls back to a disambiguated Crossref search when no
identifier is present. Responses are cached on disk, so repeated runs are
idempotent and polite to the remote services.

All commands output JSON by default for downstream tooling.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/publist/config.yml)")
	rootCmd.Version = Version
}
