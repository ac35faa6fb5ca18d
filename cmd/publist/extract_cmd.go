package main

import (
	"fmt"

	"github.com/mslw/publist/internal/citation"
	"github.com/mslw/publist/internal/extract"
	"github.com/spf13/cobra"
)

var extractURLFlag string

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVar(&extractURLFlag, "url", "", "URL line to match alongside the citation text")
}

var extractCmd = &cobra.Command{
	Use:   "extract <citation-text>",
	Short: "Show identifiers matched in a citation text",
	Long: `Show the identifier candidates matched in a citation text, and which one
the dispatcher would select. No network activity.

Examples:
  publist extract "Doe J et al (2023). PMID: 123456"
  publist extract "Doe J et al (2023)" --url https://doi.org/10.1000/xyz`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

// ExtractResult is the JSON output for publist extract.
type ExtractResult struct {
	Candidates []citation.Identifier `json:"candidates"`
	Selected   *citation.Identifier  `json:"selected,omitempty"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	extractor, err := extract.New(cfg.PublisherPatterns)
	if err != nil {
		exitWithError(ExitConfigError, "building extractor: %v", err)
	}

	candidates := extractor.Extract(citation.CitationBlock{
		CitationText: args[0],
		URL:          extractURLFlag,
	})

	result := ExtractResult{Candidates: candidates}
	if selected, ok := extract.Select(candidates); ok {
		result.Selected = &selected
	}

	if humanOutput {
		if len(candidates) == 0 {
			fmt.Println("No identifiers found (would fall back to bibliographic search).")
			return nil
		}
		for _, id := range candidates {
			marker := " "
			if result.Selected != nil && *result.Selected == id {
				marker = ">"
			}
			fmt.Printf("%s %s: %s (%s)\n", marker, id.Kind, id.Value, id.Origin)
		}
	} else {
		outputJSON(result)
	}

	return nil
}
