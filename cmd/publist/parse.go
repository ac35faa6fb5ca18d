package main

import (
	"fmt"

	"github.com/mslw/publist/internal/citation"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(parseCmd)
}

var parseCmd = &cobra.Command{
	Use:   "parse <input.txt>",
	Short: "Parse a publication list without resolving anything",
	Long: `Parse a publication list into sections and citation blocks, without any
network activity. Useful for checking a hand-edited input file before a
full resolve run: malformed blocks are reported with their line number.

Examples:
  publist parse papers.txt
  publist parse papers.txt --human`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

// ParseResult is the JSON output for publist parse.
type ParseResult struct {
	Sections []citation.Section `json:"sections"`
	Blocks   int                `json:"blocks"`
}

func runParse(cmd *cobra.Command, args []string) error {
	sections := mustParseInput(args[0])

	result := ParseResult{Sections: sections}
	for _, s := range sections {
		result.Blocks += len(s.Blocks)
	}

	if humanOutput {
		for _, s := range sections {
			if s.Name != "" {
				fmt.Printf("* %s\n", s.Name)
			}
			for i, b := range s.Blocks {
				fmt.Printf("  [%d] %s\n", i, truncateString(b.CitationText, listTitleMaxLen))
				if b.URL != "" {
					fmt.Printf("      url: %s\n", b.URL)
				}
				if b.Comment != "" {
					fmt.Printf("      note: %s\n", b.Comment)
				}
			}
			fmt.Println()
		}
		fmt.Printf("%d sections, %d blocks\n", len(sections), result.Blocks)
	} else {
		outputJSON(result)
	}

	return nil
}
