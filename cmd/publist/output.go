package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mslw/publist/internal/citation"
)

// Title truncation length for human-readable listings.
const listTitleMaxLen = 70

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format (human or JSON)
// and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// printResolvedHuman prints resolved sections in human-readable format.
func printResolvedHuman(sections []citation.ResolvedSection) {
	for _, section := range sections {
		if section.Name != "" {
			fmt.Printf("* %s\n\n", section.Name)
		}
		for _, rc := range section.Citations {
			printCitationHuman(rc)
		}
	}
}

func printCitationHuman(rc citation.ResolvedCitation) {
	if rc.Status != citation.StatusResolved || rc.Metadata == nil {
		fmt.Printf("  [unresolved] %s\n", rc.RawText)
		if rc.Error != "" {
			fmt.Printf("    reason: %s\n", rc.Error)
		}
		fmt.Println()
		return
	}

	meta := rc.Metadata
	fmt.Printf("  %s\n", truncateString(meta.Title, listTitleMaxLen))

	var detail []string
	if authors := citation.FormatAuthorsShort(meta.Author, 3); authors != "" {
		detail = append(detail, authors)
	}
	if meta.ContainerTitle != "" {
		detail = append(detail, meta.ContainerTitle)
	}
	if year := meta.Year(); year > 0 {
		detail = append(detail, fmt.Sprintf("(%d)", year))
	}
	if len(detail) > 0 {
		fmt.Printf("    %s\n", strings.Join(detail, ", "))
	}

	if rc.Identifier != nil {
		fmt.Printf("    %s: %s\n", strings.ToUpper(string(rc.Identifier.Kind)), rc.Identifier.Value)
	}
	if rc.Comment != "" {
		fmt.Printf("    note: %s\n", rc.Comment)
	}
	fmt.Println()
}
