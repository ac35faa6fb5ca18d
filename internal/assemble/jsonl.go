package assemble

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mslw/publist/internal/citation"
)

// WriteDump writes the resolved citations as JSONL, one ResolvedCitation
// per line in output order, for downstream tooling. Each record carries
// its section name, so the flat file round-trips the grouping.
func WriteDump(path string, sections []citation.ResolvedSection) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating dump file: %w", err)
	}
	defer f.Close()

	for _, section := range sections {
		for _, rc := range section.Citations {
			data, err := json.Marshal(rc)
			if err != nil {
				return fmt.Errorf("encoding citation (section %q block %d): %w", rc.Section, rc.BlockIndex, err)
			}
			if _, err := f.Write(data); err != nil {
				return fmt.Errorf("writing citation: %w", err)
			}
			if _, err := f.WriteString("\n"); err != nil {
				return fmt.Errorf("writing newline: %w", err)
			}
		}
	}

	return nil
}
