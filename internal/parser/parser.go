// Package parser splits hand-edited plaintext publication lists into
// sections of citation blocks.
package parser

import (
	"fmt"
	"strings"

	"github.com/mslw/publist/internal/citation"
)

// MaxBlockLines is the maximum number of lines allowed in one citation
// block: citation text, optional URL, optional comment.
const MaxBlockLines = 3

// MalformedBlockError reports an input paragraph that violates the block
// shape rules. It is fatal: input correctness is a precondition the caller
// must fix, and no network activity happens before parsing completes.
type MalformedBlockError struct {
	Line    int    // 1-based line number where the paragraph starts
	Reason  string // what rule was violated
	Content string // first line of the offending paragraph
}

func (e *MalformedBlockError) Error() string {
	return fmt.Sprintf("malformed block at line %d (%q): %s", e.Line, e.Content, e.Reason)
}

// isURLLine reports whether a line should be classified as the block's URL.
func isURLLine(line string) bool {
	return strings.HasPrefix(line, "http://") || strings.HasPrefix(line, "https://")
}

// isHeader reports whether a paragraph opens a new section.
func isHeader(lines []string) bool {
	return len(lines) > 0 && strings.HasPrefix(lines[0], "*")
}

// headerName strips the `*` markers and surrounding space from a header line.
func headerName(line string) string {
	return strings.TrimSpace(strings.TrimLeft(line, "*"))
}

// Parse splits raw input text into ordered sections of citation blocks.
// Paragraphs are separated by one or more blank lines. A paragraph whose
// first character is `*` opens a new section; following paragraphs belong
// to it until the next header. Paragraphs before any header go to a
// section with an empty name.
//
// Within a block, line 1 is the citation text; of lines 2-3, a line
// starting with http:// or https:// is the URL and any other line is the
// comment. More than 3 lines, two URL lines, or two comment lines is a
// MalformedBlockError.
func Parse(text string) ([]citation.Section, error) {
	var sections []citation.Section
	current := -1 // index into sections; -1 until first block or header

	appendBlock := func(block citation.CitationBlock) {
		if current < 0 {
			sections = append(sections, citation.Section{Name: ""})
			current = len(sections) - 1
		}
		sections[current].Blocks = append(sections[current].Blocks, block)
	}

	for _, p := range splitParagraphs(text) {
		if isHeader(p.lines) {
			sections = append(sections, citation.Section{Name: headerName(p.lines[0])})
			current = len(sections) - 1
			continue
		}

		block, err := classify(p)
		if err != nil {
			return nil, err
		}
		appendBlock(block)
	}

	return sections, nil
}

// paragraph is a run of consecutive non-blank lines.
type paragraph struct {
	startLine int // 1-based line number of the first line
	lines     []string
}

// splitParagraphs splits text into paragraphs on blank lines, trimming
// surrounding whitespace from each line.
func splitParagraphs(text string) []paragraph {
	var paras []paragraph
	var cur *paragraph

	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			cur = nil
			continue
		}
		if cur == nil {
			paras = append(paras, paragraph{startLine: i + 1})
			cur = &paras[len(paras)-1]
		}
		cur.lines = append(cur.lines, line)
	}

	return paras
}

// classify turns a non-header paragraph into a citation block, enforcing
// the shape rules.
func classify(p paragraph) (citation.CitationBlock, error) {
	var block citation.CitationBlock

	if len(p.lines) > MaxBlockLines {
		return block, &MalformedBlockError{
			Line:    p.startLine,
			Reason:  fmt.Sprintf("too many lines (%d, max %d)", len(p.lines), MaxBlockLines),
			Content: p.lines[0],
		}
	}

	block.CitationText = p.lines[0]

	for _, line := range p.lines[1:] {
		if isURLLine(line) {
			if block.URL != "" {
				return citation.CitationBlock{}, &MalformedBlockError{
					Line:    p.startLine,
					Reason:  "more than one URL line",
					Content: p.lines[0],
				}
			}
			block.URL = line
			continue
		}
		if block.Comment != "" {
			return citation.CitationBlock{}, &MalformedBlockError{
				Line:    p.startLine,
				Reason:  "more than one comment line",
				Content: p.lines[0],
			}
		}
		block.Comment = line
	}

	return block, nil
}
