// Package assemble runs the resolution pipeline over parsed sections and
// normalizes every block into a ResolvedCitation, preserving input order.
package assemble

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mslw/publist/internal/citation"
	"github.com/mslw/publist/internal/extract"
)

// Resolver resolves identifiers to metadata. Satisfied by *resolve.Client;
// tests substitute a fake.
type Resolver interface {
	Resolve(ctx context.Context, id citation.Identifier) (*citation.Item, error)
	ResolveFallback(ctx context.Context, citationText string) (*citation.Item, citation.Identifier, error)
}

// Assembler drives extraction and resolution for each citation block and
// owns the final output records.
type Assembler struct {
	extractor *extract.Extractor
	resolver  Resolver
	highlight map[string]bool
	log       io.Writer
}

// New creates an assembler. highlightNames is a list of author family
// names to mark in resolved metadata (case-insensitive); log receives
// per-citation diagnostics and may be io.Discard.
func New(extractor *extract.Extractor, resolver Resolver, highlightNames []string, log io.Writer) *Assembler {
	highlight := make(map[string]bool, len(highlightNames))
	for _, name := range highlightNames {
		highlight[strings.ToLower(strings.TrimSpace(name))] = true
	}
	if log == nil {
		log = io.Discard
	}
	return &Assembler{
		extractor: extractor,
		resolver:  resolver,
		highlight: highlight,
		log:       log,
	}
}

// Run resolves every block of every section, in input order. Blocks are
// processed one at a time with blocking network calls; per-citation
// failures are recorded on the output record and never abort the run, so
// every input block appears in the output exactly once.
func (a *Assembler) Run(ctx context.Context, sections []citation.Section) []citation.ResolvedSection {
	out := make([]citation.ResolvedSection, 0, len(sections))

	for _, section := range sections {
		resolved := citation.ResolvedSection{Name: section.Name}
		for i, block := range section.Blocks {
			resolved.Citations = append(resolved.Citations, a.resolveBlock(ctx, section.Name, i, block))
		}
		out = append(out, resolved)
	}

	return out
}

// resolveBlock takes one block through extraction, dispatch, and the
// bibliographic fallback.
func (a *Assembler) resolveBlock(ctx context.Context, sectionName string, index int, block citation.CitationBlock) citation.ResolvedCitation {
	rc := citation.ResolvedCitation{
		Section:    sectionName,
		BlockIndex: index,
		RawText:    block.CitationText,
		Comment:    block.Comment,
		Status:     citation.StatusUnresolved,
	}

	var (
		item *citation.Item
		id   citation.Identifier
		err  error
	)

	candidates := a.extractor.Extract(block)
	if selected, ok := extract.Select(candidates); ok {
		id = selected
		item, err = a.resolver.Resolve(ctx, id)
	} else {
		item, id, err = a.resolver.ResolveFallback(ctx, block.CitationText)
	}

	if err != nil {
		rc.Error = err.Error()
		if id.Value != "" {
			rc.Identifier = &id
		}
		fmt.Fprintf(a.log, "unresolved: section %q block %d: %v\n", sectionName, index, err)
		return rc
	}

	a.markHighlights(item)
	rc.Identifier = &id
	rc.Metadata = item
	rc.Status = citation.StatusResolved
	return rc
}

// markHighlights flags authors whose family name is on the highlight list.
func (a *Assembler) markHighlights(item *citation.Item) {
	if len(a.highlight) == 0 {
		return
	}
	for i := range item.Author {
		if a.highlight[strings.ToLower(item.Author[i].Family)] {
			item.Author[i].Highlighted = true
		}
	}
}
