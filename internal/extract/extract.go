// Package extract finds scholarly identifiers (PMID, PMCID, DOI) in
// citation blocks by pattern matching.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mslw/publist/internal/citation"
)

// rule is one pattern in the extraction table. Rules are applied in table
// order against each line; capture group 1 is the identifier value.
type rule struct {
	re     *regexp.Regexp
	kind   citation.Kind
	origin citation.Origin
}

// Explicit tagged identifiers: tag is case-insensitive, space after the
// colon optional. The DOI suffix takes any non-space characters; trailing
// sentence punctuation is stripped afterwards since RE2 has no lookbehind.
var (
	rePMIDTag  = regexp.MustCompile(`(?i)\bPMID:\s?(\d+)`)
	rePMCIDTag = regexp.MustCompile(`(?i)\bPMCID:\s?PMC(\d+)`)
	reDOITag   = regexp.MustCompile(`(?i)\bdoi:\s?(10\.[\d.]+/\S+)`)

	// DOI resolver URL forms.
	reDOIURL = regexp.MustCompile(`(?:dx\.)?doi\.org/(10\.\d{4,9}/\S+)`)

	// PubMed and PMC content URLs.
	rePubMedURL = regexp.MustCompile(`pubmed\.ncbi\.nlm\.nih\.gov/(\d+)`)
	rePMCURL    = regexp.MustCompile(`ncbi\.nlm\.nih\.gov/pmc/articles/PMC(\d+)`)
)

// PublisherPattern is a configurable publisher URL rule whose capture
// group 1 must be a full DOI. New publishers are added by appending rows,
// not by branching logic.
type PublisherPattern struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
}

// DefaultPublisherPatterns covers common journal-site URL shapes that
// embed a DOI in the path or query.
var DefaultPublisherPatterns = []PublisherPattern{
	// Wiley, ACS, Taylor&Francis, SAGE, Liebert: .../doi/[abs|full|pdf/]10.x/y
	{Name: "doi-path", Pattern: `/doi/(?:abs/|full/|epdf/|pdf/)?(10\.\d{4,9}/[^\s?#]+)`},
	// PLOS: .../article?id=10.1371/journal.pone.0000000
	{Name: "plos", Pattern: `journals\.plos\.org/\S*?[?&]id=(10\.\d{4,9}/[^\s&]+)`},
	// Frontiers: .../articles/10.3389/fnins.2023.000000/full
	{Name: "frontiers", Pattern: `frontiersin\.org/articles/(10\.\d{4,9}/[^\s/?#]+)`},
	// bioRxiv/medRxiv: .../content/10.1101/2023.06.12.544576v1
	{Name: "rxiv", Pattern: `(?:bio|med)rxiv\.org/content/(10\.\d{4,9}/[\d.]+)`},
}

// Extractor applies the identifier pattern table to citation blocks.
type Extractor struct {
	rules []rule
}

// New builds an extractor with the default rule table plus any extra
// publisher patterns (typically from configuration). Extra patterns slot
// in after the built-in publisher rows, before the PubMed/PMC URL rules.
func New(extra []PublisherPattern) (*Extractor, error) {
	rules := []rule{
		{rePMIDTag, citation.KindPMID, citation.OriginExplicitText},
		{rePMCIDTag, citation.KindPMCID, citation.OriginExplicitText},
		{reDOITag, citation.KindDOI, citation.OriginExplicitText},
		{reDOIURL, citation.KindDOI, citation.OriginURLPattern},
	}

	for _, p := range append(append([]PublisherPattern{}, DefaultPublisherPatterns...), extra...) {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("publisher pattern %q: %w", p.Name, err)
		}
		if re.NumSubexp() < 1 {
			return nil, fmt.Errorf("publisher pattern %q has no capture group", p.Name)
		}
		rules = append(rules, rule{re, citation.KindDOI, citation.OriginURLPattern})
	}

	rules = append(rules,
		rule{rePubMedURL, citation.KindPMID, citation.OriginURLPattern},
		rule{rePMCURL, citation.KindPMCID, citation.OriginURLPattern},
	)

	return &Extractor{rules: rules}, nil
}

// Extract returns the candidate identifiers found in a block, applying the
// rule table to the citation text first and the URL line second. An empty
// result is not an error; it is the normal trigger for fallback resolution.
//
// Conflicting values for the same kind keep the first match under the
// line-then-rule iteration order; later matches are discarded.
func (x *Extractor) Extract(block citation.CitationBlock) []citation.Identifier {
	var found []citation.Identifier
	seen := make(map[citation.Kind]bool)

	lines := []string{block.CitationText}
	if block.URL != "" {
		lines = append(lines, block.URL)
	}

	for _, line := range lines {
		for _, r := range x.rules {
			for _, m := range r.re.FindAllStringSubmatch(line, -1) {
				value := cleanValue(r.kind, m[1])
				if value == "" || seen[r.kind] {
					continue
				}
				seen[r.kind] = true
				found = append(found, citation.Identifier{
					Kind:   r.kind,
					Value:  value,
					Origin: r.origin,
				})
			}
		}
	}

	return found
}

// cleanValue normalizes a captured identifier value. DOIs lose trailing
// sentence punctuation picked up by the greedy suffix match.
func cleanValue(kind citation.Kind, value string) string {
	if kind == citation.KindDOI {
		value = strings.TrimRight(value, ".,;")
	}
	return strings.TrimSpace(value)
}

// Select picks the single identifier to resolve from a candidate set using
// the fixed priority PMID > PMCID > DOI, irrespective of origin. Returns
// false when the set is empty.
func Select(candidates []citation.Identifier) (citation.Identifier, bool) {
	if len(candidates) == 0 {
		return citation.Identifier{}, false
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Kind.Priority() < best.Kind.Priority() {
			best = c
		}
	}
	return best, true
}
