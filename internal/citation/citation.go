// Package citation defines the core domain types for publication-list entries.
package citation

// Kind identifies the scholarly identifier scheme.
type Kind string

const (
	KindPMID  Kind = "pmid"
	KindPMCID Kind = "pmcid"
	KindDOI   Kind = "doi"
)

// priority orders identifier kinds for selection. Lower is better.
var priority = map[Kind]int{
	KindPMID:  0,
	KindPMCID: 1,
	KindDOI:   2,
}

// Priority returns the selection rank of a kind (PMID before PMCID before DOI).
func (k Kind) Priority() int {
	p, ok := priority[k]
	if !ok {
		return len(priority)
	}
	return p
}

// Origin records where an identifier was found.
type Origin string

const (
	OriginExplicitText Origin = "explicit-text"
	OriginURLPattern   Origin = "url-pattern"
	OriginBibQuery     Origin = "bibliographic-query"
)

// Identifier is a scholarly identifier extracted from a citation block
// or obtained from a bibliographic search.
type Identifier struct {
	Kind   Kind   `json:"kind"`
	Value  string `json:"value"`
	Origin Origin `json:"origin"`
}

// CitationBlock is one blank-line-delimited paragraph of the input file:
// a citation text plus an optional URL line and an optional comment line.
type CitationBlock struct {
	CitationText string `json:"citation_text"`
	URL          string `json:"url,omitempty"`
	Comment      string `json:"comment,omitempty"`
}

// Section groups citation blocks under a `*`-prefixed header line.
// Blocks appearing before any header belong to a section with an empty name.
type Section struct {
	Name   string          `json:"name"`
	Blocks []CitationBlock `json:"blocks"`
}

// Status is the terminal resolution state of a citation.
type Status string

const (
	StatusResolved   Status = "resolved"
	StatusUnresolved Status = "unresolved"
)

// ResolvedCitation is the output record for one input block. Every input
// block produces exactly one ResolvedCitation, in input order. Unresolved
// entries keep the raw citation text as their display text.
type ResolvedCitation struct {
	Section    string      `json:"section"`
	BlockIndex int         `json:"block_index"`
	RawText    string      `json:"raw_text"`
	Identifier *Identifier `json:"identifier,omitempty"`
	Metadata   *Item       `json:"metadata,omitempty"`
	Comment    string      `json:"comment,omitempty"`
	Status     Status      `json:"status"`
	Error      string      `json:"error,omitempty"`
}

// ResolvedSection pairs a section name with its resolved citations,
// preserving input order end-to-end.
type ResolvedSection struct {
	Name      string             `json:"name"`
	Citations []ResolvedCitation `json:"citations"`
}
