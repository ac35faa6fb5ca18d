package resolve

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/mslw/publist/internal/citation"
)

// Disambiguation defaults. Crossref relevance scores are unitless; these
// are deliberately configurable parameters, not calibrated constants.
const (
	DefaultMinScore  = 60.0
	DefaultTieMargin = 5.0
)

// preprintType is the Crossref work type for preprints and other
// posted content; disambiguation prefers final published works over it.
const preprintType = "posted-content"

// ResolveFallback runs the two-stage fallback for a block with no
// extractable identifier: a free-text bibliographic search, disambiguation
// of near-tied candidates, then a second identifier-keyed fetch through
// the regular dispatcher. The search hit itself is never used as final
// metadata, and the raw citation text is never substituted for a verified
// identifier.
//
// Per-block state machine: NoIdentifier -> BibSearch ->
// {NoCandidate | Ambiguous | Accepted -> DOIRequery -> {Resolved | Unresolved}}.
func (c *Client) ResolveFallback(ctx context.Context, citationText string) (*citation.Item, citation.Identifier, error) {
	candidates, err := c.Search(ctx, citationText)
	if err != nil {
		return nil, citation.Identifier{}, err
	}

	winner, err := c.disambiguate(candidates, citationText)
	if err != nil {
		return nil, citation.Identifier{}, err
	}

	if winner.DOI == "" {
		return nil, citation.Identifier{}, fmt.Errorf("%w: accepted candidate %q has no DOI", ErrNoMatch, winner.Title)
	}

	id := citation.Identifier{
		Kind:   citation.KindDOI,
		Value:  winner.DOI,
		Origin: citation.OriginBibQuery,
	}

	item, err := c.Resolve(ctx, id)
	if err != nil {
		return nil, id, err
	}
	return item, id, nil
}

// disambiguate picks the single acceptable candidate, or fails with
// ErrNoMatch / ErrAmbiguousMatch. Never guesses.
func (c *Client) disambiguate(candidates []Candidate, citationText string) (Candidate, error) {
	if len(candidates) == 0 {
		return Candidate{}, ErrNoMatch
	}

	// Crossref returns items ranked by score, but re-sort so the threshold
	// and margin are anchored to the true leader.
	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })

	leader := sorted[0]
	if leader.Score < c.minScore {
		return Candidate{}, fmt.Errorf("%w: best score %.1f below threshold %.1f", ErrNoMatch, leader.Score, c.minScore)
	}

	// Near-ties: everything within the margin of the leader.
	ties := []Candidate{leader}
	for _, cand := range sorted[1:] {
		if leader.Score-cand.Score <= c.tieMargin {
			ties = append(ties, cand)
		}
	}
	if len(ties) == 1 {
		return leader, nil
	}

	// Tie-break 1: prefer final published works over posted content.
	if published := filterCandidates(ties, func(cand Candidate) bool {
		return cand.Type != preprintType
	}); len(published) > 0 {
		ties = published
	}
	if len(ties) == 1 {
		return ties[0], nil
	}

	// Tie-break 2: most recent publication year.
	maxYear := 0
	for _, cand := range ties {
		if cand.Year > maxYear {
			maxYear = cand.Year
		}
	}
	ties = filterCandidates(ties, func(cand Candidate) bool { return cand.Year == maxYear })
	if len(ties) == 1 {
		return ties[0], nil
	}

	// Tie-break 3: strictly larger title token overlap with the input.
	input := tokenSet(citationText)
	bestOverlap, bestCount := -1, 0
	var best Candidate
	for _, cand := range ties {
		overlap := overlapSize(input, tokenSet(cand.Title))
		switch {
		case overlap > bestOverlap:
			bestOverlap, bestCount, best = overlap, 1, cand
		case overlap == bestOverlap:
			bestCount++
		}
	}
	if bestCount == 1 {
		return best, nil
	}

	return Candidate{}, fmt.Errorf("%w: %d candidates within %.1f of score %.1f", ErrAmbiguousMatch, len(ties), c.tieMargin, leader.Score)
}

func filterCandidates(in []Candidate, keep func(Candidate) bool) []Candidate {
	var out []Candidate
	for _, cand := range in {
		if keep(cand) {
			out = append(out, cand)
		}
	}
	return out
}

var nonWord = regexp.MustCompile(`[^a-z0-9]+`)

// tokenSet lowercases, strips punctuation, and splits into a word set.
func tokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range nonWord.Split(strings.ToLower(text), -1) {
		if tok != "" {
			set[tok] = true
		}
	}
	return set
}

func overlapSize(a, b map[string]bool) int {
	n := 0
	for tok := range b {
		if a[tok] {
			n++
		}
	}
	return n
}
