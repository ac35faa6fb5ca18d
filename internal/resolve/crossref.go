package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// DefaultSearchRows is how many candidate works the bibliographic search
// requests per query.
const DefaultSearchRows = 5

// Candidate is one work returned by the bibliographic search: enough to
// disambiguate and to extract a DOI, but never final metadata.
type Candidate struct {
	Title string
	Type  string
	DOI   string
	Year  int
	Score float64
}

// crossrefWork mirrors the fields of a Crossref REST work item the
// fallback resolver consumes. Titles come back as arrays.
type crossrefWork struct {
	Title  []string `json:"title"`
	Type   string   `json:"type"`
	DOI    string   `json:"DOI"`
	Score  float64  `json:"score"`
	Issued struct {
		DateParts [][]int `json:"date-parts"`
	} `json:"issued"`
}

// Search issues a free-text bibliographic query against the Crossref works
// API and returns the ranked candidate list. An empty list is not an
// error: the caller decides what a miss means.
func (c *Client) Search(ctx context.Context, text string) ([]Candidate, error) {
	u, err := url.Parse(c.crossrefBase + "/works")
	if err != nil {
		return nil, fmt.Errorf("building search URL: %w", err)
	}

	q := u.Query()
	q.Set("query.bibliographic", text)
	q.Set("rows", strconv.Itoa(c.searchRows))
	q.Set("select", "title,type,DOI,score,issued")
	if c.email != "" {
		// Crossref routes requests with a mailto into the polite pool.
		q.Set("mailto", c.email)
	}
	u.RawQuery = q.Encode()

	body, err := c.fetch(ctx, u, "")
	if err != nil {
		return nil, fmt.Errorf("bibliographic search: %w", err)
	}

	var resp struct {
		Message struct {
			Items []crossrefWork `json:"items"`
		} `json:"message"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	candidates := make([]Candidate, 0, len(resp.Message.Items))
	for _, w := range resp.Message.Items {
		cand := Candidate{
			Type:  w.Type,
			DOI:   w.DOI,
			Score: w.Score,
		}
		if len(w.Title) > 0 {
			cand.Title = w.Title[0]
		}
		if len(w.Issued.DateParts) > 0 && len(w.Issued.DateParts[0]) > 0 {
			cand.Year = w.Issued.DateParts[0][0]
		}
		candidates = append(candidates, cand)
	}

	return candidates, nil
}
