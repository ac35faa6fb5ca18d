package resolve

import (
	"context"
	"fmt"
	"net/url"

	"github.com/mslw/publist/internal/citation"
)

// Resolve fetches the canonical CSL metadata for a single identifier,
// routing by kind: PMID and PMCID go to the NCBI literature citation
// exporter, DOIs to content-negotiated doi.org resolution. Failures come
// back as *UnresolvedIdentifierError; the caller marks the citation
// unresolved and continues.
func (c *Client) Resolve(ctx context.Context, id citation.Identifier) (*citation.Item, error) {
	u, accept, err := c.requestFor(id)
	if err != nil {
		return nil, &UnresolvedIdentifierError{Identifier: id, Err: err}
	}

	body, err := c.fetch(ctx, u, accept)
	if err != nil {
		return nil, &UnresolvedIdentifierError{Identifier: id, Err: err}
	}

	item, err := citation.ParseItem(body)
	if err != nil {
		return nil, &UnresolvedIdentifierError{Identifier: id, Err: err}
	}

	return item, nil
}

// requestFor maps an identifier to its service URL and Accept header.
func (c *Client) requestFor(id citation.Identifier) (*url.URL, string, error) {
	switch id.Kind {
	case citation.KindPMID:
		return c.exporterURL("pubmed", id.Value)
	case citation.KindPMCID:
		// PMCIDs are stored as bare digits; the exporter wants the PMC prefix.
		return c.exporterURL("pmc", "PMC"+id.Value)
	case citation.KindDOI:
		u, err := url.Parse(c.doiBase + "/" + id.Value)
		if err != nil {
			return nil, "", fmt.Errorf("building DOI URL: %w", err)
		}
		return u, cslAccept, nil
	default:
		return nil, "", fmt.Errorf("unknown identifier kind %q", id.Kind)
	}
}

// exporterURL builds a citation-exporter request for the pubmed or pmc
// database.
func (c *Client) exporterURL(db, id string) (*url.URL, string, error) {
	u, err := url.Parse(c.exporterBase + "/" + db + "/")
	if err != nil {
		return nil, "", fmt.Errorf("building exporter URL: %w", err)
	}

	q := u.Query()
	q.Set("format", "csl")
	q.Set("contenttype", "json")
	q.Set("id", id)
	u.RawQuery = q.Encode()

	return u, "", nil
}
