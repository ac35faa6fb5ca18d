// Package resolve dispatches identifiers to metadata services and runs
// the bibliographic fallback search when no identifier is available.
package resolve

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mslw/publist/internal/cache"
)

// Service base URLs. Overridable per client for testing.
const (
	// CitationExporterBaseURL is the NCBI literature citation exporter,
	// serving CSL-JSON for PMIDs and PMCIDs.
	CitationExporterBaseURL = "https://api.ncbi.nlm.nih.gov/lit/ctxp/v1"

	// DOIBaseURL resolves DOIs via content negotiation.
	DOIBaseURL = "https://doi.org"

	// CrossrefBaseURL is the bibliographic search service.
	CrossrefBaseURL = "https://api.crossref.org"
)

// cslAccept requests CSL-JSON from the DOI resolver.
const cslAccept = "application/vnd.citationstyles.csl+json"

// Retry defaults for transient failures (timeouts, 5xx).
const (
	DefaultMaxRetries  = 3
	DefaultBackoffBase = 500 * time.Millisecond
	DefaultTimeout     = 30 * time.Second
)

// Client performs cached, throttled GET requests against the metadata
// services. The cache store is an explicit capability: a hit returns the
// stored body without network activity or rate-limit cost.
type Client struct {
	httpClient *http.Client
	store      *cache.Store
	throttle   *cache.Throttle
	userAgent  string
	email      string

	exporterBase string
	doiBase      string
	crossrefBase string

	maxRetries  int
	backoffBase time.Duration
	sleep       func(time.Duration) // replaceable in tests

	// Fallback disambiguation knobs.
	minScore   float64
	tieMargin  float64
	searchRows int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithUserAgent sets the User-Agent sent on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithEmail sets the contact email appended to Crossref queries (polite
// pool) and advertised in the User-Agent.
func WithEmail(email string) Option {
	return func(c *Client) { c.email = email }
}

// WithBaseURLs overrides the service base URLs (for testing). Empty
// strings keep the defaults.
func WithBaseURLs(exporter, doi, crossref string) Option {
	return func(c *Client) {
		if exporter != "" {
			c.exporterBase = exporter
		}
		if doi != "" {
			c.doiBase = doi
		}
		if crossref != "" {
			c.crossrefBase = crossref
		}
	}
}

// WithRetry sets the transient-failure retry budget and backoff base.
// Non-positive values keep the defaults.
func WithRetry(maxRetries int, backoffBase time.Duration) Option {
	return func(c *Client) {
		if maxRetries > 0 {
			c.maxRetries = maxRetries
		}
		if backoffBase > 0 {
			c.backoffBase = backoffBase
		}
	}
}

// WithThresholds sets the fallback acceptance threshold and near-tie
// margin. Non-positive values keep the defaults.
func WithThresholds(minScore, tieMargin float64) Option {
	return func(c *Client) {
		if minScore > 0 {
			c.minScore = minScore
		}
		if tieMargin > 0 {
			c.tieMargin = tieMargin
		}
	}
}

// WithSearchRows sets how many candidates the bibliographic search requests.
func WithSearchRows(rows int) Option {
	return func(c *Client) {
		if rows > 0 {
			c.searchRows = rows
		}
	}
}

// NewClient creates a resolution client over the given cache store and
// throttle.
func NewClient(store *cache.Store, throttle *cache.Throttle, opts ...Option) *Client {
	c := &Client{
		httpClient:   &http.Client{Timeout: DefaultTimeout},
		store:        store,
		throttle:     throttle,
		userAgent:    "publist/dev",
		exporterBase: CitationExporterBaseURL,
		doiBase:      DOIBaseURL,
		crossrefBase: CrossrefBaseURL,
		maxRetries:   DefaultMaxRetries,
		backoffBase:  DefaultBackoffBase,
		sleep:        time.Sleep,
		minScore:     DefaultMinScore,
		tieMargin:    DefaultTieMargin,
		searchRows:   DefaultSearchRows,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// fetch performs a cached GET. On a cache hit the stored body is returned
// with no network call. On a miss the request is throttled, retried on
// transient failures, and the body is durably stored before fetch returns,
// so a crash between fetch and use cannot lose the response.
func (c *Client) fetch(ctx context.Context, u *url.URL, accept string) ([]byte, error) {
	key := cache.Key(u, accept)

	if body, ok, err := c.store.Get(key); err != nil {
		return nil, fmt.Errorf("cache lookup: %w", err)
	} else if ok {
		return body, nil
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.sleep(c.backoffBase * time.Duration(1<<(attempt-1)))
		}

		body, err := c.doGet(ctx, u, accept)
		if err == nil {
			if err := c.store.Put(key, body); err != nil {
				return nil, fmt.Errorf("storing cache entry: %w", err)
			}
			return body, nil
		}
		lastErr = err
		if !IsTransient(err) {
			break
		}
	}

	return nil, lastErr
}

// doGet performs one throttled HTTP GET attempt.
func (c *Client) doGet(ctx context.Context, u *url.URL, accept string) ([]byte, error) {
	if err := c.throttle.Wait(ctx, u.Host); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent())
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &TransientError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, &TransientError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("server error for %s", u),
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ServiceError{StatusCode: resp.StatusCode, URL: u.String()}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransientError{Err: fmt.Errorf("reading response body: %w", err)}
	}
	return body, nil
}

// UserAgent returns the effective User-Agent string, advertising the
// contact email when configured.
func (c *Client) UserAgent() string {
	if c.email != "" {
		return fmt.Sprintf("%s (mailto:%s)", c.userAgent, c.email)
	}
	return c.userAgent
}
