package cache

import (
	"context"

	"golang.org/x/time/rate"
)

// DefaultRateLimit is the outbound request rate per remote host. NCBI asks
// for at most 3 requests per second without an API key; the same ceiling
// is polite for doi.org and Crossref.
const DefaultRateLimit = 3.0

// Throttle limits outbound request rate per remote host, independently of
// caching. Cache hits never consume rate-limit budget; misses do.
type Throttle struct {
	limit    rate.Limit
	limiters map[string]*rate.Limiter
}

// NewThrottle creates a throttle with the given per-host requests/second.
// A non-positive limit falls back to DefaultRateLimit.
func NewThrottle(perSecond float64) *Throttle {
	if perSecond <= 0 {
		perSecond = DefaultRateLimit
	}
	return &Throttle{
		limit:    rate.Limit(perSecond),
		limiters: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until a request to the given host is allowed, or the context
// is cancelled. The pipeline is single-threaded so the limiter map needs
// no locking.
func (t *Throttle) Wait(ctx context.Context, host string) error {
	lim, ok := t.limiters[host]
	if !ok {
		lim = rate.NewLimiter(t.limit, 1)
		t.limiters[host] = lim
	}
	return lim.Wait(ctx)
}
