package resolve

import (
	"errors"
	"fmt"

	"github.com/mslw/publist/internal/citation"
)

// Sentinel errors for resolution outcomes. All are recovered at the block
// level: the citation is marked unresolved and the run continues.
var (
	// ErrNoIdentifier signals that extraction produced no candidates and
	// the fallback resolver should run.
	ErrNoIdentifier = errors.New("no identifier found")

	// ErrNoMatch indicates the bibliographic search returned no candidate
	// clearing the relevance threshold.
	ErrNoMatch = errors.New("no bibliographic match")

	// ErrAmbiguousMatch indicates near-tied candidates survived every
	// tie-break. The resolver never guesses.
	ErrAmbiguousMatch = errors.New("ambiguous bibliographic match")
)

// UnresolvedIdentifierError reports that a chosen identifier's metadata
// fetch failed or returned an unparsable record.
type UnresolvedIdentifierError struct {
	Identifier citation.Identifier
	Err        error
}

func (e *UnresolvedIdentifierError) Error() string {
	return fmt.Sprintf("resolving %s %s: %v", e.Identifier.Kind, e.Identifier.Value, e.Err)
}

func (e *UnresolvedIdentifierError) Unwrap() error {
	return e.Err
}

// TransientError marks a failure worth retrying: a timeout or a 5xx from
// the remote service.
type TransientError struct {
	StatusCode int // 0 for network-level failures
	Err        error
}

func (e *TransientError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("transient service error (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("transient service error: %v", e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether an error should be retried with backoff.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// ServiceError reports a non-transient HTTP failure (4xx) from a metadata
// service. Not retried.
type ServiceError struct {
	StatusCode int
	URL        string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("service returned status %d for %s", e.StatusCode, e.URL)
}
