package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for common failure modes.
var (
	ErrNotMarketplaceURL    = errors.New("not a marketplace URL")
	ErrIdentifierNotFound   = errors.New("no product identifier found in URL")
	ErrInvalidIdentifier    = errors.New("invalid product identifier")
	ErrMissingPartnerTag    = errors.New("partner tag not configured")
	ErrEmptyResponse        = errors.New("empty response body")
	ErrTimeout              = errors.New("request timed out")
	ErrRendererUnavailable  = errors.New("rendering capability unavailable")
	ErrGeneratorUnavailable = errors.New("text generation capability unavailable")

	// ErrStrategiesExhausted indicates the terminal fallback tier failed,
	// which should be impossible. Treated as an internal invariant violation.
	ErrStrategiesExhausted = errors.New("all resolution strategies exhausted")
)

// FetchError wraps errors that occur while fetching remote content.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
	Retryable  bool
	RetryAfter time.Duration // populated from Retry-After header on HTTP 429
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) IsRetryable() bool { return e.Retryable }

// ResolveError wraps errors that occur inside a resolution stage.
type ResolveError struct {
	Stage string
	ASIN  string
	Err   error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve error at stage %q (asin=%s): %v", e.Stage, e.ASIN, e.Err)
}

func (e *ResolveError) Unwrap() error { return e.Err }

// StorageError wraps errors from the record store.
type StorageError struct {
	Backend string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error (%s): %v", e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ValidationError carries the list of violated content rules.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("content validation failed: %s", strings.Join(e.Violations, "; "))
}
