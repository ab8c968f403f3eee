package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAgentNotFound signals that the knowledge agent does not exist upstream.
	ErrAgentNotFound = errors.New("knowledge agent not found")
	// ErrAgentPending signals that the agent exists but its permissions have not
	// propagated yet; the resource is expected to become available shortly.
	ErrAgentPending = errors.New("knowledge agent pending")
	// ErrRateLimited signals an upstream rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrRetrieverUnavailable signals that no retriever is configured for a search type.
	ErrRetrieverUnavailable = errors.New("retriever unavailable")
	// ErrUnknownSearchType signals an unrecognized search type.
	ErrUnknownSearchType = errors.New("unknown search type")
	// ErrEmptyQuery signals a missing query string.
	ErrEmptyQuery = errors.New("empty query")
)

// RateLimitedError wraps ErrRateLimited with the upstream retry hint.
type RateLimitedError struct {
	RetryAfterSec int
}

func (e *RateLimitedError) Error() string {
	if e.RetryAfterSec > 0 {
		return fmt.Sprintf("%s: retry after %d seconds", ErrRateLimited.Error(), e.RetryAfterSec)
	}
	return ErrRateLimited.Error()
}

func (e *RateLimitedError) Unwrap() error { return ErrRateLimited }

// NewRateLimited creates a rate limit error with a retry hint (0 if unknown).
func NewRateLimited(retryAfterSec int) error {
	return &RateLimitedError{RetryAfterSec: retryAfterSec}
}
