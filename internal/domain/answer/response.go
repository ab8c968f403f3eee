package answer

// Status distinguishes degraded outcomes that are not hard failures.
type Status string

// Response statuses.
const (
	// StatusOK is a normally processed response.
	StatusOK Status = "ok"
	// StatusPending signals a soft-pending upstream: the agent exists but its
	// permissions have not propagated yet, so the resource should become
	// available shortly. Not a hard error.
	StatusPending Status = "pending"
	// StatusThrottled signals an upstream rate limit.
	StatusThrottled Status = "throttled"
)

// Response is the canonical search response envelope.
//
// Invariants, enforced by the constructors:
//   - success == false implies a non-empty error and no result;
//   - success == true implies a present result (collections may be empty).
type Response struct {
	success       bool
	status        Status
	searchType    SearchType
	query         string
	result        *Result
	metadata      *Metadata
	errMsg        string
	retryAfterSec int
	rawPayload    string
}

// NewSuccess creates a successful response.
func NewSuccess(searchType SearchType, query string, result Result, metadata Metadata, raw string) Response {
	return Response{
		success:    true,
		status:     StatusOK,
		searchType: searchType,
		query:      query,
		result:     &result,
		metadata:   &metadata,
		rawPayload: raw,
	}
}

// NewFailure creates a failed response. An empty errMsg is replaced with a
// generic message so the invariant holds.
func NewFailure(searchType SearchType, query, errMsg, raw string) Response {
	if errMsg == "" {
		errMsg = "search request failed"
	}
	return Response{
		success:    false,
		status:     StatusOK,
		searchType: searchType,
		query:      query,
		errMsg:     errMsg,
		rawPayload: raw,
	}
}

// NewPending creates a soft-pending response.
func NewPending(searchType SearchType, query string) Response {
	return Response{
		success:    false,
		status:     StatusPending,
		searchType: searchType,
		query:      query,
		errMsg:     "knowledge agent permissions are still propagating; retry shortly",
	}
}

// NewThrottled creates a throttled response with an optional retry hint.
func NewThrottled(searchType SearchType, query string, retryAfterSec int, raw string) Response {
	return Response{
		success:       false,
		status:        StatusThrottled,
		searchType:    searchType,
		query:         query,
		errMsg:        "upstream rate limit exceeded",
		retryAfterSec: retryAfterSec,
		rawPayload:    raw,
	}
}

// Success reports whether the search succeeded.
func (r *Response) Success() bool { return r.success }

// Status returns the response status.
func (r *Response) Status() Status { return r.status }

// SearchType returns the retrieval flavor.
func (r *Response) SearchType() SearchType { return r.searchType }

// Query returns the original query text.
func (r *Response) Query() string { return r.query }

// Result returns the formatted result, present iff Success.
func (r *Response) Result() (Result, bool) {
	if r.result == nil {
		return Result{}, false
	}
	return *r.result, true
}

// Metadata returns the trace metadata, if present.
func (r *Response) Metadata() (Metadata, bool) {
	if r.metadata == nil {
		return Metadata{}, false
	}
	return *r.metadata, true
}

// Error returns the error message, non-empty iff not Success.
func (r *Response) Error() string { return r.errMsg }

// RetryAfterSec returns the upstream retry hint in seconds (0 if unknown).
func (r *Response) RetryAfterSec() int { return r.retryAfterSec }

// RawPayload returns the original agent payload verbatim, retained for audit.
func (r *Response) RawPayload() string { return r.rawPayload }
