package format

import (
	"regexp"
	"strconv"
	"strings"
)

// payloadClass is the pre-extraction classification of a raw agent payload.
type payloadClass int

const (
	payloadNormal payloadClass = iota
	payloadThrottled
	payloadFailed
)

// classification carries the payload class and, for degraded payloads, the
// extracted diagnostics.
type classification struct {
	class         payloadClass
	message       string
	retryAfterSec int
}

// Upstream throttle markers, matched case-insensitively against the raw
// payload. The upstream surfaces 429s as text inside an otherwise 200-shaped
// body, so status-line inspection alone is not enough.
var throttleMarkers = []string{
	"toomanyrequests",
	"rate limit is exceeded",
	"status code '429'",
	"rate limit",
	"too many requests",
}

// Upstream hard-failure markers. Probed only after the throttle markers so a
// throttled payload mentioning "failed" is still classified as throttled.
var failureMarkers = []string{
	"error processing search request",
	"agentic retrieval failed",
	"system.net.http.httprequestexception",
	`"error":{`,
	"exception:",
	"failed:",
}

var reRetryAfter = regexp.MustCompile(`(?i)try again in (\d+) seconds`)

const messageLimit = 200

// classifyPayload inspects the raw payload for upstream throttle and failure
// markers before any structural parsing. Normal payloads pass through
// untouched.
func classifyPayload(raw string) classification {
	lower := strings.ToLower(raw)

	for _, marker := range throttleMarkers {
		if strings.Contains(lower, marker) {
			return classification{
				class:         payloadThrottled,
				message:       extractMessage(raw, marker),
				retryAfterSec: retryAfterHint(raw),
			}
		}
	}

	for _, marker := range failureMarkers {
		if strings.Contains(lower, marker) {
			return classification{
				class:   payloadFailed,
				message: extractMessage(raw, marker),
			}
		}
	}

	return classification{class: payloadNormal}
}

// retryAfterHint parses the "try again in N seconds" hint, 0 when absent.
func retryAfterHint(raw string) int {
	m := reRetryAfter.FindStringSubmatch(raw)
	if m == nil {
		return 0
	}
	sec, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return sec
}

// extractMessage returns a bounded diagnostic snippet starting at the first
// occurrence of the marker.
func extractMessage(raw, marker string) string {
	idx := strings.Index(strings.ToLower(raw), marker)
	if idx < 0 {
		idx = 0
	}

	snippet := strings.TrimSpace(raw[idx:])
	if len(snippet) > messageLimit {
		snippet = snippet[:messageLimit]
	}
	return snippet
}
