// Package activity models the agent's internal trace: one Record per step the
// agent took (planning, search, ranking) while answering a query.
package activity

import (
	"strings"
	"time"
)

// Kind classifies an activity trace entry.
type Kind string

// Activity kinds.
const (
	KindPlanning        Kind = "planning"
	KindSearch          Kind = "search"
	KindSemanticRanking Kind = "semantic_ranking"
	KindOther           Kind = "other"
)

// Exact upstream activity type tokens. Matched case-insensitively before any
// substring heuristic so that a type merely containing "search" is not
// mistaken for a retrieval step.
const (
	typePlanning       = "modelqueryplanning"
	typeSearch         = "azuresearchquery"
	typeSemanticRanker = "azuresearchsemanticranker"
)

// KindOf classifies an upstream activity type string.
func KindOf(typ string) Kind {
	t := strings.ToLower(strings.TrimSpace(typ))

	switch t {
	case typePlanning:
		return KindPlanning
	case typeSearch:
		return KindSearch
	case typeSemanticRanker:
		return KindSemanticRanking
	}

	// Substring fallback. SemanticRanker must be probed before Search:
	// ranker type names contain "search" too.
	switch {
	case strings.Contains(t, "planning"):
		return KindPlanning
	case strings.Contains(t, "semanticranker"):
		return KindSemanticRanking
	case strings.Contains(t, "search"):
		return KindSearch
	}
	return KindOther
}

// RecordFields holds the optional attributes of an activity record.
// Nil pointers mean the upstream entry did not carry the field.
type RecordFields struct {
	Query        *string
	Filter       *string
	ResultCount  *int
	ElapsedMs    *int
	QueryTime    *time.Time
	InputTokens  *int
	OutputTokens *int
}

// Record is a single normalized activity trace entry.
type Record struct {
	id     string
	kind   Kind
	fields RecordFields
}

// NewRecord creates an activity record.
func NewRecord(id string, kind Kind, fields RecordFields) Record {
	return Record{id: id, kind: kind, fields: fields}
}

// ID returns the trace entry identifier.
func (r *Record) ID() string { return r.id }

// Kind returns the classified activity kind.
func (r *Record) Kind() Kind { return r.kind }

// Query returns the search text, if any.
func (r *Record) Query() (string, bool) { return strOpt(r.fields.Query) }

// Filter returns the search filter expression, if any.
func (r *Record) Filter() (string, bool) { return strOpt(r.fields.Filter) }

// ResultCount returns the number of results this step produced.
func (r *Record) ResultCount() (int, bool) { return intOpt(r.fields.ResultCount) }

// ElapsedMs returns the step duration in milliseconds.
func (r *Record) ElapsedMs() (int, bool) { return intOpt(r.fields.ElapsedMs) }

// QueryTime returns the upstream timestamp of the step.
func (r *Record) QueryTime() (time.Time, bool) {
	if r.fields.QueryTime == nil {
		return time.Time{}, false
	}
	return *r.fields.QueryTime, true
}

// InputTokens returns the tokens consumed by the step.
func (r *Record) InputTokens() (int, bool) { return intOpt(r.fields.InputTokens) }

// OutputTokens returns the tokens produced by the step.
func (r *Record) OutputTokens() (int, bool) { return intOpt(r.fields.OutputTokens) }

func strOpt(p *string) (string, bool) {
	if p == nil {
		return "", false
	}
	return *p, true
}

func intOpt(p *int) (int, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}
