package answer

import "github.com/retailgrid/agentsearch/internal/domain/product"

// InsightKind classifies an extracted insight.
type InsightKind string

// Insight kinds.
const (
	InsightTip        InsightKind = "tip"
	InsightNote       InsightKind = "note"
	InsightWarning    InsightKind = "warning"
	InsightComparison InsightKind = "comparison"
)

// Insight is a typed, icon-tagged piece of advisory text extracted from the
// agent's free-form answer.
type Insight struct {
	kind InsightKind
	icon string
	text string
}

// NewInsight creates an insight item.
func NewInsight(kind InsightKind, icon, text string) Insight {
	return Insight{kind: kind, icon: icon, text: text}
}

// Kind returns the insight classification.
func (i *Insight) Kind() InsightKind { return i.kind }

// Icon returns the display icon tag.
func (i *Insight) Icon() string { return i.icon }

// Text returns the insight text.
func (i *Insight) Text() string { return i.text }

// Recommendation is heuristic advisory text, not a semantic classification.
type Recommendation struct {
	title string
	text  string
}

// NewRecommendation creates a recommendation item.
func NewRecommendation(title, text string) Recommendation {
	return Recommendation{title: title, text: text}
}

// Title returns the recommendation title.
func (r *Recommendation) Title() string { return r.title }

// Text returns the recommendation body.
func (r *Recommendation) Text() string { return r.text }

// Result is the formatted, renderer-ready outcome of a search.
type Result struct {
	summary         string
	products        []product.Record
	insights        []Insight
	recommendations []Recommendation
	explanation     string
}

// NewResult creates a formatted result.
func NewResult(
	summary string, products []product.Record,
	insights []Insight, recommendations []Recommendation,
	explanation string,
) Result {
	return Result{
		summary:         summary,
		products:        products,
		insights:        insights,
		recommendations: recommendations,
		explanation:     explanation,
	}
}

// Summary returns the human-readable summary text.
func (r *Result) Summary() string { return r.summary }

// Products returns the extracted product records.
func (r *Result) Products() []product.Record { return r.products }

// Insights returns the extracted insight items.
func (r *Result) Insights() []Insight { return r.insights }

// Recommendations returns the generated recommendation items.
func (r *Result) Recommendations() []Recommendation { return r.recommendations }

// Explanation returns the per-search-type explanation text.
func (r *Result) Explanation() string { return r.explanation }
