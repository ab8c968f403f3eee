package format

import (
	"fmt"
	"strings"

	"github.com/retailgrid/agentsearch/internal/domain/answer"
	"github.com/retailgrid/agentsearch/internal/domain/product"
)

// composeSummary produces the deterministic, order-preserving summary text.
// Price range statistics consider only products with a price > 0, so records
// whose price failed to parse still appear by name but never skew the range.
func composeSummary(query string, products []product.Record) string {
	switch n := len(products); {
	case n == 0:
		return fmt.Sprintf("No products found for %q. Try rephrasing your search.", query)

	case n == 1:
		name, _ := products[0].Name()
		if name == "" {
			name, _ = products[0].Description()
		}
		if price, ok := products[0].Price(); ok && price > 0 {
			return fmt.Sprintf("Found %s for $%.2f.", name, price)
		}
		return fmt.Sprintf("Found %s.", name)

	case n <= 3:
		return fmt.Sprintf("Found %d products: %s.%s",
			n, joinNames(products, n), priceRange(products))

	default:
		return fmt.Sprintf("Found %d products: %s, and %d more.%s",
			n, joinNames(products, 3), n-3, priceRange(products))
	}
}

func joinNames(products []product.Record, limit int) string {
	names := make([]string, 0, limit)
	for _, p := range products[:limit] {
		if name, ok := p.Name(); ok && name != "" {
			names = append(names, name)
			continue
		}
		if desc, ok := p.Description(); ok && desc != "" {
			names = append(names, desc)
		}
	}
	return strings.Join(names, ", ")
}

// priceRange renders " Prices range from $min to $max." over products with
// price > 0, or an empty string when no product carries a usable price.
func priceRange(products []product.Record) string {
	var minP, maxP float64
	priced := 0

	for _, p := range products {
		price, ok := p.Price()
		if !ok || price <= 0 {
			continue
		}
		if priced == 0 || price < minP {
			minP = price
		}
		if priced == 0 || price > maxP {
			maxP = price
		}
		priced++
	}

	switch {
	case priced == 0:
		return ""
	case minP == maxP:
		return fmt.Sprintf(" Priced at $%.2f.", minP)
	default:
		return fmt.Sprintf(" Prices range from $%.2f to $%.2f.", minP, maxP)
	}
}

// composeExplanation renders the fixed per-search-type explanation template.
func composeExplanation(searchType answer.SearchType, query string, resultCount int) string {
	switch searchType {
	case answer.TypeRAG:
		return fmt.Sprintf(
			"Retrieval-augmented generation answered %q using %d matching catalog entries.",
			query, resultCount)
	case answer.TypeAgentic:
		return fmt.Sprintf(
			"An agentic retrieval pipeline planned and ran targeted sub-queries for %q, yielding %d results.",
			query, resultCount)
	case answer.TypeDataverse:
		return fmt.Sprintf(
			"Dataverse table search matched %d records for %q.",
			resultCount, query)
	default:
		return fmt.Sprintf("Search for %q returned %d results.", query, resultCount)
	}
}

// insightPattern maps a text label to a typed, icon-tagged insight.
type insightPattern struct {
	labels []string
	kind   answer.InsightKind
	icon   string
}

var insightPatterns = []insightPattern{
	{labels: []string{"tip:"}, kind: answer.InsightTip, icon: "💡"},
	{labels: []string{"note:", "important:"}, kind: answer.InsightNote, icon: "📝"},
	{labels: []string{"warning:", "caution:"}, kind: answer.InsightWarning, icon: "⚠️"},
	{labels: []string{"comparison:", "vs:"}, kind: answer.InsightComparison, icon: "⚖️"},
}

// extractInsights scans free text line by line for labeled insight patterns.
// The first matching label per line wins; the insight text is the remainder
// of the line after the label.
func extractInsights(text string) []answer.Insight {
	var insights []answer.Insight

	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)

	patterns:
		for _, p := range insightPatterns {
			for _, label := range p.labels {
				idx := strings.Index(lower, label)
				if idx < 0 {
					continue
				}
				body := strings.TrimSpace(line[idx+len(label):])
				if body == "" {
					continue
				}
				insights = append(insights, answer.NewInsight(p.kind, p.icon, body))
				break patterns
			}
		}
	}

	return insights
}

// deriveRecommendations generates advisory recommendations from coarse keyword
// presence in the query and the agent's free text. Heuristic text generation,
// not a classifier.
func deriveRecommendations(query, text string) []answer.Recommendation {
	scope := strings.ToLower(query + "\n" + text)
	var recs []answer.Recommendation

	if containsAny(scope, "budget", "under $") {
		recs = append(recs, answer.NewRecommendation(
			"Budget-Friendly Options",
			"Sort the results by price to surface the most affordable matches first.",
		))
	}
	if containsAny(scope, "feature", "quality") {
		recs = append(recs, answer.NewRecommendation(
			"Feature Comparison",
			"Compare the listed features side by side before choosing between close matches.",
		))
	}

	return recs
}
