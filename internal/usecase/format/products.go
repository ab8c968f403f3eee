package format

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/retailgrid/agentsearch/internal/domain/product"
)

// strategyName labels which extraction strategy produced the products.
type strategyName string

const (
	strategyStructured strategyName = "structured_array"
	strategyGrammar    strategyName = "key_value_grammar"
	strategyPairs      strategyName = "free_text_pairs"
	strategyList       strategyName = "list_fallback"
	strategyNone       strategyName = "none"
)

// Strategy-assigned constant relevance scores. These are not computed:
// ranking happens upstream in the retrieval agent, the constants only encode
// how trustworthy the extraction path is.
const (
	relevanceStructured = 0.95
	relevanceGrammar    = 0.85
	relevancePairs      = 0.7
	relevanceList       = 0.5
)

// textStrategy is one fallback extraction pass over free text. Strategies are
// mutually exclusive: the first one returning a non-empty result wins and no
// output is ever combined across strategies.
type textStrategy struct {
	name strategyName
	run  func(text string) []product.Record
}

var textStrategies = []textStrategy{
	{name: strategyGrammar, run: extractGrammar},
	{name: strategyPairs, run: extractPairs},
	{name: strategyList, run: extractList},
}

// extractProducts runs the strategy chain. Candidate arrays are probed first,
// in document order, and the first candidate yielding at least one product
// wins; candidates from different properties are never merged. When no
// candidate produces anything, text strategies run over the fallback text.
func extractProducts(in *ingestion) ([]product.Record, strategyName) {
	for _, cand := range in.candidates {
		if records := extractStructured(cand); len(records) > 0 {
			return records, strategyStructured
		}
	}

	text := in.fallbackText()
	for _, s := range textStrategies {
		if records := s.run(text); len(records) > 0 {
			return records, s.name
		}
	}

	return nil, strategyNone
}

// extractStructured parses a candidate JSON array of result objects. An
// element qualifies when it carries any of ref_id, content, or title; the
// name comes from title and the content string fields are overlaid via the
// micro-grammar. Elements that end up with neither name nor description are
// skipped, never aborting the pass.
func extractStructured(arr gjson.Result) []product.Record {
	var records []product.Record

	arr.ForEach(func(_, el gjson.Result) bool {
		if !el.IsObject() {
			return true
		}

		refID := el.Get("ref_id")
		content := el.Get("content")
		title := el.Get("title")
		if !refID.Exists() && !content.Exists() && !title.Exists() {
			return true
		}

		b := product.NewBuilder().Relevance(relevanceStructured)
		if refID.Exists() && refID.String() != "" {
			b.RefID(refID.String())
		}
		if title.Exists() && title.String() != "" {
			b.Name(title.String())
		}

		switch {
		case content.Type == gjson.String:
			parseGrammar(content.String(), b)
		case content.IsObject():
			// Older payloads embed the product as an object instead of a
			// grammar string.
			if v := content.Get("name"); v.String() != "" {
				b.Name(v.String())
			}
			if v := content.Get("description"); v.String() != "" {
				b.Description(v.String())
			}
			if v := content.Get("price"); v.Type == gjson.Number {
				b.Price(v.Float())
			}
		}

		if rec := b.Build(); rec.Identifiable() {
			records = append(records, rec)
		}
		return true
	})

	return records
}

// extractGrammar applies the key:value micro-grammar to free text carrying
// the grammar hallmark. Describes at most one product.
func extractGrammar(text string) []product.Record {
	if !hasGrammarHallmark(text) {
		return nil
	}

	b := product.NewBuilder().Relevance(relevanceGrammar)
	if !parseGrammar(text, b) {
		return nil
	}

	rec := b.Build()
	if !rec.Identifiable() {
		return nil
	}
	return []product.Record{rec}
}

// rePair matches free-text name/price pairs:
//
//	Name: Sun Hat Price: $24.00
//	product: Trail Bell, cost: 9.50
var rePair = regexp.MustCompile(
	`(?i)\b(?:name|product|title)\s*:\s*(.+?)[\s,]+(?:price|cost)\s*:?\s*\$?([0-9]+(?:\.[0-9]+)?)`)

// extractPairs scans the whole text for name/price pairs. A pair is accepted
// only when its price parses as a non-negative decimal.
func extractPairs(text string) []product.Record {
	var records []product.Record

	for _, m := range rePair.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1])
		price, err := strconv.ParseFloat(m[2], 64)
		if name == "" || err != nil || price < 0 {
			continue
		}

		rec := product.NewBuilder().
			Name(name).
			Price(price).
			Relevance(relevancePairs).
			Build()
		records = append(records, rec)
	}

	return records
}

var (
	reListMarker = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s+(.+)$`)
	rePriceToken = regexp.MustCompile(`\$([0-9]+(?:\.[0-9]{1,2})?)`)
	reSpaces     = regexp.MustCompile(`\s+`)
)

// featureVocabulary is the fixed keyword set scanned to build a feature
// description for list-extracted products.
var featureVocabulary = []string{
	"wireless", "bluetooth", "waterproof", "rechargeable",
	"portable", "durable", "lightweight",
}

// extractList treats bullet or numbered list lines as product candidates.
// A line is retained only when it contains a $N[.NN] price token; the marker
// and the price token are stripped and the remainder becomes the name.
func extractList(text string) []product.Record {
	var records []product.Record

	for _, line := range strings.Split(text, "\n") {
		m := reListMarker.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		body := m[1]

		priceTok := rePriceToken.FindStringSubmatch(body)
		if priceTok == nil {
			continue
		}
		price, err := strconv.ParseFloat(priceTok[1], 64)
		if err != nil || price < 0 {
			continue
		}

		name := reSpaces.ReplaceAllString(rePriceToken.ReplaceAllString(body, ""), " ")
		name = strings.Trim(name, " -–—:,.")
		if name == "" {
			continue
		}

		b := product.NewBuilder().
			Name(name).
			Price(price).
			Relevance(relevanceList)

		if features := scanFeatures(body); len(features) > 0 {
			b.Description("Features: " + strings.Join(features, ", "))
		}

		records = append(records, b.Build())
	}

	return records
}

// scanFeatures returns the vocabulary keywords present in the line.
func scanFeatures(line string) []string {
	lower := strings.ToLower(line)
	var found []string
	for _, kw := range featureVocabulary {
		if strings.Contains(lower, kw) {
			found = append(found, kw)
		}
	}
	return found
}
