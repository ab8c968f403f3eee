package format

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/retailgrid/agentsearch/internal/domain/product"
)

// The key:value micro-grammar used by agent content strings:
//
//	Name: Mountain Bike; Price: 1299.99; ProductNumber: BK-M68; Description: ...
//
// Canonical fields are matched by case-insensitive regex independently of the
// segment split, so one malformed segment cannot block the typed fields.
var (
	reGrammarName   = regexp.MustCompile(`(?i)\bname\s*:\s*([^;]+)`)
	reGrammarPrice  = regexp.MustCompile(`(?i)\bprice\s*:\s*\$?\s*([0-9]+(?:\.[0-9]+)?)`)
	reGrammarNumber = regexp.MustCompile(`(?i)\bproductnumber\s*:\s*([^;]+)`)
	reGrammarDesc   = regexp.MustCompile(`(?i)\bdescription\s*:\s*([^;]+)`)

	// Nested quoted-dictionary attribute fragments:
	//	'Name':'Color' ... 'TextValue':'Red'
	reAttribute = regexp.MustCompile(
		`'Name'\s*:\s*'(Color|Size|AW Material|AW Fabric)'[^{}]*?'TextValue'\s*:\s*'([^']*)'`)

	// Any quoted token ending in .png is an image URL.
	reImageURL = regexp.MustCompile(`['"]([^'",]*?\.png)['"]`)

	// hallmark of the grammar: a known key segment terminated by a semicolon.
	reGrammarHallmark = regexp.MustCompile(`(?i)\b(?:name|price|productnumber|description)\s*:[^;]*;`)
)

// grammarKeys are the segment keys mapped to typed fields; all other keys are
// preserved verbatim as display lines.
var grammarKeys = map[string]struct{}{
	"name":          {},
	"price":         {},
	"productnumber": {},
	"description":   {},
}

// hasGrammarHallmark reports whether text looks like a micro-grammar content
// string. Free text such as "Name: Sun Hat Price: $24.00" lacks the
// semicolon-terminated segment and falls through to the pair strategy.
func hasGrammarHallmark(text string) bool {
	return reGrammarHallmark.MatchString(text)
}

// parseGrammar overlays fields parsed from a content string onto the builder.
// Returns true when at least one canonical field matched.
func parseGrammar(content string, b *product.Builder) bool {
	matched := false

	if m := reGrammarName.FindStringSubmatch(content); m != nil {
		b.Name(strings.TrimSpace(m[1]))
		matched = true
	}
	if m := reGrammarPrice.FindStringSubmatch(content); m != nil {
		if price, err := strconv.ParseFloat(m[1], 64); err == nil && price >= 0 {
			b.Price(price)
			matched = true
		}
	}
	if m := reGrammarNumber.FindStringSubmatch(content); m != nil {
		b.ProductNumber(strings.TrimSpace(m[1]))
		matched = true
	}
	if m := reGrammarDesc.FindStringSubmatch(content); m != nil {
		b.Description(strings.TrimSpace(m[1]))
		matched = true
	}

	parseSegments(content, b)
	parseAttributes(content, b)
	collectImageURLs(content, b)

	return matched
}

// parseSegments splits the content on ';' and each segment on the first ':'.
// Segments with unknown keys are preserved verbatim as display lines.
func parseSegments(content string, b *product.Builder) {
	for _, seg := range strings.Split(content, ";") {
		seg = strings.TrimSpace(seg)
		if seg == "" || strings.HasPrefix(seg, "{") || strings.HasPrefix(seg, "'") {
			continue
		}

		key, _, found := strings.Cut(seg, ":")
		if !found {
			continue
		}
		if _, known := grammarKeys[strings.ToLower(strings.TrimSpace(key))]; known {
			continue
		}
		b.AddDisplayLine(seg)
	}
}

// parseAttributes extracts color/size/material from quoted attribute fragments.
func parseAttributes(content string, b *product.Builder) {
	for _, m := range reAttribute.FindAllStringSubmatch(content, -1) {
		name, value := m[1], m[2]
		if value == "" {
			continue
		}
		switch name {
		case "Color":
			b.Color(value)
		case "Size":
			// Multi-valued sizes arrive pipe-joined: S|M|L.
			b.Size(strings.Join(strings.Split(value, "|"), ", "))
		case "AW Material", "AW Fabric":
			b.Material(value)
		}
	}
}

// collectImageURLs gathers quoted .png tokens, first-seen order, de-duplicated
// by the builder.
func collectImageURLs(content string, b *product.Builder) {
	for _, m := range reImageURL.FindAllStringSubmatch(content, -1) {
		b.AddImageURL(m[1])
	}
}
