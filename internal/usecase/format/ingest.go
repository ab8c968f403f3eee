package format

import (
	"strings"

	"github.com/tidwall/gjson"
)

// rootShape classifies the parsed payload root.
type rootShape int

const (
	shapeUnparsed rootShape = iota
	shapeArray
	shapeObject
)

// ingestion is the immutable outcome of one payload ingestion. It keeps the
// raw text for audit and fallback extraction, plus the located candidate
// arrays and trace sections.
type ingestion struct {
	raw   string
	shape rootShape

	// candidates are array-valued members in document order. For an array
	// root the root itself is the single candidate. gjson preserves object
	// property order, which encoding/json maps would lose.
	candidates []gjson.Result

	activities gjson.Result
	references gjson.Result

	// freeText is assistant prose gathered from string `content` members and
	// `response[].content[].text` blocks.
	freeText string
}

// hasActivities reports whether an activity trace array was located.
func (in *ingestion) hasActivities() bool { return in.activities.IsArray() }

// hasReferences reports whether a references array was located.
func (in *ingestion) hasReferences() bool { return in.references.IsArray() }

// fallbackText returns the text used by text-based extraction strategies:
// gathered assistant prose when present, otherwise the full raw payload.
func (in *ingestion) fallbackText() string {
	if in.freeText != "" {
		return in.freeText
	}
	return in.raw
}

// ingest parses and classifies a raw payload. It never fails: an unparsable
// payload yields an ingestion carrying only the raw text.
func ingest(raw string) ingestion {
	in := ingestion{raw: raw}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || !gjson.Valid(trimmed) {
		return in
	}

	root := gjson.Parse(trimmed)
	switch {
	case root.IsArray():
		in.shape = shapeArray
		in.candidates = []gjson.Result{root}
	case root.IsObject():
		in.shape = shapeObject
		ingestObject(root, &in)
	default:
		// Scalar roots (bare string or number) carry no structure; fall back
		// to free-text extraction over the raw payload.
		if root.Type == gjson.String {
			in.freeText = root.String()
		}
	}

	return in
}

// ingestObject scans the object's properties, single level only, in document
// order. Every array-valued member becomes an extraction candidate; the
// activity and references sections are additionally routed to their
// analyzers, and prose is gathered from content/response members.
func ingestObject(root gjson.Result, in *ingestion) {
	var prose []string

	root.ForEach(func(key, value gjson.Result) bool {
		switch strings.ToLower(key.String()) {
		case "activity":
			if value.IsArray() {
				in.activities = value
			}
		case "references":
			if value.IsArray() {
				in.references = value
			}
		case "content":
			if value.Type == gjson.String {
				prose = append(prose, value.String())
			} else if value.IsArray() {
				prose = append(prose, textBlocks(value)...)
			}
		case "response":
			if value.IsArray() {
				prose = append(prose, messageText(value)...)
			}
		}

		if value.IsArray() {
			in.candidates = append(in.candidates, value)
		}
		return true
	})

	in.freeText = strings.Join(prose, "\n")
}

// messageText extracts prose from a role/content message array.
func messageText(messages gjson.Result) []string {
	var out []string
	messages.ForEach(func(_, msg gjson.Result) bool {
		content := msg.Get("content")
		switch {
		case content.Type == gjson.String:
			out = append(out, content.String())
		case content.IsArray():
			out = append(out, textBlocks(content)...)
		}
		return true
	})
	return out
}

// textBlocks extracts the text fields from an array of typed content blocks.
func textBlocks(blocks gjson.Result) []string {
	var out []string
	blocks.ForEach(func(_, block gjson.Result) bool {
		if t := block.Get("text"); t.Exists() && t.Type == gjson.String && t.String() != "" {
			out = append(out, t.String())
		}
		return true
	})
	return out
}
