package format

import (
	"github.com/tidwall/gjson"

	"github.com/retailgrid/agentsearch/internal/domain/reference"
)

// Constant reference relevance. No per-document ranking survives into the
// references array upstream.
const relevanceReference = 0.8

// collectReferences normalizes the references trace array. An absent or empty
// array yields zero sources; malformed elements are skipped.
func collectReferences(refs gjson.Result) []reference.Source {
	var sources []reference.Source

	refs.ForEach(func(_, el gjson.Result) bool {
		if !el.IsObject() {
			return true
		}

		docKey := el.Get("docKey").String()

		id := el.Get("id").String()
		if id == "" {
			id = docKey
		}
		title := el.Get("sourceData.title").String()
		if title == "" {
			title = docKey
		}
		if id == "" && title == "" {
			return true
		}

		src := reference.New(id, title, relevanceReference)
		if content := el.Get("sourceData.content"); content.Type == gjson.String && content.String() != "" {
			src = src.WithContent(content.String())
		}

		sources = append(sources, src)
		return true
	})

	return sources
}
