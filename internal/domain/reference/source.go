// Package reference models pointers to source documents that contributed to
// the agent's answer.
package reference

// Source is a reference to a single source document.
type Source struct {
	id         string
	title      string
	content    string
	hasContent bool
	relevance  float64
}

// New creates a source reference without content.
func New(id, title string, relevance float64) Source {
	return Source{id: id, title: title, relevance: relevance}
}

// WithContent returns a copy of the source carrying document content.
func (s Source) WithContent(content string) Source {
	s.content = content
	s.hasContent = true
	return s
}

// ID returns the document identifier.
func (s *Source) ID() string { return s.id }

// Title returns the document title.
func (s *Source) Title() string { return s.title }

// Content returns the document content, if the reference carried any.
func (s *Source) Content() (string, bool) { return s.content, s.hasContent }

// RelevanceScore returns the assigned relevance. No computed ranking is
// available at this layer; the value is a constant default.
func (s *Source) RelevanceScore() float64 { return s.relevance }
