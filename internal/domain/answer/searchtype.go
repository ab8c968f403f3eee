// Package answer defines the canonical search response: the structurally
// typed output of the normalization pipeline, independent of the agent's raw
// response shape.
package answer

import (
	"fmt"
	"strings"

	"github.com/retailgrid/agentsearch/internal/domain"
)

// SearchType identifies which retrieval flavor produced the response.
type SearchType string

// Supported search types.
const (
	TypeRAG       SearchType = "rag"
	TypeAgentic   SearchType = "agentic"
	TypeDataverse SearchType = "dataverse"
	TypeGeneric   SearchType = "generic"
)

// ParseSearchType validates a search type string.
func ParseSearchType(s string) (SearchType, error) {
	switch SearchType(strings.ToLower(s)) {
	case TypeRAG:
		return TypeRAG, nil
	case TypeAgentic:
		return TypeAgentic, nil
	case TypeDataverse:
		return TypeDataverse, nil
	case TypeGeneric:
		return TypeGeneric, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownSearchType, s)
}
