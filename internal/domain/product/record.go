// Package product defines the canonical product record produced by the
// response normalization pipeline.
package product

// Record is a single normalized product extracted from an agent response.
// Optional fields distinguish "absent" from "present but empty": getters
// return (value, ok) pairs. Identity is RefID when present, else positional.
type Record struct {
	refID         *string
	name          *string
	productNumber *string
	price         *float64
	description   *string
	color         *string
	size          *string
	material      *string
	imageURLs     []string
	displayLines  []string
	relevance     float64
}

// RefID returns the upstream reference identifier.
func (r *Record) RefID() (string, bool) { return strOpt(r.refID) }

// Name returns the product name.
func (r *Record) Name() (string, bool) { return strOpt(r.name) }

// ProductNumber returns the catalog product number.
func (r *Record) ProductNumber() (string, bool) { return strOpt(r.productNumber) }

// Price returns the parsed price. Absent when the source value was missing
// or unparsable; a genuine zero price reports (0, true).
func (r *Record) Price() (float64, bool) {
	if r.price == nil {
		return 0, false
	}
	return *r.price, true
}

// Description returns the product description.
func (r *Record) Description() (string, bool) { return strOpt(r.description) }

// Color returns the color attribute.
func (r *Record) Color() (string, bool) { return strOpt(r.color) }

// Size returns the size attribute (comma-separated when multi-valued).
func (r *Record) Size() (string, bool) { return strOpt(r.size) }

// Material returns the material attribute.
func (r *Record) Material() (string, bool) { return strOpt(r.material) }

// ImageURLs returns image URLs in first-seen order without duplicates.
func (r *Record) ImageURLs() []string { return r.imageURLs }

// DisplayLines returns unrecognized key:value segments preserved verbatim
// for bullet-style raw display.
func (r *Record) DisplayLines() []string { return r.displayLines }

// RelevanceScore returns the strategy-assigned constant score.
func (r *Record) RelevanceScore() float64 { return r.relevance }

// Identifiable reports whether the record carries a usable identity
// (a non-empty name or description).
func (r *Record) Identifiable() bool {
	if n, ok := r.Name(); ok && n != "" {
		return true
	}
	if d, ok := r.Description(); ok && d != "" {
		return true
	}
	return false
}

func strOpt(p *string) (string, bool) {
	if p == nil {
		return "", false
	}
	return *p, true
}
