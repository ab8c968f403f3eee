package product

// Builder assembles a Record field by field. Extraction strategies set only
// the fields they recover; unset fields stay absent.
type Builder struct {
	rec  Record
	seen map[string]struct{}
}

// NewBuilder starts building a product record.
func NewBuilder() *Builder {
	return &Builder{seen: make(map[string]struct{})}
}

// RefID sets the upstream reference identifier.
func (b *Builder) RefID(id string) *Builder {
	b.rec.refID = &id
	return b
}

// Name sets the product name.
func (b *Builder) Name(name string) *Builder {
	b.rec.name = &name
	return b
}

// ProductNumber sets the catalog product number.
func (b *Builder) ProductNumber(num string) *Builder {
	b.rec.productNumber = &num
	return b
}

// Price sets the parsed price.
func (b *Builder) Price(p float64) *Builder {
	b.rec.price = &p
	return b
}

// Description sets the product description.
func (b *Builder) Description(d string) *Builder {
	b.rec.description = &d
	return b
}

// Color sets the color attribute.
func (b *Builder) Color(c string) *Builder {
	b.rec.color = &c
	return b
}

// Size sets the size attribute.
func (b *Builder) Size(s string) *Builder {
	b.rec.size = &s
	return b
}

// Material sets the material attribute.
func (b *Builder) Material(m string) *Builder {
	b.rec.material = &m
	return b
}

// AddImageURL appends an image URL, keeping first-seen order and dropping duplicates.
func (b *Builder) AddImageURL(url string) *Builder {
	if _, dup := b.seen[url]; dup {
		return b
	}
	b.seen[url] = struct{}{}
	b.rec.imageURLs = append(b.rec.imageURLs, url)
	return b
}

// AddDisplayLine appends a verbatim display line for an unrecognized segment.
func (b *Builder) AddDisplayLine(line string) *Builder {
	b.rec.displayLines = append(b.rec.displayLines, line)
	return b
}

// Relevance sets the strategy-assigned constant score.
func (b *Builder) Relevance(score float64) *Builder {
	b.rec.relevance = score
	return b
}

// Build returns the assembled record.
func (b *Builder) Build() Record {
	return b.rec
}
