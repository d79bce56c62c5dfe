package ply

// PropertySchema describes one property declared in a header.
type PropertySchema struct {
	Name      string
	Type      PropertyType
	IsList    bool
	CountType PropertyType // list length encoding; TypeInvalid for scalars
}

// ElementSchema describes one element declared in a header.
type ElementSchema struct {
	Name       string
	Count      int
	Properties []PropertySchema
}

// Property returns the named property schema.
func (e *ElementSchema) Property(name string) (PropertySchema, bool) {
	for _, p := range e.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return PropertySchema{}, false
}

// HasLists reports whether any property is list-valued.
func (e *ElementSchema) HasLists() bool {
	for _, p := range e.Properties {
		if p.IsList {
			return true
		}
	}
	return false
}

// rowStride returns the byte width of one row of a list-free element.
func (e *ElementSchema) rowStride() int {
	stride := 0
	for _, p := range e.Properties {
		stride += p.Type.Size()
	}
	return stride
}

// minRowBytes returns the fewest bytes one binary row can occupy: every
// scalar plus the count of every list, with all lists empty.
func (e *ElementSchema) minRowBytes() int {
	n := 0
	for _, p := range e.Properties {
		if p.IsList {
			n += p.CountType.Size()
		} else {
			n += p.Type.Size()
		}
	}
	return n
}

// Header is the parsed file preamble.
type Header struct {
	Format   Format
	Version  string
	Comments []string
	ObjInfo  []string
	Elements []ElementSchema

	// Size is the byte length of the header including the end_header line.
	// Zero for headers that were not parsed from a stream.
	Size int64
}

// Element returns the named element schema.
func (h *Header) Element(name string) (*ElementSchema, bool) {
	for i := range h.Elements {
		if h.Elements[i].Name == name {
			return &h.Elements[i], true
		}
	}
	return nil, false
}

// HeaderFor derives the header that describes t when written as f. Element
// and property order follow the table. Buffers with more than one column are
// declared as lists with a uchar count.
func HeaderFor(t *Table, f Format) *Header {
	h := &Header{Format: f, Version: "1.0"}
	for _, e := range t.elements {
		es := ElementSchema{Name: e.name, Count: e.rows}
		for _, p := range e.props {
			ps := PropertySchema{Name: p.Name, Type: p.Buffer.DType()}
			if p.Buffer.IsList() {
				ps.IsList = true
				ps.CountType = Uint8
			}
			es.Properties = append(es.Properties, ps)
		}
		h.Elements = append(h.Elements, es)
	}
	return h
}
