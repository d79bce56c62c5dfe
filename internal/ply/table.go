package ply

import (
	"fmt"
	"strings"
	"unicode"
)

// Optional is a buffer that may be absent. Lookups of properties or fields
// that do not exist return None instead of an error.
type Optional struct {
	buf *Buffer
}

// Some wraps b. Some(nil) is None.
func Some(b *Buffer) Optional { return Optional{buf: b} }

// None returns an absent value.
func None() Optional { return Optional{} }

// Get returns the buffer and whether it is present.
func (o Optional) Get() (*Buffer, bool) { return o.buf, o.buf != nil }

// Present reports whether a buffer is held.
func (o Optional) Present() bool { return o.buf != nil }

// OrNil returns the buffer, or nil when absent.
func (o Optional) OrNil() *Buffer { return o.buf }

// Property is one named buffer of an element.
type Property struct {
	Name   string
	Buffer *Buffer
}

// Element is a named, ordered set of property buffers sharing a row count.
type Element struct {
	name  string
	rows  int
	sized bool
	props []Property
	index map[string]int
}

// ValidName reports whether name can appear as an element or property name
// in a header: non-empty and free of whitespace.
func ValidName(name string) bool {
	return name != "" && strings.IndexFunc(name, unicode.IsSpace) < 0
}

// NewElement returns an empty element. Its row count is fixed by the first
// property set on it.
func NewElement(name string) *Element {
	return &Element{name: name, index: make(map[string]int)}
}

// newSizedElement returns an empty element with a known row count, used when
// decoding elements that declare no properties.
func newSizedElement(name string, rows int) *Element {
	e := NewElement(name)
	e.rows, e.sized = rows, true
	return e
}

// Name returns the element name.
func (e *Element) Name() string { return e.name }

// Rows returns the row count shared by every property.
func (e *Element) Rows() int { return e.rows }

// Len returns the number of properties.
func (e *Element) Len() int { return len(e.props) }

// Names returns the property names in declaration order.
func (e *Element) Names() []string {
	names := make([]string, len(e.props))
	for i, p := range e.props {
		names[i] = p.Name
	}
	return names
}

// Properties returns the properties in declaration order.
func (e *Element) Properties() []Property {
	out := make([]Property, len(e.props))
	copy(out, e.props)
	return out
}

// Set adds or replaces a property. A replaced property keeps its position.
// The buffer row count must match the element's.
func (e *Element) Set(name string, b *Buffer) error {
	if !ValidName(name) {
		return fmt.Errorf("ply: element %q: invalid property name %q", e.name, name)
	}
	if b == nil {
		return fmt.Errorf("ply: element %q: nil buffer for property %q", e.name, name)
	}
	if !e.sized {
		e.rows, e.sized = b.Rows(), true
	} else if b.Rows() != e.rows {
		return &ShapeMismatchError{Element: e.name, Property: name, Dim: "rows", Want: e.rows, Got: b.Rows()}
	}
	if i, ok := e.index[name]; ok {
		e.props[i].Buffer = b
		return nil
	}
	e.index[name] = len(e.props)
	e.props = append(e.props, Property{Name: name, Buffer: b})
	return nil
}

// Get returns the named property, or None.
func (e *Element) Get(name string) Optional {
	i, ok := e.index[name]
	if !ok {
		return None()
	}
	return Some(e.props[i].Buffer)
}

// Select gathers several properties into one (N, k) buffer, in the order the
// names are given. If any name is absent the result is None. Properties of
// differing dtypes fail with *DtypeMismatchError.
func (e *Element) Select(names ...string) (Optional, error) {
	if len(names) == 0 {
		return None(), fmt.Errorf("ply: element %q: select needs at least one property", e.name)
	}
	bufs := make([]*Buffer, len(names))
	for i, n := range names {
		b, ok := e.Get(n).Get()
		if !ok {
			return None(), nil
		}
		bufs[i] = b
	}
	out, err := hstack(e.name, names, bufs)
	if err != nil {
		return None(), err
	}
	return Some(out), nil
}

// Clone returns a deep copy of e.
func (e *Element) Clone() *Element {
	c := &Element{name: e.name, rows: e.rows, sized: e.sized, index: make(map[string]int, len(e.props))}
	for _, p := range e.props {
		c.index[p.Name] = len(c.props)
		c.props = append(c.props, Property{Name: p.Name, Buffer: p.Buffer.Clone()})
	}
	return c
}

// Table is the decoded content of a file: elements in header order.
type Table struct {
	elements []*Element
	index    map[string]int
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{index: make(map[string]int)}
}

// Add appends an element. Element names are unique within a table.
func (t *Table) Add(e *Element) error {
	if !ValidName(e.name) {
		return fmt.Errorf("ply: invalid element name %q", e.name)
	}
	if _, ok := t.index[e.name]; ok {
		return fmt.Errorf("ply: duplicate element %q", e.name)
	}
	t.index[e.name] = len(t.elements)
	t.elements = append(t.elements, e)
	return nil
}

// Element returns the named element.
func (t *Table) Element(name string) (*Element, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.elements[i], true
}

// Elements returns the elements in order.
func (t *Table) Elements() []*Element {
	out := make([]*Element, len(t.elements))
	copy(out, t.elements)
	return out
}

// Names returns the element names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.elements))
	for i, e := range t.elements {
		names[i] = e.name
	}
	return names
}

// Len returns the number of elements.
func (t *Table) Len() int { return len(t.elements) }

// Get returns property prop of element elem, or None when either is absent.
func (t *Table) Get(elem, prop string) Optional {
	e, ok := t.Element(elem)
	if !ok {
		return None()
	}
	return e.Get(prop)
}

// Select is Element.Select on the named element; a missing element is None.
func (t *Table) Select(elem string, props ...string) (Optional, error) {
	e, ok := t.Element(elem)
	if !ok {
		return None(), nil
	}
	return e.Select(props...)
}

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	c := NewTable()
	for _, e := range t.elements {
		c.index[e.name] = len(c.elements)
		c.elements = append(c.elements, e.Clone())
	}
	return c
}
