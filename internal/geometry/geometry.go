package geometry

import (
	"sort"

	"github.com/banshee-data/plykit/internal/monitoring"
	"github.com/banshee-data/plykit/internal/ply"
)

const (
	stageConstruct = "construct"
	stageLoad      = "load"
	stageSave      = "save"
)

// Geometry is an instance of a geometry type: one optional buffer per
// declared field. A Geometry is not modified after construction.
type Geometry struct {
	spec   *StructureSpec
	values []ply.Optional
}

// New builds an instance from buffers keyed by field name. Required fields
// must be present. Absent optional fields are None. Fields of one element
// must agree on row count, scalar fields must carry one column per declared
// property, and a declared dtype must match.
func (s *StructureSpec) New(values map[string]*ply.Buffer) (*Geometry, error) {
	return s.build(values, stageConstruct)
}

func (s *StructureSpec) build(values map[string]*ply.Buffer, stage string) (*Geometry, error) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, ok := s.index[name]; !ok {
			known := make([]string, len(s.fields))
			for i, f := range s.fields {
				known[i] = f.Name
			}
			return nil, &UnknownFieldError{Structure: s.name, Field: name, Known: known}
		}
	}

	g := &Geometry{spec: s, values: make([]ply.Optional, len(s.fields))}
	rows := make(map[string]int)
	for i, f := range s.fields {
		b := values[f.Name]
		if b == nil {
			if f.Required {
				return nil, s.missing(f, stage)
			}
			continue
		}
		if f.DType.Valid() && b.DType() != f.DType {
			return nil, &ply.DtypeMismatchError{Element: s.name, Property: f.Name, Want: f.DType, Got: b.DType()}
		}
		if want := f.Columns(); want > 0 && b.Cols() != want {
			return nil, &ply.ShapeMismatchError{Element: s.name, Property: f.Name, Dim: "columns", Want: want, Got: b.Cols()}
		}
		if n, ok := rows[f.Element]; ok && n != b.Rows() {
			return nil, &ply.ShapeMismatchError{Element: f.Element, Property: f.Name, Dim: "rows", Want: n, Got: b.Rows()}
		}
		rows[f.Element] = b.Rows()
		g.values[i] = ply.Some(b)
	}
	return g, nil
}

func (s *StructureSpec) missing(f FieldSpec, stage string) error {
	return &ply.MissingRequiredFieldError{
		Structure:  s.name,
		Field:      f.Name,
		Element:    f.Element,
		Properties: append([]string(nil), f.Properties...),
		Stage:      stage,
	}
}

// FromTable groups the properties of t into fields. Properties are taken in
// the field's declared order, not the table's. A field whose element or any
// property is missing is None, or fails with *ply.MissingRequiredFieldError
// when required.
func (s *StructureSpec) FromTable(t *ply.Table) (*Geometry, error) {
	values := make(map[string]*ply.Buffer, len(s.fields))
	for _, f := range s.fields {
		var (
			v   ply.Optional
			err error
		)
		if f.List {
			v = t.Get(f.Element, f.Properties[0])
		} else {
			v, err = t.Select(f.Element, f.Properties...)
			if err != nil {
				return nil, err
			}
		}
		b, ok := v.Get()
		if !ok {
			if f.Required {
				return nil, s.missing(f, stageLoad)
			}
			continue
		}
		values[f.Name] = b
	}
	return s.build(values, stageLoad)
}

// Load reads path with the default codec.
func (s *StructureSpec) Load(path string) (*Geometry, error) {
	return s.LoadWith(ply.DefaultCodec(), path)
}

// LoadWith reads path with c and groups its properties into fields.
func (s *StructureSpec) LoadWith(c *ply.Codec, path string) (*Geometry, error) {
	t, err := c.LoadGeneric(path)
	if err != nil {
		return nil, err
	}
	g, err := s.FromTable(t)
	if err != nil {
		return nil, err
	}
	monitoring.Logf("geometry: loaded %s from %s (%d of %d fields present)", s.name, path, g.Present(), len(s.fields))
	return g, nil
}

// Spec returns the type of g.
func (g *Geometry) Spec() *StructureSpec { return g.spec }

// Field returns the value of the named field. Undeclared and absent fields
// are both None; use Spec().Field to tell them apart.
func (g *Geometry) Field(name string) ply.Optional {
	i, ok := g.spec.index[name]
	if !ok {
		return ply.None()
	}
	return g.values[i]
}

// Present returns the number of fields holding a value.
func (g *Geometry) Present() int {
	n := 0
	for _, v := range g.values {
		if v.Present() {
			n++
		}
	}
	return n
}

// Values returns the present fields keyed by name, suitable for New.
func (g *Geometry) Values() map[string]*ply.Buffer {
	out := make(map[string]*ply.Buffer, len(g.values))
	for i, v := range g.values {
		if b, ok := v.Get(); ok {
			out[g.spec.fields[i].Name] = b
		}
	}
	return out
}

// With returns a copy of g with field name set to b. A nil b clears the
// field. The result is validated as by New.
func (g *Geometry) With(name string, b *ply.Buffer) (*Geometry, error) {
	values := g.Values()
	values[name] = b
	if b == nil {
		if _, ok := g.spec.index[name]; ok {
			delete(values, name)
		}
	}
	return g.spec.New(values)
}

// Clone returns a deep copy of g.
func (g *Geometry) Clone() *Geometry {
	c := &Geometry{spec: g.spec, values: make([]ply.Optional, len(g.values))}
	for i, v := range g.values {
		if b, ok := v.Get(); ok {
			c.values[i] = ply.Some(b.Clone())
		}
	}
	return c
}

// ToTable splits the fields back into element properties. Scalar fields
// contribute one single-column property per declared name, list fields their
// whole buffer. Fields sharing an element are merged into one element, and
// elements appear in field declaration order.
func (g *Geometry) ToTable() (*ply.Table, error) {
	elems := make(map[string]*ply.Element)
	var order []string
	for i, f := range g.spec.fields {
		b, ok := g.values[i].Get()
		if !ok {
			if f.Required {
				return nil, g.spec.missing(f, stageSave)
			}
			continue
		}
		e, ok := elems[f.Element]
		if !ok {
			e = ply.NewElement(f.Element)
			elems[f.Element] = e
			order = append(order, f.Element)
		}
		if f.List {
			if err := e.Set(f.Properties[0], b); err != nil {
				return nil, err
			}
			continue
		}
		for j, p := range f.Properties {
			if err := e.Set(p, b.Column(j)); err != nil {
				return nil, err
			}
		}
	}

	t := ply.NewTable()
	for _, name := range order {
		if err := t.Add(elems[name]); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Save writes g to path with the default codec.
func (g *Geometry) Save(path string) error {
	return g.SaveWith(ply.DefaultCodec(), path)
}

// SaveWith writes g to path with c.
func (g *Geometry) SaveWith(c *ply.Codec, path string) error {
	t, err := g.ToTable()
	if err != nil {
		return err
	}
	return c.SaveGeneric(path, t)
}
