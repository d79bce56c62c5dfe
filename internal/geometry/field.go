// Package geometry maps the element/property tables of package ply onto named,
// multi-column fields.
//
// A geometry type is declared once with Define, listing its fields. Each
// field reads an ordered set of properties of one element and presents them
// as a single buffer: three float properties x, y, z of element vertex become
// one (N, 3) field. Types compose by naming a parent; the child inherits the
// parent's fields and may redeclare any of them by name.
package geometry

import (
	"fmt"

	"github.com/banshee-data/plykit/internal/ply"
)

// FieldSpec declares one field of a geometry type.
type FieldSpec struct {
	Name       string
	Element    string
	Properties []string

	// List marks a field backed by a single list property. Its buffer is
	// stored whole instead of being split into columns on save.
	List bool

	// Required fields must be present on construction, load and save.
	Required bool

	// DType, when valid, is the only scalar type accepted for the field.
	DType ply.PropertyType
}

// FieldOption adjusts a FieldSpec built by Field or VertexField.
type FieldOption func(*FieldSpec)

// List marks the field as list-valued.
func List() FieldOption { return func(f *FieldSpec) { f.List = true } }

// Required marks the field as required.
func Required() FieldOption { return func(f *FieldSpec) { f.Required = true } }

// WithDType fixes the scalar type of the field.
func WithDType(t ply.PropertyType) FieldOption { return func(f *FieldSpec) { f.DType = t } }

// Field declares a field over properties of element.
func Field(name, element string, props []string, opts ...FieldOption) FieldSpec {
	f := FieldSpec{Name: name, Element: element, Properties: append([]string(nil), props...)}
	for _, o := range opts {
		o(&f)
	}
	return f
}

// VertexField declares a field over properties of the vertex element.
func VertexField(name string, props []string, opts ...FieldOption) FieldSpec {
	return Field(name, "vertex", props, opts...)
}

// Columns returns the number of columns a value of a scalar field carries.
// List fields have no fixed column count and report 0.
func (f FieldSpec) Columns() int {
	if f.List {
		return 0
	}
	return len(f.Properties)
}

func (f FieldSpec) validate() error {
	switch {
	case f.Name == "":
		return fmt.Errorf("field has no name")
	case f.Element == "":
		return fmt.Errorf("field %q has no element", f.Name)
	case !ply.ValidName(f.Element):
		return fmt.Errorf("field %q has invalid element name %q", f.Name, f.Element)
	case len(f.Properties) == 0:
		return fmt.Errorf("field %q lists no properties", f.Name)
	case f.List && len(f.Properties) != 1:
		return fmt.Errorf("list field %q must name exactly one property, got %d", f.Name, len(f.Properties))
	case f.DType != ply.TypeInvalid && !f.DType.Valid():
		return fmt.Errorf("field %q has invalid dtype %d", f.Name, f.DType)
	}
	seen := make(map[string]bool, len(f.Properties))
	for _, p := range f.Properties {
		if !ply.ValidName(p) {
			return fmt.Errorf("field %q has invalid property name %q", f.Name, p)
		}
		if seen[p] {
			return fmt.Errorf("field %q repeats property %q", f.Name, p)
		}
		seen[p] = true
	}
	return nil
}
