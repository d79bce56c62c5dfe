package geometry

import (
	"fmt"
	"reflect"
	"sync"
)

// StructureSpec is the resolved field list of a geometry type. It is built
// once by Define and shared read-only by every instance of the type.
type StructureSpec struct {
	name   string
	parent *StructureSpec
	fields []FieldSpec
	index  map[string]int
}

var (
	registryMu sync.RWMutex
	registry   = make(map[reflect.Type]*StructureSpec)
)

// Define declares the fields of geometry type T and registers the result.
// With a parent, the parent's fields come first in their declared order; a
// field redeclared by name replaces the parent's entry in place, and new
// fields are appended.
//
// Define is meant for package-level variable initialisation and panics on an
// invalid declaration or when T is already defined.
func Define[T any](name string, parent *StructureSpec, fields ...FieldSpec) *StructureSpec {
	s, err := compose(name, parent, fields)
	if err != nil {
		panic(fmt.Sprintf("geometry: define %s: %v", name, err))
	}

	typ := reflect.TypeFor[T]()
	registryMu.Lock()
	defer registryMu.Unlock()
	if prev, ok := registry[typ]; ok {
		panic(fmt.Sprintf("geometry: define %s: type %v already defined as %s", name, typ, prev.name))
	}
	registry[typ] = s
	return s
}

// SpecFor returns the spec registered for T by Define.
func SpecFor[T any]() (*StructureSpec, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	s, ok := registry[reflect.TypeFor[T]()]
	return s, ok
}

func compose(name string, parent *StructureSpec, own []FieldSpec) (*StructureSpec, error) {
	if name == "" {
		return nil, fmt.Errorf("empty structure name")
	}
	s := &StructureSpec{name: name, parent: parent, index: make(map[string]int)}
	if parent != nil {
		s.fields = make([]FieldSpec, len(parent.fields), len(parent.fields)+len(own))
		copy(s.fields, parent.fields)
		for k, v := range parent.index {
			s.index[k] = v
		}
	}

	declared := make(map[string]bool, len(own))
	for _, f := range own {
		if err := f.validate(); err != nil {
			return nil, err
		}
		if declared[f.Name] {
			return nil, fmt.Errorf("field %q declared twice", f.Name)
		}
		declared[f.Name] = true
		f.Properties = append([]string(nil), f.Properties...)
		if i, ok := s.index[f.Name]; ok {
			s.fields[i] = f
			continue
		}
		s.index[f.Name] = len(s.fields)
		s.fields = append(s.fields, f)
	}
	if len(s.fields) == 0 {
		return nil, fmt.Errorf("no fields")
	}
	return s, nil
}

// Name returns the geometry type name used in errors.
func (s *StructureSpec) Name() string { return s.name }

// Parent returns the spec this one was composed from, or nil.
func (s *StructureSpec) Parent() *StructureSpec { return s.parent }

// Len returns the number of resolved fields.
func (s *StructureSpec) Len() int { return len(s.fields) }

// Fields returns a copy of the resolved fields in order.
func (s *StructureSpec) Fields() []FieldSpec {
	out := make([]FieldSpec, len(s.fields))
	for i, f := range s.fields {
		f.Properties = append([]string(nil), f.Properties...)
		out[i] = f
	}
	return out
}

// Field returns the resolved declaration of name.
func (s *StructureSpec) Field(name string) (FieldSpec, bool) {
	i, ok := s.index[name]
	if !ok {
		return FieldSpec{}, false
	}
	f := s.fields[i]
	f.Properties = append([]string(nil), f.Properties...)
	return f, true
}

// Elements returns the element names referenced by the fields, in first-use
// order.
func (s *StructureSpec) Elements() []string {
	var out []string
	seen := make(map[string]bool)
	for _, f := range s.fields {
		if !seen[f.Element] {
			seen[f.Element] = true
			out = append(out, f.Element)
		}
	}
	return out
}
