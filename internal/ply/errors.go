package ply

import (
	"fmt"
	"strings"
)

// MalformedHeaderError reports a header line that cannot be parsed, a header
// whose structure is invalid, or a header that never reaches end_header.
type MalformedHeaderError struct {
	Line   int    // 1-based line number, 0 when the error is not tied to a line
	Text   string // offending line, trimmed
	Reason string
}

func (e *MalformedHeaderError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("ply: malformed header: %s", e.Reason)
	}
	return fmt.Sprintf("ply: malformed header at line %d: %s (%q)", e.Line, e.Reason, e.Text)
}

// UnsupportedEncodingError is returned when an operation cannot handle the
// body encoding of a file or the encoding requested for a write.
type UnsupportedEncodingError struct {
	Format Format
	Op     string
}

func (e *UnsupportedEncodingError) Error() string {
	return fmt.Sprintf("ply: %s: unsupported encoding %s", e.Op, e.Format)
}

// UnsupportedFormatError is returned by the float matrix fast path for files
// that are not a single binary element of float32 scalars.
type UnsupportedFormatError struct {
	Path   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("ply: unsupported file layout: %s", e.Reason)
	}
	return fmt.Sprintf("ply: unsupported file layout in %s: %s", e.Path, e.Reason)
}

// VariableListLengthError is returned when rows of a list property carry
// different counts. Only fixed-width lists are supported.
type VariableListLengthError struct {
	Element  string
	Property string
	Row      int // first row whose count differs from row 0
	Want     int // count of row 0
	Got      int
}

func (e *VariableListLengthError) Error() string {
	return fmt.Sprintf("ply: list property %q of element %q has varying row length (row 0 has %d, row %d has %d)",
		e.Property, e.Element, e.Want, e.Row, e.Got)
}

// DtypeMismatchError reports buffers of differing scalar types that were
// expected to agree, or a buffer whose type differs from a declared type.
type DtypeMismatchError struct {
	Element  string // element or field owning the buffers
	Property string // offending property or field name
	Want     PropertyType
	Got      PropertyType
}

func (e *DtypeMismatchError) Error() string {
	return fmt.Sprintf("ply: %s.%s: dtype mismatch: want %s, got %s", e.Element, e.Property, e.Want, e.Got)
}

// ShapeMismatchError reports a buffer whose row or column count is
// inconsistent with its declaration or with sibling buffers.
type ShapeMismatchError struct {
	Element  string
	Property string
	Dim      string // "rows" or "columns"
	Want     int
	Got      int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("ply: %s.%s: %s mismatch: want %d, got %d", e.Element, e.Property, e.Dim, e.Want, e.Got)
}

// MissingRequiredFieldError is returned when a required field is absent at
// construction, load, or save time.
type MissingRequiredFieldError struct {
	Structure  string
	Field      string
	Element    string
	Properties []string
	Stage      string // "construct", "load" or "save"
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("ply: %s: required field %q of %s is missing (element %q, properties %s)",
		e.Stage, e.Field, e.Structure, e.Element, strings.Join(e.Properties, ","))
}

// IOError wraps a filesystem failure with the operation and path involved.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("ply: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
