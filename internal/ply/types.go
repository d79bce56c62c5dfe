package ply

import (
	"encoding/binary"
)

// PropertyType is the scalar kind of a property value.
type PropertyType uint8

const (
	TypeInvalid PropertyType = iota
	Int8
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Float32
	Float64
)

var typeSizes = [...]int{
	TypeInvalid: 0,
	Int8:        1,
	Uint8:       1,
	Int16:       2,
	Uint16:      2,
	Int32:       4,
	Uint32:      4,
	Float32:     4,
	Float64:     8,
}

// Canonical header tokens, as written by the encoder.
var typeTokens = [...]string{
	TypeInvalid: "invalid",
	Int8:        "char",
	Uint8:       "uchar",
	Int16:       "short",
	Uint16:      "ushort",
	Int32:       "int",
	Uint32:      "uint",
	Float32:     "float",
	Float64:     "double",
}

// tokenTypes accepts both the classic tokens and the sized aliases.
var tokenTypes = map[string]PropertyType{
	"char":    Int8,
	"uchar":   Uint8,
	"short":   Int16,
	"ushort":  Uint16,
	"int":     Int32,
	"uint":    Uint32,
	"float":   Float32,
	"double":  Float64,
	"int8":    Int8,
	"uint8":   Uint8,
	"int16":   Int16,
	"uint16":  Uint16,
	"int32":   Int32,
	"uint32":  Uint32,
	"float32": Float32,
	"float64": Float64,
}

// ParsePropertyType maps a header type token to a PropertyType.
func ParsePropertyType(tok string) (PropertyType, bool) {
	t, ok := tokenTypes[tok]
	return t, ok
}

// Size returns the width of one value in bytes.
func (t PropertyType) Size() int {
	if int(t) >= len(typeSizes) {
		return 0
	}
	return typeSizes[t]
}

// String returns the canonical header token for t.
func (t PropertyType) String() string {
	if int(t) >= len(typeTokens) {
		return typeTokens[TypeInvalid]
	}
	return typeTokens[t]
}

// Valid reports whether t is one of the eight PLY scalar kinds.
func (t PropertyType) Valid() bool {
	return t > TypeInvalid && int(t) < len(typeSizes)
}

// IsFloat reports whether t is float32 or float64.
func (t PropertyType) IsFloat() bool {
	return t == Float32 || t == Float64
}

// IsSigned reports whether t is a signed integer kind.
func (t PropertyType) IsSigned() bool {
	return t == Int8 || t == Int16 || t == Int32
}

// Format is the body encoding named on the header's format line.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatASCII
	FormatBinaryLittleEndian
	FormatBinaryBigEndian
)

// ParseFormat maps a format line token to a Format.
func ParseFormat(s string) (Format, bool) {
	switch s {
	case "ascii":
		return FormatASCII, true
	case "binary_little_endian":
		return FormatBinaryLittleEndian, true
	case "binary_big_endian":
		return FormatBinaryBigEndian, true
	}
	return FormatUnknown, false
}

func (f Format) String() string {
	switch f {
	case FormatASCII:
		return "ascii"
	case FormatBinaryLittleEndian:
		return "binary_little_endian"
	case FormatBinaryBigEndian:
		return "binary_big_endian"
	}
	return "unknown"
}

// IsBinary reports whether f is one of the two binary encodings.
func (f Format) IsBinary() bool {
	return f == FormatBinaryLittleEndian || f == FormatBinaryBigEndian
}

// ByteOrder returns the byte order of a binary format. ASCII and unknown
// formats report little-endian, the in-memory order of Buffer contents.
func (f Format) ByteOrder() binary.ByteOrder {
	if f == FormatBinaryBigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// swaps reports whether values must be byte-reversed to move between f and the
// little-endian in-memory layout.
func (f Format) swaps() bool {
	return f == FormatBinaryBigEndian
}

// HostFormat returns the binary format matching the host byte order.
func HostFormat() Format {
	var probe [2]byte
	binary.NativeEndian.PutUint16(probe[:], 1)
	if probe[0] == 1 {
		return FormatBinaryLittleEndian
	}
	return FormatBinaryBigEndian
}
