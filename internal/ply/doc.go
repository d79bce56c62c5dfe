// Package ply reads and writes PLY geometry files.
//
// A PLY file is a short text header followed by a body. The header declares an
// ordered list of elements (for example "vertex" then "face"), each with a row
// count and an ordered list of typed properties. A property is either a scalar
// per row or a list per row, lists being prefixed on disk by a per-row count.
//
//	ply
//	format binary_little_endian 1.0
//	comment written by plytool
//	element vertex 3
//	property float x
//	property float y
//	property float z
//	element face 1
//	property list uchar int vertex_index
//	end_header
//	<body>
//
// # Data model
//
// Decoding produces a Table: an ordered set of Elements, each an ordered set of
// named Buffers. A Buffer is a typed, contiguous, row-major block with shape
// (N) for scalar properties or (N, W) for list properties. Buffer contents are
// held in little-endian byte order regardless of host or file order, so two
// buffers compare byte-for-byte no matter where they were decoded.
//
// Only fixed-width lists are supported: every row of a list property must carry
// the same count, otherwise decoding fails with *VariableListLengthError.
//
// # Encodings
//
// Binary bodies in either byte order are decoded and encoded. ASCII bodies are
// decoded and, when requested through Options.Format, encoded. By default the
// writer uses the host byte order and records it in the format line.
//
// # Float matrix fast path
//
// LoadFloatMatrix and SaveFloatMatrix handle the common single-element file in
// which every property is a float32 scalar, such as Gaussian splat point clouds.
// The payload is read as one (N, P) block from the tail of the file without
// building per-property buffers.
package ply
