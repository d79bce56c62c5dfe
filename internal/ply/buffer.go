package ply

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// Number is the set of Go types that map onto a PropertyType.
type Number interface {
	int8 | uint8 | int16 | uint16 | int32 | uint32 | float32 | float64
}

// TypeOf returns the PropertyType stored for Go type T.
func TypeOf[T Number]() PropertyType {
	var zero T
	switch any(zero).(type) {
	case int8:
		return Int8
	case uint8:
		return Uint8
	case int16:
		return Int16
	case uint16:
		return Uint16
	case int32:
		return Int32
	case uint32:
		return Uint32
	case float32:
		return Float32
	case float64:
		return Float64
	}
	return TypeInvalid
}

// Buffer is a typed, contiguous, row-major block of property values with shape
// (rows) or (rows, cols). Values are stored little-endian. A Buffer is not
// modified after construction; every transformation returns a new Buffer.
type Buffer struct {
	dtype PropertyType
	rows  int
	cols  int
	ndim  int
	data  []byte
}

func newBuffer(dtype PropertyType, rows, cols, ndim int) *Buffer {
	return &Buffer{
		dtype: dtype,
		rows:  rows,
		cols:  cols,
		ndim:  ndim,
		data:  make([]byte, rows*cols*dtype.Size()),
	}
}

// Vector copies vals into a new buffer of shape (len(vals)).
func Vector[T Number](vals []T) *Buffer {
	b := newBuffer(TypeOf[T](), len(vals), 1, 1)
	putValues(b.data, vals)
	return b
}

// Matrix copies vals into a new buffer of shape (rows, cols). The length of
// vals must be rows*cols.
func Matrix[T Number](rows, cols int, vals []T) (*Buffer, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("ply: negative matrix shape (%d, %d)", rows, cols)
	}
	if len(vals) != rows*cols {
		return nil, &ShapeMismatchError{Element: "matrix", Property: "values", Dim: "values", Want: rows * cols, Got: len(vals)}
	}
	b := newBuffer(TypeOf[T](), rows, cols, 2)
	putValues(b.data, vals)
	return b, nil
}

// FromBytes builds a buffer from little-endian raw bytes. ndim must be 1 (cols
// is then ignored) or 2.
func FromBytes(dtype PropertyType, ndim, rows, cols int, raw []byte) (*Buffer, error) {
	if !dtype.Valid() {
		return nil, fmt.Errorf("ply: invalid dtype %d", dtype)
	}
	switch ndim {
	case 1:
		cols = 1
	case 2:
	default:
		return nil, fmt.Errorf("ply: buffers have 1 or 2 dimensions, got %d", ndim)
	}
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("ply: negative buffer shape (%d, %d)", rows, cols)
	}
	if want := rows * cols * dtype.Size(); len(raw) != want {
		return nil, &ShapeMismatchError{Element: "buffer", Property: "bytes", Dim: "bytes", Want: want, Got: len(raw)}
	}
	b := newBuffer(dtype, rows, cols, ndim)
	copy(b.data, raw)
	return b, nil
}

// Values returns a copy of the buffer contents in row-major order. T must
// match the buffer dtype.
func Values[T Number](b *Buffer) ([]T, error) {
	if want := TypeOf[T](); b.dtype != want {
		return nil, &DtypeMismatchError{Element: "buffer", Property: "values", Want: want, Got: b.dtype}
	}
	out := make([]T, b.Len())
	getValues(out, b.data)
	return out, nil
}

// DType returns the scalar type of the values.
func (b *Buffer) DType() PropertyType { return b.dtype }

// Rows returns N, the leading dimension.
func (b *Buffer) Rows() int { return b.rows }

// Cols returns the row width: 1 for a (N) buffer.
func (b *Buffer) Cols() int { return b.cols }

// NDim returns 1 for a (N) buffer and 2 for a (N, W) buffer.
func (b *Buffer) NDim() int { return b.ndim }

// Shape returns the buffer dimensions.
func (b *Buffer) Shape() []int {
	if b.ndim == 1 {
		return []int{b.rows}
	}
	return []int{b.rows, b.cols}
}

// Len returns the number of values held.
func (b *Buffer) Len() int { return b.rows * b.cols }

// IsList reports whether the buffer is written as a list property: it has
// more than one column.
func (b *Buffer) IsList() bool { return b.ndim == 2 && b.cols > 1 }

// Bytes returns a copy of the little-endian contents.
func (b *Buffer) Bytes() []byte {
	return bytes.Clone(b.data)
}

// rowBytes returns the width of one row in bytes.
func (b *Buffer) rowBytes() int { return b.cols * b.dtype.Size() }

// Float64At returns the value at (row, col) converted to float64.
func (b *Buffer) Float64At(row, col int) float64 {
	if row < 0 || row >= b.rows || col < 0 || col >= b.cols {
		panic(fmt.Sprintf("ply: index (%d, %d) out of range for shape %v", row, col, b.Shape()))
	}
	size := b.dtype.Size()
	return readFloat64(b.data[(row*b.cols+col)*size:], b.dtype)
}

// Column returns column j as a new (N) buffer.
func (b *Buffer) Column(j int) *Buffer {
	if j < 0 || j >= b.cols {
		panic(fmt.Sprintf("ply: column %d out of range for shape %v", j, b.Shape()))
	}
	out := newBuffer(b.dtype, b.rows, 1, 1)
	size := b.dtype.Size()
	stride := b.rowBytes()
	for i := 0; i < b.rows; i++ {
		copy(out.data[i*size:(i+1)*size], b.data[i*stride+j*size:])
	}
	return out
}

// Clone returns a deep copy of b.
func (b *Buffer) Clone() *Buffer {
	return &Buffer{dtype: b.dtype, rows: b.rows, cols: b.cols, ndim: b.ndim, data: bytes.Clone(b.data)}
}

// Equal reports whether a and b have the same dtype, shape and bytes.
func (b *Buffer) Equal(o *Buffer) bool {
	if b == nil || o == nil {
		return b == o
	}
	return b.dtype == o.dtype && b.rows == o.rows && b.cols == o.cols && b.ndim == o.ndim &&
		bytes.Equal(b.data, o.data)
}

func (b *Buffer) String() string {
	return fmt.Sprintf("Buffer(%s, shape=%v)", b.dtype, b.Shape())
}

// hstack concatenates buffers column-wise into a (N, sum of widths) buffer.
// All inputs must share dtype and row count.
func hstack(owner string, names []string, bufs []*Buffer) (*Buffer, error) {
	if len(bufs) == 0 {
		return nil, fmt.Errorf("ply: %s: nothing to stack", owner)
	}
	first := bufs[0]
	cols := 0
	for i, b := range bufs {
		if b.dtype != first.dtype {
			return nil, &DtypeMismatchError{Element: owner, Property: names[i], Want: first.dtype, Got: b.dtype}
		}
		if b.rows != first.rows {
			return nil, &ShapeMismatchError{Element: owner, Property: names[i], Dim: "rows", Want: first.rows, Got: b.rows}
		}
		cols += b.cols
	}
	out := newBuffer(first.dtype, first.rows, cols, 2)
	stride := out.rowBytes()
	off := 0
	for _, b := range bufs {
		w := b.rowBytes()
		for i := 0; i < b.rows; i++ {
			copy(out.data[i*stride+off:i*stride+off+w], b.data[i*w:(i+1)*w])
		}
		off += w
	}
	return out, nil
}

func putValues[T Number](dst []byte, vals []T) {
	switch v := any(vals).(type) {
	case []int8:
		for i, x := range v {
			dst[i] = byte(x)
		}
	case []uint8:
		copy(dst, v)
	case []int16:
		for i, x := range v {
			binary.LittleEndian.PutUint16(dst[i*2:], uint16(x))
		}
	case []uint16:
		for i, x := range v {
			binary.LittleEndian.PutUint16(dst[i*2:], x)
		}
	case []int32:
		for i, x := range v {
			binary.LittleEndian.PutUint32(dst[i*4:], uint32(x))
		}
	case []uint32:
		for i, x := range v {
			binary.LittleEndian.PutUint32(dst[i*4:], x)
		}
	case []float32:
		for i, x := range v {
			binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(x))
		}
	case []float64:
		for i, x := range v {
			binary.LittleEndian.PutUint64(dst[i*8:], math.Float64bits(x))
		}
	}
}

func getValues[T Number](out []T, src []byte) {
	switch v := any(out).(type) {
	case []int8:
		for i := range v {
			v[i] = int8(src[i])
		}
	case []uint8:
		copy(v, src)
	case []int16:
		for i := range v {
			v[i] = int16(binary.LittleEndian.Uint16(src[i*2:]))
		}
	case []uint16:
		for i := range v {
			v[i] = binary.LittleEndian.Uint16(src[i*2:])
		}
	case []int32:
		for i := range v {
			v[i] = int32(binary.LittleEndian.Uint32(src[i*4:]))
		}
	case []uint32:
		for i := range v {
			v[i] = binary.LittleEndian.Uint32(src[i*4:])
		}
	case []float32:
		for i := range v {
			v[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*4:]))
		}
	case []float64:
		for i := range v {
			v[i] = math.Float64frombits(binary.LittleEndian.Uint64(src[i*8:]))
		}
	}
}

// readFloat64 decodes one little-endian value of type t.
func readFloat64(src []byte, t PropertyType) float64 {
	switch t {
	case Int8:
		return float64(int8(src[0]))
	case Uint8:
		return float64(src[0])
	case Int16:
		return float64(int16(binary.LittleEndian.Uint16(src)))
	case Uint16:
		return float64(binary.LittleEndian.Uint16(src))
	case Int32:
		return float64(int32(binary.LittleEndian.Uint32(src)))
	case Uint32:
		return float64(binary.LittleEndian.Uint32(src))
	case Float32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(src)))
	case Float64:
		return math.Float64frombits(binary.LittleEndian.Uint64(src))
	}
	return 0
}

// writeFloat64 encodes v as one little-endian value of type t. Integer kinds
// truncate toward zero.
func writeFloat64(dst []byte, t PropertyType, v float64) {
	switch t {
	case Int8:
		dst[0] = byte(int8(v))
	case Uint8:
		dst[0] = uint8(v)
	case Int16:
		binary.LittleEndian.PutUint16(dst, uint16(int16(v)))
	case Uint16:
		binary.LittleEndian.PutUint16(dst, uint16(v))
	case Int32:
		binary.LittleEndian.PutUint32(dst, uint32(int32(v)))
	case Uint32:
		binary.LittleEndian.PutUint32(dst, uint32(v))
	case Float32:
		binary.LittleEndian.PutUint32(dst, math.Float32bits(float32(v)))
	case Float64:
		binary.LittleEndian.PutUint64(dst, math.Float64bits(v))
	}
}

// copySwapped copies little-endian values between src and dst, reversing
// the bytes of each value when swap is set. dst and src may be the same slice.
func copySwapped(dst, src []byte, size int, swap bool) {
	n := copy(dst, src)
	if !swap || size == 1 {
		return
	}
	for i := 0; i+size <= n; i += size {
		v := dst[i : i+size]
		for a, z := 0, size-1; a < z; a, z = a+1, z-1 {
			v[a], v[z] = v[z], v[a]
		}
	}
}
