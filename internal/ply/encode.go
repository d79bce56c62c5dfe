package ply

import (
	"bufio"
	"io"
	"math"
)

// CheckEncodable reports whether t can be written: every element has a name,
// list rows fit a uchar count, and no property has zero width while holding
// rows.
func CheckEncodable(t *Table) error {
	for _, e := range t.elements {
		for _, p := range e.props {
			b := p.Buffer
			if b.Rows() > 0 && b.Cols() == 0 {
				return &ShapeMismatchError{Element: e.name, Property: p.Name, Dim: "columns", Want: 1, Got: 0}
			}
			if b.IsList() && b.Cols() > math.MaxUint8 {
				return &ShapeMismatchError{Element: e.name, Property: p.Name, Dim: "columns", Want: math.MaxUint8, Got: b.Cols()}
			}
		}
	}
	return nil
}

// EncodeBody writes the body of t in format f. Elements and properties are
// written in table order, one row at a time with no padding. List properties
// are prefixed per row by a one-byte count equal to the buffer width.
func EncodeBody(w io.Writer, t *Table, f Format) error {
	if err := CheckEncodable(t); err != nil {
		return err
	}
	bw := bufio.NewWriterSize(w, 64*1024)
	switch {
	case f == FormatASCII:
		if err := encodeASCII(bw, t); err != nil {
			return err
		}
	case f.IsBinary():
		if err := encodeBinary(bw, t, f.swaps()); err != nil {
			return err
		}
	default:
		return &UnsupportedEncodingError{Format: f, Op: "encode"}
	}
	return bw.Flush()
}

func encodeBinary(w *bufio.Writer, t *Table, swap bool) error {
	var scratch []byte
	for _, e := range t.elements {
		for row := 0; row < e.rows; row++ {
			for _, p := range e.props {
				b := p.Buffer
				rb := b.rowBytes()
				src := b.data[row*rb : (row+1)*rb]
				if b.IsList() {
					w.WriteByte(byte(b.cols))
				}
				if swap {
					if cap(scratch) < rb {
						scratch = make([]byte, rb)
					}
					scratch = scratch[:rb]
					copySwapped(scratch, src, b.dtype.Size(), true)
					src = scratch
				}
				if _, err := w.Write(src); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
