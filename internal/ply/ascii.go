package ply

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
)

// decodeASCII reads a whitespace-separated body. Row boundaries are implied
// by the header; line breaks are not significant.
func decodeASCII(r io.Reader, h *Header) (*Table, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	sc.Split(bufio.ScanWords)

	next := func(es *ElementSchema, row int) (string, error) {
		if sc.Scan() {
			return sc.Text(), nil
		}
		if err := sc.Err(); err != nil {
			return "", &IOError{Op: "read", Path: "body", Err: err}
		}
		return "", fmt.Errorf("ply: element %q row %d: %w", es.Name, row, io.ErrUnexpectedEOF)
	}

	t := NewTable()
	for ei := range h.Elements {
		es := &h.Elements[ei]
		// Buffers grow as tokens arrive; the declared count alone never
		// sizes an allocation.
		data := make([][]byte, len(es.Properties))
		cols := make([]int, len(es.Properties))
		for row := 0; row < es.Count; row++ {
			for i, p := range es.Properties {
				size := p.Type.Size()
				if !p.IsList {
					tok, err := next(es, row)
					if err != nil {
						return nil, err
					}
					if data[i], err = appendValue(data[i], size, p.Type, tok); err != nil {
						return nil, fmt.Errorf("ply: element %q property %q row %d: %w", es.Name, p.Name, row, err)
					}
					continue
				}

				tok, err := next(es, row)
				if err != nil {
					return nil, err
				}
				n, err := parseCount(p.CountType, tok)
				if err != nil {
					return nil, fmt.Errorf("ply: element %q property %q row %d: bad list length %q: %w", es.Name, p.Name, row, tok, err)
				}
				if row == 0 {
					cols[i] = n
				} else if n != cols[i] {
					return nil, &VariableListLengthError{Element: es.Name, Property: p.Name, Row: row, Want: cols[i], Got: n}
				}
				for k := 0; k < n; k++ {
					tok, err := next(es, row)
					if err != nil {
						return nil, err
					}
					if data[i], err = appendValue(data[i], size, p.Type, tok); err != nil {
						return nil, fmt.Errorf("ply: element %q property %q row %d: %w", es.Name, p.Name, row, err)
					}
				}
			}
		}

		e := newSizedElement(es.Name, es.Count)
		for i, p := range es.Properties {
			var b *Buffer
			switch {
			case !p.IsList:
				b = &Buffer{dtype: p.Type, rows: es.Count, cols: 1, ndim: 1, data: data[i]}
			case es.Count == 0:
				b = newBuffer(p.Type, 0, 0, 2)
			default:
				b = &Buffer{dtype: p.Type, rows: es.Count, cols: cols[i], ndim: 2, data: data[i]}
			}
			if b.data == nil {
				b.data = []byte{}
			}
			if err := e.Set(p.Name, b); err != nil {
				return nil, err
			}
		}
		if err := t.Add(e); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// appendValue parses tok as type t and appends its little-endian bytes.
func appendValue(dst []byte, size int, t PropertyType, tok string) ([]byte, error) {
	var scratch [8]byte
	if err := parseValue(scratch[:size], t, tok); err != nil {
		return dst, err
	}
	return append(dst, scratch[:size]...), nil
}

// parseCount parses a list length within the range of the count type.
func parseCount(ct PropertyType, tok string) (int, error) {
	if ct.IsFloat() || !ct.Valid() {
		return 0, fmt.Errorf("invalid count type %s", ct)
	}
	bits := ct.Size() * 8
	if ct.IsSigned() {
		n, err := strconv.ParseInt(tok, 10, bits)
		if err != nil {
			return 0, err
		}
		if n < 0 {
			return 0, fmt.Errorf("negative length %d", n)
		}
		return int(n), nil
	}
	n, err := strconv.ParseUint(tok, 10, bits)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// parseValue parses tok as type t and stores it little-endian at dst.
func parseValue(dst []byte, t PropertyType, tok string) error {
	bits := t.Size() * 8
	switch {
	case t.IsFloat():
		v, err := strconv.ParseFloat(tok, bits)
		if err != nil {
			return err
		}
		writeFloat64(dst, t, v)
	case t.IsSigned():
		v, err := strconv.ParseInt(tok, 10, bits)
		if err != nil {
			return err
		}
		writeFloat64(dst, t, float64(v))
	default:
		v, err := strconv.ParseUint(tok, 10, bits)
		if err != nil {
			return err
		}
		writeFloat64(dst, t, float64(v))
	}
	return nil
}

// formatValue renders one little-endian value of type t.
func formatValue(src []byte, t PropertyType) string {
	v := readFloat64(src, t)
	switch t {
	case Float32:
		return strconv.FormatFloat(v, 'g', -1, 32)
	case Float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	if math.Signbit(v) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatUint(uint64(v), 10)
}

// encodeASCII writes one line per row: scalars as single tokens, lists as a
// count followed by the values.
func encodeASCII(w *bufio.Writer, t *Table) error {
	for _, e := range t.elements {
		for row := 0; row < e.rows; row++ {
			for pi, p := range e.props {
				b := p.Buffer
				size := b.dtype.Size()
				if pi > 0 {
					w.WriteByte(' ')
				}
				if b.IsList() {
					w.WriteString(strconv.Itoa(b.cols))
					w.WriteByte(' ')
				}
				rb := b.rowBytes()
				for k := 0; k < b.cols; k++ {
					if k > 0 {
						w.WriteByte(' ')
					}
					w.WriteString(formatValue(b.data[row*rb+k*size:], b.dtype))
				}
			}
			if err := w.WriteByte('\n'); err != nil {
				return err
			}
		}
	}
	return nil
}
