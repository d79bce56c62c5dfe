package ply

import (
	"bufio"
	"fmt"
	"io"
)

// LoadFloatMatrix reads a single-element file of float32 scalars as one
// (N, P) buffer, returning the property names in header order.
func LoadFloatMatrix(path string) (*Buffer, []string, error) {
	return defaultCodec.LoadFloatMatrix(path)
}

// SaveFloatMatrix writes an (N, P) float32 buffer as a single element with
// one float property per name.
func SaveFloatMatrix(path string, b *Buffer, names []string) error {
	return defaultCodec.SaveFloatMatrix(path, b, names)
}

// LoadFloatMatrix reads the payload as one contiguous block from the tail of
// the file, skipping per-property buffer construction.
func (c *Codec) LoadFloatMatrix(path string) (*Buffer, []string, error) {
	f, err := c.fs.Open(path)
	if err != nil {
		return nil, nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	h, err := ParseHeader(bufio.NewReader(f))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(h.Elements) != 1 {
		return nil, nil, &UnsupportedFormatError{Path: path, Reason: fmt.Sprintf("expected exactly one element, found %d", len(h.Elements))}
	}
	if !h.Format.IsBinary() {
		return nil, nil, &UnsupportedFormatError{Path: path, Reason: fmt.Sprintf("expected a binary body, found %s", h.Format)}
	}
	es := h.Elements[0]
	names := make([]string, len(es.Properties))
	for i, p := range es.Properties {
		if p.IsList || p.Type != Float32 {
			return nil, nil, &UnsupportedFormatError{Path: path, Reason: fmt.Sprintf("property %q is not a float scalar", p.Name)}
		}
		names[i] = p.Name
	}

	info, err := f.Stat()
	if err != nil {
		return nil, nil, &IOError{Op: "stat", Path: path, Err: err}
	}
	avail := max(info.Size()-h.Size, 0)
	rowBytes := int64(len(names)) * 4
	if rowBytes > 0 && int64(es.Count) > avail/rowBytes {
		return nil, nil, fmt.Errorf("ply: %s: %d rows of %d bytes declared, %d bytes follow the header: %w",
			path, es.Count, rowBytes, avail, io.ErrUnexpectedEOF)
	}
	size := int64(es.Count) * rowBytes
	if _, err := f.Seek(-size, io.SeekEnd); err != nil {
		return nil, nil, &IOError{Op: "seek", Path: path, Err: err}
	}
	b := newBuffer(Float32, es.Count, len(names), 2)
	if _, err := io.ReadFull(f, b.data); err != nil {
		return nil, nil, &IOError{Op: "read", Path: path, Err: err}
	}
	if h.Format.swaps() {
		copySwapped(b.data, b.data, 4, true)
	}
	return b, names, nil
}

// SaveFloatMatrix writes a minimal little-endian header followed by the raw
// buffer bytes.
func (c *Codec) SaveFloatMatrix(path string, b *Buffer, names []string) error {
	if b == nil {
		return fmt.Errorf("ply: save float matrix %s: nil buffer", path)
	}
	if b.NDim() != 2 {
		return &ShapeMismatchError{Element: c.opts.FloatMatrixElement, Property: "matrix", Dim: "dimensions", Want: 2, Got: b.NDim()}
	}
	if b.Cols() != len(names) {
		return &ShapeMismatchError{Element: c.opts.FloatMatrixElement, Property: "matrix", Dim: "columns", Want: len(names), Got: b.Cols()}
	}
	if b.DType() != Float32 {
		return &DtypeMismatchError{Element: c.opts.FloatMatrixElement, Property: "matrix", Want: Float32, Got: b.DType()}
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if !ValidName(n) {
			return fmt.Errorf("ply: save float matrix %s: invalid property name %q", path, n)
		}
		if seen[n] {
			return fmt.Errorf("ply: save float matrix %s: duplicate property name %q", path, n)
		}
		seen[n] = true
	}

	h := &Header{
		Format:   FormatBinaryLittleEndian,
		Version:  "1.0",
		Comments: c.opts.Comments,
		Elements: []ElementSchema{{Name: c.opts.FloatMatrixElement, Count: b.Rows()}},
	}
	for _, n := range names {
		h.Elements[0].Properties = append(h.Elements[0].Properties, PropertySchema{Name: n, Type: Float32})
	}

	return c.writeFile(path, func(w *bufio.Writer) error {
		if err := WriteHeader(w, h); err != nil {
			return err
		}
		_, err := w.Write(b.data)
		return err
	})
}
