package ply

import (
	"encoding/binary"
	"fmt"
	"io"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/plykit/internal/monitoring"
)

// DecodeBody decodes the body that follows h from r into a Table. Elements
// and properties appear in header order.
func DecodeBody(r io.Reader, h *Header, opts Options) (*Table, error) {
	switch {
	case h.Format.IsBinary():
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, &IOError{Op: "read", Path: "body", Err: err}
		}
		d := binaryDecoder{data: data, order: h.Format.ByteOrder(), swap: h.Format.swaps(), opts: opts}
		return d.decode(h)
	case h.Format == FormatASCII:
		return decodeASCII(r, h)
	}
	return nil, &UnsupportedEncodingError{Format: h.Format, Op: "decode"}
}

type binaryDecoder struct {
	data  []byte
	off   int
	order binary.ByteOrder
	swap  bool
	opts  Options
}

func (d *binaryDecoder) decode(h *Header) (*Table, error) {
	t := NewTable()
	for i := range h.Elements {
		es := &h.Elements[i]
		var (
			e   *Element
			err error
		)
		if es.HasLists() {
			e, err = d.listElement(es)
		} else {
			e, err = d.fixedElement(es)
		}
		if err != nil {
			return nil, err
		}
		if err := t.Add(e); err != nil {
			return nil, err
		}
	}
	if rest := len(d.data) - d.off; rest > 0 {
		monitoring.Logf("ply: ignoring %d trailing body bytes", rest)
	}
	return t, nil
}

func (d *binaryDecoder) truncated(es *ElementSchema, row int) error {
	return fmt.Errorf("ply: element %q row %d: %w", es.Name, row, io.ErrUnexpectedEOF)
}

// checkRows fails when the bytes left in the body cannot hold es.Count rows
// of at least rowBytes each. Nothing is allocated from the declared count
// until this passes.
func (d *binaryDecoder) checkRows(es *ElementSchema, rowBytes int) error {
	if rowBytes <= 0 {
		return nil
	}
	if fit := (len(d.data) - d.off) / rowBytes; es.Count > fit {
		return d.truncated(es, fit)
	}
	return nil
}

// fixedElement decodes an element whose rows all have the same byte stride.
// Each property is extracted from the row block at its offset; large blocks
// are split across goroutines, one property per task.
func (d *binaryDecoder) fixedElement(es *ElementSchema) (*Element, error) {
	stride := es.rowStride()
	if err := d.checkRows(es, stride); err != nil {
		return nil, err
	}
	need := es.Count * stride
	block := d.data[d.off : d.off+need]
	d.off += need

	bufs := make([]*Buffer, len(es.Properties))
	offsets := make([]int, len(es.Properties))
	po := 0
	for i, p := range es.Properties {
		bufs[i] = newBuffer(p.Type, es.Count, 1, 1)
		offsets[i] = po
		po += p.Type.Size()
	}

	extract := func(i int) {
		size := es.Properties[i].Type.Size()
		dst := bufs[i].data
		for row := 0; row < es.Count; row++ {
			src := block[row*stride+offsets[i] : row*stride+offsets[i]+size]
			copySwapped(dst[row*size:(row+1)*size], src, size, d.swap)
		}
	}

	if threshold := d.opts.ParallelExtractMinBytes; threshold > 0 && need >= threshold && len(bufs) > 1 {
		monitoring.Logf("ply: extracting %d properties of %q concurrently (%d bytes)", len(bufs), es.Name, need)
		var g errgroup.Group
		g.SetLimit(runtime.GOMAXPROCS(0))
		for i := range bufs {
			g.Go(func() error {
				extract(i)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := range bufs {
			extract(i)
		}
	}

	e := newSizedElement(es.Name, es.Count)
	for i, p := range es.Properties {
		if err := e.Set(p.Name, bufs[i]); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// listElement decodes an element containing list properties row by row. The
// width of each list is taken from row 0; any later row with a different
// count fails the decode.
func (d *binaryDecoder) listElement(es *ElementSchema) (*Element, error) {
	if err := d.checkRows(es, es.minRowBytes()); err != nil {
		return nil, err
	}
	avail := len(d.data) - d.off

	bufs := make([]*Buffer, len(es.Properties))
	for i, p := range es.Properties {
		if !p.IsList {
			bufs[i] = newBuffer(p.Type, es.Count, 1, 1)
		}
	}

	for row := 0; row < es.Count; row++ {
		for i, p := range es.Properties {
			size := p.Type.Size()
			if !p.IsList {
				if len(d.data)-d.off < size {
					return nil, d.truncated(es, row)
				}
				copySwapped(bufs[i].data[row*size:(row+1)*size], d.data[d.off:d.off+size], size, d.swap)
				d.off += size
				continue
			}

			n, err := d.count(es, p, row)
			if err != nil {
				return nil, err
			}
			if row > 0 && n != bufs[i].cols {
				return nil, &VariableListLengthError{Element: es.Name, Property: p.Name, Row: row, Want: bufs[i].cols, Got: n}
			}
			if n > len(d.data)-d.off {
				return nil, d.truncated(es, row)
			}
			w := n * size
			if len(d.data)-d.off < w {
				return nil, d.truncated(es, row)
			}
			if row == 0 {
				// every row repeats this list, so the element needs Count*w bytes
				if w > 0 && es.Count > avail/w {
					return nil, d.truncated(es, avail/w)
				}
				bufs[i] = newBuffer(p.Type, es.Count, n, 2)
			}
			copySwapped(bufs[i].data[row*w:(row+1)*w], d.data[d.off:d.off+w], size, d.swap)
			d.off += w
		}
	}

	e := newSizedElement(es.Name, es.Count)
	for i, p := range es.Properties {
		if bufs[i] == nil {
			// zero rows: the list width is unknown
			bufs[i] = newBuffer(p.Type, 0, 0, 2)
		}
		if err := e.Set(p.Name, bufs[i]); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// count reads one list length field.
func (d *binaryDecoder) count(es *ElementSchema, p PropertySchema, row int) (int, error) {
	size := p.CountType.Size()
	if len(d.data)-d.off < size {
		return 0, d.truncated(es, row)
	}
	raw := d.data[d.off : d.off+size]
	d.off += size
	var n int64
	switch p.CountType {
	case Int8:
		n = int64(int8(raw[0]))
	case Uint8:
		n = int64(raw[0])
	case Int16:
		n = int64(int16(d.order.Uint16(raw)))
	case Uint16:
		n = int64(d.order.Uint16(raw))
	case Int32:
		n = int64(int32(d.order.Uint32(raw)))
	case Uint32:
		n = int64(d.order.Uint32(raw))
	default:
		return 0, fmt.Errorf("ply: element %q property %q: invalid count type %s", es.Name, p.Name, p.CountType)
	}
	if n < 0 {
		return 0, fmt.Errorf("ply: element %q property %q row %d: negative list length %d", es.Name, p.Name, row, n)
	}
	return int(n), nil
}
