package ply

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	magic     = "ply"
	endHeader = "end_header"

	// maxHeaderLine bounds a single header line so that a binary file that is
	// not PLY is rejected without buffering it whole.
	maxHeaderLine = 4096
)

// ParseHeader reads the header from r, leaving r positioned at the first body
// byte.
func ParseHeader(r *bufio.Reader) (*Header, error) {
	p := headerParser{r: r, h: &Header{}}
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.h, nil
}

type headerParser struct {
	r      *bufio.Reader
	h      *Header
	line   int
	cur    *ElementSchema
	seenFm bool
}

func (p *headerParser) malformed(text, format string, args ...interface{}) error {
	return &MalformedHeaderError{Line: p.line, Text: text, Reason: fmt.Sprintf(format, args...)}
}

func (p *headerParser) readLine() (string, error) {
	var sb strings.Builder
	for {
		frag, err := p.r.ReadSlice('\n')
		sb.Write(frag)
		p.h.Size += int64(len(frag))
		if sb.Len() > maxHeaderLine {
			p.line++
			return "", p.malformed("", "line longer than %d bytes", maxHeaderLine)
		}
		if err == nil {
			break
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return "", &MalformedHeaderError{Line: p.line, Reason: "unterminated header: missing " + endHeader}
		}
		return "", &IOError{Op: "read", Path: "header", Err: err}
	}
	p.line++
	return strings.TrimRight(sb.String(), "\r\n"), nil
}

func (p *headerParser) parse() error {
	first, err := p.readLine()
	if err != nil {
		return err
	}
	if strings.TrimSpace(first) != magic {
		return p.malformed(first, "missing %q magic", magic)
	}

	for {
		line, err := p.readLine()
		if err != nil {
			return err
		}
		tok := strings.Fields(line)
		if len(tok) == 0 {
			return p.malformed(line, "empty line")
		}
		switch tok[0] {
		case "format":
			if err := p.format(line, tok); err != nil {
				return err
			}
		case "comment":
			p.h.Comments = append(p.h.Comments, restOf(line, "comment"))
		case "obj_info":
			p.h.ObjInfo = append(p.h.ObjInfo, restOf(line, "obj_info"))
		case "element":
			if err := p.element(line, tok); err != nil {
				return err
			}
		case "property":
			if err := p.property(line, tok); err != nil {
				return err
			}
		case endHeader:
			if len(tok) != 1 {
				return p.malformed(line, "trailing tokens after %s", endHeader)
			}
			if !p.seenFm {
				return p.malformed(line, "missing format line")
			}
			p.flush()
			return nil
		default:
			return p.malformed(line, "unrecognised keyword %q", tok[0])
		}
	}
}

func (p *headerParser) format(line string, tok []string) error {
	if p.seenFm {
		return p.malformed(line, "duplicate format line")
	}
	if len(tok) != 3 {
		return p.malformed(line, "format line needs an encoding and a version")
	}
	f, ok := ParseFormat(tok[1])
	if !ok {
		return p.malformed(line, "unknown encoding %q", tok[1])
	}
	p.h.Format, p.h.Version, p.seenFm = f, tok[2], true
	return nil
}

func (p *headerParser) element(line string, tok []string) error {
	if len(tok) != 3 {
		return p.malformed(line, "element line needs a name and a count")
	}
	count, err := strconv.Atoi(tok[2])
	if err != nil || count < 0 {
		return p.malformed(line, "invalid element count %q", tok[2])
	}
	p.flush()
	for _, e := range p.h.Elements {
		if e.Name == tok[1] {
			return p.malformed(line, "duplicate element %q", tok[1])
		}
	}
	p.cur = &ElementSchema{Name: tok[1], Count: count}
	return nil
}

func (p *headerParser) property(line string, tok []string) error {
	if p.cur == nil {
		return p.malformed(line, "property before any element")
	}
	var ps PropertySchema
	switch {
	case len(tok) == 5 && tok[1] == "list":
		ct, ok := ParsePropertyType(tok[2])
		if !ok || ct.IsFloat() {
			return p.malformed(line, "invalid list count type %q", tok[2])
		}
		vt, ok := ParsePropertyType(tok[3])
		if !ok {
			return p.malformed(line, "unknown property type %q", tok[3])
		}
		ps = PropertySchema{Name: tok[4], Type: vt, IsList: true, CountType: ct}
	case len(tok) == 3 && tok[1] != "list":
		vt, ok := ParsePropertyType(tok[1])
		if !ok {
			return p.malformed(line, "unknown property type %q", tok[1])
		}
		ps = PropertySchema{Name: tok[2], Type: vt}
	default:
		return p.malformed(line, "property line needs a type and a name")
	}
	if _, dup := p.cur.Property(ps.Name); dup {
		return p.malformed(line, "duplicate property %q in element %q", ps.Name, p.cur.Name)
	}
	p.cur.Properties = append(p.cur.Properties, ps)
	return nil
}

func (p *headerParser) flush() {
	if p.cur != nil {
		p.h.Elements = append(p.h.Elements, *p.cur)
		p.cur = nil
	}
}

// restOf returns the text following keyword on line, without the separating
// space.
func restOf(line, keyword string) string {
	rest := strings.TrimPrefix(strings.TrimLeft(line, " \t"), keyword)
	return strings.TrimPrefix(rest, " ")
}

// WriteHeader writes h in textual form, ending with the end_header line.
func WriteHeader(w io.Writer, h *Header) error {
	bw := bufio.NewWriter(w)
	version := h.Version
	if version == "" {
		version = "1.0"
	}
	fmt.Fprintf(bw, "%s\nformat %s %s\n", magic, h.Format, version)
	for _, c := range h.Comments {
		fmt.Fprintf(bw, "comment %s\n", c)
	}
	for _, o := range h.ObjInfo {
		fmt.Fprintf(bw, "obj_info %s\n", o)
	}
	for _, e := range h.Elements {
		fmt.Fprintf(bw, "element %s %d\n", e.Name, e.Count)
		for _, p := range e.Properties {
			if p.IsList {
				fmt.Fprintf(bw, "property list %s %s %s\n", p.CountType, p.Type, p.Name)
			} else {
				fmt.Fprintf(bw, "property %s %s\n", p.Type, p.Name)
			}
		}
	}
	fmt.Fprintf(bw, "%s\n", endHeader)
	return bw.Flush()
}
