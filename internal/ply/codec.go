package ply

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/banshee-data/plykit/internal/fsutil"
	"github.com/banshee-data/plykit/internal/monitoring"
)

// DefaultParallelExtractMinBytes is the element block size above which scalar
// properties are extracted concurrently.
const DefaultParallelExtractMinBytes = 1 << 20

// Options controls how a Codec reads and writes files.
type Options struct {
	// Format is the body encoding used for writes. FormatUnknown selects the
	// binary format matching the host byte order.
	Format Format

	// Comments are emitted as comment lines on every write.
	Comments []string

	// FloatMatrixElement names the element written by SaveFloatMatrix.
	FloatMatrixElement string

	// ParallelExtractMinBytes enables concurrent property extraction for
	// list-free binary elements at least this large. Zero disables it.
	ParallelExtractMinBytes int
}

// DefaultOptions returns the options used by the package-level functions.
func DefaultOptions() Options {
	return Options{
		FloatMatrixElement:      "vertex",
		ParallelExtractMinBytes: DefaultParallelExtractMinBytes,
	}
}

// writeFormat resolves the body encoding for writes.
func (o Options) writeFormat() Format {
	if o.Format == FormatUnknown {
		return HostFormat()
	}
	return o.Format
}

// Codec loads and saves PLY files on a FileSystem. Each call opens, uses and
// closes its own file handle; a Codec holds no per-file state and is safe for
// concurrent use.
type Codec struct {
	fs   fsutil.FileSystem
	opts Options
}

// NewCodec returns a codec over fsys. A nil fsys uses the OS filesystem.
func NewCodec(fsys fsutil.FileSystem, opts Options) *Codec {
	if fsys == nil {
		fsys = fsutil.OSFileSystem{}
	}
	if opts.FloatMatrixElement == "" {
		opts.FloatMatrixElement = "vertex"
	}
	return &Codec{fs: fsys, opts: opts}
}

var defaultCodec = NewCodec(nil, DefaultOptions())

// DefaultCodec returns the codec behind the package-level functions.
func DefaultCodec() *Codec { return defaultCodec }

// Options returns the codec options.
func (c *Codec) Options() Options { return c.opts }

// LoadGeneric reads path into a Table using the OS filesystem.
func LoadGeneric(path string) (*Table, error) { return defaultCodec.LoadGeneric(path) }

// SaveGeneric writes t to path using the OS filesystem.
func SaveGeneric(path string, t *Table) error { return defaultCodec.SaveGeneric(path, t) }

// ReadHeader parses only the header of path.
func (c *Codec) ReadHeader(path string) (*Header, error) {
	f, err := c.fs.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	h, err := ParseHeader(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return h, nil
}

// Load reads path and returns both its header and decoded table.
func (c *Codec) Load(path string) (*Header, *Table, error) {
	start := time.Now()
	f, err := c.fs.Open(path)
	if err != nil {
		return nil, nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	br := bufio.NewReaderSize(f, 64*1024)
	h, err := ParseHeader(br)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	t, err := DecodeBody(br, h, c.opts)
	if err != nil {
		var ioErr *IOError
		if errors.As(err, &ioErr) {
			ioErr.Path = path
		}
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	monitoring.Logf("ply: loaded %s (%s, %d elements) in %v", path, h.Format, t.Len(), time.Since(start))
	return h, t, nil
}

// LoadGeneric reads path into a Table.
func (c *Codec) LoadGeneric(path string) (*Table, error) {
	_, t, err := c.Load(path)
	return t, err
}

// SaveGeneric writes t to path. The table is validated before the file is
// created; a write that fails part way removes the partial file.
func (c *Codec) SaveGeneric(path string, t *Table) error {
	if err := CheckEncodable(t); err != nil {
		return err
	}
	f := c.opts.writeFormat()
	if !f.IsBinary() && f != FormatASCII {
		return &UnsupportedEncodingError{Format: f, Op: "encode"}
	}
	h := HeaderFor(t, f)
	h.Comments = append(h.Comments, c.opts.Comments...)

	err := c.writeFile(path, func(w *bufio.Writer) error {
		if err := WriteHeader(w, h); err != nil {
			return err
		}
		return EncodeBody(w, t, f)
	})
	if err != nil {
		return err
	}
	monitoring.Logf("ply: saved %s (%s, %d elements)", path, f, t.Len())
	return nil
}

// checkParent fails with *IOError when the directory of path does not exist.
func (c *Codec) checkParent(path string) error {
	dir := filepath.Dir(path)
	info, err := c.fs.Stat(dir)
	if err != nil {
		return &IOError{Op: "save", Path: path, Err: fmt.Errorf("parent directory %s: %w", dir, err)}
	}
	if !info.IsDir() {
		return &IOError{Op: "save", Path: path, Err: fmt.Errorf("parent %s is not a directory: %w", dir, fs.ErrInvalid)}
	}
	return nil
}

// writeFile creates path, runs write against a buffered writer, and closes
// the file on every path.
func (c *Codec) writeFile(path string, write func(w *bufio.Writer) error) (err error) {
	if err := c.checkParent(path); err != nil {
		return err
	}
	out, err := c.fs.Create(path)
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = &IOError{Op: "close", Path: path, Err: cerr}
		}
		if err != nil {
			if rerr := c.fs.Remove(path); rerr != nil {
				monitoring.Logf("ply: could not remove partial file %s: %v", path, rerr)
			}
		}
	}()

	bw := bufio.NewWriterSize(out, 64*1024)
	if err := write(bw); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := bw.Flush(); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}
