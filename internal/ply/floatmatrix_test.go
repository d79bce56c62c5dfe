package ply

import (
	"encoding/binary"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloatMatrix_RoundTrip(t *testing.T) {
	t.Parallel()

	c, fsys := memCodec(t, Options{FloatMatrixElement: "point", Comments: []string{"cloud"}})
	m := mustMatrix(t, 3, 2, []float32{1, 2, 3, 4, 5, 6})
	require.NoError(t, c.SaveFloatMatrix("m.ply", m, []string{"u", "v"}))

	data, err := fsys.ReadFile("m.ply")
	require.NoError(t, err)
	wantHeader := "ply\nformat binary_little_endian 1.0\ncomment cloud\nelement point 3\nproperty float u\nproperty float v\nend_header\n"
	require.True(t, strings.HasPrefix(string(data), wantHeader), string(data))
	assert.Len(t, data, len(wantHeader)+3*2*4)

	got, names, err := c.LoadFloatMatrix("m.ply")
	require.NoError(t, err)
	assert.Equal(t, []string{"u", "v"}, names)
	assert.True(t, got.Equal(m), got.String())
	assert.Equal(t, 0, fsys.OpenHandles())

	// the generic path reads the same file as separate properties
	tbl, err := c.LoadGeneric("m.ply")
	require.NoError(t, err)
	assert.True(t, tbl.Get("point", "v").OrNil().Equal(Vector([]float32{2, 4, 6})))
}

func TestFloatMatrix_LoadBigEndian(t *testing.T) {
	t.Parallel()

	header := "ply\nformat binary_big_endian 1.0\nelement vertex 2\nproperty float x\nproperty float y\nend_header\n"
	c, fsys := memCodec(t, DefaultOptions())
	require.NoError(t, fsys.WriteFile("be.ply", binaryFile(t, header, binary.BigEndian, []float32{1, 2, 3, 4}), 0o644))

	got, names, err := c.LoadFloatMatrix("be.ply")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, names)
	assert.True(t, got.Equal(mustMatrix(t, 2, 2, []float32{1, 2, 3, 4})), got.String())
}

func TestFloatMatrix_LoadMatchesGeneric(t *testing.T) {
	t.Parallel()

	header := "ply\nformat binary_little_endian 1.0\nelement vertex 4\nproperty float x\nproperty float y\nproperty float z\nend_header\n"
	vals := []float32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	c, fsys := memCodec(t, DefaultOptions())
	require.NoError(t, fsys.WriteFile("v.ply", binaryFile(t, header, binary.LittleEndian, vals), 0o644))

	fast, names, err := c.LoadFloatMatrix("v.ply")
	require.NoError(t, err)
	tbl, err := c.LoadGeneric("v.ply")
	require.NoError(t, err)
	slow, err := tbl.Select("vertex", names...)
	require.NoError(t, err)
	assert.True(t, fast.Equal(slow.OrNil()))
}

func TestFloatMatrix_LoadUnsupported(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
	}{
		{"two elements", "ply\nformat binary_little_endian 1.0\nelement a 0\nproperty float x\nelement b 0\nproperty float x\nend_header\n"},
		{"ascii", "ply\nformat ascii 1.0\nelement a 0\nproperty float x\nend_header\n"},
		{"double", "ply\nformat binary_little_endian 1.0\nelement a 0\nproperty double x\nend_header\n"},
		{"list", "ply\nformat binary_little_endian 1.0\nelement a 0\nproperty list uchar float x\nend_header\n"},
		{"integer", "ply\nformat binary_little_endian 1.0\nelement a 0\nproperty float x\nproperty int i\nend_header\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, fsys := memCodec(t, DefaultOptions())
			require.NoError(t, fsys.WriteFile("u.ply", []byte(tt.header), 0o644))
			_, _, err := c.LoadFloatMatrix("u.ply")
			var uf *UnsupportedFormatError
			require.ErrorAs(t, err, &uf)
			assert.Equal(t, "u.ply", uf.Path)
			assert.Equal(t, 0, fsys.OpenHandles())
		})
	}
}

func TestFloatMatrix_LoadTruncated(t *testing.T) {
	t.Parallel()

	header := "ply\nformat binary_little_endian 1.0\nelement vertex 2\nproperty float x\nend_header\n"
	c, fsys := memCodec(t, DefaultOptions())
	require.NoError(t, fsys.WriteFile("t.ply", binaryFile(t, header, binary.LittleEndian, float32(1)), 0o644))

	_, _, err := c.LoadFloatMatrix("t.ply")
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Equal(t, 0, fsys.OpenHandles())
}

func TestFloatMatrix_SaveRejects(t *testing.T) {
	t.Parallel()

	m := mustMatrix(t, 2, 2, []float32{1, 2, 3, 4})
	tests := []struct {
		name  string
		buf   *Buffer
		names []string
		check func(t *testing.T, err error)
	}{
		{"nil buffer", nil, []string{"x"}, func(t *testing.T, err error) { require.Error(t, err) }},
		{"vector", Vector([]float32{1, 2}), []string{"x"}, func(t *testing.T, err error) {
			var sm *ShapeMismatchError
			require.ErrorAs(t, err, &sm)
			assert.Equal(t, "dimensions", sm.Dim)
		}},
		{"column count", m, []string{"x", "y", "z"}, func(t *testing.T, err error) {
			var sm *ShapeMismatchError
			require.ErrorAs(t, err, &sm)
			assert.Equal(t, 3, sm.Want)
			assert.Equal(t, 2, sm.Got)
		}},
		{"dtype", mustMatrix(t, 1, 2, []float64{1, 2}), []string{"x", "y"}, func(t *testing.T, err error) {
			var dm *DtypeMismatchError
			require.ErrorAs(t, err, &dm)
		}},
		{"duplicate name", m, []string{"x", "x"}, func(t *testing.T, err error) { require.ErrorContains(t, err, "duplicate") }},
		{"blank name", m, []string{"x", "a b"}, func(t *testing.T, err error) { require.ErrorContains(t, err, "invalid") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, fsys := memCodec(t, DefaultOptions())
			tt.check(t, c.SaveFloatMatrix("m.ply", tt.buf, tt.names))
			_, err := fsys.Stat("m.ply")
			assert.Error(t, err, "nothing should be written")
		})
	}
}

func TestFloatMatrix_LoadRowCountOverflow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
	}{
		{"one column", "ply\nformat binary_little_endian 1.0\nelement vertex 4611686018427387904\nproperty float x\nend_header\n"},
		{"two columns", "ply\nformat binary_little_endian 1.0\nelement vertex 2305843009213693952\nproperty float x\nproperty float y\nend_header\n"},
		{"past body", "ply\nformat binary_big_endian 1.0\nelement vertex 3\nproperty float x\nproperty float y\nend_header\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, fsys := memCodec(t, DefaultOptions())
			require.NoError(t, fsys.WriteFile("m.ply", binaryFile(t, tt.header, binary.LittleEndian, []float32{1, 2}), 0o644))

			b, names, err := c.LoadFloatMatrix("m.ply")
			require.ErrorIs(t, err, io.ErrUnexpectedEOF)
			assert.Nil(t, b)
			assert.Nil(t, names)
			assert.Equal(t, 0, fsys.OpenHandles())
		})
	}
}
