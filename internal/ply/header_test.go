package ply

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const meshHeader = "ply\n" +
	"format binary_little_endian 1.0\n" +
	"comment made by hand\n" +
	"obj_info scanner 3\n" +
	"element vertex 2\n" +
	"property float x\n" +
	"property float32 y\n" +
	"element face 1\n" +
	"property list uchar int vertex_index\n" +
	"end_header\n"

func TestParseHeader(t *testing.T) {
	t.Parallel()

	r := bufio.NewReader(strings.NewReader(meshHeader + "BODY"))
	h, err := ParseHeader(r)
	require.NoError(t, err)

	want := &Header{
		Format:   FormatBinaryLittleEndian,
		Version:  "1.0",
		Comments: []string{"made by hand"},
		ObjInfo:  []string{"scanner 3"},
		Elements: []ElementSchema{
			{Name: "vertex", Count: 2, Properties: []PropertySchema{
				{Name: "x", Type: Float32},
				{Name: "y", Type: Float32},
			}},
			{Name: "face", Count: 1, Properties: []PropertySchema{
				{Name: "vertex_index", Type: Int32, IsList: true, CountType: Uint8},
			}},
		},
		Size: int64(len(meshHeader)),
	}
	if diff := cmp.Diff(want, h); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}

	rest, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "BODY", string(rest), "reader should stop at the first body byte")
}

func TestParseHeader_CRLF(t *testing.T) {
	t.Parallel()

	src := strings.ReplaceAll("ply\nformat ascii 1.0\nelement v 0\nproperty uchar a\nend_header\n", "\n", "\r\n")
	h, err := ParseHeader(bufio.NewReader(strings.NewReader(src)))
	require.NoError(t, err)
	assert.Equal(t, FormatASCII, h.Format)
	require.Len(t, h.Elements, 1)
	assert.Equal(t, "a", h.Elements[0].Properties[0].Name)
}

func TestParseHeader_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{"missing magic", "plx\nformat ascii 1.0\nend_header\n"},
		{"empty input", ""},
		{"unterminated", "ply\nformat ascii 1.0\nelement v 1\n"},
		{"unknown encoding", "ply\nformat binary_middle_endian 1.0\nend_header\n"},
		{"short format line", "ply\nformat ascii\nend_header\n"},
		{"duplicate format", "ply\nformat ascii 1.0\nformat ascii 1.0\nend_header\n"},
		{"missing format", "ply\nelement v 1\nproperty float x\nend_header\n"},
		{"property before element", "ply\nformat ascii 1.0\nproperty float x\nend_header\n"},
		{"negative count", "ply\nformat ascii 1.0\nelement v -1\nend_header\n"},
		{"non numeric count", "ply\nformat ascii 1.0\nelement v many\nend_header\n"},
		{"duplicate element", "ply\nformat ascii 1.0\nelement v 1\nelement v 2\nend_header\n"},
		{"unknown type", "ply\nformat ascii 1.0\nelement v 1\nproperty quad x\nend_header\n"},
		{"float list count", "ply\nformat ascii 1.0\nelement f 1\nproperty list float int i\nend_header\n"},
		{"short list line", "ply\nformat ascii 1.0\nelement f 1\nproperty list uchar i\nend_header\n"},
		{"duplicate property", "ply\nformat ascii 1.0\nelement v 1\nproperty float x\nproperty int x\nend_header\n"},
		{"empty line", "ply\nformat ascii 1.0\n\nend_header\n"},
		{"unknown keyword", "ply\nformat ascii 1.0\nvertex 3\nend_header\n"},
		{"trailing end_header tokens", "ply\nformat ascii 1.0\nend_header now\n"},
		{"overlong line", "ply\ncomment " + strings.Repeat("a", maxHeaderLine) + "\nend_header\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseHeader(bufio.NewReader(strings.NewReader(tt.src)))
			var mh *MalformedHeaderError
			require.ErrorAs(t, err, &mh)
		})
	}
}

func TestParseHeader_LineNumber(t *testing.T) {
	t.Parallel()

	_, err := ParseHeader(bufio.NewReader(strings.NewReader("ply\nformat ascii 1.0\nelement v 1\nproperty quad x\nend_header\n")))
	var mh *MalformedHeaderError
	require.ErrorAs(t, err, &mh)
	assert.Equal(t, 4, mh.Line)
	assert.Equal(t, "property quad x", mh.Text)
}

func TestWriteHeader_RoundTrip(t *testing.T) {
	t.Parallel()

	h, err := ParseHeader(bufio.NewReader(strings.NewReader(meshHeader)))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, h))

	// y was declared with a sized alias and is written with the classic token.
	want := strings.Replace(meshHeader, "float32 y", "float y", 1)
	assert.Equal(t, want, buf.String())

	again, err := ParseHeader(bufio.NewReader(&buf))
	require.NoError(t, err)
	if diff := cmp.Diff(h, again, cmpopts.IgnoreFields(Header{}, "Size")); diff != "" {
		t.Errorf("re-parsed header mismatch (-want +got):\n%s", diff)
	}
}

func TestHeaderFor(t *testing.T) {
	t.Parallel()

	faces, err := Matrix(2, 3, []int32{0, 1, 2, 2, 1, 0})
	require.NoError(t, err)
	single, err := Matrix(2, 1, []float64{1, 2})
	require.NoError(t, err)

	face := NewElement("face")
	require.NoError(t, face.Set("vertex_index", faces))
	require.NoError(t, face.Set("quality", single))
	tbl := NewTable()
	require.NoError(t, tbl.Add(face))

	h := HeaderFor(tbl, FormatBinaryBigEndian)
	want := &Header{
		Format:  FormatBinaryBigEndian,
		Version: "1.0",
		Elements: []ElementSchema{{Name: "face", Count: 2, Properties: []PropertySchema{
			{Name: "vertex_index", Type: Int32, IsList: true, CountType: Uint8},
			{Name: "quality", Type: Float64},
		}}},
	}
	if diff := cmp.Diff(want, h); diff != "" {
		t.Errorf("HeaderFor mismatch (-want +got):\n%s", diff)
	}
}

func TestPropertyTypeTokens(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tok  string
		want PropertyType
		size int
	}{
		{"char", Int8, 1},
		{"int8", Int8, 1},
		{"uchar", Uint8, 1},
		{"uint8", Uint8, 1},
		{"short", Int16, 2},
		{"ushort", Uint16, 2},
		{"int", Int32, 4},
		{"uint32", Uint32, 4},
		{"float", Float32, 4},
		{"double", Float64, 8},
		{"float64", Float64, 8},
	}
	for _, tt := range tests {
		got, ok := ParsePropertyType(tt.tok)
		require.True(t, ok, tt.tok)
		assert.Equal(t, tt.want, got, tt.tok)
		assert.Equal(t, tt.size, got.Size(), tt.tok)
	}

	_, ok := ParsePropertyType("int64")
	assert.False(t, ok)
	assert.False(t, TypeInvalid.Valid())
	assert.Equal(t, 0, PropertyType(200).Size())
}

func TestHostFormat(t *testing.T) {
	t.Parallel()
	assert.True(t, HostFormat().IsBinary())
}
