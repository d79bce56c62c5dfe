package ply

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func mustMatrix[T Number](t *testing.T, rows, cols int, vals []T) *Buffer {
	t.Helper()
	b, err := Matrix(rows, cols, vals)
	require.NoError(t, err)
	return b
}

func TestBufferShapes(t *testing.T) {
	t.Parallel()

	v := Vector([]int16{1, -2, 3})
	assert.Equal(t, Int16, v.DType())
	assert.Equal(t, []int{3}, v.Shape())
	assert.Equal(t, 1, v.NDim())
	assert.False(t, v.IsList())

	m := mustMatrix(t, 2, 3, []uint32{1, 2, 3, 4, 5, 6})
	assert.Equal(t, []int{2, 3}, m.Shape())
	assert.True(t, m.IsList())
	assert.Equal(t, 6.0, m.Float64At(1, 2))

	col := mustMatrix(t, 2, 1, []float32{1, 2})
	assert.False(t, col.IsList(), "a single column is written as a scalar")

	_, err := Matrix(2, 2, []float32{1, 2, 3})
	var sm *ShapeMismatchError
	require.ErrorAs(t, err, &sm)
}

func TestBufferValues(t *testing.T) {
	t.Parallel()

	m := mustMatrix(t, 2, 2, []float64{1.5, -2, 3, 4})
	got, err := Values[float64](m)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, -2, 3, 4}, got)

	_, err = Values[float32](m)
	var dm *DtypeMismatchError
	require.ErrorAs(t, err, &dm)
	assert.Equal(t, Float32, dm.Want)
	assert.Equal(t, Float64, dm.Got)

	c, err := Values[float64](m.Column(1))
	require.NoError(t, err)
	assert.Equal(t, []float64{-2, 4}, c)
}

func TestBufferFromBytes(t *testing.T) {
	t.Parallel()

	b, err := FromBytes(Uint16, 1, 2, 0, []byte{1, 0, 0, 1})
	require.NoError(t, err)
	vals, err := Values[uint16](b)
	require.NoError(t, err)
	assert.Equal(t, []uint16{1, 256}, vals)

	_, err = FromBytes(Uint16, 1, 3, 0, []byte{1, 0})
	assert.Error(t, err)
	_, err = FromBytes(Uint16, 3, 1, 1, []byte{1, 0})
	assert.Error(t, err)
	_, err = FromBytes(TypeInvalid, 1, 0, 0, nil)
	assert.Error(t, err)
}

func TestBufferCloneIsIndependent(t *testing.T) {
	t.Parallel()

	b := Vector([]uint8{1, 2, 3})
	c := b.Clone()
	assert.True(t, b.Equal(c))
	c.data[0] = 9
	assert.False(t, b.Equal(c))
	assert.Equal(t, 1.0, b.Float64At(0, 0))
}

func TestCopySwappedInPlace(t *testing.T) {
	t.Parallel()

	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	copySwapped(data, data, 4, true)
	assert.Equal(t, []byte{4, 3, 2, 1, 8, 7, 6, 5}, data)
}

func TestElementSet(t *testing.T) {
	t.Parallel()

	e := NewElement("vertex")
	require.NoError(t, e.Set("x", Vector([]float32{1, 2})))
	require.NoError(t, e.Set("y", Vector([]float32{3, 4})))
	assert.Equal(t, 2, e.Rows())

	err := e.Set("z", Vector([]float32{1, 2, 3}))
	var sm *ShapeMismatchError
	require.ErrorAs(t, err, &sm)
	assert.Equal(t, "rows", sm.Dim)

	// replacing keeps position
	require.NoError(t, e.Set("x", Vector([]float32{9, 9})))
	assert.Equal(t, []string{"x", "y"}, e.Names())
	assert.Equal(t, 9.0, e.Get("x").OrNil().Float64At(0, 0))

	assert.Error(t, e.Set("", Vector([]float32{1, 2})))
	assert.Error(t, e.Set("a b", Vector([]float32{1, 2})))
	assert.Error(t, e.Set("w", nil))
	assert.Equal(t, []string{"x", "y"}, e.Names())
}

func TestValidName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want bool
	}{
		{"vertex", true},
		{"vertex_index", true},
		{"x.1", true},
		{"", false},
		{"a b", false},
		{"tab\there", false},
		{"line\n", false},
		{"nbsp\u00a0x", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidName(tt.name), "%q", tt.name)
	}
}

func TestElementSelect(t *testing.T) {
	t.Parallel()

	e := NewElement("vertex")
	require.NoError(t, e.Set("x", Vector([]float32{1, 2})))
	require.NoError(t, e.Set("y", Vector([]float32{3, 4})))
	require.NoError(t, e.Set("z", Vector([]float32{5, 6})))
	require.NoError(t, e.Set("red", Vector([]uint8{7, 8})))

	got, err := e.Select("z", "x")
	require.NoError(t, err)
	b, ok := got.Get()
	require.True(t, ok)
	assert.True(t, b.Equal(mustMatrix(t, 2, 2, []float32{5, 1, 6, 2})), b.String())

	got, err = e.Select("x", "nx")
	require.NoError(t, err)
	assert.False(t, got.Present(), "any missing name yields None")

	_, err = e.Select("x", "red")
	var dm *DtypeMismatchError
	require.ErrorAs(t, err, &dm)
	assert.Equal(t, "red", dm.Property)

	_, err = e.Select()
	assert.Error(t, err)
}

func TestTable(t *testing.T) {
	t.Parallel()

	tbl := NewTable()
	v := NewElement("vertex")
	require.NoError(t, v.Set("x", Vector([]float32{1})))
	require.NoError(t, tbl.Add(v))
	require.NoError(t, tbl.Add(NewElement("face")))
	assert.Error(t, tbl.Add(NewElement("vertex")))
	assert.Error(t, tbl.Add(NewElement("")))
	assert.Error(t, tbl.Add(NewElement("my vertex")))

	assert.Equal(t, []string{"vertex", "face"}, tbl.Names())
	assert.True(t, tbl.Get("vertex", "x").Present())
	assert.False(t, tbl.Get("vertex", "y").Present())
	assert.False(t, tbl.Get("edge", "x").Present())

	sel, err := tbl.Select("edge", "x")
	require.NoError(t, err)
	assert.False(t, sel.Present())

	c := tbl.Clone()
	cv, _ := c.Element("vertex")
	require.NoError(t, cv.Set("x", Vector([]float32{5})))
	assert.Equal(t, 1.0, tbl.Get("vertex", "x").OrNil().Float64At(0, 0))
}

func TestBufferDense(t *testing.T) {
	t.Parallel()

	b := mustMatrix(t, 2, 2, []int32{1, 2, 3, -4})
	d := b.Dense()
	require.NotNil(t, d)
	assert.True(t, mat.Equal(mat.NewDense(2, 2, []float64{1, 2, 3, -4}), d))

	back, err := FromDense(d, Int16)
	require.NoError(t, err)
	vals, err := Values[int16](back)
	require.NoError(t, err)
	assert.Equal(t, []int16{1, 2, 3, -4}, vals)

	r, c := Vector([]float64{1, 2, 3}).Dense().Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 1, c)

	assert.Nil(t, Vector([]float64{}).Dense())

	_, err = FromDense(d, TypeInvalid)
	assert.Error(t, err)
}
