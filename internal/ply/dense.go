package ply

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Dense converts b to a float64 gonum matrix of shape (rows, cols). A (N)
// buffer becomes an (N, 1) column. gonum matrices cannot be empty, so a buffer
// with no values returns nil.
func (b *Buffer) Dense() *mat.Dense {
	if b.Len() == 0 {
		return nil
	}
	vals := make([]float64, b.Len())
	size := b.dtype.Size()
	for i := range vals {
		vals[i] = readFloat64(b.data[i*size:], b.dtype)
	}
	return mat.NewDense(b.rows, b.cols, vals)
}

// FromDense converts a gonum matrix to an (r, c) buffer of dtype. Values are
// converted as by a Go conversion from float64, so integer kinds truncate.
func FromDense(m mat.Matrix, dtype PropertyType) (*Buffer, error) {
	if !dtype.Valid() {
		return nil, fmt.Errorf("ply: invalid dtype %d", dtype)
	}
	r, c := m.Dims()
	b := newBuffer(dtype, r, c, 2)
	size := dtype.Size()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			writeFloat64(b.data[(i*c+j)*size:], dtype, m.At(i, j))
		}
	}
	return b, nil
}
