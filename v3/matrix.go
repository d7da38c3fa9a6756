// Package v3 wraps gonum's dense matrix type to represent 3×N sets of
// atomic coordinates: one row per atom, one column per axis.
package v3

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

const cols = 3

// Error reports a shape mismatch against the packages's 3-column
// invariant.
type Error struct {
	msg string
}

func (e Error) Error() string { return e.msg }

// Matrix is a set of atomic coordinates: NVecs() rows, 3 columns.
type Matrix struct {
	*mat.Dense
}

// Zeros returns an n-atom coordinate matrix with every entry zero.
func Zeros(n int) *Matrix {
	return &Matrix{mat.NewDense(n, cols, nil)}
}

// NewMatrix builds a Matrix from a flat, row-major slice of x,y,z
// triples. len(data) must be a multiple of 3.
func NewMatrix(data []float64) (*Matrix, error) {
	if len(data)%cols != 0 {
		return nil, Error{fmt.Sprintf("v3: data length %d not divisible by %d", len(data), cols)}
	}
	rows := len(data) / cols
	return &Matrix{mat.NewDense(rows, cols, data)}, nil
}

// NVecs returns the number of atoms (rows) in the matrix.
func (m *Matrix) NVecs() int {
	r, _ := m.Dims()
	return r
}

// Row returns a direct, unsafe view into atom i's (x,y,z) triple. The
// returned slice aliases the matrix's backing array: writes through it
// mutate the matrix without any further allocation, which is what lets
// the frame decoder fill coordinates atom-by-atom with zero per-atom
// allocation.
func (m *Matrix) Row(i int) []float64 {
	return m.RawRowView(i)
}

// SetVec writes atom i's coordinates in one call.
func (m *Matrix) SetVec(i int, x, y, z float64) {
	row := m.RawRowView(i)
	row[0], row[1], row[2] = x, y, z
}

// Clone returns an independent copy of m, for callers that need to
// retain a frame's coordinates past the next iterator advance.
func (m *Matrix) Clone() *Matrix {
	out := Zeros(m.NVecs())
	for i := 0; i < m.NVecs(); i++ {
		copy(out.Row(i), m.Row(i))
	}
	return out
}
