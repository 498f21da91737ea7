// SPDX-License-Identifier: MIT

// Package matrix - Dense storage (row-major) & safe accessors.
//
// Purpose:
//   - Provide a cache-friendly row-major buffer with the explicit index formula i*cols + j.
//   - Guarantee safety at the public surface: At/Set return errors instead of panicking.
//   - Keep algorithmic determinism (fixed loop orders, no map iteration).
//
// Complexity quicksheet:
//   - NewDense: O(r*c) zero-init; At/Set: O(1); Clone: O(r*c); AddScaled: O(r*c).

package matrix

import (
	"fmt"
	"math"
	"strings"
)

// ---------- error context tags ----------

const (
	ctxAt        = "At"
	ctxSet       = "Set"
	ctxAddScaled = "AddScaled"
	ctxScale     = "Scale"
)

// ---------- Formatting literals ----------
const (
	_fmtRowOpen  = "["
	_fmtRowClose = "]\n"
	_fmtSep      = ", "
)

// denseErrorf wraps an error with a uniform Dense context and callsite indices.
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

// Dense is a concrete row-major matrix.
//   - r,c hold dimensions (rows, cols).
//   - data is a flat buffer of length r*c in row-major order (offset = i*c + j).
type Dense struct {
	r, c int       // row and column counts (> 0)
	data []float64 // contiguous row-major storage (len == r*c)
}

// Compile-time assertions for interface & fmt.Stringer conformance.
var (
	_ Matrix       = (*Dense)(nil)
	_ fmt.Stringer = (*Dense)(nil)
)

// NewDense creates an r×c zero matrix using row-major storage.
//
// Errors:
//   - ErrInvalidDimensions when rows <= 0 or cols <= 0.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func NewDense(rows, cols int) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}

	return &Dense{r: rows, c: cols, data: make([]float64, rows*cols)}, nil
}

// NewDenseFrom builds an r×c matrix that copies values (row-major).
// Returns ErrDimensionMismatch when len(values) != rows*cols and ErrNaNInf
// when any value is not finite.
func NewDenseFrom(rows, cols int, values []float64) (*Dense, error) {
	m, err := NewDense(rows, cols)
	if err != nil {
		return nil, err
	}
	if len(values) != rows*cols {
		return nil, fmt.Errorf("NewDenseFrom: %w", ErrDimensionMismatch)
	}
	var i int
	for i = range values {
		if math.IsNaN(values[i]) || math.IsInf(values[i], 0) {
			return nil, denseErrorf(ctxSet, i/cols, i%cols, ErrNaNInf)
		}
	}
	copy(m.data, values)

	return m, nil
}

// Rows returns the number of rows.
func (m *Dense) Rows() int { return m.r }

// Cols returns the number of columns.
func (m *Dense) Cols() int { return m.c }

// Shape returns (rows, cols).
func (m *Dense) Shape() (rows, cols int) { return m.r, m.c }

// indexOf validates (row, col) and returns the flat offset.
// The tag names the public method for error context.
func (m *Dense) indexOf(tag string, row, col int) (int, error) {
	if row < 0 || row >= m.r || col < 0 || col >= m.c {
		return 0, denseErrorf(tag, row, col, ErrOutOfRange)
	}

	return row*m.c + col, nil
}

// At retrieves the element at (row, col).
// Complexity: O(1).
func (m *Dense) At(row, col int) (float64, error) {
	idx, err := m.indexOf(ctxAt, row, col)
	if err != nil {
		return 0, err
	}

	return m.data[idx], nil
}

// Set assigns v at (row, col). NaN and ±Inf are rejected with ErrNaNInf.
// Complexity: O(1).
func (m *Dense) Set(row, col int, v float64) error {
	idx, err := m.indexOf(ctxSet, row, col)
	if err != nil {
		return err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return denseErrorf(ctxSet, row, col, ErrNaNInf)
	}
	m.data[idx] = v

	return nil
}

// Clone returns a deep copy of the Dense matrix.
// Complexity: O(r*c).
func (m *Dense) Clone() Matrix {
	out := &Dense{r: m.r, c: m.c, data: make([]float64, len(m.data))}
	copy(out.data, m.data)

	return out
}

// RawRow returns row i as a slice aliasing the backing storage.
// Mutations through the slice are visible in m. Panics when i is out of
// range, like any slice index.
func (m *Dense) RawRow(i int) []float64 {
	return m.data[i*m.c : (i+1)*m.c : (i+1)*m.c]
}

// AddScaled performs m += alpha * x in place.
//
// Implementation:
//   - Stage 1: validate x non-nil and same shape as m.
//   - Stage 2: fast path on *Dense (flat walk); fallback via At.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch, propagated At errors.
//
// Complexity:
//   - Time O(r*c), Space O(1).
//
// AI-Hints:
//   - Used as the accumulation step of weighted sums of matrices
//     (e.g. RDM contributions); pass *Dense to stay on the fast path.
func (m *Dense) AddScaled(alpha float64, x Matrix) error {
	if err := ValidateNotNil(x); err != nil {
		return matrixErrorf(ctxAddScaled, err)
	}
	if err := ValidateSameShape(m, x); err != nil {
		return matrixErrorf(ctxAddScaled, err)
	}
	if alpha == 0 {
		return nil
	}

	if d, ok := x.(*Dense); ok {
		var k int
		for k = range m.data {
			m.data[k] += alpha * d.data[k]
		}

		return nil
	}

	var (
		i, j int
		v    float64
		err  error
	)
	for i = 0; i < m.r; i++ {
		for j = 0; j < m.c; j++ {
			if v, err = x.At(i, j); err != nil {
				return matrixErrorf(ctxAddScaled, err)
			}
			m.data[i*m.c+j] += alpha * v
		}
	}

	return nil
}

// Scale multiplies every element by alpha in place.
// A non-finite alpha is rejected with ErrNaNInf and leaves m untouched.
func (m *Dense) Scale(alpha float64) error {
	if math.IsNaN(alpha) || math.IsInf(alpha, 0) {
		return matrixErrorf(ctxScale, ErrNaNInf)
	}
	var k int
	for k = range m.data {
		m.data[k] *= alpha
	}

	return nil
}

// Trace returns Σ_i m[i,i] over the leading square block.
func (m *Dense) Trace() float64 {
	n := min(m.r, m.c)
	var (
		i   int
		sum float64
	)
	for i = 0; i < n; i++ {
		sum += m.data[i*m.c+i]
	}

	return sum
}

// String implements fmt.Stringer: one bracketed row per line.
// Complexity: O(r*c).
func (m *Dense) String() string {
	var (
		sb   strings.Builder
		i, j int
	)
	for i = 0; i < m.r; i++ {
		sb.WriteString(_fmtRowOpen)
		for j = 0; j < m.c; j++ {
			if j > 0 {
				sb.WriteString(_fmtSep)
			}
			fmt.Fprintf(&sb, "%g", m.data[i*m.c+j])
		}
		sb.WriteString(_fmtRowClose)
	}

	return sb.String()
}
