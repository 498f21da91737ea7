// SPDX-License-Identifier: MIT
// Package matrix provides universal operations on any Matrix implementation:
// matrix multiplication, transpose, matrix-vector product, closeness checks
// and the Jacobi eigensolver for symmetric matrices. All functions perform
// strict fail-fast validation and return clear errors on dimension mismatches.
//
// Notes:
//   - All kernels use the central validators and wrap sentinels via matrixErrorf.
//   - *Dense operands take a flat-slice fast path; other Matrix values go through At.

package matrix

import (
	"fmt"
	"math"
)

// ZeroSum is the initial value for accumulations.
const ZeroSum = 0.0

// Operation name constants for unified error wrapping.
const (
	opMul       = "Mul"
	opTranspose = "Transpose"
	opMatVec    = "MatVec"
	opEigen     = "Eigen"
	opAllClose  = "AllClose"
	opTridiag   = "NewSymTridiagonal"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil to avoid creating a non-nil wrapper around a nil cause.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// toDense returns m itself when it is a *Dense, else a *Dense copy built via At.
// Kernels call it once so their hot loops only see flat slices.
func toDense(m Matrix) (*Dense, error) {
	if d, ok := m.(*Dense); ok {
		return d, nil
	}
	out, err := NewDense(m.Rows(), m.Cols())
	if err != nil {
		return nil, err
	}
	var (
		i, j int
		v    float64
	)
	for i = 0; i < out.r; i++ {
		for j = 0; j < out.c; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, err
			}
			out.data[i*out.c+j] = v
		}
	}

	return out, nil
}

// Mul computes the product a·b.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (a.Cols != b.Rows).
//
// Determinism:
//   - Fixed i→k→j loop order.
//
// Complexity:
//   - Time O(r*n*c), Space O(r*c).
func Mul(a, b Matrix) (*Dense, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	if err := ValidateNotNil(b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	if a.Cols() != b.Rows() {
		return nil, matrixErrorf(opMul, ErrDimensionMismatch)
	}
	ad, err := toDense(a)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	bd, err := toDense(b)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	out, err := NewDense(ad.r, bd.c)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	var (
		i, k, j int
		aik     float64
	)
	for i = 0; i < ad.r; i++ {
		for k = 0; k < ad.c; k++ {
			aik = ad.data[i*ad.c+k]
			if aik == 0 {
				continue
			}
			for j = 0; j < bd.c; j++ {
				out.data[i*out.c+j] += aik * bd.data[k*bd.c+j]
			}
		}
	}

	return out, nil
}

// Transpose returns mᵗ as a new *Dense.
// Complexity: Time O(r*c), Space O(r*c).
func Transpose(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	src, err := toDense(m)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	out, err := NewDense(src.c, src.r)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	var i, j int
	for i = 0; i < src.r; i++ {
		for j = 0; j < src.c; j++ {
			out.data[j*out.c+i] = src.data[i*src.c+j]
		}
	}

	return out, nil
}

// MatVec computes y = m * x for a column vector x.
//
// Contract: m non-nil; x non-nil; len(x) == m.Cols().
// Determinism: fixed i→j loop order.
// Complexity: Time O(r*c), Space O(r) for y.
func MatVec(m Matrix, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, m.Cols()); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	d, err := toDense(m)
	if err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}

	y := make([]float64, d.r)
	var (
		i, j, base int
		acc        float64
	)
	for i = 0; i < d.r; i++ {
		acc = ZeroSum
		base = i * d.c
		for j = 0; j < d.c; j++ {
			if x[j] != 0 {
				acc += d.data[base+j] * x[j]
			}
		}
		y[i] = acc
	}

	return y, nil
}

// AllClose reports whether |a[i,j]-b[i,j]| ≤ atol + rtol·|b[i,j]| for all cells.
// Negative tolerances are normalized to their absolute value.
// Errors: ErrNilMatrix, ErrDimensionMismatch.
func AllClose(a, b Matrix, rtol, atol float64) (bool, error) {
	if err := ValidateNotNil(a); err != nil {
		return false, matrixErrorf(opAllClose, err)
	}
	if err := ValidateNotNil(b); err != nil {
		return false, matrixErrorf(opAllClose, err)
	}
	if err := ValidateSameShape(a, b); err != nil {
		return false, matrixErrorf(opAllClose, err)
	}
	rtol, atol = math.Abs(rtol), math.Abs(atol)

	var (
		i, j   int
		av, bv float64
		err    error
	)
	for i = 0; i < a.Rows(); i++ {
		for j = 0; j < a.Cols(); j++ {
			if av, err = a.At(i, j); err != nil {
				return false, matrixErrorf(opAllClose, err)
			}
			if bv, err = b.At(i, j); err != nil {
				return false, matrixErrorf(opAllClose, err)
			}
			if math.Abs(av-bv) > atol+rtol*math.Abs(bv) {
				return false, nil
			}
		}
	}

	return true, nil
}

// NewIdentity returns I_n.
func NewIdentity(n int) (*Dense, error) {
	id, err := NewDense(n, n)
	if err != nil {
		return nil, err
	}
	var i int
	for i = 0; i < n; i++ {
		id.data[i*n+i] = 1
	}

	return id, nil
}

// NewSymTridiagonal builds the k×k symmetric tridiagonal matrix with
// diagonal a (length k) and off-diagonal b (length k-1).
//
// Errors:
//   - ErrInvalidDimensions when a is empty.
//   - ErrDimensionMismatch when len(b) != len(a)-1.
//   - ErrNaNInf when any coefficient is not finite.
//
// Complexity:
//   - Time O(k²) (zero-init), Space O(k²).
func NewSymTridiagonal(a, b []float64) (*Dense, error) {
	k := len(a)
	if k == 0 {
		return nil, matrixErrorf(opTridiag, ErrInvalidDimensions)
	}
	if len(b) != k-1 {
		return nil, matrixErrorf(opTridiag, ErrDimensionMismatch)
	}
	t, err := NewDense(k, k)
	if err != nil {
		return nil, matrixErrorf(opTridiag, err)
	}
	var i int
	for i = 0; i < k; i++ {
		if math.IsNaN(a[i]) || math.IsInf(a[i], 0) {
			return nil, matrixErrorf(opTridiag, ErrNaNInf)
		}
		t.data[i*k+i] = a[i]
	}
	for i = 0; i < k-1; i++ {
		if math.IsNaN(b[i]) || math.IsInf(b[i], 0) {
			return nil, matrixErrorf(opTridiag, ErrNaNInf)
		}
		t.data[i*k+i+1] = b[i]
		t.data[(i+1)*k+i] = b[i]
	}

	return t, nil
}

// Eigen computes eigenvalues and eigenvectors of a symmetric matrix via
// cyclic Jacobi sweeps.
//
// Implementation:
//   - Stage 1: Validate symmetric square input within tol.
//   - Stage 2: Copy into a flat working buffer A and start Q = I.
//   - Stage 3: Each sweep visits every (p,q), p<q, in row-major order and
//     annihilates A[p,q] with a plane rotation accumulated into Q, until
//     max_{p<q} |A[p,q]| ≤ tol or maxSweeps is reached.
//
// Inputs:
//   - m: symmetric Matrix (within tol); n := m.Rows().
//   - tol: absolute convergence threshold on the off-diagonal.
//   - maxSweeps: safety cap on full sweeps.
//
// Returns:
//   - []float64: eigenvalues (diagonal of the rotated matrix, unsorted).
//   - *Dense: Q whose column i is the eigenvector of eigenvalue i.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch, ErrAsymmetry (via ValidateSymmetric),
//     ErrMatrixEigenFailed (off-diagonal still > tol after maxSweeps).
//
// Determinism:
//   - Fixed sweep order; identical inputs give bit-identical outputs.
//
// Complexity:
//   - Time O(maxSweeps * n^3), Space O(n^2).
//
// AI-Hints:
//   - Good defaults: tol ≈ 1e-12·‖A‖, maxSweeps ≈ 50 for n ≤ 256.
func Eigen(m Matrix, tol float64, maxSweeps int) ([]float64, *Dense, error) {
	if err := ValidateSymmetric(m, tol); err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	src, err := toDense(m)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	tol = math.Abs(tol)
	n := src.r
	a := make([]float64, n*n)
	copy(a, src.data)
	q, err := NewIdentity(n)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}

	var (
		sweep, i, p, r int
		app, aqq, apq  float64
		aip, aiq       float64
		qip, qiq       float64
		theta, t, c, s float64
	)
	for sweep = 0; sweep < maxSweeps; sweep++ {
		if maxOffDiagonal(a, n) <= tol {
			break
		}
		for p = 0; p < n-1; p++ {
			for r = p + 1; r < n; r++ {
				apq = a[p*n+r]
				if math.Abs(apq) <= tol {
					continue
				}
				app, aqq = a[p*n+p], a[r*n+r]
				theta = (aqq - app) / (2 * apq)
				t = math.Copysign(1.0/(math.Abs(theta)+math.Hypot(theta, 1)), theta)
				c = 1.0 / math.Sqrt(t*t+1)
				s = t * c

				for i = 0; i < n; i++ {
					if i == p || i == r {
						continue
					}
					aip, aiq = a[i*n+p], a[i*n+r]
					a[i*n+p] = c*aip - s*aiq
					a[p*n+i] = a[i*n+p]
					a[i*n+r] = s*aip + c*aiq
					a[r*n+i] = a[i*n+r]
				}
				a[p*n+p] = c*c*app - 2*c*s*apq + s*s*aqq
				a[r*n+r] = s*s*app + 2*c*s*apq + c*c*aqq
				a[p*n+r], a[r*n+p] = 0, 0

				for i = 0; i < n; i++ {
					qip, qiq = q.data[i*n+p], q.data[i*n+r]
					q.data[i*n+p] = c*qip - s*qiq
					q.data[i*n+r] = s*qip + c*qiq
				}
			}
		}
	}
	if maxOffDiagonal(a, n) > tol {
		return nil, nil, matrixErrorf(opEigen, ErrMatrixEigenFailed)
	}

	eigs := make([]float64, n)
	for i = 0; i < n; i++ {
		eigs[i] = a[i*n+i]
	}

	return eigs, q, nil
}

// maxOffDiagonal returns max_{i<j} |a[i*n+j]| for a flat symmetric n×n buffer.
func maxOffDiagonal(a []float64, n int) float64 {
	var (
		i, j int
		off  float64
	)
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			off = max(off, math.Abs(a[i*n+j]))
		}
	}

	return off
}
