// Package matrix offers the small dense linear-algebra toolkit used by the
// finite-temperature Lanczos packages.
//
// The matrix package provides:
//
//   - Dense: a row-major float64 matrix with bounds-checked At/Set.
//   - Kernels: Mul, Transpose, MatVec, AllClose and the in-place AddScaled
//     used to accumulate reduced density matrices.
//   - Eigen: a Jacobi eigensolver for symmetric matrices, used as the pure-Go
//     backend of the tridiagonal solver.
//   - NewSymTridiagonal: builds the k×k matrix represented by Lanczos
//     coefficients (a, b).
//
// Matrices here are small (k ≤ a few hundred, norb×norb RDMs), so every
// kernel favours determinism and clear errors over blocking or SIMD tricks.
package matrix
