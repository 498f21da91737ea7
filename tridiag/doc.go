// Package tridiag diagonalizes the small symmetric tridiagonal matrices
// produced by a Lanczos recursion.
//
// 🚀 What does it compute?
//
//	Given the diagonal a[0..k) and off-diagonal b[0..k-1) of
//
//	    ⎡ a0 b0          ⎤
//	T = ⎢ b0 a1 b1       ⎥
//	    ⎢    b1 ⋱  ⋱    ⎥
//	    ⎣       ⋱  ak-1 ⎦
//
//	Solve returns ascending eigenvalues eps and an orthogonal matrix phi with
//	T = phi · diag(eps) · phiᵗ. Column i of phi belongs to eps[i]; row 0 of
//	phi holds the overlaps of the eigenvectors with the Lanczos seed.
//
// ✨ Solvers (both symmetric-specialized, real spectrum guaranteed):
//   - LAPACK (default): gonum mat.EigenSym (Householder + implicit QL/QR).
//   - Jacobi: the pure-Go cyclic Jacobi of package matrix, sorted afterwards.
//
// ⚙️ Usage:
//
//	spec, err := tridiag.Solve(a, b)
//	spec, err := tridiag.Solve(a, b, tridiag.WithSolver(tridiag.Jacobi))
//
// Performance: O(k³) time, O(k²) memory; k is a Krylov size (tens to hundreds).
package tridiag
