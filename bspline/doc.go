// Package bspline evaluates B-spline basis functions (and their derivatives)
// over arbitrary knot vectors, for all query points and all basis indices in
// one vectorized pass.
//
// 🚀 What is a B-spline basis?
//
//	For a non-decreasing knot vector t and order k (polynomial degree k) there
//	are len(t)-k-1 basis functions B_0..B_{n-1}. Each is a piecewise polynomial
//	that is non-zero on at most k+1 consecutive knot intervals. A spline is a
//	linear combination Σ c_j·B_j(x); encoding a feature x as the row
//	[B_0(x) … B_{n-1}(x)] turns non-linear regression into linear regression.
//
// ✨ Key features:
//   - Cox–de Boor recursion run as element-wise vector kernels (viterin/vek)
//     over all queries at once; no per-point recursion.
//   - Derivatives of any order by the derivative recursion, not by
//     finite differences. Orders above k give all-zero output.
//   - Repeated knots (multiplicities) are valid: zero-width spans contribute
//     a zero term instead of dividing by zero.
//   - Dense (gonum *mat.Dense) and compact (SparseBasis) outputs.
//   - Explicit out-of-domain policy: BoundaryReject, BoundaryClamp, BoundaryZero.
//
// ⚙️ Usage:
//
//	t := bspline.KnotVector{0, 0, 0, 0, 1, 2, 3, 3, 3, 3}
//	B, err := bspline.Evaluate(t, 3, []float64{0.5, 1.5, 2.5}, nil)
//	// B is 3×6, rows sum to 1
//
//	dB, err := bspline.Evaluate(t, 3, x, &bspline.Options{Derivative: 1})
//
// Guarantees (derivative 0, in-domain x):
//   - partition of unity: Σ_j B_j(x) = 1;
//   - non-negativity: B_j(x) ≥ 0;
//   - local support: at most order+1 consecutive non-zeros per row;
//   - C^(order-1-m) continuity at a knot of multiplicity m.
//
// Concurrency:
//
//	All functions are pure. Inputs are never modified, so a KnotVector may be
//	shared across goroutines; split query slices to parallelize.
//
// Performance:
//
//   - Time:   O(len(x)·(order² + log len(t)))
//   - Memory: O(len(x)·order) compact, O(len(x)·NumBasis) dense
package bspline
