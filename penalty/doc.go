// Package penalty builds the curvature penalty of a B-spline basis and the
// basis of its nullspace, for smoothing-spline style regularized regression.
//
// For coefficients c the penalty P satisfies
//
//	cᵀ·P·c = ∫ f''(x)² dx,   f = Σ c_j·B_j,
//
// integrated exactly over the spline domain: on each knot interval B_i''·B_j''
// is a polynomial of degree 2·order-4, and order-1 Gauss–Legendre nodes
// integrate it without error. Each interval adds an (order+1)² block into a
// band of P.
//
// Constant and linear functions have zero curvature, so P has a two
// dimensional nullspace spanned by the all-ones vector and the Greville
// abscissae. Nullspace returns that pair (orthonormalized by default) so
// callers can leave the trend unpenalized and regularize only the curved part.
//
// Usage:
//
//	res, err := penalty.Build(t, 3, &penalty.Options{ReturnNullspace: true, Orthonormalize: true})
//	// res.Penalty:   n×n *mat.SymDense, symmetric PSD, rank n-2
//	// res.Nullspace: n×2 *mat.Dense,    Penalty·Nullspace ≈ 0
//
// Both outputs index basis functions exactly like bspline.Evaluate for the
// same knots and order.
package penalty
