// Package bsplines evaluates B-spline bases and builds the matching
// curvature penalties, for feature encoding and penalized regression.
//
// 🚀 What is bsplines?
//
//	A small numerical toolkit built on gonum:
//		• Basis evaluation: vectorized Cox–de Boor for many points at once,
//		  values or any derivative, dense or compact output
//		• Curvature penalty: exact ∫ B_i''·B_j'' by Gauss–Legendre quadrature
//		• Nullspace: the constant and linear directions the penalty ignores
//		• Knot selection: clamped padding and quantile knots
//		• Encoder: fit/transform of a numeric feature with a missing-value column
//
// ✨ Why choose bsplines?
//
//   - One basis definition – penalty and encoder share bspline.Sparse, so
//     indexing always matches
//   - Explicit domain handling – reject, clamp or zero outside the knots
//   - Safe for concurrent use – inputs are never mutated
//
// Packages:
//
//	bspline/         — KnotVector, Evaluate, Sparse, Eval, boundary policies
//	penalty/         — CurvaturePenalty, Nullspace, Build, GramSchmidt
//	knots/           — AddBoundary, Quantile
//	encoder/         — SplineEncoder (Fit / Transform, nullable column)
//	cmd/splinectl/   — command-line front end (YAML config, CSV/YAML output)
//	examples/        — runnable programs
//
// Quick example (cubic, 4 quantile knots on 0..49):
//
//	t = [0 0 0 0 16.33 32.67 49 49 49 49]  →  6 basis functions
//	B(25) = [0 0.0259 0.4512 0.4856 0.0373 0]
//
//	go get github.com/katalvlaran/bsplines
package bsplines
