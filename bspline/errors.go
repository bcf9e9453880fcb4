// SPDX-License-Identifier: MIT
// Package bspline: sentinel error set.
// All evaluators return these sentinels (optionally wrapped with call-site
// context via fmt.Errorf("...: %w", ErrX)); callers match with errors.Is.
// No evaluator panics on user-triggered error conditions.

package bspline

import "errors"

// ERROR PRIORITY (enforced in tests):
// order -> knot vector -> derivative -> coefficients -> query values.

var (
	// ErrInvalidOrder is returned when the spline order is negative.
	ErrInvalidOrder = errors.New("bspline: order must be non-negative")

	// ErrInvalidKnotVector is returned when knots are not non-decreasing,
	// contain NaN/Inf, are too short for the order, or span an empty domain.
	ErrInvalidKnotVector = errors.New("bspline: invalid knot vector")

	// ErrInvalidDerivative is returned for a negative derivative request.
	ErrInvalidDerivative = errors.New("bspline: derivative must be non-negative")

	// ErrInvalidBoundary is returned for an unknown Boundary policy value.
	ErrInvalidBoundary = errors.New("bspline: unknown boundary policy")

	// ErrCoefficientLength is returned by Eval when len(coef) != NumBasis.
	ErrCoefficientLength = errors.New("bspline: coefficient length does not match basis size")

	// ErrNonFiniteInput is returned when a query value is NaN. Missing values
	// must be filtered before they reach the evaluator.
	ErrNonFiniteInput = errors.New("bspline: NaN query value")

	// ErrOutOfDomain is returned under BoundaryReject when a query lies
	// outside [t[order], t[len-order-1]].
	ErrOutOfDomain = errors.New("bspline: query outside spline domain")
)
