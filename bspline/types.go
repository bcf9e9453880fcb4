// SPDX-License-Identifier: MIT

// Package bspline: domain types (knot vector, boundary policy, options).
package bspline

import (
	"fmt"
	"math"
)

// KnotVector is a non-decreasing sequence of breakpoints, already padded with
// boundary knots. For an order-k spline the usable domain is
// [t[k], t[len-k-1]] and there are len-k-1 basis functions.
//
// A KnotVector is never modified by this package; all evaluators read it only,
// so a single vector may be shared by concurrent callers.
type KnotVector []float64

// NumBasis returns the number of basis functions of the given order,
// len(t) - order - 1. It may be ≤ 0 for vectors too short for the order.
func (t KnotVector) NumBasis(order int) int { return len(t) - order - 1 }

// Domain returns the usable evaluation interval [t[order], t[len-order-1]].
// The caller must have validated t for this order.
func (t KnotVector) Domain(order int) (lo, hi float64) {
	return t[order], t[len(t)-order-1]
}

// Validate checks the knot vector against the structural requirements of an
// order-`order` spline.
//
// Errors:
//   - ErrInvalidOrder      — order < 0.
//   - ErrInvalidKnotVector — len(t) < 2(order+1), NaN/Inf entries, a
//     decreasing step, or an empty domain t[order] == t[len-order-1].
//
// Complexity: O(len(t)).
func (t KnotVector) Validate(order int) error {
	// Stage 1: order.
	if order < 0 {
		return fmt.Errorf("Validate(order=%d): %w", order, ErrInvalidOrder)
	}
	// Stage 2: length; at least order+1 basis functions.
	if len(t) < 2*(order+1) {
		return fmt.Errorf("Validate: %d knots for order %d (need ≥ %d): %w",
			len(t), order, 2*(order+1), ErrInvalidKnotVector)
	}
	// Stage 3: finite and non-decreasing.
	for i, v := range t {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("Validate: knot %d is %v: %w", i, v, ErrInvalidKnotVector)
		}
		if i > 0 && v < t[i-1] {
			return fmt.Errorf("Validate: knot %d (%g) < knot %d (%g): %w",
				i, v, i-1, t[i-1], ErrInvalidKnotVector)
		}
	}
	// Stage 4: non-empty domain.
	if lo, hi := t.Domain(order); !(lo < hi) {
		return fmt.Errorf("Validate: empty domain [%g, %g]: %w", lo, hi, ErrInvalidKnotVector)
	}

	return nil
}

// Greville returns the knot averages g_i = (t[i+1] + … + t[i+order]) / order
// for i = 0..NumBasis-1. For order 0 the interval midpoints are returned.
//
// For order ≥ 1 they satisfy Σ g_i·B_i(x) = x on the domain, i.e. they are the
// spline coefficients of the identity function.
func (t KnotVector) Greville(order int) ([]float64, error) {
	if err := t.Validate(order); err != nil {
		return nil, fmt.Errorf("Greville: %w", err)
	}
	n := t.NumBasis(order)
	g := make([]float64, n)
	if order == 0 {
		for i := range g {
			g[i] = 0.5 * (t[i] + t[i+1])
		}
		return g, nil
	}

	// Sliding window sum over t[i+1 .. i+order].
	var s float64
	for j := 1; j <= order; j++ {
		s += t[j]
	}
	for i := 0; i < n; i++ {
		g[i] = s / float64(order)
		s += t[i+order+1] - t[i+1]
	}

	return g, nil
}

// Boundary selects how queries outside the spline domain are handled.
type Boundary int

const (
	// BoundaryReject fails the whole call with ErrOutOfDomain.
	BoundaryReject Boundary = iota

	// BoundaryClamp evaluates at the nearest domain end.
	BoundaryClamp

	// BoundaryZero yields an all-zero row.
	BoundaryZero
)

// String implements fmt.Stringer.
func (b Boundary) String() string {
	switch b {
	case BoundaryReject:
		return "reject"
	case BoundaryClamp:
		return "clamp"
	case BoundaryZero:
		return "zero"
	default:
		return fmt.Sprintf("Boundary(%d)", int(b))
	}
}

// Valid reports whether b is one of the defined policies.
func (b Boundary) Valid() bool {
	return b == BoundaryReject || b == BoundaryClamp || b == BoundaryZero
}

// ParseBoundary maps "reject", "clamp" or "zero" to a Boundary.
func ParseBoundary(s string) (Boundary, error) {
	switch s {
	case "reject", "":
		return BoundaryReject, nil
	case "clamp":
		return BoundaryClamp, nil
	case "zero":
		return BoundaryZero, nil
	}

	return 0, fmt.Errorf("ParseBoundary(%q): %w", s, ErrInvalidBoundary)
}

// Options configures basis evaluation.
//
// Fields:
//   - Derivative — order of the derivative to evaluate (0 = values).
//     Requests above the spline order yield all-zero output.
//   - Boundary   — out-of-domain policy (default BoundaryReject).
//
// A nil *Options is equivalent to DefaultOptions().
type Options struct {
	Derivative int
	Boundary   Boundary
}

// DefaultOptions returns derivative 0 with BoundaryReject.
func DefaultOptions() Options {
	return Options{Derivative: 0, Boundary: BoundaryReject}
}

// resolve applies defaults for nil and validates option values.
func (o *Options) resolve() (Options, error) {
	opts := DefaultOptions()
	if o != nil {
		opts = *o
	}
	if opts.Derivative < 0 {
		return opts, fmt.Errorf("derivative=%d: %w", opts.Derivative, ErrInvalidDerivative)
	}
	if !opts.Boundary.Valid() {
		return opts, fmt.Errorf("boundary=%d: %w", int(opts.Boundary), ErrInvalidBoundary)
	}

	return opts, nil
}
