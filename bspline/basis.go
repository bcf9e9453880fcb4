// SPDX-License-Identifier: MIT

// Package bspline - vectorized Cox–de Boor evaluation.
//
// Purpose:
//   - Evaluate the full B-spline basis (or one of its derivatives) at many
//     query points in a single pass, without per-point recursion.
//   - Provide the compact form (first active index + order+1 values per row)
//     consumed by the penalty assembly, and the dense form consumed by encoders.
//
// Layout:
//   - Working storage is order+1 slices of length len(x). Slot i of row q holds
//     the value of basis function Start[q]+i. Each recursion step is a pair of
//     element-wise kernels (multiply, multiply-add) over those slices.
//
// Complexity quicksheet:
//   - Sparse: O(len(x)·(order² + log len(t))) time, O(len(x)·order) memory.
//   - Evaluate: Sparse + O(len(x)·NumBasis) for the dense scatter.
package bspline

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/viterin/vek"
	"gonum.org/v1/gonum/mat"
)

// ErrEmptyInput is returned when no query values are supplied.
var ErrEmptyInput = errors.New("bspline: empty query vector")

// SparseBasis stores only the non-vanishing basis values of each query.
//
// Row q of Values holds B_{Start[q]+i}(x_q) for i = 0..Order; every other
// basis function is exactly zero at x_q. Rows of out-of-domain queries under
// BoundaryZero are all zero.
type SparseBasis struct {
	Order    int        // spline order
	NumBasis int        // total number of basis functions
	Start    []int      // first active basis index per query
	Values   *mat.Dense // len(x) × (Order+1)
}

// Dense scatters the compact rows into a len(x) × NumBasis matrix.
// Complexity: O(len(x)·NumBasis) for the zero fill.
func (s *SparseBasis) Dense() *mat.Dense {
	rows, _ := s.Values.Dims()
	out := mat.NewDense(rows, s.NumBasis, nil)
	for q := 0; q < rows; q++ {
		dst := out.RawRowView(q)[s.Start[q]:]
		copy(dst, s.Values.RawRowView(q))
	}

	return out
}

// Evaluate computes the dense BasisMatrix of shape (len(x), NumBasis).
//
// Entry (q, j) is the value of the j-th basis function (or its
// opts.Derivative-th derivative) at x[q].
//
// Guarantees (derivative 0, in-domain x):
//   - every row sums to 1 up to rounding (partition of unity);
//   - all entries are ≥ 0;
//   - at most order+1 consecutive entries per row are non-zero.
//
// Errors: see Sparse.
func Evaluate(t KnotVector, order int, x []float64, opts *Options) (*mat.Dense, error) {
	s, err := Sparse(t, order, x, opts)
	if err != nil {
		return nil, fmt.Errorf("Evaluate: %w", err)
	}

	return s.Dense(), nil
}

// Sparse computes the compact basis representation for every query in x.
//
// Implementation:
//   - Stage 1: validate order, knots, options and queries (no allocation of
//     output before all checks pass).
//   - Stage 2: locate each query in its knot interval (binary search, right
//     side, last interval closed).
//   - Stage 3: run the triangular Cox–de Boor scheme on all queries at once;
//     the last opts.Derivative steps use the derivative rule
//     B' = k/(t[i+k]-t[i])·B_i - k/(t[i+k+1]-t[i+1])·B_{i+1}.
//
// Zero-width knot spans (repeated knots) contribute a zero term.
//
// Errors:
//   - ErrInvalidOrder, ErrInvalidKnotVector (from KnotVector.Validate).
//   - ErrInvalidDerivative, ErrInvalidBoundary (options).
//   - ErrEmptyInput — len(x) == 0.
//   - ErrNonFiniteInput — NaN in x.
//   - ErrOutOfDomain — under BoundaryReject only.
func Sparse(t KnotVector, order int, x []float64, opts *Options) (*SparseBasis, error) {
	// Stage 1: validation.
	if err := t.Validate(order); err != nil {
		return nil, fmt.Errorf("Sparse: %w", err)
	}
	o, err := opts.resolve()
	if err != nil {
		return nil, fmt.Errorf("Sparse: %w", err)
	}
	xs, outside, err := prepareQueries(t, order, x, o.Boundary)
	if err != nil {
		return nil, fmt.Errorf("Sparse: %w", err)
	}

	// Stage 2: interval location.
	start := locate(t, order, xs)

	n := len(xs)
	values := mat.NewDense(n, order+1, nil)
	res := &SparseBasis{Order: order, NumBasis: t.NumBasis(order), Start: start, Values: values}
	if o.Derivative > order {
		return res, nil // derivative of a degree-`order` polynomial vanishes
	}

	// Stage 3: recursion.
	slots := recurse(t, order, o.Derivative, xs, start)
	for q := 0; q < n; q++ {
		if outside != nil && outside[q] {
			continue
		}
		row := values.RawRowView(q)
		for i := range row {
			row[i] = slots[i][q]
		}
	}

	return res, nil
}

// Eval returns the spline value Σ_j coef[j]·B_j(x) (or its derivative) at
// every query point.
//
// Errors: those of Sparse, plus ErrCoefficientLength when
// len(coef) != t.NumBasis(order).
func Eval(t KnotVector, order int, coef, x []float64, opts *Options) ([]float64, error) {
	if err := t.Validate(order); err != nil {
		return nil, fmt.Errorf("Eval: %w", err)
	}
	if nb := t.NumBasis(order); len(coef) != nb {
		return nil, fmt.Errorf("Eval: len(coef)=%d, want %d: %w", len(coef), nb, ErrCoefficientLength)
	}
	s, err := Sparse(t, order, x, opts)
	if err != nil {
		return nil, fmt.Errorf("Eval: %w", err)
	}

	out := make([]float64, len(x))
	for q := range out {
		c := coef[s.Start[q] : s.Start[q]+order+1]
		out[q] = vek.Dot(c, s.Values.RawRowView(q))
	}

	return out, nil
}

// prepareQueries applies the boundary policy. It returns the (possibly
// clamped) query values and, under BoundaryZero, a mask of rows to blank.
// x itself is never modified.
func prepareQueries(t KnotVector, order int, x []float64, b Boundary) ([]float64, []bool, error) {
	if len(x) == 0 {
		return nil, nil, ErrEmptyInput
	}
	lo, hi := t.Domain(order)
	var (
		xs      = x
		copied  bool
		outside []bool
	)
	for q, v := range x {
		if math.IsNaN(v) {
			return nil, nil, fmt.Errorf("x[%d]: %w", q, ErrNonFiniteInput)
		}
		if v >= lo && v <= hi {
			continue
		}
		if b == BoundaryReject {
			return nil, nil, fmt.Errorf("x[%d]=%g not in [%g, %g]: %w", q, v, lo, hi, ErrOutOfDomain)
		}
		// Copy on first out-of-domain value so the caller's slice stays intact.
		if !copied {
			xs = append([]float64(nil), x...)
			copied = true
		}
		xs[q] = math.Max(lo, math.Min(hi, v))
		if b == BoundaryZero {
			if outside == nil {
				outside = make([]bool, len(x))
			}
			outside[q] = true
		}
	}

	return xs, outside, nil
}

// locate returns, for each in-domain query, the index b such that the query
// lies in the non-empty knot interval [t[b+order], t[b+order+1]). The
// right domain end belongs to the last non-empty interval.
func locate(t KnotVector, order int, xs []float64) []int {
	inner := t[order : len(t)-order]
	last := len(inner) - 2 // index of the last interval
	start := make([]int, len(xs))
	for q, v := range xs {
		// last i with inner[i] <= v
		b := sort.Search(len(inner), func(i int) bool { return inner[i] > v }) - 1
		if b < 0 {
			b = 0
		}
		if b > last {
			b = last
			for b > 0 && inner[b] == inner[b+1] {
				b--
			}
		}
		start[q] = b
	}

	return start
}

// recurse runs the triangular Cox–de Boor scheme for all queries at once and
// returns order+1 slots of len(xs) values.
//
// Slot i of query q ends up holding the value for basis Start[q]+i. Steps
// k ≤ order-deriv use the value recursion; the remaining deriv steps use the
// derivative recursion.
func recurse(t KnotVector, order, deriv int, xs []float64, start []int) [][]float64 {
	n := len(xs)
	slots := make([][]float64, order+1)
	for i := range slots {
		slots[i] = make([]float64, n)
	}
	// Order 0: indicator of the located interval.
	for q := range slots[order] {
		slots[order][q] = 1
	}

	left := make([]float64, n)
	right := make([]float64, n)
	for k := 1; k <= order; k++ {
		values := k <= order-deriv
		fk := float64(k)
		for i := order - k; i <= order; i++ {
			if i > order-k {
				// B[i, k-1] -> B[i, k]
				for q, v := range xs {
					ti, tk := t[start[q]+i], t[start[q]+i+k]
					left[q] = ramp(v, ti, tk, fk, values)
				}
				vek.Mul_Inplace(slots[i], left)
			}
			if i < order {
				// B[i+1, k-1] -> B[i, k]
				for q, v := range xs {
					ti, tk := t[start[q]+i+1], t[start[q]+i+k+1]
					right[q] = ramp(v, tk, ti, fk, values)
				}
				vek.Mul_Inplace(right, slots[i+1])
				vek.Add_Inplace(slots[i], right)
			}
		}
	}

	return slots
}

// ramp returns the recursion weight over the span [a, b] (in either
// orientation): (x-a)/(b-a) for value steps, k/(b-a) for derivative steps.
// A zero-width span yields 0.
//
// Called with (a, b) = (t_i, t_{i+k}) for the left term. For the right term
// the caller passes the reversed span (t_{i+k+1}, t_{i+1}), which gives
// (t_{i+k+1}-x)/(t_{i+k+1}-t_{i+1}) and -k/(t_{i+k+1}-t_{i+1}) respectively.
func ramp(x, a, b, k float64, values bool) float64 {
	d := b - a
	if d == 0 {
		return 0
	}
	if values {
		return (x - a) / d
	}

	return k / d
}
