// Package knots builds padded knot vectors for bspline evaluation, either from
// explicit interior knots (AddBoundary) or from data quantiles (Quantile).
package knots

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/bsplines/bspline"
)

var (
	// ErrEmptyKnots is returned when no interior knots are supplied.
	ErrEmptyKnots = errors.New("knots: interior knots must be non-empty")

	// ErrUnsorted is returned when interior knots decrease or are not finite.
	ErrUnsorted = errors.New("knots: interior knots must be finite and sorted")

	// ErrBoundaryInside is returned when an interval bound lies strictly
	// inside the interior knot range, or the interval is reversed.
	ErrBoundaryInside = errors.New("knots: interval bound inside knot range")

	// ErrTooFewValues is returned by Quantile when the data has fewer than
	// three distinct non-missing values (or n < 3).
	ErrTooFewValues = errors.New("knots: too few distinct values, need at least 3")
)

// Interval fixes the spline domain [Lo, Hi]. A nil *Interval means "use the
// first/last interior knot" in AddBoundary and "use the data range" in Quantile.
type Interval struct {
	Lo float64 `yaml:"lo"`
	Hi float64 `yaml:"hi"`
}

// AddBoundary pads sorted interior knots with clamped boundary knots for an
// order-`order` spline.
//
// Each bound is repeated order+1 times, or order times when it coincides with
// the first/last interior knot (the interior knot already supplies one copy).
// With a nil interval both bounds coincide, so
// len(result) = len(interior) + 2·order; with bounds strictly outside the
// interior range len(result) = len(interior) + 2·(order+1).
//
// Errors:
//   - bspline.ErrInvalidOrder — order < 0.
//   - ErrEmptyKnots, ErrUnsorted.
//   - ErrBoundaryInside — iv.Lo > interior[0] or iv.Hi < interior[last].
func AddBoundary(interior []float64, order int, iv *Interval) (bspline.KnotVector, error) {
	if order < 0 {
		return nil, fmt.Errorf("AddBoundary(order=%d): %w", order, bspline.ErrInvalidOrder)
	}
	if len(interior) == 0 {
		return nil, ErrEmptyKnots
	}
	if floats.HasNaN(interior) || !sortedFinite(interior) {
		return nil, fmt.Errorf("AddBoundary: %w", ErrUnsorted)
	}

	first, last := interior[0], interior[len(interior)-1]
	lo, hi := first, last
	if iv != nil {
		lo, hi = iv.Lo, iv.Hi
	}
	if lo > first {
		return nil, fmt.Errorf("AddBoundary: lower bound %g > %g: %w", lo, first, ErrBoundaryInside)
	}
	if hi < last {
		return nil, fmt.Errorf("AddBoundary: upper bound %g < %g: %w", hi, last, ErrBoundaryInside)
	}

	nlo, nhi := order+1, order+1
	if lo == first {
		nlo--
	}
	if hi == last {
		nhi--
	}

	t := make(bspline.KnotVector, 0, nlo+len(interior)+nhi)
	for i := 0; i < nlo; i++ {
		t = append(t, lo)
	}
	t = append(t, interior...)
	for i := 0; i < nhi; i++ {
		t = append(t, hi)
	}

	return t, nil
}

// Quantile selects knots at empirical quantiles of the distinct values of x
// and pads them for an order-`order` spline.
//
// n counts the distinct knot values including both bounds: n is capped at the
// number of distinct values, and n-2 interior knots are placed at the
// linearly interpolated percentiles 100·j/(n-1), j = 1..n-2, of the distinct
// values. NaN entries (missing values) are ignored. The bounds default to
// min/max of x.
//
// Errors:
//   - ErrTooFewValues — fewer than 3 distinct values or n < 3.
//   - ErrBoundaryInside — iv does not cover the non-missing data.
//
// Complexity: O(len(x)·log len(x)).
func Quantile(x []float64, n, order int, iv *Interval) (bspline.KnotVector, error) {
	u := distinct(x)
	if len(u) < n {
		n = len(u)
	}
	k := n - 2 // interior knots
	if k < 1 {
		return nil, fmt.Errorf("Quantile: n=%d, %d distinct values: %w", n, len(u), ErrTooFewValues)
	}

	interior := make([]float64, k)
	for j := range interior {
		interior[j] = percentile(u, 100*float64(j+1)/float64(k+1))
	}
	bounds := Interval{Lo: u[0], Hi: u[len(u)-1]}
	if iv != nil {
		bounds = *iv
	}
	if bounds.Lo > u[0] || bounds.Hi < u[len(u)-1] {
		return nil, fmt.Errorf("Quantile: interval [%g, %g] does not cover data [%g, %g]: %w",
			bounds.Lo, bounds.Hi, u[0], u[len(u)-1], ErrBoundaryInside)
	}

	t, err := AddBoundary(interior, order, &bounds)
	if err != nil {
		return nil, fmt.Errorf("Quantile: %w", err)
	}

	return t, nil
}

// distinct returns the sorted distinct non-NaN values of x.
func distinct(x []float64) []float64 {
	u := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) {
			u = append(u, v)
		}
	}
	slices.Sort(u)

	return slices.Compact(u)
}

// percentile returns the p-th percentile (0..100) of sorted s with linear
// interpolation between closest ranks: rank = p/100·(len-1).
func percentile(s []float64, p float64) float64 {
	r := p / 100 * float64(len(s)-1)
	i := int(math.Floor(r))
	if i >= len(s)-1 {
		return s[len(s)-1]
	}
	f := r - float64(i)

	return s[i] + f*(s[i+1]-s[i])
}

// sortedFinite reports whether s is non-decreasing and finite.
func sortedFinite(s []float64) bool {
	for i, v := range s {
		if math.IsInf(v, 0) {
			return false
		}
		if i > 0 && v < s[i-1] {
			return false
		}
	}

	return true
}
