// SPDX-License-Identifier: MIT

package penalty

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrDegenerateOrder is returned when order < 2: curvature of a piecewise
	// constant or linear spline vanishes identically.
	ErrDegenerateOrder = errors.New("penalty: curvature penalty needs order >= 2")

	// ErrInvalidRidge is returned for a negative or non-finite ridge offset.
	ErrInvalidRidge = errors.New("penalty: ridge must be finite and >= 0")

	// ErrRankDeficient is returned by GramSchmidt when an input vector is
	// (numerically) a combination of the previous ones.
	ErrRankDeficient = errors.New("penalty: vectors are linearly dependent")
)

// Options configures penalty construction.
//
// Fields:
//   - ReturnNullspace — Build also computes the nullspace basis. When false
//     the nullspace computation is skipped entirely.
//   - Orthonormalize  — nullspace columns are orthonormalized (Gram–Schmidt).
//     When false the raw [1…1] and Greville columns are returned.
//   - Ridge           — optional Ridge·I added to the penalty diagonal to make
//     it strictly positive definite. Zero keeps the nullspace exact.
type Options struct {
	ReturnNullspace bool
	Orthonormalize  bool
	Ridge           float64
}

// DefaultOptions returns penalty-only output, orthonormal nullspace, no ridge.
func DefaultOptions() Options {
	return Options{ReturnNullspace: false, Orthonormalize: true, Ridge: 0}
}

func (o *Options) resolve() (Options, error) {
	opts := DefaultOptions()
	if o != nil {
		opts = *o
	}
	if math.IsNaN(opts.Ridge) || math.IsInf(opts.Ridge, 0) || opts.Ridge < 0 {
		return opts, fmt.Errorf("ridge=%v: %w", opts.Ridge, ErrInvalidRidge)
	}

	return opts, nil
}

// Result is the output of Build.
type Result struct {
	// Penalty is the NumBasis × NumBasis curvature penalty.
	Penalty *mat.SymDense

	// Nullspace is NumBasis × 2 (constant, linear) or nil when
	// Options.ReturnNullspace was false.
	Nullspace *mat.Dense
}
