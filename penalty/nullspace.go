// SPDX-License-Identifier: MIT

package penalty

import (
	"fmt"

	"github.com/viterin/vek"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/bsplines/bspline"
)

// rankTol is the relative norm below which GramSchmidt treats a residual as
// zero.
const rankTol = 1e-12

// Nullspace returns a NumBasis × 2 matrix whose columns span the nullspace of
// the curvature penalty.
//
// Column 0 is the constant direction: the all-ones coefficient vector, since
// the basis is a partition of unity. Column 1 is the linear direction: the
// Greville abscissae, which are the coefficients of f(x) = x. With
// opts.Orthonormalize (the default) the pair is orthonormalized by
// Gram–Schmidt, so column 0 becomes 1/√n and column 1 the centered Greville
// vector scaled to unit norm.
//
// Errors:
//   - bspline.ErrInvalidOrder, bspline.ErrInvalidKnotVector.
//   - ErrDegenerateOrder — order < 2.
func Nullspace(t bspline.KnotVector, order int, opts *Options) (*mat.Dense, error) {
	g, err := t.Greville(order)
	if err != nil {
		return nil, fmt.Errorf("Nullspace: %w", err)
	}
	if order < 2 {
		return nil, fmt.Errorf("Nullspace(order=%d): %w", order, ErrDegenerateOrder)
	}
	o, err := opts.resolve()
	if err != nil {
		return nil, fmt.Errorf("Nullspace: %w", err)
	}

	n := len(g)
	cols := [][]float64{vek.Ones(n), g}
	if o.Orthonormalize {
		if cols, err = GramSchmidt(cols); err != nil {
			return nil, fmt.Errorf("Nullspace: %w", err)
		}
	}

	ns := mat.NewDense(n, len(cols), nil)
	for j, c := range cols {
		ns.SetCol(j, c)
	}

	return ns, nil
}

// GramSchmidt returns an orthonormal basis for the given vectors, in order,
// using the modified Gram–Schmidt process. Inputs are not modified.
//
// Errors:
//   - ErrRankDeficient — a vector has (relatively) no component orthogonal to
//     its predecessors, or is zero.
//
// Complexity: O(k²·n) for k vectors of length n.
func GramSchmidt(vectors [][]float64) ([][]float64, error) {
	out := make([][]float64, len(vectors))
	for j, v := range vectors {
		u := append([]float64(nil), v...)
		norm0 := vek.Norm(u)
		for _, e := range out[:j] {
			vek.Sub_Inplace(u, vek.MulNumber(e, vek.Dot(u, e)))
		}
		norm := vek.Norm(u)
		if norm0 == 0 || norm <= rankTol*norm0 {
			return nil, fmt.Errorf("GramSchmidt: vector %d: %w", j, ErrRankDeficient)
		}
		vek.DivNumber_Inplace(u, norm)
		out[j] = u
	}

	return out, nil
}
