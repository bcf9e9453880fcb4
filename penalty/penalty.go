// SPDX-License-Identifier: MIT

package penalty

import (
	"fmt"

	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/bsplines/bspline"
)

// Build computes the curvature penalty and, when opts.ReturnNullspace is set,
// the basis of its nullspace.
//
// Errors: those of CurvaturePenalty and Nullspace.
func Build(t bspline.KnotVector, order int, opts *Options) (*Result, error) {
	o, err := opts.resolve()
	if err != nil {
		return nil, fmt.Errorf("Build: %w", err)
	}
	p, err := CurvaturePenalty(t, order, &o)
	if err != nil {
		return nil, fmt.Errorf("Build: %w", err)
	}
	res := &Result{Penalty: p}
	if !o.ReturnNullspace {
		return res, nil
	}
	if res.Nullspace, err = Nullspace(t, order, &o); err != nil {
		return nil, fmt.Errorf("Build: %w", err)
	}

	return res, nil
}

// CurvaturePenalty returns P with P[i,j] = ∫ B_i''(x)·B_j''(x) dx over the
// spline domain, so that cᵀPc is the integrated squared curvature of the
// spline with coefficients c.
//
// Implementation:
//   - Stage 1: validate knots, order ≥ 2 and options.
//   - Stage 2: place order-1 Gauss–Legendre nodes on every non-empty knot
//     interval. B'' is a polynomial of degree order-2 on each interval, so
//     the product has degree 2·order-4 ≤ 2(order-1)-1 and the rule is exact.
//   - Stage 3: evaluate the compact second-derivative basis at all nodes in
//     one pass and add the weighted (order+1)² outer product of each node
//     into the band around its first active index.
//
// Errors:
//   - bspline.ErrInvalidOrder, bspline.ErrInvalidKnotVector.
//   - ErrDegenerateOrder — order < 2.
//   - ErrInvalidRidge.
//
// Complexity: O(NumBasis·order²) time for the assembly, O(NumBasis²) memory
// for the dense symmetric storage.
func CurvaturePenalty(t bspline.KnotVector, order int, opts *Options) (*mat.SymDense, error) {
	// Stage 1: validation.
	if err := t.Validate(order); err != nil {
		return nil, fmt.Errorf("CurvaturePenalty: %w", err)
	}
	if order < 2 {
		return nil, fmt.Errorf("CurvaturePenalty(order=%d): %w", order, ErrDegenerateOrder)
	}
	o, err := opts.resolve()
	if err != nil {
		return nil, fmt.Errorf("CurvaturePenalty: %w", err)
	}

	// Stage 2: quadrature nodes.
	xs, ws := nodes(t, order)

	// Stage 3: banded assembly.
	sb, err := bspline.Sparse(t, order, xs, &bspline.Options{Derivative: 2})
	if err != nil {
		return nil, fmt.Errorf("CurvaturePenalty: %w", err)
	}
	n := t.NumBasis(order)
	data := make([]float64, n*n) // upper triangle is authoritative
	for q, w := range ws {
		s := sb.Start[q]
		v := sb.Values.RawRowView(q)
		for a := 0; a <= order; a++ {
			wa := w * v[a]
			row := data[(s+a)*n:]
			for c := a; c <= order; c++ {
				row[s+c] += wa * v[c]
			}
		}
	}
	if o.Ridge > 0 {
		for i := 0; i < n; i++ {
			data[i*n+i] += o.Ridge
		}
	}

	return mat.NewSymDense(n, data), nil
}

// nodes returns Gauss–Legendre nodes and weights covering every non-empty
// interval of the domain with order-1 points each.
func nodes(t bspline.KnotVector, order int) (xs, ws []float64) {
	m := order - 1
	ref, refW := make([]float64, m), make([]float64, m)
	quad.Legendre{}.FixedLocations(ref, refW, -1, 1)

	for j := order; j < len(t)-order-1; j++ {
		a, b := t[j], t[j+1]
		if a == b {
			continue // zero-width interval carries no mass
		}
		mid, half := 0.5*(a+b), 0.5*(b-a)
		for i := range ref {
			xs = append(xs, mid+half*ref[i])
			ws = append(ws, half*refW[i])
		}
	}

	return xs, ws
}
