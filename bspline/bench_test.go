package bspline_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/bsplines/bspline"
)

// sinkBasis defeats dead-code elimination.
var sinkBasis *bspline.SparseBasis

// benchmarkSparse evaluates an order-`order` basis with `interior` uniform
// interior knots at n random points.
func benchmarkSparse(b *testing.B, order, interior, n, deriv int) {
	t := make(bspline.KnotVector, 0, interior+2*(order+1))
	for i := 0; i <= order; i++ {
		t = append(t, 0)
	}
	for i := 1; i <= interior; i++ {
		t = append(t, float64(i)/float64(interior+1))
	}
	for i := 0; i <= order; i++ {
		t = append(t, 1)
	}
	rng := rand.New(rand.NewSource(seedDet))
	x := make([]float64, n)
	for i := range x {
		x[i] = rng.Float64()
	}
	opts := &bspline.Options{Derivative: deriv}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s, err := bspline.Sparse(t, order, x, opts)
		if err != nil {
			b.Fatalf("Sparse failed: %v", err)
		}
		sinkBasis = s
	}
}

// BenchmarkSparse_Cubic1k benchmarks cubic values on 1 000 points.
func BenchmarkSparse_Cubic1k(b *testing.B) { benchmarkSparse(b, 3, 20, 1_000, 0) }

// BenchmarkSparse_Cubic100k benchmarks cubic values on 100 000 points.
func BenchmarkSparse_Cubic100k(b *testing.B) { benchmarkSparse(b, 3, 20, 100_000, 0) }

// BenchmarkSparse_CubicSecondDerivative benchmarks the derivative path.
func BenchmarkSparse_CubicSecondDerivative(b *testing.B) { benchmarkSparse(b, 3, 20, 100_000, 2) }

// BenchmarkSparse_Quintic benchmarks a higher order with many knots.
func BenchmarkSparse_Quintic(b *testing.B) { benchmarkSparse(b, 5, 200, 100_000, 0) }

// BenchmarkEvaluate_Dense includes the dense scatter.
func BenchmarkEvaluate_Dense(b *testing.B) {
	t := bspline.KnotVector{0, 0, 0, 0, 0.25, 0.5, 0.75, 1, 1, 1, 1}
	x := make([]float64, 10_000)
	for i := range x {
		x[i] = float64(i) / float64(len(x)-1)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := bspline.Evaluate(t, 3, x, nil); err != nil {
			b.Fatalf("Evaluate failed: %v", err)
		}
	}
}
