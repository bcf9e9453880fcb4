package penalty_test

import (
	"fmt"
	"math"

	"github.com/katalvlaran/bsplines/bspline"
	"github.com/katalvlaran/bsplines/penalty"
)

// ExampleCurvaturePenalty prints the penalty of a quadratic basis with one
// interior knot.
func ExampleCurvaturePenalty() {
	t := bspline.KnotVector{0, 0, 0, 1, 2, 2, 2}

	P, err := penalty.CurvaturePenalty(t, 2, nil)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	n := P.SymmetricDim()
	for i := 0; i < n; i++ {
		row := make([]float64, n)
		for j := range row {
			row[j] = math.Round(P.At(i, j)*1e9)/1e9 + 0
		}
		fmt.Println(row)
	}
	// Output:
	// [4 -6 2 0]
	// [-6 10 -6 2]
	// [2 -6 10 -6]
	// [0 2 -6 4]
}

// ExampleBuild requests the raw nullspace next to the penalty.
func ExampleBuild() {
	t := bspline.KnotVector{0, 0, 0, 1, 2, 2, 2}

	res, err := penalty.Build(t, 2, &penalty.Options{ReturnNullspace: true})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	r, c := res.Nullspace.Dims()
	fmt.Printf("nullspace %dx%d\n", r, c)
	for i := 0; i < r; i++ {
		fmt.Println(res.Nullspace.RawRowView(i))
	}
	// Output:
	// nullspace 4x2
	// [1 0]
	// [1 0.5]
	// [1 1.5]
	// [1 2]
}
