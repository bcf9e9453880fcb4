// Package encoder turns a numeric feature into B-spline basis columns with
// fit/transform semantics.
//
// Fit selects knots at quantiles of the training data (knots.Quantile);
// Transform evaluates the basis (bspline.Sparse) on new data. With
// Config.Nullable an extra last column encodes missing values (NaN): it is 1
// for missing rows and 0 otherwise, so every output row sums to 1.
//
// A fitted encoder is read-only and safe for concurrent Transform calls.
package encoder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/bsplines/bspline"
	"github.com/katalvlaran/bsplines/knots"
)

var (
	// ErrNotFitted is returned by Transform and KnotVector before Fit.
	ErrNotFitted = errors.New("encoder: encoder must be fitted first")

	// ErrMissingValue is returned when x contains NaN and Nullable is false.
	ErrMissingValue = errors.New("encoder: input contains NaN but encoder is not nullable")

	// ErrInvalidConfig is returned by New for unusable configuration values.
	ErrInvalidConfig = errors.New("encoder: invalid config")
)

// Config configures a SplineEncoder.
//
// Fields:
//   - Knots    — number of distinct knots including both bounds. There are
//     Knots+Order-1 basis columns (one more with Nullable).
//   - Order    — spline order; 0 is binning, 1 piecewise linear, 3 cubic.
//   - Interval — fixed domain; must cover the fitted data. nil = data range.
//   - Nullable — add the missing-value indicator column.
//   - Boundary — policy for transform-time values outside the fitted domain.
//   - Workers  — goroutines used by Transform (≤ 1 means sequential).
//   - Logger   — debug logging of fit results; nil disables logging.
type Config struct {
	Knots    int
	Order    int
	Interval *knots.Interval
	Nullable bool
	Boundary bspline.Boundary
	Workers  int
	Logger   *slog.Logger
}

// DefaultConfig returns 10 cubic knots, non-nullable, reject policy.
func DefaultConfig() Config {
	return Config{
		Knots:    10,
		Order:    3,
		Boundary: bspline.BoundaryReject,
		Workers:  1,
	}
}

// minRowsPerWorker keeps tiny inputs on a single goroutine.
const minRowsPerWorker = 256

// SplineEncoder encodes a scalar feature into spline basis columns.
type SplineEncoder struct {
	cfg   Config
	log   *slog.Logger
	knots bspline.KnotVector // nil until Fit
}

// New validates cfg and returns an unfitted encoder.
func New(cfg Config) (*SplineEncoder, error) {
	switch {
	case cfg.Order < 0:
		return nil, fmt.Errorf("New: order=%d: %w", cfg.Order, ErrInvalidConfig)
	case cfg.Knots < 3:
		return nil, fmt.Errorf("New: knots=%d (need ≥ 3): %w", cfg.Knots, ErrInvalidConfig)
	case cfg.Interval != nil && !(cfg.Interval.Lo < cfg.Interval.Hi):
		return nil, fmt.Errorf("New: interval [%g, %g]: %w", cfg.Interval.Lo, cfg.Interval.Hi, ErrInvalidConfig)
	}
	if !cfg.Boundary.Valid() {
		return nil, fmt.Errorf("New: boundary %v: %w", cfg.Boundary, ErrInvalidConfig)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &SplineEncoder{cfg: cfg, log: logger}, nil
}

// Fit computes knots from quantiles of the distinct non-missing values of x.
// It replaces any previous fit.
//
// Errors: ErrMissingValue (non-nullable with NaN), knots.ErrTooFewValues,
// knots.ErrBoundaryInside.
func (e *SplineEncoder) Fit(x []float64) error {
	missing, err := e.missing(x)
	if err != nil {
		return fmt.Errorf("Fit: %w", err)
	}
	t, err := knots.Quantile(x, e.cfg.Knots, e.cfg.Order, e.cfg.Interval)
	if err != nil {
		return fmt.Errorf("Fit: %w", err)
	}
	e.knots = t

	lo, hi := t.Domain(e.cfg.Order)
	e.log.Debug("spline encoder fitted",
		slog.Int("rows", len(x)),
		slog.Int("missing", missing),
		slog.Int("order", e.cfg.Order),
		slog.Int("knots", len(t)),
		slog.Int("columns", e.NumColumns()),
		slog.Float64("lo", lo),
		slog.Float64("hi", hi),
	)

	return nil
}

// KnotVector returns a copy of the fitted knots.
func (e *SplineEncoder) KnotVector() (bspline.KnotVector, error) {
	if e.knots == nil {
		return nil, ErrNotFitted
	}

	return append(bspline.KnotVector(nil), e.knots...), nil
}

// NumColumns returns the output width: NumBasis (+1 when Nullable), or 0
// before Fit.
func (e *SplineEncoder) NumColumns() int {
	if e.knots == nil {
		return 0
	}
	n := e.knots.NumBasis(e.cfg.Order)
	if e.cfg.Nullable {
		n++
	}

	return n
}

// Transform encodes x with the fitted knots. Row q of the result holds the
// basis values of x[q]; under Nullable, missing rows have a single 1 in the
// last column.
//
// Rows are split into contiguous chunks evaluated concurrently when
// Config.Workers > 1. Cancelling ctx aborts pending chunks.
//
// Errors: ErrNotFitted, ErrMissingValue, bspline.ErrOutOfDomain (reject
// policy), bspline.ErrEmptyInput, ctx.Err().
func (e *SplineEncoder) Transform(ctx context.Context, x []float64) (*mat.Dense, error) {
	if e.knots == nil {
		return nil, ErrNotFitted
	}
	if len(x) == 0 {
		return nil, fmt.Errorf("Transform: %w", bspline.ErrEmptyInput)
	}
	if _, err := e.missing(x); err != nil {
		return nil, fmt.Errorf("Transform: %w", err)
	}

	out := mat.NewDense(len(x), e.NumColumns(), nil)
	g, ctx := errgroup.WithContext(ctx)
	for _, c := range chunks(len(x), e.cfg.Workers) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return e.encodeRows(out, x, c[0], c[1])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("Transform: %w", err)
	}

	return out, nil
}

// FitTransform is Fit followed by Transform on the same data.
func (e *SplineEncoder) FitTransform(ctx context.Context, x []float64) (*mat.Dense, error) {
	if err := e.Fit(x); err != nil {
		return nil, err
	}

	return e.Transform(ctx, x)
}

// encodeRows fills out[lo:hi] for x[lo:hi]. Chunks write disjoint rows.
func (e *SplineEncoder) encodeRows(out *mat.Dense, x []float64, lo, hi int) error {
	present := make([]float64, 0, hi-lo)
	rows := make([]int, 0, hi-lo)
	for q := lo; q < hi; q++ {
		if math.IsNaN(x[q]) {
			out.Set(q, e.NumColumns()-1, 1) // only reachable when Nullable
			continue
		}
		present = append(present, x[q])
		rows = append(rows, q)
	}
	if len(present) == 0 {
		return nil
	}

	sb, err := bspline.Sparse(e.knots, e.cfg.Order, present, &bspline.Options{Boundary: e.cfg.Boundary})
	if err != nil {
		return fmt.Errorf("rows [%d, %d): %w", lo, hi, err)
	}
	for i, q := range rows {
		copy(out.RawRowView(q)[sb.Start[i]:], sb.Values.RawRowView(i))
	}

	return nil
}

// missing counts NaN entries and rejects them for non-nullable encoders.
func (e *SplineEncoder) missing(x []float64) (int, error) {
	var n int
	for _, v := range x {
		if math.IsNaN(v) {
			n++
		}
	}
	if n > 0 && !e.cfg.Nullable {
		return n, fmt.Errorf("%d NaN values: %w", n, ErrMissingValue)
	}

	return n, nil
}

// chunks splits [0, n) into at most `workers` contiguous ranges of at least
// minRowsPerWorker rows each (except when n itself is smaller).
func chunks(n, workers int) [][2]int {
	if limit := (n + minRowsPerWorker - 1) / minRowsPerWorker; workers > limit {
		workers = limit
	}
	if workers < 1 {
		workers = 1
	}
	size := (n + workers - 1) / workers
	out := make([][2]int, 0, workers)
	for lo := 0; lo < n; lo += size {
		out = append(out, [2]int{lo, min(lo+size, n)})
	}

	return out
}
