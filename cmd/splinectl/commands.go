package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/katalvlaran/bsplines/bspline"
	"github.com/katalvlaran/bsplines/encoder"
	"github.com/katalvlaran/bsplines/knots"
	"github.com/katalvlaran/bsplines/penalty"
)

// app carries the resolved configuration from PersistentPreRunE to the
// subcommands.
type app struct {
	cfgPath string
	input   string
	cfg     Config
	log     *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	def := DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "splinectl",
		Short: "B-spline basis encoding and curvature penalties",
		Long: `splinectl works on numeric columns: one value per line, with blank
lines, nan, NA or null marking missing values.

Commands:
  • knots    select quantile knots for a data column
  • encode   expand a column into B-spline basis columns
  • penalty  curvature penalty (and nullspace) for a knot vector
  • eval     basis matrix or spline values at query points`,
		SilenceUsage:      true,
		PersistentPreRunE: a.load,
	}
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.cfgPath, "config", getEnvStr("SPLINECTL_CONFIG", ""), "YAML config file")
	pf.StringVarP(&a.input, "input", "i", "-", "input column file (- for stdin)")
	pf.Int("order", def.Order, "spline order: 0 binning, 1 linear, 3 cubic")
	pf.String("boundary", def.Boundary, "out-of-domain policy: reject, clamp, zero")
	pf.StringP("output", "o", def.Output, "output format: csv, yaml")
	pf.String("log-level", def.Log.Level, "log level: debug, info, warn, error")
	pf.String("log-format", def.Log.Format, "log format: text, json")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "splinectl v%s (%s) built %s\n", version, commit, buildTime)
			},
		},
		a.knotsCmd(def),
		a.encodeCmd(def),
		a.penaltyCmd(),
		a.evalCmd(),
	)

	return rootCmd
}

// load resolves defaults, config file, environment and flags, in that order.
func (a *app) load(cmd *cobra.Command, _ []string) error {
	cfg, err := LoadConfig(a.cfgPath)
	if err != nil {
		return err
	}
	if err = applyFlags(cmd.Flags(), &cfg); err != nil {
		return err
	}
	if err = cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.log, err = newLogger(cfg.Log, cmd.ErrOrStderr())

	return err
}

// addKnotFlags registers the knot selection flags shared by knots and encode.
func addKnotFlags(fs *pflag.FlagSet, def Config) {
	fs.Int("knots", def.Knots, "number of distinct knots including both bounds")
	fs.Float64Slice("interval", nil, "fixed domain lo,hi (default: data range)")
}

func (a *app) knotsCmd(def Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "knots",
		Short: "Select quantile knots for a data column",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			x, err := readColumnFile(a.input, cmd.InOrStdin(), false)
			if err != nil {
				return err
			}
			kv, err := knots.Quantile(x, a.cfg.Knots, a.cfg.Order, a.cfg.Interval)
			if err != nil {
				return err
			}
			a.log.Info("knots selected",
				slog.Int("values", len(x)),
				slog.Int("order", a.cfg.Order),
				slog.Int("knots", len(kv)),
			)

			return writeTable(cmd.OutOrStdout(), a.cfg.Output, columnTable("knot", kv))
		},
	}
	addKnotFlags(cmd.Flags(), def)

	return cmd
}

func (a *app) encodeCmd(def Config) *cobra.Command {
	var fitPath string
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Expand a column into B-spline basis columns",
		Long: `encode fits quantile knots (on --fit, or on the input itself) and writes
one basis column per spline function. With --nullable a last "missing"
column is 1 for missing rows, so every row sums to one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			x, err := readColumnFile(a.input, cmd.InOrStdin(), false)
			if err != nil {
				return err
			}
			train := x
			if fitPath != "" {
				if train, err = readColumnFile(fitPath, cmd.InOrStdin(), false); err != nil {
					return err
				}
			}
			ec, err := a.cfg.encoderConfig(a.log)
			if err != nil {
				return err
			}
			enc, err := encoder.New(ec)
			if err != nil {
				return err
			}
			if err = enc.Fit(train); err != nil {
				return err
			}
			out, err := enc.Transform(cmd.Context(), x)
			if err != nil {
				return err
			}

			tb := matrixTable(out, "b")
			if a.cfg.Nullable {
				tb.Columns[len(tb.Columns)-1] = "missing"
			}
			return writeTable(cmd.OutOrStdout(), a.cfg.Output, tb)
		},
	}
	fs := cmd.Flags()
	addKnotFlags(fs, def)
	fs.Bool("nullable", def.Nullable, "add a missing-value indicator column")
	fs.Int("workers", def.Workers, "goroutines used for the transform")
	fs.StringVar(&fitPath, "fit", "", "column file to fit knots on (default: the input)")

	return cmd
}

func (a *app) penaltyCmd() *cobra.Command {
	var (
		withNullspace bool
		raw           bool
		ridge         float64
	)
	cmd := &cobra.Command{
		Use:   "penalty",
		Short: "Curvature penalty for a knot vector",
		Long: `penalty reads a padded knot vector (one knot per line) and writes the
matrix P[i,j] = ∫ B_i''·B_j''. With --with-nullspace the constant and linear
nullspace directions are appended as the columns null_const and null_linear.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kv, err := readColumnFile(a.input, cmd.InOrStdin(), true)
			if err != nil {
				return err
			}
			res, err := penalty.Build(kv, a.cfg.Order, &penalty.Options{
				ReturnNullspace: withNullspace,
				Orthonormalize:  !raw,
				Ridge:           ridge,
			})
			if err != nil {
				return err
			}
			a.log.Info("penalty built",
				slog.Int("basis", res.Penalty.SymmetricDim()),
				slog.Bool("nullspace", res.Nullspace != nil),
			)

			tb := matrixTable(res.Penalty, "p")
			if res.Nullspace != nil {
				ns := matrixTable(res.Nullspace, "null")
				ns.Columns = []string{"null_const", "null_linear"}
				tb = tb.appendColumns(ns)
			}
			return writeTable(cmd.OutOrStdout(), a.cfg.Output, tb)
		},
	}
	fs := cmd.Flags()
	fs.BoolVar(&withNullspace, "with-nullspace", false, "append the nullspace basis")
	fs.BoolVar(&raw, "raw-nullspace", false, "skip Gram–Schmidt: ones and Greville abscissae")
	fs.Float64Var(&ridge, "ridge", 0, "add ridge·I to the diagonal")

	return cmd
}

func (a *app) evalCmd() *cobra.Command {
	var (
		knotPath string
		coefPath string
		deriv    int
	)
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate the basis or a spline at query points",
		Long: `eval reads query points from the input and a padded knot vector from
--knot-file. Without --coef it writes the basis matrix (or its --deriv-th
derivative); with --coef it writes the columns x and y of the spline
Σ coef[j]·B_j(x).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			x, err := readColumnFile(a.input, cmd.InOrStdin(), true)
			if err != nil {
				return err
			}
			kv, err := readColumnFile(knotPath, cmd.InOrStdin(), true)
			if err != nil {
				return err
			}
			b, err := bspline.ParseBoundary(a.cfg.Boundary)
			if err != nil {
				return err
			}
			opts := &bspline.Options{Derivative: deriv, Boundary: b}

			if coefPath == "" {
				B, err := bspline.Evaluate(kv, a.cfg.Order, x, opts)
				if err != nil {
					return err
				}
				return writeTable(cmd.OutOrStdout(), a.cfg.Output, matrixTable(B, "b"))
			}

			coef, err := readColumnFile(coefPath, cmd.InOrStdin(), true)
			if err != nil {
				return err
			}
			y, err := bspline.Eval(kv, a.cfg.Order, coef, x, opts)
			if err != nil {
				return err
			}
			tb := columnTable("x", x).appendColumns(columnTable("y", y))
			if deriv > 0 {
				tb.Columns[1] = "d" + strconv.Itoa(deriv) + "y"
			}
			return writeTable(cmd.OutOrStdout(), a.cfg.Output, tb)
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&knotPath, "knot-file", "", "padded knot vector, one knot per line")
	fs.StringVar(&coefPath, "coef", "", "spline coefficients, one per basis function")
	fs.IntVar(&deriv, "deriv", 0, "derivative order")
	_ = cmd.MarkFlagRequired("knot-file")

	return cmd
}
