package main

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"
)

var (
	errBadValue = errors.New("splinectl: not a number")
	errMissing  = errors.New("splinectl: missing value not allowed here")
)

// missingTokens are read as NaN, compared case-insensitively.
var missingTokens = map[string]bool{"": true, "nan": true, "na": true, "null": true}

// readColumn parses one value per line. Blank lines and nan, NA or null are
// missing values and yield NaN; lines starting with '#' are skipped.
func readColumn(r io.Reader) ([]float64, error) {
	var (
		out  []float64
		line int
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line++
		s := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(s, "#") {
			continue
		}
		if missingTokens[strings.ToLower(s)] {
			out = append(out, math.NaN())
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %q: %w", line, s, errBadValue)
		}
		out = append(out, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read column: %w", err)
	}

	return out, nil
}

// readColumnFile reads a column from path, or from stdin when path is "-".
// With strict set, missing values are an error.
func readColumnFile(path string, stdin io.Reader, strict bool) ([]float64, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	x, err := readColumn(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if strict {
		for i, v := range x {
			if math.IsNaN(v) {
				return nil, fmt.Errorf("%s: value %d: %w", path, i+1, errMissing)
			}
		}
	}

	return x, nil
}

// table is the output unit: named columns of float rows.
type table struct {
	Columns []string    `yaml:"columns,flow"`
	Rows    [][]float64 `yaml:"rows"`
}

// columnTable wraps a vector as a single-column table.
func columnTable(name string, v []float64) table {
	rows := make([][]float64, len(v))
	for i, x := range v {
		rows[i] = []float64{x}
	}

	return table{Columns: []string{name}, Rows: rows}
}

// matrixTable names the columns of m prefix0, prefix1, ...
func matrixTable(m mat.Matrix, prefix string) table {
	r, c := m.Dims()
	tb := table{Columns: make([]string, c), Rows: make([][]float64, r)}
	for j := range tb.Columns {
		tb.Columns[j] = prefix + strconv.Itoa(j)
	}
	for i := range tb.Rows {
		tb.Rows[i] = mat.Row(nil, i, m)
	}

	return tb
}

// appendColumns joins the columns of other to tb row by row.
func (tb table) appendColumns(other table) table {
	out := table{Columns: append(append([]string(nil), tb.Columns...), other.Columns...)}
	out.Rows = make([][]float64, len(tb.Rows))
	for i, row := range tb.Rows {
		out.Rows[i] = append(append([]float64(nil), row...), other.Rows[i]...)
	}

	return out
}

// writeTable renders tb as CSV with a header line or as a YAML document.
func writeTable(w io.Writer, format string, tb table) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(yamlRows(tb)); err != nil {
			return fmt.Errorf("write yaml: %w", err)
		}
		return enc.Close()
	case "csv":
		cw := csv.NewWriter(w)
		if err := cw.Write(tb.Columns); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
		rec := make([]string, len(tb.Columns))
		for _, row := range tb.Rows {
			for j, v := range row {
				rec[j] = strconv.FormatFloat(v, 'g', -1, 64)
			}
			if err := cw.Write(rec); err != nil {
				return fmt.Errorf("write csv: %w", err)
			}
		}
		cw.Flush()
		return cw.Error()
	}

	return fmt.Errorf("output %q: %w", format, errInvalidOutput)
}

// yamlRows emits every row in flow style so a matrix reads as a matrix.
func yamlRows(tb table) *yaml.Node {
	cols := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, c := range tb.Columns {
		cols.Content = append(cols.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: c})
	}
	rows := &yaml.Node{Kind: yaml.SequenceNode}
	for _, row := range tb.Rows {
		r := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, v := range row {
			r.Content = append(r.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: yamlFloat(v)})
		}
		rows.Content = append(rows.Content, r)
	}

	return &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{
		{Kind: yaml.ScalarNode, Value: "columns"}, cols,
		{Kind: yaml.ScalarNode, Value: "rows"}, rows,
	}}
}

// yamlFloat formats v so that it resolves back to the same float.
func yamlFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return ".nan"
	case math.IsInf(v, 1):
		return ".inf"
	case math.IsInf(v, -1):
		return "-.inf"
	}

	return strconv.FormatFloat(v, 'g', -1, 64)
}
