package main

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"
)

func TestReadColumn(t *testing.T) {
	x, err := readColumn(strings.NewReader("# header\n1\n 2.5 \n\nnan\nNA\nnull\n-3e2\n"))
	require.NoError(t, err)
	require.Len(t, x, 7)

	assert.Equal(t, []float64{1, 2.5}, x[:2])
	for _, v := range x[2:6] {
		assert.True(t, math.IsNaN(v))
	}
	assert.Equal(t, -300.0, x[6])
}

func TestReadColumn_BadValue(t *testing.T) {
	_, err := readColumn(strings.NewReader("1\n2\nthree\n"))
	assert.ErrorIs(t, err, errBadValue)
	assert.ErrorContains(t, err, "line 3")
}

func TestReadColumnFile_Strict(t *testing.T) {
	_, err := readColumnFile("-", strings.NewReader("1\nnan\n"), true)
	assert.ErrorIs(t, err, errMissing)

	path := writeFile(t, "col.txt", "0\n1\n")
	x, err := readColumnFile(path, nil, true)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, x)
}

func TestWriteTable_CSV(t *testing.T) {
	var buf bytes.Buffer
	m := mat.NewDense(2, 2, []float64{0.25, 0.75, 1, math.NaN()})
	require.NoError(t, writeTable(&buf, "csv", matrixTable(m, "b")))
	assert.Equal(t, "b0,b1\n0.25,0.75\n1,NaN\n", buf.String())
}

func TestWriteTable_YAML(t *testing.T) {
	var buf bytes.Buffer
	tb := columnTable("x", []float64{1, 2}).appendColumns(columnTable("y", []float64{3, math.Inf(1)}))
	require.NoError(t, writeTable(&buf, "yaml", tb))

	var got table
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, []string{"x", "y"}, got.Columns)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, []float64{1, 3}, got.Rows[0])
	assert.True(t, math.IsInf(got.Rows[1][1], 1))
	assert.Contains(t, buf.String(), "- [1, 3]")
}

func TestWriteTable_UnknownFormat(t *testing.T) {
	assert.ErrorIs(t, writeTable(&bytes.Buffer{}, "xml", table{}), errInvalidOutput)
}
