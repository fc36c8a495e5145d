package stats

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatios(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "cco2_plotting.out")
	text := strings.Join([]string{
		"id, x, A_{Fe}, A_{56Ni}, A_{44Ti}",
		"0, 1, 1, 3, 2",
		"1, 1, 0, 0, 5",
		"2, 1, 2, 2, 0",
		"3, 1, nan, 1, 1",
		"4, 1, 5, 5, 1",
	}, "\n") + "\n"
	require.NoError(t, os.WriteFile(fname, []byte(text), 0644))

	r := Ratio{Numerator: []string{"A_{Fe}", "A_{56Ni}"},
		Denominator: []string{"A_{44Ti}"}}
	x, err := Ratios(fname, r)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 10}, x)

	inv := Ratio{Numerator: []string{"A_{44Ti}"},
		Denominator: []string{"A_{Fe}", "A_{56Ni}"}}
	x, err = Ratios(fname, inv)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.1}, x)

	_, err = Ratios(fname, Ratio{Numerator: []string{"A_{Fe}"}})
	assert.Error(t, err)
	_, err = Ratios(fname, Ratio{Numerator: []string{"A_{Fe}"},
		Denominator: []string{"A_{Co}"}})
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	x := []float64{5, 1, 4, 2, 3}
	s, err := Summarize(x)
	require.NoError(t, err)

	assert.Equal(t, []float64{5, 1, 4, 2, 3}, x)
	assert.Equal(t, 5, s.N)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 1.0, s.P5)
	assert.Equal(t, 2.0, s.Q1)
	assert.Equal(t, 3.0, s.Median)
	assert.Equal(t, 4.0, s.Q3)
	assert.Equal(t, 5.0, s.P95)
	assert.Equal(t, 5.0, s.Max)
	assert.InDelta(t, 3.0, s.Mean, 1e-12)
	assert.InDelta(t, 2.0, s.Variance, 1e-12)
	assert.InDelta(t, math.Sqrt(2), s.StdDev, 1e-12)

	_, err = Summarize(nil)
	assert.Error(t, err)
}

func TestLogAndWindow(t *testing.T) {
	x := Log10([]float64{1, 10, 1e3, 1e-2})
	assert.InDeltaSlice(t, []float64{0, 1, 3, -2}, x, 1e-12)

	assert.Equal(t, []float64{1, 3}, Window([]float64{0.5, 1, 3, 3.5}, 1, 3))
	assert.Empty(t, Window([]float64{0.5}, 1, 3))
}

func TestPrint(t *testing.T) {
	s, err := Summarize([]float64{1, 2, 3, 4, 5})
	require.NoError(t, err)
	buf := &bytes.Buffer{}
	require.NoError(t, s.Print(buf, "%.3f"))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 11)
	assert.Equal(t, "           values: 5", lines[0])
	assert.Equal(t, "           median: 3.000", lines[4])
	assert.Equal(t, "         variance: 2.000", lines[10])
}

func TestHistogram(t *testing.T) {
	x := []float64{-1, 0, 0.5, 1.5, 1.9, 2.5, 3.99, 4, 7}
	h, err := NewHistogram(x, 4, 0, 4)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2, 3, 4}, h.Dividers)
	assert.Equal(t, []float64{2, 2, 1, 1}, h.Counts)
	assert.Equal(t, 6.0, h.Total())

	empty, err := NewHistogram([]float64{10}, 3, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0}, empty.Counts)
	assert.Error(t, empty.Plot(&bytes.Buffer{}, PlotConfig{Title: "empty"}))

	_, err = NewHistogram(x, 0, 0, 1)
	assert.Error(t, err)
	_, err = NewHistogram(x, 4, 1, 1)
	assert.Error(t, err)
}

func TestHistogramPlot(t *testing.T) {
	x := []float64{}
	for i := 0; i < 1000; i++ {
		x = append(x, float64(i%37)/37*6)
	}
	h, err := NewHistogram(x, 90, 0, 6)
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	require.NoError(t, h.Plot(buf, PlotConfig{
		Title: "Log of Iron/Titanium Ratios", XLabel: "log((Fe + 56Ni) / 44Ti)",
	}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}
