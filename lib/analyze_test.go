package lib

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze(t *testing.T) {
	dir := t.TempDir()
	fname := writeText(t, filepath.Join(dir, "cco2_plotting.out"),
		"id, mass, A_{Fe}, A_{56Ni}, A_{44Ti}",
		"0, 1, 1, 0, 0.01",     // 100
		"1, 1, 5, 5, 0.01",     // 1000
		"2, 1, 0, 0, 0.01",     // dropped: zero
		"3, 1, 1, 0, 0",        // dropped: infinite
		"4, 1, 100, 0, 0.0001", // 1e6
		"5, 1, 1, 1, 0.002",    // 1000
	)

	args, err := DefaultRawArgs().Process("", nil)
	require.NoError(t, err)
	args.Plot = filepath.Join(dir, "histogram.png")
	args.LogPlot = ""
	args.Windows = []Window{{1.5, 2.5}, {2.5, 3.5}, {7, 8}}

	out := &bytes.Buffer{}
	require.NoError(t, Analyze(args, fname, out))
	text := out.String()

	assert.Contains(t, text, "(A_{Fe} + A_{56Ni}) / A_{44Ti}")
	assert.Contains(t, text, "\nUsable nonzero values: 4\n")
	assert.Contains(t, text, "          minimum: 1.000e+02\n")
	assert.Contains(t, text, "          maximum: 1.000e+06\n")
	assert.Contains(t, text, "          maximum: 6.000\n")
	assert.Contains(t, text, "Statistics for window [1.5, 2.5]:\n"+
		"           values: 1\n")
	assert.Contains(t, text, "Statistics for window [2.5, 3.5]:\n"+
		"           values: 2\n")
	assert.Contains(t, text, "Statistics for window [7.0, 8.0]:\n"+
		"        no values\n")

	png := readText(t, args.Plot)
	assert.True(t, strings.HasPrefix(png, "\x89PNG"))

	assert.Error(t, Analyze(args, filepath.Join(dir, "missing.out"), out))
}

func TestRatioName(t *testing.T) {
	args, err := DefaultRawArgs().Process("", nil)
	require.NoError(t, err)
	assert.Equal(t, "(A_{Fe} + A_{56Ni}) / A_{44Ti}", ratioName(args.Ratio))

	args.Ratio.Numerator = []string{"A_{Ti}"}
	args.Ratio.Denominator = []string{"A_{Fe}", "A_{Ni}"}
	assert.Equal(t, "A_{Ti} / (A_{Fe} + A_{Ni})", ratioName(args.Ratio))
}
