/*package stats computes summary statistics for abundance ratios in a merged
plotting table, e.g. (Fe + 56Ni) / 44Ti, both in linear space and in log space,
and renders histograms of them.
*/
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/phil-mansfield/snpost/lib/catio"
)

// Ratio is sum(Numerator columns) / sum(Denominator columns).
type Ratio struct {
	Numerator, Denominator []string
}

func (r Ratio) columns() []string {
	cols := append([]string{}, r.Numerator...)
	return append(cols, r.Denominator...)
}

// Ratios computes the ratio for every row of a merged table and drops values
// that are zero or non-finite.
func Ratios(fname string, r Ratio, config ...catio.TextConfig) ([]float64, error) {
	if len(r.Numerator) == 0 || len(r.Denominator) == 0 {
		return nil, fmt.Errorf("A ratio needs at least one numerator " +
			"column and one denominator column.")
	}

	cols, err := catio.ReadFileFloat64s(fname, r.columns(), config...)
	if err != nil {
		return nil, err
	}

	nNum := len(r.Numerator)
	out := []float64{}
	num, den := make([]float64, nNum), make([]float64, len(r.Denominator))
	for i := range cols[0] {
		for j := range num {
			num[j] = cols[j][i]
		}
		for j := range den {
			den[j] = cols[nNum+j][i]
		}

		x := floats.Sum(num) / floats.Sum(den)
		if x != 0 && !math.IsNaN(x) && !math.IsInf(x, 0) {
			out = append(out, x)
		}
	}
	return out, nil
}

// Summary holds order statistics, the mean, and the spread of a data set.
// Percentiles use the empirical distribution, so every one is a member of the
// data set.
type Summary struct {
	N int

	Min, P5, Q1, Median, Q3, P95, Max float64

	Mean, StdDev, Variance float64
}

// Summarize computes the Summary of x. x is not modified.
func Summarize(x []float64) (Summary, error) {
	if len(x) == 0 {
		return Summary{}, fmt.Errorf("Cannot compute statistics of an " +
			"empty data set.")
	}

	sorted := append([]float64{}, x...)
	sort.Float64s(sorted)
	q := func(p float64) float64 {
		return stat.Quantile(p, stat.Empirical, sorted, nil)
	}

	mean, variance := stat.PopMeanVariance(sorted, nil)
	return Summary{
		N:        len(sorted),
		Min:      sorted[0],
		P5:       q(0.05),
		Q1:       q(0.25),
		Median:   q(0.5),
		Q3:       q(0.75),
		P95:      q(0.95),
		Max:      sorted[len(sorted)-1],
		Mean:     mean,
		StdDev:   math.Sqrt(variance),
		Variance: variance,
	}, nil
}

// Log10 returns the base-10 logarithm of every element of x.
func Log10(x []float64) []float64 {
	out := make([]float64, len(x))
	for i := range x {
		out[i] = math.Log10(x[i])
	}
	return out
}

// Window returns the elements of x in the closed interval [lo, hi].
func Window(x []float64, lo, hi float64) []float64 {
	out := []float64{}
	for _, v := range x {
		if v >= lo && v <= hi {
			out = append(out, v)
		}
	}
	return out
}

// Print writes a Summary in the format used by the stats mode. verb formats
// each value, e.g. "%.3e" in linear space and "%.3f" in log space.
func (s Summary) Print(w io.Writer, verb string) error {
	rows := []struct {
		name string
		x    float64
	}{
		{"minimum", s.Min}, {"5th percentile", s.P5},
		{"1st quartile", s.Q1}, {"median", s.Median},
		{"3rd quartile", s.Q3}, {"95th percentile", s.P95},
		{"maximum", s.Max}, {"mean", s.Mean},
		{"std dev", s.StdDev}, {"variance", s.Variance},
	}

	if _, err := fmt.Fprintf(w, "%17s: %d\n", "values", s.N); err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%17s: "+verb+"\n", r.name, r.x); err != nil {
			return err
		}
	}
	return nil
}
