package stats

import (
	"fmt"
	"io"
	"sort"

	"github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Histogram is a set of evenly spaced bins. Bin i covers
// [Dividers[i], Dividers[i+1]).
type Histogram struct {
	Dividers, Counts []float64
}

// NewHistogram bins the elements of x which lie in [lo, hi).
func NewHistogram(x []float64, bins int, lo, hi float64) (*Histogram, error) {
	if bins < 1 {
		return nil, fmt.Errorf("A histogram needs at least one bin, not %d.", bins)
	} else if !(lo < hi) {
		return nil, fmt.Errorf("Histogram range [%g, %g) is empty.", lo, hi)
	}

	h := &Histogram{
		Dividers: floats.Span(make([]float64, bins+1), lo, hi),
		Counts:   make([]float64, bins),
	}

	in := []float64{}
	for _, v := range x {
		if v >= lo && v < hi {
			in = append(in, v)
		}
	}
	if len(in) == 0 {
		return h, nil
	}
	sort.Float64s(in)

	stat.Histogram(h.Counts, h.Dividers, in, nil)
	return h, nil
}

// Total returns the number of values in the histogram.
func (h *Histogram) Total() float64 { return floats.Sum(h.Counts) }

// PlotConfig labels a histogram plot.
type PlotConfig struct {
	Title, XLabel string
	Width, Height int
}

// Plot renders the histogram as a PNG.
func (h *Histogram) Plot(w io.Writer, config PlotConfig) error {
	if h.Total() == 0 {
		return fmt.Errorf("Cannot plot histogram '%s' with no values.",
			config.Title)
	}
	if config.Width == 0 {
		config.Width = 800
	}
	if config.Height == 0 {
		config.Height = 600
	}

	// Outline of the bars as a single step function.
	n := len(h.Counts)
	xs, ys := make([]float64, 0, 2*n+2), make([]float64, 0, 2*n+2)
	xs, ys = append(xs, h.Dividers[0]), append(ys, 0)
	for i := 0; i < n; i++ {
		xs = append(xs, h.Dividers[i], h.Dividers[i+1])
		ys = append(ys, h.Counts[i], h.Counts[i])
	}
	xs, ys = append(xs, h.Dividers[n]), append(ys, 0)

	graph := chart.Chart{
		Title:  config.Title,
		Width:  config.Width,
		Height: config.Height,
		XAxis:  chart.XAxis{Name: config.XLabel},
		YAxis:  chart.YAxis{Name: "Bin count"},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					FillColor:   chart.ColorBlue.WithAlpha(96),
					StrokeWidth: 1.0,
				},
			},
		},
	}
	return graph.Render(chart.PNG, w)
}
