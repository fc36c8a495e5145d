package lib

/* analyze.go contains the core functions of snpost's "stats" mode. */

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/phil-mansfield/snpost/lib/catio"
	"github.com/phil-mansfield/snpost/lib/stats"
)

// ratioName returns a label like "(A_{Fe} + A_{56Ni}) / A_{44Ti}".
func ratioName(r stats.Ratio) string {
	group := func(cols []string) string {
		if len(cols) == 1 {
			return cols[0]
		}
		return "(" + strings.Join(cols, " + ") + ")"
	}
	return group(r.Numerator) + " / " + group(r.Denominator)
}

// Analyze prints statistics of the configured abundance ratio over the
// particles in a plotting file, first in linear space and then in log space,
// followed by statistics for each log-space window. Histograms are written
// to the configured plot files, if any.
func Analyze(args *Args, fname string, out io.Writer) error {
	name := ratioName(args.Ratio)
	fmt.Fprintf(out, "Acquiring %s ratio data from %s...\n", name, fname)

	config := catio.DefaultConfig
	config.Separator = args.Merge.Separator
	x, err := stats.Ratios(fname, args.Ratio, config)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nUsable nonzero values: %d\n", len(x))

	sum, err := stats.Summarize(x)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nStatistics:\n")
	if err := sum.Print(out, "%.3e"); err != nil {
		return err
	}
	err = plotHistogram(x, args.Bins, args.Min, args.Max, args.Plot,
		stats.PlotConfig{Title: "Ratios", XLabel: name})
	if err != nil {
		return err
	}

	logX := stats.Log10(x)
	logSum, err := stats.Summarize(logX)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nStatistics in log space:\n")
	if err := logSum.Print(out, "%.3f"); err != nil {
		return err
	}
	err = plotHistogram(logX, args.LogBins, args.LogMin, args.LogMax,
		args.LogPlot, stats.PlotConfig{
			Title: "Log ratios", XLabel: "log(" + name + ")",
		})
	if err != nil {
		return err
	}

	for _, w := range args.Windows {
		fmt.Fprintf(out, "\nStatistics for window [%.1f, %.1f]:\n", w.Lo, w.Hi)
		wSum, err := stats.Summarize(stats.Window(logX, w.Lo, w.Hi))
		if err != nil {
			fmt.Fprintf(out, "%17s\n", "no values")
			continue
		}
		if err := wSum.Print(out, "%.3f"); err != nil {
			return err
		}
	}
	return nil
}

func plotHistogram(
	x []float64, bins int, lo, hi float64, fname string,
	config stats.PlotConfig,
) error {
	if fname == "" {
		return nil
	}
	h, err := stats.NewHistogram(x, bins, lo, hi)
	if err != nil {
		return err
	}
	if h.Total() == 0 {
		log.Printf("Warning: no values in [%g, %g), not writing %s.",
			lo, hi, fname)
		return nil
	}

	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	if err := h.Plot(f, config); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
