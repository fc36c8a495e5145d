/*package query drives burn_query, an interactive executable which searches
HDF5 burn files for particles containing an isotope above some mass fraction.
burn_query reads its options from stdin as a sequence of menu choices, so a
query is run by writing that sequence to the process.
*/
package query

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/phil-mansfield/snpost/lib/isotope"
	"github.com/phil-mansfield/snpost/lib/slurm"
)

// Request is a single burn_query run.
type Request struct {
	Isotope string
	// Abundance is the negative log10 of the mass fraction threshold, e.g.
	// 6 means 1e-6.
	Abundance int
	Outfile   string
	HDF5      []string
}

// Inputs returns the text burn_query expects on stdin: a new query (1) for
// isotope's N and Z above the threshold, then start (4), confirm (Y), and the
// output file.
func Inputs(iso string, abundance int, outfile string) (string, error) {
	nn, nz, err := isotope.NNNZ(iso)
	if err != nil {
		return "", err
	}
	lines := []string{
		"1", strconv.Itoa(nn), strconv.Itoa(nz), strconv.Itoa(abundance),
		"4", "Y", outfile,
	}
	return strings.Join(lines, "\n") + "\n", nil
}

// SmallestAbundance returns the smallest mass fraction in a query outfile.
// Lines are "id, nz, nn, mass fraction"; anything else is skipped. ok is false
// if the file has no such lines.
func SmallestAbundance(fname string) (smallest float64, ok bool, err error) {
	f, err := os.Open(fname)
	if err != nil {
		return 0, false, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		cols := strings.Split(strings.TrimSpace(sc.Text()), ", ")
		if len(cols) != 4 {
			continue
		}
		x, valid := parseQueryLine(cols)
		if !valid {
			continue
		}
		if !ok || x < smallest {
			smallest, ok = x, true
		}
	}
	return smallest, ok, sc.Err()
}

func parseQueryLine(cols []string) (float64, bool) {
	for _, c := range cols[:3] {
		if _, err := strconv.Atoi(c); err != nil {
			return 0, false
		}
	}
	x, err := strconv.ParseFloat(cols[3], 64)
	return x, err == nil
}

// OverwriteError is returned when a query would replace an existing outfile
// made with the same threshold.
type OverwriteError struct {
	Name string
}

func (err *OverwriteError) Error() string {
	return fmt.Sprintf("specified outfile '%s' already exists!\n%s",
		err.Name, slurm.OverwriteSignal)
}

// PrepareOutfile makes sure outfile can be written. An existing outfile is
// deleted unless its smallest abundance is within half a dex of the
// threshold, in which case the query has already been run and an
// *OverwriteError is returned.
func PrepareOutfile(outfile string, abundance int) error {
	if _, err := os.Stat(outfile); os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return err
	}

	small, ok, err := SmallestAbundance(outfile)
	if err != nil {
		return err
	}
	if ok && math.Abs(math.Log10(small)+float64(abundance)) < 0.5 {
		return &OverwriteError{outfile}
	}
	return os.Remove(outfile)
}

// Run prepares the outfile and runs burn_query on the request.
func (req *Request) Run(exe string, stdout, stderr io.Writer) error {
	inputs, err := Inputs(req.Isotope, req.Abundance, req.Outfile)
	if err != nil {
		return err
	}
	if err := PrepareOutfile(req.Outfile, req.Abundance); err != nil {
		return err
	}

	cmd := exec.Command(exe, req.HDF5...)
	cmd.Stdin = strings.NewReader(inputs)
	cmd.Stdout, cmd.Stderr = stdout, stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("burn_query failed on %s: %s", req.Isotope, err.Error())
	}
	return nil
}
