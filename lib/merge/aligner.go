package merge

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/phil-mansfield/snpost/lib/catio"
	"github.com/phil-mansfield/snpost/lib/particles"
	"github.com/phil-mansfield/snpost/lib/units"
)

// Peak is a particle's temperature and density in a single timestep.
type Peak struct {
	Temp, Density float64
}

// SelectPeak returns the pair with the highest temperature. Ties go to the
// pair that comes first, and NaN temperatures lose to everything else. ok is
// false if pairs is empty.
func SelectPeak(pairs []Peak) (peak Peak, ok bool) {
	for i, p := range pairs {
		if i == 0 || p.Temp > peak.Temp ||
			(math.IsNaN(peak.Temp) && !math.IsNaN(p.Temp)) {
			peak = p
		}
	}
	return peak, len(pairs) > 0
}

// SumAbundances returns the total abundance of a target. A target with no
// responding sub-sources has a total of exactly zero.
func SumAbundances(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return floats.Sum(values)
}

// Summary describes a finished merge.
type Summary struct {
	// Rows is the number of rows written.
	Rows int64
	// MissingIDs counts cursor IDs that the terminal source skipped.
	MissingIDs int64
	// MissingPeaks counts rows that no early source answered.
	MissingPeaks int64
	// MissingYe counts rows that the initial source didn't answer.
	MissingYe int64
}

// Aligner drives a single ascending particle ID across a set of Sources and
// assembles one row per ID that the terminal source contains.
type Aligner struct {
	src    *Sources
	config Config
	log    *log.Logger

	tempCols, rhoCols []int // per early source, -1 if the source is empty
	yeCol             int

	// Per-row scratch space.
	peaks []Peak
	abuns []float64
	row   []string
}

// NewAligner looks up the named columns of src. A non-empty early or initial
// source without a header is an error.
func NewAligner(src *Sources, config Config) (*Aligner, error) {
	al := &Aligner{
		src: src, config: config, log: config.logger(), yeCol: -1,
		tempCols: make([]int, len(src.Early)),
		rhoCols:  make([]int, len(src.Early)),
	}

	for i, r := range src.Early {
		al.tempCols[i], al.rhoCols[i] = -1, -1
		if isEmpty(r) {
			continue
		}
		var err error
		if al.tempCols[i], err = r.FindColumn(config.TempColumn); err != nil {
			return nil, err
		}
		if al.rhoCols[i], err = r.FindColumn(config.DensityColumn); err != nil {
			return nil, err
		}
	}

	if src.Initial != nil && !isEmpty(src.Initial) {
		var err error
		if al.yeCol, err = src.Initial.FindColumn(config.YeColumn); err != nil {
			return nil, err
		}
	}

	return al, nil
}

// isEmpty returns true for sources which will never answer a Fetch.
func isEmpty(r *catio.Reader) bool {
	return r.Exhausted() && r.Header() == nil
}

// Header returns the column names of the merged table.
func (al *Aligner) Header() []string {
	header := []string{
		"id", "x", "y", "z", "vx", "vy", "vz", "mass", "h", "density",
		"peak_temp", "peak_density", "Y_e",
	}
	for _, t := range al.src.Targets {
		header = append(header, fmt.Sprintf("A_{%s}", t.Name))
	}
	return header
}

// WriteColumns writes one column name per line.
func WriteColumns(w io.Writer, header []string) error {
	_, err := io.WriteString(w, strings.Join(header, "\n")+"\n")
	return err
}

// Run writes the header and every row to w. All sources are closed when Run
// returns, whether or not it succeeded. Any error aborts the merge: rows
// already written to w should not be used.
func (al *Aligner) Run(w io.Writer) (Summary, error) {
	defer al.src.Close()

	sum := Summary{}
	bw := bufio.NewWriter(w)
	sep := al.config.Separator

	if _, err := bw.WriteString(strings.Join(al.Header(), sep) + "\n"); err != nil {
		return sum, err
	}

	term := al.src.Terminal
	goal := int64(0)
	for id := int64(0); !term.Exhausted(); id++ {
		if al.config.ProgressEvery > 0 && id >= goal {
			if id > 0 {
				al.log.Printf("Compiling values for particle ID %d,000", id/1000)
			}
			goal += al.config.ProgressEvery
		}

		rec, ok, err := term.Fetch(id)
		if err != nil {
			return sum, err
		} else if !ok {
			al.log.Printf("Warning: particle ID %d missing from final "+
				"entropy outfile", id)
			sum.MissingIDs++
			continue
		}

		if err := al.buildRow(id, rec, &sum); err != nil {
			return sum, err
		}
		if _, err := bw.WriteString(strings.Join(al.row, sep) + "\n"); err != nil {
			return sum, err
		}
		sum.Rows++
	}

	if err := bw.Flush(); err != nil {
		return sum, err
	}
	return sum, al.src.Close()
}

// buildRow fills al.row with the merged values for a single particle.
func (al *Aligner) buildRow(id int64, rec catio.Record, sum *Summary) error {
	u, missing := al.config.Units, al.config.Missing

	tr, err := particles.DecodeTerminal(al.src.Terminal.Name(), id, rec.Fields)
	if err != nil {
		return err
	}
	if err := tr.ToCGS(u); err != nil {
		return fmt.Errorf("In file %s: %s", al.src.Terminal.Name(), err.Error())
	}

	peakTemp, peakRho := missing, missing
	if peak, ok, err := al.peak(id); err != nil {
		return err
	} else if ok {
		peakTemp = units.FormatFloat(peak.Temp)
		peakRho = units.FormatFloat(units.Scale(peak.Density, u.Density()))
	} else {
		sum.MissingPeaks++
	}

	ye, ok, err := al.ye(id)
	if err != nil {
		return err
	} else if !ok {
		ye = missing
		sum.MissingYe++
	}

	al.row = append(al.row[:0],
		tr.ID, tr.X, tr.Y, tr.Z, tr.Vx, tr.Vy, tr.Vz,
		tr.Mass, tr.H, tr.Density, peakTemp, peakRho, ye,
	)

	for i := range al.src.Targets {
		total, err := al.abundance(id, &al.src.Targets[i])
		if err != nil {
			return err
		}
		al.row = append(al.row, units.FormatFloat(total))
	}

	return nil
}

// peak finds the (temperature, density) pair with the highest temperature
// across all the early sources that contain id.
func (al *Aligner) peak(id int64) (Peak, bool, error) {
	al.peaks = al.peaks[:0]
	for i, r := range al.src.Early {
		rec, ok, err := r.Fetch(id)
		if err != nil {
			return Peak{}, false, err
		} else if !ok {
			continue
		}

		temp, err := field(r, rec, al.tempCols[i])
		if err != nil {
			return Peak{}, false, err
		}
		rho, err := field(r, rec, al.rhoCols[i])
		if err != nil {
			return Peak{}, false, err
		}
		al.peaks = append(al.peaks, Peak{temp, rho})
	}

	peak, ok := SelectPeak(al.peaks)
	return peak, ok, nil
}

// ye returns the initial electron fraction of id exactly as it appears in
// the initial source.
func (al *Aligner) ye(id int64) (string, bool, error) {
	r := al.src.Initial
	if r == nil {
		return "", false, nil
	}
	rec, ok, err := r.Fetch(id)
	if err != nil || !ok {
		return "", false, err
	}
	if al.yeCol < 0 || al.yeCol >= len(rec.Fields) {
		return "", false, fieldError(r, rec, al.yeCol)
	}
	return rec.Fields[al.yeCol], true, nil
}

// abundance sums the abundance of a single target across its sub-sources.
func (al *Aligner) abundance(id int64, t *TargetSources) (float64, error) {
	al.abuns = al.abuns[:0]
	for _, r := range t.Readers {
		rec, ok, err := r.Fetch(id)
		if err != nil {
			return 0, err
		} else if !ok {
			continue
		}
		x, err := field(r, rec, al.config.AbundanceColumn)
		if err != nil {
			return 0, err
		}
		al.abuns = append(al.abuns, x)
	}
	return SumAbundances(al.abuns), nil
}

// field parses column col of rec as a float.
func field(r *catio.Reader, rec catio.Record, col int) (float64, error) {
	if col < 0 || col >= len(rec.Fields) {
		return 0, fieldError(r, rec, col)
	}
	x, err := strconv.ParseFloat(rec.Fields[col], 64)
	if err != nil {
		return 0, fmt.Errorf("Could not parse column %d of particle ID %d "+
			"in file %s: %s", col, rec.ID, r.Name(), err.Error())
	}
	return x, nil
}

func fieldError(r *catio.Reader, rec catio.Record, col int) error {
	return fmt.Errorf("Particle ID %d in file %s has %d fields, so column "+
		"%d can't be read.", rec.ID, r.Name(), len(rec.Fields), col)
}
