/*package merge joins the sorted per-particle files produced by the entropy and
burn_query executables into a single table with one row per particle.

A merge reads four kinds of sources: the terminal source (entropy output of the
final timestep, which decides which particles exist), the initial source
(entropy output of the first timestep, which supplies Y_e), the early sources
(entropy output of every timestep before the temperature peak, which supply
the peak temperature and the density at that peak), and the abundance targets
(one or more burn_query outfiles per element or isotope, which are summed).
*/
package merge

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/phil-mansfield/snpost/lib/catio"
	"github.com/phil-mansfield/snpost/lib/compress"
	"github.com/phil-mansfield/snpost/lib/units"
)

// Config holds everything the merge needs to know about the files it reads
// and the table it writes. It isn't modified after a merge starts.
type Config struct {
	Units units.Units
	// Separator separates fields in both the inputs and the output.
	Separator string
	// Missing is written in place of values that no source supplied.
	Missing string
	// ProgressEvery is the number of IDs between progress messages. Zero
	// turns progress messages off.
	ProgressEvery int64
	// Column names in the headers of early and initial sources.
	TempColumn, DensityColumn, YeColumn string
	// AbundanceColumn is the index of the abundance in burn_query lines.
	AbundanceColumn int
	// SpecialPattern marks special-alignment sources: any file whose name
	// contains it may renumber its particles. Empty means no file is special.
	SpecialPattern string
	// Logger receives warnings and progress messages. The standard logger is
	// used if nil.
	Logger *log.Logger
}

// DefaultConfig returns the Config used by the postprocessing pipeline.
func DefaultConfig() Config {
	return Config{
		Units:           units.SNSPH,
		Separator:       ", ",
		Missing:         "nan",
		ProgressEvery:   50 * 1000,
		TempColumn:      "Temp",
		DensityColumn:   "rho",
		YeColumn:        "Y_e",
		AbundanceColumn: 3,
		SpecialPattern:  "r3g_1M_cco2_sph.",
	}
}

// Validate returns an error if the Config can't be used for a merge.
func (c *Config) Validate() error {
	if c.Separator == "" {
		return fmt.Errorf("The merge separator is empty.")
	} else if c.Missing == "" {
		return fmt.Errorf("The merge missing-value token is empty.")
	} else if c.ProgressEvery < 0 {
		return fmt.Errorf("ProgressEvery is %d, but must be non-negative.",
			c.ProgressEvery)
	} else if c.AbundanceColumn < 1 {
		return fmt.Errorf("AbundanceColumn is %d, but column 0 is the ID.",
			c.AbundanceColumn)
	} else if c.TempColumn == "" || c.DensityColumn == "" || c.YeColumn == "" {
		return fmt.Errorf("The Temp, density, and Y_e column names must " +
			"all be set.")
	}
	return c.Units.Validate()
}

func (c *Config) logger() *log.Logger {
	if c.Logger == nil {
		return log.Default()
	}
	return c.Logger
}

// IsSpecial returns true if fname is a special-alignment source.
func (c *Config) IsSpecial(fname string) bool {
	return c.SpecialPattern != "" && strings.Contains(fname, c.SpecialPattern)
}

func (c *Config) textConfig(fname string) catio.TextConfig {
	return catio.TextConfig{
		Separator:        c.Separator,
		SpecialAlignment: c.IsSpecial(fname),
		MaxLineSize:      catio.DefaultConfig.MaxLineSize,
		Warnf:            c.logger().Printf,
	}
}

// Target is one element or isotope and the burn_query outfiles whose
// abundances are summed to get its total.
type Target struct {
	Name  string
	Files []string
}

// Layout gives the files for each role in a merge. Initial may be empty, in
// which case every Y_e is missing.
type Layout struct {
	Terminal string
	Initial  string
	Early    []string
	Targets  []Target
}

// TargetSources is an open Target.
type TargetSources struct {
	Name    string
	Readers []*catio.Reader
}

// Sources is an open Layout. Initial is nil if the Layout had no initial
// file.
type Sources struct {
	Terminal *catio.Reader
	Initial  *catio.Reader
	Early    []*catio.Reader
	Targets  []TargetSources
}

// OpenSources opens every file in layout. Files with neither a header nor
// any particles are logged and treated as empty. If any file can't be opened,
// every file opened before it is closed.
func OpenSources(layout Layout, config Config) (*Sources, error) {
	src := &Sources{}
	open := func(fname string) (*catio.Reader, error) {
		r, err := catio.Open(fname, config.textConfig(fname))
		var ferr *catio.FormatError
		if errors.As(err, &ferr) {
			config.logger().Printf("Warning: %s", err.Error())
			err = nil
		}
		if err != nil {
			return nil, err
		}
		return r, nil
	}

	var err error
	if src.Terminal, err = open(layout.Terminal); err != nil {
		src.Close()
		return nil, err
	}

	if layout.Initial != "" {
		if src.Initial, err = open(layout.Initial); err != nil {
			src.Close()
			return nil, err
		}
	}

	for _, fname := range layout.Early {
		r, err := open(fname)
		if err != nil {
			src.Close()
			return nil, err
		}
		src.Early = append(src.Early, r)
	}

	for _, target := range layout.Targets {
		if len(target.Files) == 0 {
			src.Close()
			return nil, fmt.Errorf("No query files for abundance target '%s'.",
				target.Name)
		}
		ts := TargetSources{Name: target.Name}
		// Appended before filling so a failure below closes what's open.
		src.Targets = append(src.Targets, ts)
		last := &src.Targets[len(src.Targets)-1]
		for _, fname := range target.Files {
			r, err := open(fname)
			if err != nil {
				src.Close()
				return nil, err
			}
			last.Readers = append(last.Readers, r)
		}
	}

	return src, nil
}

// All returns every open Reader.
func (src *Sources) All() []*catio.Reader {
	out := []*catio.Reader{}
	if src.Terminal != nil {
		out = append(out, src.Terminal)
	}
	if src.Initial != nil {
		out = append(out, src.Initial)
	}
	out = append(out, src.Early...)
	for _, t := range src.Targets {
		out = append(out, t.Readers...)
	}
	return out
}

// Close closes every source and returns the first error encountered.
// It may be called more than once.
func (src *Sources) Close() error {
	var first error
	for _, r := range src.All() {
		if err := r.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Files merges the files in layout and writes the table to outName and the
// column names, one per line, to columnsName. The output is compressed if
// outName ends in compress.Ext.
func Files(
	layout Layout, config Config, outName, columnsName string,
) (Summary, error) {
	if err := config.Validate(); err != nil {
		return Summary{}, err
	}

	src, err := OpenSources(layout, config)
	if err != nil {
		return Summary{}, err
	}
	defer src.Close()

	al, err := NewAligner(src, config)
	if err != nil {
		return Summary{}, err
	}

	cols, err := compress.Create(columnsName)
	if err != nil {
		return Summary{}, err
	}
	if err := WriteColumns(cols, al.Header()); err != nil {
		cols.Close()
		return Summary{}, err
	}
	if err := cols.Close(); err != nil {
		return Summary{}, err
	}

	out, err := compress.Create(outName)
	if err != nil {
		return Summary{}, err
	}
	sum, err := al.Run(out)
	if err != nil {
		out.Close()
		return sum, err
	}
	return sum, out.Close()
}
