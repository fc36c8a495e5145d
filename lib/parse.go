package lib

/* parse.go contains functions for reading and processing config files and
command line arguments. */

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/snpost/lib/format"
	"github.com/phil-mansfield/snpost/lib/merge"
	"github.com/phil-mansfield/snpost/lib/slurm"
	"github.com/phil-mansfield/snpost/lib/stats"
	"github.com/phil-mansfield/snpost/lib/units"
)

// PathsSection lists the input lists and the executables that the pipeline
// calls out to. Relative executable names are joined onto Executables.
type PathsSection struct {
	Isotopes, Abundances string

	Executables string

	Entropy, CCO2Reader     string
	Unburned, CCO2Unburned  string
	PIDList, ExtractYields  string
	UpdateYields, SortQuery string
	BurnQuery, Snpost       string
}

type QuerySection struct {
	FmassCut, FmassCutLow int
	// LowCutIsotopes is a space-separated list of isotopes which use
	// FmassCutLow.
	LowCutIsotopes string
}

type SDFSection struct {
	TposMax float64
	// Skip is a sequence-format list of SDF extensions to ignore.
	Skip string
	// OldReaderSims is a space-separated list of simulations that use the
	// Entropy and Unburned executables instead of the cco2 versions.
	OldReaderSims string
}

type SlurmSection struct {
	Partition                             string
	Cores                                 int
	MailType, MailUser                    string
	ISOWalltime, SDFWalltime, PIDWalltime string
	Sbatch                                string
}

type UnitsSection struct {
	Mass, Length, Time float64
}

type MergeSection struct {
	Separator, Missing string
	ProgressEvery      int

	TempColumn, DensityColumn, YeColumn string
	AbundanceColumn                     int

	SpecialPattern string
	// Compress writes the plotting file with zstd.
	Compress bool
}

type StatsSection struct {
	// Numerator and Denominator are space-separated column names.
	Numerator, Denominator string

	Bins     int
	Min, Max float64

	LogBins        int
	LogMin, LogMax float64

	// Windows is a space-separated list of lo:hi intervals in log space.
	Windows string

	Plot, LogPlot string
}

type RunSection struct {
	// AssumeYes answers yes to every confirmation prompt.
	AssumeYes bool
}

// RawArgs stores the unprocessed values which the user assigned to each config
// variable.
type RawArgs struct {
	Paths PathsSection
	Query QuerySection
	SDF   SDFSection
	Slurm SlurmSection
	Units UnitsSection
	Merge MergeSection
	Stats StatsSection
	Run   RunSection
}

// DefaultRawArgs returns the values used for any variable which isn't set in
// the config file.
func DefaultRawArgs() *RawArgs {
	mc := merge.DefaultConfig()
	return &RawArgs{
		Paths: PathsSection{
			Isotopes:      "isotopes.txt",
			Abundances:    "abundances.txt",
			Entropy:       "entropy",
			CCO2Reader:    "cco2-SDF-reader",
			Unburned:      "unburned",
			CCO2Unburned:  "cco2-unburned",
			PIDList:       "hdf5_pid_list",
			ExtractYields: "extract_yields.sh",
			UpdateYields:  "update_yields",
			SortQuery:     "sort_query.sh",
			BurnQuery:     "burn_query",
			Snpost:        "snpost",
		},
		Query: QuerySection{
			FmassCut: 6, FmassCutLow: 12, LowCutIsotopes: "40K",
		},
		SDF: SDFSection{
			TposMax: 1.0, OldReaderSims: "50Am g292-j4c jet3b",
		},
		Slurm: SlurmSection{
			Cores:       1,
			MailType:    "END,FAIL",
			ISOWalltime: "0-04:00",
			SDFWalltime: "0-01:00",
			PIDWalltime: "0-03:00",
			Sbatch:      "sbatch",
		},
		Units: UnitsSection{
			Mass:   units.SNSPH.Mass,
			Length: units.SNSPH.Length,
			Time:   units.SNSPH.Time,
		},
		Merge: MergeSection{
			Separator:       mc.Separator,
			Missing:         mc.Missing,
			ProgressEvery:   int(mc.ProgressEvery),
			TempColumn:      mc.TempColumn,
			DensityColumn:   mc.DensityColumn,
			YeColumn:        mc.YeColumn,
			AbundanceColumn: mc.AbundanceColumn,
			SpecialPattern:  mc.SpecialPattern,
		},
		Stats: StatsSection{
			Numerator:   "A_{Fe} A_{56Ni}",
			Denominator: "A_{44Ti}",
			Bins:        100, Min: 1, Max: 1e6,
			LogBins: 90, LogMin: 0, LogMax: 6,
			Windows: "2:3 3.5:4.5",
			Plot:    "histogram.png",
			LogPlot: "log_histogram.png",
		},
	}
}

// Window is a closed interval.
type Window struct {
	Lo, Hi float64
}

// Args stores configuration information. It is a post-processed version of
// RawArgs.
type Args struct {
	ConfigFile string
	// Positional holds the command line arguments which follow the config
	// file, e.g. the simulation directory.
	Positional []string

	Paths PathsSection

	FmassCut, FmassCutLow int
	LowCutIsotopes        map[string]bool

	TposMax       float64
	Skip          format.Set
	OldReaderSims map[string]bool

	// Script holds the sbatch options shared by every script.
	Script                                slurm.Script
	ISOWalltime, SDFWalltime, PIDWalltime string
	Sbatch                                string

	Merge    merge.Config
	Compress bool

	Ratio          stats.Ratio
	Bins, LogBins  int
	Min, Max       float64
	LogMin, LogMax float64
	Windows        []Window
	Plot, LogPlot  string

	AssumeYes bool
}

// ParseCommandLine parses the command line arguments and returns the mode
// snpost is being run in, the name of the config file, the positional
// arguments which follow it, and any variable overrides. Expects that the
// arguments are presented in the order:
// $ snpost <mode> <config file> [args...] [--<Section>.<Var>=<Value> ...]
// The config file is optional in help mode.
func ParseCommandLine(argv []string) (
	mode Mode, configFile string, positional, overrides []string, err error,
) {
	if len(argv) < 1 {
		return 0, "", nil, nil, fmt.Errorf("No mode was given. Run " +
			"'snpost help' to see the list of modes.")
	}
	mode, err = ParseMode(argv[0])
	if err != nil {
		return 0, "", nil, nil, err
	}

	rest := []string{}
	for _, arg := range argv[1:] {
		if strings.HasPrefix(arg, "--") {
			overrides = append(overrides, arg)
		} else {
			rest = append(rest, arg)
		}
	}

	if len(rest) == 0 {
		if mode == HelpMode {
			return mode, "", nil, overrides, nil
		}
		return 0, "", nil, nil, fmt.Errorf("Mode '%s' requires a config "+
			"file.", mode)
	}
	return mode, rest[0], rest[1:], overrides, nil
}

// ParseConfigFile parses arguements from a config file. Variables which the
// file doesn't set keep their default values.
func ParseConfigFile(fileName string) (*RawArgs, error) {
	args := DefaultRawArgs()
	if fileName == "" {
		return args, nil
	}
	if err := gcfg.ReadFileInto(args, fileName); err != nil {
		return nil, fmt.Errorf("Could not parse config file %s: %s",
			fileName, err.Error())
	}
	return args, nil
}

// Overwrite sets the variables named by command line overrides, which have the
// form --<Section>.<Var>=<Value>.
func (args *RawArgs) Overwrite(overrides []string) error {
	for _, over := range overrides {
		text, err := overrideText(over)
		if err != nil {
			return err
		}
		if err := gcfg.ReadStringInto(args, text); err != nil {
			return fmt.Errorf("Could not apply command line argument "+
				"'%s': %s", over, err.Error())
		}
	}
	return nil
}

// overrideText converts an override to the config file text that sets the
// same variable.
func overrideText(over string) (string, error) {
	tok := strings.TrimPrefix(over, "--")
	eq := strings.Index(tok, "=")
	if eq == -1 {
		return "", fmt.Errorf("Command line argument '%s' isn't of the "+
			"form --<Section>.<Var>=<Value>.", over)
	}
	name, value := tok[:eq], tok[eq+1:]

	dot := strings.Index(name, ".")
	if dot <= 0 || dot == len(name)-1 {
		return "", fmt.Errorf("Command line argument '%s' doesn't name a "+
			"config section and variable, e.g. --Merge.Missing=nan.", over)
	}
	section, variable := name[:dot], name[dot+1:]

	return fmt.Sprintf("[%s]\n%s = %s\n", section, variable,
		strconv.Quote(value)), nil
}

// Process converts the raw user input to a format which is more useful for
// internal functions. Very simple validation will be done here, but nothing
// which requires interacting with external files.
func (args *RawArgs) Process(configFile string, positional []string) (*Args, error) {
	out := &Args{
		Positional: positional,
		Paths:      args.Paths,
		AssumeYes:  args.Run.AssumeYes,
	}

	if configFile != "" {
		abs, err := filepath.Abs(configFile)
		if err != nil {
			return nil, err
		}
		out.ConfigFile = abs
	}

	for _, exe := range out.executables() {
		if *exe == "" {
			return nil, fmt.Errorf("An executable in the [paths] section " +
				"was set to an empty string.")
		}
		if args.Paths.Executables != "" && !filepath.IsAbs(*exe) {
			*exe = filepath.Join(args.Paths.Executables, *exe)
		}
	}

	// [query]
	if args.Query.FmassCut <= 0 || args.Query.FmassCutLow <= 0 {
		return nil, fmt.Errorf("FmassCut = %d and FmassCutLow = %d, but "+
			"both must be positive.", args.Query.FmassCut,
			args.Query.FmassCutLow)
	}
	out.FmassCut, out.FmassCutLow = args.Query.FmassCut, args.Query.FmassCutLow
	out.LowCutIsotopes = wordSet(args.Query.LowCutIsotopes)

	// [sdf]
	skip, err := format.ParseSet(args.SDF.Skip)
	if err != nil {
		return nil, fmt.Errorf("Could not parse [sdf] Skip: %s", err.Error())
	}
	out.TposMax, out.Skip = args.SDF.TposMax, skip
	out.OldReaderSims = wordSet(args.SDF.OldReaderSims)

	// [slurm]
	out.Script = slurm.Script{
		Partition: args.Slurm.Partition,
		Cores:     args.Slurm.Cores,
		MailType:  args.Slurm.MailType,
		MailUser:  args.Slurm.MailUser,
	}
	out.ISOWalltime = args.Slurm.ISOWalltime
	out.SDFWalltime = args.Slurm.SDFWalltime
	out.PIDWalltime = args.Slurm.PIDWalltime
	for _, wt := range []string{out.ISOWalltime, out.SDFWalltime, out.PIDWalltime} {
		s := out.Script
		s.Walltime, s.Stdout, s.Stderr = wt, "out", "err"
		s.Commands = []string{"true"}
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}
	out.Sbatch = args.Slurm.Sbatch

	// [units] and [merge]
	out.Merge = merge.Config{
		Units: units.Units{
			Mass: args.Units.Mass, Length: args.Units.Length,
			Time: args.Units.Time,
		},
		Separator:       args.Merge.Separator,
		Missing:         args.Merge.Missing,
		ProgressEvery:   int64(args.Merge.ProgressEvery),
		TempColumn:      args.Merge.TempColumn,
		DensityColumn:   args.Merge.DensityColumn,
		YeColumn:        args.Merge.YeColumn,
		AbundanceColumn: args.Merge.AbundanceColumn,
		SpecialPattern:  args.Merge.SpecialPattern,
	}
	if err := out.Merge.Validate(); err != nil {
		return nil, err
	}
	out.Compress = args.Merge.Compress

	// [stats]
	out.Ratio = stats.Ratio{
		Numerator:   strings.Fields(args.Stats.Numerator),
		Denominator: strings.Fields(args.Stats.Denominator),
	}
	if args.Stats.Bins <= 0 || args.Stats.LogBins <= 0 {
		return nil, fmt.Errorf("Bins = %d and LogBins = %d, but both must "+
			"be positive.", args.Stats.Bins, args.Stats.LogBins)
	} else if args.Stats.Min >= args.Stats.Max {
		return nil, fmt.Errorf("The histogram range [%g, %g) is empty.",
			args.Stats.Min, args.Stats.Max)
	} else if args.Stats.LogMin >= args.Stats.LogMax {
		return nil, fmt.Errorf("The log histogram range [%g, %g) is empty.",
			args.Stats.LogMin, args.Stats.LogMax)
	}
	out.Bins, out.Min, out.Max = args.Stats.Bins, args.Stats.Min, args.Stats.Max
	out.LogBins, out.LogMin = args.Stats.LogBins, args.Stats.LogMin
	out.LogMax = args.Stats.LogMax
	out.Windows, err = parseWindows(args.Stats.Windows)
	if err != nil {
		return nil, err
	}
	out.Plot, out.LogPlot = args.Stats.Plot, args.Stats.LogPlot

	return out, nil
}

// executables returns pointers to every executable path.
func (args *Args) executables() []*string {
	p := &args.Paths
	return []*string{
		&p.Entropy, &p.CCO2Reader, &p.Unburned, &p.CCO2Unburned,
		&p.PIDList, &p.ExtractYields, &p.UpdateYields, &p.SortQuery,
		&p.BurnQuery, &p.Snpost,
	}
}

func wordSet(s string) map[string]bool {
	set := map[string]bool{}
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}

func parseWindows(s string) ([]Window, error) {
	windows := []Window{}
	for _, tok := range strings.Fields(s) {
		bounds := strings.Split(tok, ":")
		if len(bounds) != 2 {
			return nil, fmt.Errorf("Window '%s' isn't of the form lo:hi.", tok)
		}
		lo, err1 := strconv.ParseFloat(bounds[0], 64)
		hi, err2 := strconv.ParseFloat(bounds[1], 64)
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("Window '%s' has non-numeric bounds.", tok)
		} else if lo > hi {
			return nil, fmt.Errorf("Window '%s' has lo > hi.", tok)
		}
		windows = append(windows, Window{lo, hi})
	}
	return windows, nil
}

// FmassCutFor returns the abundance threshold used when querying iso.
func (args *Args) FmassCutFor(iso string) int {
	if args.LowCutIsotopes[iso] {
		return args.FmassCutLow
	}
	return args.FmassCut
}

// Readers returns the SDF reader and unburned executables used for the named
// simulation.
func (args *Args) Readers(sim string) (reader, unburned string) {
	if args.OldReaderSims[sim] {
		return args.Paths.Entropy, args.Paths.Unburned
	}
	return args.Paths.CCO2Reader, args.Paths.CCO2Unburned
}
