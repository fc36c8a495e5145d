package lib

import (
	"fmt"
	"io"
)

const helpText = `snpost %s: supernova nucleosynthesis post-processing.

Usage:
    $ snpost <mode> <config file> [args...] [--<Section>.<Var>=<Value> ...]

Modes:
    help                     Print this message.
    check       [sim dir]    Look for problems in the config file and the
                             simulation directory.
    preprocess  <sim dir>    Write the burn_query, SDF reader, and
                             hdf5_pid_list sbatch scripts and submit them.
    submit      <sim dir>    Submit every script which hasn't been submitted
                             successfully yet.
    postprocess <sim dir>    Clean up slurm output, extract and update the
                             yields, sort the queries, and merge everything
                             into analysis/<sim>_plotting.out.
    merge       <sim dir>    Only write the plotting file.
    cleanup     <sim dir>    Only delete empty and failed slurm output.
    query <isotope> <abundance> <outfile> <hdf5 files...>
                             Run burn_query for one isotope.
    stats <plotting file>    Print statistics and histograms of an abundance
                             ratio.

Any config variable can be set on the command line, e.g. --Merge.Missing=nan.
An example config file with every variable set to its default:

[paths]
Isotopes = isotopes.txt
Abundances = abundances.txt
# Executables is joined onto every relative executable name.
Executables =
Entropy = entropy
CCO2Reader = cco2-SDF-reader
Unburned = unburned
CCO2Unburned = cco2-unburned
PIDList = hdf5_pid_list
ExtractYields = extract_yields.sh
UpdateYields = update_yields
SortQuery = sort_query.sh
BurnQuery = burn_query
Snpost = snpost

[query]
FmassCut = 6
FmassCutLow = 12
LowCutIsotopes = 40K

[sdf]
TposMax = 1.0
# Skip uses the sequence format, e.g. "0..10 + 100 - 5".
Skip =
OldReaderSims = 50Am g292-j4c jet3b

[slurm]
Partition =
Cores = 1
MailType = END,FAIL
MailUser =
ISOWalltime = 0-04:00
SDFWalltime = 0-01:00
PIDWalltime = 0-03:00
Sbatch = sbatch

[units]
Mass = 1.9889e27
Length = 6.955e10
Time = 100

[merge]
Separator = ", "
Missing = nan
ProgressEvery = 50000
TempColumn = Temp
DensityColumn = rho
YeColumn = Y_e
AbundanceColumn = 3
SpecialPattern = r3g_1M_cco2_sph.
Compress = false

[stats]
Numerator = A_{Fe} A_{56Ni}
Denominator = A_{44Ti}
Bins = 100
Min = 1
Max = 1e6
LogBins = 90
LogMin = 0
LogMax = 6
Windows = 2:3 3.5:4.5
Plot = histogram.png
LogPlot = log_histogram.png

[run]
AssumeYes = false
`

// PrintHelp prints the usage message and an example config file.
func PrintHelp(w io.Writer) {
	fmt.Fprintf(w, helpText, Version)
}
