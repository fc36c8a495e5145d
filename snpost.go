package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/phil-mansfield/snpost/lib"
	"github.com/phil-mansfield/snpost/lib/query"
)

func main() {
	// Parse arguements.
	mode, configFile, positional, overrides, err :=
		lib.ParseCommandLine(os.Args[1:])
	if err != nil {
		lib.ExternalErrorf("%s", err.Error())
	}
	rawArgs, err := lib.ParseConfigFile(configFile)
	if err != nil {
		lib.ExternalErrorf("%s", err.Error())
	}
	if err := rawArgs.Overwrite(overrides); err != nil {
		lib.ExternalErrorf("%s", err.Error())
	}

	// Do processing that doesn't need external validation.
	args, err := rawArgs.Process(configFile, positional)
	if err != nil {
		lib.ExternalErrorf("%s", err.Error())
	}

	// Run the chosen mode.
	switch mode {
	case lib.HelpMode:
		lib.PrintHelp(os.Stdout)
	case lib.CheckMode:
		Check(args)
	case lib.PreprocessMode:
		Preprocess(args)
	case lib.SubmitMode:
		Submit(args)
	case lib.PostprocessMode:
		Postprocess(args)
	case lib.MergeMode:
		Merge(args)
	case lib.CleanupMode:
		Cleanup(args)
	case lib.QueryMode:
		Query(args)
	case lib.StatsMode:
		Stats(args)
	default:
		lib.InternalErrorf("Mode '%s' has no handler.", mode)
	}
}

// Check runs snpost's "check" mode which tests for errors in the
// configuration arguments and, if given, the simulation directory.
func Check(args *lib.Args) {
	ok := lib.Check(args, lib.WarnOnError)
	if ok {
		fmt.Println("No errors detected.")
	}
}

// pipeline opens the simulation directory given on the command line.
func pipeline(args *lib.Args, mode lib.Mode) *lib.Pipeline {
	if len(args.Positional) != 1 {
		lib.ExternalErrorf("Mode '%s' takes exactly one simulation "+
			"directory after the config file, but %d arguments were given.",
			mode, len(args.Positional))
	}
	p, err := lib.NewPipeline(args, args.Positional[0])
	if err != nil {
		lib.ExternalErrorf("%s", err.Error())
	}
	return p
}

// Preprocess runs snpost's "preprocess" mode, which writes every sbatch
// script for a simulation and submits them.
func Preprocess(args *lib.Args) {
	p := pipeline(args, lib.PreprocessMode)
	if _, err := p.Preprocess(); err != nil {
		lib.ExternalErrorf("%s", err.Error())
	}
	submit(p, true)
	fmt.Println("\nAll done!")
}

// Submit runs snpost's "submit" mode, which submits every script that
// hasn't been submitted successfully yet.
func Submit(args *lib.Args) {
	submit(pipeline(args, lib.SubmitMode), false)
}

func submit(p *lib.Pipeline, resubmit bool) {
	n, failed, err := p.Submit(resubmit)
	if err != nil {
		lib.ExternalErrorf("%s", err.Error())
	}
	fmt.Printf("Submitted %d scripts, %d failed.\n", n, failed)
	if failed > 0 {
		fmt.Println("Run 'snpost submit' to retry the failed scripts.")
	}
}

// Postprocess runs snpost's "postprocess" mode, which turns the output of
// the preprocessing jobs into a plotting file.
func Postprocess(args *lib.Args) {
	p := pipeline(args, lib.PostprocessMode)
	if _, err := p.Postprocess(); err != nil {
		exitOnAbort(err)
		lib.ExternalErrorf("%s", err.Error())
	}
	fmt.Println("\nFinished!")
}

// Merge runs only the final step of postprocessing.
func Merge(args *lib.Args) {
	p := pipeline(args, lib.MergeMode)
	if _, err := p.Merge(); err != nil {
		lib.ExternalErrorf("%s", err.Error())
	}
}

// Cleanup runs snpost's "cleanup" mode, which removes empty and failed
// slurm output files.
func Cleanup(args *lib.Args) {
	p := pipeline(args, lib.CleanupMode)
	if _, err := p.Cleanup(); err != nil {
		lib.ExternalErrorf("%s", err.Error())
	}
}

func exitOnAbort(err error) {
	var abort *lib.AbortError
	if errors.As(err, &abort) {
		fmt.Println(abort.Error())
		os.Exit(0)
	}
}

// Query runs snpost's "query" mode, which runs burn_query for a single
// isotope. This is what the ISO sbatch scripts call.
func Query(args *lib.Args) {
	if len(args.Positional) < 3 {
		lib.ExternalErrorf("Mode 'query' takes an isotope, an abundance, " +
			"an outfile, and a list of HDF5 files after the config file.")
	}
	abundance, err := strconv.Atoi(args.Positional[1])
	if err != nil {
		lib.ExternalErrorf("Abundance '%s' isn't an integer.",
			args.Positional[1])
	}

	req := &query.Request{
		Isotope:   args.Positional[0],
		Abundance: abundance,
		Outfile:   args.Positional[2],
		HDF5:      args.Positional[3:],
	}
	if err := req.Run(args.Paths.BurnQuery, os.Stdout, os.Stderr); err != nil {
		lib.ExternalErrorf("%s", err.Error())
	}
}

// Stats runs snpost's "stats" mode, which prints abundance ratio statistics
// for a plotting file.
func Stats(args *lib.Args) {
	if len(args.Positional) != 1 {
		lib.ExternalErrorf("Mode 'stats' takes exactly one plotting file " +
			"after the config file.")
	}
	if err := lib.Analyze(args, args.Positional[0], os.Stdout); err != nil {
		lib.ExternalErrorf("%s", err.Error())
	}
}
