package lib

/* check.go contains the core functions of snpost's "check" mode. */

import (
	"fmt"
	"log"
	"os/exec"

	"github.com/phil-mansfield/snpost/lib/isotope"
	"github.com/phil-mansfield/snpost/lib/simdir"
	"github.com/phil-mansfield/snpost/lib/snapio"
)

// Check runs the snpost "check" command on the provided Args. This function
// will either crash upon encountering errors or will print warnings,
// depending on strictness. If Check completes, it returns true if all tests
// passed and false otherwise.
func Check(args *Args, strictness CheckStrictness) bool {
	errs := CheckErrors(args)
	for _, err := range errs {
		if strictness == CrashOnError {
			ExternalErrorf("%s", err.Error())
		}
		log.Printf("Warning: %s", err.Error())
	}
	return len(errs) == 0
}

// CheckErrors returns every problem with args that can be found without
// running anything: unreadable isotope lists, unknown isotopes, missing
// executables, and an incomplete simulation directory, if one was given.
func CheckErrors(args *Args) []error {
	errs := []error{}

	isotopes, err := isotope.ReadList(args.Paths.Isotopes)
	if err != nil {
		errs = append(errs, fmt.Errorf("Could not read the isotope list: %s",
			err.Error()))
	}
	for _, iso := range isotopes {
		if _, _, err := isotope.NNNZ(iso); err != nil {
			errs = append(errs, err)
		}
	}

	targets, err := isotope.ReadList(args.Paths.Abundances)
	if err != nil {
		errs = append(errs, fmt.Errorf("Could not read the abundance "+
			"list: %s", err.Error()))
	}
	for _, target := range targets {
		if isotope.IsElement(target) {
			continue
		}
		if _, _, err := isotope.NNNZ(target); err != nil {
			errs = append(errs, err)
		}
	}

	for _, exe := range args.executables() {
		if _, err := exec.LookPath(*exe); err != nil {
			errs = append(errs, fmt.Errorf("Executable %s can't be run: %s",
				*exe, err.Error()))
		}
	}

	if len(args.Positional) > 0 {
		errs = append(errs, checkSimulation(args, args.Positional[0])...)
	}

	return errs
}

func checkSimulation(args *Args, head string) []error {
	paths, err := simdir.Find(head)
	if err != nil {
		return []error{err}
	}

	errs := []error{}
	if paths.HDF5 == "" {
		errs = append(errs, fmt.Errorf("Failed to find the HDF5 directory "+
			"of %s (%d possibilities).", paths.Name(),
			len(paths.HDF5Candidates)))
	}
	if paths.SDF == "" {
		errs = append(errs, fmt.Errorf("Failed to find the SDF directory "+
			"of %s (%d possibilities).", paths.Name(),
			len(paths.SDFCandidates)))
		return errs
	}

	snaps, err := snapio.List(paths.SDF, args.Skip)
	if err != nil {
		return append(errs, err)
	}
	if _, err := snapio.Select(snaps, snapio.Early, args.TposMax); err != nil {
		errs = append(errs, err)
	}
	return errs
}
