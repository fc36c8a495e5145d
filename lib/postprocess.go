package lib

/* postprocess.go contains the core functions of snpost's "postprocess" and
"merge" modes. */

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/phil-mansfield/snpost/lib/compress"
	"github.com/phil-mansfield/snpost/lib/isotope"
	"github.com/phil-mansfield/snpost/lib/merge"
	"github.com/phil-mansfield/snpost/lib/simdir"
	"github.com/phil-mansfield/snpost/lib/snapio"
)

// ColumnsName is the name of the file listing the plotting file's columns.
const ColumnsName = "columns"

// YieldsName returns the name of the simulation's total yields file.
func (p *Pipeline) YieldsName() string {
	return filepath.Join(p.dir(simdir.Analysis), p.Paths.Name()+"_yields.out")
}

// PlottingName returns the name of the merged plotting file.
func (p *Pipeline) PlottingName() string {
	fname := filepath.Join(p.dir(simdir.Analysis), p.Paths.Name()+"_plotting.out")
	if p.Args.Compress {
		fname += compress.Ext
	}
	return fname
}

// Postprocess runs every postprocessing step on a preprocessed simulation
// whose jobs have finished. The user is asked before continuing past each
// external program.
func (p *Pipeline) Postprocess() (merge.Summary, error) {
	p.reportPaths()
	if err := p.Paths.CheckDirs(simdir.PreDirectories); err != nil {
		return merge.Summary{}, err
	}
	if err := p.makeDirs(simdir.PostDirectories); err != nil {
		return merge.Summary{}, err
	}

	if _, err := p.Cleanup(); err != nil {
		return merge.Summary{}, err
	}
	if err := p.ExtractYields(); err != nil {
		return merge.Summary{}, err
	}
	if err := p.UpdateYields(); err != nil {
		return merge.Summary{}, err
	}
	if err := p.SortQueries(); err != nil {
		return merge.Summary{}, err
	}
	return p.Merge()
}

// ExtractYields runs extract_yields over the slurm output to create the
// simulation's total yields file.
func (p *Pipeline) ExtractYields() error {
	p.printf("\nExtracting total simulation yields\n")
	err := p.Runner.Run(p.Args.Paths.ExtractYields,
		p.dir(simdir.Sbatch), p.YieldsName())
	if err != nil {
		return err
	}
	return p.Asker.Continue("extracting yields")
}

// UpdateYields adds the unburned yields to the total yields file. It's
// skipped if the simulation doesn't have both HDF5 and SDF files.
func (p *Pipeline) UpdateYields() error {
	if p.Paths.SDF == "" || p.Paths.HDF5 == "" {
		return nil
	}
	p.printf("\nUpdating total yields with unburned yields data\n")

	unburned, err := filepath.Glob(filepath.Join(p.Paths.SDF, "*.unburned.out"))
	if err != nil {
		return err
	} else if len(unburned) != 1 {
		return fmt.Errorf("Matched %d .unburned.out files in %s, but there "+
			"must be exactly one.", len(unburned), p.Paths.SDF)
	}
	if !fileExists(p.PIDListName()) {
		return fmt.Errorf("The particle ID list %s does not exist. Did "+
			"the PID job finish?", p.PIDListName())
	}

	err = p.Runner.Run(p.Args.Paths.UpdateYields,
		p.YieldsName(), unburned[0], p.PIDListName())
	if err != nil {
		return err
	}
	return p.Asker.Continue("updating yields")
}

// SortQueries sorts every burn_query outfile into the sorted queries
// directory.
func (p *Pipeline) SortQueries() error {
	p.printf("\nSorting all isotope query files\n")

	queries, sorted := p.dir(simdir.Queries), p.dir(simdir.SortedQueries)
	entries, err := os.ReadDir(queries)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		err := p.Runner.Run(p.Args.Paths.SortQuery,
			filepath.Join(queries, e.Name()), filepath.Join(sorted, e.Name()))
		if err != nil {
			return err
		}
	}
	return p.Asker.Continue("sorting queries")
}

// Layout returns the files merged into the plotting file: the entropy
// outputs of the first, last, and early snapshots and the sorted query files
// of every abundance target.
func (p *Pipeline) Layout(targets []string) (merge.Layout, error) {
	if p.Paths.SDF == "" {
		return merge.Layout{}, fmt.Errorf("Simulation %s has no SDF "+
			"directory to merge.", p.Paths.Name())
	}
	snaps, err := snapio.List(p.Paths.SDF, p.Args.Skip)
	if err != nil {
		return merge.Layout{}, err
	}

	selections := []snapio.Mode{snapio.First, snapio.Last, snapio.Early}
	paths := make([][]string, len(selections))
	for i, mode := range selections {
		selected, err := snapio.Select(snaps, mode, p.Args.TposMax)
		if err != nil {
			return merge.Layout{}, err
		}
		paths[i] = snapio.Paths(p.Paths.SDF, selected, true)
	}

	layout := merge.Layout{
		Initial: paths[0][0], Terminal: paths[1][0], Early: paths[2],
	}
	sorted := p.dir(simdir.SortedQueries)
	for _, target := range targets {
		files, err := isotope.QueryFiles(sorted, target)
		if err != nil {
			return merge.Layout{}, err
		}
		layout.Targets = append(layout.Targets, merge.Target{Name: target, Files: files})
	}
	return layout, nil
}

// Merge writes the plotting file and the columns file to the analysis
// directory.
func (p *Pipeline) Merge() (merge.Summary, error) {
	if err := p.Paths.CheckDirs(simdir.PostDirectories); err != nil {
		return merge.Summary{}, err
	}
	p.printf("\nWriting particle plotting file\n")

	targets, err := isotope.ReadList(p.Args.Paths.Abundances)
	if err != nil {
		return merge.Summary{}, err
	}
	layout, err := p.Layout(targets)
	if err != nil {
		return merge.Summary{}, err
	}

	config := p.Args.Merge
	config.Logger = p.Logger
	columns := filepath.Join(p.dir(simdir.Analysis), ColumnsName)
	sum, err := merge.Files(layout, config, p.PlottingName(), columns)
	if err != nil {
		return sum, err
	}

	p.printf("Wrote %d particles to %s (%d missing IDs, %d missing "+
		"peaks, %d missing Y_e)\n", sum.Rows, p.PlottingName(),
		sum.MissingIDs, sum.MissingPeaks, sum.MissingYe)
	return sum, nil
}
