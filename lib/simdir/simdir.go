/*package simdir locates the data directories of a single simulation and
manages the bookkeeping directories that pre- and postprocessing add to it.

A simulation's head directory contains one subdirectory of HDF5 files (the
burn_query inputs) and one subdirectory of SDF snapshots (files with purely
numeric extensions). Processing adds the directories named in PreDirectories
and PostDirectories alongside them.
*/
package simdir

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/phil-mansfield/snpost/lib/snapio"
)

// Names of bookkeeping subdirectories.
const (
	Sbatch        = "sbatch"
	Queries       = "queries"
	Analysis      = "analysis"
	SortedQueries = "sorted_queries"
)

var (
	// PreDirectories are created by preprocessing.
	PreDirectories = []string{Sbatch, Queries}
	// PostDirectories are created by postprocessing.
	PostDirectories = []string{Analysis, SortedQueries}
)

// Paths holds the absolute paths of a simulation's directories. HDF5 and SDF
// are empty if the corresponding directory couldn't be identified
// unambiguously; the candidates that were found are kept for reporting.
type Paths struct {
	Head      string
	HDF5, SDF string

	HDF5Candidates, SDFCandidates []string

	dirs map[string]string
}

// Find searches the subdirectories of head for the HDF5 and SDF directories.
// A missing or ambiguous directory is not an error: the field is left empty.
func Find(head string) (*Paths, error) {
	abs, err := filepath.Abs(head)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, err
	}

	p := &Paths{Head: abs, dirs: map[string]string{}}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		sub := filepath.Join(abs, e.Name())
		hasHDF5, hasSDF, err := scan(sub)
		if err != nil {
			return nil, err
		}
		if hasHDF5 {
			p.HDF5Candidates = append(p.HDF5Candidates, sub)
		}
		if hasSDF {
			p.SDFCandidates = append(p.SDFCandidates, sub)
		}
	}

	if len(p.HDF5Candidates) == 1 {
		p.HDF5 = p.HDF5Candidates[0]
	}
	if len(p.SDFCandidates) == 1 {
		p.SDF = p.SDFCandidates[0]
	}
	return p, nil
}

// scan reports whether dir contains HDF5 files or SDF files.
func scan(dir string) (hasHDF5, hasSDF bool, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, false, err
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".h5" {
			hasHDF5 = true
		}
		if _, ok := snapio.Ext(e.Name()); ok {
			hasSDF = true
		}
	}
	return hasHDF5, hasSDF, nil
}

// Name returns the simulation's name, the base name of its head directory.
func (p *Paths) Name() string { return filepath.Base(p.Head) }

// Report describes the directories which were found, one line per
// directory.
func (p *Paths) Report() []string {
	lines := []string{fmt.Sprintf("Searching for paths in directory: %s", p.Head)}
	if p.HDF5 != "" {
		lines = append(lines, "HDF5 directory: "+p.HDF5)
	} else {
		lines = append(lines, fmt.Sprintf(
			"Failed to find HDF5 directory (%d possibilities)",
			len(p.HDF5Candidates)))
	}
	if p.SDF != "" {
		lines = append(lines, "SDF directory: "+p.SDF)
	} else {
		lines = append(lines, fmt.Sprintf(
			"Failed to find SDF directory (%d possibilities)",
			len(p.SDFCandidates)))
	}
	return lines
}

// Dir returns the path of a bookkeeping directory added by MakeDirs or
// CheckDirs.
func (p *Paths) Dir(name string) (string, error) {
	dir, ok := p.dirs[name]
	if !ok {
		return "", fmt.Errorf("The '%s' directory of simulation %s hasn't "+
			"been created or checked.", name, p.Name())
	}
	return dir, nil
}

// MakeDirs creates each named subdirectory of the head directory that doesn't
// exist yet and records all of them.
func (p *Paths) MakeDirs(names []string) (made, found int, err error) {
	for _, name := range names {
		dir := filepath.Join(p.Head, name)
		if _, err := os.Stat(dir); err == nil {
			found++
		} else if os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return made, found, err
			}
			made++
		} else {
			return made, found, err
		}
		p.setDir(name, dir)
	}
	return made, found, nil
}

// CheckDirs records each named subdirectory of the head directory and returns
// an error if any of them don't exist.
func (p *Paths) CheckDirs(names []string) error {
	for _, name := range names {
		dir := filepath.Join(p.Head, name)
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			return fmt.Errorf("Directory '%s' of simulation %s does not "+
				"exist. Has it been preprocessed?", name, p.Name())
		}
		p.setDir(name, dir)
	}
	return nil
}

func (p *Paths) setDir(name, dir string) {
	if p.dirs == nil {
		p.dirs = map[string]string{}
	}
	p.dirs[name] = dir
}

// Dirs returns the names of every recorded bookkeeping directory.
func (p *Paths) Dirs() []string {
	names := make([]string, 0, len(p.dirs))
	for name := range p.dirs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
