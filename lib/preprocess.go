package lib

/* preprocess.go contains the core functions of snpost's "preprocess" and
"submit" modes. */

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/phil-mansfield/snpost/lib/isotope"
	"github.com/phil-mansfield/snpost/lib/simdir"
	"github.com/phil-mansfield/snpost/lib/slurm"
	"github.com/phil-mansfield/snpost/lib/snapio"
)

// ScriptKind is the kind of job an sbatch script runs. Scripts of each kind
// are named with the kind as a prefix.
type ScriptKind string

const (
	ISOScript ScriptKind = "ISO"
	SDFScript ScriptKind = "SDF"
	PIDScript ScriptKind = "PID"
)

var scriptKinds = []ScriptKind{ISOScript, SDFScript, PIDScript}

// Question returns the question asked before submitting scripts of this
// kind.
func (k ScriptKind) Question() string {
	switch k {
	case ISOScript:
		return "Proceed with submitting burn_query scripts?"
	case SDFScript:
		return "Proceed with submitting entropy scripts?"
	case PIDScript:
		return "Proceed with submitting hdf5_pid_list script?"
	}
	return fmt.Sprintf("Proceed with submitting %s scripts?", string(k))
}

// KindOf returns the kind of the named script.
func KindOf(script string) (ScriptKind, bool) {
	base := filepath.Base(script)
	for _, k := range scriptKinds {
		if strings.HasPrefix(base, string(k)) && filepath.Ext(base) == ".sh" {
			return k, true
		}
	}
	return "", false
}

// Preprocess creates the preprocessing directories and writes every sbatch
// script for the simulation. It returns the scripts that were written.
func (p *Pipeline) Preprocess() ([]string, error) {
	p.reportPaths()
	if err := p.makeDirs(simdir.PreDirectories); err != nil {
		return nil, err
	}

	scripts := []string{}
	if p.Paths.HDF5 != "" {
		isotopes, err := isotope.ReadList(p.Args.Paths.Isotopes)
		if err != nil {
			return nil, err
		}
		iso, err := p.WriteISOScripts(isotopes)
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, iso...)
	}

	if p.Paths.SDF != "" {
		sdf, err := p.WriteSDFScripts()
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, sdf...)
	}

	if p.Paths.SDF != "" && p.Paths.HDF5 != "" {
		pid, err := p.WritePIDScript()
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, pid)
	}

	return scripts, nil
}

// script returns an sbatch script with the shared options which writes its
// output to the sbatch directory.
func (p *Pipeline) script(tag, walltime string, commands ...string) slurm.Script {
	sbatchDir := p.dir(simdir.Sbatch)
	s := p.Args.Script
	s.Walltime = walltime
	s.Stdout = filepath.Join(sbatchDir, "slurm.%j."+tag+".out")
	s.Stderr = filepath.Join(sbatchDir, "slurm.%j."+tag+".err")
	s.Commands = commands
	return s
}

func (p *Pipeline) writeScript(tag string, s slurm.Script) (string, error) {
	fname := filepath.Join(p.dir(simdir.Sbatch), tag+".sh")
	return fname, s.WriteFile(fname)
}

// WriteISOScripts writes one script per isotope which runs snpost's query
// mode on every HDF5 file.
func (p *Pipeline) WriteISOScripts(isotopes []string) ([]string, error) {
	p.printf("\nGenerating sbatch scripts for burn_query\n")

	hdf5 := filepath.Join(p.Paths.HDF5, "*.h5")
	scripts := []string{}
	for _, iso := range isotopes {
		if _, _, err := isotope.NNNZ(iso); err != nil {
			return nil, err
		}
		pad := isotope.Pad(iso)
		outfile := filepath.Join(p.dir(simdir.Queries), pad+".out")

		command := strings.Join([]string{
			p.Args.Paths.Snpost, QueryMode.String(), p.Args.ConfigFile,
			iso, fmt.Sprint(p.Args.FmassCutFor(iso)), outfile, hdf5,
		}, " ")

		tag := string(ISOScript) + pad
		fname, err := p.writeScript(tag,
			p.script(tag, p.Args.ISOWalltime, command))
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, fname)
	}
	return scripts, nil
}

// WriteSDFScripts writes one script per selected SDF file which runs the SDF
// reader on it. The script for the final snapshot also extracts the unburned
// yields.
func (p *Pipeline) WriteSDFScripts() ([]string, error) {
	p.printf("\nGenerating sbatch scripts for entropy\n")

	snaps, err := snapio.List(p.Paths.SDF, p.Args.Skip)
	if err != nil {
		return nil, err
	}
	selected, err := snapio.Select(snaps, snapio.All, p.Args.TposMax)
	if err != nil {
		return nil, err
	}
	last := snaps[len(snaps)-1]

	reader, unburned := p.Args.Readers(p.Paths.Name())
	scripts := []string{}
	for _, snap := range selected {
		fname := filepath.Join(p.Paths.SDF, snap.Name)
		commands := []string{reader + " " + fname}
		if snap.Name == last.Name {
			commands = append(commands, unburned+" "+fname)
		}

		tag := string(SDFScript) + strings.TrimPrefix(filepath.Ext(snap.Name), ".")
		script, err := p.writeScript(tag,
			p.script(tag, p.Args.SDFWalltime, commands...))
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, script)
	}
	return scripts, nil
}

// PIDListName returns the name of the particle ID list written by the PID
// script.
func (p *Pipeline) PIDListName() string {
	return filepath.Join(p.Paths.HDF5, p.Paths.Name()+"_pids.out")
}

// WritePIDScript writes the script which lists the particle IDs in the HDF5
// files. Those IDs are needed to update the yields with unburned particles.
func (p *Pipeline) WritePIDScript() (string, error) {
	p.printf("\nGenerating sbatch script for hdf5_pid_list\n")

	command := strings.Join([]string{
		p.Args.Paths.PIDList, "-o", p.PIDListName(),
		filepath.Join(p.Paths.HDF5, "*.h5"),
	}, " ")
	tag := string(PIDScript)
	return p.writeScript(tag, p.script(tag, p.Args.PIDWalltime, command))
}

// Scripts returns every sbatch script in the sbatch directory, sorted by
// name.
func (p *Pipeline) Scripts() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(p.dir(simdir.Sbatch), "*.sh"))
	if err != nil {
		return nil, err
	}
	scripts := []string{}
	for _, fname := range files {
		if _, ok := KindOf(fname); ok {
			scripts = append(scripts, fname)
		}
	}
	sort.Strings(scripts)
	return scripts, nil
}

// Submit submits the simulation's scripts after asking the user for
// permission for each kind of script. If resubmit is false, scripts that
// the job ledger shows were already submitted successfully are skipped.
// Every attempt is recorded in the ledger. It returns the number of scripts
// which were submitted and the number which failed.
func (p *Pipeline) Submit(resubmit bool) (submitted, failed int, err error) {
	if err := p.Paths.CheckDirs(simdir.PreDirectories); err != nil {
		return 0, 0, err
	}
	p.printf("\nSubmitting sbatch scripts to the cluster\n")

	scripts, err := p.Scripts()
	if err != nil {
		return 0, 0, err
	}
	ledger, err := slurm.ReadLedger(p.ledgerName())
	if err != nil {
		return 0, 0, err
	}

	done := map[string]bool{}
	if !resubmit {
		for _, job := range ledger.Latest() {
			done[job.Script] = job.Error == ""
		}
	}

	pending := map[ScriptKind][]string{}
	for _, fname := range scripts {
		if done[filepath.Base(fname)] {
			continue
		}
		k, _ := KindOf(fname)
		pending[k] = append(pending[k], fname)
	}

	if !resubmit {
		if n := len(ledger.Failed()); n > 0 {
			p.printf("%d scripts failed to submit last time.\n", n)
		}
	}

	for _, k := range scriptKinds {
		if len(pending[k]) == 0 {
			continue
		}
		ok, err := p.Asker.Ask(k.Question())
		if err != nil {
			return submitted, failed, err
		} else if !ok {
			continue
		}

		for _, fname := range pending[k] {
			job := slurm.Job{
				Script:    filepath.Base(fname),
				Submitted: time.Now().Format(time.RFC3339),
			}
			job.ID, err = p.Submitter.Submit(fname)
			if err != nil {
				job.Error = err.Error()
				p.Logger.Printf("Warning: %s", err.Error())
				failed++
			} else {
				p.printf("Submitted %s as job %s\n", job.Script, job.ID)
				submitted++
			}
			ledger.Add(job)
		}

		if err := ledger.Write(p.ledgerName()); err != nil {
			return submitted, failed, err
		}
	}

	return submitted, failed, nil
}

// Cleanup deletes the empty and failed-query slurm output files in the
// sbatch directory.
func (p *Pipeline) Cleanup() ([]string, error) {
	if err := p.Paths.CheckDirs([]string{simdir.Sbatch}); err != nil {
		return nil, err
	}
	p.printf("\nCleaning up sbatch output files\n")
	removed, err := slurm.Cleanup(p.dir(simdir.Sbatch))
	if err != nil {
		return removed, err
	}
	p.printf("Removed %d files.\n", len(removed))
	return removed, nil
}

// fileExists returns true if fname exists.
func fileExists(fname string) bool {
	_, err := os.Stat(fname)
	return err == nil
}
