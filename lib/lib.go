/*package lib contains the pre- and postprocessing steps run by snpost. Each
step works on one simulation directory: preprocessing writes and submits the
sbatch scripts that run burn_query, the SDF readers, and hdf5_pid_list, and
postprocessing collects their outputs into a single per-particle plotting
file. Almost all of the heavy lifting is done by lib/'s subpackages.
*/
package lib

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/phil-mansfield/snpost/lib/simdir"
	"github.com/phil-mansfield/snpost/lib/slurm"
)

// Version is the version of the software.
const Version = "1.0.0"

// LedgerName is the name of the job ledger in the sbatch directory.
const LedgerName = "jobs.yaml"

// Pipeline holds everything needed to process one simulation.
type Pipeline struct {
	Args  *Args
	Paths *simdir.Paths

	Asker     *Asker
	Runner    Runner
	Submitter slurm.Submitter

	// Out receives progress messages.
	Out    io.Writer
	Logger *log.Logger
}

// NewPipeline locates the directories of the simulation at head and returns
// a Pipeline which runs commands as subprocesses and talks to the user over
// stdin and stdout.
func NewPipeline(args *Args, head string) (*Pipeline, error) {
	paths, err := simdir.Find(head)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		Args:      args,
		Paths:     paths,
		Asker:     NewAsker(os.Stdin, os.Stdout, args.AssumeYes),
		Runner:    &ExecRunner{os.Stdout, os.Stderr},
		Submitter: &slurm.Sbatch{Command: args.Sbatch, Stdout: os.Stdout},
		Out:       os.Stdout,
		Logger:    log.Default(),
	}, nil
}

func (p *Pipeline) printf(format string, a ...interface{}) {
	fmt.Fprintf(p.Out, format, a...)
}

// reportPaths prints the directories which were found.
func (p *Pipeline) reportPaths() {
	for _, line := range p.Paths.Report() {
		p.printf("%s\n", line)
	}
}

func (p *Pipeline) makeDirs(names []string) error {
	made, found, err := p.Paths.MakeDirs(names)
	if err != nil {
		return err
	}
	p.printf("Made %d new directories, found %d existing.\n", made, found)
	return nil
}

func (p *Pipeline) dir(name string) string {
	dir, err := p.Paths.Dir(name)
	if err != nil {
		InternalErrorf(err.Error())
	}
	return dir
}

func (p *Pipeline) ledgerName() string {
	return filepath.Join(p.dir(simdir.Sbatch), LedgerName)
}
